package entity

import "fmt"

// Series de correlativos por tipo de documento.
const (
	SeriesPurchaseOrder = "OC"
	SeriesReceipt       = "REC"
	SeriesSale          = "VEN"
	SeriesTransfer      = "TRF"
	SeriesCreditNote    = "NC"
)

// DocumentCode arma el código legible del documento (OC-00001).
func DocumentCode(series string, n int64) string {
	return fmt.Sprintf("%s-%05d", series, n)
}
