package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jhoicas/kardex-api/internal/application/creditnote"
	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/application/ports"
	"github.com/jhoicas/kardex-api/internal/application/purchasing"
	"github.com/jhoicas/kardex-api/internal/application/sales"
	"github.com/jhoicas/kardex-api/internal/application/transfer"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
	"github.com/jhoicas/kardex-api/internal/infrastructure/memory"
	"github.com/jhoicas/kardex-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/kardex-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/kardex-api/internal/interfaces/http"
	"github.com/jhoicas/kardex-api/pkg/config"
	"github.com/jhoicas/kardex-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		Name:  cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var (
		txRunner ports.TxRunner
		read     repository.Repos
	)
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		store := memory.NewStore()
		products, warehouses := store.SeedDemo(cfg.Storage.DemoTenant)
		txRunner, read = store, store.Repos()
		log.Warn().
			Str("demo_tenant", cfg.Storage.DemoTenant).
			Int("products", products).
			Int("warehouses", warehouses).
			Msg("almacenamiento en memoria solo para desarrollo y pruebas: catálogo demo cargado, los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.Migrate {
			if err := postgres.Migrate(ctx, pool, log); err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
		}
		txRunner, read = postgres.NewTxRunner(pool, log), postgres.NewRepos(pool, false)
	}

	var locker ports.Locker = ports.NopLocker{}
	if cfg.Redis.URL != "" {
		rdb, err := infraredis.NewClient(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		locker = infraredis.NewLocker(rdb, cfg.Redis.LockTTL, log)
	}

	app := httpRouter.NewApp(log, cfg.App.Name)
	httpRouter.Router(app, httpRouter.RouterDeps{
		InventoryUC:   inventory.NewUseCase(txRunner, read, log),
		OrderUC:       purchasing.NewOrderUseCase(txRunner, read, log),
		ReceiptUC:     purchasing.NewReceiptUseCase(txRunner, read, locker, log),
		SaleUC:        sales.NewSaleUseCase(txRunner, read, locker, log),
		CashSessionUC: sales.NewCashSessionUseCase(txRunner, read, log),
		TransferUC:    transfer.NewUseCase(txRunner, read, locker, log),
		CreditNoteUC:  creditnote.NewUseCase(txRunner, read, locker, log),
		JWTSecret:     cfg.JWT.Secret,
		AppName:       cfg.App.Name,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
