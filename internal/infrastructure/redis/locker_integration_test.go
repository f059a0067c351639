//go:build integration

package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/jhoicas/kardex-api/internal/application/ports"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/infrastructure/redis"
	"github.com/jhoicas/kardex-api/pkg/logger"
)

func TestLocker_SegundoObtainFallaHastaLiberar(t *testing.T) {
	ctx := context.Background()
	c, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(ctx) })

	url, err := c.ConnectionString(ctx)
	require.NoError(t, err)
	rdb, err := redis.NewClient(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	locker := redis.NewLocker(rdb, 5*time.Second, logger.Nop())
	key := ports.LockKey("sale", "s-1")

	release, err := locker.Obtain(ctx, key)
	require.NoError(t, err)

	_, err = locker.Obtain(ctx, key)
	assert.ErrorIs(t, err, domain.ErrConflict)

	release()
	release2, err := locker.Obtain(ctx, key)
	require.NoError(t, err)
	release2()
}
