package tenant

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestResolver_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("cold path hits the directory and caches the dsn", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet("tenant:dsn:acme").RedisNil()
		mock.ExpectSet("tenant:dsn:acme", "postgres://acme", 10*time.Minute).SetVal("OK")

		lookups := 0
		directory := func(ctx context.Context, tenant string) (string, error) {
			lookups++
			assert.Equal(t, "acme", tenant)
			return "postgres://acme", nil
		}

		r := NewResolver(directory, rdb).(*resolver)
		shard := &gorm.DB{}
		var openedDSN string
		r.openFn = func(dsn string, maxRetries int) (*gorm.DB, error) {
			openedDSN = dsn
			return shard, nil
		}

		db, err := r.Resolve(ctx, "acme")
		require.NoError(t, err)
		assert.Same(t, shard, db)
		assert.Equal(t, "postgres://acme", openedDSN)
		assert.Equal(t, 1, lookups)
		assert.NoError(t, mock.ExpectationsWereMet())

		// Second resolve reuses the in-process handle, no redis traffic.
		again, err := r.Resolve(ctx, "acme")
		require.NoError(t, err)
		assert.Same(t, shard, again)
		assert.Equal(t, 1, lookups)
	})

	t.Run("warm cache skips the directory", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet("tenant:dsn:acme").SetVal("postgres://cached")

		directory := func(ctx context.Context, tenant string) (string, error) {
			t.Fatal("directory must not be consulted on a cache hit")
			return "", nil
		}

		r := NewResolver(directory, rdb).(*resolver)
		r.openFn = func(dsn string, maxRetries int) (*gorm.DB, error) {
			assert.Equal(t, "postgres://cached", dsn)
			return &gorm.DB{}, nil
		}

		_, err := r.Resolve(ctx, "acme")
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown tenant", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet("tenant:dsn:ghost").RedisNil()

		r := NewResolver(EnvDirectory(), rdb).(*resolver)
		_, err := r.Resolve(ctx, "ghost")
		assert.ErrorIs(t, err, ErrUnknownTenant)
	})

	t.Run("empty tenant", func(t *testing.T) {
		r := NewResolver(EnvDirectory(), nil).(*resolver)
		_, err := r.Resolve(ctx, "")
		assert.ErrorIs(t, err, ErrUnknownTenant)
	})
}

func TestEnvDirectory(t *testing.T) {
	t.Setenv("TENANT_DSN_ACME_WEST", "postgres://west")

	directory := EnvDirectory()
	dsn, err := directory(context.Background(), "acme-west")
	require.NoError(t, err)
	assert.Equal(t, "postgres://west", dsn)

	_, err = directory(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrUnknownTenant)
}
