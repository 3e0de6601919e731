package tenant

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"go-timeclock/internal/shared/apperror"
	"go-timeclock/internal/shared/connection"
)

var ErrUnknownTenant = apperror.New(
	apperror.CodeNotFound,
	"unknown tenant",
	http.StatusNotFound,
)

const (
	dsnCachePrefix = "tenant:dsn:"
	dsnCacheTTL    = 10 * time.Minute
	openRetries    = 3
)

// Router maps a tenant slug to the database holding that tenant's rows.
// Company-level isolation inside a shard stays row-based; see Scope.
type Router interface {
	Resolve(ctx context.Context, tenant string) (*gorm.DB, error)
}

// DirectoryFunc is the authoritative slug-to-DSN lookup. The redis layer
// in front of it only absorbs repeated resolutions.
type DirectoryFunc func(ctx context.Context, tenant string) (string, error)

// EnvDirectory resolves tenants from TENANT_DSN_<SLUG> environment
// variables, the deployment's simplest directory.
func EnvDirectory() DirectoryFunc {
	return func(ctx context.Context, tenant string) (string, error) {
		key := "TENANT_DSN_" + strings.ToUpper(strings.ReplaceAll(tenant, "-", "_"))
		dsn := os.Getenv(key)
		if dsn == "" {
			return "", ErrUnknownTenant
		}
		return dsn, nil
	}
}

type resolver struct {
	directory DirectoryFunc
	cache     *redis.Client
	group     singleflight.Group
	logger    *zap.Logger

	openFn func(dsn string, maxRetries int) (*gorm.DB, error)

	mu      sync.RWMutex
	handles map[string]*gorm.DB
}

func NewResolver(directory DirectoryFunc, cache *redis.Client, logger ...*zap.Logger) Router {
	l := zap.L().Named("tenant.resolver")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("tenant.resolver")
	}
	return &resolver{
		directory: directory,
		cache:     cache,
		logger:    l,
		openFn:    connection.ConnectGORMDSNWithRetry,
		handles:   make(map[string]*gorm.DB),
	}
}

// Resolve returns the gorm handle for the tenant's shard, opening it at
// most once. Concurrent first resolutions of the same tenant collapse
// into a single directory lookup and connection attempt.
func (r *resolver) Resolve(ctx context.Context, tenant string) (*gorm.DB, error) {
	if tenant == "" {
		return nil, ErrUnknownTenant
	}

	r.mu.RLock()
	if db, ok := r.handles[tenant]; ok {
		r.mu.RUnlock()
		return db, nil
	}
	r.mu.RUnlock()

	v, err, _ := r.group.Do(tenant, func() (any, error) {
		r.mu.RLock()
		if db, ok := r.handles[tenant]; ok {
			r.mu.RUnlock()
			return db, nil
		}
		r.mu.RUnlock()

		dsn, err := r.lookupDSN(ctx, tenant)
		if err != nil {
			return nil, err
		}

		db, err := r.openFn(dsn, openRetries)
		if err != nil {
			return nil, apperror.Wrap(err, apperror.CodeStorageUnavailable,
				fmt.Sprintf("tenant %s shard is unreachable", tenant),
				http.StatusServiceUnavailable)
		}

		r.mu.Lock()
		r.handles[tenant] = db
		r.mu.Unlock()

		r.logger.Info("tenant shard connected", zap.String("tenant", tenant))
		return db, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*gorm.DB), nil
}

func (r *resolver) lookupDSN(ctx context.Context, tenant string) (string, error) {
	cacheKey := dsnCachePrefix + tenant

	if r.cache != nil {
		if dsn, err := r.cache.Get(ctx, cacheKey).Result(); err == nil && dsn != "" {
			return dsn, nil
		}
	}

	dsn, err := r.directory(ctx, tenant)
	if err != nil {
		return "", err
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, cacheKey, dsn, dsnCacheTTL).Err(); err != nil {
			r.logger.Warn("tenant dsn cache write failed",
				zap.String("tenant", tenant),
				zap.Error(err),
			)
		}
	}
	return dsn, nil
}

// Scope restricts a query to one company's rows. Row-level scoping is the
// isolation model inside a shard; every repository query runs under it or
// carries its own company_id predicate.
func Scope(companyID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("company_id = ?", companyID)
	}
}
