package gtmctx

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/mendel-gtm/gtm-api/internal/cache"
	"github.com/mendel-gtm/gtm-api/internal/metrics"
	"github.com/mendel-gtm/gtm-api/internal/store"
)

// Directory maps tenant slugs to internal tenant keys.
type Directory struct {
	tenants TenantStore
	cache   *cache.Cache
	bundled []store.Tenant
	log     *zap.Logger
}

// NewDirectory creates a Directory. tenants may be nil, in which case every
// slug resolves as absent and List serves bundled.
func NewDirectory(tenants TenantStore, c *cache.Cache, bundled []store.Tenant, log *zap.Logger) *Directory {
	if log == nil {
		log = zap.NewNop()
	}
	return &Directory{tenants: tenants, cache: c, bundled: bundled, log: log.Named("directory")}
}

// Configured reports whether a remote tenant store is attached.
func (d *Directory) Configured() bool { return d.tenants != nil }

// Resolve returns the internal key of the active tenant with slug. ok is
// false when no store is configured, the slug is malformed, the lookup
// fails or the tenant is missing or inactive. None of these are errors.
func (d *Directory) Resolve(ctx context.Context, slug string) (key string, ok bool) {
	if d.tenants == nil || slug == "" {
		return "", false
	}
	if err := ValidateSlug(slug); err != nil {
		d.log.Debug("malformed tenant slug", zap.String("tenant", slug), zap.Error(err))
		metrics.TenantResolutionsTotal.WithLabelValues("invalid").Inc()
		return "", false
	}
	key, err := cache.GetOrCompute(d.cache, "tenant:"+slug, func() (string, error) {
		t, err := d.tenants.GetActiveBySlug(ctx, slug)
		if err != nil {
			return "", err
		}
		return t.ID, nil
	})
	switch {
	case err == nil:
		metrics.TenantResolutionsTotal.WithLabelValues("found").Inc()
		return key, true
	case errors.Is(err, store.ErrNotFound):
		d.log.Debug("tenant not found", zap.String("tenant", slug))
	default:
		d.log.Warn("tenant lookup failed", zap.String("tenant", slug), zap.Error(err))
	}
	metrics.TenantResolutionsTotal.WithLabelValues("absent").Inc()
	return "", false
}

// List returns the active tenants, or the bundled tenant list when the store
// is unconfigured, failing or empty.
func (d *Directory) List(ctx context.Context) []store.Tenant {
	if d.tenants != nil {
		tenants, err := d.tenants.ListActive(ctx)
		if err != nil {
			d.log.Warn("list tenants failed", zap.Error(err))
		} else if len(tenants) > 0 {
			return tenants
		}
	}
	out := make([]store.Tenant, len(d.bundled))
	copy(out, d.bundled)
	return out
}
