package gtmctx

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/mendel-gtm/gtm-api/internal/cache"
	"github.com/mendel-gtm/gtm-api/internal/fallback"
	"github.com/mendel-gtm/gtm-api/internal/metrics"
	"github.com/mendel-gtm/gtm-api/internal/store"
)

// FallbackSource asks primary first and secondary on any primary error.
type FallbackSource struct {
	primary   Source
	secondary Source
	log       *zap.Logger
}

func NewFallbackSource(primary, secondary Source, log *zap.Logger) *FallbackSource {
	if log == nil {
		log = zap.NewNop()
	}
	return &FallbackSource{primary: primary, secondary: secondary, log: log.Named("context")}
}

// withFallback is the single degradation policy for every entity kind.
// A plain miss is expected and logged at debug; anything else is an
// upstream failure and logged as a warning.
func withFallback[T any](f *FallbackSource, kind, tenant string, call func(Source) (T, error)) (T, error) {
	v, err := call(f.primary)
	if err == nil {
		return v, nil
	}
	if errors.Is(err, store.ErrNotFound) {
		f.log.Debug("serving bundled context", zap.String("kind", kind), zap.String("tenant", tenant))
	} else {
		f.log.Warn("remote context lookup failed, serving bundled context",
			zap.String("kind", kind), zap.String("tenant", tenant), zap.Error(err))
	}
	metrics.ContextFallbacksTotal.WithLabelValues(kind).Inc()
	return call(f.secondary)
}

func (f *FallbackSource) Persona(ctx context.Context, tenant, name string) (store.Persona, error) {
	return withFallback(f, "persona", tenant, func(src Source) (store.Persona, error) { return src.Persona(ctx, tenant, name) })
}

func (f *FallbackSource) ValueProps(ctx context.Context, tenant, country string) (store.ValueProps, error) {
	return withFallback(f, "valueprops", tenant, func(src Source) (store.ValueProps, error) { return src.ValueProps(ctx, tenant, country) })
}

func (f *FallbackSource) ICP(ctx context.Context, tenant string) (store.ICP, error) {
	return withFallback(f, "icp", tenant, func(src Source) (store.ICP, error) { return src.ICP(ctx, tenant) })
}

func (f *FallbackSource) IndustrySnippet(ctx context.Context, tenant, industry string) (store.IndustrySnippet, error) {
	return withFallback(f, "industry", tenant, func(src Source) (store.IndustrySnippet, error) { return src.IndustrySnippet(ctx, tenant, industry) })
}

func (f *FallbackSource) EmailFramework(ctx context.Context, tenant string) (store.EmailFramework, error) {
	return withFallback(f, "emailframework", tenant, func(src Source) (store.EmailFramework, error) { return src.EmailFramework(ctx, tenant) })
}

func (f *FallbackSource) Competitors(ctx context.Context, tenant, name string) ([]store.Competitor, error) {
	return withFallback(f, "competitors", tenant, func(src Source) ([]store.Competitor, error) { return src.Competitors(ctx, tenant, name) })
}

func (f *FallbackSource) Objections(ctx context.Context, tenant, category string) ([]store.Objection, error) {
	return withFallback(f, "objections", tenant, func(src Source) ([]store.Objection, error) { return src.Objections(ctx, tenant, category) })
}

func (f *FallbackSource) CaseStudies(ctx context.Context, tenant, industry string) ([]store.CaseStudy, error) {
	return withFallback(f, "casestudies", tenant, func(src Source) ([]store.CaseStudy, error) { return src.CaseStudies(ctx, tenant, industry) })
}

func (f *FallbackSource) Signals(ctx context.Context, tenant, category string) ([]store.Signal, error) {
	return withFallback(f, "signals", tenant, func(src Source) ([]store.Signal, error) { return src.Signals(ctx, tenant, category) })
}

func (f *FallbackSource) Playbook(ctx context.Context, tenant string) ([]store.PlaybookEntry, error) {
	return withFallback(f, "playbook", tenant, func(src Source) ([]store.PlaybookEntry, error) { return src.Playbook(ctx, tenant) })
}

func (f *FallbackSource) Features(ctx context.Context, tenant, slug string) ([]store.ProductFeature, error) {
	return withFallback(f, "features", tenant, func(src Source) ([]store.ProductFeature, error) { return src.Features(ctx, tenant, slug) })
}

func (f *FallbackSource) Templates(ctx context.Context, tenant, typ string) ([]store.EmailTemplate, error) {
	return withFallback(f, "templates", tenant, func(src Source) ([]store.EmailTemplate, error) { return src.Templates(ctx, tenant, typ) })
}

var _ Source = (*FallbackSource)(nil)

// Provider is the context facade used by generation and HTTP handlers. Its
// lookups never fail: every path ends in bundled data.
type Provider struct {
	src           *FallbackSource
	dir           *Directory
	cache         *cache.Cache
	defaultTenant string
	log           *zap.Logger
}

// Options are the tenant and market defaults a Provider applies.
type Options struct {
	DefaultTenant      string
	DefaultCountry     string
	TaxRecoveryCountry string
}

// NewProvider wires the remote source over tenants and contexts in front of
// the bundled data. Pass nil stores to run on bundled data only.
func NewProvider(tenants TenantStore, contexts ContextStore, data *fallback.Dataset, c *cache.Cache, opts Options, log *zap.Logger) *Provider {
	if log == nil {
		log = zap.NewNop()
	}
	dir := NewDirectory(tenants, c, data.Tenants, log)
	remote := NewRemoteSource(dir, contexts, c, opts.DefaultCountry, opts.TaxRecoveryCountry)
	static := NewStaticSource(data, opts.DefaultCountry, opts.TaxRecoveryCountry)
	return &Provider{
		src:           NewFallbackSource(remote, static, log),
		dir:           dir,
		cache:         c,
		defaultTenant: opts.DefaultTenant,
		log:           log,
	}
}

// Tenant returns slug, or the default tenant when slug is blank.
func (p *Provider) Tenant(slug string) string {
	if slug == "" {
		return p.defaultTenant
	}
	return slug
}

// RemoteConfigured reports whether a remote store backs the provider.
func (p *Provider) RemoteConfigured() bool { return p.dir.Configured() }

// Tenants lists the tenants the provider can serve.
func (p *Provider) Tenants(ctx context.Context) []store.Tenant { return p.dir.List(ctx) }

// ClearCache drops every cached lookup. Intended for use after the remote
// data is edited out of band.
func (p *Provider) ClearCache() {
	p.cache.Clear()
	p.log.Info("context cache cleared")
}

// orZero unwraps a lookup that only fails if the bundled source itself is
// broken, which is logged and answered with the zero value.
func orZero[T any](p *Provider, kind string, v T, err error) T {
	if err != nil {
		p.log.Error("bundled context lookup failed", zap.String("kind", kind), zap.Error(err))
	}
	return v
}

func (p *Provider) Persona(ctx context.Context, tenant, name string) store.Persona {
	v, err := p.src.Persona(ctx, p.Tenant(tenant), name)
	return orZero(p, "persona", v, err)
}

func (p *Provider) ValueProps(ctx context.Context, tenant, country string) store.ValueProps {
	v, err := p.src.ValueProps(ctx, p.Tenant(tenant), country)
	return orZero(p, "valueprops", v, err)
}

func (p *Provider) ICP(ctx context.Context, tenant string) store.ICP {
	v, err := p.src.ICP(ctx, p.Tenant(tenant))
	return orZero(p, "icp", v, err)
}

func (p *Provider) IndustrySnippet(ctx context.Context, tenant, industry string) store.IndustrySnippet {
	v, err := p.src.IndustrySnippet(ctx, p.Tenant(tenant), industry)
	return orZero(p, "industry", v, err)
}

func (p *Provider) EmailFramework(ctx context.Context, tenant string) store.EmailFramework {
	v, err := p.src.EmailFramework(ctx, p.Tenant(tenant))
	return orZero(p, "emailframework", v, err)
}

func (p *Provider) Competitors(ctx context.Context, tenant, name string) []store.Competitor {
	v, err := p.src.Competitors(ctx, p.Tenant(tenant), name)
	return orZero(p, "competitors", v, err)
}

func (p *Provider) Objections(ctx context.Context, tenant, category string) []store.Objection {
	v, err := p.src.Objections(ctx, p.Tenant(tenant), category)
	return orZero(p, "objections", v, err)
}

func (p *Provider) CaseStudies(ctx context.Context, tenant, industry string) []store.CaseStudy {
	v, err := p.src.CaseStudies(ctx, p.Tenant(tenant), industry)
	return orZero(p, "casestudies", v, err)
}

func (p *Provider) Signals(ctx context.Context, tenant, category string) []store.Signal {
	v, err := p.src.Signals(ctx, p.Tenant(tenant), category)
	return orZero(p, "signals", v, err)
}

func (p *Provider) Playbook(ctx context.Context, tenant string) []store.PlaybookEntry {
	v, err := p.src.Playbook(ctx, p.Tenant(tenant))
	return orZero(p, "playbook", v, err)
}

func (p *Provider) Features(ctx context.Context, tenant, slug string) []store.ProductFeature {
	v, err := p.src.Features(ctx, p.Tenant(tenant), slug)
	return orZero(p, "features", v, err)
}

func (p *Provider) Templates(ctx context.Context, tenant, typ string) []store.EmailTemplate {
	v, err := p.src.Templates(ctx, p.Tenant(tenant), typ)
	return orZero(p, "templates", v, err)
}
