// Package gtmctx resolves tenant-scoped sales context. Lookups go to the
// remote store first and degrade to the bundled dataset on any miss, so a
// prompt can always be assembled.
package gtmctx

import (
	"context"

	"github.com/mendel-gtm/gtm-api/internal/store"
)

// Source looks up context for a tenant slug. A missing tenant, record or
// match is reported as store.ErrNotFound.
type Source interface {
	Persona(ctx context.Context, tenant, name string) (store.Persona, error)
	ValueProps(ctx context.Context, tenant, country string) (store.ValueProps, error)
	ICP(ctx context.Context, tenant string) (store.ICP, error)
	IndustrySnippet(ctx context.Context, tenant, industry string) (store.IndustrySnippet, error)
	EmailFramework(ctx context.Context, tenant string) (store.EmailFramework, error)
	Competitors(ctx context.Context, tenant, name string) ([]store.Competitor, error)
	Objections(ctx context.Context, tenant, category string) ([]store.Objection, error)
	CaseStudies(ctx context.Context, tenant, industry string) ([]store.CaseStudy, error)
	Signals(ctx context.Context, tenant, category string) ([]store.Signal, error)
	Playbook(ctx context.Context, tenant string) ([]store.PlaybookEntry, error)
	Features(ctx context.Context, tenant, slug string) ([]store.ProductFeature, error)
	Templates(ctx context.Context, tenant, typ string) ([]store.EmailTemplate, error)
}

// TenantStore is the subset of store.TenantStore the directory needs.
type TenantStore interface {
	GetActiveBySlug(ctx context.Context, slug string) (*store.Tenant, error)
	ListActive(ctx context.Context) ([]store.Tenant, error)
}

// ContextStore is the subset of store.ContextStore the remote source needs.
type ContextStore interface {
	Personas(ctx context.Context, tenantID string) ([]store.Persona, error)
	CountryValueProps(ctx context.Context, tenantID string) ([]store.CountryValueProps, error)
	GlobalValueProps(ctx context.Context, tenantID string) (*store.GlobalValueProps, error)
	IndustrySnippets(ctx context.Context, tenantID string) ([]store.IndustrySnippet, error)
	ICP(ctx context.Context, tenantID string) (*store.ICP, error)
	EmailFramework(ctx context.Context, tenantID string) (*store.EmailFramework, error)
	Competitors(ctx context.Context, tenantID string) ([]store.Competitor, error)
	Objections(ctx context.Context, tenantID string) ([]store.Objection, error)
	CaseStudies(ctx context.Context, tenantID string) ([]store.CaseStudy, error)
	Signals(ctx context.Context, tenantID string) ([]store.Signal, error)
	Playbook(ctx context.Context, tenantID string) ([]store.PlaybookEntry, error)
	Features(ctx context.Context, tenantID string) ([]store.ProductFeature, error)
	Templates(ctx context.Context, tenantID string) ([]store.EmailTemplate, error)
}

var (
	_ TenantStore  = (*store.TenantStore)(nil)
	_ ContextStore = (*store.ContextStore)(nil)
)
