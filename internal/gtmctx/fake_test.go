package gtmctx_test

import (
	"context"
	"sync"

	"github.com/mendel-gtm/gtm-api/internal/store"
)

// fakeStore serves one tenant ("acme" -> "tenant-1") and canned rows. When
// err is set every content query fails while the tenant still resolves.
type fakeStore struct {
	mu    sync.Mutex
	calls map[string]int

	err       error
	tenantErr error

	personas  []store.Persona
	countries []store.CountryValueProps
	global    *store.GlobalValueProps
	snippets  []store.IndustrySnippet
	competing []store.Competitor
}

func newFakeStore() *fakeStore {
	return &fakeStore{calls: make(map[string]int)}
}

func (f *fakeStore) hit(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	return f.err
}

func (f *fakeStore) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeStore) GetActiveBySlug(_ context.Context, slug string) (*store.Tenant, error) {
	f.mu.Lock()
	f.calls["tenant"]++
	f.mu.Unlock()
	if f.tenantErr != nil {
		return nil, f.tenantErr
	}
	if slug != "acme" {
		return nil, store.ErrNotFound
	}
	return &store.Tenant{ID: "tenant-1", Slug: "acme", Name: "Acme", Active: true}, nil
}

func (f *fakeStore) ListActive(context.Context) ([]store.Tenant, error) {
	if f.tenantErr != nil {
		return nil, f.tenantErr
	}
	return []store.Tenant{{ID: "tenant-1", Slug: "acme", Name: "Acme", Active: true}}, nil
}

func (f *fakeStore) Personas(context.Context, string) ([]store.Persona, error) {
	return f.personas, f.hit("personas")
}

func (f *fakeStore) CountryValueProps(context.Context, string) ([]store.CountryValueProps, error) {
	return f.countries, f.hit("countries")
}

func (f *fakeStore) GlobalValueProps(context.Context, string) (*store.GlobalValueProps, error) {
	if err := f.hit("global"); err != nil {
		return nil, err
	}
	if f.global == nil {
		return nil, store.ErrNotFound
	}
	return f.global, nil
}

func (f *fakeStore) IndustrySnippets(context.Context, string) ([]store.IndustrySnippet, error) {
	return f.snippets, f.hit("industries")
}

func (f *fakeStore) ICP(context.Context, string) (*store.ICP, error) {
	if err := f.hit("icp"); err != nil {
		return nil, err
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) EmailFramework(context.Context, string) (*store.EmailFramework, error) {
	if err := f.hit("emailframework"); err != nil {
		return nil, err
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) Competitors(context.Context, string) ([]store.Competitor, error) {
	return f.competing, f.hit("competitors")
}

func (f *fakeStore) Objections(context.Context, string) ([]store.Objection, error) {
	return nil, f.hit("objections")
}

func (f *fakeStore) CaseStudies(context.Context, string) ([]store.CaseStudy, error) {
	return nil, f.hit("casestudies")
}

func (f *fakeStore) Signals(context.Context, string) ([]store.Signal, error) {
	return nil, f.hit("signals")
}

func (f *fakeStore) Playbook(context.Context, string) ([]store.PlaybookEntry, error) {
	return nil, f.hit("playbook")
}

func (f *fakeStore) Features(context.Context, string) ([]store.ProductFeature, error) {
	return nil, f.hit("features")
}

func (f *fakeStore) Templates(context.Context, string) ([]store.EmailTemplate, error) {
	return nil, f.hit("templates")
}
