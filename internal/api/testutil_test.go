package api_test

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/mendel-gtm/gtm-api/internal/api"
	"github.com/mendel-gtm/gtm-api/internal/cache"
	"github.com/mendel-gtm/gtm-api/internal/config"
	"github.com/mendel-gtm/gtm-api/internal/fallback"
	"github.com/mendel-gtm/gtm-api/internal/generate"
	"github.com/mendel-gtm/gtm-api/internal/gtmctx"
	"github.com/mendel-gtm/gtm-api/internal/llm"
	"github.com/mendel-gtm/gtm-api/internal/store"
	"github.com/mendel-gtm/gtm-api/internal/testutil"
)

// fakeGenerator answers every prompt with reply, or fails with err.
type fakeGenerator struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts []string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string, _ int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func (f *fakeGenerator) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

// testEnv holds the router and the pieces tests poke at.
type testEnv struct {
	Router   http.Handler
	Contexts *gtmctx.Provider
	Cache    *cache.Cache
	Gen      *fakeGenerator
}

type envOptions struct {
	// gen is nil for a service with generation disabled.
	gen *fakeGenerator
	// sql seeds an in-memory SQLite store for tenant "acme".
	sql bool
}

// newTestEnv wires the full API router over bundled data, or over a seeded
// SQLite store when opts.sql is set.
func newTestEnv(t *testing.T, opts envOptions) *testEnv {
	t.Helper()
	data, err := fallback.Load()
	if err != nil {
		t.Fatalf("load bundled data: %v", err)
	}

	var (
		tenants  gtmctx.TenantStore
		contexts gtmctx.ContextStore
	)
	if opts.sql {
		db := testutil.NewTestDB(t)
		seed := testutil.NewSeeder(t, db)
		tid := seed.Tenant("acme", "Acme", true)
		seed.Competitor(tid, store.Competitor{Name: "Rival Pay", Weaknesses: store.StringList{"sin soporte local"}})
		tenants = store.NewTenantStore(db)
		contexts = store.NewContextStore(db)
	}

	c := cache.New(0, nil)
	log := zaptest.NewLogger(t)
	provider := gtmctx.NewProvider(tenants, contexts, data, c, gtmctx.Options{
		DefaultTenant: "mendel", DefaultCountry: "MX", TaxRecoveryCountry: "MX",
	}, log)

	var gen llm.Generator
	if opts.gen != nil {
		gen = opts.gen
	}
	svc := generate.NewService(provider, gen, generate.Options{
		MaxTokens:       config.MaxTokens{Email: 1024, Research: 2048, Scoring: 1024, Generate: 1024, Snippet: 150},
		DefaultLanguage: "es",
	}, log)

	return &testEnv{
		Router:   api.NewAPIRouter(api.Deps{Contexts: provider, Generator: svc, Log: log}),
		Contexts: provider,
		Cache:    c,
		Gen:      opts.gen,
	}
}
