package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/mendel-gtm/gtm-api/internal/store"
	"github.com/mendel-gtm/gtm-api/internal/testutil"
)

func newContextTestEnv(t *testing.T) (*store.ContextStore, *store.TenantStore, *testutil.Seeder) {
	t.Helper()
	db := testutil.NewTestDB(t)
	return store.NewContextStore(db), store.NewTenantStore(db), testutil.NewSeeder(t, db)
}

func TestTenantStore_GetActiveBySlug(t *testing.T) {
	_, ts, seed := newContextTestEnv(t)
	ctx := context.Background()

	id := seed.Tenant("mendel", "Mendel", true)
	seed.Tenant("dormant", "Dormant", false)

	got, err := ts.GetActiveBySlug(ctx, "mendel")
	if err != nil {
		t.Fatalf("GetActiveBySlug: %v", err)
	}
	if got.ID != id {
		t.Errorf("ID = %q, want %q", got.ID, id)
	}

	if _, err := ts.GetActiveBySlug(ctx, "dormant"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetActiveBySlug(inactive) = %v, want ErrNotFound", err)
	}
	if _, err := ts.GetActiveBySlug(ctx, "nope"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetActiveBySlug(missing) = %v, want ErrNotFound", err)
	}
}

func TestTenantStore_ListActive(t *testing.T) {
	_, ts, seed := newContextTestEnv(t)
	seed.Tenant("zeta", "Zeta", true)
	seed.Tenant("alpha", "Alpha", true)
	seed.Tenant("off", "Off", false)

	tenants, err := ts.ListActive(context.Background())
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(tenants) != 2 {
		t.Fatalf("len = %d, want 2", len(tenants))
	}
	if tenants[0].Slug != "alpha" {
		t.Errorf("first = %q, want %q", tenants[0].Slug, "alpha")
	}
}

func TestContextStore_Personas_ScansLists(t *testing.T) {
	cs, _, seed := newContextTestEnv(t)
	tid := seed.Tenant("mendel", "Mendel", true)
	seed.Persona(tid, store.Persona{
		Slug:   "CFO",
		Role:   "Chief Financial Officer",
		Titles: store.StringList{"CFO", "Director de Finanzas"},
		Pains:  store.StringList{"Visibilidad"},
	})

	personas, err := cs.Personas(context.Background(), tid)
	if err != nil {
		t.Fatalf("Personas: %v", err)
	}
	if len(personas) != 1 {
		t.Fatalf("len = %d, want 1", len(personas))
	}
	p := personas[0]
	if len(p.Titles) != 2 || p.Titles[1] != "Director de Finanzas" {
		t.Errorf("Titles = %v", p.Titles)
	}
	// A nil list is written as [] and must come back empty, not nil-panicking.
	if p.Questions == nil || len(p.Questions) != 0 {
		t.Errorf("Questions = %#v, want empty list", p.Questions)
	}
}

func TestContextStore_TenantScoping(t *testing.T) {
	cs, _, seed := newContextTestEnv(t)
	a := seed.Tenant("a", "A", true)
	b := seed.Tenant("b", "B", true)
	seed.Competitor(a, store.Competitor{Name: "Clara"})
	seed.Competitor(b, store.Competitor{Name: "Jeeves"})

	got, err := cs.Competitors(context.Background(), a)
	if err != nil {
		t.Fatalf("Competitors: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Clara" {
		t.Errorf("Competitors(a) = %+v", got)
	}
}

func TestContextStore_InactiveRowsHidden(t *testing.T) {
	cs, _, seed := newContextTestEnv(t)
	tid := seed.Tenant("mendel", "Mendel", true)
	seed.Signal(tid, store.Signal{Name: "Ronda de inversion", Category: "funding", Priority: 5})
	seed.Deactivate("signals", tid)

	got, err := cs.Signals(context.Background(), tid)
	if err != nil {
		t.Fatalf("Signals: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestContextStore_ObjectionsOrderedByPriority(t *testing.T) {
	cs, _, seed := newContextTestEnv(t)
	tid := seed.Tenant("mendel", "Mendel", true)
	seed.Objection(tid, store.Objection{Category: "precio", Objection: "Es caro", Priority: 1})
	seed.Objection(tid, store.Objection{Category: "timing", Objection: "No es momento", Priority: 9})

	got, err := cs.Objections(context.Background(), tid)
	if err != nil {
		t.Fatalf("Objections: %v", err)
	}
	if len(got) != 2 || got[0].Category != "timing" {
		t.Errorf("Objections = %+v, want timing first", got)
	}
}

func TestContextStore_Documents(t *testing.T) {
	cs, _, seed := newContextTestEnv(t)
	tid := seed.Tenant("mendel", "Mendel", true)

	if _, err := cs.ICP(context.Background(), tid); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("ICP before seed = %v, want ErrNotFound", err)
	}

	var icp store.ICP
	icp.Firmographics.Size.SweetSpot = "500-5000"
	icp.ScoringCriteria.HasERP = 10
	seed.Document("icp_configs", tid, icp)

	got, err := cs.ICP(context.Background(), tid)
	if err != nil {
		t.Fatalf("ICP: %v", err)
	}
	if got.Firmographics.Size.SweetSpot != "500-5000" || got.ScoringCriteria.HasERP != 10 {
		t.Errorf("ICP = %+v", got)
	}
}

func TestContextStore_GlobalValueProps_NotFound(t *testing.T) {
	cs, _, seed := newContextTestEnv(t)
	tid := seed.Tenant("mendel", "Mendel", true)

	if _, err := cs.GlobalValueProps(context.Background(), tid); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GlobalValueProps = %v, want ErrNotFound", err)
	}
}

func TestStringList_Scan(t *testing.T) {
	tests := []struct {
		name string
		src  any
		want int
	}{
		{"nil", nil, 0},
		{"empty string", "", 0},
		{"text", `["a","b"]`, 2},
		{"bytes", []byte(`["a"]`), 1},
		{"json null", "null", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var l store.StringList
			if err := l.Scan(tt.src); err != nil {
				t.Fatalf("Scan: %v", err)
			}
			if len(l) != tt.want {
				t.Errorf("len = %d, want %d", len(l), tt.want)
			}
		})
	}

	var l store.StringList
	if err := l.Scan(42); err == nil {
		t.Error("Scan(int) succeeded, want error")
	}
}
