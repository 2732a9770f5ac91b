package testutil

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mendel-gtm/gtm-api/internal/db"
	"github.com/mendel-gtm/gtm-api/internal/store"
	_ "modernc.org/sqlite"
)

// NewTestDB opens an in-memory SQLite DB and runs all goose migrations.
func NewTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	// Shared cache keeps every pool connection on the same in-memory
	// database; the test name keeps databases apart between tests.
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared&_busy_timeout=5000"
	conn, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("open in-memory sqlite: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	if _, err := db.Migrate(conn, "sqlite3"); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return conn
}

// Seeder inserts tenant-scoped fixture rows.
type Seeder struct {
	t  *testing.T
	db *sqlx.DB
}

func NewSeeder(t *testing.T, db *sqlx.DB) *Seeder {
	return &Seeder{t: t, db: db}
}

func (s *Seeder) exec(query string, args ...any) {
	s.t.Helper()
	if _, err := s.db.ExecContext(context.Background(), s.db.Rebind(query), args...); err != nil {
		s.t.Fatalf("seed: %v\n%s", err, query)
	}
}

// Tenant creates a tenant and returns its internal key.
func (s *Seeder) Tenant(slug, name string, active bool) string {
	s.t.Helper()
	id := uuid.New().String()
	s.exec(`INSERT INTO tenants (id, slug, name, active) VALUES (?, ?, ?, ?)`, id, slug, name, active)
	return id
}

// Persona inserts an active persona row.
func (s *Seeder) Persona(tenantID string, p store.Persona) {
	s.t.Helper()
	s.exec(`INSERT INTO personas (id, tenant_id, slug, role, titles, pains, cares_about, questions,
		objections, responsibilities, reports_to) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), tenantID, p.Slug, p.Role, p.Titles, p.Pains, p.CaresAbout, p.Questions,
		p.Objections, p.Responsibilities, p.ReportsTo)
}

// CountryValueProps inserts an active market row.
func (s *Seeder) CountryValueProps(tenantID string, c store.CountryValueProps) {
	s.t.Helper()
	s.exec(`INSERT INTO country_value_props (id, tenant_id, country_code, country_name,
		specific_value_props, unique_features, compliance_notes, metrics) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), tenantID, c.CountryCode, c.CountryName, c.SpecificValueProps,
		c.UniqueFeatures, c.ComplianceNotes, c.Metrics)
}

// GlobalValueProps inserts the tenant-wide value props row.
func (s *Seeder) GlobalValueProps(tenantID string, g store.GlobalValueProps) {
	s.t.Helper()
	s.exec(`INSERT INTO global_value_props (tenant_id, company_name, company_description,
		core_value_props, differentiators, reference_clients, features) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		tenantID, g.CompanyName, g.CompanyDescription, g.CoreValueProps, g.Differentiators,
		g.ReferenceClients, g.Features)
}

// IndustrySnippet inserts an active industry snippet row.
func (s *Seeder) IndustrySnippet(tenantID string, in store.IndustrySnippet) {
	s.t.Helper()
	s.exec(`INSERT INTO industry_snippets (id, tenant_id, slug, pains, reference) VALUES (?, ?, ?, ?, ?)`,
		uuid.New().String(), tenantID, in.Slug, in.Pains, in.Reference)
}

// Document stores v as the tenant's JSON document in table
// (icp_configs or email_frameworks).
func (s *Seeder) Document(table, tenantID string, v any) {
	s.t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		s.t.Fatalf("marshal %s document: %v", table, err)
	}
	s.exec(`INSERT INTO `+table+` (tenant_id, data) VALUES (?, ?)`, tenantID, string(b))
}

// Competitor inserts an active competitor row.
func (s *Seeder) Competitor(tenantID string, c store.Competitor) {
	s.t.Helper()
	s.exec(`INSERT INTO competitors (id, tenant_id, name, tier, description, strengths, weaknesses,
		positioning, when_we_win, sort_order) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), tenantID, c.Name, c.Tier, c.Description, c.Strengths, c.Weaknesses,
		c.Positioning, c.WhenWeWin, c.SortOrder)
}

// Objection inserts an active objection row.
func (s *Seeder) Objection(tenantID string, o store.Objection) {
	s.t.Helper()
	s.exec(`INSERT INTO objections (id, tenant_id, category, objection, response, priority)
		VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), tenantID, o.Category, o.Objection, o.Response, o.Priority)
}

// CaseStudy inserts an active case study row.
func (s *Seeder) CaseStudy(tenantID string, c store.CaseStudy) {
	s.t.Helper()
	s.exec(`INSERT INTO case_studies (id, tenant_id, client_name, industry, country, challenge,
		solution, results, quote, sort_order) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), tenantID, c.ClientName, c.Industry, c.Country, c.Challenge,
		c.Solution, c.Results, c.Quote, c.SortOrder)
}

// Signal inserts an active signal row.
func (s *Seeder) Signal(tenantID string, sig store.Signal) {
	s.t.Helper()
	s.exec(`INSERT INTO signals (id, tenant_id, name, category, description, pain_mapping,
		talk_track, priority) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), tenantID, sig.Name, sig.Category, sig.Description, sig.PainMapping,
		sig.TalkTrack, sig.Priority)
}

// Deactivate flips the active flag off for every row of table owned by tenantID.
func (s *Seeder) Deactivate(table, tenantID string) {
	s.t.Helper()
	s.exec(`UPDATE `+table+` SET active = ? WHERE tenant_id = ?`, false, tenantID)
}
