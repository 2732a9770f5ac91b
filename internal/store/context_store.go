package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// ContextStore reads tenant-scoped sales context. Every query filters on
// tenant and the active flag only; narrower filtering happens in memory.
type ContextStore struct {
	db *sqlx.DB
}

func NewContextStore(db *sqlx.DB) *ContextStore {
	return &ContextStore{db: db}
}

func selectActive[T any](ctx context.Context, db *sqlx.DB, query, tenantID string) ([]T, error) {
	var rows []T
	if err := db.SelectContext(ctx, &rows, db.Rebind(query), tenantID, true); err != nil {
		return nil, err
	}
	return rows, nil
}

// Personas returns the tenant's active personas in display order.
func (s *ContextStore) Personas(ctx context.Context, tenantID string) ([]Persona, error) {
	return selectActive[Persona](ctx, s.db, `
		SELECT slug, role, titles, pains, cares_about, questions, objections,
		       responsibilities, reports_to
		FROM personas WHERE tenant_id = ? AND active = ?
		ORDER BY sort_order ASC, slug ASC`, tenantID)
}

// CountryValueProps returns every active market for the tenant.
func (s *ContextStore) CountryValueProps(ctx context.Context, tenantID string) ([]CountryValueProps, error) {
	return selectActive[CountryValueProps](ctx, s.db, `
		SELECT country_code, country_name, specific_value_props, unique_features,
		       compliance_notes, metrics
		FROM country_value_props WHERE tenant_id = ? AND active = ?
		ORDER BY country_code ASC`, tenantID)
}

// GlobalValueProps returns the tenant-wide value props, or ErrNotFound.
func (s *ContextStore) GlobalValueProps(ctx context.Context, tenantID string) (*GlobalValueProps, error) {
	var g GlobalValueProps
	err := s.db.GetContext(ctx, &g, s.db.Rebind(`
		SELECT company_name, COALESCE(company_description, '') AS company_description,
		       core_value_props, differentiators, reference_clients, features
		FROM global_value_props WHERE tenant_id = ?`), tenantID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// IndustrySnippets returns the tenant's active industry snippets.
func (s *ContextStore) IndustrySnippets(ctx context.Context, tenantID string) ([]IndustrySnippet, error) {
	return selectActive[IndustrySnippet](ctx, s.db, `
		SELECT slug, pains, reference
		FROM industry_snippets WHERE tenant_id = ? AND active = ?
		ORDER BY sort_order ASC, slug ASC`, tenantID)
}

// ICP returns the tenant's ideal customer profile, or ErrNotFound.
func (s *ContextStore) ICP(ctx context.Context, tenantID string) (*ICP, error) {
	var icp ICP
	if err := s.document(ctx, "icp_configs", tenantID, &icp); err != nil {
		return nil, err
	}
	return &icp, nil
}

// EmailFramework returns the tenant's email writing rules, or ErrNotFound.
func (s *ContextStore) EmailFramework(ctx context.Context, tenantID string) (*EmailFramework, error) {
	var fw EmailFramework
	if err := s.document(ctx, "email_frameworks", tenantID, &fw); err != nil {
		return nil, err
	}
	return &fw, nil
}

// document decodes the JSON document stored for tenantID in table.
// table is always one of the package's own document tables.
func (s *ContextStore) document(ctx context.Context, table, tenantID string, dest any) error {
	var raw []byte
	err := s.db.GetContext(ctx, &raw, s.db.Rebind(fmt.Sprintf(`SELECT data FROM %s WHERE tenant_id = ?`, table)), tenantID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode %s document: %w", table, err)
	}
	return nil
}

// Competitors returns the tenant's active competitors.
func (s *ContextStore) Competitors(ctx context.Context, tenantID string) ([]Competitor, error) {
	return selectActive[Competitor](ctx, s.db, `
		SELECT name, tier, COALESCE(description, '') AS description, strengths, weaknesses,
		       COALESCE(positioning, '') AS positioning, COALESCE(when_we_win, '') AS when_we_win,
		       sort_order
		FROM competitors WHERE tenant_id = ? AND active = ?
		ORDER BY sort_order ASC, name ASC`, tenantID)
}

// Objections returns the tenant's active objections, highest priority first.
func (s *ContextStore) Objections(ctx context.Context, tenantID string) ([]Objection, error) {
	return selectActive[Objection](ctx, s.db, `
		SELECT category, objection, COALESCE(response, '') AS response, priority
		FROM objections WHERE tenant_id = ? AND active = ?
		ORDER BY priority DESC, category ASC`, tenantID)
}

// CaseStudies returns the tenant's active case studies.
func (s *ContextStore) CaseStudies(ctx context.Context, tenantID string) ([]CaseStudy, error) {
	return selectActive[CaseStudy](ctx, s.db, `
		SELECT client_name, industry, country, COALESCE(challenge, '') AS challenge,
		       COALESCE(solution, '') AS solution, results, COALESCE(quote, '') AS quote,
		       sort_order
		FROM case_studies WHERE tenant_id = ? AND active = ?
		ORDER BY sort_order ASC, client_name ASC`, tenantID)
}

// Signals returns the tenant's active buying signals, highest priority first.
func (s *ContextStore) Signals(ctx context.Context, tenantID string) ([]Signal, error) {
	return selectActive[Signal](ctx, s.db, `
		SELECT name, category, COALESCE(description, '') AS description,
		       COALESCE(pain_mapping, '') AS pain_mapping, COALESCE(talk_track, '') AS talk_track,
		       priority
		FROM signals WHERE tenant_id = ? AND active = ?
		ORDER BY priority DESC, name ASC`, tenantID)
}

// Playbook returns the tenant's active playbook entries in reading order.
func (s *ContextStore) Playbook(ctx context.Context, tenantID string) ([]PlaybookEntry, error) {
	return selectActive[PlaybookEntry](ctx, s.db, `
		SELECT section, title, COALESCE(content, '') AS content, sort_order
		FROM sales_playbook WHERE tenant_id = ? AND active = ?
		ORDER BY sort_order ASC, title ASC`, tenantID)
}

// Features returns the tenant's active product features.
func (s *ContextStore) Features(ctx context.Context, tenantID string) ([]ProductFeature, error) {
	return selectActive[ProductFeature](ctx, s.db, `
		SELECT slug, name, category, COALESCE(description, '') AS description, benefits, sort_order
		FROM product_features WHERE tenant_id = ? AND active = ?
		ORDER BY sort_order ASC, slug ASC`, tenantID)
}

// Templates returns the tenant's active email templates in sequence order.
func (s *ContextStore) Templates(ctx context.Context, tenantID string) ([]EmailTemplate, error) {
	return selectActive[EmailTemplate](ctx, s.db, `
		SELECT slug, type, name, subject, COALESCE(body, '') AS body, sequence_step
		FROM email_templates WHERE tenant_id = ? AND active = ?
		ORDER BY type ASC, sequence_step ASC, slug ASC`, tenantID)
}
