package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// TenantStore is the sqlx-backed store for tenant lookups.
type TenantStore struct {
	db *sqlx.DB
}

func NewTenantStore(db *sqlx.DB) *TenantStore {
	return &TenantStore{db: db}
}

// q rebinds ? placeholders to the driver's native format ($1,$2,... for PostgreSQL).
func (s *TenantStore) q(query string) string { return s.db.Rebind(query) }

// GetActiveBySlug returns the active tenant with the given slug, or ErrNotFound.
// Inactive tenants are reported as not found.
func (s *TenantStore) GetActiveBySlug(ctx context.Context, slug string) (*Tenant, error) {
	var t Tenant
	err := s.db.GetContext(ctx, &t, s.q(`
		SELECT id, slug, name, active FROM tenants WHERE slug = ? AND active = ?
	`), slug, true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListActive returns all active tenants ordered by slug.
func (s *TenantStore) ListActive(ctx context.Context) ([]Tenant, error) {
	var tenants []Tenant
	err := s.db.SelectContext(ctx, &tenants, s.q(`
		SELECT id, slug, name, active FROM tenants WHERE active = ? ORDER BY slug ASC
	`), true)
	if err != nil {
		return nil, err
	}
	return tenants, nil
}
