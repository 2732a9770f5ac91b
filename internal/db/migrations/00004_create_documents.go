package migrations

// The ICP rubric and the email framework are nested documents stored whole,
// one row per tenant.

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateDocuments, downCreateDocuments)
}

var documentTables = []string{"icp_configs", "email_frameworks"}

func upCreateDocuments(ctx context.Context, tx *sql.Tx) error {
	docType := documentColumnType()
	for _, table := range documentTables {
		ddl := fmt.Sprintf(`CREATE TABLE %s (
    tenant_id  VARCHAR(64) PRIMARY KEY REFERENCES tenants (id),
    data       %s NOT NULL,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`, table, docType)
		if _, err := tx.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("create %s table: %w", table, err)
		}
	}
	return nil
}

func downCreateDocuments(ctx context.Context, tx *sql.Tx) error {
	for _, table := range documentTables {
		if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS `+table); err != nil {
			return err
		}
	}
	return nil
}
