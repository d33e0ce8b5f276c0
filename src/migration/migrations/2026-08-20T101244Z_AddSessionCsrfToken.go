package migrations

import (
	"context"
	"time"

	"git.vibecoding.academy/vca/vca/src/migration/types"
	"github.com/jackc/pgx/v5"
)

func init() {
	registerMigration(AddSessionCsrfToken{})
}

type AddSessionCsrfToken struct{}

func (m AddSessionCsrfToken) Version() types.MigrationVersion {
	return types.MigrationVersion(time.Date(2026, 8, 20, 10, 12, 44, 0, time.UTC))
}

func (m AddSessionCsrfToken) Name() string {
	return "AddSessionCsrfToken"
}

func (m AddSessionCsrfToken) Description() string {
	return "Adds a CSRF token to sessions"
}

func (m AddSessionCsrfToken) Up(ctx context.Context, tx pgx.Tx) error {
	// Existing sessions get an empty token and will fail CSRF checks
	// until the user logs in again. That's fine.
	_, err := tx.Exec(ctx, `
		ALTER TABLE session ADD COLUMN csrf_token VARCHAR(30) NOT NULL DEFAULT '';
	`)
	return err
}

func (m AddSessionCsrfToken) Down(ctx context.Context, tx pgx.Tx) error {
	_, err := tx.Exec(ctx, `
		ALTER TABLE session DROP COLUMN csrf_token;
	`)
	return err
}
