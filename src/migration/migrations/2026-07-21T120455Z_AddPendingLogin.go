package migrations

import (
	"context"
	"time"

	"git.vibecoding.academy/vca/vca/src/migration/types"
	"github.com/jackc/pgx/v5"
)

func init() {
	registerMigration(AddPendingLogin{})
}

type AddPendingLogin struct{}

func (m AddPendingLogin) Version() types.MigrationVersion {
	return types.MigrationVersion(time.Date(2026, 7, 21, 12, 4, 55, 0, time.UTC))
}

func (m AddPendingLogin) Name() string {
	return "AddPendingLogin"
}

func (m AddPendingLogin) Description() string {
	return "Tracks in-flight identity provider logins so callbacks can be verified"
}

func (m AddPendingLogin) Up(ctx context.Context, tx pgx.Tx) error {
	_, err := tx.Exec(ctx, `
		CREATE TABLE pending_login (
			id VARCHAR(40) PRIMARY KEY,
			expires_at TIMESTAMP WITH TIME ZONE NOT NULL,
			destination_url TEXT NOT NULL
		);
	`)
	return err
}

func (m AddPendingLogin) Down(ctx context.Context, tx pgx.Tx) error {
	_, err := tx.Exec(ctx, `
		DROP TABLE pending_login;
	`)
	return err
}
