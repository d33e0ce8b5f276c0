package migrations

import (
	"context"
	"time"

	"git.vibecoding.academy/vca/vca/src/migration/types"
	"github.com/jackc/pgx/v5"
)

func init() {
	registerMigration(AddProjectSortOrder{})
}

type AddProjectSortOrder struct{}

func (m AddProjectSortOrder) Version() types.MigrationVersion {
	return types.MigrationVersion(time.Date(2026, 8, 5, 16, 31, 14, 0, time.UTC))
}

func (m AddProjectSortOrder) Name() string {
	return "AddProjectSortOrder"
}

func (m AddProjectSortOrder) Description() string {
	return "Lets admins curate the order of the project showcase"
}

func (m AddProjectSortOrder) Up(ctx context.Context, tx pgx.Tx) error {
	_, err := tx.Exec(ctx, `
		ALTER TABLE project ADD COLUMN sort_order INT NOT NULL DEFAULT 0;
	`)
	if err != nil {
		return err
	}

	// Seed the curated order from creation order so the showcase
	// doesn't shuffle when this deploys.
	_, err = tx.Exec(ctx, `
		UPDATE project SET sort_order = numbered.rn
		FROM (
			SELECT id, ROW_NUMBER() OVER (ORDER BY created_at) AS rn
			FROM project
		) AS numbered
		WHERE project.id = numbered.id;
	`)
	return err
}

func (m AddProjectSortOrder) Down(ctx context.Context, tx pgx.Tx) error {
	_, err := tx.Exec(ctx, `
		ALTER TABLE project DROP COLUMN sort_order;
	`)
	return err
}
