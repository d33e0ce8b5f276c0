package migrations

import (
	"context"
	"time"

	"git.vibecoding.academy/vca/vca/src/migration/types"
	"github.com/jackc/pgx/v5"
)

func init() {
	registerMigration(AddBadges{})
}

type AddBadges struct{}

func (m AddBadges) Version() types.MigrationVersion {
	return types.MigrationVersion(time.Date(2026, 7, 2, 9, 18, 20, 0, time.UTC))
}

func (m AddBadges) Name() string {
	return "AddBadges"
}

func (m AddBadges) Description() string {
	return "Adds badges and badge awards"
}

func (m AddBadges) Up(ctx context.Context, tx pgx.Tx) error {
	_, err := tx.Exec(ctx, `
		CREATE TABLE badge (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			description TEXT,
			color VARCHAR(7) NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		-- awarded_by is an audit column on purpose, with no foreign key,
		-- so a departed staff member's awards keep their history.
		CREATE TABLE badge_award (
			id SERIAL PRIMARY KEY,
			badge_id INT NOT NULL REFERENCES badge (id),
			user_id INT REFERENCES profile (id),
			project_id INT REFERENCES project (id),
			awarded_by INT NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CHECK ((user_id IS NULL) != (project_id IS NULL))
		);
	`)
	return err
}

func (m AddBadges) Down(ctx context.Context, tx pgx.Tx) error {
	_, err := tx.Exec(ctx, `
		DROP TABLE badge_award;
		DROP TABLE badge;
	`)
	return err
}
