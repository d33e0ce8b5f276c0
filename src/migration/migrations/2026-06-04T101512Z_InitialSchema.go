package migrations

import (
	"context"
	"time"

	"git.vibecoding.academy/vca/vca/src/migration/types"
	"github.com/jackc/pgx/v5"
)

func init() {
	registerMigration(InitialSchema{})
}

type InitialSchema struct{}

func (m InitialSchema) Version() types.MigrationVersion {
	return types.MigrationVersion(time.Date(2026, 6, 4, 10, 15, 12, 0, time.UTC))
}

func (m InitialSchema) Name() string {
	return "InitialSchema"
}

func (m InitialSchema) Description() string {
	return "Creates profiles, sessions, the curriculum, demos, and votes"
}

func (m InitialSchema) Up(ctx context.Context, tx pgx.Tx) error {
	_, err := tx.Exec(ctx, `
		CREATE TABLE profile (
			id SERIAL PRIMARY KEY,
			external_id VARCHAR(255) NOT NULL UNIQUE,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL,
			role VARCHAR(20) NOT NULL DEFAULT 'member',
			bio TEXT,
			avatar_url TEXT,
			github_url TEXT,
			slack_handle VARCHAR(255),
			project_idea TEXT,
			repo_url TEXT,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE session (
			id VARCHAR(40) PRIMARY KEY,
			user_id INT NOT NULL REFERENCES profile (id) ON DELETE CASCADE,
			expires_at TIMESTAMP WITH TIME ZONE NOT NULL
		);

		CREATE TABLE week (
			id SERIAL PRIMARY KEY,
			number INT,
			title VARCHAR(255) NOT NULL,
			level INT NOT NULL DEFAULT 1,
			feedback_url TEXT,
			published BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		-- Tag-only weeks have no number; numbered weeks must not collide.
		CREATE UNIQUE INDEX week_number_unique ON week (number) WHERE number IS NOT NULL;

		CREATE TABLE week_section (
			id SERIAL PRIMARY KEY,
			week_id INT NOT NULL REFERENCES week (id),
			slug VARCHAR(100) NOT NULL,
			title VARCHAR(255) NOT NULL,
			content TEXT,
			sort_order INT NOT NULL DEFAULT 0,
			is_system BOOLEAN NOT NULL DEFAULT FALSE,
			UNIQUE (week_id, slug)
		);

		CREATE TABLE demo (
			id SERIAL PRIMARY KEY,
			week_id INT NOT NULL REFERENCES week (id),
			user_id INT NOT NULL REFERENCES profile (id),
			title VARCHAR(255) NOT NULL,
			description TEXT,
			url TEXT,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE vote (
			id SERIAL PRIMARY KEY,
			demo_id INT NOT NULL REFERENCES demo (id) ON DELETE CASCADE,
			user_id INT NOT NULL REFERENCES profile (id) ON DELETE CASCADE,
			value INT NOT NULL CHECK (value IN (-1, 1)),
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (demo_id, user_id)
		);
	`)
	return err
}

func (m InitialSchema) Down(ctx context.Context, tx pgx.Tx) error {
	_, err := tx.Exec(ctx, `
		DROP TABLE vote;
		DROP TABLE demo;
		DROP TABLE week_section;
		DROP TABLE week;
		DROP TABLE session;
		DROP TABLE profile;
	`)
	return err
}
