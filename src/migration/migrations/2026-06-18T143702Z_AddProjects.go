package migrations

import (
	"context"
	"time"

	"git.vibecoding.academy/vca/vca/src/migration/types"
	"github.com/jackc/pgx/v5"
)

func init() {
	registerMigration(AddProjects{})
}

type AddProjects struct{}

func (m AddProjects) Version() types.MigrationVersion {
	return types.MigrationVersion(time.Date(2026, 6, 18, 14, 37, 2, 0, time.UTC))
}

func (m AddProjects) Name() string {
	return "AddProjects"
}

func (m AddProjects) Description() string {
	return "Adds the project showcase: projects, screenshots, and instructor feedback"
}

func (m AddProjects) Up(ctx context.Context, tx pgx.Tx) error {
	_, err := tx.Exec(ctx, `
		CREATE TABLE project (
			id SERIAL PRIMARY KEY,
			user_id INT NOT NULL REFERENCES profile (id),
			title VARCHAR(255) NOT NULL,
			description TEXT,
			goal TEXT,
			status VARCHAR(20) NOT NULL DEFAULT 'draft',
			tech_stack TEXT[] NOT NULL DEFAULT '{}',
			avatar_url TEXT,
			demo_url TEXT,
			github_url TEXT,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE project_screenshot (
			id SERIAL PRIMARY KEY,
			project_id INT NOT NULL REFERENCES project (id),
			url TEXT NOT NULL,
			caption TEXT,
			sort_order INT NOT NULL DEFAULT 0,
			uploaded_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE project_feedback (
			id SERIAL PRIMARY KEY,
			project_id INT NOT NULL REFERENCES project (id),
			instructor_id INT NOT NULL REFERENCES profile (id),
			content TEXT NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		ALTER TABLE demo ADD COLUMN project_id INT REFERENCES project (id);
	`)
	return err
}

func (m AddProjects) Down(ctx context.Context, tx pgx.Tx) error {
	_, err := tx.Exec(ctx, `
		ALTER TABLE demo DROP COLUMN project_id;
		DROP TABLE project_feedback;
		DROP TABLE project_screenshot;
		DROP TABLE project;
	`)
	return err
}
