package vcadata

import (
	"context"

	"git.vibecoding.academy/vca/vca/src/db"
	"git.vibecoding.academy/vca/vca/src/models"
	"git.vibecoding.academy/vca/vca/src/oops"
	"git.vibecoding.academy/vca/vca/src/perf"
)

type ProfilesQuery struct {
	ProfileIDs []int
	Roles      []models.ProfileRole
}

// FetchProfiles returns cohort profiles ordered by name.
func FetchProfiles(
	ctx context.Context,
	dbConn db.ConnOrTx,
	q ProfilesQuery,
) ([]*models.Profile, error) {
	p := perf.ExtractPerf(ctx)
	b := p.StartBlock("SQL", "Fetch profiles")
	defer b.End()

	var qb db.QueryBuilder
	qb.Add(
		`
		---- Fetch profiles
		SELECT $columns
		FROM profile
		WHERE TRUE
		`,
	)
	if len(q.ProfileIDs) > 0 {
		qb.Add(`AND profile.id = ANY ($?)`, q.ProfileIDs)
	}
	if len(q.Roles) > 0 {
		qb.Add(`AND profile.role = ANY ($?)`, q.Roles)
	}
	qb.Add(`ORDER BY LOWER(profile.name) ASC, profile.id ASC`)

	profiles, err := db.Query[models.Profile](ctx, dbConn, qb.String(), qb.Args()...)
	if err != nil {
		return nil, oops.New(err, "failed to fetch profiles")
	}
	return profiles, nil
}

// FetchProfile returns one profile, or db.NotFound.
func FetchProfile(ctx context.Context, dbConn db.ConnOrTx, profileID int) (*models.Profile, error) {
	profile, err := db.QueryOne[models.Profile](ctx, dbConn,
		`
		---- Fetch profile
		SELECT $columns FROM profile WHERE id = $1
		`,
		profileID,
	)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// DeleteProfile removes a member and everything they contributed, in
// one transaction: votes, demos, awards they received, their projects
// (with screenshots, feedback and project awards), their sessions,
// and finally the profile row itself.
func DeleteProfile(ctx context.Context, dbConn db.ConnOrTx, profileID int) error {
	p := perf.ExtractPerf(ctx)
	b := p.StartBlock("SQL", "Delete profile")
	defer b.End()

	tx, err := dbConn.Begin(ctx)
	if err != nil {
		return oops.New(err, "failed to start transaction")
	}
	defer tx.Rollback(ctx)

	projectIDs, err := db.QueryScalar[int](ctx, tx,
		"SELECT id FROM project WHERE user_id = $1",
		profileID,
	)
	if err != nil {
		return oops.New(err, "failed to list member projects")
	}

	statements := []struct {
		sql  string
		args []any
	}{
		{"DELETE FROM vote WHERE user_id = $1", []any{profileID}},
		{"DELETE FROM badge_award WHERE user_id = $1", []any{profileID}},
		{"DELETE FROM demo WHERE user_id = $1", []any{profileID}},
		{"DELETE FROM badge_award WHERE project_id = ANY ($1)", []any{projectIDs}},
		{"DELETE FROM project_feedback WHERE instructor_id = $1", []any{profileID}},
		{"DELETE FROM project_feedback WHERE project_id = ANY ($1)", []any{projectIDs}},
		{"DELETE FROM project_screenshot WHERE project_id = ANY ($1)", []any{projectIDs}},
		{"UPDATE demo SET project_id = NULL WHERE project_id = ANY ($1)", []any{projectIDs}},
		{"DELETE FROM project WHERE user_id = $1", []any{profileID}},
		{"DELETE FROM session WHERE user_id = $1", []any{profileID}},
		{"DELETE FROM profile WHERE id = $1", []any{profileID}},
	}
	for _, statement := range statements {
		_, err := tx.Exec(ctx, statement.sql, statement.args...)
		if err != nil {
			return oops.New(err, "failed while deleting member data")
		}
	}

	err = tx.Commit(ctx)
	if err != nil {
		return oops.New(err, "failed to commit member deletion")
	}

	return nil
}
