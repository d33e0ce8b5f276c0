package vcadata

import (
	"context"
	"errors"

	"git.vibecoding.academy/vca/vca/src/db"
	"git.vibecoding.academy/vca/vca/src/models"
	"git.vibecoding.academy/vca/vca/src/oops"
	"git.vibecoding.academy/vca/vca/src/perf"
)

type DemosQuery struct {
	DemoIDs    []int
	WeekIDs    []int
	UserIDs    []int
	ProjectIDs []int
}

type DemoAndStuff struct {
	Demo   models.Demo
	Author *models.Profile

	Tally VoteTally
	// The current viewer's vote value, if they cast one.
	ViewerVote *int
}

// FetchDemos returns demos with their authors and vote tallies,
// newest first.
func FetchDemos(
	ctx context.Context,
	dbConn db.ConnOrTx,
	currentProfile *models.Profile,
	q DemosQuery,
) ([]DemoAndStuff, error) {
	p := perf.ExtractPerf(ctx)
	b := p.StartBlock("SQL", "Fetch demos")
	defer b.End()

	tx, err := dbConn.Begin(ctx)
	if err != nil {
		return nil, oops.New(err, "failed to start transaction")
	}
	defer tx.Rollback(ctx)

	var qb db.QueryBuilder
	qb.Add(
		`
		---- Fetch demos
		SELECT $columns
		FROM
			demo
			LEFT JOIN profile AS author ON demo.user_id = author.id
		WHERE TRUE
		`,
	)
	if len(q.DemoIDs) > 0 {
		qb.Add(`AND demo.id = ANY ($?)`, q.DemoIDs)
	}
	if len(q.WeekIDs) > 0 {
		qb.Add(`AND demo.week_id = ANY ($?)`, q.WeekIDs)
	}
	if len(q.UserIDs) > 0 {
		qb.Add(`AND demo.user_id = ANY ($?)`, q.UserIDs)
	}
	if len(q.ProjectIDs) > 0 {
		qb.Add(`AND demo.project_id = ANY ($?)`, q.ProjectIDs)
	}
	qb.Add(`ORDER BY demo.created_at DESC, demo.id DESC`)

	type resultRow struct {
		Demo   models.Demo     `db:"demo"`
		Author *models.Profile `db:"author"`
	}
	rows, err := db.Query[resultRow](ctx, tx, qb.String(), qb.Args()...)
	if err != nil {
		return nil, oops.New(err, "failed to fetch demos")
	}

	result := make([]DemoAndStuff, len(rows))
	demoIDs := make([]int, len(rows))
	resultByDemoID := make(map[int]*DemoAndStuff)
	for i, row := range rows {
		result[i] = DemoAndStuff{
			Demo:   row.Demo,
			Author: row.Author,
		}
		demoIDs[i] = row.Demo.ID
		resultByDemoID[row.Demo.ID] = &result[i]
	}

	votes, err := db.Query[models.Vote](ctx, tx,
		`
		---- Fetch votes for demos
		SELECT $columns
		FROM vote
		WHERE demo_id = ANY ($1)
		`,
		demoIDs,
	)
	if err != nil {
		return nil, oops.New(err, "failed to fetch votes")
	}

	tallies := TallyVotes(votes)
	for demoID, tally := range tallies {
		resultByDemoID[demoID].Tally = tally
	}
	if currentProfile != nil {
		for _, vote := range votes {
			if vote.UserID == currentProfile.ID {
				value := vote.Value
				resultByDemoID[vote.DemoID].ViewerVote = &value
			}
		}
	}

	err = tx.Commit(ctx)
	if err != nil {
		return nil, oops.New(err, "failed to commit transaction")
	}

	return result, nil
}

var ErrInvalidVote = errors.New("votes must be +1 or -1")

// CastVote applies one press of a vote button. A fresh vote inserts,
// a vote in the other direction flips the row, and repeating the same
// vote retracts it.
func CastVote(ctx context.Context, dbConn db.ConnOrTx, userID int, demoID int, value int) error {
	if value != models.VoteUp && value != models.VoteDown {
		return ErrInvalidVote
	}

	p := perf.ExtractPerf(ctx)
	b := p.StartBlock("SQL", "Cast vote")
	defer b.End()

	tx, err := dbConn.Begin(ctx)
	if err != nil {
		return oops.New(err, "failed to start transaction")
	}
	defer tx.Rollback(ctx)

	existing, err := db.QueryOne[models.Vote](ctx, tx,
		`
		---- Fetch existing vote
		SELECT $columns FROM vote WHERE demo_id = $1 AND user_id = $2
		`,
		demoID, userID,
	)
	if err != nil && !errors.Is(err, db.NotFound) {
		return oops.New(err, "failed to look up existing vote")
	}

	switch {
	case existing == nil:
		_, err = tx.Exec(ctx,
			"INSERT INTO vote (demo_id, user_id, value) VALUES ($1, $2, $3)",
			demoID, userID, value,
		)
	case existing.Value == value:
		_, err = tx.Exec(ctx, "DELETE FROM vote WHERE id = $1", existing.ID)
	default:
		_, err = tx.Exec(ctx, "UPDATE vote SET value = $1 WHERE id = $2", value, existing.ID)
	}
	if err != nil {
		return oops.New(err, "failed to apply vote")
	}

	err = tx.Commit(ctx)
	if err != nil {
		return oops.New(err, "failed to commit vote")
	}

	return nil
}
