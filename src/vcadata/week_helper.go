package vcadata

import (
	"context"

	"git.vibecoding.academy/vca/vca/src/db"
	"git.vibecoding.academy/vca/vca/src/models"
	"git.vibecoding.academy/vca/vca/src/oops"
	"git.vibecoding.academy/vca/vca/src/perf"
)

type WeeksQuery struct {
	WeekIDs []int
	Numbers []int

	// Forces published-only regardless of the viewer's role.
	PublishedOnly bool
}

type WeekAndSections struct {
	Week     models.Week
	Sections []*models.WeekSection
}

// FetchWeeks returns curriculum weeks with their sections, ordered by
// week number (tag-only weeks with no number sort last). Unpublished
// weeks are only visible to privileged viewers.
func FetchWeeks(
	ctx context.Context,
	dbConn db.ConnOrTx,
	currentProfile *models.Profile,
	q WeeksQuery,
) ([]WeekAndSections, error) {
	p := perf.ExtractPerf(ctx)
	b := p.StartBlock("SQL", "Fetch weeks")
	defer b.End()

	tx, err := dbConn.Begin(ctx)
	if err != nil {
		return nil, oops.New(err, "failed to start transaction")
	}
	defer tx.Rollback(ctx)

	var qb db.QueryBuilder
	qb.Add(
		`
		---- Fetch weeks
		SELECT $columns
		FROM week
		WHERE TRUE
		`,
	)
	if len(q.WeekIDs) > 0 {
		qb.Add(`AND week.id = ANY ($?)`, q.WeekIDs)
	}
	if len(q.Numbers) > 0 {
		qb.Add(`AND week.number = ANY ($?)`, q.Numbers)
	}
	if q.PublishedOnly || currentProfile == nil || !currentProfile.IsPrivileged() {
		qb.Add(`AND week.published`)
	}
	qb.Add(`ORDER BY week.number ASC NULLS LAST, week.id ASC`)

	weeks, err := db.Query[models.Week](ctx, tx, qb.String(), qb.Args()...)
	if err != nil {
		return nil, oops.New(err, "failed to fetch weeks")
	}

	result := make([]WeekAndSections, len(weeks))
	weekIDs := make([]int, len(weeks))
	resultByWeekID := make(map[int]*WeekAndSections)
	for i, week := range weeks {
		result[i] = WeekAndSections{Week: *week}
		weekIDs[i] = week.ID
		resultByWeekID[week.ID] = &result[i]
	}

	sections, err := db.Query[models.WeekSection](ctx, tx,
		`
		---- Fetch week sections
		SELECT $columns
		FROM week_section
		WHERE week_id = ANY ($1)
		ORDER BY sort_order ASC, id ASC
		`,
		weekIDs,
	)
	if err != nil {
		return nil, oops.New(err, "failed to fetch week sections")
	}
	for _, section := range sections {
		item := resultByWeekID[section.WeekID]
		item.Sections = append(item.Sections, section)
	}

	err = tx.Commit(ctx)
	if err != nil {
		return nil, oops.New(err, "failed to commit transaction")
	}

	return result, nil
}

// FetchWeekByNumber returns one week, or db.NotFound.
func FetchWeekByNumber(
	ctx context.Context,
	dbConn db.ConnOrTx,
	currentProfile *models.Profile,
	number int,
) (WeekAndSections, error) {
	weeks, err := FetchWeeks(ctx, dbConn, currentProfile, WeeksQuery{
		Numbers: []int{number},
	})
	if err != nil {
		return WeekAndSections{}, err
	}
	if len(weeks) == 0 {
		return WeekAndSections{}, db.NotFound
	}
	return weeks[0], nil
}
