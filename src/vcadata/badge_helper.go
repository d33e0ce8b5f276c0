package vcadata

import (
	"context"
	"errors"

	"git.vibecoding.academy/vca/vca/src/db"
	"git.vibecoding.academy/vca/vca/src/models"
	"git.vibecoding.academy/vca/vca/src/oops"
	"git.vibecoding.academy/vca/vca/src/perf"
)

// FetchBadges returns all badge definitions, oldest first.
func FetchBadges(ctx context.Context, dbConn db.ConnOrTx) ([]*models.Badge, error) {
	p := perf.ExtractPerf(ctx)
	b := p.StartBlock("SQL", "Fetch badges")
	defer b.End()

	badges, err := db.Query[models.Badge](ctx, dbConn,
		`
		---- Fetch badges
		SELECT $columns FROM badge ORDER BY created_at ASC, id ASC
		`,
	)
	if err != nil {
		return nil, oops.New(err, "failed to fetch badges")
	}
	return badges, nil
}

type AwardAndStuff struct {
	Award models.BadgeAward
	Badge models.Badge

	// Exactly one of these is set for well-formed awards.
	RecipientProfile *models.Profile
	RecipientProject *models.Project
}

// FetchAwards returns all badge awards with their badges and
// recipients, newest first. Malformed award rows are dropped here so
// no caller ever sees one.
func FetchAwards(ctx context.Context, dbConn db.ConnOrTx) ([]AwardAndStuff, error) {
	p := perf.ExtractPerf(ctx)
	b := p.StartBlock("SQL", "Fetch badge awards")
	defer b.End()

	type resultRow struct {
		Award   models.BadgeAward `db:"badge_award"`
		Badge   models.Badge      `db:"badge"`
		Profile *models.Profile   `db:"recipient"`
		Project *models.Project   `db:"project"`
	}
	rows, err := db.Query[resultRow](ctx, dbConn,
		`
		---- Fetch badge awards
		SELECT $columns
		FROM
			badge_award
			JOIN badge ON badge_award.badge_id = badge.id
			LEFT JOIN profile AS recipient ON badge_award.user_id = recipient.id
			LEFT JOIN project ON badge_award.project_id = project.id
		ORDER BY badge_award.created_at DESC, badge_award.id DESC
		`,
	)
	if err != nil {
		return nil, oops.New(err, "failed to fetch badge awards")
	}

	result := make([]AwardAndStuff, 0, len(rows))
	for _, row := range rows {
		if row.Award.IsMalformed() {
			continue
		}
		result = append(result, AwardAndStuff{
			Award:            row.Award,
			Badge:            row.Badge,
			RecipientProfile: row.Profile,
			RecipientProject: row.Project,
		})
	}
	return result, nil
}

var ErrInvalidAwardTarget = errors.New("an award must target exactly one user or project")

type AwardTarget struct {
	UserID    *int
	ProjectID *int
}

// AwardBadge grants a badge to a user or a project. Awarding the same
// badge to the same target again is allowed and counts separately.
func AwardBadge(
	ctx context.Context,
	dbConn db.ConnOrTx,
	badgeID int,
	target AwardTarget,
	awardedByID int,
) (*models.BadgeAward, error) {
	if (target.UserID == nil) == (target.ProjectID == nil) {
		return nil, ErrInvalidAwardTarget
	}

	p := perf.ExtractPerf(ctx)
	b := p.StartBlock("SQL", "Award badge")
	defer b.End()

	award, err := db.QueryOne[models.BadgeAward](ctx, dbConn,
		`
		---- Create badge award
		INSERT INTO badge_award (badge_id, user_id, project_id, awarded_by)
		VALUES ($1, $2, $3, $4)
		RETURNING $columns
		`,
		badgeID, target.UserID, target.ProjectID, awardedByID,
	)
	if err != nil {
		return nil, oops.New(err, "failed to create badge award")
	}
	return award, nil
}

func RemoveAward(ctx context.Context, dbConn db.ConnOrTx, awardID int) error {
	_, err := dbConn.Exec(ctx, "DELETE FROM badge_award WHERE id = $1", awardID)
	if err != nil {
		return oops.New(err, "failed to remove badge award")
	}
	return nil
}
