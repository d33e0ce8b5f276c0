package vcadata

import (
	"context"

	"git.vibecoding.academy/vca/vca/src/db"
	"git.vibecoding.academy/vca/vca/src/logging"
	"git.vibecoding.academy/vca/vca/src/models"
	"git.vibecoding.academy/vca/vca/src/oops"
	"git.vibecoding.academy/vca/vca/src/perf"
)

type ProjectSort string

const (
	// The admin-curated ordering. This is the only sort that is
	// persisted; the others are per-request.
	ProjectSortCurated ProjectSort = "curated"
	ProjectSortNewest  ProjectSort = "newest"
	ProjectSortTitle   ProjectSort = "title"
	ProjectSortOwner   ProjectSort = "owner"
	ProjectSortStatus  ProjectSort = "status"
)

func ParseProjectSort(s string) ProjectSort {
	switch ProjectSort(s) {
	case ProjectSortNewest, ProjectSortTitle, ProjectSortOwner, ProjectSortStatus:
		return ProjectSort(s)
	default:
		return ProjectSortCurated
	}
}

type ProjectsQuery struct {
	ProjectIDs []int
	OwnerIDs   []int
	Statuses   []models.ProjectStatus

	Sort ProjectSort
}

type ProjectAndStuff struct {
	Project models.Project
	Owner   *models.Profile

	Screenshots []*models.ProjectScreenshot
	AwardCount  int
}

// FetchProjects returns showcase projects with their owners and
// screenshots.
func FetchProjects(
	ctx context.Context,
	dbConn db.ConnOrTx,
	currentProfile *models.Profile,
	q ProjectsQuery,
) ([]ProjectAndStuff, error) {
	p := perf.ExtractPerf(ctx)
	b := p.StartBlock("SQL", "Fetch projects")
	defer b.End()

	tx, err := dbConn.Begin(ctx)
	if err != nil {
		return nil, oops.New(err, "failed to start transaction")
	}
	defer tx.Rollback(ctx)

	var qb db.QueryBuilder
	qb.Add(
		`
		---- Fetch projects
		SELECT $columns
		FROM
			project
			LEFT JOIN profile AS owner ON project.user_id = owner.id
		WHERE TRUE
		`,
	)
	if len(q.ProjectIDs) > 0 {
		qb.Add(`AND project.id = ANY ($?)`, q.ProjectIDs)
	}
	if len(q.OwnerIDs) > 0 {
		qb.Add(`AND project.user_id = ANY ($?)`, q.OwnerIDs)
	}
	if len(q.Statuses) > 0 {
		qb.Add(`AND project.status = ANY ($?)`, q.Statuses)
	}
	switch q.Sort {
	case ProjectSortNewest:
		qb.Add(`ORDER BY project.created_at DESC, project.id DESC`)
	case ProjectSortTitle:
		qb.Add(`ORDER BY LOWER(project.title) ASC, project.id ASC`)
	case ProjectSortOwner:
		// Ownerless rows can't happen (user_id is NOT NULL), but LEFT
		// JOIN makes owner.name nullable as far as SQL is concerned.
		qb.Add(`ORDER BY LOWER(owner.name) ASC NULLS LAST, project.id ASC`)
	case ProjectSortStatus:
		qb.Add(`ORDER BY project.status ASC, project.sort_order ASC, project.id ASC`)
	default:
		qb.Add(`ORDER BY project.sort_order ASC, project.id ASC`)
	}

	type resultRow struct {
		Project models.Project  `db:"project"`
		Owner   *models.Profile `db:"owner"`
	}
	rows, err := db.Query[resultRow](ctx, tx, qb.String(), qb.Args()...)
	if err != nil {
		return nil, oops.New(err, "failed to fetch projects")
	}

	result := make([]ProjectAndStuff, len(rows))
	projectIDs := make([]int, len(rows))
	resultByProjectID := make(map[int]*ProjectAndStuff)
	for i, row := range rows {
		result[i] = ProjectAndStuff{
			Project: row.Project,
			Owner:   row.Owner,
		}
		projectIDs[i] = row.Project.ID
		resultByProjectID[row.Project.ID] = &result[i]
	}

	screenshots, err := db.Query[models.ProjectScreenshot](ctx, tx,
		`
		---- Fetch project screenshots
		SELECT $columns
		FROM project_screenshot
		WHERE project_id = ANY ($1)
		ORDER BY sort_order ASC, id ASC
		`,
		projectIDs,
	)
	if err != nil {
		return nil, oops.New(err, "failed to fetch project screenshots")
	}
	for _, screenshot := range screenshots {
		item := resultByProjectID[screenshot.ProjectID]
		item.Screenshots = append(item.Screenshots, screenshot)
	}

	awards, err := db.Query[models.BadgeAward](ctx, tx,
		`
		---- Fetch project awards
		SELECT $columns
		FROM badge_award
		WHERE project_id = ANY ($1)
		`,
		projectIDs,
	)
	if err != nil {
		return nil, oops.New(err, "failed to fetch project awards")
	}
	awardIndex := IndexAwards(awards)
	if awardIndex.Skipped > 0 {
		logging.ExtractLogger(ctx).Warn().Int("count", awardIndex.Skipped).Msg("skipped badge awards with no recipient")
	}
	for projectID, projectAwards := range awardIndex.ByProject {
		resultByProjectID[projectID].AwardCount = len(projectAwards)
	}

	err = tx.Commit(ctx)
	if err != nil {
		return nil, oops.New(err, "failed to commit transaction")
	}

	return result, nil
}

// FetchProject returns one project, or db.NotFound.
func FetchProject(
	ctx context.Context,
	dbConn db.ConnOrTx,
	currentProfile *models.Profile,
	projectID int,
) (ProjectAndStuff, error) {
	projects, err := FetchProjects(ctx, dbConn, currentProfile, ProjectsQuery{
		ProjectIDs: []int{projectID},
	})
	if err != nil {
		return ProjectAndStuff{}, err
	}
	if len(projects) == 0 {
		return ProjectAndStuff{}, db.NotFound
	}
	return projects[0], nil
}

type FeedbackAndAuthor struct {
	Feedback models.ProjectFeedback
	Author   *models.Profile
}

// FetchProjectFeedback returns a project's instructor feedback,
// newest first.
func FetchProjectFeedback(ctx context.Context, dbConn db.ConnOrTx, projectID int) ([]FeedbackAndAuthor, error) {
	p := perf.ExtractPerf(ctx)
	b := p.StartBlock("SQL", "Fetch project feedback")
	defer b.End()

	type resultRow struct {
		Feedback models.ProjectFeedback `db:"project_feedback"`
		Author   *models.Profile        `db:"author"`
	}
	rows, err := db.Query[resultRow](ctx, dbConn,
		`
		---- Fetch project feedback
		SELECT $columns
		FROM
			project_feedback
			LEFT JOIN profile AS author ON project_feedback.instructor_id = author.id
		WHERE project_feedback.project_id = $1
		ORDER BY project_feedback.created_at DESC, project_feedback.id DESC
		`,
		projectID,
	)
	if err != nil {
		return nil, oops.New(err, "failed to fetch project feedback")
	}

	result := make([]FeedbackAndAuthor, len(rows))
	for i, row := range rows {
		result[i] = FeedbackAndAuthor(*row)
	}
	return result, nil
}

// DeleteProject removes a project and everything attached to it, in
// one transaction. Demos that referenced it survive, just unlinked.
func DeleteProject(ctx context.Context, dbConn db.ConnOrTx, projectID int) error {
	p := perf.ExtractPerf(ctx)
	b := p.StartBlock("SQL", "Delete project")
	defer b.End()

	tx, err := dbConn.Begin(ctx)
	if err != nil {
		return oops.New(err, "failed to start transaction")
	}
	defer tx.Rollback(ctx)

	statements := []string{
		"DELETE FROM badge_award WHERE project_id = $1",
		"DELETE FROM project_feedback WHERE project_id = $1",
		"DELETE FROM project_screenshot WHERE project_id = $1",
		"UPDATE demo SET project_id = NULL WHERE project_id = $1",
		"DELETE FROM project WHERE id = $1",
	}
	for _, statement := range statements {
		_, err := tx.Exec(ctx, statement, projectID)
		if err != nil {
			return oops.New(err, "failed while deleting project data")
		}
	}

	err = tx.Commit(ctx)
	if err != nil {
		return oops.New(err, "failed to commit project deletion")
	}

	return nil
}

// ReorderProjects persists a new curated ordering. Each project gets
// its position in the list as its sort order.
//
// The updates run row by row on the given connection; a failure
// partway leaves earlier rows updated. The ordering is cosmetic, so a
// torn write is visible but harmless, and the admin simply reorders
// again.
func ReorderProjects(ctx context.Context, dbConn db.ConnOrTx, orderedProjectIDs []int) error {
	p := perf.ExtractPerf(ctx)
	b := p.StartBlock("SQL", "Reorder projects")
	defer b.End()

	for position, projectID := range orderedProjectIDs {
		_, err := dbConn.Exec(ctx,
			"UPDATE project SET sort_order = $1 WHERE id = $2",
			position, projectID,
		)
		if err != nil {
			return oops.New(err, "failed to update sort order for project %d", projectID)
		}
	}
	return nil
}
