package website

import (
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"git.vibecoding.academy/vca/vca/src/db"
	"git.vibecoding.academy/vca/vca/src/models"
	"git.vibecoding.academy/vca/vca/src/oops"
	"git.vibecoding.academy/vca/vca/src/slackhook"
	"git.vibecoding.academy/vca/vca/src/vcadata"
	"git.vibecoding.academy/vca/vca/src/vcaurl"
	"github.com/gosimple/slug"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgErrUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation
}

/*
 * Weeks
 */

type weekFormValues struct {
	Number      *int
	Title       string
	Level       int
	FeedbackUrl *string
	Published   bool
}

func parseWeekForm(c *RequestContext) (weekFormValues, ResponseData, bool) {
	form, err := c.GetFormValues()
	if err != nil {
		return weekFormValues{}, c.RejectRequest("The submitted form is invalid."), false
	}

	var values weekFormValues

	values.Title = strings.TrimSpace(form.Get("title"))
	if values.Title == "" {
		return weekFormValues{}, c.RejectRequest("Weeks need a title."), false
	}

	if numberStr := form.Get("number"); numberStr != "" {
		number, err := strconv.Atoi(numberStr)
		if err != nil || number < 1 {
			return weekFormValues{}, c.RejectRequest("Week numbers must be positive."), false
		}
		values.Number = &number
	}

	values.Level = 1
	if levelStr := form.Get("level"); levelStr != "" {
		level, err := strconv.Atoi(levelStr)
		if err != nil || level < 1 || level > 3 {
			return weekFormValues{}, c.RejectRequest("Week levels run from 1 to 3."), false
		}
		values.Level = level
	}

	values.FeedbackUrl = emptyToNil(form.Get("feedback_url"))
	values.Published = form.Get("published") != ""

	return values, ResponseData{}, true
}

func AdminWeekNew(c *RequestContext) ResponseData {
	values, rejection, ok := parseWeekForm(c)
	if !ok {
		return rejection
	}

	tx, err := c.Conn.Begin(c)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to start transaction"))
	}
	defer tx.Rollback(c)

	week, err := db.QueryOne[models.Week](c, tx,
		`
		---- Create week
		INSERT INTO week (number, title, level, feedback_url, published)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING $columns
		`,
		values.Number, values.Title, values.Level, values.FeedbackUrl, values.Published,
	)
	if err != nil {
		if isUniqueViolation(err) {
			res := c.Redirect(vcaurl.BuildWeekIndex(), http.StatusSeeOther)
			res.AddFutureNotice("error", "A week with this number already exists.")
			return res
		}
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to create week"))
	}

	// Every week gets its demos section up front, so the tab exists
	// even before any curriculum is written.
	_, err = tx.Exec(c,
		`
		INSERT INTO week_section (week_id, slug, title, sort_order, is_system)
		VALUES ($1, $2, 'Demos', 100, TRUE)
		`,
		week.ID, models.DemosSectionSlug,
	)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to create demos section"))
	}

	err = tx.Commit(c)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to commit week creation"))
	}

	if week.Published {
		slackhook.NotifyWeekPublished(week)
	}

	dest := vcaurl.BuildWeekIndex()
	if week.Number != nil {
		dest = vcaurl.BuildWeek(*week.Number)
	}
	res := c.Redirect(dest, http.StatusSeeOther)
	res.AddFutureNotice("success", "Week created.")
	return res
}

func AdminWeekSave(c *RequestContext) ResponseData {
	weekID := c.PathParamInt("id")

	values, rejection, ok := parseWeekForm(c)
	if !ok {
		return rejection
	}

	existing, err := db.QueryOne[models.Week](c, c.Conn,
		`
		---- Fetch week for save
		SELECT $columns FROM week WHERE id = $1
		`,
		weekID,
	)
	if err != nil {
		if errors.Is(err, db.NotFound) {
			return FourOhFour(c)
		}
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to fetch week for save"))
	}

	week, err := db.QueryOne[models.Week](c, c.Conn,
		`
		---- Update week
		UPDATE week
		SET
			number = $2,
			title = $3,
			level = $4,
			feedback_url = $5,
			published = $6,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING $columns
		`,
		weekID, values.Number, values.Title, values.Level, values.FeedbackUrl, values.Published,
	)
	if err != nil {
		if isUniqueViolation(err) {
			res := c.Redirect(vcaurl.BuildWeekIndex(), http.StatusSeeOther)
			res.AddFutureNotice("error", "A week with this number already exists.")
			return res
		}
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to save week"))
	}

	// Announce only the unpublished-to-published transition, not every
	// edit of an already-published week.
	if week.Published && !existing.Published {
		slackhook.NotifyWeekPublished(week)
	}

	dest := vcaurl.BuildWeekIndex()
	if week.Number != nil {
		dest = vcaurl.BuildWeek(*week.Number)
	}
	res := c.Redirect(dest, http.StatusSeeOther)
	res.AddFutureNotice("success", "Week saved.")
	return res
}

func AdminWeekDelete(c *RequestContext) ResponseData {
	weekID := c.PathParamInt("id")

	tx, err := c.Conn.Begin(c)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to start transaction"))
	}
	defer tx.Rollback(c)

	statements := []string{
		"DELETE FROM vote WHERE demo_id IN (SELECT id FROM demo WHERE week_id = $1)",
		"DELETE FROM demo WHERE week_id = $1",
		"DELETE FROM week_section WHERE week_id = $1",
		"DELETE FROM week WHERE id = $1",
	}
	for _, statement := range statements {
		_, err := tx.Exec(c, statement, weekID)
		if err != nil {
			return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed while deleting week"))
		}
	}

	err = tx.Commit(c)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to commit week deletion"))
	}

	res := c.Redirect(vcaurl.BuildWeekIndex(), http.StatusSeeOther)
	res.AddFutureNotice("success", "Week deleted.")
	return res
}

/*
 * Week sections
 */

var reSectionSlug = regexp.MustCompile(`^[a-z0-9\-]+$`)

func AdminSectionNew(c *RequestContext) ResponseData {
	weekID := c.PathParamInt("id")

	form, err := c.GetFormValues()
	if err != nil {
		return c.RejectRequest("The submitted form is invalid.")
	}

	title := strings.TrimSpace(form.Get("title"))
	if title == "" {
		return c.RejectRequest("Sections need a title.")
	}
	sectionSlug := strings.TrimSpace(form.Get("slug"))
	if sectionSlug == "" {
		sectionSlug = slug.Make(title)
	}
	if !reSectionSlug.MatchString(sectionSlug) {
		return c.RejectRequest("Section slugs must be lowercase letters, digits and dashes.")
	}

	_, err = c.Conn.Exec(c,
		`
		INSERT INTO week_section (week_id, slug, title, sort_order)
		VALUES ($1, $2, $3, (
			SELECT COALESCE(MAX(sort_order), 0) + 1 FROM week_section WHERE week_id = $1
		))
		`,
		weekID, sectionSlug, title,
	)
	if err != nil {
		if isUniqueViolation(err) {
			res := redirectToWeekAdmin(c, weekID)
			res.AddFutureNotice("error", "This week already has a section with that slug.")
			return res
		}
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to create section"))
	}

	res := redirectToWeekAdmin(c, weekID)
	res.AddFutureNotice("success", "Section added.")
	return res
}

func AdminSectionSave(c *RequestContext) ResponseData {
	sectionID := c.PathParamInt("id")

	form, err := c.GetFormValues()
	if err != nil {
		return c.RejectRequest("The submitted form is invalid.")
	}

	section, err := db.QueryOne[models.WeekSection](c, c.Conn,
		`
		---- Fetch section for save
		SELECT $columns FROM week_section WHERE id = $1
		`,
		sectionID,
	)
	if err != nil {
		if errors.Is(err, db.NotFound) {
			return FourOhFour(c)
		}
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to fetch section for save"))
	}

	// System section slugs are load-bearing; the rest of the section
	// stays editable.
	sectionSlug := section.Slug
	if !section.IsSystem {
		sectionSlug = strings.TrimSpace(form.Get("slug"))
		if !reSectionSlug.MatchString(sectionSlug) {
			return c.RejectRequest("Section slugs must be lowercase letters, digits and dashes.")
		}
	}

	title := strings.TrimSpace(form.Get("title"))
	if title == "" {
		return c.RejectRequest("Sections need a title.")
	}

	sortOrder := section.SortOrder
	if sortOrderStr := form.Get("sort_order"); sortOrderStr != "" {
		sortOrder, err = strconv.Atoi(sortOrderStr)
		if err != nil {
			return c.RejectRequest("Sort order must be a number.")
		}
	}

	_, err = c.Conn.Exec(c,
		`
		UPDATE week_section
		SET slug = $2, title = $3, content = $4, sort_order = $5
		WHERE id = $1
		`,
		sectionID, sectionSlug, title, emptyToNil(form.Get("content")), sortOrder,
	)
	if err != nil {
		if isUniqueViolation(err) {
			res := redirectToWeekAdmin(c, section.WeekID)
			res.AddFutureNotice("error", "This week already has a section with that slug.")
			return res
		}
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to save section"))
	}

	res := redirectToWeekAdmin(c, section.WeekID)
	res.AddFutureNotice("success", "Section saved.")
	return res
}

func AdminSectionDelete(c *RequestContext) ResponseData {
	sectionID := c.PathParamInt("id")

	section, err := db.QueryOne[models.WeekSection](c, c.Conn,
		`
		---- Fetch section for delete
		SELECT $columns FROM week_section WHERE id = $1
		`,
		sectionID,
	)
	if err != nil {
		if errors.Is(err, db.NotFound) {
			return FourOhFour(c)
		}
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to fetch section for delete"))
	}
	if section.IsSystem {
		return c.RejectRequest("System sections can't be deleted.")
	}

	_, err = c.Conn.Exec(c, "DELETE FROM week_section WHERE id = $1", sectionID)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to delete section"))
	}

	res := redirectToWeekAdmin(c, section.WeekID)
	res.AddFutureNotice("success", "Section deleted.")
	return res
}

func redirectToWeekAdmin(c *RequestContext, weekID int) ResponseData {
	week, err := db.QueryOne[models.Week](c, c.Conn,
		`
		---- Fetch week for redirect
		SELECT $columns FROM week WHERE id = $1
		`,
		weekID,
	)
	if err == nil && week.Number != nil {
		return c.Redirect(vcaurl.BuildWeek(*week.Number), http.StatusSeeOther)
	}
	return c.Redirect(vcaurl.BuildWeekIndex(), http.StatusSeeOther)
}

/*
 * Badges
 */

var reBadgeColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

func AdminBadgeNew(c *RequestContext) ResponseData {
	form, err := c.GetFormValues()
	if err != nil {
		return c.RejectRequest("The submitted form is invalid.")
	}

	name := strings.TrimSpace(form.Get("name"))
	if name == "" {
		return c.RejectRequest("Badges need a name.")
	}
	color := form.Get("color")
	if !reBadgeColor.MatchString(color) {
		return c.RejectRequest("Badge colors must be hex like #fbbf24.")
	}

	_, err = c.Conn.Exec(c,
		"INSERT INTO badge (name, description, color) VALUES ($1, $2, $3)",
		name, emptyToNil(form.Get("description")), color,
	)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to create badge"))
	}

	res := c.Redirect(vcaurl.BuildBadges(), http.StatusSeeOther)
	res.AddFutureNotice("success", "Badge created.")
	return res
}

func AdminBadgeSave(c *RequestContext) ResponseData {
	badgeID := c.PathParamInt("id")

	form, err := c.GetFormValues()
	if err != nil {
		return c.RejectRequest("The submitted form is invalid.")
	}

	name := strings.TrimSpace(form.Get("name"))
	if name == "" {
		return c.RejectRequest("Badges need a name.")
	}
	color := form.Get("color")
	if !reBadgeColor.MatchString(color) {
		return c.RejectRequest("Badge colors must be hex like #fbbf24.")
	}

	tag, err := c.Conn.Exec(c,
		"UPDATE badge SET name = $2, description = $3, color = $4 WHERE id = $1",
		badgeID, name, emptyToNil(form.Get("description")), color,
	)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to save badge"))
	}
	if tag.RowsAffected() == 0 {
		return FourOhFour(c)
	}

	res := c.Redirect(vcaurl.BuildBadges(), http.StatusSeeOther)
	res.AddFutureNotice("success", "Badge saved.")
	return res
}

func AdminBadgeDelete(c *RequestContext) ResponseData {
	badgeID := c.PathParamInt("id")

	tx, err := c.Conn.Begin(c)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to start transaction"))
	}
	defer tx.Rollback(c)

	_, err = tx.Exec(c, "DELETE FROM badge_award WHERE badge_id = $1", badgeID)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to delete badge awards"))
	}
	tag, err := tx.Exec(c, "DELETE FROM badge WHERE id = $1", badgeID)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to delete badge"))
	}
	if tag.RowsAffected() == 0 {
		return FourOhFour(c)
	}

	err = tx.Commit(c)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to commit badge deletion"))
	}

	res := c.Redirect(vcaurl.BuildBadges(), http.StatusSeeOther)
	res.AddFutureNotice("success", "Badge and its awards deleted.")
	return res
}

func AdminBadgeAward(c *RequestContext) ResponseData {
	badgeID := c.PathParamInt("id")

	form, err := c.GetFormValues()
	if err != nil {
		return c.RejectRequest("The submitted form is invalid.")
	}

	var target vcadata.AwardTarget
	if userStr := form.Get("user_id"); userStr != "" {
		userID, err := strconv.Atoi(userStr)
		if err != nil {
			return c.RejectRequest("The selected member is invalid.")
		}
		target.UserID = &userID
	}
	if projectStr := form.Get("project_id"); projectStr != "" {
		projectID, err := strconv.Atoi(projectStr)
		if err != nil {
			return c.RejectRequest("The selected project is invalid.")
		}
		target.ProjectID = &projectID
	}

	badge, err := db.QueryOne[models.Badge](c, c.Conn,
		`
		---- Fetch badge for award
		SELECT $columns FROM badge WHERE id = $1
		`,
		badgeID,
	)
	if err != nil {
		if errors.Is(err, db.NotFound) {
			return FourOhFour(c)
		}
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to fetch badge for award"))
	}

	award, err := vcadata.AwardBadge(c, c.Conn, badgeID, target, c.CurrentProfile.ID)
	if err != nil {
		if errors.Is(err, vcadata.ErrInvalidAwardTarget) {
			return c.RejectRequest("Pick exactly one recipient: a member or a project.")
		}
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to award badge"))
	}

	recipientName := "someone"
	if award.TargetsUser() {
		if profile, err := vcadata.FetchProfile(c, c.Conn, *award.UserID); err == nil {
			recipientName = profile.Name
		}
	} else if award.TargetsProject() {
		if project, err := vcadata.FetchProject(c, c.Conn, c.CurrentProfile, *award.ProjectID); err == nil {
			recipientName = project.Project.Title
		}
	}
	slackhook.NotifyBadgeAwarded(badge, recipientName)

	res := c.Redirect(vcaurl.BuildBadges(), http.StatusSeeOther)
	res.AddFutureNotice("success", "Badge awarded.")
	return res
}

func AdminAwardDelete(c *RequestContext) ResponseData {
	awardID := c.PathParamInt("id")

	err := vcadata.RemoveAward(c, c.Conn, awardID)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to remove award"))
	}

	res := c.Redirect(vcaurl.BuildBadges(), http.StatusSeeOther)
	res.AddFutureNotice("success", "Award removed.")
	return res
}

/*
 * Profiles
 */

var profileRoles = map[string]models.ProfileRole{
	string(models.RoleAdmin):       models.RoleAdmin,
	string(models.RoleFacilitator): models.RoleFacilitator,
	string(models.RoleMember):      models.RoleMember,
}

func AdminProfileRole(c *RequestContext) ResponseData {
	profileID := c.PathParamInt("id")

	form, err := c.GetFormValues()
	if err != nil {
		return c.RejectRequest("The submitted form is invalid.")
	}
	role, ok := profileRoles[form.Get("role")]
	if !ok {
		return c.RejectRequest("The selected role is invalid.")
	}

	// An admin demoting themself is probably a misclick, and in the
	// worst case locks everyone out.
	if profileID == c.CurrentProfile.ID && role != models.RoleAdmin {
		return c.RejectRequest("You can't change your own role. Ask another admin.")
	}

	tag, err := c.Conn.Exec(c,
		"UPDATE profile SET role = $2, updated_at = CURRENT_TIMESTAMP WHERE id = $1",
		profileID, role,
	)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to change role"))
	}
	if tag.RowsAffected() == 0 {
		return FourOhFour(c)
	}

	res := c.Redirect(vcaurl.BuildPerson(profileID), http.StatusSeeOther)
	res.AddFutureNotice("success", "Role updated.")
	return res
}

func AdminProfileDelete(c *RequestContext) ResponseData {
	profileID := c.PathParamInt("id")

	if profileID == c.CurrentProfile.ID {
		return c.RejectRequest("You can't delete your own profile. Ask another admin.")
	}

	err := vcadata.DeleteProfile(c, c.Conn, profileID)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to delete profile"))
	}

	res := c.Redirect(vcaurl.BuildPeople(), http.StatusSeeOther)
	res.AddFutureNotice("success", "Member deleted.")
	return res
}

/*
 * Projects
 */

func AdminProjectReorder(c *RequestContext) ResponseData {
	form, err := c.GetFormValues()
	if err != nil {
		return c.RejectRequest("The submitted form is invalid.")
	}

	var orderedIDs []int
	for _, part := range strings.Split(form.Get("order"), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			return c.RejectRequest("The order must be a comma-separated list of project ids.")
		}
		orderedIDs = append(orderedIDs, id)
	}

	err = vcadata.ReorderProjects(c, c.Conn, orderedIDs)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to reorder projects"))
	}

	res := c.Redirect(vcaurl.BuildProjectIndex(), http.StatusSeeOther)
	res.AddFutureNotice("success", "Curated order saved.")
	return res
}
