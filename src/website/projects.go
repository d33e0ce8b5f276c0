package website

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"git.vibecoding.academy/vca/vca/src/assets"
	"git.vibecoding.academy/vca/vca/src/auth"
	"git.vibecoding.academy/vca/vca/src/db"
	"git.vibecoding.academy/vca/vca/src/models"
	"git.vibecoding.academy/vca/vca/src/oops"
	"git.vibecoding.academy/vca/vca/src/templates"
	"git.vibecoding.academy/vca/vca/src/vcadata"
	"git.vibecoding.academy/vca/vca/src/vcaurl"
)

type ProjectIndexTemplateData struct {
	templates.BaseData

	Projects []templates.Project
	Sorts    []ProjectSortOption

	NewProjectUrl string
	ReorderUrl    string
	CurrentOrder  string
}

type ProjectSortOption struct {
	Label  string
	Url    string
	Active bool
}

var projectSortOptions = []struct {
	Sort  vcadata.ProjectSort
	Label string
}{
	{vcadata.ProjectSortCurated, "Curated"},
	{vcadata.ProjectSortNewest, "Newest"},
	{vcadata.ProjectSortTitle, "Title"},
	{vcadata.ProjectSortOwner, "Owner"},
	{vcadata.ProjectSortStatus, "Status"},
}

func ProjectIndex(c *RequestContext) ResponseData {
	sort := vcadata.ParseProjectSort(c.Req.URL.Query().Get("sort"))

	projects, err := vcadata.FetchProjects(c, c.Conn, c.CurrentProfile, vcadata.ProjectsQuery{
		Sort: sort,
	})
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to fetch projects"))
	}

	var templateProjects []templates.Project
	var orderParts []string
	for i := range projects {
		templateProjects = append(templateProjects, templates.ProjectToTemplate(&projects[i]))
		orderParts = append(orderParts, strconv.Itoa(projects[i].Project.ID))
	}

	var sorts []ProjectSortOption
	for _, option := range projectSortOptions {
		sorts = append(sorts, ProjectSortOption{
			Label:  option.Label,
			Url:    vcaurl.BuildProjectIndexSorted(string(option.Sort)),
			Active: option.Sort == sort,
		})
	}

	var res ResponseData
	res.MustWriteTemplate("project_index.html", ProjectIndexTemplateData{
		BaseData: getBaseData(c, "Projects"),

		Projects: templateProjects,
		Sorts:    sorts,

		NewProjectUrl: vcaurl.BuildProjectNew(),
		ReorderUrl:    vcaurl.BuildAdminProjectReorder(),
		CurrentOrder:  strings.Join(orderParts, ","),
	}, c.Perf)
	return res
}

type ProjectTemplateData struct {
	templates.BaseData

	Project templates.Project
	CanEdit bool

	Badges []templates.Badge
	Demos  []templates.Demo

	Feedback        []templates.Feedback
	CanGiveFeedback bool
	NewFeedbackUrl  string

	UploadScreenshotUrl string
}

func Project(c *RequestContext) ResponseData {
	projectID := c.PathParamInt("id")

	project, err := vcadata.FetchProject(c, c.Conn, c.CurrentProfile, projectID)
	if err != nil {
		if errors.Is(err, db.NotFound) {
			return FourOhFour(c)
		}
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to fetch project"))
	}

	demos, err := vcadata.FetchDemos(c, c.Conn, c.CurrentProfile, vcadata.DemosQuery{
		ProjectIDs: []int{projectID},
	})
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to fetch demos for project"))
	}
	var templateDemos []templates.Demo
	for i := range demos {
		templateDemos = append(templateDemos, templates.DemoToTemplate(&demos[i], csrfToken(c)))
	}

	feedback, err := vcadata.FetchProjectFeedback(c, c.Conn, projectID)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to fetch project feedback"))
	}
	awardRows, err := vcadata.FetchAwards(c, c.Conn)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to fetch awards"))
	}

	enriched := vcadata.EnrichProjects([]vcadata.ProjectAndStuff{project}, awardRows, feedback)[0]
	var templateBadges []templates.Badge
	for i := range enriched.Awards {
		templateBadges = append(templateBadges, templates.BadgeToTemplate(&enriched.Awards[i].Badge))
	}
	var templateFeedback []templates.Feedback
	for i := range enriched.Feedback {
		templateFeedback = append(templateFeedback, templates.FeedbackToTemplate(projectID, &enriched.Feedback[i]))
	}

	var res ResponseData
	res.MustWriteTemplate("project.html", ProjectTemplateData{
		BaseData: getBaseData(c, project.Project.Title),

		Project: templates.ProjectToTemplate(&project),
		CanEdit: canEditProject(c, &project.Project),

		Badges: templateBadges,
		Demos:  templateDemos,

		Feedback:        templateFeedback,
		CanGiveFeedback: c.SessionContext.CanFacilitate(),
		NewFeedbackUrl:  vcaurl.BuildProjectFeedbackNew(projectID),

		UploadScreenshotUrl: vcaurl.BuildProjectScreenshotUpload(projectID),
	}, c.Perf)
	return res
}

func canEditProject(c *RequestContext, project *models.Project) bool {
	if c.SessionContext.CanAdmin() {
		return true
	}
	return c.SessionContext.State == auth.SessionAuthenticated && c.CurrentProfile.ID == project.UserID
}

type ProjectEditTemplateData struct {
	templates.BaseData

	IsNew          bool
	Project        templates.Project
	RawDescription string
	TechStackValue string

	SaveUrl   string
	DeleteUrl string
}

func ProjectNew(c *RequestContext) ResponseData {
	var res ResponseData
	res.MustWriteTemplate("project_edit.html", ProjectEditTemplateData{
		BaseData: getBaseData(c, "New project"),

		IsNew:   true,
		Project: templates.Project{Status: string(models.ProjectDraft)},

		SaveUrl: vcaurl.BuildProjectSave(0),
	}, c.Perf)
	return res
}

func ProjectEdit(c *RequestContext) ResponseData {
	projectID := c.PathParamInt("id")

	project, err := vcadata.FetchProject(c, c.Conn, c.CurrentProfile, projectID)
	if err != nil {
		if errors.Is(err, db.NotFound) {
			return FourOhFour(c)
		}
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to fetch project"))
	}
	if !canEditProject(c, &project.Project) {
		return FourOhFour(c)
	}

	var rawDescription string
	if project.Project.Description != nil {
		rawDescription = *project.Project.Description
	}

	var res ResponseData
	res.MustWriteTemplate("project_edit.html", ProjectEditTemplateData{
		BaseData: getBaseData(c, "Edit "+project.Project.Title),

		Project:        templates.ProjectToTemplate(&project),
		RawDescription: rawDescription,
		TechStackValue: strings.Join(project.Project.TechStack, ", "),

		SaveUrl:   vcaurl.BuildProjectSave(projectID),
		DeleteUrl: vcaurl.BuildProjectDelete(projectID),
	}, c.Perf)
	return res
}

var projectStatuses = map[string]models.ProjectStatus{
	string(models.ProjectDraft):      models.ProjectDraft,
	string(models.ProjectInProgress): models.ProjectInProgress,
	string(models.ProjectCompleted):  models.ProjectCompleted,
}

// ProjectSave handles both creation (project id 0) and edits.
func ProjectSave(c *RequestContext) ResponseData {
	projectID := c.PathParamInt("id")

	maxBodySize := int64(assets.MaxImageSize + 1024*1024)
	c.Req.Body = http.MaxBytesReader(c.Res, c.Req.Body, maxBodySize)
	err := c.Req.ParseMultipartForm(maxBodySize)
	if err != nil {
		return c.RejectRequest("The submitted form is invalid or the avatar is too large.")
	}
	form := c.Req.PostForm

	title := strings.TrimSpace(form.Get("title"))
	if title == "" {
		return c.RejectRequest("Projects need a title.")
	}

	status, ok := projectStatuses[form.Get("status")]
	if !ok {
		return c.RejectRequest("The selected status is invalid.")
	}

	var techStack []string
	for _, part := range strings.Split(form.Get("tech_stack"), ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			techStack = append(techStack, trimmed)
		}
	}

	var existing *models.Project
	if projectID != 0 {
		project, err := vcadata.FetchProject(c, c.Conn, c.CurrentProfile, projectID)
		if err != nil {
			if errors.Is(err, db.NotFound) {
				return FourOhFour(c)
			}
			return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to fetch project for save"))
		}
		if !canEditProject(c, &project.Project) {
			return FourOhFour(c)
		}
		existing = &project.Project
	}

	var avatarUrl *string
	if existing != nil {
		avatarUrl = existing.AvatarUrl
	}
	if file, header, err := c.Req.FormFile("avatar"); err == nil {
		defer file.Close()
		content, err := io.ReadAll(file)
		if err != nil {
			return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to read avatar upload"))
		}
		url, err := uploadImage(c, content, "projects", header.Filename)
		if err != nil {
			var rejection *assets.InvalidImageError
			if errors.As(err, &rejection) {
				return c.RejectRequest(rejection.Error())
			}
			return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to upload project avatar"))
		}
		avatarUrl = &url
	}

	if existing == nil {
		created, err := db.QueryOne[models.Project](c, c.Conn,
			`
			---- Create project
			INSERT INTO project (user_id, title, description, goal, status, tech_stack, avatar_url, demo_url, github_url)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING $columns
			`,
			c.CurrentProfile.ID,
			title,
			emptyToNil(form.Get("description")),
			emptyToNil(form.Get("goal")),
			status,
			techStack,
			avatarUrl,
			emptyToNil(form.Get("demo_url")),
			emptyToNil(form.Get("github_url")),
		)
		if err != nil {
			return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to create project"))
		}

		res := c.Redirect(vcaurl.BuildProject(created.ID), http.StatusSeeOther)
		res.AddFutureNotice("success", "Project created.")
		return res
	}

	_, err = c.Conn.Exec(c,
		`
		UPDATE project
		SET
			title = $2,
			description = $3,
			goal = $4,
			status = $5,
			tech_stack = $6,
			avatar_url = $7,
			demo_url = $8,
			github_url = $9,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		`,
		projectID,
		title,
		emptyToNil(form.Get("description")),
		emptyToNil(form.Get("goal")),
		status,
		techStack,
		avatarUrl,
		emptyToNil(form.Get("demo_url")),
		emptyToNil(form.Get("github_url")),
	)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to save project"))
	}

	res := c.Redirect(vcaurl.BuildProject(projectID), http.StatusSeeOther)
	res.AddFutureNotice("success", "Project saved.")
	return res
}

func ProjectDelete(c *RequestContext) ResponseData {
	projectID := c.PathParamInt("id")

	project, err := vcadata.FetchProject(c, c.Conn, c.CurrentProfile, projectID)
	if err != nil {
		if errors.Is(err, db.NotFound) {
			return FourOhFour(c)
		}
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to fetch project for delete"))
	}
	if !canEditProject(c, &project.Project) {
		return FourOhFour(c)
	}

	err = vcadata.DeleteProject(c, c.Conn, projectID)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to delete project"))
	}

	res := c.Redirect(vcaurl.BuildProjectIndex(), http.StatusSeeOther)
	res.AddFutureNotice("success", "Project deleted.")
	return res
}

func ProjectScreenshotUpload(c *RequestContext) ResponseData {
	projectID := c.PathParamInt("id")

	project, err := vcadata.FetchProject(c, c.Conn, c.CurrentProfile, projectID)
	if err != nil {
		if errors.Is(err, db.NotFound) {
			return FourOhFour(c)
		}
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to fetch project for screenshot"))
	}
	if !canEditProject(c, &project.Project) {
		return FourOhFour(c)
	}

	maxBodySize := int64(assets.MaxImageSize + 1024*1024)
	c.Req.Body = http.MaxBytesReader(c.Res, c.Req.Body, maxBodySize)
	err = c.Req.ParseMultipartForm(maxBodySize)
	if err != nil {
		return c.RejectRequest("The submitted form is invalid or the screenshot is too large.")
	}

	file, header, err := c.Req.FormFile("screenshot")
	if err != nil {
		return c.RejectRequest("No screenshot was attached.")
	}
	defer file.Close()
	content, err := io.ReadAll(file)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to read screenshot upload"))
	}

	url, err := uploadImage(c, content, "screenshots", header.Filename)
	if err != nil {
		var rejection *assets.InvalidImageError
		if errors.As(err, &rejection) {
			return c.RejectRequest(rejection.Error())
		}
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to upload screenshot"))
	}

	_, err = c.Conn.Exec(c,
		`
		INSERT INTO project_screenshot (project_id, url, caption, sort_order)
		VALUES ($1, $2, $3, (
			SELECT COALESCE(MAX(sort_order), 0) + 1 FROM project_screenshot WHERE project_id = $1
		))
		`,
		projectID, url, emptyToNil(c.Req.PostForm.Get("caption")),
	)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to save screenshot"))
	}

	res := c.Redirect(vcaurl.BuildProject(projectID), http.StatusSeeOther)
	res.AddFutureNotice("success", "Screenshot uploaded.")
	return res
}

func ProjectScreenshotDelete(c *RequestContext) ResponseData {
	projectID := c.PathParamInt("id")
	screenshotID := c.PathParamInt("screenshotid")

	project, err := vcadata.FetchProject(c, c.Conn, c.CurrentProfile, projectID)
	if err != nil {
		if errors.Is(err, db.NotFound) {
			return FourOhFour(c)
		}
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to fetch project for screenshot delete"))
	}
	if !canEditProject(c, &project.Project) {
		return FourOhFour(c)
	}

	screenshot, err := db.QueryOne[models.ProjectScreenshot](c, c.Conn,
		`
		---- Fetch screenshot
		SELECT $columns FROM project_screenshot WHERE id = $1 AND project_id = $2
		`,
		screenshotID, projectID,
	)
	if err != nil {
		if errors.Is(err, db.NotFound) {
			return FourOhFour(c)
		}
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to fetch screenshot"))
	}

	_, err = c.Conn.Exec(c, "DELETE FROM project_screenshot WHERE id = $1", screenshotID)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to delete screenshot"))
	}

	// Removing the stored object is best-effort; an orphaned object is
	// harmless.
	err = assets.DeleteImage(c, screenshot.Url)
	if err != nil {
		c.Logger.Warn().Err(err).Str("url", screenshot.Url).Msg("failed to delete screenshot object")
	}

	res := c.Redirect(vcaurl.BuildProject(projectID), http.StatusSeeOther)
	res.AddFutureNotice("success", "Screenshot removed.")
	return res
}

func ProjectFeedbackNew(c *RequestContext) ResponseData {
	projectID := c.PathParamInt("id")

	_, err := vcadata.FetchProject(c, c.Conn, c.CurrentProfile, projectID)
	if err != nil {
		if errors.Is(err, db.NotFound) {
			return FourOhFour(c)
		}
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to fetch project for feedback"))
	}

	form, err := c.GetFormValues()
	if err != nil {
		return c.RejectRequest("The submitted form is invalid.")
	}
	content := strings.TrimSpace(form.Get("content"))
	if content == "" {
		return c.RejectRequest("Feedback can't be empty.")
	}

	_, err = c.Conn.Exec(c,
		"INSERT INTO project_feedback (project_id, instructor_id, content) VALUES ($1, $2, $3)",
		projectID, c.CurrentProfile.ID, content,
	)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to save feedback"))
	}

	res := c.Redirect(vcaurl.BuildProject(projectID), http.StatusSeeOther)
	res.AddFutureNotice("success", "Feedback posted.")
	return res
}

func ProjectFeedbackEdit(c *RequestContext) ResponseData {
	projectID := c.PathParamInt("id")
	feedbackID := c.PathParamInt("feedbackid")

	form, err := c.GetFormValues()
	if err != nil {
		return c.RejectRequest("The submitted form is invalid.")
	}
	content := strings.TrimSpace(form.Get("content"))
	if content == "" {
		return c.RejectRequest("Feedback can't be empty.")
	}

	tag, err := c.Conn.Exec(c,
		"UPDATE project_feedback SET content = $1, updated_at = NOW() WHERE id = $2 AND project_id = $3",
		content, feedbackID, projectID,
	)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to update feedback"))
	}
	if tag.RowsAffected() == 0 {
		return FourOhFour(c)
	}

	res := c.Redirect(vcaurl.BuildProject(projectID), http.StatusSeeOther)
	res.AddFutureNotice("success", "Feedback updated.")
	return res
}

func ProjectFeedbackDelete(c *RequestContext) ResponseData {
	projectID := c.PathParamInt("id")
	feedbackID := c.PathParamInt("feedbackid")

	tag, err := c.Conn.Exec(c,
		"DELETE FROM project_feedback WHERE id = $1 AND project_id = $2",
		feedbackID, projectID,
	)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to delete feedback"))
	}
	if tag.RowsAffected() == 0 {
		return FourOhFour(c)
	}

	res := c.Redirect(vcaurl.BuildProject(projectID), http.StatusSeeOther)
	res.AddFutureNotice("success", "Feedback deleted.")
	return res
}
