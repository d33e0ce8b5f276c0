package website

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"git.vibecoding.academy/vca/vca/src/assets"
	"git.vibecoding.academy/vca/vca/src/db"
	"git.vibecoding.academy/vca/vca/src/models"
	"git.vibecoding.academy/vca/vca/src/oops"
	"git.vibecoding.academy/vca/vca/src/templates"
	"git.vibecoding.academy/vca/vca/src/vcadata"
	"git.vibecoding.academy/vca/vca/src/vcaurl"
)

type PeopleTemplateData struct {
	templates.BaseData

	People []PersonCard
}

type PersonCard struct {
	*templates.Profile
	BadgeCount int
}

func People(c *RequestContext) ResponseData {
	profiles, err := vcadata.FetchProfiles(c, c.Conn, vcadata.ProfilesQuery{})
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to fetch profiles"))
	}
	awards, err := vcadata.FetchAwards(c, c.Conn)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to fetch awards"))
	}
	plainAwards := make([]*models.BadgeAward, len(awards))
	for i := range awards {
		plainAwards[i] = &awards[i].Award
	}
	awardIndex := vcadata.IndexAwards(plainAwards)
	if awardIndex.Skipped > 0 {
		c.Logger.Warn().Int("count", awardIndex.Skipped).Msg("skipped badge awards with no recipient")
	}

	var people []PersonCard
	for _, profile := range profiles {
		people = append(people, PersonCard{
			Profile:    templates.ProfileToTemplate(profile),
			BadgeCount: len(awardIndex.ByUser[profile.ID]),
		})
	}

	var res ResponseData
	res.MustWriteTemplate("people.html", PeopleTemplateData{
		BaseData: getBaseData(c, "People"),

		People: people,
	}, c.Perf)
	return res
}

type PersonTemplateData struct {
	templates.BaseData

	Person   *templates.Profile
	Badges   []templates.Badge
	Projects []templates.Project
	Demos    []templates.Demo

	SetRoleUrl       string
	DeleteProfileUrl string
}

func Person(c *RequestContext) ResponseData {
	profileID := c.PathParamInt("id")

	profile, err := vcadata.FetchProfile(c, c.Conn, profileID)
	if err != nil {
		if errors.Is(err, db.NotFound) {
			return FourOhFour(c)
		}
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to fetch profile"))
	}

	// The person's badges are the badges from their user-targeted
	// awards, repeats included.
	awards, err := vcadata.FetchAwards(c, c.Conn)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to fetch awards"))
	}
	var badges []templates.Badge
	for i := range awards {
		if awards[i].RecipientProfile != nil && awards[i].RecipientProfile.ID == profileID {
			badges = append(badges, templates.BadgeToTemplate(&awards[i].Badge))
		}
	}

	projects, err := vcadata.FetchProjects(c, c.Conn, c.CurrentProfile, vcadata.ProjectsQuery{
		OwnerIDs: []int{profileID},
	})
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to fetch projects for person"))
	}
	var templateProjects []templates.Project
	for i := range projects {
		templateProjects = append(templateProjects, templates.ProjectToTemplate(&projects[i]))
	}

	demos, err := vcadata.FetchDemos(c, c.Conn, c.CurrentProfile, vcadata.DemosQuery{
		UserIDs: []int{profileID},
	})
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to fetch demos for person"))
	}
	var templateDemos []templates.Demo
	for i := range demos {
		templateDemos = append(templateDemos, templates.DemoToTemplate(&demos[i], csrfToken(c)))
	}

	var res ResponseData
	res.MustWriteTemplate("person.html", PersonTemplateData{
		BaseData: getBaseData(c, profile.Name),

		Person:   templates.ProfileToTemplate(profile),
		Badges:   badges,
		Projects: templateProjects,
		Demos:    templateDemos,

		SetRoleUrl:       vcaurl.BuildAdminProfileRole(profileID),
		DeleteProfileUrl: vcaurl.BuildAdminProfileDelete(profileID),
	}, c.Perf)
	return res
}

type ProfileSettingsTemplateData struct {
	templates.BaseData

	Person  *templates.Profile
	RawBio  string
	SaveUrl string
}

func ProfileSettings(c *RequestContext) ResponseData {
	var rawBio string
	if c.CurrentProfile.Bio != nil {
		rawBio = *c.CurrentProfile.Bio
	}

	var res ResponseData
	res.MustWriteTemplate("profile_settings.html", ProfileSettingsTemplateData{
		BaseData: getBaseData(c, "Your profile"),

		Person:  templates.ProfileToTemplate(c.CurrentProfile),
		RawBio:  rawBio,
		SaveUrl: vcaurl.BuildProfileSettingsSave(),
	}, c.Perf)
	return res
}

func ProfileSettingsSave(c *RequestContext) ResponseData {
	maxBodySize := int64(assets.MaxImageSize + 1024*1024)
	c.Req.Body = http.MaxBytesReader(c.Res, c.Req.Body, maxBodySize)
	err := c.Req.ParseMultipartForm(maxBodySize)
	if err != nil {
		return c.RejectRequest("The submitted form is invalid or the avatar is too large.")
	}
	form := c.Req.PostForm

	name := strings.TrimSpace(form.Get("name"))
	if name == "" {
		return c.RejectRequest("Your profile needs a name.")
	}

	avatarUrl := c.CurrentProfile.AvatarUrl
	if file, header, err := c.Req.FormFile("avatar"); err == nil {
		defer file.Close()
		content, err := io.ReadAll(file)
		if err != nil {
			return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to read avatar upload"))
		}
		url, err := uploadImage(c, content, "avatars", header.Filename)
		if err != nil {
			var rejection *assets.InvalidImageError
			if errors.As(err, &rejection) {
				return c.RejectRequest(rejection.Error())
			}
			return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to upload avatar"))
		}
		avatarUrl = &url
	}

	_, err = c.Conn.Exec(c,
		`
		UPDATE profile
		SET
			name = $2,
			bio = $3,
			github_url = $4,
			slack_handle = $5,
			project_idea = $6,
			repo_url = $7,
			avatar_url = $8,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		`,
		c.CurrentProfile.ID,
		name,
		emptyToNil(form.Get("bio")),
		emptyToNil(form.Get("github_url")),
		emptyToNil(form.Get("slack_handle")),
		emptyToNil(form.Get("project_idea")),
		emptyToNil(form.Get("repo_url")),
		avatarUrl,
	)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to save profile"))
	}

	res := c.Redirect(vcaurl.BuildProfileSettings(), http.StatusSeeOther)
	res.AddFutureNotice("success", "Profile saved.")
	return res
}

func emptyToNil(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func uploadImage(c *RequestContext, content []byte, folder string, filename string) (string, error) {
	b := c.Perf.StartBlock("ASSET", "Upload image")
	defer b.End()

	return assets.UploadImage(c, assets.UploadInput{
		Content:  content,
		Folder:   folder,
		Filename: filename,
	})
}
