package website

import (
	"net/http"

	"git.vibecoding.academy/vca/vca/src/db"
	"git.vibecoding.academy/vca/vca/src/models"
	"git.vibecoding.academy/vca/vca/src/oops"
	"git.vibecoding.academy/vca/vca/src/templates"
	"git.vibecoding.academy/vca/vca/src/vcadata"
	"git.vibecoding.academy/vca/vca/src/vcaurl"
)

type BadgesTemplateData struct {
	templates.BaseData

	Leaderboard []templates.LeaderboardEntry
	Badges      []templates.Badge
	Awards      []templates.AwardRow

	// For the admin award forms.
	People   []*templates.Profile
	Projects []templates.Project

	NewBadgeUrl string
}

func Badges(c *RequestContext) ResponseData {
	badges, err := vcadata.FetchBadges(c, c.Conn)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to fetch badges"))
	}

	awardRows, err := vcadata.FetchAwards(c, c.Conn)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to fetch awards"))
	}

	profiles, err := vcadata.FetchProfiles(c, c.Conn, vcadata.ProfilesQuery{})
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to fetch profiles for leaderboard"))
	}

	demos, err := vcadata.FetchDemos(c, c.Conn, c.CurrentProfile, vcadata.DemosQuery{})
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to fetch demos for leaderboard"))
	}

	votes, err := db.Query[models.Vote](c, c.Conn,
		`
		---- Fetch all votes
		SELECT $columns FROM vote
		`,
	)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to fetch votes for leaderboard"))
	}

	var awards []*models.BadgeAward
	for i := range awardRows {
		awards = append(awards, &awardRows[i].Award)
	}
	var plainDemos []*models.Demo
	for i := range demos {
		plainDemos = append(plainDemos, &demos[i].Demo)
	}

	awardIndex := vcadata.IndexAwards(awards)
	if awardIndex.Skipped > 0 {
		c.Logger.Warn().Int("count", awardIndex.Skipped).Msg("skipped badge awards with no recipient")
	}
	leaderboard := vcadata.RankLeaderboard(profiles, awardIndex, plainDemos, votes)

	var templateBadges []templates.Badge
	for _, badge := range badges {
		templateBadges = append(templateBadges, templates.BadgeToTemplate(badge))
	}
	// Award rows come back newest first; the page only shows a short feed.
	var templateAwards []templates.AwardRow
	for i := range awardRows {
		if len(templateAwards) >= 10 {
			break
		}
		templateAwards = append(templateAwards, templates.AwardToTemplate(&awardRows[i]))
	}
	var people []*templates.Profile
	for _, profile := range profiles {
		people = append(people, templates.ProfileToTemplate(profile))
	}

	projects, err := vcadata.FetchProjects(c, c.Conn, c.CurrentProfile, vcadata.ProjectsQuery{})
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to fetch projects for badges page"))
	}
	var templateProjects []templates.Project
	for i := range projects {
		templateProjects = append(templateProjects, templates.ProjectToTemplate(&projects[i]))
	}

	var res ResponseData
	res.MustWriteTemplate("badges.html", BadgesTemplateData{
		BaseData: getBaseData(c, "Badges"),

		Leaderboard: templates.LeaderboardToTemplate(leaderboard),
		Badges:      templateBadges,
		Awards:      templateAwards,

		People:   people,
		Projects: templateProjects,

		NewBadgeUrl: vcaurl.BuildAdminBadgeNew(),
	}, c.Perf)
	return res
}
