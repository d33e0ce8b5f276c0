package website

import (
	"net/http"

	"git.vibecoding.academy/vca/vca/src/oops"
	"git.vibecoding.academy/vca/vca/src/templates"
	"git.vibecoding.academy/vca/vca/src/vcadata"
)

const landingMaxDemos = 6

type LandingTemplateData struct {
	templates.BaseData

	CurrentWeek *templates.Week
	RecentDemos []templates.Demo
}

func Landing(c *RequestContext) ResponseData {
	weeks, err := vcadata.FetchWeeks(c, c.Conn, nil, vcadata.WeeksQuery{
		PublishedOnly: true,
	})
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to fetch weeks for landing page"))
	}

	// The latest published numbered week is "this week".
	var currentWeek *templates.Week
	for i := len(weeks) - 1; i >= 0; i-- {
		if weeks[i].Week.Number != nil {
			week := templates.WeekToTemplate(&weeks[i], false)
			currentWeek = &week
			break
		}
	}

	demos, err := vcadata.FetchDemos(c, c.Conn, c.CurrentProfile, vcadata.DemosQuery{})
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to fetch demos for landing page"))
	}
	var recentDemos []templates.Demo
	for i := range demos {
		if i >= landingMaxDemos {
			break
		}
		recentDemos = append(recentDemos, templates.DemoToTemplate(&demos[i], csrfToken(c)))
	}

	var res ResponseData
	res.MustWriteTemplate("landing.html", LandingTemplateData{
		BaseData: getBaseData(c, ""),

		CurrentWeek: currentWeek,
		RecentDemos: recentDemos,
	}, c.Perf)
	return res
}
