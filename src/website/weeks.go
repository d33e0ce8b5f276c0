package website

import (
	"errors"
	"net/http"

	"git.vibecoding.academy/vca/vca/src/auth"
	"git.vibecoding.academy/vca/vca/src/db"
	"git.vibecoding.academy/vca/vca/src/oops"
	"git.vibecoding.academy/vca/vca/src/templates"
	"git.vibecoding.academy/vca/vca/src/vcadata"
	"git.vibecoding.academy/vca/vca/src/vcaurl"
)

type WeekIndexTemplateData struct {
	templates.BaseData

	Weeks      []templates.Week
	NewWeekUrl string
}

func WeekIndex(c *RequestContext) ResponseData {
	weeks, err := vcadata.FetchWeeks(c, c.Conn, c.CurrentProfile, vcadata.WeeksQuery{})
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to fetch weeks"))
	}

	privileged := c.SessionContext.CanFacilitate()
	var templateWeeks []templates.Week
	for i := range weeks {
		templateWeeks = append(templateWeeks, templates.WeekToTemplate(&weeks[i], privileged))
	}

	var res ResponseData
	res.MustWriteTemplate("week_index.html", WeekIndexTemplateData{
		BaseData: getBaseData(c, "Curriculum"),

		Weeks:      templateWeeks,
		NewWeekUrl: vcaurl.BuildAdminWeekNew(),
	}, c.Perf)
	return res
}

type WeekTemplateData struct {
	templates.BaseData

	Week      templates.Week
	ActiveTab string

	Demos          []templates.Demo
	SubmitDemoUrl  string
	ViewerProjects []templates.Project

	SaveWeekUrl   string
	DeleteWeekUrl string
	NewSectionUrl string
}

func Week(c *RequestContext) ResponseData {
	number := c.PathParamInt("number")

	week, err := vcadata.FetchWeekByNumber(c, c.Conn, c.CurrentProfile, number)
	if err != nil {
		if errors.Is(err, db.NotFound) {
			return FourOhFour(c)
		}
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to fetch week"))
	}

	privileged := c.SessionContext.CanFacilitate()
	templateWeek := templates.WeekToTemplate(&week, privileged)

	activeTab := templateWeek.DefaultTab
	if requested := c.Req.URL.Query().Get("tab"); requested != "" {
		for _, section := range templateWeek.Sections {
			if section.Slug == requested {
				activeTab = requested
				break
			}
		}
	}

	demos, err := vcadata.FetchDemos(c, c.Conn, c.CurrentProfile, vcadata.DemosQuery{
		WeekIDs: []int{week.Week.ID},
	})
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to fetch demos for week"))
	}
	var templateDemos []templates.Demo
	for i := range demos {
		templateDemos = append(templateDemos, templates.DemoToTemplate(&demos[i], csrfToken(c)))
	}

	// For the demo submission form's project dropdown.
	var viewerProjects []templates.Project
	if c.SessionContext.State == auth.SessionAuthenticated {
		projects, err := vcadata.FetchProjects(c, c.Conn, c.CurrentProfile, vcadata.ProjectsQuery{
			OwnerIDs: []int{c.CurrentProfile.ID},
		})
		if err != nil {
			return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to fetch viewer projects"))
		}
		for i := range projects {
			viewerProjects = append(viewerProjects, templates.ProjectToTemplate(&projects[i]))
		}
	}

	var res ResponseData
	res.MustWriteTemplate("week.html", WeekTemplateData{
		BaseData: getBaseData(c, templateWeek.Title),

		Week:      templateWeek,
		ActiveTab: activeTab,

		Demos:          templateDemos,
		SubmitDemoUrl:  vcaurl.BuildWeekSubmitDemo(number),
		ViewerProjects: viewerProjects,

		SaveWeekUrl:   vcaurl.BuildAdminWeekSave(week.Week.ID),
		DeleteWeekUrl: vcaurl.BuildAdminWeekDelete(week.Week.ID),
		NewSectionUrl: vcaurl.BuildAdminSectionNew(week.Week.ID),
	}, c.Perf)
	return res
}
