package website

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"git.vibecoding.academy/vca/vca/src/db"
	"git.vibecoding.academy/vca/vca/src/markdown"
	"git.vibecoding.academy/vca/vca/src/models"
	"git.vibecoding.academy/vca/vca/src/oops"
	"git.vibecoding.academy/vca/vca/src/slackhook"
	"git.vibecoding.academy/vca/vca/src/vcadata"
	"git.vibecoding.academy/vca/vca/src/vcaurl"
)

func SubmitDemo(c *RequestContext) ResponseData {
	number := c.PathParamInt("number")

	week, err := vcadata.FetchWeekByNumber(c, c.Conn, c.CurrentProfile, number)
	if err != nil {
		if errors.Is(err, db.NotFound) {
			return FourOhFour(c)
		}
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to fetch week for demo submission"))
	}

	form, err := c.GetFormValues()
	if err != nil {
		return c.RejectRequest("The submitted form is invalid.")
	}

	title := strings.TrimSpace(form.Get("title"))
	if title == "" {
		return c.RejectRequest("Demos need a title.")
	}

	var demoUrl *string
	if u := strings.TrimSpace(form.Get("url")); u != "" {
		if markdown.FirstUrl(u) != u {
			return c.RejectRequest("The demo link doesn't look like a URL.")
		}
		demoUrl = &u
	}
	var description *string
	if d := strings.TrimSpace(form.Get("description")); d != "" {
		description = &d
	}

	var projectID *int
	if p := form.Get("project_id"); p != "" {
		id, err := strconv.Atoi(p)
		if err != nil {
			return c.RejectRequest("The selected project is invalid.")
		}
		project, err := vcadata.FetchProject(c, c.Conn, c.CurrentProfile, id)
		if err != nil {
			if errors.Is(err, db.NotFound) {
				return c.RejectRequest("The selected project does not exist.")
			}
			return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to fetch project for demo"))
		}
		if project.Project.UserID != c.CurrentProfile.ID {
			return c.RejectRequest("You can only attach your own projects to a demo.")
		}
		projectID = &id
	}

	demo, err := db.QueryOne[models.Demo](c, c.Conn,
		`
		---- Create demo
		INSERT INTO demo (week_id, user_id, project_id, title, description, url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING $columns
		`,
		week.Week.ID, c.CurrentProfile.ID, projectID, title, description, demoUrl,
	)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to create demo"))
	}

	slackhook.NotifyDemoSubmitted(c.CurrentProfile.Name, demo)

	res := c.Redirect(vcaurl.BuildWeekTab(number, models.DemosSectionSlug), http.StatusSeeOther)
	res.AddFutureNotice("success", "Demo submitted. Go get those votes!")
	return res
}

func DemoVote(c *RequestContext) ResponseData {
	demoID := c.PathParamInt("id")

	form, err := c.GetFormValues()
	if err != nil {
		return c.RejectRequest("The submitted form is invalid.")
	}
	value, err := strconv.Atoi(form.Get("value"))
	if err != nil {
		return c.RejectRequest("Votes must be +1 or -1.")
	}

	demos, err := vcadata.FetchDemos(c, c.Conn, c.CurrentProfile, vcadata.DemosQuery{
		DemoIDs: []int{demoID},
	})
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to fetch demo for vote"))
	}
	if len(demos) == 0 {
		return FourOhFour(c)
	}
	demo := demos[0].Demo

	err = vcadata.CastVote(c, c.Conn, c.CurrentProfile.ID, demoID, value)
	if err != nil {
		if errors.Is(err, vcadata.ErrInvalidVote) {
			return c.RejectRequest("Votes must be +1 or -1.")
		}
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to cast vote"))
	}

	// Send the voter back to the demo they were looking at.
	dest := vcaurl.BuildLanding()
	if referer := c.Req.Header.Get("Referer"); referer != "" {
		dest = sanitizeRedirect(referer)
	} else {
		week, err := vcadata.FetchWeeks(c, c.Conn, c.CurrentProfile, vcadata.WeeksQuery{
			WeekIDs: []int{demo.WeekID},
		})
		if err == nil && len(week) == 1 && week[0].Week.Number != nil {
			dest = vcaurl.BuildWeekTab(*week[0].Week.Number, models.DemosSectionSlug)
		}
	}
	return c.Redirect(dest, http.StatusSeeOther)
}
