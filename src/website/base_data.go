package website

import (
	"git.vibecoding.academy/vca/vca/src/auth"
	"git.vibecoding.academy/vca/vca/src/templates"
	"git.vibecoding.academy/vca/vca/src/vcaurl"
)

func getBaseData(c *RequestContext, title string) templates.BaseData {
	viewer := templates.Viewer{
		LoginUrl:  vcaurl.BuildLogin(c.FullUrl()),
		LogoutUrl: vcaurl.BuildLogout(c.FullUrl()),
	}

	switch c.SessionContext.State {
	case auth.SessionAuthenticated:
		viewer.IsSignedIn = true
		viewer.IsAdmin = c.SessionContext.CanAdmin()
		viewer.IsFacilitator = c.SessionContext.CanFacilitate()
		viewer.Profile = templates.ProfileToTemplate(c.CurrentProfile)
	case auth.SessionDegraded:
		viewer.IsSignedIn = true
		viewer.IsDegraded = true
		viewer.DegradedReason = c.SessionContext.DegradedReason
		viewer.Profile = templates.ProfileToTemplate(c.CurrentProfile)
	}

	return templates.BaseData{
		Title:        title,
		CanonicalUrl: c.FullUrl(),
		Viewer:       viewer,
		Notices:      getNoticesFromCookie(c),
		CSRFToken:    csrfToken(c),
	}
}

func csrfToken(c *RequestContext) string {
	if c.CurrentSession != nil {
		return c.CurrentSession.CSRFToken
	}
	return ""
}
