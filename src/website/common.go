package website

import (
	"errors"

	"git.vibecoding.academy/vca/vca/src/auth"
	"git.vibecoding.academy/vca/vca/src/db"
	"git.vibecoding.academy/vca/vca/src/models"
	"git.vibecoding.academy/vca/vca/src/oops"
	"git.vibecoding.academy/vca/vca/src/vcadata"
)

func loadCommonData(h Handler) Handler {
	return func(c *RequestContext) ResponseData {
		b := c.Perf.StartBlock("MIDDLEWARE", "Load common website data")
		{
			sessionCookie, err := c.Req.Cookie(auth.SessionCookieName)
			if err == nil {
				loadSessionContext(c, sessionCookie.Value)
			}
			// http.ErrNoCookie is the only error Cookie ever returns, so no further handling to do here.
		}
		b.End()

		return h(c)
	}
}

// Resolves a session cookie into a session context. A missing or
// expired session means the viewer is anonymous; a session whose
// profile got deleted does too. A session whose profile merely could
// not be loaded still counts as signed in, but degraded: the viewer
// keeps their member-level view and none of their privileges until the
// profile store recovers.
func loadSessionContext(c *RequestContext, sessionId string) {
	session, err := auth.GetSession(c, c.Conn, sessionId)
	if err != nil {
		if !errors.Is(err, auth.ErrNoSession) {
			c.Logger.Error().Err(oops.New(err, "failed to get current session")).Msg("treating viewer as anonymous")
		}
		return
	}
	c.CurrentSession = session

	profile, err := vcadata.FetchProfile(c, c.Conn, session.UserID)
	if err != nil {
		if errors.Is(err, db.NotFound) {
			// The profile was deleted out from under the session.
			c.Logger.Debug().Int("userId", session.UserID).Msg("no profile for this session; treating viewer as anonymous")
			c.CurrentSession = nil
			return
		}

		c.Logger.Error().Err(oops.New(err, "failed to get profile for session")).Msg("serving a degraded session")
		fallback := &models.Profile{
			ID:   -1,
			Name: "Cohort member",
			Role: models.RoleMember,
		}
		c.CurrentProfile = fallback
		c.SessionContext = auth.Degraded(fallback, "profile temporarily unavailable")
		return
	}

	c.CurrentProfile = profile
	c.SessionContext = auth.Authenticated(profile)
}
