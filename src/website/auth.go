package website

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"git.vibecoding.academy/vca/vca/src/auth"
	"git.vibecoding.academy/vca/vca/src/config"
	"git.vibecoding.academy/vca/vca/src/oops"
	"git.vibecoding.academy/vca/vca/src/vcaurl"
)

// Login starts the identity-provider round trip. The provider hosts
// the actual login UI; all we do is record where the viewer wanted to
// go and hand them off with a fresh state token.
func Login(c *RequestContext) ResponseData {
	redirect := sanitizeRedirect(c.Req.URL.Query().Get("redirect"))
	if c.SessionContext.SignedIn() {
		return c.Redirect(redirect, http.StatusSeeOther)
	}

	pending, err := auth.CreatePendingLogin(c, c.Conn, redirect)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to create pending login"))
	}

	authorizeUrl, err := url.Parse(config.Config.Auth.ProviderAuthorizeUrl)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "provider authorize URL is misconfigured"))
	}
	query := authorizeUrl.Query()
	query.Set("response_type", "code")
	query.Set("client_id", config.Config.Auth.ProviderClientID)
	query.Set("redirect_uri", vcaurl.BuildLoginCallback())
	query.Set("scope", "openid profile email")
	query.Set("state", pending.ID)
	authorizeUrl.RawQuery = query.Encode()

	return c.Redirect(authorizeUrl.String(), http.StatusSeeOther)
}

func LoginCallback(c *RequestContext) ResponseData {
	query := c.Req.URL.Query()

	pending, err := auth.ConsumePendingLogin(c, c.Conn, query.Get("state"))
	if err != nil {
		if errors.Is(err, auth.ErrNoPendingLogin) {
			c.Logger.Warn().Msg("login callback failed state validation - potential forgery, or the login just expired")
			return c.Redirect(vcaurl.BuildLanding(), http.StatusSeeOther)
		}
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to validate login state"))
	}

	if errParam := query.Get("error"); errParam != "" {
		c.Logger.Warn().Str("error", errParam).Msg("identity provider reported a login error")
		res := c.Redirect(pending.DestinationUrl, http.StatusSeeOther)
		res.AddFutureNotice("error", "Login was cancelled or failed. Please try again.")
		return res
	}

	claims, err := auth.ExchangeCode(c, query.Get("code"), vcaurl.BuildLoginCallback())
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to exchange login code"))
	}

	profile, err := auth.SyncProfile(c, c.Conn, claims)
	if err != nil {
		// The identity is verified but we could not load or create the
		// profile, so there is nothing to hang a session off of. Serve
		// a degraded landing page rather than bouncing the viewer back
		// to the provider.
		c.Logger.Error().Err(oops.New(err, "failed to sync profile on login")).Msg("login degraded")
		c.CurrentProfile = auth.FallbackProfile(claims)
		c.SessionContext = auth.Degraded(c.CurrentProfile, "profile temporarily unavailable")
		return Landing(c)
	}

	session, err := auth.CreateSession(c, c.Conn, profile.ID)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to create session"))
	}

	res := c.Redirect(pending.DestinationUrl, http.StatusSeeOther)
	res.SetCookie(auth.NewSessionCookie(session))
	return res
}

func Logout(c *RequestContext) ResponseData {
	redirect := sanitizeRedirect(c.Req.URL.Query().Get("redirect"))

	res := c.Redirect(redirect, http.StatusSeeOther)
	logoutUser(c, &res)
	return res
}

func logoutUser(c *RequestContext, res *ResponseData) {
	if c.CurrentSession != nil {
		err := auth.DeleteSession(c, c.Conn, c.CurrentSession.ID)
		if err != nil {
			c.Logger.Error().Err(err).Msg("failed to delete session on logout")
		}
	}

	res.SetCookie(auth.DeleteSessionCookie)
}

// Only same-site destinations are allowed; anything else falls back to
// the landing page so the login flow can't be used as an open redirect.
func sanitizeRedirect(redirect string) string {
	if redirect == "" {
		return vcaurl.BuildLanding()
	}
	parsed, err := url.Parse(redirect)
	if err != nil {
		return vcaurl.BuildLanding()
	}
	if parsed.Host != "" && !strings.HasPrefix(redirect, config.Config.BaseUrl) {
		return vcaurl.BuildLanding()
	}
	return redirect
}
