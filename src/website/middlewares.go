package website

import (
	"fmt"
	"net/http"
	"time"

	"git.vibecoding.academy/vca/vca/src/auth"
	"git.vibecoding.academy/vca/vca/src/logging"
	"git.vibecoding.academy/vca/vca/src/oops"
	"git.vibecoding.academy/vca/vca/src/perf"
	"git.vibecoding.academy/vca/vca/src/vcaurl"
)

func panicCatcherMiddleware(h Handler) Handler {
	return func(c *RequestContext) (res ResponseData) {
		defer func() {
			if recovered := recover(); recovered != nil {
				maybeError, ok := recovered.(*error)
				var err error
				if ok {
					err = *maybeError
				} else {
					err = oops.New(nil, fmt.Sprintf("Recovered from panic with value: %v", recovered))
				}
				res = c.ErrorResponse(http.StatusInternalServerError, err)
			}
		}()

		return h(c)
	}
}

func trackRequestPerf(h Handler) Handler {
	return func(c *RequestContext) ResponseData {
		c.Perf = perf.MakeNewRequestPerf(c.Route, c.Req.Method, c.Req.URL.Path)
		defer func() {
			c.Perf.EndRequest()
			log := logging.Info()
			blockStack := make([]time.Time, 0)
			for i, block := range c.Perf.Blocks {
				for len(blockStack) > 0 && block.End.After(blockStack[len(blockStack)-1]) {
					blockStack = blockStack[:len(blockStack)-1]
				}
				log.Str(fmt.Sprintf("[%4.d] At %9.2fms", i, c.Perf.MsFromStart(&block)), fmt.Sprintf("%*.s[%s] %s (%.4fms)", len(blockStack)*2, "", block.Category, block.Description, block.DurationMs()))
				blockStack = append(blockStack, block.End)
			}
			log.Msg(fmt.Sprintf("Served [%s] %s in %.4fms", c.Perf.Method, c.Perf.Path, float64(c.Perf.End.Sub(c.Perf.Start).Nanoseconds())/1000/1000))
		}()

		return h(c)
	}
}

func needsAuth(h Handler) Handler {
	return func(c *RequestContext) ResponseData {
		if !c.SessionContext.SignedIn() {
			return c.Redirect(vcaurl.BuildLogin(c.FullUrl()), http.StatusSeeOther)
		}

		return h(c)
	}
}

// Admin-only pages 404 rather than 403 so they don't advertise their
// existence. Degraded sessions never pass, whatever role the fallback
// profile claims.
func adminsOnly(h Handler) Handler {
	return func(c *RequestContext) ResponseData {
		if !c.SessionContext.CanAdmin() {
			return FourOhFour(c)
		}

		return h(c)
	}
}

// Degraded sessions can browse but not mutate; without a real profile
// row there is nothing to attribute the change to.
func rejectDegraded(h Handler) Handler {
	return func(c *RequestContext) ResponseData {
		if c.SessionContext.State == auth.SessionDegraded {
			return c.RejectRequest("Your profile is temporarily unavailable, so this action can't be saved right now. Please try again later.")
		}

		return h(c)
	}
}

// CSRF mitigation per the OWASP cheat sheet: every session carries a
// random token, and every state-changing form must echo it back in a
// hidden field. Only POSTs are checked; the groups this sits on also
// serve a few GET pages.
func csrfMiddleware(h Handler) Handler {
	return func(c *RequestContext) ResponseData {
		if c.Req.Method != http.MethodPost {
			return h(c)
		}

		c.Req.ParseMultipartForm(100 * 1024 * 1024)
		csrfToken := c.Req.Form.Get(auth.CSRFFieldName)
		if c.CurrentSession == nil || c.CurrentSession.CSRFToken == "" || csrfToken != c.CurrentSession.CSRFToken {
			c.Logger.Warn().Str("url", c.FullUrl()).Msg("request failed CSRF validation - potential attack?")

			res := c.Redirect("/", http.StatusSeeOther)
			logoutUser(c, &res)
			return res
		}

		return h(c)
	}
}

func facilitatorsOnly(h Handler) Handler {
	return func(c *RequestContext) ResponseData {
		if !c.SessionContext.CanFacilitate() {
			return FourOhFour(c)
		}

		return h(c)
	}
}

func logContextErrors(c *RequestContext, errs ...error) {
	for _, err := range errs {
		c.Logger.Error().Timestamp().Stack().Str("Requested", c.FullUrl()).Err(err).Msg("error occurred during request")
	}
}

func logContextErrorsMiddleware(h Handler) Handler {
	return func(c *RequestContext) ResponseData {
		res := h(c)
		logContextErrors(c, res.Errors...)
		return res
	}
}
