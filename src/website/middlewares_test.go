package website

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"git.vibecoding.academy/vca/vca/src/auth"
	"git.vibecoding.academy/vca/vca/src/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Records Execs so the tests can observe session deletion; queries are
// never needed here.
type recordingConn struct {
	execSQL []string
}

func (c *recordingConn) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	panic("not implemented in test conn")
}

func (c *recordingConn) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	panic("not implemented in test conn")
}

func (c *recordingConn) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	c.execSQL = append(c.execSQL, sql)
	return pgconn.CommandTag{}, nil
}

func (c *recordingConn) Begin(ctx context.Context) (pgx.Tx, error) {
	panic("not implemented in test conn")
}

func TestCSRFMiddleware(t *testing.T) {
	makeServer := func(session *models.Session, conn *recordingConn, handlerRan *bool) *httptest.Server {
		router := &Router{}
		routes := RouteBuilder{
			Router: router,
			Middlewares: []Middleware{
				func(h Handler) Handler {
					return func(c *RequestContext) ResponseData {
						c.Conn = conn
						c.CurrentSession = session
						return h(c)
					}
				},
				csrfMiddleware,
			},
		}
		ok := func(c *RequestContext) ResponseData {
			*handlerRan = true
			var res ResponseData
			res.Write([]byte("ok"))
			return res
		}
		routes.GET(regexp.MustCompile("^/page$"), ok)
		routes.POST(regexp.MustCompile("^/page$"), ok)
		return httptest.NewServer(router)
	}

	noRedirects := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	postForm := func(t *testing.T, srvURL string, values url.Values) *http.Response {
		t.Helper()
		res, err := noRedirects.Post(srvURL+"/page", "application/x-www-form-urlencoded", strings.NewReader(values.Encode()))
		require.NoError(t, err)
		res.Body.Close()
		return res
	}

	session := &models.Session{ID: "sess", UserID: 1, CSRFToken: "correct-token"}

	t.Run("GETs are not checked", func(t *testing.T) {
		var handlerRan bool
		srv := makeServer(session, &recordingConn{}, &handlerRan)
		defer srv.Close()

		res, err := noRedirects.Get(srv.URL + "/page")
		require.NoError(t, err)
		res.Body.Close()
		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.True(t, handlerRan)
	})

	t.Run("POST with the session token passes", func(t *testing.T) {
		var handlerRan bool
		conn := &recordingConn{}
		srv := makeServer(session, conn, &handlerRan)
		defer srv.Close()

		res := postForm(t, srv.URL, url.Values{auth.CSRFFieldName: {"correct-token"}})
		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.True(t, handlerRan)
		assert.Empty(t, conn.execSQL)
	})

	t.Run("POST with a wrong token is logged out", func(t *testing.T) {
		var handlerRan bool
		conn := &recordingConn{}
		srv := makeServer(session, conn, &handlerRan)
		defer srv.Close()

		res := postForm(t, srv.URL, url.Values{auth.CSRFFieldName: {"attacker-token"}})
		assert.Equal(t, http.StatusSeeOther, res.StatusCode)
		assert.Equal(t, "/", res.Header.Get("Location"))
		assert.False(t, handlerRan)

		// The session is destroyed, not just rejected.
		require.Len(t, conn.execSQL, 1)
		assert.Contains(t, conn.execSQL[0], "DELETE FROM session")
	})

	t.Run("POST with no token is rejected", func(t *testing.T) {
		var handlerRan bool
		srv := makeServer(session, &recordingConn{}, &handlerRan)
		defer srv.Close()

		res := postForm(t, srv.URL, url.Values{"value": {"1"}})
		assert.Equal(t, http.StatusSeeOther, res.StatusCode)
		assert.False(t, handlerRan)
	})

	t.Run("a session without a token never passes", func(t *testing.T) {
		// Sessions that predate CSRF tokens have an empty one; an
		// empty form field must not match it.
		var handlerRan bool
		srv := makeServer(&models.Session{ID: "old", UserID: 1}, &recordingConn{}, &handlerRan)
		defer srv.Close()

		res := postForm(t, srv.URL, url.Values{})
		assert.Equal(t, http.StatusSeeOther, res.StatusCode)
		assert.False(t, handlerRan)
	})
}
