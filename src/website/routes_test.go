package website

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"git.vibecoding.academy/vca/vca/src/templates"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestLogContextErrors(t *testing.T) {
	templates.Init()

	err1 := errors.New("test error 1")
	err2 := errors.New("test error 2")

	defer zerolog.SetGlobalLevel(zerolog.GlobalLevel())
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	logger.Print("sanity check")

	assert.Contains(t, buf.String(), "sanity check")

	router := &Router{}
	routes := RouteBuilder{
		Router: router,
		Middlewares: []Middleware{
			func(h Handler) Handler {
				return func(c *RequestContext) (res ResponseData) {
					c.Logger = &logger
					return logContextErrorsMiddleware(h)(c)
				}
			},
		},
	}

	routes.GET(regexp.MustCompile("^/test$"), func(c *RequestContext) ResponseData {
		return c.ErrorResponse(http.StatusInternalServerError, err1, err2)
	})

	srv := httptest.NewServer(router)
	defer srv.Close()

	res, err := http.Get(srv.URL + "/test")
	if assert.Nil(t, err) {
		defer res.Body.Close()

		t.Logf("Log contents: %s", buf.String())

		assert.Equal(t, http.StatusInternalServerError, res.StatusCode)

		assert.Contains(t, buf.String(), err1.Error())
		assert.Contains(t, buf.String(), err2.Error())
	}
}

func TestRoutingPathParams(t *testing.T) {
	router := &Router{}
	routes := RouteBuilder{Router: router}

	var gotNumber int
	routes.GET(regexp.MustCompile(`^/weeks/(?P<number>\d+)$`), func(c *RequestContext) ResponseData {
		gotNumber = c.PathParamInt("number")
		var res ResponseData
		res.Write([]byte("ok"))
		return res
	})
	routes.AnyMethod(regexp.MustCompile("^"), func(c *RequestContext) ResponseData {
		return ResponseData{StatusCode: http.StatusNotFound}
	})

	srv := httptest.NewServer(router)
	defer srv.Close()

	res, err := http.Get(srv.URL + "/weeks/7")
	if assert.Nil(t, err) {
		res.Body.Close()
		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, 7, gotNumber)
	}

	res, err = http.Get(srv.URL + "/weeks/banana")
	if assert.Nil(t, err) {
		res.Body.Close()
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	}
}
