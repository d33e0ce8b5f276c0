package website

import (
	"net/http"
	"strings"
)

func FourOhFour(c *RequestContext) ResponseData {
	var res ResponseData
	res.StatusCode = http.StatusNotFound

	if c.Req.Header["Accept"] != nil && strings.Contains(c.Req.Header["Accept"][0], "text/html") {
		res.MustWriteTemplate("error.html", errorPageData{
			BaseData: getBaseData(c, "Page not found"),
			Message:  "We couldn't find that page. It may have been unpublished or deleted.",
		}, c.Perf)
	} else {
		res.Write([]byte("Not Found"))
	}
	return res
}
