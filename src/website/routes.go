package website

import (
	"net/http"

	"git.vibecoding.academy/vca/vca/src/vcaurl"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewWebsiteRoutes(conn *pgxpool.Pool) http.Handler {
	router := &Router{}
	routes := RouteBuilder{
		Router: router,
		Middlewares: []Middleware{
			func(h Handler) Handler {
				return func(c *RequestContext) ResponseData {
					c.Conn = conn
					return h(c)
				}
			},
			trackRequestPerf,
			logContextErrorsMiddleware,
			panicCatcherMiddleware,
			storeNoticesInCookieMiddleware,
			loadCommonData,
		},
	}

	anyone := routes
	authed := routes.WithMiddleware(needsAuth, csrfMiddleware)
	contributors := routes.WithMiddleware(needsAuth, rejectDegraded, csrfMiddleware)
	facilitators := routes.WithMiddleware(needsAuth, rejectDegraded, facilitatorsOnly, csrfMiddleware)
	admins := routes.WithMiddleware(needsAuth, rejectDegraded, adminsOnly, csrfMiddleware)

	anyone.GET(vcaurl.RegexLanding, Landing)

	anyone.GET(vcaurl.RegexLogin, Login)
	anyone.GET(vcaurl.RegexLoginCallback, LoginCallback)
	anyone.GET(vcaurl.RegexLogout, Logout)

	anyone.GET(vcaurl.RegexWeekIndex, WeekIndex)
	anyone.GET(vcaurl.RegexWeek, Week)
	contributors.POST(vcaurl.RegexWeekSubmitDemo, SubmitDemo)
	contributors.POST(vcaurl.RegexDemoVote, DemoVote)

	anyone.GET(vcaurl.RegexPeople, People)
	anyone.GET(vcaurl.RegexPerson, Person)
	authed.GET(vcaurl.RegexProfileSettings, ProfileSettings)
	contributors.POST(vcaurl.RegexProfileSettingsSave, ProfileSettingsSave)

	anyone.GET(vcaurl.RegexProjectIndex, ProjectIndex)
	authed.GET(vcaurl.RegexProjectNew, ProjectNew)
	anyone.GET(vcaurl.RegexProject, Project)
	authed.GET(vcaurl.RegexProjectEdit, ProjectEdit)
	contributors.POST(vcaurl.RegexProjectSave, ProjectSave)
	contributors.POST(vcaurl.RegexProjectDelete, ProjectDelete)
	contributors.POST(vcaurl.RegexProjectScreenshotUpload, ProjectScreenshotUpload)
	contributors.POST(vcaurl.RegexProjectScreenshotDelete, ProjectScreenshotDelete)
	facilitators.POST(vcaurl.RegexProjectFeedbackNew, ProjectFeedbackNew)
	facilitators.POST(vcaurl.RegexProjectFeedbackEdit, ProjectFeedbackEdit)
	facilitators.POST(vcaurl.RegexProjectFeedbackDelete, ProjectFeedbackDelete)

	anyone.GET(vcaurl.RegexBadges, Badges)

	admins.POST(vcaurl.RegexAdminWeekNew, AdminWeekNew)
	admins.POST(vcaurl.RegexAdminWeekSave, AdminWeekSave)
	admins.POST(vcaurl.RegexAdminWeekDelete, AdminWeekDelete)
	admins.POST(vcaurl.RegexAdminSectionNew, AdminSectionNew)
	admins.POST(vcaurl.RegexAdminSectionSave, AdminSectionSave)
	admins.POST(vcaurl.RegexAdminSectionDelete, AdminSectionDelete)
	admins.POST(vcaurl.RegexAdminBadgeNew, AdminBadgeNew)
	admins.POST(vcaurl.RegexAdminBadgeSave, AdminBadgeSave)
	admins.POST(vcaurl.RegexAdminBadgeDelete, AdminBadgeDelete)
	admins.POST(vcaurl.RegexAdminBadgeAward, AdminBadgeAward)
	admins.POST(vcaurl.RegexAdminAwardDelete, AdminAwardDelete)
	admins.POST(vcaurl.RegexAdminProfileRole, AdminProfileRole)
	admins.POST(vcaurl.RegexAdminProfileDelete, AdminProfileDelete)
	admins.POST(vcaurl.RegexAdminProjectReorder, AdminProjectReorder)

	anyone.GET(vcaurl.RegexPublic, PublicAsset)

	anyone.AnyMethod(vcaurl.RegexCatchAll, FourOhFour)

	return router
}

var publicFiles = http.StripPrefix(vcaurl.StaticPath, http.FileServer(http.Dir("public")))

func PublicAsset(c *RequestContext) ResponseData {
	var res ResponseData
	publicFiles.ServeHTTP(&res, c.Req)
	return res
}
