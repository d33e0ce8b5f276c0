package vcaurl

import (
	"regexp"
	"strconv"

	"git.vibecoding.academy/vca/vca/src/oops"
)

var RegexLanding = regexp.MustCompile("^/$")

func BuildLanding() string {
	return Url("/", nil)
}

/*
 * Auth
 */

var RegexLogin = regexp.MustCompile("^/login$")

func BuildLogin(redirectTo string) string {
	var query []Q
	if redirectTo != "" {
		query = append(query, Q{"redirect", redirectTo})
	}
	return Url("/login", query)
}

var RegexLoginCallback = regexp.MustCompile("^/login/callback$")

func BuildLoginCallback() string {
	return Url("/login/callback", nil)
}

var RegexLogout = regexp.MustCompile("^/logout$")

func BuildLogout(redirectTo string) string {
	var query []Q
	if redirectTo != "" {
		query = append(query, Q{"redirect", redirectTo})
	}
	return Url("/logout", query)
}

/*
 * Curriculum
 */

var RegexWeekIndex = regexp.MustCompile("^/weeks$")

func BuildWeekIndex() string {
	return Url("/weeks", nil)
}

var RegexWeek = regexp.MustCompile(`^/weeks/(?P<number>\d+)$`)

func BuildWeek(number int) string {
	if number < 1 {
		panic(oops.New(nil, "Invalid week number (%d), must be >= 1", number))
	}
	return Url("/weeks/"+strconv.Itoa(number), nil)
}

func BuildWeekTab(number int, sectionSlug string) string {
	if number < 1 {
		panic(oops.New(nil, "Invalid week number (%d), must be >= 1", number))
	}
	return Url("/weeks/"+strconv.Itoa(number), []Q{{"tab", sectionSlug}})
}

var RegexWeekSubmitDemo = regexp.MustCompile(`^/weeks/(?P<number>\d+)/demos$`)

func BuildWeekSubmitDemo(number int) string {
	return Url("/weeks/"+strconv.Itoa(number)+"/demos", nil)
}

var RegexDemoVote = regexp.MustCompile(`^/demos/(?P<id>\d+)/vote$`)

func BuildDemoVote(demoId int) string {
	return Url("/demos/"+strconv.Itoa(demoId)+"/vote", nil)
}

/*
 * People
 */

var RegexPeople = regexp.MustCompile("^/people$")

func BuildPeople() string {
	return Url("/people", nil)
}

var RegexPerson = regexp.MustCompile(`^/people/(?P<id>\d+)$`)

func BuildPerson(profileId int) string {
	return Url("/people/"+strconv.Itoa(profileId), nil)
}

var RegexProfileSettings = regexp.MustCompile("^/profile$")

func BuildProfileSettings() string {
	return Url("/profile", nil)
}

var RegexProfileSettingsSave = regexp.MustCompile("^/profile/save$")

func BuildProfileSettingsSave() string {
	return Url("/profile/save", nil)
}

/*
 * Projects
 */

var RegexProjectIndex = regexp.MustCompile("^/projects$")

func BuildProjectIndex() string {
	return Url("/projects", nil)
}

func BuildProjectIndexSorted(sort string) string {
	return Url("/projects", []Q{{"sort", sort}})
}

var RegexProjectNew = regexp.MustCompile("^/projects/new$")

func BuildProjectNew() string {
	return Url("/projects/new", nil)
}

var RegexProject = regexp.MustCompile(`^/projects/(?P<id>\d+)$`)

func BuildProject(projectId int) string {
	return Url("/projects/"+strconv.Itoa(projectId), nil)
}

var RegexProjectEdit = regexp.MustCompile(`^/projects/(?P<id>\d+)/edit$`)

func BuildProjectEdit(projectId int) string {
	return Url("/projects/"+strconv.Itoa(projectId)+"/edit", nil)
}

var RegexProjectSave = regexp.MustCompile(`^/projects/(?P<id>\d+)/save$`)

func BuildProjectSave(projectId int) string {
	return Url("/projects/"+strconv.Itoa(projectId)+"/save", nil)
}

var RegexProjectDelete = regexp.MustCompile(`^/projects/(?P<id>\d+)/delete$`)

func BuildProjectDelete(projectId int) string {
	return Url("/projects/"+strconv.Itoa(projectId)+"/delete", nil)
}

var RegexProjectScreenshotUpload = regexp.MustCompile(`^/projects/(?P<id>\d+)/screenshots$`)

func BuildProjectScreenshotUpload(projectId int) string {
	return Url("/projects/"+strconv.Itoa(projectId)+"/screenshots", nil)
}

var RegexProjectScreenshotDelete = regexp.MustCompile(`^/projects/(?P<id>\d+)/screenshots/(?P<screenshotid>\d+)/delete$`)

func BuildProjectScreenshotDelete(projectId int, screenshotId int) string {
	return Url("/projects/"+strconv.Itoa(projectId)+"/screenshots/"+strconv.Itoa(screenshotId)+"/delete", nil)
}

var RegexProjectFeedbackNew = regexp.MustCompile(`^/projects/(?P<id>\d+)/feedback$`)

func BuildProjectFeedbackNew(projectId int) string {
	return Url("/projects/"+strconv.Itoa(projectId)+"/feedback", nil)
}

var RegexProjectFeedbackEdit = regexp.MustCompile(`^/projects/(?P<id>\d+)/feedback/(?P<feedbackid>\d+)$`)

func BuildProjectFeedbackEdit(projectId int, feedbackId int) string {
	return Url("/projects/"+strconv.Itoa(projectId)+"/feedback/"+strconv.Itoa(feedbackId), nil)
}

var RegexProjectFeedbackDelete = regexp.MustCompile(`^/projects/(?P<id>\d+)/feedback/(?P<feedbackid>\d+)/delete$`)

func BuildProjectFeedbackDelete(projectId int, feedbackId int) string {
	return Url("/projects/"+strconv.Itoa(projectId)+"/feedback/"+strconv.Itoa(feedbackId)+"/delete", nil)
}

/*
 * Badges
 */

var RegexBadges = regexp.MustCompile("^/badges$")

func BuildBadges() string {
	return Url("/badges", nil)
}

/*
 * Admin
 */

var RegexAdminWeekNew = regexp.MustCompile("^/admin/weeks$")

func BuildAdminWeekNew() string {
	return Url("/admin/weeks", nil)
}

var RegexAdminWeekSave = regexp.MustCompile(`^/admin/weeks/(?P<id>\d+)/save$`)

func BuildAdminWeekSave(weekId int) string {
	return Url("/admin/weeks/"+strconv.Itoa(weekId)+"/save", nil)
}

var RegexAdminWeekDelete = regexp.MustCompile(`^/admin/weeks/(?P<id>\d+)/delete$`)

func BuildAdminWeekDelete(weekId int) string {
	return Url("/admin/weeks/"+strconv.Itoa(weekId)+"/delete", nil)
}

var RegexAdminSectionNew = regexp.MustCompile(`^/admin/weeks/(?P<id>\d+)/sections$`)

func BuildAdminSectionNew(weekId int) string {
	return Url("/admin/weeks/"+strconv.Itoa(weekId)+"/sections", nil)
}

var RegexAdminSectionSave = regexp.MustCompile(`^/admin/sections/(?P<id>\d+)/save$`)

func BuildAdminSectionSave(sectionId int) string {
	return Url("/admin/sections/"+strconv.Itoa(sectionId)+"/save", nil)
}

var RegexAdminSectionDelete = regexp.MustCompile(`^/admin/sections/(?P<id>\d+)/delete$`)

func BuildAdminSectionDelete(sectionId int) string {
	return Url("/admin/sections/"+strconv.Itoa(sectionId)+"/delete", nil)
}

var RegexAdminBadgeNew = regexp.MustCompile("^/admin/badges$")

func BuildAdminBadgeNew() string {
	return Url("/admin/badges", nil)
}

var RegexAdminBadgeSave = regexp.MustCompile(`^/admin/badges/(?P<id>\d+)/save$`)

func BuildAdminBadgeSave(badgeId int) string {
	return Url("/admin/badges/"+strconv.Itoa(badgeId)+"/save", nil)
}

var RegexAdminBadgeDelete = regexp.MustCompile(`^/admin/badges/(?P<id>\d+)/delete$`)

func BuildAdminBadgeDelete(badgeId int) string {
	return Url("/admin/badges/"+strconv.Itoa(badgeId)+"/delete", nil)
}

var RegexAdminBadgeAward = regexp.MustCompile(`^/admin/badges/(?P<id>\d+)/award$`)

func BuildAdminBadgeAward(badgeId int) string {
	return Url("/admin/badges/"+strconv.Itoa(badgeId)+"/award", nil)
}

var RegexAdminAwardDelete = regexp.MustCompile(`^/admin/awards/(?P<id>\d+)/delete$`)

func BuildAdminAwardDelete(awardId int) string {
	return Url("/admin/awards/"+strconv.Itoa(awardId)+"/delete", nil)
}

var RegexAdminProfileRole = regexp.MustCompile(`^/admin/profiles/(?P<id>\d+)/role$`)

func BuildAdminProfileRole(profileId int) string {
	return Url("/admin/profiles/"+strconv.Itoa(profileId)+"/role", nil)
}

var RegexAdminProfileDelete = regexp.MustCompile(`^/admin/profiles/(?P<id>\d+)/delete$`)

func BuildAdminProfileDelete(profileId int) string {
	return Url("/admin/profiles/"+strconv.Itoa(profileId)+"/delete", nil)
}

var RegexAdminProjectReorder = regexp.MustCompile("^/admin/projects/reorder$")

func BuildAdminProjectReorder() string {
	return Url("/admin/projects/reorder", nil)
}

/*
 * Static
 */

var RegexPublic = regexp.MustCompile("^/public/.+$")

func BuildPublic(filepath string) string {
	return StaticUrl(filepath, nil)
}

// The router requires a wildcard route to serve 404s.
var RegexCatchAll = regexp.MustCompile("^")
