package vcaurl

import (
	"net/url"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUrl(t *testing.T) {
	t.Run("no query", func(t *testing.T) {
		result := Url("/test/foo", nil)
		assert.Contains(t, result, "/test/foo")
	})
	t.Run("yes query", func(t *testing.T) {
		result := Url("/test/foo", []Q{{"bar", "baz"}, {"zig??", "zig & zag!!"}})
		assert.Contains(t, result, "/test/foo?bar=baz&zig%3F%3F=zig+%26+zag%21%21")
	})
}

func TestLanding(t *testing.T) {
	AssertRegexMatch(t, BuildLanding(), RegexLanding, nil)
}

func TestAuth(t *testing.T) {
	AssertRegexMatch(t, BuildLogin(""), RegexLogin, nil)
	AssertRegexMatch(t, BuildLogin("/weeks/3"), RegexLogin, nil)
	AssertRegexMatch(t, BuildLoginCallback(), RegexLoginCallback, nil)
	AssertRegexMatch(t, BuildLogout(""), RegexLogout, nil)
}

func TestWeeks(t *testing.T) {
	AssertRegexMatch(t, BuildWeekIndex(), RegexWeekIndex, nil)
	AssertRegexMatch(t, BuildWeek(1), RegexWeek, map[string]string{"number": "1"})
	AssertRegexMatch(t, BuildWeek(10), RegexWeek, map[string]string{"number": "10"})
	AssertRegexMatch(t, BuildWeekTab(2, "demos"), RegexWeek, map[string]string{"number": "2"})
	AssertRegexMatch(t, BuildWeekSubmitDemo(3), RegexWeekSubmitDemo, map[string]string{"number": "3"})
	AssertRegexMatch(t, BuildDemoVote(42), RegexDemoVote, map[string]string{"id": "42"})
	assert.Panics(t, func() { BuildWeek(0) })
	assert.Panics(t, func() { BuildWeek(-3) })
}

func TestPeople(t *testing.T) {
	AssertRegexMatch(t, BuildPeople(), RegexPeople, nil)
	AssertRegexMatch(t, BuildPerson(7), RegexPerson, map[string]string{"id": "7"})
	AssertRegexMatch(t, BuildProfileSettings(), RegexProfileSettings, nil)
	AssertRegexMatch(t, BuildProfileSettingsSave(), RegexProfileSettingsSave, nil)
}

func TestProjects(t *testing.T) {
	AssertRegexMatch(t, BuildProjectIndex(), RegexProjectIndex, nil)
	AssertRegexMatch(t, BuildProjectIndexSorted("status"), RegexProjectIndex, nil)
	AssertRegexMatch(t, BuildProjectNew(), RegexProjectNew, nil)
	AssertRegexMatch(t, BuildProject(4), RegexProject, map[string]string{"id": "4"})
	AssertRegexMatch(t, BuildProjectEdit(4), RegexProjectEdit, map[string]string{"id": "4"})
	AssertRegexMatch(t, BuildProjectSave(4), RegexProjectSave, map[string]string{"id": "4"})
	AssertRegexMatch(t, BuildProjectDelete(4), RegexProjectDelete, map[string]string{"id": "4"})
	AssertRegexMatch(t, BuildProjectScreenshotUpload(4), RegexProjectScreenshotUpload, map[string]string{"id": "4"})
	AssertRegexMatch(t, BuildProjectScreenshotDelete(4, 9), RegexProjectScreenshotDelete, map[string]string{"id": "4", "screenshotid": "9"})
	AssertRegexMatch(t, BuildProjectFeedbackNew(4), RegexProjectFeedbackNew, map[string]string{"id": "4"})
	AssertRegexMatch(t, BuildProjectFeedbackEdit(4, 11), RegexProjectFeedbackEdit, map[string]string{"id": "4", "feedbackid": "11"})
	AssertRegexMatch(t, BuildProjectFeedbackDelete(4, 11), RegexProjectFeedbackDelete, map[string]string{"id": "4", "feedbackid": "11"})

	// The new-project page must not be swallowed by the detail regex.
	assert.Nil(t, RegexProject.FindStringSubmatch("/projects/new"))
}

func TestBadges(t *testing.T) {
	AssertRegexMatch(t, BuildBadges(), RegexBadges, nil)
}

func TestAdmin(t *testing.T) {
	AssertRegexMatch(t, BuildAdminWeekNew(), RegexAdminWeekNew, nil)
	AssertRegexMatch(t, BuildAdminWeekSave(1), RegexAdminWeekSave, map[string]string{"id": "1"})
	AssertRegexMatch(t, BuildAdminWeekDelete(1), RegexAdminWeekDelete, map[string]string{"id": "1"})
	AssertRegexMatch(t, BuildAdminSectionNew(1), RegexAdminSectionNew, map[string]string{"id": "1"})
	AssertRegexMatch(t, BuildAdminSectionSave(5), RegexAdminSectionSave, map[string]string{"id": "5"})
	AssertRegexMatch(t, BuildAdminSectionDelete(5), RegexAdminSectionDelete, map[string]string{"id": "5"})
	AssertRegexMatch(t, BuildAdminBadgeNew(), RegexAdminBadgeNew, nil)
	AssertRegexMatch(t, BuildAdminBadgeSave(2), RegexAdminBadgeSave, map[string]string{"id": "2"})
	AssertRegexMatch(t, BuildAdminBadgeDelete(2), RegexAdminBadgeDelete, map[string]string{"id": "2"})
	AssertRegexMatch(t, BuildAdminBadgeAward(2), RegexAdminBadgeAward, map[string]string{"id": "2"})
	AssertRegexMatch(t, BuildAdminAwardDelete(8), RegexAdminAwardDelete, map[string]string{"id": "8"})
	AssertRegexMatch(t, BuildAdminProfileRole(3), RegexAdminProfileRole, map[string]string{"id": "3"})
	AssertRegexMatch(t, BuildAdminProfileDelete(3), RegexAdminProfileDelete, map[string]string{"id": "3"})
	AssertRegexMatch(t, BuildAdminProjectReorder(), RegexAdminProjectReorder, nil)
}

func TestPublic(t *testing.T) {
	AssertRegexMatch(t, BuildPublic("style.css"), RegexPublic, nil)
	AssertRegexMatch(t, BuildPublic("/js/vote.js"), RegexPublic, nil)
}

func AssertRegexMatch(t *testing.T, fullUrl string, regex *regexp.Regexp, paramsToVerify map[string]string) {
	t.Helper()

	parsed, err := url.Parse(fullUrl)
	ok := assert.Nilf(t, err, "Full url could not be parsed: %s", fullUrl)
	if !ok {
		return
	}

	requestPath := parsed.Path
	if len(requestPath) == 0 {
		requestPath = "/"
	}
	match := regex.FindStringSubmatch(requestPath)
	assert.NotNilf(t, match, "Url did not match regex: [%s] vs [%s]", requestPath, regex.String())

	if paramsToVerify != nil {
		subexpNames := regex.SubexpNames()
		for i, matchedValue := range match {
			paramName := subexpNames[i]
			expectedValue, ok := paramsToVerify[paramName]
			if ok {
				assert.Equalf(t, expectedValue, matchedValue, "Param mismatch for [%s]", paramName)
				delete(paramsToVerify, paramName)
			}
		}
		if len(paramsToVerify) > 0 {
			unmatchedParams := make([]string, 0, len(paramsToVerify))
			for paramName := range paramsToVerify {
				unmatchedParams = append(unmatchedParams, paramName)
			}
			assert.Fail(t, "Expected match groups not found", unmatchedParams)
		}
	}
}
