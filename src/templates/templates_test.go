package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTemplatesParse(t *testing.T) {
	Init()

	for _, name := range []string{
		"landing.html",
		"week_index.html",
		"week.html",
		"people.html",
		"person.html",
		"profile_settings.html",
		"project_index.html",
		"project.html",
		"project_edit.html",
		"badges.html",
		"error.html",
	} {
		assert.NotPanics(t, func() { GetTemplate(name) }, "template %s should exist", name)
	}
}
