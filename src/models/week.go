package models

import "time"

// One curriculum unit. Number may be null for tag-only "weeks" (e.g. a
// resources page that lives alongside the numbered sequence). At most one
// week may exist per number when the number is non-null.
type Week struct {
	ID int `db:"id"`

	Number      *int    `db:"number"`
	Title       string  `db:"title"`
	Level       int     `db:"level"` // 1-3
	FeedbackUrl *string `db:"feedback_url"`
	Published   bool    `db:"published"`

	Created time.Time `db:"created_at"`
	Updated time.Time `db:"updated_at"`
}

// The reserved slug for the section that hosts participant-submitted
// demos. It renders even when it has no authored content.
const DemosSectionSlug = "demos"

type WeekSection struct {
	ID     int `db:"id"`
	WeekID int `db:"week_id"`

	Slug      string  `db:"slug"` // unique within the week
	Title     string  `db:"title"`
	Content   *string `db:"content"` // markdown
	SortOrder int     `db:"sort_order"`

	// System sections are created alongside the week and their slugs are
	// immutable, because code refers to them (see DemosSectionSlug).
	IsSystem bool `db:"is_system"`
}

func (s *WeekSection) HasContent() bool {
	return s.Content != nil && *s.Content != ""
}
