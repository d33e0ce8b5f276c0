package models

import "time"

// An admin-defined achievement type.
type Badge struct {
	ID int `db:"id"`

	Name        string  `db:"name"`
	Description *string `db:"description"`
	Color       string  `db:"color"` // display hex, e.g. "#fbbf24"

	Created time.Time `db:"created_at"`
}

// One instance of a badge granted to a user or to a project - exactly
// one of UserID/ProjectID is set (enforced by a table CHECK). A badge
// may be awarded to the same target multiple times; the leaderboard
// counts repeats.
type BadgeAward struct {
	ID      int `db:"id"`
	BadgeID int `db:"badge_id"`

	UserID    *int `db:"user_id"`
	ProjectID *int `db:"project_id"`

	AwardedByID int       `db:"awarded_by"`
	Created     time.Time `db:"created_at"`
}

func (a *BadgeAward) TargetsUser() bool {
	return a.UserID != nil && a.ProjectID == nil
}

func (a *BadgeAward) TargetsProject() bool {
	return a.ProjectID != nil && a.UserID == nil
}

// True when the row violates the one-target rule. Such rows are a
// data-integrity anomaly and must be skipped, never double-counted.
func (a *BadgeAward) IsMalformed() bool {
	return !a.TargetsUser() && !a.TargetsProject()
}
