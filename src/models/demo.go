package models

import "time"

// A participant's showcase artifact for a specific week. A participant
// may submit any number of demos per week.
type Demo struct {
	ID     int `db:"id"`
	WeekID int `db:"week_id"`
	UserID int `db:"user_id"`

	// Optionally ties the demo to the participant's project.
	ProjectID *int `db:"project_id"`

	Title       string  `db:"title"`
	Description *string `db:"description"`
	Url         *string `db:"url"`

	Created time.Time `db:"created_at"`
	Updated time.Time `db:"updated_at"`
}
