package models

import "time"

const (
	VoteUp   = 1
	VoteDown = -1
)

// At most one vote row exists per (demo, user); casting again replaces
// the row, and recasting the same value removes it entirely. The net
// score of a demo is the sum of its vote values.
type Vote struct {
	ID     int `db:"id"`
	DemoID int `db:"demo_id"`
	UserID int `db:"user_id"`

	Value int `db:"value"` // +1 or -1

	Created time.Time `db:"created_at"`
}
