package models

import "time"

// One in-flight identity-provider login. The id doubles as the OAuth
// state parameter; a callback whose state matches no live row is
// rejected.
type PendingLogin struct {
	ID             string    `db:"id"`
	ExpiresAt      time.Time `db:"expires_at"`
	DestinationUrl string    `db:"destination_url"`
}
