package auth

import (
	"context"
	"errors"
	"time"

	"git.vibecoding.academy/vca/vca/src/db"
	"git.vibecoding.academy/vca/vca/src/models"
	"git.vibecoding.academy/vca/vca/src/oops"
)

const pendingLoginDuration = time.Minute * 10

// CreatePendingLogin stashes the viewer's destination for the duration
// of the identity-provider round trip. The row's id is the OAuth state.
func CreatePendingLogin(ctx context.Context, conn db.ConnOrTx, destinationUrl string) (*models.PendingLogin, error) {
	pending := models.PendingLogin{
		ID:             makeSessionId(),
		ExpiresAt:      time.Now().Add(pendingLoginDuration),
		DestinationUrl: destinationUrl,
	}

	_, err := conn.Exec(ctx,
		"INSERT INTO pending_login (id, expires_at, destination_url) VALUES ($1, $2, $3)",
		pending.ID, pending.ExpiresAt, pending.DestinationUrl,
	)
	if err != nil {
		return nil, oops.New(err, "failed to create pending login")
	}

	return &pending, nil
}

var ErrNoPendingLogin = errors.New("no pending login found")

// ConsumePendingLogin validates an OAuth state and deletes it so it
// cannot be replayed. Returns ErrNoPendingLogin when the state matches
// nothing live, which callers should treat as a possible forgery.
func ConsumePendingLogin(ctx context.Context, conn db.ConnOrTx, state string) (*models.PendingLogin, error) {
	pending, err := db.QueryOne[models.PendingLogin](ctx, conn,
		`
		---- Fetch pending login
		SELECT $columns FROM pending_login WHERE id = $1 AND expires_at > CURRENT_TIMESTAMP
		`,
		state,
	)
	if err != nil {
		if errors.Is(err, db.NotFound) {
			return nil, ErrNoPendingLogin
		} else {
			return nil, oops.New(err, "failed to look up pending login")
		}
	}

	_, err = conn.Exec(ctx, "DELETE FROM pending_login WHERE id = $1", pending.ID)
	if err != nil {
		return nil, oops.New(err, "failed to delete pending login")
	}

	return pending, nil
}

func DeleteExpiredPendingLogins(ctx context.Context, conn db.ConnOrTx) (int64, error) {
	tag, err := conn.Exec(ctx, "DELETE FROM pending_login WHERE expires_at <= CURRENT_TIMESTAMP")
	if err != nil {
		return 0, oops.New(err, "failed to delete expired pending logins")
	}

	return tag.RowsAffected(), nil
}
