package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"time"

	"git.vibecoding.academy/vca/vca/src/config"
	"git.vibecoding.academy/vca/vca/src/db"
	"git.vibecoding.academy/vca/vca/src/jobs"
	"git.vibecoding.academy/vca/vca/src/models"
	"git.vibecoding.academy/vca/vca/src/oops"
	"github.com/jackc/pgx/v5/pgxpool"
)

const SessionCookieName = "VCASession"

// The name of the hidden form field carrying the session's CSRF token.
const CSRFFieldName = "csrf_token"

const sessionDuration = time.Hour * 24 * 14

func makeSessionId() string {
	idBytes := make([]byte, 40)
	_, err := io.ReadFull(rand.Reader, idBytes)
	if err != nil {
		panic(err)
	}

	return base64.StdEncoding.EncodeToString(idBytes)[:40]
}

func makeCSRFToken() string {
	tokenBytes := make([]byte, 30)
	_, err := io.ReadFull(rand.Reader, tokenBytes)
	if err != nil {
		panic(err)
	}

	return base64.StdEncoding.EncodeToString(tokenBytes)[:30]
}

var ErrNoSession = errors.New("no session found")

func GetSession(ctx context.Context, conn db.ConnOrTx, id string) (*models.Session, error) {
	sess, err := db.QueryOne[models.Session](ctx, conn,
		`
		---- Fetch session
		SELECT $columns FROM session WHERE id = $1 AND expires_at > CURRENT_TIMESTAMP
		`,
		id,
	)
	if err != nil {
		if errors.Is(err, db.NotFound) {
			return nil, ErrNoSession
		} else {
			return nil, oops.New(err, "failed to get session")
		}
	}

	return sess, nil
}

func CreateSession(ctx context.Context, conn db.ConnOrTx, userID int) (*models.Session, error) {
	session := models.Session{
		ID:        makeSessionId(),
		UserID:    userID,
		CSRFToken: makeCSRFToken(),
		ExpiresAt: time.Now().Add(sessionDuration),
	}

	_, err := conn.Exec(ctx,
		"INSERT INTO session (id, user_id, csrf_token, expires_at) VALUES ($1, $2, $3, $4)",
		session.ID, session.UserID, session.CSRFToken, session.ExpiresAt,
	)
	if err != nil {
		return nil, oops.New(err, "failed to persist session")
	}

	return &session, nil
}

// Deletes a session by id. If no session with that id exists, no
// error is returned.
func DeleteSession(ctx context.Context, conn db.ConnOrTx, id string) error {
	_, err := conn.Exec(ctx, "DELETE FROM session WHERE id = $1", id)
	if err != nil {
		return oops.New(err, "failed to delete session")
	}

	return nil
}

// Deletes all sessions for a user, e.g. when an admin deletes the
// profile.
func DeleteSessionsForUser(ctx context.Context, conn db.ConnOrTx, userID int) error {
	_, err := conn.Exec(ctx, "DELETE FROM session WHERE user_id = $1", userID)
	if err != nil {
		return oops.New(err, "failed to delete user sessions")
	}

	return nil
}

func NewSessionCookie(session *models.Session) *http.Cookie {
	return &http.Cookie{
		Name:  SessionCookieName,
		Value: session.ID,

		Domain:  config.Config.Auth.CookieDomain,
		Path:    "/",
		Expires: time.Now().Add(sessionDuration),

		Secure:   config.Config.Auth.CookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

var DeleteSessionCookie = &http.Cookie{
	Name:   SessionCookieName,
	Domain: config.Config.Auth.CookieDomain,
	Path:   "/",
	MaxAge: -1,
}

func DeleteExpiredSessions(ctx context.Context, conn db.ConnOrTx) (int64, error) {
	tag, err := conn.Exec(ctx, "DELETE FROM session WHERE expires_at <= CURRENT_TIMESTAMP")
	if err != nil {
		return 0, oops.New(err, "failed to delete expired sessions")
	}

	return tag.RowsAffected(), nil
}

func PeriodicallyDeleteExpiredStuff(conn *pgxpool.Pool) *jobs.Job {
	job := jobs.New("delete expired sessions")
	go func() {
		defer job.Finish()

		t := time.NewTicker(1 * time.Hour)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				n, err := DeleteExpiredSessions(job.Ctx, conn)
				if err == nil {
					if n > 0 {
						job.Logger.Info().Int64("num deleted sessions", n).Msg("Deleted expired sessions")
					}
				} else {
					job.Logger.Error().Err(err).Msg("Failed to delete expired sessions")
				}

				n, err = DeleteExpiredPendingLogins(job.Ctx, conn)
				if err == nil {
					if n > 0 {
						job.Logger.Info().Int64("num deleted pending logins", n).Msg("Deleted expired pending logins")
					}
				} else {
					job.Logger.Error().Err(err).Msg("Failed to delete expired pending logins")
				}
			case <-job.Canceled():
				return
			}
		}
	}()
	return job
}
