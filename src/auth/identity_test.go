package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A stand-in connection that serves one canned result set per Query
// call, in order, and records every Exec.
type stubConn struct {
	queryResults [][][]any

	execSQL  []string
	execArgs [][]any
}

func (c *stubConn) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	var rows [][]any
	if len(c.queryResults) > 0 {
		rows = c.queryResults[0]
		c.queryResults = c.queryResults[1:]
	}
	return &stubRows{rows: rows}, nil
}

func (c *stubConn) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	panic("not implemented in stub")
}

func (c *stubConn) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	c.execSQL = append(c.execSQL, sql)
	c.execArgs = append(c.execArgs, args)
	return pgconn.CommandTag{}, nil
}

func (c *stubConn) Begin(ctx context.Context) (pgx.Tx, error) {
	panic("not implemented in stub")
}

type stubRows struct {
	pgx.Rows
	rows [][]any
	idx  int
}

func (r *stubRows) Next() bool {
	r.idx++
	return r.idx <= len(r.rows)
}

func (r *stubRows) Values() ([]any, error) {
	return r.rows[r.idx-1], nil
}

func (r *stubRows) Close() {}

func (r *stubRows) Err() error {
	return nil
}

// Column order matches the profile model's db-tagged fields.
func profileRow(id int, externalID, name, email, role string) []any {
	now := time.Now()
	return []any{id, externalID, name, email, role, nil, nil, nil, nil, nil, nil, now, now}
}

func syncClaims(subject, name, email string) *IdentityClaims {
	return &IdentityClaims{
		Name:  name,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: subject,
		},
	}
}

func TestSyncProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("existing provider id matches directly", func(t *testing.T) {
		conn := &stubConn{queryResults: [][][]any{
			{profileRow(4, "provider_4", "Ada", "ada@example.com", "member")},
		}}

		profile, err := SyncProfile(ctx, conn, syncClaims("provider_4", "Ada", "ada@example.com"))
		require.NoError(t, err)
		assert.Equal(t, 4, profile.ID)
		assert.Empty(t, conn.execSQL)
	})

	t.Run("email fallback adopts the account", func(t *testing.T) {
		// No external-id match, but a pre-provider account shares the
		// email. The profile gets the provider id bound to it.
		conn := &stubConn{queryResults: [][][]any{
			{},
			{profileRow(9, "", "Grace", "grace@example.com", "member")},
		}}

		profile, err := SyncProfile(ctx, conn, syncClaims("provider_9", "Grace", "grace@example.com"))
		require.NoError(t, err)
		assert.Equal(t, 9, profile.ID)
		assert.Equal(t, "provider_9", profile.ExternalID)

		require.Len(t, conn.execSQL, 1)
		assert.Equal(t,
			"UPDATE profile SET external_id = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2",
			conn.execSQL[0],
		)
		assert.Equal(t, []any{"provider_9", 9}, conn.execArgs[0])
	})

	t.Run("no match creates a member profile", func(t *testing.T) {
		conn := &stubConn{queryResults: [][][]any{
			{},
			{},
			{profileRow(12, "provider_12", "New Person", "new@example.com", "member")},
		}}

		profile, err := SyncProfile(ctx, conn, syncClaims("provider_12", "New Person", "new@example.com"))
		require.NoError(t, err)
		assert.Equal(t, 12, profile.ID)
		assert.Equal(t, "provider_12", profile.ExternalID)
	})
}
