package vcadata

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A minimal stand-in for a database connection, good enough for
// helpers that only read one canned result set and issue writes.
type fakeConn struct {
	queryRows [][]any

	querySQL []string
	execSQL  []string
	execArgs [][]any
	failExec func(sql string, args []any) error
}

func (c *fakeConn) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	c.querySQL = append(c.querySQL, sql)
	return &fakeRows{rows: c.queryRows}, nil
}

func (c *fakeConn) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	panic("not implemented in fake")
}

func (c *fakeConn) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if c.failExec != nil {
		if err := c.failExec(sql, args); err != nil {
			return pgconn.CommandTag{}, err
		}
	}
	c.execSQL = append(c.execSQL, sql)
	c.execArgs = append(c.execArgs, args)
	return pgconn.CommandTag{}, nil
}

func (c *fakeConn) Begin(ctx context.Context) (pgx.Tx, error) {
	return &fakeTx{conn: c}, nil
}

type fakeTx struct {
	pgx.Tx
	conn *fakeConn
}

func (t *fakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return t.conn.Query(ctx, sql, args...)
}

func (t *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return t.conn.Exec(ctx, sql, args...)
}

func (t *fakeTx) Commit(ctx context.Context) error {
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	return nil
}

type fakeRows struct {
	pgx.Rows
	rows [][]any
	idx  int
}

func (r *fakeRows) Next() bool {
	r.idx++
	return r.idx <= len(r.rows)
}

func (r *fakeRows) Values() ([]any, error) {
	return r.rows[r.idx-1], nil
}

func (r *fakeRows) Close() {}

func (r *fakeRows) Err() error {
	return nil
}

// Column order matches the vote model's db-tagged fields.
func voteRow(id, demoID, userID, value int) []any {
	return []any{id, demoID, userID, value, time.Now()}
}

func TestCastVote(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects bogus values", func(t *testing.T) {
		conn := &fakeConn{}
		assert.ErrorIs(t, CastVote(ctx, conn, 1, 1, 0), ErrInvalidVote)
		assert.ErrorIs(t, CastVote(ctx, conn, 1, 1, 5), ErrInvalidVote)
		assert.Empty(t, conn.execSQL)
	})

	t.Run("fresh vote inserts", func(t *testing.T) {
		conn := &fakeConn{}
		require.NoError(t, CastVote(ctx, conn, 7, 5, 1))
		require.Len(t, conn.execSQL, 1)
		assert.Contains(t, conn.execSQL[0], "INSERT INTO vote")
		assert.Equal(t, []any{5, 7, 1}, conn.execArgs[0])
	})

	t.Run("opposite vote flips the row", func(t *testing.T) {
		conn := &fakeConn{queryRows: [][]any{voteRow(99, 5, 7, 1)}}
		require.NoError(t, CastVote(ctx, conn, 7, 5, -1))
		require.Len(t, conn.execSQL, 1)
		assert.Contains(t, conn.execSQL[0], "UPDATE vote")
		assert.Equal(t, []any{-1, 99}, conn.execArgs[0])
	})

	t.Run("repeating the same vote retracts it", func(t *testing.T) {
		conn := &fakeConn{queryRows: [][]any{voteRow(99, 5, 7, 1)}}
		require.NoError(t, CastVote(ctx, conn, 7, 5, 1))
		require.Len(t, conn.execSQL, 1)
		assert.Contains(t, conn.execSQL[0], "DELETE FROM vote")
		assert.Equal(t, []any{99}, conn.execArgs[0])
	})
}

func TestReorderProjects(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns positions in list order", func(t *testing.T) {
		conn := &fakeConn{}
		require.NoError(t, ReorderProjects(ctx, conn, []int{30, 10, 20}))
		require.Len(t, conn.execSQL, 3)
		assert.Equal(t, []any{0, 30}, conn.execArgs[0])
		assert.Equal(t, []any{1, 10}, conn.execArgs[1])
		assert.Equal(t, []any{2, 20}, conn.execArgs[2])
	})

	t.Run("a mid-list failure leaves earlier updates in place", func(t *testing.T) {
		boom := errors.New("connection reset")
		conn := &fakeConn{
			failExec: func(sql string, args []any) error {
				if len(args) == 2 && args[1] == 20 {
					return boom
				}
				return nil
			},
		}

		err := ReorderProjects(ctx, conn, []int{10, 20, 30})
		require.Error(t, err)

		// The first row was already written and stays written; the
		// rest never ran.
		require.Len(t, conn.execSQL, 1)
		assert.Equal(t, []any{0, 10}, conn.execArgs[0])
	})
}
