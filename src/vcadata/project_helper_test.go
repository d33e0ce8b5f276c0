package vcadata

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProjectSort(t *testing.T) {
	assert.Equal(t, ProjectSortNewest, ParseProjectSort("newest"))
	assert.Equal(t, ProjectSortTitle, ParseProjectSort("title"))
	assert.Equal(t, ProjectSortOwner, ParseProjectSort("owner"))
	assert.Equal(t, ProjectSortStatus, ParseProjectSort("status"))

	// Anything unrecognized falls back to the curated order.
	assert.Equal(t, ProjectSortCurated, ParseProjectSort(""))
	assert.Equal(t, ProjectSortCurated, ParseProjectSort("bogus"))
}

func TestFetchProjectsSortSQL(t *testing.T) {
	ctx := context.Background()

	orderClause := func(t *testing.T, sort ProjectSort) string {
		t.Helper()
		conn := &fakeConn{}
		_, err := FetchProjects(ctx, conn, nil, ProjectsQuery{Sort: sort})
		require.NoError(t, err)
		require.NotEmpty(t, conn.querySQL)
		return conn.querySQL[0]
	}

	assert.Contains(t, orderClause(t, ProjectSortCurated), "ORDER BY project.sort_order ASC")
	assert.Contains(t, orderClause(t, ProjectSortNewest), "ORDER BY project.created_at DESC")
	assert.Contains(t, orderClause(t, ProjectSortTitle), "ORDER BY LOWER(project.title) ASC")
	assert.Contains(t, orderClause(t, ProjectSortOwner), "ORDER BY LOWER(owner.name) ASC NULLS LAST")
	assert.Contains(t, orderClause(t, ProjectSortStatus), "ORDER BY project.status ASC")
}
