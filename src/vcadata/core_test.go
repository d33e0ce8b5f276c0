package vcadata

import (
	"testing"
	"time"

	"git.vibecoding.academy/vca/vca/src/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intp(v int) *int {
	return &v
}

func strp(v string) *string {
	return &v
}

func TestTallyVotes(t *testing.T) {
	votes := []*models.Vote{
		{DemoID: 1, UserID: 10, Value: models.VoteUp},
		{DemoID: 1, UserID: 11, Value: models.VoteUp},
		{DemoID: 1, UserID: 12, Value: models.VoteDown},
		{DemoID: 2, UserID: 10, Value: models.VoteDown},
	}

	tallies := TallyVotes(votes)
	assert.Equal(t, VoteTally{Total: 1, Up: 2, Down: 1}, tallies[1])
	assert.Equal(t, VoteTally{Total: -1, Up: 0, Down: 1}, tallies[2])
	assert.Zero(t, tallies[999])
}

func TestIndexAwards(t *testing.T) {
	awards := []*models.BadgeAward{
		{ID: 1, BadgeID: 1, UserID: intp(10)},
		{ID: 2, BadgeID: 2, UserID: intp(10)},
		{ID: 3, BadgeID: 1, ProjectID: intp(55)},
		{ID: 4, BadgeID: 1}, // malformed row, targets nothing
	}

	index := IndexAwards(awards)
	assert.Len(t, index.ByUser[10], 2)
	assert.Len(t, index.ByProject[55], 1)

	total := 0
	for _, userAwards := range index.ByUser {
		total += len(userAwards)
	}
	for _, projectAwards := range index.ByProject {
		total += len(projectAwards)
	}
	assert.Equal(t, 3, total, "the malformed award must be dropped")
	assert.Equal(t, 1, index.Skipped)
}

func TestRankLeaderboard(t *testing.T) {
	profiles := []*models.Profile{
		{ID: 1, Name: "One Badge Many Votes"},
		{ID: 2, Name: "Two Badges No Votes"},
		{ID: 3, Name: "No Badges Many Votes"},
		{ID: 4, Name: "One Badge Few Votes"},
	}
	awards := IndexAwards([]*models.BadgeAward{
		{ID: 1, BadgeID: 1, UserID: intp(1)},
		{ID: 2, BadgeID: 1, UserID: intp(2)},
		{ID: 3, BadgeID: 2, UserID: intp(2)},
		{ID: 4, BadgeID: 3, UserID: intp(4)},
	})
	demos := []*models.Demo{
		{ID: 100, UserID: 1},
		{ID: 101, UserID: 3},
		{ID: 102, UserID: 4},
	}
	votes := []*models.Vote{
		{DemoID: 100, UserID: 20, Value: models.VoteUp},
		{DemoID: 100, UserID: 21, Value: models.VoteUp},
		{DemoID: 100, UserID: 22, Value: models.VoteUp},
		{DemoID: 101, UserID: 20, Value: models.VoteUp},
		{DemoID: 101, UserID: 21, Value: models.VoteUp},
		{DemoID: 101, UserID: 22, Value: models.VoteUp},
		{DemoID: 101, UserID: 23, Value: models.VoteUp},
		{DemoID: 102, UserID: 20, Value: models.VoteUp},
		{DemoID: 102, UserID: 21, Value: models.VoteDown},
	}

	entries := RankLeaderboard(profiles, awards, demos, votes)
	require.Len(t, entries, 3, "members without badges never rank")

	assert.Equal(t, 2, entries[0].Profile.ID, "badge count outranks any vote score")
	assert.Equal(t, 2, entries[0].BadgeCount)
	assert.Equal(t, 0, entries[0].VoteScore)

	assert.Equal(t, 1, entries[1].Profile.ID, "vote score breaks badge ties")
	assert.Equal(t, 3, entries[1].VoteScore)

	assert.Equal(t, 4, entries[2].Profile.ID)
	assert.Equal(t, 0, entries[2].VoteScore, "up and down votes cancel out")
}

func TestRankLeaderboardRepeatAwards(t *testing.T) {
	// Awarding the same badge to the same member twice is two awards.
	profiles := []*models.Profile{
		{ID: 1, Name: "Double Ship It"},
		{ID: 2, Name: "Single Ship It"},
	}
	awards := IndexAwards([]*models.BadgeAward{
		{ID: 1, BadgeID: 1, UserID: intp(1)},
		{ID: 2, BadgeID: 1, UserID: intp(1)},
		{ID: 3, BadgeID: 1, UserID: intp(2)},
	})

	entries := RankLeaderboard(profiles, awards, nil, nil)
	require.Len(t, entries, 2)
	assert.Equal(t, 1, entries[0].Profile.ID)
	assert.Equal(t, 2, entries[0].BadgeCount)
	assert.Equal(t, 1, entries[1].BadgeCount)
}

func TestRankLeaderboardTruncates(t *testing.T) {
	var profiles []*models.Profile
	var awardRows []*models.BadgeAward
	for i := 1; i <= LeaderboardSize+5; i++ {
		profiles = append(profiles, &models.Profile{ID: i})
		awardRows = append(awardRows, &models.BadgeAward{ID: i, BadgeID: 1, UserID: intp(i)})
	}

	entries := RankLeaderboard(profiles, IndexAwards(awardRows), nil, nil)
	assert.Len(t, entries, LeaderboardSize)
}

func TestEnrichProjects(t *testing.T) {
	now := time.Now()
	projects := []ProjectAndStuff{
		{Project: models.Project{ID: 1, Title: "Recipe Robot"}},
		{Project: models.Project{ID: 2, Title: "Budget Buddy"}},
	}
	awards := []AwardAndStuff{
		{Award: models.BadgeAward{ID: 1, BadgeID: 1, ProjectID: intp(1)}, Badge: models.Badge{ID: 1, Name: "Ship It"}},
		{Award: models.BadgeAward{ID: 2, BadgeID: 1, UserID: intp(10)}, Badge: models.Badge{ID: 1, Name: "Ship It"}},
	}
	feedback := []FeedbackAndAuthor{
		{Feedback: models.ProjectFeedback{ID: 1, ProjectID: 1, Content: "older", Created: now.Add(-time.Hour)}},
		{Feedback: models.ProjectFeedback{ID: 2, ProjectID: 1, Content: "newer", Created: now}},
	}

	enriched := EnrichProjects(projects, awards, feedback)
	require.Len(t, enriched, 2)

	require.Len(t, enriched[0].Awards, 1, "user-targeted awards never attach to a project")
	assert.Equal(t, "Ship It", enriched[0].Awards[0].Badge.Name)
	require.Len(t, enriched[0].Feedback, 2)
	assert.Equal(t, "newer", enriched[0].Feedback[0].Feedback.Content)

	assert.Empty(t, enriched[1].Awards)
	assert.Empty(t, enriched[1].Feedback)
}

func TestResolveSections(t *testing.T) {
	sections := []*models.WeekSection{
		{ID: 1, Slug: "resources", Title: "Resources", SortOrder: 2, Content: strp("Some links")},
		{ID: 2, Slug: "overview", Title: "Overview", SortOrder: 1, Content: strp("Welcome to the week")},
		{ID: 3, Slug: "homework", Title: "Homework", SortOrder: 3, Content: strp("")},
		{ID: 4, Slug: models.DemosSectionSlug, Title: "Demos", SortOrder: 4, IsSystem: true},
	}

	t.Run("member view", func(t *testing.T) {
		visible, defaultTab := ResolveSections(sections, false)
		require.Len(t, visible, 3)
		assert.Equal(t, "overview", visible[0].Slug)
		assert.Equal(t, "resources", visible[1].Slug)
		assert.Equal(t, models.DemosSectionSlug, visible[2].Slug, "the demos tab shows even without body content")
		assert.Equal(t, "overview", defaultTab)
	})

	t.Run("facilitator view keeps empty sections", func(t *testing.T) {
		visible, _ := ResolveSections(sections, true)
		assert.Len(t, visible, 4)
	})

	t.Run("empty week", func(t *testing.T) {
		visible, defaultTab := ResolveSections(nil, false)
		assert.Empty(t, visible)
		assert.Equal(t, "", defaultTab)
	})

	t.Run("default tab follows sort order", func(t *testing.T) {
		reordered := []*models.WeekSection{
			{ID: 1, Slug: "b", SortOrder: 5, Content: strp("x")},
			{ID: 2, Slug: "a", SortOrder: 1, Content: strp("y")},
		}
		_, defaultTab := ResolveSections(reordered, false)
		assert.Equal(t, "a", defaultTab)
	})
}
