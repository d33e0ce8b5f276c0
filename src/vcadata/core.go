package vcadata

import (
	"sort"

	"git.vibecoding.academy/vca/vca/src/models"
)

type VoteTally struct {
	Total int
	Up    int
	Down  int
}

// TallyVotes sums vote values per demo.
func TallyVotes(votes []*models.Vote) map[int]VoteTally {
	tallies := make(map[int]VoteTally)
	for _, vote := range votes {
		tally := tallies[vote.DemoID]
		tally.Total += vote.Value
		switch {
		case vote.Value > 0:
			tally.Up++
		case vote.Value < 0:
			tally.Down++
		}
		tallies[vote.DemoID] = tally
	}
	return tallies
}

type AwardIndex struct {
	ByUser    map[int][]*models.BadgeAward
	ByProject map[int][]*models.BadgeAward
	// The number of rows that targeted neither a user nor a project
	// and were left out of both maps. Callers should log a nonzero
	// count; it means bad data.
	Skipped int
}

// IndexAwards groups awards by their recipient. Rows that target
// neither a user nor a project (possible in data predating the
// award target constraint) are skipped rather than crashing the page.
func IndexAwards(awards []*models.BadgeAward) AwardIndex {
	index := AwardIndex{
		ByUser:    make(map[int][]*models.BadgeAward),
		ByProject: make(map[int][]*models.BadgeAward),
	}
	for _, award := range awards {
		switch {
		case award.TargetsUser():
			index.ByUser[*award.UserID] = append(index.ByUser[*award.UserID], award)
		case award.TargetsProject():
			index.ByProject[*award.ProjectID] = append(index.ByProject[*award.ProjectID], award)
		default:
			index.Skipped++
		}
	}
	return index
}

const LeaderboardSize = 20

type LeaderboardEntry struct {
	Profile    *models.Profile
	BadgeCount int
	// Sum of vote values received across the member's demos.
	VoteScore int
}

// RankLeaderboard ranks cohort members who hold at least one badge.
// Members without badges never appear, no matter how many votes their
// demos collected. Badge count ranks first, vote score breaks ties.
func RankLeaderboard(
	profiles []*models.Profile,
	awards AwardIndex,
	demos []*models.Demo,
	votes []*models.Vote,
) []LeaderboardEntry {
	entryByProfile := make(map[int]*LeaderboardEntry)
	var entries []*LeaderboardEntry
	for _, profile := range profiles {
		profileAwards := awards.ByUser[profile.ID]
		if len(profileAwards) == 0 {
			continue
		}
		entry := &LeaderboardEntry{
			Profile:    profile,
			BadgeCount: len(profileAwards),
		}
		entryByProfile[profile.ID] = entry
		entries = append(entries, entry)
	}

	tallies := TallyVotes(votes)
	for _, demo := range demos {
		entry, ok := entryByProfile[demo.UserID]
		if !ok {
			continue
		}
		entry.VoteScore += tallies[demo.ID].Total
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].BadgeCount != entries[j].BadgeCount {
			return entries[i].BadgeCount > entries[j].BadgeCount
		}
		return entries[i].VoteScore > entries[j].VoteScore
	})

	if len(entries) > LeaderboardSize {
		entries = entries[:LeaderboardSize]
	}

	result := make([]LeaderboardEntry, len(entries))
	for i, entry := range entries {
		result[i] = *entry
	}
	return result
}

type EnrichedProject struct {
	ProjectAndStuff
	Awards   []AwardAndStuff
	Feedback []FeedbackAndAuthor
}

// EnrichProjects attaches each project's badge awards and instructor
// feedback, newest feedback first. Purely in-memory; callers fetch the
// inputs however suits the page.
func EnrichProjects(projects []ProjectAndStuff, awards []AwardAndStuff, feedback []FeedbackAndAuthor) []EnrichedProject {
	awardsByProject := make(map[int][]AwardAndStuff)
	for _, award := range awards {
		if award.Award.TargetsProject() {
			projectID := *award.Award.ProjectID
			awardsByProject[projectID] = append(awardsByProject[projectID], award)
		}
	}

	feedbackByProject := make(map[int][]FeedbackAndAuthor)
	for _, fb := range feedback {
		projectID := fb.Feedback.ProjectID
		feedbackByProject[projectID] = append(feedbackByProject[projectID], fb)
	}
	for _, fbs := range feedbackByProject {
		sort.SliceStable(fbs, func(i, j int) bool {
			return fbs[i].Feedback.Created.After(fbs[j].Feedback.Created)
		})
	}

	enriched := make([]EnrichedProject, len(projects))
	for i, project := range projects {
		enriched[i] = EnrichedProject{
			ProjectAndStuff: project,
			Awards:          awardsByProject[project.Project.ID],
			Feedback:        feedbackByProject[project.Project.ID],
		}
	}
	return enriched
}

// ResolveSections orders a week's sections for display and picks the
// default tab. Members do not see placeholder sections that have no
// content yet; the demos section always shows because its content is
// the submitted demos, not the section body.
func ResolveSections(sections []*models.WeekSection, privileged bool) (visible []*models.WeekSection, defaultTab string) {
	sorted := make([]*models.WeekSection, len(sections))
	copy(sorted, sections)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SortOrder < sorted[j].SortOrder
	})

	for _, section := range sorted {
		if !privileged && !section.HasContent() && section.Slug != models.DemosSectionSlug {
			continue
		}
		visible = append(visible, section)
	}

	if len(visible) > 0 {
		defaultTab = visible[0].Slug
	}
	return visible, defaultTab
}
