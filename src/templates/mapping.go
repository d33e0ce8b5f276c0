package templates

import (
	"html/template"

	"git.vibecoding.academy/vca/vca/src/markdown"
	"git.vibecoding.academy/vca/vca/src/models"
	"git.vibecoding.academy/vca/vca/src/vcadata"
	"git.vibecoding.academy/vca/vca/src/vcaurl"
)

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func renderMarkdown(s *string) template.HTML {
	if s == nil || *s == "" {
		return ""
	}
	return template.HTML(markdown.Render(*s))
}

func ProfileToTemplate(p *models.Profile) *Profile {
	if p == nil {
		return nil
	}
	result := &Profile{
		ID:   p.ID,
		Name: p.Name,

		Email:       p.Email,
		Role:        string(p.Role),
		Bio:         renderMarkdown(p.Bio),
		AvatarUrl:   deref(p.AvatarUrl),
		GithubUrl:   deref(p.GithubUrl),
		SlackHandle: deref(p.SlackHandle),
		ProjectIdea: deref(p.ProjectIdea),
		RepoUrl:     deref(p.RepoUrl),

		Joined: p.Created,
	}
	// Synthesized fallback profiles have no stable id to link to.
	if p.ID > 0 {
		result.Url = vcaurl.BuildPerson(p.ID)
	}
	return result
}

func WeekToTemplate(w *vcadata.WeekAndSections, privileged bool) Week {
	visible, defaultTab := vcadata.ResolveSections(w.Sections, privileged)

	result := Week{
		ID:          w.Week.ID,
		Title:       w.Week.Title,
		Level:       w.Week.Level,
		FeedbackUrl: deref(w.Week.FeedbackUrl),
		Published:   w.Week.Published,
		DefaultTab:  defaultTab,
	}
	if w.Week.Number != nil {
		result.Number = *w.Week.Number
		result.HasNumber = true
		result.Url = vcaurl.BuildWeek(*w.Week.Number)
	}
	for _, section := range visible {
		s := WeekSectionToTemplate(section)
		if result.HasNumber {
			s.Url = vcaurl.BuildWeekTab(*w.Week.Number, section.Slug)
		}
		result.Sections = append(result.Sections, s)
	}
	return result
}

func WeekSectionToTemplate(s *models.WeekSection) WeekSection {
	return WeekSection{
		ID:         s.ID,
		Slug:       s.Slug,
		Title:      s.Title,
		Content:    renderMarkdown(s.Content),
		HasContent: s.HasContent(),
		SortOrder:  s.SortOrder,
		IsSystem:   s.IsSystem,

		RawContent: deref(s.Content),

		SaveSectionUrl:   vcaurl.BuildAdminSectionSave(s.ID),
		DeleteSectionUrl: vcaurl.BuildAdminSectionDelete(s.ID),
	}
}

// The CSRF token rides along because the card's vote forms POST.
func DemoToTemplate(d *vcadata.DemoAndStuff, csrfToken string) Demo {
	result := Demo{
		CSRFToken: csrfToken,
		ID:          d.Demo.ID,
		Title:       d.Demo.Title,
		Description: renderMarkdown(d.Demo.Description),
		Url:         deref(d.Demo.Url),

		Author: ProfileToTemplate(d.Author),

		Score:     d.Tally.Total,
		UpVotes:   d.Tally.Up,
		DownVotes: d.Tally.Down,

		VoteUrl: vcaurl.BuildDemoVote(d.Demo.ID),

		Submitted: d.Demo.Created,
	}
	if d.ViewerVote != nil {
		result.ViewerVote = *d.ViewerVote
	}
	if d.Demo.ProjectID != nil {
		result.ProjectUrl = vcaurl.BuildProject(*d.Demo.ProjectID)
	}
	return result
}

func BadgeToTemplate(b *models.Badge) Badge {
	return Badge{
		ID:          b.ID,
		Name:        b.Name,
		Description: deref(b.Description),
		Color:       b.Color,

		EditUrl:   vcaurl.BuildAdminBadgeSave(b.ID),
		AwardUrl:  vcaurl.BuildAdminBadgeAward(b.ID),
		DeleteUrl: vcaurl.BuildAdminBadgeDelete(b.ID),
	}
}

func AwardToTemplate(a *vcadata.AwardAndStuff) AwardRow {
	result := AwardRow{
		ID:    a.Award.ID,
		Badge: BadgeToTemplate(&a.Badge),

		Awarded:   a.Award.Created,
		RemoveUrl: vcaurl.BuildAdminAwardDelete(a.Award.ID),
	}
	if a.RecipientProject != nil {
		result.RecipientName = a.RecipientProject.Title
		result.RecipientUrl = vcaurl.BuildProject(a.RecipientProject.ID)
		result.IsProject = true
	} else if a.RecipientProfile != nil {
		result.RecipientName = a.RecipientProfile.Name
		result.RecipientUrl = vcaurl.BuildPerson(a.RecipientProfile.ID)
	}
	return result
}

func LeaderboardToTemplate(entries []vcadata.LeaderboardEntry) []LeaderboardEntry {
	result := make([]LeaderboardEntry, len(entries))
	for i, entry := range entries {
		result[i] = LeaderboardEntry{
			Rank:       i + 1,
			Profile:    ProfileToTemplate(entry.Profile),
			BadgeCount: entry.BadgeCount,
			VoteScore:  entry.VoteScore,
		}
	}
	return result
}

var projectStatusLabels = map[models.ProjectStatus]string{
	models.ProjectDraft:      "Draft",
	models.ProjectInProgress: "In progress",
	models.ProjectCompleted:  "Completed",
}

func ProjectToTemplate(p *vcadata.ProjectAndStuff) Project {
	result := Project{
		ID:          p.Project.ID,
		Title:       p.Project.Title,
		Description: renderMarkdown(p.Project.Description),
		Goal:        deref(p.Project.Goal),
		Status:      string(p.Project.Status),
		StatusLabel: projectStatusLabels[p.Project.Status],
		TechStack:   p.Project.TechStack,

		AvatarUrl: deref(p.Project.AvatarUrl),
		DemoUrl:   deref(p.Project.DemoUrl),
		GithubUrl: deref(p.Project.GithubUrl),

		Owner: ProfileToTemplate(p.Owner),

		AwardCount: p.AwardCount,

		Url:     vcaurl.BuildProject(p.Project.ID),
		EditUrl: vcaurl.BuildProjectEdit(p.Project.ID),

		Created: p.Project.Created,
	}
	for _, screenshot := range p.Screenshots {
		result.Screenshots = append(result.Screenshots, Screenshot{
			ID:        screenshot.ID,
			Url:       screenshot.Url,
			Caption:   deref(screenshot.Caption),
			DeleteUrl: vcaurl.BuildProjectScreenshotDelete(p.Project.ID, screenshot.ID),
		})
	}
	return result
}

func FeedbackToTemplate(projectID int, f *vcadata.FeedbackAndAuthor) Feedback {
	return Feedback{
		ID:         f.Feedback.ID,
		Content:    template.HTML(markdown.Render(f.Feedback.Content)),
		RawContent: f.Feedback.Content,
		Author:     ProfileToTemplate(f.Author),

		Created:   f.Feedback.Created,
		EditUrl:   vcaurl.BuildProjectFeedbackEdit(projectID, f.Feedback.ID),
		DeleteUrl: vcaurl.BuildProjectFeedbackDelete(projectID, f.Feedback.ID),
	}
}
