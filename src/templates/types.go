package templates

import (
	"html/template"
	"time"
)

// Data available to every page. Handlers get a prefilled copy from
// their request context and layer page data on top.
type BaseData struct {
	Title         string
	CanonicalUrl  string
	Viewer        Viewer
	Notices       []Notice
	ReportedError string
	// The signed-in session's CSRF token; empty for anonymous
	// visitors. Every POST form echoes it via the csrftoken func.
	CSRFToken string
}

type Viewer struct {
	IsSignedIn bool
	// True when the viewer's identity was verified but their stored
	// profile could not be loaded. The layout shows a banner and all
	// privileged UI is hidden.
	IsDegraded     bool
	DegradedReason string

	IsAdmin       bool
	IsFacilitator bool

	Profile *Profile

	LoginUrl  string
	LogoutUrl string
}

type Notice struct {
	Content template.HTML
	Class   string // "success", "error"
}

type Profile struct {
	ID   int
	Name string

	Email       string
	Role        string
	Bio         template.HTML
	AvatarUrl   string
	GithubUrl   string
	SlackHandle string
	ProjectIdea string
	RepoUrl     string

	Url string

	Joined time.Time
}

type Week struct {
	ID          int
	Number      int
	HasNumber   bool
	Title       string
	Level       int
	FeedbackUrl string
	Published   bool

	Url      string
	Sections []WeekSection
	// Slug of the tab to show when none is selected.
	DefaultTab string
}

type WeekSection struct {
	ID         int
	Slug       string
	Title      string
	Content    template.HTML
	HasContent bool
	SortOrder  int
	IsSystem   bool

	// The unrendered markdown, for admin editing.
	RawContent string

	Url            string
	SaveSectionUrl string
	DeleteSectionUrl string
}

type Demo struct {
	ID          int
	Title       string
	Description template.HTML
	Url         string

	Author     *Profile
	ProjectUrl string

	Score     int
	UpVotes   int
	DownVotes int
	// 0 when the viewer has not voted, otherwise +1 or -1.
	ViewerVote int

	VoteUrl   string
	CSRFToken string

	Submitted time.Time
}

type Badge struct {
	ID          int
	Name        string
	Description string
	Color       string

	EditUrl   string
	AwardUrl  string
	DeleteUrl string
}

type AwardRow struct {
	ID    int
	Badge Badge

	RecipientName string
	RecipientUrl  string
	IsProject     bool

	Awarded   time.Time
	RemoveUrl string
}

type LeaderboardEntry struct {
	Rank       int
	Profile    *Profile
	BadgeCount int
	VoteScore  int
}

type Project struct {
	ID          int
	Title       string
	Description template.HTML
	Goal        string
	Status      string
	StatusLabel string
	TechStack   []string

	AvatarUrl string
	DemoUrl   string
	GithubUrl string

	Owner *Profile

	Screenshots []Screenshot
	AwardCount  int

	Url     string
	EditUrl string

	Created time.Time
}

type Screenshot struct {
	ID      int
	Url     string
	Caption string

	DeleteUrl string
}

type Feedback struct {
	ID         int
	Content    template.HTML
	RawContent string
	Author     *Profile

	Created   time.Time
	EditUrl   string
	DeleteUrl string
}
