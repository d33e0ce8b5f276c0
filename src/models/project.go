package models

import "time"

type ProjectStatus string

const (
	ProjectDraft      ProjectStatus = "draft"
	ProjectInProgress ProjectStatus = "in_progress"
	ProjectCompleted  ProjectStatus = "completed"
)

type Project struct {
	ID     int `db:"id"`
	UserID int `db:"user_id"`

	Title       string        `db:"title"`
	Description *string       `db:"description"`
	Goal        *string       `db:"goal"`
	Status      ProjectStatus `db:"status"`
	TechStack   []string      `db:"tech_stack"`

	AvatarUrl *string `db:"avatar_url"`
	DemoUrl   *string `db:"demo_url"`
	GithubUrl *string `db:"github_url"`

	// Admin-controlled manual ranking, persisted by the reorder action.
	// Page-level sorts by title/owner/date are transient and never
	// written back.
	SortOrder int `db:"sort_order"`

	Created time.Time `db:"created_at"`
	Updated time.Time `db:"updated_at"`
}

type ProjectScreenshot struct {
	ID        int `db:"id"`
	ProjectID int `db:"project_id"`

	Url       string  `db:"url"`
	Caption   *string `db:"caption"`
	SortOrder int     `db:"sort_order"`

	Uploaded time.Time `db:"uploaded_at"`
}

// Instructor feedback on a project. Many entries per project, each
// attributable to one instructor.
type ProjectFeedback struct {
	ID           int `db:"id"`
	ProjectID    int `db:"project_id"`
	InstructorID int `db:"instructor_id"`

	Content string `db:"content"` // markdown

	Created time.Time `db:"created_at"`
	Updated time.Time `db:"updated_at"`
}
