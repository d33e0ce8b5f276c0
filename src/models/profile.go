package models

import (
	"time"
)

type ProfileRole string

const (
	RoleAdmin       ProfileRole = "admin"
	RoleFacilitator ProfileRole = "facilitator"
	RoleMember      ProfileRole = "member"
)

// One profile per identity-provider user. Created on first login, edited
// by the owning user or an admin, and hard-deleted only by explicit admin
// action (which cascades to the user's projects, demos, votes, and awards).
type Profile struct {
	ID int `db:"id"`

	// The identity provider's stable user id. We key sessions off our own
	// integer id but look profiles up by this on login.
	ExternalID string `db:"external_id"`

	Name  string      `db:"name"`
	Email string      `db:"email"`
	Role  ProfileRole `db:"role"`

	Bio         *string `db:"bio"`
	AvatarUrl   *string `db:"avatar_url"`
	GithubUrl   *string `db:"github_url"`
	SlackHandle *string `db:"slack_handle"`
	ProjectIdea *string `db:"project_idea"`
	RepoUrl     *string `db:"repo_url"`

	Created time.Time `db:"created_at"`
	Updated time.Time `db:"updated_at"`
}

func (p *Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// Facilitators can see unpublished curriculum but cannot mutate it.
func (p *Profile) IsPrivileged() bool {
	return p.Role == RoleAdmin || p.Role == RoleFacilitator
}
