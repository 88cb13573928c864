package models

import (
	"time"

	"github.com/google/uuid"
)

// ProjectStatus is the development status of a project
type ProjectStatus string

const (
	ProjectStatusOngoing   ProjectStatus = "ongoing"
	ProjectStatusCompleted ProjectStatus = "completed"
)

// Project defines the project model based on the 'projects' table
type Project struct {
	ID                     uuid.UUID     `json:"id" db:"id"`
	OwnerID                uuid.UUID     `json:"ownerId" db:"owner_id"`
	Title                  string        `json:"title" db:"title" example:"Campus Ride Share"`
	Slug                   string        `json:"slug" db:"slug" example:"campus-ride-share"`
	Description            string        `json:"description" db:"description"`
	Domain                 string        `json:"domain" db:"domain" example:"Mobility"`
	TechStack              []string      `json:"techStack" db:"tech_stack"`
	ProjectPhoto           string        `json:"projectPhoto" db:"project_photo"`
	GithubURL              string        `json:"githubUrl" db:"github_url"`
	DeploymentURL          string        `json:"deploymentUrl" db:"deployment_url"`
	DemoURL                string        `json:"demoUrl" db:"demo_url"`
	Status                 ProjectStatus `json:"status" db:"status" example:"ongoing"`
	LookingForContributors bool          `json:"lookingForContributors" db:"looking_for_contributors"`
	CreatedAt              time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt              time.Time     `json:"updatedAt" db:"updated_at"`
}

// ProjectView is a project enriched for a particular viewer
type ProjectView struct {
	Project
	Owner            UserSummary           `json:"owner"`
	Collaborators    []CollaboratorSummary `json:"collaborators"`
	LikeCount        int64                 `json:"likeCount"`
	CommentCount     int64                 `json:"commentCount"`
	LikedByUser      bool                  `json:"likedByUser"`
	BookmarkedByUser bool                  `json:"bookmarkedByUser"`
}

// FeedQuery selects one page of the project feed.
// BeforeCreatedAt/BeforeID bound the page from above in (created_at, id) order;
// BeforeID is only meaningful together with BeforeCreatedAt.
type FeedQuery struct {
	ViewerID        *uuid.UUID
	BeforeCreatedAt *time.Time
	BeforeID        *uuid.UUID
	Limit           int
	TechStack       []string
	Domains         []string
	Search          string

	// Restrictions used by the detail page and per-user listings built on the same query
	ProjectID      *uuid.UUID
	OwnerID        *uuid.UUID
	CollaboratorID *uuid.UUID
	BookmarkedBy   *uuid.UUID
}
