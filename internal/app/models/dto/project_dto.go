package dto

import (
	"github.com/google/uuid"
	"github.com/yigit/collabhub/internal/app/models"
)

// ContributorInput names an existing user as a contributor when a project is created
type ContributorInput struct {
	UserID              uuid.UUID `json:"userId" binding:"required"`
	Role                string    `json:"role" binding:"max=100" example:"Frontend Developer"`
	ContributionSummary string    `json:"contributionSummary" binding:"max=1000"`
}

// CreateProjectRequest represents the body of POST /projects
type CreateProjectRequest struct {
	Title                  string               `json:"title" binding:"required,min=1,max=150" example:"Campus Ride Share"`
	Description            string               `json:"description" binding:"max=5000"`
	Domain                 string               `json:"domain" binding:"max=100" example:"Mobility"`
	TechStack              []string             `json:"techStack" binding:"max=30,dive,min=1,max=50"`
	ProjectPhoto           string               `json:"projectPhoto" binding:"omitempty,url"`
	GithubURL              string               `json:"githubUrl" binding:"omitempty,url"`
	DeploymentURL          string               `json:"deploymentUrl" binding:"omitempty,url"`
	DemoURL                string               `json:"demoUrl" binding:"omitempty,url"`
	Status                 models.ProjectStatus `json:"status" binding:"omitempty,oneof=ongoing completed" example:"ongoing"`
	LookingForContributors bool                 `json:"lookingForContributors"`
	Contributors           []ContributorInput   `json:"contributors" binding:"max=50,dive"`
}

// UpdateProjectRequest represents a partial project update; nil fields are left unchanged
type UpdateProjectRequest struct {
	Title                  *string               `json:"title" binding:"omitempty,min=1,max=150"`
	Description            *string               `json:"description" binding:"omitempty,max=5000"`
	Domain                 *string               `json:"domain" binding:"omitempty,max=100"`
	TechStack              *[]string             `json:"techStack" binding:"omitempty,max=30,dive,min=1,max=50"`
	ProjectPhoto           *string               `json:"projectPhoto" binding:"omitempty,url"`
	GithubURL              *string               `json:"githubUrl" binding:"omitempty,url"`
	DeploymentURL          *string               `json:"deploymentUrl" binding:"omitempty,url"`
	DemoURL                *string               `json:"demoUrl" binding:"omitempty,url"`
	Status                 *models.ProjectStatus `json:"status" binding:"omitempty,oneof=ongoing completed"`
	LookingForContributors *bool                 `json:"lookingForContributors"`
}

// FeedRequest carries the raw feed query parameters
type FeedRequest struct {
	Cursor    string `form:"cursor"`
	Limit     string `form:"limit"`
	TechStack string `form:"techStack" example:"go,react"`
	Domain    string `form:"domain" example:"Mobility"`
	Search    string `form:"search"`
}

// ProjectPage is a page of enriched projects
type ProjectPage = CursorPage[models.ProjectView]
