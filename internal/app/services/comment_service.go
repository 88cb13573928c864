package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/collabhub/internal/app/models"
	"github.com/yigit/collabhub/internal/pkg/apperrors"
)

// MaxCommentLength is the longest comment accepted, in characters
const MaxCommentLength = 2000

// CommentService defines the interface for project comments
type CommentService interface {
	AddComment(ctx context.Context, userID, projectID uuid.UUID, content string) (*models.Comment, error)
	ListComments(ctx context.Context, projectID uuid.UUID) ([]models.Comment, error)
}

type commentServiceImpl struct {
	projects ProjectStore
	comments CommentStore
	users    UserStore
	logger   zerolog.Logger
}

// NewCommentService creates a new CommentService
func NewCommentService(projects ProjectStore, comments CommentStore, users UserStore, logger zerolog.Logger) CommentService {
	return &commentServiceImpl{
		projects: projects,
		comments: comments,
		users:    users,
		logger:   logger,
	}
}

// AddComment stores a comment from userID on a project
func (s *commentServiceImpl) AddComment(ctx context.Context, userID, projectID uuid.UUID, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if n := utf8.RuneCountInString(content); n == 0 || n > MaxCommentLength {
		return nil, apperrors.NewValidationError("Comment must be between 1 and 2000 characters",
			map[string]interface{}{"field": "content"})
	}

	exists, err := s.projects.Exists(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NewResourceNotFoundError("Project not found")
	}

	author, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ID:        uuid.New(),
		ProjectID: projectID,
		UserID:    userID,
		Content:   content,
		CreatedAt: now(),
		Author:    author.Public(),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.logger.Debug().Str("commentID", comment.ID.String()).Str("projectID", projectID.String()).Msg("Comment added")
	return comment, nil
}

// ListComments lists a project's comments, newest first
func (s *commentServiceImpl) ListComments(ctx context.Context, projectID uuid.UUID) ([]models.Comment, error) {
	exists, err := s.projects.Exists(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NewResourceNotFoundError("Project not found")
	}

	comments, err := s.comments.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	return comments, nil
}
