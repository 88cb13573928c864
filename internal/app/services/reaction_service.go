package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/collabhub/internal/app/models/dto"
	"github.com/yigit/collabhub/internal/pkg/apperrors"
)

// ReactionService defines the interface for likes and bookmarks
type ReactionService interface {
	Like(ctx context.Context, viewerID, projectID uuid.UUID) (*dto.LikeResponse, error)
	Unlike(ctx context.Context, viewerID, projectID uuid.UUID) (*dto.LikeResponse, error)
	ToggleBookmark(ctx context.Context, viewerID, projectID uuid.UUID, action dto.BookmarkAction) (*dto.BookmarkResponse, error)
}

type reactionServiceImpl struct {
	projects  ProjectStore
	reactions ReactionStore
	logger    zerolog.Logger
}

// NewReactionService creates a new ReactionService
func NewReactionService(projects ProjectStore, reactions ReactionStore, logger zerolog.Logger) ReactionService {
	return &reactionServiceImpl{
		projects:  projects,
		reactions: reactions,
		logger:    logger,
	}
}

func (s *reactionServiceImpl) requireProject(ctx context.Context, projectID uuid.UUID) error {
	exists, err := s.projects.Exists(ctx, projectID)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.NewResourceNotFoundError("Project not found")
	}
	return nil
}

// Like adds the viewer to the project's likes. Liking twice is a no-op.
func (s *reactionServiceImpl) Like(ctx context.Context, viewerID, projectID uuid.UUID) (*dto.LikeResponse, error) {
	if err := s.requireProject(ctx, projectID); err != nil {
		return nil, err
	}
	if err := s.reactions.AddLike(ctx, projectID, viewerID); err != nil {
		return nil, err
	}
	return s.likeResponse(ctx, projectID, true)
}

// Unlike removes the viewer from the project's likes. Unliking twice is a no-op.
func (s *reactionServiceImpl) Unlike(ctx context.Context, viewerID, projectID uuid.UUID) (*dto.LikeResponse, error) {
	if err := s.requireProject(ctx, projectID); err != nil {
		return nil, err
	}
	if err := s.reactions.RemoveLike(ctx, projectID, viewerID); err != nil {
		return nil, err
	}
	return s.likeResponse(ctx, projectID, false)
}

func (s *reactionServiceImpl) likeResponse(ctx context.Context, projectID uuid.UUID, liked bool) (*dto.LikeResponse, error) {
	count, err := s.reactions.CountLikes(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return &dto.LikeResponse{ProjectID: projectID, Liked: liked, LikeCount: count}, nil
}

// ToggleBookmark applies an explicit add or remove to the viewer's bookmarks
func (s *reactionServiceImpl) ToggleBookmark(ctx context.Context, viewerID, projectID uuid.UUID, action dto.BookmarkAction) (*dto.BookmarkResponse, error) {
	if action != dto.BookmarkAdd && action != dto.BookmarkRemove {
		return nil, apperrors.NewValidationError("Action must be add or remove", map[string]interface{}{"action": action})
	}
	if err := s.requireProject(ctx, projectID); err != nil {
		return nil, err
	}

	var err error
	if action == dto.BookmarkAdd {
		err = s.reactions.AddBookmark(ctx, viewerID, projectID)
	} else {
		err = s.reactions.RemoveBookmark(ctx, viewerID, projectID)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Debug().Str("userID", viewerID.String()).Str("projectID", projectID.String()).Str("action", string(action)).Msg("Bookmark updated")
	return &dto.BookmarkResponse{
		ProjectID:  projectID,
		Bookmarked: action == dto.BookmarkAdd,
		Action:     action,
	}, nil
}
