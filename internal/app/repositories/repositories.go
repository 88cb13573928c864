package repositories

import (
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/collabhub/internal/db"
	"github.com/yigit/collabhub/internal/pkg/apperrors"
)

// psql builds every statement with PostgreSQL placeholders
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository          *UserRepository
	ProjectRepository       *ProjectRepository
	CollaborationRepository *CollaborationRepository
	JoinRequestRepository   *JoinRequestRepository
	ReactionRepository      *ReactionRepository
	FeedRepository          *FeedRepository
	CommentRepository       *CommentRepository
	NotificationRepository  *NotificationRepository
}

// NewRepositories initializes all repositories
func NewRepositories(database *db.PostgresDB) *Repositories {
	return &Repositories{
		UserRepository:          NewUserRepository(database),
		ProjectRepository:       NewProjectRepository(database),
		CollaborationRepository: NewCollaborationRepository(database),
		JoinRequestRepository:   NewJoinRequestRepository(database),
		ReactionRepository:      NewReactionRepository(database),
		FeedRepository:          NewFeedRepository(database),
		CommentRepository:       NewCommentRepository(database),
		NotificationRepository:  NewNotificationRepository(database),
	}
}

// notFound converts pgx.ErrNoRows into a NotFound error with message
func notFound(err error, message string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewResourceNotFoundError(message)
	}
	return fmt.Errorf("error executing query: %w", err)
}
