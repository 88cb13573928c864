package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yigit/collabhub/internal/app/models"
)

// Services defined in this package:
// - AuthService: local signup and login
// - ProjectService: project creation, lookup, update and per-user listings
// - JoinRequestService: the join-request workflow
// - FeedService: the keyset-paginated project feed and bookmark listing
// - ReactionService: likes and bookmarks
// - CommentService: project comments
// - NotificationService: stored and pushed notifications
// - ReconciliationService: repairs approvals that lack a collaboration

// The store interfaces below are satisfied by the repositories package.

// Transactor runs fn in a database transaction carried by its context
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserStore reads and creates users
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByEmailOrUsername(ctx context.Context, identifier string) (*models.User, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.User, error)
}

// ProjectStore reads and writes projects
type ProjectStore interface {
	Create(ctx context.Context, p *models.Project) error
	Update(ctx context.Context, p *models.Project) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	FindBySlug(ctx context.Context, ownerID uuid.UUID, slug string) (*models.Project, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// CollaborationLedger records accepted contributor relationships
type CollaborationLedger interface {
	Create(ctx context.Context, c *models.Collaboration) error
	FindActive(ctx context.Context, projectID, collaboratorID uuid.UUID) (*models.Collaboration, error)
	ListCollaborators(ctx context.Context, projectIDs []uuid.UUID) (map[uuid.UUID][]models.CollaboratorSummary, error)
}

// JoinRequestStore reads and writes join requests
type JoinRequestStore interface {
	Create(ctx context.Context, jr *models.JoinRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.JoinRequest, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.JoinRequest, error)
	FindPending(ctx context.Context, projectID, requesterID uuid.UUID) (*models.JoinRequest, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.JoinRequestStatus, reviewedBy *uuid.UUID, at time.Time) (bool, error)
	ListForOwner(ctx context.Context, ownerID uuid.UUID, status *models.JoinRequestStatus) ([]models.JoinRequestView, error)
	ListForRequester(ctx context.Context, requesterID uuid.UUID) ([]models.JoinRequestView, error)
	ListApprovedWithoutCollaboration(ctx context.Context, limit int) ([]models.JoinRequestView, error)
}

// ReactionStore stores likes and bookmarks
type ReactionStore interface {
	AddLike(ctx context.Context, projectID, userID uuid.UUID) error
	RemoveLike(ctx context.Context, projectID, userID uuid.UUID) error
	CountLikes(ctx context.Context, projectID uuid.UUID) (int64, error)
	AddBookmark(ctx context.Context, userID, projectID uuid.UUID) error
	RemoveBookmark(ctx context.Context, userID, projectID uuid.UUID) error
}

// FeedStore reads enriched project views
type FeedStore interface {
	ListProjects(ctx context.Context, q models.FeedQuery) ([]models.ProjectView, error)
}

// CommentStore reads and writes comments
type CommentStore interface {
	Create(ctx context.Context, c *models.Comment) error
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.Comment, error)
}

// NotificationStore reads and writes notifications
type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByRecipient(ctx context.Context, recipientID uuid.UUID, unreadOnly bool) ([]models.Notification, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
}

// Notifier delivers a notification to its recipient. Delivery problems are the
// notifier's concern and never fail the caller.
type Notifier interface {
	Notify(ctx context.Context, n *models.Notification)
}

func now() time.Time {
	return time.Now().UTC()
}
