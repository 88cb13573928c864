package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/collabhub/internal/app/models"
	"github.com/yigit/collabhub/internal/app/models/dto"
	"github.com/yigit/collabhub/internal/pkg/helpers"
)

// FeedConfig bounds page sizes
type FeedConfig struct {
	DefaultPageSize int
	MaxPageSize     int
}

// FeedService builds keyset-paginated, per-viewer enriched project listings
type FeedService interface {
	GetFeed(ctx context.Context, viewerID *uuid.UUID, req dto.FeedRequest) (*dto.ProjectPage, error)
	ListBookmarks(ctx context.Context, viewerID uuid.UUID, cursor, limit string) (*dto.ProjectPage, error)
}

type feedServiceImpl struct {
	feed          FeedStore
	collaborators CollaborationLedger
	config        FeedConfig
	logger        zerolog.Logger
}

// NewFeedService creates a new FeedService
func NewFeedService(feed FeedStore, collaborators CollaborationLedger, config FeedConfig, logger zerolog.Logger) FeedService {
	if config.DefaultPageSize <= 0 {
		config.DefaultPageSize = helpers.DefaultPageSize
	}
	if config.MaxPageSize < config.DefaultPageSize {
		config.MaxPageSize = helpers.MaxPageSize
	}
	return &feedServiceImpl{feed: feed, collaborators: collaborators, config: config, logger: logger}
}

// GetFeed returns one page of the feed. Malformed cursor or limit values fail with InvalidState.
func (s *feedServiceImpl) GetFeed(ctx context.Context, viewerID *uuid.UUID, req dto.FeedRequest) (*dto.ProjectPage, error) {
	q, pageSize, err := s.pageQuery(req.Cursor, req.Limit)
	if err != nil {
		return nil, err
	}
	q.ViewerID = viewerID
	q.TechStack = helpers.SplitList(req.TechStack)
	q.Domains = helpers.SplitList(req.Domain)
	q.Search = strings.TrimSpace(req.Search)

	s.logger.Debug().
		Int("pageSize", pageSize).
		Strs("techStack", q.TechStack).
		Strs("domains", q.Domains).
		Bool("anonymous", viewerID == nil).
		Msg("Fetching project feed")

	return paginate(ctx, s.feed, s.collaborators, q, pageSize)
}

// ListBookmarks returns the viewer's bookmarked projects, newest project first
func (s *feedServiceImpl) ListBookmarks(ctx context.Context, viewerID uuid.UUID, cursor, limit string) (*dto.ProjectPage, error) {
	q, pageSize, err := s.pageQuery(cursor, limit)
	if err != nil {
		return nil, err
	}
	q.ViewerID = &viewerID
	q.BookmarkedBy = &viewerID

	return paginate(ctx, s.feed, s.collaborators, q, pageSize)
}

func (s *feedServiceImpl) pageQuery(cursor, limit string) (models.FeedQuery, int, error) {
	pageSize, err := helpers.ParsePageSize(limit, s.config.DefaultPageSize, s.config.MaxPageSize)
	if err != nil {
		return models.FeedQuery{}, 0, err
	}

	position, err := helpers.DecodeCursor(cursor)
	if err != nil {
		return models.FeedQuery{}, 0, err
	}

	q := models.FeedQuery{Limit: pageSize + 1}
	if position != nil {
		q.BeforeCreatedAt = &position.CreatedAt
		if position.HasID {
			q.BeforeID = &position.ID
		}
	}
	return q, pageSize, nil
}

// paginate fetches pageSize+1 rows; the extra row only signals that another page exists.
// The next cursor points at the last row actually returned.
func paginate(ctx context.Context, feed FeedStore, ledger CollaborationLedger, q models.FeedQuery, pageSize int) (*dto.ProjectPage, error) {
	views, err := feed.ListProjects(ctx, q)
	if err != nil {
		return nil, err
	}

	page := &dto.ProjectPage{}
	if len(views) > pageSize {
		views = views[:pageSize]
		last := views[len(views)-1]
		next := helpers.EncodeCursor(last.CreatedAt, last.ID)
		page.NextCursor = &next
	}

	if err := attachCollaborators(ctx, ledger, views); err != nil {
		return nil, err
	}
	if views == nil {
		views = []models.ProjectView{}
	}
	page.Items = views
	return page, nil
}

// attachCollaborators decorates views with their collaborators using one ledger read
func attachCollaborators(ctx context.Context, ledger CollaborationLedger, views []models.ProjectView) error {
	if len(views) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(views))
	for i := range views {
		ids[i] = views[i].ID
	}

	byProject, err := ledger.ListCollaborators(ctx, ids)
	if err != nil {
		return err
	}

	for i := range views {
		views[i].Collaborators = byProject[views[i].ID]
		if views[i].Collaborators == nil {
			views[i].Collaborators = []models.CollaboratorSummary{}
		}
	}
	return nil
}
