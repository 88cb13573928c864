package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/collabhub/internal/app/auth"
	"github.com/yigit/collabhub/internal/app/models"
	"github.com/yigit/collabhub/internal/app/models/dto"
	"github.com/yigit/collabhub/internal/pkg/apperrors"
	"github.com/yigit/collabhub/internal/pkg/metrics"
)

// JoinRequestService defines the interface for the join-request workflow
type JoinRequestService interface {
	RequestToJoin(ctx context.Context, requesterID uuid.UUID, ownerUsername, slug string, req *dto.CreateJoinRequestRequest) (*models.JoinRequest, error)
	RespondToRequest(ctx context.Context, ownerID, requestID uuid.UUID, action models.ResponseAction) (*dto.RespondJoinRequestResponse, error)
	CancelRequest(ctx context.Context, requesterID, requestID uuid.UUID) (*models.JoinRequest, error)
	ListIncomingRequests(ctx context.Context, ownerID uuid.UUID, status *models.JoinRequestStatus) ([]models.JoinRequestView, error)
	ListMyRequests(ctx context.Context, requesterID uuid.UUID) ([]models.JoinRequestView, error)
}

type joinRequestServiceImpl struct {
	tx            Transactor
	projects      ProjectService
	projectStore  ProjectStore
	requests      JoinRequestStore
	collaborators CollaborationLedger
	users         UserStore
	notifier      Notifier
	authz         *auth.AuthorizationService
	logger        zerolog.Logger
}

// NewJoinRequestService creates a new JoinRequestService
func NewJoinRequestService(
	tx Transactor,
	projects ProjectService,
	projectStore ProjectStore,
	requests JoinRequestStore,
	collaborators CollaborationLedger,
	users UserStore,
	notifier Notifier,
	authz *auth.AuthorizationService,
	logger zerolog.Logger,
) JoinRequestService {
	return &joinRequestServiceImpl{
		tx:            tx,
		projects:      projects,
		projectStore:  projectStore,
		requests:      requests,
		collaborators: collaborators,
		users:         users,
		notifier:      notifier,
		authz:         authz,
		logger:        logger,
	}
}

// RequestToJoin files a pending request from requesterID on the project addressed by
// owner username and slug
func (s *joinRequestServiceImpl) RequestToJoin(ctx context.Context, requesterID uuid.UUID, ownerUsername, slug string, req *dto.CreateJoinRequestRequest) (*models.JoinRequest, error) {
	project, err := s.projects.ResolveProject(ctx, ownerUsername, slug)
	if err != nil {
		return nil, err
	}

	if !project.LookingForContributors {
		return nil, apperrors.NewInvalidStateError("Project is not looking for contributors")
	}
	if s.authz.IsProjectOwner(requesterID, project) {
		return nil, apperrors.NewInvalidStateError("You cannot request to join your own project")
	}

	existing, err := s.collaborators.FindActive(ctx, project.ID, requesterID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.NewConflictError("You are already a contributor to this project")
	}

	pending, err := s.requests.FindPending(ctx, project.ID, requesterID)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		return nil, apperrors.NewConflictError("You already have a pending request for this project")
	}

	ts := now()
	jr := &models.JoinRequest{
		ID:            uuid.New(),
		ProjectID:     project.ID,
		RequesterID:   requesterID,
		Message:       strings.TrimSpace(req.Message),
		RoleRequested: strings.TrimSpace(req.RoleRequested),
		Status:        models.JoinRequestPending,
		CreatedAt:     ts,
		UpdatedAt:     ts,
	}

	// The partial unique index turns a concurrent duplicate into a Conflict here.
	if err := s.requests.Create(ctx, jr); err != nil {
		return nil, err
	}
	metrics.JoinRequestTransitions.WithLabelValues(string(models.JoinRequestPending)).Inc()

	s.logger.Info().
		Str("requestID", jr.ID.String()).
		Str("projectID", project.ID.String()).
		Str("requesterID", requesterID.String()).
		Msg("Join request created")

	s.notifyOwner(ctx, project, jr)
	return jr, nil
}

// RespondToRequest resolves a pending request. The status change and the
// collaboration insert commit together.
func (s *joinRequestServiceImpl) RespondToRequest(ctx context.Context, ownerID, requestID uuid.UUID, action models.ResponseAction) (*dto.RespondJoinRequestResponse, error) {
	if action != models.ActionAccept && action != models.ActionReject {
		return nil, apperrors.NewValidationError("Action must be accept or reject", map[string]interface{}{"action": action})
	}

	var (
		jr            *models.JoinRequest
		project       *models.Project
		collaboration *models.Collaboration
	)

	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		jr, err = s.requests.FindByIDForUpdate(ctx, requestID)
		if err != nil {
			return err
		}

		project, err = s.projectStore.FindByID(ctx, jr.ProjectID)
		if err != nil {
			return err
		}
		if err := s.authz.CheckProjectOwner(ownerID, project); err != nil {
			return err
		}

		if jr.Status != models.JoinRequestPending {
			return apperrors.NewInvalidStateError(fmt.Sprintf("Request has already been %s", jr.Status))
		}

		ts := now()
		next := action.Status()
		swapped, err := s.requests.UpdateStatus(ctx, jr.ID, models.JoinRequestPending, next, &ownerID, ts)
		if err != nil {
			return err
		}
		if !swapped {
			return apperrors.NewInvalidStateError("Request is no longer pending")
		}
		jr.Status = next
		jr.ReviewedBy = &ownerID
		jr.ReviewedAt = &ts
		jr.UpdatedAt = ts

		if action == models.ActionAccept {
			collaboration, err = s.ensureCollaboration(ctx, project, jr, ts)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.JoinRequestTransitions.WithLabelValues(string(jr.Status)).Inc()
	s.logger.Info().
		Str("requestID", jr.ID.String()).
		Str("projectID", project.ID.String()).
		Str("status", string(jr.Status)).
		Msg("Join request resolved")

	s.notifyRequester(ctx, project, jr)

	return &dto.RespondJoinRequestResponse{
		RequestID:     jr.ID,
		Action:        action,
		Status:        jr.Status,
		Collaboration: collaboration,
	}, nil
}

// ensureCollaboration inserts the collaboration for an approved request, or returns
// the one that already exists for the pair.
func (s *joinRequestServiceImpl) ensureCollaboration(ctx context.Context, project *models.Project, jr *models.JoinRequest, ts time.Time) (*models.Collaboration, error) {
	existing, err := s.collaborators.FindActive(ctx, project.ID, jr.RequesterID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	requestID := jr.ID
	collaboration := &models.Collaboration{
		ID:             uuid.New(),
		ProjectID:      project.ID,
		OwnerID:        project.OwnerID,
		CollaboratorID: jr.RequesterID,
		Role:           models.RoleOrDefault(jr.RoleRequested),
		RequestID:      &requestID,
		StartedAt:      ts,
		CreatedAt:      ts,
		UpdatedAt:      ts,
	}
	if err := s.collaborators.Create(ctx, collaboration); err != nil {
		return nil, err
	}
	return collaboration, nil
}

// CancelRequest withdraws a pending request. Only its requester may cancel it.
func (s *joinRequestServiceImpl) CancelRequest(ctx context.Context, requesterID, requestID uuid.UUID) (*models.JoinRequest, error) {
	jr, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CheckRequester(requesterID, jr); err != nil {
		return nil, err
	}
	if jr.Status != models.JoinRequestPending {
		return nil, apperrors.NewInvalidStateError(fmt.Sprintf("Request has already been %s", jr.Status))
	}

	ts := now()
	swapped, err := s.requests.UpdateStatus(ctx, jr.ID, models.JoinRequestPending, models.JoinRequestCancelled, nil, ts)
	if err != nil {
		return nil, err
	}
	if !swapped {
		return nil, apperrors.NewInvalidStateError("Request is no longer pending")
	}
	jr.Status = models.JoinRequestCancelled
	jr.UpdatedAt = ts

	metrics.JoinRequestTransitions.WithLabelValues(string(jr.Status)).Inc()
	s.logger.Info().Str("requestID", jr.ID.String()).Msg("Join request cancelled")
	return jr, nil
}

// ListIncomingRequests lists requests on the owner's projects, optionally by status
func (s *joinRequestServiceImpl) ListIncomingRequests(ctx context.Context, ownerID uuid.UUID, status *models.JoinRequestStatus) ([]models.JoinRequestView, error) {
	if status != nil && !status.Valid() {
		return nil, apperrors.NewInvalidStateError("Unknown request status: " + string(*status))
	}
	views, err := s.requests.ListForOwner(ctx, ownerID, status)
	if err != nil {
		return nil, err
	}
	if views == nil {
		views = []models.JoinRequestView{}
	}
	return views, nil
}

// ListMyRequests lists the requests a user has filed
func (s *joinRequestServiceImpl) ListMyRequests(ctx context.Context, requesterID uuid.UUID) ([]models.JoinRequestView, error) {
	views, err := s.requests.ListForRequester(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	if views == nil {
		views = []models.JoinRequestView{}
	}
	return views, nil
}

func (s *joinRequestServiceImpl) notifyOwner(ctx context.Context, project *models.Project, jr *models.JoinRequest) {
	name := "Someone"
	requester, err := s.users.FindByID(ctx, jr.RequesterID)
	if err != nil && !errors.Is(err, apperrors.ErrResourceNotFound) {
		s.logger.Warn().Err(err).Str("requesterID", jr.RequesterID.String()).Msg("Could not load requester for notification")
	}
	if requester != nil {
		name = requester.Name
	}

	sender := jr.RequesterID
	s.notifier.Notify(ctx, &models.Notification{
		ID:          uuid.New(),
		RecipientID: project.OwnerID,
		SenderID:    &sender,
		Type:        models.NotificationRequestReceived,
		Title:       "New join request",
		Message:     fmt.Sprintf("%s wants to join %s", name, project.Title),
		Link:        "/join-requests/incoming",
		Meta: map[string]interface{}{
			"requestId": jr.ID.String(),
			"projectId": project.ID.String(),
		},
		CreatedAt: jr.CreatedAt,
	})
}

func (s *joinRequestServiceImpl) notifyRequester(ctx context.Context, project *models.Project, jr *models.JoinRequest) {
	kind := models.NotificationRequestRejected
	title := "Join request declined"
	message := fmt.Sprintf("Your request to join %s was declined", project.Title)
	if jr.Status == models.JoinRequestApproved {
		kind = models.NotificationRequestApproved
		title = "Join request approved"
		message = fmt.Sprintf("You are now a contributor to %s", project.Title)
	}

	sender := project.OwnerID
	s.notifier.Notify(ctx, &models.Notification{
		ID:          uuid.New(),
		RecipientID: jr.RequesterID,
		SenderID:    &sender,
		Type:        kind,
		Title:       title,
		Message:     message,
		Link:        "/join-requests/mine",
		Meta: map[string]interface{}{
			"requestId": jr.ID.String(),
			"projectId": project.ID.String(),
		},
		CreatedAt: jr.UpdatedAt,
	})
}
