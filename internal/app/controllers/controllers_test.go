package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/collabhub/internal/app/models"
	"github.com/yigit/collabhub/internal/app/models/dto"
	"github.com/yigit/collabhub/internal/app/services"
	"github.com/yigit/collabhub/internal/middleware"
	"github.com/yigit/collabhub/internal/pkg/apperrors"
	"github.com/yigit/collabhub/internal/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := validation.RegisterRules(); err != nil {
		panic(err)
	}
}

// Fakes embed the service interface so only the methods a test calls need bodies.

type fakeAuth struct {
	signup func(*dto.SignupRequest) (*dto.AuthResponse, error)
	login  func(*dto.LoginRequest) (*dto.AuthResponse, error)
}

func (f *fakeAuth) Signup(_ context.Context, req *dto.SignupRequest) (*dto.AuthResponse, error) {
	return f.signup(req)
}

func (f *fakeAuth) Login(_ context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	return f.login(req)
}

type fakeProjects struct {
	services.ProjectService
	project *models.Project
}

func (f *fakeProjects) ResolveProject(_ context.Context, ownerUsername, slug string) (*models.Project, error) {
	if f.project == nil || slug != f.project.Slug {
		return nil, apperrors.NewResourceNotFoundError("Project not found")
	}
	return f.project, nil
}

type fakeFeed struct {
	services.FeedService
	viewer *uuid.UUID
	req    dto.FeedRequest
}

func (f *fakeFeed) GetFeed(_ context.Context, viewerID *uuid.UUID, req dto.FeedRequest) (*dto.ProjectPage, error) {
	f.viewer, f.req = viewerID, req
	if req.Cursor == "bad" {
		return nil, apperrors.NewInvalidStateError("Invalid cursor")
	}
	return &dto.ProjectPage{Items: []models.ProjectView{}}, nil
}

type fakeJoinRequests struct {
	services.JoinRequestService
	created  *dto.CreateJoinRequestRequest
	action   models.ResponseAction
	statuses []*models.JoinRequestStatus
}

func (f *fakeJoinRequests) RequestToJoin(_ context.Context, requesterID uuid.UUID, _, _ string, req *dto.CreateJoinRequestRequest) (*models.JoinRequest, error) {
	f.created = req
	return &models.JoinRequest{ID: uuid.New(), RequesterID: requesterID, Status: models.JoinRequestPending, RoleRequested: req.RoleRequested}, nil
}

func (f *fakeJoinRequests) RespondToRequest(_ context.Context, _, requestID uuid.UUID, action models.ResponseAction) (*dto.RespondJoinRequestResponse, error) {
	f.action = action
	return &dto.RespondJoinRequestResponse{RequestID: requestID, Action: action, Status: action.Status()}, nil
}

func (f *fakeJoinRequests) ListIncomingRequests(_ context.Context, _ uuid.UUID, status *models.JoinRequestStatus) ([]models.JoinRequestView, error) {
	f.statuses = append(f.statuses, status)
	return []models.JoinRequestView{}, nil
}

type fakeReactions struct {
	services.ReactionService
	liked []uuid.UUID
}

func (f *fakeReactions) Like(_ context.Context, _, projectID uuid.UUID) (*dto.LikeResponse, error) {
	f.liked = append(f.liked, projectID)
	return &dto.LikeResponse{ProjectID: projectID, Liked: true, LikeCount: 1}, nil
}

func (f *fakeReactions) ToggleBookmark(_ context.Context, _, projectID uuid.UUID, action dto.BookmarkAction) (*dto.BookmarkResponse, error) {
	return &dto.BookmarkResponse{ProjectID: projectID, Bookmarked: action == dto.BookmarkAdd, Action: action}, nil
}

type fakeNotifications struct {
	services.NotificationService
	owner uuid.UUID
}

func (f *fakeNotifications) MarkRead(_ context.Context, userID, id uuid.UUID) (*models.Notification, error) {
	if userID != f.owner {
		return nil, apperrors.NewForbiddenError("Not your notification")
	}
	return &models.Notification{ID: id, RecipientID: userID, Read: true}, nil
}

// asUser stands in for JWTAuth
func asUser(id uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, id)
		c.Next()
	}
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Data    json.RawMessage  `json:"data"`
	Error   *dto.ErrorDetail `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return env
}

func TestSignupAndLogin(t *testing.T) {
	authService := &fakeAuth{
		signup: func(req *dto.SignupRequest) (*dto.AuthResponse, error) {
			return &dto.AuthResponse{User: dto.UserResponse{Username: req.Username}}, nil
		},
		login: func(*dto.LoginRequest) (*dto.AuthResponse, error) {
			return nil, apperrors.NewCustomError(apperrors.ErrInvalidCredentials, "Invalid email/username or password")
		},
	}
	c := NewAuthController(authService, zerolog.Nop())
	r := gin.New()
	r.POST("/auth/signup", c.Signup)
	r.POST("/auth/login", c.Login)

	w := do(r, http.MethodPost, "/auth/signup", `{"username":"alice_dev","name":"Alice","email":"alice@example.com","password":"longenough"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("signup status = %d: %s", w.Code, w.Body.String())
	}
	if env := decode(t, w); !env.Success || !bytes.Contains(env.Data, []byte(`"alice_dev"`)) {
		t.Errorf("signup body = %s", w.Body.String())
	}

	w = do(r, http.MethodPost, "/auth/signup", `{"username":"a!","name":"Alice","email":"alice@example.com","password":"longenough"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad username status = %d", w.Code)
	}

	w = do(r, http.MethodPost, "/auth/login", `{"identifier":"alice","password":"wrong"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("login status = %d", w.Code)
	}
	if env := decode(t, w); env.Error == nil || env.Error.Code != dto.ErrorCodeInvalidCredentials {
		t.Errorf("login body = %s", w.Body.String())
	}
}

func TestGetFeedPassesViewerAndFilters(t *testing.T) {
	feed := &fakeFeed{}
	c := NewProjectController(&fakeProjects{}, feed, zerolog.Nop())
	viewer := uuid.New()

	r := gin.New()
	r.GET("/anon/feed", c.GetFeed)
	r.GET("/feed", asUser(viewer), c.GetFeed)

	w := do(r, http.MethodGet, "/anon/feed?techStack=go,react&limit=5", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if feed.viewer != nil || feed.req.TechStack != "go,react" || feed.req.Limit != "5" {
		t.Errorf("viewer = %v, req = %+v", feed.viewer, feed.req)
	}

	do(r, http.MethodGet, "/feed", "")
	if feed.viewer == nil || *feed.viewer != viewer {
		t.Errorf("viewer = %v, want %s", feed.viewer, viewer)
	}

	w = do(r, http.MethodGet, "/feed?cursor=bad", "")
	if w.Code != http.StatusBadRequest || decode(t, w).Error.Code != dto.ErrorCodeInvalidState {
		t.Errorf("bad cursor: %d %s", w.Code, w.Body.String())
	}
}

func TestProtectedHandlerWithoutIdentity(t *testing.T) {
	c := NewProjectController(&fakeProjects{}, &fakeFeed{}, zerolog.Nop())
	r := gin.New()
	r.POST("/projects", c.CreateProject)

	w := do(r, http.MethodPost, "/projects", `{"title":"x"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestJoinRequestEndpoints(t *testing.T) {
	svc := &fakeJoinRequests{}
	c := NewJoinRequestController(svc, zerolog.Nop())
	user := uuid.New()

	r := gin.New()
	r.Use(asUser(user))
	r.POST("/projects/:username/:slug/join-requests", c.RequestToJoin)
	r.GET("/join-requests/incoming", c.ListIncoming)
	r.POST("/join-requests/:id/respond", c.Respond)

	w := do(r, http.MethodPost, "/projects/alice/app/join-requests", "")
	if w.Code != http.StatusCreated {
		t.Fatalf("empty body status = %d: %s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodPost, "/projects/alice/app/join-requests", `{"message":"hi","roleRequested":"Backend"}`)
	if w.Code != http.StatusCreated || svc.created.RoleRequested != "Backend" {
		t.Fatalf("status = %d, req = %+v", w.Code, svc.created)
	}

	w = do(r, http.MethodPost, "/join-requests/not-a-uuid/respond", `{"action":"accept"}`)
	if w.Code != http.StatusBadRequest || decode(t, w).Error.Code != dto.ErrorCodeInvalidState {
		t.Errorf("bad id: %d %s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodPost, "/join-requests/"+uuid.NewString()+"/respond", `{"action":"maybe"}`)
	if w.Code != http.StatusBadRequest || decode(t, w).Error.Code != dto.ErrorCodeValidationFailed {
		t.Errorf("bad action: %d %s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodPost, "/join-requests/"+uuid.NewString()+"/respond", `{"action":"accept"}`)
	if w.Code != http.StatusOK || svc.action != models.ActionAccept {
		t.Fatalf("accept: %d %s", w.Code, w.Body.String())
	}
	if env := decode(t, w); env.Message != "Join request accepted" {
		t.Errorf("message = %q", env.Message)
	}

	do(r, http.MethodGet, "/join-requests/incoming", "")
	do(r, http.MethodGet, "/join-requests/incoming?status=pending", "")
	if len(svc.statuses) != 2 || svc.statuses[0] != nil || *svc.statuses[1] != models.JoinRequestPending {
		t.Errorf("statuses = %v", svc.statuses)
	}

	w = do(r, http.MethodGet, "/join-requests/incoming?status=archived", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown status filter = %d", w.Code)
	}
}

func TestLikeResolvesProjectByOwnerAndSlug(t *testing.T) {
	project := &models.Project{ID: uuid.New(), Slug: "app"}
	reactions := &fakeReactions{}
	c := NewReactionController(&fakeProjects{project: project}, reactions, &fakeFeed{})

	r := gin.New()
	r.Use(asUser(uuid.New()))
	r.POST("/projects/:username/:slug/like", c.Like)
	r.PUT("/users/me/bookmarks/:projectId", c.ToggleBookmark)

	w := do(r, http.MethodPost, "/projects/alice/app/like", "")
	if w.Code != http.StatusOK || len(reactions.liked) != 1 || reactions.liked[0] != project.ID {
		t.Fatalf("like: %d %v", w.Code, reactions.liked)
	}

	w = do(r, http.MethodPost, "/projects/alice/missing/like", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("missing project = %d", w.Code)
	}

	w = do(r, http.MethodPut, "/users/me/bookmarks/"+project.ID.String(), `{"action":"toggle"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad bookmark action = %d", w.Code)
	}

	w = do(r, http.MethodPut, "/users/me/bookmarks/"+project.ID.String(), `{"action":"add"}`)
	if w.Code != http.StatusOK || !bytes.Contains(decode(t, w).Data, []byte(`"bookmarked":true`)) {
		t.Errorf("add bookmark: %d %s", w.Code, w.Body.String())
	}
}

func TestLikeResolvesPercentEncodedSlug(t *testing.T) {
	project := &models.Project{ID: uuid.New(), Slug: "学生项目"}
	reactions := &fakeReactions{}
	c := NewReactionController(&fakeProjects{project: project}, reactions, &fakeFeed{})

	r := gin.New()
	r.Use(asUser(uuid.New()))
	r.POST("/projects/:username/:slug/like", c.Like)

	w := do(r, http.MethodPost, "/projects/alice/"+url.PathEscape(project.Slug)+"/like", "")
	if w.Code != http.StatusOK || len(reactions.liked) != 1 || reactions.liked[0] != project.ID {
		t.Fatalf("like: %d %v %s", w.Code, reactions.liked, w.Body.String())
	}
}

func TestMarkReadForbiddenForOtherUser(t *testing.T) {
	owner := uuid.New()
	c := NewNotificationController(&fakeNotifications{owner: owner})

	r := gin.New()
	r.POST("/mine/:id/read", asUser(owner), c.MarkRead)
	r.POST("/other/:id/read", asUser(uuid.New()), c.MarkRead)

	if w := do(r, http.MethodPost, "/mine/"+uuid.NewString()+"/read", ""); w.Code != http.StatusOK {
		t.Errorf("owner = %d", w.Code)
	}
	if w := do(r, http.MethodPost, "/other/"+uuid.NewString()+"/read", ""); w.Code != http.StatusForbidden {
		t.Errorf("other = %d", w.Code)
	}
}
