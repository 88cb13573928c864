package services

import (
	"bytes"
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/collabhub/internal/app/auth"
	"github.com/yigit/collabhub/internal/app/models"
	"github.com/yigit/collabhub/internal/pkg/apperrors"
)

// memDB is an in-memory stand-in for the Postgres store. Every fake store shares it
// so that the fake transactor can snapshot and restore all state at once.
type memDB struct {
	mu            sync.Mutex
	users         map[uuid.UUID]models.User
	projects      map[uuid.UUID]models.Project
	collabs       []models.Collaboration
	requests      map[uuid.UUID]models.JoinRequest
	likes         map[[2]uuid.UUID]bool
	bookmarks     map[[2]uuid.UUID]bool
	comments      []models.Comment
	notifications []models.Notification

	// collabCreateErr, when set, fails the next collaboration insert
	collabCreateErr error
}

func newMemDB() *memDB {
	return &memDB{
		users:     map[uuid.UUID]models.User{},
		projects:  map[uuid.UUID]models.Project{},
		requests:  map[uuid.UUID]models.JoinRequest{},
		likes:     map[[2]uuid.UUID]bool{},
		bookmarks: map[[2]uuid.UUID]bool{},
	}
}

type memSnapshot struct {
	users     map[uuid.UUID]models.User
	projects  map[uuid.UUID]models.Project
	collabs   []models.Collaboration
	requests  map[uuid.UUID]models.JoinRequest
	likes     map[[2]uuid.UUID]bool
	bookmarks map[[2]uuid.UUID]bool
	comments  []models.Comment
}

func (m *memDB) snapshot() memSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := memSnapshot{
		users:     map[uuid.UUID]models.User{},
		projects:  map[uuid.UUID]models.Project{},
		collabs:   append([]models.Collaboration(nil), m.collabs...),
		requests:  map[uuid.UUID]models.JoinRequest{},
		likes:     map[[2]uuid.UUID]bool{},
		bookmarks: map[[2]uuid.UUID]bool{},
		comments:  append([]models.Comment(nil), m.comments...),
	}
	for k, v := range m.users {
		s.users[k] = v
	}
	for k, v := range m.projects {
		s.projects[k] = v
	}
	for k, v := range m.requests {
		s.requests[k] = v
	}
	for k, v := range m.likes {
		s.likes[k] = v
	}
	for k, v := range m.bookmarks {
		s.bookmarks[k] = v
	}
	return s
}

func (m *memDB) restore(s memSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = s.users
	m.projects = s.projects
	m.collabs = s.collabs
	m.requests = s.requests
	m.likes = s.likes
	m.bookmarks = s.bookmarks
	m.comments = s.comments
}

// fakeTx runs fn and rolls every store back when it fails. Transactions are
// serialized so a rollback never discards another transaction's writes.
type fakeTx struct {
	db      *memDB
	mu      sync.Mutex
	commits int
}

func (t *fakeTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	snap := t.db.snapshot()
	if err := fn(ctx); err != nil {
		t.db.restore(snap)
		return err
	}
	t.db.mu.Lock()
	t.commits++
	t.db.mu.Unlock()
	return nil
}

type fakeUsers struct{ db *memDB }

func (f *fakeUsers) Create(ctx context.Context, user *models.User) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, u := range f.db.users {
		if strings.EqualFold(u.Username, user.Username) {
			return apperrors.NewConflictError("Username is already taken")
		}
		if strings.EqualFold(u.Email, user.Email) {
			return apperrors.NewConflictError("Email is already registered")
		}
	}
	f.db.users[user.ID] = *user
	return nil
}

func (f *fakeUsers) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	u, ok := f.db.users[id]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("User not found")
	}
	return &u, nil
}

func (f *fakeUsers) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, u := range f.db.users {
		if strings.EqualFold(u.Username, username) {
			u := u
			return &u, nil
		}
	}
	return nil, apperrors.NewResourceNotFoundError("User not found")
}

func (f *fakeUsers) FindByEmailOrUsername(ctx context.Context, identifier string) (*models.User, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, u := range f.db.users {
		if strings.EqualFold(u.Username, identifier) || strings.EqualFold(u.Email, identifier) {
			u := u
			return &u, nil
		}
	}
	return nil, apperrors.NewResourceNotFoundError("User not found")
}

func (f *fakeUsers) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.User, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	out := map[uuid.UUID]*models.User{}
	for _, id := range ids {
		if u, ok := f.db.users[id]; ok {
			u := u
			out[id] = &u
		}
	}
	return out, nil
}

type fakeProjects struct{ db *memDB }

func (f *fakeProjects) slugTakenLocked(p *models.Project) bool {
	for _, other := range f.db.projects {
		if other.ID != p.ID && other.OwnerID == p.OwnerID && strings.EqualFold(other.Slug, p.Slug) {
			return true
		}
	}
	return false
}

func (f *fakeProjects) Create(ctx context.Context, p *models.Project) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.slugTakenLocked(p) {
		return apperrors.NewConflictError("You already have a project with this title")
	}
	cp := *p
	cp.TechStack = append([]string(nil), p.TechStack...)
	f.db.projects[p.ID] = cp
	return nil
}

func (f *fakeProjects) Update(ctx context.Context, p *models.Project) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if _, ok := f.db.projects[p.ID]; !ok {
		return apperrors.NewResourceNotFoundError("Project not found")
	}
	if f.slugTakenLocked(p) {
		return apperrors.NewConflictError("You already have a project with this title")
	}
	f.db.projects[p.ID] = *p
	return nil
}

func (f *fakeProjects) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	p, ok := f.db.projects[id]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("Project not found")
	}
	return &p, nil
}

func (f *fakeProjects) FindBySlug(ctx context.Context, ownerID uuid.UUID, slug string) (*models.Project, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, p := range f.db.projects {
		if p.OwnerID == ownerID && strings.EqualFold(p.Slug, slug) {
			p := p
			return &p, nil
		}
	}
	return nil, apperrors.NewResourceNotFoundError("Project not found")
}

func (f *fakeProjects) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	_, ok := f.db.projects[id]
	return ok, nil
}

type fakeLedger struct{ db *memDB }

func (f *fakeLedger) Create(ctx context.Context, c *models.Collaboration) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if err := f.db.collabCreateErr; err != nil {
		f.db.collabCreateErr = nil
		return err
	}
	for _, existing := range f.db.collabs {
		if existing.ProjectID == c.ProjectID && existing.CollaboratorID == c.CollaboratorID {
			return apperrors.NewConflictError("User is already a collaborator on this project")
		}
	}
	f.db.collabs = append(f.db.collabs, *c)
	return nil
}

func (f *fakeLedger) FindActive(ctx context.Context, projectID, collaboratorID uuid.UUID) (*models.Collaboration, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, c := range f.db.collabs {
		if c.ProjectID == projectID && c.CollaboratorID == collaboratorID {
			c := c
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeLedger) ListCollaborators(ctx context.Context, projectIDs []uuid.UUID) (map[uuid.UUID][]models.CollaboratorSummary, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	wanted := map[uuid.UUID]bool{}
	for _, id := range projectIDs {
		wanted[id] = true
	}
	out := map[uuid.UUID][]models.CollaboratorSummary{}
	for _, c := range f.db.collabs {
		if !wanted[c.ProjectID] {
			continue
		}
		u := f.db.users[c.CollaboratorID]
		out[c.ProjectID] = append(out[c.ProjectID], models.CollaboratorSummary{
			ID:                  u.ID,
			Name:                u.Name,
			Username:            u.Username,
			ProfilePhoto:        u.ProfilePhoto,
			Role:                c.Role,
			ContributionSummary: c.ContributionSummary,
		})
	}
	return out, nil
}

func (f *fakeLedger) count() int {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	return len(f.db.collabs)
}

type fakeRequests struct{ db *memDB }

func (f *fakeRequests) Create(ctx context.Context, jr *models.JoinRequest) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, other := range f.db.requests {
		if other.ProjectID == jr.ProjectID && other.RequesterID == jr.RequesterID && other.Status == models.JoinRequestPending {
			return apperrors.NewConflictError("You already have a pending request for this project")
		}
	}
	f.db.requests[jr.ID] = *jr
	return nil
}

func (f *fakeRequests) FindByID(ctx context.Context, id uuid.UUID) (*models.JoinRequest, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	jr, ok := f.db.requests[id]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("Join request not found")
	}
	return &jr, nil
}

func (f *fakeRequests) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.JoinRequest, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeRequests) FindPending(ctx context.Context, projectID, requesterID uuid.UUID) (*models.JoinRequest, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, jr := range f.db.requests {
		if jr.ProjectID == projectID && jr.RequesterID == requesterID && jr.Status == models.JoinRequestPending {
			jr := jr
			return &jr, nil
		}
	}
	return nil, nil
}

func (f *fakeRequests) UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.JoinRequestStatus, reviewedBy *uuid.UUID, at time.Time) (bool, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	jr, ok := f.db.requests[id]
	if !ok || jr.Status != from {
		return false, nil
	}
	jr.Status = to
	jr.UpdatedAt = at
	if reviewedBy != nil {
		reviewer := *reviewedBy
		reviewedAt := at
		jr.ReviewedBy = &reviewer
		jr.ReviewedAt = &reviewedAt
	}
	f.db.requests[id] = jr
	return true, nil
}

func (f *fakeRequests) viewLocked(jr models.JoinRequest) models.JoinRequestView {
	p := f.db.projects[jr.ProjectID]
	owner := f.db.users[p.OwnerID]
	requester := f.db.users[jr.RequesterID]
	return models.JoinRequestView{
		JoinRequest: jr,
		Project: models.ProjectRef{
			ID:            p.ID,
			Title:         p.Title,
			Slug:          p.Slug,
			OwnerID:       p.OwnerID,
			OwnerUsername: owner.Username,
		},
		Requester: requester.Public(),
	}
}

func (f *fakeRequests) list(match func(models.JoinRequest) bool) []models.JoinRequestView {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []models.JoinRequestView
	for _, jr := range f.db.requests {
		if match(jr) {
			out = append(out, f.viewLocked(jr))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (f *fakeRequests) ListForOwner(ctx context.Context, ownerID uuid.UUID, status *models.JoinRequestStatus) ([]models.JoinRequestView, error) {
	return f.list(func(jr models.JoinRequest) bool {
		return f.db.projects[jr.ProjectID].OwnerID == ownerID && (status == nil || jr.Status == *status)
	}), nil
}

func (f *fakeRequests) ListForRequester(ctx context.Context, requesterID uuid.UUID) ([]models.JoinRequestView, error) {
	return f.list(func(jr models.JoinRequest) bool { return jr.RequesterID == requesterID }), nil
}

func (f *fakeRequests) ListApprovedWithoutCollaboration(ctx context.Context, limit int) ([]models.JoinRequestView, error) {
	out := f.list(func(jr models.JoinRequest) bool {
		if jr.Status != models.JoinRequestApproved {
			return false
		}
		for _, c := range f.db.collabs {
			if c.ProjectID == jr.ProjectID && c.CollaboratorID == jr.RequesterID {
				return false
			}
		}
		return true
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// put stores a request directly, bypassing the workflow
func (f *fakeRequests) put(jr models.JoinRequest) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	f.db.requests[jr.ID] = jr
}

type fakeReactions struct{ db *memDB }

func (f *fakeReactions) AddLike(ctx context.Context, projectID, userID uuid.UUID) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	f.db.likes[[2]uuid.UUID{projectID, userID}] = true
	return nil
}

func (f *fakeReactions) RemoveLike(ctx context.Context, projectID, userID uuid.UUID) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	delete(f.db.likes, [2]uuid.UUID{projectID, userID})
	return nil
}

func (f *fakeReactions) CountLikes(ctx context.Context, projectID uuid.UUID) (int64, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var n int64
	for k := range f.db.likes {
		if k[0] == projectID {
			n++
		}
	}
	return n, nil
}

func (f *fakeReactions) AddBookmark(ctx context.Context, userID, projectID uuid.UUID) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	f.db.bookmarks[[2]uuid.UUID{userID, projectID}] = true
	return nil
}

func (f *fakeReactions) RemoveBookmark(ctx context.Context, userID, projectID uuid.UUID) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	delete(f.db.bookmarks, [2]uuid.UUID{userID, projectID})
	return nil
}

// fakeFeed evaluates a FeedQuery the way the SQL builder does
type fakeFeed struct {
	db    *memDB
	calls []models.FeedQuery
}

func intersects(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

func (f *fakeFeed) ListProjects(ctx context.Context, q models.FeedQuery) ([]models.ProjectView, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	f.calls = append(f.calls, q)

	var views []models.ProjectView
	for _, p := range f.db.projects {
		if q.BeforeCreatedAt != nil {
			if q.BeforeID != nil {
				if !(p.CreatedAt.Before(*q.BeforeCreatedAt) ||
					(p.CreatedAt.Equal(*q.BeforeCreatedAt) && bytes.Compare(p.ID[:], q.BeforeID[:]) < 0)) {
					continue
				}
			} else if !p.CreatedAt.Before(*q.BeforeCreatedAt) {
				continue
			}
		}
		if len(q.TechStack) > 0 && !intersects(p.TechStack, q.TechStack) {
			continue
		}
		if len(q.Domains) > 0 && !intersects([]string{p.Domain}, q.Domains) {
			continue
		}
		if q.Search != "" {
			s := strings.ToLower(q.Search)
			if !strings.Contains(strings.ToLower(p.Title), s) && !strings.Contains(strings.ToLower(p.Description), s) {
				continue
			}
		}
		if q.ProjectID != nil && p.ID != *q.ProjectID {
			continue
		}
		if q.OwnerID != nil && p.OwnerID != *q.OwnerID {
			continue
		}
		if q.CollaboratorID != nil {
			found := false
			for _, c := range f.db.collabs {
				if c.ProjectID == p.ID && c.CollaboratorID == *q.CollaboratorID {
					found = true
				}
			}
			if !found {
				continue
			}
		}
		if q.BookmarkedBy != nil && !f.db.bookmarks[[2]uuid.UUID{*q.BookmarkedBy, p.ID}] {
			continue
		}

		owner := f.db.users[p.OwnerID]
		view := models.ProjectView{Project: p, Owner: owner.Public()}
		for k := range f.db.likes {
			if k[0] == p.ID {
				view.LikeCount++
			}
		}
		for _, c := range f.db.comments {
			if c.ProjectID == p.ID {
				view.CommentCount++
			}
		}
		if q.ViewerID != nil {
			view.LikedByUser = f.db.likes[[2]uuid.UUID{p.ID, *q.ViewerID}]
			view.BookmarkedByUser = f.db.bookmarks[[2]uuid.UUID{*q.ViewerID, p.ID}]
		}
		views = append(views, view)
	}

	sort.Slice(views, func(i, j int) bool {
		if !views[i].CreatedAt.Equal(views[j].CreatedAt) {
			return views[i].CreatedAt.After(views[j].CreatedAt)
		}
		return bytes.Compare(views[i].ID[:], views[j].ID[:]) > 0
	})
	if q.Limit > 0 && len(views) > q.Limit {
		views = views[:q.Limit]
	}
	return views, nil
}

type fakeComments struct{ db *memDB }

func (f *fakeComments) Create(ctx context.Context, c *models.Comment) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	f.db.comments = append(f.db.comments, *c)
	return nil
}

func (f *fakeComments) ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.Comment, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []models.Comment
	for i := len(f.db.comments) - 1; i >= 0; i-- {
		if f.db.comments[i].ProjectID == projectID {
			out = append(out, f.db.comments[i])
		}
	}
	return out, nil
}

type fakeNotifications struct {
	db        *memDB
	createErr error
}

func (f *fakeNotifications) Create(ctx context.Context, n *models.Notification) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	f.db.notifications = append(f.db.notifications, *n)
	return nil
}

func (f *fakeNotifications) ListByRecipient(ctx context.Context, recipientID uuid.UUID, unreadOnly bool) ([]models.Notification, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []models.Notification
	for i := len(f.db.notifications) - 1; i >= 0; i-- {
		n := f.db.notifications[i]
		if n.RecipientID == recipientID && (!unreadOnly || !n.Read) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNotifications) FindByID(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, n := range f.db.notifications {
		if n.ID == id {
			n := n
			return &n, nil
		}
	}
	return nil, apperrors.NewResourceNotFoundError("Notification not found")
}

func (f *fakeNotifications) MarkRead(ctx context.Context, id uuid.UUID) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for i := range f.db.notifications {
		if f.db.notifications[i].ID == id {
			f.db.notifications[i].Read = true
			return nil
		}
	}
	return apperrors.NewResourceNotFoundError("Notification not found")
}

// recordingNotifier captures notifications instead of delivering them
type recordingNotifier struct {
	mu   sync.Mutex
	sent []models.Notification
}

func (r *recordingNotifier) Notify(ctx context.Context, n *models.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, *n)
}

func (r *recordingNotifier) ofType(t models.NotificationType) []models.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Notification
	for _, n := range r.sent {
		if n.Type == t {
			out = append(out, n)
		}
	}
	return out
}

// fixture wires every service against one memDB
type fixture struct {
	db            *memDB
	tx            *fakeTx
	users         *fakeUsers
	projectStore  *fakeProjects
	ledger        *fakeLedger
	requestStore  *fakeRequests
	reactionStore *fakeReactions
	feedStore     *fakeFeed
	notifier      *recordingNotifier

	projects  ProjectService
	requests  JoinRequestService
	feed      FeedService
	reactions ReactionService
	comments  CommentService
	reconcile ReconciliationService
}

func newFixture() *fixture {
	db := newMemDB()
	f := &fixture{
		db:            db,
		tx:            &fakeTx{db: db},
		users:         &fakeUsers{db: db},
		projectStore:  &fakeProjects{db: db},
		ledger:        &fakeLedger{db: db},
		requestStore:  &fakeRequests{db: db},
		reactionStore: &fakeReactions{db: db},
		feedStore:     &fakeFeed{db: db},
		notifier:      &recordingNotifier{},
	}
	log := zerolog.Nop()
	authz := auth.NewAuthorizationService()

	f.projects = NewProjectService(f.tx, f.users, f.projectStore, f.ledger, f.feedStore, authz, log)
	f.requests = NewJoinRequestService(f.tx, f.projects, f.projectStore, f.requestStore, f.ledger, f.users, f.notifier, authz, log)
	f.feed = NewFeedService(f.feedStore, f.ledger, FeedConfig{DefaultPageSize: 10, MaxPageSize: 100}, log)
	f.reactions = NewReactionService(f.projectStore, f.reactionStore, log)
	f.comments = NewCommentService(f.projectStore, &fakeComments{db: db}, f.users, log)
	f.reconcile = NewReconciliationService(f.tx, f.requestStore, f.ledger, ReconcileConfig{Workers: 2, BatchSize: 50}, log)
	return f
}

func (f *fixture) addUser(username string) *models.User {
	u := models.User{
		ID:           uuid.New(),
		Username:     username,
		Name:         strings.ToUpper(username[:1]) + username[1:],
		Email:        username + "@example.com",
		AuthProvider: models.AuthProviderLocal,
		CreatedAt:    time.Now().UTC(),
	}
	f.db.mu.Lock()
	f.db.users[u.ID] = u
	f.db.mu.Unlock()
	return &u
}

func (f *fixture) addProject(owner *models.User, title string, looking bool, createdAt time.Time, tech ...string) *models.Project {
	p := models.Project{
		ID:                     uuid.New(),
		OwnerID:                owner.ID,
		Title:                  title,
		Slug:                   strings.ReplaceAll(strings.ToLower(title), " ", "-"),
		TechStack:              tech,
		Status:                 models.ProjectStatusOngoing,
		LookingForContributors: looking,
		CreatedAt:              createdAt,
		UpdatedAt:              createdAt,
	}
	f.db.mu.Lock()
	f.db.projects[p.ID] = p
	f.db.mu.Unlock()
	return &p
}
