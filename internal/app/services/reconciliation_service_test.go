package services

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/collabhub/internal/app/models"
)

func TestReconcileRepairsApprovedRequestsWithoutCollaboration(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	alice := f.addUser("alice")
	p := f.addProject(alice, "Repaired", true, time.Now().UTC())

	reviewed := time.Now().UTC().Add(-time.Hour)
	var orphans []uuid.UUID
	for _, name := range []string{"bob", "carol", "dave"} {
		u := f.addUser(name)
		jr := models.JoinRequest{
			ID:            uuid.New(),
			ProjectID:     p.ID,
			RequesterID:   u.ID,
			RoleRequested: "Tester",
			Status:        models.JoinRequestApproved,
			ReviewedBy:    &alice.ID,
			ReviewedAt:    &reviewed,
			CreatedAt:     reviewed,
		}
		f.requestStore.put(jr)
		orphans = append(orphans, u.ID)
	}
	// A rejected request is never repaired.
	eve := f.addUser("eve")
	f.requestStore.put(models.JoinRequest{ID: uuid.New(), ProjectID: p.ID, RequesterID: eve.ID, Status: models.JoinRequestRejected})

	report, err := f.reconcile.Reconcile(ctx)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if report.Examined != 3 || report.Repaired != 3 || report.Failed != 0 {
		t.Fatalf("report = %+v", report)
	}
	for _, id := range orphans {
		c, _ := f.ledger.FindActive(ctx, p.ID, id)
		if c == nil {
			t.Fatalf("collaboration for %s not repaired", id)
		}
		if c.Role != "Tester" || c.OwnerID != alice.ID || c.RequestID == nil || !c.StartedAt.Equal(reviewed) {
			t.Errorf("repaired collaboration = %+v", c)
		}
	}
	if c, _ := f.ledger.FindActive(ctx, p.ID, eve.ID); c != nil {
		t.Error("rejected request produced a collaboration")
	}

	again, err := f.reconcile.Reconcile(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if again.Examined != 0 || again.Repaired != 0 {
		t.Fatalf("second sweep = %+v, want no work", again)
	}
	if f.ledger.count() != 3 {
		t.Errorf("collaborations = %d, want 3", f.ledger.count())
	}
}

func TestReconcileCountsFailures(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	alice := f.addUser("alice")
	bob := f.addUser("bob")
	p := f.addProject(alice, "Flaky", true, time.Now().UTC())
	f.requestStore.put(models.JoinRequest{ID: uuid.New(), ProjectID: p.ID, RequesterID: bob.ID, Status: models.JoinRequestApproved})

	f.db.mu.Lock()
	f.db.collabCreateErr = context.DeadlineExceeded
	f.db.mu.Unlock()

	report, err := f.reconcile.Reconcile(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if report.Failed != 1 || report.Repaired != 0 {
		t.Fatalf("report = %+v", report)
	}

	report, err = f.reconcile.Reconcile(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if report.Repaired != 1 {
		t.Fatalf("retry report = %+v", report)
	}
}

func TestReconcileLeavesSummaryToCaller(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	alice := f.addUser("alice")
	bob := f.addUser("bob")
	p := f.addProject(alice, "Quiet", true, time.Now().UTC())
	f.requestStore.put(models.JoinRequest{ID: uuid.New(), ProjectID: p.ID, RequesterID: bob.ID, Status: models.JoinRequestApproved})

	var buf bytes.Buffer
	svc := NewReconciliationService(f.tx, f.requestStore, f.ledger, ReconcileConfig{Workers: 2, BatchSize: 50},
		zerolog.New(zerolog.SyncWriter(&buf)))

	report, err := svc.Reconcile(ctx)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if report.Repaired != 1 {
		t.Fatalf("report = %+v", report)
	}
	if strings.Contains(buf.String(), "sweep finished") {
		t.Errorf("service logged its own summary:\n%s", buf.String())
	}
}
