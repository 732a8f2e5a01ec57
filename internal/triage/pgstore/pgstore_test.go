package pgstore_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"

	"github.com/linnemanlabs/casetriage/internal/triage"
	"github.com/linnemanlabs/casetriage/internal/triage/pgstore"
)

func openStore(t *testing.T) *pgstore.Store {
	t.Helper()
	dsn := os.Getenv("CASETRIAGE_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("CASETRIAGE_TEST_DATABASE_URL not set, skipping integration test")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("pgxpool.New: %v", err)
	}
	t.Cleanup(pool.Close)
	s, err := pgstore.New(ctx, pool)
	if err != nil {
		t.Fatalf("pgstore.New: %v", err)
	}
	return s
}

func newCase() *triage.Case {
	now := time.Now().Truncate(time.Microsecond).UTC()
	c := &triage.Case{
		ID: ulid.Make().String(),
		Intake: triage.Intake{
			ComplaintText: "upi fraud through a fake collect request",
			Amount:        25_000,
			HoursSince:    3,
			Channel:       "portal",
			CategoryID:    "UPI_FRAUD",
			CategoryName:  "UPI Payment Fraud",
			ReceivedAt:    now,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	c.SetStatus(triage.StatusIntakeComplete, triage.SourcePipeline, now)
	return c
}

func TestCreateAndGet(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	c := newCase()
	if err := s.Create(ctx, c); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, ok, err := s.Get(ctx, c.ID)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if got.Status != triage.StatusIntakeComplete {
		t.Errorf("status = %q, want INTAKE_COMPLETE", got.Status)
	}
	if got.Intake.ComplaintText != c.Intake.ComplaintText {
		t.Errorf("complaint text = %q, want %q", got.Intake.ComplaintText, c.Intake.ComplaintText)
	}
	if len(got.Transitions) != 1 {
		t.Errorf("transitions = %d, want 1", len(got.Transitions))
	}
	if !got.CreatedAt.Equal(c.CreatedAt) {
		t.Errorf("created_at = %v, want %v", got.CreatedAt, c.CreatedAt)
	}
}

func TestCreate_DuplicateID(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	c := newCase()
	if err := s.Create(ctx, c); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	if err := s.Create(ctx, c); err == nil {
		t.Error("second Create with same id succeeded, want error")
	}
}

func TestGet_NotFound(t *testing.T) {
	s := openStore(t)

	_, ok, err := s.Get(context.Background(), ulid.Make().String())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Error("Get on unknown id = ok, want not found")
	}
}

func TestUpdate_RoundTripsPayloads(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	c := newCase()
	if err := s.Create(ctx, c); err != nil {
		t.Fatalf("Create: %v", err)
	}

	now := time.Now().Truncate(time.Microsecond).UTC()
	updated, ok, err := s.Update(ctx, c.ID, func(c *triage.Case) error {
		c.Triage = &triage.TriageResult{
			CategoryID:   "UPI_FRAUD",
			UrgencyScore: 55,
			SeverityBand: "MEDIUM",
			SLAHours:     24,
			GoldenHour:   true,
			TriagedAt:    now,
		}
		c.SetStatus(triage.StatusTriageComplete, triage.SourcePipeline, now)
		c.AppendNote("triaged in integration test", now)
		c.UpdatedAt = now
		return nil
	})
	if err != nil || !ok {
		t.Fatalf("Update: ok=%v err=%v", ok, err)
	}
	if updated.Triage == nil || updated.Triage.UrgencyScore != 55 {
		t.Fatalf("Update returned %+v, want triage payload", updated.Triage)
	}

	got, _, err := s.Get(ctx, c.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != triage.StatusTriageComplete {
		t.Errorf("status = %q, want TRIAGE_COMPLETE", got.Status)
	}
	if got.Triage == nil || got.Triage.SeverityBand != "MEDIUM" || !got.Triage.GoldenHour {
		t.Errorf("triage payload did not round-trip: %+v", got.Triage)
	}
	if len(got.Notes) != 1 || len(got.Transitions) != 2 {
		t.Errorf("notes=%d transitions=%d, want 1 and 2", len(got.Notes), len(got.Transitions))
	}
}

func TestUpdate_ErrorRollsBack(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	c := newCase()
	if err := s.Create(ctx, c); err != nil {
		t.Fatalf("Create: %v", err)
	}

	sentinel := errors.New("abort")
	_, ok, err := s.Update(ctx, c.ID, func(c *triage.Case) error {
		c.Status = triage.StatusRouted
		return sentinel
	})
	if !ok {
		t.Fatal("Update: ok=false, want found")
	}
	if !errors.Is(err, sentinel) {
		t.Fatalf("Update err = %v, want the fn's error unwrapped", err)
	}

	got, _, _ := s.Get(ctx, c.ID)
	if got.Status != triage.StatusIntakeComplete {
		t.Errorf("status after rolled-back update = %q, want unchanged", got.Status)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	s := openStore(t)

	_, ok, err := s.Update(context.Background(), ulid.Make().String(), func(c *triage.Case) error { return nil })
	if ok {
		t.Error("Update on unknown id = ok, want not found")
	}
	if err != nil {
		t.Errorf("Update on unknown id err = %v, want nil", err)
	}
}

func TestList_FilterAndLimit(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	// Two fresh cases, one advanced to ROUTED.
	a, b := newCase(), newCase()
	b.CreatedAt = b.CreatedAt.Add(time.Second)
	if err := s.Create(ctx, a); err != nil {
		t.Fatalf("Create a: %v", err)
	}
	if err := s.Create(ctx, b); err != nil {
		t.Fatalf("Create b: %v", err)
	}
	_, _, err := s.Update(ctx, b.ID, func(c *triage.Case) error {
		c.SetStatus(triage.StatusRouted, triage.SourceOverride, time.Now().UTC())
		return nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	routed, err := s.List(ctx, triage.StatusRouted, 0)
	if err != nil {
		t.Fatalf("List routed: %v", err)
	}
	foundB := false
	for _, c := range routed {
		if c.Status != triage.StatusRouted {
			t.Errorf("filtered list contains status %q", c.Status)
		}
		if c.ID == b.ID {
			foundB = true
		}
	}
	if !foundB {
		t.Error("routed case missing from filtered list")
	}

	limited, err := s.List(ctx, "", 1)
	if err != nil {
		t.Fatalf("List limited: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("limited list = %d cases, want 1", len(limited))
	}
}
