package session

import (
	"errors"
	"testing"
	"time"

	"panaudit/internal/scan"
)

func records(ids ...string) []scan.Record {
	out := make([]scan.Record, 0, len(ids))
	for _, id := range ids {
		out = append(out, scan.NewRecord(map[string]any{"scanId": id}))
	}
	return out
}

func TestInitializeCreatesBlankActions(t *testing.T) {
	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	s := Initialize("rest-1", "2026-08-29", records("a", "b", "c"), now)

	if s.ID == "" {
		t.Fatal("expected a generated session id")
	}
	if s.AuditStartTime != "2026-08-29" {
		t.Fatalf("AuditStartTime = %q", s.AuditStartTime)
	}
	if s.State != StateActive {
		t.Fatalf("State = %q, want active with scans present", s.State)
	}
	if len(s.Actions) != 3 {
		t.Fatalf("len(Actions) = %d", len(s.Actions))
	}
	for _, action := range s.Actions {
		if action.Changed() {
			t.Fatalf("fresh action for %s should be untouched", action.ScanID)
		}
	}
}

func TestInitializeEmptyScans(t *testing.T) {
	s := Initialize("rest-1", "2026-08-29", nil, time.Now())
	if s.State != StateEmpty {
		t.Fatalf("State = %q, want empty", s.State)
	}
}

func TestMergeScansPreservesEditsAcrossRefetch(t *testing.T) {
	now := time.Now()
	s := Initialize("rest-1", "2026-08-29", records("a", "b"), now)
	if !s.SetPan("a", "pan-42") {
		t.Fatal("SetPan failed for known scan")
	}
	if !s.ToggleDelete("b") {
		t.Fatal("ToggleDelete failed for known scan")
	}

	// Narrower refetch (filter changed) must not drop existing actions.
	merged := s.MergeScans("rest-1", "2026-08-29", records("b", "c"), now)
	if merged != s {
		t.Fatal("same-scope merge should return the same session")
	}
	if got := len(s.Actions); got != 3 {
		t.Fatalf("len(Actions) = %d, want 3", got)
	}
	if a := s.Find("a"); a == nil || a.PanID != "pan-42" {
		t.Fatalf("edit on scan a lost: %+v", a)
	}
	if b := s.Find("b"); b == nil || !b.Delete {
		t.Fatalf("delete mark on scan b lost: %+v", b)
	}
	if c := s.Find("c"); c == nil || c.Changed() {
		t.Fatalf("scan c should have a blank action: %+v", c)
	}
}

func TestMergeScansScopeChangeReinitializes(t *testing.T) {
	now := time.Now()
	s := Initialize("rest-1", "2026-08-29", records("a"), now)
	s.SetPan("a", "pan-1")

	fresh := s.MergeScans("rest-2", "2026-08-29", records("x"), now)
	if fresh == s {
		t.Fatal("scope change must produce a new session")
	}
	if fresh.RestaurantID != "rest-2" {
		t.Fatalf("RestaurantID = %q", fresh.RestaurantID)
	}
	if a := fresh.Find("a"); a != nil {
		t.Fatal("old scope's actions must not survive")
	}
}

func TestMergeScansOnNilSession(t *testing.T) {
	var s *Session
	fresh := s.MergeScans("rest-1", "2026-08-29", records("a"), time.Now())
	if fresh == nil || len(fresh.Actions) != 1 {
		t.Fatalf("nil merge should initialize, got %+v", fresh)
	}
}

func TestEditsOnUnknownScanAreNoOps(t *testing.T) {
	s := Initialize("rest-1", "2026-08-29", records("a"), time.Now())
	if s.ToggleDelete("ghost") {
		t.Fatal("ToggleDelete on unknown scan should report false")
	}
	if s.SetPan("ghost", "pan-1") {
		t.Fatal("SetPan on unknown scan should report false")
	}
	if s.SetMenuItem("ghost", "m-1", "Soup") {
		t.Fatal("SetMenuItem on unknown scan should report false")
	}
	if len(s.ChangedActions()) != 0 {
		t.Fatal("no-op edits must not create changes")
	}
}

func TestChangedActionsFiltersUntouched(t *testing.T) {
	s := Initialize("rest-1", "2026-08-29", records("a", "b", "c", "d"), time.Now())
	s.ToggleDelete("a")
	s.SetMenuItem("c", "", "Chef Special")

	changed := s.ChangedActions()
	if len(changed) != 2 {
		t.Fatalf("len(changed) = %d, want 2", len(changed))
	}
	if changed[0].ScanID != "a" || changed[1].ScanID != "c" {
		t.Fatalf("changed order = %s, %s", changed[0].ScanID, changed[1].ScanID)
	}
}

func TestToggleDeleteRoundTrips(t *testing.T) {
	s := Initialize("rest-1", "2026-08-29", records("a"), time.Now())
	s.ToggleDelete("a")
	s.ToggleDelete("a")
	if s.Find("a").Delete {
		t.Fatal("double toggle should clear the delete mark")
	}
}

func TestSubmitLifecycle(t *testing.T) {
	s := Initialize("rest-1", "2026-08-29", records("a"), time.Now())
	s.SetPan("a", "pan-1")

	if err := s.BeginSubmit(); err != nil {
		t.Fatalf("BeginSubmit: %v", err)
	}
	if err := s.BeginSubmit(); !errors.Is(err, ErrSubmitInFlight) {
		t.Fatalf("second BeginSubmit = %v, want ErrSubmitInFlight", err)
	}

	// Failure keeps every edit and allows retry.
	s.FailSubmit()
	if s.State != StateActive {
		t.Fatalf("State after failure = %q", s.State)
	}
	if a := s.Find("a"); a == nil || a.PanID != "pan-1" {
		t.Fatal("failed submit must keep local edits")
	}
	if err := s.BeginSubmit(); err != nil {
		t.Fatalf("retry BeginSubmit: %v", err)
	}

	s.CompleteSubmit()
	if s.State != StateEmpty || len(s.Actions) != 0 {
		t.Fatalf("CompleteSubmit left state=%q actions=%d", s.State, len(s.Actions))
	}
}

func TestFinalizeStampsEndDate(t *testing.T) {
	s := Initialize("rest-1", "2026-08-29", records("a"), time.Now())
	s.Finalize(time.Date(2026, 8, 30, 1, 2, 3, 0, time.UTC))
	if s.AuditEndTime != "2026-08-30" {
		t.Fatalf("AuditEndTime = %q", s.AuditEndTime)
	}
}
