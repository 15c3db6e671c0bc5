package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"panaudit/internal/scan"
	"panaudit/internal/session"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := New(server.URL, "test-token", 5*time.Second)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client, server
}

func TestScansToAuditMarksFlagged(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/scans_to_audit" {
			t.Fatalf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("includeBad"); got != "true" {
			t.Fatalf("includeBad = %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Fatalf("Authorization = %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"scans":       []map[string]any{{"scanId": "s1", "panId": "7"}},
			"flagged":     []map[string]any{{"scanId": "s2", "weight": 3.5}},
			"propagating": true,
			"aiRunning":   true,
		})
	}))

	feed, err := client.ScansToAudit(context.Background(), "12", "2026-08-29", true)
	if err != nil {
		t.Fatalf("ScansToAudit: %v", err)
	}
	if len(feed.Scans) != 1 || feed.Scans[0].ScanID() != "s1" {
		t.Fatalf("scans = %+v", feed.Scans)
	}
	if len(feed.Flagged) != 1 || !feed.Flagged[0].Flagged() {
		t.Fatal("flagged record must carry the flag marker")
	}
	if !feed.Propagating || !feed.AIRunning {
		t.Fatalf("feed state = %+v", feed)
	}
	if scan.NeedsManualReview(feed.Flagged[0]) != true {
		t.Fatal("flagged record must classify as manual")
	}
}

func TestRegisteredPansBuilding(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"pans": []any{}, "building": true})
	}))

	pans, building, err := client.RegisteredPans(context.Background(), "12", "2026-08-29")
	if err != nil {
		t.Fatalf("RegisteredPans: %v", err)
	}
	if !building {
		t.Fatal("expected building flag")
	}
	if len(pans) != 0 {
		t.Fatalf("pans = %+v", pans)
	}
}

func TestRegisteredPansWithRetryCeiling(t *testing.T) {
	var calls int
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_ = json.NewEncoder(w).Encode(map[string]any{"pans": []any{}, "building": true})
	}))

	_, err := client.RegisteredPansWithRetry(context.Background(), "12", "2026-08-29", 3, time.Millisecond)
	if !errors.Is(err, ErrCatalogBuilding) {
		t.Fatalf("err = %v, want ErrCatalogBuilding", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestRegisteredPansWithRetrySucceedsMidway(t *testing.T) {
	var calls int
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 2 {
			_ = json.NewEncoder(w).Encode(map[string]any{"pans": []any{}, "building": true})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"pans": []map[string]any{{"ID": 1, "dbShape": 1, "dbSizeStandard": "Full"}},
		})
	}))

	pans, err := client.RegisteredPansWithRetry(context.Background(), "12", "2026-08-29", 5, time.Millisecond)
	if err != nil {
		t.Fatalf("RegisteredPansWithRetry: %v", err)
	}
	if len(pans) != 1 || pans[0].ID.String() != "1" {
		t.Fatalf("pans = %+v", pans)
	}
}

func TestSearchMenuItems(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "bean" {
			t.Fatalf("q = %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{{"id": "m1", "name": "Green Beans", "count": 4}},
		})
	}))

	items, err := client.SearchMenuItems(context.Background(), "12", "2026-08-29", "bean", 10)
	if err != nil {
		t.Fatalf("SearchMenuItems: %v", err)
	}
	if len(items) != 1 || items[0].Name != "Green Beans" {
		t.Fatalf("items = %+v", items)
	}
}

func TestPresignImage(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("key"); got != "scans/s1.jpg" {
			t.Fatalf("key = %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"url": "https://cdn.example/s1"})
	}))

	url, err := client.PresignImage(context.Background(), "scans/s1.jpg")
	if err != nil {
		t.Fatalf("PresignImage: %v", err)
	}
	if url != "https://cdn.example/s1" {
		t.Fatalf("url = %q", url)
	}

	if _, err := client.PresignImage(context.Background(), "  "); err == nil {
		t.Fatal("empty key should error")
	}
}

func TestSubmitAuditSendsChangedActionsOnly(t *testing.T) {
	var received submitPayload
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/submitAudit" {
			t.Fatalf("%s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true, "applied_actions": 1,
		})
	}))

	ses := session.Initialize("12", "2026-08-29",
		[]scan.Record{
			scan.NewRecord(map[string]any{"scanId": "s1"}),
			scan.NewRecord(map[string]any{"scanId": "s2"}),
		}, time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC))
	ses.SetPan("s2", "pan-9")

	result, err := client.SubmitAudit(context.Background(), ses)
	if err != nil {
		t.Fatalf("SubmitAudit: %v", err)
	}
	if !result.Success || result.AppliedActions != 1 {
		t.Fatalf("result = %+v", result)
	}
	if received.RestaurantID != "12" || received.Date != "2026-08-29" {
		t.Fatalf("scope = %s/%s", received.RestaurantID, received.Date)
	}
	if len(received.Actions) != 1 || received.Actions[0].ScanID != "s2" {
		t.Fatalf("actions = %+v", received.Actions)
	}
}

func TestSubmitAuditRejection(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "failed_actions": 2})
	}))

	ses := session.Initialize("12", "2026-08-29", nil, time.Now())
	if _, err := client.SubmitAudit(context.Background(), ses); err == nil {
		t.Fatal("rejected submission should error")
	}
}

func TestWaitForPipeline(t *testing.T) {
	var calls int
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		running := calls < 3
		_ = json.NewEncoder(w).Encode(map[string]any{
			"running": running, "completedAt": "2026-08-29T12:00:00Z",
		})
	}))

	state, err := client.WaitForPipeline(context.Background(), "2026-08-29", time.Millisecond)
	if err != nil {
		t.Fatalf("WaitForPipeline: %v", err)
	}
	if state.Running {
		t.Fatal("final state should not be running")
	}
	if calls != 3 {
		t.Fatalf("calls = %d", calls)
	}
}

func TestWaitForPipelineFetchErrorEndsWait(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	if _, err := client.WaitForPipeline(context.Background(), "2026-08-29", time.Millisecond); err == nil {
		t.Fatal("fetch error should end the wait")
	}
}

func TestStatusErrorIncludesPath(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))

	_, err := client.Restaurants(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
}
