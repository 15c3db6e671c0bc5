package session

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"panaudit/internal/scan"
)

// ErrSubmitInFlight rejects a submission while one is already outstanding.
var ErrSubmitInFlight = errors.New("submission already in flight")

// State is the ledger lifecycle phase.
type State string

const (
	// StateEmpty means the ledger holds no actions.
	StateEmpty State = "empty"
	// StateActive means actions exist and edits are accepted.
	StateActive State = "active"
	// StateSubmitting means a submission is in flight. Edits are still
	// accepted into local state; a second submission is rejected.
	StateSubmitting State = "submitting"
)

// dateLayout is the calendar-date form used for audit timestamps, rendered
// in the business timezone by the caller.
const dateLayout = "2006-01-02"

// Action records the auditor's decision for one scan. Exactly one action
// exists per scan id for the lifetime of a session.
type Action struct {
	ScanID       string `json:"scanId"`
	Delete       bool   `json:"delete"`
	PanID        string `json:"panId,omitempty"`
	MenuItemID   string `json:"menuItemId,omitempty"`
	MenuItemName string `json:"menuItemName,omitempty"`
}

// Changed reports whether the auditor touched any field of the action.
func (a Action) Changed() bool {
	return a.Delete || a.PanID != "" || a.MenuItemID != "" || a.MenuItemName != ""
}

// Session is the submittable audit unit for one restaurant/date scope.
type Session struct {
	ID             string   `json:"sessionId"`
	RestaurantID   string   `json:"restaurantId"`
	Date           string   `json:"date"`
	AuditStartTime string   `json:"auditStartTime"`
	AuditEndTime   string   `json:"auditEndTime,omitempty"`
	State          State    `json:"-"`
	Actions        []Action `json:"actions"`
}

// Initialize builds a fresh session with one blank action per scan. Called on
// first load for a scope and again after a successful submission.
func Initialize(restaurantID, date string, scans []scan.Record, now time.Time) *Session {
	s := &Session{
		ID:             uuid.NewString(),
		RestaurantID:   restaurantID,
		Date:           date,
		AuditStartTime: now.Format(dateLayout),
		State:          StateEmpty,
	}
	s.appendBlank(scans)
	return s
}

// MergeScans folds a fresh fetch into the session. A scope mismatch discards
// the ledger and reinitializes; otherwise scans not yet present get a blank
// action appended. Existing actions are never removed or overwritten — this
// is what keeps unsaved edits alive when view filters change the fetched
// subset.
func (s *Session) MergeScans(restaurantID, date string, fresh []scan.Record, now time.Time) *Session {
	if s == nil || s.RestaurantID != restaurantID || s.Date != date {
		return Initialize(restaurantID, date, fresh, now)
	}
	s.appendBlank(fresh)
	return s
}

func (s *Session) appendBlank(scans []scan.Record) {
	known := make(map[string]struct{}, len(s.Actions))
	for _, action := range s.Actions {
		known[action.ScanID] = struct{}{}
	}
	for _, record := range scans {
		id := record.ScanID()
		if id == "" {
			continue
		}
		if _, ok := known[id]; ok {
			continue
		}
		known[id] = struct{}{}
		s.Actions = append(s.Actions, Action{ScanID: id})
	}
	if len(s.Actions) > 0 && s.State == StateEmpty {
		s.State = StateActive
	}
}

func (s *Session) action(scanID string) *Action {
	for i := range s.Actions {
		if s.Actions[i].ScanID == scanID {
			return &s.Actions[i]
		}
	}
	return nil
}

// Find returns the action for a scan id, nil when absent.
func (s *Session) Find(scanID string) *Action {
	if s == nil {
		return nil
	}
	return s.action(scanID)
}

// ToggleDelete flips the delete flag on the matching action. Unknown scan
// ids are a no-op; MergeScans invariants make them unreachable, but a stale
// id must not panic.
func (s *Session) ToggleDelete(scanID string) bool {
	action := s.action(scanID)
	if action == nil {
		return false
	}
	action.Delete = !action.Delete
	return true
}

// SetPan assigns a catalog pan to the scan's action.
func (s *Session) SetPan(scanID, panID string) bool {
	action := s.action(scanID)
	if action == nil {
		return false
	}
	action.PanID = panID
	return true
}

// SetMenuItem assigns a menu item to the scan's action. Name is the
// free-text fallback kept alongside the id for items with no catalog match.
func (s *Session) SetMenuItem(scanID, menuItemID, menuItemName string) bool {
	action := s.action(scanID)
	if action == nil {
		return false
	}
	action.MenuItemID = menuItemID
	action.MenuItemName = menuItemName
	return true
}

// Finalize stamps the audit end time. Validation is a backend concern.
func (s *Session) Finalize(end time.Time) {
	s.AuditEndTime = end.Format(dateLayout)
}

// ChangedActions returns the actions the auditor actually touched, in ledger
// order. Untouched actions exist in the ledger but are never presented as
// changes.
func (s *Session) ChangedActions() []Action {
	if s == nil {
		return nil
	}
	changed := make([]Action, 0, len(s.Actions))
	for _, action := range s.Actions {
		if action.Changed() {
			changed = append(changed, action)
		}
	}
	return changed
}

// BeginSubmit moves the session into the submitting state. A second submit
// while one is outstanding is rejected, never queued.
func (s *Session) BeginSubmit() error {
	if s.State == StateSubmitting {
		return ErrSubmitInFlight
	}
	s.State = StateSubmitting
	return nil
}

// CompleteSubmit resets the session after backend acknowledgment. The caller
// reinitializes against a fresh fetch when it wants to keep auditing.
func (s *Session) CompleteSubmit() {
	s.Actions = nil
	s.AuditEndTime = ""
	s.State = StateEmpty
}

// FailSubmit returns the session to active with every local edit intact, so
// the auditor can retry without re-entering decisions.
func (s *Session) FailSubmit() {
	s.AuditEndTime = ""
	if len(s.Actions) > 0 {
		s.State = StateActive
	} else {
		s.State = StateEmpty
	}
}
