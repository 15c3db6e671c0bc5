package view

import (
	"panaudit/internal/scan"
	"panaudit/internal/session"
)

// Mode selects which scans the auditor is working through.
type Mode string

const (
	// ModeAll shows every fetched scan.
	ModeAll Mode = "all"
	// ModeManual shows scans still needing human review.
	ModeManual Mode = "manual"
	// ModeAutomated shows scans the detectors fully resolved.
	ModeAutomated Mode = "automated"
)

// ParseMode maps a user-supplied mode string onto a Mode, defaulting to all.
func ParseMode(value string) (Mode, bool) {
	switch Mode(value) {
	case ModeAll, ModeManual, ModeAutomated:
		return Mode(value), true
	case "":
		return ModeAll, true
	default:
		return ModeAll, false
	}
}

// Scope names the server-side fetch filter the scan list was loaded under.
type Scope string

const (
	// ScopeDefault is a normal fetch with no special server filter.
	ScopeDefault Scope = ""
	// ScopeAll asked the server for every scan including bad ones.
	ScopeAll Scope = "all"
	// ScopeInvalidOnly asked the server for only invalid scans.
	ScopeInvalidOnly Scope = "invalidOnly"
)

// VisibleIndices returns the scan indices visible under the given mode and
// scope, in scan order.
//
// A scope of all or invalidOnly already constrained the fetch server-side,
// so view-mode narrowing is suppressed to avoid a double filter. Scans whose
// ledger action carries a delete mark are always visible: a scan marked for
// deletion must stay reachable until submit.
func VisibleIndices(scans []scan.Record, mode Mode, scope Scope, ses *session.Session) []int {
	indices := make([]int, 0, len(scans))

	narrowing := mode != ModeAll && scope != ScopeAll && scope != ScopeInvalidOnly
	wantManual := mode == ModeManual

	for i, record := range scans {
		if !narrowing {
			indices = append(indices, i)
			continue
		}
		if action := ses.Find(record.ScanID()); action != nil && action.Delete {
			indices = append(indices, i)
			continue
		}
		if scan.NeedsManualReview(record) == wantManual {
			indices = append(indices, i)
		}
	}

	return indices
}
