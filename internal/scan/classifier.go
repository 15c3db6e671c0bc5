package scan

import "panaudit/internal/identifier"

// NeedsManualReview reports whether a scan still requires human audit.
//
// Flagged records always do, whatever else they carry, until the flag is
// cleared server-side. Every other record is automated only when both a pan
// and a menu item are resolvable from server-reported fields. Local,
// unsubmitted auditor edits never feed this predicate: a scan must stay in
// the manual list while its edits are still unsaved.
func NeedsManualReview(r Record) bool {
	if r.Flagged() {
		return true
	}

	hasPan := identifier.Sanitize(ExtractPanID(r)) != ""

	hasMenu := identifier.Sanitize(ExtractMenuItemID(r)) != ""
	if !hasMenu {
		hasMenu = identifier.Sanitize(ExtractMenuItemName(r)) != ""
	}

	return !(hasPan && hasMenu)
}
