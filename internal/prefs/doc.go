// Package prefs persists small client-local preferences between panaudit
// invocations: the last audited date and the preferred view mode.
package prefs
