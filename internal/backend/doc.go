// Package backend is the HTTP client for the audit backend API: scan
// fetches, the pan catalog, menu search, image presigning, audit
// submission, and AI pipeline control.
package backend
