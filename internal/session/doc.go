// Package session owns the audit ledger: the mutable, submittable collection
// of per-scan auditor decisions for one restaurant/date scope.
//
// The ledger is append-only across refetches within a scope. Switching view
// filters fetches different scan subsets, and a scan temporarily outside the
// active filter must keep its in-progress edits; MergeScans therefore only
// ever adds blank actions, never removes or overwrites existing ones. Only a
// scope change (different restaurant or date) reinitializes the ledger.
//
// Store persists the ledger in SQLite next to the console's data directory,
// so edits survive between command invocations. A file lock serializes
// access across processes.
package session
