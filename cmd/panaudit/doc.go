// Package main hosts the panaudit CLI entrypoint and command graph.
//
// The Cobra-based command tree surfaces the audit workflow in the terminal:
// listing restaurants and scans, inspecting individual scans against the pan
// catalog, recording auditor decisions into the local session ledger, and
// submitting the finished audit to the backend. It centralizes configuration
// resolution, backend client construction, and ledger persistence so
// subcommands can focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
