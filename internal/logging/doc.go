// Package logging builds the slog loggers used across panaudit and defines
// the standardized field names for audit-domain attributes.
//
// Two output formats exist: a human-oriented console handler for interactive
// use and a JSON handler for log files and machine consumption. Component
// loggers tag every record with the owning subsystem.
package logging
