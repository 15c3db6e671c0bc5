package logging

import (
	"log/slog"
	"time"
)

type Attr = slog.Attr

const (
	// FieldComponent is the standardized key for subsystem names.
	FieldComponent = "component"
	// FieldScanID is the standardized key for scan identifiers.
	FieldScanID = "scan_id"
	// FieldRestaurantID is the standardized key for restaurant identifiers.
	FieldRestaurantID = "restaurant_id"
	// FieldAuditDate is the standardized key for the audit calendar date.
	FieldAuditDate = "audit_date"
	// FieldSessionID is the standardized key for audit session identifiers.
	FieldSessionID = "session_id"
	// FieldPanID is the standardized key for catalog pan identifiers.
	FieldPanID = "pan_id"
	// FieldEventType tags records for downstream filtering.
	FieldEventType = "event_type"
	// FieldAttempt is the standardized key for retry attempt counters.
	FieldAttempt = "attempt"
	// FieldCount is the standardized key for generic quantities.
	FieldCount = "count"
)

func Any(key string, value any) Attr { return slog.Any(key, value) }

func Bool(key string, value bool) Attr { return slog.Bool(key, value) }

func Duration(key string, value time.Duration) Attr { return slog.Duration(key, value) }

func Float64(key string, value float64) Attr { return slog.Float64(key, value) }

func Int(key string, value int) Attr { return slog.Int(key, value) }

func Int64(key string, value int64) Attr { return slog.Int64(key, value) }

func String(key string, value string) Attr { return slog.String(key, value) }

// Error renders an error under the conventional key, tolerating nil.
func Error(err error) Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

// NewComponentLogger tags every record emitted through the returned logger
// with the owning component name.
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		return NewNop()
	}
	return logger.With(String(FieldComponent, component))
}
