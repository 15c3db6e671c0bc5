package scan

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Record is one scan event as returned by the backend. The payload keeps its
// decoded JSON shape; reads go through typed accessors and extraction
// strategies so alias churn upstream stays contained here.
type Record struct {
	fields map[string]any
}

// flaggedKey marks records pulled from the secondary "flagged" source rather
// than the primary scan set.
const flaggedKey = "__flagged"

const (
	imageKeyField = "_imageKey"
	imageURLField = "imageUrl"
)

// NewRecord builds a record from already-decoded fields. Intended for tests
// and synthetic records; backend payloads arrive through UnmarshalJSON.
func NewRecord(fields map[string]any) Record {
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	return Record{fields: copied}
}

// UnmarshalJSON decodes the raw payload without losing unknown fields.
func (r *Record) UnmarshalJSON(data []byte) error {
	fields := make(map[string]any)
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	r.fields = fields
	return nil
}

// MarshalJSON round-trips the record unchanged.
func (r Record) MarshalJSON() ([]byte, error) {
	if r.fields == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(r.fields)
}

// stringField returns the first non-empty value among the given keys,
// coerced to a string.
func (r Record) stringField(keys ...string) string {
	for _, key := range keys {
		if value, ok := r.fields[key]; ok {
			if s := coerceString(value); s != "" {
				return s
			}
		}
	}
	return ""
}

func coerceString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case bool:
		return strconv.FormatBool(v)
	case float64:
		// JSON numbers decode as float64; render integral values without a
		// fractional part so they compare against catalog ids.
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

func coerceBool(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "yes", "y":
			return true
		}
	}
	return false
}

// ScanID returns the record's stable identifier.
func (r Record) ScanID() string {
	return r.stringField("scanId", "ScanID", "scan_id", "id")
}

// Flagged reports whether the record came from the anomalous secondary set.
func (r Record) Flagged() bool {
	value, ok := r.fields[flaggedKey]
	return ok && coerceBool(value)
}

// SetFlagged marks the record as pulled from the flagged source.
func (r *Record) SetFlagged() {
	if r.fields == nil {
		r.fields = make(map[string]any, 1)
	}
	r.fields[flaggedKey] = true
}

// AuditStatus returns the persisted audit status marker, if any.
func (r Record) AuditStatus() string {
	return r.stringField("auditStatus", "AuditStatus")
}

// Deleted reports whether a prior audit persisted the terminal deletion
// marker on this record.
func (r Record) Deleted() bool {
	return strings.EqualFold(strings.TrimSpace(r.AuditStatus()), "deleted")
}

// ReportedMenuItemName returns the menu item name reported by the pipeline.
func (r Record) ReportedMenuItemName() string {
	return r.stringField("reportedMenuItemName", "menuItemName", "MenuItemName")
}

// Weight returns the scan weight in ounces, zero when absent or unparseable.
func (r Record) Weight() float64 {
	value, ok := r.fields["weight"]
	if !ok {
		return 0
	}
	switch v := value.(type) {
	case float64:
		return v
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

// ImageKey returns the storage key of the scan image, when the backend did
// not already presign it.
func (r Record) ImageKey() string {
	return r.stringField(imageKeyField, "imageKey", "ImageKey")
}

// ImageURL returns the display URL cached on the record, if any.
func (r Record) ImageURL() string {
	return r.stringField(imageURLField)
}

// SetImageURL caches a resolved display URL on the record. This is the only
// mutation scan records receive; audit decisions live in the session ledger.
func (r *Record) SetImageURL(url string) {
	if r.fields == nil {
		r.fields = make(map[string]any, 1)
	}
	r.fields[imageURLField] = url
	delete(r.fields, imageKeyField)
}
