package identifier

import (
	"regexp"
	"strings"
)

var (
	// hexRunPattern matches a leading hexadecimal run of at least 32 characters.
	// Composite identifiers start with the full detector UUID, which can run a
	// few characters past 32; the whole run is the token.
	hexRunPattern = regexp.MustCompile(`^[0-9a-fA-F]{32,}`)

	leadingDigitsPattern = regexp.MustCompile(`^[0-9]+`)
	digitRunPattern      = regexp.MustCompile(`[0-9]+`)
)

// sentinels lists the literal "no value" spellings seen across detector
// outputs and audited records, compared after trimming and lowercasing.
var sentinels = map[string]struct{}{
	"":             {},
	"0":            {},
	"unknown":      {},
	"unrecognized": {},
	"none":         {},
	"null":         {},
	"undefined":    {},
	"nan":          {},
}

const compositeDelimiter = "__"

// Parts holds the canonical tokens extracted from an external identifier.
// Either token may be empty when the input does not carry it.
type Parts struct {
	UUIDToken    string
	NumericToken string
}

// Normalize extracts the canonical tokens from a raw external identifier.
//
// The UUID token is the leading hexadecimal run when the string starts with
// one, otherwise everything before the first "__" delimiter. The numeric
// token is the digit run immediately after the first "__", falling back to
// the first digit run anywhere in the string.
func Normalize(raw string) Parts {
	var parts Parts

	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return parts
	}

	if run := hexRunPattern.FindString(trimmed); run != "" {
		parts.UUIDToken = run
	} else if idx := strings.Index(trimmed, compositeDelimiter); idx > 0 {
		parts.UUIDToken = trimmed[:idx]
	}

	if idx := strings.Index(trimmed, compositeDelimiter); idx >= 0 {
		parts.NumericToken = leadingDigitsPattern.FindString(trimmed[idx+len(compositeDelimiter):])
	}
	if parts.NumericToken == "" {
		parts.NumericToken = digitRunPattern.FindString(trimmed)
	}

	return parts
}

// Sanitize trims the value and collapses sentinel "no value" spellings to the
// empty string. Non-sentinel values are returned trimmed but otherwise
// untouched; comparison is case-insensitive, the result is not lowercased.
func Sanitize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if _, absent := sentinels[strings.ToLower(trimmed)]; absent {
		return ""
	}
	return trimmed
}

// IsAbsent reports whether the value sanitizes to empty.
func IsAbsent(raw string) bool {
	return Sanitize(raw) == ""
}
