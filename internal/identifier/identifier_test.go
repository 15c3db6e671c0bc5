package identifier

import "testing"

func TestNormalizeCompositeIdentifier(t *testing.T) {
	raw := "864bec1234567890abcdef1234567890c5__158___1_2_Long___3.7_inch_deep_"
	parts := Normalize(raw)
	if parts.UUIDToken != "864bec1234567890abcdef1234567890c5" {
		t.Errorf("UUIDToken = %q, want full leading hex run", parts.UUIDToken)
	}
	if parts.NumericToken != "158" {
		t.Errorf("NumericToken = %q, want %q", parts.NumericToken, "158")
	}
}

func TestNormalizeTotality(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		uuid    string
		numeric string
	}{
		{name: "empty", raw: ""},
		{name: "whitespace", raw: "   "},
		{name: "plain number", raw: "42", numeric: "42"},
		{name: "plain alphanumeric", raw: "pan7a", numeric: "7"},
		{name: "no digits at all", raw: "unmatched-text"},
		{name: "delimited without hex prefix", raw: "abc__12___Full", uuid: "abc", numeric: "12"},
		{name: "delimiter not followed by digits", raw: "abc__x3__12", uuid: "abc", numeric: "3"},
		{name: "short hex prefix falls through", raw: "deadbeef__9", uuid: "deadbeef", numeric: "9"},
		{
			name:    "exact 32 hex run",
			raw:     "0123456789abcdef0123456789abcdef",
			uuid:    "0123456789abcdef0123456789abcdef",
			numeric: "0123456789",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			parts := Normalize(tc.raw)
			if parts.UUIDToken != tc.uuid {
				t.Errorf("UUIDToken = %q, want %q", parts.UUIDToken, tc.uuid)
			}
			if parts.NumericToken != tc.numeric {
				t.Errorf("NumericToken = %q, want %q", parts.NumericToken, tc.numeric)
			}
		})
	}
}

func TestSanitizeSentinels(t *testing.T) {
	for _, value := range []string{"", "0", "unknown", "UNKNOWN", " Unrecognized ", "none", "null", "undefined", "NaN", "nan"} {
		if got := Sanitize(value); got != "" {
			t.Errorf("Sanitize(%q) = %q, want empty", value, got)
		}
	}
}

func TestSanitizePreservesRealValues(t *testing.T) {
	tests := map[string]string{
		"  Pan-12  ": "Pan-12",
		"ABCdef":     "ABCdef",
		"00":         "00",
		"nil":        "nil",
	}
	for in, want := range tests {
		if got := Sanitize(in); got != want {
			t.Errorf("Sanitize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{"", "0", "unknown", "  Unrecognized  ", "Pan-12", "  keep me ", "None"}
	for _, in := range inputs {
		once := Sanitize(in)
		if twice := Sanitize(once); twice != once {
			t.Errorf("Sanitize not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestIsAbsent(t *testing.T) {
	if !IsAbsent("unknown") {
		t.Error("IsAbsent(unknown) = false, want true")
	}
	if IsAbsent("158") {
		t.Error("IsAbsent(158) = true, want false")
	}
}
