package catalog

import (
	"encoding/json"
	"testing"
)

func testCatalog() []Pan {
	return []Pan{
		{ID: "1", DBShape: "1", DBSizeStandard: "Full"},
		{ID: "2", DBShape: "3", DBSizeStandard: "1/2"},
		{ID: "864bec1234567890abcdef1234567890c5", ShortID: "bec5", DBShape: "1", DBSizeStandard: "1/3"},
		{ID: "4", Number: "158", DBShape: "3", DBSizeStandard: "full"},
	}
}

func TestMatchByExternalIDUUIDToken(t *testing.T) {
	pans := testCatalog()
	got := MatchByExternalID(pans, "864bec1234567890abcdef1234567890c5__158___1_2_Long___3.7_inch_deep_")
	if got == nil {
		t.Fatal("expected a match for composite identifier")
	}
	if got.ID != "864bec1234567890abcdef1234567890c5" {
		t.Errorf("matched pan %q, want UUID-token pan", got.ID)
	}
}

func TestMatchByExternalIDNumericFallback(t *testing.T) {
	pans := []Pan{
		{ID: "1", DBShape: "1", DBSizeStandard: "Full"},
		{ID: "2", DBShape: "3", DBSizeStandard: "1/2"},
	}
	got := MatchByExternalID(pans, "abc__1___Full")
	if got == nil {
		t.Fatal("expected numeric-token match")
	}
	if got.ID != "1" {
		t.Errorf("matched pan %q, want pan 1 via numeric token", got.ID)
	}
}

func TestMatchByExternalIDSentinelInput(t *testing.T) {
	pans := testCatalog()
	for _, raw := range []string{"", "unknown", "Unrecognized", "none", "0"} {
		if got := MatchByExternalID(pans, raw); got != nil {
			t.Errorf("MatchByExternalID(%q) = pan %q, want nil", raw, got.ID)
		}
	}
}

func TestMatchByExternalIDDeterministicTieBreak(t *testing.T) {
	// Two pans share an identifier token; catalog order decides, repeatedly.
	pans := []Pan{
		{ID: "10", Number: "77"},
		{ID: "77"},
	}
	for i := 0; i < 5; i++ {
		got := MatchByExternalID(pans, "77")
		if got == nil || got.ID != "10" {
			t.Fatalf("iteration %d: tie-break did not pick first catalog entry", i)
		}
	}
}

func TestMatchByExternalIDNoMatch(t *testing.T) {
	if got := MatchByExternalID(testCatalog(), "zzz__999"); got != nil {
		t.Errorf("expected nil for unmatched identifier, got pan %q", got.ID)
	}
}

func TestMatchByShapeSize(t *testing.T) {
	pans := testCatalog()

	rect := ShapeRectangular
	oval := ShapeOval

	t.Run("both wildcards return whole catalog", func(t *testing.T) {
		got := MatchByShapeSize(pans, nil, "")
		if len(got) != len(pans) {
			t.Errorf("got %d pans, want %d", len(got), len(pans))
		}
	})

	t.Run("shape only", func(t *testing.T) {
		got := MatchByShapeSize(pans, &rect, "")
		if len(got) != 2 {
			t.Fatalf("got %d rectangular pans, want 2", len(got))
		}
	})

	t.Run("size compared case-insensitively", func(t *testing.T) {
		got := MatchByShapeSize(pans, nil, "  FULL ")
		if len(got) != 2 {
			t.Fatalf("got %d full pans, want 2", len(got))
		}
		if got[0].ID != "1" || got[1].ID != "4" {
			t.Errorf("catalog order not preserved: %q, %q", got[0].ID, got[1].ID)
		}
	})

	t.Run("conjunction", func(t *testing.T) {
		got := MatchByShapeSize(pans, &oval, "1/2")
		if len(got) != 1 || got[0].ID != "2" {
			t.Fatalf("shape+size filter returned %d pans", len(got))
		}
	})

	t.Run("empty result returned literally", func(t *testing.T) {
		got := MatchByShapeSize(pans, &oval, "1/9")
		if len(got) != 0 {
			t.Errorf("got %d pans, want empty set", len(got))
		}
	})
}

func TestFindByID(t *testing.T) {
	pans := testCatalog()
	if got := FindByID(pans, "2"); got == nil || got.ID != "2" {
		t.Error("FindByID failed for existing id")
	}
	if got := FindByID(pans, "999"); got != nil {
		t.Error("FindByID returned a pan for unknown id")
	}
	if got := FindByID(pans, ""); got != nil {
		t.Error("FindByID returned a pan for empty id")
	}
}

func TestFlexIDCoercion(t *testing.T) {
	var pan Pan
	payload := `{"ID": 42, "dbShape": 1, "dbSizeStandard": "Full"}`
	if err := json.Unmarshal([]byte(payload), &pan); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if pan.ID.String() != "42" {
		t.Errorf("numeric ID coerced to %q, want %q", pan.ID, "42")
	}
	if shape, ok := pan.ShapeValue(); !ok || shape != ShapeRectangular {
		t.Errorf("numeric dbShape coerced to %v (%v)", shape, ok)
	}

	// String-typed ids match numeric queries after coercion.
	if got := FindByID([]Pan{pan}, "42"); got == nil {
		t.Error("coerced id did not match")
	}
}

func TestPanDimensionsResolution(t *testing.T) {
	t.Run("dimensions object wins", func(t *testing.T) {
		pan := Pan{Dimensions: &Dimensions{Width: 12, Depth: 4, Length: 20}, Depth: 9}
		if d := pan.PanDimensions(); d.Width != 12 || d.Depth != 4 {
			t.Errorf("unexpected dimensions %+v", d)
		}
	})

	t.Run("data blob object", func(t *testing.T) {
		pan := Pan{Data: json.RawMessage(`{"dimensions":{"width":6,"depth":2.5,"length":10}}`)}
		if d := pan.PanDimensions(); d.Width != 6 || d.Depth != 2.5 {
			t.Errorf("unexpected dimensions %+v", d)
		}
	})

	t.Run("double-encoded data blob", func(t *testing.T) {
		pan := Pan{Data: json.RawMessage(`"{\"width\":6,\"depth\":2.5,\"length\":10}"`)}
		if d := pan.PanDimensions(); d.Length != 10 {
			t.Errorf("unexpected dimensions %+v", d)
		}
	})

	t.Run("top-level depth fallback", func(t *testing.T) {
		pan := Pan{Depth: 3.7}
		if d := pan.PanDimensions(); d.Depth != 3.7 {
			t.Errorf("unexpected dimensions %+v", d)
		}
	})
}

func TestShapeLabel(t *testing.T) {
	if ShapeRectangular.Label() != "Rectangular" {
		t.Error("rectangular label")
	}
	if ShapeOval.Label() != "Oval" {
		t.Error("oval label")
	}
	if Shape(7).Label() != "Shape 7" {
		t.Error("unlabeled shape fallback")
	}
}
