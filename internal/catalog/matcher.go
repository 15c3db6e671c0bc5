package catalog

import (
	"strings"

	"panaudit/internal/identifier"
)

// identifierFields returns the identifier-bearing fields of a pan in the
// fixed order they are checked during external matching.
func identifierFields(p *Pan) []string {
	return []string{
		p.ID.String(),
		p.PanID.String(),
		p.ShortID.String(),
		p.Number.String(),
	}
}

// MatchByExternalID resolves a raw detector identifier against the catalog.
//
// The raw value is sanitized, normalized into candidate tokens (UUID token,
// numeric token, original string), and compared against each pan's known
// identifier fields by string equality. Catalog order is the sole tie-break:
// the first pan with any matching field wins. When the field scan finds
// nothing but a numeric token was extracted, the token is retried against the
// canonical id field alone.
//
// Returns nil for absent or sentinel input and when nothing matches.
func MatchByExternalID(pans []Pan, rawID string) *Pan {
	clean := identifier.Sanitize(rawID)
	if clean == "" {
		return nil
	}

	parts := identifier.Normalize(clean)
	candidates := make([]string, 0, 3)
	for _, token := range []string{parts.UUIDToken, parts.NumericToken, clean} {
		if token != "" {
			candidates = append(candidates, token)
		}
	}

	for i := range pans {
		for _, field := range identifierFields(&pans[i]) {
			if field == "" {
				continue
			}
			for _, candidate := range candidates {
				if field == candidate {
					return &pans[i]
				}
			}
		}
	}

	if parts.NumericToken != "" {
		for i := range pans {
			if pans[i].ID.String() == parts.NumericToken {
				return &pans[i]
			}
		}
	}

	return nil
}

// MatchByShapeSize returns every catalog entry satisfying both filters, in
// catalog order. A nil shape is a wildcard, as is an empty size class; both
// nil returns the whole catalog. The literal filtered set is returned even
// when empty — falling back to the unfiltered catalog is the caller's call,
// so that "no pans match" stays distinguishable from "no filter applied".
func MatchByShapeSize(pans []Pan, shape *Shape, sizeClass string) []Pan {
	wantSize := strings.ToLower(strings.TrimSpace(sizeClass))

	out := make([]Pan, 0, len(pans))
	for _, pan := range pans {
		if shape != nil {
			value, ok := pan.ShapeValue()
			if !ok || value != *shape {
				continue
			}
		}
		if wantSize != "" && pan.SizeClass() != wantSize {
			continue
		}
		out = append(out, pan)
	}
	return out
}

// FindByID looks a pan up by coerced-string equality on the canonical id
// field. First match wins.
func FindByID(pans []Pan, id string) *Pan {
	want := strings.TrimSpace(id)
	if want == "" {
		return nil
	}
	for i := range pans {
		if pans[i].ID.String() == want {
			return &pans[i]
		}
	}
	return nil
}
