package catalog

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Shape is the integer shape enum used by the pan database.
type Shape int

const (
	ShapeRectangular Shape = 1
	ShapeOval        Shape = 3
)

// Label returns the display name for a shape. Unlabeled enum values render
// as their number.
func (s Shape) Label() string {
	switch s {
	case ShapeRectangular:
		return "Rectangular"
	case ShapeOval:
		return "Oval"
	default:
		return "Shape " + strconv.Itoa(int(s))
	}
}

// FlexID is a catalog identifier that upstream systems emit as either a JSON
// string or a number. It always compares as a string.
type FlexID string

// UnmarshalJSON accepts strings, numbers, and null.
func (id *FlexID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*id = ""
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*id = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return err
	}
	*id = FlexID(n.String())
	return nil
}

func (id FlexID) String() string { return string(id) }

// IsZero reports whether the identifier is empty after trimming.
func (id FlexID) IsZero() bool { return strings.TrimSpace(string(id)) == "" }

// Dimensions are the physical pan measurements in inches.
type Dimensions struct {
	Width  float64 `json:"width"`
	Depth  float64 `json:"depth"`
	Length float64 `json:"length"`
}

// IsZero reports whether no measurement is present.
func (d Dimensions) IsZero() bool {
	return d.Width == 0 && d.Depth == 0 && d.Length == 0
}

// Pan is one registered pan row as returned by the backend catalog endpoint.
type Pan struct {
	ID      FlexID `json:"ID"`
	PanID   FlexID `json:"PanID"`
	ShortID FlexID `json:"ShortID"`
	Number  FlexID `json:"Number"`

	DBShape        FlexID `json:"dbShape"`
	DBSizeStandard string `json:"dbSizeStandard"`

	Dimensions *Dimensions     `json:"dimensions,omitempty"`
	Data       json.RawMessage `json:"Data,omitempty"`
	Depth      float64         `json:"Depth,omitempty"`
	Weight     float64         `json:"Weight,omitempty"`
	Volume     float64         `json:"Volume,omitempty"`

	WasAudited bool   `json:"wasAudited"`
	Status     FlexID `json:"Status,omitempty"`

	ImageURL string `json:"imageUrl,omitempty"`
	ImageKey string `json:"_imageKey,omitempty"`
}

// ShapeValue coerces the shape field to its integer enum value.
func (p Pan) ShapeValue() (Shape, bool) {
	raw := strings.TrimSpace(p.DBShape.String())
	if raw == "" {
		return 0, false
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return Shape(value), true
}

// dataBlob is the subset of the serialized Data payload this package reads.
// Some producers double-encode the blob as a JSON string.
type dataBlob struct {
	Dimensions *Dimensions `json:"dimensions"`
	Width      float64     `json:"width"`
	Depth      float64     `json:"depth"`
	Length     float64     `json:"length"`
}

// PanDimensions resolves physical dimensions from whichever location the
// backend provided them: the dimensions object, the Data blob, or the
// top-level Depth field.
func (p Pan) PanDimensions() Dimensions {
	if p.Dimensions != nil && !p.Dimensions.IsZero() {
		return *p.Dimensions
	}
	if blob, ok := decodeDataBlob(p.Data); ok {
		if blob.Dimensions != nil && !blob.Dimensions.IsZero() {
			return *blob.Dimensions
		}
		flat := Dimensions{Width: blob.Width, Depth: blob.Depth, Length: blob.Length}
		if !flat.IsZero() {
			return flat
		}
	}
	return Dimensions{Depth: p.Depth}
}

func decodeDataBlob(raw json.RawMessage) (dataBlob, bool) {
	var blob dataBlob
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return blob, false
	}
	if trimmed[0] == '"' {
		var inner string
		if err := json.Unmarshal(trimmed, &inner); err != nil {
			return blob, false
		}
		trimmed = bytes.TrimSpace([]byte(inner))
		if len(trimmed) == 0 {
			return blob, false
		}
	}
	if err := json.Unmarshal(trimmed, &blob); err != nil {
		return blob, false
	}
	return blob, true
}

// SizeClass returns the normalized size class used for filtering.
func (p Pan) SizeClass() string {
	return strings.ToLower(strings.TrimSpace(p.DBSizeStandard))
}
