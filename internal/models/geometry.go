package models

import (
	"bytes"

	"github.com/goccy/go-json"
)

// GeometryInput is a geometry sent by a client: a WKT string or a GeoJSON
// geometry, either inline or as a JSON string. It holds the raw text for the
// geometry codec.
type GeometryInput string

func (g *GeometryInput) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*g = ""
		return nil
	}
	if len(b) > 0 && b[0] == '{' {
		*g = GeometryInput(b)
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*g = GeometryInput(s)
	return nil
}

func (g GeometryInput) String() string {
	return string(g)
}
