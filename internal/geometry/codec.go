// Package geometry converts spatial values between the store representation
// (hex or raw EWKB, or GeoJSON/WKT text when the query asked for it) and the
// wire formats clients use (WKT in, GeoJSON out).
package geometry

import (
	"database/sql/driver"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"

	"eps-portal/internal/apperrors"
	"eps-portal/internal/schema"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/ewkb"
	"github.com/paulmach/orb/encoding/wkb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/geojson"
)

// Value is a validated geometry ready to be written to a geometry column.
// It is sent to the store as hex EWKB carrying schema.SRID.
type Value struct {
	geom orb.Geometry
}

func (v Value) Geometry() orb.Geometry {
	return v.geom
}

// Hex returns the hex encoded EWKB of the geometry.
func (v Value) Hex() (string, error) {
	b, err := ewkb.Marshal(v.geom, schema.SRID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrMalformedGeometry, err)
	}
	return hex.EncodeToString(b), nil
}

// Value implements driver.Valuer.
func (v Value) Value() (driver.Value, error) {
	return v.Hex()
}

// GeoJSON returns the geometry as a GeoJSON geometry object.
func (v Value) GeoJSON() *geojson.Geometry {
	return geojson.NewGeometry(v.geom)
}

// EncodeFromWKTOrGeoJSON parses a WKT (optionally EWKT with SRID=4326) or
// GeoJSON geometry string and validates it for a column of the given shape.
func EncodeFromWKTOrGeoJSON(input string, shape schema.Shape) (Value, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return Value{}, fmt.Errorf("%w: empty input", apperrors.ErrMalformedGeometry)
	}

	var (
		g   orb.Geometry
		err error
	)
	if s[0] == '{' {
		g, err = parseGeoJSON([]byte(s))
	} else {
		var srid int
		srid, s, err = splitSRID(s)
		if err == nil && srid != 0 && srid != schema.SRID {
			err = fmt.Errorf("%w: srid %d, want %d", apperrors.ErrMalformedGeometry, srid, schema.SRID)
		}
		if err == nil {
			g, err = parseWKT(s)
		}
	}
	if err != nil {
		return Value{}, err
	}

	if err := Validate(g, shape); err != nil {
		return Value{}, err
	}
	return Value{geom: g}, nil
}

// DecodeToGeoJSON turns a raw spatial value returned by the store into a
// GeoJSON geometry. A nil raw value decodes to nil.
func DecodeToGeoJSON(raw interface{}) (*geojson.Geometry, error) {
	g, err := Decode(raw)
	if err != nil || g == nil {
		return nil, err
	}
	return geojson.NewGeometry(g), nil
}

// Decode parses a raw spatial value: hex EWKB/WKB text, raw EWKB/WKB bytes,
// GeoJSON text or WKT text.
func Decode(raw interface{}) (orb.Geometry, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case orb.Geometry:
		return v, nil
	case *geojson.Geometry:
		if v == nil {
			return nil, nil
		}
		return v.Geometry(), nil
	case Value:
		return v.geom, nil
	case []byte:
		if len(v) > 0 && (v[0] == 0x00 || v[0] == 0x01) {
			return decodeBinary(v)
		}
		return decodeText(string(v))
	case string:
		return decodeText(v)
	default:
		return nil, fmt.Errorf("%w: unsupported value of type %T", apperrors.ErrMalformedGeometry, raw)
	}
}

// ToWKT renders a geometry as WKT.
func ToWKT(g orb.Geometry) string {
	return wkt.MarshalString(g)
}

func decodeText(s string) (orb.Geometry, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty input", apperrors.ErrMalformedGeometry)
	}
	if s[0] == '{' {
		return parseGeoJSON([]byte(s))
	}
	if isHex(s) {
		b, err := hex.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrMalformedGeometry, err)
		}
		return decodeBinary(b)
	}
	_, s, err := splitSRID(s)
	if err != nil {
		return nil, err
	}
	return parseWKT(s)
}

func decodeBinary(b []byte) (orb.Geometry, error) {
	g, _, err := ewkb.Unmarshal(b)
	if err == nil {
		return g, nil
	}
	g, werr := wkb.Unmarshal(b)
	if werr != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrMalformedGeometry, err)
	}
	return g, nil
}

func parseWKT(s string) (orb.Geometry, error) {
	g, err := wkt.Unmarshal(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrMalformedGeometry, err)
	}
	if g == nil {
		return nil, fmt.Errorf("%w: empty geometry", apperrors.ErrMalformedGeometry)
	}
	return g, nil
}

func parseGeoJSON(b []byte) (orb.Geometry, error) {
	gj, err := geojson.UnmarshalGeometry(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrMalformedGeometry, err)
	}
	if gj == nil || gj.Geometry() == nil {
		return nil, fmt.Errorf("%w: empty geometry", apperrors.ErrMalformedGeometry)
	}
	return gj.Geometry(), nil
}

// splitSRID strips an EWKT "SRID=n;" prefix.
func splitSRID(s string) (int, string, error) {
	if !strings.HasPrefix(strings.ToUpper(s), "SRID=") {
		return 0, s, nil
	}
	head, rest, ok := strings.Cut(s, ";")
	if !ok {
		return 0, "", fmt.Errorf("%w: srid prefix without geometry", apperrors.ErrMalformedGeometry)
	}
	srid, err := strconv.Atoi(strings.TrimSpace(head[len("SRID="):]))
	if err != nil {
		return 0, "", fmt.Errorf("%w: invalid srid %q", apperrors.ErrMalformedGeometry, head)
	}
	return srid, strings.TrimSpace(rest), nil
}

func isHex(s string) bool {
	if len(s)%2 != 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F') {
			return false
		}
	}
	return true
}

// Validate checks the geometry type against the column shape, the coordinate
// ranges of a geographic SRID and polygon ring closure.
func Validate(g orb.Geometry, shape schema.Shape) error {
	if g == nil {
		return fmt.Errorf("%w: empty geometry", apperrors.ErrMalformedGeometry)
	}
	if shape != "" && shape != schema.ShapeGeometry && g.GeoJSONType() != string(shape) {
		return fmt.Errorf("%w: expected %s, got %s", apperrors.ErrMalformedGeometry, shape, g.GeoJSONType())
	}

	n := 0
	err := eachPoint(g, func(p orb.Point) error {
		n++
		lon, lat := p.Lon(), p.Lat()
		if math.IsNaN(lon) || math.IsNaN(lat) || math.IsInf(lon, 0) || math.IsInf(lat, 0) {
			return fmt.Errorf("%w: non-finite coordinate", apperrors.ErrMalformedGeometry)
		}
		if lat < -90 || lat > 90 {
			return fmt.Errorf("%w: latitude %v out of range [-90, 90]", apperrors.ErrMalformedGeometry, lat)
		}
		if lon < -180 || lon > 180 {
			return fmt.Errorf("%w: longitude %v out of range [-180, 180]", apperrors.ErrMalformedGeometry, lon)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: empty geometry", apperrors.ErrMalformedGeometry)
	}

	return checkRings(g)
}

func checkRings(g orb.Geometry) error {
	switch v := g.(type) {
	case orb.Polygon:
		for _, r := range v {
			if len(r) < 4 {
				return fmt.Errorf("%w: polygon ring needs at least 4 points", apperrors.ErrMalformedGeometry)
			}
			if !r.Closed() {
				return fmt.Errorf("%w: polygon ring is not closed", apperrors.ErrMalformedGeometry)
			}
		}
	case orb.MultiPolygon:
		for _, p := range v {
			if err := checkRings(p); err != nil {
				return err
			}
		}
	case orb.Collection:
		for _, c := range v {
			if err := checkRings(c); err != nil {
				return err
			}
		}
	}
	return nil
}

func eachPoint(g orb.Geometry, fn func(orb.Point) error) error {
	switch v := g.(type) {
	case orb.Point:
		return fn(v)
	case orb.MultiPoint:
		return eachOf([]orb.Point(v), fn)
	case orb.LineString:
		return eachOf([]orb.Point(v), fn)
	case orb.Ring:
		return eachOf([]orb.Point(v), fn)
	case orb.MultiLineString:
		for _, ls := range v {
			if err := eachOf([]orb.Point(ls), fn); err != nil {
				return err
			}
		}
	case orb.Polygon:
		for _, r := range v {
			if err := eachOf([]orb.Point(r), fn); err != nil {
				return err
			}
		}
	case orb.MultiPolygon:
		for _, p := range v {
			if err := eachPoint(p, fn); err != nil {
				return err
			}
		}
	case orb.Collection:
		for _, c := range v {
			if err := eachPoint(c, fn); err != nil {
				return err
			}
		}
	case orb.Bound:
		return eachPoint(v.ToPolygon(), fn)
	}
	return nil
}

func eachOf(pts []orb.Point, fn func(orb.Point) error) error {
	for _, p := range pts {
		if err := fn(p); err != nil {
			return err
		}
	}
	return nil
}

// Equal reports whether two geometries have the same type and the same
// coordinates within tol.
func Equal(a, b orb.Geometry, tol float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.GeoJSONType() != b.GeoJSONType() {
		return false
	}
	pa, pb := points(a), points(b)
	if len(pa) != len(pb) {
		return false
	}
	for i := range pa {
		if math.Abs(pa[i][0]-pb[i][0]) > tol || math.Abs(pa[i][1]-pb[i][1]) > tol {
			return false
		}
	}
	return true
}

func points(g orb.Geometry) []orb.Point {
	var out []orb.Point
	_ = eachPoint(g, func(p orb.Point) error {
		out = append(out, p)
		return nil
	})
	return out
}
