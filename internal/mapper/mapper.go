// Package mapper turns raw rows returned by the store into typed values.
// Spatial columns are decoded to GeoJSON through the geometry codec when the
// record is built; all other columns are coerced on access.
package mapper

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"eps-portal/internal/apperrors"
	"eps-portal/internal/geometry"
	"eps-portal/internal/schema"

	"github.com/google/uuid"
	"github.com/paulmach/orb/geojson"
)

const dateLayout = "2006-01-02"

// Record is a decoded copy of a single row. Required accessors remember the
// first failure, so callers read every field and check Err once.
type Record struct {
	table *schema.Table
	row   map[string]interface{}
	err   error
}

// New copies row and decodes every spatial column of table. The input map is
// never modified.
func New(table *schema.Table, row map[string]interface{}) (*Record, error) {
	out := make(map[string]interface{}, len(row))
	for k, v := range row {
		out[k] = v
	}

	for _, c := range table.SpatialColumns() {
		raw, ok := out[c.Name]
		if !ok || raw == nil {
			continue
		}
		g, err := geometry.DecodeToGeoJSON(raw)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", table.Name, c.Name, err)
		}
		out[c.Name] = g
	}

	return &Record{table: table, row: out}, nil
}

// Err returns the first error recorded by a required accessor.
func (r *Record) Err() error {
	return r.err
}

// Has reports whether the column is present and not NULL.
func (r *Record) Has(col string) bool {
	v, ok := r.row[col]
	return ok && v != nil
}

func (r *Record) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *Record) required(col string) (interface{}, bool) {
	v, ok := r.row[col]
	if !ok || v == nil {
		r.fail(fmt.Errorf("%w: %s.%s", apperrors.ErrMissingRequiredField, r.table.Name, col))
		return nil, false
	}
	return v, true
}

func (r *Record) convErr(col string, v interface{}, want string) {
	r.fail(fmt.Errorf("%s.%s: cannot read %T as %s", r.table.Name, col, v, want))
}

func (r *Record) Int64(col string) int64 {
	v, ok := r.required(col)
	if !ok {
		return 0
	}
	n, ok := toInt64(v)
	if !ok {
		r.convErr(col, v, "integer")
	}
	return n
}

func (r *Record) Int(col string) int {
	return int(r.Int64(col))
}

func (r *Record) String(col string) string {
	v, ok := r.required(col)
	if !ok {
		return ""
	}
	return toString(v)
}

func (r *Record) Float64(col string) float64 {
	v, ok := r.required(col)
	if !ok {
		return 0
	}
	f, ok := toFloat64(v)
	if !ok {
		r.convErr(col, v, "float")
	}
	return f
}

func (r *Record) Time(col string) time.Time {
	v, ok := r.required(col)
	if !ok {
		return time.Time{}
	}
	t, ok := toTime(v)
	if !ok {
		r.convErr(col, v, "timestamp")
	}
	return t
}

// Date returns a date column formatted as YYYY-MM-DD.
func (r *Record) Date(col string) string {
	t := r.Time(col)
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func (r *Record) UUID(col string) uuid.UUID {
	v, ok := r.required(col)
	if !ok {
		return uuid.Nil
	}
	id, err := toUUID(v)
	if err != nil {
		r.convErr(col, v, "uuid")
	}
	return id
}

// Geometry returns a decoded spatial column.
func (r *Record) Geometry(col string) *geojson.Geometry {
	v, ok := r.required(col)
	if !ok {
		return nil
	}
	g, ok := v.(*geojson.Geometry)
	if !ok {
		r.convErr(col, v, "geometry")
	}
	return g
}

func (r *Record) OptString(col string) *string {
	v, ok := r.row[col]
	if !ok || v == nil {
		return nil
	}
	s := toString(v)
	return &s
}

func (r *Record) OptInt64(col string) *int64 {
	v, ok := r.row[col]
	if !ok || v == nil {
		return nil
	}
	n, ok := toInt64(v)
	if !ok {
		return nil
	}
	return &n
}

func (r *Record) OptFloat64(col string) *float64 {
	v, ok := r.row[col]
	if !ok || v == nil {
		return nil
	}
	f, ok := toFloat64(v)
	if !ok {
		return nil
	}
	return &f
}

func (r *Record) OptUUID(col string) *uuid.UUID {
	v, ok := r.row[col]
	if !ok || v == nil {
		return nil
	}
	id, err := toUUID(v)
	if err != nil {
		return nil
	}
	return &id
}

// OptDate is Date for nullable columns.
func (r *Record) OptDate(col string) *string {
	v, ok := r.row[col]
	if !ok || v == nil {
		return nil
	}
	t, ok := toTime(v)
	if !ok {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func (r *Record) OptGeometry(col string) *geojson.Geometry {
	g, _ := r.row[col].(*geojson.Geometry)
	return g
}

// IntSlice reads an integer array column. NULL reads as nil.
func (r *Record) IntSlice(col string) []int64 {
	switch v := r.row[col].(type) {
	case []int64:
		return append([]int64(nil), v...)
	case []int:
		out := make([]int64, len(v))
		for i, n := range v {
			out[i] = int64(n)
		}
		return out
	case []interface{}:
		out := make([]int64, 0, len(v))
		for _, e := range v {
			if n, ok := toInt64(e); ok {
				out = append(out, n)
			}
		}
		return out
	case string:
		return parseIntArray(v)
	case []byte:
		return parseIntArray(string(v))
	}
	return nil
}

func toInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int32:
		return int64(n), true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	case []byte:
		i, err := strconv.ParseInt(string(n), 10, 64)
		return i, err == nil
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil
	}
	return 0, false
}

func toFloat64(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case int:
		return float64(n), true
	case []byte:
		f, err := strconv.ParseFloat(string(n), 64)
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}

func toString(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	case fmt.Stringer:
		return s.String()
	}
	return fmt.Sprint(v)
}

func toTime(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		return parseTime(t)
	case []byte:
		return parseTime(string(t))
	}
	return time.Time{}, false
}

func parseTime(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999999Z07:00", "2006-01-02 15:04:05", dateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func toUUID(v interface{}) (uuid.UUID, error) {
	switch id := v.(type) {
	case uuid.UUID:
		return id, nil
	case [16]byte:
		return uuid.UUID(id), nil
	case []byte:
		if len(id) == 16 {
			return uuid.FromBytes(id)
		}
		return uuid.ParseBytes(id)
	case string:
		return uuid.Parse(id)
	}
	return uuid.Nil, fmt.Errorf("unsupported uuid type %T", v)
}

// parseIntArray reads a Postgres array literal such as {1,2,3}.
func parseIntArray(s string) []int64 {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "{")
	s = strings.TrimSuffix(s, "}")
	if s == "" {
		return []int64{}
	}
	parts := strings.Split(s, ",")
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || strings.EqualFold(p, "NULL") {
			continue
		}
		if n, err := strconv.ParseInt(p, 10, 64); err == nil {
			out = append(out, n)
		}
	}
	return out
}
