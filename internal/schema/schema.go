// Package schema declares the shape of every table the portal stores:
// columns, types, nullability, keys and the geometry type/SRID of spatial
// columns. It is plain data; the store builds statements from it.
package schema

import (
	"fmt"
	"strings"
)

// SRID is the spatial reference every geometry column is stored in (WGS84).
const SRID = 4326

type ColumnType int

const (
	Integer ColumnType = iota
	Serial
	UUID
	Text
	Float
	Date
	Timestamp
	IntArray
	Geometry
)

// Shape is the geometry type constraint of a spatial column.
type Shape string

const (
	ShapePoint    Shape = "Point"
	ShapePolygon  Shape = "Polygon"
	ShapeGeometry Shape = "Geometry" // any geometry type
)

type ForeignKey struct {
	Table  string
	Column string
}

type Column struct {
	Name       string
	Type       ColumnType
	Size       int // varchar length, 0 = unbounded text
	Nullable   bool
	PrimaryKey bool
	Shape      Shape // only for Geometry columns
	References *ForeignKey
}

// Spatial reports whether values of the column go through the geometry codec.
func (c Column) Spatial() bool {
	return c.Type == Geometry
}

type Table struct {
	Name    string
	Columns []Column
	Unique  [][]string
}

// Column returns the named column.
func (t *Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// PrimaryKey returns the primary key column name.
func (t *Table) PrimaryKey() string {
	for _, c := range t.Columns {
		if c.PrimaryKey {
			return c.Name
		}
	}
	return "id"
}

func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

func (t *Table) SpatialColumns() []Column {
	var cols []Column
	for _, c := range t.Columns {
		if c.Spatial() {
			cols = append(cols, c)
		}
	}
	return cols
}

// CreateSQL renders an idempotent CREATE TABLE statement for the table.
func (t *Table) CreateSQL() string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", quote(t.Name))

	defs := make([]string, 0, len(t.Columns)+len(t.Unique))
	for _, c := range t.Columns {
		def := "\t" + quote(c.Name) + " " + sqlType(c)
		if c.PrimaryKey {
			def += " PRIMARY KEY"
		} else if !c.Nullable {
			def += " NOT NULL"
		}
		if c.References != nil {
			def += fmt.Sprintf(" REFERENCES %s (%s)", quote(c.References.Table), quote(c.References.Column))
		}
		defs = append(defs, def)
	}
	for _, u := range t.Unique {
		quoted := make([]string, len(u))
		for i, name := range u {
			quoted[i] = quote(name)
		}
		defs = append(defs, "\tUNIQUE ("+strings.Join(quoted, ", ")+")")
	}

	b.WriteString(strings.Join(defs, ",\n"))
	b.WriteString("\n)")
	return b.String()
}

func sqlType(c Column) string {
	switch c.Type {
	case Integer:
		return "integer"
	case Serial:
		return "serial"
	case UUID:
		return "uuid"
	case Text:
		if c.Size > 0 {
			return fmt.Sprintf("varchar(%d)", c.Size)
		}
		return "text"
	case Float:
		return "double precision"
	case Date:
		return "date"
	case Timestamp:
		return "timestamptz"
	case IntArray:
		return "integer[]"
	case Geometry:
		shape := c.Shape
		if shape == "" {
			shape = ShapeGeometry
		}
		return fmt.Sprintf("geometry(%s,%d)", shape, SRID)
	}
	return "text"
}

func quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
