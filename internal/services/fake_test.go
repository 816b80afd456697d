package services

import (
	"context"
	"database/sql/driver"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"eps-portal/internal/apperrors"
	"eps-portal/internal/schema"
	"eps-portal/internal/store"
)

// memQuerier is an in-memory Querier. Stored values take the Go types pgdriver
// scans them back as: uuid, int[] and geometry columns hold []byte, dates
// hold time.Time. Keys are handed back through store.NormalizeKey like
// *store.Store does, and a []byte bound to a uuid column fails the way
// Postgres rejects a bytea literal as uuid input.
type memQuerier struct {
	mu     sync.Mutex
	tables map[string][]store.Row
	seq    map[string]int64
	err    error
}

func newMemQuerier() *memQuerier {
	return &memQuerier{tables: map[string][]store.Row{}, seq: map[string]int64{}}
}

func (m *memQuerier) count(t *schema.Table) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tables[t.Name])
}

func (m *memQuerier) SelectAll(ctx context.Context, t *schema.Table) ([]store.Row, error) {
	return m.SelectFiltered(ctx, t)
}

func (m *memQuerier) SelectByID(ctx context.Context, t *schema.Table, id interface{}) (store.Row, error) {
	id = store.NormalizeKey(id)
	rows, err := m.SelectFiltered(ctx, t, store.Eq(t.PrimaryKey(), id))
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

func (m *memQuerier) SelectFiltered(_ context.Context, t *schema.Table, preds ...store.Predicate) ([]store.Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}

	for _, p := range preds {
		c, known := t.Column(p.Column)
		if !known {
			return nil, fmt.Errorf("%w: unknown column %s", apperrors.ErrValidation, p.Column)
		}
		if err := checkArg(c, p.Value); err != nil {
			return nil, err
		}
	}

	out := []store.Row{}
	for _, row := range m.tables[t.Name] {
		ok := true
		for _, p := range preds {
			if !match(row[p.Column], p) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, copyRow(row))
		}
	}
	return out, nil
}

func (m *memQuerier) Insert(_ context.Context, t *schema.Table, values store.Row) (interface{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}

	row := store.Row{}
	for _, c := range t.Columns {
		row[c.Name] = nil
	}
	for k, v := range values {
		c, ok := t.Column(k)
		if !ok {
			return nil, fmt.Errorf("%w: unknown column %s", apperrors.ErrValidation, k)
		}
		sv, err := driverValue(c, v)
		if err != nil {
			return nil, err
		}
		row[k] = sv
	}

	pk := t.PrimaryKey()
	if row[pk] == nil {
		m.seq[t.Name]++
		row[pk] = m.seq[t.Name]
	}
	m.tables[t.Name] = append(m.tables[t.Name], row)
	return store.NormalizeKey(row[pk]), nil
}

func (m *memQuerier) Update(_ context.Context, t *schema.Table, id interface{}, values store.Row) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}

	id = store.NormalizeKey(id)
	var n int64
	for _, row := range m.tables[t.Name] {
		if !equal(row[t.PrimaryKey()], id) {
			continue
		}
		for k, v := range values {
			c, ok := t.Column(k)
			if !ok {
				return 0, fmt.Errorf("%w: unknown column %s", apperrors.ErrValidation, k)
			}
			sv, err := driverValue(c, v)
			if err != nil {
				return 0, err
			}
			row[k] = sv
		}
		n++
	}
	return n, nil
}

func (m *memQuerier) Delete(_ context.Context, t *schema.Table, id interface{}) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}

	id = store.NormalizeKey(id)
	kept := m.tables[t.Name][:0]
	var n int64
	for _, row := range m.tables[t.Name] {
		if equal(row[t.PrimaryKey()], id) {
			n++
			continue
		}
		kept = append(kept, row)
	}
	m.tables[t.Name] = kept
	return n, nil
}

// driverValue converts v the way it would make the round trip through
// Postgres and pgdriver.
func driverValue(c schema.Column, v interface{}) (interface{}, error) {
	if valuer, ok := v.(driver.Valuer); ok {
		var err error
		if v, err = valuer.Value(); err != nil {
			return nil, err
		}
	}
	if v == nil {
		return nil, nil
	}
	if err := checkArg(c, v); err != nil {
		return nil, err
	}

	switch c.Type {
	case schema.UUID, schema.Geometry:
		return []byte(fmt.Sprint(text(v))), nil
	case schema.IntArray:
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Slice {
			return nil, fmt.Errorf("%w: %s expects an array, got %T", apperrors.ErrConstraintViolation, c.Name, v)
		}
		parts := make([]string, rv.Len())
		for i := range parts {
			parts[i] = fmt.Sprint(rv.Index(i).Interface())
		}
		return []byte("{" + strings.Join(parts, ",") + "}"), nil
	case schema.Date:
		if t, ok := v.(time.Time); ok {
			return t.UTC().Truncate(24 * time.Hour), nil
		}
		d, err := time.Parse("2006-01-02", fmt.Sprint(v))
		if err != nil {
			return nil, fmt.Errorf("%w: invalid input syntax for type date: %v", apperrors.ErrConstraintViolation, v)
		}
		return d, nil
	case schema.Serial, schema.Integer:
		n, err := strconv.ParseInt(fmt.Sprint(v), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid input syntax for type integer: %v", apperrors.ErrConstraintViolation, v)
		}
		return n, nil
	}
	return v, nil
}

// checkArg rejects a []byte bound to a uuid column: bun sends it as a bytea
// literal, which Postgres refuses as uuid input.
func checkArg(c schema.Column, v interface{}) error {
	if _, isBytes := v.([]byte); isBytes && c.Type == schema.UUID {
		return fmt.Errorf("%w: invalid input syntax for type uuid: bytea literal for %s", apperrors.ErrConstraintViolation, c.Name)
	}
	return nil
}

func text(v interface{}) interface{} {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

func copyRow(row store.Row) store.Row {
	out := make(store.Row, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}

func match(v interface{}, p store.Predicate) bool {
	switch p.Op {
	case store.OpEq:
		return equal(v, p.Value)
	case store.OpLt:
		return compare(v, p.Value) < 0
	case store.OpLte:
		return compare(v, p.Value) <= 0
	case store.OpGt:
		return compare(v, p.Value) > 0
	case store.OpGte:
		return compare(v, p.Value) >= 0
	case store.OpIn:
		rv := reflect.ValueOf(p.Value)
		for i := 0; i < rv.Len(); i++ {
			if equal(v, rv.Index(i).Interface()) {
				return true
			}
		}
	case store.OpContains:
		b, ok := v.([]byte)
		if !ok {
			return false
		}
		for _, e := range strings.Split(strings.Trim(string(b), "{}"), ",") {
			if e != "" && equal(e, p.Value) {
				return true
			}
		}
	case store.OpDateEq:
		return day(v) == day(p.Value)
	}
	return false
}

func equal(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return fmt.Sprint(text(a)) == fmt.Sprint(text(b))
}

func compare(a, b interface{}) int {
	fa, aerr := strconv.ParseFloat(fmt.Sprint(a), 64)
	fb, berr := strconv.ParseFloat(fmt.Sprint(b), 64)
	if aerr == nil && berr == nil {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	}
	sa, sb := day(a), day(b)
	switch {
	case sa < sb:
		return -1
	case sa > sb:
		return 1
	}
	return 0
}

func day(v interface{}) string {
	if t, ok := v.(time.Time); ok {
		return t.Format("2006-01-02")
	}
	s := fmt.Sprint(text(v))
	if len(s) > 10 {
		return s[:10]
	}
	return s
}
