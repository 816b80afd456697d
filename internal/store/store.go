// Package store runs parameterized statements against the tables declared in
// internal/schema and returns raw rows. It knows nothing about entities.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"eps-portal/internal/apperrors"
	"eps-portal/internal/schema"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
)

// Row is a single raw row keyed by column name.
type Row = map[string]interface{}

type Store struct {
	db *bun.DB
}

func New(db *bun.DB) *Store {
	return &Store{db: db}
}

// Ping checks the store is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return classify(err)
	}
	return nil
}

func (s *Store) selectQuery(t *schema.Table) *bun.SelectQuery {
	return s.db.NewSelect().
		TableExpr("?", bun.Ident(t.Name)).
		Column(t.ColumnNames()...)
}

// SelectAll returns every row of t in store order.
func (s *Store) SelectAll(ctx context.Context, t *schema.Table) ([]Row, error) {
	return s.scan(ctx, s.selectQuery(t))
}

// SelectByID returns the row whose primary key equals id, or nil when there
// is none.
func (s *Store) SelectByID(ctx context.Context, t *schema.Table, id interface{}) (Row, error) {
	q := s.selectQuery(t).
		Where("? = ?", bun.Ident(t.PrimaryKey()), NormalizeKey(id)).
		Limit(1)

	rows, err := s.scan(ctx, q)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

// SelectFiltered returns the rows matching all predicates.
func (s *Store) SelectFiltered(ctx context.Context, t *schema.Table, preds ...Predicate) ([]Row, error) {
	q, err := s.filteredQuery(t, preds)
	if err != nil {
		return nil, err
	}
	return s.scan(ctx, q)
}

func (s *Store) filteredQuery(t *schema.Table, preds []Predicate) (*bun.SelectQuery, error) {
	q := s.selectQuery(t)
	for _, p := range preds {
		if err := p.validate(t); err != nil {
			return nil, err
		}
		q = p.apply(q)
	}
	return q, nil
}

// Count returns the number of rows in t.
func (s *Store) Count(ctx context.Context, t *schema.Table) (int, error) {
	n, err := s.db.NewSelect().TableExpr("?", bun.Ident(t.Name)).Count(ctx)
	if err != nil {
		return 0, classify(err)
	}
	return n, nil
}

// Insert writes a row and returns the generated primary key.
func (s *Store) Insert(ctx context.Context, t *schema.Table, values Row) (interface{}, error) {
	q, err := s.insertQuery(t, values)
	if err != nil {
		return nil, err
	}

	returned := map[string]interface{}{}
	if err := q.Scan(ctx, &returned); err != nil {
		return nil, classify(err)
	}
	return NormalizeKey(returned[t.PrimaryKey()]), nil
}

// NormalizeKey turns a key scanned by the driver into a value that can be
// bound back as a query argument. pgdriver scans uuid columns as []byte,
// which would otherwise be sent as a bytea literal.
func NormalizeKey(v interface{}) interface{} {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

func (s *Store) insertQuery(t *schema.Table, values Row) (*bun.InsertQuery, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: no values to insert into %s", apperrors.ErrValidation, t.Name)
	}
	prepared, err := prepare(t, values)
	if err != nil {
		return nil, err
	}
	return s.db.NewInsert().
		Model(&prepared).
		TableExpr("?", bun.Ident(t.Name)).
		Returning("?", bun.Ident(t.PrimaryKey())), nil
}

// Update overwrites the given columns of the row with primary key id and
// returns the number of affected rows.
func (s *Store) Update(ctx context.Context, t *schema.Table, id interface{}, values Row) (int64, error) {
	q, err := s.updateQuery(t, id, values)
	if err != nil {
		return 0, err
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return 0, classify(err)
	}
	return affected(res)
}

func (s *Store) updateQuery(t *schema.Table, id interface{}, values Row) (*bun.UpdateQuery, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: no values to update in %s", apperrors.ErrValidation, t.Name)
	}
	prepared, err := prepare(t, values)
	if err != nil {
		return nil, err
	}

	q := s.db.NewUpdate().TableExpr("?", bun.Ident(t.Name))
	for _, col := range sortedKeys(prepared) {
		q = q.Set("? = ?", bun.Ident(col), prepared[col])
	}
	return q.Where("? = ?", bun.Ident(t.PrimaryKey()), NormalizeKey(id)), nil
}

// Delete removes the row with primary key id and returns the number of
// affected rows.
func (s *Store) Delete(ctx context.Context, t *schema.Table, id interface{}) (int64, error) {
	res, err := s.deleteQuery(t, id).Exec(ctx)
	if err != nil {
		return 0, classify(err)
	}
	return affected(res)
}

func (s *Store) deleteQuery(t *schema.Table, id interface{}) *bun.DeleteQuery {
	return s.db.NewDelete().
		TableExpr("?", bun.Ident(t.Name)).
		Where("? = ?", bun.Ident(t.PrimaryKey()), NormalizeKey(id))
}

func (s *Store) scan(ctx context.Context, q *bun.SelectQuery) ([]Row, error) {
	var rows []map[string]interface{}
	if err := q.Scan(ctx, &rows); err != nil {
		if err == sql.ErrNoRows {
			return []Row{}, nil
		}
		return nil, classify(err)
	}
	if rows == nil {
		rows = []map[string]interface{}{}
	}
	return rows, nil
}

// prepare checks every column exists in t and converts values the driver
// cannot append directly.
func prepare(t *schema.Table, values Row) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(values))
	for name, v := range values {
		c, ok := t.Column(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown column %s.%s", apperrors.ErrValidation, t.Name, name)
		}
		if c.Type == schema.IntArray && v != nil {
			v = pgdialect.Array(v)
		}
		out[name] = v
	}
	return out, nil
}

func affected(res sql.Result) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, classify(err)
	}
	return n, nil
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
