package services

import (
	"context"
	"fmt"

	"eps-portal/internal/apperrors"
	"eps-portal/internal/schema"
	"eps-portal/internal/store"
)

// Querier is the subset of *store.Store the services run against.
type Querier interface {
	SelectAll(ctx context.Context, t *schema.Table) ([]store.Row, error)
	SelectByID(ctx context.Context, t *schema.Table, id interface{}) (store.Row, error)
	SelectFiltered(ctx context.Context, t *schema.Table, preds ...store.Predicate) ([]store.Row, error)
	Insert(ctx context.Context, t *schema.Table, values store.Row) (interface{}, error)
	Update(ctx context.Context, t *schema.Table, id interface{}, values store.Row) (int64, error)
	Delete(ctx context.Context, t *schema.Table, id interface{}) (int64, error)
}

var _ Querier = (*store.Store)(nil)

// mapRows converts every row with fn. A single failure fails the whole list.
func mapRows[T any](rows []store.Row, fn func(store.Row) (T, error)) ([]T, error) {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		v, err := fn(row)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// getByID reads one row and maps it, reporting absence as ErrNotFound.
func getByID[T any](ctx context.Context, q Querier, t *schema.Table, id interface{}, fn func(store.Row) (T, error)) (*T, error) {
	row, err := q.SelectByID(ctx, t, id)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s %v: %w", t.Name, id, err)
	}
	if row == nil {
		return nil, notFound(t, id)
	}
	v, err := fn(row)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// insertAndRead inserts values and reads the stored row back, so the result
// carries generated and defaulted columns.
func insertAndRead[T any](ctx context.Context, q Querier, t *schema.Table, values store.Row, fn func(store.Row) (T, error)) (*T, error) {
	id, err := q.Insert(ctx, t, values)
	if err != nil {
		return nil, fmt.Errorf("failed to insert into %s: %w", t.Name, err)
	}
	return getByID(ctx, q, t, id, fn)
}

func notFound(t *schema.Table, id interface{}) error {
	return fmt.Errorf("%w: %s %v", apperrors.ErrNotFound, entityName(t), id)
}

func entityName(t *schema.Table) string {
	switch t {
	case schema.AOIs:
		return "aoi"
	case schema.Vessels:
		return "vessel"
	case schema.OilSlicks:
		return "oil slick"
	case schema.Customers:
		return "customer"
	case schema.Services:
		return "service"
	case schema.Locations:
		return "location"
	case schema.NDVIStatistics:
		return "ndvi statistic"
	case schema.AlgaeStatistics:
		return "algae statistic"
	}
	return t.Name
}
