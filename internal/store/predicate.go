package store

import (
	"fmt"
	"reflect"

	"eps-portal/internal/apperrors"
	"eps-portal/internal/schema"

	"github.com/uptrace/bun"
)

type Op string

const (
	OpEq       Op = "="
	OpLt       Op = "<"
	OpLte      Op = "<="
	OpGt       Op = ">"
	OpGte      Op = ">="
	OpIn       Op = "IN"
	OpContains Op = "CONTAINS" // value is an element of an array column
	OpDateEq   Op = "DATE"     // same calendar day
)

// Predicate is a single column condition. Predicates passed together are
// ANDed.
type Predicate struct {
	Column string
	Op     Op
	Value  interface{}
}

func Eq(col string, v interface{}) Predicate  { return Predicate{col, OpEq, v} }
func Lt(col string, v interface{}) Predicate  { return Predicate{col, OpLt, v} }
func Lte(col string, v interface{}) Predicate { return Predicate{col, OpLte, v} }
func Gt(col string, v interface{}) Predicate  { return Predicate{col, OpGt, v} }
func Gte(col string, v interface{}) Predicate { return Predicate{col, OpGte, v} }

// In matches rows whose column is one of values, which must be a slice.
func In(col string, values interface{}) Predicate { return Predicate{col, OpIn, values} }

// Contains matches rows whose array column holds v.
func Contains(col string, v interface{}) Predicate { return Predicate{col, OpContains, v} }

// DateEq matches rows whose date or timestamp column falls on the day v.
func DateEq(col string, v interface{}) Predicate { return Predicate{col, OpDateEq, v} }

func (p Predicate) validate(t *schema.Table) error {
	c, ok := t.Column(p.Column)
	if !ok {
		return fmt.Errorf("%w: unknown column %s.%s", apperrors.ErrValidation, t.Name, p.Column)
	}

	switch p.Op {
	case OpEq, OpLt, OpLte, OpGt, OpGte, OpDateEq:
	case OpIn:
		if p.Value == nil || reflect.TypeOf(p.Value).Kind() != reflect.Slice {
			return fmt.Errorf("%w: IN on %s needs a list of values", apperrors.ErrValidation, p.Column)
		}
	case OpContains:
		if c.Type != schema.IntArray {
			return fmt.Errorf("%w: %s is not an array column", apperrors.ErrValidation, p.Column)
		}
	default:
		return fmt.Errorf("%w: unsupported operator %q", apperrors.ErrValidation, p.Op)
	}
	return nil
}

func (p Predicate) apply(q *bun.SelectQuery) *bun.SelectQuery {
	col := bun.Ident(p.Column)
	switch p.Op {
	case OpIn:
		return q.Where("? IN (?)", col, bun.In(p.Value))
	case OpContains:
		return q.Where("? = ANY(?)", p.Value, col)
	case OpDateEq:
		return q.Where("?::date = ?::date", col, p.Value)
	default:
		return q.Where("? "+string(p.Op)+" ?", col, p.Value)
	}
}
