package dto

import (
	"fmt"
	"maps"
	"reflect"
	"strings"
)

const (
	FilterOperatorEq        = "eq"
	FilterOperatorIn        = "in"
	FilterOperatorNotEq     = "not_eq"
	FilterOperatorGreaterEq = "greater_eq"
	FilterOperatorLess      = "less"
	FilterOperatorGreater   = "greater"
	FilterIsNull            = "is_null"
)

const (
	FilterGroupOperatorAnd = "AND"
	FilterGroupOperatorOr  = "OR"
)

// comparisons bind a single named argument.
var comparisons = map[string]string{
	FilterOperatorEq:        "=",
	FilterOperatorNotEq:     "!=",
	FilterOperatorGreaterEq: ">=",
	FilterOperatorLess:      "<",
	FilterOperatorGreater:   ">",
}

// Filter is one predicate of a WHERE clause. Values are always bound, never interpolated.
type Filter struct {
	ArgName  string
	Field    string
	Value    any
	Operator string `validate:"required,oneof=eq in not_eq greater_eq less greater is_null"`
	Table    string
}

func (f *Filter) column() string {
	if f.Table == "" {
		return f.Field
	}

	return f.Table + "." + f.Field
}

func (f *Filter) argName() string {
	if f.ArgName == "" {
		return f.Field
	}

	return f.ArgName
}

// GetWhereClause renders the predicate with sqlx named placeholders. An unknown operator
// renders nothing.
func (f *Filter) GetWhereClause() (string, map[string]any) {
	args := map[string]any{}

	if op, ok := comparisons[f.Operator]; ok {
		args[f.argName()] = f.Value

		return fmt.Sprintf("%s %s :%s", f.column(), op, f.argName()), args
	}

	switch f.Operator {
	case FilterOperatorIn:
		return f.inClause(args)
	case FilterIsNull:
		return f.column() + " IS NULL", args
	default:
		return "", args
	}
}

// inClause expands a slice into one placeholder per element.
func (f *Filter) inClause(args map[string]any) (string, map[string]any) {
	val := reflect.ValueOf(f.Value)
	if val.Kind() != reflect.Slice && val.Kind() != reflect.Array {
		args[f.argName()] = f.Value

		return fmt.Sprintf("%s IN (:%s) ", f.column(), f.argName()), args
	}

	named := make([]string, val.Len())

	for idx := range val.Len() {
		key := fmt.Sprintf("%s_%d", f.argName(), idx)
		args[key] = val.Index(idx).Interface()
		named[idx] = ":" + key
	}

	return fmt.Sprintf("%s IN (%s) ", f.column(), strings.Join(named, ", ")), args
}

// FilterGroup joins Filters and nested FilterGroups with Operator.
type FilterGroup struct {
	Filters  []any
	Operator string
}

func (f *FilterGroup) GetWhereClause() (string, map[string]any) {
	args := map[string]any{}
	clauses := make([]string, 0, len(f.Filters))

	for _, item := range f.Filters {
		var (
			where string
			arg   map[string]any
		)

		switch typed := item.(type) {
		case Filter:
			where, arg = typed.GetWhereClause()
		case FilterGroup:
			where, arg = typed.GetWhereClause()
		default:
			continue
		}

		if where == "" {
			continue
		}

		clauses = append(clauses, where)
		maps.Copy(args, arg)
	}

	if len(clauses) == 0 {
		return "", args
	}

	return fmt.Sprintf("(%s)", strings.Join(clauses, " "+f.Operator+" ")), args
}
