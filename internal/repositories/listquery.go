// Package repositories executes SQL for the invoicing entities. List
// queries are driven by a tablequery.TableState against a per-entity
// column whitelist, so the filterable surface of every endpoint is
// declared in one place.
package repositories

import (
	"fmt"
	"strings"

	"billino/internal/domain"
	"billino/internal/tablequery"
)

// ListSpec declares what one entity's list endpoint exposes: the table
// to query, the API-field to column mapping, which columns free-text
// search touches, and the order applied when the caller sends none.
type ListSpec struct {
	Table       string
	Columns     map[string]string
	Searchable  []string
	DefaultSort string
}

// sqlListQuery is the rendered result: one query for the page and one
// for the total, sharing the WHERE arguments.
type sqlListQuery struct {
	Query      string
	CountQuery string
	Args       []any
	CountArgs  []any
}

// buildListQuery renders state into SQL. Fields outside the whitelist
// are a ValidationError: the codec may be tolerant, the database is
// not.
func buildListQuery(spec ListSpec, selectCols string, s tablequery.TableState) (sqlListQuery, error) {
	var (
		where []string
		args  []any
	)

	for _, f := range s.Filters {
		col, ok := spec.Columns[f.Field]
		if !ok {
			return sqlListQuery{}, domain.Invalid(f.Field, "unknown filter field")
		}
		cond, condArgs, err := filterCondition(col, f)
		if err != nil {
			return sqlListQuery{}, err
		}
		if cond != "" {
			where = append(where, cond)
			args = append(args, condArgs...)
		}
	}

	if s.Search != nil && s.Search.Query != "" {
		cols := spec.Searchable
		if len(s.Search.Fields) > 0 {
			cols = cols[:0:0]
			for _, f := range s.Search.Fields {
				col, ok := spec.Columns[f]
				if !ok {
					return sqlListQuery{}, domain.Invalid(f, "unknown search field")
				}
				cols = append(cols, col)
			}
		}
		if len(cols) > 0 {
			likes := make([]string, len(cols))
			for i, col := range cols {
				likes[i] = col + " LIKE ?"
				args = append(args, "%"+s.Search.Query+"%")
			}
			where = append(where, "("+strings.Join(likes, " OR ")+")")
		}
	}

	whereSQL := ""
	if len(where) > 0 {
		whereSQL = " WHERE " + strings.Join(where, " AND ")
	}

	orderSQL, err := orderClause(spec, s.Sort)
	if err != nil {
		return sqlListQuery{}, err
	}

	page := s.Pagination.Page
	if page < 1 {
		page = 1
	}
	size := s.Pagination.PageSize
	if size < 1 {
		size = tablequery.FallbackPageSize
	}

	q := sqlListQuery{
		CountQuery: "SELECT COUNT(*) FROM " + spec.Table + whereSQL,
		CountArgs:  append([]any(nil), args...),
	}
	q.Query = "SELECT " + selectCols + " FROM " + spec.Table + whereSQL + orderSQL + " LIMIT ? OFFSET ?"
	q.Args = append(args, size, (page-1)*size)
	return q, nil
}

func filterCondition(col string, f tablequery.ColumnFilter) (string, []any, error) {
	v := f.Value
	switch f.Operator {
	case tablequery.OpContains:
		return col + " LIKE ?", []any{"%" + scalarString(v) + "%"}, nil
	case tablequery.OpStartsWith:
		return col + " LIKE ?", []any{scalarString(v) + "%"}, nil
	case tablequery.OpExact, tablequery.OpEquals:
		return col + " = ?", []any{scalarArg(v)}, nil
	case tablequery.OpGt:
		return col + " > ?", []any{scalarArg(v)}, nil
	case tablequery.OpLt:
		return col + " < ?", []any{scalarArg(v)}, nil
	case tablequery.OpGte:
		return col + " >= ?", []any{scalarArg(v)}, nil
	case tablequery.OpLte:
		return col + " <= ?", []any{scalarArg(v)}, nil
	case tablequery.OpBetween:
		if v.Kind != tablequery.KindRange {
			return "", nil, domain.Invalid(f.Field, "between expects a {min,max} value")
		}
		var (
			parts []string
			args  []any
		)
		if v.Range.Min != nil {
			parts = append(parts, col+" >= ?")
			args = append(args, *v.Range.Min)
		}
		if v.Range.Max != nil {
			parts = append(parts, col+" <= ?")
			args = append(args, *v.Range.Max)
		}
		if len(parts) == 0 {
			return "", nil, nil
		}
		return strings.Join(parts, " AND "), args, nil
	case tablequery.OpIn:
		if v.Kind != tablequery.KindList || len(v.List) == 0 {
			return "", nil, domain.Invalid(f.Field, "in expects a non-empty list")
		}
		args := make([]any, len(v.List))
		for i, item := range v.List {
			args[i] = item
		}
		return col + " IN (?" + strings.Repeat(",?", len(v.List)-1) + ")", args, nil
	default:
		return "", nil, domain.Invalid(f.Field, "unknown operator")
	}
}

func orderClause(spec ListSpec, sort []tablequery.SortField) (string, error) {
	if len(sort) == 0 {
		if spec.DefaultSort == "" {
			return "", nil
		}
		return " ORDER BY " + spec.DefaultSort, nil
	}
	parts := make([]string, 0, len(sort))
	for _, sf := range sort {
		col, ok := spec.Columns[sf.Field]
		if !ok {
			return "", domain.Invalid(sf.Field, "unknown sort field")
		}
		dir := "ASC"
		if sf.Direction == tablequery.Desc {
			dir = "DESC"
		}
		parts = append(parts, col+" "+dir)
	}
	return " ORDER BY " + strings.Join(parts, ", "), nil
}

func scalarArg(v tablequery.FilterValue) any {
	switch v.Kind {
	case tablequery.KindNumber:
		return v.Num
	case tablequery.KindBool:
		return v.Bool
	default:
		return v.Str
	}
}

func scalarString(v tablequery.FilterValue) string {
	if v.Kind == tablequery.KindString {
		return v.Str
	}
	return fmt.Sprint(scalarArg(v))
}
