// Package tablequery models the query state of a data table (filters,
// sort order, free-text search, pagination) together with its two wire
// encodings: the namespaced URL form shared with browsers and the
// indexed form the list endpoints accept.
package tablequery

import (
	"encoding/json"
	"math"
	"strconv"
)

type Operator string

const (
	OpContains   Operator = "contains"
	OpStartsWith Operator = "startsWith"
	OpExact      Operator = "exact"
	OpEquals     Operator = "equals"
	OpBetween    Operator = "between"
	OpIn         Operator = "in"
	OpGt         Operator = "gt"
	OpLt         Operator = "lt"
	OpGte        Operator = "gte"
	OpLte        Operator = "lte"
)

var knownOperators = map[Operator]bool{
	OpContains:   true,
	OpStartsWith: true,
	OpExact:      true,
	OpEquals:     true,
	OpBetween:    true,
	OpIn:         true,
	OpGt:         true,
	OpLt:         true,
	OpGte:        true,
	OpLte:        true,
}

// Valid reports whether o is part of the filter operator enumeration.
// Decoding drops filters whose operator is not valid.
func (o Operator) Valid() bool { return knownOperators[o] }

type ValueKind int

const (
	KindString ValueKind = iota
	KindNumber
	KindBool
	KindList
	KindRange
)

// Range bounds a "between" filter. Either side may be open.
type Range struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// FilterValue is the tagged union of value shapes a filter can carry.
// Only the field matching Kind is meaningful; constructors below keep
// the pairing honest. Whether the shape suits the operator (a list for
// "in", a range for "between") is the producer's contract, not the
// codec's.
type FilterValue struct {
	Kind  ValueKind
	Str   string
	Num   float64
	Bool  bool
	List  []string
	Range Range
}

func StringValue(s string) FilterValue  { return FilterValue{Kind: KindString, Str: s} }
func NumberValue(n float64) FilterValue { return FilterValue{Kind: KindNumber, Num: n} }
func BoolValue(b bool) FilterValue      { return FilterValue{Kind: KindBool, Bool: b} }
func ListValue(items ...string) FilterValue {
	return FilterValue{Kind: KindList, List: items}
}
func RangeValue(min, max *float64) FilterValue {
	return FilterValue{Kind: KindRange, Range: Range{Min: min, Max: max}}
}

// encode renders the value as its raw wire text: primitives verbatim,
// lists and ranges as JSON. Escaping is the codec's job.
func (v FilterValue) encode() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindList:
		b, err := json.Marshal(v.List)
		if err != nil {
			return "[]"
		}
		return string(b)
	case KindRange:
		b, err := json.Marshal(v.Range)
		if err != nil {
			return "{}"
		}
		return string(b)
	default:
		return v.Str
	}
}

// parseFilterValue is the inverse of encode: JSON first, raw string as
// the fallback so arbitrary user text never fails to decode.
func parseFilterValue(raw string) FilterValue {
	var any interface{}
	if err := json.Unmarshal([]byte(raw), &any); err != nil {
		return StringValue(raw)
	}
	switch t := any.(type) {
	case float64:
		return NumberValue(t)
	case bool:
		return BoolValue(t)
	case []interface{}:
		items := make([]string, 0, len(t))
		for _, it := range t {
			s, ok := it.(string)
			if !ok {
				return StringValue(raw)
			}
			items = append(items, s)
		}
		return ListValue(items...)
	case map[string]interface{}:
		var r Range
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			return StringValue(raw)
		}
		return FilterValue{Kind: KindRange, Range: r}
	case string:
		return StringValue(t)
	default:
		return StringValue(raw)
	}
}

// ColumnFilter is one predicate on one column.
type ColumnFilter struct {
	Field    string
	Operator Operator
	Value    FilterValue
}

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// SortField is one sort key; a slice of them is a multi-column sort
// with the first entry taking priority.
type SortField struct {
	Field     string
	Direction Direction
}

// Search is a free-text query, optionally restricted to a subset of
// columns. Empty Fields means the server decides what is searchable.
type Search struct {
	Query  string
	Fields []string
}

type Pagination struct {
	Page     int // 1-based
	PageSize int
}

// TableState is everything needed to reproduce one table view. It has
// no identity of its own: it is derived from a query string and
// serialized straight back to one.
type TableState struct {
	Filters    []ColumnFilter
	Sort       []SortField
	Search     *Search
	Pagination Pagination
}

// Page is the envelope list endpoints return.
type Page[T any] struct {
	Items     []T `json:"items"`
	Total     int `json:"total"`
	Page      int `json:"page"`
	PageSize  int `json:"pageSize"`
	PageCount int `json:"pageCount"`
}

// NewPage fills the envelope, deriving PageCount from Total and size.
func NewPage[T any](items []T, total, page, pageSize int) Page[T] {
	if items == nil {
		items = []T{}
	}
	count := 0
	if pageSize > 0 {
		count = int(math.Ceil(float64(total) / float64(pageSize)))
	}
	return Page[T]{
		Items:     items,
		Total:     total,
		Page:      page,
		PageSize:  pageSize,
		PageCount: count,
	}
}
