package tablequery

import (
	"net/url"
	"strconv"
	"strings"
)

// BuildBackendQuery renders s in the indexed form the list endpoints
// accept:
//
//	filter[0].field=X&filter[0].operator=Y&filter[0].value=Z&...
//	sort[0].field=F&sort[0].direction=D&...
//	page=N&pageSize=M&q=text&searchFields=a,b
//
// Filter order and sort priority are carried by the indexes. List and
// range values are JSON-stringified. The string is built in order
// rather than through url.Values so the parameter sequence matches the
// state, and is empty for a zero-value state.
func BuildBackendQuery(s TableState) string {
	var b strings.Builder

	pair := func(key, value string) {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(value))
	}

	for i, f := range s.Filters {
		idx := "filter[" + strconv.Itoa(i) + "]"
		pair(idx+".field", f.Field)
		pair(idx+".operator", string(f.Operator))
		pair(idx+".value", f.Value.encode())
	}
	for i, sf := range s.Sort {
		idx := "sort[" + strconv.Itoa(i) + "]"
		pair(idx+".field", sf.Field)
		pair(idx+".direction", string(sf.Direction))
	}
	if s.Pagination.Page > 0 || s.Pagination.PageSize > 0 {
		pair("page", strconv.Itoa(clampPositive(s.Pagination.Page)))
		pair("pageSize", strconv.Itoa(clampPositive(s.Pagination.PageSize)))
	}
	if s.Search != nil && s.Search.Query != "" {
		pair("q", s.Search.Query)
		if len(s.Search.Fields) > 0 {
			pair("searchFields", strings.Join(s.Search.Fields, ","))
		}
	}

	return b.String()
}

// ParseBackendQuery is the server-side inverse of BuildBackendQuery.
// It shares the codec's tolerance: entries with unknown operators are
// dropped and bad pagination falls back to page 1 / defaultPageSize.
// Indexes are read contiguously from 0; a gap ends the sequence.
func ParseBackendQuery(q url.Values, defaultPageSize int) TableState {
	if defaultPageSize < 1 {
		defaultPageSize = FallbackPageSize
	}
	s := TableState{
		Pagination: Pagination{
			Page:     parsePositiveInt(q.Get("page"), 1),
			PageSize: parsePositiveInt(q.Get("pageSize"), defaultPageSize),
		},
	}

	for i := 0; ; i++ {
		idx := "filter[" + strconv.Itoa(i) + "]"
		field := q.Get(idx + ".field")
		if field == "" {
			break
		}
		op := Operator(q.Get(idx + ".operator"))
		if !op.Valid() {
			continue
		}
		s.Filters = append(s.Filters, ColumnFilter{
			Field:    field,
			Operator: op,
			Value:    parseFilterValue(q.Get(idx + ".value")),
		})
	}

	for i := 0; ; i++ {
		idx := "sort[" + strconv.Itoa(i) + "]"
		field := q.Get(idx + ".field")
		if field == "" {
			break
		}
		s.Sort = append(s.Sort, SortField{
			Field:     field,
			Direction: Direction(q.Get(idx + ".direction")),
		})
	}

	if query := q.Get("q"); query != "" {
		search := &Search{Query: query}
		if fields := q.Get("searchFields"); fields != "" {
			for _, f := range strings.Split(fields, ",") {
				if f = strings.TrimSpace(f); f != "" {
					search.Fields = append(search.Fields, f)
				}
			}
		}
		s.Search = search
	}

	return s
}
