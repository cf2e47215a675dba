package tablequery

import (
	"net/url"
	"strconv"
	"strings"
)

// FallbackPageSize is used when a Codec is built without a default.
const FallbackPageSize = 10

// Codec maps a TableState to and from URL query parameters under a
// namespace prefix. Two codecs with different prefixes share one query
// string without touching each other's keys, so several tables can
// live on one page. The key names are a compatibility contract:
// changing them breaks previously shared links.
type Codec struct {
	NS              string
	DefaultPageSize int
}

func (c Codec) defaultPageSize() int {
	if c.DefaultPageSize > 0 {
		return c.DefaultPageSize
	}
	return FallbackPageSize
}

func (c Codec) filterKey() string   { return c.NS + "filter" }
func (c Codec) sortKey() string     { return c.NS + "sort" }
func (c Codec) pageKey() string     { return c.NS + "page" }
func (c Codec) pageSizeKey() string { return c.NS + "pageSize" }
func (c Codec) queryKey() string    { return c.NS + "q" }
func (c Codec) searchFieldsKey() string {
	return c.NS + "searchFields"
}

func (c Codec) ownedKeys() []string {
	return []string{
		c.filterKey(), c.sortKey(), c.pageKey(),
		c.pageSizeKey(), c.queryKey(), c.searchFieldsKey(),
	}
}

// Decode reads the namespace's keys out of q and rebuilds the state.
// Decoding never fails: unknown operators and malformed entries are
// dropped, unparsable pagination falls back to page 1 and the default
// page size. Foreign query parameters are ignored.
func (c Codec) Decode(q url.Values) TableState {
	s := TableState{
		Pagination: Pagination{
			Page:     parsePositiveInt(q.Get(c.pageKey()), 1),
			PageSize: parsePositiveInt(q.Get(c.pageSizeKey()), c.defaultPageSize()),
		},
	}

	for _, raw := range q[c.filterKey()] {
		parts := strings.SplitN(raw, ":", 3)
		if len(parts) < 2 {
			continue
		}
		op := Operator(parts[1])
		if !op.Valid() {
			continue
		}
		value := ""
		if len(parts) == 3 {
			value = parts[2]
		}
		if unescaped, err := url.QueryUnescape(value); err == nil {
			value = unescaped
		}
		s.Filters = append(s.Filters, ColumnFilter{
			Field:    parts[0],
			Operator: op,
			Value:    parseFilterValue(value),
		})
	}

	for _, raw := range q[c.sortKey()] {
		parts := strings.SplitN(raw, ":", 2)
		if len(parts) != 2 || parts[0] == "" {
			continue
		}
		s.Sort = append(s.Sort, SortField{
			Field:     parts[0],
			Direction: Direction(parts[1]),
		})
	}

	if query := q.Get(c.queryKey()); query != "" {
		search := &Search{Query: query}
		if fields := q.Get(c.searchFieldsKey()); fields != "" {
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

// Apply returns a copy of q with this namespace's keys cleared and
// rewritten from s. Keys owned by other namespaces, or by the rest of
// the application, come through untouched.
func (c Codec) Apply(q url.Values, s TableState) url.Values {
	next := c.Clear(q)

	for _, f := range s.Filters {
		next.Add(c.filterKey(),
			f.Field+":"+string(f.Operator)+":"+url.QueryEscape(f.Value.encode()))
	}
	for _, sf := range s.Sort {
		next.Add(c.sortKey(), sf.Field+":"+string(sf.Direction))
	}
	next.Set(c.pageKey(), strconv.Itoa(clampPositive(s.Pagination.Page)))
	next.Set(c.pageSizeKey(),
		strconv.Itoa(clampPositiveDefault(s.Pagination.PageSize, c.defaultPageSize())))
	if s.Search != nil && s.Search.Query != "" {
		next.Set(c.queryKey(), s.Search.Query)
		if len(s.Search.Fields) > 0 {
			next.Set(c.searchFieldsKey(), strings.Join(s.Search.Fields, ","))
		}
	}

	return next
}

// Clear returns a copy of q without any key this namespace owns.
func (c Codec) Clear(q url.Values) url.Values {
	next := url.Values{}
	for key, vals := range q {
		next[key] = append([]string(nil), vals...)
	}
	for _, key := range c.ownedKeys() {
		next.Del(key)
	}
	return next
}

func parsePositiveInt(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func clampPositive(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

func clampPositiveDefault(n, fallback int) int {
	if n < 1 {
		return fallback
	}
	return n
}
