package repositories

import (
	"reflect"
	"testing"

	"billino/internal/domain"
	"billino/internal/tablequery"
)

var testSpec = ListSpec{
	Table: "invoices",
	Columns: map[string]string{
		"number":      "number",
		"status":      "status",
		"gross_cents": "gross_cents",
		"issue_date":  "issue_date",
		"notes":       "notes",
	},
	Searchable:  []string{"number", "notes"},
	DefaultSort: "id DESC",
}

func fptr(v float64) *float64 { return &v }

func TestBuildListQueryFiltersAndPaging(t *testing.T) {
	s := tablequery.TableState{
		Filters: []tablequery.ColumnFilter{
			{Field: "number", Operator: tablequery.OpContains, Value: tablequery.StringValue("INV-2026")},
			{Field: "gross_cents", Operator: tablequery.OpGte, Value: tablequery.NumberValue(5000)},
		},
		Sort:       []tablequery.SortField{{Field: "issue_date", Direction: tablequery.Desc}},
		Pagination: tablequery.Pagination{Page: 3, PageSize: 20},
	}

	q, err := buildListQuery(testSpec, "id, number", s)
	if err != nil {
		t.Fatalf("buildListQuery: %v", err)
	}
	wantQuery := "SELECT id, number FROM invoices WHERE number LIKE ? AND gross_cents >= ? ORDER BY issue_date DESC LIMIT ? OFFSET ?"
	if q.Query != wantQuery {
		t.Fatalf("query:\n got %s\nwant %s", q.Query, wantQuery)
	}
	if q.CountQuery != "SELECT COUNT(*) FROM invoices WHERE number LIKE ? AND gross_cents >= ?" {
		t.Fatalf("count query = %s", q.CountQuery)
	}
	wantArgs := []any{"%INV-2026%", float64(5000), 20, 40}
	if !reflect.DeepEqual(q.Args, wantArgs) {
		t.Fatalf("args = %#v, want %#v", q.Args, wantArgs)
	}
	if !reflect.DeepEqual(q.CountArgs, wantArgs[:2]) {
		t.Fatalf("count args = %#v", q.CountArgs)
	}
}

func TestBuildListQueryUnknownFieldRejected(t *testing.T) {
	s := tablequery.TableState{
		Filters: []tablequery.ColumnFilter{
			{Field: "password", Operator: tablequery.OpEquals, Value: tablequery.StringValue("x")},
		},
	}
	_, err := buildListQuery(testSpec, "id", s)
	if !domain.IsValidation(err) {
		t.Fatalf("err = %v, want validation error", err)
	}

	s = tablequery.TableState{
		Sort: []tablequery.SortField{{Field: "secret", Direction: tablequery.Asc}},
	}
	if _, err := buildListQuery(testSpec, "id", s); !domain.IsValidation(err) {
		t.Fatalf("sort err = %v, want validation error", err)
	}
}

func TestBuildListQueryBetween(t *testing.T) {
	s := tablequery.TableState{
		Filters: []tablequery.ColumnFilter{
			{Field: "gross_cents", Operator: tablequery.OpBetween, Value: tablequery.RangeValue(fptr(100), fptr(500))},
		},
	}
	q, err := buildListQuery(testSpec, "id", s)
	if err != nil {
		t.Fatalf("buildListQuery: %v", err)
	}
	if q.CountQuery != "SELECT COUNT(*) FROM invoices WHERE gross_cents >= ? AND gross_cents <= ?" {
		t.Fatalf("count query = %s", q.CountQuery)
	}
	if !reflect.DeepEqual(q.CountArgs, []any{float64(100), float64(500)}) {
		t.Fatalf("args = %#v", q.CountArgs)
	}

	// open-ended range keeps only the bound that is present
	s.Filters[0].Value = tablequery.RangeValue(fptr(100), nil)
	q, err = buildListQuery(testSpec, "id", s)
	if err != nil {
		t.Fatalf("buildListQuery: %v", err)
	}
	if q.CountQuery != "SELECT COUNT(*) FROM invoices WHERE gross_cents >= ?" {
		t.Fatalf("count query = %s", q.CountQuery)
	}

	// a range with neither bound filters nothing
	s.Filters[0].Value = tablequery.RangeValue(nil, nil)
	q, err = buildListQuery(testSpec, "id", s)
	if err != nil {
		t.Fatalf("buildListQuery: %v", err)
	}
	if q.CountQuery != "SELECT COUNT(*) FROM invoices" {
		t.Fatalf("count query = %s", q.CountQuery)
	}
}

func TestBuildListQueryIn(t *testing.T) {
	s := tablequery.TableState{
		Filters: []tablequery.ColumnFilter{
			{Field: "status", Operator: tablequery.OpIn, Value: tablequery.ListValue("draft", "sent")},
		},
	}
	q, err := buildListQuery(testSpec, "id", s)
	if err != nil {
		t.Fatalf("buildListQuery: %v", err)
	}
	if q.CountQuery != "SELECT COUNT(*) FROM invoices WHERE status IN (?,?)" {
		t.Fatalf("count query = %s", q.CountQuery)
	}
	if !reflect.DeepEqual(q.CountArgs, []any{"draft", "sent"}) {
		t.Fatalf("args = %#v", q.CountArgs)
	}

	s.Filters[0].Value = tablequery.ListValue()
	if _, err := buildListQuery(testSpec, "id", s); !domain.IsValidation(err) {
		t.Fatalf("empty list err = %v, want validation error", err)
	}
}

func TestBuildListQuerySearch(t *testing.T) {
	s := tablequery.TableState{
		Search: &tablequery.Search{Query: "chairs"},
	}
	q, err := buildListQuery(testSpec, "id", s)
	if err != nil {
		t.Fatalf("buildListQuery: %v", err)
	}
	if q.CountQuery != "SELECT COUNT(*) FROM invoices WHERE (number LIKE ? OR notes LIKE ?)" {
		t.Fatalf("count query = %s", q.CountQuery)
	}
	if !reflect.DeepEqual(q.CountArgs, []any{"%chairs%", "%chairs%"}) {
		t.Fatalf("args = %#v", q.CountArgs)
	}

	// explicit fields narrow the searched columns
	s.Search.Fields = []string{"notes"}
	q, err = buildListQuery(testSpec, "id", s)
	if err != nil {
		t.Fatalf("buildListQuery: %v", err)
	}
	if q.CountQuery != "SELECT COUNT(*) FROM invoices WHERE (notes LIKE ?)" {
		t.Fatalf("count query = %s", q.CountQuery)
	}

	s.Search.Fields = []string{"password"}
	if _, err := buildListQuery(testSpec, "id", s); !domain.IsValidation(err) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestBuildListQueryDefaults(t *testing.T) {
	q, err := buildListQuery(testSpec, "id", tablequery.TableState{})
	if err != nil {
		t.Fatalf("buildListQuery: %v", err)
	}
	if q.Query != "SELECT id FROM invoices ORDER BY id DESC LIMIT ? OFFSET ?" {
		t.Fatalf("query = %s", q.Query)
	}
	if !reflect.DeepEqual(q.Args, []any{tablequery.FallbackPageSize, 0}) {
		t.Fatalf("args = %#v", q.Args)
	}
}
