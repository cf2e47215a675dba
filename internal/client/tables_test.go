package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"billino/internal/tablequery"
)

type testCustomer struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func TestFetchTableDataSendsIndexedQuery(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[{"id":1,"name":"Acme"}],"total":11,"page":2,"pageSize":10,"pageCount":2}`))
	}))
	defer srv.Close()

	state := tablequery.TableState{
		Filters: []tablequery.ColumnFilter{
			{Field: "name", Operator: tablequery.OpContains, Value: tablequery.StringValue("Acme")},
		},
		Pagination: tablequery.Pagination{Page: 2, PageSize: 10},
	}

	page, err := FetchTableData[testCustomer](context.Background(), New(srv.URL), "/api/customers", state)
	if err != nil {
		t.Fatalf("FetchTableData: %v", err)
	}
	if gotQuery != "filter%5B0%5D.field=name&filter%5B0%5D.operator=contains&filter%5B0%5D.value=Acme&page=2&pageSize=10" {
		t.Fatalf("query = %s", gotQuery)
	}
	if len(page.Items) != 1 || page.Items[0].Name != "Acme" {
		t.Fatalf("items = %#v", page.Items)
	}
	if page.Total != 11 || page.Page != 2 || page.PageCount != 2 {
		t.Fatalf("envelope = %+v", page)
	}
}

func TestFetchTableDataZeroStateOmitsQuery(t *testing.T) {
	var gotURL string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.String()
		w.Write([]byte(`{"items":[],"total":0,"page":1,"pageSize":10,"pageCount":0}`))
	}))
	defer srv.Close()

	if _, err := FetchTableData[testCustomer](context.Background(), New(srv.URL), "/api/customers", tablequery.TableState{}); err != nil {
		t.Fatalf("FetchTableData: %v", err)
	}
	if gotURL != "/api/customers" {
		t.Fatalf("url = %s, want bare path", gotURL)
	}
}

func TestFetchTableDataPropagatesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"unknown filter field: bogus","request_id":"r1"}`))
	}))
	defer srv.Close()

	state := tablequery.TableState{
		Filters: []tablequery.ColumnFilter{
			{Field: "bogus", Operator: tablequery.OpEquals, Value: tablequery.StringValue("x")},
		},
	}
	_, err := FetchTableData[testCustomer](context.Background(), New(srv.URL), "/api/customers", state)
	if !IsStatus(err, http.StatusBadRequest) {
		t.Fatalf("err = %v, want 400 APIError", err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Detail != "unknown filter field: bogus" {
		t.Fatalf("detail = %#v", err)
	}
}

func TestClientSendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"items":[],"total":0,"page":1,"pageSize":10,"pageCount":0}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.Token = "tok123"
	if _, err := FetchTableData[testCustomer](context.Background(), c, "/api/customers", tablequery.TableState{}); err != nil {
		t.Fatalf("FetchTableData: %v", err)
	}
	if gotAuth != "Bearer tok123" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
}
