package shared

import (
	"net/http/httptest"
	"testing"

	"civitec/internal/listview"
)

func TestParseListQueryDefaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/v1/rh/funcionarios", nil)
	q := ParseListQuery(r, []string{"status"}, 10, 100)
	if q.Search != "" || q.Sort != "" || q.Page != 1 || q.PerPage != 10 {
		t.Fatalf("unexpected defaults: %+v", q)
	}
	if len(q.Filters) != 0 {
		t.Fatalf("expected no filters, got %v", q.Filters)
	}
}

func TestParseListQueryReadsParameters(t *testing.T) {
	r := httptest.NewRequest("GET", "/x?search=silva&sort=name&dir=desc&page=3&perPage=25&status=active&cargo=fiscal", nil)
	q := ParseListQuery(r, []string{"status"}, 10, 100)
	if q.Search != "silva" || q.Sort != "name" || q.Dir != listview.Descending {
		t.Fatalf("unexpected query: %+v", q)
	}
	if q.Page != 3 || q.PerPage != 25 {
		t.Fatalf("unexpected pagination: %+v", q)
	}
	if q.Filters["status"] != "active" {
		t.Fatalf("status filter missing: %v", q.Filters)
	}
	if _, ok := q.Filters["cargo"]; ok {
		t.Fatal("undeclared filter key must be ignored")
	}
}

func TestParseListQueryCapsPerPage(t *testing.T) {
	r := httptest.NewRequest("GET", "/x?perPage=9999", nil)
	q := ParseListQuery(r, nil, 10, 100)
	if q.PerPage != 100 {
		t.Fatalf("perPage should cap at 100, got %d", q.PerPage)
	}
}

func TestParseListQueryAllSentinelClearsFilter(t *testing.T) {
	r := httptest.NewRequest("GET", "/x?status=all", nil)
	q := ParseListQuery(r, []string{"status"}, 10, 100)
	if _, ok := q.Filters["status"]; ok {
		t.Fatal("the all sentinel must not produce a filter")
	}
}

type wire struct {
	ID     int
	Status string
}

func wireColumns() []listview.Column[wire] {
	return []listview.Column[wire]{
		{Key: "id", Value: func(w wire) any { return w.ID }, Sortable: true},
		{Key: "status", Value: func(w wire) any { return w.Status }, Filterable: true},
	}
}

func TestApplyListQueryKeepsRequestedPage(t *testing.T) {
	records := make([]wire, 30)
	for i := range records {
		records[i] = wire{ID: i + 1, Status: "open"}
	}

	r := httptest.NewRequest("GET", "/x?status=open&perPage=5&page=2&sort=id", nil)
	q := ParseListQuery(r, []string{"status"}, 10, 100)

	table := listview.New(wireColumns())
	ApplyListQuery(table, q)
	result := table.View(records)
	if result.Page != 2 {
		t.Fatalf("expected page 2 to survive filter application, got %d", result.Page)
	}
	if len(result.Rows) != 5 || result.Rows[0].ID != 6 {
		t.Fatalf("unexpected page contents: %+v", result.Rows)
	}
}

func TestNewListPayloadEmptyStates(t *testing.T) {
	table := listview.New(wireColumns())
	payload := NewListPayload(table.View(nil))
	if payload.EmptyState != "no_records" {
		t.Fatalf("expected no_records, got %q", payload.EmptyState)
	}

	table.SetFilter("status", "closed")
	payload = NewListPayload(table.View([]wire{{ID: 1, Status: "open"}}))
	if payload.EmptyState != "no_matches" {
		t.Fatalf("expected no_matches, got %q", payload.EmptyState)
	}
}
