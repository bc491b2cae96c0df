package shared

import (
	"net/http"
	"strconv"
	"strings"

	"civitec/internal/listview"
)

// ListQuery is the wire form of the list engine state: every
// collection endpoint accepts the same search/filter/sort/pagination
// parameters.
type ListQuery struct {
	Search  string
	Sort    string
	Dir     listview.Direction
	Page    int
	PerPage int
	Filters map[string]string
}

// ParseListQuery reads list parameters from the URL. Only keys listed
// in filterKeys are honored as filters; everything else is ignored.
// Absent or malformed numbers fall back to defaults, and perPage is
// capped at maxPerPage.
func ParseListQuery(r *http.Request, filterKeys []string, defaultPerPage, maxPerPage int) ListQuery {
	query := r.URL.Query()

	q := ListQuery{
		Search:  strings.TrimSpace(query.Get("search")),
		Sort:    strings.TrimSpace(query.Get("sort")),
		Dir:     listview.Ascending,
		Page:    1,
		PerPage: defaultPerPage,
		Filters: map[string]string{},
	}

	if strings.EqualFold(strings.TrimSpace(query.Get("dir")), string(listview.Descending)) {
		q.Dir = listview.Descending
	}
	if raw := query.Get("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			q.Page = v
		}
	}
	if raw := query.Get("perPage"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			q.PerPage = v
		}
	}
	if maxPerPage > 0 && q.PerPage > maxPerPage {
		q.PerPage = maxPerPage
	}

	for _, key := range filterKeys {
		value := strings.TrimSpace(query.Get(key))
		if value == "" || value == listview.FilterAll {
			continue
		}
		q.Filters[key] = value
	}

	return q
}

// ApplyListQuery pushes parsed parameters into a table. The page is
// set last so the reset-on-change rules do not clobber an explicit
// page request.
func ApplyListQuery[T any](table *listview.Table[T], q ListQuery) {
	if q.PerPage > 0 {
		table.SetPerPage(q.PerPage)
	}
	table.SetSearch(q.Search)
	for key, value := range q.Filters {
		table.SetFilter(key, value)
	}
	if q.Sort != "" {
		table.SetSort(q.Sort, q.Dir)
	}
	table.SetPage(q.Page)
}

// ListPayload is the JSON shape list endpoints respond with.
type ListPayload struct {
	Items        any    `json:"items"`
	Total        int    `json:"total"`
	Page         int    `json:"page"`
	PerPage      int    `json:"perPage"`
	TotalPages   int    `json:"totalPages"`
	VisiblePages []int  `json:"visiblePages"`
	EmptyState   string `json:"emptyState,omitempty"`
}

// NewListPayload converts an engine result for the wire. The two empty
// states are kept distinct so clients can tell "nothing here yet" from
// "your filters matched nothing".
func NewListPayload[T any](result listview.Result[T]) ListPayload {
	empty := ""
	switch result.Empty {
	case listview.EmptySource:
		empty = "no_records"
	case listview.EmptyFiltered:
		empty = "no_matches"
	}
	return ListPayload{
		Items:        result.Rows,
		Total:        result.Total,
		Page:         result.Page,
		PerPage:      result.PerPage,
		TotalPages:   result.TotalPages,
		VisiblePages: listview.VisiblePages(result.Page, result.TotalPages),
		EmptyState:   empty,
	}
}
