// Package listview implements the generic list pipeline used by every
// collection endpoint: free-text search, exact-match filters, stable
// sort and pagination, applied in that fixed order over an in-memory
// slice the caller supplies. The engine never mutates the input.
package listview

import (
	"fmt"
	"sort"
	"strings"
)

type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// FilterAll is the sentinel option that clears a filter.
const FilterAll = "all"

// Column describes one projected field of a row. Value extracts the
// field; its string form is what search and filters compare against.
type Column[T any] struct {
	Key        string
	Label      string
	Value      func(T) any
	Sortable   bool
	Filterable bool
}

// Filter describes a user-selectable filter and its option list, for
// callers that render filter controls.
type Filter struct {
	Key     string   `json:"key"`
	Label   string   `json:"label"`
	Options []string `json:"options"`
}

type EmptyState int

const (
	EmptyNone EmptyState = iota
	// EmptySource means the caller's record slice itself was empty.
	EmptySource
	// EmptyFiltered means records exist but search/filters matched none.
	EmptyFiltered
)

// Table holds the per-instance view state. One Table belongs to one
// request or one screen; instances share nothing.
type Table[T any] struct {
	columns []Column[T]
	search  string
	filters map[string]string
	sortKey string
	sortDir Direction
	page    int
	perPage int
}

const defaultPerPage = 10

func New[T any](columns []Column[T]) *Table[T] {
	return &Table[T]{
		columns: columns,
		filters: map[string]string{},
		sortDir: Ascending,
		page:    1,
		perPage: defaultPerPage,
	}
}

// SetSearch replaces the search term. Changing the term resets the
// page cursor to the first page.
func (t *Table[T]) SetSearch(term string) {
	if term == t.search {
		return
	}
	t.search = term
	t.page = 1
}

// SetFilter activates an exact-match filter. Only columns declared
// Filterable accept one; other keys are ignored. The FilterAll
// sentinel (or an empty value) clears the filter. Any change resets
// the page.
func (t *Table[T]) SetFilter(key, value string) {
	col, ok := t.column(key)
	if !ok || !col.Filterable {
		return
	}
	if value == "" || value == FilterAll {
		if _, ok := t.filters[key]; !ok {
			return
		}
		delete(t.filters, key)
		t.page = 1
		return
	}
	if t.filters[key] == value {
		return
	}
	t.filters[key] = value
	t.page = 1
}

// ToggleSort sorts by the given column, flipping direction when the
// column is already active and resetting to ascending otherwise.
// Columns not declared Sortable are ignored.
func (t *Table[T]) ToggleSort(key string) {
	if !t.sortable(key) {
		return
	}
	if t.sortKey == key {
		if t.sortDir == Ascending {
			t.sortDir = Descending
		} else {
			t.sortDir = Ascending
		}
		return
	}
	t.sortKey = key
	t.sortDir = Ascending
}

func (t *Table[T]) SetSort(key string, dir Direction) {
	if !t.sortable(key) {
		return
	}
	t.sortKey = key
	if dir == Descending {
		t.sortDir = Descending
	} else {
		t.sortDir = Ascending
	}
}

// SetPage moves the cursor. Out-of-range values are clamped when the
// view is produced, so requesting a page past the end has no effect
// beyond landing on the last page.
func (t *Table[T]) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	t.page = page
}

// SetPerPage changes the page size and resets to the first page.
func (t *Table[T]) SetPerPage(perPage int) {
	if perPage < 1 {
		return
	}
	t.perPage = perPage
	t.page = 1
}

// Result is one rendered page of the pipeline output.
type Result[T any] struct {
	Rows       []T
	Total      int
	Page       int
	PerPage    int
	TotalPages int
	Empty      EmptyState
}

// View runs search, then filters, then sort, then pagination over the
// records. Pagination is last so page contents reflect the sorted,
// filtered sequence. The input slice is left untouched.
func (t *Table[T]) View(records []T) Result[T] {
	filtered := t.applySearch(records)
	filtered = t.applyFilters(filtered)
	t.applySort(filtered)

	total := len(filtered)
	totalPages := (total + t.perPage - 1) / t.perPage
	if totalPages < 1 {
		totalPages = 1
	}
	page := t.page
	if page > totalPages {
		page = totalPages
	}
	t.page = page

	start := (page - 1) * t.perPage
	end := start + t.perPage
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	empty := EmptyNone
	if len(records) == 0 {
		empty = EmptySource
	} else if total == 0 {
		empty = EmptyFiltered
	}

	return Result[T]{
		Rows:       filtered[start:end],
		Total:      total,
		Page:       page,
		PerPage:    t.perPage,
		TotalPages: totalPages,
		Empty:      empty,
	}
}

func (t *Table[T]) applySearch(records []T) []T {
	out := make([]T, 0, len(records))
	if t.search == "" {
		return append(out, records...)
	}
	needle := strings.ToLower(t.search)
	for _, row := range records {
		for _, col := range t.columns {
			if strings.Contains(strings.ToLower(stringify(col.Value(row))), needle) {
				out = append(out, row)
				break
			}
		}
	}
	return out
}

func (t *Table[T]) applyFilters(records []T) []T {
	if len(t.filters) == 0 {
		return records
	}
	out := records[:0]
	for _, row := range records {
		if t.matchesFilters(row) {
			out = append(out, row)
		}
	}
	return out
}

func (t *Table[T]) matchesFilters(row T) bool {
	for key, want := range t.filters {
		col, ok := t.column(key)
		if !ok {
			return false
		}
		if stringify(col.Value(row)) != want {
			return false
		}
	}
	return true
}

func (t *Table[T]) applySort(records []T) {
	if t.sortKey == "" {
		return
	}
	col, ok := t.column(t.sortKey)
	if !ok || !col.Sortable {
		return
	}
	descending := t.sortDir == Descending
	sort.SliceStable(records, func(i, j int) bool {
		if descending {
			return lessValue(col.Value(records[j]), col.Value(records[i]))
		}
		return lessValue(col.Value(records[i]), col.Value(records[j]))
	})
}

func (t *Table[T]) column(key string) (Column[T], bool) {
	for _, col := range t.columns {
		if col.Key == key {
			return col, true
		}
	}
	return Column[T]{}, false
}

func (t *Table[T]) sortable(key string) bool {
	col, ok := t.column(key)
	return ok && col.Sortable
}

// FilterableKeys lists the columns filters may target, in column
// order. Callers binding query parameters use this to decide which
// keys to honor.
func (t *Table[T]) FilterableKeys() []string {
	var keys []string
	for _, col := range t.columns {
		if col.Filterable {
			keys = append(keys, col.Key)
		}
	}
	return keys
}

// lessValue compares numerically when both values are numbers and by
// string form otherwise; numbers order before non-numbers so mixed
// columns stay deterministic.
func lessValue(a, b any) bool {
	fa, aNum := asFloat(a)
	fb, bNum := asFloat(b)
	switch {
	case aNum && bNum:
		return fa < fb
	case aNum:
		return true
	case bNum:
		return false
	default:
		return stringify(a) < stringify(b)
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func stringify(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
