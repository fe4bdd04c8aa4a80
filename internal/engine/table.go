package engine

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"admin-backend/internal/metadata"
)

// Sort directions.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

const defaultPageSize = 10

// TableView derives the rows to display from an in-memory collection for the
// current interaction state (search term, sort key/direction, page number).
// It owns no data of its own beyond that state and never performs I/O; the
// owner replaces the rows wholesale after every reload.
type TableView struct {
	rows     []map[string]any
	columns  []metadata.Column
	pageSize int

	searchTerm string
	sortKey    string
	sortDir    string
	page       int
}

// NewTableView creates a table view over the given rows. A nil or empty
// columns slice derives columns from the first row; pageSize <= 0 falls back
// to the default of 10.
func NewTableView(rows []map[string]any, columns []metadata.Column, pageSize int) *TableView {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &TableView{
		rows:     rows,
		columns:  columns,
		pageSize: pageSize,
		sortDir:  SortAsc,
		page:     1,
	}
}

// SetRows replaces the backing rows, keeping search/sort/page state. Used
// after a collection reload; discarding the view resets the state instead.
func (v *TableView) SetRows(rows []map[string]any) {
	v.rows = rows
}

// SetSearchTerm replaces the search term and resets the page to 1: a new
// search invalidates the old page context, and the first page is the only
// one guaranteed not to be past the end of the filtered results.
func (v *TableView) SetSearchTerm(term string) {
	v.searchTerm = term
	v.page = 1
}

// SetSort sorts by the given column, flipping direction when the column is
// already the sort key. The page number is not reset.
func (v *TableView) SetSort(columnKey string) {
	if v.sortKey == columnKey && v.sortDir == SortAsc {
		v.sortDir = SortDesc
	} else {
		v.sortKey = columnKey
		v.sortDir = SortAsc
	}
}

// SortBy sets the sort column and direction directly, for callers that carry
// an explicit direction (e.g. "-created_at" query params) instead of toggling.
func (v *TableView) SortBy(columnKey string, dir string) {
	if dir != SortDesc {
		dir = SortAsc
	}
	v.sortKey = columnKey
	v.sortDir = dir
}

// SetPage moves to page n, clamped to [1, TotalPages()].
func (v *TableView) SetPage(n int) {
	total := v.TotalPages()
	if n < 1 {
		n = 1
	}
	if n > total {
		n = total
	}
	v.page = n
}

func (v *TableView) SearchTerm() string { return v.searchTerm }
func (v *TableView) SortKey() string    { return v.sortKey }
func (v *TableView) SortDir() string    { return v.sortDir }
func (v *TableView) Page() int          { return v.page }
func (v *TableView) PageSize() int      { return v.pageSize }

// Columns returns the supplied column descriptors, or derives one column per
// key of the first row. Derived columns are ordered by key name so the result
// is deterministic; the header is the key itself.
func (v *TableView) Columns() []metadata.Column {
	if len(v.columns) > 0 {
		return v.columns
	}
	if len(v.rows) == 0 {
		return nil
	}
	keys := make([]string, 0, len(v.rows[0]))
	for k := range v.rows[0] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	columns := make([]metadata.Column, len(keys))
	for i, k := range keys {
		columns[i] = metadata.Column{Key: k, Header: k}
	}
	return columns
}

// FilteredCount returns the number of rows matching the current search term.
func (v *TableView) FilteredCount() int {
	return len(v.filtered())
}

// TotalPages returns ceil(filteredCount / pageSize), never less than 1.
func (v *TableView) TotalPages() int {
	count := v.FilteredCount()
	if count == 0 {
		return 1
	}
	return (count + v.pageSize - 1) / v.pageSize
}

// VisibleRows produces the rows to render for the current state:
// filter by search term, sort by the sort column, then slice the page.
func (v *TableView) VisibleRows() []map[string]any {
	rows := v.filtered()
	rows = v.sorted(rows)

	start := (v.page - 1) * v.pageSize
	if start >= len(rows) {
		return nil
	}
	end := start + v.pageSize
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}

func (v *TableView) filtered() []map[string]any {
	if v.searchTerm == "" {
		return v.rows
	}
	term := strings.ToLower(v.searchTerm)
	columns := v.Columns()

	var matched []map[string]any
	for _, row := range v.rows {
		for _, col := range columns {
			if strings.Contains(strings.ToLower(CellString(row[col.Key])), term) {
				matched = append(matched, row)
				break
			}
		}
	}
	return matched
}

func (v *TableView) sorted(rows []map[string]any) []map[string]any {
	if v.sortKey == "" {
		return rows
	}
	out := make([]map[string]any, len(rows))
	copy(out, rows)

	key := v.sortKey
	desc := v.sortDir == SortDesc
	sort.SliceStable(out, func(i, j int) bool {
		c := compareCells(out[i][key], out[j][key])
		if desc {
			return c > 0
		}
		return c < 0
	})
	return out
}

// compareCells defines a total order over cell values: when both operands are
// numbers they compare numerically, otherwise their stringified values compare
// lexicographically. Missing values stringify to "" and therefore sort before
// all real values in ascending order.
func compareCells(a, b any) int {
	an, aok := toFloat64(a)
	bn, bok := toFloat64(b)
	if aok && bok {
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		}
		return 0
	}
	return strings.Compare(CellString(a), CellString(b))
}

// CellString converts a cell value to its display string. Missing values are
// treated as the empty string for filter and sort purposes.
func CellString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case time.Time:
		return val.Format(time.RFC3339)
	case []byte:
		return string(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
