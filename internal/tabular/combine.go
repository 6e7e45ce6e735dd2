package tabular

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ErrHeaderMismatch indicates a table's header differs from the first table's
// under the strict policy.
var ErrHeaderMismatch = errors.New("header does not match combined table")

// HeaderPolicy decides how tables with differing headers are combined.
type HeaderPolicy string

const (
	// HeaderPolicyFirst takes the first table's header and fits every later
	// row to its width, padding or truncating by position.
	HeaderPolicyFirst HeaderPolicy = "first"
	// HeaderPolicyStrict rejects tables whose header differs from the first.
	HeaderPolicyStrict HeaderPolicy = "strict"
	// HeaderPolicyUnion merges columns by name in first-seen order and leaves
	// cells blank where a table lacks a column.
	HeaderPolicyUnion HeaderPolicy = "union"
)

// ParseHeaderPolicy validates a policy name.
func ParseHeaderPolicy(s string) (HeaderPolicy, error) {
	switch p := HeaderPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case HeaderPolicyFirst, HeaderPolicyStrict, HeaderPolicyUnion:
		return p, nil
	default:
		return "", fmt.Errorf("unknown header policy %q", s)
	}
}

// Source is one document's table, labelled for reporting.
type Source struct {
	Label string
	Table *Table
}

// Rejection names a source left out of the combined table.
type Rejection struct {
	Label string
	Err   error
}

// Combine concatenates the rows of sources in order. It returns nil when
// there are no sources; callers report that as "no data extracted".
func Combine(policy HeaderPolicy, sources []Source) (*Table, []Rejection) {
	var usable []Source
	for _, s := range sources {
		if s.Table != nil {
			usable = append(usable, s)
		}
	}
	if len(usable) == 0 {
		return nil, nil
	}

	switch policy {
	case HeaderPolicyStrict:
		return combineStrict(usable)
	case HeaderPolicyUnion:
		return combineUnion(usable), nil
	default:
		return combineFirst(usable), nil
	}
}

func combineFirst(sources []Source) *Table {
	width := len(sources[0].Table.Columns)
	out := &Table{Columns: slices.Clone(sources[0].Table.Columns), Rows: [][]string{}}
	for _, s := range sources {
		for _, row := range s.Table.Rows {
			out.Rows = append(out.Rows, fitRow(row, width))
		}
	}
	return out
}

func combineStrict(sources []Source) (*Table, []Rejection) {
	header := sources[0].Table.Columns
	out := &Table{Columns: slices.Clone(header), Rows: [][]string{}}
	var rejected []Rejection
	for _, s := range sources {
		if !slices.Equal(s.Table.Columns, header) {
			rejected = append(rejected, Rejection{
				Label: s.Label,
				Err:   fmt.Errorf("%w: got %d columns %q", ErrHeaderMismatch, len(s.Table.Columns), s.Table.Columns),
			})
			continue
		}
		for _, row := range s.Table.Rows {
			out.Rows = append(out.Rows, slices.Clone(row))
		}
	}
	return out, rejected
}

func combineUnion(sources []Source) *Table {
	var keys, names []string
	index := map[string]int{}
	for _, s := range sources {
		for i, k := range columnKeys(s.Table.Columns) {
			if _, ok := index[k]; ok {
				continue
			}
			index[k] = len(keys)
			keys = append(keys, k)
			names = append(names, s.Table.Columns[i])
		}
	}

	out := &Table{Columns: names, Rows: [][]string{}}
	for _, s := range sources {
		positions := make([]int, len(s.Table.Columns))
		for i, k := range columnKeys(s.Table.Columns) {
			positions[i] = index[k]
		}
		for _, row := range s.Table.Rows {
			merged := make([]string, len(keys))
			for i, cell := range row {
				merged[positions[i]] = cell
			}
			out.Rows = append(out.Rows, merged)
		}
	}
	return out
}

// columnKeys identifies columns by normalized name and occurrence, so a
// repeated name within one header maps to distinct combined columns.
func columnKeys(columns []string) []string {
	seen := map[string]int{}
	keys := make([]string, len(columns))
	for i, c := range columns {
		name := strings.ToLower(strings.TrimSpace(c))
		keys[i] = name + "#" + strconv.Itoa(seen[name])
		seen[name]++
	}
	return keys
}

func fitRow(row []string, width int) []string {
	out := make([]string, width)
	copy(out, row)
	return out
}
