package tabular

import (
	"regexp"
	"strings"
)

// groupedNumber matches an amount written with thousands separators, such as
// "6,385.56", "$6,385.56" or "-1,000".
var groupedNumber = regexp.MustCompile(`^\s*[-+]?\s*[$€£]?\s*\d{1,3}(,\d{3})+(\.\d+)?\s*$`)

// StripNumericCommas removes thousands separators from amount cells in the
// named columns and returns how many cells changed. Cells that are not
// grouped numbers are left alone.
func StripNumericCommas(t *Table, columns ...string) int {
	if t == nil {
		return 0
	}
	changed := 0
	for _, name := range columns {
		idx := t.ColumnIndex(name)
		if idx < 0 {
			continue
		}
		for _, row := range t.Rows {
			if idx >= len(row) || !groupedNumber.MatchString(row[idx]) {
				continue
			}
			row[idx] = strings.ReplaceAll(row[idx], ",", "")
			changed++
		}
	}
	return changed
}
