package condition

import (
	"fmt"
	"strconv"
)

// Describe returns the one-line human summary of a rule shown on the
// dashboard and the task detail view.
func (r Rule) Describe() string {
	switch r.Type {
	case TypeTotalOver:
		return fmt.Sprintf("When total > %s", formatNumber(r.Number))
	case TypeTotalUnder:
		return fmt.Sprintf("When total < %s", formatNumber(r.Number))
	case TypeFieldEquals:
		return fmt.Sprintf("When %s = %s", r.Field, r.Text)
	case TypeFieldContains:
		return fmt.Sprintf("When %s contains %q", r.Field, r.Text)
	case TypeFieldGreaterThan:
		return fmt.Sprintf("When %s > %s", r.Field, formatNumber(r.Number))
	case TypeFieldLessThan:
		return fmt.Sprintf("When %s < %s", r.Field, formatNumber(r.Number))
	}
	return "Always trigger"
}

// Label returns the selector label for a condition type in the task form.
func Label(t Type) string {
	switch t {
	case TypeAlways:
		return "Always send"
	case TypeTotalOver:
		return "Total score over"
	case TypeTotalUnder:
		return "Total score under"
	case TypeFieldEquals:
		return "Field equals value"
	case TypeFieldContains:
		return "Field contains text"
	case TypeFieldGreaterThan:
		return "Field greater than"
	case TypeFieldLessThan:
		return "Field less than"
	}
	return string(t)
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
