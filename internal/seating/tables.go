package seating

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"weeklydinner/internal/domain"
)

// FirstTableLabel is given to the first guest ever seated.
const FirstTableLabel = "Table-1"

// Table is a group of guests sharing a label, derived from a guest list.
type Table struct {
	Label  string
	Guests []domain.Guest
}

// Ages returns the occupants' ages in seating order.
func (t Table) Ages() []int {
	ages := make([]int, len(t.Guests))
	for i, g := range t.Guests {
		ages[i] = g.Age
	}
	return ages
}

// GroupByTable indexes guests by label. Unlabelled guests are skipped. The result is ordered by
// TableNumber, then by label, so iteration over it is deterministic.
func GroupByTable(guests []domain.Guest) []Table {
	pos := make(map[string]int)
	var tables []Table
	for _, g := range guests {
		if g.Table == "" {
			continue
		}
		i, ok := pos[g.Table]
		if !ok {
			i = len(tables)
			pos[g.Table] = i
			tables = append(tables, Table{Label: g.Table})
		}
		tables[i].Guests = append(tables[i].Guests, g)
	}
	slices.SortStableFunc(tables, func(a, b Table) int {
		return CompareLabels(a.Label, b.Label)
	})
	return tables
}

// CompareLabels orders labels by TableNumber, then lexically.
func CompareLabels(a, b string) int {
	if c := cmp.Compare(TableNumber(a), TableNumber(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// TableNumber returns the leading integer of the label's second '-'-separated segment:
// "Table-3" is 3, "34-2" is 2. Labels without one count as 0.
func TableNumber(label string) int {
	parts := strings.Split(label, "-")
	if len(parts) < 2 {
		return 0
	}
	digits := parts[1]
	end := 0
	for end < len(digits) && digits[end] >= '0' && digits[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(digits[:end])
	if err != nil {
		return 0
	}
	return n
}

// NextTableLabel returns "Table-{n+1}" where n is the highest TableNumber among tables.
func NextTableLabel(tables []Table) string {
	highest := 0
	for _, t := range tables {
		highest = max(highest, TableNumber(t.Label))
	}
	return fmt.Sprintf("Table-%d", highest+1)
}

// CountByTable returns the number of guests per label. Unlabelled guests are not counted.
func CountByTable(guests []domain.Guest) map[string]int {
	counts := make(map[string]int)
	for _, g := range guests {
		if g.Table != "" {
			counts[g.Table]++
		}
	}
	return counts
}

// ValidTableSize reports whether a table of n guests is within the target band.
func ValidTableSize(n int) bool {
	return n >= domain.MinTableSize && n <= domain.MaxTableSize
}
