package services

import (
	"fmt"

	"weeklydinner/internal/domain"
	"weeklydinner/internal/geo"
	"weeklydinner/internal/seating"
)

// summarizeTables builds the admin table view from the guest list.
func summarizeTables(guests []*domain.Guest, resolver *geo.Resolver) *domain.TablesOverview {
	byID := make(map[string]*domain.Guest, len(guests))
	for _, g := range guests {
		byID[g.ID] = g
	}
	tables := seating.GroupByTable(derefGuests(guests))

	overview := &domain.TablesOverview{
		Tables:      make([]*domain.TableSummary, 0, len(tables)),
		TotalTables: len(tables),
		TotalGuests: len(guests),
	}
	for _, t := range tables {
		ages := t.Ages()
		lo, hi := ageBounds(ages)
		summary := &domain.TableSummary{
			Label:       t.Label,
			Description: describeAges(ages),
			Count:       len(t.Guests),
			MinAge:      lo,
			MaxAge:      hi,
			AgeRange:    hi - lo,
			AvgAge:      seating.AverageAge(ages),
			Valid:       seating.ValidTableSize(len(t.Guests)),
			Guests:      make([]*domain.Guest, 0, len(t.Guests)),
		}
		summary.AvgDistanceMiles, summary.MaxDistanceMiles = pairwiseMiles(t.Guests, resolver)
		for _, g := range t.Guests {
			if p, ok := byID[g.ID]; ok {
				summary.Guests = append(summary.Guests, p)
			}
		}

		switch {
		case summary.Valid:
			overview.ValidTables++
		case summary.Count < domain.MinTableSize:
			overview.SmallTables++
		default:
			overview.LargeTables++
		}
		overview.Tables = append(overview.Tables, summary)
	}
	return overview
}

// describeAges renders "Age 30" or "Ages 25 to 41".
func describeAges(ages []int) string {
	if len(ages) == 0 {
		return "Empty table"
	}
	lo, hi := ageBounds(ages)
	if lo == hi {
		return fmt.Sprintf("Age %d", lo)
	}
	return fmt.Sprintf("Ages %d to %d", lo, hi)
}

func ageBounds(ages []int) (lo, hi int) {
	if len(ages) == 0 {
		return 0, 0
	}
	lo, hi = ages[0], ages[0]
	for _, a := range ages[1:] {
		lo = min(lo, a)
		hi = max(hi, a)
	}
	return lo, hi
}

func pairwiseMiles(guests []domain.Guest, resolver *geo.Resolver) (avg, maxMiles float64) {
	coords := make([]geo.Coordinate, len(guests))
	for i, g := range guests {
		c, ok := resolver.Lookup(g.Location)
		if !ok {
			c = geo.DefaultCoordinate
		}
		coords[i] = c
	}
	total := 0.0
	pairs := 0
	for i := 0; i < len(coords); i++ {
		for j := i + 1; j < len(coords); j++ {
			d := geo.DistanceMiles(coords[i], coords[j])
			total += d
			maxMiles = max(maxMiles, d)
			pairs++
		}
	}
	if pairs == 0 {
		return 0, 0
	}
	return total / float64(pairs), maxMiles
}
