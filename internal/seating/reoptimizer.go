package seating

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"

	"weeklydinner/internal/domain"
	"weeklydinner/internal/geo"
	"weeklydinner/internal/metrics"
)

const (
	// MaxSearchPasses bounds the local search.
	MaxSearchPasses = 100

	seedTableSize = 5

	totalAgeRangeWeight = 3.0
	totalGeoWeight      = 40.0
)

// Reassignment is the outcome of a successful ReoptimizeAll.
type Reassignment struct {
	// Guests holds every guest with its new label, grouped by table.
	Guests []domain.Guest
	Tables []Table
	Passes int
	Swaps  int
	Score  float64
}

// Reoptimizer re-clusters a whole guest list.
type Reoptimizer struct {
	resolver  *geo.Resolver
	logger    *slog.Logger
	metrics   metrics.Collector
	maxPasses int
}

// NewReoptimizer returns a Reoptimizer. A nil logger uses slog.Default and a nil collector records nothing.
func NewReoptimizer(resolver *geo.Resolver, logger *slog.Logger, collector metrics.Collector) *Reoptimizer {
	if logger == nil {
		logger = slog.Default()
	}
	if collector == nil {
		collector = metrics.NewNop()
	}
	return &Reoptimizer{resolver: resolver, logger: logger, metrics: collector, maxPasses: MaxSearchPasses}
}

// ReoptimizeAll computes a new seating for guests:
//
//  1. sort by age (ties by submission time, name, ID);
//  2. deal the sorted guests round-robin into ceil(n/5) tables;
//  3. improve with pairwise swaps between tables until a pass accepts none, at most MaxSearchPasses;
//  4. label each table "{medianAge}-{index}";
//  5. reject the result if any table is outside [MinTableSize, MaxTableSize].
//
// It returns domain.ErrInsufficientGuests for fewer than MinGuestsForReassignment guests and
// domain.ErrTableConstraintViolation when step 5 fails. guests is never modified, so on error
// the caller's list is the unchanged current state.
func (o *Reoptimizer) ReoptimizeAll(guests []domain.Guest) (*Reassignment, error) {
	if len(guests) < domain.MinGuestsForReassignment {
		o.metrics.RecordReassignment(metrics.ResultInsufficientGuests, 0, 0)
		return nil, fmt.Errorf("%w: have %d, need %d", domain.ErrInsufficientGuests, len(guests), domain.MinGuestsForReassignment)
	}

	sorted := slices.Clone(guests)
	slices.SortStableFunc(sorted, compareSeedOrder)

	tableCount := (len(sorted) + seedTableSize - 1) / seedTableSize
	coords := newCoordCache(o.resolver)
	buckets := make([][]seat, tableCount)
	for i, g := range sorted {
		buckets[i%tableCount] = append(buckets[i%tableCount], seat{guest: g, coord: coords.resolve(g.Location)})
	}
	o.logger.Debug("seeded tables", "guests", len(sorted), "tables", tableCount)

	l := newLayout(buckets)
	passes, swaps := l.climb(o.maxPasses)
	score := l.score()
	o.logger.Debug("local search finished", "passes", passes, "swaps", swaps, "score", score)

	tables := l.labelled()
	var out []domain.Guest
	for _, t := range tables {
		out = append(out, t.Guests...)
	}

	counts := CountByTable(out)
	for _, t := range tables {
		if n := counts[t.Label]; !ValidTableSize(n) {
			o.logger.Warn("table constraints violated after reassignment, keeping current seating",
				"table", t.Label,
				"count", n,
				"guests", len(guests),
				"tables", tableCount,
			)
			o.metrics.RecordReassignment(metrics.ResultConstraintViolation, passes, swaps)
			return nil, fmt.Errorf("%w: table %s has %d guests", domain.ErrTableConstraintViolation, t.Label, n)
		}
	}

	o.metrics.RecordReassignment(metrics.ResultApplied, passes, swaps)
	o.logger.Info("tables reassigned",
		"guests", len(out),
		"tables", len(tables),
		"passes", passes,
		"swaps", swaps,
		"score", score,
	)
	return &Reassignment{Guests: out, Tables: tables, Passes: passes, Swaps: swaps, Score: score}, nil
}

// LocalSearch runs only the swap search over an existing grouping and returns the improved
// tables with their labels unchanged. Table sizes are preserved.
func (o *Reoptimizer) LocalSearch(tables []Table) (improved []Table, passes, swaps int, score float64) {
	coords := newCoordCache(o.resolver)
	buckets := make([][]seat, len(tables))
	for i, t := range tables {
		for _, g := range t.Guests {
			buckets[i] = append(buckets[i], seat{guest: g, coord: coords.resolve(g.Location)})
		}
	}
	l := newLayout(buckets)
	passes, swaps = l.climb(o.maxPasses)

	improved = make([]Table, len(tables))
	for i, b := range l.tables {
		improved[i] = Table{Label: tables[i].Label, Guests: make([]domain.Guest, len(b))}
		for j, s := range b {
			g := s.guest
			g.Table = tables[i].Label
			improved[i].Guests[j] = g
		}
	}
	return improved, passes, swaps, l.score()
}

func compareSeedOrder(a, b domain.Guest) int {
	if c := cmp.Compare(a.Age, b.Age); c != 0 {
		return c
	}
	if c := a.SubmittedAt.Compare(b.SubmittedAt); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

type seat struct {
	guest domain.Guest
	coord geo.Coordinate
}

// layout holds the working tables of a search with cached per-table statistics.
type layout struct {
	tables    [][]seat
	ageRanges []int
	pairMeans []float64
}

func newLayout(tables [][]seat) *layout {
	l := &layout{
		tables:    tables,
		ageRanges: make([]int, len(tables)),
		pairMeans: make([]float64, len(tables)),
	}
	for t := range tables {
		l.refresh(t)
	}
	return l
}

func (l *layout) refresh(t int) {
	seats := l.tables[t]
	ages := make([]int, len(seats))
	for i, s := range seats {
		ages[i] = s.guest.Age
	}
	l.ageRanges[t] = AgeRange(ages)
	l.pairMeans[t] = pairwiseMeanKm(seats)
}

// score is 3*sum(age ranges) + 40*NormalizeGeo(mean over tables of the pairwise mean distance).
func (l *layout) score() float64 {
	if len(l.tables) == 0 {
		return 0
	}
	totalRange := 0
	totalKm := 0.0
	for t := range l.tables {
		totalRange += l.ageRanges[t]
		totalKm += l.pairMeans[t]
	}
	return totalAgeRangeWeight*float64(totalRange) + totalGeoWeight*NormalizeGeo(totalKm/float64(len(l.tables)))
}

func (l *layout) swap(t1, g1, t2, g2 int) {
	l.tables[t1][g1], l.tables[t2][g2] = l.tables[t2][g2], l.tables[t1][g1]
	l.refresh(t1)
	l.refresh(t2)
}

// climb is a first-improvement hill climber over single swaps between two tables. Each swap is
// kept only if it strictly lowers the score; a pass without an accepted swap ends the search.
func (l *layout) climb(maxPasses int) (passes, swaps int) {
	current := l.score()
	for passes < maxPasses {
		passes++
		accepted := 0
		for t1 := 0; t1 < len(l.tables); t1++ {
			for t2 := t1 + 1; t2 < len(l.tables); t2++ {
				for g1 := range l.tables[t1] {
					for g2 := range l.tables[t2] {
						l.swap(t1, g1, t2, g2)
						if next := l.score(); next < current {
							current = next
							accepted++
							continue
						}
						l.swap(t1, g1, t2, g2)
					}
				}
			}
		}
		swaps += accepted
		if accepted == 0 {
			break
		}
	}
	return passes, swaps
}

// labelled names every table "{medianAge}-{index+1}" and returns guests carrying the new label.
func (l *layout) labelled() []Table {
	tables := make([]Table, len(l.tables))
	for i, seats := range l.tables {
		ages := make([]int, len(seats))
		for j, s := range seats {
			ages[j] = s.guest.Age
		}
		slices.Sort(ages)
		label := fmt.Sprintf("%d-%d", ages[len(ages)/2], i+1)

		guests := make([]domain.Guest, len(seats))
		for j, s := range seats {
			g := s.guest
			g.Table = label
			guests[j] = g
		}
		tables[i] = Table{Label: label, Guests: guests}
	}
	return tables
}

func pairwiseMeanKm(seats []seat) float64 {
	total := 0.0
	pairs := 0
	for i := 0; i < len(seats); i++ {
		for j := i + 1; j < len(seats); j++ {
			total += geo.DistanceKm(seats[i].coord, seats[j].coord)
			pairs++
		}
	}
	if pairs == 0 {
		return 0
	}
	return total / float64(pairs)
}
