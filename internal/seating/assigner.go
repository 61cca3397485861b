package seating

import (
	"log/slog"

	"weeklydinner/internal/domain"
	"weeklydinner/internal/geo"
	"weeklydinner/internal/metrics"
)

// Assigner seats one guest at a time.
type Assigner struct {
	resolver *geo.Resolver
	logger   *slog.Logger
	metrics  metrics.Collector
}

// NewAssigner returns an Assigner. A nil logger uses slog.Default and a nil collector records nothing.
func NewAssigner(resolver *geo.Resolver, logger *slog.Logger, collector metrics.Collector) *Assigner {
	if logger == nil {
		logger = slog.Default()
	}
	if collector == nil {
		collector = metrics.NewNop()
	}
	return &Assigner{resolver: resolver, logger: logger, metrics: collector}
}

// AssignIncoming returns a copy of guest with Table set to the best table among existing, which
// must not contain guest itself. Tables at MaxTableSize are skipped; when every table is full a
// new "Table-{n+1}" is opened. Equal scores go to the table with the lowest number.
// Neither guest nor existing is modified.
func (a *Assigner) AssignIncoming(guest domain.Guest, existing []domain.Guest) domain.Guest {
	tables := GroupByTable(existing)
	if len(tables) == 0 {
		guest.Table = FirstTableLabel
		a.metrics.RecordAssignment(metrics.OutcomeFirstTable)
		a.logger.Debug("assigned first table", "guest", guest.Name, "table", guest.Table)
		return guest
	}

	coords := newCoordCache(a.resolver)
	at := coords.resolve(guest.Location)

	var best *Placement
	for _, t := range tables {
		if len(t.Guests) >= domain.MaxTableSize {
			continue
		}
		occupants := make([]geo.Coordinate, len(t.Guests))
		for i, g := range t.Guests {
			occupants[i] = coords.resolve(g.Location)
		}
		p := ScorePlacement(guest.Age, at, t.Ages(), occupants)
		p.Label = t.Label
		// tables are already in label order, so strict < keeps the lowest-numbered on ties
		if best == nil || p.Score < best.Score {
			best = &p
		}
	}

	if best == nil {
		guest.Table = NextTableLabel(tables)
		a.metrics.RecordAssignment(metrics.OutcomeNewTable)
		a.logger.Debug("all tables full, opened new table",
			"guest", guest.Name,
			"table", guest.Table,
			"tables", len(tables),
		)
		return guest
	}

	guest.Table = best.Label
	a.metrics.RecordAssignment(metrics.OutcomeExistingTable)
	a.logger.Debug("assigned table",
		"guest", guest.Name,
		"age", guest.Age,
		"location", guest.Location,
		"table", best.Label,
		"score", best.Score,
		"age_distance", best.AgeDistanceFromAvg,
		"geo_km", best.MeanGeoDistanceKm,
	)
	return guest
}

// coordCache resolves each distinct location once per call, so an unknown location is only
// reported once.
type coordCache struct {
	resolver *geo.Resolver
	seen     map[string]geo.Coordinate
}

func newCoordCache(resolver *geo.Resolver) *coordCache {
	if resolver == nil {
		resolver = geo.NewResolver(nil, nil, nil)
	}
	return &coordCache{resolver: resolver, seen: make(map[string]geo.Coordinate)}
}

func (c *coordCache) resolve(location string) geo.Coordinate {
	if co, ok := c.seen[location]; ok {
		return co
	}
	co := c.resolver.Resolve(location)
	c.seen[location] = co
	return co
}
