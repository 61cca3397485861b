package seating

import (
	"log/slog"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weeklydinner/internal/domain"
	"weeklydinner/internal/metrics"
)

func newTestAssigner(t *testing.T) (*Assigner, *capturingHandler, *recordingCollector) {
	t.Helper()
	var h capturingHandler
	c := &recordingCollector{}
	logger := slog.New(&h)
	return NewAssigner(newTestResolver(t, logger, c), logger, c), &h, c
}

func TestAssigner_FirstGuestGetsTableOne(t *testing.T) {
	a, _, c := newTestAssigner(t)

	got := a.AssignIncoming(newGuest("ava", 23, "Phoenix, AZ", ""), nil)
	assert.Equal(t, "Table-1", got.Table)

	// guests without a table do not count as tables
	got = a.AssignIncoming(newGuest("ben", 48, "Mesa, AZ", ""), []domain.Guest{newGuest("ava", 23, "Phoenix, AZ", "")})
	assert.Equal(t, "Table-1", got.Table)
	assert.Equal(t, []string{metrics.OutcomeFirstTable, metrics.OutcomeFirstTable}, c.assignments)
}

func TestAssigner_AllTablesFullOpensNextTable(t *testing.T) {
	a, _, c := newTestAssigner(t)
	existing := append(seatedAt("Table-1", 6, 30, "Phoenix, AZ"), seatedAt("Table-3", 6, 30, "Phoenix, AZ")...)

	got := a.AssignIncoming(newGuest("new", 30, "Phoenix, AZ", ""), existing)

	assert.Equal(t, "Table-4", got.Table)
	assert.Equal(t, []string{metrics.OutcomeNewTable}, c.assignments)
}

func TestAssigner_SkipsFullTables(t *testing.T) {
	a, _, _ := newTestAssigner(t)
	// Table-1 is a perfect match but full.
	existing := append(seatedAt("Table-1", 6, 30, "Phoenix, AZ"), newGuest("old", 70, "Queen Creek, AZ", "Table-2"))

	got := a.AssignIncoming(newGuest("new", 30, "Phoenix, AZ", ""), existing)

	assert.Equal(t, "Table-2", got.Table)
}

func TestAssigner_PrefersCloserAges(t *testing.T) {
	a, _, _ := newTestAssigner(t)
	existing := []domain.Guest{
		newGuest("a", 20, "Phoenix, AZ", "Table-1"),
		newGuest("b", 22, "Phoenix, AZ", "Table-1"),
		newGuest("c", 50, "Phoenix, AZ", "Table-2"),
		newGuest("d", 52, "Phoenix, AZ", "Table-2"),
	}

	assert.Equal(t, "Table-1", a.AssignIncoming(newGuest("young", 21, "Phoenix, AZ", ""), existing).Table)
	assert.Equal(t, "Table-2", a.AssignIncoming(newGuest("older", 55, "Phoenix, AZ", ""), existing).Table)
}

func TestAssigner_PrefersCloserLocations(t *testing.T) {
	a, _, _ := newTestAssigner(t)
	existing := append(seatedAt("Table-1", 2, 30, "Queen Creek, AZ"), seatedAt("Table-2", 2, 30, "Scottsdale, AZ")...)

	got := a.AssignIncoming(newGuest("new", 30, "Scottsdale, AZ", ""), existing)

	assert.Equal(t, "Table-2", got.Table)
}

func TestAssigner_FavoursFullerTablesOnEqualAgeAndDistance(t *testing.T) {
	a, _, _ := newTestAssigner(t)
	existing := append(seatedAt("Table-1", 2, 30, "Phoenix, AZ"), seatedAt("Table-2", 4, 30, "Phoenix, AZ")...)

	got := a.AssignIncoming(newGuest("new", 30, "Phoenix, AZ", ""), existing)

	assert.Equal(t, "Table-2", got.Table)
}

func TestAssigner_TieGoesToLowestTableNumber(t *testing.T) {
	a, _, _ := newTestAssigner(t)
	// identical tables; input order and label text would both pick Table-10 first
	existing := append(seatedAt("Table-10", 3, 40, "Tempe, AZ"), seatedAt("Table-2", 3, 40, "Tempe, AZ")...)
	newcomer := newGuest("new", 35, "Mesa, AZ", "")

	first := a.AssignIncoming(newcomer, existing)
	require.Equal(t, "Table-2", first.Table)
	for range 20 {
		assert.Equal(t, first.Table, a.AssignIncoming(newcomer, existing).Table)
	}
}

func TestAssigner_SameLocationGuestsShareFirstTable(t *testing.T) {
	a, _, _ := newTestAssigner(t)
	var seated []domain.Guest
	for i, age := range []int{20, 25, 30, 60} {
		g := a.AssignIncoming(newGuest(string(rune('a'+i)), age, "Tempe, AZ", ""), seated)
		seated = append(seated, g)
	}
	for _, g := range seated {
		assert.Equal(t, "Table-1", g.Table, g.Name)
	}
}

func TestAssigner_DoesNotMutateInputs(t *testing.T) {
	a, _, _ := newTestAssigner(t)
	existing := seatedAt("Table-1", 3, 30, "Phoenix, AZ")
	snapshot := slices.Clone(existing)
	newcomer := newGuest("new", 31, "Phoenix, AZ", "")

	got := a.AssignIncoming(newcomer, existing)

	assert.Equal(t, "Table-1", got.Table)
	assert.Empty(t, newcomer.Table)
	assert.Equal(t, snapshot, existing)
	assert.Equal(t, newcomer.Name, got.Name)
	assert.Equal(t, newcomer.SubmittedAt, got.SubmittedAt)
}

func TestAssigner_UnknownLocationReportedOncePerCall(t *testing.T) {
	a, h, c := newTestAssigner(t)
	existing := seatedAt("Table-1", 3, 30, "Atlantis")

	got := a.AssignIncoming(newGuest("new", 30, "Atlantis", ""), existing)

	assert.Equal(t, "Table-1", got.Table)
	assert.Equal(t, 1, h.count(slog.LevelWarn, "location not found, using default"))
	assert.Equal(t, 1, c.fallbacks)
}
