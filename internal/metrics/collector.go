package metrics

// Assignment outcomes recorded by the incremental assigner.
const (
	OutcomeFirstTable    = "first"
	OutcomeExistingTable = "existing"
	OutcomeNewTable      = "new_table"
)

// Reassignment results recorded by the global reoptimizer.
const (
	ResultApplied             = "applied"
	ResultInsufficientGuests  = "insufficient_guests"
	ResultConstraintViolation = "constraint_violation"
)

// Collector receives seating events. Implementations must be safe for concurrent use.
type Collector interface {
	RecordLocationFallback()
	RecordAssignment(outcome string)
	RecordReassignment(result string, passes, swaps int)
}

// NopMetrics discards everything.
type NopMetrics struct{}

var _ Collector = (*NopMetrics)(nil)

// NewNop creates a new no-op collector.
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// RecordLocationFallback discards the fallback event.
func (n *NopMetrics) RecordLocationFallback() {}

// RecordAssignment discards the assignment outcome.
func (n *NopMetrics) RecordAssignment(_ string) {}

// RecordReassignment discards the reassignment result.
func (n *NopMetrics) RecordReassignment(_ string, _, _ int) {}
