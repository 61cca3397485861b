// Package seating assigns guests to tables.
//
// Two entry points share the scoring primitives in score.go:
//
//   - Assigner places one incoming guest into the best open table, or opens a new one.
//   - Reoptimizer re-clusters every guest: age-sorted round-robin seeding followed by a
//     first-improvement pairwise-swap local search, then relabels and validates the result.
//
// Tables are never stored. Every call derives them from the guests' Table labels, and every
// call returns new Guest values instead of mutating its input.
package seating
