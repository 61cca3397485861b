package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Table size band and reassignment threshold.
const (
	MinTableSize             = 4
	MaxTableSize             = 6
	MinGuestsForReassignment = 8

	MinGuestAge = 18
	MaxGuestAge = 120
)

// Guest is a single RSVP. Table is empty until a seating assigner sets it.
// swagger:model Guest
type Guest struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Age         int       `json:"age"`
	Location    string    `json:"location"`
	Email       string    `json:"email,omitempty"`
	Table       string    `json:"table,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// NewGuest returns a new Guest with the given fields. ID is typically set by the repository on create.
func NewGuest(name string, age int, location, email string, submittedAt time.Time) *Guest {
	return &Guest{
		Name:        strings.TrimSpace(name),
		Age:         age,
		Location:    strings.TrimSpace(location),
		Email:       strings.TrimSpace(email),
		SubmittedAt: submittedAt,
	}
}

// Key identifies a guest by name, age and location. Two RSVPs with the same key are the same guest.
func (g Guest) Key() string {
	return fmt.Sprintf("%s|%d|%s", g.Name, g.Age, g.Location)
}

// Validate returns the list of problems with the guest's user-supplied fields.
func (g Guest) Validate() []string {
	var errs []string
	if strings.TrimSpace(g.Name) == "" {
		errs = append(errs, "name is required")
	}
	if g.Age < MinGuestAge || g.Age > MaxGuestAge {
		errs = append(errs, fmt.Sprintf("age must be between %d and %d", MinGuestAge, MaxGuestAge))
	}
	if strings.TrimSpace(g.Location) == "" {
		errs = append(errs, "location is required")
	}
	return errs
}

// GuestRepository defines storage for guests and their table labels.
type GuestRepository interface {
	Create(ctx context.Context, guest *Guest) error
	// GetByIdentity returns the guest with the given name, age and location, or ErrNotFound.
	GetByIdentity(ctx context.Context, name string, age int, location string) (*Guest, error)
	// List returns all guests ordered by submission time.
	List(ctx context.Context) ([]*Guest, error)
	// UpdateTables sets table labels by guest ID in a single transaction. Either every label is written or none is.
	UpdateTables(ctx context.Context, labels map[string]string) error
}

// TableSummary describes one derived table for the admin view.
// swagger:model TableSummary
type TableSummary struct {
	Label            string   `json:"label"`
	Description      string   `json:"description"`
	Count            int      `json:"count"`
	MinAge           int      `json:"min_age"`
	MaxAge           int      `json:"max_age"`
	AgeRange         int      `json:"age_range"`
	AvgAge           float64  `json:"avg_age"`
	AvgDistanceMiles float64  `json:"avg_distance_miles"`
	MaxDistanceMiles float64  `json:"max_distance_miles"`
	Valid            bool     `json:"valid"`
	Guests           []*Guest `json:"guests"`
}

// TablesOverview is the admin summary of every table plus size-band totals.
// swagger:model TablesOverview
type TablesOverview struct {
	Tables      []*TableSummary `json:"tables"`
	TotalTables int             `json:"total_tables"`
	ValidTables int             `json:"valid_tables"`
	SmallTables int             `json:"small_tables"`
	LargeTables int             `json:"large_tables"`
	TotalGuests int             `json:"total_guests"`
}

// ReassignmentResult reports a successful global reassignment.
// swagger:model ReassignmentResult
type ReassignmentResult struct {
	Guests     []*Guest `json:"guests"`
	TableCount int      `json:"table_count"`
	Passes     int      `json:"passes"`
	Swaps      int      `json:"swaps"`
	Score      float64  `json:"score"`
}

// RSVPReceipt is returned to a guest after submitting an RSVP.
// swagger:model RSVPReceipt
type RSVPReceipt struct {
	Guest            *Guest `json:"guest"`
	TableDescription string `json:"table_description"`
	TableSize        int    `json:"table_size"`
}

// SeatingService defines RSVP intake and table management.
type SeatingService interface {
	// SubmitRSVP stores the guest with a table assigned. Returns (receipt, created, err): created is false
	// when a guest with the same identity already exists, in which case the stored guest is returned.
	SubmitRSVP(ctx context.Context, guest *Guest) (*RSVPReceipt, bool, error)
	ListGuests(ctx context.Context) ([]*Guest, error)
	ListTables(ctx context.Context) (*TablesOverview, error)
	// ReassignTables re-clusters every guest and persists the new labels atomically.
	ReassignTables(ctx context.Context) (*ReassignmentResult, error)
}
