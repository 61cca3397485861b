package domain

import "context"

// Location is a stored location name with its coordinates, as written by the geocoding tool.
// swagger:model Location
type Location struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// LocationRepository defines storage for the location coordinate table.
type LocationRepository interface {
	List(ctx context.Context) ([]*Location, error)
	Upsert(ctx context.Context, loc *Location) error
}

// Geocoder looks up coordinates for a free-text location. Only the offline geocoding tool uses it;
// seating never performs network access.
type Geocoder interface {
	// Geocode returns the first match for query, or ErrNotFound when the service has no result.
	Geocode(ctx context.Context, query string) (*Location, error)
}
