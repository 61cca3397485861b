package geo

import "math"

const (
	earthRadiusKm = 6371.0
	milesPerKm    = 0.621371
)

// Coordinate is a latitude/longitude pair in degrees.
type Coordinate struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// DistanceKm returns the great-circle (Haversine) distance between a and b in kilometers.
func DistanceKm(a, b Coordinate) float64 {
	dLat := deg2rad(b.Lat - a.Lat)
	dLng := deg2rad(b.Lng - a.Lng)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(deg2rad(a.Lat))*math.Cos(deg2rad(b.Lat))*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c
}

// DistanceMiles returns DistanceKm converted to statute miles.
func DistanceMiles(a, b Coordinate) float64 {
	return DistanceKm(a, b) * milesPerKm
}

func deg2rad(deg float64) float64 {
	return deg * math.Pi / 180
}
