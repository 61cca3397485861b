package seating

import (
	"math"

	"weeklydinner/internal/geo"
)

// Composite score weights. Age-range growth dominates the age terms, occupancy mildly favours
// fuller tables and the geo term is capped so a far-away guest cannot outweigh age.
const (
	ageRangeWeight  = 3.0
	occupancyWeight = 0.5
	geoWeight       = 4.0

	geoScaleKm = 5.0
	geoCap     = 10.0
)

// AgeRange returns max-min of ages, or 0 for none.
func AgeRange(ages []int) int {
	if len(ages) == 0 {
		return 0
	}
	lo, hi := ageBounds(ages)
	return hi - lo
}

func ageBounds(ages []int) (lo, hi int) {
	lo, hi = ages[0], ages[0]
	for _, a := range ages[1:] {
		lo = min(lo, a)
		hi = max(hi, a)
	}
	return lo, hi
}

// AverageAge returns the mean of ages, or 0 for none.
func AverageAge(ages []int) float64 {
	if len(ages) == 0 {
		return 0
	}
	sum := 0
	for _, a := range ages {
		sum += a
	}
	return float64(sum) / float64(len(ages))
}

// AgeRangeIncrease is how much the table's age range grows if a guest of the given age joins.
func AgeRangeIncrease(age int, ages []int) int {
	if len(ages) == 0 {
		return 0
	}
	lo, hi := ageBounds(ages)
	return (max(hi, age) - min(lo, age)) - (hi - lo)
}

// AgeDistanceFromAvg is |age - mean(ages)|.
func AgeDistanceFromAvg(age int, ages []int) float64 {
	if len(ages) == 0 {
		return 0
	}
	return math.Abs(float64(age) - AverageAge(ages))
}

// MeanGeoDistance is the mean distance in km from at to each occupant coordinate.
func MeanGeoDistance(at geo.Coordinate, occupants []geo.Coordinate) float64 {
	if len(occupants) == 0 {
		return 0
	}
	total := 0.0
	for _, c := range occupants {
		total += geo.DistanceKm(at, c)
	}
	return total / float64(len(occupants))
}

// NormalizeGeo maps a distance in km onto [0, 10], saturating at 50 km.
func NormalizeGeo(km float64) float64 {
	return math.Min(geoCap, km/geoScaleKm)
}

// Placement is the breakdown of a candidate guest's score at one table.
type Placement struct {
	Label              string
	Count              int
	AgeRangeIncrease   int
	AgeDistanceFromAvg float64
	MeanGeoDistanceKm  float64
	Score              float64
}

// ScorePlacement scores a guest of the given age and coordinate joining a table whose occupants
// have ages and coords (same order and length). Lower is better.
func ScorePlacement(age int, at geo.Coordinate, ages []int, coords []geo.Coordinate) Placement {
	p := Placement{
		Count:              len(ages),
		AgeRangeIncrease:   AgeRangeIncrease(age, ages),
		AgeDistanceFromAvg: AgeDistanceFromAvg(age, ages),
		MeanGeoDistanceKm:  MeanGeoDistance(at, coords),
	}
	p.Score = ageRangeWeight*float64(p.AgeRangeIncrease) +
		p.AgeDistanceFromAvg -
		occupancyWeight*float64(p.Count) +
		geoWeight*NormalizeGeo(p.MeanGeoDistanceKm)
	return p
}

// CompositeScore returns ScorePlacement(...).Score.
func CompositeScore(age int, at geo.Coordinate, ages []int, coords []geo.Coordinate) float64 {
	return ScorePlacement(age, at, ages, coords).Score
}
