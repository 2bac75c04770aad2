// Package location holds the predefined journey end points and the road
// distance estimate between them.
package location

import (
	"math"

	"github.com/google/uuid"
)

type Category string

const (
	CategoryAberdeen Category = "aberdeen"
	CategoryGeneric  Category = "generic"
)

func (c Category) Valid() bool {
	return c == CategoryAberdeen || c == CategoryGeneric
}

// Location is a named place a journey can start or end at. Generic places
// such as "Home" carry no coordinates.
type Location struct {
	ID       uuid.UUID `json:"id" db:"id"`
	Key      string    `json:"key" db:"key"`
	Name     string    `json:"name" db:"name"`
	Category Category  `json:"category" db:"category"`
	Lat      *float64  `json:"lat" db:"lat"`
	Lng      *float64  `json:"lng" db:"lng"`
}

func (l *Location) HasCoordinates() bool {
	return l.Lat != nil && l.Lng != nil
}

type DistanceMethod string

const (
	MethodHaversine DistanceMethod = "haversine"
	MethodManual    DistanceMethod = "manual"
)

// DistanceResponse leaves DistanceKm nil when the user has to enter the
// distance by hand.
type DistanceResponse struct {
	From       string         `json:"from"`
	To         string         `json:"to"`
	DistanceKm *float64       `json:"distance_km"`
	Method     DistanceMethod `json:"method"`
}

const (
	earthRadiusKm = 6371.0
	// Straight-line distance underestimates the road network by roughly this much.
	roadFactor = 1.3
)

// HaversineKm is the great-circle distance between two points in degrees.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLng := radians(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// Distance estimates the road distance from one location to another,
// rounded to 0.1 km. Without coordinates on both ends it reports the manual
// method and no distance.
func Distance(from, to *Location) DistanceResponse {
	resp := DistanceResponse{From: from.Name, To: to.Name, Method: MethodManual}
	if !from.HasCoordinates() || !to.HasCoordinates() {
		return resp
	}

	km := HaversineKm(*from.Lat, *from.Lng, *to.Lat, *to.Lng) * roadFactor
	km = math.Round(km*10) / 10
	resp.DistanceKm = &km
	resp.Method = MethodHaversine
	return resp
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
