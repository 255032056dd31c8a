package geo

import (
	"fmt"
	"math"
	"strconv"
)

// earthRadius is the mean Earth radius in meters.
const earthRadius = 6371000

// Point is a coordinate in decimal degrees.
type Point struct {
	Latitude  float64
	Longitude float64
}

// ParsePoint parses the decimal-degree strings the backend serves for
// store coordinates.
func ParsePoint(latStr, lonStr string) (Point, error) {
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return Point{}, fmt.Errorf("invalid latitude %q: %w", latStr, err)
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return Point{}, fmt.Errorf("invalid longitude %q: %w", lonStr, err)
	}
	if lat < -90 || lat > 90 {
		return Point{}, fmt.Errorf("latitude %v out of range", lat)
	}
	if lon < -180 || lon > 180 {
		return Point{}, fmt.Errorf("longitude %v out of range", lon)
	}
	return Point{Latitude: lat, Longitude: lon}, nil
}

// Haversine returns the great-circle distance between two points in meters.
func Haversine(p1, p2 Point) float64 {
	lat1 := radians(p1.Latitude)
	lat2 := radians(p2.Latitude)
	dLat := radians(p2.Latitude - p1.Latitude)
	dLon := radians(p2.Longitude - p1.Longitude)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadius * c
}

// WithinRange reports whether p2 lies within maxDistance meters of p1.
func WithinRange(p1, p2 Point, maxDistance float64) bool {
	return Haversine(p1, p2) <= maxDistance
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
