package location

import "github.com/benmeehan/absensi-agent/pkg/geo"

// Location represents a single position fix.
type Location struct {
	Latitude  float64
	Longitude float64
	Accuracy  float64
}

// Point returns the fix as a GeoPoint.
func (l Location) Point() geo.GeoPoint {
	return geo.GeoPoint{Latitude: l.Latitude, Longitude: l.Longitude}
}
