package kernel

import (
	"errors"
	"fmt"
	"math"

	"laundry/internal/pkg/errs"
	"laundry/internal/pkg/guard"
)

const (
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0
)

// ErrGeoPointIsNotConstructed is returned when a GeoPoint was not built with NewGeoPoint.
var ErrGeoPointIsNotConstructed = errs.NewValueIsRequiredError("geo point must be created via NewGeoPoint")

// GeoPoint is an immutable latitude/longitude pair in decimal degrees.
//
// Example:
//
//	pickup, err := kernel.NewGeoPoint(-7.2855, 112.7483)
//	if err != nil {
//	    return err
//	}
type GeoPoint struct { //nolint:recvcheck // pointer receivers only for construction
	lat   float64
	lng   float64
	guard guard.ConstructorGuard
}

// NewGeoPoint validates both coordinates and returns the point.
// Latitude must lie in [-90, 90] and longitude in [-180, 180]; NaN is rejected.
func NewGeoPoint(lat, lng float64) (GeoPoint, error) {
	p := GeoPoint{guard: guard.NewConstructorGuard()}

	if err := errors.Join(p.setLat(lat), p.setLng(lng)); err != nil {
		return GeoPoint{}, err
	}

	return p, nil
}

// Validate fails for a zero-value GeoPoint.
func (p GeoPoint) Validate() error {
	return p.guard.Validate(ErrGeoPointIsNotConstructed)
}

// Lat returns the latitude in degrees.
func (p GeoPoint) Lat() float64 {
	return p.lat
}

// Lng returns the longitude in degrees.
func (p GeoPoint) Lng() float64 {
	return p.lng
}

// PlanarDistance returns the euclidean distance between the two points measured in
// degrees, treating latitude and longitude as a flat grid. This is an approximation
// that only holds inside a single city; it is not a geodesic distance.
func (p GeoPoint) PlanarDistance(other GeoPoint) float64 {
	return math.Hypot(p.lat-other.lat, p.lng-other.lng)
}

func (p GeoPoint) String() string {
	return fmt.Sprintf("GeoPoint(%.6f,%.6f)", p.lat, p.lng)
}

func (p *GeoPoint) setLat(lat float64) error {
	if math.IsNaN(lat) || lat < MinLatitude || lat > MaxLatitude {
		return errs.NewValueIsOutOfRangeError("latitude", lat, MinLatitude, MaxLatitude)
	}
	p.lat = lat
	return nil
}

func (p *GeoPoint) setLng(lng float64) error {
	if math.IsNaN(lng) || lng < MinLongitude || lng > MaxLongitude {
		return errs.NewValueIsOutOfRangeError("longitude", lng, MinLongitude, MaxLongitude)
	}
	p.lng = lng
	return nil
}
