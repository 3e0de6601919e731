package geo

import (
	"math"
	"net/http"

	"go-timeclock/internal/shared/apperror"
)

const (
	earthRadiusKm = 6371.0
	feetToMeters  = 0.3048
)

// ComplianceStatus classifies a position against a job geofence.
type ComplianceStatus string

const (
	// StatusWithin means the position is inside the allowed radius.
	StatusWithin ComplianceStatus = "WITHIN"
	// StatusOutside means the position is outside the allowed radius.
	StatusOutside ComplianceStatus = "OUTSIDE"
	// StatusUndetermined means the job has no usable anchor, so no
	// compliance claim is made either way.
	StatusUndetermined ComplianceStatus = "UNDETERMINED"
)

type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Valid reports whether the coordinates are finite and within WGS84 bounds.
func (c Coordinates) Valid() bool {
	if math.IsNaN(c.Latitude) || math.IsInf(c.Latitude, 0) {
		return false
	}
	if math.IsNaN(c.Longitude) || math.IsInf(c.Longitude, 0) {
		return false
	}
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// IsZero treats exact (0,0) as "no anchor configured". A job whose anchor
// was never set stores zeroes, and Null Island is not a workplace.
func (c Coordinates) IsZero() bool {
	return c.Latitude == 0 && c.Longitude == 0
}

type Classification struct {
	Status         ComplianceStatus `json:"status"`
	DistanceMeters float64          `json:"distance_meters"`
}

// WithinGeofence is the tri-state flag persisted on location samples:
// nil when undetermined, otherwise the compliance outcome.
func (c Classification) WithinGeofence() *bool {
	if c.Status == StatusUndetermined {
		return nil
	}
	v := c.Status == StatusWithin
	return &v
}

// Distance returns the great-circle distance between two points in
// kilometers using the haversine formula.
func Distance(a, b Coordinates) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Classify compares a current position against a job anchor. The allowed
// radius is radiusMeters plus graceFeet converted to meters. A missing or
// zero anchor yields StatusUndetermined, never a violation.
func Classify(current, anchor Coordinates, radiusMeters, graceFeet float64) (Classification, error) {
	if !current.Valid() {
		return Classification{}, apperror.New(
			apperror.CodeInvalidGeometry,
			"current position has invalid coordinates",
			http.StatusUnprocessableEntity,
		)
	}
	if !anchor.Valid() || anchor.IsZero() {
		return Classification{Status: StatusUndetermined}, nil
	}

	distanceMeters := Distance(current, anchor) * 1000
	allowed := radiusMeters + graceFeet*feetToMeters

	status := StatusOutside
	if distanceMeters <= allowed {
		status = StatusWithin
	}
	return Classification{Status: status, DistanceMeters: distanceMeters}, nil
}
