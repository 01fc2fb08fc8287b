package gate

import (
	"errors"
	"fmt"
	"time"

	"github.com/benmeehan/absensi-agent/pkg/geo"
)

// Kind identifies an attendance action.
type Kind string

const (
	CheckIn  Kind = "in"
	CheckOut Kind = "out"
)

// Kinds lists every attendance action in display order.
var Kinds = []Kind{CheckIn, CheckOut}

var ErrUnknownKind = errors.New("unknown attendance kind")

// ParseKind converts the wire form ("in" / "out") into a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case CheckIn, CheckOut:
		return Kind(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Lateness labels sent with every record.
const (
	StatusLate   = "Terlambat"
	StatusOnTime = "Tepat waktu"
)

// OfficePolicy is the fixed office location and the accepted radius around it.
type OfficePolicy struct {
	Location          geo.GeoPoint
	MaxDistanceMeters float64
}

// NewOfficePolicy validates and returns an OfficePolicy.
func NewOfficePolicy(location geo.GeoPoint, maxDistanceMeters float64) (OfficePolicy, error) {
	if err := location.Validate(); err != nil {
		return OfficePolicy{}, fmt.Errorf("office location: %w", err)
	}
	if !(maxDistanceMeters > 0) {
		return OfficePolicy{}, fmt.Errorf("max distance must be positive, got %v", maxDistanceMeters)
	}
	return OfficePolicy{Location: location, MaxDistanceMeters: maxDistanceMeters}, nil
}

// Decision is the derived judgment for one attendance attempt.
type Decision struct {
	WithinRange    bool    `json:"within_range"`
	DistanceMeters float64 `json:"distance_meters"`
	Late           bool    `json:"late"`
}

// ComputeDistanceMeters is the great-circle distance between a and b in meters.
func ComputeDistanceMeters(a, b geo.GeoPoint) float64 {
	return geo.DistanceMeters(a, b)
}

// EvaluateRange fills the distance and range fields of a Decision.
func EvaluateRange(observed geo.GeoPoint, policy OfficePolicy) Decision {
	distance := ComputeDistanceMeters(observed, policy.Location)
	return Decision{
		WithinRange:    distance <= policy.MaxDistanceMeters,
		DistanceMeters: distance,
	}
}

// EvaluateTimeWindow reports whether kind may be triggered at now.
// Check-in opens at 07:30 and check-out at 16:00; both close when the hour rolls over.
func EvaluateTimeWindow(now time.Time, kind Kind) bool {
	hour, minute := now.Hour(), now.Minute()
	switch kind {
	case CheckIn:
		return hour == 7 && minute >= 30
	case CheckOut:
		return hour == 16 && minute >= 0
	}
	return false
}

// EvaluateLateness judges the submission instant with hour granularity only.
func EvaluateLateness(kind Kind, now time.Time) bool {
	switch kind {
	case CheckIn:
		return now.Hour() > 7
	case CheckOut:
		return now.Hour() < 16
	}
	return false
}

// Evaluate computes the complete Decision for a submission.
func Evaluate(kind Kind, now time.Time, observed geo.GeoPoint, policy OfficePolicy) Decision {
	d := EvaluateRange(observed, policy)
	d.Late = EvaluateLateness(kind, now)
	return d
}

// StatusLabel returns the lateness label carried in the submitted record.
func StatusLabel(late bool) string {
	if late {
		return StatusLate
	}
	return StatusOnTime
}
