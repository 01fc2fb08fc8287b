package models

import (
	"time"
)

// AttendanceEvent is the compact form of a submission mirrored to the message
// broker. The photo is left out; it travels to the webhook and the archive.
type AttendanceEvent struct {
	ID             string    `json:"id"`
	KioskID        string    `json:"kiosk_id"`
	Timestamp      time.Time `json:"timestamp"`
	Type           string    `json:"type"`
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	DistanceMeters float64   `json:"distance_meters"`
	Status         string    `json:"status"`
}

// NewAttendanceEvent derives the broker message for s.
func NewAttendanceEvent(kioskID string, s Submission) AttendanceEvent {
	return AttendanceEvent{
		ID:             s.Attempt.ID,
		KioskID:        kioskID,
		Timestamp:      s.Attempt.Timestamp,
		Type:           s.Record.Type,
		Latitude:       s.Record.Lat,
		Longitude:      s.Record.Lon,
		DistanceMeters: s.DistanceMeters,
		Status:         s.Record.Status,
	}
}
