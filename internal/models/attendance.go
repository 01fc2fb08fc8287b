package models

import (
	"time"

	"github.com/benmeehan/absensi-agent/pkg/geo"
)

// Default layouts render date and time the way an Indonesian-locale browser does.
const (
	DefaultDateLayout = "2/1/2006"
	DefaultTimeLayout = "15.04.05"
)

// AttendanceAttempt is one check-in or check-out click, alive only until it
// has been handed to the sink.
type AttendanceAttempt struct {
	ID        string
	Kind      string
	Timestamp time.Time
	Location  geo.GeoPoint
	PhotoURL  string
	Late      bool
}

// AttendanceRecord is the JSON body posted to the webhook.
type AttendanceRecord struct {
	Date   string  `json:"date"`
	Time   string  `json:"time"`
	Type   string  `json:"type"`
	Photo  string  `json:"photo"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Status string  `json:"status"`
}

// Record converts the attempt into its wire form.
func (a AttendanceAttempt) Record(dateLayout, timeLayout, status string) AttendanceRecord {
	return AttendanceRecord{
		Date:   a.Timestamp.Format(dateLayout),
		Time:   a.Timestamp.Format(timeLayout),
		Type:   a.Kind,
		Photo:  a.PhotoURL,
		Lat:    a.Location.Latitude,
		Lon:    a.Location.Longitude,
		Status: status,
	}
}

// Submission bundles everything a sink may need for one attempt.
type Submission struct {
	Attempt        AttendanceAttempt
	Record         AttendanceRecord
	DistanceMeters float64
	PhotoPNG       []byte
}
