package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/benmeehan/absensi-agent/internal/models"
	"github.com/benmeehan/absensi-agent/pkg/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttendanceAttempt_Record(t *testing.T) {
	attempt := models.AttendanceAttempt{
		ID:        "a1",
		Kind:      "in",
		Timestamp: time.Date(2026, time.March, 5, 7, 41, 9, 0, time.UTC),
		Location:  geo.GeoPoint{Latitude: -6.2, Longitude: 106.816666},
		PhotoURL:  "data:image/png;base64,AAAA",
	}

	rec := attempt.Record(models.DefaultDateLayout, models.DefaultTimeLayout, "Tepat waktu")

	assert.Equal(t, "5/3/2026", rec.Date)
	assert.Equal(t, "07.41.09", rec.Time)

	payload, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"date": "5/3/2026",
		"time": "07.41.09",
		"type": "in",
		"photo": "data:image/png;base64,AAAA",
		"lat": -6.2,
		"lon": 106.816666,
		"status": "Tepat waktu"
	}`, string(payload))
}
