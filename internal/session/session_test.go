package session_test

import (
	"errors"
	"testing"

	"github.com/benmeehan/absensi-agent/internal/session"
	"github.com/benmeehan/absensi-agent/pkg/camera"
	"github.com/benmeehan/absensi-agent/pkg/geo"
	"github.com/stretchr/testify/assert"
)

func TestSession_Photo(t *testing.T) {
	s := session.New()

	_, ok := s.Photo()
	assert.False(t, ok)

	s.SetPhoto(camera.Photo{DataURL: "data:image/png;base64,AAA"})
	s.SetPhoto(camera.Photo{DataURL: "data:image/png;base64,BBB"})

	p, ok := s.Photo()
	assert.True(t, ok)
	assert.Equal(t, "data:image/png;base64,BBB", p.DataURL)
}

func TestSession_Location(t *testing.T) {
	s := session.New()

	_, err := s.Location()
	assert.ErrorIs(t, err, session.ErrLocationPending)

	gpsErr := errors.New("gps off")
	s.SetLocationError(gpsErr)
	_, err = s.Location()
	assert.ErrorIs(t, err, gpsErr)

	s.SetLocation(geo.GeoPoint{Latitude: -6.2, Longitude: 106.8})
	loc, err := s.Location()
	assert.NoError(t, err)
	assert.Equal(t, geo.GeoPoint{Latitude: -6.2, Longitude: 106.8}, loc)
}
