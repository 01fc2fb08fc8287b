package session

import (
	"errors"
	"sync"

	"github.com/benmeehan/absensi-agent/pkg/camera"
	"github.com/benmeehan/absensi-agent/pkg/geo"
)

var ErrLocationPending = errors.New("location not yet acquired")

// Session holds the state of one kiosk session: the last captured photo and
// the observed location. Writers overwrite; the last write wins.
type Session struct {
	mu          sync.RWMutex
	photo       *camera.Photo
	location    *geo.GeoPoint
	locationErr error
}

func New() *Session {
	return &Session{}
}

// SetPhoto replaces the last captured photo.
func (s *Session) SetPhoto(p camera.Photo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.photo = &p
}

// Photo returns the last captured photo, if any.
func (s *Session) Photo() (camera.Photo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.photo == nil {
		return camera.Photo{}, false
	}
	return *s.photo, true
}

// SetLocation stores an observed location and clears any previous failure.
func (s *Session) SetLocation(p geo.GeoPoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.location = &p
	s.locationErr = nil
}

// SetLocationError records that acquisition failed.
func (s *Session) SetLocationError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.location = nil
	s.locationErr = err
}

// Location returns the observed location, ErrLocationPending before any
// result arrived, or the acquisition error.
func (s *Session) Location() (geo.GeoPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.location != nil {
		return *s.location, nil
	}
	if s.locationErr != nil {
		return geo.GeoPoint{}, s.locationErr
	}
	return geo.GeoPoint{}, ErrLocationPending
}
