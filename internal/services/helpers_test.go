package services_test

import (
	"image"
	"testing"
	"time"

	"github.com/benmeehan/absensi-agent/internal/gate"
	"github.com/benmeehan/absensi-agent/internal/panel"
	"github.com/benmeehan/absensi-agent/internal/services"
	"github.com/benmeehan/absensi-agent/internal/session"
	"github.com/benmeehan/absensi-agent/pkg/geo"
	"github.com/stretchr/testify/require"
)

var (
	wib    = time.FixedZone("WIB", 7*60*60)
	office = geo.GeoPoint{Latitude: -6.200000, Longitude: 106.816666}
	// about 1.1 km south of the office
	farAway = geo.GeoPoint{Latitude: -6.21, Longitude: 106.816666}
)

func fixedClock(hour, minute int) services.Clock {
	return func() time.Time {
		return time.Date(2026, time.October, 16, hour, minute, 0, 0, wib)
	}
}

func testPolicy(t *testing.T) gate.OfficePolicy {
	t.Helper()
	policy, err := gate.NewOfficePolicy(office, 500)
	require.NoError(t, err)
	return policy
}

type fixture struct {
	policy    gate.OfficePolicy
	session   *session.Session
	panel     *panel.Panel
	refresher *services.ControlRefresher
}

func newFixture(t *testing.T) fixture {
	policy := testPolicy(t)
	sess := session.New()
	p := panel.New()
	return fixture{
		policy:    policy,
		session:   sess,
		panel:     p,
		refresher: services.NewControlRefresher(policy, sess, p, nil),
	}
}

func testImage() image.Image {
	return image.NewRGBA(image.Rect(0, 0, 8, 6))
}

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for one-shot operation")
	}
}
