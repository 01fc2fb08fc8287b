package location_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/benmeehan/absensi-agent/pkg/geo"
	"github.com/benmeehan/absensi-agent/pkg/location"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type blockingProvider struct{}

func (blockingProvider) GetLocation(ctx context.Context) (location.Location, error) {
	<-ctx.Done()
	return location.Location{}, ctx.Err()
}

func (blockingProvider) Close() error { return nil }

type failingProvider struct{ err error }

func (f failingProvider) GetLocation(context.Context) (location.Location, error) {
	return location.Location{}, f.err
}

func (f failingProvider) Close() error { return nil }

func TestReadGGA(t *testing.T) {
	input := strings.Join([]string{
		"$GPRMC,123519,A,4807.038,N,01131.000,E,022.4,084.4,230394,003.1,W*6A",
		"$GPGGA,123519,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,*47",
	}, "\r\n")

	loc, err := location.ReadGGA(strings.NewReader(input))

	require.NoError(t, err)
	assert.InDelta(t, 48.1173, loc.Latitude, 1e-4)
	assert.InDelta(t, 11.516667, loc.Longitude, 1e-4)
	assert.Equal(t, 0.9, loc.Accuracy)
}

func TestReadGGA_SkipsInvalidFixAndAcceptsGNSSTalker(t *testing.T) {
	input := strings.Join([]string{
		"$GPGGA,123519,4807.038,N,01131.000,E,0,00,99.9,545.4,M,46.9,M,,*7E",
		"$GNGGA,002153.000,0612.000,S,10649.000,E,1,09,1.2,12.0,M,0.0,M,,*5C",
	}, "\n")

	loc, err := location.ReadGGA(strings.NewReader(input))

	require.NoError(t, err)
	assert.InDelta(t, -6.2, loc.Latitude, 1e-6)
	assert.InDelta(t, 106.816666, loc.Longitude, 1e-5)
}

func TestReadGGA_BadChecksum(t *testing.T) {
	_, err := location.ReadGGA(strings.NewReader("$GPGGA,123519,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,*00\n"))
	assert.Error(t, err)
}

func TestReadGGA_NoFix(t *testing.T) {
	_, err := location.ReadGGA(strings.NewReader("garbage\n$GPRMC,123519,A,4807.038,N,01131.000,E,022.4,084.4,230394,003.1,W*6A\n"))
	assert.ErrorIs(t, err, location.ErrNoFix)
}

func TestFetch_Static(t *testing.T) {
	p := location.NewStaticProvider(-6.2, 106.816666)

	loc, err := location.Fetch(context.Background(), p)

	require.NoError(t, err)
	assert.Equal(t, geo.GeoPoint{Latitude: -6.2, Longitude: 106.816666}, loc.Point())
	assert.NoError(t, p.Close())
}

func TestFetch_Timeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := location.Fetch(ctx, blockingProvider{})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFetch_ProviderError(t *testing.T) {
	denied := errors.New("permission denied")

	_, err := location.Fetch(context.Background(), failingProvider{err: denied})

	assert.ErrorIs(t, err, denied)
}

func TestFetch_RejectsInvalidCoordinates(t *testing.T) {
	_, err := location.Fetch(context.Background(), location.NewStaticProvider(123, 0))

	assert.ErrorIs(t, err, geo.ErrInvalidPoint)
}
