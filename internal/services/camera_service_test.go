package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/benmeehan/absensi-agent/internal/mocks"
	"github.com/benmeehan/absensi-agent/internal/services"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCameraService_Capture(t *testing.T) {
	f := newFixture(t)
	cam := new(mocks.MockCamera)
	cam.On("Open", mock.Anything).Return(nil)
	cam.On("Capture", mock.Anything).Return(testImage(), nil)
	cam.On("Close").Return(nil)

	c := services.NewCameraService(cam, time.Second, f.session, f.panel, zerolog.Nop())
	require.NoError(t, c.Start())
	waitDone(t, c.Done())
	assert.True(t, c.Ready())
	assert.True(t, f.panel.Snapshot().CameraReady)

	photo, err := c.Capture(context.Background())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(photo.DataURL, "data:image/png;base64,"))

	stored, ok := f.session.Photo()
	assert.True(t, ok)
	assert.Equal(t, photo.DataURL, stored.DataURL)
	assert.Equal(t, photo.DataURL, f.panel.Snapshot().Photo)

	require.NoError(t, c.Stop())
	assert.False(t, c.Ready())
	cam.AssertExpectations(t)
}

func TestCameraService_OpenFailureLeavesCameraUnavailable(t *testing.T) {
	f := newFixture(t)
	cam := new(mocks.MockCamera)
	cam.On("Open", mock.Anything).Return(errors.New("no device")).Once()
	cam.On("Close").Return(nil)

	c := services.NewCameraService(cam, time.Second, f.session, f.panel, zerolog.Nop())
	require.NoError(t, c.Start(), "an unavailable camera is not fatal")
	waitDone(t, c.Done())

	_, err := c.Capture(context.Background())
	assert.ErrorIs(t, err, services.ErrCameraUnavailable)
	_, ok := f.session.Photo()
	assert.False(t, ok)
	cam.AssertNotCalled(t, "Capture", mock.Anything)
	cam.AssertNumberOfCalls(t, "Open", 1)

	require.NoError(t, c.Stop())
}

func TestCameraService_CaptureError(t *testing.T) {
	f := newFixture(t)
	cam := new(mocks.MockCamera)
	cam.On("Open", mock.Anything).Return(nil)
	cam.On("Capture", mock.Anything).Return(nil, errors.New("frame dropped"))
	cam.On("Close").Return(nil)

	c := services.NewCameraService(cam, time.Second, f.session, f.panel, zerolog.Nop())
	require.NoError(t, c.Start())
	waitDone(t, c.Done())

	_, err := c.Capture(context.Background())
	assert.ErrorContains(t, err, "frame dropped")
	_, ok := f.session.Photo()
	assert.False(t, ok)

	require.NoError(t, c.Stop())
	assert.EqualError(t, c.Stop(), "camera service is not running")
}
