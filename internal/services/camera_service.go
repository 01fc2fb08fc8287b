package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benmeehan/absensi-agent/internal/panel"
	"github.com/benmeehan/absensi-agent/internal/session"
	"github.com/benmeehan/absensi-agent/pkg/camera"
	"github.com/rs/zerolog"
)

var ErrCameraUnavailable = errors.New("camera is not available")

// CameraService opens the camera once at startup and takes stills on demand.
// If opening fails the camera stays unavailable for the rest of the session.
type CameraService struct {
	source      camera.Source
	openTimeout time.Duration
	session     *session.Session
	panel       *panel.Panel
	logger      zerolog.Logger

	mu      sync.RWMutex
	ready   bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	done    chan struct{}
	running bool
}

func NewCameraService(source camera.Source, openTimeout time.Duration, sess *session.Session, p *panel.Panel, logger zerolog.Logger) *CameraService {
	return &CameraService{
		source:      source,
		openTimeout: openTimeout,
		session:     sess,
		panel:       p,
		logger:      logger,
		done:        make(chan struct{}),
	}
}

// Start opens the camera in the background. An open failure is logged, not returned.
func (c *CameraService) Start() error {
	if c.running {
		c.logger.Warn().Msg("CameraService is already running")
		return errors.New("camera service is already running")
	}

	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.running = true
	c.done = make(chan struct{})

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer close(c.done)
		c.open()
	}()

	c.logger.Info().Msg("CameraService started")
	return nil
}

// Done is closed once the open attempt has finished.
func (c *CameraService) Done() <-chan struct{} {
	return c.done
}

func (c *CameraService) open() {
	ctx := c.ctx
	if c.openTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(c.ctx, c.openTimeout)
		defer cancel()
	}

	if err := c.source.Open(ctx); err != nil {
		c.logger.Error().Err(err).Msg("Camera could not be opened")
		c.panel.SetCameraReady(false)
		return
	}

	c.mu.Lock()
	c.ready = true
	c.mu.Unlock()
	c.panel.SetCameraReady(true)
	c.logger.Info().Msg("Camera opened")
}

// Ready reports whether the camera was opened successfully.
func (c *CameraService) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ready
}

// Capture takes a still, stores it as the session photo and shows the preview.
func (c *CameraService) Capture(ctx context.Context) (camera.Photo, error) {
	if !c.Ready() {
		return camera.Photo{}, ErrCameraUnavailable
	}

	img, err := c.source.Capture(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to capture photo")
		return camera.Photo{}, fmt.Errorf("failed to capture photo: %w", err)
	}

	photo, err := camera.NewPhoto(img)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to encode photo")
		return camera.Photo{}, err
	}

	c.session.SetPhoto(photo)
	c.panel.SetPhoto(photo.DataURL)

	c.logger.Info().
		Int("width", img.Bounds().Dx()).
		Int("height", img.Bounds().Dy()).
		Int("png_bytes", len(photo.PNG)).
		Msg("Photo captured")
	return photo, nil
}

// Stop waits for a pending open and releases the camera.
func (c *CameraService) Stop() error {
	if !c.running {
		c.logger.Warn().Msg("CameraService is not running")
		return errors.New("camera service is not running")
	}

	c.cancel()
	c.wg.Wait()

	c.mu.Lock()
	c.ready = false
	c.mu.Unlock()
	c.panel.SetCameraReady(false)

	if err := c.source.Close(); err != nil {
		c.logger.Error().Err(err).Msg("Failed to close camera")
		return err
	}

	c.running = false
	c.logger.Info().Msg("CameraService stopped")
	return nil
}
