package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/benmeehan/absensi-agent/internal/gate"
	"github.com/benmeehan/absensi-agent/internal/metrics"
	"github.com/benmeehan/absensi-agent/internal/panel"
	"github.com/benmeehan/absensi-agent/internal/session"
	"github.com/benmeehan/absensi-agent/pkg/location"
	"github.com/rs/zerolog"
)

// LocationService acquires one location fix at startup and publishes the
// range decision. A failed acquisition is reported and never retried.
type LocationService struct {
	// Configuration fields
	timeout time.Duration
	policy  gate.OfficePolicy

	// Dependencies
	locationProvider location.Provider
	session          *session.Session
	panel            *panel.Panel
	refresher        *ControlRefresher
	metrics          *metrics.Collector
	clock            Clock
	logger           zerolog.Logger

	// Internal state management
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	done    chan struct{}
	running bool
}

// NewLocationService creates a new LocationService. A zero timeout waits for
// the provider indefinitely.
func NewLocationService(timeout time.Duration, policy gate.OfficePolicy, locationProvider location.Provider,
	sess *session.Session, p *panel.Panel, refresher *ControlRefresher, m *metrics.Collector, clock Clock, logger zerolog.Logger) *LocationService {
	return &LocationService{
		timeout:          timeout,
		policy:           policy,
		locationProvider: locationProvider,
		session:          sess,
		panel:            p,
		refresher:        refresher,
		metrics:          m,
		clock:            clock,
		logger:           logger,
		done:             make(chan struct{}),
	}
}

// Start issues the one-shot location request in the background.
func (l *LocationService) Start() error {
	if l.running {
		l.logger.Warn().Msg("LocationService is already running")
		return errors.New("location service is already running")
	}

	l.ctx, l.cancel = context.WithCancel(context.Background())
	l.running = true
	l.done = make(chan struct{})

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		defer close(l.done)
		l.acquire()
	}()

	l.logger.Info().Dur("timeout", l.timeout).Msg("LocationService started")
	return nil
}

// Done is closed once the acquisition has finished, successfully or not.
func (l *LocationService) Done() <-chan struct{} {
	return l.done
}

// Stop abandons a pending acquisition and closes the provider.
func (l *LocationService) Stop() error {
	if !l.running {
		l.logger.Warn().Msg("LocationService is not running")
		return errors.New("location service is not running")
	}

	l.cancel()
	l.wg.Wait()

	if err := l.locationProvider.Close(); err != nil {
		l.logger.Error().Err(err).Msg("Failed to close location provider")
		return err
	}

	l.running = false
	l.logger.Info().Msg("LocationService stopped")
	return nil
}

func (l *LocationService) acquire() {
	ctx := l.ctx
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(l.ctx, l.timeout)
		defer cancel()
	}

	loc, err := location.Fetch(ctx, l.locationProvider)
	if err != nil {
		if l.ctx.Err() != nil {
			l.logger.Info().Msg("Location acquisition abandoned on shutdown")
			return
		}
		l.session.SetLocationError(err)
		l.panel.SetGPSUnavailable()
		l.refresher.Refresh(l.clock())
		l.logger.Error().Err(err).Msg("Failed to acquire location")
		return
	}

	point := loc.Point()
	l.session.SetLocation(point)

	decision := gate.EvaluateRange(point, l.policy)
	l.panel.SetRange(decision)
	l.metrics.SetDistance(decision.DistanceMeters)
	l.refresher.Refresh(l.clock())

	l.logger.Info().
		Float64("latitude", point.Latitude).
		Float64("longitude", point.Longitude).
		Float64("accuracy", loc.Accuracy).
		Float64("distance_m", decision.DistanceMeters).
		Bool("within_range", decision.WithinRange).
		Msg("Location acquired")
}
