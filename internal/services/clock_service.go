package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/benmeehan/absensi-agent/internal/gate"
	"github.com/benmeehan/absensi-agent/internal/panel"
	"github.com/rs/zerolog"
)

// ClockService refreshes the time label and the action controls on a fixed cadence.
type ClockService struct {
	Interval  time.Duration
	Clock     Clock
	Panel     *panel.Panel
	Refresher *ControlRefresher
	Logger    zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewClockService initializes a new ClockService.
func NewClockService(interval time.Duration, clock Clock, p *panel.Panel, refresher *ControlRefresher, logger zerolog.Logger) *ClockService {
	return &ClockService{
		Interval:  interval,
		Clock:     clock,
		Panel:     p,
		Refresher: refresher,
		Logger:    logger,
	}
}

// Start renders the first tick immediately and then launches the tick loop.
func (c *ClockService) Start() error {
	if c.ctx != nil {
		c.Logger.Warn().Msg("ClockService is already running")
		return errors.New("clock service is already running")
	}

	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.tick()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.runClockLoop()
	}()

	c.Logger.Info().Dur("interval", c.Interval).Msg("ClockService started successfully")
	return nil
}

// Stop gracefully stops the clock loop.
func (c *ClockService) Stop() error {
	if c.ctx == nil {
		c.Logger.Warn().Msg("ClockService is not running")
		return errors.New("clock service is not running")
	}

	c.cancel()
	c.wg.Wait()

	c.ctx = nil
	c.cancel = nil

	c.Logger.Info().Msg("ClockService stopped successfully")
	return nil
}

func (c *ClockService) runClockLoop() {
	ticker := time.NewTicker(c.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.tick()
		case <-c.ctx.Done():
			c.Logger.Info().Msg("ClockService stopping gracefully")
			return
		}
	}
}

func (c *ClockService) tick() {
	now := c.Clock()
	c.Panel.SetTime(now)
	states := c.Refresher.Refresh(now)

	c.Logger.Trace().
		Time("now", now).
		Stringer("in", states[gate.CheckIn]).
		Stringer("out", states[gate.CheckOut]).
		Msg("Controls refreshed")
}
