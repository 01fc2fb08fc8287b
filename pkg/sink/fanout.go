package sink

import (
	"context"
	"sync"
	"time"

	"github.com/benmeehan/absensi-agent/internal/models"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DefaultMirrorTimeout bounds one mirror delivery when none is configured.
const DefaultMirrorTimeout = 30 * time.Second

// Fanout delivers to a primary sink and hands the same submission to any
// number of mirrors in the background. Only the primary decides the outcome
// and Submit returns as soon as it does; mirror failures are logged.
type Fanout struct {
	primary       Sink
	mirrors       []Sink
	mirrorTimeout time.Duration
	logger        zerolog.Logger

	wg sync.WaitGroup
}

func NewFanout(primary Sink, mirrorTimeout time.Duration, logger zerolog.Logger, mirrors ...Sink) *Fanout {
	if mirrorTimeout <= 0 {
		mirrorTimeout = DefaultMirrorTimeout
	}
	return &Fanout{primary: primary, mirrors: mirrors, mirrorTimeout: mirrorTimeout, logger: logger}
}

func (f *Fanout) Name() string { return f.primary.Name() }

func (f *Fanout) Submit(ctx context.Context, s models.Submission) (Ack, error) {
	if len(f.mirrors) > 0 {
		// Mirrors outlive the request; they get their own deadline instead.
		f.wg.Add(1)
		go f.mirror(context.WithoutCancel(ctx), s)
	}
	return f.primary.Submit(ctx, s)
}

func (f *Fanout) mirror(ctx context.Context, s models.Submission) {
	defer f.wg.Done()

	ctx, cancel := context.WithTimeout(ctx, f.mirrorTimeout)
	defer cancel()

	var g errgroup.Group
	for _, m := range f.mirrors {
		m := m
		g.Go(func() error {
			mirrorAck, err := m.Submit(ctx, s)
			if err != nil {
				f.logger.Warn().Err(err).Str("sink", m.Name()).Str("attempt_id", s.Attempt.ID).Msg("Mirror sink failed")
				return nil
			}
			f.logger.Debug().Str("sink", mirrorAck.Sink).Str("reference", mirrorAck.Reference).Msg("Mirror sink delivered")
			return nil
		})
	}
	_ = g.Wait()
}

// Wait blocks until the mirror deliveries started so far have finished, or
// until ctx is done.
func (f *Fanout) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		f.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
