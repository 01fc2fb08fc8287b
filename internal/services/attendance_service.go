package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/benmeehan/absensi-agent/internal/gate"
	"github.com/benmeehan/absensi-agent/internal/metrics"
	"github.com/benmeehan/absensi-agent/internal/models"
	"github.com/benmeehan/absensi-agent/internal/panel"
	"github.com/benmeehan/absensi-agent/internal/session"
	"github.com/benmeehan/absensi-agent/pkg/sink"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrNoPhoto            = errors.New("no photo captured")
	ErrNoLocation         = errors.New("no location available")
	ErrActionDisabled     = errors.New("attendance action is disabled")
	ErrSubmissionInFlight = errors.New("another submission is in progress")
	ErrSubmitFailed       = errors.New("failed to submit attendance")
)

// Submission results reported to metrics.
const (
	resultSuccess  = "success"
	resultRejected = "rejected"
	resultError    = "error"
)

// Result describes a delivered attendance submission.
type Result struct {
	ID       string        `json:"id"`
	Type     gate.Kind     `json:"type"`
	Date     string        `json:"date"`
	Time     string        `json:"time"`
	Status   string        `json:"status"`
	Decision gate.Decision `json:"decision"`
	Ack      sink.Ack      `json:"ack"`
}

// AttendanceService turns a check-in or check-out click into one submission.
type AttendanceService struct {
	sink       sink.Sink
	policy     gate.OfficePolicy
	session    *session.Session
	panel      *panel.Panel
	metrics    *metrics.Collector
	clock      Clock
	dateLayout string
	timeLayout string
	logger     zerolog.Logger

	inFlight atomic.Bool
}

func NewAttendanceService(s sink.Sink, policy gate.OfficePolicy, sess *session.Session, p *panel.Panel,
	m *metrics.Collector, clock Clock, dateLayout, timeLayout string, logger zerolog.Logger) *AttendanceService {
	return &AttendanceService{
		sink:       s,
		policy:     policy,
		session:    sess,
		panel:      p,
		metrics:    m,
		clock:      clock,
		dateLayout: dateLayout,
		timeLayout: timeLayout,
		logger:     logger,
	}
}

// Submit validates the session and delivers one attendance record for kind.
// Nothing reaches the sink without a photo, a location fix and an enabled
// control. Failed deliveries are reported and dropped.
func (a *AttendanceService) Submit(ctx context.Context, kind gate.Kind) (Result, error) {
	if !a.inFlight.CompareAndSwap(false, true) {
		return Result{}, ErrSubmissionInFlight
	}
	defer a.inFlight.Store(false)

	photo, ok := a.session.Photo()
	if !ok {
		a.panel.SetStatus(panel.MsgPhotoRequired)
		a.metrics.ObserveSubmission(string(kind), resultRejected, 0)
		return Result{}, ErrNoPhoto
	}

	loc, err := a.session.Location()
	if err != nil {
		if errors.Is(err, session.ErrLocationPending) {
			a.panel.SetStatus(panel.MsgLocationWait)
		} else {
			a.panel.SetStatus(panel.MsgGPSUnavailable)
		}
		a.metrics.ObserveSubmission(string(kind), resultRejected, 0)
		return Result{}, fmt.Errorf("%w: %w", ErrNoLocation, err)
	}

	now := a.clock()
	decision := gate.Evaluate(kind, now, loc, a.policy)
	if state := gate.ControlStateFor(kind, now, &decision); state != gate.Enabled {
		a.panel.SetStatus(panel.ActionDisabled(state))
		a.metrics.ObserveSubmission(string(kind), resultRejected, 0)
		return Result{}, fmt.Errorf("%w: %s", ErrActionDisabled, state)
	}

	attempt := models.AttendanceAttempt{
		ID:        uuid.NewString(),
		Kind:      string(kind),
		Timestamp: now,
		Location:  loc,
		PhotoURL:  photo.DataURL,
		Late:      decision.Late,
	}
	status := gate.StatusLabel(decision.Late)
	submission := models.Submission{
		Attempt:        attempt,
		Record:         attempt.Record(a.dateLayout, a.timeLayout, status),
		DistanceMeters: decision.DistanceMeters,
		PhotoPNG:       photo.PNG,
	}

	result := Result{
		ID:       attempt.ID,
		Type:     kind,
		Date:     submission.Record.Date,
		Time:     submission.Record.Time,
		Status:   status,
		Decision: decision,
	}

	start := time.Now()
	ack, err := a.sink.Submit(ctx, submission)
	took := time.Since(start)
	result.Ack = ack

	if err != nil {
		a.panel.SetStatus(panel.MsgSubmitFailed)
		a.metrics.ObserveSubmission(string(kind), resultError, took)
		a.logger.Error().
			Err(err).
			Str("attempt_id", attempt.ID).
			Str("type", attempt.Kind).
			Dur("took", took).
			Msg("Failed to submit attendance")
		return result, fmt.Errorf("%w: %w", ErrSubmitFailed, err)
	}

	a.panel.SetStatus(panel.SubmitSucceeded(kind))
	a.metrics.ObserveSubmission(string(kind), resultSuccess, took)
	a.logger.Info().
		Str("attempt_id", attempt.ID).
		Str("type", attempt.Kind).
		Str("status", status).
		Float64("distance_m", decision.DistanceMeters).
		Int("status_code", ack.StatusCode).
		Dur("took", took).
		Msg("Attendance submitted")
	return result, nil
}
