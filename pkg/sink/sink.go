package sink

import (
	"context"
	"errors"

	"github.com/benmeehan/absensi-agent/internal/models"
)

var (
	ErrRejected       = errors.New("submission rejected by sink")
	ErrPublishTimeout = errors.New("timed out waiting for publish acknowledgment")
)

// Ack is what a sink reports back after accepting a submission.
type Ack struct {
	Sink       string `json:"sink"`
	StatusCode int    `json:"status_code,omitempty"`
	Reference  string `json:"reference,omitempty"`
}

// Sink delivers attendance submissions somewhere outside the kiosk.
type Sink interface {
	Name() string
	Submit(ctx context.Context, s models.Submission) (Ack, error)
}
