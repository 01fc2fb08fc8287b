package sink

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/benmeehan/absensi-agent/internal/models"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// WebhookSink posts the attendance record as JSON to a remote endpoint,
// e.g. a spreadsheet script.
type WebhookSink struct {
	url    string
	client *http.Client
}

// NewWebhookSink creates a sink for url. A zero timeout means requests may
// wait indefinitely.
func NewWebhookSink(url string, timeout time.Duration) *WebhookSink {
	return &WebhookSink{
		url: url,
		client: &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     60 * time.Second,
			},
			Timeout: timeout,
		},
	}
}

func (w *WebhookSink) Name() string { return "webhook" }

// Submit posts s.Record. The response body is discarded; any status below
// 400 counts as delivered.
func (w *WebhookSink) Submit(ctx context.Context, s models.Submission) (Ack, error) {
	ack := Ack{Sink: w.Name()}

	body, err := json.Marshal(s.Record)
	if err != nil {
		return ack, fmt.Errorf("failed to encode attendance record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return ack, fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return ack, fmt.Errorf("failed to post attendance record: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	ack.StatusCode = resp.StatusCode
	if resp.StatusCode >= http.StatusBadRequest {
		return ack, fmt.Errorf("%w: webhook returned status %d", ErrRejected, resp.StatusCode)
	}
	return ack, nil
}
