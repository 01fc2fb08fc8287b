package camera

import (
	"context"
	"fmt"
	"image"
	"net/http"
	"sync"
	"time"

	http_utils "github.com/benmeehan/absensi-agent/pkg/httpUtils"
)

// SnapshotCamera captures frames from an IP camera's still-image endpoint.
type SnapshotCamera struct {
	url    string
	client *http.Client

	mu     sync.Mutex
	opened bool
}

// NewSnapshotCamera creates a SnapshotCamera for url. A zero timeout disables it.
func NewSnapshotCamera(url string, timeout time.Duration) *SnapshotCamera {
	return &SnapshotCamera{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Open fetches one frame to confirm the endpoint serves decodable images.
func (c *SnapshotCamera) Open(ctx context.Context) error {
	if _, err := c.fetch(ctx); err != nil {
		return fmt.Errorf("camera not reachable at %s: %w", c.url, err)
	}

	c.mu.Lock()
	c.opened = true
	c.mu.Unlock()
	return nil
}

// Capture fetches and decodes the current frame.
func (c *SnapshotCamera) Capture(ctx context.Context) (image.Image, error) {
	c.mu.Lock()
	opened := c.opened
	c.mu.Unlock()
	if !opened {
		return nil, ErrNotOpen
	}
	return c.fetch(ctx)
}

func (c *SnapshotCamera) fetch(ctx context.Context) (image.Image, error) {
	data, err := http_utils.FetchBytes(ctx, c.client, c.url)
	if err != nil {
		return nil, err
	}
	return decodeFrame(data)
}

func (c *SnapshotCamera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.opened = false
	c.client.CloseIdleConnections()
	return nil
}
