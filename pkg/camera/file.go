package camera

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/benmeehan/absensi-agent/pkg/file"
)

// FileCamera serves a still image from disk. The file is re-read on every
// capture so an external process can keep replacing it.
type FileCamera struct {
	path       string
	fileClient file.FileOperations

	mu     sync.Mutex
	opened bool
}

func NewFileCamera(path string, fileClient file.FileOperations) *FileCamera {
	return &FileCamera{path: path, fileClient: fileClient}
}

func (c *FileCamera) Open(ctx context.Context) error {
	exists, err := c.fileClient.IsFileExists(c.path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", c.path, err)
	}
	if !exists {
		return fmt.Errorf("camera image %s does not exist", c.path)
	}

	c.mu.Lock()
	c.opened = true
	c.mu.Unlock()
	return nil
}

func (c *FileCamera) Capture(ctx context.Context) (image.Image, error) {
	c.mu.Lock()
	opened := c.opened
	c.mu.Unlock()
	if !opened {
		return nil, ErrNotOpen
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := c.fileClient.ReadFileRaw(c.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", c.path, err)
	}
	return decodeFrame(data)
}

func (c *FileCamera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.opened = false
	return nil
}
