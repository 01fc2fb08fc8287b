package mocks

import (
	"context"
	"image"

	"github.com/stretchr/testify/mock"
)

// MockCamera is a mock implementation of the camera.Source interface
type MockCamera struct {
	mock.Mock
}

func (m *MockCamera) Open(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCamera) Capture(ctx context.Context) (image.Image, error) {
	args := m.Called(ctx)
	img, _ := args.Get(0).(image.Image)
	return img, args.Error(1)
}

func (m *MockCamera) Close() error {
	args := m.Called()
	return args.Error(0)
}
