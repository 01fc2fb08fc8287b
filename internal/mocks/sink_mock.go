package mocks

import (
	"context"

	"github.com/benmeehan/absensi-agent/internal/models"
	"github.com/benmeehan/absensi-agent/pkg/sink"
	"github.com/stretchr/testify/mock"
)

// MockSink is a mock implementation of the sink.Sink interface
type MockSink struct {
	mock.Mock
}

func (m *MockSink) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockSink) Submit(ctx context.Context, s models.Submission) (sink.Ack, error) {
	args := m.Called(ctx, s)
	return args.Get(0).(sink.Ack), args.Error(1)
}
