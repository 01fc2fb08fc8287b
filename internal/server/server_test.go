package server_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/benmeehan/absensi-agent/internal/gate"
	"github.com/benmeehan/absensi-agent/internal/metrics"
	"github.com/benmeehan/absensi-agent/internal/panel"
	"github.com/benmeehan/absensi-agent/internal/server"
	"github.com/benmeehan/absensi-agent/internal/services"
	"github.com/benmeehan/absensi-agent/pkg/camera"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCapturer struct{ mock.Mock }

func (m *mockCapturer) Capture(ctx context.Context) (camera.Photo, error) {
	args := m.Called(ctx)
	return args.Get(0).(camera.Photo), args.Error(1)
}

type mockSubmitter struct{ mock.Mock }

func (m *mockSubmitter) Submit(ctx context.Context, kind gate.Kind) (services.Result, error) {
	args := m.Called(ctx, kind)
	return args.Get(0).(services.Result), args.Error(1)
}

func newTestServer(t *testing.T) (*server.Server, *panel.Panel, *mockCapturer, *mockSubmitter) {
	t.Helper()
	p := panel.New()
	capturer := new(mockCapturer)
	submitter := new(mockSubmitter)
	collector, err := metrics.NewCollector(prometheus.NewRegistry())
	require.NoError(t, err)
	return server.NewServer("127.0.0.1:0", p, capturer, submitter, collector, zerolog.Nop()), p, capturer, submitter
}

func do(t *testing.T, s *server.Server, method, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(method, path, nil))

	var body map[string]any
	if rec.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestServer_State(t *testing.T) {
	s, p, _, _ := newTestServer(t)
	p.SetStatus("Absensi in berhasil!")
	p.SetControl(gate.CheckIn, gate.Enabled)

	rec, body := do(t, s, http.MethodGet, "/api/v1/state")

	assert.Equal(t, http.StatusOK, rec.Code)
	data := body["data"].(map[string]any)
	assert.Equal(t, "Absensi in berhasil!", data["status"])
	assert.Equal(t, "enabled", data["controls"].(map[string]any)["in"])
}

func TestServer_Capture(t *testing.T) {
	s, _, capturer, _ := newTestServer(t)
	capturer.On("Capture", mock.Anything).Return(camera.Photo{DataURL: "data:image/png;base64,AAAA"}, nil).Once()

	rec, body := do(t, s, http.MethodPost, "/api/v1/capture")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "data:image/png;base64,AAAA", body["data"].(map[string]any)["photo"])
}

func TestServer_CaptureUnavailable(t *testing.T) {
	s, _, capturer, _ := newTestServer(t)
	capturer.On("Capture", mock.Anything).Return(camera.Photo{}, services.ErrCameraUnavailable)

	rec, _ := do(t, s, http.MethodPost, "/api/v1/capture")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestServer_Submit(t *testing.T) {
	s, _, _, submitter := newTestServer(t)
	submitter.On("Submit", mock.Anything, gate.CheckOut).Return(services.Result{ID: "abc", Type: gate.CheckOut, Status: gate.StatusOnTime}, nil).Once()

	rec, body := do(t, s, http.MethodPost, "/api/v1/attendance/out")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc", body["data"].(map[string]any)["id"])
	submitter.AssertExpectations(t)
}

func TestServer_SubmitErrors(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{services.ErrNoPhoto, http.StatusConflict},
		{fmt.Errorf("%w: pending", services.ErrNoLocation), http.StatusConflict},
		{fmt.Errorf("%w: disabled_out_of_range", services.ErrActionDisabled), http.StatusConflict},
		{services.ErrSubmissionInFlight, http.StatusConflict},
		{fmt.Errorf("%w: timeout", services.ErrSubmitFailed), http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			s, _, _, submitter := newTestServer(t)
			submitter.On("Submit", mock.Anything, gate.CheckIn).Return(services.Result{}, tt.err)

			rec, body := do(t, s, http.MethodPost, "/api/v1/attendance/in")

			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, tt.err.Error(), body["error"])
		})
	}
}

func TestServer_SubmitUnknownType(t *testing.T) {
	s, _, _, submitter := newTestServer(t)

	rec, _ := do(t, s, http.MethodPost, "/api/v1/attendance/lunch")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	submitter.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
}

func TestServer_HealthAndMetrics(t *testing.T) {
	s, _, _, _ := newTestServer(t)

	rec, _ := do(t, s, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(t, s, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_StartStop(t *testing.T) {
	s, _, _, _ := newTestServer(t)

	require.NoError(t, s.Start())
	assert.EqualError(t, s.Start(), "http server is already running")
	require.NoError(t, s.Stop())
	assert.EqualError(t, s.Stop(), "http server is not running")
}
