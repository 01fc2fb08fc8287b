package services_test

import (
	"errors"
	"testing"

	"github.com/benmeehan/absensi-agent/internal/services"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type recordingService struct {
	name     string
	log      *[]string
	startErr error
}

func (r *recordingService) Start() error {
	*r.log = append(*r.log, "start "+r.name)
	return r.startErr
}

func (r *recordingService) Stop() error {
	*r.log = append(*r.log, "stop "+r.name)
	return nil
}

func TestServiceRegistry_StartsInOrderStopsInReverse(t *testing.T) {
	var log []string
	sr := services.NewServiceRegistry(zerolog.Nop())
	sr.RegisterService("camera", &recordingService{name: "camera", log: &log})
	sr.RegisterService("location", &recordingService{name: "location", log: &log})
	sr.RegisterService("clock", &recordingService{name: "clock", log: &log})
	sr.RegisterService("camera", &recordingService{name: "duplicate", log: &log})

	assert.NoError(t, sr.StartServices())
	assert.NoError(t, sr.StopServices())

	assert.Equal(t, []string{
		"start camera", "start location", "start clock",
		"stop clock", "stop location", "stop camera",
	}, log)
}

func TestServiceRegistry_StartFailureRollsBack(t *testing.T) {
	var log []string
	sr := services.NewServiceRegistry(zerolog.Nop())
	sr.RegisterService("camera", &recordingService{name: "camera", log: &log})
	sr.RegisterService("http", &recordingService{name: "http", log: &log, startErr: errors.New("address in use")})
	sr.RegisterService("clock", &recordingService{name: "clock", log: &log})

	err := sr.StartServices()

	assert.ErrorContains(t, err, "address in use")
	assert.Equal(t, []string{"start camera", "start http", "stop camera"}, log)
}
