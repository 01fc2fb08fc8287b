package utils_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/benmeehan/absensi-agent/internal/mocks"
	"github.com/benmeehan/absensi-agent/internal/utils"
	"github.com/benmeehan/absensi-agent/pkg/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const validConfig = `
kiosk_id: lobby-1
office:
  latitude: -6.200000
  longitude: 106.816666
  max_distance_meters: 500
camera:
  source: file
  file_path: /var/lib/absensi/frame.png
location:
  provider: static
  latitude: -6.2001
  longitude: 106.8167
  timeout: 15s
sinks:
  webhook:
    url: https://script.google.com/macros/s/example/exec
  mqtt:
    enabled: true
    broker: tcp://localhost:1883
    qos: 1
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func TestLoadConfig(t *testing.T) {
	config, err := utils.LoadConfig(writeConfig(t, validConfig), file.NewFileService())
	require.NoError(t, err)

	assert.Equal(t, "lobby-1", config.KioskID)
	assert.Equal(t, 15*time.Second, config.Location.Timeout)
	assert.Equal(t, time.Second, config.Clock.TickInterval)
	assert.Equal(t, "Asia/Jakarta", config.Clock.Timezone)
	assert.Equal(t, "2/1/2006", config.Sinks.Webhook.DateLayout)
	assert.Equal(t, "absensi/attendance", config.Sinks.MQTT.Topic)
	assert.Equal(t, 30*time.Second, config.Sinks.MirrorTimeout)
	assert.Equal(t, "127.0.0.1:8080", config.Server.Address)

	policy, err := config.OfficePolicy()
	require.NoError(t, err)
	assert.Equal(t, 500.0, policy.MaxDistanceMeters)

	loc, err := config.TimeLocation()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Jakarta", loc.String())
}

func TestLoadConfig_Invalid(t *testing.T) {
	body := `
office:
  latitude: -96
  longitude: 106.816666
  max_distance_meters: 0
camera:
  source: webcam
location:
  provider: google
sinks:
  webhook:
    url: script.google.com
  mqtt:
    enabled: true
    qos: 3
logging:
  level: loud
`
	_, err := utils.LoadConfig(writeConfig(t, body), file.NewFileService())
	require.Error(t, err)

	for _, want := range []string{"office", "camera.source", "maps_api_key", "webhook.url", "mqtt.broker", "mqtt.qos", "logging.level"} {
		assert.ErrorContains(t, err, want)
	}
}

func TestLoadConfig_ReadError(t *testing.T) {
	fileClient := new(mocks.MockFileOperations)
	fileClient.On("ReadYamlFile", "missing.yaml", mock.Anything).Return(os.ErrNotExist)

	_, err := utils.LoadConfig("missing.yaml", fileClient)

	assert.ErrorIs(t, err, os.ErrNotExist)
	fileClient.AssertExpectations(t)
}

func TestConfig_DerivedValueErrors(t *testing.T) {
	var config utils.Config
	config.Office.Latitude = 91
	config.Office.MaxDistanceMeters = 500
	config.Clock.Timezone = "Mars/Olympus_Mons"

	_, err := config.OfficePolicy()
	assert.Error(t, err)

	_, err = config.TimeLocation()
	assert.Error(t, err)
}
