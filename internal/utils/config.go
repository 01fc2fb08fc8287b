package utils

import (
	"errors"
	"fmt"
	"net/url"
	"time"
	_ "time/tzdata" // kiosks often ship without a zoneinfo database

	"github.com/benmeehan/absensi-agent/internal/gate"
	"github.com/benmeehan/absensi-agent/internal/models"
	"github.com/benmeehan/absensi-agent/pkg/file"
	"github.com/benmeehan/absensi-agent/pkg/geo"
	"github.com/rs/zerolog"
)

// Camera sources
const (
	CameraSnapshot = "snapshot"
	CameraFile     = "file"
)

// Location providers
const (
	LocationStatic = "static"
	LocationSensor = "sensor"
	LocationGoogle = "google"
)

// Config represents the structure of the configuration file.
type Config struct {
	KioskID string `yaml:"kiosk_id"` // Identifies this kiosk in mirrored events

	Office struct {
		Latitude          float64 `yaml:"latitude"`            // Office latitude in degrees
		Longitude         float64 `yaml:"longitude"`           // Office longitude in degrees
		MaxDistanceMeters float64 `yaml:"max_distance_meters"` // Accepted radius around the office
	} `yaml:"office"`

	Clock struct {
		Timezone     string        `yaml:"timezone"`      // IANA zone used for hour/minute rules
		TickInterval time.Duration `yaml:"tick_interval"` // Control re-evaluation cadence
	} `yaml:"clock"`

	Camera struct {
		Source      string        `yaml:"source"`       // snapshot or file
		SnapshotURL string        `yaml:"snapshot_url"` // Still-image endpoint of an IP camera
		FilePath    string        `yaml:"file_path"`    // Image file served as the camera frame
		Timeout     time.Duration `yaml:"timeout"`      // Open / capture timeout
	} `yaml:"camera"`

	Location struct {
		Provider          string        `yaml:"provider"`        // static, sensor or google
		Latitude          float64       `yaml:"latitude"`        // Static provider latitude
		Longitude         float64       `yaml:"longitude"`       // Static provider longitude
		GPSDevicePort     string        `yaml:"gps_device_port"` // UNIX Port where the GPS sensor is mounted
		GPSDeviceBaudRate int           `yaml:"gps_baud_rate"`   // The Baud rate for GPS sensor
		MapsAPIKey        string        `yaml:"maps_api_key"`    // Google maps API Key
		ModemIndex        int           `yaml:"modem_index"`     // ModemManager index used for cell data
		Timeout           time.Duration `yaml:"timeout"`         // One-shot acquisition timeout, 0 waits forever
	} `yaml:"location"`

	Sinks struct {
		MirrorTimeout time.Duration `yaml:"mirror_timeout"` // Bound on one MQTT/archive mirror delivery

		Webhook struct {
			URL        string        `yaml:"url"`         // Endpoint receiving attendance records
			Timeout    time.Duration `yaml:"timeout"`     // Request timeout, 0 waits forever
			DateLayout string        `yaml:"date_layout"` // Go layout for the date field
			TimeLayout string        `yaml:"time_layout"` // Go layout for the time field
		} `yaml:"webhook"`

		MQTT struct {
			Enabled       bool          `yaml:"enabled"`        // Mirror submissions to MQTT
			Broker        string        `yaml:"broker"`         // MQTT broker address
			ClientID      string        `yaml:"client_id"`      // MQTT client ID prefix
			CACertificate string        `yaml:"ca_certificate"` // Path to the CA certificate
			Topic         string        `yaml:"topic"`          // Topic for attendance events
			QOS           int           `yaml:"qos"`            // MQTT QoS level
			Timeout       time.Duration `yaml:"timeout"`        // Connect / publish acknowledgment timeout
		} `yaml:"mqtt"`

		Archive struct {
			Enabled         bool   `yaml:"enabled"`           // Keep submitted photos in object storage
			Endpoint        string `yaml:"endpoint"`          // S3-compatible endpoint host:port
			AccessKeyID     string `yaml:"access_key_id"`     // Access key
			SecretAccessKey string `yaml:"secret_access_key"` // Secret key
			UseSSL          bool   `yaml:"use_ssl"`           // Use HTTPS
			Bucket          string `yaml:"bucket"`            // Bucket for photos
		} `yaml:"archive"`
	} `yaml:"sinks"`

	Server struct {
		Address string `yaml:"address"` // Listen address of the kiosk API
	} `yaml:"server"`

	Logging struct {
		Level string `yaml:"level"` // zerolog level name
	} `yaml:"logging"`
}

// LoadConfig loads the YAML configuration from the specified file, applies
// defaults and validates it.
func LoadConfig(filename string, fileClient file.FileOperations) (*Config, error) {
	var config Config
	if err := fileClient.ReadYamlFile(filename, &config); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", filename, err)
	}

	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// ApplyDefaults fills the optional settings left empty in the file.
func (c *Config) ApplyDefaults() {
	if c.KioskID == "" {
		c.KioskID = "kiosk"
	}
	if c.Clock.Timezone == "" {
		c.Clock.Timezone = "Asia/Jakarta"
	}
	if c.Clock.TickInterval == 0 {
		c.Clock.TickInterval = time.Second
	}
	if c.Camera.Source == "" {
		c.Camera.Source = CameraSnapshot
	}
	if c.Camera.Timeout == 0 {
		c.Camera.Timeout = 10 * time.Second
	}
	if c.Location.Provider == "" {
		c.Location.Provider = LocationSensor
	}
	if c.Location.GPSDeviceBaudRate == 0 {
		c.Location.GPSDeviceBaudRate = 9600
	}
	if c.Sinks.Webhook.DateLayout == "" {
		c.Sinks.Webhook.DateLayout = models.DefaultDateLayout
	}
	if c.Sinks.Webhook.TimeLayout == "" {
		c.Sinks.Webhook.TimeLayout = models.DefaultTimeLayout
	}
	if c.Sinks.MQTT.ClientID == "" {
		c.Sinks.MQTT.ClientID = "absensi-agent"
	}
	if c.Sinks.MQTT.Topic == "" {
		c.Sinks.MQTT.Topic = "absensi/attendance"
	}
	if c.Sinks.MQTT.Timeout == 0 {
		c.Sinks.MQTT.Timeout = 10 * time.Second
	}
	if c.Sinks.MirrorTimeout == 0 {
		c.Sinks.MirrorTimeout = 30 * time.Second
	}
	if c.Server.Address == "" {
		c.Server.Address = "127.0.0.1:8080"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = zerolog.LevelInfoValue
	}
}

// Validate checks the settings that have no sensible default.
func (c *Config) Validate() error {
	var errs []error

	if _, err := c.OfficePolicy(); err != nil {
		errs = append(errs, fmt.Errorf("office: %w", err))
	}
	if _, err := time.LoadLocation(c.Clock.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("clock.timezone: %w", err))
	}
	if c.Clock.TickInterval < 0 {
		errs = append(errs, errors.New("clock.tick_interval must be positive"))
	}

	switch c.Camera.Source {
	case CameraSnapshot:
		if c.Camera.SnapshotURL == "" {
			errs = append(errs, errors.New("camera.snapshot_url is required for the snapshot source"))
		}
	case CameraFile:
		if c.Camera.FilePath == "" {
			errs = append(errs, errors.New("camera.file_path is required for the file source"))
		}
	default:
		errs = append(errs, fmt.Errorf("camera.source %q is not one of snapshot, file", c.Camera.Source))
	}

	switch c.Location.Provider {
	case LocationStatic:
		p := geo.GeoPoint{Latitude: c.Location.Latitude, Longitude: c.Location.Longitude}
		if err := p.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("location: %w", err))
		}
	case LocationSensor:
		if c.Location.GPSDevicePort == "" {
			errs = append(errs, errors.New("location.gps_device_port is required for the sensor provider"))
		}
	case LocationGoogle:
		if c.Location.MapsAPIKey == "" {
			errs = append(errs, errors.New("location.maps_api_key is required for the google provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("location.provider %q is not one of static, sensor, google", c.Location.Provider))
	}

	if u, err := url.Parse(c.Sinks.Webhook.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("sinks.webhook.url %q must be an absolute http(s) URL", c.Sinks.Webhook.URL))
	}
	if c.Sinks.MQTT.Enabled {
		if c.Sinks.MQTT.Broker == "" {
			errs = append(errs, errors.New("sinks.mqtt.broker is required when mqtt is enabled"))
		}
		if c.Sinks.MQTT.QOS < 0 || c.Sinks.MQTT.QOS > 2 {
			errs = append(errs, fmt.Errorf("sinks.mqtt.qos %d must be 0, 1 or 2", c.Sinks.MQTT.QOS))
		}
	}
	if c.Sinks.Archive.Enabled && (c.Sinks.Archive.Endpoint == "" || c.Sinks.Archive.Bucket == "") {
		errs = append(errs, errors.New("sinks.archive.endpoint and sinks.archive.bucket are required when archive is enabled"))
	}

	if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}

	return errors.Join(errs...)
}

// OfficePolicy builds the office policy from the office section.
func (c *Config) OfficePolicy() (gate.OfficePolicy, error) {
	return gate.NewOfficePolicy(
		geo.GeoPoint{Latitude: c.Office.Latitude, Longitude: c.Office.Longitude},
		c.Office.MaxDistanceMeters,
	)
}

// TimeLocation returns the configured office time zone.
func (c *Config) TimeLocation() (*time.Location, error) {
	return time.LoadLocation(c.Clock.Timezone)
}
