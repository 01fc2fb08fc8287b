package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benmeehan/absensi-agent/internal/metrics"
	"github.com/benmeehan/absensi-agent/internal/panel"
	"github.com/benmeehan/absensi-agent/internal/server"
	"github.com/benmeehan/absensi-agent/internal/services"
	"github.com/benmeehan/absensi-agent/internal/session"
	"github.com/benmeehan/absensi-agent/internal/utils"
	"github.com/benmeehan/absensi-agent/pkg/camera"
	"github.com/benmeehan/absensi-agent/pkg/file"
	"github.com/benmeehan/absensi-agent/pkg/location"
	"github.com/benmeehan/absensi-agent/pkg/mqtt"
	"github.com/benmeehan/absensi-agent/pkg/s3"
	"github.com/benmeehan/absensi-agent/pkg/sink"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML configuration file")
	flag.Parse()

	// Set up structured logging with JSON output
	log := zerolog.New(os.Stdout).With().Timestamp().Str("app", "absensi-agent").Logger()

	fileClient := file.NewFileService()

	// Load configuration from file
	config, err := utils.LoadConfig(*configPath, fileClient)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	level, err := zerolog.ParseLevel(config.Logging.Level)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid log level")
	}
	log = log.Level(level)

	policy, err := config.OfficePolicy()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid office policy")
	}
	tz, err := config.TimeLocation()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load time zone")
	}
	clock := services.NewClock(tz)

	collector, err := metrics.NewCollector(nil)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to register metrics")
	}

	sess := session.New()
	kioskPanel := panel.New()
	refresher := services.NewControlRefresher(policy, sess, kioskPanel, collector)

	cameraSource := newCameraSource(config, fileClient)

	locationProvider, err := newLocationProvider(config, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create location provider")
	}

	mqttClient := mqtt.NewMqttService(fileClient)
	attendanceSink := newSink(config, mqttClient, log)

	cameraService := services.NewCameraService(cameraSource, config.Camera.Timeout, sess, kioskPanel,
		log.With().Str("service", "camera").Logger())
	locationService := services.NewLocationService(config.Location.Timeout, policy, locationProvider, sess, kioskPanel,
		refresher, collector, clock, log.With().Str("service", "location").Logger())
	clockService := services.NewClockService(config.Clock.TickInterval, clock, kioskPanel, refresher,
		log.With().Str("service", "clock").Logger())
	attendanceService := services.NewAttendanceService(attendanceSink, policy, sess, kioskPanel, collector, clock,
		config.Sinks.Webhook.DateLayout, config.Sinks.Webhook.TimeLayout, log.With().Str("service", "attendance").Logger())
	httpServer := server.NewServer(config.Server.Address, kioskPanel, cameraService, attendanceService, collector,
		log.With().Str("service", "http").Logger())

	// Create a new service registry; services start in registration order
	serviceRegistry := services.NewServiceRegistry(log)
	serviceRegistry.RegisterService("camera", cameraService)
	serviceRegistry.RegisterService("location", locationService)
	serviceRegistry.RegisterService("clock", clockService)
	serviceRegistry.RegisterService("http", httpServer)

	if err := serviceRegistry.StartServices(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start services")
	}
	log.Info().
		Str("kiosk_id", config.KioskID).
		Str("office", policy.Location.String()).
		Float64("max_distance_m", policy.MaxDistanceMeters).
		Msg("All services started successfully")

	// Handle graceful shutdown
	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)
	<-stopCh

	log.Info().Msg("Shutting down gracefully...")
	if err := serviceRegistry.StopServices(); err != nil {
		log.Error().Err(err).Msg("Some services did not stop cleanly")
	}

	// Let mirror deliveries still in flight finish before closing their clients
	drainCtx, cancel := context.WithTimeout(context.Background(), config.Sinks.MirrorTimeout)
	if err := attendanceSink.Wait(drainCtx); err != nil {
		log.Warn().Err(err).Msg("Mirror deliveries still pending at shutdown")
	}
	cancel()
	mqttClient.Disconnect(250)
}

func newCameraSource(config *utils.Config, fileClient file.FileOperations) camera.Source {
	if config.Camera.Source == utils.CameraFile {
		return camera.NewFileCamera(config.Camera.FilePath, fileClient)
	}
	return camera.NewSnapshotCamera(config.Camera.SnapshotURL, config.Camera.Timeout)
}

func newLocationProvider(config *utils.Config, log zerolog.Logger) (location.Provider, error) {
	switch config.Location.Provider {
	case utils.LocationStatic:
		return location.NewStaticProvider(config.Location.Latitude, config.Location.Longitude), nil
	case utils.LocationGoogle:
		return location.NewGoogleGeolocationProvider(config.Location.MapsAPIKey, config.Location.ModemIndex,
			log.With().Str("provider", "google").Logger())
	}
	return location.NewDeviceSensorProvider(config.Location.GPSDevicePort, config.Location.GPSDeviceBaudRate), nil
}

// newSink builds the webhook sink plus whichever mirrors are enabled. A
// mirror that cannot be set up is skipped; the webhook alone is enough.
func newSink(config *utils.Config, mqttClient *mqtt.MqttService, log zerolog.Logger) *sink.Fanout {
	webhook := sink.NewWebhookSink(config.Sinks.Webhook.URL, config.Sinks.Webhook.Timeout)

	var mirrors []sink.Sink

	if mc := config.Sinks.MQTT; mc.Enabled {
		// Generate a unique MQTT Client ID by appending a UUID
		clientID := mc.ClientID + "-" + uuid.New().String()
		if err := mqttClient.Initialize(mc.Broker, clientID, mc.CACertificate, mc.Timeout); err != nil {
			log.Error().Err(err).Str("broker", mc.Broker).Msg("MQTT mirror disabled: connection failed")
		} else {
			log.Info().Str("client_id", clientID).Str("topic", mc.Topic).Msg("MQTT mirror enabled")
			mirrors = append(mirrors, sink.NewMQTTSink(mqttClient, mc.Topic, mc.QOS, config.KioskID, mc.Timeout))
		}
	}

	if ac := config.Sinks.Archive; ac.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		storage := s3.NewObjectStorage()
		err := storage.Connect(ctx, ac.Endpoint, ac.AccessKeyID, ac.SecretAccessKey, ac.UseSSL)
		if err == nil {
			err = storage.EnsureBucket(ctx, ac.Bucket)
		}
		if err != nil {
			log.Error().Err(err).Str("endpoint", ac.Endpoint).Msg("Photo archive disabled")
		} else {
			log.Info().Str("bucket", ac.Bucket).Msg("Photo archive enabled")
			mirrors = append(mirrors, sink.NewArchiveSink(storage, ac.Bucket))
		}
	}

	return sink.NewFanout(webhook, config.Sinks.MirrorTimeout, log.With().Str("component", "sink").Logger(), mirrors...)
}
