package location

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/adrianmo/go-nmea"
	"github.com/tarm/serial"
)

var ErrNoFix = errors.New("no valid GPS data found")

// DeviceSensorProvider is responsible for retrieving location data from a GPS device connected via serial port.
type DeviceSensorProvider struct {
	port        string        // Serial port to which the GPS device is connected
	baudRate    int           // Baud rate for the serial communication
	readTimeout time.Duration // Per-read timeout on the port
}

// NewDeviceSensorProvider creates a new instance of DeviceSensorProvider with the specified port and baud rate.
func NewDeviceSensorProvider(port string, baudRate int) *DeviceSensorProvider {
	return &DeviceSensorProvider{
		port:        port,
		baudRate:    baudRate,
		readTimeout: 2 * time.Second,
	}
}

// GetLocation reads NMEA output from the device until the first GGA sentence with a fix.
func (d *DeviceSensorProvider) GetLocation(ctx context.Context) (Location, error) {
	c := &serial.Config{Name: d.port, Baud: d.baudRate, ReadTimeout: d.readTimeout}
	s, err := serial.OpenPort(c)
	if err != nil {
		return Location{}, err
	}
	defer s.Close() // Ensure the port is closed when done

	// closing the port unblocks a pending read when ctx is cancelled
	stop := context.AfterFunc(ctx, func() { s.Close() })
	defer stop()

	return ReadGGA(s)
}

func (d *DeviceSensorProvider) Close() error { return nil }

// ReadGGA scans NMEA sentences from r and returns the first GGA fix.
// Sentences from any talker ($GPGGA, $GNGGA, ...) are accepted; GGA sentences
// reporting an invalid fix are skipped.
func ReadGGA(r io.Reader) (Location, error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !isGGA(line) {
			continue
		}

		sentence, err := nmea.Parse(line)
		if err != nil {
			return Location{}, err
		}

		gga, ok := sentence.(nmea.GGA)
		if !ok || gga.FixQuality == nmea.Invalid {
			continue
		}

		return Location{
			Latitude:  gga.Latitude,
			Longitude: gga.Longitude,
			Accuracy:  gga.HDOP, // HDOP as a proxy for accuracy
		}, nil
	}

	if err := scanner.Err(); err != nil {
		return Location{}, err
	}

	return Location{}, ErrNoFix
}

func isGGA(line string) bool {
	return len(line) > 6 && line[0] == '$' && line[3:6] == "GGA"
}
