package sink

import (
	"context"
	"fmt"
	"time"

	"github.com/benmeehan/absensi-agent/internal/models"
	"github.com/benmeehan/absensi-agent/pkg/mqtt"
)

// MQTTSink mirrors each submission to a broker topic as an AttendanceEvent.
type MQTTSink struct {
	client  mqtt.MQTTClient
	topic   string
	qos     byte
	kioskID string
	timeout time.Duration
}

func NewMQTTSink(client mqtt.MQTTClient, topic string, qos int, kioskID string, timeout time.Duration) *MQTTSink {
	return &MQTTSink{
		client:  client,
		topic:   topic,
		qos:     byte(qos),
		kioskID: kioskID,
		timeout: timeout,
	}
}

func (m *MQTTSink) Name() string { return "mqtt" }

func (m *MQTTSink) Submit(ctx context.Context, s models.Submission) (Ack, error) {
	ack := Ack{Sink: m.Name(), Reference: m.topic}

	payload, err := json.Marshal(models.NewAttendanceEvent(m.kioskID, s))
	if err != nil {
		return ack, fmt.Errorf("failed to serialize attendance event: %w", err)
	}

	token := m.client.Publish(m.topic, m.qos, false, payload)

	wait := m.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < wait {
			wait = remaining
		}
	}
	if !token.WaitTimeout(wait) {
		return ack, ErrPublishTimeout
	}
	if err := token.Error(); err != nil {
		return ack, fmt.Errorf("failed to publish attendance event to %s: %w", m.topic, err)
	}
	return ack, nil
}
