package realtime

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

const (
	jobEventSubjects     = "field.job.*.event"
	notificationSubjects = "field.user.*.notification"
)

// NATSBridge subscribes to NATS subjects and pushes messages into the Hub.
type NATSBridge struct {
	conn   *nats.Conn
	hub    *Hub
	logger zerolog.Logger
}

func NewNATSBridge(natsURL string, hub *Hub, logger zerolog.Logger) (*NATSBridge, error) {
	nc, err := nats.Connect(natsURL)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return &NATSBridge{conn: nc, hub: hub, logger: logger}, nil
}

// Subscribe listens for job events and per-user notifications and relays
// them to the matching hub topics.
func (slf *NATSBridge) Subscribe() error {
	if _, err := slf.conn.Subscribe(jobEventSubjects, func(msg *nats.Msg) {
		slf.relay("job.event", JobTopic, msg)
	}); err != nil {
		return fmt.Errorf("nats subscribe %q: %w", jobEventSubjects, err)
	}

	if _, err := slf.conn.Subscribe(notificationSubjects, func(msg *nats.Msg) {
		slf.relay("user.notification", UserTopic, msg)
	}); err != nil {
		return fmt.Errorf("nats subscribe %q: %w", notificationSubjects, err)
	}

	slf.logger.Info().
		Str("jobSubjects", jobEventSubjects).
		Str("notificationSubjects", notificationSubjects).
		Msg("NATS bridge subscribed")
	return nil
}

func (slf *NATSBridge) relay(msgType string, topicFor func(uint) string, msg *nats.Msg) {
	id, err := parseIDFromSubject(msg.Subject)
	if err != nil {
		slf.logger.Warn().Err(err).Str("subject", msg.Subject).Msg("NATS bad subject")
		return
	}

	topic := topicFor(id)
	envelope := outgoingMsg{
		Type:    msgType,
		Topic:   topic,
		Payload: json.RawMessage(msg.Data),
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		slf.logger.Error().Err(err).Msg("NATS marshal envelope")
		return
	}

	slf.hub.broadcast <- broadcastMsg{topic: topic, payload: data}
}

// Close drains the NATS connection.
func (slf *NATSBridge) Close() {
	if err := slf.conn.Drain(); err != nil {
		slf.logger.Error().Err(err).Msg("NATS drain")
	}
}

// parseIDFromSubject extracts the numeric ID from "field.<kind>.<id>.<suffix>".
func parseIDFromSubject(subject string) (uint, error) {
	parts := strings.Split(subject, ".")
	if len(parts) != 4 {
		return 0, fmt.Errorf("expected 4 parts, got %d", len(parts))
	}
	id, err := strconv.ParseUint(parts[2], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", parts[2], err)
	}
	return uint(id), nil
}
