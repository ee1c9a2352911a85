package event

import (
	"api/internal/api/apperr"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// NatsPublisher is the live-transport leg: it pushes job events and
// per-user notification payloads to the subjects the realtime process
// bridges onto WebSocket topics. Delivery is best-effort by contract.
type NatsPublisher struct {
	conn   *nats.Conn
	logger zerolog.Logger
}

func NewNatsPublisher(natsURL string, logger zerolog.Logger) (*NatsPublisher, error) {
	nc, err := nats.Connect(natsURL)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return &NatsPublisher{conn: nc, logger: logger}, nil
}

// PushToJob publishes a payload for watchers of one job's detail view.
func (slf *NatsPublisher) PushToJob(jobID uint, payload any) error {
	return slf.publish(fmt.Sprintf("field.job.%d.event", jobID), payload)
}

// PushToUser publishes a payload for one user's personal notification feed.
func (slf *NatsPublisher) PushToUser(userID uint, payload any) error {
	return slf.publish(fmt.Sprintf("field.user.%d.notification", userID), payload)
}

func (slf *NatsPublisher) publish(subject string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload for %s: %w", subject, err)
	}
	if err := slf.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("%w: publish %s: %v", apperr.ErrTransport, subject, err)
	}
	return nil
}

// Close drains the NATS connection.
func (slf *NatsPublisher) Close() {
	if err := slf.conn.Drain(); err != nil {
		slf.logger.Warn().Err(err).Msg("nats drain failed")
	}
}
