package bus

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"guardian/internal/logger"
	"guardian/pkg/models"
)

// Publisher pushes engine events and snapshots to NATS so external
// presentation layers receive updates without polling.
type Publisher struct {
	conn    *nats.Conn
	subject string
}

// NewPublisher connects to NATS. Subject defaults to guardian.events;
// snapshots go to <subject>.snapshot.
func NewPublisher(url, subject string) (*Publisher, error) {
	if url == "" {
		url = nats.DefaultURL
	}
	if subject == "" {
		subject = "guardian.events"
	}

	conn, err := nats.Connect(url, nats.Name("guardian-engine"))
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	logger.Infof("NATS publisher connected: %s subject=%s", url, subject)
	return &Publisher{conn: conn, subject: subject}, nil
}

// PublishEvent publishes one audit event.
func (p *Publisher) PublishEvent(ev models.AuditEvent) error {
	if p.conn == nil || !p.conn.IsConnected() {
		return fmt.Errorf("nats connection not available")
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	headers := nats.Header{}
	headers.Set("x-event-id", ev.EventID)
	headers.Set("x-kind", string(ev.Kind))

	msg := &nats.Msg{
		Subject: p.subject,
		Data:    payload,
		Header:  headers,
	}
	if err := p.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// PublishSnapshot publishes the post-mutation snapshot.
func (p *Publisher) PublishSnapshot(snap models.Snapshot) error {
	if p.conn == nil || !p.conn.IsConnected() {
		return fmt.Errorf("nats connection not available")
	}

	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := p.conn.Publish(p.subject+".snapshot", payload); err != nil {
		return fmt.Errorf("failed to publish snapshot: %w", err)
	}
	return nil
}

// Close drains and closes the connection.
func (p *Publisher) Close() error {
	if p.conn != nil {
		p.conn.Close()
	}
	return nil
}
