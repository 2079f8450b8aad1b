// Package alert delivers operator alerts as JSON messages published to NATS.
// A mail relay, or any other consumer, subscribes to the subject and delivers them to the destination address.
package alert

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/nats-io/nats.go"
)

// flushTimeout bounds the wait for the server when the caller's context has no deadline
const flushTimeout = 5 * time.Second

// Message is the alert payload
type Message struct {
	To      string    `json:"to"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Time    time.Time `json:"time"`
}

// publisher is the part of nats.Conn used for alerts
type publisher interface {
	Publish(subj string, data []byte) error
	FlushWithContext(ctx context.Context) error
}

// Nats publishes alerts to a NATS subject
type Nats struct {
	conn    publisher
	closer  func()
	subject string
	now     func() time.Time
}

// NewNats connects to the NATS server at url
func NewNats(url, subject string) (*Nats, error) {
	nc, err := nats.Connect(url, nats.Name("feed2reddit"), nats.Timeout(5*time.Second))
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	lgr.Printf("[DEBUG] alerts go to nats %s, subject %s", nc.ConnectedUrlRedacted(), subject)
	return &Nats{conn: nc, closer: nc.Close, subject: subject, now: time.Now}, nil
}

// Alert publishes the message and waits for the server to get it
func (n *Nats) Alert(ctx context.Context, to, subject, body string) error {
	data, err := json.Marshal(Message{To: to, Subject: subject, Body: body, Time: n.now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal alert: %w", err)
	}
	if err := n.conn.Publish(n.subject, data); err != nil {
		return fmt.Errorf("nats publish: %w", err)
	}

	// nats refuses to flush with a context lacking a deadline
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, flushTimeout)
		defer cancel()
	}
	if err := n.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("nats flush: %w", err)
	}
	return nil
}

// Close drops the connection
func (n *Nats) Close() {
	if n.closer != nil {
		n.closer()
	}
}
