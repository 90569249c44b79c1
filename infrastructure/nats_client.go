package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

// EventStreamName is the JetStream stream that retains forwarded bot events.
const EventStreamName = "guildbot_events"

const (
	eventRetention = 7 * 24 * time.Hour
	reconnectWait  = 2 * time.Second
	maxReconnects  = 10
)

// ErrNotConnected is returned by Publish before Connect succeeded.
var ErrNotConnected = errors.New("nats: not connected")

// MessagePublisher sends raw payloads to a subject.
type MessagePublisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// NATSClient publishes bot events to a JetStream stream.
type NATSClient struct {
	servers string
	conn    *nats.Conn
	js      nats.JetStreamContext
}

func NewNATSClient(servers string) *NATSClient {
	return &NATSClient{servers: servers}
}

// Connect dials the servers and makes sure the event stream exists.
func (c *NATSClient) Connect(ctx context.Context) error {
	conn, err := nats.Connect(c.servers, connectionOptions()...)
	if err != nil {
		return fmt.Errorf("connecting to NATS at %s: %w", c.servers, err)
	}

	js, err := conn.JetStream(nats.Context(ctx))
	if err != nil {
		conn.Close()
		return fmt.Errorf("opening JetStream: %w", err)
	}
	if err := ensureStream(js, eventStreamConfig()); err != nil {
		conn.Close()
		return err
	}

	c.conn, c.js = conn, js
	log.WithFields(log.Fields{
		"servers": c.servers,
		"stream":  EventStreamName,
	}).Info("NATS event stream ready")
	return nil
}

func connectionOptions() []nats.Option {
	return []nats.Option{
		nats.Name("guildbot"),
		nats.MaxReconnects(maxReconnects),
		nats.ReconnectWait(reconnectWait),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.WithError(err).Warn("NATS disconnected")
		}),
		nats.ReconnectHandler(func(conn *nats.Conn) {
			log.WithField("url", conn.ConnectedUrl()).Info("NATS reconnected")
		}),
		nats.ErrorHandler(func(_ *nats.Conn, sub *nats.Subscription, err error) {
			entry := log.WithError(err)
			if sub != nil {
				entry = entry.WithField("subject", sub.Subject)
			}
			entry.Error("NATS async error")
		}),
	}
}

func eventStreamConfig() *nats.StreamConfig {
	return &nats.StreamConfig{
		Name:        EventStreamName,
		Description: "guildbot ledger, game and scheduler events",
		Subjects:    []string{SubjectPrefix + ".>"},
		Retention:   nats.LimitsPolicy,
		Storage:     nats.FileStorage,
		MaxAge:      eventRetention,
		Replicas:    1,
	}
}

func ensureStream(js nats.JetStreamContext, cfg *nats.StreamConfig) error {
	_, err := js.StreamInfo(cfg.Name)
	switch {
	case err == nil:
		return nil
	case !errors.Is(err, nats.ErrStreamNotFound):
		return fmt.Errorf("looking up stream %s: %w", cfg.Name, err)
	}

	if _, err := js.AddStream(cfg); err != nil {
		return fmt.Errorf("creating stream %s: %w", cfg.Name, err)
	}
	log.WithField("stream", cfg.Name).Info("Created JetStream stream")
	return nil
}

// Publish stores data on subject and waits for the JetStream ack.
func (c *NATSClient) Publish(ctx context.Context, subject string, data []byte) error {
	if c.js == nil {
		return ErrNotConnected
	}
	if _, err := c.js.Publish(subject, data, nats.Context(ctx)); err != nil {
		return fmt.Errorf("publishing to %s: %w", subject, err)
	}
	return nil
}

// IsConnected reports whether the underlying connection is up.
func (c *NATSClient) IsConnected() bool {
	return c.conn != nil && c.conn.IsConnected()
}

// Close drains in-flight publishes before closing.
func (c *NATSClient) Close() error {
	if c.conn == nil {
		return nil
	}
	if err := c.conn.Drain(); err != nil {
		c.conn.Close()
		return fmt.Errorf("draining NATS connection: %w", err)
	}
	return nil
}
