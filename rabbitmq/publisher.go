// Package rabbitmq publishes report lifecycle events to an exchange so
// downstream pipelines (analysis, archival) can consume them. Publishing
// is optional: with no broker URL configured the service runs without it.
package rabbitmq

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/streadway/amqp"

	"electionwatch/models"
)

// Publisher emits report events.
type Publisher interface {
	PublishReportCreated(report *models.Report) error
	Close()
}

// ReportEvent is the published wire format.
type ReportEvent struct {
	Event     string         `json:"event"`
	Report    *models.Report `json:"report"`
	Timestamp time.Time      `json:"timestamp"`
}

const routingKeyReportCreated = "report.created"

// AMQPPublisher publishes to a fanout-style exchange over a single
// channel, reconnecting lazily when the connection drops.
type AMQPPublisher struct {
	url      string
	exchange string

	mutex   sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewPublisher connects to the broker and declares the exchange.
func NewPublisher(url, exchange string) (*AMQPPublisher, error) {
	p := &AMQPPublisher{url: url, exchange: exchange}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *AMQPPublisher) connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open channel: %w", err)
	}
	if err := channel.ExchangeDeclare(p.exchange, "topic", true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	p.conn = conn
	p.channel = channel
	log.Infof("Connected to RabbitMQ, exchange %q", p.exchange)
	return nil
}

// PublishReportCreated emits a report.created event.
func (p *AMQPPublisher) PublishReportCreated(report *models.Report) error {
	body, err := json.Marshal(ReportEvent{
		Event:     routingKeyReportCreated,
		Report:    report,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode report event: %w", err)
	}

	p.mutex.Lock()
	defer p.mutex.Unlock()

	publish := func() error {
		return p.channel.Publish(p.exchange, routingKeyReportCreated, false, false, amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		})
	}

	if err := publish(); err != nil {
		// One reconnect attempt; events are advisory and may be dropped.
		log.Warnf("Publish failed, reconnecting: %v", err)
		if err := p.connect(); err != nil {
			return err
		}
		return publish()
	}
	return nil
}

// Close shuts the channel and connection down.
func (p *AMQPPublisher) Close() {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}

// Disabled is a Publisher that drops every event. Used when no broker
// URL is configured.
type Disabled struct{}

func (Disabled) PublishReportCreated(*models.Report) error { return nil }

func (Disabled) Close() {}
