package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// AuditQueue is the durable queue audit events are published to.
const AuditQueue = "admin_audit_events"

// AuditEvent describes one administrative action.
type AuditEvent struct {
	Action  string                 `json:"action"`
	ActorID int                    `json:"actor_id,omitempty"`
	Detail  map[string]interface{} `json:"detail,omitempty"`
}

// AuditMessage is the wire envelope around an AuditEvent.
type AuditMessage struct {
	ID        string     `json:"id"`
	Event     AuditEvent `json:"event"`
	CreatedAt time.Time  `json:"created_at"`
}

// AuditPublisher pushes audit events to RabbitMQ. A nil publisher is valid
// and drops everything, so the broker can be absent in development.
type AuditPublisher struct {
	conn              *RabbitMQConnection
	messagesPublished int64
	messagesFailed    int64
	lastPublishTime   time.Time
}

// NewAuditPublisher creates a new audit event publisher
func NewAuditPublisher(conn *RabbitMQConnection) *AuditPublisher {
	return &AuditPublisher{
		conn:            conn,
		lastPublishTime: time.Now(),
	}
}

// Publish sends an audit event. Failures are logged, never propagated; an
// unreachable broker must not fail the admin operation itself.
func (p *AuditPublisher) Publish(ctx context.Context, event AuditEvent) {
	if p == nil || p.conn == nil {
		return
	}

	if err := p.publish(ctx, event); err != nil {
		p.messagesFailed++
		slog.Error("failed to publish audit event", "action", event.Action, "error", err)
		return
	}

	p.messagesPublished++
	p.lastPublishTime = time.Now()
}

func (p *AuditPublisher) publish(ctx context.Context, event AuditEvent) error {
	_, err := p.conn.Channel.QueueDeclare(
		AuditQueue, // queue name
		true,       // durable
		false,      // delete when unused
		false,      // exclusive
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	message := AuditMessage{
		ID:        uuid.NewString(),
		Event:     event,
		CreatedAt: time.Now(),
	}

	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal audit event: %w", err)
	}

	err = p.conn.Channel.PublishWithContext(
		ctx,
		"",         // exchange
		AuditQueue, // routing key (queue name)
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
			Timestamp:    message.CreatedAt,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish audit event: %w", err)
	}

	return nil
}
