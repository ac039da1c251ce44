package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/tdakarsh8-beep/cropeye-server/internal/models"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// RegistrationPublisher publishes farmer lifecycle events to RabbitMQ
type RegistrationPublisher struct {
	conn              *RabbitMQConnection
	messagesPublished int64
	messagesFailed    int64
	lastPublishTime   time.Time
}

// NewRegistrationPublisher creates a new registration event publisher
func NewRegistrationPublisher(conn *RabbitMQConnection) *RegistrationPublisher {
	return &RegistrationPublisher{
		conn:            conn,
		lastPublishTime: time.Now(),
	}
}

// PublishFarmerRegistered emits a farmer_registered event after a
// successful registration commit.
func (p *RegistrationPublisher) PublishFarmerRegistered(ctx context.Context, result *models.RegistrationResult, officer *models.User) error {
	additional := map[string]any{}
	if result.Plot != nil {
		additional["plot_id"] = result.Plot.ID.String()
	}
	if result.Farm != nil {
		additional["farm_uid"] = result.Farm.FarmUID.String()
	}

	return p.publish(ctx, FarmEvent{
		ID:         uuid.New().String(),
		EventType:  FarmerRegistered,
		FarmerID:   result.Farmer.ID.String(),
		OfficerID:  officer.ID.String(),
		Additional: additional,
	})
}

// PublishFarmerDeleted emits a farmer_deleted event after an explicit
// cascade completed.
func (p *RegistrationPublisher) PublishFarmerDeleted(ctx context.Context, farmer *models.User, report *models.CascadeReport) error {
	return p.publish(ctx, FarmEvent{
		ID:        uuid.New().String(),
		EventType: FarmerDeleted,
		FarmerID:  farmer.ID.String(),
		Additional: map[string]any{
			"farms_deleted": report.FarmsDeleted,
			"plots_deleted": report.PlotsDeleted,
		},
	})
}

func (p *RegistrationPublisher) publish(ctx context.Context, event FarmEvent) error {
	// Ensure the queue exists
	_, err := p.conn.Channel.QueueDeclare(
		FarmQueue, // queue name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		p.messagesFailed++
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.messagesFailed++
		return fmt.Errorf("failed to marshal farm event: %w", err)
	}

	err = p.conn.Channel.PublishWithContext(
		ctx,
		"",        // exchange
		FarmQueue, // routing key (queue name)
		false,     // mandatory
		false,     // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		p.messagesFailed++
		return fmt.Errorf("failed to publish farm event: %w", err)
	}

	p.messagesPublished++
	p.lastPublishTime = time.Now()

	slog.Info("farm event published",
		"queue", FarmQueue,
		"event_type", event.EventType,
		"farmer_id", event.FarmerID,
	)

	return nil
}

// GetMetrics returns publisher metrics
func (p *RegistrationPublisher) GetMetrics() map[string]any {
	return map[string]any{
		"messages_published": p.messagesPublished,
		"messages_failed":    p.messagesFailed,
		"last_publish_time":  p.lastPublishTime,
		"queue":              FarmQueue,
	}
}

// HealthCheck returns the health status of the publisher
func (p *RegistrationPublisher) HealthCheck() PublisherHealthStatus {
	isHealthy := p.conn != nil && p.conn.Connection != nil && !p.conn.Connection.IsClosed()

	return PublisherHealthStatus{
		IsHealthy:         isHealthy,
		MessagesPublished: p.messagesPublished,
		MessagesFailed:    p.messagesFailed,
		LastPublishTime:   p.lastPublishTime,
		Queue:             FarmQueue,
	}
}

// PublisherHealthStatus represents the health status of the publisher
type PublisherHealthStatus struct {
	IsHealthy         bool      `json:"is_healthy"`
	MessagesPublished int64     `json:"messages_published"`
	MessagesFailed    int64     `json:"messages_failed"`
	LastPublishTime   time.Time `json:"last_publish_time"`
	Queue             string    `json:"queue"`
}
