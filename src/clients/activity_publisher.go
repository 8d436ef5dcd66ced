package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"employee-review-svc/src/internal/config"
	"employee-review-svc/src/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
)

// Publisher is the subset of *amqp.Channel used to publish.
type Publisher interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// ActivityPublisher publishes auth activity messages to the activity exchange.
type ActivityPublisher struct {
	mu      sync.Mutex
	channel Publisher
	cfg     *config.RabbitMQConfig
}

func NewActivityPublisher(channel Publisher, cfg *config.RabbitMQConfig) *ActivityPublisher {
	return &ActivityPublisher{
		channel: channel,
		cfg:     cfg,
	}
}

func (p *ActivityPublisher) PublishActivity(ctx context.Context, message models.ActivityMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now().UTC()
	}

	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal activity message: %w", err)
	}

	p.mu.Lock()
	err = p.channel.Publish(
		p.cfg.Exchange,
		p.cfg.RoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
			Timestamp:   message.Timestamp,
		},
	)
	p.mu.Unlock()

	if err != nil {
		logrus.WithError(err).Error("Failed to publish activity message")
		return fmt.Errorf("%w: %v", models.ErrQueuePublish, err)
	}

	logrus.WithFields(logrus.Fields{
		"employee_id": message.EmployeeID,
		"session_id":  message.SessionID,
		"service":     message.ServiceName,
		"action":      message.Action,
		"exchange":    p.cfg.Exchange,
		"routing_key": p.cfg.RoutingKey,
	}).Debug("Activity message published")

	return nil
}
