// Package events publishes order lifecycle events to Kafka for downstream
// fulfillment systems. Publishing is optional: the server runs standalone
// when no brokers are configured, and a failed publish is logged but never
// fails the originating request.
package events

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/IBM/sarama"
	"github.com/apex-athletics/storefront/pkg/models"
	"github.com/sirupsen/logrus"
)

const OrderCreatedTopic = "order.created"

type OrderCreatedEvent struct {
	OrderID    string    `json:"order_id"`
	Total      float64   `json:"total"`
	ItemsCount int       `json:"items_count"`
	CreatedAt  time.Time `json:"created_at"`
	EventTime  time.Time `json:"event_time"`
}

type KafkaProducer struct {
	producer sarama.SyncProducer
	logger   *logrus.Logger
}

// NewKafkaProducer connects to the given comma-separated broker list.
func NewKafkaProducer(brokers string, logger *logrus.Logger) (*KafkaProducer, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Version = sarama.V2_6_0_0

	producer, err := sarama.NewSyncProducer(strings.Split(brokers, ","), config)
	if err != nil {
		return nil, err
	}

	return &KafkaProducer{
		producer: producer,
		logger:   logger,
	}, nil
}

func (p *KafkaProducer) PublishOrderCreated(order models.Order) error {
	event := OrderCreatedEvent{
		OrderID:    order.ID,
		Total:      order.Total,
		ItemsCount: len(order.Items),
		CreatedAt:  order.CreatedAt,
		EventTime:  time.Now().UTC(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: OrderCreatedTopic,
		Key:   sarama.StringEncoder(event.OrderID),
		Value: sarama.ByteEncoder(data),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.logger.WithError(err).Error("Failed to publish order event")
		return err
	}

	p.logger.WithFields(logrus.Fields{
		"topic":     OrderCreatedTopic,
		"partition": partition,
		"offset":    offset,
		"order_id":  event.OrderID,
	}).Info("Order event published")

	return nil
}

func (p *KafkaProducer) Close() error {
	return p.producer.Close()
}
