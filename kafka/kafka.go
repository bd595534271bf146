package kafka

import (
	"context"
	"fmt"

	"github.com/hey-kuldeep/expense-xtrac/config"
	"github.com/hey-kuldeep/expense-xtrac/logger"
	"github.com/hey-kuldeep/expense-xtrac/worker"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"go.uber.org/zap"
)

const flushTimeoutMs = 5000

// messageProducer is the subset of *kafka.Producer this package uses.
type messageProducer interface {
	Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error
	Events() chan kafka.Event
	Flush(timeoutMs int) int
	Close()
}

// Producer writes event payloads to a single topic.
type Producer struct {
	producer messageProducer
	topic    string
	done     chan struct{}
}

func NewProducer(cfg config.KafkaConfig) (*Producer, error) {
	configMap := &kafka.ConfigMap{
		"bootstrap.servers": cfg.BootstrapServers,
	}
	if cfg.APIKey != "" {
		_ = configMap.SetKey("sasl.username", cfg.APIKey)
		_ = configMap.SetKey("sasl.password", cfg.APISecret)
		_ = configMap.SetKey("security.protocol", "SASL_SSL")
		_ = configMap.SetKey("sasl.mechanism", "PLAIN")
	}

	p, err := kafka.NewProducer(configMap)
	if err != nil {
		logger.Get().Error("failed to initialize Kafka producer",
			zap.String("bootstrap_servers", cfg.BootstrapServers),
			zap.Error(err))
		return nil, fmt.Errorf("error creating Kafka producer: %w", err)
	}

	logger.Get().Info("Kafka producer initialized successfully",
		zap.String("bootstrap_servers", cfg.BootstrapServers),
		zap.String("topic", cfg.Topic))
	return newProducer(p, cfg.Topic), nil
}

func newProducer(p messageProducer, topic string) *Producer {
	producer := &Producer{producer: p, topic: topic, done: make(chan struct{})}
	go producer.watchDeliveries()
	return producer
}

// watchDeliveries drains delivery reports so the events channel never fills.
func (p *Producer) watchDeliveries() {
	defer close(p.done)
	for ev := range p.producer.Events() {
		switch e := ev.(type) {
		case *kafka.Message:
			if e.TopicPartition.Error != nil {
				logger.Get().Error("event delivery failed",
					zap.String("topic", p.topic),
					zap.ByteString("key", e.Key),
					zap.Error(e.TopicPartition.Error))
			}
		case kafka.Error:
			logger.Get().Error("kafka producer error", zap.Error(e))
		}
	}
}

// Send enqueues one message. It returns once librdkafka has accepted the
// message, not when the broker has acknowledged it.
func (p *Producer) Send(_ context.Context, job worker.Job) error {
	topic := p.topic
	msg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            job.Key,
		Value:          job.Value,
	}

	if err := p.producer.Produce(msg, nil); err != nil {
		return fmt.Errorf("error producing to %s: %w", topic, err)
	}

	logger.Get().Debug("message produced successfully",
		zap.String("topic", topic))
	return nil
}

// Close flushes outstanding messages and releases the producer.
func (p *Producer) Close() {
	if remaining := p.producer.Flush(flushTimeoutMs); remaining > 0 {
		logger.Get().Warn("kafka producer closed with undelivered messages",
			zap.Int("remaining", remaining))
	}
	p.producer.Close()
	<-p.done
}
