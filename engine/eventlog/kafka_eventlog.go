package eventlog

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

const (
	kafkaMaxAttempts = 16
)

var _ EventLog = (*KafkaEventLog)(nil)

// KafkaEventLog publishes lifecycle events to a Kafka topic the platform
// backend consumes. Write-side only; the engine never reads its own events
// back.
type KafkaEventLog struct {
	writer *kafka.Writer
}

func NewKafkaEventLog(
	brokerEndpoint,
	topic string,
	tlsConfig *tls.Config,
	producerCreds *plain.Mechanism,
	timeout time.Duration,
) *KafkaEventLog {
	transport := &kafka.Transport{
		Dial: (&net.Dialer{
			Timeout: timeout,
		}).DialContext,
		TLS:  tlsConfig,
		SASL: producerCreds,
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokerEndpoint),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		MaxAttempts:  kafkaMaxAttempts,
		BatchTimeout: timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
		Transport:    transport,
	}

	return &KafkaEventLog{
		writer: writer,
	}
}

func (l *KafkaEventLog) Publish(events ...Event) error {
	kafkaMessages, err := eventsToKafkaMessages(events...)
	if err != nil {
		return fmt.Errorf("failed to eventsToKafkaMessages: %w", err)
	}

	if err := l.writer.WriteMessages(context.Background(), kafkaMessages...); err != nil {
		return fmt.Errorf("failed to WriteMessages: %w", err)
	}

	return nil
}

func (l *KafkaEventLog) Close() error {
	if l.writer != nil {
		if err := l.writer.Close(); err != nil {
			return fmt.Errorf("failed to Close writer: %w", err)
		}
	}

	return nil
}

func eventsToKafkaMessages(events ...Event) ([]kafka.Message, error) {
	kafkaMessages := make([]kafka.Message, len(events))
	for i, e := range events {
		data, err := json.Marshal(e)
		if err != nil {
			return kafkaMessages, fmt.Errorf("failed to marshal an event %v: %v", e, err)
		}
		kafkaMessages[i] = kafka.Message{Key: []byte(e.ProposalID), Value: data}
	}

	return kafkaMessages, nil
}

// GetTLSConfig builds the broker TLS config from an optional CA trust store.
func GetTLSConfig(trustStorePath string) (*tls.Config, error) {
	if trustStorePath == "" {
		return &tls.Config{}, nil
	}

	caCert, err := os.ReadFile(trustStorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read trustStorePath: %w", err)
	}

	caCertPool := x509.NewCertPool()
	caCertPool.AppendCertsFromPEM(caCert)

	config := &tls.Config{
		RootCAs: caCertPool,
	}
	return config, nil
}
