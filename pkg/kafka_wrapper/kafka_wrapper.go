// Package kafkawrapper publishes messages to Kafka.
package kafkawrapper

import (
	"context"
	"encoding/json"
	"errors"
	"hash/fnv"
	"time"

	kafka "github.com/segmentio/kafka-go"
)

type ProducerConfig struct {
	Brokers      []string           `yaml:"brokers"`
	Topic        string             `yaml:"topic"`
	BatchSize    int                `yaml:"batch_size"`
	BatchBytes   int64              `yaml:"batch_bytes"`
	BatchTimeout time.Duration      `yaml:"batch_timeout"`
	Async        bool               `yaml:"async"`
	Balancer     kafka.Balancer     `yaml:"-"`
	RequiredAcks kafka.RequiredAcks `yaml:"-"`
}

// Producer writes to the configured topic unless a message names its own.
type Producer struct {
	w     *kafka.Writer
	topic string
}

var errProducerNotInitialized = errors.New("producer not initialized")

func NewProducer(cfg ProducerConfig) *Producer {
	if cfg.Balancer == nil {
		cfg.Balancer = &kafka.Hash{}
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.BatchBytes == 0 {
		cfg.BatchBytes = 1 << 20
	}
	if cfg.BatchTimeout == 0 {
		cfg.BatchTimeout = 50 * time.Millisecond
	}
	if cfg.RequiredAcks == 0 && !cfg.Async {
		cfg.RequiredAcks = kafka.RequireAll
	}
	wr := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               cfg.Balancer,
		BatchSize:              cfg.BatchSize,
		BatchBytes:             cfg.BatchBytes,
		BatchTimeout:           cfg.BatchTimeout,
		AllowAutoTopicCreation: true,
		RequiredAcks:           cfg.RequiredAcks,
		Async:                  cfg.Async,
	}
	return &Producer{w: wr, topic: cfg.Topic}
}

// Message is one record to publish. Topic falls back to the producer topic.
type Message struct {
	Topic   string
	Key     []byte
	Value   []byte
	Headers map[string]string
}

func (p *Producer) Publish(ctx context.Context, msgs ...Message) error {
	if p == nil || p.w == nil {
		return errProducerNotInitialized
	}
	if len(msgs) == 0 {
		return nil
	}

	now := time.Now()
	out := make([]kafka.Message, 0, len(msgs))
	for _, m := range msgs {
		topic := m.Topic
		if topic == "" {
			topic = p.topic
		}
		out = append(out, kafka.Message{
			Topic:   topic,
			Key:     m.Key,
			Value:   m.Value,
			Headers: toHeaders(m.Headers),
			Time:    now,
		})
	}
	return p.w.WriteMessages(ctx, out...)
}

// JSONMessage marshals v into a message keyed by key.
func JSONMessage(key string, v any, headers map[string]string) (Message, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return Message{}, err
	}
	return Message{Key: HashKey(key), Value: b, Headers: headers}, nil
}

func (p *Producer) Close(ctx context.Context) error {
	if p == nil || p.w == nil {
		return nil
	}
	return p.w.Close()
}

func toHeaders(headers map[string]string) []kafka.Header {
	var kh []kafka.Header
	for k, v := range headers {
		kh = append(kh, kafka.Header{Key: k, Value: []byte(v)})
	}
	return kh
}

// HashKey turns a string key into a stable 8 byte partition key.
func HashKey(s string) []byte {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	sum := h.Sum64()
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(sum >> (56 - 8*i))
	}
	return b
}
