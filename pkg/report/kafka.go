package report

import (
	"context"
	"fmt"

	kafkawrapper "github.com/joripage/batch-matcher/pkg/kafka_wrapper"
)

type messagePublisher interface {
	Publish(ctx context.Context, msgs ...kafkawrapper.Message) error
}

// KafkaPublisher sends one JSON message per fill, keyed by ticker so a run's
// fills land on one partition in order.
type KafkaPublisher struct {
	producer messagePublisher
}

func NewKafkaPublisher(producer *kafkawrapper.Producer) *KafkaPublisher {
	return &KafkaPublisher{producer: producer}
}

func (p *KafkaPublisher) Name() string {
	return "kafka"
}

func (p *KafkaPublisher) Publish(ctx context.Context, r *Report) error {
	msgs, err := fillMessages(r)
	if err != nil {
		return err
	}
	if err := p.producer.Publish(ctx, msgs...); err != nil {
		return fmt.Errorf("publish %d fills: %w", len(msgs), err)
	}
	return nil
}

func fillMessages(r *Report) ([]kafkawrapper.Message, error) {
	headers := map[string]string{
		"run_id":    r.RunID,
		"algorithm": string(r.Algorithm),
	}

	events := r.Events()
	msgs := make([]kafkawrapper.Message, 0, len(events))
	for _, ev := range events {
		msg, err := kafkawrapper.JSONMessage(r.Ticker, ev, headers)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}
