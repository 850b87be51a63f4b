package events

import (
	"context"

	"corebank/internal/events/messaging/kafka"
)

// KafkaPublisher publishes Events to the topics in the kafka package,
// keyed by account ID so all events for one account land on the same
// partition and preserve per-account ordering for consumers.
type KafkaPublisher struct {
	Producer *kafka.Producer
}

func NewKafkaPublisher(p *kafka.Producer) *KafkaPublisher {
	return &KafkaPublisher{Producer: p}
}

func (k *KafkaPublisher) Publish(_ context.Context, evt Event) error {
	topic := topicFor(evt.Kind)
	return k.Producer.PublishEvent(topic, evt.AccountID.String(), evt)
}

func topicFor(kind Kind) string {
	switch kind {
	case KindDeposit:
		return kafka.TopicDeposits
	case KindWithdrawal:
		return kafka.TopicWithdrawals
	case KindTransfer:
		return kafka.TopicTransfers
	case KindReconciliationMismatch:
		return kafka.TopicReconciliation
	default:
		return kafka.TopicDeposits
	}
}
