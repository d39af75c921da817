package kafka

import (
	"context"
	"fmt"

	"preservice-attendance/internal/events"
	"preservice-attendance/internal/sync/queue"

	kafkago "github.com/segmentio/kafka-go"
)

// Publisher writes queued record operations to their sync topics. The record
// id doubles as message key and idempotency key so the remote side can
// deduplicate retried deliveries.
type Publisher struct {
	writer *kafkago.Writer
}

func NewPublisher(writer *kafkago.Writer) *Publisher {
	return &Publisher{writer: writer}
}

func (p *Publisher) Publish(ctx context.Context, item queue.Item) error {
	topic, err := topicFor(item.Type)
	if err != nil {
		return err
	}

	msg := kafkago.Message{
		Topic: topic,
		Key:   []byte(item.RecordID.String()),
		Value: item.Payload,
		Headers: []kafkago.Header{
			{Key: "idempotency_key", Value: []byte(item.RecordID.String())},
			{Key: "record_type", Value: []byte(item.Type)},
			{Key: "action", Value: []byte(item.Action)},
		},
	}

	return p.writer.WriteMessages(ctx, msg)
}

func topicFor(itemType string) (string, error) {
	switch itemType {
	case queue.TypeAttendance:
		return events.AttendanceSyncTopic, nil
	case queue.TypeExcuse:
		return events.ExcuseSyncTopic, nil
	default:
		return "", fmt.Errorf("unknown queue item type %q", itemType)
	}
}
