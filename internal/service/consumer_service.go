package service

import (
	"context"
	"encoding/json"

	"notekeeper-be/internal/pkg/logger"
	"notekeeper-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the note-events topic into the activity log.
type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	log       logger.ILogger
}

func NewConsumerService(pubSub *gochannel.GoChannel, topicName string, log logger.ILogger) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		log:       log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var evt events.NoteEvent
	if err := json.Unmarshal(msg.Payload, &evt); err != nil {
		cs.log.Error("events", "failed to unmarshal note event", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	details := map[string]interface{}{
		"type":        evt.Type,
		"note_id":     evt.NoteId,
		"occurred_at": evt.OccurredAt,
	}
	if evt.Title != "" {
		details["title"] = evt.Title
	}
	if evt.CategoryId != 0 {
		details["category_id"] = evt.CategoryId
	}
	cs.log.Info("events", "note activity", details)

	msg.Ack()
}
