package service

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"cat-cards-be/internal/dto"
	"cat-cards-be/internal/pkg/logger"
	"cat-cards-be/pkg/storage"
)

type ICleanupService interface {
	Consume(ctx context.Context) error
}

// cleanupService removes file blobs that belonged to deleted notes. Deletion
// transactions only enqueue the paths; the actual disk work happens here.
type cleanupService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	blobs     storage.ObjectStorage
	log       logger.ILogger
}

func NewCleanupService(
	pubSub *gochannel.GoChannel,
	topicName string,
	blobs storage.ObjectStorage,
	log logger.ILogger,
) ICleanupService {
	return &cleanupService{
		pubSub:    pubSub,
		topicName: topicName,
		blobs:     blobs,
		log:       log,
	}
}

func (cs *cleanupService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *cleanupService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishCleanupMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.log.Error("Cleanup", "Failed to unmarshal message", map[string]interface{}{"error": err.Error()})
		// Ack invalid messages to prevent infinite retry.
		msg.Ack()
		return
	}

	for _, path := range payload.Paths {
		if err := cs.blobs.Remove(ctx, path); err != nil {
			cs.log.Warn("Cleanup", "Failed to remove blob", map[string]interface{}{"path": path, "error": err.Error()})
			continue
		}
		cs.log.Info("Cleanup", "Blob removed", map[string]interface{}{"path": path})
	}

	msg.Ack()
}
