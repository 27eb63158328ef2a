package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"cat-cards-be/internal/model"
	"cat-cards-be/internal/pkg/logger"
	"cat-cards-be/internal/repository"
	"cat-cards-be/pkg/events"
	pktNats "cat-cards-be/pkg/nats"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// NotificationDelivery defines how to push real-time updates.
// Typically implemented by the WebSocket Hub.
type NotificationDelivery interface {
	Send(userID uuid.UUID, notification model.Notification)
	Broadcast(notification model.Notification)
}

type NotificationService struct {
	repo       repository.NotificationRepository
	subscriber *pktNats.Subscriber
	delivery   NotificationDelivery
	logger     logger.ILogger
}

func NewNotificationService(repo repository.NotificationRepository, sub *pktNats.Subscriber, delivery NotificationDelivery, log logger.ILogger) *NotificationService {
	return &NotificationService{
		repo:       repo,
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *NotificationService) Start() {
	err := s.subscriber.Subscribe("events.>", "notif-service-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("NotificationService", "Failed to start notification subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("NotificationService", "Notification service started, listening to events.>", nil)
}

func (s *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	// Strip "events." prefix if present (NATS subject includes stream prefix).
	typeCode := strings.TrimPrefix(event.EventType(), "events.")

	s.logger.Info("NotificationService", "Processing event", map[string]interface{}{"type": typeCode})

	config, err := s.repo.GetNotificationTypeByCode(ctx, typeCode)
	if err != nil {
		s.logger.Warn("NotificationService", fmt.Sprintf("Config not found for code: '%s'", typeCode), map[string]interface{}{"error": err.Error()})
		return nil
	}
	if !config.IsActive {
		return nil
	}

	// Every event in this system targets the user it happened to.
	userID, ok := payloadUserID(event)
	if !ok {
		s.logger.Warn("NotificationService", "No user_id in payload", map[string]interface{}{"type": typeCode})
		return nil
	}

	notif := s.buildNotification(userID, config, event)

	if err := s.repo.CreateNotification(ctx, &notif); err != nil {
		s.logger.Error("NotificationService", "Error saving notification", map[string]interface{}{"user_id": userID, "error": err})
		// Returning the error lets NATS redeliver.
		return err
	}

	if s.delivery != nil {
		s.delivery.Send(userID, notif)
	}

	return nil
}

func (s *NotificationService) GetNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error) {
	return s.repo.GetNotificationsByUserID(ctx, userID, limit, offset)
}

func (s *NotificationService) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.GetUnreadCount(ctx, userID)
}

func (s *NotificationService) MarkAsRead(ctx context.Context, notificationID, userID uuid.UUID) error {
	return s.repo.MarkAsRead(ctx, notificationID, userID)
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func payloadUserID(event events.Event) (uuid.UUID, bool) {
	switch v := event.Payload()["user_id"].(type) {
	case string:
		uid, err := uuid.Parse(v)
		return uid, err == nil
	case uuid.UUID:
		return v, true
	}
	return uuid.Nil, false
}

func (s *NotificationService) buildNotification(userID uuid.UUID, config *model.NotificationType, event events.Event) model.Notification {
	// Simple template engine: {key} placeholders filled from the payload.
	msg := config.Template
	payload := event.Payload()

	for k, v := range payload {
		placeholder := fmt.Sprintf("{%s}", k)
		msg = strings.ReplaceAll(msg, placeholder, fmt.Sprintf("%v", v))
	}

	entityType := ""
	var entityID *uuid.UUID
	if noteIDStr, ok := payload["note_id"].(string); ok {
		if nid, err := uuid.Parse(noteIDStr); err == nil {
			entityType = "note"
			entityID = &nid
		}
	}
	if folderIDStr, ok := payload["folder_id"].(string); ok {
		if fid, err := uuid.Parse(folderIDStr); err == nil {
			entityType = "folder"
			entityID = &fid
		}
	}

	metaJSON, _ := json.Marshal(payload)

	return model.Notification{
		ID:         uuid.New(),
		UserID:     userID,
		TypeCode:   config.Code,
		EntityType: entityType,
		EntityID:   entityID,
		Title:      config.DisplayName,
		Message:    msg,
		Metadata:   datatypes.JSON(metaJSON),
		IsRead:     false,
		CreatedAt:  time.Now(),
	}
}
