package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"cat-cards-be/internal/model"
	"cat-cards-be/internal/repository"
	"cat-cards-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotificationRepo struct {
	lastLimit  int
	lastOffset int

	markedID     uuid.UUID
	markedUserID uuid.UUID
}

func (r *fakeNotificationRepo) CreateNotification(ctx context.Context, n *model.Notification) error {
	return nil
}

func (r *fakeNotificationRepo) GetNotificationsByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error) {
	r.lastLimit = limit
	r.lastOffset = offset
	return []model.Notification{}, 0, nil
}

func (r *fakeNotificationRepo) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return 0, nil
}

func (r *fakeNotificationRepo) MarkAsRead(ctx context.Context, notificationID, userID uuid.UUID) error {
	r.markedID = notificationID
	r.markedUserID = userID
	return nil
}

func (r *fakeNotificationRepo) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return nil
}

func (r *fakeNotificationRepo) GetNotificationTypeByCode(ctx context.Context, code string) (*model.NotificationType, error) {
	return nil, nil
}

var _ repository.NotificationRepository = (*fakeNotificationRepo)(nil)

func newTestApp(repo *fakeNotificationRepo, userID uuid.UUID) *fiber.App {
	svc := service.NewNotificationService(repo, nil, nil, nil)
	h := NewNotificationHandler(svc, nil, nil, nil)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", userID.String())
		return c.Next()
	})
	app.Get("/notifications", h.GetNotifications)
	app.Put("/notifications/:id/read", h.MarkAsRead)
	return app
}

func TestGetNotificationsClampsZeroLimit(t *testing.T) {
	repo := &fakeNotificationRepo{}
	app := newTestApp(repo, uuid.New())

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/notifications?limit=0", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Page  int `json:"page"`
		Limit int `json:"limit"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 20, body.Limit)
	assert.Equal(t, 1, body.Page)
	assert.Equal(t, 20, repo.lastLimit)
}

func TestGetNotificationsClampsNegativeOffset(t *testing.T) {
	repo := &fakeNotificationRepo{}
	app := newTestApp(repo, uuid.New())

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/notifications?limit=5&offset=-10", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 5, repo.lastLimit)
	assert.Equal(t, 0, repo.lastOffset)
}

func TestMarkAsReadScopesToCaller(t *testing.T) {
	repo := &fakeNotificationRepo{}
	userID := uuid.New()
	app := newTestApp(repo, userID)

	notifID := uuid.New()
	resp, err := app.Test(httptest.NewRequest(fiber.MethodPut, "/notifications/"+notifID.String()+"/read", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.Equal(t, notifID, repo.markedID)
	assert.Equal(t, userID, repo.markedUserID)
}
