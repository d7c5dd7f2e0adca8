package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"skillbridge/internal/domain"
)

type NotificationService struct {
	mock.Mock
}

func (m *NotificationService) Emit(ctx context.Context, recipientID uuid.UUID, notifType domain.NotificationType, title, message string, payload map[string]string) (*domain.Notification, error) {
	args := m.Called(ctx, recipientID, notifType, title, message, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Notification), args.Error(1)
}

func (m *NotificationService) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error) {
	args := m.Called(ctx, userID, unreadOnly, params)
	return args.Get(0).(domain.PaginatedResponse[domain.Notification]), args.Error(1)
}

func (m *NotificationService) MarkRead(ctx context.Context, notificationID, callerID uuid.UUID) error {
	args := m.Called(ctx, notificationID, callerID)
	return args.Error(0)
}

func (m *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *NotificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *NotificationService) Subscribe(userID uuid.UUID) (<-chan domain.Notification, func()) {
	args := m.Called(userID)
	return args.Get(0).(<-chan domain.Notification), args.Get(1).(func())
}
