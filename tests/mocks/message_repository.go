package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"skillbridge/internal/domain"
)

type MessageRepository struct {
	mock.Mock
}

func (m *MessageRepository) Create(ctx context.Context, message *domain.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MessageRepository) ListByMatch(ctx context.Context, matchID uuid.UUID, params domain.PaginationParams) ([]domain.Message, int64, error) {
	args := m.Called(ctx, matchID, params)
	return args.Get(0).([]domain.Message), args.Get(1).(int64), args.Error(2)
}

func (m *MessageRepository) MarkRead(ctx context.Context, matchID, readerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, matchID, readerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MessageRepository) CountUnread(ctx context.Context, matchID, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, matchID, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MessageRepository) CountUnreadForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}
