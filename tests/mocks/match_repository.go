package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"skillbridge/internal/domain"
)

type MatchRepository struct {
	mock.Mock
}

func (m *MatchRepository) Create(ctx context.Context, match *domain.Match) error {
	args := m.Called(ctx, match)
	return args.Error(0)
}

func (m *MatchRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Match, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Match), args.Error(1)
}

func (m *MatchRepository) FindPending(ctx context.Context, teacherID, learnerID, skillID uuid.UUID) (*domain.Match, error) {
	args := m.Called(ctx, teacherID, learnerID, skillID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Match), args.Error(1)
}

func (m *MatchRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.MatchStatus) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *MatchRepository) ListByUser(ctx context.Context, userID uuid.UUID, params domain.PaginationParams) ([]domain.Match, int64, error) {
	args := m.Called(ctx, userID, params)
	return args.Get(0).([]domain.Match), args.Get(1).(int64), args.Error(2)
}
