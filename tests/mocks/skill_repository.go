package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"skillbridge/internal/domain"
)

type SkillRepository struct {
	mock.Mock
}

func (m *SkillRepository) ListSkills(ctx context.Context) ([]domain.Skill, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Skill), args.Error(1)
}

func (m *SkillRepository) GetSkill(ctx context.Context, id uuid.UUID) (*domain.Skill, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Skill), args.Error(1)
}

func (m *SkillRepository) UpsertDeclaration(ctx context.Context, declaration *domain.UserSkill) error {
	args := m.Called(ctx, declaration)
	return args.Error(0)
}

func (m *SkillRepository) ListDeclarationsByUser(ctx context.Context, userID uuid.UUID) ([]domain.UserSkill, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UserSkill), args.Error(1)
}

func (m *SkillRepository) GetDeclaration(ctx context.Context, id uuid.UUID) (*domain.UserSkill, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserSkill), args.Error(1)
}

func (m *SkillRepository) DeleteDeclaration(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *SkillRepository) FindTeachers(ctx context.Context, skillID, excludeUserID uuid.UUID) ([]domain.UserSkill, error) {
	args := m.Called(ctx, skillID, excludeUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UserSkill), args.Error(1)
}
