package skill

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"skillbridge/internal/domain"
	"skillbridge/internal/repository"
)

type Service interface {
	ListSkills(ctx context.Context) ([]domain.Skill, error)
	GetSkill(ctx context.Context, id uuid.UUID) (*domain.Skill, error)
	Declare(ctx context.Context, userID uuid.UUID, input domain.DeclareSkillInput) (*domain.UserSkill, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.UserSkill, error)
	Remove(ctx context.Context, userID, declarationID uuid.UUID) error
}

type service struct {
	skillRepo repository.SkillRepository
	redis     *redis.Client
}

func NewService(skillRepo repository.SkillRepository, redis *redis.Client) Service {
	return &service{
		skillRepo: skillRepo,
		redis:     redis,
	}
}

func (s *service) ListSkills(ctx context.Context) ([]domain.Skill, error) {
	return s.skillRepo.ListSkills(ctx)
}

// GetSkill treats an unknown id as a data-integrity failure: skills are a
// read-only catalog, so a dangling reference is never a normal miss.
func (s *service) GetSkill(ctx context.Context, id uuid.UUID) (*domain.Skill, error) {
	skill, err := s.skillRepo.GetSkill(ctx, id)
	if err != nil {
		return nil, err
	}
	if skill == nil {
		return nil, fmt.Errorf("skill %s is missing from the catalog: %w", id, domain.ErrNotFound)
	}
	return skill, nil
}

func (s *service) Declare(ctx context.Context, userID uuid.UUID, input domain.DeclareSkillInput) (*domain.UserSkill, error) {
	if _, err := s.GetSkill(ctx, input.SkillID); err != nil {
		return nil, err
	}

	declaration := &domain.UserSkill{
		ID:      uuid.New(),
		UserID:  userID,
		SkillID: input.SkillID,
		Role:    input.Role,
		Level:   input.Level,
		Note:    input.Note,
	}

	if err := s.skillRepo.UpsertDeclaration(ctx, declaration); err != nil {
		return nil, err
	}

	s.invalidateDiscovery(ctx, input.SkillID)

	return declaration, nil
}

func (s *service) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.UserSkill, error) {
	return s.skillRepo.ListDeclarationsByUser(ctx, userID)
}

func (s *service) Remove(ctx context.Context, userID, declarationID uuid.UUID) error {
	declaration, err := s.skillRepo.GetDeclaration(ctx, declarationID)
	if err != nil {
		return err
	}
	if declaration == nil {
		return domain.ErrNotFound
	}

	if declaration.UserID != userID {
		return domain.ErrNotAuthorized
	}

	if err := s.skillRepo.DeleteDeclaration(ctx, declarationID); err != nil {
		return err
	}

	s.invalidateDiscovery(ctx, declaration.SkillID)

	return nil
}

func (s *service) invalidateDiscovery(ctx context.Context, skillID uuid.UUID) {
	if s.redis == nil {
		return
	}
	_ = s.redis.Del(ctx, fmt.Sprintf("discovery:skill:%s", skillID)).Err()
}
