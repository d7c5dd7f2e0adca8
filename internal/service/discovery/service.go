package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"skillbridge/internal/domain"
	"skillbridge/internal/repository"
)

type Service interface {
	FindTeachers(ctx context.Context, requestingUserID, skillID uuid.UUID) ([]domain.UserSkill, error)
}

type service struct {
	skillRepo repository.SkillRepository
	redis     *redis.Client
	cacheTTL  time.Duration
}

func NewService(skillRepo repository.SkillRepository, redis *redis.Client, cacheTTL time.Duration) Service {
	return &service{
		skillRepo: skillRepo,
		redis:     redis,
		cacheTTL:  cacheTTL,
	}
}

// FindTeachers returns teach-role declarations for a skill ranked by
// proficiency level, recency breaking ties. An empty result means "no
// teachers yet", never a masked lookup failure: store errors surface as
// ErrStoreUnavailable so the caller can distinguish the two.
func (s *service) FindTeachers(ctx context.Context, requestingUserID, skillID uuid.UUID) ([]domain.UserSkill, error) {
	skill, err := s.skillRepo.GetSkill(ctx, skillID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	if skill == nil {
		return nil, fmt.Errorf("skill %s is missing from the catalog: %w", skillID, domain.ErrNotFound)
	}

	teachers, err := s.cachedTeachers(ctx, skillID)
	if err != nil {
		return nil, err
	}

	filtered := make([]domain.UserSkill, 0, len(teachers))
	for _, teacher := range teachers {
		if teacher.UserID == requestingUserID {
			continue
		}
		filtered = append(filtered, teacher)
	}
	return filtered, nil
}

// cachedTeachers caches the full per-skill ranking; the requester filter is
// applied afterwards so one cache entry serves every caller.
func (s *service) cachedTeachers(ctx context.Context, skillID uuid.UUID) ([]domain.UserSkill, error) {
	cacheKey := fmt.Sprintf("discovery:skill:%s", skillID)

	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
			var teachers []domain.UserSkill
			if json.Unmarshal([]byte(cached), &teachers) == nil {
				return teachers, nil
			}
		}
	}

	teachers, err := s.skillRepo.FindTeachers(ctx, skillID, uuid.Nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	if s.redis != nil {
		if raw, err := json.Marshal(teachers); err == nil {
			_ = s.redis.Set(ctx, cacheKey, raw, s.cacheTTL).Err()
		}
	}

	return teachers, nil
}
