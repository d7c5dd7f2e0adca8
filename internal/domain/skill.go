package domain

import (
	"time"

	"github.com/google/uuid"
)

type Skill struct {
	ID        uuid.UUID `json:"id" db:"skill_id"`
	Name      string    `json:"name" db:"name"`
	Category  string    `json:"category" db:"category"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type SkillRole string

const (
	RoleTeach SkillRole = "teach"
	RoleLearn SkillRole = "learn"
)

func (r SkillRole) IsValid() bool {
	return r == RoleTeach || r == RoleLearn
}

// UserSkill is a user's claim to teach or learn a skill. At most one
// declaration exists per (user, skill, role) triple.
type UserSkill struct {
	ID        uuid.UUID `json:"id" db:"user_skill_id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	SkillID   uuid.UUID `json:"skill_id" db:"skill_id"`
	Role      SkillRole `json:"role" db:"role"`
	Level     int16     `json:"level" db:"level"`
	Note      *string   `json:"note,omitempty" db:"note"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Skill *Skill         `json:"skill,omitempty"`
	User  *PublicProfile `json:"user,omitempty"`
}

type DeclareSkillInput struct {
	SkillID uuid.UUID `json:"skill_id" validate:"required"`
	Role    SkillRole `json:"role" validate:"required,oneof=teach learn"`
	Level   int16     `json:"level" validate:"required,min=1,max=5"`
	Note    *string   `json:"note,omitempty" validate:"omitempty,max=500"`
}
