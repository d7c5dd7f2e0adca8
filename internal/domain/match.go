package domain

import (
	"time"

	"github.com/google/uuid"
)

type MatchStatus string

const (
	MatchPending   MatchStatus = "pending"
	MatchAccepted  MatchStatus = "accepted"
	MatchCompleted MatchStatus = "completed"
	MatchCancelled MatchStatus = "cancelled"
)

func (s MatchStatus) IsValid() bool {
	switch s {
	case MatchPending, MatchAccepted, MatchCompleted, MatchCancelled:
		return true
	default:
		return false
	}
}

func (s MatchStatus) IsTerminal() bool {
	return s == MatchCompleted || s == MatchCancelled
}

// CanTransitionTo encodes the match state machine:
// pending -> accepted | cancelled, accepted -> completed | cancelled.
func (s MatchStatus) CanTransitionTo(to MatchStatus) bool {
	switch s {
	case MatchPending:
		return to == MatchAccepted || to == MatchCancelled
	case MatchAccepted:
		return to == MatchCompleted || to == MatchCancelled
	default:
		return false
	}
}

// Match pairs a learner with a teacher for one skill. Records are never
// hard-deleted so disputes and reviews keep their audit trail.
type Match struct {
	ID             uuid.UUID   `json:"id" db:"match_id"`
	TeacherID      uuid.UUID   `json:"teacher_id" db:"teacher_id"`
	LearnerID      uuid.UUID   `json:"learner_id" db:"learner_id"`
	SkillID        uuid.UUID   `json:"skill_id" db:"skill_id"`
	Status         MatchStatus `json:"status" db:"status"`
	RequestMessage *string     `json:"request_message,omitempty" db:"request_message"`
	CreatedAt      time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at" db:"updated_at"`

	Skill   *Skill         `json:"skill,omitempty"`
	Teacher *PublicProfile `json:"teacher,omitempty"`
	Learner *PublicProfile `json:"learner,omitempty"`
}

func (m *Match) HasParticipant(userID uuid.UUID) bool {
	return m.TeacherID == userID || m.LearnerID == userID
}

func (m *Match) Counterpart(userID uuid.UUID) uuid.UUID {
	if m.TeacherID == userID {
		return m.LearnerID
	}
	return m.TeacherID
}

type CreateMatchInput struct {
	TeacherID uuid.UUID `json:"teacher_id" validate:"required"`
	SkillID   uuid.UUID `json:"skill_id" validate:"required"`
	Message   *string   `json:"message,omitempty" validate:"omitempty,max=1000"`
}

type MatchDecision string

const (
	DecisionAccept  MatchDecision = "accept"
	DecisionDecline MatchDecision = "decline"
)

func (d MatchDecision) IsValid() bool {
	return d == DecisionAccept || d == DecisionDecline
}

type RespondMatchInput struct {
	Decision MatchDecision `json:"decision" validate:"required,oneof=accept decline"`
}
