package match

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"skillbridge/internal/domain"
	"skillbridge/internal/repository"
	"skillbridge/internal/service/email"
	"skillbridge/internal/service/notification"
)

type Service interface {
	Request(ctx context.Context, learnerID uuid.UUID, input domain.CreateMatchInput) (*domain.Match, error)
	Respond(ctx context.Context, matchID, responderID uuid.UUID, decision domain.MatchDecision) (*domain.Match, error)
	Complete(ctx context.Context, matchID, callerID uuid.UUID) error
	Cancel(ctx context.Context, matchID, callerID uuid.UUID) error
	GetByID(ctx context.Context, matchID, callerID uuid.UUID) (*domain.Match, error)
	ListByUser(ctx context.Context, userID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.Match], error)
}

type service struct {
	matchRepo   repository.MatchRepository
	messageRepo repository.MessageRepository
	skillRepo   repository.SkillRepository
	userRepo    repository.UserRepository
	notifSvc    notification.Service
	emailSvc    email.Service
}

func NewService(
	matchRepo repository.MatchRepository,
	messageRepo repository.MessageRepository,
	skillRepo repository.SkillRepository,
	userRepo repository.UserRepository,
	notifSvc notification.Service,
	emailSvc email.Service,
) Service {
	return &service{
		matchRepo:   matchRepo,
		messageRepo: messageRepo,
		skillRepo:   skillRepo,
		userRepo:    userRepo,
		notifSvc:    notifSvc,
		emailSvc:    emailSvc,
	}
}

// Request creates a pending match from a learner to a teacher. At most one
// pending match exists per (teacher, learner, skill): a duplicate request
// returns the surviving pending match together with ErrDuplicatePending
// instead of creating a second record.
func (s *service) Request(ctx context.Context, learnerID uuid.UUID, input domain.CreateMatchInput) (*domain.Match, error) {
	if learnerID == input.TeacherID {
		return nil, domain.ErrSelfMatch
	}

	skill, err := s.skillRepo.GetSkill(ctx, input.SkillID)
	if err != nil {
		return nil, err
	}
	if skill == nil {
		return nil, fmt.Errorf("skill %s is missing from the catalog: %w", input.SkillID, domain.ErrNotFound)
	}

	teacher, err := s.userRepo.GetByID(ctx, input.TeacherID)
	if err != nil {
		return nil, err
	}
	if teacher == nil {
		return nil, domain.ErrNotFound
	}

	if existing, err := s.matchRepo.FindPending(ctx, input.TeacherID, learnerID, input.SkillID); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, domain.ErrDuplicatePending
	}

	match := &domain.Match{
		ID:             uuid.New(),
		TeacherID:      input.TeacherID,
		LearnerID:      learnerID,
		SkillID:        input.SkillID,
		Status:         domain.MatchPending,
		RequestMessage: input.Message,
	}

	if err := s.matchRepo.Create(ctx, match); err != nil {
		if errors.Is(err, domain.ErrDuplicatePending) {
			// Lost a race with a concurrent identical request; surface the
			// record that won.
			existing, findErr := s.matchRepo.FindPending(ctx, input.TeacherID, learnerID, input.SkillID)
			if findErr == nil && existing != nil {
				return existing, domain.ErrDuplicatePending
			}
			return nil, domain.ErrDuplicatePending
		}
		return nil, err
	}

	s.notifyRequested(ctx, match, skill, teacher)

	return match, nil
}

// Respond applies the teacher's accept/decline decision. Concurrent
// responses serialize at the store: only the first valid transition wins,
// later ones observe ErrInvalidTransition.
func (s *service) Respond(ctx context.Context, matchID, responderID uuid.UUID, decision domain.MatchDecision) (*domain.Match, error) {
	if !decision.IsValid() {
		return nil, domain.ErrInvalidTransition
	}

	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match == nil {
		return nil, domain.ErrNotFound
	}

	if responderID != match.TeacherID {
		return nil, domain.ErrNotAuthorized
	}

	if match.Status != domain.MatchPending {
		return nil, domain.ErrInvalidTransition
	}

	target := domain.MatchCancelled
	if decision == domain.DecisionAccept {
		target = domain.MatchAccepted
	}

	updated, err := s.matchRepo.UpdateStatus(ctx, matchID, domain.MatchPending, target)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, domain.ErrInvalidTransition
	}

	match.Status = target

	// The transition is visible from here on. Seeding and notification
	// failures are logged, never rolled back: a lost side effect is less
	// harmful than re-declining an already-accepted match.
	if decision == domain.DecisionAccept {
		s.seedConversation(ctx, match)
	}
	s.notifyResponded(ctx, match, decision == domain.DecisionAccept)

	return match, nil
}

// Complete closes an accepted match, typically on a session-completion
// trigger from the scheduling collaborator. Duplicate triggers are
// tolerated: completing an already-completed match is a no-op.
func (s *service) Complete(ctx context.Context, matchID, callerID uuid.UUID) error {
	return s.finish(ctx, matchID, callerID, domain.MatchCompleted)
}

// Cancel closes an accepted match at either participant's request.
func (s *service) Cancel(ctx context.Context, matchID, callerID uuid.UUID) error {
	return s.finish(ctx, matchID, callerID, domain.MatchCancelled)
}

func (s *service) finish(ctx context.Context, matchID, callerID uuid.UUID, target domain.MatchStatus) error {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return err
	}
	if match == nil {
		return domain.ErrNotFound
	}

	if !match.HasParticipant(callerID) {
		return domain.ErrNotAuthorized
	}

	if match.Status == target {
		return nil
	}
	if !match.Status.CanTransitionTo(target) || match.Status != domain.MatchAccepted {
		return domain.ErrInvalidTransition
	}

	updated, err := s.matchRepo.UpdateStatus(ctx, matchID, domain.MatchAccepted, target)
	if err != nil {
		return err
	}
	if !updated {
		// Raced with another terminal transition; a duplicate trigger for
		// the same target state stays a no-op.
		current, err := s.matchRepo.GetByID(ctx, matchID)
		if err != nil {
			return err
		}
		if current != nil && current.Status == target {
			return nil
		}
		return domain.ErrInvalidTransition
	}

	return nil
}

// GetByID exposes status and participants, which is what the review
// collaborator needs to gate "may this user review that user".
func (s *service) GetByID(ctx context.Context, matchID, callerID uuid.UUID) (*domain.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match == nil {
		return nil, domain.ErrNotFound
	}

	if !match.HasParticipant(callerID) {
		return nil, domain.ErrNotAuthorized
	}
	return match, nil
}

func (s *service) ListByUser(ctx context.Context, userID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.Match], error) {
	matches, total, err := s.matchRepo.ListByUser(ctx, userID, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Match]{}, err
	}

	return domain.NewPaginatedResponse(matches, params.Page, params.PageSize, total), nil
}

// seedConversation writes the learner's original request text as the first
// message, then a system message announcing the acceptance. The two inserts
// are not atomic, so the system message gets a timestamp strictly after the
// seeded one; seq ordering follows from the sequential inserts.
func (s *service) seedConversation(ctx context.Context, match *domain.Match) {
	now := time.Now().UTC()

	if match.RequestMessage != nil && *match.RequestMessage != "" {
		request := &domain.Message{
			ID:        uuid.New(),
			MatchID:   match.ID,
			SenderID:  match.LearnerID,
			Type:      domain.MessageText,
			Body:      *match.RequestMessage,
			CreatedAt: now,
		}
		if err := s.messageRepo.Create(ctx, request); err != nil {
			log.Printf("Failed to seed request message for match %s: %v", match.ID, err)
		}
	}

	system := &domain.Message{
		ID:        uuid.New(),
		MatchID:   match.ID,
		SenderID:  match.TeacherID,
		Type:      domain.MessageSystem,
		Body:      "Match accepted. The conversation is now open.",
		CreatedAt: now.Add(time.Millisecond),
	}
	if err := s.messageRepo.Create(ctx, system); err != nil {
		log.Printf("Failed to seed system message for match %s: %v", match.ID, err)
	}
}

func (s *service) notifyRequested(ctx context.Context, match *domain.Match, skill *domain.Skill, teacher *domain.User) {
	learner, err := s.userRepo.GetByID(ctx, match.LearnerID)
	if err != nil || learner == nil {
		log.Printf("Failed to load learner %s for match %s: %v", match.LearnerID, match.ID, err)
		return
	}

	payload := map[string]string{
		"match_id":   match.ID.String(),
		"skill_id":   match.SkillID.String(),
		"learner_id": match.LearnerID.String(),
	}

	title := "New match request"
	message := fmt.Sprintf("%s wants to learn %s from you", learner.FullName, skill.Name)
	if _, err := s.notifSvc.Emit(ctx, match.TeacherID, domain.NotifMatchRequest, title, message, payload); err != nil {
		log.Printf("Failed to notify teacher %s of match %s: %v", match.TeacherID, match.ID, err)
	}

	go func(toEmail, teacherName, learnerName, skillName string) {
		if err := s.emailSvc.SendMatchRequestEmail(context.Background(), toEmail, teacherName, learnerName, skillName); err != nil {
			log.Printf("Failed to send match request email: %v", err)
		}
	}(teacher.Email, teacher.FullName, learner.FullName, skill.Name)
}

func (s *service) notifyResponded(ctx context.Context, match *domain.Match, accepted bool) {
	skill, err := s.skillRepo.GetSkill(ctx, match.SkillID)
	if err != nil || skill == nil {
		log.Printf("Failed to load skill %s for match %s: %v", match.SkillID, match.ID, err)
		return
	}

	teacher, err := s.userRepo.GetByID(ctx, match.TeacherID)
	if err != nil || teacher == nil {
		log.Printf("Failed to load teacher %s for match %s: %v", match.TeacherID, match.ID, err)
		return
	}

	payload := map[string]string{
		"match_id": match.ID.String(),
		"skill_id": match.SkillID.String(),
		"status":   string(match.Status),
	}

	title := "Match request declined"
	message := fmt.Sprintf("%s declined your request to learn %s", teacher.FullName, skill.Name)
	if accepted {
		title = "Match request accepted"
		message = fmt.Sprintf("%s accepted your request to learn %s", teacher.FullName, skill.Name)
	}

	if _, err := s.notifSvc.Emit(ctx, match.LearnerID, domain.NotifMatchResponse, title, message, payload); err != nil {
		log.Printf("Failed to notify learner %s of match %s: %v", match.LearnerID, match.ID, err)
	}

	learner, err := s.userRepo.GetByID(ctx, match.LearnerID)
	if err != nil || learner == nil {
		return
	}

	go func(toEmail, learnerName, teacherName, skillName string, accepted bool) {
		if err := s.emailSvc.SendMatchResponseEmail(context.Background(), toEmail, learnerName, teacherName, skillName, accepted); err != nil {
			log.Printf("Failed to send match response email: %v", err)
		}
	}(learner.Email, learner.FullName, teacher.FullName, skill.Name, accepted)
}
