package match_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"skillbridge/internal/domain"
	"skillbridge/internal/service/match"
	"skillbridge/tests/mocks"
)

type matchFixture struct {
	matchRepo   *mocks.MatchRepository
	messageRepo *mocks.MessageRepository
	skillRepo   *mocks.SkillRepository
	userRepo    *mocks.UserRepository
	notifSvc    *mocks.NotificationService
	emailSvc    *mocks.EmailService
	svc         match.Service

	teacher *domain.User
	learner *domain.User
	skill   *domain.Skill
}

func newMatchFixture() *matchFixture {
	f := &matchFixture{
		matchRepo:   new(mocks.MatchRepository),
		messageRepo: new(mocks.MessageRepository),
		skillRepo:   new(mocks.SkillRepository),
		userRepo:    new(mocks.UserRepository),
		notifSvc:    new(mocks.NotificationService),
		emailSvc:    new(mocks.EmailService),
	}
	f.svc = match.NewService(f.matchRepo, f.messageRepo, f.skillRepo, f.userRepo, f.notifSvc, f.emailSvc)

	f.teacher = &domain.User{ID: uuid.New(), Email: "teacher@example.com", FullName: "Tia Teacher"}
	f.learner = &domain.User{ID: uuid.New(), Email: "learner@example.com", FullName: "Lee Learner"}
	f.skill = &domain.Skill{ID: uuid.New(), Name: "Woodworking"}
	return f
}

// allowSideEffects stubs the fire-and-forget notification and email paths so
// tests that only care about the state machine do not have to spell them out.
func (f *matchFixture) allowSideEffects() {
	f.userRepo.On("GetByID", mock.Anything, f.learner.ID).Return(f.learner, nil).Maybe()
	f.userRepo.On("GetByID", mock.Anything, f.teacher.ID).Return(f.teacher, nil).Maybe()
	f.skillRepo.On("GetSkill", mock.Anything, f.skill.ID).Return(f.skill, nil).Maybe()
	f.notifSvc.On("Emit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&domain.Notification{ID: uuid.New()}, nil).Maybe()
	f.emailSvc.On("SendMatchRequestEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	f.emailSvc.On("SendMatchResponseEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
}

func TestMatchService_Request(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newMatchFixture()
		note := "I want to learn dovetails"

		f.skillRepo.On("GetSkill", ctx, f.skill.ID).Return(f.skill, nil).Once()
		f.userRepo.On("GetByID", ctx, f.teacher.ID).Return(f.teacher, nil).Once()
		f.matchRepo.On("FindPending", ctx, f.teacher.ID, f.learner.ID, f.skill.ID).Return(nil, nil).Once()
		f.matchRepo.On("Create", ctx, mock.MatchedBy(func(m *domain.Match) bool {
			return m.TeacherID == f.teacher.ID &&
				m.LearnerID == f.learner.ID &&
				m.SkillID == f.skill.ID &&
				m.Status == domain.MatchPending &&
				m.RequestMessage != nil && *m.RequestMessage == note
		})).Return(nil).Once()
		f.userRepo.On("GetByID", ctx, f.learner.ID).Return(f.learner, nil).Once()
		f.notifSvc.On("Emit", ctx, f.teacher.ID, domain.NotifMatchRequest, mock.Anything, mock.Anything, mock.MatchedBy(func(p map[string]string) bool {
			return p["learner_id"] == f.learner.ID.String()
		})).Return(&domain.Notification{ID: uuid.New()}, nil).Once()
		f.emailSvc.On("SendMatchRequestEmail", mock.Anything, f.teacher.Email, f.teacher.FullName, f.learner.FullName, f.skill.Name).Return(nil).Maybe()

		created, err := f.svc.Request(ctx, f.learner.ID, domain.CreateMatchInput{
			TeacherID: f.teacher.ID,
			SkillID:   f.skill.ID,
			Message:   &note,
		})

		assert.NoError(t, err)
		assert.Equal(t, domain.MatchPending, created.Status)
		f.matchRepo.AssertExpectations(t)
		f.notifSvc.AssertExpectations(t)
	})

	t.Run("SelfMatch", func(t *testing.T) {
		f := newMatchFixture()

		_, err := f.svc.Request(ctx, f.teacher.ID, domain.CreateMatchInput{
			TeacherID: f.teacher.ID,
			SkillID:   f.skill.ID,
		})

		assert.ErrorIs(t, err, domain.ErrSelfMatch)
		f.matchRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("UnknownSkill", func(t *testing.T) {
		f := newMatchFixture()
		f.skillRepo.On("GetSkill", ctx, f.skill.ID).Return(nil, nil).Once()

		_, err := f.svc.Request(ctx, f.learner.ID, domain.CreateMatchInput{
			TeacherID: f.teacher.ID,
			SkillID:   f.skill.ID,
		})

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("UnknownTeacher", func(t *testing.T) {
		f := newMatchFixture()
		f.skillRepo.On("GetSkill", ctx, f.skill.ID).Return(f.skill, nil).Once()
		f.userRepo.On("GetByID", ctx, f.teacher.ID).Return(nil, nil).Once()

		_, err := f.svc.Request(ctx, f.learner.ID, domain.CreateMatchInput{
			TeacherID: f.teacher.ID,
			SkillID:   f.skill.ID,
		})

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("DuplicatePendingReturnsExisting", func(t *testing.T) {
		f := newMatchFixture()
		existing := &domain.Match{
			ID:        uuid.New(),
			TeacherID: f.teacher.ID,
			LearnerID: f.learner.ID,
			SkillID:   f.skill.ID,
			Status:    domain.MatchPending,
		}

		f.skillRepo.On("GetSkill", ctx, f.skill.ID).Return(f.skill, nil).Once()
		f.userRepo.On("GetByID", ctx, f.teacher.ID).Return(f.teacher, nil).Once()
		f.matchRepo.On("FindPending", ctx, f.teacher.ID, f.learner.ID, f.skill.ID).Return(existing, nil).Once()

		got, err := f.svc.Request(ctx, f.learner.ID, domain.CreateMatchInput{
			TeacherID: f.teacher.ID,
			SkillID:   f.skill.ID,
		})

		assert.ErrorIs(t, err, domain.ErrDuplicatePending)
		assert.Equal(t, existing.ID, got.ID)
		f.matchRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("DuplicateRaceSurfacesWinner", func(t *testing.T) {
		// The pre-check misses a concurrent identical request, the insert
		// hits the unique constraint, and the winner is re-fetched.
		f := newMatchFixture()
		winner := &domain.Match{
			ID:        uuid.New(),
			TeacherID: f.teacher.ID,
			LearnerID: f.learner.ID,
			SkillID:   f.skill.ID,
			Status:    domain.MatchPending,
		}

		f.skillRepo.On("GetSkill", ctx, f.skill.ID).Return(f.skill, nil).Once()
		f.userRepo.On("GetByID", ctx, f.teacher.ID).Return(f.teacher, nil).Once()
		f.matchRepo.On("FindPending", ctx, f.teacher.ID, f.learner.ID, f.skill.ID).Return(nil, nil).Once()
		f.matchRepo.On("Create", ctx, mock.Anything).Return(domain.ErrDuplicatePending).Once()
		f.matchRepo.On("FindPending", ctx, f.teacher.ID, f.learner.ID, f.skill.ID).Return(winner, nil).Once()

		got, err := f.svc.Request(ctx, f.learner.ID, domain.CreateMatchInput{
			TeacherID: f.teacher.ID,
			SkillID:   f.skill.ID,
		})

		assert.ErrorIs(t, err, domain.ErrDuplicatePending)
		assert.Equal(t, winner.ID, got.ID)
		f.matchRepo.AssertExpectations(t)
	})
}

func TestMatchService_Respond(t *testing.T) {
	ctx := context.Background()

	pendingMatch := func(f *matchFixture) *domain.Match {
		note := "teach me please"
		return &domain.Match{
			ID:             uuid.New(),
			TeacherID:      f.teacher.ID,
			LearnerID:      f.learner.ID,
			SkillID:        f.skill.ID,
			Status:         domain.MatchPending,
			RequestMessage: &note,
		}
	}

	t.Run("AcceptSeedsConversation", func(t *testing.T) {
		f := newMatchFixture()
		m := pendingMatch(f)
		f.allowSideEffects()

		f.matchRepo.On("GetByID", ctx, m.ID).Return(m, nil).Once()
		f.matchRepo.On("UpdateStatus", ctx, m.ID, domain.MatchPending, domain.MatchAccepted).Return(true, nil).Once()

		var seeded []*domain.Message
		f.messageRepo.On("Create", ctx, mock.AnythingOfType("*domain.Message")).Run(func(args mock.Arguments) {
			seeded = append(seeded, args.Get(1).(*domain.Message))
		}).Return(nil).Twice()

		got, err := f.svc.Respond(ctx, m.ID, f.teacher.ID, domain.DecisionAccept)

		assert.NoError(t, err)
		assert.Equal(t, domain.MatchAccepted, got.Status)
		if assert.Len(t, seeded, 2) {
			request, system := seeded[0], seeded[1]
			assert.Equal(t, domain.MessageText, request.Type)
			assert.Equal(t, f.learner.ID, request.SenderID)
			assert.Equal(t, *m.RequestMessage, request.Body)
			assert.Equal(t, domain.MessageSystem, system.Type)
			assert.True(t, system.CreatedAt.After(request.CreatedAt))
		}
		f.matchRepo.AssertExpectations(t)
	})

	t.Run("AcceptWithoutRequestMessageSeedsSystemOnly", func(t *testing.T) {
		f := newMatchFixture()
		m := pendingMatch(f)
		m.RequestMessage = nil
		f.allowSideEffects()

		f.matchRepo.On("GetByID", ctx, m.ID).Return(m, nil).Once()
		f.matchRepo.On("UpdateStatus", ctx, m.ID, domain.MatchPending, domain.MatchAccepted).Return(true, nil).Once()
		f.messageRepo.On("Create", ctx, mock.MatchedBy(func(msg *domain.Message) bool {
			return msg.Type == domain.MessageSystem
		})).Return(nil).Once()

		_, err := f.svc.Respond(ctx, m.ID, f.teacher.ID, domain.DecisionAccept)

		assert.NoError(t, err)
		f.messageRepo.AssertNumberOfCalls(t, "Create", 1)
	})

	t.Run("DeclineDoesNotSeed", func(t *testing.T) {
		f := newMatchFixture()
		m := pendingMatch(f)
		f.allowSideEffects()

		f.matchRepo.On("GetByID", ctx, m.ID).Return(m, nil).Once()
		f.matchRepo.On("UpdateStatus", ctx, m.ID, domain.MatchPending, domain.MatchCancelled).Return(true, nil).Once()

		got, err := f.svc.Respond(ctx, m.ID, f.teacher.ID, domain.DecisionDecline)

		assert.NoError(t, err)
		assert.Equal(t, domain.MatchCancelled, got.Status)
		f.messageRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("LearnerCannotRespond", func(t *testing.T) {
		f := newMatchFixture()
		m := pendingMatch(f)

		f.matchRepo.On("GetByID", ctx, m.ID).Return(m, nil).Once()

		_, err := f.svc.Respond(ctx, m.ID, f.learner.ID, domain.DecisionAccept)

		assert.ErrorIs(t, err, domain.ErrNotAuthorized)
		f.matchRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("AlreadyDecided", func(t *testing.T) {
		f := newMatchFixture()
		m := pendingMatch(f)
		m.Status = domain.MatchAccepted

		f.matchRepo.On("GetByID", ctx, m.ID).Return(m, nil).Once()

		_, err := f.svc.Respond(ctx, m.ID, f.teacher.ID, domain.DecisionDecline)

		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("LostConcurrentResponse", func(t *testing.T) {
		// Two responses race; the conditional update saw zero rows for the
		// loser even though the fast-path check passed.
		f := newMatchFixture()
		m := pendingMatch(f)

		f.matchRepo.On("GetByID", ctx, m.ID).Return(m, nil).Once()
		f.matchRepo.On("UpdateStatus", ctx, m.ID, domain.MatchPending, domain.MatchAccepted).Return(false, nil).Once()

		_, err := f.svc.Respond(ctx, m.ID, f.teacher.ID, domain.DecisionAccept)

		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		f.messageRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("UnknownMatch", func(t *testing.T) {
		f := newMatchFixture()
		id := uuid.New()
		f.matchRepo.On("GetByID", ctx, id).Return(nil, nil).Once()

		_, err := f.svc.Respond(ctx, id, f.teacher.ID, domain.DecisionAccept)

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("InvalidDecision", func(t *testing.T) {
		f := newMatchFixture()

		_, err := f.svc.Respond(ctx, uuid.New(), f.teacher.ID, domain.MatchDecision("later"))

		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("SeedFailureDoesNotRollBack", func(t *testing.T) {
		f := newMatchFixture()
		m := pendingMatch(f)
		f.allowSideEffects()

		f.matchRepo.On("GetByID", ctx, m.ID).Return(m, nil).Once()
		f.matchRepo.On("UpdateStatus", ctx, m.ID, domain.MatchPending, domain.MatchAccepted).Return(true, nil).Once()
		f.messageRepo.On("Create", ctx, mock.Anything).Return(errors.New("insert failed")).Twice()

		got, err := f.svc.Respond(ctx, m.ID, f.teacher.ID, domain.DecisionAccept)

		assert.NoError(t, err)
		assert.Equal(t, domain.MatchAccepted, got.Status)
	})
}

func TestMatchService_CompleteAndCancel(t *testing.T) {
	ctx := context.Background()

	acceptedMatch := func(f *matchFixture) *domain.Match {
		return &domain.Match{
			ID:        uuid.New(),
			TeacherID: f.teacher.ID,
			LearnerID: f.learner.ID,
			SkillID:   f.skill.ID,
			Status:    domain.MatchAccepted,
		}
	}

	t.Run("CompleteAccepted", func(t *testing.T) {
		f := newMatchFixture()
		m := acceptedMatch(f)

		f.matchRepo.On("GetByID", ctx, m.ID).Return(m, nil).Once()
		f.matchRepo.On("UpdateStatus", ctx, m.ID, domain.MatchAccepted, domain.MatchCompleted).Return(true, nil).Once()

		assert.NoError(t, f.svc.Complete(ctx, m.ID, f.learner.ID))
		f.matchRepo.AssertExpectations(t)
	})

	t.Run("CancelAccepted", func(t *testing.T) {
		f := newMatchFixture()
		m := acceptedMatch(f)

		f.matchRepo.On("GetByID", ctx, m.ID).Return(m, nil).Once()
		f.matchRepo.On("UpdateStatus", ctx, m.ID, domain.MatchAccepted, domain.MatchCancelled).Return(true, nil).Once()

		assert.NoError(t, f.svc.Cancel(ctx, m.ID, f.teacher.ID))
	})

	t.Run("NonParticipant", func(t *testing.T) {
		f := newMatchFixture()
		m := acceptedMatch(f)

		f.matchRepo.On("GetByID", ctx, m.ID).Return(m, nil).Once()

		err := f.svc.Complete(ctx, m.ID, uuid.New())

		assert.ErrorIs(t, err, domain.ErrNotAuthorized)
		f.matchRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("DuplicateCompleteIsNoOp", func(t *testing.T) {
		f := newMatchFixture()
		m := acceptedMatch(f)
		m.Status = domain.MatchCompleted

		f.matchRepo.On("GetByID", ctx, m.ID).Return(m, nil).Once()

		assert.NoError(t, f.svc.Complete(ctx, m.ID, f.teacher.ID))
		f.matchRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("CompletePendingRejected", func(t *testing.T) {
		f := newMatchFixture()
		m := acceptedMatch(f)
		m.Status = domain.MatchPending

		f.matchRepo.On("GetByID", ctx, m.ID).Return(m, nil).Once()

		assert.ErrorIs(t, f.svc.Complete(ctx, m.ID, f.teacher.ID), domain.ErrInvalidTransition)
	})

	t.Run("LostRaceToSameTargetIsNoOp", func(t *testing.T) {
		f := newMatchFixture()
		m := acceptedMatch(f)
		done := *m
		done.Status = domain.MatchCompleted

		f.matchRepo.On("GetByID", ctx, m.ID).Return(m, nil).Once()
		f.matchRepo.On("UpdateStatus", ctx, m.ID, domain.MatchAccepted, domain.MatchCompleted).Return(false, nil).Once()
		f.matchRepo.On("GetByID", ctx, m.ID).Return(&done, nil).Once()

		assert.NoError(t, f.svc.Complete(ctx, m.ID, f.teacher.ID))
	})

	t.Run("LostRaceToOtherTargetRejected", func(t *testing.T) {
		f := newMatchFixture()
		m := acceptedMatch(f)
		cancelled := *m
		cancelled.Status = domain.MatchCancelled

		f.matchRepo.On("GetByID", ctx, m.ID).Return(m, nil).Once()
		f.matchRepo.On("UpdateStatus", ctx, m.ID, domain.MatchAccepted, domain.MatchCompleted).Return(false, nil).Once()
		f.matchRepo.On("GetByID", ctx, m.ID).Return(&cancelled, nil).Once()

		assert.ErrorIs(t, f.svc.Complete(ctx, m.ID, f.teacher.ID), domain.ErrInvalidTransition)
	})
}

func TestMatchService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("ParticipantSees", func(t *testing.T) {
		f := newMatchFixture()
		m := &domain.Match{ID: uuid.New(), TeacherID: f.teacher.ID, LearnerID: f.learner.ID, Status: domain.MatchAccepted}
		f.matchRepo.On("GetByID", ctx, m.ID).Return(m, nil).Once()

		got, err := f.svc.GetByID(ctx, m.ID, f.learner.ID)

		assert.NoError(t, err)
		assert.Equal(t, m.ID, got.ID)
	})

	t.Run("StrangerBlocked", func(t *testing.T) {
		f := newMatchFixture()
		m := &domain.Match{ID: uuid.New(), TeacherID: f.teacher.ID, LearnerID: f.learner.ID, Status: domain.MatchAccepted}
		f.matchRepo.On("GetByID", ctx, m.ID).Return(m, nil).Once()

		_, err := f.svc.GetByID(ctx, m.ID, uuid.New())

		assert.ErrorIs(t, err, domain.ErrNotAuthorized)
	})
}
