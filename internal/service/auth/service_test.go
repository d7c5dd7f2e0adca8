package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"skillbridge/internal/config"
	"skillbridge/internal/domain"
	"skillbridge/internal/repository"
	"skillbridge/internal/service/auth"
	"skillbridge/tests/mocks"
)

func newAuthFixture() (*mocks.UserRepository, *mocks.SessionRepository, auth.Service) {
	userRepo := new(mocks.UserRepository)
	sessionRepo := new(mocks.SessionRepository)
	emailSvc := new(mocks.EmailService)
	emailSvc.On("SendWelcomeEmail", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	cfg := &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 7 * 24 * time.Hour,
	}
	return userRepo, sessionRepo, auth.NewService(userRepo, sessionRepo, emailSvc, cfg)
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		userRepo, sessionRepo, svc := newAuthFixture()

		userRepo.On("ExistsByEmail", ctx, "new@example.com").Return(false, nil).Once()
		userRepo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
			return u.Email == "new@example.com" && u.IsActive && u.PasswordHash != "secret123"
		})).Return(nil).Once()
		sessionRepo.On("Create", ctx, mock.AnythingOfType("*repository.Session")).Return(nil).Once()

		user, tokens, err := svc.Register(ctx, domain.CreateUserInput{
			Email:    "new@example.com",
			Password: "secret123",
			FullName: "New User",
		})

		assert.NoError(t, err)
		assert.NotEmpty(t, tokens.AccessToken)
		assert.NotEmpty(t, tokens.RefreshToken)

		claims, err := svc.ValidateAccessToken(tokens.AccessToken)
		assert.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		userRepo, _, svc := newAuthFixture()

		userRepo.On("ExistsByEmail", ctx, "taken@example.com").Return(true, nil).Once()

		_, _, err := svc.Register(ctx, domain.CreateUserInput{
			Email:    "taken@example.com",
			Password: "secret123",
			FullName: "Somebody",
		})

		assert.ErrorIs(t, err, auth.ErrEmailExists)
		userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	user := &domain.User{
		ID:           uuid.New(),
		Email:        "user@example.com",
		PasswordHash: string(hash),
		IsActive:     true,
	}

	t.Run("Success", func(t *testing.T) {
		userRepo, sessionRepo, svc := newAuthFixture()

		userRepo.On("GetByEmail", ctx, user.Email).Return(user, nil).Once()
		sessionRepo.On("Create", ctx, mock.Anything).Return(nil).Once()

		got, tokens, err := svc.Login(ctx, domain.LoginInput{Email: user.Email, Password: "correct-horse"})

		assert.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.NotEmpty(t, tokens.RefreshToken)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		userRepo, _, svc := newAuthFixture()

		userRepo.On("GetByEmail", ctx, user.Email).Return(user, nil).Once()

		_, _, err := svc.Login(ctx, domain.LoginInput{Email: user.Email, Password: "wrong"})

		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		userRepo, _, svc := newAuthFixture()

		userRepo.On("GetByEmail", ctx, "ghost@example.com").Return(nil, nil).Once()

		_, _, err := svc.Login(ctx, domain.LoginInput{Email: "ghost@example.com", Password: "whatever"})

		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("DeactivatedUser", func(t *testing.T) {
		userRepo, _, svc := newAuthFixture()
		inactive := *user
		inactive.IsActive = false

		userRepo.On("GetByEmail", ctx, user.Email).Return(&inactive, nil).Once()

		_, _, err := svc.Login(ctx, domain.LoginInput{Email: user.Email, Password: "correct-horse"})

		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	ctx := context.Background()

	t.Run("RotatesSession", func(t *testing.T) {
		userRepo, sessionRepo, svc := newAuthFixture()
		user := &domain.User{ID: uuid.New(), Email: "user@example.com", IsActive: true}

		var issued *repository.Session
		sessionRepo.On("Create", ctx, mock.AnythingOfType("*repository.Session")).Run(func(args mock.Arguments) {
			issued = args.Get(1).(*repository.Session)
		}).Return(nil).Once()
		userRepo.On("GetByEmail", ctx, user.Email).Return(user, nil).Once()

		hash, _ := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
		user.PasswordHash = string(hash)
		_, tokens, err := svc.Login(ctx, domain.LoginInput{Email: user.Email, Password: "pw"})
		assert.NoError(t, err)

		sessionRepo.On("GetByTokenHash", ctx, issued.TokenHash).Return(issued, nil).Once()
		userRepo.On("GetByID", ctx, user.ID).Return(user, nil).Once()
		sessionRepo.On("Revoke", ctx, issued.ID).Return(nil).Once()
		sessionRepo.On("Create", ctx, mock.AnythingOfType("*repository.Session")).Return(nil).Once()

		fresh, err := svc.RefreshToken(ctx, tokens.RefreshToken)

		assert.NoError(t, err)
		assert.NotEqual(t, tokens.RefreshToken, fresh.RefreshToken)
		sessionRepo.AssertExpectations(t)
	})

	t.Run("UnknownToken", func(t *testing.T) {
		_, sessionRepo, svc := newAuthFixture()

		sessionRepo.On("GetByTokenHash", ctx, mock.Anything).Return(nil, nil).Once()

		_, err := svc.RefreshToken(ctx, "deadbeef")

		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}

func TestAuthService_ValidateAccessToken(t *testing.T) {
	_, _, svc := newAuthFixture()

	_, err := svc.ValidateAccessToken("not-a-jwt")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = svc.ValidateAccessToken("")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
