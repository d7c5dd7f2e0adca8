package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type EmailService struct {
	mock.Mock
}

func (m *EmailService) SendWelcomeEmail(ctx context.Context, toEmail, fullName string) error {
	args := m.Called(ctx, toEmail, fullName)
	return args.Error(0)
}

func (m *EmailService) SendMatchRequestEmail(ctx context.Context, toEmail, teacherName, learnerName, skillName string) error {
	args := m.Called(ctx, toEmail, teacherName, learnerName, skillName)
	return args.Error(0)
}

func (m *EmailService) SendMatchResponseEmail(ctx context.Context, toEmail, learnerName, teacherName, skillName string, accepted bool) error {
	args := m.Called(ctx, toEmail, learnerName, teacherName, skillName, accepted)
	return args.Error(0)
}
