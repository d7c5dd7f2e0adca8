package email

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v3"

	"skillbridge/internal/config"
)

type Service interface {
	SendWelcomeEmail(ctx context.Context, toEmail, fullName string) error
	SendMatchRequestEmail(ctx context.Context, toEmail, teacherName, learnerName, skillName string) error
	SendMatchResponseEmail(ctx context.Context, toEmail, learnerName, teacherName, skillName string, accepted bool) error
}

type service struct {
	client *resend.Client
	cfg    *config.Config
}

func NewService(cfg *config.Config) Service {
	client := resend.NewClient(cfg.ResendAPIKey)
	return &service{
		client: client,
		cfg:    cfg,
	}
}

func (s *service) send(ctx context.Context, toEmail, subject, html string) error {
	if s.cfg.ResendAPIKey == "" {
		return nil
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("SkillBridge <%s>", s.cfg.FromEmail),
		To:      []string{toEmail},
		Subject: subject,
		Html:    html,
	}

	_, err := s.client.Emails.SendWithContext(ctx, params)
	return err
}

func (s *service) SendWelcomeEmail(ctx context.Context, toEmail, fullName string) error {
	subject := "Welcome to SkillBridge!"

	html := fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
	<h2 style="color: #111827;">Hi %s,</h2>
	<p>
		Welcome to <strong>SkillBridge</strong> — the place where people teach
		what they know and learn what they don't.
	</p>
	<p>
		Add the skills you can teach or want to learn, and we'll help you find
		your first match.
	</p>
	<p style="margin: 24px 0;">
		<a href="%s" style="background-color: #4f46e5; color: #ffffff; padding: 12px 24px; border-radius: 6px; text-decoration: none;">
			Get started
		</a>
	</p>
</div>`, fullName, s.cfg.AppURL)

	return s.send(ctx, toEmail, subject, html)
}

func (s *service) SendMatchRequestEmail(ctx context.Context, toEmail, teacherName, learnerName, skillName string) error {
	subject := fmt.Sprintf("%s wants to learn %s from you", learnerName, skillName)

	html := fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
	<h2 style="color: #111827;">Hi %s,</h2>
	<p>
		<strong>%s</strong> sent you a match request for <strong>%s</strong>.
	</p>
	<p>
		Accept it to open a conversation, or decline if now is not a good time.
	</p>
	<p style="margin: 24px 0;">
		<a href="%s/matches" style="background-color: #4f46e5; color: #ffffff; padding: 12px 24px; border-radius: 6px; text-decoration: none;">
			View request
		</a>
	</p>
</div>`, teacherName, learnerName, skillName, s.cfg.AppURL)

	return s.send(ctx, toEmail, subject, html)
}

func (s *service) SendMatchResponseEmail(ctx context.Context, toEmail, learnerName, teacherName, skillName string, accepted bool) error {
	var subject, body string
	if accepted {
		subject = fmt.Sprintf("%s accepted your %s match request", teacherName, skillName)
		body = fmt.Sprintf("<strong>%s</strong> accepted your request to learn <strong>%s</strong>. The conversation is open — say hello and set up your first session.", teacherName, skillName)
	} else {
		subject = fmt.Sprintf("Your %s match request was declined", skillName)
		body = fmt.Sprintf("<strong>%s</strong> declined your request to learn <strong>%s</strong>. You can look for other teachers on your discovery page.", teacherName, skillName)
	}

	html := fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
	<h2 style="color: #111827;">Hi %s,</h2>
	<p>%s</p>
	<p style="margin: 24px 0;">
		<a href="%s/matches" style="background-color: #4f46e5; color: #ffffff; padding: 12px 24px; border-radius: 6px; text-decoration: none;">
			Open SkillBridge
		</a>
	</p>
</div>`, learnerName, body, s.cfg.AppURL)

	return s.send(ctx, toEmail, subject, html)
}
