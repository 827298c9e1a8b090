package service

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/hireflow-ai/hireflow/internal/config"
	"go.uber.org/zap"
)

const sendgridSendURL = "https://api.sendgrid.com/v3/mail/send"

type MailerServiceInterface interface {
	SendJobOpportunity(ctx context.Context, email, name, jobTitle, jobMarkdown, profileSummary string) bool
	SendInterviewLink(ctx context.Context, email, name, jobTitle, link string) bool
}

// MailerService delivers workflow notifications through the SendGrid v3
// API. Delivery is best effort: failures are logged and reported as false,
// never as an error, so the workflow transitions they follow are not
// rolled back.
type MailerService struct {
	client    *resty.Client
	fromEmail string
	fromName  string
	logger    *zap.Logger
}

func NewMailerService(cfg *config.SendgridConfig, logger *zap.Logger) *MailerService {
	client := resty.New().
		SetHeader("Authorization", "Bearer "+cfg.APIKey).
		SetHeader("Content-Type", "application/json")
	return &MailerService{
		client:    client,
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		logger:    logger,
	}
}

// SendJobOpportunity notifies a shortlisted candidate that a job matched
// their profile.
func (s *MailerService) SendJobOpportunity(ctx context.Context, email, name, jobTitle, jobMarkdown, profileSummary string) bool {
	subject := fmt.Sprintf("New opportunity: %s", jobTitle)
	body := fmt.Sprintf(
		"Hi %s,\n\nYour profile was matched with a new opening.\n\n%s\n\nWhy you were matched:\n%s\n\nReply through your candidate portal to accept or decline.\n",
		name, jobMarkdown, profileSummary)
	return s.send(ctx, "job_opportunity", email, name, subject, body)
}

// SendInterviewLink sends the tokenized interview URL after a candidate
// accepts.
func (s *MailerService) SendInterviewLink(ctx context.Context, email, name, jobTitle, link string) bool {
	subject := fmt.Sprintf("Your interview for %s", jobTitle)
	body := fmt.Sprintf(
		"Hi %s,\n\nThanks for your interest in the %s role. Start your screening interview here:\n\n%s\n\nThe link is personal, do not share it.\n",
		name, jobTitle, link)
	return s.send(ctx, "interview_link", email, name, subject, body)
}

func (s *MailerService) send(ctx context.Context, kind, email, name, subject, body string) bool {
	payload := map[string]any{
		"personalizations": []map[string]any{
			{"to": []map[string]string{{"email": email, "name": name}}},
		},
		"from":    map[string]string{"email": s.fromEmail, "name": s.fromName},
		"subject": subject,
		"content": []map[string]string{{"type": "text/plain", "value": body}},
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(payload).
		Post(sendgridSendURL)
	if err != nil {
		s.logger.Warn("mail delivery failed", zap.String("kind", kind), zap.Error(err))
		return false
	}
	if resp.IsError() {
		s.logger.Warn("mail delivery rejected",
			zap.String("kind", kind),
			zap.Int("status", resp.StatusCode()))
		return false
	}
	s.logger.Info("mail sent", zap.String("kind", kind))
	return true
}
