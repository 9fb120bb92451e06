// utils/email.go
package utils

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// Mailer sends transactional emails
type Mailer interface {
	SendVerificationEmail(toEmail, token string) error
}

// EmailService handles sending emails using SendGrid
type EmailService struct {
	client  *sendgrid.Client
	sender  string
	baseURL string
}

// NewEmailService returns an EmailService. An empty API key yields a service
// that logs instead of sending.
func NewEmailService(apiKey, sender, baseURL string) *EmailService {
	es := &EmailService{sender: sender, baseURL: baseURL}
	if apiKey != "" {
		es.client = sendgrid.NewSendClient(apiKey)
	}
	return es
}

// SendEmail sends a basic email to the specified recipient
func (es *EmailService) SendEmail(toEmail, subject, htmlContent string) error {
	if es.client == nil {
		zap.L().Warn("email delivery disabled, dropping message",
			zap.String("to", toEmail), zap.String("subject", subject))
		return nil
	}

	from := mail.NewEmail("QuickCart", es.sender)
	to := mail.NewEmail("", toEmail)
	message := mail.NewSingleEmail(from, subject, to, htmlContent, htmlContent)

	resp, err := es.client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("failed to send email: sendgrid status %d", resp.StatusCode)
	}

	zap.L().Info("email sent", zap.String("to", toEmail), zap.String("subject", subject))
	return nil
}

// SendVerificationEmail sends an email verification link to the user
func (es *EmailService) SendVerificationEmail(toEmail, token string) error {
	subject := "Verify Your Email"
	verificationLink := fmt.Sprintf("%s/api/auth/verify?token=%s", es.baseURL, token)
	htmlContent := fmt.Sprintf(
		"<strong>Please verify your email by clicking on the following link:</strong> <a href=\"%s\">Verify Email</a>",
		verificationLink,
	)

	return es.SendEmail(toEmail, subject, htmlContent)
}
