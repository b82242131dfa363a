package email

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/resendlabs/resend-go"
	"go.uber.org/zap"
)

type EmailService struct {
	client   *resend.Client
	from     string
	fromName string
	logger   *zap.Logger
}

func NewEmailService(apiKey, fromAddress, fromName string, logger *zap.Logger) *EmailService {
	return &EmailService{
		client:   resend.NewClient(apiKey),
		from:     fromAddress,
		fromName: fromName,
		logger:   logger,
	}
}

func (s *EmailService) SendWelcomeEmail(email, fullName string) error {
	html, err := renderTemplate(welcomeTemplate, map[string]interface{}{
		"FullName": fullName,
		"Year":     time.Now().Year(),
	})
	if err != nil {
		return err
	}
	return s.send(email, "Welcome to FitBody!", html)
}

// SendPackageContentEmail delivers the training programme content for a
// completed purchase. Best-effort: callers must not fail an order on error.
func (s *EmailService) SendPackageContentEmail(email, packageName string) error {
	html, err := renderTemplate(packageContentTemplate, map[string]interface{}{
		"PackageName": packageName,
		"Year":        time.Now().Year(),
	})
	if err != nil {
		return err
	}
	return s.send(email, fmt.Sprintf("Your %s programme is ready", packageName), html)
}

func (s *EmailService) SendTicketReplyEmail(email, subject, reply string) error {
	html, err := renderTemplate(ticketReplyTemplate, map[string]interface{}{
		"Subject": subject,
		"Reply":   reply,
		"Year":    time.Now().Year(),
	})
	if err != nil {
		return err
	}
	return s.send(email, "Re: "+subject, html)
}

func (s *EmailService) send(to, subject, html string) error {
	params := &resend.SendEmailRequest{
		From:    s.fromName + " <" + s.from + ">",
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}

	resp, err := s.client.Emails.Send(params)
	if err != nil {
		s.logger.Error("email send failed",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err),
		)
		return err
	}

	s.logger.Info("email sent",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("email_id", resp.Id),
	)
	return nil
}

func renderTemplate(tmpl *template.Template, data interface{}) (string, error) {
	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return "", err
	}
	return body.String(), nil
}
