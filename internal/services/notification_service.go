// internal/services/notification_service.go
package services

import (
	"fmt"
	"net/smtp"

	"github.com/sirupsen/logrus"

	"github.com/ynstek/yns-backend/internal/config"
	"github.com/ynstek/yns-backend/internal/models"
)

// NotificationService is a thin wrapper over SMTP. Messages are plain
// text; the portal has no templated HTML mail.
type NotificationService struct {
	config *config.Config
}

func NewNotificationService(config *config.Config) *NotificationService {
	return &NotificationService{
		config: config,
	}
}

// Send delivers a plain-text message. When SMTP is not configured (local
// development) the message is logged and dropped.
func (s *NotificationService) Send(to, subject, body string) error {
	if s.config.Email.SMTPHost == "" {
		logrus.WithFields(logrus.Fields{
			"to":      to,
			"subject": subject,
		}).Info("SMTP not configured, skipping email")
		return nil
	}

	// Setup authentication
	auth := smtp.PlainAuth("", s.config.Email.SMTPUsername, s.config.Email.SMTPPassword, s.config.Email.SMTPHost)

	// Compose message
	msg := []byte(fmt.Sprintf("To: %s\r\nFrom: %s <%s>\r\nSubject: %s\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n%s",
		to, s.config.Email.FromName, s.config.Email.FromEmail, subject, body))

	// Send email
	addr := fmt.Sprintf("%s:%s", s.config.Email.SMTPHost, s.config.Email.SMTPPort)
	return smtp.SendMail(addr, auth, s.config.Email.FromEmail, []string{to}, msg)
}

// SendApplicationStatusEmail tells an applicant their verification
// verdict. Subject and body shape are part of the external contract.
func (s *NotificationService) SendApplicationStatusEmail(to, process string, status models.ApplicationStatus, summary string) error {
	subject := fmt.Sprintf("MPW Application %s", status)
	body := fmt.Sprintf("Your MPW application for %s is now %s.\nSummary: %s", process, status, summary)
	return s.Send(to, subject, body)
}
