package services

import (
	"fmt"
	"net/smtp"
	"sync"

	appConfig "github.com/factrix/factrix-api/config"
)

// Email is a single outbound message
type Email struct {
	To       string
	Subject  string
	HTMLBody string
}

// MailInterface defines the interface for sending transactional email
type MailInterface interface {
	Send(email Email) error
}

// SMTPMailService sends mail through a plain SMTP relay
type SMTPMailService struct {
	host string
	port string
	user string
	pass string
	from string
}

var mailServiceInstance MailInterface

// InitMailService initializes the SMTP mail service from configuration
func InitMailService() MailInterface {
	cfg := appConfig.GetConfig()
	mailServiceInstance = &SMTPMailService{
		host: cfg.SMTPHost,
		port: cfg.SMTPPort,
		user: cfg.SMTPUser,
		pass: cfg.SMTPPass,
		from: cfg.MailFrom,
	}
	return mailServiceInstance
}

// GetMailService returns the initialized mail service instance
func GetMailService() MailInterface {
	return mailServiceInstance
}

// SetMailService sets the mail service instance (primarily for testing)
func SetMailService(service MailInterface) {
	mailServiceInstance = service
}

// Send delivers a single HTML email
func (s *SMTPMailService) Send(email Email) error {
	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		s.from, email.To, email.Subject, email.HTMLBody,
	)

	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	var auth smtp.Auth
	if s.user != "" {
		auth = smtp.PlainAuth("", s.user, s.pass, s.host)
	}

	if err := smtp.SendMail(addr, auth, s.from, []string{email.To}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", email.To, err)
	}
	return nil
}

// MockMailService records sent mail for test assertions
type MockMailService struct {
	sent     []Email
	failSend bool
	mu       sync.Mutex
}

// NewMockMailService creates a new mock mail service
func NewMockMailService() *MockMailService {
	return &MockMailService{}
}

// SetAsMockForTesting sets this mock as the global mail service instance
func (m *MockMailService) SetAsMockForTesting() {
	SetMailService(m)
}

// FailSends makes every subsequent Send call return an error
func (m *MockMailService) FailSends(fail bool) {
	m.mu.Lock()
	m.failSend = fail
	m.mu.Unlock()
}

// Send records the email instead of delivering it
func (m *MockMailService) Send(email Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSend {
		return fmt.Errorf("mock mail send failure")
	}
	m.sent = append(m.sent, email)
	return nil
}

// SentEmails returns a copy of everything sent so far
func (m *MockMailService) SentEmails() []Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Email, len(m.sent))
	copy(out, m.sent)
	return out
}

// Clear forgets all recorded mail
func (m *MockMailService) Clear() {
	m.mu.Lock()
	m.sent = nil
	m.mu.Unlock()
}
