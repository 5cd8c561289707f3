package email

import (
	"bytes"
	"context"
	"html/template"
	"sync"

	"github.com/rs/zerolog/log"
)

// Service handles email sending with templates
type Service struct {
	client       *SendGridClient
	templates    map[string]*template.Template
	baseTemplate *template.Template
	queue        chan *QueuedEmail
	wg           sync.WaitGroup
}

// QueuedEmail represents an email in the send queue
type QueuedEmail struct {
	To           string
	ToName       string
	Subject      string
	TemplateName string
	Data         interface{}
}

// NewService creates email service
func NewService(config SendGridConfig) *Service {
	s := &Service{
		client:    NewSendGridClient(config),
		templates: make(map[string]*template.Template),
		queue:     make(chan *QueuedEmail, 100),
	}

	// Load base template
	s.baseTemplate, _ = template.New("base").Parse(BaseTemplate)

	// Load all templates
	s.loadTemplates()

	// Start async worker
	s.wg.Add(1)
	go s.worker()

	return s
}

// loadTemplates loads all email templates
func (s *Service) loadTemplates() {
	templates := map[string]string{
		"welcome":          WelcomeTemplate,
		"waitlist_confirm": WaitlistConfirmTemplate,
		"payment_receipt":  PaymentReceiptTemplate,
	}

	for name, content := range templates {
		tmpl, err := template.New(name).Parse(content)
		if err != nil {
			log.Error().Err(err).Str("template", name).Msg("Failed to parse email template")
			continue
		}
		s.templates[name] = tmpl
	}
}

// worker processes queued emails asynchronously
func (s *Service) worker() {
	defer s.wg.Done()

	for email := range s.queue {
		ctx := context.Background()
		if err := s.send(ctx, email); err != nil {
			log.Error().Err(err).
				Str("to", email.To).
				Str("template", email.TemplateName).
				Msg("Failed to send email")
		}
	}
}

// send actually sends the email
func (s *Service) send(ctx context.Context, email *QueuedEmail) error {
	// Render template
	tmpl, ok := s.templates[email.TemplateName]
	if !ok {
		log.Warn().Str("template", email.TemplateName).Msg("Template not found")
		return nil
	}

	var contentBuf bytes.Buffer
	if err := tmpl.Execute(&contentBuf, email.Data); err != nil {
		return err
	}

	// Wrap in base template
	var htmlBuf bytes.Buffer
	if err := s.baseTemplate.Execute(&htmlBuf, map[string]interface{}{
		"Content": template.HTML(contentBuf.String()),
	}); err != nil {
		return err
	}

	return s.client.Send(ctx, &EmailMessage{
		To:          email.To,
		ToName:      email.ToName,
		Subject:     email.Subject,
		HTMLContent: htmlBuf.String(),
	})
}

// Queue adds an email to the async send queue
func (s *Service) Queue(to, toName, templateName, subject string, data interface{}) {
	select {
	case s.queue <- &QueuedEmail{
		To:           to,
		ToName:       toName,
		Subject:      subject,
		TemplateName: templateName,
		Data:         data,
	}:
	default:
		log.Warn().Str("to", to).Msg("Email queue full, dropping email")
	}
}

// Close stops the email worker
func (s *Service) Close() {
	close(s.queue)
	s.wg.Wait()
}

// --- Convenience methods for specific emails ---

// SendWelcome greets a freshly registered user
func (s *Service) SendWelcome(to, name string, freeAccessCount int, appURL string) {
	s.Queue(to, name, "welcome", "Welcome to QuizHub", map[string]interface{}{
		"Name":            name,
		"FreeAccessCount": freeAccessCount,
		"URL":             appURL,
	})
}

// SendWaitlistConfirmation confirms a waitlist signup
func (s *Service) SendWaitlistConfirmation(to, name, unsubscribeURL string) {
	s.Queue(to, name, "waitlist_confirm", "You're on the QuizHub waitlist", map[string]interface{}{
		"UnsubscribeURL": unsubscribeURL,
	})
}

// SendPaymentReceipt confirms a successful purchase
func (s *Service) SendPaymentReceipt(to, name, packageName string, amount float64, currency string, endsAt string, credits int) {
	s.Queue(to, name, "payment_receipt", "Your QuizHub purchase", map[string]interface{}{
		"PackageName": packageName,
		"Amount":      amount,
		"Currency":    currency,
		"EndsAt":      endsAt,
		"Credits":     credits,
	})
}
