package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"os"

	"github.com/rs/zerolog"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const thankYouSubject = "Thank You for Joining the Green Sports Pledge!"

type Config struct {
	APIKey       string
	From         string
	FromName     string
	TemplatePath string
}

// Mailer sends the one-time thank-you email for freshly created pledges.
type Mailer struct {
	cfg Config
	log *zerolog.Logger
}

func New(cfg Config, log *zerolog.Logger) *Mailer {
	return &Mailer{cfg: cfg, log: log}
}

func (m *Mailer) SendThankYou(name, toEmail string) error {
	if m.cfg.APIKey == "" {
		return fmt.Errorf("sendgrid api key is not configured")
	}

	from := mail.NewEmail(m.cfg.FromName, m.cfg.From)
	recipient := mail.NewEmail(name, toEmail)
	html := m.renderBody(name)
	message := mail.NewSingleEmail(from, thankYouSubject, recipient,
		fmt.Sprintf("Hi %s, thank you for pledging to support green sports.", name), html)

	client := sendgrid.NewSendClient(m.cfg.APIKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send thank-you email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}

	m.log.Info().Str("email", toEmail).Int("status", response.StatusCode).Msg("thank-you email sent")
	return nil
}

// renderBody prefers the HTML template on disk and falls back to an inline
// body when the template is missing or broken.
func (m *Mailer) renderBody(name string) string {
	raw, err := os.ReadFile(m.cfg.TemplatePath)
	if err != nil {
		m.log.Warn().Err(err).Msg("thank-you template unavailable, using fallback body")
		return fallbackBody(name)
	}

	tmpl, err := template.New("thank_you").Parse(string(raw))
	if err != nil {
		m.log.Warn().Err(err).Msg("thank-you template does not parse, using fallback body")
		return fallbackBody(name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, struct{ Name string }{Name: name}); err != nil {
		m.log.Warn().Err(err).Msg("thank-you template failed to render, using fallback body")
		return fallbackBody(name)
	}
	return buf.String()
}

func fallbackBody(name string) string {
	return fmt.Sprintf(
		"<h2>Hi %s,</h2><p>Thank you for pledging to support green sports at <b>FSB Cologne</b>.</p><p>— The ESS Team</p>",
		template.HTMLEscapeString(name),
	)
}
