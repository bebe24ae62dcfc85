package notify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNotConfigured is returned when the mail provider credentials are
// missing. Callers treat it as a partial success: the triggering write
// has already been persisted.
var ErrNotConfigured = errors.New("email service not configured")

// Email is one outbound transactional email.
type Email struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers a single email. Implementations must be safe for
// concurrent use.
type Sender interface {
	Send(ctx context.Context, email Email) error
}

// MailgunSender sends through the Mailgun messages API.
type MailgunSender struct {
	domain string
	apiKey string
	from   string
	client *http.Client
}

// NewMailgunSender creates a MailgunSender. Empty credentials are
// allowed; Send then fails with ErrNotConfigured.
func NewMailgunSender(domain, apiKey, from string) *MailgunSender {
	return &MailgunSender{
		domain: domain,
		apiKey: apiKey,
		from:   from,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Send posts one message to the Mailgun API.
func (s *MailgunSender) Send(ctx context.Context, email Email) error {
	if s.domain == "" || s.apiKey == "" {
		return ErrNotConfigured
	}

	form := url.Values{}
	form.Set("from", s.from)
	form.Set("to", email.To)
	form.Set("subject", email.Subject)
	form.Set("text", email.Body)

	endpoint := fmt.Sprintf("https://api.mailgun.net/v3/%s/messages", s.domain)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth("api", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("mailgun returned status %d", resp.StatusCode)
	}
	return nil
}
