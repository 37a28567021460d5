// Package mailgun delivers contact messages through the Mailgun messages API.
package mailgun

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/corpsite/sitecontent/pkg/sitecontent"
)

// Config options for the Mailgun notifier
type Config struct {
	APIKey  string // Mailgun API key
	Domain  string // Sending domain registered with Mailgun
	From    string // From address for notification mail
	To      string // Recipient of contact notifications
	BaseURL string // Optional API base URL, default EU endpoint
}

// Notifier is a Mailgun implementation of the sitecontent.Notifier interface
type Notifier struct {
	config Config
	client *http.Client
}

// New creates a new Mailgun notifier
func New(config Config) (*Notifier, error) {
	if config.APIKey == "" {
		return nil, errors.New("api key is required")
	}
	if config.Domain == "" {
		return nil, errors.New("domain is required")
	}
	if config.From == "" || config.To == "" {
		return nil, errors.New("from and to addresses are required")
	}
	if config.BaseURL == "" {
		config.BaseURL = "https://api.eu.mailgun.net/v3"
	}

	return &Notifier{
		config: config,
		client: &http.Client{Timeout: 15 * time.Second},
	}, nil
}

// Notify sends the contact message as a form-encoded request to the Mailgun
// messages endpoint.
func (n *Notifier) Notify(ctx context.Context, msg sitecontent.ContactMessage) error {
	endpoint := fmt.Sprintf("%s/%s/messages", strings.TrimSuffix(n.config.BaseURL, "/"), n.config.Domain)

	form := url.Values{}
	form.Set("from", n.config.From)
	form.Set("to", n.config.To)
	form.Set("subject", fmt.Sprintf("New contact from %s %s", msg.FirstName, msg.LastName))
	form.Set("text", buildText(msg))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build mailgun request: %w", err)
	}
	req.SetBasicAuth("api", n.config.APIKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call mailgun: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("mailgun api error: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return nil
}

func buildText(msg sitecontent.ContactMessage) string {
	var sb strings.Builder
	sb.WriteString("New message from the contact form\n")
	sb.WriteString("==================================\n\n")
	fmt.Fprintf(&sb, "First name: %s\n", msg.FirstName)
	fmt.Fprintf(&sb, "Last name: %s\n", msg.LastName)
	fmt.Fprintf(&sb, "Email: %s\n", msg.Email)
	if msg.Phone != "" {
		fmt.Fprintf(&sb, "Phone: %s\n", msg.Phone)
	}
	if msg.Service != "" {
		fmt.Fprintf(&sb, "Service: %s\n", msg.Service)
	}
	fmt.Fprintf(&sb, "\nMessage:\n%s\n", msg.Message)
	return sb.String()
}
