package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

const sendTimeout = 10 * time.Second

// ErrRejected marks a message Mailgun refused outright; resending it cannot succeed.
var ErrRejected = errors.New("mailer: message rejected")

// Message is one rendered email.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string // optional
}

// Mailgun sends messages through the Mailgun API.
type Mailgun struct {
	client *mg.MailgunImpl
	Sender string
}

func NewMailgun(domain, apiKey, sender string) *Mailgun {
	return &Mailgun{client: mg.NewMailgun(domain, apiKey), Sender: sender}
}

func (m *Mailgun) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return fmt.Errorf("%w: empty recipient", ErrRejected)
	}
	out := m.client.NewMessage(m.Sender, msg.Subject, msg.Text, msg.To)
	if msg.HTML != "" {
		out.SetHtml(msg.HTML)
	}
	c, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	_, _, err := m.client.Send(c, out)
	return classify(err)
}

// classify wraps client errors other than throttling and timeouts in ErrRejected.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var resp *mg.UnexpectedResponseError
	if !errors.As(err, &resp) {
		return err
	}
	status := resp.Actual
	switch {
	case status == http.StatusTooManyRequests, status == http.StatusRequestTimeout:
		return err
	case status >= 400 && status < 500:
		return fmt.Errorf("%w (status %d): %v", ErrRejected, status, err)
	}
	return err
}
