// Package gmail is the mail retrieval boundary. The client reports setup as
// required until OAuth client secrets and an authorized token are provisioned
// on disk, which lets the dialogue layer walk the user through setup instead
// of failing opaquely.
package gmail

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// ErrSetupRequired signals that Gmail credentials are not provisioned yet.
var ErrSetupRequired = errors.New("gmail: setup required")

// Email is a retrieved mail message.
type Email struct {
	ID      string
	From    string
	Subject string
	Snippet string
	Body    string
}

// Summarizer condenses text into a short spoken-friendly answer.
type Summarizer interface {
	GenerateText(ctx context.Context, prompt string) string
}

// Client reads the user's mailbox through the Gmail API. It stays
// unconfigured until both the OAuth client secrets and an authorized token
// exist next to each other on disk.
type Client struct {
	credentialsPath string
	tokenPath       string
	summarizer      Summarizer
}

// NewClient builds a Gmail client. credentialsPath may point at a file that
// does not exist yet; availability is checked per call so the user can
// provision credentials without restarting the service.
func NewClient(credentialsPath string, summarizer Summarizer) *Client {
	if credentialsPath == "" {
		credentialsPath = "credentials.json"
	}
	return &Client{
		credentialsPath: credentialsPath,
		tokenPath:       filepath.Join(filepath.Dir(credentialsPath), "token.json"),
		summarizer:      summarizer,
	}
}

// service builds an authenticated Gmail API client. The interactive consent
// flow runs outside this process; until it has produced token.json every
// call reports ErrSetupRequired.
func (c *Client) service(ctx context.Context) (*gmailapi.Service, error) {
	secrets, err := os.ReadFile(c.credentialsPath)
	if err != nil {
		return nil, ErrSetupRequired
	}
	conf, err := google.ConfigFromJSON(secrets, gmailapi.GmailModifyScope)
	if err != nil {
		return nil, fmt.Errorf("gmail: parse credentials: %w", err)
	}

	raw, err := os.ReadFile(c.tokenPath)
	if err != nil {
		return nil, ErrSetupRequired
	}
	var token oauth2.Token
	if err := json.Unmarshal(raw, &token); err != nil {
		return nil, fmt.Errorf("gmail: parse token: %w", err)
	}

	return gmailapi.NewService(ctx, option.WithTokenSource(conf.TokenSource(ctx, &token)))
}

// LastEmail returns the most recent inbox message. Until credentials are
// provisioned it returns ErrSetupRequired.
func (c *Client) LastEmail(ctx context.Context) (Email, error) {
	srv, err := c.service(ctx)
	if err != nil {
		return Email{}, err
	}

	list, err := srv.Users.Messages.List("me").MaxResults(1).LabelIds("INBOX").Context(ctx).Do()
	if err != nil {
		return Email{}, fmt.Errorf("gmail: list messages: %w", err)
	}
	if len(list.Messages) == 0 {
		return Email{Subject: "No email found"}, nil
	}

	full, err := srv.Users.Messages.Get("me", list.Messages[0].Id).Format("full").Context(ctx).Do()
	if err != nil {
		return Email{}, fmt.Errorf("gmail: fetch message: %w", err)
	}

	return Email{
		ID:      full.Id,
		From:    headerValue(full.Payload, "From"),
		Subject: headerValue(full.Payload, "Subject"),
		Snippet: full.Snippet,
		Body:    extractBody(full.Payload),
	}, nil
}

// Summarize condenses the email into three short bullets and one action line.
func (c *Client) Summarize(ctx context.Context, email Email) (string, error) {
	if c.summarizer == nil {
		return "", errors.New("gmail: no summarizer configured")
	}
	prompt := "Summarize this email in 3 short bullets and one action line.\n" +
		"From: " + email.From + "\n" +
		"Subject: " + email.Subject + "\n" +
		"Body:\n" + clip(readableBody(email), 5000)
	return c.summarizer.GenerateText(ctx, prompt), nil
}

// DraftReply composes a reply to the email following the user's instructions.
func (c *Client) DraftReply(ctx context.Context, email Email, instructions string) (string, error) {
	if c.summarizer == nil {
		return "", errors.New("gmail: no summarizer configured")
	}
	prompt := "Draft a concise, professional email reply.\n" +
		"Original subject: " + email.Subject + "\n" +
		"Original body:\n" + clip(readableBody(email), 5000) + "\n\n" +
		"Instructions: " + instructions
	return c.summarizer.GenerateText(ctx, prompt), nil
}

func headerValue(payload *gmailapi.MessagePart, name string) string {
	if payload == nil {
		return ""
	}
	for _, h := range payload.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

// extractBody prefers a text/plain part and falls back to the top-level body.
func extractBody(payload *gmailapi.MessagePart) string {
	if payload == nil {
		return ""
	}
	for _, part := range payload.Parts {
		if strings.EqualFold(part.MimeType, "text/plain") && part.Body != nil && part.Body.Data != "" {
			if text := decodeBody(part.Body.Data); text != "" {
				return text
			}
		}
	}
	if payload.Body != nil && payload.Body.Data != "" {
		return decodeBody(payload.Body.Data)
	}
	return ""
}

// decodeBody handles both padded and unpadded base64url message data.
func decodeBody(data string) string {
	if decoded, err := base64.URLEncoding.DecodeString(data); err == nil {
		return string(decoded)
	}
	decoded, err := base64.RawURLEncoding.DecodeString(data)
	if err != nil {
		return ""
	}
	return string(decoded)
}

func readableBody(email Email) string {
	if body := strings.TrimSpace(email.Body); body != "" {
		return body
	}
	return strings.TrimSpace(email.Snippet)
}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
