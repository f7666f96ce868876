package gmail

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	gmailapi "google.golang.org/api/gmail/v1"
)

type stubSummarizer struct {
	prompts []string
}

func (s *stubSummarizer) GenerateText(ctx context.Context, prompt string) string {
	s.prompts = append(s.prompts, prompt)
	return "- Bullet one\n- Bullet two\n- Bullet three\nAction: reply today."
}

func TestLastEmailSetupRequiredWithoutCredentials(t *testing.T) {
	client := NewClient(filepath.Join(t.TempDir(), "credentials.json"), &stubSummarizer{})

	_, err := client.LastEmail(context.Background())
	if !errors.Is(err, ErrSetupRequired) {
		t.Fatalf("err = %v, want ErrSetupRequired", err)
	}
}

func TestLastEmailSetupRequiredWithoutToken(t *testing.T) {
	dir := t.TempDir()
	credentials := filepath.Join(dir, "credentials.json")
	if err := os.WriteFile(credentials, []byte(`{"installed":{"client_id":"x","client_secret":"y","redirect_uris":["http://localhost"],"auth_uri":"https://accounts.google.com/o/oauth2/auth","token_uri":"https://oauth2.googleapis.com/token"}}`), 0o600); err != nil {
		t.Fatalf("write credentials: %v", err)
	}

	client := NewClient(credentials, &stubSummarizer{})
	_, err := client.LastEmail(context.Background())
	if !errors.Is(err, ErrSetupRequired) {
		t.Fatalf("err = %v, want ErrSetupRequired until token.json exists", err)
	}
}

func TestExtractBodyPrefersPlainTextPart(t *testing.T) {
	plain := base64.URLEncoding.EncodeToString([]byte("plain body"))
	html := base64.URLEncoding.EncodeToString([]byte("<p>html body</p>"))
	payload := &gmailapi.MessagePart{
		Parts: []*gmailapi.MessagePart{
			{MimeType: "text/html", Body: &gmailapi.MessagePartBody{Data: html}},
			{MimeType: "text/plain", Body: &gmailapi.MessagePartBody{Data: plain}},
		},
	}

	if got := extractBody(payload); got != "plain body" {
		t.Fatalf("extractBody = %q, want plain body", got)
	}
}

func TestExtractBodyFallsBackToTopLevel(t *testing.T) {
	// Gmail delivers unpadded base64url for single-part messages.
	data := base64.RawURLEncoding.EncodeToString([]byte("top-level body"))
	payload := &gmailapi.MessagePart{
		Body: &gmailapi.MessagePartBody{Data: data},
	}

	if got := extractBody(payload); got != "top-level body" {
		t.Fatalf("extractBody = %q, want top-level body", got)
	}
}

func TestHeaderValueIsCaseInsensitive(t *testing.T) {
	payload := &gmailapi.MessagePart{
		Headers: []*gmailapi.MessagePartHeader{
			{Name: "FROM", Value: "alice@example.com"},
			{Name: "Subject", Value: "Status update"},
		},
	}

	if got := headerValue(payload, "From"); got != "alice@example.com" {
		t.Fatalf("From = %q", got)
	}
	if got := headerValue(payload, "subject"); got != "Status update" {
		t.Fatalf("Subject = %q", got)
	}
}

func TestSummarizePromptCarriesEmail(t *testing.T) {
	summarizer := &stubSummarizer{}
	client := NewClient("", summarizer)

	email := Email{From: "alice@example.com", Subject: "Q3 numbers", Snippet: "Revenue is up."}
	if _, err := client.Summarize(context.Background(), email); err != nil {
		t.Fatalf("Summarize err: %v", err)
	}

	prompt := summarizer.prompts[0]
	for _, want := range []string{"alice@example.com", "Q3 numbers", "Revenue is up."} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestDraftReplyPromptCarriesInstructions(t *testing.T) {
	summarizer := &stubSummarizer{}
	client := NewClient("", summarizer)

	email := Email{Subject: "Meeting", Body: "Can we move to Friday?"}
	if _, err := client.DraftReply(context.Background(), email, "accept and propose 2pm"); err != nil {
		t.Fatalf("DraftReply err: %v", err)
	}

	prompt := summarizer.prompts[0]
	for _, want := range []string{"Meeting", "Can we move to Friday?", "accept and propose 2pm"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
}
