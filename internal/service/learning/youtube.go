// Package learning extracts lessons from YouTube videos: it pulls the
// transcript, summarizes it, and persists the result as a learning note.
package learning

import (
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Batoli19/cavista/internal/model/project"
	svc "github.com/Batoli19/cavista/internal/service/dialog"
	"github.com/Batoli19/cavista/internal/store"
)

const transcriptEndpoint = "https://video.google.com/timedtext"

var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`youtu\.be/([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`[?&]v=([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/embed/([A-Za-z0-9_-]{11})`),
}

// Summarizer condenses a transcript into lessons.
type Summarizer interface {
	GenerateText(ctx context.Context, prompt string) string
}

// Service implements YouTube learning over the transcript endpoint.
type Service struct {
	client     *http.Client
	summarizer Summarizer
	notes      *store.LearningRepository
}

// New creates the learning service. notes may be nil to skip persistence.
func New(summarizer Summarizer, notes *store.LearningRepository) *Service {
	return &Service{
		client:     &http.Client{Timeout: 15 * time.Second},
		summarizer: summarizer,
		notes:      notes,
	}
}

// LearnFromYouTube extracts the video from the request text, fetches its
// transcript, and produces a lesson.
func (s *Service) LearnFromYouTube(ctx context.Context, text string) (*svc.Lesson, error) {
	videoID := extractVideoID(text)
	if videoID == "" {
		return nil, fmt.Errorf("no YouTube link found; paste the full video URL")
	}

	transcript, err := s.fetchTranscript(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("transcript unavailable for this video")
	}

	summary := transcript
	if s.summarizer != nil {
		summary = s.summarizer.GenerateText(ctx,
			"Summarize this video transcript into three short lessons, one per line starting with '-'.\n\n"+transcript)
	}

	lesson := &svc.Lesson{
		Title:    "YouTube video " + videoID,
		Summary:  firstLine(summary),
		Insights: bulletLines(summary),
	}

	if s.notes != nil {
		note := &project.LearningNote{
			ID:        uuid.NewString(),
			Source:    "https://www.youtube.com/watch?v=" + videoID,
			Title:     lesson.Title,
			Summary:   lesson.Summary,
			Insights:  lesson.Insights,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.notes.Save(note); err != nil {
			log.Printf("[learning] failed to save note for %s: %v", videoID, err)
		}
	}
	return lesson, nil
}

func extractVideoID(text string) string {
	for _, p := range videoIDPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return ""
}

type transcriptXML struct {
	Texts []struct {
		Value string `xml:",chardata"`
	} `xml:"text"`
}

func (s *Service) fetchTranscript(ctx context.Context, videoID string) (string, error) {
	params := url.Values{"lang": {"en"}, "v": {videoID}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, transcriptEndpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("transcript endpoint returned status %d", resp.StatusCode)
	}

	var parsed transcriptXML
	if err := xml.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}

	var parts []string
	for _, t := range parsed.Texts {
		if line := strings.TrimSpace(html.UnescapeString(t.Value)); line != "" {
			parts = append(parts, line)
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("empty transcript")
	}

	transcript := strings.Join(parts, " ")
	// Keep the summarization prompt bounded.
	if len(transcript) > 8000 {
		transcript = transcript[:8000]
	}
	return transcript, nil
}

func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "-"))
		if line != "" {
			return line
		}
	}
	return "No summary available."
}

func bulletLines(text string) []string {
	var insights []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "-") {
			if cleaned := strings.TrimSpace(strings.TrimPrefix(line, "-")); cleaned != "" {
				insights = append(insights, cleaned)
			}
		}
	}
	return insights
}
