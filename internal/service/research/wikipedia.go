// Package research gathers web sources and visual evidence for a topic.
// Wikipedia is the default provider; results carry a machine-readable reason
// so the dialogue layer can ask a precise follow-up instead of guessing.
package research

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	svc "github.com/Batoli19/cavista/internal/service/dialog"

	dialog "github.com/Batoli19/cavista/internal/model/dialog"
)

const searchEndpoint = "https://en.wikipedia.org/w/api.php"

// Meta reason codes surfaced to the dialogue layer.
const (
	ReasonOK                 = "ok"
	ReasonEmptyQuery         = "empty_query"
	ReasonProviderFailure    = "provider_failure"
	ReasonUnclearQuery       = "unclear_query"
	ReasonInsufficientSource = "insufficient_sources"
	ReasonNoReliableVisuals  = "no_reliable_visuals"
)

// visual relevance vocabulary: page images named like branding assets are
// rejected, images whose title or page suggests data are allowed.
var (
	rejectVisualWords = []string{"logo", "icon", "wordmark", "seal", "symbol", "favicon", "flag"}
	allowVisualWords  = []string{
		"chart", "graph", "trend", "rate", "statistics", "report",
		"clinical", "outcome", "comparison", "timeline", "breakdown", "data",
	}
)

// WikipediaResearcher queries the MediaWiki API for search hits, extracts,
// and lead images.
type WikipediaResearcher struct {
	client *http.Client
}

// NewWikipediaResearcher builds a researcher with the given request timeout.
func NewWikipediaResearcher(timeout time.Duration) *WikipediaResearcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &WikipediaResearcher{client: &http.Client{Timeout: timeout}}
}

// Research returns up to limit sources for the topic. It never returns nil;
// failures are encoded in Meta.Reason so callers always get a usable result.
func (r *WikipediaResearcher) Research(ctx context.Context, topic string, limit int, wantEvidence bool) *svc.ResearchResult {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return &svc.ResearchResult{Meta: svc.ResearchMeta{Reason: ReasonEmptyQuery, NeedsClarification: true}}
	}
	if limit <= 0 {
		limit = 6
	}

	titles, err := r.searchTitles(ctx, topic, limit)
	if err != nil {
		log.Printf("[research] search failed for %q: %v", topic, err)
		return &svc.ResearchResult{Meta: svc.ResearchMeta{Reason: ReasonProviderFailure, NeedsClarification: true}}
	}
	if len(titles) == 0 {
		return &svc.ResearchResult{Meta: svc.ResearchMeta{Reason: ReasonUnclearQuery, NeedsClarification: true}}
	}

	pages, err := r.fetchPages(ctx, titles)
	if err != nil {
		log.Printf("[research] page fetch failed for %q: %v", topic, err)
		return &svc.ResearchResult{Meta: svc.ResearchMeta{Reason: ReasonProviderFailure, NeedsClarification: true}}
	}

	result := &svc.ResearchResult{Meta: svc.ResearchMeta{Reason: ReasonOK}}
	var summaryParts []string
	for _, p := range pages {
		summary := firstSentences(p.Extract, 2)
		result.Raw = append(result.Raw, svc.ResearchRow{
			Title:     p.Title,
			Summary:   summary,
			SourceURL: p.FullURL,
			ImageURL:  p.ImageURL,
		})
		result.Sources = append(result.Sources, dialog.Source{
			Title:  p.Title,
			URL:    p.FullURL,
			Domain: "wikipedia.org",
			Note:   noteFor(p.Title, topic),
		})
		if len(summaryParts) < 3 && summary != "" {
			summaryParts = append(summaryParts, summary)
		}
	}
	result.Summary = strings.Join(summaryParts, " ")

	if len(result.Sources) < 3 {
		result.Meta.Reason = ReasonInsufficientSource
		result.Meta.NeedsClarification = true
		return result
	}

	if wantEvidence {
		result.Evidence = collectEvidence(pages)
		if len(result.Evidence) == 0 {
			result.Meta.Reason = ReasonNoReliableVisuals
			result.Meta.NoReliableVisuals = true
		}
	}
	return result
}

type page struct {
	Title    string
	Extract  string
	FullURL  string
	ImageURL string
}

func (r *WikipediaResearcher) searchTitles(ctx context.Context, topic string, limit int) ([]string, error) {
	params := url.Values{
		"action":   {"query"},
		"list":     {"search"},
		"srsearch": {topic},
		"srlimit":  {fmt.Sprint(limit)},
		"format":   {"json"},
	}

	var payload struct {
		Query struct {
			Search []struct {
				Title string `json:"title"`
			} `json:"search"`
		} `json:"query"`
	}
	if err := r.get(ctx, params, &payload); err != nil {
		return nil, err
	}

	titles := make([]string, 0, len(payload.Query.Search))
	for _, hit := range payload.Query.Search {
		titles = append(titles, hit.Title)
	}
	return titles, nil
}

func (r *WikipediaResearcher) fetchPages(ctx context.Context, titles []string) ([]page, error) {
	params := url.Values{
		"action":      {"query"},
		"prop":        {"extracts|pageimages|info"},
		"titles":      {strings.Join(titles, "|")},
		"exintro":     {"1"},
		"explaintext": {"1"},
		"piprop":      {"original"},
		"inprop":      {"url"},
		"format":      {"json"},
	}

	var payload struct {
		Query struct {
			Pages map[string]struct {
				Title    string `json:"title"`
				Extract  string `json:"extract"`
				FullURL  string `json:"fullurl"`
				Original *struct {
					Source string `json:"source"`
				} `json:"original"`
			} `json:"pages"`
		} `json:"query"`
	}
	if err := r.get(ctx, params, &payload); err != nil {
		return nil, err
	}

	// Preserve search ranking; the pages map is unordered.
	byTitle := make(map[string]page, len(payload.Query.Pages))
	for _, p := range payload.Query.Pages {
		entry := page{Title: p.Title, Extract: p.Extract, FullURL: p.FullURL}
		if p.Original != nil {
			entry.ImageURL = p.Original.Source
		}
		byTitle[p.Title] = entry
	}

	pages := make([]page, 0, len(titles))
	for _, title := range titles {
		if p, ok := byTitle[title]; ok {
			pages = append(pages, p)
		}
	}
	return pages, nil
}

func (r *WikipediaResearcher) get(ctx context.Context, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchEndpoint+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "cavista-research/1.0")

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("wikipedia returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// collectEvidence keeps images that plausibly show data rather than branding.
func collectEvidence(pages []page) []dialog.Evidence {
	var evidence []dialog.Evidence
	for _, p := range pages {
		if p.ImageURL == "" {
			continue
		}
		if !visualLooksRelevant(p.ImageURL, p.Title, p.Extract) {
			continue
		}
		evidence = append(evidence, dialog.Evidence{
			Type:    "image",
			Title:   p.Title,
			Caption: firstSentences(p.Extract, 1),
			URL:     p.ImageURL,
			Source:  p.FullURL,
		})
		if len(evidence) == 3 {
			break
		}
	}
	return evidence
}

func visualLooksRelevant(imageURL, title, extract string) bool {
	name := strings.ToLower(imageURL)
	for _, word := range rejectVisualWords {
		if strings.Contains(name, word) {
			return false
		}
	}
	haystack := name + " " + strings.ToLower(title) + " " + strings.ToLower(extract)
	for _, word := range allowVisualWords {
		if strings.Contains(haystack, word) {
			return true
		}
	}
	return false
}

func noteFor(title, topic string) string {
	if strings.Contains(strings.ToLower(title), strings.ToLower(topic)) {
		return "primary overview"
	}
	return "supporting context"
}

func firstSentences(text string, n int) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	count := 0
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			count++
			if count == n {
				return strings.TrimSpace(text[:i+1])
			}
		}
	}
	return text
}
