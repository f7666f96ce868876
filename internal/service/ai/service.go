package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	dialog "github.com/Batoli19/cavista/internal/model/dialog"
	"github.com/Batoli19/cavista/internal/model/project"
)

// Service walks an ordered provider list and caches successful answers.
// Identical prompts issued concurrently share one upstream call.
type Service struct {
	providers []Provider
	vision    *GeminiProvider

	cacheTTL time.Duration
	group    singleflight.Group

	mu    sync.RWMutex
	cache map[string]cacheEntry
}

type cacheEntry struct {
	text    string
	expires time.Time
}

// NewService builds the service over the given provider order. vision may be
// nil when no Gemini key is configured.
func NewService(providers []Provider, vision *GeminiProvider, cacheTTL time.Duration) *Service {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &Service{
		providers: providers,
		vision:    vision,
		cacheTTL:  cacheTTL,
		cache:     make(map[string]cacheEntry),
	}
}

// GenerateText returns an answer for the prompt. It never fails from the
// caller's perspective; with every provider down the local fallback answers.
func (s *Service) GenerateText(ctx context.Context, prompt string) string {
	if text, ok := s.cached(prompt); ok {
		return text
	}

	result, err, _ := s.group.Do(prompt, func() (any, error) {
		return s.generate(ctx, prompt), nil
	})
	if err != nil {
		return fallbackText(ctx, prompt)
	}

	text := result.(string)
	s.store(prompt, text)
	return text
}

func (s *Service) generate(ctx context.Context, prompt string) string {
	for _, p := range s.providers {
		text, err := p.Generate(ctx, prompt)
		if err == nil && text != "" {
			return text
		}
		if isRateLimited(err) {
			// One short backoff before giving this provider up for the turn.
			select {
			case <-time.After(2 * time.Second):
			case <-ctx.Done():
				return fallbackText(ctx, prompt)
			}
			if text, err = p.Generate(ctx, prompt); err == nil && text != "" {
				return text
			}
		}
		log.Printf("[ai] provider %s failed: %v", p.Name(), err)
	}
	return fallbackText(ctx, prompt)
}

// GenerateVision answers a prompt grounded on attached images.
func (s *Service) GenerateVision(ctx context.Context, prompt string, files []dialog.FileRef) string {
	if s.vision == nil {
		return "I received the images, but no vision model is configured."
	}
	text, err := s.vision.GenerateVision(ctx, prompt, files)
	if err != nil {
		log.Printf("[ai] vision failed: %v", err)
		return "I could not analyze the images right now. Please retry in a moment."
	}
	return text
}

// GeneratePlan asks the model for a task breakdown and falls back to a
// generic plan when no provider can produce parseable JSON.
func (s *Service) GeneratePlan(ctx context.Context, p *project.Project) ([]project.Task, error) {
	prompt := planPrompt(p)
	for _, provider := range s.providers {
		raw, err := provider.Generate(ctx, prompt)
		if err != nil || raw == "" {
			continue
		}
		tasks, err := parsePlanJSON(p.ID, raw)
		if err != nil {
			log.Printf("[ai] provider %s returned unparseable plan: %v", provider.Name(), err)
			continue
		}
		return tasks, nil
	}
	return basicPlan(p), nil
}

func (s *Service) cached(prompt string) (string, bool) {
	s.mu.RLock()
	entry, ok := s.cache[prompt]
	s.mu.RUnlock()
	if !ok || time.Now().After(entry.expires) {
		return "", false
	}
	return entry.text, true
}

func (s *Service) store(prompt, text string) {
	s.mu.Lock()
	s.cache[prompt] = cacheEntry{text: text, expires: time.Now().Add(s.cacheTTL)}
	s.mu.Unlock()
}

func isRateLimited(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), ErrRateLimited.Error()) || isRateLimitError(err)
}

func fallbackText(ctx context.Context, prompt string) string {
	text, _ := LocalProvider{}.Generate(ctx, prompt)
	return text
}

func planPrompt(p *project.Project) string {
	var b strings.Builder
	b.WriteString("Create a work breakdown for the project below.\n")
	b.WriteString("Respond with ONLY a JSON array, no prose, of objects with fields:\n")
	b.WriteString(`name (string), duration_days (int), depends_on (string, "" for none), priority (high|medium|low), role (string).` + "\n")
	b.WriteString("Six to nine tasks in execution order.\n\n")
	fmt.Fprintf(&b, "Project: %s\n", p.Name)
	if p.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", p.Description)
	}
	return b.String()
}

type planTask struct {
	Name         string `json:"name"`
	DurationDays int    `json:"duration_days"`
	DependsOn    string `json:"depends_on"`
	Priority     string `json:"priority"`
	Role         string `json:"role"`
}

func parsePlanJSON(projectID, raw string) ([]project.Task, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON array in plan output")
	}

	var parsed []planTask
	if err := json.Unmarshal([]byte(raw[start:end+1]), &parsed); err != nil {
		return nil, fmt.Errorf("invalid plan JSON: %w", err)
	}
	if len(parsed) == 0 {
		return nil, fmt.Errorf("empty plan")
	}

	tasks := make([]project.Task, 0, len(parsed))
	for i, t := range parsed {
		name := strings.TrimSpace(t.Name)
		if name == "" {
			continue
		}
		duration := t.DurationDays
		if duration < 1 {
			duration = 1
		}
		priority := strings.ToLower(strings.TrimSpace(t.Priority))
		switch priority {
		case "high", "medium", "low":
		default:
			priority = "medium"
		}
		tasks = append(tasks, project.Task{
			ID:           fmt.Sprintf("t%d", i+1),
			ProjectID:    projectID,
			Name:         name,
			DurationDays: duration,
			DependsOn:    strings.TrimSpace(t.DependsOn),
			Priority:     priority,
			Role:         strings.TrimSpace(t.Role),
			Status:       project.StatusTodo,
			Position:     i + 1,
		})
	}
	if len(tasks) == 0 {
		return nil, fmt.Errorf("plan had no usable tasks")
	}
	return tasks, nil
}

// basicPlan is the provider-free breakdown used when no model is reachable.
func basicPlan(p *project.Project) []project.Task {
	names := []struct {
		name     string
		days     int
		priority string
		role     string
	}{
		{"Define scope and success criteria", 1, "high", "lead"},
		{"Gather requirements and constraints", 2, "high", "analyst"},
		{"Draft the workflow design", 2, "medium", "designer"},
		{"Build the first working version", 4, "high", "builder"},
		{"Review and test with stakeholders", 2, "medium", "reviewer"},
		{"Finalize and hand over", 1, "medium", "lead"},
	}
	tasks := make([]project.Task, 0, len(names))
	prev := ""
	for i, n := range names {
		id := fmt.Sprintf("t%d", i+1)
		tasks = append(tasks, project.Task{
			ID:           id,
			ProjectID:    p.ID,
			Name:         n.name,
			DurationDays: n.days,
			DependsOn:    prev,
			Priority:     n.priority,
			Role:         n.role,
			Status:       project.StatusTodo,
			Position:     i + 1,
		})
		prev = id
	}
	return tasks
}
