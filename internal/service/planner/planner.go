// Package planner combines web research with plan generation: one request
// produces a researched project with tasks, sources, and evidence.
package planner

import (
	"context"
	"fmt"
	"log"
	"strings"

	dialog "github.com/Batoli19/cavista/internal/model/dialog"
	"github.com/Batoli19/cavista/internal/model/project"
	svc "github.com/Batoli19/cavista/internal/service/dialog"
)

// Planner wires the researcher and project engine together.
type Planner struct {
	research svc.Researcher
	projects svc.Projects
}

// New creates a planner over the given collaborators.
func New(research svc.Researcher, projects svc.Projects) *Planner {
	return &Planner{research: research, projects: projects}
}

// PlanFromWebRequest researches the request's topic, creates a project for
// it, and generates a grounded task plan.
func (p *Planner) PlanFromWebRequest(ctx context.Context, text string) (*svc.PlanResult, error) {
	topic := extractPlanTopic(text)

	var (
		sources  []dialog.Source
		evidence []dialog.Evidence
		summary  string
	)
	if p.research != nil {
		result := p.research.Research(ctx, topic, 5, true)
		sources = result.Sources
		evidence = result.Evidence
		summary = result.Summary
		if result.Meta.Reason != "ok" {
			log.Printf("[planner] research degraded for %q: %s", topic, result.Meta.Reason)
		}
	}

	name := titleWords(topic) + " Workflow"
	proj, err := p.projects.Create(ctx, name, summary)
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	tasks, err := p.projects.GeneratePlan(ctx, proj)
	if err != nil {
		return nil, fmt.Errorf("generate plan: %w", err)
	}
	if err := p.projects.SaveTasks(ctx, proj.ID, tasks); err != nil {
		return nil, fmt.Errorf("save tasks: %w", err)
	}

	return &svc.PlanResult{
		Project:  proj,
		Topic:    topic,
		Summary:  summary,
		Tasks:    tasks,
		Phases:   phaseSections(tasks),
		Sources:  sources,
		Evidence: evidence,
	}, nil
}

// filler words stripped when deriving the research topic from a plan request.
var planStopwords = map[string]bool{
	"create": true, "make": true, "build": true, "generate": true,
	"a": true, "an": true, "the": true, "work": true, "plan": true,
	"workflow": true, "project": true, "for": true, "with": true,
	"web": true, "research": true, "using": true, "and": true,
	"me": true, "my": true, "please": true, "compliance": true,
}

func extractPlanTopic(text string) string {
	var kept []string
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,!?")
		if word == "" || planStopwords[word] {
			continue
		}
		kept = append(kept, word)
	}
	if len(kept) == 0 {
		return "business workflow"
	}
	if len(kept) > 6 {
		kept = kept[:6]
	}
	return strings.Join(kept, " ")
}

func phaseSections(tasks []project.Task) []dialog.Section {
	if len(tasks) == 0 {
		return nil
	}
	var chunks [][]project.Task
	switch {
	case len(tasks) > 6:
		chunks = [][]project.Task{tasks[:3], tasks[3:6], tasks[6:]}
	case len(tasks) > 3:
		chunks = [][]project.Task{tasks[:3], tasks[3:]}
	default:
		chunks = [][]project.Task{tasks}
	}

	sections := make([]dialog.Section, 0, len(chunks))
	for i, group := range chunks {
		items := make([]string, 0, len(group))
		for _, t := range group {
			items = append(items, fmt.Sprintf("%s (%d day)", t.Name, t.DurationDays))
		}
		sections = append(sections, dialog.Section{
			Title: fmt.Sprintf("Phase %d", i+1),
			Items: items,
		})
	}
	return sections
}

func titleWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
