package cli

import (
	"context"
	"log"
	"time"

	"github.com/Batoli19/cavista/internal/config"
	aiService "github.com/Batoli19/cavista/internal/service/ai"
	dialogService "github.com/Batoli19/cavista/internal/service/dialog"
	"github.com/Batoli19/cavista/internal/service/export"
	"github.com/Batoli19/cavista/internal/service/gmail"
	"github.com/Batoli19/cavista/internal/service/learning"
	"github.com/Batoli19/cavista/internal/service/osaction"
	"github.com/Batoli19/cavista/internal/service/planner"
	projectService "github.com/Batoli19/cavista/internal/service/project"
	"github.com/Batoli19/cavista/internal/service/research"
	speechService "github.com/Batoli19/cavista/internal/service/speech"
	"github.com/Batoli19/cavista/internal/store"
)

// app holds the wired service graph shared by serve and chat.
type app struct {
	orchestrator *dialogService.Orchestrator
	exports      *export.Service
	speechQueue  *speechService.Queue
	aiStatus     map[string]string
	db           *store.DB
}

func buildApp(ctx context.Context, cfg *config.Config) (*app, error) {
	db, err := store.Open(cfg.Assistant.DatabasePath)
	if err != nil {
		return nil, err
	}

	ai := buildAIService(ctx, cfg)
	exports := export.NewService(cfg.Assistant.GeneratedDir)
	researcher := research.NewWikipediaResearcher(time.Duration(cfg.Assistant.ResearchTimeout) * time.Second)
	projects := projectService.NewEngine(store.NewProjectRepository(db), ai)
	queue := speechService.NewQueue()

	orchestrator := dialogService.New(dialogService.Deps{
		Sessions:   dialogService.NewMemoryStore(),
		Builder:    dialogService.NewBuilder(cfg.Assistant.Verbosity),
		AI:         ai,
		Research:   researcher,
		Exports:    exports,
		Projects:   projects,
		Planner:    planner.New(researcher, projects),
		OSActions:  osaction.New(),
		Gmail:      gmail.NewClient("credentials.json", ai),
		Learner:    learning.New(ai, store.NewLearningRepository(db)),
		Speaker:    queue,
	})

	return &app{
		orchestrator: orchestrator,
		exports:      exports,
		speechQueue:  queue,
		aiStatus:     providerStatus(cfg),
		db:           db,
	}, nil
}

// providerStatus reports AI key presence for the health endpoint.
func providerStatus(cfg *config.Config) map[string]string {
	status := func(ok bool) string {
		if ok {
			return "ok"
		}
		return "fail"
	}
	return map[string]string{
		"ark":    status(cfg.AI.Enabled()),
		"gemini": status(cfg.Gemini.Enabled()),
	}
}

func (a *app) close() {
	if a.db != nil {
		a.db.Close()
	}
}

// buildAIService assembles the provider order: Ark first, Gemini as
// fallback, then the local canned provider that never fails.
func buildAIService(ctx context.Context, cfg *config.Config) *aiService.Service {
	var providers []aiService.Provider

	if cfg.AI.Enabled() {
		ark, err := aiService.NewArkProvider(ctx, cfg.AI)
		if err != nil {
			log.Printf("warning: failed to initialize Ark provider: %v", err)
		} else {
			providers = append(providers, ark)
			log.Println("Ark provider initialized")
		}
	} else {
		log.Println("Ark credentials not configured, skipping primary provider")
	}

	var vision *aiService.GeminiProvider
	if cfg.Gemini.Enabled() {
		gemini, err := aiService.NewGeminiProvider(ctx, cfg.Gemini)
		if err != nil {
			log.Printf("warning: failed to initialize Gemini provider: %v", err)
		} else {
			providers = append(providers, gemini)
			vision = gemini
			log.Println("Gemini provider initialized")
		}
	} else {
		log.Println("Gemini key not configured, skipping fallback provider and vision")
	}

	providers = append(providers, aiService.LocalProvider{})
	return aiService.NewService(providers, vision, time.Duration(cfg.Assistant.CacheTTL)*time.Second)
}
