package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Batoli19/cavista/internal/handler/command"
	speechHandler "github.com/Batoli19/cavista/internal/handler/speech"
	middlewarePkg "github.com/Batoli19/cavista/internal/middleware"
	dialogService "github.com/Batoli19/cavista/internal/service/dialog"
	"github.com/Batoli19/cavista/internal/service/export"
	speechService "github.com/Batoli19/cavista/internal/service/speech"
)

// NewRouter wires HTTP routes to core services. aiProviders carries provider
// key status for the health report.
func NewRouter(orchestrator *dialogService.Orchestrator, exports *export.Service, speechQueue *speechService.Queue, aiProviders map[string]string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	commandHandler := command.New(orchestrator, exports, aiProviders)
	commandHandler.RegisterRoutes(r)

	if speechQueue != nil {
		speechHandler.New(speechQueue).RegisterRoutes(r)
	}

	return r
}
