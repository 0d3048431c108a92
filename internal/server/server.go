// Package server is the HTTP dispatch layer: routing, identity resolution,
// request validation and status-code mapping over the entity store and the
// agent orchestrator.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"gitlab.com/timkado/api/daisi-sdr-service/internal/agents"
	"gitlab.com/timkado/api/daisi-sdr-service/internal/auth"
	"gitlab.com/timkado/api/daisi-sdr-service/internal/config"
	"gitlab.com/timkado/api/daisi-sdr-service/internal/storage"
	"gitlab.com/timkado/api/daisi-sdr-service/internal/worker"
	"gitlab.com/timkado/api/daisi-sdr-service/pkg/logger"
)

// Server owns the API router and its collaborators.
type Server struct {
	cfg     *config.Config
	repo    storage.Repository
	agents  *agents.Service
	actions worker.IActionWorker
	auth    auth.Provider

	// seenUsers caches user IDs already upserted by this process so the
	// auth middleware hits the users table once per user, not per request.
	seenUsers sync.Map

	httpServer *http.Server
}

// NewServer assembles the router and returns a server ready to start.
func NewServer(cfg *config.Config, repo storage.Repository, agentSvc *agents.Service, actions worker.IActionWorker, authProvider auth.Provider) *Server {
	s := &Server{
		cfg:     cfg,
		repo:    repo,
		agents:  agentSvc,
		actions: actions,
		auth:    authProvider,
	}

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           s.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) router() chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(requestIDToContext)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(s.cfg.Server.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(metricsMiddleware)

	r.Route("/api", func(api chi.Router) {
		api.Use(s.authMiddleware)

		api.Get("/auth/user", s.handleGetCurrentUser)

		api.Route("/leads", func(rt chi.Router) {
			rt.Get("/", s.handleListLeads)
			rt.Post("/", s.handleCreateLead)
			rt.Route("/{leadID}", func(rt chi.Router) {
				rt.Get("/", s.handleGetLead)
				rt.Patch("/", s.handleUpdateLead)
				rt.Delete("/", s.handleDeleteLead)

				rt.Get("/activities", s.handleListActivities)
				rt.Post("/activities", s.handleCreateActivity)
				rt.Get("/tasks", s.handleListTasks)
				rt.Post("/tasks", s.handleCreateTask)
				rt.Get("/deals", s.handleListDeals)
				rt.Post("/deals", s.handleCreateDeal)
			})
		})

		api.Patch("/tasks/{taskID}", s.handleUpdateTask)
		api.Delete("/tasks/{taskID}", s.handleDeleteTask)

		// Deals have no delete route; won opportunities stay on record.
		api.Patch("/deals/{dealID}", s.handleUpdateDeal)

		api.Route("/campaigns", func(rt chi.Router) {
			rt.Get("/", s.handleListCampaigns)
			rt.Post("/", s.handleCreateCampaign)
			rt.Get("/{campaignID}", s.handleGetCampaign)
			rt.Patch("/{campaignID}", s.handleUpdateCampaign)
			rt.Delete("/{campaignID}", s.handleDeleteCampaign)
		})

		api.Route("/knowledge", func(rt chi.Router) {
			rt.Get("/", s.handleListKnowledge)
			rt.Post("/", s.handleCreateKnowledge)
			rt.Get("/{documentID}", s.handleGetKnowledge)
			rt.Patch("/{documentID}", s.handleUpdateKnowledge)
			rt.Delete("/{documentID}", s.handleDeleteKnowledge)
		})

		api.Route("/agents", func(rt chi.Router) {
			rt.Get("/", s.handleListAgentConfigs)

			rt.Post("/hunter/analyze/{leadID}", s.handleAnalyzeLead)
			rt.Post("/scribe/outreach/{leadID}", s.handleGenerateOutreach)
			rt.Post("/oracle/analyze-pipeline", s.handleAnalyzePipeline)

			rt.Route("/{agentName}", func(rt chi.Router) {
				rt.Patch("/", s.handleUpdateAgentConfig)
				rt.Get("/messages", s.handleGetAgentMessages)
				rt.Delete("/messages", s.handleClearAgentMessages)
				rt.Post("/chat", s.handleAgentChat)
				rt.Get("/actions", s.handleGetAgentActions)
			})
		})
	})

	return r
}

// Start begins serving and blocks until the listener closes.
func (s *Server) Start() error {
	logger.Log.Info("HTTP server listening", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Log.Info("Shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
