package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/api/handlers"
	custommiddleware "github.com/ndewijer/Fund-Position-Manager-Backend/internal/api/middleware"
	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/config"
	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/service"
)

// Services groups the services the HTTP layer delegates to.
type Services struct {
	System    *service.SystemService
	Holding   *service.HoldingService
	Fund      *service.FundService
	Portfolio *service.PortfolioService
	Position  *service.PositionService
	Dashboard *service.DashboardService
}

// NewRouter creates and configures the HTTP router
func NewRouter(services Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(services.System)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/holdings", func(r chi.Router) {
			holdingHandler := handlers.NewHoldingHandler(services.Holding)
			r.Get("/", holdingHandler.Holdings)
			r.Post("/", holdingHandler.CreateHolding)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", holdingHandler.GetHolding)
				r.Put("/", holdingHandler.UpdateHolding)
				r.Delete("/", holdingHandler.DeleteHolding)
				r.Post("/snapshot", holdingHandler.UpdateSnapshot)
				r.Get("/changelog", holdingHandler.ChangeLog)
			})
		})

		r.Route("/funds/{code}", func(r chi.Router) {
			fundHandler := handlers.NewFundHandler(services.Fund)
			r.Get("/", fundHandler.GetFund)
			r.Put("/", fundHandler.UpdateFund)
			r.Get("/navs", fundHandler.NavHistory)
			r.Get("/allocations", fundHandler.Allocations)
			r.Get("/top-holdings", fundHandler.TopHoldings)

			// Bulk data entry is restricted to trusted importers
			r.Group(func(r chi.Router) {
				r.Use(custommiddleware.APIKeyMiddleware)
				r.Post("/navs", fundHandler.ImportNavs)
				r.Put("/allocations", fundHandler.OverrideAllocations)
				r.Put("/top-holdings", fundHandler.ReplaceTopHoldings)
			})
		})

		r.Route("/portfolio", func(r chi.Router) {
			portfolioHandler := handlers.NewPortfolioHandler(services.Portfolio)
			r.Get("/summary", portfolioHandler.Summary)
			r.Get("/platforms", portfolioHandler.Platforms)
			r.Get("/allocation/{dimension}", portfolioHandler.Allocation)
			r.Get("/snapshots", portfolioHandler.Snapshots)
			r.Post("/snapshots", portfolioHandler.TakeSnapshot)
		})

		r.Route("/position", func(r chi.Router) {
			positionHandler := handlers.NewPositionHandler(services.Position)
			r.Get("/budget", positionHandler.Budget)
			r.Put("/budget", positionHandler.UpdateBudget)
			r.Get("/budget/changelog", positionHandler.BudgetChangeLog)
			r.Get("/strategies", positionHandler.Strategies)
			r.Get("/strategy-config/{name}", positionHandler.StrategyConfig)
			r.Put("/strategy-config/{name}", positionHandler.UpdateStrategyConfig)
			r.Put("/active-strategy", positionHandler.SetActiveStrategy)
			r.Get("/suggestion", positionHandler.Suggestion)
			r.Get("/context", positionHandler.Context)
		})

		r.Route("/dashboard", func(r chi.Router) {
			dashboardHandler := handlers.NewDashboardHandler(services.Dashboard)
			r.Get("/reminders", dashboardHandler.Reminders)
		})
	})

	return r
}
