package handlers

import (
	"net/http"

	"github.com/findosh/fundsim/internal/middleware"
)

// Routes registers every endpoint and wraps them in the global middleware
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	auth := middleware.NewSessions(h.sessions)
	protected := func(fn http.HandlerFunc) http.Handler {
		return auth.RequireSession(fn)
	}

	// Public routes
	mux.HandleFunc("GET /healthz", h.Health)
	mux.HandleFunc("GET /api/funds", h.ListFunds)
	mux.HandleFunc("GET /api/funds/{id}", h.GetFund)
	mux.HandleFunc("GET /api/fund-types", h.FundTypes)
	mux.HandleFunc("POST /api/session", h.CreateSession)

	// Session routes
	mux.Handle("GET /api/portfolio", protected(h.GetPortfolio))
	mux.Handle("GET /api/portfolio/metrics", protected(h.GetMetrics))
	mux.Handle("POST /api/portfolio/funds", protected(h.AddFund))
	mux.Handle("PUT /api/portfolio/funds/{id}", protected(h.UpdateAllocation))
	mux.Handle("DELETE /api/portfolio/funds/{id}", protected(h.RemoveFund))
	mux.Handle("PUT /api/portfolio/investment", protected(h.SetInvestment))
	mux.Handle("POST /api/portfolio/reset", protected(h.ResetPortfolio))
	mux.Handle("GET /api/portfolio/report", protected(h.Report))
	mux.Handle("GET /api/portfolio/projection.png", protected(h.ProjectionChart))

	limiter := middleware.NewRateLimiter(h.cfg.RateLimit, h.cfg.RateBurst)

	return middleware.Chain(
		mux,
		middleware.Recover,
		middleware.RequestID,
		middleware.SecurityHeaders,
		middleware.Logger,
		limiter.Middleware,
	)
}
