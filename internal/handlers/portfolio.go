package handlers

import (
	"net/http"
	"time"

	"github.com/findosh/fundsim/internal/middleware"
	"github.com/findosh/fundsim/internal/models"
	"github.com/findosh/fundsim/internal/report"
	"github.com/findosh/fundsim/internal/services/session"
	"github.com/phuslu/log"
)

type entryResponse struct {
	Fund       fundResponse `json:"fund"`
	Allocation Number       `json:"allocation"`
}

type weightResponse struct {
	FundID     string `json:"fund_id"`
	Name       string `json:"name"`
	Allocation Number `json:"allocation"`
	Weight     Number `json:"weight"`
	Amount     Number `json:"amount"`
}

type projectionResponse struct {
	Years       int    `json:"years"`
	Optimistic  Number `json:"optimistic"`
	Pessimistic Number `json:"pessimistic"`
}

type metricsResponse struct {
	TotalAllocation     Number               `json:"total_allocation"`
	AllocationStatus    string               `json:"allocation_status"`
	TotalInvestment     Number               `json:"total_investment"`
	ExpectedReturn      Number               `json:"expected_return"`
	Volatility          Number               `json:"volatility"`
	RiskLevel           string               `json:"risk_level"`
	MaxDrawdownEstimate Number               `json:"max_drawdown_estimate"`
	Weights             []weightResponse     `json:"weights"`
	Projections         []projectionResponse `json:"projections"`
	Advisories          []models.Advisory    `json:"advisories"`
}

type portfolioResponse struct {
	Entries         []entryResponse `json:"entries"`
	TotalInvestment Number          `json:"total_investment"`
	Currency        string          `json:"currency"`
	Metrics         metricsResponse `json:"metrics"`
}

func newMetricsResponse(m *models.DerivedMetrics) metricsResponse {
	resp := metricsResponse{
		TotalAllocation:     Number(m.TotalAllocation),
		AllocationStatus:    string(m.AllocationStatus),
		TotalInvestment:     Number(m.TotalInvestment),
		ExpectedReturn:      Number(m.ExpectedReturn),
		Volatility:          Number(m.Volatility),
		RiskLevel:           string(report.RiskLevelOf(m.Volatility)),
		MaxDrawdownEstimate: Number(m.MaxDrawdownEstimate),
		Weights:             make([]weightResponse, 0, len(m.Weights)),
		Projections:         make([]projectionResponse, 0, len(m.Projections)),
		Advisories:          m.Advisories,
	}
	if resp.Advisories == nil {
		resp.Advisories = []models.Advisory{}
	}
	for _, fw := range m.Weights {
		resp.Weights = append(resp.Weights, weightResponse{
			FundID:     fw.FundID,
			Name:       fw.Name,
			Allocation: Number(fw.Allocation),
			Weight:     Number(fw.Weight),
			Amount:     Number(fw.Amount),
		})
	}
	for _, p := range m.Projections {
		resp.Projections = append(resp.Projections, projectionResponse{
			Years:       p.Years,
			Optimistic:  Number(p.Optimistic),
			Pessimistic: Number(p.Pessimistic),
		})
	}
	return resp
}

// snapshot must be called with exclusive access to p
func (h *Handler) snapshot(p *models.Portfolio) portfolioResponse {
	entries := p.Entries()
	resp := portfolioResponse{
		Entries:         make([]entryResponse, 0, len(entries)),
		TotalInvestment: Number(p.TotalInvestment()),
		Currency:        h.cfg.Currency,
		Metrics:         newMetricsResponse(h.simulator.Calculate(p)),
	}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, entryResponse{
			Fund:       summaryResponse(e.Fund),
			Allocation: Number(e.Allocation),
		})
	}
	return resp
}

// CreateSession starts an anonymous simulation session
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	s, token, err := h.sessions.Create()
	if err != nil {
		log.Error().Err(err).Msg("Failed to create session")
		h.jsonError(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  s.ExpiresAt,
		HttpOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})

	h.writeJSON(w, http.StatusCreated, map[string]interface{}{
		"token":      token,
		"expires_at": s.ExpiresAt.Format(time.RFC3339),
	})
}

// session returns the request's session, answering 401 when there is none
func (h *Handler) session(w http.ResponseWriter, r *http.Request) *session.Session {
	s := middleware.GetSession(r)
	if s == nil {
		h.jsonError(w, "Session required", http.StatusUnauthorized)
	}
	return s
}

// GetPortfolio returns the entries and derived metrics
func (h *Handler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}

	var resp portfolioResponse
	s.Do(func(p *models.Portfolio) { resp = h.snapshot(p) })
	h.writeJSON(w, http.StatusOK, resp)
}

// GetMetrics returns only the derived metrics
func (h *Handler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}

	var m *models.DerivedMetrics
	s.Do(func(p *models.Portfolio) { m = h.simulator.Calculate(p) })
	h.writeJSON(w, http.StatusOK, newMetricsResponse(m))
}

// AddFund adds a catalog fund, or steps up its allocation when present
func (h *Handler) AddFund(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}

	var input struct {
		FundID string `json:"fund_id"`
	}
	if !h.decodeJSON(w, r, &input) {
		return
	}

	fund, ok := h.catalog.Summary(input.FundID)
	if !ok {
		h.jsonError(w, "Fund not found", http.StatusNotFound)
		return
	}

	var resp portfolioResponse
	s.Do(func(p *models.Portfolio) {
		p.AddFund(fund)
		resp = h.snapshot(p)
	})
	h.writeJSON(w, http.StatusOK, resp)
}

// UpdateAllocation sets the allocation of a fund already in the portfolio
func (h *Handler) UpdateAllocation(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}

	var input struct {
		Allocation *float64 `json:"allocation"`
	}
	if !h.decodeJSON(w, r, &input) {
		return
	}
	if input.Allocation == nil {
		h.jsonError(w, "Allocation is required", http.StatusBadRequest)
		return
	}

	fundID := r.PathValue("id")
	var found bool
	var resp portfolioResponse
	s.Do(func(p *models.Portfolio) {
		found = p.UpdateAllocation(fundID, *input.Allocation)
		resp = h.snapshot(p)
	})
	if !found {
		h.jsonError(w, "Fund not in portfolio", http.StatusNotFound)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// RemoveFund drops a fund from the portfolio
func (h *Handler) RemoveFund(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}

	fundID := r.PathValue("id")
	var found bool
	var resp portfolioResponse
	s.Do(func(p *models.Portfolio) {
		found = p.RemoveFund(fundID)
		resp = h.snapshot(p)
	})
	if !found {
		h.jsonError(w, "Fund not in portfolio", http.StatusNotFound)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// SetInvestment stores the total amount to invest
func (h *Handler) SetInvestment(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}

	var input struct {
		Amount *float64 `json:"amount"`
	}
	if !h.decodeJSON(w, r, &input) {
		return
	}
	if input.Amount == nil {
		h.jsonError(w, "Amount is required", http.StatusBadRequest)
		return
	}

	var resp portfolioResponse
	s.Do(func(p *models.Portfolio) {
		p.SetTotalInvestment(*input.Amount)
		resp = h.snapshot(p)
	})
	h.writeJSON(w, http.StatusOK, resp)
}

// ResetPortfolio removes every fund
func (h *Handler) ResetPortfolio(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}

	var resp portfolioResponse
	s.Do(func(p *models.Portfolio) {
		p.Reset()
		resp = h.snapshot(p)
	})
	h.writeJSON(w, http.StatusOK, resp)
}
