package handlers

import (
	"net/http"
	"strconv"

	"github.com/findosh/fundsim/internal/models"
	"github.com/findosh/fundsim/internal/report"
	"github.com/findosh/fundsim/internal/services/catalog"
)

type fundResponse struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Type            string  `json:"type"`
	TypeLabel       string  `json:"type_label"`
	Manager         string  `json:"manager"`
	ISIN            string  `json:"isin,omitempty"`
	ExpectedReturn  Number  `json:"expected_return"`
	Volatility      Number  `json:"volatility"`
	RiskLevel       string  `json:"risk_level"`
	MinInvestment   Number  `json:"min_investment"`
	Performance1Y   *Number `json:"performance_1y,omitempty"`
	Performance3Y   *Number `json:"performance_3y,omitempty"`
	SharpeRatio     *Number `json:"sharpe_ratio,omitempty"`
	SubscriptionFee *Number `json:"subscription_fee,omitempty"`
	ManagementFee   *Number `json:"management_fee,omitempty"`
	ExitFee         *Number `json:"exit_fee,omitempty"`
	Assets          *Number `json:"assets,omitempty"`
	Description     string  `json:"description,omitempty"`
}

func summaryResponse(f *models.FundSummary) fundResponse {
	return fundResponse{
		ID:             f.ID,
		Name:           f.Name,
		Type:           string(f.Type),
		TypeLabel:      f.Type.DisplayName(),
		Manager:        f.Manager,
		ExpectedReturn: Number(f.ExpectedReturn),
		Volatility:     Number(f.Volatility),
		RiskLevel:      string(report.RiskLevelOf(f.Volatility)),
		MinInvestment:  Number(f.MinInvestment.InexactFloat64()),
	}
}

func numberPtr(v float64) *Number {
	n := Number(v)
	return &n
}

func detailResponse(f *models.Fund) fundResponse {
	resp := summaryResponse(&f.FundSummary)
	resp.ISIN = f.ISIN
	resp.Description = f.Description
	resp.Performance1Y = numberPtr(f.Performance1Y)
	resp.Performance3Y = numberPtr(f.Performance3Y)
	resp.SubscriptionFee = numberPtr(f.SubscriptionFee.InexactFloat64())
	resp.ManagementFee = numberPtr(f.ManagementFee.InexactFloat64())
	resp.ExitFee = numberPtr(f.ExitFee.InexactFloat64())
	resp.Assets = numberPtr(f.Assets.InexactFloat64())
	if f.SharpeRatio != nil {
		resp.SharpeRatio = numberPtr(*f.SharpeRatio)
	}
	return resp
}

// ListFunds searches the catalog by name/manager text and fund type
func (h *Handler) ListFunds(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := catalog.Filter{
		Query: q.Get("q"),
		Sort:  catalog.SortBy(q.Get("sort")),
	}

	if t := q.Get("type"); t != "" {
		ft, err := models.ParseFundType(t)
		if err != nil {
			h.jsonError(w, "Unknown fund type", http.StatusBadRequest)
			return
		}
		filter.Type = ft
	}

	if !filter.Sort.IsValid() {
		h.jsonError(w, "Unknown sort order", http.StatusBadRequest)
		return
	}

	if l := q.Get("limit"); l != "" {
		limit, err := strconv.Atoi(l)
		if err != nil || limit < 0 {
			h.jsonError(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		filter.Limit = limit
	}

	funds := h.catalog.Search(filter)
	out := make([]fundResponse, 0, len(funds))
	for i := range funds {
		out = append(out, summaryResponse(&funds[i].FundSummary))
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"funds": out,
		"count": len(out),
	})
}

// GetFund returns one catalog record
func (h *Handler) GetFund(w http.ResponseWriter, r *http.Request) {
	f, ok := h.catalog.Get(r.PathValue("id"))
	if !ok {
		h.jsonError(w, "Fund not found", http.StatusNotFound)
		return
	}
	h.writeJSON(w, http.StatusOK, detailResponse(f))
}

// FundTypes lists the fund classifications
func (h *Handler) FundTypes(w http.ResponseWriter, r *http.Request) {
	type fundType struct {
		Type  string `json:"type"`
		Label string `json:"label"`
	}
	out := []fundType{}
	for _, t := range models.AllFundTypes() {
		out = append(out, fundType{Type: string(t), Label: t.DisplayName()})
	}
	h.writeJSON(w, http.StatusOK, out)
}
