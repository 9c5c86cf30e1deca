package handlers

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/findosh/fundsim/internal/models"
	"github.com/findosh/fundsim/internal/report"
	"github.com/phuslu/log"
)

// Report renders the simulation summary as HTML, or as markdown with
// ?format=markdown
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}

	var md bytes.Buffer
	var err error
	s.Do(func(p *models.Portfolio) {
		err = report.Markdown(&md, p, h.simulator.Calculate(p), h.cfg.Currency)
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to build report")
		h.jsonError(w, "Failed to build report", http.StatusInternalServerError)
		return
	}

	if r.URL.Query().Get("format") == "markdown" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Write(md.Bytes())
		return
	}

	var page bytes.Buffer
	if err := report.HTML(&page, "Portfolio simulation", md.Bytes()); err != nil {
		log.Error().Err(err).Msg("Failed to render report")
		h.jsonError(w, "Failed to render report", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page.Bytes())
}

// ProjectionChart renders the projected value paths as a PNG
func (h *Handler) ProjectionChart(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}

	var m *models.DerivedMetrics
	s.Do(func(p *models.Portfolio) { m = h.simulator.Calculate(p) })

	data, err := report.ProjectionChart(m)
	if errors.Is(err, report.ErrNothingToChart) {
		h.jsonError(w, "No projection available", http.StatusUnprocessableEntity)
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("Failed to render chart")
		h.jsonError(w, "Failed to render chart", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(data)
}
