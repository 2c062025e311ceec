package http

import (
	"net/http"
	"time"

	"contabil/internal/core"
	"contabil/internal/store"
)

// parseFilter builds a row filter from query parameters. Bad dates are
// treated as unset.
func parseFilter(r *http.Request) core.Filter {
	q := r.URL.Query()
	var f core.Filter
	if v := q.Get("from"); v != "" {
		if d, err := time.Parse(core.DateLayout, v); err == nil {
			f.From = d
		}
	}
	if v := q.Get("to"); v != "" {
		if d, err := time.Parse(core.DateLayout, v); err == nil {
			f.To = d
		}
	}
	if v := q.Get("responsavel"); v != "" {
		f.Responsavel = []string{v}
	}
	if v := q.Get("status"); v != "" {
		f.Status = []string{v}
	}
	if v := q.Get("inconsistencias"); v != "" {
		f.Inconsistencias = []string{v}
	}
	f.Search = q.Get("q")
	return f
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFrom(r)

	data := struct {
		HasFile     bool
		From        string
		To          string
		Responsavel string
		Status      string
		Search      string
		Options     store.EffectiveOptions
		Summary     core.Summary
	}{}

	t, err := s.currentTable(sess)
	if err != nil {
		s.render(w, "dashboard.html", data)
		return
	}

	f := parseFilter(r)
	data.HasFile = true
	if !f.From.IsZero() {
		data.From = f.From.Format(core.DateLayout)
	}
	if !f.To.IsZero() {
		data.To = f.To.Format(core.DateLayout)
	}
	if len(f.Responsavel) > 0 {
		data.Responsavel = f.Responsavel[0]
	}
	if len(f.Status) > 0 {
		data.Status = f.Status[0]
	}
	data.Search = f.Search
	data.Options = s.effectiveOptions(t)
	data.Summary = core.Summarize(f.Apply(t))

	s.render(w, "dashboard.html", data)
}

// handleSummaryJSON exposes the same aggregates as JSON for tooling.
func (s *Server) handleSummaryJSON(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFrom(r)
	t, err := s.currentTable(sess)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no file open"})
		return
	}
	writeJSON(w, http.StatusOK, core.Summarize(parseFilter(r).Apply(t)))
}
