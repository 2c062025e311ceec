package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"contabil/internal/core"
	"contabil/internal/reconcile"
	"contabil/internal/session"
	"contabil/internal/store"
)

type editorRow struct {
	ID    int64
	Cells []string
}

type pendingView struct {
	Dia             string
	Quantidade      string
	Inconsistencias string
	Status          string
	Responsavel     string
}

func (s *Server) handleEditor(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFrom(r)

	data := struct {
		Message string
		Error   string
		HasFile bool
		Columns []string
		Rows    []editorRow
		Options store.EffectiveOptions
		Pending []pendingView
	}{
		Message: r.URL.Query().Get("msg"),
		Error:   r.URL.Query().Get("err"),
	}

	t, err := s.currentTable(sess)
	if err != nil {
		s.render(w, "editor.html", data)
		return
	}

	view := parseFilter(r).Apply(t)
	data.HasFile = true
	data.Columns = view.Columns
	for _, row := range view.Rows {
		cells := make([]string, len(view.Columns))
		for i, col := range view.Columns {
			cells[i] = row.Fields[col]
		}
		data.Rows = append(data.Rows, editorRow{ID: row.ID, Cells: cells})
	}
	data.Options = s.effectiveOptions(t)
	for _, e := range sess.Pending {
		data.Pending = append(data.Pending, pendingView{
			Dia:             e.Dia.Format(core.DateLayout),
			Quantidade:      e.Quantidade,
			Inconsistencias: e.Inconsistencias,
			Status:          e.Status,
			Responsavel:     e.Responsavel,
		})
	}

	s.render(w, "editor.html", data)
}

// editorSaveRequest is the JSON grid-save payload: the IDs the client's view
// contained and every row as edited. Rows with ID 0 are inserts.
type editorSaveRequest struct {
	ViewIDs []int64 `json:"view_ids"`
	Rows    []struct {
		ID     int64             `json:"id"`
		Fields map[string]string `json:"fields"`
	} `json:"rows"`
}

func (s *Server) handleEditorSave(w http.ResponseWriter, r *http.Request) {
	if !postOnly(w, r) {
		return
	}
	sess := s.sessionFrom(r)
	t, err := s.currentTable(sess)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no file open"})
		return
	}

	var req editorSaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	edited := make([]core.Row, 0, len(req.Rows))
	for _, row := range req.Rows {
		edited = append(edited, core.Row{ID: row.ID, Fields: row.Fields})
	}

	if err := reconcile.Apply(t, req.ViewIDs, edited); err != nil {
		slog.ErrorContext(r.Context(), "Grid save failed", "file", t.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	slog.InfoContext(r.Context(), "Grid saved",
		"file", t.Path, "view_rows", len(req.Rows), "total_rows", len(t.Rows))
	writeJSON(w, http.StatusOK, map[string]any{"rows": len(t.Rows)})
}

func (s *Server) handleEditorBulk(w http.ResponseWriter, r *http.Request) {
	if !postOnly(w, r) {
		return
	}
	sess := s.sessionFrom(r)
	t, err := s.currentTable(sess)
	if err != nil {
		redirectWith(w, r, "/editor", "", "Nenhum arquivo aberto")
		return
	}
	if err := r.ParseForm(); err != nil {
		redirectWith(w, r, "/editor", "", "Requisição inválida")
		return
	}

	ids := parseIDList(r.Form.Get("ids"))
	if len(ids) == 0 {
		redirectWith(w, r, "/editor", "", "Nenhum registro selecionado")
		return
	}

	changes := map[string]string{}
	if v := sanitizeInput(r.Form.Get("status")); v != "" {
		changes[core.ColStatus] = v
	}
	if v := sanitizeInput(r.Form.Get("responsavel")); v != "" {
		changes[core.ColResponsavel] = v
	}
	if v := sanitizeInput(r.Form.Get("inconsistencias")); v != "" {
		changes[core.ColInconsistencias] = v
	}

	if err := reconcile.ApplyBulk(t, ids, changes); err != nil {
		slog.ErrorContext(r.Context(), "Bulk apply failed", "file", t.Path, "error", err)
		redirectWith(w, r, "/editor", "", "Falha na alteração em massa: "+err.Error())
		return
	}
	redirectWith(w, r, "/editor", "Alteração aplicada", "")
}

func (s *Server) handleEntryAdd(w http.ResponseWriter, r *http.Request) {
	if !postOnly(w, r) {
		return
	}
	sess := s.sessionFrom(r)
	if sess.CurrentFile == "" {
		redirectWith(w, r, "/editor", "", "Nenhum arquivo aberto")
		return
	}
	if err := r.ParseForm(); err != nil {
		redirectWith(w, r, "/editor", "", "Requisição inválida")
		return
	}

	dia, err := time.Parse(core.DateLayout, r.Form.Get("dia"))
	if err != nil {
		redirectWith(w, r, "/editor", "", "Data inválida")
		return
	}
	entry := core.Entry{
		Dia:             dia,
		Quantidade:      sanitizeInput(r.Form.Get("quantidade")),
		Inconsistencias: sanitizeInput(r.Form.Get("inconsistencias")),
		Status:          sanitizeInput(r.Form.Get("status")),
		Responsavel:     sanitizeInput(r.Form.Get("responsavel")),
	}
	if err := entry.Validate(); err != nil {
		redirectWith(w, r, "/editor", "", "Entrada inválida: "+err.Error())
		return
	}

	s.sessions.Update(sess.ID, func(v *session.Session) {
		v.Pending = append(v.Pending, entry)
	})
	redirectWith(w, r, "/editor", "Entrada adicionada à fila", "")
}

func (s *Server) handleEntryClear(w http.ResponseWriter, r *http.Request) {
	if !postOnly(w, r) {
		return
	}
	sess := s.sessionFrom(r)
	s.sessions.Update(sess.ID, func(v *session.Session) { v.Pending = nil })
	redirectWith(w, r, "/editor", "Fila limpa", "")
}

func (s *Server) handleEntryFlush(w http.ResponseWriter, r *http.Request) {
	if !postOnly(w, r) {
		return
	}
	sess := s.sessionFrom(r)
	if len(sess.Pending) == 0 {
		redirectWith(w, r, "/editor", "", "Fila vazia")
		return
	}
	t, err := s.currentTable(sess)
	if err != nil {
		redirectWith(w, r, "/editor", "", "Nenhum arquivo aberto")
		return
	}

	if err := reconcile.AppendEntries(t, sess.Pending); err != nil {
		slog.ErrorContext(r.Context(), "Entry flush failed", "file", t.Path, "error", err)
		redirectWith(w, r, "/editor", "", "Falha ao gravar a fila: "+err.Error())
		return
	}

	n := len(sess.Pending)
	s.sessions.Update(sess.ID, func(v *session.Session) { v.Pending = nil })
	slog.InfoContext(r.Context(), "Pending entries flushed", "file", t.Path, "count", n)
	redirectWith(w, r, "/editor", "Fila gravada", "")
}
