package http

import (
	"log/slog"
	"net/http"

	"contabil/internal/amqp"
	"contabil/internal/store"
)

type categoryView struct {
	Name   string
	Label  string
	Values []string
}

func (s *Server) handleOptionsPage(w http.ResponseWriter, r *http.Request) {
	opts := s.repos.Options.Load()
	data := struct {
		Message    string
		Error      string
		Categories []categoryView
		Settings   store.Settings
	}{
		Message: r.URL.Query().Get("msg"),
		Error:   r.URL.Query().Get("err"),
		Categories: []categoryView{
			{Name: store.CategoryResponsavel, Label: "Responsáveis", Values: opts.Responsavel},
			{Name: store.CategoryInconsistencias, Label: "Inconsistências", Values: opts.Inconsistencias},
			{Name: store.CategoryStatus, Label: "Status", Values: opts.Status},
		},
		Settings: s.repos.Settings.Load(),
	}
	s.render(w, "options.html", data)
}

func (s *Server) handleOptionAdd(w http.ResponseWriter, r *http.Request) {
	if !postOnly(w, r) {
		return
	}
	if err := r.ParseForm(); err != nil {
		redirectWith(w, r, "/options", "", "Requisição inválida")
		return
	}
	category := r.Form.Get("category")
	value := sanitizeInput(r.Form.Get("value"))

	if err := s.repos.Options.Add(category, value); err != nil {
		redirectWith(w, r, "/options", "", "Falha ao adicionar: "+err.Error())
		return
	}
	slog.InfoContext(r.Context(), "Option added", "category", category, "value", value)
	redirectWith(w, r, "/options", "Valor adicionado", "")
}

func (s *Server) handleOptionRemove(w http.ResponseWriter, r *http.Request) {
	if !postOnly(w, r) {
		return
	}
	if err := r.ParseForm(); err != nil {
		redirectWith(w, r, "/options", "", "Requisição inválida")
		return
	}
	category := r.Form.Get("category")
	value := r.Form.Get("value")

	if err := s.repos.Options.Remove(category, value); err != nil {
		redirectWith(w, r, "/options", "", "Falha ao remover: "+err.Error())
		return
	}
	slog.InfoContext(r.Context(), "Option removed", "category", category, "value", value)
	redirectWith(w, r, "/options", "Valor removido", "")
}

func (s *Server) handleSettingsSave(w http.ResponseWriter, r *http.Request) {
	if !postOnly(w, r) {
		return
	}
	if err := r.ParseForm(); err != nil {
		redirectWith(w, r, "/options", "", "Requisição inválida")
		return
	}
	cfg := store.Settings{
		SheetName:  sanitizeInput(r.Form.Get("sheet_name")),
		EmailShare: sanitizeInput(r.Form.Get("email_share")),
	}
	if err := s.repos.Settings.Save(cfg); err != nil {
		slog.ErrorContext(r.Context(), "Settings save failed", "error", err)
		redirectWith(w, r, "/options", "", "Falha ao salvar configurações")
		return
	}
	redirectWith(w, r, "/options", "Configurações salvas", "")
}

// handleExport pushes the current table to Google Sheets: queued through
// AMQP when a publisher is wired, synchronous otherwise.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if !postOnly(w, r) {
		return
	}
	sess := s.sessionFrom(r)
	if sess.CurrentFile == "" {
		redirectWith(w, r, "/editor", "", "Nenhum arquivo aberto")
		return
	}

	cfg := s.repos.Settings.Load()
	if cfg.SheetName == "" {
		redirectWith(w, r, "/options", "", "Defina o nome da planilha antes de exportar")
		return
	}

	if s.publisher != nil {
		msg := amqp.NewTableExportMessage(sess.CurrentFile, cfg.SheetName, cfg.EmailShare)
		if err := s.publisher.PublishExportRequest(r.Context(), msg); err != nil {
			slog.ErrorContext(r.Context(), "Export publish failed", "file", sess.CurrentFile, "error", err)
			redirectWith(w, r, "/editor", "", "Falha ao enfileirar exportação")
			return
		}
		redirectWith(w, r, "/editor", "Exportação enfileirada", "")
		return
	}

	if s.exporter == nil {
		redirectWith(w, r, "/editor", "", "Exportação não configurada")
		return
	}

	t, err := s.currentTable(sess)
	if err != nil {
		redirectWith(w, r, "/editor", "", "O arquivo foi removido do cache")
		return
	}
	ref, err := s.exporter.Export(r.Context(), t, cfg)
	if err != nil {
		slog.ErrorContext(r.Context(), "Export failed", "file", sess.CurrentFile, "error", err)
		redirectWith(w, r, "/editor", "", "Falha na exportação: "+err.Error())
		return
	}
	slog.InfoContext(r.Context(), "Export completed",
		"file", sess.CurrentFile, "sheet_name", cfg.SheetName, "ref", ref)
	redirectWith(w, r, "/editor", "Exportado para "+cfg.SheetName, "")
}
