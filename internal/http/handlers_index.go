package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"contabil/internal/core"
	"contabil/internal/session"
	"contabil/internal/store"
	"contabil/internal/tabular"
)

// maxUploadBytes caps spreadsheet uploads at 20 MiB.
const maxUploadBytes = 20 << 20

type historyView struct {
	Path         string
	OriginalName string
	When         string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	sess := s.sessionFrom(r)

	var history []historyView
	for _, e := range s.repos.History.Load() {
		history = append(history, historyView{
			Path:         e.Path,
			OriginalName: e.OriginalName,
			When:         time.Unix(e.Timestamp, 0).Format("02/01/2006 15:04"),
		})
	}

	data := struct {
		Message        string
		Error          string
		History        []historyView
		CurrentFile    string
		RowCount       int
		MissingColumns []string
	}{
		Message: r.URL.Query().Get("msg"),
		Error:   r.URL.Query().Get("err"),
		History: history,
	}

	if sess.CurrentFile != "" {
		data.CurrentFile = store.DisplayName(sess.CurrentFile)
		t, err := s.currentTable(sess)
		if err != nil {
			data.Error = "Arquivo aberto não está mais disponível"
			s.sessions.Update(sess.ID, func(v *session.Session) { v.CurrentFile = "" })
			data.CurrentFile = ""
		} else {
			data.RowCount = len(t.Rows)
			data.MissingColumns = core.MissingColumns(t)
		}
	}

	s.render(w, "index.html", data)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if !postOnly(w, r) {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		redirectWith(w, r, "/", "", "Upload inválido ou arquivo grande demais")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		redirectWith(w, r, "/", "", "Nenhum arquivo enviado")
		return
	}
	defer file.Close()

	name := filepath.Base(header.Filename)
	ext := strings.ToLower(filepath.Ext(name))
	if ext != ".csv" && ext != ".xlsx" {
		redirectWith(w, r, "/", "", "Apenas arquivos .csv e .xlsx são aceitos")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		redirectWith(w, r, "/", "", "Falha ao ler o arquivo enviado")
		return
	}

	// Reject unparseable uploads before caching them.
	t, err := tabular.Parse(name, data)
	if err != nil {
		slog.WarnContext(r.Context(), "Upload rejected", "file", name, "error", err)
		redirectWith(w, r, "/", "", "A planilha não pôde ser lida: "+err.Error())
		return
	}

	path, err := s.files.Persist(name, data)
	if err != nil {
		slog.ErrorContext(r.Context(), "Upload persist failed", "file", name, "error", err)
		redirectWith(w, r, "/", "", "Falha ao guardar o arquivo")
		return
	}

	sess := s.sessionFrom(r)
	s.sessions.Update(sess.ID, func(v *session.Session) {
		v.CurrentFile = path
		v.Pending = nil
	})

	slog.InfoContext(r.Context(), "Upload accepted",
		"file", name, "path", path, "row_count", len(t.Rows))

	msg := fmt.Sprintf("%s aberto (%d registros)", name, len(t.Rows))
	if missing := core.MissingColumns(t); len(missing) > 0 {
		msg += " — colunas ausentes: " + strings.Join(missing, ", ")
	}
	redirectWith(w, r, "/", msg, "")
}

func (s *Server) handleOpen(w http.ResponseWriter, r *http.Request) {
	if !postOnly(w, r) {
		return
	}
	if err := r.ParseForm(); err != nil {
		redirectWith(w, r, "/", "", "Requisição inválida")
		return
	}
	path := r.Form.Get("path")

	// Only paths the ledger knows may be opened.
	known := false
	for _, e := range s.repos.History.Load() {
		if e.Path == path {
			known = true
			break
		}
	}
	if !known {
		redirectWith(w, r, "/", "", "Arquivo não consta no histórico")
		return
	}

	if _, err := s.files.Open(path); err != nil {
		if errors.Is(err, store.ErrNotCached) {
			redirectWith(w, r, "/", "", "O arquivo foi removido do cache")
			return
		}
		redirectWith(w, r, "/", "", "Falha ao abrir o arquivo")
		return
	}

	sess := s.sessionFrom(r)
	s.sessions.Update(sess.ID, func(v *session.Session) {
		v.CurrentFile = path
		v.Pending = nil
	})
	redirectWith(w, r, "/", store.DisplayName(path)+" aberto", "")
}

func (s *Server) handleTemplate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="modelo.csv"`)
	_, _ = w.Write(tabular.TemplateCSV())
}

// handleDownload streams the current file back with the edited-file prefix,
// keeping the user's original name.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFrom(r)
	if sess.CurrentFile == "" {
		redirectWith(w, r, "/", "", "Nenhum arquivo aberto")
		return
	}
	path, err := s.files.Open(sess.CurrentFile)
	if err != nil {
		redirectWith(w, r, "/", "", "O arquivo foi removido do cache")
		return
	}

	f, err := os.Open(path)
	if err != nil {
		slog.ErrorContext(r.Context(), "Download open failed", "path", path, "error", err)
		http.Error(w, "failed to open file", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	name := "EDITADO_" + store.DisplayName(path)
	if strings.HasSuffix(strings.ToLower(name), ".csv") {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	} else {
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	_, _ = io.Copy(w, f)
}
