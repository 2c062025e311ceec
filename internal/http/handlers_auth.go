package http

import (
	"log/slog"
	"net/http"

	"contabil/internal/auth"
	"contabil/internal/session"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if sess := s.sessionFrom(r); sess != nil && sess.Authenticated {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		s.render(w, "login.html", struct{ Error string }{})

	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		key := sanitizeInput(r.Form.Get("key"))

		ok, err := auth.ValidateKey(s.keysFile, key)
		if err != nil {
			slog.ErrorContext(r.Context(), "Access key validation failed", "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			s.render(w, "login.html", struct{ Error string }{Error: "Falha ao validar chave de acesso"})
			return
		}
		if !ok {
			slog.WarnContext(r.Context(), "Rejected access key", "client_ip", clientIP(r))
			w.WriteHeader(http.StatusUnauthorized)
			s.render(w, "login.html", struct{ Error string }{Error: "Chave de acesso inválida"})
			return
		}

		sess := s.sessions.New()
		s.sessions.Update(sess.ID, func(v *session.Session) { v.Authenticated = true })
		setSessionCookie(w, sess.ID)
		http.Redirect(w, r, "/", http.StatusSeeOther)

	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if !postOnly(w, r) {
		return
	}
	if c, err := r.Cookie(sessionCookie); err == nil {
		s.sessions.Drop(c.Value)
	}
	clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
