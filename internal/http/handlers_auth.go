package http

import (
	"errors"
	"log/slog"
	"net/http"

	"bookkeeper/internal/auth"
	"bookkeeper/internal/storage"
)

type authPage struct {
	Error string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		if _, ok := s.sessions.Resolve(cookie.Value); ok {
			http.Redirect(w, r, "/expense", http.StatusSeeOther)
			return
		}
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) handleRegisterForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "register.html", authPage{})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	username := sanitizeInput(r.Form.Get("username"))
	password := r.Form.Get("password")

	if err := auth.ValidateCredentials(username, password); err != nil {
		s.render(w, r, "register.html", authPage{Error: err.Error()})
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		slog.ErrorContext(r.Context(), "Password hash failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if _, err := s.users.CreateUser(r.Context(), username, hash); err != nil {
		if errors.Is(err, storage.ErrUserExists) {
			s.render(w, r, "register.html", authPage{Error: "Username already taken"})
			return
		}
		slog.ErrorContext(r.Context(), "Create user failed", "error", err, "username", username)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	slog.InfoContext(r.Context(), "User registered", "username", username)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "login.html", authPage{})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	username := sanitizeInput(r.Form.Get("username"))
	password := r.Form.Get("password")

	user, err := s.users.GetUserByUsername(r.Context(), username)
	if err != nil {
		// Same response for unknown user and wrong password.
		if !errors.Is(err, storage.ErrNotFound) {
			slog.ErrorContext(r.Context(), "User lookup failed", "error", err, "username", username)
		}
		s.render(w, r, "login.html", authPage{Error: "Wrong credentials"})
		return
	}
	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		s.render(w, r, "login.html", authPage{Error: "Wrong credentials"})
		return
	}

	token := s.sessions.Create(user.Username)
	setSessionCookie(w, token)

	slog.InfoContext(r.Context(), "User logged in", "username", user.Username)
	http.Redirect(w, r, "/expense", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		s.sessions.Delete(cookie.Value)
	}
	clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
