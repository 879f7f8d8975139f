package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/healthz", s.handleHealth)

	r.Post("/api/auth/register", s.handleRegister)
	r.Post("/api/auth/login", s.handleLogin)
	r.Post("/api/auth/logout", s.handleLogout)

	r.Group(func(r chi.Router) {
		r.Use(s.requireUser)

		r.Get("/api/auth/me", s.handleMe)

		r.Post("/api/practice/sessions", s.handleStartPractice)
		r.Get("/api/practice/sessions/{id}", s.handleGetPractice)
		r.Post("/api/practice/sessions/{id}/answer", s.handleSubmitAnswer)
		r.Post("/api/practice/sessions/{id}/next", s.handleNextCard)
		r.Put("/api/practice/sessions/{id}/mode", s.handleSetMode)
		r.Delete("/api/practice/sessions/{id}", s.handleEndPractice)

		r.Get("/api/dashboard", s.handleDashboard)
	})

	return r
}
