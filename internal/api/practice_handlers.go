package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hinata/kanaflash/internal/engine"
	"github.com/hinata/kanaflash/internal/logger"
	"github.com/hinata/kanaflash/internal/models"
)

type startSessionRequest struct {
	KanaType models.KanaType `json:"kana_type"`
	Mode     engine.Mode     `json:"mode"`
}

type startSessionResponse struct {
	SessionID string          `json:"session_id"`
	Session   engine.Snapshot `json:"session"`
}

type submitAnswerRequest struct {
	Answer string `json:"answer"`
}

type setModeRequest struct {
	Mode engine.Mode `json:"mode"`
}

func (s *Server) handleStartPractice(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	user := userFromContext(r.Context())

	var req startSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	id, snap, err := s.PracticeService.StartSession(r.Context(), user.ID, req.KanaType, req.Mode)
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("practice session created: %s", id)
	respondJSON(w, http.StatusCreated, startSessionResponse{SessionID: id, Session: snap})
}

func (s *Server) handleGetPractice(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	snap, err := s.PracticeService.GetSession(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req submitAnswerRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	result, err := s.PracticeService.SubmitAnswer(r.Context(), user.ID, chi.URLParam(r, "id"), req.Answer)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleNextCard(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	snap, err := s.PracticeService.NextCard(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

func (s *Server) handleSetMode(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req setModeRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	snap, err := s.PracticeService.SetMode(r.Context(), user.ID, chi.URLParam(r, "id"), req.Mode)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

func (s *Server) handleEndPractice(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	if err := s.PracticeService.EndSession(r.Context(), user.ID, chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
