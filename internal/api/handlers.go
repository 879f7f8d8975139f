package api

import (
	"encoding/json"
	"net/http"

	"github.com/hinata/kanaflash/internal/db"
	apperrors "github.com/hinata/kanaflash/internal/errors"
	"github.com/hinata/kanaflash/internal/logger"
	"github.com/hinata/kanaflash/internal/services"
)

type Server struct {
	DB              *db.DB
	AuthService     services.AuthService
	PracticeService services.PracticeService
	StatsService    services.StatsService
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.NewBadRequestError("invalid JSON body")
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	if err := s.DB.PingContext(r.Context()); err != nil {
		log.Error("health check failed: %v", err)
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
