package api

import (
	"net/http"

	"github.com/hinata/kanaflash/internal/models"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	kanaType := models.KanaType(r.URL.Query().Get("kana_type"))

	dashboard, err := s.StatsService.Dashboard(r.Context(), user.ID, kanaType)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, dashboard)
}
