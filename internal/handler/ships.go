package handler

import (
	"net/http"

	"github.com/monicap360/ElariaHQ-sub001/internal/domain"
)

// ListShips handles GET /api/v1/ships.
// Returns every known ship ordered by name, for UI pickers and landing pages.
func (s *Server) ListShips(w http.ResponseWriter, r *http.Request) {
	ships, err := s.ships.AllShips(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if ships == nil {
		ships = []domain.Ship{}
	}
	writeJSON(w, http.StatusOK, map[string][]domain.Ship{"ships": ships})
}
