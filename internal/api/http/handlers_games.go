package httpapi

import (
	"net/http"

	"github.com/radieske/p2p-pledge-backend/internal/games"
)

func (s *Server) listGames(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := s.games.List(r.Context(), games.Filter{
		Status: optional(q, "status"),
		League: optional(q, "league"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) createGame(w http.ResponseWriter, r *http.Request) {
	var req games.NewGame
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	g, err := s.games.Create(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}
