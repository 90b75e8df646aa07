package httpapi

import (
	"net/http"
	"net/url"

	"github.com/radieske/p2p-pledge-backend/internal/api/dto"
	"github.com/radieske/p2p-pledge-backend/internal/pledges"
)

// optional devolve nil quando o parâmetro não veio na query string
func optional(q url.Values, key string) *string {
	if _, ok := q[key]; !ok {
		return nil
	}
	v := q.Get(key)
	return &v
}

func (s *Server) listPledges(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := s.pledges.List(r.Context(), pledges.Filter{
		Username: optional(q, "username"),
		Phone:    optional(q, "phone"),
		HomeTeam: optional(q, "home_team"),
		AwayTeam: optional(q, "away_team"),
		Status:   optional(q, "status"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewPledgeList(list))
}

func (s *Server) createPledge(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePledgeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	pl, err := s.pledges.Create(r.Context(), req.ToModel())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewPledgeResponse(pl))
}

func (s *Server) pledgeStats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	st, err := s.pledges.Stats(r.Context(), q.Get("home_team"), q.Get("away_team"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st.View())
}

func (s *Server) userPledges(w http.ResponseWriter, r *http.Request) {
	list, err := s.pledges.ByUser(r.Context(), r.URL.Query().Get("username"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewPledgeList(list))
}

func (s *Server) recentPledges(w http.ResponseWriter, r *http.Request) {
	list, err := s.pledges.Recent(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewPledgeList(list))
}
