package httpapi

import (
	"net/http"

	"github.com/radieske/p2p-pledge-backend/internal/api/dto"
	"github.com/radieske/p2p-pledge-backend/internal/shared/errs"
)

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	user, token, err := s.auth.Register(r.Context(), req.Username, req.Phone, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewAuthResponse(user, token))
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	user, token, err := s.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewAuthResponse(user, token))
}

func (s *Server) loginWithPhone(w http.ResponseWriter, r *http.Request) {
	var req dto.PhoneLoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	user, token, err := s.auth.LoginWithPhone(r.Context(), req.Phone, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewAuthResponse(user, token))
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r.Context())
	if !ok {
		s.writeError(w, r, errs.ErrInvalidToken)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewMeResponse(claims))
}
