package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/radieske/p2p-pledge-backend/internal/api/dto"
	"github.com/radieske/p2p-pledge-backend/internal/shared/errs"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorClass struct {
	target error
	status int
	label  string
}

// mais específicos primeiro
var errorClasses = []errorClass{
	{errs.ErrImageTooLarge, http.StatusBadRequest, "Image too large"},
	{errs.ErrInvalidImageFormat, http.StatusBadRequest, "Invalid image format"},
	{errs.ErrNoImageProvided, http.StatusBadRequest, "No image provided"},
	{errs.ErrInvalidUserData, http.StatusBadRequest, "Invalid user data"},
	{errs.ErrInvalidMultipart, http.StatusBadRequest, "Invalid multipart data"},
	{errs.ErrInvalidRequest, http.StatusBadRequest, "Invalid request"},
	{errs.ErrPostNotFound, http.StatusNotFound, "Post not found"},
	{errs.ErrNotFound, http.StatusNotFound, "Not found"},
	{errs.ErrUnauthorized, http.StatusUnauthorized, "Unauthorized"},
	{errs.ErrInvalidToken, http.StatusUnauthorized, "Unauthorized"},
	{errs.ErrConflict, http.StatusConflict, "Conflict"},
}

// writeError traduz erros de domínio em status HTTP.
// Erros de infraestrutura viram 500 genérico; o detalhe só vai para o log.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	for _, c := range errorClasses {
		if errors.Is(err, c.target) {
			msg := err.Error()
			if c.target == errs.ErrInvalidToken {
				msg = errs.ErrInvalidToken.Error()
			}
			writeJSON(w, c.status, dto.ErrorResponse{Error: c.label, Message: msg})
			return
		}
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		writeJSON(w, http.StatusRequestEntityTooLarge, dto.ErrorResponse{
			Error: "Request too large", Message: err.Error(),
		})
		return
	}

	s.log.Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
}

// decodeJSON lê o corpo com limite; JSON inválido é erro de requisição
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, jsonBodyLimit)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errs.Invalid(errs.ErrInvalidRequest, "bad json: %v", err)
	}
	return nil
}
