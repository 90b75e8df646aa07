package dto

import (
	"encoding/json"

	"github.com/radieske/p2p-pledge-backend/internal/posts"
)

type PostCreatedResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Post    posts.Created `json:"post"`
}

type PostResponse struct {
	Success bool       `json:"success"`
	Post    posts.View `json:"post"`
}

type PostsResponse struct {
	Success bool         `json:"success"`
	Posts   []posts.View `json:"posts"`
	Count   *int         `json:"count,omitempty"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// UpdateCaptionRequest guarda o valor cru para distinguir "caption" não-string
type UpdateCaptionRequest struct {
	Caption json.RawMessage `json:"caption"`
}

// CaptionString devolve a legenda só quando o JSON traz uma string
func (r UpdateCaptionRequest) CaptionString() (string, bool) {
	if len(r.Caption) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(r.Caption, &s); err != nil {
		return "", false
	}
	return s, true
}
