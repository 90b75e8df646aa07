package httpapi

import (
	"encoding/json"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/radieske/p2p-pledge-backend/internal/api/dto"
	"github.com/radieske/p2p-pledge-backend/internal/posts"
	"github.com/radieske/p2p-pledge-backend/internal/shared/errs"
)

func (s *Server) createPost(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.posts.MaxBytes()+multipartOverhead)
	mr, err := r.MultipartReader()
	if err != nil {
		s.writeError(w, r, errs.Invalid(errs.ErrInvalidMultipart, "%v", err))
		return
	}

	post, err := s.posts.Create(r.Context(), mr)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.PostCreatedResponse{
		Success: true,
		Message: "Post created successfully",
		Post:    post.Created(),
	})
}

func (s *Server) listPosts(w http.ResponseWriter, r *http.Request) {
	list, err := s.posts.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.PostsResponse{Success: true, Posts: posts.Views(list)})
}

func (s *Server) userPosts(w http.ResponseWriter, r *http.Request) {
	list, err := s.posts.ListByUser(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	n := len(list)
	writeJSON(w, http.StatusOK, dto.PostsResponse{Success: true, Posts: posts.Views(list), Count: &n})
}

func (s *Server) getPost(w http.ResponseWriter, r *http.Request) {
	post, err := s.posts.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.PostResponse{Success: true, Post: post.View()})
}

func (s *Server) updateCaption(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, jsonBodyLimit)
	var req dto.UpdateCaptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, errs.Invalid(errs.ErrInvalidUserData, "bad json"))
		return
	}
	caption, ok := req.CaptionString()
	if !ok {
		s.writeError(w, r, errs.Invalid(errs.ErrInvalidUserData, "caption must be a string"))
		return
	}

	if err := s.posts.UpdateCaption(r.Context(), chi.URLParam(r, "id"), caption); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.MessageResponse{Success: true, Message: "Post caption updated successfully"})
}

func (s *Server) deletePost(w http.ResponseWriter, r *http.Request) {
	if err := s.posts.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.MessageResponse{Success: true, Message: "Post deleted successfully"})
}

func (s *Server) serveUpload(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "fileName")
	b, err := s.posts.Open(r.Context(), name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ct := mime.TypeByExtension(filepath.Ext(name))
	if ct == "" {
		ct = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}
