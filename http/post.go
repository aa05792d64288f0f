package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"travelblog/auth"
	"travelblog/domain"
	"travelblog/errs"
)

// registerPostRoutes is a helper for registering all Post routes.
func (s *Server) registerPostRoutes(r *mux.Router) {
	// List all posts, most liked first.
	r.HandleFunc("/posts", s.handleListPosts).Methods("GET")

	// Top-N ranking from the redis mirror.
	r.HandleFunc("/posts/top", s.handleTopPosts).Methods("GET")

	// Show a single post with its comments.
	r.HandleFunc("/post/{id:[0-9]+}", s.handleGetPost).Methods("GET")

	// Create a new post.
	r.HandleFunc("/post", s.requireAuth(s.handleCreatePost)).Methods("POST")

	// Replace all mutable fields of an existing post.
	r.HandleFunc("/post/{id:[0-9]+}", s.requireAuth(s.handleEditPost)).Methods("PUT")

	// Delete an existing post along with its comments and likes.
	r.HandleFunc("/post/{id:[0-9]+}", s.requireAuth(s.handleDeletePost)).Methods("DELETE")
}

// handleListPosts handles the route "GET /posts".
// It returns all posts ordered by their like counter, most liked first.
func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.ps.AllByPopularity()
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := json.NewEncoder(w).Encode(posts); err != nil {
		errs.LogError(r, err)
	}
}

// handleTopPosts handles the route "GET /posts/top".
// It serves the redis popularity ranking; the database stays authoritative
// for actual like counts.
func (s *Server) handleTopPosts(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(r.URL.Query().Get("top"))
	if err != nil || n <= 0 {
		n = 10
	}
	entries, err := s.rank.Top(n)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := json.NewEncoder(w).Encode(entries); err != nil {
		errs.LogError(r, err)
	}
}

// handleGetPost handles the route "GET /post/{id}".
// It returns the post with its author and comments.
func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	post, err := s.ps.ByID(id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := json.NewEncoder(w).Encode(post); err != nil {
		errs.LogError(r, err)
	}
}

// handleCreatePost handles the route "POST /post".
// It reads post data from the json body and stores a new post authored by
// the signed-in user.
func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var post domain.Post
	if err := json.NewDecoder(r.Body).Decode(&post); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}

	user := s.getUserFromContext(r.Context())
	if err := s.guard.Can(user, auth.CreatePost, 0); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	post.UserID = user.ID

	if err := s.ps.Create(&post); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(&post); err != nil {
		errs.LogError(r, err)
	}
}

// handleEditPost handles the route "PUT /post/{id}".
// The full set of mutable fields must be supplied; the post's author or
// the admin may edit.
func (s *Server) handleEditPost(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	// Resolve the target first, so a missing post stays a 404 and never
	// masquerades as a 403.
	post, err := s.ps.ByID(id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	user := s.getUserFromContext(r.Context())
	if err := s.guard.Can(user, auth.EditPost, post.UserID); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	var upd domain.PostUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}

	updated, err := s.ps.Update(post.ID, user.ID, &upd)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := json.NewEncoder(w).Encode(updated); err != nil {
		errs.LogError(r, err)
	}
}

// handleDeletePost handles the route "DELETE /post/{id}".
// The post's author or the admin may delete; the post's comments and likes
// go with it.
func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	post, err := s.ps.ByID(id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	user := s.getUserFromContext(r.Context())
	if err := s.guard.Can(user, auth.DeletePost, post.UserID); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := s.ps.Delete(post.ID); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
