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

// registerLikeRoutes is a helper for registering all Like routes.
func (s *Server) registerLikeRoutes(r *mux.Router) {
	// Like a post.
	r.HandleFunc("/like/{post_id:[0-9]+}", s.requireAuth(s.handleLike)).Methods("POST")

	// Unlike a previously liked post.
	r.HandleFunc("/unlike/{post_id:[0-9]+}", s.requireAuth(s.handleUnlike)).Methods("DELETE")
}

// handleLike handles the route "POST /like/{post_id}".
// Liking an already liked post is rejected, so the counter moves by
// exactly one. On success the redis ranking is bumped best-effort.
func (s *Server) handleLike(w http.ResponseWriter, r *http.Request) {
	postID, err := strconv.Atoi(mux.Vars(r)["post_id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	user := s.getUserFromContext(r.Context())
	if err := s.guard.Can(user, auth.LikePost, 0); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	like := domain.Like{UserID: user.ID, PostID: postID}
	if err := s.ls.Create(&like); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := s.rank.Bump(postID, 1); err != nil {
		errs.LogError(r, err)
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(&like); err != nil {
		errs.LogError(r, err)
	}
}

// handleUnlike handles the route "DELETE /unlike/{post_id}".
// Unliking a post that isn't liked is rejected the same way.
func (s *Server) handleUnlike(w http.ResponseWriter, r *http.Request) {
	postID, err := strconv.Atoi(mux.Vars(r)["post_id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	user := s.getUserFromContext(r.Context())
	if err := s.guard.Can(user, auth.UnlikePost, 0); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	like := domain.Like{UserID: user.ID, PostID: postID}
	if err := s.ls.Delete(&like); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := s.rank.Bump(postID, -1); err != nil {
		errs.LogError(r, err)
	}

	w.WriteHeader(http.StatusNoContent)
}
