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

// registerCommentRoutes is a helper for registering all Comment routes.
func (s *Server) registerCommentRoutes(r *mux.Router) {
	// Add a comment to a post.
	r.HandleFunc("/post/{id:[0-9]+}/comment", s.requireAuth(s.handleAddComment)).Methods("POST")

	// Delete a comment. Author only - the admin has no override here.
	r.HandleFunc("/comment/{id:[0-9]+}", s.requireAuth(s.handleDeleteComment)).Methods("DELETE")
}

// handleAddComment handles the route "POST /post/{id}/comment".
// It reads the comment text from the json body and attaches a new comment,
// authored by the signed-in user, to the given post.
func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	postID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	var comment domain.Comment
	if err := json.NewDecoder(r.Body).Decode(&comment); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}

	user := s.getUserFromContext(r.Context())
	if err := s.guard.Can(user, auth.AddComment, 0); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	comment.UserID = user.ID
	comment.PostID = postID

	if err := s.cs.Create(&comment); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(&comment); err != nil {
		errs.LogError(r, err)
	}
}

// handleDeleteComment handles the route "DELETE /comment/{id}".
// Only the comment's own author may remove it.
func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	comment, err := s.cs.ByID(id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	user := s.getUserFromContext(r.Context())
	if err := s.guard.Can(user, auth.DeleteComment, comment.UserID); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := s.cs.Delete(comment); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
