package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"travelblog/auth"
	"travelblog/errs"
)

// registerUserRoutes is a helper for registering all User routes.
func (s *Server) registerUserRoutes(r *mux.Router) {
	// Get the signed-in user's own data.
	r.HandleFunc("/profile", s.requireAuth(s.handleProfile)).Methods("GET")

	// Delete the signed-in user's own account.
	r.HandleFunc("/profile", s.requireAuth(s.handleDeleteSelf)).Methods("DELETE")
}

// handleProfile handles the route "GET /profile".
// It returns the signed-in user with posts, comments and likes preloaded.
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	user := s.getUserFromContext(r.Context())

	full, err := s.us.ByID(user.ID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := json.NewEncoder(w).Encode(full); err != nil {
		errs.LogError(r, err)
	}
}

// handleDeleteSelf handles the route "DELETE /profile".
// Users may only delete their own account; the deletion cascades to their
// posts, comments and likes.
func (s *Server) handleDeleteSelf(w http.ResponseWriter, r *http.Request) {
	user := s.getUserFromContext(r.Context())
	if err := s.guard.Can(user, auth.DeleteAccount, user.ID); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := s.us.Delete(user.ID); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	// The account is gone, so the session cookie is useless. Expire it.
	http.SetCookie(w, &http.Cookie{
		Name:     "remember_token",
		Value:    "",
		Expires:  time.Now(),
		HttpOnly: true,
	})

	w.WriteHeader(http.StatusNoContent)
}
