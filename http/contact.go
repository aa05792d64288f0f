package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"travelblog/errs"
	"travelblog/notify"
)

// registerContactRoutes is a helper for registering the contact route.
func (s *Server) registerContactRoutes(r *mux.Router) {
	r.HandleFunc("/contact", s.requireAuth(s.handleContact)).Methods("POST")
}

// handleContact handles the route "POST /contact".
// It publishes the message to the notification queue; delivering the mail
// is not this app's job.
func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	if !s.notifier.Enabled() {
		errs.ReturnError(w, r, errs.Errorf(errs.EINTERNAL, "Contact messages are not configured."))
		return
	}

	var body struct {
		Name    string `json:"name"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}
	if body.Name == "" || body.Message == "" {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Name and message are required."))
		return
	}

	user := s.getUserFromContext(r.Context())
	msg := notify.Message{
		Name:  body.Name,
		Email: user.Email,
		Body:  body.Message,
	}
	if err := s.notifier.Publish(r.Context(), msg); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{"message": "message sent"})
}
