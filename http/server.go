package http

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"

	"travelblog/auth"
	"travelblog/crud"
	"travelblog/domain"
	"travelblog/notify"
	"travelblog/rank"
)

// Server provides most of the http functionality of this app, namely routing,
// request handling, and middleware. It resolves the acting identity and asks
// the guard before handing things over to one of the crud services.
type Server struct {
	router   *mux.Router
	us       domain.UserService
	ps       domain.PostService
	cs       domain.CommentService
	ls       domain.LikeService
	guard    *auth.Guard
	rank     *rank.Service
	notifier *notify.Publisher
}

// NewServer returns a new instance of the server, registers all necessary
// routes and gives their handlers access to the app services passed in.
func NewServer(
	isProd bool,
	csrfKey string,
	services *crud.Services,
	guard *auth.Guard,
	ranking *rank.Service,
	notifier *notify.Publisher,
) *Server {
	s := &Server{
		router:   mux.NewRouter(),
		us:       services.User,
		ps:       services.Post,
		cs:       services.Comment,
		ls:       services.Like,
		guard:    guard,
		rank:     ranking,
		notifier: notifier,
	}

	// Register routes of the auth system.
	s.registerAuthRoutes(s.router)
	s.registerUserRoutes(s.router)

	// Register routes of the content system.
	s.registerPostRoutes(s.router)
	s.registerCommentRoutes(s.router)
	s.registerLikeRoutes(s.router)
	s.registerContactRoutes(s.router)

	// Set up middleware that needs to run on every request. A new CSRF token
	// is issued when the client requests /login or /register with GET.
	csrfMw := csrf.Protect([]byte(csrfKey), csrf.Secure(isProd), csrf.Path("/"))
	s.router.Use(csrfMw, setContentTypeJSON, s.authUser)
	return s
}

// The setContentTypeJSON middleware sets the content type to "application/json".
func setContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// Run starts to listen and serve on the specified port.
func (s *Server) Run(port int) {
	log.Fatal(http.ListenAndServe(":"+strconv.Itoa(port), s.router))
}
