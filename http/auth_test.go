package http

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"travelblog/auth"
	"travelblog/crud"
	"travelblog/domain"
	"travelblog/rank"
)

// testServer builds a Server over a throwaway sqlite database. The csrf
// and rank/notify collaborators don't matter here; middleware functions
// are exercised directly.
func testServer(t *testing.T) (*Server, *crud.Services) {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	err = db.AutoMigrate(&domain.User{}, &domain.Post{}, &domain.Comment{}, &domain.Like{})
	if err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	services, err := crud.NewServices(
		db,
		crud.WithUser("test-pepper", "test-hmac-key"),
		crud.WithPost(),
		crud.WithComment(),
		crud.WithLike(),
	)
	if err != nil {
		t.Fatalf("creating services: %v", err)
	}
	s := NewServer(false, "32-byte-long-auth-key-for-tests!", services, auth.NewGuard(1), rank.NewService(nil), nil)
	return s, services
}

func TestHandleRegister_IgnoresClientSuppliedID(t *testing.T) {
	t.Parallel()
	s, services := testServer(t)

	body := strings.NewReader(`{"name":"Harry","email":"harry@example.com","password":"correct-horse-battery","id":42}`)
	w := httptest.NewRecorder()
	s.handleRegister(w, httptest.NewRequest("POST", "/register", body))

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusCreated)
	}
	user, err := services.User.ByEmail("harry@example.com")
	if err != nil {
		t.Fatalf("fetching registered user: %v", err)
	}
	if user.ID == 42 {
		t.Error("client picked its own user id")
	}
}

func TestRequireAuth_RedirectsAnonymous(t *testing.T) {
	t.Parallel()
	s, _ := testServer(t)

	called := false
	handler := s.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("POST", "/like/1", nil))

	if called {
		t.Error("wrapped handler ran for an anonymous request")
	}
	if w.Code != http.StatusFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusFound)
	}
	if loc := w.Header().Get("Location"); loc != "/login" {
		t.Errorf("redirect location = %q, want /login", loc)
	}
}

func TestAuthUser_ResolvesCookie(t *testing.T) {
	t.Parallel()
	s, services := testServer(t)

	user := &domain.User{
		Name:     "Harry",
		Email:    "harry@example.com",
		Password: "correct-horse-battery",
	}
	if err := services.User.Create(user); err != nil {
		t.Fatalf("creating user: %v", err)
	}

	var resolved *domain.User
	handler := s.authUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resolved = auth.GetUser(r.Context())
	}))

	t.Run("valid cookie", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/profile", nil)
		req.AddCookie(&http.Cookie{Name: "remember_token", Value: user.Remember})
		handler.ServeHTTP(httptest.NewRecorder(), req)

		if resolved == nil {
			t.Fatal("no user resolved from a valid cookie")
		}
		if resolved.ID != user.ID {
			t.Errorf("resolved user %d, want %d", resolved.ID, user.ID)
		}
	})

	t.Run("garbage cookie stays anonymous", func(t *testing.T) {
		resolved = nil
		req := httptest.NewRequest("GET", "/profile", nil)
		req.AddCookie(&http.Cookie{Name: "remember_token", Value: "bogus"})
		handler.ServeHTTP(httptest.NewRecorder(), req)

		if resolved != nil {
			t.Errorf("garbage cookie resolved to user %d", resolved.ID)
		}
	})

	t.Run("no cookie stays anonymous", func(t *testing.T) {
		resolved = nil
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/posts", nil))

		if resolved != nil {
			t.Errorf("cookieless request resolved to user %d", resolved.ID)
		}
	})
}

func TestHandleDeleteComment_Authorization(t *testing.T) {
	t.Parallel()
	s, services := testServer(t)

	author := &domain.User{Name: "A", Email: "a@example.com", Password: "correct-horse-battery"}
	commenter := &domain.User{Name: "C", Email: "c@example.com", Password: "correct-horse-battery"}
	for _, u := range []*domain.User{author, commenter} {
		if err := services.User.Create(u); err != nil {
			t.Fatalf("creating user: %v", err)
		}
	}
	post := &domain.Post{
		UserID:   author.ID,
		Subtitle: "Svaneti",
		Country:  "Georgia",
		Body:     "Up in the mountains.",
		ImgURL:   "https://unsplash.com/photos/svaneti",
	}
	if err := services.Post.Create(post); err != nil {
		t.Fatalf("creating post: %v", err)
	}
	comment := &domain.Comment{UserID: commenter.ID, PostID: post.ID, Text: "Lovely."}
	if err := services.Comment.Create(comment); err != nil {
		t.Fatalf("creating comment: %v", err)
	}

	// The post's author is not the comment's author, so even as the post
	// owner (and id 1 admin) they may not delete it.
	req := httptest.NewRequest("DELETE", "/comment/1", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "1"})
	req = req.WithContext(auth.SetUser(req.Context(), author))
	w := httptest.NewRecorder()
	s.handleDeleteComment(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", w.Code, http.StatusForbidden)
	}

	// The comment's author may.
	req = httptest.NewRequest("DELETE", "/comment/1", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "1"})
	req = req.WithContext(auth.SetUser(req.Context(), commenter))
	w = httptest.NewRecorder()
	s.handleDeleteComment(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNoContent)
	}
}
