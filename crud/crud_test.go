package crud_test

import (
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"travelblog/crud"
	"travelblog/domain"
)

// testServices opens a throwaway sqlite database in the test's temp dir and
// returns the full set of crud services on top of it.
func testServices(t *testing.T) *crud.Services {
	t.Helper()
	s, _ := testServicesWithDB(t)
	return s
}

// testServicesWithDB also hands back the underlying gorm handle, for tests
// that need to tamper with the database behind the services' back.
func testServicesWithDB(t *testing.T) (*crud.Services, *gorm.DB) {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	err = db.AutoMigrate(
		&domain.User{},
		&domain.Post{},
		&domain.Comment{},
		&domain.Like{},
	)
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
	return services, db
}

// raceLikeInsert registers a one-shot hook that runs inside the like
// service's transaction, right before its own insert. It stands in for a
// concurrent writer committing between validation and insert.
func raceLikeInsert(t *testing.T, db *gorm.DB, fn func(tx *gorm.DB)) {
	t.Helper()
	fired := false
	err := db.Callback().Create().Before("gorm:create").Register("test_race_like_insert", func(tx *gorm.DB) {
		if _, ok := tx.Statement.Dest.(*domain.Like); !ok || fired {
			return
		}
		fired = true
		fn(tx.Session(&gorm.Session{NewDB: true}))
	})
	if err != nil {
		t.Fatalf("registering create hook: %v", err)
	}
}

// registerUser creates a user the way the register endpoint would.
func registerUser(t *testing.T, s *crud.Services, name, email string) *domain.User {
	t.Helper()
	user := &domain.User{
		Name:     name,
		Email:    email,
		Password: "correct-horse-battery",
	}
	if err := s.User.Create(user); err != nil {
		t.Fatalf("creating user %s: %v", email, err)
	}
	return user
}

// createPost stores a post authored by the given user.
func createPost(t *testing.T, s *crud.Services, author *domain.User, subtitle string) *domain.Post {
	t.Helper()
	post := &domain.Post{
		UserID:   author.ID,
		Subtitle: subtitle,
		Country:  "Georgia",
		Body:     "Up in the mountains of Svaneti.",
		ImgURL:   "https://unsplash.com/photos/svaneti",
	}
	if err := s.Post.Create(post); err != nil {
		t.Fatalf("creating post %q: %v", subtitle, err)
	}
	return post
}

// addComment attaches a comment by the given user to the given post.
func addComment(t *testing.T, s *crud.Services, author *domain.User, post *domain.Post, text string) *domain.Comment {
	t.Helper()
	comment := &domain.Comment{
		UserID: author.ID,
		PostID: post.ID,
		Text:   text,
	}
	if err := s.Comment.Create(comment); err != nil {
		t.Fatalf("creating comment %q: %v", text, err)
	}
	return comment
}

// likePost likes the given post as the given user.
func likePost(t *testing.T, s *crud.Services, user *domain.User, post *domain.Post) {
	t.Helper()
	if err := s.Like.Create(&domain.Like{UserID: user.ID, PostID: post.ID}); err != nil {
		t.Fatalf("user %d liking post %d: %v", user.ID, post.ID, err)
	}
}

// likesInSync fails the test if a post's counter has diverged from its
// actual number of like rows.
func likesInSync(t *testing.T, s *crud.Services, postID int) {
	t.Helper()
	post, err := s.Post.ByID(postID)
	if err != nil {
		t.Fatalf("fetching post %d: %v", postID, err)
	}
	count, err := s.Like.CountByPost(postID)
	if err != nil {
		t.Fatalf("counting likes of post %d: %v", postID, err)
	}
	if post.Likes != count {
		t.Fatalf("post %d: counter is %d but there are %d like rows", postID, post.Likes, count)
	}
}
