package crud_test

import (
	"testing"

	"gorm.io/gorm"

	"travelblog/domain"
	"travelblog/errs"
)

func TestLikeService_Toggle(t *testing.T) {
	t.Parallel()

	t.Run("like increments the counter by exactly one", func(t *testing.T) {
		t.Parallel()
		s := testServices(t)
		author := registerUser(t, s, "A", "a@example.com")
		fan := registerUser(t, s, "B", "b@example.com")
		post := createPost(t, s, author, "Svaneti")

		likePost(t, s, fan, post)

		got, err := s.Post.ByID(post.ID)
		if err != nil {
			t.Fatalf("fetch post: %v", err)
		}
		if got.Likes != 1 {
			t.Errorf("likes = %d, want 1", got.Likes)
		}
		likesInSync(t, s, post.ID)
	})

	t.Run("liking twice is rejected and leaves the counter alone", func(t *testing.T) {
		t.Parallel()
		s := testServices(t)
		author := registerUser(t, s, "A", "a@example.com")
		fan := registerUser(t, s, "B", "b@example.com")
		post := createPost(t, s, author, "Svaneti")

		likePost(t, s, fan, post)
		err := s.Like.Create(&domain.Like{UserID: fan.ID, PostID: post.ID})
		if errs.ErrorCode(err) != errs.EFORBIDDEN {
			t.Fatalf("double like: code = %q, want %q", errs.ErrorCode(err), errs.EFORBIDDEN)
		}

		got, _ := s.Post.ByID(post.ID)
		if got.Likes != 1 {
			t.Errorf("likes = %d after rejected double like, want 1", got.Likes)
		}
		likesInSync(t, s, post.ID)
	})

	t.Run("unlike decrements the counter by exactly one", func(t *testing.T) {
		t.Parallel()
		s := testServices(t)
		author := registerUser(t, s, "A", "a@example.com")
		fan := registerUser(t, s, "B", "b@example.com")
		post := createPost(t, s, author, "Svaneti")

		likePost(t, s, fan, post)
		if err := s.Like.Delete(&domain.Like{UserID: fan.ID, PostID: post.ID}); err != nil {
			t.Fatalf("unlike: %v", err)
		}

		got, _ := s.Post.ByID(post.ID)
		if got.Likes != 0 {
			t.Errorf("likes = %d after unlike, want 0", got.Likes)
		}
		likesInSync(t, s, post.ID)
	})

	t.Run("unliking a post that is not liked is rejected", func(t *testing.T) {
		t.Parallel()
		s := testServices(t)
		author := registerUser(t, s, "A", "a@example.com")
		fan := registerUser(t, s, "B", "b@example.com")
		post := createPost(t, s, author, "Svaneti")

		err := s.Like.Delete(&domain.Like{UserID: fan.ID, PostID: post.ID})
		if errs.ErrorCode(err) != errs.EFORBIDDEN {
			t.Fatalf("unlike not-liked: code = %q, want %q", errs.ErrorCode(err), errs.EFORBIDDEN)
		}

		got, _ := s.Post.ByID(post.ID)
		if got.Likes != 0 {
			t.Errorf("likes = %d, want 0 - counter must never go negative", got.Likes)
		}
		likesInSync(t, s, post.ID)
	})

	t.Run("liking a nonexistent post is not found", func(t *testing.T) {
		t.Parallel()
		s := testServices(t)
		fan := registerUser(t, s, "B", "b@example.com")

		err := s.Like.Create(&domain.Like{UserID: fan.ID, PostID: 999})
		if errs.ErrorCode(err) != errs.ENOTFOUND {
			t.Fatalf("like missing post: code = %q, want %q", errs.ErrorCode(err), errs.ENOTFOUND)
		}
	})

	t.Run("counter equals the row count after a longer sequence", func(t *testing.T) {
		t.Parallel()
		s := testServices(t)
		author := registerUser(t, s, "A", "a@example.com")
		b := registerUser(t, s, "B", "b@example.com")
		c := registerUser(t, s, "C", "c@example.com")
		post := createPost(t, s, author, "Svaneti")

		likePost(t, s, b, post)
		likePost(t, s, c, post)
		likePost(t, s, author, post)
		s.Like.Delete(&domain.Like{UserID: b.ID, PostID: post.ID})
		likePost(t, s, b, post)
		s.Like.Delete(&domain.Like{UserID: c.ID, PostID: post.ID})

		got, _ := s.Post.ByID(post.ID)
		if got.Likes != 2 {
			t.Errorf("likes = %d, want 2", got.Likes)
		}
		likesInSync(t, s, post.ID)
	})
}

// Two simultaneous likes on the same pair can both pass validation; the
// unique index lets only one insert through. The loser must surface a
// conflict and leave the counter alone.
func TestLikeService_Create_LosesInsertRace(t *testing.T) {
	t.Parallel()
	s, db := testServicesWithDB(t)
	author := registerUser(t, s, "A", "a@example.com")
	fan := registerUser(t, s, "B", "b@example.com")
	post := createPost(t, s, author, "Svaneti")

	raceLikeInsert(t, db, func(tx *gorm.DB) {
		tx.Create(&domain.Like{UserID: fan.ID, PostID: post.ID})
	})

	err := s.Like.Create(&domain.Like{UserID: fan.ID, PostID: post.ID})
	if errs.ErrorCode(err) != errs.ECONFLICT {
		t.Fatalf("losing like: code = %q, want %q", errs.ErrorCode(err), errs.ECONFLICT)
	}

	got, err := s.Post.ByID(post.ID)
	if err != nil {
		t.Fatalf("fetch post: %v", err)
	}
	if got.Likes != 0 {
		t.Errorf("likes = %d, want 0 - the losing like must not move the counter", got.Likes)
	}
	likesInSync(t, s, post.ID)
}

// If the post is deleted after validation but before the insert, the Like
// row must not be left dangling against a post that no longer exists.
func TestLikeService_Create_PostDeletedMidway(t *testing.T) {
	t.Parallel()
	s, db := testServicesWithDB(t)
	author := registerUser(t, s, "A", "a@example.com")
	fan := registerUser(t, s, "B", "b@example.com")
	post := createPost(t, s, author, "Svaneti")

	raceLikeInsert(t, db, func(tx *gorm.DB) {
		tx.Delete(&domain.Post{}, post.ID)
	})

	err := s.Like.Create(&domain.Like{UserID: fan.ID, PostID: post.ID})
	if errs.ErrorCode(err) != errs.ECONFLICT {
		t.Fatalf("like of vanished post: code = %q, want %q", errs.ErrorCode(err), errs.ECONFLICT)
	}

	if n, err := s.Like.CountByPost(post.ID); err != nil || n != 0 {
		t.Errorf("like rows = %d (err %v), want none left behind", n, err)
	}
	if s.Like.Likes(fan.ID, post.ID) {
		t.Error("Likes() reports true after a rolled back like")
	}
}

func TestLikeService_Likes(t *testing.T) {
	t.Parallel()
	s := testServices(t)
	author := registerUser(t, s, "A", "a@example.com")
	fan := registerUser(t, s, "B", "b@example.com")
	post := createPost(t, s, author, "Svaneti")

	if s.Like.Likes(fan.ID, post.ID) {
		t.Error("Likes() true before liking")
	}
	likePost(t, s, fan, post)
	if !s.Like.Likes(fan.ID, post.ID) {
		t.Error("Likes() false after liking")
	}
}
