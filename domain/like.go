package domain

import (
	"time"
)

// Like represents a many-to-many relationship between a User and a Post.
// Its presence is the source of truth for "has this user liked this post".
// The composite unique index serializes concurrent likes on the same pair:
// the second insert fails instead of double-counting.
type Like struct {
	ID     int `json:"id"`
	UserID int `json:"user_id" gorm:"not null;uniqueIndex:idx_like_user_post"`
	PostID int `json:"post_id" gorm:"not null;uniqueIndex:idx_like_user_post"`

	CreatedAt time.Time `json:"created_at"`
}

// LikeService is a set of methods to manipulate and work with the Like model.
type LikeService interface {
	ByUserAndPost(userID, postID int) (*Like, error)
	Likes(userID, postID int) bool
	CountByPost(postID int) (int, error)
	Create(like *Like) error
	Delete(like *Like) error
}
