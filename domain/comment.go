package domain

import (
	"time"
)

// Comment belongs to exactly one User and one Post. Apart from deletion
// it is immutable once created.
type Comment struct {
	ID     int  `json:"id"`
	UserID int  `json:"user_id" gorm:"not null;index"`
	User   User `json:"author"`
	PostID int  `json:"post_id" gorm:"not null;index"`

	Text     string `json:"text" gorm:"type:text;not null"`
	PostedAt string `json:"posted_at" gorm:"size:250;not null"`

	CreatedAt time.Time `json:"created_at"`
}

// CommentService is a set of methods to manipulate and work with the Comment model.
type CommentService interface {
	ByID(id int) (*Comment, error)
	ByPostID(postID int) ([]Comment, error)
	Create(comment *Comment) error
	Delete(comment *Comment) error
}
