package domain

import (
	"time"
)

// Post is a single blog entry. Likes is a plain counter column; it must
// always equal the number of Like rows pointing at the post, which is why
// the like services only ever touch it inside the same transaction as the
// Like row itself.
type Post struct {
	ID     int  `json:"id"`
	UserID int  `json:"user_id" gorm:"not null;index"`
	User   User `json:"author"`

	Subtitle string `json:"subtitle" gorm:"size:250;not null"`
	Country  string `json:"country" gorm:"size:250;not null"`
	Date     string `json:"date" gorm:"size:250;not null"`
	Body     string `json:"body" gorm:"type:text;not null"`
	ImgURL   string `json:"img_url" gorm:"size:250;not null"`
	Likes    int    `json:"likes" gorm:"not null;default:0"`

	Comments []Comment `json:"comments,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostUpdate carries the full set of mutable post fields. Edits replace
// all of them at once; there are no partial updates. An edit also
// reassigns the post to the editing user, which is the only way
// authorship ever changes after creation.
type PostUpdate struct {
	Subtitle string `json:"subtitle"`
	Country  string `json:"country"`
	Body     string `json:"body"`
	ImgURL   string `json:"img_url"`
}

// PostService is a set of methods to manipulate and work with the Post model.
type PostService interface {
	ByID(id int) (*Post, error)
	AllByPopularity() ([]Post, error)
	Create(post *Post) error
	Update(id, editorID int, upd *PostUpdate) (*Post, error)
	Delete(id int) error
}
