package domain

import (
	"time"
)

// User is a registered account. The password is only ever held in memory
// while registering or logging in; the database stores its bcrypt hash.
// The remember token works the same way: the cookie carries the raw token,
// the database stores its HMAC hash.
type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email" gorm:"uniqueIndex;size:100;not null"`

	Password     string `json:"password,omitempty" gorm:"-"`
	PasswordHash string `json:"-" gorm:"not null"`
	Remember     string `json:"-" gorm:"-"`
	RememberHash string `json:"-" gorm:"index"`

	Posts    []Post    `json:"posts,omitempty"`
	Comments []Comment `json:"comments,omitempty"`
	Likes    []Like    `json:"likes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserService is a set of methods to manipulate and work with the User model.
type UserService interface {
	ByID(id int) (*User, error)
	ByEmail(email string) (*User, error)
	ByRemember(token string) (*User, error)
	Authenticate(email, password string) (*User, error)
	Create(user *User) error
	Update(user *User) error
	Delete(id int) error
}
