package auth

import (
	"travelblog/domain"
	"travelblog/errs"
)

// Action is a mutating operation the guard can be asked about.
type Action string

const (
	CreatePost    Action = "create_post"
	EditPost      Action = "edit_post"
	DeletePost    Action = "delete_post"
	AddComment    Action = "add_comment"
	DeleteComment Action = "delete_comment"
	LikePost      Action = "like_post"
	UnlikePost    Action = "unlike_post"
	DeleteAccount Action = "delete_account"
)

// Guard decides whether an acting identity may perform a mutating action
// on a target entity. It holds no state besides the configured admin id,
// so one instance is shared by all requests.
//
// The admin is a configured user id rather than "whoever registered first";
// the default config points it at id 1, which is the same user.
type Guard struct {
	adminID int
}

// NewGuard returns a Guard that treats the user with the given id as admin.
func NewGuard(adminID int) *Guard {
	return &Guard{adminID: adminID}
}

// IsAdmin reports whether the given user is the admin.
func (g *Guard) IsAdmin(user *domain.User) bool {
	return user != nil && user.ID == g.adminID
}

// Can evaluates (user, action, owner of the target) and returns nil to
// allow, or an error to deny. ownerID is the id of the user owning the
// target entity; for create actions it is ignored.
//
// Callers are expected to resolve the target first, so that a missing
// entity surfaces as not-found and a denied one as forbidden - the deny
// never stands in for "does not exist".
func (g *Guard) Can(user *domain.User, action Action, ownerID int) error {
	if user == nil {
		return errs.Errorf(errs.EUNAUTHENTICATED, "You need to log in first.")
	}
	switch action {
	case CreatePost, AddComment, LikePost, UnlikePost:
		// Any signed-in user.
		return nil
	case EditPost, DeletePost:
		if g.IsAdmin(user) || user.ID == ownerID {
			return nil
		}
	case DeleteComment:
		// Author only. The admin has no override here, unlike for posts.
		if user.ID == ownerID {
			return nil
		}
	case DeleteAccount:
		if user.ID == ownerID {
			return nil
		}
	}
	return errs.Errorf(errs.EFORBIDDEN, "You are not allowed to do that.")
}
