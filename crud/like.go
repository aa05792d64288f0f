package crud

import (
	"errors"

	"gorm.io/gorm"

	"travelblog/domain"
	"travelblog/errs"
)

// LikeService manages Likes. A (user, post) pair is either liked or not;
// liking an already liked post and unliking a not-liked one are both
// rejected, so the post's like counter moves by exactly one per accepted
// transition. The counter is only ever changed in the same transaction as
// the Like row, keeping the two in lockstep.
// It implements the domain.LikeService interface.
type LikeService struct {
	likeValidator
}

// likeValidator runs validations on incoming Like data.
// On success, it passes the data on to likeGorm.
// Otherwise, it returns the error of the validation that has failed.
type likeValidator struct {
	likeGorm
}

// likeGorm runs CRUD operations on the database using incoming Like data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type likeGorm struct {
	db *gorm.DB
}

// NewLikeService returns an instance of LikeService.
func NewLikeService(db *gorm.DB) *LikeService {
	return &LikeService{
		likeValidator{
			likeGorm{
				db: db,
			},
		},
	}
}

// Ensure the LikeService struct properly implements the domain.LikeService
// interface. If it does not, then this expression becomes invalid and won't compile.
var _ domain.LikeService = &LikeService{}

// Create runs validations needed for creating new Like database records.
func (lv *likeValidator) Create(like *domain.Like) error {
	err := runLikeValFns(like,
		lv.userIDValid,
		lv.likedPostExists,
		lv.notAlreadyLiked)
	if err != nil {
		return err
	}
	return lv.likeGorm.Create(like)
}

// Delete runs validations needed for deleting existing Like database records.
func (lv *likeValidator) Delete(like *domain.Like) error {
	err := runLikeValFns(like,
		lv.userIDValid,
		lv.likeExists)
	if err != nil {
		return err
	}
	return lv.likeGorm.Delete(like)
}

// runLikeValFns runs any number of functions of type likeValFn on the passed
// in Like object. If none of them returns an error, it returns nil.
// Otherwise, it returns the respective error.
func runLikeValFns(like *domain.Like, fns ...likeValFn) error {
	for _, fn := range fns {
		if err := fn(like); err != nil {
			return err
		}
	}
	return nil
}

// A likeValFn is any function that takes in a pointer to a domain.Like object
// and returns an error.
type likeValFn func(like *domain.Like) error

// userIDValid ensures that the user id is not empty.
func (lv *likeValidator) userIDValid(like *domain.Like) error {
	if like.UserID <= 0 {
		return errs.Errorf(errs.EINVALID, "User ID is required.")
	}
	return nil
}

// likedPostExists makes sure that the post to be liked actually exists.
func (lv *likeValidator) likedPostExists(like *domain.Like) error {
	var post domain.Post
	err := lv.db.First(&post, "id = ?", like.PostID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.Errorf(errs.ENOTFOUND, "The post does not exist.")
		}
		return err
	}
	return nil
}

// notAlreadyLiked makes sure that the user doesn't already like the post.
func (lv *likeValidator) notAlreadyLiked(like *domain.Like) error {
	var existing domain.Like
	err := lv.db.First(&existing, "user_id = ? AND post_id = ?", like.UserID, like.PostID).Error
	if err == nil {
		return errs.Errorf(errs.EFORBIDDEN, "You already like that post.")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

// likeExists makes sure that the Like record to be deleted actually exists.
func (lv *likeValidator) likeExists(like *domain.Like) error {
	var existing domain.Like
	err := lv.db.First(&existing, "user_id = ? AND post_id = ?", like.UserID, like.PostID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.Errorf(errs.EFORBIDDEN, "You cannot unlike a post you have not liked.")
		}
		return err
	}
	return nil
}

// ByUserAndPost retrieves the Like record for a (user, post) pair.
func (lg *likeGorm) ByUserAndPost(userID, postID int) (*domain.Like, error) {
	var like domain.Like
	err := lg.db.First(&like, "user_id = ? AND post_id = ?", userID, postID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "The like does not exist.")
		}
		return nil, err
	}
	return &like, nil
}

// Likes takes a user ID and a post ID and returns a boolean expressing
// whether the given user likes the given post or not.
func (lg *likeGorm) Likes(userID, postID int) bool {
	err := lg.db.First(&domain.Like{}, "user_id = ? AND post_id = ?", userID, postID).Error
	return err == nil
}

// CountByPost returns the number of Like records referencing a post.
func (lg *likeGorm) CountByPost(postID int) (int, error) {
	var count int64
	err := lg.db.Model(&domain.Like{}).Where("post_id = ?", postID).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// Create inserts the Like row and increments the post's counter in one
// transaction. Two concurrent likes on the same pair both pass validation,
// but the unique index on (user_id, post_id) lets only one insert through;
// the loser rolls back without touching the counter.
func (lg *likeGorm) Create(like *domain.Like) error {
	err := lg.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(like).Error; err != nil {
			return err
		}
		inc := tx.Model(&domain.Post{}).
			Where("id = ?", like.PostID).
			UpdateColumn("likes", gorm.Expr("likes + 1"))
		if inc.Error != nil {
			return inc.Error
		}
		// The post may have been deleted since validation ran; without a
		// counter to move, the Like row must not go in either.
		if inc.RowsAffected == 0 {
			return errs.Errorf(errs.ECONFLICT, "The post does not exist anymore.")
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.Errorf(errs.ECONFLICT, "You already like that post.")
		}
		if errs.ErrorCode(err) != errs.EINTERNAL {
			return err
		}
		return errs.Errorf(errs.ECONFLICT, "Could not like the post.")
	}
	return nil
}

// Delete removes the Like row and decrements the post's counter in one
// transaction. The decrement is guarded so the counter can never drop below
// zero; if it would, the transaction rolls back instead of clamping.
func (lg *likeGorm) Delete(like *domain.Like) error {
	err := lg.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND post_id = ?", like.UserID, like.PostID).Delete(&domain.Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.Errorf(errs.EFORBIDDEN, "You cannot unlike a post you have not liked.")
		}
		dec := tx.Model(&domain.Post{}).
			Where("id = ? AND likes > 0", like.PostID).
			UpdateColumn("likes", gorm.Expr("likes - 1"))
		if dec.Error != nil {
			return dec.Error
		}
		if dec.RowsAffected == 0 {
			return errs.Errorf(errs.ECONFLICT, "Like counter out of sync.")
		}
		return nil
	})
	if err != nil {
		if errs.ErrorCode(err) != errs.EINTERNAL {
			return err
		}
		return errs.Errorf(errs.ECONFLICT, "Could not unlike the post.")
	}
	return nil
}
