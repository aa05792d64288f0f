package crud

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"travelblog/domain"
	"travelblog/errs"
)

// CommentService manages Comments.
// It implements the domain.CommentService interface.
type CommentService struct {
	commentValidator
}

// commentValidator runs validations on incoming Comment data.
// On success, it passes the data on to commentGorm.
// Otherwise, it returns the error of the validation that has failed.
type commentValidator struct {
	commentGorm
}

// commentGorm runs CRUD operations on the database using incoming Comment
// data. It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type commentGorm struct {
	db *gorm.DB
}

// NewCommentService returns an instance of CommentService.
func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{
		commentValidator{
			commentGorm{
				db: db,
			},
		},
	}
}

// Ensure the CommentService struct properly implements the
// domain.CommentService interface. If it does not, then this expression
// becomes invalid and won't compile.
var _ domain.CommentService = &CommentService{}

// Create runs validations needed for creating new Comment database records.
// It stamps the comment with its creation time. Comments are immutable
// after this point; there is no update path.
func (cv *commentValidator) Create(comment *domain.Comment) error {
	err := runCommentValFns(comment,
		cv.userIDValid,
		cv.textRequired,
		cv.parentPostExists)
	if err != nil {
		return err
	}
	comment.PostedAt = time.Now().Format("02/01/2006 15:04:05")
	return cv.commentGorm.Create(comment)
}

// Delete runs validations needed for deleting existing Comment database records.
func (cv *commentValidator) Delete(comment *domain.Comment) error {
	if comment.ID <= 0 {
		return errs.Errorf(errs.EINVALID, "Comment ID is invalid.")
	}
	return cv.commentGorm.Delete(comment)
}

// runCommentValFns runs any number of functions of type commentValFn on the
// passed in Comment object. If none of them returns an error, it returns nil.
// Otherwise, it returns the respective error.
func runCommentValFns(comment *domain.Comment, fns ...commentValFn) error {
	for _, fn := range fns {
		if err := fn(comment); err != nil {
			return err
		}
	}
	return nil
}

// A commentValFn is any function that takes in a pointer to a domain.Comment
// object and returns an error.
type commentValFn func(comment *domain.Comment) error

// userIDValid ensures that the author's user id is not empty.
func (cv *commentValidator) userIDValid(comment *domain.Comment) error {
	if comment.UserID <= 0 {
		return errs.Errorf(errs.EINVALID, "User ID is required.")
	}
	return nil
}

// textRequired makes sure that the comment's text is not empty.
func (cv *commentValidator) textRequired(comment *domain.Comment) error {
	if strings.TrimSpace(comment.Text) == "" {
		return errs.Errorf(errs.EINVALID, "The comment must not be empty.")
	}
	return nil
}

// parentPostExists makes sure that the post to be commented on actually exists.
func (cv *commentValidator) parentPostExists(comment *domain.Comment) error {
	var post domain.Post
	err := cv.db.First(&post, "id = ?", comment.PostID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.Errorf(errs.ENOTFOUND, "The post does not exist.")
		}
		return err
	}
	return nil
}

// ByID retrieves a single Comment by ID.
func (cg *commentGorm) ByID(id int) (*domain.Comment, error) {
	var comment domain.Comment
	err := cg.db.First(&comment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "The comment does not exist.")
		}
		return nil, err
	}
	return &comment, nil
}

// ByPostID retrieves all comments of a post, newest first, each with
// their author.
func (cg *commentGorm) ByPostID(postID int) ([]domain.Comment, error) {
	var comments []domain.Comment
	err := cg.db.
		Where("post_id = ?", postID).
		Preload("User").
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// Create stores the data from the Comment object in a new database record.
func (cg *commentGorm) Create(comment *domain.Comment) error {
	if err := cg.db.Create(comment).Error; err != nil {
		return err
	}
	return cg.db.Preload("User").First(comment, "id = ?", comment.ID).Error
}

// Delete permanently removes the comment record from the database.
func (cg *commentGorm) Delete(comment *domain.Comment) error {
	return cg.db.Delete(&domain.Comment{}, comment.ID).Error
}
