package crud

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"travelblog/domain"
	"travelblog/errs"
)

// PostService manages Posts.
// It implements the domain.PostService interface.
type PostService struct {
	postValidator
}

// postValidator runs validations on incoming Post data.
// On success, it passes the data on to postGorm.
// Otherwise, it returns the error of the validation that has failed.
type postValidator struct {
	postGorm
}

// postGorm runs CRUD operations on the database using incoming Post data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type postGorm struct {
	db *gorm.DB
}

// NewPostService returns an instance of PostService.
func NewPostService(db *gorm.DB) *PostService {
	return &PostService{
		postValidator{
			postGorm{
				db: db,
			},
		},
	}
}

// Ensure the PostService struct properly implements the domain.PostService
// interface. If it does not, then this expression becomes invalid and won't compile.
var _ domain.PostService = &PostService{}

// Create runs validations needed for creating new Post database records.
// It stamps the post with its publish date.
func (pv *postValidator) Create(post *domain.Post) error {
	err := runPostValFns(post,
		pv.userIDValid,
		pv.subtitleRequired,
		pv.countryRequired,
		pv.bodyRequired,
		pv.imgURLRequired)
	if err != nil {
		return err
	}
	post.Date = time.Now().Format("January 2, 2006")
	post.Likes = 0
	return pv.postGorm.Create(post)
}

// Update replaces all mutable fields of a post at once and reassigns the
// post to the editor. Partial edits are not supported; a missing field
// fails validation instead of keeping its old value.
func (pv *postValidator) Update(id, editorID int, upd *domain.PostUpdate) (*domain.Post, error) {
	stub := domain.Post{
		UserID:   editorID,
		Subtitle: upd.Subtitle,
		Country:  upd.Country,
		Body:     upd.Body,
		ImgURL:   upd.ImgURL,
	}
	err := runPostValFns(&stub,
		pv.userIDValid,
		pv.subtitleRequired,
		pv.countryRequired,
		pv.bodyRequired,
		pv.imgURLRequired)
	if err != nil {
		return nil, err
	}
	return pv.postGorm.Update(id, editorID, upd)
}

// Delete checks the id and passes it on to postGorm.Delete,
// which removes the post along with its comments and likes.
func (pv *postValidator) Delete(id int) error {
	if id <= 0 {
		return errs.Errorf(errs.EINVALID, "Post ID is invalid.")
	}
	return pv.postGorm.Delete(id)
}

// runPostValFns runs any number of functions of type postValFn on the passed
// in Post object. If none of them returns an error, it returns nil.
// Otherwise, it returns the respective error.
func runPostValFns(post *domain.Post, fns ...postValFn) error {
	for _, fn := range fns {
		if err := fn(post); err != nil {
			return err
		}
	}
	return nil
}

// A postValFn is any function that takes in a pointer to a domain.Post object
// and returns an error.
type postValFn func(post *domain.Post) error

// userIDValid ensures that the author's user id is not empty.
func (pv *postValidator) userIDValid(post *domain.Post) error {
	if post.UserID <= 0 {
		return errs.Errorf(errs.EINVALID, "User ID is required.")
	}
	return nil
}

// subtitleRequired makes sure that the post's subtitle is not empty.
func (pv *postValidator) subtitleRequired(post *domain.Post) error {
	if strings.TrimSpace(post.Subtitle) == "" {
		return errs.Errorf(errs.EINVALID, "A subtitle is required.")
	}
	return nil
}

// countryRequired makes sure that the post's country is not empty.
func (pv *postValidator) countryRequired(post *domain.Post) error {
	if strings.TrimSpace(post.Country) == "" {
		return errs.Errorf(errs.EINVALID, "A country is required.")
	}
	return nil
}

// bodyRequired makes sure that the post's body is not empty.
func (pv *postValidator) bodyRequired(post *domain.Post) error {
	if strings.TrimSpace(post.Body) == "" {
		return errs.Errorf(errs.EINVALID, "The post body must not be empty.")
	}
	return nil
}

// imgURLRequired makes sure that the post's image URL is not empty.
func (pv *postValidator) imgURLRequired(post *domain.Post) error {
	if strings.TrimSpace(post.ImgURL) == "" {
		return errs.Errorf(errs.EINVALID, "An image URL is required.")
	}
	return nil
}

// ByID retrieves a single Post by ID, along with its author and its
// comments, newest first, each with their author.
func (pg *postGorm) ByID(id int) (*domain.Post, error) {
	var post domain.Post
	err := pg.db.
		Preload("User").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at DESC")
		}).
		Preload("Comments.User").
		First(&post, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "The post does not exist.")
		}
		return nil, err
	}
	return &post, nil
}

// AllByPopularity retrieves all posts ordered by their like counter,
// most liked first.
func (pg *postGorm) AllByPopularity() ([]domain.Post, error) {
	var posts []domain.Post
	err := pg.db.
		Preload("User").
		Order("likes DESC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// Create stores the data from the Post object in a new database record.
func (pg *postGorm) Create(post *domain.Post) error {
	if err := pg.db.Create(post).Error; err != nil {
		return err
	}
	return pg.db.Preload("User").First(post, "id = ?", post.ID).Error
}

// Update writes the full set of mutable fields and the new author to the
// post record in a single statement and returns the updated post.
func (pg *postGorm) Update(id, editorID int, upd *domain.PostUpdate) (*domain.Post, error) {
	res := pg.db.Model(&domain.Post{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"user_id":  editorID,
			"subtitle": upd.Subtitle,
			"country":  upd.Country,
			"body":     upd.Body,
			"img_url":  upd.ImgURL,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, errs.Errorf(errs.ENOTFOUND, "The post does not exist.")
	}
	return pg.ByID(id)
}

// Delete removes a post and, in the same transaction, all comments and
// likes attached to it. Either everything goes or nothing does.
func (pg *postGorm) Delete(id int) error {
	err := pg.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&domain.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&domain.Like{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Post{}, id).Error
	})
	if err != nil {
		return errs.Errorf(errs.ECONFLICT, "Could not delete the post.")
	}
	return nil
}
