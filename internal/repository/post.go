// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"time"

	"socialnet/internal/cache"
	"socialnet/internal/middleware"
	"socialnet/internal/models"

	"gorm.io/gorm"
)

// ListOptions narrows and orders a post page query.
type ListOptions struct {
	// OwnerID scopes the page to a single author when non-nil.
	OwnerID *uint
	// SortByRating orders by rating desc with id desc as tie-break;
	// otherwise the page is in reverse-insertion order.
	SortByRating bool
	Limit        int
	Offset       int
}

// Page is one page of visible posts plus the total match count for the envelope.
type Page struct {
	Posts []*models.Post
	Total int64
}

// PostRepository defines the interface for post data operations.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	SlugExists(ctx context.Context, slug string) (bool, error)
	// Exists reports bare row existence, ignoring the is_disable flag.
	Exists(ctx context.Context, id uint) (bool, error)
	GetVisible(ctx context.Context, id uint, ownerID *uint) (*models.Post, error)
	ListVisible(ctx context.Context, opts ListOptions) (*Page, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	AddLike(ctx context.Context, id uint) error
	AddUnlike(ctx context.Context, id uint) error
}

// postRepository implements PostRepository.
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).Create(post).Error
	if err == nil {
		cache.InvalidatePostsList(ctx)
	}
	return err
}

func (r *postRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("slug = ?", slug).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *postRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// withPostDetails attaches the bounded eager loads for the read paths: the
// owning user's names and profile image, and the non-disabled comments with
// their own user's names and profile image.
func withPostDetails(db *gorm.DB) *gorm.DB {
	userFields := func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "first_name", "last_name")
	}
	profileFields := func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "user_id", "image")
	}
	return db.
		Preload("User", userFields).
		Preload("User.Profile", profileFields).
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_disable = ?", false).Order("comments.id")
		}).
		Preload("Comments.User", userFields).
		Preload("Comments.User.Profile", profileFields)
}

func (r *postRepository) GetVisible(ctx context.Context, id uint, ownerID *uint) (*models.Post, error) {
	q := withPostDetails(r.db.WithContext(ctx)).
		Where("is_disable = ?", false).
		Where("id = ?", id)
	if ownerID != nil {
		q = q.Where("user_id = ?", *ownerID)
	}

	var post models.Post
	if err := q.First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// ListVisible pages in two phases: the matching ordered primary keys are
// selected with limit/offset first, then the related rows are batch-fetched
// for exactly that page, so the eager-load cost is bounded by the page size.
// An empty page reports gorm.ErrRecordNotFound.
func (r *postRepository) ListVisible(ctx context.Context, opts ListOptions) (*Page, error) {
	base := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("is_disable = ?", false)
	if opts.OwnerID != nil {
		base = base.Where("user_id = ?", *opts.OwnerID)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	order := "id DESC"
	if opts.SortByRating {
		order = "rating DESC, id DESC"
	}

	var ids []uint
	if err := base.Session(&gorm.Session{}).
		Order(order).
		Limit(opts.Limit).
		Offset(opts.Offset).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var posts []*models.Post
	if err := withPostDetails(r.db.WithContext(ctx)).
		Where("id IN ?", ids).
		Order(order).
		Find(&posts).Error; err != nil {
		return nil, err
	}

	return &Page{Posts: posts, Total: total}, nil
}

// Update writes only the author-editable columns. The counters and rating
// are owned by bumpCounter; writing them back from a row read earlier would
// revert bumps that landed in between.
func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", post.ID).
		Updates(map[string]interface{}{
			"title":      post.Title,
			"content":    post.Content,
			"image_url":  post.ImageURL,
			"updated_at": time.Now(),
		}).Error
	if err != nil {
		return err
	}
	cache.InvalidatePost(ctx, post.ID)
	cache.InvalidatePostsList(ctx)
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Post{}, id).Error; err != nil {
		return err
	}
	cache.InvalidatePost(ctx, id)
	cache.InvalidatePostsList(ctx)
	return nil
}

func (r *postRepository) AddLike(ctx context.Context, id uint) error {
	return r.bumpCounter(ctx, id, "like")
}

func (r *postRepository) AddUnlike(ctx context.Context, id uint) error {
	return r.bumpCounter(ctx, id, "unlike")
}

// bumpCounter increments one counter and recomputes the rating in a single
// database-level UPDATE. Concurrent calls cannot lose updates because the
// arithmetic happens inside the statement, not in application memory.
func (r *postRepository) bumpCounter(ctx context.Context, id uint, kind string) error {
	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	switch kind {
	case "like":
		updates["like_count"] = gorm.Expr("like_count + 1")
		updates["rating"] = gorm.Expr("like_count + 1 - unlike_count")
	case "unlike":
		updates["unlike_count"] = gorm.Expr("unlike_count + 1")
		updates["rating"] = gorm.Expr("like_count - unlike_count - 1")
	}

	res := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ? AND is_disable = ?", id, false).
		UpdateColumns(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	middleware.PostCounterUpdates.WithLabelValues(kind).Inc()
	cache.InvalidatePost(ctx, id)
	cache.InvalidatePostsList(ctx)
	return nil
}
