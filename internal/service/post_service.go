package service

import (
	"context"
	"strings"
	"unicode"

	"socialnet/internal/cache"
	"socialnet/internal/models"
	"socialnet/internal/repository"

	"github.com/google/uuid"
)

const (
	maxTitleLen   = 200
	maxContentLen = 50000

	// defaultPageSize matches the handler's default page size. Only this
	// exact first page is cached; a page stored for one limit must never
	// answer a request for another.
	defaultPageSize = 20
)

type PostService struct {
	postRepo repository.PostRepository
}

type CreatePostInput struct {
	UserID   uint
	Title    string
	Content  string
	ImageURL string
}

type ListPostsInput struct {
	// OwnerID scopes the list to the caller's own posts when non-nil.
	OwnerID      *uint
	SortByRating bool
	Limit        int
	Offset       int
}

type UpdatePostInput struct {
	UserID   uint
	PostID   uint
	Title    string
	Content  string
	ImageURL string
}

func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

func validatePostFields(title, content string, requireAll bool) error {
	fields := map[string]string{}
	if requireAll && title == "" {
		fields["title"] = "This field is required"
	}
	if len(title) > maxTitleLen {
		fields["title"] = "Title too long (max 200 characters)"
	}
	if requireAll && content == "" {
		fields["content"] = "This field is required"
	}
	if len(content) > maxContentLen {
		fields["content"] = "Content too long (max 50000 characters)"
	}
	if len(fields) > 0 {
		return models.NewFieldValidationError(fields)
	}
	return nil
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := validatePostFields(in.Title, in.Content, true); err != nil {
		return nil, err
	}

	slug, err := s.uniqueSlug(ctx, in.Title)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:    in.Title,
		Slug:     slug,
		Content:  in.Content,
		ImageURL: in.ImageURL,
		UserID:   in.UserID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	// Load user and comment data for the response
	return s.postRepo.GetVisible(ctx, post.ID, nil)
}

// ListPosts returns one page of visible posts. The default-size first
// unscoped, recency-ordered page is served cache-aside since it is the
// hottest read; every other limit reads its exact page from the database.
func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) (*repository.Page, error) {
	opts := repository.ListOptions{
		OwnerID:      in.OwnerID,
		SortByRating: in.SortByRating,
		Limit:        in.Limit,
		Offset:       in.Offset,
	}

	if in.OwnerID == nil && !in.SortByRating && in.Offset == 0 && in.Limit == defaultPageSize {
		var page repository.Page
		err := cache.Aside(ctx, cache.PostsListKey(), &page, cache.ListTTL, func() error {
			fetched, fetchErr := s.postRepo.ListVisible(ctx, opts)
			if fetchErr != nil {
				return fetchErr
			}
			page = *fetched
			return nil
		})
		if err != nil {
			return nil, err
		}
		return &page, nil
	}

	return s.postRepo.ListVisible(ctx, opts)
}

// GetPost fetches one visible post. When ownerID is non-nil the row must
// also belong to that owner; a mismatch surfaces as not-found, never as
// forbidden.
func (s *PostService) GetPost(ctx context.Context, id uint, ownerID *uint) (*models.Post, error) {
	if ownerID == nil {
		var post models.Post
		err := cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, func() error {
			fetched, fetchErr := s.postRepo.GetVisible(ctx, id, nil)
			if fetchErr != nil {
				return fetchErr
			}
			post = *fetched
			return nil
		})
		if err != nil {
			return nil, err
		}
		return &post, nil
	}
	return s.postRepo.GetVisible(ctx, id, ownerID)
}

// Like bumps the like counter of a visible post and returns the updated post.
func (s *PostService) Like(ctx context.Context, id uint) (*models.Post, error) {
	if err := s.postRepo.AddLike(ctx, id); err != nil {
		return nil, err
	}
	return s.postRepo.GetVisible(ctx, id, nil)
}

// Unlike bumps the unlike counter of a visible post and returns the updated post.
func (s *PostService) Unlike(ctx context.Context, id uint) (*models.Post, error) {
	if err := s.postRepo.AddUnlike(ctx, id); err != nil {
		return nil, err
	}
	return s.postRepo.GetVisible(ctx, id, nil)
}

// UpdatePost merges the submitted fields into the caller's post and
// revalidates. Ownership is enforced by the owner-scoped requery: a post
// owned by someone else reads as missing. The slug never changes.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetVisible(ctx, in.PostID, &in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Title != "" {
		post.Title = in.Title
	}
	if in.Content != "" {
		post.Content = in.Content
	}
	if in.ImageURL != "" {
		post.ImageURL = in.ImageURL
	}

	if err := validatePostFields(post.Title, post.Content, true); err != nil {
		return nil, err
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetVisible(ctx, in.PostID, &in.UserID)
}

// DeletePost hard-deletes the caller's post; comments follow via FK cascade.
func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	post, err := s.postRepo.GetVisible(ctx, postID, &userID)
	if err != nil {
		return err
	}
	return s.postRepo.Delete(ctx, post.ID)
}

// uniqueSlug derives the immutable slug from the title, appending a short
// random suffix when the plain form is taken.
func (s *PostService) uniqueSlug(ctx context.Context, title string) (string, error) {
	slug := Slugify(title)

	exists, err := s.postRepo.SlugExists(ctx, slug)
	if err != nil {
		return "", err
	}
	if !exists {
		return slug, nil
	}
	return slug + "-" + uuid.NewString()[:8], nil
}

// Slugify lowercases the title and collapses every non-alphanumeric run
// into a single hyphen.
func Slugify(title string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		slug = "post"
	}
	return slug
}
