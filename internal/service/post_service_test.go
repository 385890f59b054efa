package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"socialnet/internal/cache"
	"socialnet/internal/models"
	"socialnet/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn      func(context.Context, *models.Post) error
	slugExistsFn  func(context.Context, string) (bool, error)
	existsFn      func(context.Context, uint) (bool, error)
	getVisibleFn  func(context.Context, uint, *uint) (*models.Post, error)
	listVisibleFn func(context.Context, repository.ListOptions) (*repository.Page, error)
	updateFn      func(context.Context, *models.Post) error
	deleteFn      func(context.Context, uint) error
	addLikeFn     func(context.Context, uint) error
	addUnlikeFn   func(context.Context, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) SlugExists(ctx context.Context, slug string) (bool, error) {
	return s.slugExistsFn(ctx, slug)
}
func (s *postRepoStub) Exists(ctx context.Context, id uint) (bool, error) {
	return s.existsFn(ctx, id)
}
func (s *postRepoStub) GetVisible(ctx context.Context, id uint, ownerID *uint) (*models.Post, error) {
	return s.getVisibleFn(ctx, id, ownerID)
}
func (s *postRepoStub) ListVisible(ctx context.Context, opts repository.ListOptions) (*repository.Page, error) {
	return s.listVisibleFn(ctx, opts)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) AddLike(ctx context.Context, id uint) error {
	return s.addLikeFn(ctx, id)
}
func (s *postRepoStub) AddUnlike(ctx context.Context, id uint) error {
	return s.addUnlikeFn(ctx, id)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:     func(_ context.Context, _ *models.Post) error { return nil },
		slugExistsFn: func(_ context.Context, _ string) (bool, error) { return false, nil },
		existsFn:     func(_ context.Context, _ uint) (bool, error) { return true, nil },
		getVisibleFn: func(_ context.Context, id uint, _ *uint) (*models.Post, error) {
			return &models.Post{ID: id}, nil
		},
		listVisibleFn: func(_ context.Context, _ repository.ListOptions) (*repository.Page, error) {
			return &repository.Page{}, nil
		},
		updateFn:    func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn:    func(_ context.Context, _ uint) error { return nil },
		addLikeFn:   func(_ context.Context, _ uint) error { return nil },
		addUnlikeFn: func(_ context.Context, _ uint) error { return nil },
	}
}

// assertValidationError asserts that err is an AppError with code
// VALIDATION_ERROR carrying a detail for the given field.
func assertValidationError(t *testing.T, err error, field string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	assert.Contains(t, appErr.Fields, field)
}

func TestPostService_CreatePost_Validation(t *testing.T) {
	t.Parallel()

	svc := NewPostService(noopPostRepo())
	ctx := context.Background()

	tests := []struct {
		name  string
		input CreatePostInput
		field string
	}{
		{
			name:  "empty title",
			input: CreatePostInput{UserID: 1, Content: "some content"},
			field: "title",
		},
		{
			name:  "empty content",
			input: CreatePostInput{UserID: 1, Title: "T"},
			field: "content",
		},
		{
			name:  "title too long",
			input: CreatePostInput{UserID: 1, Title: strings.Repeat("x", 201), Content: "c"},
			field: "title",
		},
		{
			name:  "content too long",
			input: CreatePostInput{UserID: 1, Title: "T", Content: strings.Repeat("x", 50001)},
			field: "content",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.CreatePost(ctx, tc.input)
			assertValidationError(t, err, tc.field)
		})
	}
}

func TestPostService_CreatePost_SetsSlugAndOwner(t *testing.T) {
	t.Parallel()

	var created *models.Post
	repo := noopPostRepo()
	repo.createFn = func(_ context.Context, p *models.Post) error {
		p.ID = 42
		created = p
		return nil
	}
	svc := NewPostService(repo)

	post, err := svc.CreatePost(context.Background(), CreatePostInput{
		UserID:  7,
		Title:   "Hello, World! Again",
		Content: "body",
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "hello-world-again", created.Slug)
	assert.Equal(t, uint(7), created.UserID)
	assert.Equal(t, uint(42), post.ID)
}

func TestPostService_CreatePost_SlugCollisionGetsSuffix(t *testing.T) {
	t.Parallel()

	repo := noopPostRepo()
	repo.slugExistsFn = func(_ context.Context, slug string) (bool, error) {
		return slug == "taken-title", nil
	}
	var created *models.Post
	repo.createFn = func(_ context.Context, p *models.Post) error {
		created = p
		return nil
	}
	svc := NewPostService(repo)

	_, err := svc.CreatePost(context.Background(), CreatePostInput{
		UserID:  1,
		Title:   "Taken Title",
		Content: "body",
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.True(t, strings.HasPrefix(created.Slug, "taken-title-"), "slug %q", created.Slug)
	assert.Len(t, created.Slug, len("taken-title-")+8)
}

func TestPostService_ListPosts_PassesOptions(t *testing.T) {
	t.Parallel()

	owner := uint(3)
	var seen repository.ListOptions
	repo := noopPostRepo()
	repo.listVisibleFn = func(_ context.Context, opts repository.ListOptions) (*repository.Page, error) {
		seen = opts
		return &repository.Page{Total: 1, Posts: []*models.Post{{ID: 1}}}, nil
	}
	svc := NewPostService(repo)

	page, err := svc.ListPosts(context.Background(), ListPostsInput{
		OwnerID:      &owner,
		SortByRating: true,
		Limit:        10,
		Offset:       20,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	require.NotNil(t, seen.OwnerID)
	assert.Equal(t, owner, *seen.OwnerID)
	assert.True(t, seen.SortByRating)
	assert.Equal(t, 10, seen.Limit)
	assert.Equal(t, 20, seen.Offset)
}

func TestPostService_ListPosts_EmptyPagePropagatesNotFound(t *testing.T) {
	t.Parallel()

	repo := noopPostRepo()
	repo.listVisibleFn = func(_ context.Context, _ repository.ListOptions) (*repository.Page, error) {
		return nil, gorm.ErrRecordNotFound
	}
	svc := NewPostService(repo)

	_, err := svc.ListPosts(context.Background(), ListPostsInput{Limit: 10, Offset: 100})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestPostService_ListPosts_CachesOnlyDefaultPageSize(t *testing.T) {
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })

	const visible = 10
	calls := 0
	repo := noopPostRepo()
	repo.listVisibleFn = func(_ context.Context, opts repository.ListOptions) (*repository.Page, error) {
		calls++
		n := opts.Limit
		if n > visible {
			n = visible
		}
		posts := make([]*models.Post, n)
		for i := range posts {
			posts[i] = &models.Post{ID: uint(visible - i)}
		}
		return &repository.Page{Posts: posts, Total: visible}, nil
	}
	svc := NewPostService(repo)
	ctx := context.Background()

	// A short first page must not poison reads asking for a full one.
	page, err := svc.ListPosts(ctx, ListPostsInput{Limit: 5, Offset: 0})
	require.NoError(t, err)
	require.Len(t, page.Posts, 5)

	page, err = svc.ListPosts(ctx, ListPostsInput{Limit: 20, Offset: 0})
	require.NoError(t, err)
	assert.Len(t, page.Posts, visible)

	// Only the default-size page is served from cache on repeat.
	calls = 0
	_, err = svc.ListPosts(ctx, ListPostsInput{Limit: 20, Offset: 0})
	require.NoError(t, err)
	assert.Zero(t, calls, "default-size first page should come from cache")

	_, err = svc.ListPosts(ctx, ListPostsInput{Limit: 5, Offset: 0})
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "non-default limit should always hit the repository")
}

func TestPostService_Like_ReturnsRefreshedPost(t *testing.T) {
	t.Parallel()

	repo := noopPostRepo()
	liked := false
	repo.addLikeFn = func(_ context.Context, id uint) error {
		liked = true
		return nil
	}
	repo.getVisibleFn = func(_ context.Context, id uint, _ *uint) (*models.Post, error) {
		return &models.Post{ID: id, LikeCount: 5, Rating: 5}, nil
	}
	svc := NewPostService(repo)

	post, err := svc.Like(context.Background(), 9)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, 5, post.LikeCount)
}

func TestPostService_Like_MissingPost(t *testing.T) {
	t.Parallel()

	repo := noopPostRepo()
	repo.addLikeFn = func(_ context.Context, _ uint) error {
		return gorm.ErrRecordNotFound
	}
	svc := NewPostService(repo)

	_, err := svc.Like(context.Background(), 9)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestPostService_UpdatePost_MergesNonEmptyFields(t *testing.T) {
	t.Parallel()

	repo := noopPostRepo()
	repo.getVisibleFn = func(_ context.Context, id uint, ownerID *uint) (*models.Post, error) {
		require.NotNil(t, ownerID)
		return &models.Post{
			ID:      id,
			UserID:  *ownerID,
			Title:   "old title",
			Slug:    "old-title",
			Content: "old content",
		}, nil
	}
	var updated *models.Post
	repo.updateFn = func(_ context.Context, p *models.Post) error {
		updated = p
		return nil
	}
	svc := NewPostService(repo)

	_, err := svc.UpdatePost(context.Background(), UpdatePostInput{
		UserID: 1,
		PostID: 2,
		Title:  "new title",
	})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "new title", updated.Title)
	assert.Equal(t, "old content", updated.Content, "blank fields keep prior values")
	assert.Equal(t, "old-title", updated.Slug, "slug never changes on update")
}

func TestPostService_UpdatePost_OwnerMismatchReadsAsMissing(t *testing.T) {
	t.Parallel()

	repo := noopPostRepo()
	repo.getVisibleFn = func(_ context.Context, _ uint, _ *uint) (*models.Post, error) {
		return nil, gorm.ErrRecordNotFound
	}
	svc := NewPostService(repo)

	_, err := svc.UpdatePost(context.Background(), UpdatePostInput{
		UserID: 1,
		PostID: 2,
		Title:  "new title",
	})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestPostService_UpdatePost_RevalidatesMergedState(t *testing.T) {
	t.Parallel()

	repo := noopPostRepo()
	repo.getVisibleFn = func(_ context.Context, id uint, _ *uint) (*models.Post, error) {
		return &models.Post{ID: id, Title: "t", Content: "c"}, nil
	}
	svc := NewPostService(repo)

	_, err := svc.UpdatePost(context.Background(), UpdatePostInput{
		UserID: 1,
		PostID: 2,
		Title:  strings.Repeat("x", 201),
	})
	assertValidationError(t, err, "title")
}

func TestPostService_DeletePost(t *testing.T) {
	t.Parallel()

	t.Run("owner can delete", func(t *testing.T) {
		t.Parallel()
		repo := noopPostRepo()
		var deleted uint
		repo.deleteFn = func(_ context.Context, id uint) error {
			deleted = id
			return nil
		}
		svc := NewPostService(repo)
		err := svc.DeletePost(context.Background(), 1, 5)
		require.NoError(t, err)
		assert.Equal(t, uint(5), deleted)
	})

	t.Run("non-owner reads as missing", func(t *testing.T) {
		t.Parallel()
		repo := noopPostRepo()
		repo.getVisibleFn = func(_ context.Context, _ uint, _ *uint) (*models.Post, error) {
			return nil, gorm.ErrRecordNotFound
		}
		deleteCalled := false
		repo.deleteFn = func(_ context.Context, _ uint) error {
			deleteCalled = true
			return nil
		}
		svc := NewPostService(repo)
		err := svc.DeletePost(context.Background(), 1, 5)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
		assert.False(t, deleteCalled)
	})
}

func TestSlugify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"  Spaces   everywhere  ", "spaces-everywhere"},
		{"Already-hyphenated title", "already-hyphenated-title"},
		{"MiXeD CaSe 123", "mixed-case-123"},
		{"!!!", "post"},
		{"", "post"},
		{"trailing punctuation!", "trailing-punctuation"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, Slugify(tc.in), "input %q", tc.in)
	}
}
