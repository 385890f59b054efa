package service

import (
	"context"
	"strings"
	"testing"

	"socialnet/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn            func(context.Context, *models.Comment) error
	getByIDFn           func(context.Context, uint) (*models.Comment, error)
	listVisibleByPostFn func(context.Context, uint) ([]*models.Comment, error)
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListVisibleByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	return s.listVisibleByPostFn(ctx, postID)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn: func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id}, nil
		},
		listVisibleByPostFn: func(_ context.Context, _ uint) ([]*models.Comment, error) { return nil, nil },
	}
}

func TestCommentService_CreateComment_Validation(t *testing.T) {
	t.Parallel()

	svc := NewCommentService(noopCommentRepo(), noopPostRepo())
	ctx := context.Background()

	tests := []struct {
		name string
		body string
	}{
		{name: "empty body", body: ""},
		{name: "body too long", body: strings.Repeat("x", 10001)},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.CreateComment(ctx, CreateCommentInput{UserID: 1, PostID: 1, Body: tc.body})
			assertValidationError(t, err, "body")
		})
	}
}

func TestCommentService_CreateComment_MissingPost(t *testing.T) {
	t.Parallel()

	postRepo := noopPostRepo()
	postRepo.existsFn = func(_ context.Context, _ uint) (bool, error) { return false, nil }
	svc := NewCommentService(noopCommentRepo(), postRepo)

	_, err := svc.CreateComment(context.Background(), CreateCommentInput{UserID: 1, PostID: 99, Body: "hi"})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCommentService_CreateComment_PersistsAndReloads(t *testing.T) {
	t.Parallel()

	commentRepo := noopCommentRepo()
	var created *models.Comment
	commentRepo.createFn = func(_ context.Context, c *models.Comment) error {
		c.ID = 11
		created = c
		return nil
	}
	commentRepo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
		return &models.Comment{ID: id, Body: "hi", User: models.User{ID: 1, FirstName: "A"}}, nil
	}
	svc := NewCommentService(commentRepo, noopPostRepo())

	comment, err := svc.CreateComment(context.Background(), CreateCommentInput{
		UserID: 1,
		PostID: 4,
		Body:   "hi",
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, uint(4), created.PostID)
	assert.Equal(t, uint(1), created.UserID)
	assert.Equal(t, uint(11), comment.ID)
	assert.Equal(t, "A", comment.User.FirstName, "response carries the author for rendering")
}

func TestCommentService_CreateComment_DisabledPostStillAccepts(t *testing.T) {
	t.Parallel()

	// Existence is checked by bare primary key, so a hidden post still
	// accepts comments.
	postRepo := noopPostRepo()
	postRepo.existsFn = func(_ context.Context, id uint) (bool, error) { return true, nil }
	svc := NewCommentService(noopCommentRepo(), postRepo)

	_, err := svc.CreateComment(context.Background(), CreateCommentInput{UserID: 1, PostID: 5, Body: "hi"})
	assert.NoError(t, err)
}
