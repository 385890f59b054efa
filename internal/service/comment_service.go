package service

import (
	"context"

	"socialnet/internal/models"
	"socialnet/internal/repository"

	"gorm.io/gorm"
)

const maxCommentLen = 10000

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

type CreateCommentInput struct {
	UserID uint
	PostID uint
	Body   string
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
	}
}

// CreateComment validates the body, resolves the target post by bare
// primary key (a disabled post still accepts comments) and persists the
// comment attributed to the acting user.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	fields := map[string]string{}
	if in.Body == "" {
		fields["body"] = "This field is required"
	} else if len(in.Body) > maxCommentLen {
		fields["body"] = "Comment too long (max 10000 characters)"
	}
	if len(fields) > 0 {
		return nil, models.NewFieldValidationError(fields)
	}

	exists, err := s.postRepo.Exists(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, gorm.ErrRecordNotFound
	}

	comment := &models.Comment{
		Body:   in.Body,
		UserID: in.UserID,
		PostID: in.PostID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	return s.commentRepo.GetByID(ctx, comment.ID)
}
