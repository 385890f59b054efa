package server

import (
	"socialnet/internal/models"
	"socialnet/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
		Image   string `json:"image,omitempty"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(ctx, service.CreatePostInput{
		UserID:   userID,
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.Image,
	})
	if err != nil {
		return serviceError(c, err, "Post", nil)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPosts handles GET /api/posts
func (s *Server) GetPosts(c *fiber.Ctx) error {
	return s.listPosts(c, nil)
}

// GetOwnerPosts handles GET /api/posts/owner
func (s *Server) GetOwnerPosts(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	return s.listPosts(c, &userID)
}

func (s *Server) listPosts(c *fiber.Ctx, ownerID *uint) error {
	ctx := c.Context()
	page := parsePagination(c, 20)

	result, err := s.postService.ListPosts(ctx, service.ListPostsInput{
		OwnerID:      ownerID,
		SortByRating: c.Query("sort") == "rating",
		Limit:        page.Limit,
		Offset:       page.Offset,
	})
	if err != nil {
		return serviceError(c, err, "Page", page.Offset)
	}

	return paginatedJSON(c, result, page)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(ctx, id, nil)
	if err != nil {
		return serviceError(c, err, "Post", id)
	}

	return c.JSON(post)
}

// GetOwnerPost handles GET /api/posts/:id/owner
func (s *Server) GetOwnerPost(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(ctx, id, &userID)
	if err != nil {
		return serviceError(c, err, "Post", id)
	}

	return c.JSON(post)
}

// UpdatePost handles PUT and PATCH /api/posts/:id.
// Both merge the submitted fields and revalidate; ownership is enforced by
// the owner-scoped requery, so a foreign post answers 404.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c)
	if err != nil {
		return nil
	}

	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
		Image   string `json:"image,omitempty"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(ctx, service.UpdatePostInput{
		UserID:   userID,
		PostID:   postID,
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.Image,
	})
	if err != nil {
		return serviceError(c, err, "Post", postID)
	}

	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c)
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(ctx, userID, postID); err != nil {
		return serviceError(c, err, "Post", postID)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// LikePost handles POST /api/posts/:id/like
func (s *Server) LikePost(c *fiber.Ctx) error {
	ctx := c.Context()
	postID, err := s.parseID(c)
	if err != nil {
		return nil
	}

	post, err := s.postService.Like(ctx, postID)
	if err != nil {
		return serviceError(c, err, "Post", postID)
	}

	return c.JSON(post)
}

// UnlikePost handles POST /api/posts/:id/unlike
func (s *Server) UnlikePost(c *fiber.Ctx) error {
	ctx := c.Context()
	postID, err := s.parseID(c)
	if err != nil {
		return nil
	}

	post, err := s.postService.Unlike(ctx, postID)
	if err != nil {
		return serviceError(c, err, "Post", postID)
	}

	return c.JSON(post)
}
