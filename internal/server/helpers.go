package server

import (
	"errors"
	"fmt"

	"socialnet/internal/models"
	"socialnet/internal/repository"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

const maxPaginationLimit = 100

// parsePagination extracts limit and offset query parameters with the given default limit.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	return Pagination{
		Limit:  limit,
		Offset: offset,
	}
}

// parseID extracts the :id route parameter as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid ID"))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// listEnvelope is the pagination envelope wrapped around list responses.
type listEnvelope struct {
	Count    int64          `json:"count"`
	Next     *string        `json:"next"`
	Previous *string        `json:"previous"`
	Results  []*models.Post `json:"results"`
}

// paginatedJSON writes a post page in the pagination envelope with absolute
// next/previous links.
func paginatedJSON(c *fiber.Ctx, page *repository.Page, p Pagination) error {
	env := listEnvelope{
		Count:   page.Total,
		Results: page.Posts,
	}

	if int64(p.Offset+p.Limit) < page.Total {
		next := pageURL(c, p.Limit, p.Offset+p.Limit)
		env.Next = &next
	}
	if p.Offset > 0 {
		prevOffset := p.Offset - p.Limit
		if prevOffset < 0 {
			prevOffset = 0
		}
		prev := pageURL(c, p.Limit, prevOffset)
		env.Previous = &prev
	}

	return c.JSON(env)
}

func pageURL(c *fiber.Ctx, limit, offset int) string {
	u := fmt.Sprintf("%s%s?limit=%d&offset=%d", c.BaseURL(), c.Path(), limit, offset)
	if sort := c.Query("sort"); sort != "" {
		u += "&sort=" + sort
	}
	return u
}

// serviceError maps service/repository failures onto the HTTP taxonomy:
// missing or invisible rows (owner mismatches included) are 404, validation
// failures 400, everything else 500.
func serviceError(c *fiber.Ctx, err error, resource string, id any) error {
	var appErr *models.AppError
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError(resource, id))
	case errors.As(err, &appErr):
		status := fiber.StatusInternalServerError
		switch appErr.Code {
		case "VALIDATION_ERROR":
			status = fiber.StatusBadRequest
		case "UNAUTHORIZED":
			status = fiber.StatusUnauthorized
		case "NOT_FOUND":
			status = fiber.StatusNotFound
		}
		return models.RespondWithError(c, status, appErr)
	default:
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
}
