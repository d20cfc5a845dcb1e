package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kamertour/kamertour/internal/core/domain"
)

type commentInput struct {
	UserName string `json:"user_name"`
	Content  string `json:"content"`
	Rating   int    `json:"rating"`
}

// ListPOICommentsHandler returns the approved comments of a POI.
func ListPOICommentsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		offset, limit := pageParams(c, 20, 100)
		items, total, err := deps.Comments.ListForPOI(c.UserContext(), c.Params("id"), offset, limit)
		if err != nil {
			return respondErr(c, err)
		}
		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: items, Pagination: pg})
	}
}

// CreateCommentHandler adds a comment pending moderation.
func CreateCommentHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in commentInput
		if err := c.BodyParser(&in); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		comment, err := deps.Comments.Add(c.UserContext(), &domain.Comment{
			POIID:    c.Params("id"),
			UserName: in.UserName,
			Content:  in.Content,
			Rating:   in.Rating,
		})
		if err != nil {
			return respondErr(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(comment)
	}
}

// ListCommentsHandler is the moderation view over all comments.
func ListCommentsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		offset, limit := pageParams(c, 20, 100)
		items, total, err := deps.Comments.List(c.UserContext(), domain.CommentFilter{
			POIID:  c.Query("poi_id"),
			Status: domain.CommentStatus(c.Query("status")),
			Query:  c.Query("q"),
			Offset: offset,
			Limit:  limit,
		})
		if err != nil {
			return respondErr(c, err)
		}
		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: items, Pagination: pg})
	}
}

// ApproveCommentHandler publishes a comment.
func ApproveCommentHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		comment, err := deps.Comments.Approve(c.UserContext(), c.Params("id"))
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(comment)
	}
}

// ReportCommentHandler flags a comment.
func ReportCommentHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		comment, err := deps.Comments.Report(c.UserContext(), c.Params("id"))
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(comment)
	}
}

// UpdateCommentHandler edits the text of a comment.
func UpdateCommentHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in commentInput
		if err := c.BodyParser(&in); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		comment, err := deps.Comments.Edit(c.UserContext(), c.Params("id"), in.Content)
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(comment)
	}
}

// DeleteCommentHandler removes a comment.
func DeleteCommentHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.Comments.Delete(c.UserContext(), c.Params("id")); err != nil {
			return respondErr(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
