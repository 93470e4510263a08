package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/legacyapp/legacyapp-api/internal/core/domain"
	"github.com/legacyapp/legacyapp-api/internal/core/ports"
)

type CommentHandler struct {
	service ports.CommentService
}

func NewCommentHandler(service ports.CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

type createCommentRequest struct {
	PageID  string `json:"pageId"  validate:"required,uuid"`
	Content string `json:"content" validate:"required"`
}

// Create handles POST /comments. The author is the authenticated caller.
//
// @Summary      Comment on a page
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createCommentRequest  true  "Comment"
// @Success      201   {object}  map[string]domain.Comment
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /comments [post]
func (h *CommentHandler) Create(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	var req createCommentRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	comment, err := h.service.Create(c.Request().Context(), caller, req.PageID, req.Content)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]any{"comment": comment})
}

// List handles GET /comments?pageId=.
//
// @Summary      List comments of a page
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        pageId  query     string  true  "Page ID"
// @Success      200     {object}  map[string][]domain.Comment
// @Failure      400     {object}  errorResponse
// @Router       /comments [get]
func (h *CommentHandler) List(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	pageID := c.QueryParam("pageId")
	if pageID == "" {
		return domain.NewValidationError("pageId", "query parameter is required")
	}
	comments, err := h.service.ListByPage(c.Request().Context(), caller, pageID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"comments": comments})
}

// Get handles GET /comments/:id.
//
// @Summary      Get a comment
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Comment ID"
// @Success      200  {object}  map[string]domain.Comment
// @Failure      404  {object}  errorResponse
// @Router       /comments/{id} [get]
func (h *CommentHandler) Get(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	comment, err := h.service.Get(c.Request().Context(), caller, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"comment": comment})
}

// Delete handles DELETE /comments/:id.
//
// @Summary      Delete a comment
// @Tags         comments
// @Security     BearerAuth
// @Param        id   path  string  true  "Comment ID"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /comments/{id} [delete]
func (h *CommentHandler) Delete(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), caller, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
