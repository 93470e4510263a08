package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/legacyapp/legacyapp-api/internal/core/domain"
	"github.com/legacyapp/legacyapp-api/internal/core/ports"
)

type PageHandler struct {
	service ports.PageService
}

func NewPageHandler(service ports.PageService) *PageHandler {
	return &PageHandler{service: service}
}

type createPageRequest struct {
	ProjectID      string   `json:"projectId"      validate:"required,uuid"`
	Title          *string  `json:"title"`
	ScreenshotPath string   `json:"screenshotPath" validate:"required"`
	Order          *int     `json:"order"          validate:"required"`
	PositionX      *float64 `json:"positionX"`
	PositionY      *float64 `json:"positionY"`
}

// updatePageRequest omits projectId: a page never moves between projects.
type updatePageRequest struct {
	Title          *string  `json:"title"`
	ScreenshotPath *string  `json:"screenshotPath"`
	Order          *int     `json:"order"`
	PositionX      *float64 `json:"positionX"`
	PositionY      *float64 `json:"positionY"`
}

// Create handles POST /pages.
//
// @Summary      Create a page
// @Tags         pages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPageRequest  true  "Page"
// @Success      201   {object}  map[string]domain.Page
// @Failure      400   {object}  errorResponse
// @Router       /pages [post]
func (h *PageHandler) Create(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	var req createPageRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	page, err := h.service.Create(c.Request().Context(), caller, ports.CreatePageInput{
		ProjectID:      req.ProjectID,
		Title:          req.Title,
		ScreenshotPath: req.ScreenshotPath,
		Order:          *req.Order,
		PositionX:      req.PositionX,
		PositionY:      req.PositionY,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]any{"page": page})
}

// List handles GET /pages?projectId=.
//
// @Summary      List pages of a project
// @Tags         pages
// @Produce      json
// @Security     BearerAuth
// @Param        projectId  query     string  true  "Project ID"
// @Success      200        {object}  map[string][]domain.Page
// @Failure      400        {object}  errorResponse
// @Router       /pages [get]
func (h *PageHandler) List(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	projectID := c.QueryParam("projectId")
	if projectID == "" {
		return domain.NewValidationError("projectId", "query parameter is required")
	}
	pages, err := h.service.ListByProject(c.Request().Context(), caller, projectID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"pages": pages})
}

// Get handles GET /pages/:id.
//
// @Summary      Get a page
// @Tags         pages
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Page ID"
// @Success      200  {object}  map[string]domain.Page
// @Failure      404  {object}  errorResponse
// @Router       /pages/{id} [get]
func (h *PageHandler) Get(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	page, err := h.service.Get(c.Request().Context(), caller, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"page": page})
}

// Update handles PUT /pages/:id.
//
// @Summary      Update a page
// @Tags         pages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Page ID"
// @Param        body  body      updatePageRequest  true  "Fields to change"
// @Success      200   {object}  map[string]domain.Page
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /pages/{id} [put]
func (h *PageHandler) Update(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	var req updatePageRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	page, err := h.service.Update(c.Request().Context(), caller, c.Param("id"), domain.PagePatch{
		Title:          req.Title,
		ScreenshotPath: req.ScreenshotPath,
		Order:          req.Order,
		PositionX:      req.PositionX,
		PositionY:      req.PositionY,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"page": page})
}

// Delete handles DELETE /pages/:id.
//
// @Summary      Delete a page
// @Tags         pages
// @Security     BearerAuth
// @Param        id   path  string  true  "Page ID"
// @Success      204
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /pages/{id} [delete]
func (h *PageHandler) Delete(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), caller, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
