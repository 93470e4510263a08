package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/legacyapp/legacyapp-api/internal/core/domain"
	"github.com/legacyapp/legacyapp-api/internal/core/ports"
)

type AssignmentHandler struct {
	service ports.AssignmentService
}

func NewAssignmentHandler(service ports.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{service: service}
}

type createAssignmentRequest struct {
	ProjectID string `json:"projectId" validate:"required,uuid"`
	UserID    string `json:"userId"    validate:"required,uuid"`
}

// Create handles POST /assignments.
//
// @Summary      Add a user to a project team
// @Tags         assignments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createAssignmentRequest  true  "Assignment"
// @Success      201   {object}  map[string]domain.ProjectAssignment
// @Failure      400   {object}  errorResponse
// @Router       /assignments [post]
func (h *AssignmentHandler) Create(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	var req createAssignmentRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	assignment, err := h.service.Create(c.Request().Context(), caller, req.ProjectID, req.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]any{"assignment": assignment})
}

// List handles GET /assignments?projectId= or ?userId=.
//
// @Summary      List assignments
// @Tags         assignments
// @Produce      json
// @Security     BearerAuth
// @Param        projectId  query     string  false  "Project ID"
// @Param        userId     query     string  false  "User ID"
// @Success      200        {object}  map[string][]domain.ProjectAssignment
// @Failure      400        {object}  errorResponse
// @Router       /assignments [get]
func (h *AssignmentHandler) List(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	var assignments []*domain.ProjectAssignment
	switch {
	case c.QueryParam("projectId") != "":
		assignments, err = h.service.ListByProject(ctx, caller, c.QueryParam("projectId"))
	case c.QueryParam("userId") != "":
		assignments, err = h.service.ListByUser(ctx, caller, c.QueryParam("userId"))
	default:
		return domain.NewValidationError("projectId", "or userId query parameter is required")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"assignments": assignments})
}

// Get handles GET /assignments/:id.
//
// @Summary      Get an assignment
// @Tags         assignments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Assignment ID"
// @Success      200  {object}  map[string]domain.ProjectAssignment
// @Failure      404  {object}  errorResponse
// @Router       /assignments/{id} [get]
func (h *AssignmentHandler) Get(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	assignment, err := h.service.Get(c.Request().Context(), caller, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"assignment": assignment})
}

// Delete handles DELETE /assignments/:id.
//
// @Summary      Remove a user from a project team
// @Tags         assignments
// @Security     BearerAuth
// @Param        id   path  string  true  "Assignment ID"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /assignments/{id} [delete]
func (h *AssignmentHandler) Delete(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), caller, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
