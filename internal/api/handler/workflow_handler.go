package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/legacyapp/legacyapp-api/internal/core/domain"
	"github.com/legacyapp/legacyapp-api/internal/core/ports"
)

type WorkflowHandler struct {
	service ports.WorkflowService
}

func NewWorkflowHandler(service ports.WorkflowService) *WorkflowHandler {
	return &WorkflowHandler{service: service}
}

type createWorkflowRequest struct {
	FromPageID string  `json:"fromPageId" validate:"required,uuid"`
	ToPageID   string  `json:"toPageId"   validate:"required,uuid"`
	Label      *string `json:"label"`
}

// Create handles POST /workflows.
//
// @Summary      Link two pages
// @Tags         workflows
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createWorkflowRequest  true  "Workflow"
// @Success      201   {object}  map[string]domain.Workflow
// @Failure      400   {object}  errorResponse
// @Router       /workflows [post]
func (h *WorkflowHandler) Create(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	var req createWorkflowRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	workflow, err := h.service.Create(c.Request().Context(), caller, ports.CreateWorkflowInput{
		FromPageID: req.FromPageID,
		ToPageID:   req.ToPageID,
		Label:      req.Label,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]any{"workflow": workflow})
}

// List handles GET /workflows with exactly one of fromPageId, toPageId or
// projectId; fromPageId wins when several are given.
//
// @Summary      List workflows
// @Tags         workflows
// @Produce      json
// @Security     BearerAuth
// @Param        fromPageId  query     string  false  "Source page ID"
// @Param        toPageId    query     string  false  "Target page ID"
// @Param        projectId   query     string  false  "Project ID"
// @Success      200         {object}  map[string][]domain.Workflow
// @Failure      400         {object}  errorResponse
// @Router       /workflows [get]
func (h *WorkflowHandler) List(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	var workflows []*domain.Workflow
	switch {
	case c.QueryParam("fromPageId") != "":
		workflows, err = h.service.ListByFromPage(ctx, caller, c.QueryParam("fromPageId"))
	case c.QueryParam("toPageId") != "":
		workflows, err = h.service.ListByToPage(ctx, caller, c.QueryParam("toPageId"))
	case c.QueryParam("projectId") != "":
		workflows, err = h.service.ListByProject(ctx, caller, c.QueryParam("projectId"))
	default:
		return domain.NewValidationError("fromPageId", "or toPageId or projectId query parameter is required")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"workflows": workflows})
}

// Get handles GET /workflows/:id.
//
// @Summary      Get a workflow
// @Tags         workflows
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Workflow ID"
// @Success      200  {object}  map[string]domain.Workflow
// @Failure      404  {object}  errorResponse
// @Router       /workflows/{id} [get]
func (h *WorkflowHandler) Get(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	workflow, err := h.service.Get(c.Request().Context(), caller, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"workflow": workflow})
}

// Delete handles DELETE /workflows/:id.
//
// @Summary      Delete a workflow
// @Tags         workflows
// @Security     BearerAuth
// @Param        id   path  string  true  "Workflow ID"
// @Success      204
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /workflows/{id} [delete]
func (h *WorkflowHandler) Delete(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), caller, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
