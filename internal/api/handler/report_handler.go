package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/legacyapp/legacyapp-api/internal/core/domain"
	"github.com/legacyapp/legacyapp-api/internal/core/ports"
)

type ReportHandler struct {
	service ports.ReportService
}

func NewReportHandler(service ports.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

type createReportRequest struct {
	ProjectID string `json:"projectId" validate:"required,uuid"`
}

// Create handles POST /reports. The PDF is rendered in the background; the
// returned filePath is where it will appear.
//
// @Summary      Generate a project report
// @Tags         reports
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createReportRequest  true  "Report request"
// @Success      201   {object}  map[string]domain.PDFReport
// @Failure      400   {object}  errorResponse
// @Router       /reports [post]
func (h *ReportHandler) Create(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	var req createReportRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	report, err := h.service.Generate(c.Request().Context(), caller, req.ProjectID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]any{"report": report})
}

// List handles GET /reports?projectId=.
//
// @Summary      List reports of a project
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        projectId  query     string  true  "Project ID"
// @Success      200        {object}  map[string][]domain.PDFReport
// @Failure      400        {object}  errorResponse
// @Router       /reports [get]
func (h *ReportHandler) List(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	projectID := c.QueryParam("projectId")
	if projectID == "" {
		return domain.NewValidationError("projectId", "query parameter is required")
	}
	reports, err := h.service.ListByProject(c.Request().Context(), caller, projectID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"reports": reports})
}

// Get handles GET /reports/:id.
//
// @Summary      Get a report
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Report ID"
// @Success      200  {object}  map[string]domain.PDFReport
// @Failure      404  {object}  errorResponse
// @Router       /reports/{id} [get]
func (h *ReportHandler) Get(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	report, err := h.service.Get(c.Request().Context(), caller, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"report": report})
}

// Delete handles DELETE /reports/:id.
//
// @Summary      Delete a report record
// @Tags         reports
// @Security     BearerAuth
// @Param        id   path  string  true  "Report ID"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /reports/{id} [delete]
func (h *ReportHandler) Delete(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), caller, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
