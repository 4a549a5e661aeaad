package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fieldvisit/internal/models/request_models"
	"fieldvisit/internal/services"
	"fieldvisit/pkg/utils"
)

type VisitController struct {
	visitService  services.VisitServiceInterface
	reportService services.ReportServiceInterface
}

func NewVisitController(visitService services.VisitServiceInterface, reportService services.ReportServiceInterface) *VisitController {
	return &VisitController{
		visitService:  visitService,
		reportService: reportService,
	}
}

// CreateVisit godoc
// @Summary Schedule a visit
// @Description Create a SCHEDULED visit for an agent at a station
// @Tags Visit
// @Accept json
// @Produce json
// @Param request body request_models.CreateVisitRequest true "Visit details"
// @Success 200 {object} response_models.VisitResponse
// @Security BearerAuth
// @Router /visits [post]
func (v *VisitController) CreateVisit(c *gin.Context) {
	var req request_models.CreateVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "OrganizationID, LocationID, AgentID and ScheduledDate are required")
		return
	}

	visit, err := v.visitService.CreateVisit(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, visit, "Visit scheduled successfully")
}

// ListVisits godoc
// @Summary List visits
// @Description Fetch visits filtered by organization and/or agent, ordered by scheduled date
// @Tags Visit
// @Produce json
// @Param organizationId query string false "Organization ID"
// @Param agentId query string false "Agent ID"
// @Success 200 {array} response_models.VisitResponse
// @Security BearerAuth
// @Router /visits [get]
func (v *VisitController) ListVisits(c *gin.Context) {
	organizationId := c.Query("organizationId")
	agentId := c.Query("agentId")

	visits, err := v.visitService.ListVisits(c.Request.Context(), organizationId, agentId)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, visits, "Visits fetched successfully")
}

func (v *VisitController) GetVisitById(c *gin.Context) {
	visitId := c.Param("visitId")
	if visitId == "" {
		utils.RespondError(c, http.StatusBadRequest, "Visit ID is required")
		return
	}

	visit, err := v.visitService.GetVisitById(c.Request.Context(), visitId)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, visit, "Visit fetched successfully")
}

// UpdateVisitStatus godoc
// @Summary Transition a visit
// @Description Check-in (IN_PROGRESS), reject, or check-out (COMPLETED) a visit. GPS coordinates are mandatory for check-in and check-out.
// @Tags Visit
// @Accept json
// @Produce json
// @Param visitId path string true "Visit ID"
// @Param request body request_models.UpdateVisitStatusRequest true "Target status and auxiliary fields"
// @Success 200 {object} response_models.VisitResponse
// @Failure 409 {object} utils.APIResponse
// @Failure 422 {object} utils.APIResponse
// @Security BearerAuth
// @Router /visits/{visitId}/status [patch]
func (v *VisitController) UpdateVisitStatus(c *gin.Context) {
	visitId := c.Param("visitId")
	if visitId == "" {
		utils.RespondError(c, http.StatusBadRequest, "Visit ID is required")
		return
	}

	var req request_models.UpdateVisitStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Status is required")
		return
	}

	visit, err := v.visitService.UpdateVisitStatus(c.Request.Context(), visitId, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, visit, "Visit status updated successfully")
}

func (v *VisitController) DeleteVisit(c *gin.Context) {
	visitId := c.Param("visitId")
	if visitId == "" {
		utils.RespondError(c, http.StatusBadRequest, "Visit ID is required")
		return
	}

	if err := v.visitService.DeleteScheduledVisit(c.Request.Context(), visitId); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Visit deleted successfully")
}

// DownloadVisitReport streams the rendered inspection report document.
func (v *VisitController) DownloadVisitReport(c *gin.Context) {
	visitId := c.Param("visitId")
	if visitId == "" {
		utils.RespondError(c, http.StatusBadRequest, "Visit ID is required")
		return
	}

	document, filename, err := v.reportService.RenderVisitReport(c.Request.Context(), visitId)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", document)
}
