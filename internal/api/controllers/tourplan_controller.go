package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fieldvisit/internal/models/request_models"
	"fieldvisit/internal/services"
	"fieldvisit/pkg/utils"
)

type TourPlanController struct {
	tourPlanService services.TourPlanServiceInterface
}

func NewTourPlanController(tourPlanService services.TourPlanServiceInterface) *TourPlanController {
	return &TourPlanController{
		tourPlanService: tourPlanService,
	}
}

// ReconcilePlan godoc
// @Summary Apply a staged tour plan
// @Description Diff the staged plan against the agent's persisted SCHEDULED visits and apply the resulting deletions and additions
// @Tags TourPlan
// @Accept json
// @Produce json
// @Param request body request_models.ReconcilePlanRequest true "Staged plan keyed by date"
// @Success 200 {object} response_models.ReconcileResult
// @Failure 409 {object} utils.APIResponse "Plan partially applied"
// @Security BearerAuth
// @Router /tour-plans/reconcile [post]
func (t *TourPlanController) ReconcilePlan(c *gin.Context) {
	var req request_models.ReconcilePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "OrganizationID, AgentID and Plan are required")
		return
	}

	result, err := t.tourPlanService.ReconcilePlan(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, result, "Tour plan reconciled successfully")
}
