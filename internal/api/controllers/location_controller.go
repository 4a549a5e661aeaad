package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fieldvisit/internal/models/request_models"
	"fieldvisit/internal/services"
	"fieldvisit/pkg/utils"
)

type LocationController struct {
	locationService services.LocationServiceInterface
}

func NewLocationController(locationService services.LocationServiceInterface) *LocationController {
	return &LocationController{
		locationService: locationService,
	}
}

// CreateLocation godoc
// @Summary Register a station
// @Tags Location
// @Accept json
// @Produce json
// @Param request body request_models.CreateLocationRequest true "Station details"
// @Success 200 {object} response_models.LocationResponse
// @Security BearerAuth
// @Router /locations [post]
func (l *LocationController) CreateLocation(c *gin.Context) {
	var req request_models.CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Name, coordinates and OrganizationID are required")
		return
	}

	location, err := l.locationService.CreateLocation(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, location, "Location created successfully")
}

func (l *LocationController) ListLocations(c *gin.Context) {
	organizationId := c.Query("organizationId")

	locations, err := l.locationService.ListLocations(c.Request.Context(), organizationId)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, locations, "Locations fetched successfully")
}
