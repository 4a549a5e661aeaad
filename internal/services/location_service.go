package services

import (
	"context"

	"github.com/google/uuid"

	dbm "fieldvisit/internal/models/db_models"
	"fieldvisit/internal/models/request_models"
	"fieldvisit/internal/models/response_models"
	"fieldvisit/internal/repositories"
	"fieldvisit/pkg/utils"
)

type LocationServiceInterface interface {
	CreateLocation(ctx context.Context, req request_models.CreateLocationRequest) (*response_models.LocationResponse, error)
	ListLocations(ctx context.Context, organizationId string) ([]response_models.LocationResponse, error)
}

type LocationService struct {
	locationRepo repositories.LocationRepository
}

func NewLocationService(locationRepo repositories.LocationRepository) LocationServiceInterface {
	return &LocationService{locationRepo: locationRepo}
}

func (s *LocationService) CreateLocation(ctx context.Context, req request_models.CreateLocationRequest) (*response_models.LocationResponse, error) {
	orgId, err := uuid.Parse(req.OrganizationID)
	if err != nil {
		return nil, utils.ErrValidation
	}

	location := &dbm.Location{
		Name:           req.Name,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		Address:        req.Address,
		District:       req.District,
		Block:          req.Block,
		StationType:    req.StationType,
		OrganizationID: orgId,
	}

	if req.AssignedAgentID != "" {
		agentId, err := uuid.Parse(req.AssignedAgentID)
		if err != nil {
			return nil, utils.ErrValidation
		}
		location.AssignedAgentID = &agentId
	}

	if err := s.locationRepo.Create(ctx, location); err != nil {
		return nil, utils.ErrDatabaseError
	}
	return dbm.BuildLocationResponse(location), nil
}

func (s *LocationService) ListLocations(ctx context.Context, organizationId string) ([]response_models.LocationResponse, error) {
	locations, err := s.locationRepo.ListByOrganization(ctx, organizationId)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	out := make([]response_models.LocationResponse, 0, len(locations))
	for i := range locations {
		out = append(out, *dbm.BuildLocationResponse(&locations[i]))
	}
	return out, nil
}
