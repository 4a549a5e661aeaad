package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	dbm "fieldvisit/internal/models/db_models"
	"fieldvisit/internal/models/request_models"
	"fieldvisit/internal/models/response_models"
	"fieldvisit/internal/repositories"
	"fieldvisit/pkg/geo"
	"fieldvisit/pkg/utils"
)

type VisitServiceInterface interface {
	CreateVisit(ctx context.Context, req request_models.CreateVisitRequest) (*response_models.VisitResponse, error)
	ListVisits(ctx context.Context, organizationId, agentId string) ([]response_models.VisitResponse, error)
	GetVisitById(ctx context.Context, visitId string) (*response_models.VisitResponse, error)
	UpdateVisitStatus(ctx context.Context, visitId string, req request_models.UpdateVisitStatusRequest) (*response_models.VisitResponse, error)
	DeleteScheduledVisit(ctx context.Context, visitId string) error
}

type VisitService struct {
	visitRepo    repositories.VisitRepository
	locationRepo repositories.LocationRepository
	now          func() time.Time
}

func NewVisitService(visitRepo repositories.VisitRepository, locationRepo repositories.LocationRepository) VisitServiceInterface {
	return &VisitService{
		visitRepo:    visitRepo,
		locationRepo: locationRepo,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *VisitService) CreateVisit(ctx context.Context, req request_models.CreateVisitRequest) (*response_models.VisitResponse, error) {
	orgId, err := uuid.Parse(req.OrganizationID)
	if err != nil {
		return nil, utils.ErrValidation
	}
	locId, err := uuid.Parse(req.LocationID)
	if err != nil {
		return nil, utils.ErrValidation
	}
	agentId, err := uuid.Parse(req.AgentID)
	if err != nil {
		return nil, utils.ErrValidation
	}

	scheduled, err := parseScheduledDate(req.ScheduledDate)
	if err != nil {
		return nil, utils.ErrValidation
	}

	// A visit must point at a registered station.
	location, err := s.locationRepo.GetByID(ctx, req.LocationID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if location == nil {
		return nil, utils.ErrLocationNotFound
	}

	visit := &dbm.Visit{
		OrganizationID: orgId,
		LocationID:     locId,
		AgentID:        agentId,
		Status:         dbm.VisitScheduled,
		ScheduledDate:  scheduled,
		Notes:          req.Notes,
	}

	if err := s.visitRepo.Create(ctx, visit); err != nil {
		return nil, utils.ErrDatabaseError
	}
	return dbm.BuildVisitResponse(visit), nil
}

func (s *VisitService) ListVisits(ctx context.Context, organizationId, agentId string) ([]response_models.VisitResponse, error) {
	visits, err := s.visitRepo.List(ctx, organizationId, agentId)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	out := make([]response_models.VisitResponse, 0, len(visits))
	for i := range visits {
		out = append(out, *dbm.BuildVisitResponse(&visits[i]))
	}
	return out, nil
}

func (s *VisitService) GetVisitById(ctx context.Context, visitId string) (*response_models.VisitResponse, error) {
	visit, err := s.visitRepo.GetByID(ctx, visitId)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if visit == nil {
		return nil, utils.ErrVisitNotFound
	}
	return dbm.BuildVisitResponse(visit), nil
}

// UpdateVisitStatus is the only mutation path for a visit after creation.
//
// SCHEDULED -> IN_PROGRESS   needs a check-in GPS fix, stamps check-in
// SCHEDULED -> REJECTED      status only
// IN_PROGRESS -> COMPLETED   needs a check-out GPS fix, stamps check-out,
//                            derives travel distance, persists the report
//
// Replays carrying the token of the already-applied transition return the
// stored visit unchanged.
func (s *VisitService) UpdateVisitStatus(ctx context.Context, visitId string, req request_models.UpdateVisitStatusRequest) (*response_models.VisitResponse, error) {
	target := dbm.VisitStatus(req.Status)
	if !target.Known() {
		return nil, utils.ErrValidation
	}

	visit, err := s.visitRepo.GetByID(ctx, visitId)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if visit == nil {
		return nil, utils.ErrVisitNotFound
	}

	if req.IdempotencyToken != "" && visit.LastActionToken == req.IdempotencyToken {
		return dbm.BuildVisitResponse(visit), nil
	}

	if visit.Status.Terminal() {
		return nil, utils.ErrVisitAlreadyFinal
	}

	switch {
	case visit.Status == dbm.VisitScheduled && target == dbm.VisitInProgress:
		if err := s.applyCheckIn(ctx, visit, req); err != nil {
			return nil, err
		}
	case visit.Status == dbm.VisitScheduled && target == dbm.VisitRejected:
		visit.Status = dbm.VisitRejected
	case visit.Status == dbm.VisitInProgress && target == dbm.VisitCompleted:
		if err := s.applyCheckOut(visit, req); err != nil {
			return nil, err
		}
	default:
		return nil, utils.ErrInvalidTransition
	}

	visit.LastActionToken = req.IdempotencyToken

	rows, err := s.visitRepo.UpdateTransition(ctx, visit, visit.Version)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if rows == 0 {
		return nil, utils.ErrVisitConflict
	}
	visit.Version++

	if visit.Status == dbm.VisitCompleted {
		if err := s.visitRepo.StampLocationVisited(ctx, visit.LocationID, *visit.CheckOutTime); err != nil {
			log.Printf("Failed to stamp last visited for location %s: %v", visit.LocationID, err)
		}
	}

	return dbm.BuildVisitResponse(visit), nil
}

func (s *VisitService) applyCheckIn(ctx context.Context, visit *dbm.Visit, req request_models.UpdateVisitStatusRequest) error {
	if req.CheckInLat == nil || req.CheckInLng == nil {
		return utils.ErrLocationRequired
	}

	inProgress, err := s.visitRepo.CountInProgressByAgent(ctx, visit.AgentID)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if inProgress > 0 {
		return utils.ErrAgentBusy
	}

	now := s.now()
	visit.Status = dbm.VisitInProgress
	visit.CheckInTime = &now
	visit.CheckInLat = req.CheckInLat
	visit.CheckInLng = req.CheckInLng
	return nil
}

func (s *VisitService) applyCheckOut(visit *dbm.Visit, req request_models.UpdateVisitStatusRequest) error {
	if req.CheckOutLat == nil || req.CheckOutLng == nil {
		return utils.ErrLocationRequired
	}

	now := s.now()
	visit.Status = dbm.VisitCompleted
	visit.CheckOutTime = &now
	visit.CheckOutLat = req.CheckOutLat
	visit.CheckOutLng = req.CheckOutLng

	// Always derived server-side; a client-supplied figure is ignored.
	if visit.CheckInLat != nil && visit.CheckInLng != nil {
		dist := geo.Distance(*visit.CheckInLat, *visit.CheckInLng, *req.CheckOutLat, *req.CheckOutLng)
		visit.TravelDistance = &dist
	}

	if req.Notes != nil {
		visit.Notes = *req.Notes
	}
	if req.MediaURLs != nil {
		raw, err := json.Marshal(req.MediaURLs)
		if err != nil {
			return utils.ErrValidation
		}
		visit.MediaURLs = datatypes.JSON(raw)
	}
	if len(req.ReportData) > 0 {
		if !json.Valid(req.ReportData) {
			return utils.ErrValidation
		}
		visit.ReportData = datatypes.JSON(req.ReportData)
	}
	return nil
}

func (s *VisitService) DeleteScheduledVisit(ctx context.Context, visitId string) error {
	visit, err := s.visitRepo.GetByID(ctx, visitId)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if visit == nil {
		return utils.ErrVisitNotFound
	}
	if visit.Status != dbm.VisitScheduled {
		return utils.ErrInvalidTransition
	}

	if err := s.visitRepo.Delete(ctx, visit.ID.String()); err != nil {
		return utils.ErrDatabaseError
	}
	return nil
}

func parseScheduledDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	return utils.ParseDateKey(raw)
}
