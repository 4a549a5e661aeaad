package services

import (
	"context"
	"sort"

	"github.com/google/uuid"

	dbm "fieldvisit/internal/models/db_models"
	"fieldvisit/internal/models/request_models"
	"fieldvisit/internal/models/response_models"
	"fieldvisit/internal/repositories"
	"fieldvisit/pkg/utils"
)

type TourPlanServiceInterface interface {
	ReconcilePlan(ctx context.Context, req request_models.ReconcilePlanRequest) (*response_models.ReconcileResult, error)
}

type TourPlanService struct {
	visitRepo repositories.VisitRepository
}

func NewTourPlanService(visitRepo repositories.VisitRepository) TourPlanServiceInterface {
	return &TourPlanService{visitRepo: visitRepo}
}

// planEntry is one (date, station) pair of a staged plan.
type planEntry struct {
	dateKey    string
	locationId string
}

// ReconcilePlan aligns the agent's persisted SCHEDULED visits with the
// staged plan: visits absent from the plan are deleted, planned pairs
// without a visit are created. Pairs present on both sides are untouched.
//
// Deletions run before additions; the two key sets are disjoint so the
// order only avoids duplicate-key collisions. There is no transaction
// around the two phases: a failure mid-apply surfaces as a
// PartialReconciliationError so the client knows to re-sync.
func (s *TourPlanService) ReconcilePlan(ctx context.Context, req request_models.ReconcilePlanRequest) (*response_models.ReconcileResult, error) {
	orgId, err := uuid.Parse(req.OrganizationID)
	if err != nil {
		return nil, utils.ErrValidation
	}
	agentId, err := uuid.Parse(req.AgentID)
	if err != nil {
		return nil, utils.ErrValidation
	}
	for dateKey := range req.Plan {
		if _, err := utils.ParseDateKey(dateKey); err != nil {
			return nil, utils.ErrValidation
		}
	}

	persisted, err := s.visitRepo.ListScheduledByAgent(ctx, agentId)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	deletions, additions := diffPlan(req.Plan, persisted)

	result := &response_models.ReconcileResult{}

	for _, visit := range deletions {
		if err := s.visitRepo.Delete(ctx, visit.ID.String()); err != nil {
			return nil, &utils.PartialReconciliationError{
				Deleted: result.Removed,
				Added:   result.Added,
				Err:     err,
			}
		}
		result.Removed++
	}

	for _, entry := range additions {
		locId, err := uuid.Parse(entry.locationId)
		if err != nil {
			return nil, utils.ErrValidation
		}
		scheduled, _ := utils.ParseDateKey(entry.dateKey)

		visit := &dbm.Visit{
			OrganizationID: orgId,
			LocationID:     locId,
			AgentID:        agentId,
			Status:         dbm.VisitScheduled,
			ScheduledDate:  scheduled,
			Notes:          "Planned via tour plan",
		}
		if err := s.visitRepo.Create(ctx, visit); err != nil {
			return nil, &utils.PartialReconciliationError{
				Deleted: result.Removed,
				Added:   result.Added,
				Err:     err,
			}
		}
		result.Added++
	}

	return result, nil
}

// diffPlan computes the visit deletions and creations needed to make the
// persisted SCHEDULED visits match the staged plan. The diff key is the
// (date, locationId) pair, unique within a plan.
func diffPlan(staged map[string][]string, persisted []dbm.Visit) ([]dbm.Visit, []planEntry) {
	stagedSet := make(map[planEntry]bool)
	for dateKey, locationIds := range staged {
		for _, locationId := range locationIds {
			stagedSet[planEntry{dateKey: dateKey, locationId: locationId}] = true
		}
	}

	persistedSet := make(map[planEntry]bool, len(persisted))
	var deletions []dbm.Visit
	for _, visit := range persisted {
		key := planEntry{
			dateKey:    utils.DateKey(visit.ScheduledDate),
			locationId: visit.LocationID.String(),
		}
		persistedSet[key] = true
		if !stagedSet[key] {
			deletions = append(deletions, visit)
		}
	}

	var additions []planEntry
	for key := range stagedSet {
		if !persistedSet[key] {
			additions = append(additions, key)
		}
	}
	sort.Slice(additions, func(i, j int) bool {
		if additions[i].dateKey != additions[j].dateKey {
			return additions[i].dateKey < additions[j].dateKey
		}
		return additions[i].locationId < additions[j].locationId
	})

	return deletions, additions
}
