package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	dbm "fieldvisit/internal/models/db_models"
	"fieldvisit/internal/models/request_models"
	"fieldvisit/pkg/utils"
)

func plannedVisit(agentId, locationId uuid.UUID, day time.Time) *dbm.Visit {
	return &dbm.Visit{
		BaseModel:      dbm.BaseModel{ID: uuid.New()},
		OrganizationID: uuid.New(),
		LocationID:     locationId,
		AgentID:        agentId,
		Status:         dbm.VisitScheduled,
		ScheduledDate:  day,
	}
}

func TestReconcilePlan_DiffKeepsUnchangedPairs(t *testing.T) {
	agentId := uuid.New()
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	locA := uuid.New()
	locB := uuid.New()
	locC := uuid.New()

	visitA := plannedVisit(agentId, locA, day)
	visitB := plannedVisit(agentId, locB, day)
	repo := newFakeVisitRepo(visitA, visitB)
	svc := NewTourPlanService(repo)

	result, err := svc.ReconcilePlan(context.Background(), request_models.ReconcilePlanRequest{
		OrganizationID: uuid.New().String(),
		AgentID:        agentId.String(),
		Plan: map[string][]string{
			"2024-01-01": {locB.String(), locC.String()},
		},
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, result.Removed)
	assert.Equal(t, 1, result.Added)

	// A is gone, B untouched, C created.
	assert.Equal(t, []string{visitA.ID.String()}, repo.deleted)
	assert.Len(t, repo.created, 1)
	assert.Equal(t, locC, repo.created[0].LocationID)
	assert.Equal(t, day, repo.created[0].ScheduledDate)

	stored := repo.visits[visitB.ID]
	assert.Equal(t, dbm.VisitScheduled, stored.Status)
}

func TestReconcilePlan_InProgressVisitsNotTouched(t *testing.T) {
	agentId := uuid.New()
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	started := plannedVisit(agentId, uuid.New(), day)
	started.Status = dbm.VisitInProgress

	repo := newFakeVisitRepo(started)
	svc := NewTourPlanService(repo)

	result, err := svc.ReconcilePlan(context.Background(), request_models.ReconcilePlanRequest{
		OrganizationID: uuid.New().String(),
		AgentID:        agentId.String(),
		Plan:           map[string][]string{},
	})

	assert.NoError(t, err)
	assert.Equal(t, 0, result.Removed)
	assert.Empty(t, repo.deleted)
}

func TestReconcilePlan_PartialApplyIsSurfaced(t *testing.T) {
	agentId := uuid.New()
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	visitA := plannedVisit(agentId, uuid.New(), day)

	repo := newFakeVisitRepo(visitA)
	repo.createErr = errors.New("connection reset")
	svc := NewTourPlanService(repo)

	_, err := svc.ReconcilePlan(context.Background(), request_models.ReconcilePlanRequest{
		OrganizationID: uuid.New().String(),
		AgentID:        agentId.String(),
		Plan: map[string][]string{
			"2024-01-02": {uuid.New().String()},
		},
	})

	var partial *utils.PartialReconciliationError
	assert.ErrorAs(t, err, &partial)
	assert.Equal(t, 1, partial.Deleted)
	assert.Equal(t, 0, partial.Added)
}

func TestReconcilePlan_RejectsBadDateKey(t *testing.T) {
	repo := newFakeVisitRepo()
	svc := NewTourPlanService(repo)

	_, err := svc.ReconcilePlan(context.Background(), request_models.ReconcilePlanRequest{
		OrganizationID: uuid.New().String(),
		AgentID:        uuid.New().String(),
		Plan: map[string][]string{
			"01/02/2024": {uuid.New().String()},
		},
	})

	assert.ErrorIs(t, err, utils.ErrValidation)
}

func TestDiffPlan_EmptyPlanDeletesEverything(t *testing.T) {
	agentId := uuid.New()
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	visits := []dbm.Visit{
		*plannedVisit(agentId, uuid.New(), day),
		*plannedVisit(agentId, uuid.New(), day.AddDate(0, 0, 1)),
	}

	deletions, additions := diffPlan(map[string][]string{}, visits)
	assert.Len(t, deletions, 2)
	assert.Empty(t, additions)
}
