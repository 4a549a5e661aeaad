package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	dbm "fieldvisit/internal/models/db_models"
	"fieldvisit/internal/models/request_models"
	"fieldvisit/pkg/utils"
)

// fakeVisitRepo keeps visits in memory and honors the same version
// compare-and-swap contract as the gorm implementation.
type fakeVisitRepo struct {
	visits map[uuid.UUID]*dbm.Visit

	created    []*dbm.Visit
	deleted    []string
	createErr  error
	deleteErr  error
	forceStale bool
}

func newFakeVisitRepo(visits ...*dbm.Visit) *fakeVisitRepo {
	repo := &fakeVisitRepo{visits: make(map[uuid.UUID]*dbm.Visit)}
	for _, v := range visits {
		repo.visits[v.ID] = v
	}
	return repo
}

func (f *fakeVisitRepo) Create(ctx context.Context, visit *dbm.Visit) error {
	if f.createErr != nil {
		return f.createErr
	}
	if visit.ID == uuid.Nil {
		visit.ID = uuid.New()
	}
	f.visits[visit.ID] = visit
	f.created = append(f.created, visit)
	return nil
}

func (f *fakeVisitRepo) List(ctx context.Context, organizationId, agentId string) ([]dbm.Visit, error) {
	var out []dbm.Visit
	for _, v := range f.visits {
		if organizationId != "" && v.OrganizationID.String() != organizationId {
			continue
		}
		if agentId != "" && v.AgentID.String() != agentId {
			continue
		}
		out = append(out, *v)
	}
	return out, nil
}

func (f *fakeVisitRepo) GetByID(ctx context.Context, visitId string) (*dbm.Visit, error) {
	id, err := uuid.Parse(visitId)
	if err != nil {
		return nil, nil
	}
	visit, ok := f.visits[id]
	if !ok {
		return nil, nil
	}
	clone := *visit
	return &clone, nil
}

func (f *fakeVisitRepo) Delete(ctx context.Context, visitId string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	id, _ := uuid.Parse(visitId)
	delete(f.visits, id)
	f.deleted = append(f.deleted, visitId)
	return nil
}

func (f *fakeVisitRepo) ListScheduledByAgent(ctx context.Context, agentId uuid.UUID) ([]dbm.Visit, error) {
	var out []dbm.Visit
	for _, v := range f.visits {
		if v.AgentID == agentId && v.Status == dbm.VisitScheduled {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (f *fakeVisitRepo) CountInProgressByAgent(ctx context.Context, agentId uuid.UUID) (int64, error) {
	var count int64
	for _, v := range f.visits {
		if v.AgentID == agentId && v.Status == dbm.VisitInProgress {
			count++
		}
	}
	return count, nil
}

func (f *fakeVisitRepo) UpdateTransition(ctx context.Context, visit *dbm.Visit, fromVersion int) (int64, error) {
	stored, ok := f.visits[visit.ID]
	if !ok || stored.Version != fromVersion || f.forceStale {
		return 0, nil
	}
	clone := *visit
	clone.Version = fromVersion + 1
	f.visits[visit.ID] = &clone
	return 1, nil
}

func (f *fakeVisitRepo) StampLocationVisited(ctx context.Context, locationId uuid.UUID, at time.Time) error {
	return nil
}

// fakeLocationRepo resolves every id to a station unless marked missing.
type fakeLocationRepo struct {
	missing map[string]bool
}

func (f *fakeLocationRepo) Create(ctx context.Context, location *dbm.Location) error { return nil }

func (f *fakeLocationRepo) ListByOrganization(ctx context.Context, organizationId string) ([]dbm.Location, error) {
	return nil, nil
}

func (f *fakeLocationRepo) GetByID(ctx context.Context, locationId string) (*dbm.Location, error) {
	if f.missing[locationId] {
		return nil, nil
	}
	id, err := uuid.Parse(locationId)
	if err != nil {
		return nil, nil
	}
	return &dbm.Location{BaseModel: dbm.BaseModel{ID: id}}, nil
}

func newTestService(repo *fakeVisitRepo, at time.Time) *VisitService {
	return &VisitService{
		visitRepo:    repo,
		locationRepo: &fakeLocationRepo{},
		now:          func() time.Time { return at },
	}
}

func scheduledVisit(agentId uuid.UUID) *dbm.Visit {
	return &dbm.Visit{
		BaseModel:      dbm.BaseModel{ID: uuid.New()},
		OrganizationID: uuid.New(),
		LocationID:     uuid.New(),
		AgentID:        agentId,
		Status:         dbm.VisitScheduled,
		ScheduledDate:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func f64(v float64) *float64 { return &v }

func TestUpdateVisitStatus_CheckInRequiresGPS(t *testing.T) {
	visit := scheduledVisit(uuid.New())
	repo := newFakeVisitRepo(visit)
	svc := newTestService(repo, time.Now().UTC())

	_, err := svc.UpdateVisitStatus(context.Background(), visit.ID.String(), request_models.UpdateVisitStatusRequest{
		Status: "IN_PROGRESS",
	})

	assert.ErrorIs(t, err, utils.ErrLocationRequired)
	stored := repo.visits[visit.ID]
	assert.Equal(t, dbm.VisitScheduled, stored.Status)
	assert.Nil(t, stored.CheckInTime)
	assert.Nil(t, stored.CheckInLat)
}

func TestUpdateVisitStatus_CheckInStampsTimeAndCoordinates(t *testing.T) {
	visit := scheduledVisit(uuid.New())
	repo := newFakeVisitRepo(visit)
	at := time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)
	svc := newTestService(repo, at)

	out, err := svc.UpdateVisitStatus(context.Background(), visit.ID.String(), request_models.UpdateVisitStatusRequest{
		Status:           "IN_PROGRESS",
		IdempotencyToken: "tok-1",
		CheckInLat:       f64(28.0),
		CheckInLng:       f64(77.0),
	})

	assert.NoError(t, err)
	assert.Equal(t, "IN_PROGRESS", out.Status)
	assert.Equal(t, at.Format(time.RFC3339), out.CheckInTime)
	assert.Equal(t, 28.0, *out.CheckInLat)
	assert.Equal(t, 1, out.Version)
}

func TestUpdateVisitStatus_CompleteDerivesTravelDistance(t *testing.T) {
	agentId := uuid.New()
	visit := scheduledVisit(agentId)
	visit.Status = dbm.VisitInProgress
	visit.CheckInLat = f64(28.0)
	visit.CheckInLng = f64(77.0)
	checkIn := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	visit.CheckInTime = &checkIn

	repo := newFakeVisitRepo(visit)
	svc := newTestService(repo, checkIn.Add(45*time.Minute))

	notes := "all sensors nominal"
	out, err := svc.UpdateVisitStatus(context.Background(), visit.ID.String(), request_models.UpdateVisitStatusRequest{
		Status:      "COMPLETED",
		CheckOutLat: f64(28.01),
		CheckOutLng: f64(77.0),
		Notes:       &notes,
		MediaURLs:   []string{"https://cdn.example.com/photo1.jpg"},
		ReportData:  json.RawMessage(`{"premiseCondition":"Good"}`),
	})

	assert.NoError(t, err)
	assert.Equal(t, "COMPLETED", out.Status)
	assert.InDelta(t, 1.11, *out.TravelDistance, 0.01)
	assert.Equal(t, notes, out.Notes)

	stored := repo.visits[visit.ID]
	assert.NotNil(t, stored.CheckOutTime)
	assert.JSONEq(t, `{"premiseCondition":"Good"}`, string(stored.ReportData))
}

func TestUpdateVisitStatus_CompleteRequiresGPS(t *testing.T) {
	visit := scheduledVisit(uuid.New())
	visit.Status = dbm.VisitInProgress
	visit.CheckInLat = f64(28.0)
	visit.CheckInLng = f64(77.0)

	repo := newFakeVisitRepo(visit)
	svc := newTestService(repo, time.Now().UTC())

	_, err := svc.UpdateVisitStatus(context.Background(), visit.ID.String(), request_models.UpdateVisitStatusRequest{
		Status: "COMPLETED",
	})

	assert.ErrorIs(t, err, utils.ErrLocationRequired)
	assert.Equal(t, dbm.VisitInProgress, repo.visits[visit.ID].Status)
}

func TestUpdateVisitStatus_ReplayWithSameTokenIsNoOp(t *testing.T) {
	agentId := uuid.New()
	visit := scheduledVisit(agentId)
	visit.Status = dbm.VisitInProgress
	visit.CheckInLat = f64(28.0)
	visit.CheckInLng = f64(77.0)

	repo := newFakeVisitRepo(visit)
	svc := newTestService(repo, time.Now().UTC())

	req := request_models.UpdateVisitStatusRequest{
		Status:           "COMPLETED",
		IdempotencyToken: "tok-replay",
		CheckOutLat:      f64(28.01),
		CheckOutLng:      f64(77.0),
		ReportData:       json.RawMessage(`{"premiseCondition":"Good"}`),
	}

	first, err := svc.UpdateVisitStatus(context.Background(), visit.ID.String(), req)
	assert.NoError(t, err)

	// At-least-once delivery: the offline queue may resubmit the exact
	// same transition after an ambiguous network error.
	second, err := svc.UpdateVisitStatus(context.Background(), visit.ID.String(), req)
	assert.NoError(t, err)

	assert.Equal(t, first.Version, second.Version)
	assert.Equal(t, *first.TravelDistance, *second.TravelDistance)
	assert.Equal(t, first.CheckOutTime, second.CheckOutTime)
}

func TestUpdateVisitStatus_TerminalStatesAreImmutable(t *testing.T) {
	visit := scheduledVisit(uuid.New())
	visit.Status = dbm.VisitRejected

	repo := newFakeVisitRepo(visit)
	svc := newTestService(repo, time.Now().UTC())

	_, err := svc.UpdateVisitStatus(context.Background(), visit.ID.String(), request_models.UpdateVisitStatusRequest{
		Status:     "IN_PROGRESS",
		CheckInLat: f64(28.0),
		CheckInLng: f64(77.0),
	})

	assert.ErrorIs(t, err, utils.ErrVisitAlreadyFinal)
}

func TestUpdateVisitStatus_RejectsIllegalJump(t *testing.T) {
	visit := scheduledVisit(uuid.New())
	repo := newFakeVisitRepo(visit)
	svc := newTestService(repo, time.Now().UTC())

	_, err := svc.UpdateVisitStatus(context.Background(), visit.ID.String(), request_models.UpdateVisitStatusRequest{
		Status:      "COMPLETED",
		CheckOutLat: f64(28.0),
		CheckOutLng: f64(77.0),
	})

	assert.ErrorIs(t, err, utils.ErrInvalidTransition)
}

func TestUpdateVisitStatus_OneInProgressPerAgent(t *testing.T) {
	agentId := uuid.New()
	active := scheduledVisit(agentId)
	active.Status = dbm.VisitInProgress
	next := scheduledVisit(agentId)

	repo := newFakeVisitRepo(active, next)
	svc := newTestService(repo, time.Now().UTC())

	_, err := svc.UpdateVisitStatus(context.Background(), next.ID.String(), request_models.UpdateVisitStatusRequest{
		Status:     "IN_PROGRESS",
		CheckInLat: f64(28.0),
		CheckInLng: f64(77.0),
	})

	assert.ErrorIs(t, err, utils.ErrAgentBusy)
}

func TestUpdateVisitStatus_StaleVersionConflicts(t *testing.T) {
	visit := scheduledVisit(uuid.New())
	repo := newFakeVisitRepo(visit)
	repo.forceStale = true
	svc := newTestService(repo, time.Now().UTC())

	_, err := svc.UpdateVisitStatus(context.Background(), visit.ID.String(), request_models.UpdateVisitStatusRequest{
		Status:     "IN_PROGRESS",
		CheckInLat: f64(28.0),
		CheckInLng: f64(77.0),
	})

	assert.ErrorIs(t, err, utils.ErrVisitConflict)
}

func TestUpdateVisitStatus_UnknownStatus(t *testing.T) {
	visit := scheduledVisit(uuid.New())
	repo := newFakeVisitRepo(visit)
	svc := newTestService(repo, time.Now().UTC())

	_, err := svc.UpdateVisitStatus(context.Background(), visit.ID.String(), request_models.UpdateVisitStatusRequest{
		Status: "PAUSED",
	})

	assert.ErrorIs(t, err, utils.ErrValidation)
}

func TestCreateVisit_ValidatesIdsAndDate(t *testing.T) {
	repo := newFakeVisitRepo()
	svc := newTestService(repo, time.Now().UTC())

	_, err := svc.CreateVisit(context.Background(), request_models.CreateVisitRequest{
		OrganizationID: "not-a-uuid",
		LocationID:     uuid.New().String(),
		AgentID:        uuid.New().String(),
		ScheduledDate:  "2024-01-01",
	})
	assert.ErrorIs(t, err, utils.ErrValidation)

	out, err := svc.CreateVisit(context.Background(), request_models.CreateVisitRequest{
		OrganizationID: uuid.New().String(),
		LocationID:     uuid.New().String(),
		AgentID:        uuid.New().String(),
		ScheduledDate:  "2024-01-01",
	})
	assert.NoError(t, err)
	assert.Equal(t, "SCHEDULED", out.Status)
	assert.Len(t, repo.created, 1)
}

func TestCreateVisit_UnknownLocation(t *testing.T) {
	repo := newFakeVisitRepo()
	locId := uuid.New()
	svc := newTestService(repo, time.Now().UTC())
	svc.locationRepo = &fakeLocationRepo{missing: map[string]bool{locId.String(): true}}

	_, err := svc.CreateVisit(context.Background(), request_models.CreateVisitRequest{
		OrganizationID: uuid.New().String(),
		LocationID:     locId.String(),
		AgentID:        uuid.New().String(),
		ScheduledDate:  "2024-01-01",
	})

	assert.ErrorIs(t, err, utils.ErrLocationNotFound)
	assert.Empty(t, repo.created)
}

func TestDeleteScheduledVisit_OnlyScheduled(t *testing.T) {
	visit := scheduledVisit(uuid.New())
	visit.Status = dbm.VisitInProgress
	repo := newFakeVisitRepo(visit)
	svc := newTestService(repo, time.Now().UTC())

	err := svc.DeleteScheduledVisit(context.Background(), visit.ID.String())
	assert.ErrorIs(t, err, utils.ErrInvalidTransition)
	assert.Empty(t, repo.deleted)
}
