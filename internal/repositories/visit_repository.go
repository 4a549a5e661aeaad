package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbm "fieldvisit/internal/models/db_models"
)

type VisitRepository interface {
	Create(ctx context.Context, visit *dbm.Visit) error
	List(ctx context.Context, organizationId, agentId string) ([]dbm.Visit, error)
	GetByID(ctx context.Context, visitId string) (*dbm.Visit, error)
	Delete(ctx context.Context, visitId string) error
	ListScheduledByAgent(ctx context.Context, agentId uuid.UUID) ([]dbm.Visit, error)
	CountInProgressByAgent(ctx context.Context, agentId uuid.UUID) (int64, error)
	// UpdateTransition writes the already-mutated visit, guarded by the
	// version it was read at. Returns the number of rows matched; zero
	// means another writer got there first.
	UpdateTransition(ctx context.Context, visit *dbm.Visit, fromVersion int) (int64, error)
	StampLocationVisited(ctx context.Context, locationId uuid.UUID, at time.Time) error
}

type visitRepository struct {
	db *gorm.DB
}

func NewVisitRepository(db *gorm.DB) VisitRepository {
	return &visitRepository{db: db}
}

func (r *visitRepository) Create(ctx context.Context, visit *dbm.Visit) error {
	return r.db.WithContext(ctx).Create(visit).Error
}

func (r *visitRepository) List(ctx context.Context, organizationId, agentId string) ([]dbm.Visit, error) {
	q := r.db.WithContext(ctx).
		Preload("Location").
		Preload("Agent").
		Order("scheduled_date asc")

	if organizationId != "" {
		q = q.Where("organization_id = ?", organizationId)
	}
	if agentId != "" {
		q = q.Where("agent_id = ?", agentId)
	}

	var visits []dbm.Visit
	if err := q.Find(&visits).Error; err != nil {
		return nil, err
	}
	return visits, nil
}

func (r *visitRepository) GetByID(ctx context.Context, visitId string) (*dbm.Visit, error) {
	var visit dbm.Visit
	err := r.db.WithContext(ctx).
		Preload("Location").
		Preload("Agent").
		Where("id = ?", visitId).
		First(&visit).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &visit, nil
}

func (r *visitRepository) Delete(ctx context.Context, visitId string) error {
	return r.db.WithContext(ctx).Where("id = ?", visitId).Delete(&dbm.Visit{}).Error
}

func (r *visitRepository) ListScheduledByAgent(ctx context.Context, agentId uuid.UUID) ([]dbm.Visit, error) {
	var visits []dbm.Visit
	err := r.db.WithContext(ctx).
		Where("agent_id = ? AND status = ?", agentId, dbm.VisitScheduled).
		Order("scheduled_date asc").
		Find(&visits).Error
	if err != nil {
		return nil, err
	}
	return visits, nil
}

func (r *visitRepository) CountInProgressByAgent(ctx context.Context, agentId uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&dbm.Visit{}).
		Where("agent_id = ? AND status = ?", agentId, dbm.VisitInProgress).
		Count(&count).Error
	return count, err
}

func (r *visitRepository) UpdateTransition(ctx context.Context, visit *dbm.Visit, fromVersion int) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&dbm.Visit{}).
		Where("id = ? AND version = ?", visit.ID, fromVersion).
		Updates(map[string]interface{}{
			"status":            visit.Status,
			"check_in_time":     visit.CheckInTime,
			"check_in_lat":      visit.CheckInLat,
			"check_in_lng":      visit.CheckInLng,
			"check_out_time":    visit.CheckOutTime,
			"check_out_lat":     visit.CheckOutLat,
			"check_out_lng":     visit.CheckOutLng,
			"travel_distance":   visit.TravelDistance,
			"notes":             visit.Notes,
			"media_urls":        visit.MediaURLs,
			"report_data":       visit.ReportData,
			"last_action_token": visit.LastActionToken,
			"version":           fromVersion + 1,
			"updated_at":        time.Now().Unix(),
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *visitRepository) StampLocationVisited(ctx context.Context, locationId uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&dbm.Location{}).
		Where("id = ?", locationId).
		Update("last_visited_at", at).Error
}
