package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	dbm "fieldvisit/internal/models/db_models"
)

type LocationRepository interface {
	Create(ctx context.Context, location *dbm.Location) error
	ListByOrganization(ctx context.Context, organizationId string) ([]dbm.Location, error)
	GetByID(ctx context.Context, locationId string) (*dbm.Location, error)
}

type locationRepository struct {
	db *gorm.DB
}

func NewLocationRepository(db *gorm.DB) LocationRepository {
	return &locationRepository{db: db}
}

func (r *locationRepository) Create(ctx context.Context, location *dbm.Location) error {
	return r.db.WithContext(ctx).Create(location).Error
}

func (r *locationRepository) ListByOrganization(ctx context.Context, organizationId string) ([]dbm.Location, error) {
	q := r.db.WithContext(ctx).Preload("AssignedAgent")
	if organizationId != "" {
		q = q.Where("organization_id = ?", organizationId)
	}

	var locations []dbm.Location
	if err := q.Order("name asc").Find(&locations).Error; err != nil {
		return nil, err
	}
	return locations, nil
}

func (r *locationRepository) GetByID(ctx context.Context, locationId string) (*dbm.Location, error) {
	var location dbm.Location
	err := r.db.WithContext(ctx).Where("id = ?", locationId).First(&location).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &location, nil
}
