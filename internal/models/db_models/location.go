package db_models

import (
	"github.com/google/uuid"
	"time"
)

// Location is a physical inspection station owned by an organization.
type Location struct {
	BaseModel
	Name            string
	Latitude        float64
	Longitude       float64
	Address         string
	District        string
	Block           string
	StationType     string `gorm:"size:30"` // e.g. AWS, ARG
	HasProblem      bool   `gorm:"default:false"`
	LastVisitedAt   *time.Time
	OrganizationID  uuid.UUID
	AssignedAgentID *uuid.UUID

	Organization  Organization `gorm:"foreignKey:OrganizationID"`
	AssignedAgent *Account     `gorm:"foreignKey:AssignedAgentID"`
}
