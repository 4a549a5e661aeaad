package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"time"
)

type VisitStatus string

const (
	VisitScheduled  VisitStatus = "SCHEDULED"
	VisitInProgress VisitStatus = "IN_PROGRESS"
	VisitCompleted  VisitStatus = "COMPLETED"
	VisitRejected   VisitStatus = "REJECTED"
)

// Terminal reports whether no further transition may leave the status.
func (s VisitStatus) Terminal() bool {
	return s == VisitCompleted || s == VisitRejected
}

func (s VisitStatus) Known() bool {
	switch s {
	case VisitScheduled, VisitInProgress, VisitCompleted, VisitRejected:
		return true
	}
	return false
}

// Visit is one agent's scheduled inspection of one station. Check-in and
// check-out fields are written exactly once, by the status transitions.
type Visit struct {
	BaseModel
	OrganizationID uuid.UUID   `gorm:"index"`
	LocationID     uuid.UUID   `gorm:"index"`
	AgentID        uuid.UUID   `gorm:"index"`
	Status         VisitStatus `gorm:"size:20;default:'SCHEDULED';index"`
	ScheduledDate  time.Time   `gorm:"index"`

	CheckInTime *time.Time
	CheckInLat  *float64
	CheckInLng  *float64

	CheckOutTime   *time.Time
	CheckOutLat    *float64
	CheckOutLng    *float64
	TravelDistance *float64 // km between check-in and check-out

	Notes      string
	MediaURLs  datatypes.JSON `gorm:"type:jsonb;default:'[]'"`
	ReportData datatypes.JSON `gorm:"type:jsonb"`

	// Version guards status transitions with compare-and-swap; a stale
	// update loses instead of silently overwriting derived metrics.
	Version int `gorm:"default:0"`
	// LastActionToken dedupes at-least-once replays from the offline queue.
	LastActionToken string `gorm:"size:64"`

	Organization Organization `gorm:"foreignKey:OrganizationID"`
	Location     Location     `gorm:"foreignKey:LocationID"`
	Agent        Account      `gorm:"foreignKey:AgentID"`
}
