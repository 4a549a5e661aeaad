package db_models

import "github.com/google/uuid"

type Account struct {
	BaseModel
	Name           string
	Email          string `gorm:"uniqueIndex"`
	Role           string `gorm:"size:20"` // AGENT | ADMIN | SUPER_ADMIN
	OrganizationID uuid.UUID

	Organization Organization `gorm:"foreignKey:OrganizationID"`
}
