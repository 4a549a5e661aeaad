package db_models

type Organization struct {
	BaseModel
	Name string `gorm:"uniqueIndex"`

	Locations []Location `gorm:"foreignKey:OrganizationID"`
	Accounts  []Account  `gorm:"foreignKey:OrganizationID"`
}
