package models

// Ingredient is catalog reference data, ordered by name.
type Ingredient struct {
	ID              uint   `json:"id" gorm:"primaryKey"`
	Name            string `json:"name" gorm:"type:varchar(128);not null;index"`
	MeasurementUnit string `json:"measurement_unit" gorm:"type:varchar(64);not null;index"`
}

// Tag labels recipes. Slug matches ^[-a-zA-Z0-9_]+$.
type Tag struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;type:varchar(32);not null" yaml:"name" validate:"required,max=32"`
	Slug string `json:"slug" gorm:"uniqueIndex;type:varchar(32);not null" yaml:"slug" validate:"required,max=32,slug"`
}
