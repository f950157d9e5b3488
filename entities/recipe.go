package entities

import (
	"github.com/google/uuid"
)

type Recipe struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Title        string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"title"`
	ImageURL     string    `gorm:"type:text" json:"image,omitempty"`
	ImageKey     string    `json:"-"`
	Yields       string    `gorm:"type:varchar(50)" json:"yields"`
	PrepTime     string    `gorm:"type:varchar(50)" json:"prep_time"`
	CookTime     string    `gorm:"type:varchar(50)" json:"cook_time"`
	TimesCooked  int       `gorm:"not null;default:0" json:"times_cooked"`
	Ingredients  string    `gorm:"type:text" json:"ingredients"`
	Instructions string    `gorm:"type:text" json:"instructions"`
	Category     string    `gorm:"type:varchar(50)" json:"category,omitempty"`
	URL          string    `gorm:"type:text" json:"url,omitempty"`

	Timestamp
}
