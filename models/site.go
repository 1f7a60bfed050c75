package models

import (
	"time"

	"gorm.io/gorm"
)

// Site is a publication target. Articles with no explicit site are attached
// to the configured current site on first save.
type Site struct {
	ID        uint           `json:"id" gorm:"primarykey"`
	Name      string         `json:"name" gorm:"size:100;not null"`
	Domain    string         `json:"domain" gorm:"size:100;uniqueIndex;not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
