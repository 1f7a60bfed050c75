package models

import (
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"
)

var tagNameRE = regexp.MustCompile(`(?i)[^a-z0-9\-_+:.]`)

// NormalizeTagName makes a tag name safe for use in a URL: spaces become
// dashes, anything outside [a-z0-9-_+:.] is dropped, the rest is lowercased.
// Normalizing an already normalized name is a no-op.
func NormalizeTagName(name string) string {
	name = strings.ReplaceAll(name, " ", "-")
	name = tagNameRE.ReplaceAllString(name, "")
	return strings.TrimSpace(strings.ToLower(name))
}

type Tag struct {
	ID        uint           `json:"id" gorm:"primarykey"`
	Name      string         `json:"name" gorm:"size:64;uniqueIndex;not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// BeforeSave keeps stored names normalized no matter how the tag was built.
func (t *Tag) BeforeSave(tx *gorm.DB) error {
	t.Name = NormalizeTagName(t.Name)
	return nil
}
