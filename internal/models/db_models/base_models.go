package db_models

import (
	"time"

	"gorm.io/gorm"
)

// Document is one JSON value in the path-addressed document store.
// Parent is the path minus its last segment, indexed for child listing.
type Document struct {
	Path      string `gorm:"primaryKey;size:512"`
	Parent    string `gorm:"index;size:512;not null"`
	Value     string `gorm:"type:jsonb;not null"`
	CreatedAt int64  `gorm:"autoCreateTime"`
	UpdatedAt int64  `gorm:"autoUpdateTime"`
}

func (Document) TableName() string {
	return "documents"
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	now := time.Now().Unix()
	if d.CreatedAt == 0 {
		d.CreatedAt = now
	}
	d.UpdatedAt = now
	return nil
}
