package models

import "time"

// File describes an uploaded cover image. Path is the storage key; URL is
// filled in by the storage backend when the file is returned to a client.
type File struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Path      string    `gorm:"size:512;uniqueIndex;not null" json:"path"`
	URL       string    `gorm:"-" json:"url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (File) TableName() string {
	return "files"
}
