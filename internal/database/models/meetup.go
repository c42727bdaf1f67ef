package models

import "time"

// Meetup is an event with a single date, organized by one user.
//
// Title and Date carry unique indexes so the store rejects duplicates that
// slip past the read-then-write checks in the service layer.
type Meetup struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Title       string    `gorm:"size:255;uniqueIndex;not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Location    string    `gorm:"size:255;not null" json:"location"`
	Date        time.Time `gorm:"uniqueIndex;not null" json:"date"`
	FileID      uint      `gorm:"not null;index" json:"file_id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Derived at read time, never stored
	Past bool `gorm:"-" json:"past"`

	// Relationships
	File          *File          `gorm:"foreignKey:FileID" json:"file,omitempty"`
	User          *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Subscriptions []Subscription `gorm:"foreignKey:MeetupID" json:"subscriptions,omitempty"`
}

// TableName overrides the table name
func (Meetup) TableName() string {
	return "meetups"
}

// IsPast reports whether the meetup date is before now
func (m *Meetup) IsPast(now time.Time) bool {
	return m.Date.Before(now)
}

// MarkPast sets the derived Past flag from now
func (m *Meetup) MarkPast(now time.Time) {
	m.Past = m.IsPast(now)
}
