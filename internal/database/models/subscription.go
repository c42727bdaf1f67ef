package models

import "time"

// Subscription links a user to a meetup they intend to attend.
// (user_id, meetup_id) is unique.
type Subscription struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_subscriptions_user_meetup" json:"user_id"`
	MeetupID  uint      `gorm:"not null;uniqueIndex:idx_subscriptions_user_meetup;index" json:"meetup_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	User   *User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Meetup *Meetup `gorm:"foreignKey:MeetupID" json:"meetup,omitempty"`
}

// TableName overrides the table name
func (Subscription) TableName() string {
	return "subscriptions"
}
