package model

import "time"

// AlertSubscription holds a browser push subscription for robot alerts
// (offline transitions, low battery). A subscription is scoped to the
// robots it was registered against.
type AlertSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`

	// Associations
	Robots []*Robot `gorm:"many2many:subscription_robot_mapping;"`
}
