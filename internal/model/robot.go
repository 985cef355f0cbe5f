package model

import "time"

// RobotStatus is a robot's operational state.
type RobotStatus string

const (
	RobotAvailable   RobotStatus = "available"
	RobotInUse       RobotStatus = "in-use"
	RobotMaintenance RobotStatus = "maintenance"
)

func (s RobotStatus) Valid() bool {
	switch s {
	case RobotAvailable, RobotInUse, RobotMaintenance:
		return true
	}
	return false
}

// Connectivity is whether a robot is currently reporting telemetry.
type Connectivity string

const (
	ConnOnline  Connectivity = "online"
	ConnOffline Connectivity = "offline"
)

func (c Connectivity) Valid() bool {
	return c == ConnOnline || c == ConnOffline
}

// Robot represents a field robot. FarmID/FarmName and EngineerID/
// EngineerName are nullable pairs: an id is never set without its name,
// and clearing one clears the other in the same mutation.
type Robot struct {
	ID           string       `gorm:"primaryKey;size:32" json:"id"`
	Seq          int64        `gorm:"uniqueIndex;not null" json:"-"`
	Name         string       `gorm:"size:256;not null" json:"name"`
	FarmID       *string      `gorm:"index;size:32" json:"farmId"`
	FarmName     *string      `gorm:"size:256" json:"farmName"`
	EngineerID   *string      `gorm:"index;size:32" json:"engineerId"`
	EngineerName *string      `gorm:"size:256" json:"engineerName"`
	Status       RobotStatus  `gorm:"size:16;not null" json:"status"`
	Connectivity Connectivity `gorm:"size:16;not null" json:"connectivity"`
	BatteryLevel int          `gorm:"not null" json:"batteryLevel"`
	LastActive   time.Time    `gorm:"not null;index" json:"lastActive"`
}
