package model

import "time"

// FarmStatus tracks whether a farm is operated by an active farmer.
type FarmStatus string

const (
	FarmActive   FarmStatus = "active"
	FarmInactive FarmStatus = "inactive"
)

func (s FarmStatus) Valid() bool {
	return s == FarmActive || s == FarmInactive
}

// GPSCoordinates is the farm's location fix.
type GPSCoordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Farm represents a monitored site owned by a farmer. FarmerName is a
// display cache; the authoritative relationship is FarmerID. RobotCount
// is derived at read time and never stored.
type Farm struct {
	ID             string         `gorm:"primaryKey;size:32" json:"id"`
	Seq            int64          `gorm:"uniqueIndex;not null" json:"-"`
	Name           string         `gorm:"size:256;not null" json:"name"`
	Location       string         `gorm:"size:512" json:"location"`
	GPSCoordinates GPSCoordinates `gorm:"embedded;embeddedPrefix:gps_" json:"gpsCoordinates"`
	FarmerID       string         `gorm:"index;size:32;not null" json:"farmerId"`
	FarmerName     string         `gorm:"size:256;not null" json:"farmerName"`
	Image          string         `gorm:"size:512" json:"image"`
	RobotCount     int64          `gorm:"-" json:"robotCount"`
	Status         FarmStatus     `gorm:"size:16;not null" json:"status"`
	CreatedAt      time.Time      `gorm:"not null" json:"createdAt"`
}
