package model

import "time"

// SensorType is the kind of measurement a reading carries.
type SensorType string

const (
	SensorTemperature SensorType = "temperature"
	SensorHumidity    SensorType = "humidity"
	SensorSoilPH      SensorType = "soil_ph"
	SensorLight       SensorType = "light"
)

func (t SensorType) Valid() bool {
	switch t {
	case SensorTemperature, SensorHumidity, SensorSoilPH, SensorLight:
		return true
	}
	return false
}

// SensorReading is one measurement reported by a robot on a farm.
// Readings are append-only and never mutated after creation.
type SensorReading struct {
	ID         string     `gorm:"primaryKey;size:32" json:"id"`
	Seq        int64      `gorm:"uniqueIndex;not null" json:"-"`
	FarmID     string     `gorm:"index;size:32;not null" json:"farmId"`
	FarmName   string     `gorm:"size:256;not null" json:"farmName"`
	RobotID    string     `gorm:"index;size:32;not null" json:"robotId"`
	RobotName  string     `gorm:"size:256;not null" json:"robotName"`
	SensorType SensorType `gorm:"size:16;not null;index" json:"sensorType"`
	Value      float64    `gorm:"not null" json:"value"`
	Unit       string     `gorm:"size:16;not null" json:"unit"`
	Timestamp  time.Time  `gorm:"not null;index" json:"timestamp"`
}
