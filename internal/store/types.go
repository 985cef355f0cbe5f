package store

import (
	"time"

	"farmwatch-backend/internal/model"
)

// NewUser carries caller-supplied fields for user creation. Status may be
// left empty, in which case the role's default lifecycle stage applies:
// engineers start as pending_approval, admins and farmers as active.
type NewUser struct {
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	Role         model.Role
	Status       model.UserStatus
	ProfileImage string
}

// UserPatch is a shallow merge: nil fields keep their previous value.
type UserPatch struct {
	FirstName    *string
	LastName     *string
	Email        *string
	Phone        *string
	Role         *model.Role
	Status       *model.UserStatus
	ProfileImage *string
}

// NewFarm carries caller-supplied fields for farm creation. FarmerID must
// reference an existing user with the farmer role.
type NewFarm struct {
	Name           string
	Location       string
	GPSCoordinates model.GPSCoordinates
	FarmerID       string
	Image          string
	Status         model.FarmStatus // empty defaults to active
}

// FarmPatch is a shallow merge. Changing FarmerID re-resolves the cached
// farmer name against the new referent.
type FarmPatch struct {
	Name           *string
	Location       *string
	GPSCoordinates *model.GPSCoordinates
	FarmerID       *string
	Image          *string
	Status         *model.FarmStatus
}

// RefChange expresses one of the three intents a PATCH body can carry for
// a nullable reference: leave it alone (no RefChange at all), point it at
// a new referent (ID set), or clear it (ID nil).
type RefChange struct {
	ID *string
}

// NewRobot carries caller-supplied fields for robot creation. Farm and
// engineer references are optional; their display names are resolved at
// insert time.
type NewRobot struct {
	Name         string
	FarmID       *string
	EngineerID   *string
	Status       model.RobotStatus  // empty defaults to available
	Connectivity model.Connectivity // empty defaults to offline
	BatteryLevel int
}

// RobotPatch is a shallow merge over a robot. Farm and Engineer use
// RefChange so "absent" and "set to null" stay distinguishable.
type RobotPatch struct {
	Name         *string
	Farm         *RefChange
	Engineer     *RefChange
	Status       *model.RobotStatus
	Connectivity *model.Connectivity
	BatteryLevel *int
}

// TelemetryReading is one measurement inside a telemetry report.
type TelemetryReading struct {
	SensorType model.SensorType
	Value      float64
	Unit       string
	Timestamp  time.Time // zero means "now"
}

// Telemetry is a robot's periodic report: battery charge plus any sensor
// readings captured since the last report. Receiving one marks the robot
// online and bumps LastActive.
type Telemetry struct {
	BatteryLevel *int
	Readings     []TelemetryReading
}

// Cutoff bounds the staleness sweep: robots still marked online whose
// LastActive is before Before are flipped to offline.
type Cutoff struct {
	Before time.Time
}

// NewReading carries caller-supplied fields for direct reading ingest.
// Farm and robot names are resolved from the referenced records.
type NewReading struct {
	FarmID     string
	RobotID    string
	SensorType model.SensorType
	Value      float64
	Unit       string
	Timestamp  time.Time // zero means "now"
}

// ReadingFilter narrows ListReadings. Nil/empty fields do not filter.
// Start and End are inclusive bounds.
type ReadingFilter struct {
	FarmID     string
	RobotID    string
	SensorType model.SensorType
	Start      *time.Time
	End        *time.Time
}
