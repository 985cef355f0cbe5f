package model

// RobotStatusDistribution counts robots per operational state.
type RobotStatusDistribution struct {
	Available   int64 `json:"available"`
	InUse       int64 `json:"inUse"`
	Maintenance int64 `json:"maintenance"`
}

// DashboardStats is the derived summary shown on the admin dashboard.
// It is recomputed from the store on every request, never persisted.
type DashboardStats struct {
	TotalFarms              int64                   `json:"totalFarms"`
	ActiveFarms             int64                   `json:"activeFarms"`
	TotalRobots             int64                   `json:"totalRobots"`
	TotalEngineers          int64                   `json:"totalEngineers"`
	TotalFarmers            int64                   `json:"totalFarmers"`
	RobotStatusDistribution RobotStatusDistribution `json:"robotStatusDistribution"`
}

// NamedCount is a single {name, value} slice entry for chart endpoints.
type NamedCount struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}
