package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"farmwatch-backend/internal/model"
)

// Store defines the interface for all database operations. Every mutation
// that triggers a cascade runs the primary write and its follow-up writes
// inside a single transaction, so no caller can observe a partially
// applied cascade.
type Store interface {
	DB() *gorm.DB

	// Users
	ListUsers(ctx context.Context) ([]model.User, error)
	ListUsersByRole(ctx context.Context, role model.Role) ([]model.User, error)
	ListUsersByStatus(ctx context.Context, status model.UserStatus) ([]model.User, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	CreateUser(ctx context.Context, in NewUser) (*model.User, error)
	RegisterUser(ctx context.Context, in NewUser, passwordHash string) (*model.User, error)
	GetCredential(ctx context.Context, userID string) (*model.UserCredential, error)
	UpdateUser(ctx context.Context, id string, patch UserPatch) (*model.User, error)
	DeleteUser(ctx context.Context, id string) (*model.User, error)
	ApproveEngineer(ctx context.Context, id string) (*model.User, error)
	RejectEngineer(ctx context.Context, id string) (*model.User, error)

	// Farms
	ListFarms(ctx context.Context) ([]model.Farm, error)
	GetFarm(ctx context.Context, id string) (*model.Farm, error)
	CreateFarm(ctx context.Context, in NewFarm) (*model.Farm, error)
	UpdateFarm(ctx context.Context, id string, patch FarmPatch) (*model.Farm, error)
	DeleteFarm(ctx context.Context, id string) (*model.Farm, error)

	// Robots
	ListRobots(ctx context.Context) ([]model.Robot, error)
	GetRobot(ctx context.Context, id string) (*model.Robot, error)
	CreateRobot(ctx context.Context, in NewRobot) (*model.Robot, error)
	UpdateRobot(ctx context.Context, id string, patch RobotPatch) (*model.Robot, error)
	DeleteRobot(ctx context.Context, id string) (*model.Robot, error)
	AssignRobotsToEngineer(ctx context.Context, robotIDs []string, engineerID string) ([]model.Robot, error)
	RecordTelemetry(ctx context.Context, robotID string, in Telemetry) (*model.Robot, error)
	MarkStaleRobotsOffline(ctx context.Context, cutoff Cutoff) ([]model.Robot, error)

	// Sensor readings
	ListReadings(ctx context.Context, f ReadingFilter) ([]model.SensorReading, error)
	CreateReading(ctx context.Context, in NewReading) (*model.SensorReading, error)

	// Dashboard aggregates
	DashboardStats(ctx context.Context) (*model.DashboardStats, error)
	RobotDistributionByFarm(ctx context.Context) ([]model.NamedCount, error)
	RobotStatusOverview(ctx context.Context) ([]model.NamedCount, error)
	FarmStatusDistribution(ctx context.Context) ([]model.NamedCount, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// DB exposes the underlying handle for callers that need raw access
// (subscription handlers, alert worker).
func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// nextID allocates the next `<prefix><ordinal>` id for an entity kind.
// The ordinal doubles as the insertion-order sequence, so it must be
// taken inside the same transaction as the insert it serves.
func nextID(tx *gorm.DB, entity any, prefix string) (string, int64, error) {
	var maxSeq int64
	if err := tx.Model(entity).Select("COALESCE(MAX(seq), 0)").Scan(&maxSeq).Error; err != nil {
		return "", 0, fmt.Errorf("failed to allocate id: %w", err)
	}
	seq := maxSeq + 1
	return fmt.Sprintf("%s%d", prefix, seq), seq, nil
}
