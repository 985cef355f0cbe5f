package store

import (
	"context"
	"fmt"

	"farmwatch-backend/internal/model"
)

// DashboardStats recomputes the summary counters from the current store
// state. Nothing here is cached; full recomputation is cheap at the data
// volumes involved.
func (s *gormStore) DashboardStats(ctx context.Context) (*model.DashboardStats, error) {
	db := s.db.WithContext(ctx)
	stats := &model.DashboardStats{}

	queries := []error{
		db.Model(&model.Farm{}).Count(&stats.TotalFarms).Error,
		db.Model(&model.Farm{}).Where("status = ?", model.FarmActive).Count(&stats.ActiveFarms).Error,
		db.Model(&model.Robot{}).Count(&stats.TotalRobots).Error,
		db.Model(&model.User{}).Where("role = ?", model.RoleEngineer).Count(&stats.TotalEngineers).Error,
		db.Model(&model.User{}).Where("role = ?", model.RoleFarmer).Count(&stats.TotalFarmers).Error,
	}
	for _, err := range queries {
		if err != nil {
			return nil, fmt.Errorf("failed to compute dashboard stats: %w", err)
		}
	}

	dist, err := s.robotStatusCounts(ctx)
	if err != nil {
		return nil, err
	}
	stats.RobotStatusDistribution = model.RobotStatusDistribution{
		Available:   dist[model.RobotAvailable],
		InUse:       dist[model.RobotInUse],
		Maintenance: dist[model.RobotMaintenance],
	}
	return stats, nil
}

func (s *gormStore) robotStatusCounts(ctx context.Context) (map[model.RobotStatus]int64, error) {
	type row struct {
		Status model.RobotStatus
		N      int64
	}
	var rows []row
	err := s.db.WithContext(ctx).
		Model(&model.Robot{}).
		Select("status, COUNT(*) as n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate robot statuses: %w", err)
	}
	counts := make(map[model.RobotStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.N
	}
	return counts, nil
}

// RobotDistributionByFarm returns, per farm in insertion order, the count
// of robots assigned to it, labeled by the farm's name. Farms with no
// robots appear with a zero value.
func (s *gormStore) RobotDistributionByFarm(ctx context.Context) ([]model.NamedCount, error) {
	farms, err := s.ListFarms(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.NamedCount, 0, len(farms))
	for _, f := range farms {
		out = append(out, model.NamedCount{Name: f.Name, Value: f.RobotCount})
	}
	return out, nil
}

// RobotStatusOverview returns the three status buckets in a fixed order.
func (s *gormStore) RobotStatusOverview(ctx context.Context) ([]model.NamedCount, error) {
	counts, err := s.robotStatusCounts(ctx)
	if err != nil {
		return nil, err
	}
	return []model.NamedCount{
		{Name: "Available", Value: counts[model.RobotAvailable]},
		{Name: "In Use", Value: counts[model.RobotInUse]},
		{Name: "Maintenance", Value: counts[model.RobotMaintenance]},
	}, nil
}

// FarmStatusDistribution returns active vs inactive farm counts.
func (s *gormStore) FarmStatusDistribution(ctx context.Context) ([]model.NamedCount, error) {
	db := s.db.WithContext(ctx)
	var active, inactive int64
	if err := db.Model(&model.Farm{}).Where("status = ?", model.FarmActive).Count(&active).Error; err != nil {
		return nil, fmt.Errorf("failed to count active farms: %w", err)
	}
	if err := db.Model(&model.Farm{}).Where("status = ?", model.FarmInactive).Count(&inactive).Error; err != nil {
		return nil, fmt.Errorf("failed to count inactive farms: %w", err)
	}
	return []model.NamedCount{
		{Name: "Active", Value: active},
		{Name: "Inactive", Value: inactive},
	}, nil
}
