package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"farmwatch-backend/internal/model"
)

// ListReadings returns readings matching the filter in insertion order.
// Empty filter fields do not constrain the result; an empty result is
// never an error.
func (s *gormStore) ListReadings(ctx context.Context, f ReadingFilter) ([]model.SensorReading, error) {
	q := s.db.WithContext(ctx).Model(&model.SensorReading{})
	if f.FarmID != "" {
		q = q.Where("farm_id = ?", f.FarmID)
	}
	if f.RobotID != "" {
		q = q.Where("robot_id = ?", f.RobotID)
	}
	if f.SensorType != "" {
		q = q.Where("sensor_type = ?", f.SensorType)
	}
	if f.Start != nil {
		q = q.Where("timestamp >= ?", *f.Start)
	}
	if f.End != nil {
		q = q.Where("timestamp <= ?", *f.End)
	}

	var readings []model.SensorReading
	if err := q.Order("seq").Find(&readings).Error; err != nil {
		return nil, fmt.Errorf("failed to list readings: %w", err)
	}
	return readings, nil
}

// CreateReading ingests one reading directly, resolving the farm and
// robot names at insert time. Readings are immutable once stored.
func (s *gormStore) CreateReading(ctx context.Context, in NewReading) (*model.SensorReading, error) {
	if !in.SensorType.Valid() {
		return nil, fmt.Errorf("invalid sensor type %q: %w", in.SensorType, ErrValidation)
	}
	if in.FarmID == "" || in.RobotID == "" {
		return nil, fmt.Errorf("farmId and robotId are required: %w", ErrValidation)
	}

	var reading model.SensorReading
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		farm, err := getFarm(tx, in.FarmID)
		if err != nil {
			return err
		}
		robot, err := getRobot(tx, in.RobotID)
		if err != nil {
			return err
		}

		ts := in.Timestamp
		if ts.IsZero() {
			ts = time.Now().UTC()
		}

		id, seq, err := nextID(tx, &model.SensorReading{}, "s")
		if err != nil {
			return err
		}

		reading = model.SensorReading{
			ID:         id,
			Seq:        seq,
			FarmID:     farm.ID,
			FarmName:   farm.Name,
			RobotID:    robot.ID,
			RobotName:  robot.Name,
			SensorType: in.SensorType,
			Value:      in.Value,
			Unit:       in.Unit,
			Timestamp:  ts,
		}
		if err := tx.Create(&reading).Error; err != nil {
			return fmt.Errorf("failed to create reading: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &reading, nil
}
