package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"farmwatch-backend/internal/model"
)

// ListRobots returns all robots in insertion order.
func (s *gormStore) ListRobots(ctx context.Context) ([]model.Robot, error) {
	var robots []model.Robot
	if err := s.db.WithContext(ctx).Order("seq").Find(&robots).Error; err != nil {
		return nil, fmt.Errorf("failed to list robots: %w", err)
	}
	return robots, nil
}

// GetRobot fetches a single robot by id.
func (s *gormStore) GetRobot(ctx context.Context, id string) (*model.Robot, error) {
	return getRobot(s.db.WithContext(ctx), id)
}

func getRobot(tx *gorm.DB, id string) (*model.Robot, error) {
	var robot model.Robot
	if err := tx.First(&robot, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("robot %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch robot %s: %w", id, err)
	}
	return &robot, nil
}

// resolveFarmRef validates a farm reference and returns its display name.
func resolveFarmRef(tx *gorm.DB, farmID string) (string, error) {
	farm, err := getFarm(tx, farmID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", fmt.Errorf("farm %s does not exist: %w", farmID, ErrValidation)
		}
		return "", err
	}
	return farm.Name, nil
}

// resolveEngineerRef validates an engineer reference and returns the
// engineer's display name.
func resolveEngineerRef(tx *gorm.DB, engineerID string) (string, error) {
	user, err := getUser(tx, engineerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", fmt.Errorf("engineer %s does not exist: %w", engineerID, ErrValidation)
		}
		return "", err
	}
	if user.Role != model.RoleEngineer {
		return "", fmt.Errorf("user %s is not an engineer: %w", engineerID, ErrValidation)
	}
	return user.DisplayName(), nil
}

func validateBattery(level int) error {
	if level < 0 || level > 100 {
		return fmt.Errorf("battery level %d out of range [0,100]: %w", level, ErrValidation)
	}
	return nil
}

// CreateRobot inserts a robot, resolving any farm/engineer references to
// their display names so the pairs are set together.
func (s *gormStore) CreateRobot(ctx context.Context, in NewRobot) (*model.Robot, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("robot name is required: %w", ErrValidation)
	}
	if in.Status == "" {
		in.Status = model.RobotAvailable
	}
	if !in.Status.Valid() {
		return nil, fmt.Errorf("invalid robot status %q: %w", in.Status, ErrValidation)
	}
	if in.Connectivity == "" {
		in.Connectivity = model.ConnOffline
	}
	if !in.Connectivity.Valid() {
		return nil, fmt.Errorf("invalid connectivity %q: %w", in.Connectivity, ErrValidation)
	}
	if err := validateBattery(in.BatteryLevel); err != nil {
		return nil, err
	}

	var robot model.Robot
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var farmName, engineerName *string
		if in.FarmID != nil {
			name, err := resolveFarmRef(tx, *in.FarmID)
			if err != nil {
				return err
			}
			farmName = &name
		}
		if in.EngineerID != nil {
			name, err := resolveEngineerRef(tx, *in.EngineerID)
			if err != nil {
				return err
			}
			engineerName = &name
		}

		id, seq, err := nextID(tx, &model.Robot{}, "r")
		if err != nil {
			return err
		}

		robot = model.Robot{
			ID:           id,
			Seq:          seq,
			Name:         in.Name,
			FarmID:       in.FarmID,
			FarmName:     farmName,
			EngineerID:   in.EngineerID,
			EngineerName: engineerName,
			Status:       in.Status,
			Connectivity: in.Connectivity,
			BatteryLevel: in.BatteryLevel,
			LastActive:   time.Now().UTC(),
		}
		if err := tx.Create(&robot).Error; err != nil {
			return fmt.Errorf("failed to create robot: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &robot, nil
}

// UpdateRobot shallow-merges the patch. A farm or engineer reference is
// only ever written together with its resolved display name; clearing the
// id clears the name in the same write.
func (s *gormStore) UpdateRobot(ctx context.Context, id string, patch RobotPatch) (*model.Robot, error) {
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, fmt.Errorf("invalid robot status %q: %w", *patch.Status, ErrValidation)
	}
	if patch.Connectivity != nil && !patch.Connectivity.Valid() {
		return nil, fmt.Errorf("invalid connectivity %q: %w", *patch.Connectivity, ErrValidation)
	}
	if patch.BatteryLevel != nil {
		if err := validateBattery(*patch.BatteryLevel); err != nil {
			return nil, err
		}
	}

	var robot *model.Robot
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		robot, err = getRobot(tx, id)
		if err != nil {
			return err
		}

		if patch.Name != nil {
			robot.Name = *patch.Name
		}
		if patch.Farm != nil {
			if patch.Farm.ID == nil {
				robot.FarmID = nil
				robot.FarmName = nil
			} else {
				name, err := resolveFarmRef(tx, *patch.Farm.ID)
				if err != nil {
					return err
				}
				robot.FarmID = patch.Farm.ID
				robot.FarmName = &name
			}
		}
		if patch.Engineer != nil {
			if patch.Engineer.ID == nil {
				robot.EngineerID = nil
				robot.EngineerName = nil
			} else {
				name, err := resolveEngineerRef(tx, *patch.Engineer.ID)
				if err != nil {
					return err
				}
				robot.EngineerID = patch.Engineer.ID
				robot.EngineerName = &name
			}
		}
		if patch.Status != nil {
			robot.Status = *patch.Status
		}
		if patch.Connectivity != nil {
			robot.Connectivity = *patch.Connectivity
		}
		if patch.BatteryLevel != nil {
			robot.BatteryLevel = *patch.BatteryLevel
		}

		// Save via a full-field update so cleared pairs actually write
		// their NULLs.
		if err := tx.Model(robot).Select("*").Updates(robot).Error; err != nil {
			return fmt.Errorf("failed to update robot %s: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return robot, nil
}

// DeleteRobot removes the robot and returns its pre-deletion snapshot.
// Nothing cascades off a robot; readings keep their denormalized names.
func (s *gormStore) DeleteRobot(ctx context.Context, id string) (*model.Robot, error) {
	var snapshot *model.Robot
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		snapshot, err = getRobot(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Delete(&model.Robot{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete robot %s: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

// AssignRobotsToEngineer assigns every listed robot to the engineer. The
// engineer must exist and be active, otherwise the whole batch fails with
// ErrPrecondition and no robot is touched. Unknown robot ids are skipped
// silently; the updated robots are returned.
func (s *gormStore) AssignRobotsToEngineer(ctx context.Context, robotIDs []string, engineerID string) ([]model.Robot, error) {
	var updated []model.Robot
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		engineer, err := getUser(tx, engineerID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return fmt.Errorf("engineer %s does not exist: %w", engineerID, ErrPrecondition)
			}
			return err
		}
		if engineer.Role != model.RoleEngineer || engineer.Status != model.UserActive {
			return fmt.Errorf("user %s is not an active engineer: %w", engineerID, ErrPrecondition)
		}

		name := engineer.DisplayName()
		for _, robotID := range robotIDs {
			robot, err := getRobot(tx, robotID)
			if errors.Is(err, ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			robot.EngineerID = &engineerID
			robot.EngineerName = &name
			if err := tx.Save(robot).Error; err != nil {
				return fmt.Errorf("failed to assign robot %s: %w", robotID, err)
			}
			updated = append(updated, *robot)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// RecordTelemetry applies one robot report: marks the robot online, bumps
// LastActive, merges the battery level and appends any carried readings.
// Readings require the robot to be assigned to a farm, since every
// reading is stored against a farm.
func (s *gormStore) RecordTelemetry(ctx context.Context, robotID string, in Telemetry) (*model.Robot, error) {
	if in.BatteryLevel != nil {
		if err := validateBattery(*in.BatteryLevel); err != nil {
			return nil, err
		}
	}
	for _, r := range in.Readings {
		if !r.SensorType.Valid() {
			return nil, fmt.Errorf("invalid sensor type %q: %w", r.SensorType, ErrValidation)
		}
	}

	now := time.Now().UTC()
	var robot *model.Robot
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		robot, err = getRobot(tx, robotID)
		if err != nil {
			return err
		}

		if len(in.Readings) > 0 && robot.FarmID == nil {
			return fmt.Errorf("robot %s is not assigned to a farm: %w", robotID, ErrValidation)
		}

		robot.Connectivity = model.ConnOnline
		robot.LastActive = now
		if in.BatteryLevel != nil {
			robot.BatteryLevel = *in.BatteryLevel
		}
		if err := tx.Save(robot).Error; err != nil {
			return fmt.Errorf("failed to record telemetry for robot %s: %w", robotID, err)
		}

		for _, r := range in.Readings {
			ts := r.Timestamp
			if ts.IsZero() {
				ts = now
			}
			id, seq, err := nextID(tx, &model.SensorReading{}, "s")
			if err != nil {
				return err
			}
			reading := model.SensorReading{
				ID:         id,
				Seq:        seq,
				FarmID:     *robot.FarmID,
				FarmName:   derefOrEmpty(robot.FarmName),
				RobotID:    robot.ID,
				RobotName:  robot.Name,
				SensorType: r.SensorType,
				Value:      r.Value,
				Unit:       r.Unit,
				Timestamp:  ts,
			}
			if err := tx.Create(&reading).Error; err != nil {
				return fmt.Errorf("failed to store reading for robot %s: %w", robotID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return robot, nil
}

// MarkStaleRobotsOffline flips robots that are still marked online but
// have not reported since the cutoff. The flipped robots are returned so
// the caller can dispatch alerts for each transition.
func (s *gormStore) MarkStaleRobotsOffline(ctx context.Context, cutoff Cutoff) ([]model.Robot, error) {
	var stale []model.Robot
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("connectivity = ? AND last_active < ?", model.ConnOnline, cutoff.Before).
			Order("seq").
			Find(&stale).Error
		if err != nil {
			return fmt.Errorf("failed to find stale robots: %w", err)
		}
		if len(stale) == 0 {
			return nil
		}

		ids := make([]string, len(stale))
		for i := range stale {
			ids[i] = stale[i].ID
			stale[i].Connectivity = model.ConnOffline
		}
		err = tx.Model(&model.Robot{}).
			Where("id IN ?", ids).
			Update("connectivity", model.ConnOffline).Error
		if err != nil {
			return fmt.Errorf("failed to mark robots offline: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stale, nil
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
