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

// ListFarms returns all farms in insertion order with RobotCount filled
// from a single group-by over the robots table.
func (s *gormStore) ListFarms(ctx context.Context) ([]model.Farm, error) {
	var farms []model.Farm
	if err := s.db.WithContext(ctx).Order("seq").Find(&farms).Error; err != nil {
		return nil, fmt.Errorf("failed to list farms: %w", err)
	}

	type aggRow struct {
		FarmID string
		N      int64
	}
	var aggs []aggRow
	err := s.db.WithContext(ctx).
		Model(&model.Robot{}).
		Select("farm_id as farm_id, COUNT(*) as n").
		Where("farm_id IS NOT NULL").
		Group("farm_id").
		Scan(&aggs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate robots per farm: %w", err)
	}

	counts := make(map[string]int64, len(aggs))
	for _, a := range aggs {
		counts[a.FarmID] = a.N
	}
	for i := range farms {
		farms[i].RobotCount = counts[farms[i].ID]
	}
	return farms, nil
}

// GetFarm fetches one farm with its derived robot count.
func (s *gormStore) GetFarm(ctx context.Context, id string) (*model.Farm, error) {
	farm, err := getFarm(s.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	var n int64
	if err := s.db.WithContext(ctx).Model(&model.Robot{}).Where("farm_id = ?", id).Count(&n).Error; err != nil {
		return nil, fmt.Errorf("failed to count robots of farm %s: %w", id, err)
	}
	farm.RobotCount = n
	return farm, nil
}

func getFarm(tx *gorm.DB, id string) (*model.Farm, error) {
	var farm model.Farm
	if err := tx.First(&farm, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("farm %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch farm %s: %w", id, err)
	}
	return &farm, nil
}

// resolveFarmer checks that the id references an existing user with the
// farmer role and returns their display name for the denormalized cache.
func resolveFarmer(tx *gorm.DB, farmerID string) (string, error) {
	user, err := getUser(tx, farmerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", fmt.Errorf("farmer %s does not exist: %w", farmerID, ErrValidation)
		}
		return "", err
	}
	if user.Role != model.RoleFarmer {
		return "", fmt.Errorf("user %s is not a farmer: %w", farmerID, ErrValidation)
	}
	return user.DisplayName(), nil
}

// CreateFarm inserts a farm owned by an existing farmer.
func (s *gormStore) CreateFarm(ctx context.Context, in NewFarm) (*model.Farm, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("farm name is required: %w", ErrValidation)
	}
	if in.FarmerID == "" {
		return nil, fmt.Errorf("farmerId is required: %w", ErrValidation)
	}
	if in.Status == "" {
		in.Status = model.FarmActive
	}
	if !in.Status.Valid() {
		return nil, fmt.Errorf("invalid farm status %q: %w", in.Status, ErrValidation)
	}

	var farm model.Farm
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		farmerName, err := resolveFarmer(tx, in.FarmerID)
		if err != nil {
			return err
		}

		id, seq, err := nextID(tx, &model.Farm{}, "f")
		if err != nil {
			return err
		}

		farm = model.Farm{
			ID:             id,
			Seq:            seq,
			Name:           in.Name,
			Location:       in.Location,
			GPSCoordinates: in.GPSCoordinates,
			FarmerID:       in.FarmerID,
			FarmerName:     farmerName,
			Image:          in.Image,
			Status:         in.Status,
			CreatedAt:      time.Now().UTC(),
		}
		if err := tx.Create(&farm).Error; err != nil {
			return fmt.Errorf("failed to create farm: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &farm, nil
}

// UpdateFarm shallow-merges the patch. A FarmerID change re-resolves the
// cached farmer name against the new owner.
func (s *gormStore) UpdateFarm(ctx context.Context, id string, patch FarmPatch) (*model.Farm, error) {
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, fmt.Errorf("invalid farm status %q: %w", *patch.Status, ErrValidation)
	}

	var farm *model.Farm
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		farm, err = getFarm(tx, id)
		if err != nil {
			return err
		}

		if patch.Name != nil {
			farm.Name = *patch.Name
		}
		if patch.Location != nil {
			farm.Location = *patch.Location
		}
		if patch.GPSCoordinates != nil {
			farm.GPSCoordinates = *patch.GPSCoordinates
		}
		if patch.FarmerID != nil && *patch.FarmerID != farm.FarmerID {
			farmerName, err := resolveFarmer(tx, *patch.FarmerID)
			if err != nil {
				return err
			}
			farm.FarmerID = *patch.FarmerID
			farm.FarmerName = farmerName
		}
		if patch.Image != nil {
			farm.Image = *patch.Image
		}
		if patch.Status != nil {
			farm.Status = *patch.Status
		}

		if err := tx.Save(farm).Error; err != nil {
			return fmt.Errorf("failed to update farm %s: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return farm, nil
}

// DeleteFarm removes the farm and clears the farm pair on every robot
// that was assigned to it, in one transaction. The pre-deletion snapshot
// is returned.
func (s *gormStore) DeleteFarm(ctx context.Context, id string) (*model.Farm, error) {
	var snapshot *model.Farm
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		snapshot, err = getFarm(tx, id)
		if err != nil {
			return err
		}

		err = tx.Model(&model.Robot{}).
			Where("farm_id = ?", id).
			Updates(map[string]any{"farm_id": nil, "farm_name": nil}).Error
		if err != nil {
			return fmt.Errorf("failed to unassign robots of farm %s: %w", id, err)
		}

		if err := tx.Delete(&model.Farm{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete farm %s: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}
