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

// ListUsers returns all users in insertion order.
func (s *gormStore) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := s.db.WithContext(ctx).Order("seq").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// ListUsersByRole returns users with the given role, insertion order.
// An unknown role simply matches nothing.
func (s *gormStore) ListUsersByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	var users []model.User
	if err := s.db.WithContext(ctx).Where("role = ?", role).Order("seq").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users by role: %w", err)
	}
	return users, nil
}

// ListUsersByStatus returns users with the given status, insertion order.
func (s *gormStore) ListUsersByStatus(ctx context.Context, status model.UserStatus) ([]model.User, error) {
	var users []model.User
	if err := s.db.WithContext(ctx).Where("status = ?", status).Order("seq").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users by status: %w", err)
	}
	return users, nil
}

// GetUser fetches a single user by id.
func (s *gormStore) GetUser(ctx context.Context, id string) (*model.User, error) {
	return getUser(s.db.WithContext(ctx), id)
}

func getUser(tx *gorm.DB, id string) (*model.User, error) {
	var user model.User
	if err := tx.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch user %s: %w", id, err)
	}
	return &user, nil
}

// GetUserByEmail fetches a user by email address (login lookup).
func (s *gormStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with email %s: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch user by email: %w", err)
	}
	return &user, nil
}

// GetCredential fetches the stored password hash for a user.
func (s *gormStore) GetCredential(ctx context.Context, userID string) (*model.UserCredential, error) {
	var cred model.UserCredential
	if err := s.db.WithContext(ctx).First(&cred, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("credential for user %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch credential: %w", err)
	}
	return &cred, nil
}

func validateNewUser(in *NewUser) error {
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return fmt.Errorf("first and last name are required: %w", ErrValidation)
	}
	if strings.TrimSpace(in.Email) == "" {
		return fmt.Errorf("email is required: %w", ErrValidation)
	}
	if !in.Role.Valid() {
		return fmt.Errorf("invalid role %q: %w", in.Role, ErrValidation)
	}
	if in.Status == "" {
		// Engineers go through the approval queue; everyone else is live
		// immediately.
		if in.Role == model.RoleEngineer {
			in.Status = model.UserPendingApproval
		} else {
			in.Status = model.UserActive
		}
	}
	if !in.Status.Valid() {
		return fmt.Errorf("invalid status %q: %w", in.Status, ErrValidation)
	}
	return nil
}

// CreateUser inserts a new user with a generated id and creation timestamp.
func (s *gormStore) CreateUser(ctx context.Context, in NewUser) (*model.User, error) {
	return s.createUser(ctx, in, "")
}

// RegisterUser is CreateUser plus a stored credential, written in the same
// transaction so a user never exists without a way to log in.
func (s *gormStore) RegisterUser(ctx context.Context, in NewUser, passwordHash string) (*model.User, error) {
	if passwordHash == "" {
		return nil, fmt.Errorf("password hash is required: %w", ErrValidation)
	}
	return s.createUser(ctx, in, passwordHash)
}

func (s *gormStore) createUser(ctx context.Context, in NewUser, passwordHash string) (*model.User, error) {
	if err := validateNewUser(&in); err != nil {
		return nil, err
	}

	var user model.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.User{}).Where("email = ?", in.Email).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check email uniqueness: %w", err)
		}
		if count > 0 {
			return fmt.Errorf("email %s is already registered: %w", in.Email, ErrValidation)
		}

		id, seq, err := nextID(tx, &model.User{}, "u")
		if err != nil {
			return err
		}

		user = model.User{
			ID:           id,
			Seq:          seq,
			FirstName:    in.FirstName,
			LastName:     in.LastName,
			Email:        in.Email,
			Phone:        in.Phone,
			Role:         in.Role,
			Status:       in.Status,
			ProfileImage: in.ProfileImage,
			CreatedAt:    time.Now().UTC(),
		}
		if err := tx.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		if passwordHash != "" {
			cred := model.UserCredential{
				UserID:       user.ID,
				PasswordHash: passwordHash,
				CreatedAt:    user.CreatedAt,
			}
			if err := tx.Create(&cred).Error; err != nil {
				return fmt.Errorf("failed to store credential: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser shallow-merges the patch into the user and applies the
// cascade rules in the same transaction:
//   - an engineer leaving active loses all robot assignments
//   - a farmer leaving active flips their farms to inactive
func (s *gormStore) UpdateUser(ctx context.Context, id string, patch UserPatch) (*model.User, error) {
	if patch.Role != nil && !patch.Role.Valid() {
		return nil, fmt.Errorf("invalid role %q: %w", *patch.Role, ErrValidation)
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, fmt.Errorf("invalid status %q: %w", *patch.Status, ErrValidation)
	}

	var user *model.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		user, err = getUser(tx, id)
		if err != nil {
			return err
		}

		if patch.FirstName != nil {
			user.FirstName = *patch.FirstName
		}
		if patch.LastName != nil {
			user.LastName = *patch.LastName
		}
		if patch.Email != nil && *patch.Email != user.Email {
			var count int64
			if err := tx.Model(&model.User{}).Where("email = ? AND id <> ?", *patch.Email, id).Count(&count).Error; err != nil {
				return fmt.Errorf("failed to check email uniqueness: %w", err)
			}
			if count > 0 {
				return fmt.Errorf("email %s is already registered: %w", *patch.Email, ErrValidation)
			}
			user.Email = *patch.Email
		}
		if patch.Phone != nil {
			user.Phone = *patch.Phone
		}
		if patch.Role != nil {
			user.Role = *patch.Role
		}
		if patch.Status != nil {
			user.Status = *patch.Status
		}
		if patch.ProfileImage != nil {
			user.ProfileImage = *patch.ProfileImage
		}

		if err := tx.Save(user).Error; err != nil {
			return fmt.Errorf("failed to update user %s: %w", id, err)
		}

		// Status cascades fire only when the patch actually carried a
		// status and it is a non-active one.
		if patch.Status != nil && *patch.Status != model.UserActive {
			switch user.Role {
			case model.RoleEngineer:
				if err := unassignRobotsOfEngineer(tx, id); err != nil {
					return err
				}
			case model.RoleFarmer:
				if err := deactivateFarmsOfFarmer(tx, id); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes the user and runs the role's cascade first. The
// pre-deletion snapshot is returned so callers can update their view.
// A deleted farmer's farms keep the dangling FarmerID on purpose; only
// their status changes.
func (s *gormStore) DeleteUser(ctx context.Context, id string) (*model.User, error) {
	var snapshot *model.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		snapshot, err = getUser(tx, id)
		if err != nil {
			return err
		}

		switch snapshot.Role {
		case model.RoleEngineer:
			if err := unassignRobotsOfEngineer(tx, id); err != nil {
				return err
			}
		case model.RoleFarmer:
			if err := deactivateFarmsOfFarmer(tx, id); err != nil {
				return err
			}
		}

		if err := tx.Delete(&model.UserCredential{}, "user_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete credential for user %s: %w", id, err)
		}
		if err := tx.Delete(&model.User{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete user %s: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

// ApproveEngineer moves a pending engineer to active. Existing robot
// assignments (if any) are untouched; approval never assigns robots.
func (s *gormStore) ApproveEngineer(ctx context.Context, id string) (*model.User, error) {
	return s.setUserStatus(ctx, id, model.UserActive)
}

// RejectEngineer marks the engineer rejected. Robots assigned while the
// engineer was pending are NOT unassigned here; only a later status
// transition through UpdateUser clears them.
func (s *gormStore) RejectEngineer(ctx context.Context, id string) (*model.User, error) {
	return s.setUserStatus(ctx, id, model.UserRejected)
}

func (s *gormStore) setUserStatus(ctx context.Context, id string, status model.UserStatus) (*model.User, error) {
	var user *model.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		user, err = getUser(tx, id)
		if err != nil {
			return err
		}
		user.Status = status
		if err := tx.Save(user).Error; err != nil {
			return fmt.Errorf("failed to set status on user %s: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// unassignRobotsOfEngineer clears the engineer pair on every robot that
// references the given engineer. Farm assignment and status are untouched.
func unassignRobotsOfEngineer(tx *gorm.DB, engineerID string) error {
	err := tx.Model(&model.Robot{}).
		Where("engineer_id = ?", engineerID).
		Updates(map[string]any{"engineer_id": nil, "engineer_name": nil}).Error
	if err != nil {
		return fmt.Errorf("failed to unassign robots of engineer %s: %w", engineerID, err)
	}
	return nil
}

// deactivateFarmsOfFarmer marks every farm owned by the farmer inactive.
// The farm records themselves survive.
func deactivateFarmsOfFarmer(tx *gorm.DB, farmerID string) error {
	err := tx.Model(&model.Farm{}).
		Where("farmer_id = ?", farmerID).
		Update("status", model.FarmInactive).Error
	if err != nil {
		return fmt.Errorf("failed to deactivate farms of farmer %s: %w", farmerID, err)
	}
	return nil
}
