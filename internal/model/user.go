package model

import "time"

// Role is a user's capability class.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEngineer Role = "engineer"
	RoleFarmer   Role = "farmer"
)

// Valid reports whether r is one of the closed set of roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEngineer, RoleFarmer:
		return true
	}
	return false
}

// UserStatus is a user's lifecycle stage.
type UserStatus string

const (
	UserActive          UserStatus = "active"
	UserPendingApproval UserStatus = "pending_approval"
	UserRejected        UserStatus = "rejected"
)

func (s UserStatus) Valid() bool {
	switch s {
	case UserActive, UserPendingApproval, UserRejected:
		return true
	}
	return false
}

// User represents a platform account: admin, engineer or farmer.
type User struct {
	ID           string     `gorm:"primaryKey;size:32" json:"id"`
	Seq          int64      `gorm:"uniqueIndex;not null" json:"-"`
	FirstName    string     `gorm:"size:128;not null" json:"firstName"`
	LastName     string     `gorm:"size:128;not null" json:"lastName"`
	Email        string     `gorm:"uniqueIndex;size:256;not null" json:"email"`
	Phone        string     `gorm:"size:32" json:"phone"`
	Role         Role       `gorm:"size:16;not null" json:"role"`
	Status       UserStatus `gorm:"size:32;not null" json:"status"`
	ProfileImage string     `gorm:"size:512" json:"profileImage"`
	CreatedAt    time.Time  `gorm:"not null" json:"createdAt"`
}

// DisplayName is the form cached on robots and farms that reference the user.
func (u *User) DisplayName() string {
	return u.FirstName + " " + u.LastName
}

// UserCredential keeps the bcrypt hash out of the User entity surface.
type UserCredential struct {
	UserID       string    `gorm:"primaryKey;size:32"`
	PasswordHash string    `gorm:"size:128;not null"`
	CreatedAt    time.Time `gorm:"not null"`

	User User `gorm:"constraint:OnDelete:CASCADE"`
}
