package domain

import "time"

// UserRole is the authorization role of a user
type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleAdmin    UserRole = "admin"
)

// UserStatus replaces hard deletion for users
type UserStatus string

const (
	UserActive   UserStatus = "active"
	UserDisabled UserStatus = "disabled"
)

// User Model
type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`                          // Primary key
	Name         string     `gorm:"size:120;not null" json:"name"`                 // Display name
	Email        string     `gorm:"size:255;uniqueIndex;not null" json:"email"`    // Unique email
	Phone        string     `gorm:"size:32" json:"phone"`                          // Contact phone
	PasswordHash string     `gorm:"not null" json:"-"`                             // bcrypt hash
	Role         UserRole   `gorm:"type:varchar(16);default:customer" json:"role"` // customer or admin
	Status       UserStatus `gorm:"type:varchar(16);default:active" json:"status"` // active or disabled
	CreatedAt    time.Time  `json:"created_at"`                                    // Registration time
	UpdatedAt    time.Time  `json:"updated_at"`                                    // Last update
}

// IsAdmin reports whether the user may run admin-only operations
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
