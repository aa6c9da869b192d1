package domain

import "time"

// UserRole defines the global role of a user.
type UserRole string

const (
	RoleTraveler UserRole = "TRAVELER" // customer who owns package requests
	RolePartner  UserRole = "PARTNER"  // external agency operator, ownership-scoped
	RoleEmployee UserRole = "EMPLOYEE" // internal operator, ownership-scoped
	RoleMaster   UserRole = "MASTER"   // unrestricted operator
)

// IsOperator reports whether the role may perform operator-side proposal transitions.
func (r UserRole) IsOperator() bool {
	return r == RolePartner || r == RoleEmployee || r == RoleMaster
}

// User represents a user of the application in the domain.
type User struct {
	UserID       string   `json:"userID" db:"user_id"` // Primary Key (UUID)
	Name         string   `json:"name" db:"name"`
	Username     string   `json:"username" db:"username"`
	Email        string   `json:"email" db:"email"`
	PasswordHash string   `json:"-" db:"password_hash"`
	Role         UserRole `json:"role" db:"role"`
	AuthProvider string   `json:"authProvider" db:"auth_provider"` // "local" or "google"
	AuditFields
	RefreshTokenHash       string     `json:"-" db:"refresh_token_hash"`
	RefreshTokenExpiryTime *time.Time `json:"-" db:"refresh_token_expiry_time"`
	DeletedAt              *time.Time `json:"deletedAt,omitempty" db:"deleted_at"` // Used for soft delete
}
