// File: internal/user/model.go
package user

import (
	"time"

	"realestate_backend/internal/common"
	"realestate_backend/internal/platform/database"
	"realestate_backend/internal/shared"
)

// User represents an account document in the users collection. Accounts are
// keyed by the identity provider uid; the _id is an internal document key.
type User struct {
	ID          database.ID `bson:"_id,omitempty" json:"id"`
	UID         string      `bson:"uid" json:"uid"`
	Email       string      `bson:"email" json:"email"`
	DisplayName string      `bson:"displayName" json:"displayName"`
	PhotoURL    string      `bson:"photoURL,omitempty" json:"photoURL,omitempty"`
	Role        common.Role `bson:"role" json:"role"`
	IsFraud     bool        `bson:"isFraud" json:"isFraud"`
	CreatedAt   time.Time   `bson:"createdAt" json:"createdAt"`
	LastLoginAt *time.Time  `bson:"lastLoginAt,omitempty" json:"lastLoginAt,omitempty"`
}

// --- DTOs for API requests/responses ---

// UpdateProfileRequest defines the mutable profile fields.
type UpdateProfileRequest struct {
	DisplayName string `json:"displayName" binding:"omitempty,max=100"`
	PhotoURL    string `json:"photoURL" binding:"omitempty,max=2048"`
}

// UserResponse defines the structure for user data sent in API responses.
type UserResponse struct {
	UID         string      `json:"uid"`
	Email       string      `json:"email"`
	DisplayName string      `json:"displayName"`
	PhotoURL    string      `json:"photoURL,omitempty"`
	Role        common.Role `json:"role"`
	IsFraud     bool        `json:"isFraud"`
	CreatedAt   time.Time   `json:"createdAt"`
	LastLoginAt *time.Time  `json:"lastLoginAt,omitempty"`
}

// ToUserResponse converts a User model to a UserResponse DTO.
func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		UID:         u.UID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		PhotoURL:    u.PhotoURL,
		Role:        u.Role,
		IsFraud:     u.IsFraud,
		CreatedAt:   u.CreatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}

// ToShared converts a storage model to the cross-package account view.
func ToShared(u *User) *shared.User {
	return &shared.User{
		ID:          u.ID.String(),
		UID:         u.UID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		PhotoURL:    u.PhotoURL,
		Role:        u.Role,
		IsFraud:     u.IsFraud,
		CreatedAt:   u.CreatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}
