// File: internal/shared/core.go
package shared

import (
	"context"
	"time"

	firebaseauth "firebase.google.com/go/v4/auth"

	"realestate_backend/internal/common"
)

// User is the cross-package view of an account, detached from its storage model.
type User struct {
	ID          string
	UID         string
	Email       string
	DisplayName string
	PhotoURL    string
	Role        common.Role
	IsFraud     bool
	CreatedAt   time.Time
	LastLoginAt *time.Time
}

// TokenVerifier validates a caller's credential with the external identity
// provider and yields the decoded claims. Implemented by the Firebase service;
// faked in tests.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*firebaseauth.Token, error)
}

// Service is the user-provisioning contract the auth middleware depends on.
// Defined here so middleware does not import the user package directly.
type Service interface {
	// GetOrCreateFromFirebaseClaims resolves the local account for a verified
	// identity, creating it with the default role on first login.
	GetOrCreateFromFirebaseClaims(ctx context.Context, token *firebaseauth.Token) (usr *User, wasCreated bool, err error)
	GetByUID(ctx context.Context, uid string) (*User, error)
}
