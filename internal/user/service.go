// File: internal/user/service.go
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	firebaseauth "firebase.google.com/go/v4/auth"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"realestate_backend/internal/common"
	"realestate_backend/internal/platform/database"
	"realestate_backend/internal/shared"
)

// Service defines user-related business logic beyond the shared provisioning contract.
type Service interface {
	shared.Service
	GetProfile(ctx context.Context, uid string) (*User, error)
	UpdateProfile(ctx context.Context, uid string, req UpdateProfileRequest) error
	ListAll(ctx context.Context) ([]User, error)
	MakeAdmin(ctx context.Context, uid string) error
	MakeAgent(ctx context.Context, uid string) error
	MarkFraud(ctx context.Context, uid string) error
	Delete(ctx context.Context, uid string) error
}

// CascadePurger removes all data owned by an account in other collections.
// It is satisfied by the cleanup package; kept as an interface here to avoid
// a dependency from user onto the domain packages.
type CascadePurger interface {
	PurgeUserData(ctx context.Context, usr *shared.User) error
}

// ServiceImplementation implements the user Service.
type ServiceImplementation struct {
	repo   Repository
	purger CascadePurger
	logger *zap.Logger
}

var _ Service = (*ServiceImplementation)(nil)
var _ shared.Service = (*ServiceImplementation)(nil)

// NewService creates a new user service.
func NewService(repo Repository, purger CascadePurger, logger *zap.Logger) *ServiceImplementation {
	return &ServiceImplementation{repo: repo, purger: purger, logger: logger}
}

// GetOrCreateFromFirebaseClaims resolves the local account for a verified
// identity. First-time callers are provisioned with the default "user" role;
// returning callers get their last-login timestamp refreshed.
func (s *ServiceImplementation) GetOrCreateFromFirebaseClaims(ctx context.Context, token *firebaseauth.Token) (*shared.User, bool, error) {
	existing, err := s.repo.FindByUID(ctx, token.UID)
	if err == nil {
		now := time.Now()
		if updateErr := s.repo.UpdateFields(ctx, existing.UID, bson.M{"lastLoginAt": now}); updateErr != nil {
			// Not critical for authentication.
			s.logger.Warn("Failed to update last login time", zap.Error(updateErr), zap.String("uid", existing.UID))
		} else {
			existing.LastLoginAt = &now
		}
		return ToShared(existing), false, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, false, fmt.Errorf("failed to look up user by uid: %w", err)
	}

	email, _ := token.Claims["email"].(string)
	name, _ := token.Claims["name"].(string)
	picture, _ := token.Claims["picture"].(string)
	if name == "" && email != "" {
		name = strings.SplitN(email, "@", 2)[0]
	}

	now := time.Now()
	newUser := &User{
		ID:          database.NewID(),
		UID:         token.UID,
		Email:       email,
		DisplayName: name,
		PhotoURL:    picture,
		Role:        common.RoleUser,
		IsFraud:     false,
		CreatedAt:   now,
		LastLoginAt: &now,
	}
	if err := s.repo.Create(ctx, newUser); err != nil {
		s.logger.Error("Failed to provision user account", zap.Error(err), zap.String("uid", token.UID))
		return nil, false, err
	}

	s.logger.Info("User account created", zap.String("uid", newUser.UID), zap.String("email", newUser.Email))
	return ToShared(newUser), true, nil
}

// GetByUID returns the cross-package view of an account.
func (s *ServiceImplementation) GetByUID(ctx context.Context, uid string) (*shared.User, error) {
	usr, err := s.repo.FindByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	return ToShared(usr), nil
}

func (s *ServiceImplementation) GetProfile(ctx context.Context, uid string) (*User, error) {
	return s.repo.FindByUID(ctx, uid)
}

// UpdateProfile changes display name and photo URL. Empty fields are left untouched.
func (s *ServiceImplementation) UpdateProfile(ctx context.Context, uid string, req UpdateProfileRequest) error {
	fields := bson.M{}
	if strings.TrimSpace(req.DisplayName) != "" {
		fields["displayName"] = req.DisplayName
	}
	if strings.TrimSpace(req.PhotoURL) != "" {
		fields["photoURL"] = req.PhotoURL
	}
	if len(fields) == 0 {
		return common.ErrBadRequest.WithDetails("No profile fields to update.")
	}
	return s.repo.UpdateFields(ctx, uid, fields)
}

func (s *ServiceImplementation) ListAll(ctx context.Context) ([]User, error) {
	return s.repo.FindAll(ctx)
}

func (s *ServiceImplementation) MakeAdmin(ctx context.Context, uid string) error {
	return s.promote(ctx, uid, common.RoleAdmin)
}

func (s *ServiceImplementation) MakeAgent(ctx context.Context, uid string) error {
	return s.promote(ctx, uid, common.RoleAgent)
}

func (s *ServiceImplementation) promote(ctx context.Context, uid string, role common.Role) error {
	usr, err := s.repo.FindByUID(ctx, uid)
	if err != nil {
		return err
	}
	if err := s.repo.UpdateRole(ctx, uid, role); err != nil {
		return err
	}
	s.logger.Info("User role updated",
		zap.String("uid", uid),
		zap.String("email", usr.Email),
		zap.String("from", usr.Role.String()),
		zap.String("to", role.String()),
	)
	return nil
}

// MarkFraud flags an agent as fraudulent. The account keeps existing but its
// listings disappear from every public view and it can no longer publish.
func (s *ServiceImplementation) MarkFraud(ctx context.Context, uid string) error {
	usr, err := s.repo.FindByUID(ctx, uid)
	if err != nil {
		return err
	}
	if usr.Role != common.RoleAgent {
		return common.ErrBadRequest.WithDetails("User is not an agent.")
	}
	if err := s.repo.UpdateFields(ctx, uid, bson.M{"isFraud": true, "role": common.RoleFraud}); err != nil {
		return err
	}
	s.logger.Warn("Agent marked as fraud", zap.String("uid", uid), zap.String("email", usr.Email))
	return nil
}

// Delete removes an account and everything it owns. Related collections are
// purged first so a failure there never leaves orphaned records pointing at a
// deleted account.
func (s *ServiceImplementation) Delete(ctx context.Context, uid string) error {
	usr, err := s.repo.FindByUID(ctx, uid)
	if err != nil {
		return err
	}
	if s.purger != nil {
		if err := s.purger.PurgeUserData(ctx, ToShared(usr)); err != nil {
			s.logger.Error("Failed to purge related user data", zap.Error(err), zap.String("uid", uid))
			return err
		}
	}
	if err := s.repo.DeleteByUID(ctx, uid); err != nil {
		return err
	}
	s.logger.Info("User account deleted", zap.String("uid", uid), zap.String("email", usr.Email))
	return nil
}
