// File: internal/common/roles.go
package common

import "fmt"

// Role is the closed set of account roles. Authorization branches switch over
// this type rather than raw strings so a new role cannot slip past a guard
// unhandled.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
	RoleAdmin Role = "admin"
	// RoleFraud marks an agent flagged by an admin. Fraud agents keep their
	// account but lose the ability to publish or maintain listings, and their
	// existing listings are hidden from every public view.
	RoleFraud Role = "fraud"
)

// ParseRole validates a stored or supplied role string against the closed set.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleAgent, RoleAdmin, RoleFraud:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

func (r Role) String() string { return string(r) }

// IsValid reports whether the role belongs to the closed set.
func (r Role) IsValid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// OneOf reports whether the role is in the allowed set.
func (r Role) OneOf(allowed ...Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}
