package domain

import (
	"fmt"
	"strings"
)

type Role string

const (
	RoleEmployee Role = "Employee"
	RoleManager  Role = "Manager"
	RoleAdmin    Role = "Admin"
)

// ParseRole maps a role string to its canonical Role, case-insensitively.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "employee":
		return RoleEmployee, nil
	case "manager":
		return RoleManager, nil
	case "admin":
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("unknown role %q: %w", s, ErrValidation)
	}
}

// CanReview reports whether the role may act on leave requests and team
// views. Reviewers are managers and admins.
func (r Role) CanReview() bool {
	return r == RoleManager || r == RoleAdmin
}

// IsAdmin reports whether the role carries administrative capabilities.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// Actor is a resolved caller identity. Resolution happens upstream (the
// identity layer is outside this core); services trust the Actor they are
// handed.
type Actor struct {
	UserID string
	Role   Role
}
