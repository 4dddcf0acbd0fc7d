package domain

import "time"

// Role enumerates account roles for authorization decisions.
type Role string

const (
	RoleClient Role = "CLIENT"
	RoleAgent  Role = "AGENT"
	RoleAdmin  Role = "ADMIN"
)

// ParseRole validates a raw role value against the closed set.
func ParseRole(raw string) (Role, bool) {
	switch Role(raw) {
	case RoleClient, RoleAgent, RoleAdmin:
		return Role(raw), true
	default:
		return "", false
	}
}

// IsStaff reports whether the role may triage tickets.
func (r Role) IsStaff() bool {
	return r == RoleAgent || r == RoleAdmin
}

// User is the domain model for every account: clients who submit
// tickets, agents who work them, and administrators.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
