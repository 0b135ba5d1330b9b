package domain

import (
	"strings"
	"time"
)

// Role names as stored and as carried in JWT claims.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	ID             string
	Email          string
	PasswordHash   string   // bcrypt encoded
	Roles          []string // Parsed from comma-delimited storage
	EmailConfirmed bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsAdmin reports whether the user holds the ADMIN role.
func (u User) IsAdmin() bool {
	for _, r := range u.Roles {
		if r == RoleAdmin {
			return true
		}
	}
	return false
}

// ParseRoles splits a comma-delimited role string ("USER,ADMIN") into a
// slice. Empty segments are dropped so stale trailing commas don't produce
// phantom roles.
func ParseRoles(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	roles := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			roles = append(roles, p)
		}
	}
	return roles
}

// JoinRoles is the inverse of ParseRoles: the storage and claim format is a
// flat comma-delimited string.
func JoinRoles(roles []string) string {
	return strings.Join(roles, ",")
}
