// Package auth defines API key identities and operator roles.
package auth

import "context"

// Role is the permission level attached to an API key.
type Role string

// Operator roles, in increasing order of privilege.
const (
	RoleStaff   Role = "staff"
	RoleManager Role = "manager"
	RoleOwner   Role = "owner"
)

// rank orders roles for privilege comparison.
var rank = map[Role]int{
	RoleStaff:   1,
	RoleManager: 2,
	RoleOwner:   3,
}

// AtLeast reports whether r carries at least the privilege of required.
func (r Role) AtLeast(required Role) bool {
	return rank[r] >= rank[required]
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	_, ok := rank[r]
	return ok
}

// APIKeyInfo holds the identity data for a validated API key.
type APIKeyInfo struct {
	ID      string
	KeyHash string
	Name    string
	Role    Role
}

// Repository provides lookup of API keys by their HMAC hash.
type Repository interface {
	FindByHash(ctx context.Context, hash string) (*APIKeyInfo, error)
}
