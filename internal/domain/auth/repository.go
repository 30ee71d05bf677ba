package auth

import (
	"context"

	"storekeeper/internal/core/id"
)

// UserRepository defines storage operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	GetByID(ctx context.Context, userID id.ID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, limit, offset int) ([]*User, int, error)

	// Role assignments
	AssignRole(ctx context.Context, userID, roleID id.ID) error
	RevokeRole(ctx context.Context, userID, roleID id.ID) error
	LoadRoles(ctx context.Context, user *User) error
}

// RoleRepository defines storage operations for roles.
type RoleRepository interface {
	Create(ctx context.Context, role *Role) error
	GetByID(ctx context.Context, roleID id.ID) (*Role, error)
	GetByCode(ctx context.Context, code string) (*Role, error)
	List(ctx context.Context) ([]*Role, error)
}

// TokenRepository defines storage operations for refresh tokens.
type TokenRepository interface {
	Create(ctx context.Context, token *RefreshToken) error
	GetByHash(ctx context.Context, tokenHash string) (*RefreshToken, error)
	Revoke(ctx context.Context, tokenID id.ID, reason string) error
	RevokeAllForUser(ctx context.Context, userID id.ID, reason string) error
	DeleteExpired(ctx context.Context) (int, error)
}
