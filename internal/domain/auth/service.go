package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"golang.org/x/crypto/bcrypt"

	"storekeeper/internal/core/apperror"
	"storekeeper/internal/core/id"
	"storekeeper/internal/core/tx"
	"storekeeper/pkg/logger"
)

// ServiceConfig holds auth service settings.
type ServiceConfig struct {
	JWT              JWTConfig
	MaxLoginAttempts int
	LockDuration     time.Duration
	BCryptCost       int
}

// DefaultServiceConfig returns sensible defaults.
func DefaultServiceConfig(jwtSecret string) ServiceConfig {
	return ServiceConfig{
		JWT:              DefaultJWTConfig(jwtSecret),
		MaxLoginAttempts: 5,
		LockDuration:     15 * time.Minute,
		BCryptCost:       bcrypt.DefaultCost,
	}
}

// Service provides authentication operations.
type Service struct {
	users     UserRepository
	roles     RoleRepository
	tokens    TokenRepository
	jwt       *JWTService
	txManager tx.Manager
	config    ServiceConfig
}

// NewService creates the auth service.
func NewService(
	users UserRepository,
	roles RoleRepository,
	tokens TokenRepository,
	txManager tx.Manager,
	config ServiceConfig,
) *Service {
	return &Service{
		users:     users,
		roles:     roles,
		tokens:    tokens,
		jwt:       NewJWTService(config.JWT),
		txManager: txManager,
		config:    config,
	}
}

// JWT returns the underlying JWT service, used by HTTP middleware.
func (s *Service) JWT() *JWTService {
	return s.jwt
}

// Register creates a new user account with the viewer role.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	if req.Email == "" {
		return nil, apperror.NewValidation("email is required").WithDetail("field", "email")
	}
	if len(req.Password) < 8 {
		return nil, apperror.NewValidation("password must be at least 8 characters").WithDetail("field", "password")
	}

	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.NewDuplicate("user", "email", req.Email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.config.BCryptCost)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	user := NewUser(req.Email, string(hash))
	user.FirstName = req.FirstName
	user.LastName = req.LastName

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.users.Create(ctx, user); err != nil {
			return err
		}
		role, err := s.roles.GetByCode(ctx, RoleViewer)
		if err != nil {
			return err
		}
		return s.users.AssignRole(ctx, user.ID, role.ID)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "user registered", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// Login authenticates a user and returns a token pair.
func (s *Service) Login(ctx context.Context, creds Credentials, userAgent, ipAddress string) (*TokenPair, *User, error) {
	user, err := s.users.GetByEmail(ctx, creds.Email)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, nil, apperror.NewUnauthorized("invalid credentials")
		}
		return nil, nil, err
	}

	if err := user.CanLogin(); err != nil {
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		user.RecordFailedLogin(s.config.MaxLoginAttempts, s.config.LockDuration)
		if updErr := s.users.Update(ctx, user); updErr != nil {
			logger.Warn(ctx, "failed to record failed login", "user_id", user.ID, "error", updErr)
		}
		return nil, nil, apperror.NewUnauthorized("invalid credentials")
	}

	user.RecordSuccessfulLogin()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, nil, err
	}

	if err := s.users.LoadRoles(ctx, user); err != nil {
		return nil, nil, err
	}

	pair, err := s.generateTokenPair(ctx, user, userAgent, ipAddress)
	if err != nil {
		return nil, nil, err
	}

	logger.Info(ctx, "user logged in", "user_id", user.ID)
	return pair, user, nil
}

// RefreshToken rotates a refresh token and issues a new token pair.
func (s *Service) RefreshToken(ctx context.Context, refreshToken, userAgent, ipAddress string) (*TokenPair, error) {
	stored, err := s.tokens.GetByHash(ctx, hashToken(refreshToken))
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewUnauthorized("invalid refresh token")
		}
		return nil, err
	}

	if !stored.IsValid() {
		// Reuse of a revoked token means the token leaked somewhere.
		// Revoke the whole family for this user.
		if stored.RevokedAt != nil {
			if err := s.tokens.RevokeAllForUser(ctx, stored.UserID, "token reuse detected"); err != nil {
				logger.Error(ctx, "failed to revoke token family", "user_id", stored.UserID, "error", err)
			}
		}
		return nil, apperror.NewUnauthorized("refresh token expired or revoked")
	}

	user, err := s.users.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, err
	}
	if err := user.CanLogin(); err != nil {
		return nil, err
	}
	if err := s.users.LoadRoles(ctx, user); err != nil {
		return nil, err
	}

	var pair *TokenPair
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.tokens.Revoke(ctx, stored.ID, "rotated"); err != nil {
			return err
		}
		pair, err = s.generateTokenPair(ctx, user, userAgent, ipAddress)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// Logout revokes the presented refresh token.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	stored, err := s.tokens.GetByHash(ctx, hashToken(refreshToken))
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil
		}
		return err
	}
	return s.tokens.Revoke(ctx, stored.ID, "logout")
}

// LogoutAll revokes every refresh token for a user.
func (s *Service) LogoutAll(ctx context.Context, userID id.ID) error {
	return s.tokens.RevokeAllForUser(ctx, userID, "logout all sessions")
}

// AssignRole grants a role to a user.
func (s *Service) AssignRole(ctx context.Context, userID id.ID, roleCode string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	role, err := s.roles.GetByCode(ctx, roleCode)
	if err != nil {
		return err
	}
	if err := s.users.AssignRole(ctx, user.ID, role.ID); err != nil {
		return err
	}
	logger.Info(ctx, "role assigned", "user_id", userID, "role", roleCode)
	return nil
}

// RevokeRole removes a role from a user.
func (s *Service) RevokeRole(ctx context.Context, userID id.ID, roleCode string) error {
	role, err := s.roles.GetByCode(ctx, roleCode)
	if err != nil {
		return err
	}
	if err := s.users.RevokeRole(ctx, userID, role.ID); err != nil {
		return err
	}
	logger.Info(ctx, "role revoked", "user_id", userID, "role", roleCode)
	return nil
}

// GetUserByID returns a user with roles loaded.
func (s *Service) GetUserByID(ctx context.Context, userID id.ID) (*User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.users.LoadRoles(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ListUsers returns a page of users.
func (s *Service) ListUsers(ctx context.Context, limit, offset int) ([]*User, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.users.List(ctx, limit, offset)
}

// ListRoles returns all roles.
func (s *Service) ListRoles(ctx context.Context) ([]*Role, error) {
	return s.roles.List(ctx)
}

// CreateRole creates a custom role.
func (s *Service) CreateRole(ctx context.Context, code, name, description string) (*Role, error) {
	if code == "" || name == "" {
		return nil, apperror.NewValidation("role code and name are required")
	}
	existing, err := s.roles.GetByCode(ctx, code)
	if err != nil && !apperror.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewDuplicate("role", "code", code)
	}

	role := NewRole(code, name)
	role.Description = description
	if err := s.roles.Create(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

// CleanupExpiredTokens removes expired refresh tokens. Intended for a
// periodic background job.
func (s *Service) CleanupExpiredTokens(ctx context.Context) (int, error) {
	n, err := s.tokens.DeleteExpired(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		logger.Info(ctx, "expired refresh tokens removed", "count", n)
	}
	return n, nil
}

func (s *Service) generateTokenPair(ctx context.Context, user *User, userAgent, ipAddress string) (*TokenPair, error) {
	accessToken, expiresAt, err := s.jwt.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshRaw, err := generateRandomToken()
	if err != nil {
		return nil, err
	}

	token := &RefreshToken{
		ID:        id.New(),
		UserID:    user.ID,
		TokenHash: hashToken(refreshRaw),
		ExpiresAt: time.Now().Add(s.config.JWT.RefreshTokenTTL),
		CreatedAt: time.Now(),
		UserAgent: userAgent,
		IPAddress: ipAddress,
	}
	if err := s.tokens.Create(ctx, token); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshRaw,
		ExpiresAt:    expiresAt,
		TokenType:    "Bearer",
	}, nil
}

// hashToken returns hex sha256 of a token. Raw refresh tokens are never
// stored.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func generateRandomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", apperror.NewInternal(err)
	}
	return hex.EncodeToString(buf), nil
}
