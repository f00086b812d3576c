package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tutorhub/backend/internal/domain/identity"
	"github.com/tutorhub/backend/internal/domain/shared"
	"github.com/tutorhub/backend/internal/infrastructure/auth"
)

// AuthServiceConfig holds authentication policy settings
type AuthServiceConfig struct {
	MaxLoginAttempts int
	LockDuration     time.Duration
}

// DefaultAuthServiceConfig returns the default authentication policy
func DefaultAuthServiceConfig() AuthServiceConfig {
	return AuthServiceConfig{
		MaxLoginAttempts: 5,
		LockDuration:     15 * time.Minute,
	}
}

// AuthService handles authentication for center staff accounts
type AuthService struct {
	users      identity.UserRepository
	roles      identity.RoleRepository
	centers    identity.CenterRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	config     AuthServiceConfig
	logger     *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	users identity.UserRepository,
	roles identity.RoleRepository,
	centers identity.CenterRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	config AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	if config.MaxLoginAttempts <= 0 {
		config = DefaultAuthServiceConfig()
	}
	return &AuthService{
		users:      users,
		roles:      roles,
		centers:    centers,
		jwtService: jwtService,
		blacklist:  blacklist,
		config:     config,
		logger:     logger,
	}
}

// Login authenticates a user by center code, username and password.
// Credential failures are indistinguishable to the caller so that center
// codes and usernames cannot be probed.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	center, err := s.centers.FindByCode(ctx, input.CenterCode)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
		}
		return nil, err
	}
	if !center.IsActive() {
		return nil, shared.NewDomainError("CENTER_INACTIVE", "This center is not active")
	}

	user, err := s.users.FindByUsername(ctx, center.ID, input.Username)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
		}
		return nil, err
	}

	if user.IsLocked() {
		return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Account is locked due to too many failed attempts")
	}
	if !user.CanLogin() {
		return nil, shared.NewDomainError("ACCOUNT_DISABLED", "Account is not allowed to log in")
	}

	if !user.VerifyPassword(input.Password) {
		locked := user.RecordLoginFailure(s.config.MaxLoginAttempts, s.config.LockDuration)
		if err := s.users.Save(ctx, user); err != nil {
			s.logger.Error("failed to record login failure",
				zap.String("user_id", user.ID.String()),
				zap.Error(err))
		}
		if locked {
			s.logger.Warn("account locked after repeated failures",
				zap.String("center_id", center.ID.String()),
				zap.String("username", user.Username))
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Account is locked due to too many failed attempts")
		}
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	}

	user.RecordLoginSuccess(input.IP)
	if err := s.users.Save(ctx, user); err != nil {
		s.logger.Error("failed to record login success",
			zap.String("user_id", user.ID.String()),
			zap.Error(err))
	}

	permissions, err := s.collectPermissions(ctx, user)
	if err != nil {
		return nil, err
	}

	pair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		CenterID:    center.ID,
		UserID:      user.ID,
		Username:    user.Username,
		RoleIDs:     user.RoleIDs,
		Permissions: permissions,
	})
	if err != nil {
		s.logger.Error("failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("TOKEN_GENERATION_FAILED", "Failed to generate tokens")
	}

	s.logger.Info("user logged in",
		zap.String("center_id", center.ID.String()),
		zap.String("user_id", user.ID.String()),
		zap.String("ip", input.IP))

	return &LoginResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		User: UserInfo{
			ID:          user.ID,
			CenterID:    center.ID,
			Username:    user.Username,
			DisplayName: user.GetDisplayNameOrUsername(),
			Email:       user.Email,
			Phone:       user.Phone,
			Permissions: permissions,
			RoleIDs:     user.RoleIDs,
		},
	}, nil
}

// RefreshToken exchanges a refresh token for a new token pair. Permissions are
// re-read from the user's current roles so role changes take effect on refresh.
func (s *AuthService) RefreshToken(ctx context.Context, input RefreshTokenInput) (*RefreshTokenResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_REFRESH_TOKEN", "Refresh token is invalid or expired")
	}

	if s.blacklist != nil {
		revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			s.logger.Error("blacklist check failed", zap.Error(err))
		} else if revoked {
			return nil, shared.NewDomainError("INVALID_REFRESH_TOKEN", "Refresh token has been revoked")
		}
	}

	centerID, err := claims.GetCenterUUID()
	if err != nil {
		return nil, shared.NewDomainError("INVALID_REFRESH_TOKEN", "Refresh token is invalid or expired")
	}
	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.NewDomainError("INVALID_REFRESH_TOKEN", "Refresh token is invalid or expired")
	}

	user, err := s.users.FindByIDForCenter(ctx, centerID, userID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewDomainError("INVALID_REFRESH_TOKEN", "Refresh token is invalid or expired")
		}
		return nil, err
	}
	if !user.CanLogin() {
		return nil, shared.NewDomainError("ACCOUNT_DISABLED", "Account is not allowed to log in")
	}

	if s.blacklist != nil {
		invalidated, err := s.blacklist.IsUserTokenInvalidated(ctx, userID.String(), claims.GetIssuedAtTime())
		if err != nil {
			s.logger.Error("user invalidation check failed", zap.Error(err))
		} else if invalidated {
			return nil, shared.NewDomainError("INVALID_REFRESH_TOKEN", "Refresh token has been revoked")
		}
	}

	permissions, err := s.collectPermissions(ctx, user)
	if err != nil {
		return nil, err
	}

	pair, err := s.jwtService.RefreshTokenPair(input.RefreshToken, permissions)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_REFRESH_TOKEN", "Refresh token is invalid or expired")
	}

	return &RefreshTokenResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
	}, nil
}

// Logout revokes the presented access token for its remaining lifetime
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	if s.blacklist == nil {
		return nil
	}

	claims, err := s.jwtService.ValidateAccessToken(input.AccessToken)
	if err != nil {
		// An expired token needs no revocation
		return nil
	}

	if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
		s.logger.Error("failed to blacklist token",
			zap.String("user_id", input.UserID.String()),
			zap.Error(err))
		return shared.NewDomainError("LOGOUT_FAILED", "Failed to revoke session")
	}

	s.logger.Info("user logged out",
		zap.String("center_id", input.CenterID.String()),
		zap.String("user_id", input.UserID.String()))

	return nil
}

// LogoutAllSessions revokes every token issued to the user before now
func (s *AuthService) LogoutAllSessions(ctx context.Context, userID uuid.UUID) error {
	if s.blacklist == nil {
		return nil
	}
	ttl := s.jwtService.GetRefreshTokenExpiration()
	if err := s.blacklist.AddUserTokensToBlacklist(ctx, userID.String(), ttl); err != nil {
		return shared.NewDomainError("LOGOUT_FAILED", "Failed to revoke sessions")
	}
	return nil
}

// GetCurrentUser returns profile info for the authenticated user
func (s *AuthService) GetCurrentUser(ctx context.Context, centerID, userID uuid.UUID) (*UserInfo, error) {
	user, err := s.users.FindByIDForCenter(ctx, centerID, userID)
	if err != nil {
		return nil, err
	}

	permissions, err := s.collectPermissions(ctx, user)
	if err != nil {
		return nil, err
	}

	return &UserInfo{
		ID:          user.ID,
		CenterID:    user.CenterID,
		Username:    user.Username,
		DisplayName: user.GetDisplayNameOrUsername(),
		Email:       user.Email,
		Phone:       user.Phone,
		Permissions: permissions,
		RoleIDs:     user.RoleIDs,
	}, nil
}

// ChangePassword changes the user's own password and revokes other sessions
func (s *AuthService) ChangePassword(ctx context.Context, centerID, userID uuid.UUID, oldPassword, newPassword string) error {
	user, err := s.users.FindByIDForCenter(ctx, centerID, userID)
	if err != nil {
		return err
	}

	if err := user.ChangePassword(oldPassword, newPassword); err != nil {
		return err
	}
	if err := s.users.Save(ctx, user); err != nil {
		return err
	}

	if err := s.LogoutAllSessions(ctx, userID); err != nil {
		s.logger.Warn("failed to revoke sessions after password change",
			zap.String("user_id", userID.String()),
			zap.Error(err))
	}

	return nil
}

// collectPermissions flattens the user's role permissions, deduplicated
func (s *AuthService) collectPermissions(ctx context.Context, user *identity.User) ([]string, error) {
	if len(user.RoleIDs) == 0 {
		return []string{}, nil
	}

	roles, err := s.roles.FindByIDs(ctx, user.CenterID, user.RoleIDs)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	permissions := make([]string, 0)
	for _, role := range roles {
		for _, p := range role.Permissions {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			permissions = append(permissions, p)
		}
	}
	return permissions, nil
}
