package identity

import (
	"context"
	"errors"

	appaudit "github.com/apex/backoffice/internal/application/audit"
	"github.com/apex/backoffice/internal/domain/audit"
	"github.com/apex/backoffice/internal/domain/identity"
	"github.com/apex/backoffice/internal/domain/shared"
	"github.com/apex/backoffice/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles authentication operations. Credential failures
// always come back as the same INVALID_CREDENTIALS error so the
// response does not reveal which half of the pair was wrong.
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	recorder   *appaudit.Recorder
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	recorder *appaudit.Recorder,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		recorder:   recorder,
		logger:     logger,
	}
}

// Login authenticates a user and issues a session token
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("login attempt for unknown user", zap.String("username", req.Username))
			s.recorder.Record(audit.NewEntry(nil, audit.ActionLoginFailed, audit.ResourceSession, "", req.Username))
			return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
		}
		return nil, err
	}

	if !user.Active {
		s.logger.Warn("login attempt for deactivated user", zap.String("username", user.Username))
		s.recorder.Record(audit.NewEntry(&user.ID, audit.ActionLoginFailed, audit.ResourceSession, user.ID.String(), user.Username))
		return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("invalid password", zap.String("username", user.Username))
		s.recorder.Record(audit.NewEntry(&user.ID, audit.ActionLoginFailed, audit.ResourceSession, user.ID.String(), user.Username))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Username, string(user.Role))
	if err != nil {
		s.logger.Error("failed to generate token", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create session")
	}

	s.recorder.Record(audit.NewEntry(&user.ID, audit.ActionLogin, audit.ResourceSession, user.ID.String(), user.Username))
	return &LoginResponse{
		Token:     token.Value,
		TokenType: token.TokenType,
		ExpiresAt: token.ExpiresAt,
		User:      toUserResponse(user),
	}, nil
}

// Me returns the authenticated user's profile
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}
