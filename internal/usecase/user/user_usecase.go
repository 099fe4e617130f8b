package user

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/vinayakp/wcauction/internal/domain"
	"github.com/vinayakp/wcauction/internal/infrastructure/auth"
	"github.com/vinayakp/wcauction/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// UserUseCase implements domain.UserUseCase
type UserUseCase struct {
	userRepo domain.UserRepository
	jwtSvc   auth.JWTService
	logger   *logger.Logger
}

// NewUserUseCase creates a new user use case
func NewUserUseCase(userRepo domain.UserRepository, jwtSvc auth.JWTService, logger *logger.Logger) domain.UserUseCase {
	return &UserUseCase{
		userRepo: userRepo,
		jwtSvc:   jwtSvc,
		logger:   logger,
	}
}

// Authenticate validates user credentials and returns a JWT token
func (uc *UserUseCase) Authenticate(ctx context.Context, username, password string) (string, error) {
	uc.logger.Info("Starting user authentication",
		zap.String("username", username))

	if username == "" || password == "" {
		uc.logger.Warn("Authentication attempt with empty credentials",
			zap.String("username", username),
			zap.Bool("has_password", password != ""))
		return "", domain.NewAppError(domain.ErrCodeInvalidCredentials, "Invalid credentials", 401, nil)
	}

	user, err := uc.userRepo.Get(ctx, username)
	if err != nil {
		uc.logger.Error("Failed to load user during authentication",
			zap.String("username", username),
			zap.Error(err))
		return "", domain.NewStoreError("load user", err)
	}

	if user == nil {
		uc.logger.Warn("Authentication failed - user not found",
			zap.String("username", username))
		return "", domain.NewAppError(domain.ErrCodeInvalidCredentials, "Invalid credentials", 401, nil)
	}

	if !uc.verifyPassword(password, user.PasswordHash) {
		uc.logger.Warn("Authentication failed - invalid password",
			zap.String("username", username))
		return "", domain.NewAppError(domain.ErrCodeInvalidCredentials, "Invalid credentials", 401, nil)
	}

	token, err := uc.jwtSvc.GenerateToken(user.Username)
	if err != nil {
		uc.logger.Error("Failed to generate JWT token",
			zap.String("username", username),
			zap.Error(err))
		return "", domain.NewAppError(domain.ErrCodeTokenInvalid, "Token generation failed", 500, err)
	}

	uc.logger.Info("User authentication successful",
		zap.String("username", username))

	return token, nil
}

// GetUserInfo retrieves user information by username
func (uc *UserUseCase) GetUserInfo(ctx context.Context, username string) (*domain.User, error) {
	if username == "" {
		return nil, domain.NewAppError(domain.ErrCodeInvalidFormat, "Invalid username", 400, nil)
	}

	user, err := uc.userRepo.Get(ctx, username)
	if err != nil {
		uc.logger.Error("Failed to load user",
			zap.String("username", username),
			zap.Error(err))
		return nil, domain.NewStoreError("load user", err)
	}

	if user == nil {
		uc.logger.Warn("User not found",
			zap.String("username", username))
		return nil, domain.NewNotFoundError(domain.ErrCodeUserNotFound, "User")
	}

	// The hash never leaves the service boundary.
	user.PasswordHash = ""
	return user, nil
}

// verifyPassword checks if the provided password matches the stored hash
func (uc *UserUseCase) verifyPassword(password, hashedPassword string) bool {
	if password == "" || hashedPassword == "" {
		return false
	}
	hash := sha256.Sum256([]byte(password))
	return hex.EncodeToString(hash[:]) == hashedPassword
}

// HashPassword returns the stored form of a password. Shared with roster
// ingestion so seeded users can log in.
func HashPassword(password string) string {
	hash := sha256.Sum256([]byte(password))
	return hex.EncodeToString(hash[:])
}
