package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/muhammadegaa/easyhome/internal/domain"
	"github.com/muhammadegaa/easyhome/internal/mailer"
	"github.com/muhammadegaa/easyhome/internal/platform/logger"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// tokenClaims is the JWT payload issued at registration and login.
type tokenClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// AuthUsecase implements registration, login, email verification and
// profile management.
type AuthUsecase struct {
	users     domain.UserRepository
	mail      mailer.Mailer
	logger    *logger.Logger
	jwtSecret string
	jwtExpiry time.Duration
}

func NewAuthUsecase(users domain.UserRepository, mail mailer.Mailer, log *logger.Logger, jwtSecret string, jwtExpiry time.Duration) *AuthUsecase {
	return &AuthUsecase{
		users:     users,
		mail:      mail,
		logger:    log.Named("AuthUsecase"),
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
	}
}

// RegisterInput carries the registration payload.
type RegisterInput struct {
	Email       string
	Password    string
	Name        string
	Phone       string
	Role        string
	CompanyName string
}

// Register creates an account, sends the verification mail best-effort and
// returns the user with a signed token.
func (uc *AuthUsecase) Register(ctx context.Context, input RegisterInput) (*domain.User, string, error) {
	input.Email = domain.NormalizeEmail(input.Email)
	input.Name = strings.TrimSpace(input.Name)

	if input.Email == "" {
		return nil, "", fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	}
	if input.Password == "" {
		return nil, "", fmt.Errorf("%w: password is required", domain.ErrInvalidInput)
	}
	if len(input.Password) < 8 {
		return nil, "", fmt.Errorf("%w: password must be at least 8 characters", domain.ErrInvalidInput)
	}
	if input.Name == "" {
		return nil, "", fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}

	role := domain.RoleBuyer
	if input.Role != "" {
		role = domain.Role(strings.ToUpper(input.Role))
		if !role.IsValid() || role == domain.RoleAdmin {
			return nil, "", fmt.Errorf("%w: invalid role %q", domain.ErrInvalidInput, input.Role)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		uc.logger.Error("Failed to hash password", zap.Error(err))
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Email:             input.Email,
		PasswordHash:      string(hash),
		Name:              input.Name,
		Phone:             strings.TrimSpace(input.Phone),
		Role:              role,
		CompanyName:       strings.TrimSpace(input.CompanyName),
		MembershipTier:    domain.TierNone,
		VerificationToken: newVerificationToken(),
	}

	if err := uc.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			uc.logger.Warn("Registration with taken email", zap.String("email", input.Email))
			return nil, "", domain.ErrEmailTaken
		}
		return nil, "", err
	}

	// Mail delivery is best-effort at registration; the account exists and
	// verification can be re-sent later.
	if err := uc.mail.SendVerificationEmail(user.Email, user.Name, user.VerificationToken); err != nil {
		uc.logger.Warn("Failed to send verification email", zap.String("user_id", user.ID), zap.Error(err))
	}

	token, err := uc.issueToken(user)
	if err != nil {
		return nil, "", err
	}

	uc.logger.Info("User registered", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, token, nil
}

// Login verifies credentials and returns the user with a signed token. Any
// failure collapses into domain.ErrInvalidCredentials.
func (uc *AuthUsecase) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", domain.ErrInvalidCredentials
	}

	user, err := uc.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := uc.issueToken(user)
	if err != nil {
		return nil, "", err
	}

	uc.logger.Info("User logged in", zap.String("user_id", user.ID))
	return user, token, nil
}

// VerifyEmail consumes a single-use verification token.
func (uc *AuthUsecase) VerifyEmail(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("%w: verification token is required", domain.ErrInvalidInput)
	}

	user, err := uc.users.FindByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: invalid verification token", domain.ErrInvalidInput)
		}
		return err
	}
	if user.IsVerified {
		return domain.ErrAlreadyVerified
	}

	if err := uc.users.MarkVerified(ctx, user.ID); err != nil {
		return err
	}
	uc.logger.Info("Email verified", zap.String("user_id", user.ID))
	return nil
}

// ResendVerification rotates the token and re-sends the mail. Here the mail
// is the primary effect, so a send failure is returned to the caller.
func (uc *AuthUsecase) ResendVerification(ctx context.Context, userID string) error {
	user, err := uc.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.IsVerified {
		return domain.ErrAlreadyVerified
	}

	token := newVerificationToken()
	if err := uc.users.SetVerificationToken(ctx, user.ID, token); err != nil {
		return err
	}
	if err := uc.mail.SendVerificationEmail(user.Email, user.Name, token); err != nil {
		uc.logger.Error("Failed to resend verification email", zap.String("user_id", user.ID), zap.Error(err))
		return err
	}
	uc.logger.Info("Verification email resent", zap.String("user_id", user.ID))
	return nil
}

// GetProfile returns the account for userID.
func (uc *AuthUsecase) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	return uc.users.FindByID(ctx, userID)
}

// UpdateProfileInput carries the partial profile update; nil means keep.
type UpdateProfileInput struct {
	Name        *string
	Phone       *string
	Address     *string
	City        *string
	Province    *string
	ZipCode     *string
	CompanyName *string
}

// UpdateProfile applies a partial update to the user's own profile.
func (uc *AuthUsecase) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*domain.User, error) {
	user, err := uc.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", domain.ErrInvalidInput)
		}
		user.Name = name
	}
	if input.Phone != nil {
		user.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Address != nil {
		user.Address = strings.TrimSpace(*input.Address)
	}
	if input.City != nil {
		user.City = strings.TrimSpace(*input.City)
	}
	if input.Province != nil {
		user.Province = strings.TrimSpace(*input.Province)
	}
	if input.ZipCode != nil {
		user.ZipCode = strings.TrimSpace(*input.ZipCode)
	}
	if input.CompanyName != nil {
		user.CompanyName = strings.TrimSpace(*input.CompanyName)
	}

	if err := uc.users.Update(ctx, user); err != nil {
		return nil, err
	}
	uc.logger.Info("Profile updated", zap.String("user_id", user.ID))
	return user, nil
}

func (uc *AuthUsecase) issueToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		UserID: user.ID,
		Role:   string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(uc.jwtExpiry)),
			Subject:   user.ID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(uc.jwtSecret))
	if err != nil {
		uc.logger.Error("Failed to sign JWT", zap.Error(err))
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func newVerificationToken() string {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		panic(err) // crypto/rand never fails on supported platforms
	}
	return hex.EncodeToString(buf)
}
