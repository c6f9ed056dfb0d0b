package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/muhammadegaa/easyhome/internal/domain"
	"github.com/muhammadegaa/easyhome/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthFixture() (*AuthUsecase, *fakeUserRepo, *fakeMailer) {
	users := newFakeUserRepo()
	mail := &fakeMailer{}
	uc := NewAuthUsecase(users, mail, logger.NewLogger(), "test-secret", time.Hour)
	return uc, users, mail
}

func validRegisterInput() RegisterInput {
	return RegisterInput{
		Email:    "Wayan@Example.com",
		Password: "correct-horse",
		Name:     "Wayan Sukerta",
		Phone:    "+62 812 0000 0001",
	}
}

func TestRegisterDefaultsAndVerificationMail(t *testing.T) {
	uc, users, mail := newAuthFixture()
	ctx := context.Background()

	user, token, err := uc.Register(ctx, validRegisterInput())
	require.NoError(t, err)
	require.NotNil(t, user)

	assert.Equal(t, "wayan@example.com", user.Email, "email is normalized")
	assert.Equal(t, domain.RoleBuyer, user.Role, "role defaults to BUYER")
	assert.Equal(t, domain.TierNone, user.MembershipTier)
	assert.False(t, user.IsVerified)
	assert.NotEmpty(t, user.VerificationToken)
	assert.NotEqual(t, "correct-horse", user.PasswordHash)
	assert.NotEmpty(t, token)

	require.Len(t, mail.sent, 1)
	assert.Equal(t, "wayan@example.com", mail.sent[0])

	stored, err := users.FindByEmail(ctx, "wayan@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, stored.ID)
}

func TestRegisterValidation(t *testing.T) {
	uc, _, _ := newAuthFixture()
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*RegisterInput)
	}{
		{"missing email", func(in *RegisterInput) { in.Email = "" }},
		{"missing password", func(in *RegisterInput) { in.Password = "" }},
		{"short password", func(in *RegisterInput) { in.Password = "short" }},
		{"missing name", func(in *RegisterInput) { in.Name = "   " }},
		{"unknown role", func(in *RegisterInput) { in.Role = "WIZARD" }},
		{"admin not self-assignable", func(in *RegisterInput) { in.Role = "ADMIN" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validRegisterInput()
			tc.mutate(&input)
			_, _, err := uc.Register(ctx, input)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestRegisterSellerRole(t *testing.T) {
	uc, _, _ := newAuthFixture()

	input := validRegisterInput()
	input.Role = "seller"
	input.CompanyName = "Bali Living"

	user, _, err := uc.Register(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSeller, user.Role, "role is case-insensitive")
	assert.Equal(t, "Bali Living", user.CompanyName)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	uc, _, mail := newAuthFixture()
	ctx := context.Background()

	_, _, err := uc.Register(ctx, validRegisterInput())
	require.NoError(t, err)

	_, _, err = uc.Register(ctx, validRegisterInput())
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
	assert.Len(t, mail.sent, 1, "no mail for the rejected attempt")
}

func TestRegisterSucceedsWhenMailFails(t *testing.T) {
	uc, _, mail := newAuthFixture()
	mail.fail = true

	user, token, err := uc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err, "mail delivery is best-effort at registration")
	assert.NotNil(t, user)
	assert.NotEmpty(t, token)
}

func TestLogin(t *testing.T) {
	uc, _, _ := newAuthFixture()
	ctx := context.Background()

	registered, _, err := uc.Register(ctx, validRegisterInput())
	require.NoError(t, err)

	user, token, err := uc.Login(ctx, "WAYAN@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := parsed.Claims.(*tokenClaims)
	assert.Equal(t, registered.ID, claims.UserID)
	assert.Equal(t, string(domain.RoleBuyer), claims.Role)
}

func TestLoginFailuresAreUndifferentiated(t *testing.T) {
	uc, _, _ := newAuthFixture()
	ctx := context.Background()

	_, _, err := uc.Register(ctx, validRegisterInput())
	require.NoError(t, err)

	_, _, err = uc.Login(ctx, "wayan@example.com", "wrong-password")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, _, err = uc.Login(ctx, "nobody@example.com", "correct-horse")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials, "unknown email looks like a bad password")

	_, _, err = uc.Login(ctx, "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestVerifyEmailIsSingleUse(t *testing.T) {
	uc, users, _ := newAuthFixture()
	ctx := context.Background()

	registered, _, err := uc.Register(ctx, validRegisterInput())
	require.NoError(t, err)

	require.NoError(t, uc.VerifyEmail(ctx, registered.VerificationToken))

	verified, err := users.FindByID(ctx, registered.ID)
	require.NoError(t, err)
	assert.True(t, verified.IsVerified)
	assert.Empty(t, verified.VerificationToken, "token is cleared on use")

	err = uc.VerifyEmail(ctx, registered.VerificationToken)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "consumed token no longer resolves")

	err = uc.VerifyEmail(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestResendVerification(t *testing.T) {
	uc, users, mail := newAuthFixture()
	ctx := context.Background()

	registered, _, err := uc.Register(ctx, validRegisterInput())
	require.NoError(t, err)
	originalToken := registered.VerificationToken

	require.NoError(t, uc.ResendVerification(ctx, registered.ID))
	assert.Len(t, mail.sent, 2)

	refreshed, err := users.FindByID(ctx, registered.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.VerificationToken)
	assert.NotEqual(t, originalToken, refreshed.VerificationToken, "resend rotates the token")

	require.NoError(t, uc.VerifyEmail(ctx, refreshed.VerificationToken))
	err = uc.ResendVerification(ctx, registered.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyVerified)
}

func TestResendVerificationMailFailureIsReturned(t *testing.T) {
	uc, _, mail := newAuthFixture()
	ctx := context.Background()

	registered, _, err := uc.Register(ctx, validRegisterInput())
	require.NoError(t, err)

	mail.fail = true
	err = uc.ResendVerification(ctx, registered.ID)
	assert.Error(t, err, "resend exists to deliver the mail, so the failure surfaces")
}

func TestUpdateProfile(t *testing.T) {
	uc, _, _ := newAuthFixture()
	ctx := context.Background()

	registered, _, err := uc.Register(ctx, validRegisterInput())
	require.NoError(t, err)

	newName := "  Wayan S.  "
	newCity := "Denpasar"
	updated, err := uc.UpdateProfile(ctx, registered.ID, UpdateProfileInput{Name: &newName, City: &newCity})
	require.NoError(t, err)
	assert.Equal(t, "Wayan S.", updated.Name)
	assert.Equal(t, "Denpasar", updated.City)
	assert.Equal(t, registered.Phone, updated.Phone, "omitted fields keep their value")

	blank := "   "
	_, err = uc.UpdateProfile(ctx, registered.ID, UpdateProfileInput{Name: &blank})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.UpdateProfile(ctx, "missing-user", UpdateProfileInput{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
