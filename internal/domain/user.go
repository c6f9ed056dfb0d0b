package domain

import (
	"strings"
	"time"
)

// Role enumerates the account roles recognized by the marketplace.
type Role string

const (
	RoleBuyer     Role = "BUYER"
	RoleSeller    Role = "SELLER"
	RoleDeveloper Role = "DEVELOPER"
	RoleNotary    Role = "NOTARY"
	RoleAdmin     Role = "ADMIN"
)

// IsValid checks if the role is one of the recognized values.
func (r Role) IsValid() bool {
	switch r {
	case RoleBuyer, RoleSeller, RoleDeveloper, RoleNotary, RoleAdmin:
		return true
	}
	return false
}

// MembershipTier enumerates paid membership levels.
type MembershipTier string

const (
	TierNone    MembershipTier = "NONE"
	TierBasic   MembershipTier = "BASIC"
	TierPremium MembershipTier = "PREMIUM"
)

// IsValid checks if the membership tier is one of the recognized values.
func (t MembershipTier) IsValid() bool {
	switch t {
	case TierNone, TierBasic, TierPremium:
		return true
	}
	return false
}

// User represents a registered account.
type User struct {
	ID                string
	Email             string
	PasswordHash      string
	Name              string
	Phone             string
	Role              Role
	IsVerified        bool
	VerificationToken string // empty when no verification is pending
	Address           string
	City              string
	Province          string
	ZipCode           string
	CompanyName       string
	MembershipTier    MembershipTier
	MembershipExpiry  *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// OwnerSummary is the public subset of a user attached to property responses.
type OwnerSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	CompanyName string `json:"companyName,omitempty"`
}

// Summary returns the public owner view of the user.
func (u *User) Summary() OwnerSummary {
	return OwnerSummary{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Phone:       u.Phone,
		CompanyName: u.CompanyName,
	}
}

// NormalizeEmail lowercases and trims an email so uniqueness is
// case-insensitive regardless of backend collation.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
