package user

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Role represents user role in the system (matches user_role enum)
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// User represents a user account (matches actual users table)
type User struct {
	ID       uuid.UUID `db:"id"`
	CampusID uuid.UUID `db:"campus_id"`

	Name         string `db:"name"`
	Email        string `db:"email"`
	Phone        string `db:"phone"`
	PasswordHash string `db:"password_hash"`
	Role         Role   `db:"role"`

	IsVerified bool `db:"is_verified"`
	IsBanned   bool `db:"is_banned"`

	// Premium entitlement. PremiumExpires is authoritative: a set IsPremium
	// flag with a null expiry does NOT grant premium.
	IsPremium      bool         `db:"is_premium"`
	PremiumExpires sql.NullTime `db:"premium_expires"`

	ReferralCode string `db:"referral_code"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// IsAdmin returns true if user is an admin
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsActive returns true if user is not banned
func (u *User) IsActive() bool {
	return !u.IsBanned
}

// PremiumActiveAt reports whether premium benefits are active at t.
// Evaluated fresh at every fee computation; never cached.
func (u *User) PremiumActiveAt(t time.Time) bool {
	return u.IsPremium && u.PremiumExpires.Valid && u.PremiumExpires.Time.After(t)
}

// PremiumActive reports whether premium benefits are active now.
func (u *User) PremiumActive() bool {
	return u.PremiumActiveAt(time.Now())
}
