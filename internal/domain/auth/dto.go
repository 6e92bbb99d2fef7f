package auth

import (
	"time"

	"github.com/google/uuid"

	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/domain/user"
)

type RegisterRequest struct {
	CampusID     uuid.UUID `json:"campus_id" validate:"required"`
	Name         string    `json:"name" validate:"required,min=2,max=100"`
	Email        string    `json:"email" validate:"required,email"`
	Phone        string    `json:"phone" validate:"required,min=7,max=20"`
	Password     string    `json:"password" validate:"required,min=8,max=72"`
	ReferralCode string    `json:"referral_code" validate:"omitempty,len=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type UserResponse struct {
	ID             uuid.UUID  `json:"id"`
	CampusID       uuid.UUID  `json:"campus_id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Role           string     `json:"role"`
	IsVerified     bool       `json:"is_verified"`
	IsPremium      bool       `json:"is_premium"`
	PremiumExpires *time.Time `json:"premium_expires,omitempty"`
	ReferralCode   string     `json:"referral_code"`
	CreatedAt      time.Time  `json:"created_at"`
}

type TokensResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

type AuthResponse struct {
	User   UserResponse   `json:"user"`
	Tokens TokensResponse `json:"tokens"`
}

func newUserResponse(u *user.User) UserResponse {
	resp := UserResponse{
		ID:           u.ID,
		CampusID:     u.CampusID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         string(u.Role),
		IsVerified:   u.IsVerified,
		IsPremium:    u.PremiumActive(),
		ReferralCode: u.ReferralCode,
		CreatedAt:    u.CreatedAt,
	}
	if u.PremiumExpires.Valid {
		t := u.PremiumExpires.Time
		resp.PremiumExpires = &t
	}
	return resp
}
