package auth

import "errors"

var (
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrUserBanned           = errors.New("account is banned")
	ErrRefreshTokenRequired = errors.New("refresh token required")
	ErrInvalidRefreshToken  = errors.New("invalid refresh token")
	ErrUnknownCampus        = errors.New("unknown campus")
	ErrUnknownReferralCode  = errors.New("unknown referral code")
)
