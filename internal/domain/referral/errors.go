package referral

import "errors"

var (
	ErrReferralNotFound = errors.New("referral not found")
	ErrSelfReferral     = errors.New("cannot refer yourself")
	ErrAlreadyReferred  = errors.New("user already has a referral")
)
