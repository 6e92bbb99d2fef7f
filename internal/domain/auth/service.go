package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/domain/campus"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/domain/user"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/domain/wallet"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/pkg/jwt"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/pkg/password"
)

// ReferralRegistrar records a referral when a new user signs up with a
// code. Failures are logged, not fatal: registration must not break on
// referral bookkeeping.
type ReferralRegistrar interface {
	RegisterReferral(ctx context.Context, code string, referredID uuid.UUID) error
}

type Service struct {
	users     user.Repository
	campuses  campus.Repository
	wallets   *wallet.Service
	referrals ReferralRegistrar
	jwt       *jwt.Service
	redis     *redis.Client // nil if Redis disabled
}

func NewService(users user.Repository, campuses campus.Repository, wallets *wallet.Service, referrals ReferralRegistrar, jwtService *jwt.Service, rdb *redis.Client) *Service {
	return &Service{
		users:     users,
		campuses:  campuses,
		wallets:   wallets,
		referrals: referrals,
		jwt:       jwtService,
		redis:     rdb,
	}
}

// Register creates a user with a zero-balance wallet and a fresh
// referral code.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)

	if _, err := s.campuses.GetByID(ctx, req.CampusID); err != nil {
		if errors.Is(err, campus.ErrCampusNotFound) {
			return nil, ErrUnknownCampus
		}
		return nil, err
	}

	existing, _ := s.users.GetByEmail(ctx, req.Email)
	if existing != nil {
		return nil, user.ErrEmailAlreadyExists
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	u := &user.User{
		ID:           uuid.New(),
		CampusID:     req.CampusID,
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hash,
		Role:         user.RoleStudent,
		ReferralCode: newReferralCode(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	if err := s.wallets.EnsureWallet(ctx, u.ID); err != nil {
		log.Error().Err(err).Str("user_id", u.ID.String()).Msg("wallet creation failed at signup")
	}

	if req.ReferralCode != "" && s.referrals != nil {
		if err := s.referrals.RegisterReferral(ctx, req.ReferralCode, u.ID); err != nil {
			log.Warn().Err(err).Str("code", req.ReferralCode).Msg("referral registration failed")
		}
	}

	log.Info().Str("user_id", u.ID.String()).Str("campus_id", u.CampusID.String()).Msg("user registered")
	return s.generateTokens(ctx, u)
}

// Login authenticates by email and password.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)

	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil || u == nil {
		return nil, ErrInvalidCredentials
	}
	if !password.Verify(req.Password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if u.IsBanned {
		return nil, ErrUserBanned
	}

	return s.generateTokens(ctx, u)
}

// Refresh rotates a refresh token and issues a new token pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	if refreshToken == "" {
		return nil, ErrRefreshTokenRequired
	}

	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	if s.redis != nil {
		stored, err := s.redis.Get(ctx, refreshKey(claims.ID)).Result()
		if err != nil || stored != claims.UserID.String() {
			return nil, ErrInvalidRefreshToken
		}
		_ = s.redis.Del(ctx, refreshKey(claims.ID)).Err()
	}

	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil || u == nil {
		return nil, ErrInvalidRefreshToken
	}
	if u.IsBanned {
		return nil, ErrUserBanned
	}

	return s.generateTokens(ctx, u)
}

// Logout revokes the refresh token.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" || s.redis == nil {
		return nil
	}
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil
	}
	return s.redis.Del(ctx, refreshKey(claims.ID)).Err()
}

// GetCurrentUser returns the authenticated user's profile.
func (s *Service) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := newUserResponse(u)
	return &resp, nil
}

func (s *Service) generateTokens(ctx context.Context, u *user.User) (*AuthResponse, error) {
	accessToken, err := s.jwt.GenerateAccessToken(u.ID, string(u.Role), u.IsBanned)
	if err != nil {
		return nil, err
	}

	refreshToken, jti, _, err := s.jwt.GenerateRefreshToken(u.ID)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if err := s.redis.Set(ctx, refreshKey(jti), u.ID.String(), s.jwt.GetRefreshTTL()).Err(); err != nil {
			return nil, err
		}
	}

	return &AuthResponse{
		User: newUserResponse(u),
		Tokens: TokensResponse{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresIn:    int(s.jwt.GetAccessTTL().Seconds()),
		},
	}, nil
}

func refreshKey(jti string) string {
	return "refresh:" + jti
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// newReferralCode returns an 8-character uppercase code.
func newReferralCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
