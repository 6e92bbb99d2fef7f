// Package referral rewards users for bringing classmates onto the
// platform. A referral is recorded at signup and pays out once the
// referred user posts their first listing.
package referral

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/domain/pricing"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/domain/user"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/domain/wallet"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/pkg/database"
)

const leaderboardKey = "referral:leaderboard"

type Service struct {
	repo    Repository
	users   user.Repository
	wallets *wallet.Service
	runner  database.Runner
	redis   *redis.Client // nil if Redis disabled
}

func NewService(repo Repository, users user.Repository, wallets *wallet.Service, runner database.Runner, rdb *redis.Client) *Service {
	return &Service{repo: repo, users: users, wallets: wallets, runner: runner, redis: rdb}
}

// RegisterReferral records a pending referral for a new signup using
// someone's code.
func (s *Service) RegisterReferral(ctx context.Context, code string, referredID uuid.UUID) error {
	referrer, err := s.users.GetByReferralCode(ctx, code)
	if err != nil {
		return err
	}
	if referrer.ID == referredID {
		return ErrSelfReferral
	}

	ref := &Referral{
		ReferrerID: referrer.ID,
		ReferredID: referredID,
		Code:       code,
		Status:     StatusPending,
		Reward:     pricing.ReferralReward,
		ExpiresAt:  time.Now().Add(pricing.ReferralDays * 24 * time.Hour),
	}
	if err := s.repo.Create(ctx, ref); err != nil {
		return err
	}

	log.Info().
		Str("referrer_id", referrer.ID.String()).
		Str("referred_id", referredID.String()).
		Msg("referral recorded")
	return nil
}

// CompleteForUser settles the referred user's pending referral, if
// any: the referral flips to COMPLETED and the referrer's wallet is
// credited in one transaction. Expired referrals pay nothing.
func (s *Service) CompleteForUser(ctx context.Context, referredID uuid.UUID) error {
	ref, err := s.repo.GetPendingByReferred(ctx, referredID)
	if err != nil {
		if errors.Is(err, ErrReferralNotFound) {
			return nil
		}
		return err
	}

	if time.Now().After(ref.ExpiresAt) {
		return s.repo.MarkExpired(ctx, ref.ID)
	}

	err = s.runner.RunInTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.repo.CompleteTx(ctx, tx, ref.ID); err != nil {
			return err
		}
		_, err := s.wallets.RewardTx(ctx, tx, ref.ReferrerID, ref.Reward, "Referral reward", ref.ID)
		return err
	})
	if err != nil {
		return err
	}

	if s.redis != nil {
		if err := s.redis.ZIncrBy(ctx, leaderboardKey, 1, ref.ReferrerID.String()).Err(); err != nil {
			log.Warn().Err(err).Msg("referral leaderboard update failed")
		}
	}

	log.Info().
		Str("referrer_id", ref.ReferrerID.String()).
		Int64("reward", ref.Reward).
		Msg("referral reward credited")
	return nil
}

// StatsForUser returns the caller's referral code and totals.
func (s *Service) StatsForUser(ctx context.Context, userID uuid.UUID) (*Stats, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats, err := s.repo.StatsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats.Code = u.ReferralCode
	return stats, nil
}

// Leaderboard ranks top referrers, preferring the Redis sorted set and
// falling back to SQL when Redis is unavailable.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit < 1 || limit > 100 {
		limit = 10
	}

	if s.redis != nil {
		scores, err := s.redis.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit-1)).Result()
		if err == nil && len(scores) > 0 {
			entries := make([]LeaderboardEntry, 0, len(scores))
			for _, z := range scores {
				id, err := uuid.Parse(z.Member.(string))
				if err != nil {
					continue
				}
				entries = append(entries, LeaderboardEntry{UserID: id, Completed: int64(z.Score)})
			}
			return entries, nil
		}
		if err != nil {
			log.Warn().Err(err).Msg("referral leaderboard read failed, using database")
		}
	}

	return s.repo.TopReferrers(ctx, limit)
}
