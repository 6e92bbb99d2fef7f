// Package subscription sells the premium tier: a flat fee buys a
// 30-day window of waived listing and unlock fees plus discounted
// sponsorship.
package subscription

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/domain/pricing"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/domain/transaction"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/domain/user"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/domain/wallet"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/pkg/database"
)

// Status reports the caller's premium state.
type Status struct {
	IsPremium      bool       `json:"is_premium"`
	PremiumExpires *time.Time `json:"premium_expires,omitempty"`
	Fee            int64      `json:"fee"`
	PeriodDays     int        `json:"period_days"`
}

// SubscribeResult returns the new premium window and what it cost.
type SubscribeResult struct {
	PremiumExpires time.Time `json:"premium_expires"`
	Charged        int64     `json:"charged"`
	Balance        int64     `json:"balance"`
}

type Service struct {
	users   user.Repository
	txns    *transaction.Service
	wallets *wallet.Service
	runner  database.Runner
	now     func() time.Time
}

func NewService(users user.Repository, txns *transaction.Service, wallets *wallet.Service, runner database.Runner) *Service {
	return &Service{users: users, txns: txns, wallets: wallets, runner: runner, now: time.Now}
}

// Subscribe charges the subscription fee and grants 30 days of
// premium. Subscribing while still premium extends the window from
// its current expiry rather than resetting it.
func (s *Service) Subscribe(ctx context.Context, userID uuid.UUID) (*SubscribeResult, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	start := now
	if u.PremiumActiveAt(now) && u.PremiumExpires.Time.After(start) {
		start = u.PremiumExpires.Time
	}
	expires := start.Add(pricing.SubscriptionDays * 24 * time.Hour)

	fee := pricing.PremiumFee()
	result := &SubscribeResult{PremiumExpires: expires, Charged: fee.Amount}

	err = s.runner.RunInTx(ctx, func(tx *sqlx.Tx) error {
		t := transaction.FromFee(userID, fee)
		if err := s.txns.RecordTx(ctx, tx, t); err != nil {
			return err
		}

		balance, err := s.wallets.ChargeTx(ctx, tx, userID, fee.Amount, fee.Description, t.ID)
		if err != nil {
			return err
		}
		result.Balance = balance

		return s.users.SetPremiumTx(ctx, tx, userID, expires)
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("user_id", userID.String()).
		Time("premium_expires", expires).
		Msg("premium subscription purchased")
	return result, nil
}

// GetStatus returns the caller's current premium state alongside the
// offer terms.
func (s *Service) GetStatus(ctx context.Context, userID uuid.UUID) (*Status, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	status := &Status{
		IsPremium:  u.PremiumActiveAt(s.now()),
		Fee:        pricing.SubscriptionFee,
		PeriodDays: pricing.SubscriptionDays,
	}
	if u.PremiumExpires.Valid {
		t := u.PremiumExpires.Time
		status.PremiumExpires = &t
	}
	return status, nil
}
