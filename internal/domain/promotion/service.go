// Package promotion sells business ads and event partnerships, the
// two flat-fee promotion products outside the listing flow.
package promotion

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/domain/pricing"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/domain/transaction"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/domain/wallet"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/pkg/database"
)

var ErrUnknownTier = errors.New("unknown partnership tier")

type Service struct {
	repo    Repository
	txns    *transaction.Service
	wallets *wallet.Service
	runner  database.Runner
}

func NewService(repo Repository, txns *transaction.Service, wallets *wallet.Service, runner database.Runner) *Service {
	return &Service{repo: repo, txns: txns, wallets: wallets, runner: runner}
}

// CreateBusinessAd books an ad for whole months and charges the
// monthly fee times the duration.
func (s *Service) CreateBusinessAd(ctx context.Context, userID uuid.UUID, req CreateBusinessAdRequest) (*BusinessAdResponse, error) {
	fee := pricing.BusinessAdFee(req.Months)
	now := time.Now()

	ad := &BusinessAd{
		UserID:    userID,
		Title:     req.Title,
		ImageURL:  req.ImageURL,
		TargetURL: req.TargetURL,
		Months:    req.Months,
		Amount:    fee.Amount,
		StartsAt:  now,
		EndsAt:    now.AddDate(0, req.Months, 0),
	}

	resp := &BusinessAdResponse{Charged: fee.Amount}
	err := s.runner.RunInTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.repo.CreateBusinessAdTx(ctx, tx, ad); err != nil {
			return err
		}

		t := transaction.FromFee(userID, fee)
		t.BusinessAdID = uuid.NullUUID{UUID: ad.ID, Valid: true}
		if err := s.txns.RecordTx(ctx, tx, t); err != nil {
			return err
		}

		balance, err := s.wallets.ChargeTx(ctx, tx, userID, fee.Amount, fee.Description, t.ID)
		if err != nil {
			return err
		}
		resp.Balance = balance
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp.Ad = ad
	log.Info().
		Str("ad_id", ad.ID.String()).
		Int("months", req.Months).
		Int64("charged", fee.Amount).
		Msg("business ad booked")
	return resp, nil
}

func (s *Service) ListBusinessAds(ctx context.Context) ([]BusinessAd, error) {
	return s.repo.ListActiveBusinessAds(ctx)
}

// CreateEvent books an event partnership at the requested tier.
func (s *Service) CreateEvent(ctx context.Context, userID uuid.UUID, req CreateEventRequest) (*EventResponse, error) {
	fee, ok := pricing.EventPartnershipFee(req.Tier)
	if !ok {
		return nil, ErrUnknownTier
	}

	e := &Event{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Tier:        req.Tier,
		Amount:      fee.Amount,
		EventDate:   req.EventDate,
	}

	resp := &EventResponse{Charged: fee.Amount}
	err := s.runner.RunInTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.repo.CreateEventTx(ctx, tx, e); err != nil {
			return err
		}

		t := transaction.FromFee(userID, fee)
		t.EventID = uuid.NullUUID{UUID: e.ID, Valid: true}
		if err := s.txns.RecordTx(ctx, tx, t); err != nil {
			return err
		}

		balance, err := s.wallets.ChargeTx(ctx, tx, userID, fee.Amount, fee.Description, t.ID)
		if err != nil {
			return err
		}
		resp.Balance = balance
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp.Event = e
	log.Info().
		Str("event_id", e.ID.String()).
		Str("tier", req.Tier).
		Int64("charged", fee.Amount).
		Msg("event partnership booked")
	return resp, nil
}

func (s *Service) ListEvents(ctx context.Context) ([]Event, error) {
	return s.repo.ListUpcomingEvents(ctx)
}
