// Package admin exposes the moderation and reporting surface. All of
// its routes sit behind the admin role check.
package admin

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/domain/ai"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/domain/listing"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/domain/transaction"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/domain/user"
)

// PlatformStats is the admin dashboard headline block.
type PlatformStats struct {
	TotalUsers        int64 `db:"total_users" json:"total_users"`
	BannedUsers       int64 `db:"banned_users" json:"banned_users"`
	PremiumUsers      int64 `db:"premium_users" json:"premium_users"`
	TotalListings     int64 `db:"total_listings" json:"total_listings"`
	AvailableListings int64 `db:"available_listings" json:"available_listings"`
	SoldListings      int64 `db:"sold_listings" json:"sold_listings"`

	Transactions *transaction.Summary `json:"transactions"`
}

type Service struct {
	db          *sqlx.DB
	users       user.Repository
	listings    *listing.Service
	listingRepo listing.Repository
	txns        *transaction.Service
	fraud       *ai.Service
}

func NewService(db *sqlx.DB, users user.Repository, listings *listing.Service, listingRepo listing.Repository, txns *transaction.Service, fraud *ai.Service) *Service {
	return &Service{
		db:          db,
		users:       users,
		listings:    listings,
		listingRepo: listingRepo,
		txns:        txns,
		fraud:       fraud,
	}
}

func (s *Service) BanUser(ctx context.Context, id uuid.UUID, banned bool) (*user.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.users.SetBanned(ctx, id, banned); err != nil {
		return nil, err
	}
	u.IsBanned = banned

	log.Info().
		Str("user_id", id.String()).
		Bool("banned", banned).
		Msg("moderation: user ban state changed")
	return u, nil
}

func (s *Service) VerifyUser(ctx context.Context, id uuid.UUID, verified bool) (*user.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.users.SetVerified(ctx, id, verified); err != nil {
		return nil, err
	}
	u.IsVerified = verified
	return u, nil
}

// RemoveListing takes a listing off the marketplace for policy reasons.
func (s *Service) RemoveListing(ctx context.Context, id uuid.UUID) error {
	if err := s.listings.Remove(ctx, id); err != nil {
		return err
	}
	log.Info().Str("listing_id", id.String()).Msg("moderation: listing removed")
	return nil
}

// InspectListing returns a listing together with its fraud assessment
// for the moderation queue.
func (s *Service) InspectListing(ctx context.Context, id uuid.UUID) (*listing.Listing, *ai.FraudAssessment, error) {
	l, err := s.listingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return l, s.fraud.AssessFraud(l), nil
}

func (s *Service) SearchTransactions(ctx context.Context, filter transaction.ListFilter) ([]transaction.Transaction, int64, error) {
	return s.txns.Search(ctx, filter)
}

func (s *Service) Stats(ctx context.Context) (*PlatformStats, error) {
	var stats PlatformStats
	err := s.db.GetContext(ctx, &stats, `
		SELECT
			(SELECT COUNT(*) FROM users)                                    AS total_users,
			(SELECT COUNT(*) FROM users WHERE is_banned)                    AS banned_users,
			(SELECT COUNT(*) FROM users
			 WHERE is_premium AND premium_expires > now())                  AS premium_users,
			(SELECT COUNT(*) FROM listings)                                 AS total_listings,
			(SELECT COUNT(*) FROM listings
			 WHERE is_available AND sold_at IS NULL)                        AS available_listings,
			(SELECT COUNT(*) FROM listings WHERE sold_at IS NOT NULL)       AS sold_listings`)
	if err != nil {
		return nil, err
	}

	summary, err := s.txns.Summary(ctx)
	if err != nil {
		return nil, err
	}
	stats.Transactions = summary
	return &stats, nil
}
