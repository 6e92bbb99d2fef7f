package listing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/domain/category"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/domain/pricing"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/domain/transaction"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/domain/user"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/domain/wallet"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/pkg/database"
)

// Service implements listing lifecycle and every paid action attached
// to it. Fee recording and wallet debits always share the database
// transaction of the write that triggered them.
// ReferralCompleter settles a pending referral once the referred user
// posts their first listing.
type ReferralCompleter interface {
	CompleteForUser(ctx context.Context, referredID uuid.UUID) error
}

type Service struct {
	repo      Repository
	users     user.Repository
	txns      *transaction.Service
	wallets   *wallet.Service
	runner    database.Runner
	referrals ReferralCompleter
}

func NewService(repo Repository, users user.Repository, txns *transaction.Service, wallets *wallet.Service, runner database.Runner) *Service {
	return &Service{repo: repo, users: users, txns: txns, wallets: wallets, runner: runner}
}

// SetReferralCompleter attaches the referral payout hook.
func (s *Service) SetReferralCompleter(rc ReferralCompleter) {
	s.referrals = rc
}

// Create inserts a listing and charges its fee components. Premium
// sellers skip the base fee; the service surcharge and any pending
// commission are recorded regardless.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req CreateRequest) (*CreateResponse, error) {
	cat, ok := category.GetByCode(req.Category)
	if !ok {
		return nil, ErrInvalidCategory
	}

	seller, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	premium := seller.PremiumActive()

	fees := pricing.ListingFees(req.Price, cat.IsService, premium)

	l := &Listing{
		UserID:      userID,
		CampusID:    seller.CampusID,
		Title:       req.Title,
		Description: req.Description,
		Category:    cat.Code,
		Price:       req.Price,
		Condition:   req.Condition,
		Location:    req.Location,
	}

	resp := &CreateResponse{FeeWaived: premium}

	err = s.runner.RunInTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.repo.CreateTx(ctx, tx, l); err != nil {
			return err
		}

		for _, fee := range fees {
			t := transaction.FromFee(userID, fee)
			t.ListingID = uuid.NullUUID{UUID: l.ID, Valid: true}
			if err := s.txns.RecordTx(ctx, tx, t); err != nil {
				return err
			}

			if fee.Status == transaction.StatusCompleted {
				balance, err := s.wallets.ChargeTx(ctx, tx, userID, fee.Amount, fee.Description, t.ID)
				if err != nil {
					return err
				}
				resp.TotalCharged += fee.Amount
				resp.Balance = balance
			}

			resp.Fees = append(resp.Fees, FeeLine{
				Type:           t.Type,
				Amount:         t.Amount,
				Status:         t.Status,
				CommissionRate: fee.Rate,
				TransactionID:  t.ID,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp.Listing = l

	// First listing settles any pending referral for this user.
	if s.referrals != nil {
		if err := s.referrals.CompleteForUser(ctx, userID); err != nil {
			log.Warn().Err(err).Str("user_id", userID.String()).Msg("referral completion failed")
		}
	}

	log.Info().
		Str("listing_id", l.ID.String()).
		Str("user_id", userID.String()).
		Int64("price", l.Price).
		Int64("charged", resp.TotalCharged).
		Bool("fee_waived", resp.FeeWaived).
		Msg("listing created")
	return resp, nil
}

// Get returns a listing, counting a view for non-owners. Unavailable
// listings stay visible to their owner only.
func (s *Service) Get(ctx context.Context, id, viewerID uuid.UUID) (*Listing, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !l.IsAvailable && l.UserID != viewerID {
		return nil, ErrListingNotFound
	}
	if l.UserID != viewerID {
		if err := s.repo.IncrementViews(ctx, id); err != nil {
			log.Warn().Err(err).Str("listing_id", id.String()).Msg("view count update failed")
		} else {
			l.Views++
		}
	}
	return l, nil
}

func (s *Service) List(ctx context.Context, filter Filter) ([]Listing, int64, error) {
	return s.repo.List(ctx, filter)
}

// Update edits mutable fields. Price changes do not re-price fees
// already recorded at creation.
func (s *Service) Update(ctx context.Context, id, userID uuid.UUID, req UpdateRequest) (*Listing, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.UserID != userID {
		return nil, ErrNotOwner
	}
	if !l.IsAvailable {
		return nil, ErrNotAvailable
	}

	if req.Title != nil {
		l.Title = *req.Title
	}
	if req.Description != nil {
		l.Description = *req.Description
	}
	if req.Price != nil {
		l.Price = *req.Price
	}
	if req.Condition != nil {
		l.Condition = *req.Condition
	}
	if req.Location != nil {
		l.Location = *req.Location
	}

	if err := s.repo.Update(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// Withdraw takes the owner's listing off the market.
func (s *Service) Withdraw(ctx context.Context, id, userID uuid.UUID) error {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if l.UserID != userID {
		return ErrNotOwner
	}
	return s.repo.SetAvailable(ctx, id, false)
}

// UnlockContact reveals the seller's contact details. Owners and
// premium buyers pay nothing; a buyer who already paid for this
// listing is not charged again.
func (s *Service) UnlockContact(ctx context.Context, listingID, buyerID uuid.UUID) (*ContactResponse, error) {
	l, err := s.repo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if !l.IsAvailable {
		return nil, ErrNotAvailable
	}

	seller, err := s.users.GetByID(ctx, l.UserID)
	if err != nil {
		return nil, err
	}
	contact := &ContactResponse{Phone: seller.Phone, Email: seller.Email}

	if l.UserID == buyerID {
		contact.OwnListing = true
		return contact, nil
	}

	buyer, err := s.users.GetByID(ctx, buyerID)
	if err != nil {
		return nil, err
	}

	fee, charged := pricing.UnlockFee(buyer.PremiumActive())
	if charged {
		paid, err := s.txns.HasRecorded(ctx, buyerID, listingID, transaction.TypeContactUnlock)
		if err != nil {
			return nil, err
		}
		charged = !paid
	}

	err = s.runner.RunInTx(ctx, func(tx *sqlx.Tx) error {
		if charged {
			t := transaction.FromFee(buyerID, fee)
			t.ListingID = uuid.NullUUID{UUID: listingID, Valid: true}
			if err := s.txns.RecordTx(ctx, tx, t); err != nil {
				return err
			}
			if _, err := s.wallets.ChargeTx(ctx, tx, buyerID, fee.Amount, fee.Description, t.ID); err != nil {
				return err
			}
			contact.Charged = fee.Amount
		}
		return s.repo.SetContactUnlockedTx(ctx, tx, listingID)
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("listing_id", listingID.String()).
		Str("buyer_id", buyerID.String()).
		Int64("charged", contact.Charged).
		Msg("contact unlocked")
	return contact, nil
}

// Sponsor features a listing for the sponsored window, at a discount
// for premium sellers. Listings already inside an active window are
// refused.
func (s *Service) Sponsor(ctx context.Context, listingID, userID uuid.UUID) (*SponsorResponse, error) {
	l, err := s.repo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if l.UserID != userID {
		return nil, ErrNotOwner
	}
	if !l.IsAvailable {
		return nil, ErrNotAvailable
	}

	now := time.Now()
	if l.FeaturedActiveAt(now) {
		return nil, ErrAlreadySponsored
	}

	owner, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	fee := pricing.SponsorFee(owner.PremiumActive())
	until := now.Add(pricing.SponsorDays * 24 * time.Hour)
	resp := &SponsorResponse{Charged: fee.Amount}

	err = s.runner.RunInTx(ctx, func(tx *sqlx.Tx) error {
		t := transaction.FromFee(userID, fee)
		t.ListingID = uuid.NullUUID{UUID: listingID, Valid: true}
		if err := s.txns.RecordTx(ctx, tx, t); err != nil {
			return err
		}

		balance, err := s.wallets.ChargeTx(ctx, tx, userID, fee.Amount, fee.Description, t.ID)
		if err != nil {
			return err
		}
		resp.Balance = balance

		return s.repo.SetFeaturedTx(ctx, tx, listingID, until)
	})
	if err != nil {
		return nil, err
	}

	l.IsFeatured = true
	l.FeaturedUntil.Time = until
	l.FeaturedUntil.Valid = true
	resp.Listing = l

	log.Info().
		Str("listing_id", listingID.String()).
		Int64("charged", fee.Amount).
		Time("featured_until", until).
		Msg("listing sponsored")
	return resp, nil
}

// MarkSold closes a sale. Any pending high-value commission settles
// here: the row flips to COMPLETED and the seller's wallet is debited,
// all inside the sale transaction.
func (s *Service) MarkSold(ctx context.Context, listingID, userID uuid.UUID) (*SoldResponse, error) {
	resp := &SoldResponse{}

	err := s.runner.RunInTx(ctx, func(tx *sqlx.Tx) error {
		l, err := s.repo.GetByIDForUpdateTx(ctx, tx, listingID)
		if err != nil {
			return err
		}
		if l.UserID != userID {
			return ErrNotOwner
		}
		if l.SoldAt.Valid {
			return ErrAlreadySold
		}

		if err := s.repo.MarkSoldTx(ctx, tx, listingID); err != nil {
			return err
		}
		l.IsAvailable = false
		resp.Listing = l

		commission, err := s.txns.SettleCommissionTx(ctx, tx, listingID)
		if err != nil {
			if errors.Is(err, transaction.ErrTransactionNotFound) {
				return nil
			}
			return err
		}

		if _, err := s.wallets.ChargeTx(ctx, tx, userID, commission.Amount, commission.Description, commission.ID); err != nil {
			return err
		}
		resp.Commission = commission
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("listing_id", listingID.String()).
		Bool("commission_settled", resp.Commission != nil).
		Msg("listing marked sold")
	return resp, nil
}

// Remove takes a listing down for moderation reasons. Admin only; the
// handler enforces the role.
func (s *Service) Remove(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.SetAvailable(ctx, id, false)
}
