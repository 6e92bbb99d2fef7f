// Package photo attaches images to listings. Uploads are resized,
// thumbnailed and pushed to the configured storage backend.
package photo

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/domain/listing"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/pkg/imaging"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/pkg/storage"
)

// MaxPhotosPerListing caps how many images a listing can carry.
const MaxPhotosPerListing = 6

type Service struct {
	repo      Repository
	listings  listing.Repository
	store     storage.Storage
	processor *imaging.Processor
}

func NewService(repo Repository, listings listing.Repository, store storage.Storage, processor *imaging.Processor) *Service {
	return &Service{repo: repo, listings: listings, store: store, processor: processor}
}

// Upload processes and stores an image for the owner's listing.
func (s *Service) Upload(ctx context.Context, listingID, userID uuid.UUID, r io.Reader) (*Photo, error) {
	l, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if l.UserID != userID {
		return nil, listing.ErrNotOwner
	}

	count, err := s.repo.CountByListing(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if count >= MaxPhotosPerListing {
		return nil, ErrTooManyPhotos
	}

	processed, err := s.processor.Process(r)
	if err != nil {
		return nil, ErrInvalidImage
	}

	photoID := uuid.New()
	ext := extFromContentType(processed.ContentType)
	key := path.Join("listings", listingID.String(), photoID.String()+ext)
	thumbKey := path.Join("listings", listingID.String(), photoID.String()+"_thumb"+ext)

	if err := s.store.Put(ctx, key, bytes.NewReader(processed.Original), processed.ContentType); err != nil {
		return nil, fmt.Errorf("store original: %w", err)
	}
	if err := s.store.Put(ctx, thumbKey, bytes.NewReader(processed.Thumbnail), processed.ContentType); err != nil {
		_ = s.store.Delete(ctx, key)
		return nil, fmt.Errorf("store thumbnail: %w", err)
	}

	p := &Photo{
		ID:           photoID,
		ListingID:    listingID,
		Key:          key,
		ThumbKey:     thumbKey,
		URL:          s.store.GetURL(key),
		ThumbnailURL: s.store.GetURL(thumbKey),
		ContentType:  processed.ContentType,
		Width:        processed.Width,
		Height:       processed.Height,
		SortOrder:    count,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		_ = s.store.Delete(ctx, key)
		_ = s.store.Delete(ctx, thumbKey)
		return nil, err
	}

	log.Info().
		Str("listing_id", listingID.String()).
		Str("photo_id", photoID.String()).
		Str("key", key).
		Msg("photo uploaded")
	return p, nil
}

func (s *Service) ListForListing(ctx context.Context, listingID uuid.UUID) ([]Photo, error) {
	return s.repo.ListByListing(ctx, listingID)
}

// Delete removes a photo from storage and the database. Only the
// listing owner may delete.
func (s *Service) Delete(ctx context.Context, photoID, userID uuid.UUID) error {
	p, err := s.repo.GetByID(ctx, photoID)
	if err != nil {
		return err
	}

	l, err := s.listings.GetByID(ctx, p.ListingID)
	if err != nil {
		return err
	}
	if l.UserID != userID {
		return listing.ErrNotOwner
	}

	if err := s.repo.Delete(ctx, photoID); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, p.Key); err != nil {
		log.Warn().Err(err).Str("key", p.Key).Msg("photo blob delete failed")
	}
	if err := s.store.Delete(ctx, p.ThumbKey); err != nil {
		log.Warn().Err(err).Str("key", p.ThumbKey).Msg("thumbnail blob delete failed")
	}
	return nil
}

func extFromContentType(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	default:
		return ".jpg"
	}
}
