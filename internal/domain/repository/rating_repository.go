package repository

import "github.com/bharosahq/trust-network/internal/domain/entity"

// RatingRepository stores one rating per (rater, merchant) pair.
type RatingRepository interface {
	// FindByRaterAndMerchant returns (nil, nil) when the rater has not
	// audited this merchant yet.
	FindByRaterAndMerchant(raterID, merchantID string) (*entity.Rating, error)

	// Upsert creates the rating or replaces the existing one for the same
	// (rater, merchant) pair, keeping its original ID.
	Upsert(r *entity.Rating) error

	ListByRater(raterID string) ([]*entity.Rating, error)
	ListByMerchant(merchantID string) ([]*entity.Rating, error)
}
