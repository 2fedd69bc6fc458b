package application

import (
	"errors"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/bharosahq/trust-network/internal/domain/entity"
	repo "github.com/bharosahq/trust-network/internal/domain/repository"
)

var ErrInvalidRating = errors.New("rating must be between 1 and 5")

// ratingDeltas maps a 1-5 rating to its raw score delta. The damping
// factor keeps a single audit from moving the score more than 8 points.
var ratingDeltas = map[int]int{1: -20, 2: -10, 3: 0, 4: 10, 5: 20}

const damping = 0.4

// ReputationService applies peer ratings to merchant trust scores. The
// rating write and the score update form one logical unit: the mutex
// serializes them so concurrent audits of the same merchant cannot
// interleave between read and write.
type ReputationService struct {
	Ratings   repo.RatingRepository
	Merchants repo.MerchantRepository
	Logger    *logrus.Logger

	mu sync.Mutex
}

func NewReputationService(ratings repo.RatingRepository, merchants repo.MerchantRepository, logger *logrus.Logger) *ReputationService {
	return &ReputationService{Ratings: ratings, Merchants: merchants, Logger: logger}
}

// SubmitRating records or revises a rater's audit of a merchant and applies
// the damped score adjustment. A first rating applies delta(value)×damping;
// a revision applies (delta(new)−delta(old))×damping, so the net effect of
// rate-then-edit equals rating the final value directly.
func (s *ReputationService) SubmitRating(raterID, merchantID string, value int, comment, location string) (*entity.Merchant, error) {
	if value < 1 || value > 5 {
		return nil, ErrInvalidRating
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.Merchants.FindByID(merchantID)
	if err != nil {
		return nil, err
	}

	existing, err := s.Ratings.FindByRaterAndMerchant(raterID, m.MerchantID)
	if err != nil {
		return nil, err
	}

	raw := ratingDeltas[value]
	if existing != nil {
		raw -= ratingDeltas[existing.Value]
	}
	adjustment := int(math.Round(float64(raw) * damping))
	newScore := entity.ClampTrustScore(m.TrustScore + adjustment)

	rating := &entity.Rating{
		ID:           uuid.NewString(),
		RaterID:      raterID,
		MerchantID:   m.MerchantID,
		MerchantName: m.PANName,
		Value:        value,
		Comment:      comment,
		Date:         time.Now().UTC(),
		Location:     location,
	}
	if existing != nil {
		rating.ID = existing.ID
	}
	if err := s.Ratings.Upsert(rating); err != nil {
		return nil, err
	}
	if err := s.Merchants.UpdateTrustScore(m.MerchantID, newScore); err != nil {
		return nil, err
	}

	s.Logger.WithFields(logrus.Fields{
		"merchant_id": m.MerchantID,
		"rater_id":    raterID,
		"value":       value,
		"score":       newScore,
	}).Info("trust score adjusted")

	return s.Merchants.FindByID(m.MerchantID)
}

// MerchantRatings lists a merchant's received audits, newest first.
func (s *ReputationService) MerchantRatings(merchantID string) ([]*entity.Rating, error) {
	return s.Ratings.ListByMerchant(merchantID)
}

// RaterHistory lists the audits a rater has performed.
func (s *ReputationService) RaterHistory(raterID string) ([]*entity.Rating, error) {
	return s.Ratings.ListByRater(raterID)
}

// AverageRating computes a merchant's mean rating for directory display.
func (s *ReputationService) AverageRating(merchantID string) (float64, int, error) {
	ratings, err := s.Ratings.ListByMerchant(merchantID)
	if err != nil {
		return 0, 0, err
	}
	if len(ratings) == 0 {
		return 0, 0, nil
	}
	sum := 0
	for _, r := range ratings {
		sum += r.Value
	}
	return float64(sum) / float64(len(ratings)), len(ratings), nil
}
