package memory

import (
	"sync"

	"github.com/bharosahq/trust-network/internal/domain/entity"
	"github.com/bharosahq/trust-network/internal/domain/repository"
)

// RatingStore keeps at most one rating per (rater, merchant) pair.
type RatingStore struct {
	mu      sync.RWMutex
	ratings []*entity.Rating
}

func NewRatingStore() *RatingStore {
	return &RatingStore{}
}

func (s *RatingStore) FindByRaterAndMerchant(raterID, merchantID string) (*entity.Rating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.ratings {
		if r.RaterID == raterID && r.MerchantID == merchantID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *RatingStore) Upsert(r *entity.Rating) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.ratings {
		if existing.RaterID == r.RaterID && existing.MerchantID == r.MerchantID {
			cp := *r
			cp.ID = existing.ID // edits keep the original rating ID
			s.ratings[i] = &cp
			return nil
		}
	}
	cp := *r
	s.ratings = append(s.ratings, &cp)
	return nil
}

func (s *RatingStore) ListByRater(raterID string) ([]*entity.Rating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entity.Rating, 0)
	for _, r := range s.ratings {
		if r.RaterID == raterID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *RatingStore) ListByMerchant(merchantID string) ([]*entity.Rating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entity.Rating, 0)
	for _, r := range s.ratings {
		if r.MerchantID == merchantID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

var _ repository.RatingRepository = (*RatingStore)(nil)
