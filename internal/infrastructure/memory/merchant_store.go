package memory

import (
	"strings"
	"sync"
	"time"

	"github.com/bharosahq/trust-network/internal/domain/entity"
	"github.com/bharosahq/trust-network/internal/domain/repository"
)

// MerchantStore is the in-memory merchant registry, insertion-ordered for
// the same first-match-wins reason as CustomerStore.
type MerchantStore struct {
	mu        sync.RWMutex
	merchants []*entity.Merchant
}

func NewMerchantStore() *MerchantStore {
	return &MerchantStore{}
}

func (s *MerchantStore) Add(m *entity.Merchant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	if m.TrustScore == 0 {
		m.TrustScore = entity.InitialTrustScore
	}
	cp := *m
	s.merchants = append(s.merchants, &cp)
	return nil
}

func (s *MerchantStore) FindByID(id string) (*entity.Merchant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m := s.findByID(id)
	if m == nil {
		return nil, repository.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

// findByID must be called with the lock held.
func (s *MerchantStore) findByID(id string) *entity.Merchant {
	for _, m := range s.merchants {
		if m.MerchantID == id || strings.EqualFold(m.Reference, id) {
			return m
		}
	}
	return nil
}

func (s *MerchantStore) FindByIdentity(pan, fingerprintHash, faceHash string) (*entity.Merchant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.merchants {
		if matchesAny(
			pair{pan, m.PANNumber},
			pair{fingerprintHash, m.FingerprintHash},
			pair{faceHash, m.FaceHash},
		) {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *MerchantStore) UpdateTrustScore(id string, score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.findByID(id)
	if m == nil {
		return repository.ErrNotFound
	}
	m.TrustScore = entity.ClampTrustScore(score)
	return nil
}

func (s *MerchantStore) AddMedia(id, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.findByID(id)
	if m == nil {
		return repository.ErrNotFound
	}
	m.MediaURLs = append(m.MediaURLs, url)
	return nil
}

func (s *MerchantStore) Search(q string) ([]*entity.Merchant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	needle := strings.ToLower(strings.TrimSpace(q))
	out := make([]*entity.Merchant, 0)
	if needle == "" {
		return out, nil
	}
	for _, m := range s.merchants {
		if m.MerchantID == q || strings.EqualFold(m.Reference, q) ||
			strings.Contains(strings.ToLower(m.PANName), needle) ||
			strings.Contains(strings.ToLower(m.OwnerName), needle) {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *MerchantStore) List() ([]*entity.Merchant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entity.Merchant, 0, len(s.merchants))
	for _, m := range s.merchants {
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

var _ repository.MerchantRepository = (*MerchantStore)(nil)
