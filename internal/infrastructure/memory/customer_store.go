package memory

import (
	"strings"
	"sync"
	"time"

	"github.com/bharosahq/trust-network/internal/domain/entity"
	"github.com/bharosahq/trust-network/internal/domain/repository"
)

// CustomerStore is the in-memory customer registry. Records are held in a
// slice so identity matching preserves insertion order: when two records
// could each satisfy a different evidence key, the earliest registered one
// wins.
type CustomerStore struct {
	mu        sync.RWMutex
	customers []*entity.Customer
	byID      map[string]*entity.Customer
}

func NewCustomerStore() *CustomerStore {
	return &CustomerStore{byID: make(map[string]*entity.Customer)}
}

func (s *CustomerStore) Add(c *entity.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	cp := *c
	s.customers = append(s.customers, &cp)
	s.byID[strings.ToUpper(cp.CustomerID)] = &cp
	return nil
}

func (s *CustomerStore) FindByID(customerID string) (*entity.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.byID[strings.ToUpper(customerID)]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (s *CustomerStore) FindByPhone(phone string) (*entity.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.customers {
		if c.Phone == phone {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *CustomerStore) FindByIdentity(fingerprintHash, faceHash string) (*entity.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.customers {
		if matchesAny(
			pair{fingerprintHash, c.FingerprintHash},
			pair{faceHash, c.FaceHash},
		) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *CustomerStore) List() ([]*entity.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entity.Customer, 0, len(s.customers))
	for _, c := range s.customers {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

// pair is one (supplied, stored) evidence key comparison.
type pair struct{ supplied, stored string }

// matchesAny implements the matcher contract: a supplied, non-empty key
// that exactly equals the stored key is a match; empty keys are skipped.
func matchesAny(pairs ...pair) bool {
	for _, p := range pairs {
		if p.supplied != "" && p.supplied == p.stored {
			return true
		}
	}
	return false
}

var _ repository.CustomerRepository = (*CustomerStore)(nil)
