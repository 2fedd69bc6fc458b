package repository

import (
	"errors"

	"github.com/bharosahq/trust-network/internal/domain/entity"
)

// ErrNotFound is returned by exact lookups when no record exists.
// FindByIdentity is different: partial evidence that matches nothing is a
// normal outcome, so it returns (nil, nil) rather than an error.
var ErrNotFound = errors.New("not found")

// CustomerRepository is the append-only registry of customer identities.
// There are no update or delete operations; corrections to an existing
// identity are out of scope for this prototype.
type CustomerRepository interface {
	Add(c *entity.Customer) error
	FindByID(customerID string) (*entity.Customer, error)
	FindByPhone(phone string) (*entity.Customer, error)

	// FindByIdentity resolves partial biometric evidence to a registered
	// customer. Any supplied, non-empty key that equals the stored key is a
	// match; empty keys are skipped. First match in insertion order wins.
	FindByIdentity(fingerprintHash, faceHash string) (*entity.Customer, error)

	List() ([]*entity.Customer, error)
}

// MerchantRepository is the append-only registry of merchant identities.
// UpdateTrustScore is the single permitted mutation and only the reputation
// component calls it.
type MerchantRepository interface {
	Add(m *entity.Merchant) error

	// FindByID matches the primary (numeric) or secondary (alphanumeric
	// reference) identifier.
	FindByID(id string) (*entity.Merchant, error)

	// FindByIdentity resolves partial evidence (PAN, fingerprint hash, face
	// hash) to a registered merchant, with the same skip-empty and
	// first-match-wins contract as the customer variant.
	FindByIdentity(pan, fingerprintHash, faceHash string) (*entity.Merchant, error)

	UpdateTrustScore(id string, score int) error
	AddMedia(id, url string) error

	// Search matches an exact identifier or a case-insensitive name
	// substring, for the directory screen.
	Search(q string) ([]*entity.Merchant, error)

	List() ([]*entity.Merchant, error)
}
