package application

import (
	"fmt"
	"strings"

	"github.com/bharosahq/trust-network/internal/domain/entity"
	"github.com/bharosahq/trust-network/pkg/helpers"
)

// SignInWithID completes a flow through the identity-match side channel.
// The matcher must already have resolved the flow's evidence to an existing
// record; the caller then proves ownership by supplying that record's
// primary or secondary identifier. A wrong identifier is an inline error
// the caller can retry without limit.
func (s *RegistrationService) SignInWithID(id, claimedID string) (*Flow, error) {
	f, err := s.flow(id)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	claimed := strings.TrimSpace(claimedID)
	switch {
	case f.MatchedMerchant != nil:
		m := f.MatchedMerchant
		if claimed != m.MerchantID && !strings.EqualFold(claimed, m.Reference) {
			return nil, ErrIdentityMismatch
		}
		f.State = StateComplete
		return f, nil
	case f.MatchedCustomer != nil:
		c := f.MatchedCustomer
		if !strings.EqualFold(claimed, c.CustomerID) {
			return nil, ErrIdentityMismatch
		}
		f.State = StateComplete
		return f, nil
	default:
		return nil, ErrNoIdentityMatch
	}
}

// StartRecovery begins the forgot-ID sub-flow: the caller supplies a phone
// number and receives a one-time code. Only reachable from primary
// collection, before any identity has been committed to the flow.
func (s *RegistrationService) StartRecovery(id, phone string) (string, error) {
	f, err := s.flow(id)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	if f.State != StateCollectPrimary {
		f.mu.Unlock()
		return "", ErrWrongState
	}
	phone = strings.TrimSpace(phone)
	if len(phone) != 10 {
		f.mu.Unlock()
		return "", fmt.Errorf("%w: phone must be 10 digits", ErrStepIncomplete)
	}
	f.recoveryPhone = phone
	f.recoveryVerified = false
	f.RecoveredID = ""
	f.mu.Unlock()

	return s.dispatchCode(f, "recovery", helpers.KeyRecoveryOTP(phone))
}

// VerifyRecovery checks the recovery code and, on success, reveals the
// primary identifier of the record registered under the phone number.
func (s *RegistrationService) VerifyRecovery(id, code string) (string, error) {
	f, err := s.flow(id)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	phone := f.recoveryPhone
	role := f.Role
	f.mu.Unlock()
	if phone == "" {
		return "", ErrRecoveryUnverified
	}

	if err := s.checkCode(f, "recovery", helpers.KeyRecoveryOTP(phone), code); err != nil {
		return "", err
	}

	recovered, err := s.lookupByPhone(role, phone)
	if err != nil {
		return "", err
	}

	f.mu.Lock()
	f.recoveryVerified = true
	f.RecoveredID = recovered
	f.mu.Unlock()
	return recovered, nil
}

func (s *RegistrationService) lookupByPhone(role Role, phone string) (string, error) {
	switch role {
	case RoleCustomer:
		c, err := s.Customers.FindByPhone(phone)
		if err != nil {
			return "", err
		}
		return c.CustomerID, nil
	default:
		merchants, err := s.Merchants.List()
		if err != nil {
			return "", err
		}
		for _, m := range merchants {
			if m.Phone == phone {
				return m.MerchantID, nil
			}
		}
		return "", errNoRecordForPhone
	}
}

var errNoRecordForPhone = fmt.Errorf("no record registered under this phone number")

// Record returns the registered record a completed flow resolved to,
// whether freshly issued or matched through sign-in.
func (f *Flow) Record() (*entity.Merchant, *entity.Customer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.IssuedMerchant != nil {
		return f.IssuedMerchant, nil
	}
	if f.IssuedCustomer != nil {
		return nil, f.IssuedCustomer
	}
	if f.State == StateComplete {
		return f.MatchedMerchant, f.MatchedCustomer
	}
	return nil, nil
}
