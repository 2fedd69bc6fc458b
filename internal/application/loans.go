package application

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bharosahq/trust-network/internal/domain/entity"
	repo "github.com/bharosahq/trust-network/internal/domain/repository"
)

var ErrUnknownBank = errors.New("unknown bank offer")

// bankOffers is the fixed prototype offer table. There is no backing
// lender integration; the quotes are illustrative.
var bankOffers = []entity.BankOffer{
	{ID: "stb", BankName: "Standard Trust Bank", MaxAmount: 500000, BaseInterest: "6.97", MinScore: 700},
	{ID: "nmc", BankName: "National Merchant Corp", MaxAmount: 200000, BaseInterest: "7.47", MinScore: 500},
	{ID: "fcf", BankName: "FastCredit Finance", MaxAmount: 50000, BaseInterest: "8.47", MinScore: 300},
	{ID: "svc", BankName: "Sovereign Capital", MaxAmount: 1000000, BaseInterest: "5.47", MinScore: 800},
}

// LoanService quotes the fixed bank offers against a merchant's trust
// score and records mock applications.
type LoanService struct {
	Merchants repo.MerchantRepository

	mu           sync.Mutex
	applications []*entity.LoanApplication
}

func NewLoanService(merchants repo.MerchantRepository) *LoanService {
	return &LoanService{Merchants: merchants}
}

// Quotes returns every bank offer priced for the merchant. An eligible
// merchant (score ≥ the offer's floor) earns a discount that scales
// linearly across the score range; an ineligible one sees a 5-point
// penalty rate.
func (s *LoanService) Quotes(merchantID string) ([]entity.LoanQuote, error) {
	m, err := s.Merchants.FindByID(merchantID)
	if err != nil {
		return nil, err
	}

	quotes := make([]entity.LoanQuote, 0, len(bankOffers))
	for _, offer := range bankOffers {
		quotes = append(quotes, quoteFor(offer, m.TrustScore))
	}
	return quotes, nil
}

func quoteFor(offer entity.BankOffer, score int) entity.LoanQuote {
	base, _ := decimal.NewFromString(offer.BaseInterest)
	eligible := score >= offer.MinScore

	var adjusted decimal.Decimal
	if eligible {
		// base − ((score−300)/600)×2
		position := decimal.NewFromInt(int64(score - entity.MinTrustScore)).
			Div(decimal.NewFromInt(int64(entity.MaxTrustScore - entity.MinTrustScore)))
		adjusted = base.Sub(position.Mul(decimal.NewFromInt(2)))
	} else {
		adjusted = base.Add(decimal.NewFromInt(5))
	}

	return entity.LoanQuote{
		BankOffer:        offer,
		Eligible:         eligible,
		AdjustedInterest: adjusted.Round(1).StringFixed(1),
	}
}

// Apply records a mock application against one of the fixed offers.
func (s *LoanService) Apply(merchantID, bankID string) (*entity.LoanApplication, error) {
	m, err := s.Merchants.FindByID(merchantID)
	if err != nil {
		return nil, err
	}

	var offer *entity.BankOffer
	for i := range bankOffers {
		if bankOffers[i].ID == bankID {
			offer = &bankOffers[i]
			break
		}
	}
	if offer == nil {
		return nil, ErrUnknownBank
	}

	app := &entity.LoanApplication{
		ID:         uuid.NewString(),
		MerchantID: m.MerchantID,
		BankID:     offer.ID,
		BankName:   offer.BankName,
		Status:     "PENDING",
		AppliedAt:  time.Now().UTC(),
	}

	s.mu.Lock()
	s.applications = append(s.applications, app)
	s.mu.Unlock()
	return app, nil
}

// Applications lists a merchant's recorded applications.
func (s *LoanService) Applications(merchantID string) []*entity.LoanApplication {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entity.LoanApplication, 0)
	for _, a := range s.applications {
		if a.MerchantID == merchantID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out
}
