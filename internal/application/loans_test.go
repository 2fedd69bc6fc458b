package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bharosahq/trust-network/internal/domain/entity"
	"github.com/bharosahq/trust-network/internal/domain/repository"
	"github.com/bharosahq/trust-network/internal/infrastructure/memory"
)

func newLoanService(t *testing.T, score int) *LoanService {
	t.Helper()
	merchants := memory.NewMerchantStore()
	require.NoError(t, merchants.Add(&entity.Merchant{MerchantID: "100020003000", TrustScore: score}))
	return NewLoanService(merchants)
}

func quoteByBank(t *testing.T, quotes []entity.LoanQuote, bankID string) entity.LoanQuote {
	t.Helper()
	for _, q := range quotes {
		if q.ID == bankID {
			return q
		}
	}
	t.Fatalf("no quote for bank %s", bankID)
	return entity.LoanQuote{}
}

func TestQuotes_EligibilityAtDefaultScore(t *testing.T) {
	svc := newLoanService(t, 742)
	quotes, err := svc.Quotes("100020003000")
	require.NoError(t, err)
	require.Len(t, quotes, 4)

	assert.True(t, quoteByBank(t, quotes, "stb").Eligible)  // floor 700
	assert.True(t, quoteByBank(t, quotes, "nmc").Eligible)  // floor 500
	assert.True(t, quoteByBank(t, quotes, "fcf").Eligible)  // floor 300
	assert.False(t, quoteByBank(t, quotes, "svc").Eligible) // floor 800
}

func TestQuotes_AdjustedInterest(t *testing.T) {
	// score 742: discount = ((742−300)/600)×2 ≈ 1.473
	svc := newLoanService(t, 742)
	quotes, err := svc.Quotes("100020003000")
	require.NoError(t, err)

	assert.Equal(t, "5.5", quoteByBank(t, quotes, "stb").AdjustedInterest)  // 6.97 − 1.473
	assert.Equal(t, "6.0", quoteByBank(t, quotes, "nmc").AdjustedInterest)  // 7.47 − 1.473
	assert.Equal(t, "7.0", quoteByBank(t, quotes, "fcf").AdjustedInterest)  // 8.47 − 1.473
	assert.Equal(t, "10.5", quoteByBank(t, quotes, "svc").AdjustedInterest) // ineligible: 5.47 + 5
}

func TestQuotes_BoundsOfScoreRange(t *testing.T) {
	svc := newLoanService(t, entity.MaxTrustScore)
	quotes, err := svc.Quotes("100020003000")
	require.NoError(t, err)
	// Full discount of 2 points at the score ceiling.
	assert.Equal(t, "3.5", quoteByBank(t, quotes, "svc").AdjustedInterest) // 5.47 − 2, rounded

	svc = newLoanService(t, entity.MinTrustScore)
	quotes, err = svc.Quotes("100020003000")
	require.NoError(t, err)
	// No discount at the floor; fcf is the only eligible offer.
	fcf := quoteByBank(t, quotes, "fcf")
	assert.True(t, fcf.Eligible)
	assert.Equal(t, "8.5", fcf.AdjustedInterest) // 8.47 − 0, rounded
}

func TestApply(t *testing.T) {
	svc := newLoanService(t, 742)

	app, err := svc.Apply("100020003000", "stb")
	require.NoError(t, err)
	assert.Equal(t, "PENDING", app.Status)
	assert.Equal(t, "Standard Trust Bank", app.BankName)

	_, err = svc.Apply("100020003000", "nope")
	assert.ErrorIs(t, err, ErrUnknownBank)

	_, err = svc.Apply("000000000000", "stb")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	apps := svc.Applications("100020003000")
	assert.Len(t, apps, 1)
}
