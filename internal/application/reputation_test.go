package application

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bharosahq/trust-network/internal/domain/entity"
	"github.com/bharosahq/trust-network/internal/infrastructure/memory"
)

func newReputationService(t *testing.T) (*ReputationService, *memory.MerchantStore) {
	t.Helper()
	merchants := memory.NewMerchantStore()
	ratings := memory.NewRatingStore()
	require.NoError(t, merchants.Add(&entity.Merchant{
		MerchantID: "100020003000",
		Reference:  "ABCDEF123456",
		OwnerName:  "Verma Ji",
		PANName:    "Ramesh Verma",
	}))
	return NewReputationService(ratings, merchants, logrus.New()), merchants
}

func TestSubmitRating_DampedDeltas(t *testing.T) {
	cases := []struct {
		value int
		want  int
	}{
		{1, 734}, // -20 × 0.4
		{2, 738}, // -10 × 0.4
		{3, 742}, // neutral
		{4, 746}, // +10 × 0.4
		{5, 750}, // +20 × 0.4
	}
	for _, tc := range cases {
		svc, _ := newReputationService(t)
		m, err := svc.SubmitRating("BH-CUST-RATER1", "100020003000", tc.value, "", "Pune")
		require.NoError(t, err)
		assert.Equal(t, tc.want, m.TrustScore, "rating %d", tc.value)
	}
}

func TestSubmitRating_TwoRatersCompound(t *testing.T) {
	svc, _ := newReputationService(t)

	m, err := svc.SubmitRating("BH-CUST-RATER1", "100020003000", 1, "poor", "Pune")
	require.NoError(t, err)
	assert.Equal(t, 734, m.TrustScore)

	m, err = svc.SubmitRating("BH-CUST-RATER2", "100020003000", 1, "poor", "Pune")
	require.NoError(t, err)
	assert.Equal(t, 726, m.TrustScore)
}

func TestSubmitRating_EditAppliesDifferenceOnly(t *testing.T) {
	svc, _ := newReputationService(t)

	m, err := svc.SubmitRating("BH-CUST-RATER1", "100020003000", 2, "", "")
	require.NoError(t, err)
	assert.Equal(t, 738, m.TrustScore)

	// Editing to 5 applies (delta(5)−delta(2))×0.4 = +12: the end state is
	// the same as if 5 had been the first rating.
	m, err = svc.SubmitRating("BH-CUST-RATER1", "100020003000", 5, "much better", "")
	require.NoError(t, err)
	assert.Equal(t, 750, m.TrustScore)
}

func TestSubmitRating_RepeatSameValueIsNeutral(t *testing.T) {
	svc, _ := newReputationService(t)

	_, err := svc.SubmitRating("BH-CUST-RATER1", "100020003000", 5, "", "")
	require.NoError(t, err)
	m, err := svc.SubmitRating("BH-CUST-RATER1", "100020003000", 5, "", "")
	require.NoError(t, err)
	assert.Equal(t, 750, m.TrustScore)

	history, err := svc.MerchantRatings("100020003000")
	require.NoError(t, err)
	assert.Len(t, history, 1, "re-rating must not create a second record")
}

func TestSubmitRating_ClampsAtBounds(t *testing.T) {
	svc, merchants := newReputationService(t)

	require.NoError(t, merchants.UpdateTrustScore("100020003000", entity.MaxTrustScore-2))
	m, err := svc.SubmitRating("BH-CUST-RATER1", "100020003000", 5, "", "")
	require.NoError(t, err)
	assert.Equal(t, entity.MaxTrustScore, m.TrustScore)

	require.NoError(t, merchants.UpdateTrustScore("100020003000", entity.MinTrustScore+2))
	m, err = svc.SubmitRating("BH-CUST-RATER2", "100020003000", 1, "", "")
	require.NoError(t, err)
	assert.Equal(t, entity.MinTrustScore, m.TrustScore)
}

func TestSubmitRating_Validation(t *testing.T) {
	svc, _ := newReputationService(t)

	_, err := svc.SubmitRating("BH-CUST-RATER1", "100020003000", 0, "", "")
	assert.ErrorIs(t, err, ErrInvalidRating)
	_, err = svc.SubmitRating("BH-CUST-RATER1", "100020003000", 6, "", "")
	assert.ErrorIs(t, err, ErrInvalidRating)
}

func TestSubmitRating_BySecondaryReference(t *testing.T) {
	svc, _ := newReputationService(t)

	// Rating through the merchant's reference lands on the same record.
	m, err := svc.SubmitRating("BH-CUST-RATER1", "ABCDEF123456", 4, "", "")
	require.NoError(t, err)
	assert.Equal(t, "100020003000", m.MerchantID)
	assert.Equal(t, 746, m.TrustScore)
}

func TestAverageRating(t *testing.T) {
	svc, _ := newReputationService(t)

	avg, total, err := svc.AverageRating("100020003000")
	require.NoError(t, err)
	assert.Zero(t, avg)
	assert.Zero(t, total)

	_, err = svc.SubmitRating("BH-CUST-RATER1", "100020003000", 5, "", "")
	require.NoError(t, err)
	_, err = svc.SubmitRating("BH-CUST-RATER2", "100020003000", 4, "", "")
	require.NoError(t, err)

	avg, total, err = svc.AverageRating("100020003000")
	require.NoError(t, err)
	assert.InDelta(t, 4.5, avg, 0.001)
	assert.Equal(t, 2, total)
}
