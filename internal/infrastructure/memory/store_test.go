package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bharosahq/trust-network/internal/domain/entity"
	"github.com/bharosahq/trust-network/internal/domain/repository"
)

func TestCustomerStore_FindByIdentity(t *testing.T) {
	s := NewCustomerStore()
	require.NoError(t, s.Add(&entity.Customer{
		CustomerID:      "BH-CUST-AAA111",
		Name:            "First Registered",
		Phone:           "9000000001",
		FingerprintHash: "fp-one",
		FaceHash:        "face-one",
	}))
	require.NoError(t, s.Add(&entity.Customer{
		CustomerID:      "BH-CUST-BBB222",
		Name:            "Second Registered",
		Phone:           "9000000002",
		FingerprintHash: "fp-two",
		FaceHash:        "face-two",
	}))

	t.Run("single key match", func(t *testing.T) {
		c, err := s.FindByIdentity("", "face-two")
		require.NoError(t, err)
		require.NotNil(t, c)
		assert.Equal(t, "BH-CUST-BBB222", c.CustomerID)
	})

	t.Run("all keys empty is not a match", func(t *testing.T) {
		c, err := s.FindByIdentity("", "")
		require.NoError(t, err)
		assert.Nil(t, c)
	})

	t.Run("unknown evidence is not an error", func(t *testing.T) {
		c, err := s.FindByIdentity("fp-nobody", "face-nobody")
		require.NoError(t, err)
		assert.Nil(t, c)
	})

	t.Run("first match in insertion order wins", func(t *testing.T) {
		// Fingerprint points at the second record, face at the first; the
		// earlier record is scanned first and wins.
		c, err := s.FindByIdentity("fp-two", "face-one")
		require.NoError(t, err)
		require.NotNil(t, c)
		assert.Equal(t, "BH-CUST-AAA111", c.CustomerID)
	})
}

func TestCustomerStore_Lookups(t *testing.T) {
	s := NewCustomerStore()
	require.NoError(t, s.Add(&entity.Customer{
		CustomerID: "BH-CUST-XYZ789",
		Name:       "Lookup Target",
		Phone:      "9111111111",
	}))

	c, err := s.FindByID("bh-cust-xyz789")
	require.NoError(t, err)
	assert.Equal(t, "Lookup Target", c.Name)

	_, err = s.FindByID("BH-CUST-MISSING")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	c, err = s.FindByPhone("9111111111")
	require.NoError(t, err)
	assert.Equal(t, "BH-CUST-XYZ789", c.CustomerID)

	_, err = s.FindByPhone("9222222222")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestMerchantStore_FindByIdentityAndID(t *testing.T) {
	s := NewMerchantStore()
	require.NoError(t, s.Add(&entity.Merchant{
		MerchantID:      "111122223333",
		Reference:       "REFAAA111BBB",
		OwnerName:       "Older Merchant",
		PANNumber:       "AAAAA1111A",
		FingerprintHash: "fp-old",
		FaceHash:        "face-old",
	}))
	require.NoError(t, s.Add(&entity.Merchant{
		MerchantID:      "444455556666",
		Reference:       "REFCCC222DDD",
		OwnerName:       "Newer Merchant",
		PANNumber:       "BBBBB2222B",
		FingerprintHash: "fp-new",
		FaceHash:        "face-new",
	}))

	t.Run("pan alone matches", func(t *testing.T) {
		m, err := s.FindByIdentity("BBBBB2222B", "", "")
		require.NoError(t, err)
		require.NotNil(t, m)
		assert.Equal(t, "444455556666", m.MerchantID)
	})

	t.Run("conflicting evidence resolves to earliest record", func(t *testing.T) {
		m, err := s.FindByIdentity("BBBBB2222B", "fp-old", "")
		require.NoError(t, err)
		require.NotNil(t, m)
		assert.Equal(t, "111122223333", m.MerchantID)
	})

	t.Run("no evidence no match", func(t *testing.T) {
		m, err := s.FindByIdentity("", "", "")
		require.NoError(t, err)
		assert.Nil(t, m)
	})

	t.Run("primary and secondary ids both resolve", func(t *testing.T) {
		byPrimary, err := s.FindByID("111122223333")
		require.NoError(t, err)
		bySecondary, err := s.FindByID("refaaa111bbb")
		require.NoError(t, err)
		assert.Equal(t, byPrimary.MerchantID, bySecondary.MerchantID)
	})
}

func TestMerchantStore_TrustScore(t *testing.T) {
	s := NewMerchantStore()
	require.NoError(t, s.Add(&entity.Merchant{MerchantID: "999988887777"}))

	m, err := s.FindByID("999988887777")
	require.NoError(t, err)
	assert.Equal(t, entity.InitialTrustScore, m.TrustScore)

	require.NoError(t, s.UpdateTrustScore("999988887777", 1000))
	m, err = s.FindByID("999988887777")
	require.NoError(t, err)
	assert.Equal(t, entity.MaxTrustScore, m.TrustScore)

	require.NoError(t, s.UpdateTrustScore("999988887777", 100))
	m, err = s.FindByID("999988887777")
	require.NoError(t, err)
	assert.Equal(t, entity.MinTrustScore, m.TrustScore)

	assert.ErrorIs(t, s.UpdateTrustScore("000000000000", 700), repository.ErrNotFound)
}

func TestMerchantStore_Search(t *testing.T) {
	s := NewMerchantStore()
	require.NoError(t, s.Add(&entity.Merchant{
		MerchantID: "123456789012",
		Reference:  "VERMA8821XYZ",
		OwnerName:  "Verma Ji",
		PANName:    "Ramesh Verma",
	}))

	hits, err := s.Search("verma")
	require.NoError(t, err)
	assert.Len(t, hits, 1)

	hits, err = s.Search("123456789012")
	require.NoError(t, err)
	assert.Len(t, hits, 1)

	hits, err = s.Search("   ")
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestRatingStore_UpsertKeepsOriginalID(t *testing.T) {
	s := NewRatingStore()
	require.NoError(t, s.Upsert(&entity.Rating{
		ID: "rat-1", RaterID: "BH-CUST-AAA111", MerchantID: "123456789012", Value: 4,
	}))
	require.NoError(t, s.Upsert(&entity.Rating{
		ID: "rat-2", RaterID: "BH-CUST-AAA111", MerchantID: "123456789012", Value: 2, Comment: "revised",
	}))

	r, err := s.FindByRaterAndMerchant("BH-CUST-AAA111", "123456789012")
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, "rat-1", r.ID)
	assert.Equal(t, 2, r.Value)
	assert.Equal(t, "revised", r.Comment)

	list, err := s.ListByMerchant("123456789012")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestStoresReturnCopies(t *testing.T) {
	s := NewMerchantStore()
	require.NoError(t, s.Add(&entity.Merchant{MerchantID: "555566667777", OwnerName: "Immutable"}))

	m, err := s.FindByID("555566667777")
	require.NoError(t, err)
	m.OwnerName = "Tampered"

	again, err := s.FindByID("555566667777")
	require.NoError(t, err)
	assert.Equal(t, "Immutable", again.OwnerName)
}
