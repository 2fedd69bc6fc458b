package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenMerchantID(t *testing.T) {
	id, err := GenMerchantID()
	require.NoError(t, err)
	assert.Len(t, id, 12)
	for _, r := range id {
		assert.True(t, r >= '0' && r <= '9', "merchant id must be numeric, got %q", id)
	}
}

func TestGenMerchantReference(t *testing.T) {
	ref, err := GenMerchantReference()
	require.NoError(t, err)
	assert.Len(t, ref, 12)
	for _, r := range ref {
		ok := (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		assert.True(t, ok, "reference must be uppercase alphanumeric, got %q", ref)
	}
}

func TestGenCustomerID(t *testing.T) {
	id, err := GenCustomerID()
	require.NoError(t, err)
	assert.Len(t, id, len("BH-CUST-")+6)
	assert.Equal(t, "BH-CUST-", id[:8])
}

func TestGenOTPCode(t *testing.T) {
	code, err := GenOTPCode()
	require.NoError(t, err)
	assert.Len(t, code, 6)
}

func TestHashAndCompareCode(t *testing.T) {
	hash, err := HashCode("482913")
	require.NoError(t, err)
	assert.True(t, CompareCode(hash, "482913"))
	assert.False(t, CompareCode(hash, "000000"))
}
