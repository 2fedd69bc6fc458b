package helpers

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const upperAlnum = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenMerchantID generates the primary merchant credential: a 12-digit
// numeric string. Leading zeros are allowed.
func GenMerchantID() (string, error) {
	return randomDigits(12)
}

// GenMerchantReference generates the secondary merchant credential: a
// 12-character uppercase alphanumeric reference.
func GenMerchantReference() (string, error) {
	return randomUpperAlnum(12)
}

// GenCustomerID generates a customer credential of the form
// BH-CUST-XXXXXX where X is uppercase alphanumeric.
func GenCustomerID() (string, error) {
	suffix, err := randomUpperAlnum(6)
	if err != nil {
		return "", err
	}
	return "BH-CUST-" + suffix, nil
}

func randomDigits(n int) (string, error) {
	out := make([]byte, n)
	for i := range out {
		d, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("generate digit: %w", err)
		}
		out[i] = byte('0' + d.Int64())
	}
	return string(out), nil
}

func randomUpperAlnum(n int) (string, error) {
	out := make([]byte, n)
	max := big.NewInt(int64(len(upperAlnum)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate char: %w", err)
		}
		out[i] = upperAlnum[idx.Int64()]
	}
	return string(out), nil
}
