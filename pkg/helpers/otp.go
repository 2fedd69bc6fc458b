package helpers

import (
	"crypto/rand"
	"fmt"
)

// OTP helpers

// KeyPhoneOTP is the Redis key for the OTP sent to a phone number during
// primary identity collection.
func KeyPhoneOTP(phone string) string {
	return "otp:phone:" + phone
}

// KeyAadhaarOTP is the Redis key for the Aadhaar-linked OTP in the detail
// collection and re-verification steps.
func KeyAadhaarOTP(flowID string) string {
	return "otp:aadhaar:" + flowID
}

// KeyRecoveryOTP is the Redis key for the OTP sent during credential
// recovery.
func KeyRecoveryOTP(phone string) string {
	return "otp:recovery:" + phone
}

// GenOTPCode generates a secure random 6-digit OTP code as a zero-padded string
func GenOTPCode() (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	// 6 digits: map random bytes to 000000-999999
	n := int(b[0])<<24 | int(b[1])<<16 | int(b[2])<<8 | int(b[3])
	if n < 0 {
		n = -n
	}
	code := n % 1000000
	return fmt.Sprintf("%06d", code), nil
}
