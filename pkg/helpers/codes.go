package helpers

import "golang.org/x/crypto/bcrypt"

// HashCode hashes a short-lived verification code using bcrypt so codes are
// never stored in the clear.
func HashCode(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CompareCode compares a bcrypt hash with a plain verification code
func CompareCode(hash string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
