package entity

import "time"

// Customer is the identity record created when a customer finishes
// registration. CustomerID is unique and immutable once assigned; the
// biometric hashes, once set, are never reassigned to another record — a
// hash collision means the same person is registering again, not an
// overwrite.
type Customer struct {
	CustomerID          string
	Name                string
	Phone               string
	FingerprintVerified bool
	FaceVerified        bool
	FingerprintHash     string
	FaceHash            string
	CreatedAt           time.Time
}
