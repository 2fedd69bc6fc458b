package entity

import "time"

// Income brackets a shopkeeper can declare during registration.
const (
	IncomeUpTo2Lakh  = "0-2"
	Income2To6Lakh   = "2-6"
	Income6To8Lakh   = "6-8"
	IncomeAbove8Lakh = "8+"
)

// Trust score bounds. A merchant's score never leaves this range.
const (
	MinTrustScore     = 300
	MaxTrustScore     = 900
	InitialTrustScore = 742
)

// Merchant is the identity record for a registered shopkeeper.
// MerchantID (numeric) and Reference (alphanumeric) are generated exactly
// once at credential issuance and never regenerated. PANNumber acts as an
// additional identity-match key alongside the biometric hashes.
type Merchant struct {
	MerchantID          string // 12-digit numeric, primary identifier
	Reference           string // 12-char uppercase alphanumeric, secondary identifier
	OwnerName           string
	Aadhaar             string // masked in review responses
	Phone               string
	PANName             string // legal name as printed on the PAN card
	DOB                 string
	PANNumber           string
	Income              string
	Location            string
	Email               string // optional, used for credential notifications
	FingerprintVerified bool
	FaceVerified        bool
	FingerprintHash     string
	FaceHash            string
	TrustScore          int
	AvgRating           float64
	TotalRatings        int
	MediaURLs           []string
	CreatedAt           time.Time
}

// MaskedAadhaar renders the Aadhaar the way the review screen shows it:
// only the last four digits visible.
func (m *Merchant) MaskedAadhaar() string {
	if len(m.Aadhaar) < 4 {
		return "XXXX"
	}
	return "XXXX XXXX " + m.Aadhaar[len(m.Aadhaar)-4:]
}

// ClampTrustScore bounds a candidate score to [MinTrustScore, MaxTrustScore].
func ClampTrustScore(score int) int {
	if score < MinTrustScore {
		return MinTrustScore
	}
	if score > MaxTrustScore {
		return MaxTrustScore
	}
	return score
}
