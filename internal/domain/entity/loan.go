package entity

import "time"

// BankOffer is one row of the fixed loan-offer table shown to merchants.
type BankOffer struct {
	ID           string
	BankName     string
	MaxAmount    int64
	BaseInterest string // percent, e.g. "6.97"
	MinScore     int
}

// LoanQuote is an offer evaluated against a merchant's trust score.
type LoanQuote struct {
	BankOffer
	Eligible         bool
	AdjustedInterest string // percent, one decimal place
}

// LoanApplication records a merchant applying for an offer. Applications
// stay PENDING in this prototype; there is no underwriting.
type LoanApplication struct {
	ID         string
	MerchantID string
	BankID     string
	BankName   string
	Status     string // PENDING
	AppliedAt  time.Time
}
