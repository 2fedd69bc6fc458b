package entity

import "time"

// Rating is one rater's audit of one merchant. A (rater, merchant) pair has
// at most one rating; later audits update the record in place instead of
// creating a duplicate.
type Rating struct {
	ID           string
	RaterID      string
	MerchantID   string
	MerchantName string
	Value        int // 1..5
	Comment      string
	Date         time.Time
	Location     string
}
