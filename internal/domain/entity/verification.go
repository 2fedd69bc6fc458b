package entity

// VerificationChannel names one independent verification signal collected
// during registration.
type VerificationChannel string

const (
	ChannelPhone       VerificationChannel = "phone"
	ChannelAadhaar     VerificationChannel = "aadhaar"
	ChannelFingerprint VerificationChannel = "fingerprint"
	ChannelFace        VerificationChannel = "face"
	ChannelLocation    VerificationChannel = "location"
	ChannelReverify    VerificationChannel = "reverify"
)

// VerificationStatus is the tagged state of a channel. A channel is either
// untouched, mid-dispatch, or verified with the evidence that proved it
// (an OTP code, a biometric hash). Evidence only exists on Verified values,
// so a "verified with no evidence" combination is unrepresentable.
type VerificationStatus int

const (
	Unverified VerificationStatus = iota
	Pending
	Verified
)

func (s VerificationStatus) String() string {
	switch s {
	case Pending:
		return "PENDING"
	case Verified:
		return "VERIFIED"
	default:
		return "UNVERIFIED"
	}
}

// Verification holds the state of one channel.
type Verification struct {
	status   VerificationStatus
	evidence string
}

// PendingVerification marks a channel as dispatch-in-progress.
func PendingVerification() Verification {
	return Verification{status: Pending}
}

// VerifiedWith marks a channel verified, recording the evidence that
// proved it.
func VerifiedWith(evidence string) Verification {
	return Verification{status: Verified, evidence: evidence}
}

func (v Verification) Status() VerificationStatus { return v.status }
func (v Verification) IsVerified() bool           { return v.status == Verified }

// Evidence returns the proof attached to a Verified channel and reports
// whether it exists.
func (v Verification) Evidence() (string, bool) {
	if v.status != Verified {
		return "", false
	}
	return v.evidence, true
}
