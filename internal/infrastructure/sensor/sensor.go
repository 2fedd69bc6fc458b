package sensor

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/sirupsen/logrus"
)

// Scanner simulates the device biometric hardware. A scan takes Delay to
// complete and honors context cancellation, mirroring how the real capture
// flow can be abandoned mid-scan.
//
// Known phone numbers map to fixed hashes so demo identities resolve to
// their seeded records; everyone else gets a fresh random hash per scan.
type Scanner struct {
	Delay  time.Duration
	Logger *logrus.Logger

	seeded map[string]seededHashes
}

type seededHashes struct {
	fingerprint string
	face        string
}

func New(delay time.Duration, logger *logrus.Logger) *Scanner {
	return &Scanner{
		Delay:  delay,
		Logger: logger,
		seeded: map[string]seededHashes{
			// Demo identity: resolves to the pre-registered customer.
			"9876543210": {fingerprint: "fp-8888", face: "face-8888"},
		},
	}
}

// ScanFingerprint captures a fingerprint hash for the holder of phone.
func (s *Scanner) ScanFingerprint(ctx context.Context, phone string) (string, error) {
	if err := s.wait(ctx); err != nil {
		return "", err
	}
	if h, ok := s.seeded[phone]; ok {
		return h.fingerprint, nil
	}
	return randomHash("fp-")
}

// ScanFace captures a face hash. When the camera cannot be opened the scan
// degrades: the failure is logged and an empty hash is returned so the flow
// can continue on fingerprint evidence alone.
func (s *Scanner) ScanFace(ctx context.Context, phone string) (string, error) {
	if err := s.wait(ctx); err != nil {
		return "", err
	}
	if h, ok := s.seeded[phone]; ok {
		return h.face, nil
	}
	hash, err := randomHash("face-")
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithField("error", err.Error()).Warn("camera capture failed, continuing without face evidence")
		}
		return "", nil
	}
	return hash, nil
}

func (s *Scanner) wait(ctx context.Context) error {
	if s.Delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.Delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func randomHash(prefix string) (string, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return prefix + hex.EncodeToString(b), nil
}
