package sensor

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanner_SeededPhoneGetsFixedHashes(t *testing.T) {
	s := New(0, logrus.New())

	fp, err := s.ScanFingerprint(context.Background(), "9876543210")
	require.NoError(t, err)
	assert.Equal(t, "fp-8888", fp)

	face, err := s.ScanFace(context.Background(), "9876543210")
	require.NoError(t, err)
	assert.Equal(t, "face-8888", face)
}

func TestScanner_UnknownPhoneGetsFreshHashes(t *testing.T) {
	s := New(0, logrus.New())

	a, err := s.ScanFingerprint(context.Background(), "9000000001")
	require.NoError(t, err)
	b, err := s.ScanFingerprint(context.Background(), "9000000001")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Contains(t, a, "fp-")
}

func TestScanner_CancelledContextAbortsScan(t *testing.T) {
	s := New(5*time.Second, logrus.New())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.ScanFingerprint(ctx, "9000000001")
	assert.ErrorIs(t, err, context.Canceled)
}
