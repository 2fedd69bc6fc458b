package application

import (
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bharosahq/trust-network/internal/domain/entity"
	"github.com/bharosahq/trust-network/internal/infrastructure/memory"
	"github.com/bharosahq/trust-network/internal/infrastructure/sensor"
)

func newRegistrationService(t *testing.T) (*RegistrationService, *memory.CustomerStore, *memory.MerchantStore) {
	t.Helper()
	customers := memory.NewCustomerStore()
	merchants := memory.NewMerchantStore()
	logger := logrus.New()
	scanner := sensor.New(0, logger)
	svc := NewRegistrationService(customers, merchants, scanner, nil, nil, logger, 0)
	return svc, customers, merchants
}

func completeMerchantPrimary(t *testing.T, svc *RegistrationService, f *Flow) {
	t.Helper()
	require.NoError(t, svc.SetPrimary(f.ID, "Ramesh Verma", "123456789012", "9111111111"))
	code, err := svc.RequestPhoneOTP(f.ID)
	require.NoError(t, err)
	require.NoError(t, svc.VerifyPhoneOTP(f.ID, code))
	require.NoError(t, svc.AdvanceToDetail(f.ID))
}

func completeMerchantDetail(t *testing.T, svc *RegistrationService, f *Flow) {
	t.Helper()
	require.NoError(t, svc.SetDetail(f.ID, "Ramesh Verma", "1980-01-15", "ABCDE1234F", entity.Income2To6Lakh, "Pune", "ramesh@example.com"))
	require.NoError(t, svc.CaptureFingerprint(f.ID))
	require.NoError(t, svc.CaptureFace(f.ID))
	require.NoError(t, svc.ConfirmLocation(f.ID, "Pune"))
	require.NoError(t, svc.AdvanceToReview(f.ID))
}

func TestMerchantRegistration_HappyPath(t *testing.T) {
	svc, _, merchants := newRegistrationService(t)
	f := svc.StartFlow(RoleMerchant)
	assert.Equal(t, StateCollectPrimary, f.State)

	completeMerchantPrimary(t, svc, f)
	assert.Equal(t, StateCollectDetail, f.State)

	completeMerchantDetail(t, svc, f)
	assert.Equal(t, StateReview, f.State)

	require.NoError(t, svc.ConfirmReview(f.ID))
	assert.Equal(t, StateCredentialIssuance, f.State)

	done, err := svc.IssueCredentials(f.ID)
	require.NoError(t, err)
	assert.Equal(t, StateComplete, done.State)

	m := done.IssuedMerchant
	require.NotNil(t, m)
	assert.Len(t, m.MerchantID, 12)
	assert.Len(t, m.Reference, 12)
	assert.Equal(t, entity.InitialTrustScore, m.TrustScore)
	assert.Equal(t, "ABCDE1234F", m.PANNumber)

	stored, err := merchants.FindByID(m.MerchantID)
	require.NoError(t, err)
	assert.Equal(t, m.Reference, stored.Reference)
}

func TestCustomerRegistration_SkipsReview(t *testing.T) {
	svc, customers, _ := newRegistrationService(t)
	f := svc.StartFlow(RoleCustomer)

	require.NoError(t, svc.SetPrimary(f.ID, "Asha", "", "9222222222"))
	code, err := svc.RequestPhoneOTP(f.ID)
	require.NoError(t, err)
	require.NoError(t, svc.VerifyPhoneOTP(f.ID, code))
	require.NoError(t, svc.AdvanceToDetail(f.ID))

	require.NoError(t, svc.CaptureFingerprint(f.ID))
	require.NoError(t, svc.CaptureFace(f.ID))
	require.NoError(t, svc.AdvanceToReview(f.ID))
	assert.Equal(t, StateCredentialIssuance, f.State)

	done, err := svc.IssueCredentials(f.ID)
	require.NoError(t, err)
	c := done.IssuedCustomer
	require.NotNil(t, c)
	assert.Equal(t, "BH-CUST-", c.CustomerID[:8])

	_, err = customers.FindByID(c.CustomerID)
	assert.NoError(t, err)
}

func TestGates_BlockIncompleteSteps(t *testing.T) {
	svc, _, _ := newRegistrationService(t)
	f := svc.StartFlow(RoleMerchant)

	// Nothing filled in: primary gate refuses.
	err := svc.AdvanceToDetail(f.ID)
	assert.ErrorIs(t, err, ErrStepIncomplete)

	// Fields present but phone unverified.
	require.NoError(t, svc.SetPrimary(f.ID, "Ramesh", "123456789012", "9111111111"))
	err = svc.AdvanceToDetail(f.ID)
	assert.ErrorIs(t, err, ErrStepIncomplete)

	// Short Aadhaar.
	require.NoError(t, svc.SetPrimary(f.ID, "Ramesh", "1234", "9111111111"))
	code, err := svc.RequestPhoneOTP(f.ID)
	require.NoError(t, err)
	require.NoError(t, svc.VerifyPhoneOTP(f.ID, code))
	err = svc.AdvanceToDetail(f.ID)
	assert.ErrorIs(t, err, ErrStepIncomplete)

	// Fixing the field lets the gate open: verification survives edits to
	// other fields as long as the phone itself is unchanged.
	require.NoError(t, svc.SetPrimary(f.ID, "Ramesh", "123456789012", "9111111111"))
	assert.NoError(t, svc.AdvanceToDetail(f.ID))

	// Detail gate refuses until every channel is verified.
	err = svc.AdvanceToReview(f.ID)
	assert.ErrorIs(t, err, ErrStepIncomplete)
}

func TestChangingPhoneInvalidatesVerification(t *testing.T) {
	svc, _, _ := newRegistrationService(t)
	f := svc.StartFlow(RoleMerchant)

	require.NoError(t, svc.SetPrimary(f.ID, "Ramesh", "123456789012", "9111111111"))
	code, err := svc.RequestPhoneOTP(f.ID)
	require.NoError(t, err)
	require.NoError(t, svc.VerifyPhoneOTP(f.ID, code))

	require.NoError(t, svc.SetPrimary(f.ID, "Ramesh", "123456789012", "9333333333"))
	err = svc.AdvanceToDetail(f.ID)
	assert.ErrorIs(t, err, ErrStepIncomplete)
}

func TestWrongOTP_InlineErrorAndRetry(t *testing.T) {
	svc, _, _ := newRegistrationService(t)
	f := svc.StartFlow(RoleMerchant)

	require.NoError(t, svc.SetPrimary(f.ID, "Ramesh", "123456789012", "9111111111"))
	code, err := svc.RequestPhoneOTP(f.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.VerifyPhoneOTP(f.ID, "000000"), ErrInvalidCode)
	// No lockout: the correct code still works afterwards.
	assert.NoError(t, svc.VerifyPhoneOTP(f.ID, code))
}

func TestReviewEdit_RequiresReverification(t *testing.T) {
	svc, _, _ := newRegistrationService(t)
	f := svc.StartFlow(RoleMerchant)
	completeMerchantPrimary(t, svc, f)
	completeMerchantDetail(t, svc, f)

	// Unchanged documents sail through.
	assert.False(t, f.NeedsReverification)

	// Editing the Aadhaar away from the snapshot blocks confirmation.
	require.NoError(t, svc.EditInReview(f.ID, "999912341234", "ABCDE1234F"))
	assert.True(t, f.NeedsReverification)
	assert.ErrorIs(t, svc.ConfirmReview(f.ID), ErrReverifyRequired)

	// Reverting to the snapshot clears the flag without an OTP.
	require.NoError(t, svc.EditInReview(f.ID, "123456789012", "ABCDE1234F"))
	assert.False(t, f.NeedsReverification)

	// Edit again and clear it with a fresh code instead.
	require.NoError(t, svc.EditInReview(f.ID, "999912341234", "ABCDE1234F"))
	code, err := svc.RequestReverifyOTP(f.ID)
	require.NoError(t, err)
	require.NoError(t, svc.VerifyReverifyOTP(f.ID, code))
	assert.False(t, f.NeedsReverification)

	require.NoError(t, svc.ConfirmReview(f.ID))
	_, err = svc.IssueCredentials(f.ID)
	assert.NoError(t, err)
}

func TestCredentialsIssuedExactlyOnce(t *testing.T) {
	svc, _, _ := newRegistrationService(t)
	f := svc.StartFlow(RoleMerchant)
	completeMerchantPrimary(t, svc, f)
	completeMerchantDetail(t, svc, f)
	require.NoError(t, svc.ConfirmReview(f.ID))

	first, err := svc.IssueCredentials(f.ID)
	require.NoError(t, err)
	require.NotNil(t, first.IssuedMerchant)

	_, err = svc.IssueCredentials(f.ID)
	assert.ErrorIs(t, err, ErrAlreadyIssued)
}

func TestSeededPhone_DivertsToSignIn(t *testing.T) {
	svc, customers, _ := newRegistrationService(t)

	// The pre-registered demo customer carries the seeded hashes.
	require.NoError(t, customers.Add(&entity.Customer{
		CustomerID:      "BH-CUST-PROTO1",
		Name:            "Conference Carl",
		Phone:           "9876543210",
		FingerprintHash: "fp-8888",
		FaceHash:        "face-8888",
	}))

	f := svc.StartFlow(RoleCustomer)
	require.NoError(t, svc.SetPrimary(f.ID, "Carl", "", "9876543210"))
	code, err := svc.RequestPhoneOTP(f.ID)
	require.NoError(t, err)
	require.NoError(t, svc.VerifyPhoneOTP(f.ID, code))
	require.NoError(t, svc.AdvanceToDetail(f.ID))

	// Scanning the seeded phone produces the known hashes; the matcher
	// resolves them to the existing record mid-flow.
	require.NoError(t, svc.CaptureFingerprint(f.ID))
	require.NotNil(t, f.MatchedCustomer)
	assert.Equal(t, "BH-CUST-PROTO1", f.MatchedCustomer.CustomerID)

	// A wrong claimed ID is an inline error with no lockout.
	_, err = svc.SignInWithID(f.ID, "BH-CUST-WRONG1")
	assert.ErrorIs(t, err, ErrIdentityMismatch)

	done, err := svc.SignInWithID(f.ID, "bh-cust-proto1")
	require.NoError(t, err)
	assert.Equal(t, StateComplete, done.State)

	m, c := done.Record()
	assert.Nil(t, m)
	require.NotNil(t, c)
	assert.Equal(t, "BH-CUST-PROTO1", c.CustomerID)
}

func TestMerchantPANMatch_Diverts(t *testing.T) {
	svc, _, merchants := newRegistrationService(t)
	require.NoError(t, merchants.Add(&entity.Merchant{
		MerchantID: "888211112222",
		Reference:  "VERMA8821ABC",
		OwnerName:  "Verma Ji",
		PANNumber:  "ABCDE1234F",
	}))

	f := svc.StartFlow(RoleMerchant)
	completeMerchantPrimary(t, svc, f)

	// Entering the registered PAN re-runs the matcher.
	require.NoError(t, svc.SetDetail(f.ID, "Verma Ji", "1975-05-02", "ABCDE1234F", entity.Income6To8Lakh, "Delhi", ""))
	require.NotNil(t, f.MatchedMerchant)

	// The secondary reference works as the claimed ID too.
	done, err := svc.SignInWithID(f.ID, "verma8821abc")
	require.NoError(t, err)
	assert.Equal(t, StateComplete, done.State)
}

func TestSignInWithoutMatch(t *testing.T) {
	svc, _, _ := newRegistrationService(t)
	f := svc.StartFlow(RoleCustomer)
	_, err := svc.SignInWithID(f.ID, "BH-CUST-ABC123")
	assert.ErrorIs(t, err, ErrNoIdentityMatch)
}

func TestRecovery_RevealsPrimaryID(t *testing.T) {
	svc, customers, _ := newRegistrationService(t)
	require.NoError(t, customers.Add(&entity.Customer{
		CustomerID: "BH-CUST-LOST01",
		Name:       "Forgetful",
		Phone:      "9444444444",
	}))

	f := svc.StartFlow(RoleCustomer)
	code, err := svc.StartRecovery(f.ID, "9444444444")
	require.NoError(t, err)

	got, err := svc.VerifyRecovery(f.ID, code)
	require.NoError(t, err)
	assert.Equal(t, "BH-CUST-LOST01", got)

	// Only reachable before the flow has advanced.
	f2 := svc.StartFlow(RoleCustomer)
	require.NoError(t, svc.SetPrimary(f2.ID, "A", "", "9555555555"))
	code2, err := svc.RequestPhoneOTP(f2.ID)
	require.NoError(t, err)
	require.NoError(t, svc.VerifyPhoneOTP(f2.ID, code2))
	require.NoError(t, svc.AdvanceToDetail(f2.ID))
	_, err = svc.StartRecovery(f2.ID, "9444444444")
	assert.ErrorIs(t, err, ErrWrongState)
}

func TestAbandon_RemovesFlow(t *testing.T) {
	svc, _, _ := newRegistrationService(t)
	f := svc.StartFlow(RoleMerchant)

	require.NoError(t, svc.Abandon(f.ID))
	assert.ErrorIs(t, svc.SetPrimary(f.ID, "x", "", ""), ErrFlowNotFound)
	assert.Error(t, f.ctx.Err())
}

func TestSnapshot_ConcurrentWithWrites(t *testing.T) {
	svc, _, _ := newRegistrationService(t)
	f := svc.StartFlow(RoleMerchant)

	// Snapshot reads must hold the flow lock: a poll on the flow races a
	// concurrent primary-details write otherwise.
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			assert.NoError(t, svc.SetPrimary(f.ID, "Ramesh", "123456789012", "9111111111"))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			snap := f.Snapshot()
			_ = snap.Name
			_ = snap.Aadhaar
			_ = snap.Verifications[entity.ChannelPhone]
		}
	}()
	wg.Wait()

	snap := f.Snapshot()
	assert.Equal(t, "Ramesh", snap.Name)
	assert.Equal(t, "123456789012", snap.Aadhaar)
	assert.Equal(t, "9111111111", snap.Phone)
	assert.Equal(t, StateCollectPrimary, snap.State)
	assert.False(t, snap.IdentityMatch)
}

func TestSnapshot_CarriesIssuedCredentials(t *testing.T) {
	svc, _, _ := newRegistrationService(t)
	f := svc.StartFlow(RoleMerchant)
	completeMerchantPrimary(t, svc, f)
	completeMerchantDetail(t, svc, f)
	require.NoError(t, svc.ConfirmReview(f.ID))
	_, err := svc.IssueCredentials(f.ID)
	require.NoError(t, err)

	snap := f.Snapshot()
	assert.Equal(t, StateComplete, snap.State)
	require.NotNil(t, snap.IssuedMerchant)
	assert.Len(t, snap.IssuedMerchant.MerchantID, 12)
	assert.Equal(t, entity.Verified, snap.Verifications[entity.ChannelPhone].Status())
}

func TestVerifyOTP_WithoutDispatchedCode(t *testing.T) {
	svc, _, _ := newRegistrationService(t)
	f := svc.StartFlow(RoleMerchant)
	require.NoError(t, svc.SetPrimary(f.ID, "Ramesh", "123456789012", "9111111111"))

	// No code was ever dispatched, so verification reports expiry.
	assert.ErrorIs(t, svc.VerifyPhoneOTP(f.ID, "123456"), ErrCodeExpired)
}

func TestOTPDispatchFailure_LeavesChannelUnverified(t *testing.T) {
	customers := memory.NewCustomerStore()
	merchants := memory.NewMerchantStore()
	logger := logrus.New()
	svc := NewRegistrationService(customers, merchants, sensor.New(0, logger), nil, nil, logger, 30*time.Second)

	f := svc.StartFlow(RoleMerchant)
	require.NoError(t, svc.SetPrimary(f.ID, "Ramesh", "123456789012", "9111111111"))

	errCh := make(chan error, 1)
	go func() {
		_, err := svc.RequestPhoneOTP(f.ID)
		errCh <- err
	}()

	// Let dispatch enter its delay, then abandon the flow to cancel it.
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, svc.Abandon(f.ID))

	require.Error(t, <-errCh)
	assert.Equal(t, entity.Unverified, f.Verification(entity.ChannelPhone).Status())
}

func TestVerificationEvidence(t *testing.T) {
	svc, _, _ := newRegistrationService(t)
	f := svc.StartFlow(RoleCustomer)

	v := f.Verification(entity.ChannelFingerprint)
	assert.Equal(t, entity.Unverified, v.Status())
	_, ok := v.Evidence()
	assert.False(t, ok)

	require.NoError(t, svc.SetPrimary(f.ID, "Asha", "", "9222222222"))
	require.NoError(t, svc.CaptureFingerprint(f.ID))

	v = f.Verification(entity.ChannelFingerprint)
	assert.True(t, v.IsVerified())
	evidence, ok := v.Evidence()
	assert.True(t, ok)
	assert.NotEmpty(t, evidence)
}
