package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/bharosahq/trust-network/internal/domain/entity"
	repo "github.com/bharosahq/trust-network/internal/domain/repository"
	"github.com/bharosahq/trust-network/pkg/helpers"
	"github.com/bharosahq/trust-network/pkg/mailer"
)

var (
	ErrFlowNotFound       = errors.New("registration flow not found")
	ErrStepIncomplete     = errors.New("step incomplete")
	ErrWrongState         = errors.New("operation not valid in current state")
	ErrInvalidCode        = errors.New("incorrect verification code")
	ErrCodeExpired        = errors.New("verification code expired")
	ErrReverifyRequired   = errors.New("identity documents changed, re-verification required")
	ErrAlreadyIssued      = errors.New("credentials already issued for this flow")
	ErrIdentityMismatch   = errors.New("the provided ID does not match our records")
	ErrNoIdentityMatch    = errors.New("no matching identity for this flow")
	ErrRecoveryUnverified = errors.New("recovery code not verified")
)

// Role of the party registering.
type Role string

const (
	RoleMerchant Role = "merchant"
	RoleCustomer Role = "customer"
)

// State of a registration flow. Transitions are strictly forward; the only
// way back is abandoning the flow.
type State string

const (
	StateCollectPrimary     State = "COLLECT_PRIMARY"
	StateCollectDetail      State = "COLLECT_DETAIL"
	StateReview             State = "REVIEW"
	StateCredentialIssuance State = "CREDENTIAL_ISSUANCE"
	StateComplete           State = "COMPLETE"
)

const otpTTL = 5 * time.Minute

// Flow is one in-progress registration. All mutation goes through
// RegistrationService, which holds the flow's lock.
type Flow struct {
	ID    string
	Role  Role
	State State

	// Draft identity fields, mutable until credential issuance.
	Name     string
	Aadhaar  string
	Phone    string
	PANName  string
	DOB      string
	PAN      string
	Income   string
	Location string
	Email    string

	FingerprintHash string
	FaceHash        string

	verifications map[entity.VerificationChannel]entity.Verification
	otpHashes     map[string]string

	// Review snapshot: the Aadhaar/PAN values frozen on entering REVIEW.
	// Editing away from them demands a fresh OTP before issuance.
	snapshotAadhaar     string
	snapshotPAN         string
	snapshotTaken       bool
	NeedsReverification bool

	// Set when the matcher resolves this flow's evidence to an existing
	// record; the client may then sign in instead of registering.
	MatchedMerchant *entity.Merchant
	MatchedCustomer *entity.Customer

	// Set exactly once by credential issuance.
	IssuedMerchant *entity.Merchant
	IssuedCustomer *entity.Customer

	// RecoveredID holds the primary identifier revealed by the recovery
	// sub-flow.
	RecoveredID       string
	recoveryVerified  bool
	recoveryPhone     string
	CreatedAt         time.Time

	// Flow-scoped context: cancelling it aborts any in-flight simulated
	// scan or dispatch delay owned by this flow.
	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.Mutex
}

// Scanner captures biometric evidence. Implemented by the simulated sensor.
type Scanner interface {
	ScanFingerprint(ctx context.Context, phone string) (string, error)
	ScanFace(ctx context.Context, phone string) (string, error)
}

// Publisher queues notification jobs. Implemented by the RabbitMQ helper.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// RegistrationService drives registration flows through the state machine.
type RegistrationService struct {
	Customers repo.CustomerRepository
	Merchants repo.MerchantRepository
	Scanner   Scanner
	Redis     *redis.Client
	Publisher Publisher
	Logger    *logrus.Logger

	// OTPDelay simulates network dispatch before a code is produced.
	OTPDelay time.Duration

	mu    sync.RWMutex
	flows map[string]*Flow
}

func NewRegistrationService(customers repo.CustomerRepository, merchants repo.MerchantRepository,
	scanner Scanner, rdb *redis.Client, pub Publisher, logger *logrus.Logger, otpDelay time.Duration) *RegistrationService {
	return &RegistrationService{
		Customers: customers,
		Merchants: merchants,
		Scanner:   scanner,
		Redis:     rdb,
		Publisher: pub,
		Logger:    logger,
		OTPDelay:  otpDelay,
		flows:     make(map[string]*Flow),
	}
}

// StartFlow opens a new registration flow for the given role.
func (s *RegistrationService) StartFlow(role Role) *Flow {
	ctx, cancel := context.WithCancel(context.Background())
	f := &Flow{
		ID:            uuid.NewString(),
		Role:          role,
		State:         StateCollectPrimary,
		verifications: make(map[entity.VerificationChannel]entity.Verification),
		otpHashes:     make(map[string]string),
		CreatedAt:     time.Now().UTC(),
		ctx:           ctx,
		cancel:        cancel,
	}
	s.mu.Lock()
	s.flows[f.ID] = f
	s.mu.Unlock()
	return f
}

func (s *RegistrationService) flow(id string) (*Flow, error) {
	s.mu.RLock()
	f, ok := s.flows[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrFlowNotFound
	}
	return f, nil
}

// Get returns the flow for inspection by handlers.
func (s *RegistrationService) Get(id string) (*Flow, error) {
	return s.flow(id)
}

// Abandon cancels the flow's context and drops it from the registry. Any
// in-flight scan or dispatch delay unblocks immediately.
func (s *RegistrationService) Abandon(id string) error {
	s.mu.Lock()
	f, ok := s.flows[id]
	if ok {
		delete(s.flows, id)
	}
	s.mu.Unlock()
	if !ok {
		return ErrFlowNotFound
	}
	f.cancel()
	return nil
}

// SetPrimary records the primary-collection fields. Values may be revised
// freely while the flow remains in COLLECT_PRIMARY.
func (s *RegistrationService) SetPrimary(id, name, aadhaar, phone string) error {
	f, err := s.flow(id)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.State != StateCollectPrimary {
		return ErrWrongState
	}
	if phone != f.Phone {
		// A changed phone number invalidates any earlier OTP verification.
		delete(f.verifications, entity.ChannelPhone)
	}
	f.Name = strings.TrimSpace(name)
	f.Aadhaar = strings.TrimSpace(aadhaar)
	f.Phone = strings.TrimSpace(phone)
	return nil
}

// RequestPhoneOTP simulates dispatching a one-time code to the flow's phone
// number. The code is returned to the caller for display; this is a
// prototype artifact, a real deployment would deliver it out of band.
func (s *RegistrationService) RequestPhoneOTP(id string) (string, error) {
	f, err := s.flow(id)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	if f.Phone == "" {
		f.mu.Unlock()
		return "", fmt.Errorf("%w: phone number required first", ErrStepIncomplete)
	}
	f.verifications[entity.ChannelPhone] = entity.PendingVerification()
	phone := f.Phone
	f.mu.Unlock()

	code, err := s.dispatchCode(f, string(entity.ChannelPhone), helpers.KeyPhoneOTP(phone))
	if err != nil {
		f.mu.Lock()
		delete(f.verifications, entity.ChannelPhone)
		f.mu.Unlock()
		return "", err
	}
	return code, nil
}

// VerifyPhoneOTP checks the submitted code and, on success, marks the phone
// channel verified with the phone number as evidence.
func (s *RegistrationService) VerifyPhoneOTP(id, code string) error {
	f, err := s.flow(id)
	if err != nil {
		return err
	}
	f.mu.Lock()
	phone := f.Phone
	f.mu.Unlock()

	if err := s.checkCode(f, string(entity.ChannelPhone), helpers.KeyPhoneOTP(phone), code); err != nil {
		return err
	}

	f.mu.Lock()
	f.verifications[entity.ChannelPhone] = entity.VerifiedWith(phone)
	f.mu.Unlock()
	return nil
}

// CaptureFingerprint runs a fingerprint scan, stores the hash, marks the
// channel verified, and re-runs the identity matcher.
func (s *RegistrationService) CaptureFingerprint(id string) error {
	f, err := s.flow(id)
	if err != nil {
		return err
	}
	f.mu.Lock()
	f.verifications[entity.ChannelFingerprint] = entity.PendingVerification()
	phone := f.Phone
	f.mu.Unlock()

	hash, err := s.Scanner.ScanFingerprint(f.ctx, phone)
	if err != nil {
		f.mu.Lock()
		delete(f.verifications, entity.ChannelFingerprint)
		f.mu.Unlock()
		return err
	}

	f.mu.Lock()
	f.FingerprintHash = hash
	f.verifications[entity.ChannelFingerprint] = entity.VerifiedWith(hash)
	f.mu.Unlock()

	return s.recheckIdentity(f)
}

// CaptureFace runs a face scan. An empty hash means the camera degraded;
// the channel is still marked verified so the flow can continue, matching
// the no-hard-failure rule for capability loss.
func (s *RegistrationService) CaptureFace(id string) error {
	f, err := s.flow(id)
	if err != nil {
		return err
	}
	f.mu.Lock()
	f.verifications[entity.ChannelFace] = entity.PendingVerification()
	phone := f.Phone
	f.mu.Unlock()

	hash, err := s.Scanner.ScanFace(f.ctx, phone)
	if err != nil {
		f.mu.Lock()
		delete(f.verifications, entity.ChannelFace)
		f.mu.Unlock()
		return err
	}

	f.mu.Lock()
	f.FaceHash = hash
	f.verifications[entity.ChannelFace] = entity.VerifiedWith(hash)
	f.mu.Unlock()

	return s.recheckIdentity(f)
}

// AdvanceToDetail gates COLLECT_PRIMARY → COLLECT_DETAIL.
func (s *RegistrationService) AdvanceToDetail(id string) error {
	f, err := s.flow(id)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.State != StateCollectPrimary {
		return ErrWrongState
	}

	var missing []string
	if strings.TrimSpace(f.Name) == "" {
		missing = append(missing, "name")
	}
	if f.Role == RoleMerchant && len(f.Aadhaar) != 12 {
		missing = append(missing, "aadhaar must be 12 digits")
	}
	if len(f.Phone) != 10 {
		missing = append(missing, "phone must be 10 digits")
	}
	if !f.verifications[entity.ChannelPhone].IsVerified() {
		missing = append(missing, "phone verification")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrStepIncomplete, strings.Join(missing, ", "))
	}

	f.State = StateCollectDetail
	return nil
}

// SetDetail records merchant detail fields. Setting a PAN re-runs the
// matcher, since PAN is an identity key.
func (s *RegistrationService) SetDetail(id, panName, dob, pan, income, location, email string) error {
	f, err := s.flow(id)
	if err != nil {
		return err
	}
	f.mu.Lock()
	if f.State != StateCollectDetail && f.State != StateReview {
		f.mu.Unlock()
		return ErrWrongState
	}
	if f.Role != RoleMerchant {
		f.mu.Unlock()
		return fmt.Errorf("%w: detail collection is merchant-only", ErrWrongState)
	}

	f.PANName = strings.TrimSpace(panName)
	f.DOB = strings.TrimSpace(dob)
	f.PAN = strings.ToUpper(strings.TrimSpace(pan))
	f.Income = income
	f.Location = strings.TrimSpace(location)
	f.Email = strings.TrimSpace(email)

	// Edits in REVIEW away from the snapshot demand re-verification.
	if f.State == StateReview && f.snapshotTaken {
		f.NeedsReverification = f.Aadhaar != f.snapshotAadhaar || f.PAN != f.snapshotPAN
	}
	panSet := f.PAN != ""
	f.mu.Unlock()

	if panSet {
		return s.recheckIdentity(f)
	}
	return nil
}

// ConfirmLocation marks the location channel verified with the confirmed
// location string as evidence.
func (s *RegistrationService) ConfirmLocation(id, location string) error {
	f, err := s.flow(id)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Location = strings.TrimSpace(location)
	if f.Location == "" {
		return fmt.Errorf("%w: location required", ErrStepIncomplete)
	}
	f.verifications[entity.ChannelLocation] = entity.VerifiedWith(f.Location)
	return nil
}

// AdvanceToReview gates COLLECT_DETAIL → REVIEW for merchants, snapshotting
// the identity documents. Customers skip review: the same call takes a
// complete customer flow straight to CREDENTIAL_ISSUANCE.
func (s *RegistrationService) AdvanceToReview(id string) error {
	f, err := s.flow(id)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.State != StateCollectDetail {
		return ErrWrongState
	}

	if f.Role == RoleCustomer {
		var missing []string
		if !f.verifications[entity.ChannelFingerprint].IsVerified() {
			missing = append(missing, "fingerprint")
		}
		if !f.verifications[entity.ChannelFace].IsVerified() {
			missing = append(missing, "face")
		}
		if len(missing) > 0 {
			return fmt.Errorf("%w: %s", ErrStepIncomplete, strings.Join(missing, ", "))
		}
		f.State = StateCredentialIssuance
		return nil
	}

	var missing []string
	if f.PANName == "" {
		missing = append(missing, "pan name")
	}
	if f.DOB == "" {
		missing = append(missing, "date of birth")
	}
	if len(f.PAN) < 5 {
		missing = append(missing, "pan must be at least 5 characters")
	}
	if f.PAN != strings.ToUpper(f.PAN) {
		missing = append(missing, "pan must be uppercase")
	}
	if !f.verifications[entity.ChannelFingerprint].IsVerified() {
		missing = append(missing, "fingerprint")
	}
	if !f.verifications[entity.ChannelFace].IsVerified() {
		missing = append(missing, "face")
	}
	if !f.verifications[entity.ChannelLocation].IsVerified() {
		missing = append(missing, "location")
	}
	if f.Income == "" {
		missing = append(missing, "income bracket")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrStepIncomplete, strings.Join(missing, ", "))
	}

	f.snapshotAadhaar = f.Aadhaar
	f.snapshotPAN = f.PAN
	f.snapshotTaken = true
	f.NeedsReverification = false
	f.State = StateReview
	return nil
}

// EditInReview revises the identity documents while in REVIEW. Values that
// differ from the review snapshot set the re-verification flag.
func (s *RegistrationService) EditInReview(id, aadhaar, pan string) error {
	f, err := s.flow(id)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.State != StateReview {
		return ErrWrongState
	}
	f.Aadhaar = strings.TrimSpace(aadhaar)
	f.PAN = strings.ToUpper(strings.TrimSpace(pan))
	f.NeedsReverification = f.Aadhaar != f.snapshotAadhaar || f.PAN != f.snapshotPAN
	return nil
}

// RequestReverifyOTP dispatches a fresh code after review-time document
// edits.
func (s *RegistrationService) RequestReverifyOTP(id string) (string, error) {
	f, err := s.flow(id)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	if f.State != StateReview {
		f.mu.Unlock()
		return "", ErrWrongState
	}
	if !f.NeedsReverification {
		f.mu.Unlock()
		return "", fmt.Errorf("%w: documents unchanged", ErrWrongState)
	}
	f.verifications[entity.ChannelReverify] = entity.PendingVerification()
	f.mu.Unlock()

	code, err := s.dispatchCode(f, string(entity.ChannelReverify), helpers.KeyAadhaarOTP(f.ID))
	if err != nil {
		f.mu.Lock()
		delete(f.verifications, entity.ChannelReverify)
		f.mu.Unlock()
		return "", err
	}
	return code, nil
}

// VerifyReverifyOTP clears the re-verification block and refreshes the
// review snapshot to the edited values.
func (s *RegistrationService) VerifyReverifyOTP(id, code string) error {
	f, err := s.flow(id)
	if err != nil {
		return err
	}
	if err := s.checkCode(f, string(entity.ChannelReverify), helpers.KeyAadhaarOTP(f.ID), code); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.verifications[entity.ChannelReverify] = entity.VerifiedWith(f.Aadhaar)
	f.snapshotAadhaar = f.Aadhaar
	f.snapshotPAN = f.PAN
	f.NeedsReverification = false
	return nil
}

// ConfirmReview gates REVIEW → CREDENTIAL_ISSUANCE. Blocked while edited
// documents await re-verification.
func (s *RegistrationService) ConfirmReview(id string) error {
	f, err := s.flow(id)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.State != StateReview {
		return ErrWrongState
	}
	if f.NeedsReverification {
		return ErrReverifyRequired
	}
	f.State = StateCredentialIssuance
	return nil
}

// IssueCredentials generates the credential identifiers exactly once,
// persists the record, and completes the flow. Re-invocation after success
// is an error rather than a second generation.
func (s *RegistrationService) IssueCredentials(id string) (*Flow, error) {
	f, err := s.flow(id)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.State == StateComplete || f.IssuedMerchant != nil || f.IssuedCustomer != nil {
		return nil, ErrAlreadyIssued
	}
	if f.State != StateCredentialIssuance {
		return nil, ErrWrongState
	}

	switch f.Role {
	case RoleMerchant:
		merchantID, err := helpers.GenMerchantID()
		if err != nil {
			return nil, err
		}
		reference, err := helpers.GenMerchantReference()
		if err != nil {
			return nil, err
		}
		m := &entity.Merchant{
			MerchantID:          merchantID,
			Reference:           reference,
			OwnerName:           f.Name,
			Aadhaar:             f.Aadhaar,
			Phone:               f.Phone,
			PANName:             f.PANName,
			DOB:                 f.DOB,
			PANNumber:           f.PAN,
			Income:              f.Income,
			Location:            f.Location,
			Email:               f.Email,
			FingerprintVerified: f.verifications[entity.ChannelFingerprint].IsVerified(),
			FaceVerified:        f.verifications[entity.ChannelFace].IsVerified(),
			FingerprintHash:     f.FingerprintHash,
			FaceHash:            f.FaceHash,
			TrustScore:          entity.InitialTrustScore,
		}
		if err := s.Merchants.Add(m); err != nil {
			return nil, err
		}
		f.IssuedMerchant = m
		s.notifyIssued(f, m.Email, "merchant_welcome", map[string]any{
			"merchant_id": m.MerchantID,
			"reference":   m.Reference,
			"owner_name":  m.OwnerName,
		})
	case RoleCustomer:
		customerID, err := helpers.GenCustomerID()
		if err != nil {
			return nil, err
		}
		c := &entity.Customer{
			CustomerID:          customerID,
			Name:                f.Name,
			Phone:               f.Phone,
			FingerprintVerified: f.verifications[entity.ChannelFingerprint].IsVerified(),
			FaceVerified:        f.verifications[entity.ChannelFace].IsVerified(),
			FingerprintHash:     f.FingerprintHash,
			FaceHash:            f.FaceHash,
		}
		if err := s.Customers.Add(c); err != nil {
			return nil, err
		}
		f.IssuedCustomer = c
		s.notifyIssued(f, f.Email, "customer_welcome", map[string]any{
			"customer_id": c.CustomerID,
			"name":        c.Name,
		})
	default:
		return nil, fmt.Errorf("unknown role %q", f.Role)
	}

	f.State = StateComplete
	return f, nil
}

// recheckIdentity re-runs the matcher against the flow's current evidence.
// A hit records the matched record on the flow; registering on top of an
// existing identity is diverted by the client into the sign-in channel.
func (s *RegistrationService) recheckIdentity(f *Flow) error {
	f.mu.Lock()
	role := f.Role
	pan, fp, face := f.PAN, f.FingerprintHash, f.FaceHash
	f.mu.Unlock()

	switch role {
	case RoleMerchant:
		m, err := s.Merchants.FindByIdentity(pan, fp, face)
		if err != nil {
			return err
		}
		f.mu.Lock()
		f.MatchedMerchant = m
		f.mu.Unlock()
		if m != nil {
			helpers.LogInfo(s.Logger, "identity match during registration", logrus.Fields{
				"flow_id": f.ID, "merchant_id": m.MerchantID,
			})
		}
	case RoleCustomer:
		c, err := s.Customers.FindByIdentity(fp, face)
		if err != nil {
			return err
		}
		f.mu.Lock()
		f.MatchedCustomer = c
		f.mu.Unlock()
		if c != nil {
			helpers.LogInfo(s.Logger, "identity match during registration", logrus.Fields{
				"flow_id": f.ID, "customer_id": c.CustomerID,
			})
		}
	}
	return nil
}

// dispatchCode waits out the simulated dispatch delay, then generates a
// code and stores its bcrypt hash (Redis with TTL when configured, the
// flow itself otherwise). The plain code is returned for display.
func (s *RegistrationService) dispatchCode(f *Flow, channel, redisKey string) (string, error) {
	if err := s.sleep(f.ctx); err != nil {
		return "", err
	}
	code, err := helpers.GenOTPCode()
	if err != nil {
		return "", err
	}
	hash, err := helpers.HashCode(code)
	if err != nil {
		return "", err
	}
	if s.Redis != nil {
		if err := s.Redis.Set(f.ctx, redisKey, hash, otpTTL).Err(); err != nil {
			helpers.LogError(s.Logger, "store otp in redis", err, logrus.Fields{"flow_id": f.ID})
			return "", err
		}
	} else {
		f.mu.Lock()
		f.otpHashes[channel] = hash
		f.mu.Unlock()
	}
	return code, nil
}

func (s *RegistrationService) checkCode(f *Flow, channel, redisKey, code string) error {
	var hash string
	if s.Redis != nil {
		v, err := s.Redis.Get(f.ctx, redisKey).Result()
		if errors.Is(err, redis.Nil) {
			return ErrCodeExpired
		}
		if err != nil {
			return err
		}
		hash = v
	} else {
		f.mu.Lock()
		hash = f.otpHashes[channel]
		f.mu.Unlock()
		if hash == "" {
			return ErrCodeExpired
		}
	}
	if !helpers.CompareCode(hash, code) {
		return ErrInvalidCode
	}
	if s.Redis != nil {
		_ = s.Redis.Del(f.ctx, redisKey).Err()
	} else {
		f.mu.Lock()
		delete(f.otpHashes, channel)
		f.mu.Unlock()
	}
	return nil
}

func (s *RegistrationService) notifyIssued(f *Flow, email, kind string, data map[string]any) {
	if s.Publisher == nil {
		return
	}
	job := mailer.NotifyJob{
		To:      email,
		Subject: "Welcome to Bharosa",
		Kind:    kind,
		Data:    data,
	}
	if err := s.Publisher.PublishJSON(f.ctx, job); err != nil {
		// Notification delivery is best effort; issuance already happened.
		helpers.LogError(s.Logger, "queue welcome notification", err, logrus.Fields{"flow_id": f.ID})
	}
}

func (s *RegistrationService) sleep(ctx context.Context) error {
	if s.OTPDelay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.OTPDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Verification reports the tagged state of one channel for display.
func (f *Flow) Verification(ch entity.VerificationChannel) entity.Verification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.verifications[ch]
}

// FlowSnapshot is a point-in-time copy of the fields the view layer
// renders. Handlers must read flows through it, never through the Flow
// fields directly: the service mutates those under the flow lock.
type FlowSnapshot struct {
	ID                  string
	Role                Role
	State               State
	Name                string
	Phone               string
	Aadhaar             string
	NeedsReverification bool
	IdentityMatch       bool
	Verifications       map[entity.VerificationChannel]entity.Verification
	IssuedMerchant      *entity.Merchant
	IssuedCustomer      *entity.Customer
}

// Snapshot copies the flow's renderable state under the lock, mirroring
// Record. Issued records are immutable after issuance, so sharing their
// pointers is safe.
func (f *Flow) Snapshot() FlowSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	vs := make(map[entity.VerificationChannel]entity.Verification, len(f.verifications))
	for ch, v := range f.verifications {
		vs[ch] = v
	}
	return FlowSnapshot{
		ID:                  f.ID,
		Role:                f.Role,
		State:               f.State,
		Name:                f.Name,
		Phone:               f.Phone,
		Aadhaar:             f.Aadhaar,
		NeedsReverification: f.NeedsReverification,
		IdentityMatch:       f.MatchedMerchant != nil || f.MatchedCustomer != nil,
		Verifications:       vs,
		IssuedMerchant:      f.IssuedMerchant,
		IssuedCustomer:      f.IssuedCustomer,
	}
}
