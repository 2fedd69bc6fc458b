package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/bharosahq/trust-network/internal/application"
	"github.com/bharosahq/trust-network/internal/domain/entity"
	"github.com/bharosahq/trust-network/internal/domain/repository"
	"github.com/bharosahq/trust-network/pkg/helpers"
	"github.com/bharosahq/trust-network/pkg/response"
	"github.com/bharosahq/trust-network/pkg/validation"
)

type RegistrationHandler struct {
	Svc      *app.RegistrationService
	Sessions *app.SessionService
	Logger   *logrus.Logger
	Cookies  *helpers.Manager
}

func NewRegistrationHandler(svc *app.RegistrationService, sessions *app.SessionService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *RegistrationHandler {
	return &RegistrationHandler{Svc: svc, Sessions: sessions, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type startFlowRequest struct {
	Role string `json:"role" binding:"required,oneof=merchant customer"`
}

type primaryRequest struct {
	Name    string `json:"name" binding:"required"`
	Aadhaar string `json:"aadhaar" binding:"omitempty,aadhaar"`
	Phone   string `json:"phone" binding:"required,inphone"`
}

type otpRequest struct {
	Code string `json:"code" binding:"required,otp"`
}

type detailRequest struct {
	PANName  string `json:"pan_name"`
	DOB      string `json:"dob"`
	PAN      string `json:"pan"`
	Income   string `json:"income" binding:"omitempty,oneof=0-2 2-6 6-8 8+"`
	Location string `json:"location"`
	Email    string `json:"email" binding:"omitempty,email"`
}

type locationRequest struct {
	Location string `json:"location" binding:"required"`
}

type reviewEditRequest struct {
	Aadhaar string `json:"aadhaar" binding:"required,aadhaar"`
	PAN     string `json:"pan" binding:"required,min=5,uppercase"`
}

type signInRequest struct {
	ClaimedID string `json:"claimed_id" binding:"required"`
}

type recoveryStartRequest struct {
	Phone string `json:"phone" binding:"required,inphone"`
}

func (h *RegistrationHandler) Start(c *gin.Context) {
	var req startFlowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	f := h.Svc.StartFlow(app.Role(req.Role))
	response.Success(c, http.StatusCreated, flowView(f), "registration started", nil)
}

func (h *RegistrationHandler) Get(c *gin.Context) {
	f, err := h.Svc.Get(c.Param("flowID"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, flowView(f), "registration flow", nil)
}

func (h *RegistrationHandler) Abandon(c *gin.Context) {
	if err := h.Svc.Abandon(c.Param("flowID")); err != nil {
		h.fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"abandoned": true}, "registration abandoned", nil)
}

func (h *RegistrationHandler) SetPrimary(c *gin.Context) {
	var req primaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.SetPrimary(c.Param("flowID"), req.Name, req.Aadhaar, req.Phone); err != nil {
		h.fail(c, err)
		return
	}
	f, _ := h.Svc.Get(c.Param("flowID"))
	response.Success(c, http.StatusOK, flowView(f), "primary details recorded", nil)
}

// RequestOTP dispatches the phone code. The code is returned in the
// response for display, a deliberate prototype artifact.
func (h *RegistrationHandler) RequestOTP(c *gin.Context) {
	code, err := h.Svc.RequestPhoneOTP(c.Param("flowID"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"code": code}, "verification code dispatched", nil)
}

func (h *RegistrationHandler) VerifyOTP(c *gin.Context) {
	var req otpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.VerifyPhoneOTP(c.Param("flowID"), req.Code); err != nil {
		h.fail(c, err)
		return
	}
	f, _ := h.Svc.Get(c.Param("flowID"))
	response.Success(c, http.StatusOK, flowView(f), "phone verified", nil)
}

func (h *RegistrationHandler) AdvanceToDetail(c *gin.Context) {
	if err := h.Svc.AdvanceToDetail(c.Param("flowID")); err != nil {
		h.fail(c, err)
		return
	}
	f, _ := h.Svc.Get(c.Param("flowID"))
	response.Success(c, http.StatusOK, flowView(f), "advanced to detail collection", nil)
}

func (h *RegistrationHandler) SetDetail(c *gin.Context) {
	var req detailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.SetDetail(c.Param("flowID"), req.PANName, req.DOB, req.PAN, req.Income, req.Location, req.Email); err != nil {
		h.fail(c, err)
		return
	}
	f, _ := h.Svc.Get(c.Param("flowID"))
	response.Success(c, http.StatusOK, flowView(f), "details recorded", nil)
}

func (h *RegistrationHandler) CaptureFingerprint(c *gin.Context) {
	if err := h.Svc.CaptureFingerprint(c.Param("flowID")); err != nil {
		h.fail(c, err)
		return
	}
	f, _ := h.Svc.Get(c.Param("flowID"))
	response.Success(c, http.StatusOK, flowView(f), "fingerprint captured", nil)
}

func (h *RegistrationHandler) CaptureFace(c *gin.Context) {
	if err := h.Svc.CaptureFace(c.Param("flowID")); err != nil {
		h.fail(c, err)
		return
	}
	f, _ := h.Svc.Get(c.Param("flowID"))
	response.Success(c, http.StatusOK, flowView(f), "face captured", nil)
}

func (h *RegistrationHandler) ConfirmLocation(c *gin.Context) {
	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.ConfirmLocation(c.Param("flowID"), req.Location); err != nil {
		h.fail(c, err)
		return
	}
	f, _ := h.Svc.Get(c.Param("flowID"))
	response.Success(c, http.StatusOK, flowView(f), "location confirmed", nil)
}

func (h *RegistrationHandler) AdvanceToReview(c *gin.Context) {
	if err := h.Svc.AdvanceToReview(c.Param("flowID")); err != nil {
		h.fail(c, err)
		return
	}
	f, _ := h.Svc.Get(c.Param("flowID"))
	response.Success(c, http.StatusOK, flowView(f), "advanced", nil)
}

func (h *RegistrationHandler) EditInReview(c *gin.Context) {
	var req reviewEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.EditInReview(c.Param("flowID"), req.Aadhaar, req.PAN); err != nil {
		h.fail(c, err)
		return
	}
	f, _ := h.Svc.Get(c.Param("flowID"))
	response.Success(c, http.StatusOK, flowView(f), "review details updated", nil)
}

func (h *RegistrationHandler) RequestReverifyOTP(c *gin.Context) {
	code, err := h.Svc.RequestReverifyOTP(c.Param("flowID"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"code": code}, "re-verification code dispatched", nil)
}

func (h *RegistrationHandler) VerifyReverifyOTP(c *gin.Context) {
	var req otpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.VerifyReverifyOTP(c.Param("flowID"), req.Code); err != nil {
		h.fail(c, err)
		return
	}
	f, _ := h.Svc.Get(c.Param("flowID"))
	response.Success(c, http.StatusOK, flowView(f), "documents re-verified", nil)
}

func (h *RegistrationHandler) ConfirmReview(c *gin.Context) {
	if err := h.Svc.ConfirmReview(c.Param("flowID")); err != nil {
		h.fail(c, err)
		return
	}
	f, _ := h.Svc.Get(c.Param("flowID"))
	response.Success(c, http.StatusOK, flowView(f), "review confirmed", nil)
}

// Issue generates the credentials, persists the record, and opens a
// session for the newly registered party.
func (h *RegistrationHandler) Issue(c *gin.Context) {
	f, err := h.Svc.IssueCredentials(c.Param("flowID"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.openSession(c, f)
}

// SignIn completes the flow through the identity-match side channel.
func (h *RegistrationHandler) SignIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	f, err := h.Svc.SignInWithID(c.Param("flowID"), req.ClaimedID)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.openSession(c, f)
}

func (h *RegistrationHandler) StartRecovery(c *gin.Context) {
	var req recoveryStartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	code, err := h.Svc.StartRecovery(c.Param("flowID"), req.Phone)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"code": code}, "recovery code dispatched", nil)
}

func (h *RegistrationHandler) VerifyRecovery(c *gin.Context) {
	var req otpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	recovered, err := h.Svc.VerifyRecovery(c.Param("flowID"), req.Code)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"recovered_id": recovered}, "identifier recovered", nil)
}

func (h *RegistrationHandler) openSession(c *gin.Context, f *app.Flow) {
	m, cust := f.Record()
	var subjectID, role, name string
	switch {
	case m != nil:
		subjectID, role, name = m.MerchantID, string(app.RoleMerchant), m.OwnerName
	case cust != nil:
		subjectID, role, name = cust.CustomerID, string(app.RoleCustomer), cust.Name
	default:
		response.Error(c, http.StatusInternalServerError, "flow completed without a record", nil)
		return
	}

	pair, err := h.Sessions.Create(c.Request.Context(), subjectID, role, name)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to open session", err.Error())
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, flowView(f), "signed in", map[string]any{
		"access_expires_at":  pair.AccessTokenExpiry,
		"refresh_expires_at": pair.RefreshTokenExpiry,
	})
}

func (h *RegistrationHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, app.ErrFlowNotFound), errors.Is(err, repository.ErrNotFound):
		response.Error(c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, app.ErrStepIncomplete),
		errors.Is(err, app.ErrWrongState),
		errors.Is(err, app.ErrAlreadyIssued),
		errors.Is(err, app.ErrReverifyRequired):
		response.Error(c, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, app.ErrInvalidCode),
		errors.Is(err, app.ErrCodeExpired),
		errors.Is(err, app.ErrIdentityMismatch),
		errors.Is(err, app.ErrNoIdentityMatch),
		errors.Is(err, app.ErrRecoveryUnverified):
		response.Error(c, http.StatusBadRequest, err.Error(), nil)
	default:
		helpers.LogError(h.Logger, "registration operation failed", err, nil)
		response.Error(c, http.StatusInternalServerError, "something went wrong", nil)
	}
}

// flowView is the wire representation of a flow, built from a locked
// snapshot. Identity documents are masked the way the review screen shows
// them.
func flowView(f *app.Flow) gin.H {
	snap := f.Snapshot()

	channels := []entity.VerificationChannel{
		entity.ChannelPhone, entity.ChannelFingerprint, entity.ChannelFace,
		entity.ChannelLocation, entity.ChannelReverify,
	}
	verifications := gin.H{}
	for _, ch := range channels {
		verifications[string(ch)] = snap.Verifications[ch].Status().String()
	}

	view := gin.H{
		"flow_id":              snap.ID,
		"role":                 string(snap.Role),
		"state":                string(snap.State),
		"name":                 snap.Name,
		"phone":                snap.Phone,
		"verifications":        verifications,
		"needs_reverification": snap.NeedsReverification,
		"identity_match":       snap.IdentityMatch,
	}
	if snap.Aadhaar != "" {
		masked := entity.Merchant{Aadhaar: snap.Aadhaar}
		view["aadhaar_masked"] = masked.MaskedAadhaar()
	}
	if m := snap.IssuedMerchant; m != nil {
		view["credentials"] = gin.H{"merchant_id": m.MerchantID, "reference": m.Reference}
	}
	if c := snap.IssuedCustomer; c != nil {
		view["credentials"] = gin.H{"customer_id": c.CustomerID}
	}
	return view
}
