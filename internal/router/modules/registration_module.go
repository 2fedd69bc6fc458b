package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bharosahq/trust-network/internal/container"
	handlers "github.com/bharosahq/trust-network/internal/interface/http"
	"github.com/bharosahq/trust-network/internal/interface/middleware"
)

// RegistrationModule wires the onboarding wizard routes. All of them are
// public: the caller has no identity until the flow completes.
//
// The sign-in route deliberately carries no per-identity lockout; a wrong
// claimed ID is retryable without limit, with only the per-IP limiter on
// top.
type RegistrationModule struct {
	Handler *handlers.RegistrationHandler
}

func NewRegistrationModule(h *handlers.RegistrationHandler) *RegistrationModule {
	return &RegistrationModule{Handler: h}
}

func (m *RegistrationModule) Register(rg *gin.RouterGroup) {
	ipLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	otpLimiter := middleware.RateLimit(container.GetRedis(), 20, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP())

	reg := rg.Group("/register")
	reg.Use(ipLimiter)
	{
		reg.POST("", m.Handler.Start)
		reg.GET("/:flowID", m.Handler.Get)
		reg.DELETE("/:flowID", m.Handler.Abandon)

		reg.POST("/:flowID/primary", m.Handler.SetPrimary)
		reg.POST("/:flowID/otp/request", otpLimiter, m.Handler.RequestOTP)
		reg.POST("/:flowID/otp/verify", otpLimiter, m.Handler.VerifyOTP)
		reg.POST("/:flowID/advance", m.Handler.AdvanceToDetail)

		reg.POST("/:flowID/detail", m.Handler.SetDetail)
		reg.POST("/:flowID/fingerprint", m.Handler.CaptureFingerprint)
		reg.POST("/:flowID/face", m.Handler.CaptureFace)
		reg.POST("/:flowID/location", m.Handler.ConfirmLocation)

		reg.POST("/:flowID/review", m.Handler.AdvanceToReview)
		reg.POST("/:flowID/review/edit", m.Handler.EditInReview)
		reg.POST("/:flowID/review/otp/request", otpLimiter, m.Handler.RequestReverifyOTP)
		reg.POST("/:flowID/review/otp/verify", otpLimiter, m.Handler.VerifyReverifyOTP)
		reg.POST("/:flowID/review/confirm", m.Handler.ConfirmReview)

		reg.POST("/:flowID/issue", m.Handler.Issue)
		reg.POST("/:flowID/signin", m.Handler.SignIn)

		reg.POST("/:flowID/recovery/request", otpLimiter, m.Handler.StartRecovery)
		reg.POST("/:flowID/recovery/verify", otpLimiter, m.Handler.VerifyRecovery)
	}
}
