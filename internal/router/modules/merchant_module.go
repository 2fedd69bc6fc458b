package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bharosahq/trust-network/internal/container"
	handlers "github.com/bharosahq/trust-network/internal/interface/http"
	"github.com/bharosahq/trust-network/internal/interface/middleware"
	"github.com/bharosahq/trust-network/pkg/helpers"
)

// MerchantModule wires the directory, advisory, media, and loan routes.
// Directory lookups are public; everything acting on the caller's own
// record requires a session.
type MerchantModule struct {
	Handler *handlers.MerchantHandler
	JWT     *helpers.JWTManager
}

func NewMerchantModule(h *handlers.MerchantHandler, jwt *helpers.JWTManager) *MerchantModule {
	return &MerchantModule{Handler: h, JWT: jwt}
}

func (m *MerchantModule) Register(rg *gin.RouterGroup) {
	searchLimiter := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())

	rg.GET("/merchants/search", searchLimiter, m.Handler.Search)
	rg.GET("/merchants/:merchantID", searchLimiter, m.Handler.Standing)
	rg.GET("/merchants/:merchantID/report", searchLimiter, m.Handler.Report)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyBySubject(), nil))
	{
		auth.POST("/me/media", m.Handler.UploadMedia)
		auth.GET("/me/loans/quotes", m.Handler.LoanQuotes)
		auth.POST("/me/loans/apply", m.Handler.ApplyLoan)
		auth.GET("/me/loans", m.Handler.LoanApplications)
	}
}
