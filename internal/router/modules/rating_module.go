package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bharosahq/trust-network/internal/container"
	handlers "github.com/bharosahq/trust-network/internal/interface/http"
	"github.com/bharosahq/trust-network/internal/interface/middleware"
	"github.com/bharosahq/trust-network/pkg/helpers"
)

// RatingModule wires peer-audit routes. Submitting requires a session;
// reading a merchant's ratings is public (the directory shows them).
type RatingModule struct {
	Handler *handlers.RatingHandler
	JWT     *helpers.JWTManager
}

func NewRatingModule(h *handlers.RatingHandler, jwt *helpers.JWTManager) *RatingModule {
	return &RatingModule{Handler: h, JWT: jwt}
}

func (m *RatingModule) Register(rg *gin.RouterGroup) {
	rg.GET("/merchants/:merchantID/ratings", m.Handler.MerchantRatings)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyBySubject(), nil))
	{
		auth.POST("/ratings", m.Handler.Submit)
		auth.GET("/me/ratings", m.Handler.History)
	}
}
