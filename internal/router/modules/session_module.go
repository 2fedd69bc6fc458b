package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bharosahq/trust-network/internal/container"
	handlers "github.com/bharosahq/trust-network/internal/interface/http"
	"github.com/bharosahq/trust-network/internal/interface/middleware"
	"github.com/bharosahq/trust-network/pkg/helpers"
)

// SessionModule wires token refresh and logout.
// Public: POST /api/refresh
// Protected: POST /api/logout, GET /api/me
type SessionModule struct {
	Handler *handlers.SessionHandler
	JWT     *helpers.JWTManager
}

func NewSessionModule(h *handlers.SessionHandler, jwt *helpers.JWTManager) *SessionModule {
	return &SessionModule{Handler: h, JWT: jwt}
}

func (m *SessionModule) Register(rg *gin.RouterGroup) {
	refreshLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIP(), nil)
	rg.POST("/refresh", refreshLimiter, m.Handler.Refresh)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	{
		auth.POST("/logout", m.Handler.Logout)
		auth.GET("/me", m.Handler.Me)
	}
}
