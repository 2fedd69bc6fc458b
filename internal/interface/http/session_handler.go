package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/bharosahq/trust-network/internal/application"
	"github.com/bharosahq/trust-network/pkg/helpers"
	"github.com/bharosahq/trust-network/pkg/response"
)

type SessionHandler struct {
	Sessions *app.SessionService
	Logger   *logrus.Logger
	Cookies  *helpers.Manager
}

func NewSessionHandler(sessions *app.SessionService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *SessionHandler {
	return &SessionHandler{Sessions: sessions, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

func (h *SessionHandler) Refresh(c *gin.Context) {
	refresh, err := c.Cookie("refresh_token")
	if err != nil || refresh == "" {
		response.Error(c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}
	pair, _, err := h.Sessions.Refresh(c.Request.Context(), refresh)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "invalid refresh token", nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success[any](c, http.StatusOK, gin.H{"refreshed": true}, "token refreshed", map[string]any{
		"access_expires_at":  pair.AccessTokenExpiry,
		"refresh_expires_at": pair.RefreshTokenExpiry,
	})
}

func (h *SessionHandler) Logout(c *gin.Context) {
	if sid := c.GetString("subjectID"); sid != "" {
		if err := h.Sessions.Destroy(c.Request.Context(), sid); err != nil {
			helpers.LogError(h.Logger, "destroy session", err, logrus.Fields{"subject_id": sid})
		}
	}
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, gin.H{"logged_out": true}, "logged out", nil)
}

func (h *SessionHandler) Me(c *gin.Context) {
	sid := c.GetString("subjectID")
	role := c.GetString("role")
	sess, found, err := h.Sessions.Lookup(c.Request.Context(), sid)
	if err == nil && found {
		response.Success(c, http.StatusOK, sess, "session", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"subject_id": sid, "role": role}, "session", nil)
}
