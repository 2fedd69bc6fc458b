package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/bharosahq/trust-network/pkg/helpers"
	"github.com/bharosahq/trust-network/pkg/response"
)

// Auth validates the access token and, when Redis is configured, checks
// that a server-side session still exists. It sets subjectID and role in
// the Gin context on success.
func Auth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("access_token")
		if err != nil || token == "" {
			response.Error(c, http.StatusUnauthorized, "missing access token", nil)
			c.Abort()
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "invalid access token", err.Error())
			c.Abort()
			return
		}

		if rdb != nil {
			var sess struct {
				SubjectID string `json:"subject_id"`
			}
			found, err := helpers.RedisGetJSON(c.Request.Context(), rdb, "session:"+claims.SubjectID, &sess)
			if err != nil || !found {
				response.Error(c, http.StatusUnauthorized, "session not found", nil)
				c.Abort()
				return
			}
		}

		c.Set("subjectID", claims.SubjectID)
		c.Set("role", claims.Role)
		c.Next()
	}
}
