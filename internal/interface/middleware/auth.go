package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-library-records/pkg/helpers"
	"github.com/oksasatya/go-library-records/pkg/response"
)

const CtxUserIDKey = "userID"

// accessToken prefers the Authorization header over the cookie.
func accessToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if tok, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(tok)
		}
	}
	tok, _ := c.Cookie(helpers.AccessCookie)
	return tok
}

func unauthorized(c *gin.Context, msg string) {
	response.Fail(c, http.StatusUnauthorized, msg, response.ErrorBody{Code: "UNAUTHORIZED"})
}

// Auth validates the access token and, when rdb is set, that the token still
// belongs to the user's current session. The user id is stored under
// CtxUserIDKey as int64.
func Auth(jwt *helpers.JWTManager, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := accessToken(c)
		if token == "" {
			unauthorized(c, "missing access token")
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			unauthorized(c, "invalid access token")
			return
		}

		if rdb != nil {
			var sess struct {
				SID string `json:"sid"`
			}
			found, err := helpers.RedisGetJSON(c.Request.Context(), rdb, helpers.SessionKey(claims.UserID), &sess)
			if err != nil || !found || sess.SID != claims.SessionID {
				unauthorized(c, "session not found")
				return
			}
		}

		c.Set(CtxUserIDKey, claims.UserID)
		c.Next()
	}
}

// Optional runs next only for mutating methods; reads pass through.
func Optional(enabled bool, next gin.HandlerFunc) gin.HandlerFunc {
	if !enabled || next == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
		default:
			next(c)
		}
	}
}
