package helpers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	AccessCookie  = "access_token"
	RefreshCookie = "refresh_token"

	accessCookiePath = "/api"
	// the refresh token is only ever sent to the auth endpoints
	refreshCookiePath = "/api/auth"
)

// CookieManager writes the HttpOnly token cookies.
type CookieManager struct {
	Domain string
	Secure bool
}

func NewCookieManager(domain string, secure bool) *CookieManager {
	return &CookieManager{Domain: domain, Secure: secure}
}

func (m *CookieManager) set(c *gin.Context, name, value, path string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, path, m.Domain, m.Secure, true)
}

func (m *CookieManager) SetPair(c *gin.Context, access string, aexp time.Time, refresh string, rexp time.Time) {
	m.set(c, AccessCookie, access, accessCookiePath, maxAgeFrom(aexp))
	m.set(c, RefreshCookie, refresh, refreshCookiePath, maxAgeFrom(rexp))
}

func (m *CookieManager) Clear(c *gin.Context) {
	m.set(c, AccessCookie, "", accessCookiePath, -1)
	m.set(c, RefreshCookie, "", refreshCookiePath, -1)
}

func maxAgeFrom(exp time.Time) int {
	sec := int(time.Until(exp).Seconds())
	if sec < 0 {
		return 0
	}
	return sec
}
