package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-library-records/internal/application"
	"github.com/oksasatya/go-library-records/internal/domain"
	"github.com/oksasatya/go-library-records/pkg/helpers"
	"github.com/oksasatya/go-library-records/pkg/response"
)

type AuthHandler struct {
	base
	Svc     *application.AuthService
	Cookies *helpers.CookieManager
}

func NewAuthHandler(svc *application.AuthService, cookies *helpers.CookieManager, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{base: base{Logger: logger}, Svc: svc, Cookies: cookies}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type tokenResponse struct {
	UserID      int64  `json:"user_id"`
	AccessToken string `json:"access_token"`
}

func tokenMeta(pair application.TokenPair) gin.H {
	return gin.H{"access_expires_at": pair.AccessTokenExpiry, "refresh_expires_at": pair.RefreshTokenExpiry}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}
	u, pair, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.OK(c, http.StatusOK, tokenResponse{UserID: u.ID, AccessToken: pair.AccessToken}, "login successful", tokenMeta(pair))
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	refresh, err := c.Cookie(helpers.RefreshCookie)
	if err != nil || refresh == "" {
		h.fail(c, domain.ErrInvalidCredentials)
		return
	}
	pair, uid, err := h.Svc.Refresh(c.Request.Context(), refresh)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.OK(c, http.StatusOK, tokenResponse{UserID: uid, AccessToken: pair.AccessToken}, "token refreshed", tokenMeta(pair))
}

// Logout clears cookies and, for an authenticated caller, the stored session.
func (h *AuthHandler) Logout(c *gin.Context) {
	if refresh, err := c.Cookie(helpers.RefreshCookie); err == nil && refresh != "" {
		if claims, err := h.Svc.JWT.ParseRefreshToken(refresh); err == nil {
			h.Svc.Logout(c.Request.Context(), claims.UserID)
		}
	}
	h.Cookies.Clear(c)
	response.OK[any](c, http.StatusOK, gin.H{"logged_out": true}, "logged out", nil)
}
