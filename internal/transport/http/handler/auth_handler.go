package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-auth-api/internal/domain"
	"go-auth-api/internal/service"
	"go-auth-api/internal/transport/http/middleware"
	"go-auth-api/internal/transport/http/response"
)

const refreshCookie = "refreshToken"

// CookieOptions refresh token 只走 HTTP-only cookie，绝不进 JSON body
type CookieOptions struct {
	MaxAgeSec int
	Secure    bool // 生产环境开启
}

type AuthHandler struct {
	svc    *service.AuthService
	log    *zap.Logger
	cookie CookieOptions
}

func NewAuthHandler(svc *service.AuthService, log *zap.Logger, cookie CookieOptions) *AuthHandler {
	return &AuthHandler{svc: svc, log: log, cookie: cookie}
}

// 与来源一致只校验字段是否给了，不做邮箱格式校验
type registerIn struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginIn struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func publicUser(u *domain.User) gin.H {
	return gin.H{"id": u.ID, "name": u.Name, "email": u.Email}
}

// Register POST /api/auth/register —— 建号即登录
func (h *AuthHandler) Register(c *gin.Context) {
	var in registerIn
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, http.StatusBadRequest, "All fields are required")
		return
	}

	u, pair, err := h.svc.Register(c.Request.Context(), in.Name, in.Email, in.Password)
	switch {
	case errors.Is(err, domain.ErrEmailTaken):
		response.Error(c, http.StatusConflict, "User already exists")
		return
	case err != nil:
		h.log.Error("register failed", zap.String("rid", c.GetString("rid")), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	h.setRefreshCookie(c, pair.RefreshToken)
	response.Success(c, http.StatusCreated, "User registered & logged in successfully", gin.H{
		"accessToken": pair.AccessToken,
		"user":        publicUser(u),
	})
}

// Login POST /api/auth/login —— 轮换 refresh token，旧会话失效
func (h *AuthHandler) Login(c *gin.Context) {
	var in loginIn
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	u, pair, err := h.svc.Login(c.Request.Context(), in.Email, in.Password)
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, "Invalid credentials")
		return
	case err != nil:
		h.log.Error("login failed", zap.String("rid", c.GetString("rid")), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	h.setRefreshCookie(c, pair.RefreshToken)
	response.Success(c, http.StatusOK, "Login successful", gin.H{
		"accessToken": pair.AccessToken,
		"user":        publicUser(u),
	})
}

// Refresh POST /api/auth/refresh-token —— 只换发 access token，refresh token 不动
func (h *AuthHandler) Refresh(c *gin.Context) {
	tok, err := c.Cookie(refreshCookie)
	if err != nil || tok == "" {
		response.Error(c, http.StatusUnauthorized, "No refresh token found, please login again")
		return
	}

	access, err := h.svc.Refresh(c.Request.Context(), tok)
	switch {
	case errors.Is(err, domain.ErrInvalidRefreshToken):
		// 伪造/过期/与库中不符，统一一种说法
		response.Error(c, http.StatusForbidden, "Invalid or expired refresh token")
		return
	case err != nil:
		h.log.Error("refresh failed", zap.String("rid", c.GetString("rid")), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	response.Success(c, http.StatusOK, "Access token refreshed successfully", gin.H{
		"accessToken": access,
	})
}

// Logout POST /api/auth/logout —— 总是 200，带不带 cookie 都清
func (h *AuthHandler) Logout(c *gin.Context) {
	tok, _ := c.Cookie(refreshCookie)
	if err := h.svc.Logout(c.Request.Context(), tok); err != nil {
		h.log.Error("logout failed", zap.String("rid", c.GetString("rid")), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	h.clearRefreshCookie(c)
	response.Success(c, http.StatusOK, "Logout successful", nil)
}

// Profile GET /api/auth/profile —— 401 全部由 Auth 中间件兜住
func (h *AuthHandler) Profile(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Not authorized")
		return
	}
	response.Success(c, http.StatusOK, "", gin.H{"user": u})
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteNoneMode) // 跨域前端要带 cookie
	c.SetCookie(refreshCookie, token, h.cookie.MaxAgeSec, "/", "", h.cookie.Secure, true)
}

func (h *AuthHandler) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(refreshCookie, "", -1, "/", "", h.cookie.Secure, true)
}
