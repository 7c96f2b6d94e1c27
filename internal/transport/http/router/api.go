package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"go-auth-api/internal/core/auth"
	"go-auth-api/internal/core/config"
	"go-auth-api/internal/domain"
	"go-auth-api/internal/service"
	"go-auth-api/internal/transport/http/handler"
	mdw "go-auth-api/internal/transport/http/middleware"
)

func NewAPIEngine(l *zap.Logger, cfg *config.Config, users domain.UserRepository, tokens *auth.Tokens, svc *service.AuthService) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(10*time.Second),
		ginzap.RecoveryWithZap(l, true),
		mdw.Metrics(),
		mdw.AccessLog(l),
	)

	// 凭证跨域：前端带 cookie，必须点名 origin，不能用 *
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORS.AllowOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h := handler.NewAuthHandler(svc, l, handler.CookieOptions{
		MaxAgeSec: cfg.JWT.RefreshTokenTTLHr * 3600,
		Secure:    cfg.App.Env == "production",
	})

	api := r.Group("/api/auth")
	{
		api.POST("/register", h.Register)
		api.POST("/login", h.Login)
		api.POST("/refresh-token", h.Refresh)
		api.POST("/logout", h.Logout)
		api.GET("/profile", mdw.Auth(tokens, users), h.Profile)
	}

	return r
}
