package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"go-auth-api/internal/core/auth"
	"go-auth-api/internal/domain"
	"go-auth-api/internal/transport/http/response"
)

// CtxUserKey 鉴权通过后挂在 gin.Context 上的用户（不含密码哈希字段序列化）
const CtxUserKey = "currentUser"

// Auth 只认 Authorization: Bearer <access token>；cookie 里的 refresh token 不在此处生效。
// 缺失/过期/伪造/用户不存在一律同样的 401，不向客户端区分原因。
func Auth(tokens *auth.Tokens, users domain.UserRepository) gin.HandlerFunc {
	const msg = "Not authorized"
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			response.AbortError(c, http.StatusUnauthorized, msg)
			return
		}
		claims, err := tokens.ParseAccess(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			response.AbortError(c, http.StatusUnauthorized, msg)
			return
		}
		u, err := users.FindByID(c.Request.Context(), claims.UID)
		if err != nil || u == nil {
			response.AbortError(c, http.StatusUnauthorized, msg)
			return
		}
		c.Set(CtxUserKey, u)
		c.Set("userId", u.ID)
		c.Next()
	}
}

// CurrentUser 取出 Auth 中间件挂载的用户
func CurrentUser(c *gin.Context) (*domain.User, bool) {
	v, ok := c.Get(CtxUserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*domain.User)
	return u, ok
}
