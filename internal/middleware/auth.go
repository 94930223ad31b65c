package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/blog-api/internal/service"
	"github.com/d60-Lab/blog-api/pkg/jwt"
	"github.com/d60-Lab/blog-api/pkg/response"
)

const identityKey = "identity"

// Identity 注入请求上下文的最小用户信息（绝不含密码哈希）
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// JWTAuth 纯网关：取 Bearer 令牌 → 校验 → 确认用户仍存在 → 注入 Identity。
// 缺失、签名错、过期、用户已注销一律 401，不区分原因。
func JWTAuth(tokens *jwt.Manager, authSvc service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "Not authorized, no token provided")
			c.Abort()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Unauthorized(c, "Not authorized, no token provided")
			c.Abort()
			return
		}

		userID, err := tokens.Verify(parts[1])
		if err != nil {
			response.Unauthorized(c, "Not authorized, token invalid or expired")
			c.Abort()
			return
		}

		user, err := authSvc.GetUser(c.Request.Context(), userID)
		if err != nil {
			response.Unauthorized(c, "Not authorized, token invalid or expired")
			c.Abort()
			return
		}

		c.Set(identityKey, Identity{ID: user.ID, Email: user.Email, Name: user.Name})
		c.Next()
	}
}

// CurrentUser 取出注入的 Identity；仅在受保护路由内可用
func CurrentUser(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}
