package middleware

import (
	"net/http"
	"strings"

	"github.com/SwiftParcel/SwiftParcel/internal/common/auth"
	"github.com/SwiftParcel/SwiftParcel/internal/common/config"
	"github.com/gin-gonic/gin"
)

const (
	ctxKeyUserID    = "auth.userID"
	ctxKeyUserPhone = "auth.userPhone"
)

// AuthRequired 校验 Bearer token，并把 {id, phone} 放进请求上下文。
// 缺 token 返回 401，token 无效返回 403。
func AuthRequired(cfg config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "访问令牌缺失"})
			return
		}

		claims, err := auth.ParseAccessToken(cfg, parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "无效的访问令牌"})
			return
		}

		c.Set(ctxKeyUserID, claims.Subject)
		c.Set(ctxKeyUserPhone, claims.Phone)
		c.Next()
	}
}

// CurrentUser 取出鉴权中间件写入的用户身份。ok=false 表示未经过鉴权。
func CurrentUser(c *gin.Context) (id, phone string, ok bool) {
	idVal, exists := c.Get(ctxKeyUserID)
	if !exists {
		return "", "", false
	}
	id, _ = idVal.(string)
	phoneVal, _ := c.Get(ctxKeyUserPhone)
	phone, _ = phoneVal.(string)
	return id, phone, id != ""
}
