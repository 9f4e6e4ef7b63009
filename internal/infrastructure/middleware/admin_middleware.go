package middleware

import (
	"net/http"

	"pulse_chat_server/internal/dao/mysql/repository"
	"pulse_chat_server/pkg/errorx"

	"github.com/gin-gonic/gin"
)

// AdminOnly 管理员校验中间件，必须挂在 JWTAuth 之后
func AdminOnly(userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetString("user_id")
		if userId == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code": errorx.CodeUnauthorized,
				"msg":  "请先登录",
			})
			return
		}

		user, err := userRepo.FindByUuid(userId)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code": errorx.CodeUnauthorized,
				"msg":  "用户不存在",
			})
			return
		}
		if user.IsAdmin != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"code": errorx.CodeForbidden,
				"msg":  "需要管理员权限",
			})
			return
		}
		c.Next()
	}
}
