package user

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	CookieName   = "urble-user"
	CookieMaxAge = 365 * 24 * 60 * 60
	UserIDKey    = "userID"
)

// EnsureUserCookieMiddleware 确保用户的浏览器中有一个格式正确的用户cookie。
// 如果没有或格式不正确，它会生成一个新的临时ID并设置cookie。
// 本次请求使用的ID会同时放入Gin上下文。
func EnsureUserCookieMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := c.Cookie(CookieName)

		if err != nil || !IsValidUUID(userID) {
			if err != http.ErrNoCookie {
				fmt.Printf("检测到无效的用户Cookie: %s, err: %v\n", userID, err)
			}
			provisionalUserID, err := CreateProvisionalUser()
			if err != nil {
				fmt.Printf("创建临时用户ID时发生错误: %v\n", err)
			} else {
				c.SetCookie(CookieName, provisionalUserID, CookieMaxAge, "/", "", false, true)
				c.Set(UserIDKey, provisionalUserID)
			}
		} else {
			c.Set(UserIDKey, userID)
		}

		c.Next()
	}
}

// LoadUserMiddleware 读取cookie并将其值放入Gin上下文中。
// 用于不分发新ID的只读路由；格式不正确的cookie被忽略。
func LoadUserMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(UserIDKey); !exists {
			if userID, err := c.Cookie(CookieName); err == nil && IsValidUUID(userID) {
				c.Set(UserIDKey, userID)
			}
		}
		c.Next()
	}
}

// FromContext 返回中间件放入上下文的用户ID，可能为空
func FromContext(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
