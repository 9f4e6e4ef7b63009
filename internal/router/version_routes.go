// Package router 提供 HTTP 路由注册
// 本文件定义客户端版本检查的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterVersionRoutes 注册版本检查路由（公开接口）
func (rt *Router) RegisterVersionRoutes(rg *gin.RouterGroup) {
	versionGroup := rg.Group("/version")
	{
		versionGroup.GET("/latest", rt.handlers.Version.GetLatestVersion) // 客户端启动时检查更新
	}
}
