// Package https_server 提供 HTTP/HTTPS 服务器的初始化和配置
// 负责创建 Gin 引擎实例并配置中间件、静态资源和路由
package https_server

import (
	"time"

	"gatormmunity/internal/config"
	"gatormmunity/internal/handler"
	"gatormmunity/internal/infrastructure/logger"
	"gatormmunity/internal/infrastructure/middleware"
	"gatormmunity/internal/router"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Options 引擎的可选部分
type Options struct {
	StaticRoot string          // 本地存储的公开目录，映射到 /static；对象存储时为空
	Auth       gin.HandlerFunc // 会话认证中间件
}

// Init 初始化 Gin 引擎
// 配置顺序：
//  1. 日志和恢复中间件
//  2. CORS 跨域规则、可选的 HTTPS 重定向
//  3. 静态资源目录
//  4. 业务路由
func Init(conf *config.Config, handlers *handler.Handlers, opts Options) *gin.Engine {
	if conf.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	// 不使用 gin.Default() 以便完全控制中间件
	engine := gin.New()
	engine.Use(logger.GinLogger())
	engine.Use(logger.GinRecovery(true))
	engine.Use(cors.New(corsConfig(conf.AllowedOrigins)))

	// 由 Nginx 终止 TLS 时关闭
	if conf.TLSRedirect {
		engine.Use(middleware.TLSRedirect(conf.MainConfig.Host, conf.MainConfig.Port, conf.Mode != "release"))
	}

	// 身份证明照片在私有目录，不经过这里
	if opts.StaticRoot != "" {
		engine.Static("/static", opts.StaticRoot)
	}

	rt := router.NewRouter(handlers, opts.Auth)
	rt.RegisterRoutes(engine)
	return engine
}

// corsConfig 指定来源时允许携带 Cookie，否则只能使用 Authorization 头
func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	cfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	cfg.MaxAge = 12 * time.Hour
	return cfg
}
