package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
	"go.uber.org/zap"
)

// TLSRedirect 将 HTTP 请求重定向到 HTTPS，并附带常用安全响应头
// 由反向代理终止 TLS 时不要启用
func TLSRedirect(host string, port int, dev bool) gin.HandlerFunc {
	sm := secure.New(secure.Options{
		SSLRedirect:        true,
		SSLHost:            host + ":" + strconv.Itoa(port),
		FrameDeny:          true,
		ContentTypeNosniff: true,
		IsDevelopment:      dev,
	})

	return func(c *gin.Context) {
		if err := sm.Process(c.Writer, c.Request); err != nil {
			// 已写入重定向响应
			zap.L().Debug("tls redirect", zap.String("path", c.Request.URL.Path), zap.Error(err))
			c.Abort()
			return
		}
		c.Next()
	}
}
