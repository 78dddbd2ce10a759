package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gatormmunity/internal/config"
	dao "gatormmunity/internal/dao/mysql"
	myredis "gatormmunity/internal/dao/redis"
	"gatormmunity/internal/handler"
	"gatormmunity/internal/https_server"
	"gatormmunity/internal/infrastructure/filestore"
	"gatormmunity/internal/infrastructure/logger"
	"gatormmunity/internal/infrastructure/mailer"
	"gatormmunity/internal/infrastructure/middleware"
	"gatormmunity/internal/service"
	"gatormmunity/internal/service/chat"
	"gatormmunity/internal/service/moderation"
	"gatormmunity/internal/service/search"
	"gatormmunity/pkg/constants"
	"gatormmunity/pkg/util/jwt"
	"gatormmunity/pkg/util/snowflake"

	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置
	conf := config.GetConfig()

	// 2. 初始化日志
	if err := logger.Init(&conf.LogConfig, conf.Mode); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	defer func() { _ = zap.L().Sync() }()
	zap.L().Info("日志初始化成功")

	// 3. 初始化数据库
	repos, db, err := dao.Init(conf.MysqlConfig)
	if err != nil {
		zap.L().Fatal("数据库初始化失败", zap.Error(err))
	}
	zap.L().Info("数据库初始化成功")

	// 4. 初始化 Redis：缓存 + 异步任务，会话存储
	redisClient, err := myredis.Init(conf.RedisConfig)
	if err != nil {
		zap.L().Fatal("Redis 初始化失败", zap.Error(err))
	}
	cache := myredis.NewRedisCache(redisClient, 4, constants.CHANNEL_SIZE)
	sessions := myredis.NewRedisSessionStore(redisClient, time.Duration(conf.ExpiryHours)*time.Hour)
	zap.L().Info("Redis 初始化成功")

	// 5. 初始化会话令牌和消息 ID
	jwt.Init(conf.Secret, conf.ExpiryHours)
	snowflake.Init(conf.MachineID)

	// 6. 文件存储和邮件
	files, err := filestore.New(conf)
	if err != nil {
		zap.L().Fatal("文件存储初始化失败", zap.Error(err))
	}
	mail := mailer.New(conf.MailConfig)

	// 7. 聊天消息分发
	var broker chat.MessageBroker
	if conf.MessageMode == "kafka" {
		broker = chat.NewKafkaBroker(conf.KafkaConfig, conf.MachineID)
	} else {
		broker = chat.NewChannelBroker()
	}
	go broker.Start()
	zap.L().Info("ChatServer 初始化成功", zap.String("mode", conf.MessageMode))

	// 8. Service 层和 Handler 层 (依赖注入)
	svcs := service.NewServices(service.Deps{
		Repos:     repos,
		Cache:     cache,
		Sessions:  sessions,
		Files:     files,
		Mailer:    mail,
		Publisher: broker,
		Mail:      moderation.MailOptions{AppName: conf.AppName, From: conf.MailConfig.From},
		Caps:      search.Caps{Cap: conf.Cap, RecommendationCap: conf.RecommendationCap},
		Thumb:     filestore.Size{Width: conf.ThumbnailWidth, Height: conf.ThumbnailHeight},
	})
	if err := handler.InitTrans(conf.Locale); err != nil {
		zap.L().Fatal("参数校验翻译器初始化失败", zap.Error(err))
	}
	handlers := handler.NewHandlers(svcs, chat.NewGateway(broker, conf.AllowedOrigins),
		handler.CookieOptions{Name: conf.CookieName, Secure: conf.SecureCookie})

	// 9. HTTP 服务器
	opts := https_server.Options{Auth: middleware.SessionAuth(svcs.Auth, conf.CookieName)}
	if local, ok := files.(*filestore.LocalStore); ok {
		opts.StaticRoot = local.PublicRoot()
	}
	engine := https_server.Init(conf, handlers, opts)
	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", conf.MainConfig.Host, conf.MainConfig.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zap.L().Info("服务启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("server running fault", zap.Error(err))
		}
	}()

	// 设置信号监听
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zap.L().Error("server shutdown", zap.Error(err))
	}

	// 先关闭长连接，再等待异步任务（邮件、文件清理）完成
	broker.Close()
	cache.Close()
	if err := redisClient.Close(); err != nil {
		zap.L().Error("close redis", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	zap.L().Info("服务器已关闭")
}
