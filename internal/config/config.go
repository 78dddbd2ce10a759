// Package config 提供应用程序的配置加载和管理功能
// 使用 TOML 格式的配置文件，支持多路径查找
package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml" // TOML 配置文件解析库
)

// MainConfig 主配置，包含应用基本信息
type MainConfig struct {
	AppName     string `toml:"appName"`     // 应用名称，同时作为邮件发件人显示名
	Host        string `toml:"host"`        // 服务器监听地址，如 "0.0.0.0"
	Port        int    `toml:"port"`        // 服务器监听端口，如 8000
	Mode        string `toml:"mode"`        // 运行模式："dev" 或 "release"
	Locale      string `toml:"locale"`      // 参数校验提示语言："en" 或 "zh"
	TLSRedirect bool   `toml:"tlsRedirect"` // 是否将 HTTP 请求重定向到 HTTPS（由 Nginx 终止 TLS 时关闭）

	AllowedOrigins []string `toml:"allowedOrigins"` // 跨域及 WebSocket 允许的来源，为空时允许所有来源且不携带 Cookie
}

// MysqlConfig MySQL 数据库连接配置
type MysqlConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	User         string `toml:"user"`
	Password     string `toml:"password"`
	DatabaseName string `toml:"databaseName"`
}

// RedisConfig Redis 连接配置
type RedisConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Password string `toml:"password"` // 无密码留空
	Db       int    `toml:"db"`
}

// LogConfig 日志配置，使用 lumberjack 进行日志轮转
type LogConfig struct {
	LogPath    string `toml:"logPath"`    // 日志文件存储目录
	FileName   string `toml:"fileName"`   // 日志文件名
	MaxSize    int    `toml:"maxSize"`    // 单个日志文件最大大小（MB）
	MaxBackups int    `toml:"maxBackups"` // 保留旧日志文件的最大个数
	MaxAge     int    `toml:"maxAge"`     // 保留旧日志文件的最大天数
	Level      string `toml:"level"`      // 日志级别：debug, info, warn, error
}

// KafkaConfig 聊天消息分发配置
type KafkaConfig struct {
	MessageMode string        `toml:"messageMode"` // "channel"（单机）或 "kafka"（多实例）
	HostPort    string        `toml:"hostPort"`    // Kafka 地址，如 "localhost:9092"
	ChatTopic   string        `toml:"chatTopic"`   // 聊天投递主题
	Timeout     time.Duration `toml:"timeout"`     // 超时时间（秒）
}

// StaticSrcConfig 上传文件存储配置
type StaticSrcConfig struct {
	Backend         string `toml:"backend"`         // "local" 或 "minio"
	PublicPath      string `toml:"publicPath"`      // 公开文件根目录，映射到 /static
	PrivatePath     string `toml:"privatePath"`     // 私有文件根目录（身份证明照片）
	ThumbnailWidth  int    `toml:"thumbnailWidth"`  // 缩略图宽度
	ThumbnailHeight int    `toml:"thumbnailHeight"` // 缩略图高度
}

// MinioConfig 对象存储配置，仅在 StaticSrcConfig.Backend 为 "minio" 时使用
type MinioConfig struct {
	Endpoint      string `toml:"endpoint"`
	AccessKey     string `toml:"accessKey"`
	SecretKey     string `toml:"secretKey"`
	Bucket        string `toml:"bucket"`
	UseSSL        bool   `toml:"useSSL"`
	PublicBaseURL string `toml:"publicBaseURL"` // 对外访问前缀，如 https://cdn.example.com/gatormmunity
}

// MailConfig SMTP 邮件配置，Host 为空时只记录日志不发送
type MailConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	From     string `toml:"from"`
}

// SessionConfig 会话配置
type SessionConfig struct {
	Secret       string `toml:"secret"`       // 会话令牌签名密钥，建议 32 字符以上
	ExpiryHours  int    `toml:"expiryHours"`  // 会话有效期（小时）
	CookieName   string `toml:"cookieName"`   // Cookie 名称
	SecureCookie bool   `toml:"secureCookie"` // 仅 HTTPS 下发送 Cookie
}

// SnowflakeConfig 雪花算法配置
type SnowflakeConfig struct {
	MachineID int64 `toml:"machineId"` // 节点 ID，范围 0-1023
}

// SearchConfig 搜索配置
type SearchConfig struct {
	Cap               int `toml:"cap"`               // 主搜索上限
	RecommendationCap int `toml:"recommendationCap"` // 无匹配时推荐结果上限
}

// Config 应用程序总配置，聚合所有子配置
type Config struct {
	MainConfig      `toml:"mainConfig"`
	MysqlConfig     `toml:"mysqlConfig"`
	RedisConfig     `toml:"redisConfig"`
	LogConfig       `toml:"logConfig"`
	KafkaConfig     `toml:"kafkaConfig"`
	StaticSrcConfig `toml:"staticSrcConfig"`
	MinioConfig     `toml:"minioConfig"`
	MailConfig      `toml:"mailConfig"`
	SessionConfig   `toml:"sessionConfig"`
	SnowflakeConfig `toml:"snowflakeConfig"`
	SearchConfig    `toml:"searchConfig"`
}

// config 全局配置单例，延迟加载
var config *Config

// LoadConfig 从多个候选路径加载配置文件
// 按顺序尝试加载，找到第一个可用的配置文件即停止
func LoadConfig() error {
	paths := []string{
		"configs/config_local.toml",       // 本地开发配置（优先）
		"configs/config.toml",             // 默认配置
		"../../configs/config_local.toml", // 从子目录运行时的路径
		"../../configs/config.toml",
	}

	for _, path := range paths {
		if _, err := toml.DecodeFile(path, config); err == nil {
			return nil
		}
	}

	return fmt.Errorf("could not find configuration file in any of the search paths")
}

// GetConfig 获取全局配置实例（单例模式）
// 首次调用时会自动加载配置文件，找不到文件时使用默认值
func GetConfig() *Config {
	if config == nil {
		config = new(Config)
		_ = LoadConfig()
		config.applyDefaults()
	}
	return config
}

// applyDefaults 为未配置的字段填充默认值
func (c *Config) applyDefaults() {
	if c.AppName == "" {
		c.AppName = "Gatormmunity"
	}
	if c.Mode == "" {
		c.Mode = "dev"
	}
	if c.Locale == "" {
		c.Locale = "en"
	}
	if c.MessageMode == "" {
		c.MessageMode = "channel"
	}
	if c.Backend == "" {
		c.Backend = "local"
	}
	if c.PublicPath == "" {
		c.PublicPath = "./static"
	}
	if c.PrivatePath == "" {
		c.PrivatePath = "./private"
	}
	if c.ThumbnailWidth == 0 {
		c.ThumbnailWidth = 200
	}
	if c.ThumbnailHeight == 0 {
		c.ThumbnailHeight = 200
	}
	if c.ExpiryHours == 0 {
		c.ExpiryHours = 24
	}
	if c.CookieName == "" {
		c.CookieName = "gatormmunity_sid"
	}
	if c.Cap == 0 {
		c.Cap = 250
	}
	if c.RecommendationCap == 0 {
		c.RecommendationCap = 10
	}
}
