package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionSubject 会话令牌的 Subject，用于与其他用途的令牌区分
const SessionSubject = "session"

// JWTConfig JWT 配置
type JWTConfig struct {
	Secret string
	Expiry time.Duration // 会话令牌有效期
}

// 全局配置，由 Init 函数初始化
var jwtConfig *JWTConfig

// Init 初始化 JWT 配置
func Init(secret string, expiryHours int) {
	if expiryHours <= 0 {
		expiryHours = 24
	}
	jwtConfig = &JWTConfig{
		Secret: secret,
		Expiry: time.Duration(expiryHours) * time.Hour,
	}
}

// Expiry 返回会话令牌有效期
func Expiry() time.Duration {
	if jwtConfig == nil {
		return 24 * time.Hour
	}
	return jwtConfig.Expiry
}

// Claims 会话令牌声明
// SessionID 对应 Redis 中的会话快照，令牌本身只负责防篡改和过期
type Claims struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

// GenerateSessionToken 签发会话令牌，写入 Cookie 或以 Bearer 方式携带
func GenerateSessionToken(userID, sessionID string) (string, error) {
	if jwtConfig == nil {
		return "", errors.New("jwt not initialized")
	}
	now := time.Now()
	claims := Claims{
		UserID:    userID,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(jwtConfig.Expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "gatormmunity",
			Subject:   SessionSubject,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtConfig.Secret))
}

// ParseToken 解析并验证会话令牌
func ParseToken(tokenString string) (*Claims, error) {
	if jwtConfig == nil {
		return nil, errors.New("jwt not initialized")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(jwtConfig.Secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}
	if claims.Subject != SessionSubject || claims.SessionID == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
