package random

import (
	"crypto/rand"
	"math/big"
	"time"
)

const (
	alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	// 加入码去掉了易混淆的 0/O、1/I/l
	joinCodeCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// GetRandomInt 生成指定位数的安全随机数字
func GetRandomInt(length int) int {
	min := int64(1)
	for i := 1; i < length; i++ {
		min *= 10
	}
	max := min * 10

	n, err := rand.Int(rand.Reader, big.NewInt(max-min))
	if err != nil {
		return int(min)
	}
	return int(n.Int64() + min)
}

// GetNowAndLenRandomString 生成带日期前缀的随机字符串（用于 UUID 和文件名）
// 格式: YYMMDD + 字母数字混合，如 241230AbCdE1234567
func GetNowAndLenRandomString(length int) string {
	return time.Now().Format("060102") + randomString(length, alphanumeric)
}

// GetJoinCode 生成群组加入码
func GetJoinCode(length int) string {
	return randomString(length, joinCodeCharset)
}

func randomString(length int, charset string) string {
	result := make([]byte, length)
	charsetLen := big.NewInt(int64(len(charset)))
	for i := range result {
		n, err := rand.Int(rand.Reader, charsetLen)
		if err != nil {
			result[i] = charset[0]
			continue
		}
		result[i] = charset[n.Int64()]
	}
	return string(result)
}
