package lifecycle

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
)

// 取车码生成最大重试次数：与存活取车码碰撞时重新抽取，不接受碰撞
const maxSecretDraws = 10

var secretSpace = big.NewInt(1000000)

// SecretIndex 存活取车码索引：回答某取车码是否被非终态预约占用
type SecretIndex interface {
	SecretCodeInUse(ctx context.Context, code string) (bool, error)
}

// NewSecretCode 随机生成一个 6 位数字取车码
func NewSecretCode() (string, error) {
	n, err := rand.Int(rand.Reader, secretSpace)
	if err != nil {
		return "", fmt.Errorf("draw secret code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// IssueSecretCode 签发对非终态预约唯一的取车码。
// 取车码是能力凭证：出口闸机凭它确认“这就是签到的那个预约”，
// 与预约 ID 无派生关系
func IssueSecretCode(ctx context.Context, idx SecretIndex) (string, error) {
	for i := 0; i < maxSecretDraws; i++ {
		code, err := NewSecretCode()
		if err != nil {
			return "", err
		}
		inUse, err := idx.SecretCodeInUse(ctx, code)
		if err != nil {
			return "", fmt.Errorf("check secret code: %w", err)
		}
		if !inUse {
			return code, nil
		}
	}
	return "", fmt.Errorf("issue secret code: exhausted %d draws", maxSecretDraws)
}

// MatchSecretCode 逐字符串比较取车码（常数时间，防计时侧信道）。
// 数字等值不算匹配："0123" != "123"
func MatchSecretCode(stored *string, supplied string) bool {
	if stored == nil || len(supplied) != 6 {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(*stored), []byte(supplied)) == 1
}
