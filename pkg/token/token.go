// Package token 生成不可预测的定长不透明令牌。
package token

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// DefaultLength 令牌默认长度（与 api_tokens.token 列宽一致）
const DefaultLength = 64

// Generate 生成长度为 n 的字母数字随机串（crypto/rand）
func Generate(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("token: invalid length %d", n)
	}
	max := big.NewInt(int64(len(alphabet)))
	buf := make([]byte, n)
	for i := range buf {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("token: read random: %w", err)
		}
		buf[i] = alphabet[idx.Int64()]
	}
	return string(buf), nil
}
