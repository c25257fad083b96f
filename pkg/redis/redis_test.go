package redis

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"recruit-hub/backend/config"
)

// 端口 1 上没有服务，连接会被立即拒绝

func TestNewClient_Unreachable(t *testing.T) {
	c, err := NewClient(&config.RedisConfig{Addr: "127.0.0.1:1"}, zap.NewNop())
	assert.Error(t, err)
	assert.Nil(t, c)
}

func TestCheckRateLimit_ReportsConnectionError(t *testing.T) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { rdb.Close() })

	c := NewFromCmdable(rdb, zap.NewNop())
	allowed, err := c.CheckRateLimit(context.Background(), "login:127.0.0.1", 5, time.Minute)
	require.Error(t, err)
	assert.False(t, allowed)

	// 共享连接由调用方负责关闭
	assert.NoError(t, c.Close())
}
