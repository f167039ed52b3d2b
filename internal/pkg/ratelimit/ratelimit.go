package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"studycycle/internal/pkg/metrics"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "studycycle:ratelimit:"

// 令牌桶脚本：按毫秒补充令牌，原子地判断并扣减。
const tokenBucketLua = `
local key = KEYS[1]
local rate = tonumber(ARGV[1])
local burst = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local requested = tonumber(ARGV[4])

if rate <= 0 or burst <= 0 then
  return {1, burst}
end

local data = redis.call("HMGET", key, "tokens", "ts")
local tokens = tonumber(data[1])
local ts = tonumber(data[2])
if tokens == nil then
  tokens = burst
end
if ts == nil then
  ts = now
end

local delta = math.max(0, now - ts)
local refill = (delta * rate) / 1000.0
tokens = math.min(burst, tokens + refill)

local allowed = tokens >= requested
if allowed then
  tokens = tokens - requested
end

redis.call("HMSET", key, "tokens", tokens, "ts", now)
redis.call("PEXPIRE", key, math.ceil((burst / rate) * 1000.0 * 2))

return {allowed and 1 or 0, tokens}
`

// Limiter 基于 Redis 的按 key 令牌桶限流器。
//
// 用于认证接口的防爆破：同一来源的请求按 rate（令牌/秒）补充，
// 桶容量为 burst，桶空即拒绝，不排队等待。
type Limiter struct {
	rdb    *redis.Client
	rate   float64
	burst  float64
	logger *slog.Logger
	script *redis.Script
}

// NewRedisLimiter 创建限流器。rate 或 burst 为 0 时限流退化为全放行。
func NewRedisLimiter(rdb *redis.Client, logger *slog.Logger, rate float64, burst float64) *Limiter {
	return &Limiter{
		rdb:    rdb,
		rate:   rate,
		burst:  burst,
		logger: logger,
		script: redis.NewScript(tokenBucketLua),
	}
}

// Allow 判断指定 key（如客户端 IP）当前是否放行，不阻塞。
//
// Redis 不可用时选择放行，限流失效不应拖垮登录。
func (l *Limiter) Allow(ctx context.Context, key string) bool {
	if l == nil || l.rdb == nil || l.rate <= 0 || l.burst <= 0 {
		return true
	}

	now := time.Now().UnixMilli()
	res, err := l.script.Run(ctx, l.rdb, []string{keyPrefix + key}, l.rate, l.burst, now, 1).Result()
	if err != nil {
		if l.logger != nil {
			l.logger.Warn("ratelimit eval failed", slog.String("key", key), slog.String("error", err.Error()))
		}
		return true
	}

	values, ok := res.([]interface{})
	if !ok || len(values) < 1 {
		if l.logger != nil {
			l.logger.Warn("ratelimit invalid result", slog.String("key", key), slog.String("result", fmt.Sprintf("%v", res)))
		}
		return true
	}

	allowed := toInt64(values[0]) == 1
	if !allowed && metrics.RateLimitDeniedTotal != nil {
		metrics.RateLimitDeniedTotal.Inc()
	}
	return allowed
}

func toInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		if t == "" {
			return 0
		}
		if parsed, err := strconv.ParseInt(t, 10, 64); err == nil {
			return parsed
		}
	}
	return 0
}
