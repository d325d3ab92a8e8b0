package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// keyPrefix namespaces every key this service writes.
	keyPrefix = "quillpad:"
	// writeLimitKey is appended to the prefix for per-IP write buckets.
	writeLimitKey = "ratelimit:write:"
	// writeLimitTTL bounds how long an idle bucket survives.
	writeLimitTTL = 60 * time.Second
)

// RateLimitResult contains the result of a rate limit check.
type RateLimitResult struct {
	Allowed    bool
	Limit      int
	Remaining  int64
	RetryAfter time.Duration
}

// tokenBucketScript refills and consumes a token atomically.
// Returns {allowed, retry_after_ms, remaining_tokens}.
var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local rate = tonumber(ARGV[1])
	local burst = tonumber(ARGV[2])
	local now_ms = tonumber(ARGV[3])
	local ttl = tonumber(ARGV[4])

	local data = redis.call('HMGET', key, 'tokens', 'updated_ms')
	local tokens = tonumber(data[1]) or burst
	local updated_ms = tonumber(data[2]) or now_ms

	local elapsed = math.max(0, now_ms - updated_ms) / 1000
	tokens = math.min(burst, tokens + (elapsed * rate))

	local allowed = 0
	local retry_after_ms = 0
	if tokens >= 1 then
		tokens = tokens - 1
		allowed = 1
	else
		retry_after_ms = math.ceil((1 - tokens) / rate * 1000)
	end

	redis.call('HSET', key, 'tokens', tokens, 'updated_ms', now_ms)
	redis.call('EXPIRE', key, ttl)

	return {allowed, retry_after_ms, math.floor(tokens)}
`)

// CheckWriteRateLimit consumes one token from the write bucket of ip.
// The IP is hashed so raw addresses are never stored.
func (c *Cache) CheckWriteRateLimit(ctx context.Context, ip string, ratePerSecond, burst int) (*RateLimitResult, error) {
	if ratePerSecond <= 0 || burst <= 0 {
		return nil, fmt.Errorf("invalid rate limit: rate=%d burst=%d", ratePerSecond, burst)
	}

	key := c.prefix + writeLimitKey + hashIP(ip)
	ttl := int(math.Max(writeLimitTTL.Seconds(), float64(burst)/float64(ratePerSecond)+1))

	result, err := tokenBucketScript.Run(ctx, c.client,
		[]string{key},
		ratePerSecond, burst, time.Now().UnixMilli(), ttl,
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("failed to run rate limit script: %w", err)
	}

	return &RateLimitResult{
		Allowed:    result[0] == 1,
		Limit:      burst,
		Remaining:  result[2],
		RetryAfter: time.Duration(result[1]) * time.Millisecond,
	}, nil
}

// hashIP creates a truncated SHA256 hash of an IP address.
func hashIP(ip string) string {
	hash := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(hash[:8])
}
