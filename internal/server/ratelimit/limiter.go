// Package ratelimit throttles unauthenticated and abuse-prone endpoints with
// a Redis sorted-set sliding window.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Result is the outcome of one Allow call.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
	ResetAt    time.Time
}

// Limiter decides whether one more request under key fits the window.
type Limiter interface {
	Allow(ctx context.Context, key string) (*Result, error)
}

// slidingWindow trims entries older than the window, counts what is left and
// records the request only when it fits. Returns {allowed, remaining, retry_ms}.
var slidingWindow = redis.NewScript(`
local key = KEYS[1]
local seq_key = KEYS[2]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)

if count < limit then
	local seq = redis.call('INCR', seq_key)
	redis.call('ZADD', key, now, now .. ':' .. seq)
	redis.call('PEXPIRE', key, window)
	redis.call('PEXPIRE', seq_key, window)
	return {1, limit - count - 1, 0}
end

local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
local retry = 0
if #oldest >= 2 then
	retry = tonumber(oldest[2]) + window - now
end
return {0, 0, retry}
`)

// SlidingWindow is a Limiter backed by Redis. Any redis.Scripter works:
// a *redis.Client, a ring or a cluster client.
type SlidingWindow struct {
	client redis.Scripter
	prefix string
	limit  int
	window time.Duration
	now    func() time.Time
}

func NewSlidingWindow(client redis.Scripter, prefix string, limit int, window time.Duration) *SlidingWindow {
	return &SlidingWindow{client: client, prefix: prefix, limit: limit, window: window, now: time.Now}
}

func (l *SlidingWindow) Allow(ctx context.Context, key string) (*Result, error) {
	now := l.now()
	redisKey := l.prefix + key

	raw, err := slidingWindow.Run(ctx, l.client, []string{redisKey, redisKey + ":seq"},
		now.UnixMilli(),
		l.window.Milliseconds(),
		l.limit,
	).Slice()
	if err != nil {
		return nil, fmt.Errorf("rate limit script: %w", err)
	}

	res, err := parseResult(raw)
	if err != nil {
		return nil, err
	}
	res.Limit = l.limit
	res.ResetAt = now.Add(l.window)
	return res, nil
}

func parseResult(raw []interface{}) (*Result, error) {
	if len(raw) != 3 {
		return nil, fmt.Errorf("rate limit script: unexpected result length %d", len(raw))
	}
	var vals [3]int64
	for i, v := range raw {
		n, ok := v.(int64)
		if !ok {
			return nil, fmt.Errorf("rate limit script: unexpected type %T at %d", v, i)
		}
		vals[i] = n
	}

	res := &Result{Allowed: vals[0] == 1, Remaining: int(vals[1])}
	if !res.Allowed && vals[2] > 0 {
		res.RetryAfter = time.Duration(vals[2]) * time.Millisecond
	}
	return res, nil
}
