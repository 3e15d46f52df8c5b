package tokend

import (
	"context"
	"sort"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// RateLimitConfig defines rate limits for a specific method or globally.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustainable rate (tokens added per second).
	RequestsPerSecond float64

	// BurstSize is the maximum number of requests allowed in a burst.
	BurstSize int
}

// DefaultRateLimits bounds each RPC by cost. Mutations re-apply the whole
// token set and write preferences, so they are the tightest.
var DefaultRateLimits = map[string]RateLimitConfig{
	// Mutations
	MethodSetTheme:   {RequestsPerSecond: 5, BurstSize: 10},
	MethodSetMode:    {RequestsPerSecond: 5, BurstSize: 10},
	MethodToggleMode: {RequestsPerSecond: 5, BurstSize: 10},

	// Reads
	MethodGetTokens:        {RequestsPerSecond: 50, BurstSize: 100},
	MethodGetToken:         {RequestsPerSecond: 200, BurstSize: 400},
	MethodGetState:         {RequestsPerSecond: 200, BurstSize: 400},
	MethodValidateContrast: {RequestsPerSecond: 200, BurstSize: 400},
	MethodGetStatus:        {RequestsPerSecond: 1000, BurstSize: 1000},

	// Streams - limit connection rate, not message rate
	MethodWatchState: {RequestsPerSecond: 5, BurstSize: 10},
}

// tokenBucket implements the token bucket algorithm for rate limiting.
type tokenBucket struct {
	mu           sync.Mutex
	tokens       float64
	lastUpdate   time.Time
	ratePerSec   float64
	maxTokens    float64
	requestCount int64
	deniedCount  int64
}

func newTokenBucket(cfg RateLimitConfig) *tokenBucket {
	return &tokenBucket{
		tokens:     float64(cfg.BurstSize),
		lastUpdate: time.Now(),
		ratePerSec: cfg.RequestsPerSecond,
		maxTokens:  float64(cfg.BurstSize),
	}
}

// refill must be called with mu held.
func (tb *tokenBucket) refill(now time.Time) {
	tb.tokens += now.Sub(tb.lastUpdate).Seconds() * tb.ratePerSec
	if tb.tokens > tb.maxTokens {
		tb.tokens = tb.maxTokens
	}
	tb.lastUpdate = now
}

// allow consumes a token if one is available.
func (tb *tokenBucket) allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.requestCount++
	tb.refill(time.Now())

	if tb.tokens >= 1.0 {
		tb.tokens--
		return true
	}

	tb.deniedCount++
	return false
}

func (tb *tokenBucket) stats() (available float64, requestCount, deniedCount int64) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill(time.Now())
	return tb.tokens, tb.requestCount, tb.deniedCount
}

// RateLimiter manages rate limits for multiple methods.
type RateLimiter struct {
	mu      sync.RWMutex
	buckets map[string]*tokenBucket
	configs map[string]RateLimitConfig
	enabled bool

	// Applied to every method before the per-method bucket.
	globalBucket *tokenBucket
	globalConfig *RateLimitConfig
}

// RateLimiterOption configures the RateLimiter.
type RateLimiterOption func(*RateLimiter)

// WithMethodLimits sets custom limits for specific methods.
func WithMethodLimits(limits map[string]RateLimitConfig) RateLimiterOption {
	return func(rl *RateLimiter) {
		for method, cfg := range limits {
			rl.configs[method] = cfg
		}
	}
}

// WithGlobalLimit sets a global rate limit applied to all methods.
func WithGlobalLimit(cfg RateLimitConfig) RateLimiterOption {
	return func(rl *RateLimiter) {
		rl.globalConfig = &cfg
		rl.globalBucket = newTokenBucket(cfg)
	}
}

// WithEnabled enables or disables rate limiting.
func WithEnabled(enabled bool) RateLimiterOption {
	return func(rl *RateLimiter) {
		rl.enabled = enabled
	}
}

// NewRateLimiter creates a rate limiter seeded with DefaultRateLimits.
func NewRateLimiter(opts ...RateLimiterOption) *RateLimiter {
	rl := &RateLimiter{
		buckets: make(map[string]*tokenBucket),
		configs: make(map[string]RateLimitConfig),
		enabled: true,
	}
	for method, cfg := range DefaultRateLimits {
		rl.configs[method] = cfg
	}
	for _, opt := range opts {
		opt(rl)
	}
	return rl
}

// Allow reports whether a request to method may proceed.
func (rl *RateLimiter) Allow(method string) bool {
	if !rl.IsEnabled() {
		return true
	}

	if rl.globalBucket != nil && !rl.globalBucket.allow() {
		return false
	}

	bucket := rl.getBucket(method)
	if bucket == nil {
		return true
	}
	return bucket.allow()
}

// getBucket returns the bucket for method, creating it on first use. Methods
// without a configured limit get nil.
func (rl *RateLimiter) getBucket(method string) *tokenBucket {
	rl.mu.RLock()
	bucket, exists := rl.buckets[method]
	rl.mu.RUnlock()
	if exists {
		return bucket
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if bucket, exists = rl.buckets[method]; exists {
		return bucket
	}
	cfg, ok := rl.configs[method]
	if !ok {
		return nil
	}
	bucket = newTokenBucket(cfg)
	rl.buckets[method] = bucket
	return bucket
}

// MethodStats describes one bucket.
type MethodStats struct {
	Method         string  `json:"method"`
	Available      float64 `json:"available"`
	RequestsPerSec float64 `json:"requests_per_sec"`
	BurstSize      int     `json:"burst_size"`
	TotalRequests  int64   `json:"total_requests"`
	DeniedRequests int64   `json:"denied_requests"`
}

// Stats returns statistics for every configured method, sorted by method.
func (rl *RateLimiter) Stats() []MethodStats {
	rl.mu.RLock()
	defer rl.mu.RUnlock()

	stats := make([]MethodStats, 0, len(rl.configs))
	for method, cfg := range rl.configs {
		ms := MethodStats{
			Method:         method,
			RequestsPerSec: cfg.RequestsPerSecond,
			BurstSize:      cfg.BurstSize,
			Available:      float64(cfg.BurstSize),
		}
		if bucket, ok := rl.buckets[method]; ok {
			ms.Available, ms.TotalRequests, ms.DeniedRequests = bucket.stats()
		}
		stats = append(stats, ms)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Method < stats[j].Method })
	return stats
}

// GlobalStats returns statistics for the global limit, or nil without one.
func (rl *RateLimiter) GlobalStats() *MethodStats {
	if rl.globalBucket == nil || rl.globalConfig == nil {
		return nil
	}
	available, total, denied := rl.globalBucket.stats()
	return &MethodStats{
		Method:         "global",
		Available:      available,
		RequestsPerSec: rl.globalConfig.RequestsPerSecond,
		BurstSize:      rl.globalConfig.BurstSize,
		TotalRequests:  total,
		DeniedRequests: denied,
	}
}

// SetEnabled enables or disables rate limiting at runtime.
func (rl *RateLimiter) SetEnabled(enabled bool) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.enabled = enabled
}

// IsEnabled returns whether rate limiting is currently enabled.
func (rl *RateLimiter) IsEnabled() bool {
	rl.mu.RLock()
	defer rl.mu.RUnlock()
	return rl.enabled
}

// UnaryServerInterceptor returns a gRPC unary interceptor that applies rate limiting.
func (rl *RateLimiter) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if !rl.Allow(info.FullMethod) {
			return nil, status.Errorf(codes.ResourceExhausted, "rate limit exceeded for method %s", info.FullMethod)
		}
		return handler(ctx, req)
	}
}

// StreamServerInterceptor returns a gRPC stream interceptor that applies
// rate limiting to stream creation only.
func (rl *RateLimiter) StreamServerInterceptor() grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		if !rl.Allow(info.FullMethod) {
			return status.Errorf(codes.ResourceExhausted, "rate limit exceeded for stream %s", info.FullMethod)
		}
		return handler(srv, ss)
	}
}
