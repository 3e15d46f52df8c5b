package tokend

import (
	"context"
	"sync"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestTokenBucketBurstAndRefill(t *testing.T) {
	bucket := newTokenBucket(RateLimitConfig{RequestsPerSecond: 100, BurstSize: 3})

	for i := 0; i < 3; i++ {
		if !bucket.allow() {
			t.Fatalf("request %d should be allowed within burst", i)
		}
	}
	if bucket.allow() {
		t.Fatal("request past burst should be denied")
	}

	// 100/sec gives one token every 10ms.
	time.Sleep(25 * time.Millisecond)
	if !bucket.allow() {
		t.Fatal("request after refill should be allowed")
	}

	_, total, denied := bucket.stats()
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if denied != 1 {
		t.Errorf("denied = %d, want 1", denied)
	}
}

func TestTokenBucketRefillCapsAtBurst(t *testing.T) {
	bucket := newTokenBucket(RateLimitConfig{RequestsPerSecond: 10, BurstSize: 2})

	bucket.mu.Lock()
	bucket.refill(bucket.lastUpdate.Add(time.Hour))
	got := bucket.tokens
	bucket.mu.Unlock()

	if got != 2 {
		t.Fatalf("tokens = %.2f, want burst size 2", got)
	}
}

func TestRateLimiterMutationsAreTighterThanReads(t *testing.T) {
	rl := NewRateLimiter()

	setTheme := 0
	for rl.Allow(MethodSetTheme) {
		setTheme++
	}
	getState := 0
	for rl.Allow(MethodGetState) {
		getState++
	}

	if setTheme != DefaultRateLimits[MethodSetTheme].BurstSize {
		t.Errorf("SetTheme allowed %d, want %d", setTheme, DefaultRateLimits[MethodSetTheme].BurstSize)
	}
	if getState <= setTheme {
		t.Errorf("GetState allowed %d, expected more than SetTheme's %d", getState, setTheme)
	}
}

func TestRateLimiterDisabled(t *testing.T) {
	rl := NewRateLimiter(WithEnabled(false))

	for i := 0; i < 1000; i++ {
		if !rl.Allow(MethodSetTheme) {
			t.Fatalf("request %d denied while rate limiting is disabled", i)
		}
	}

	rl.SetEnabled(true)
	if !rl.IsEnabled() {
		t.Fatal("expected limiter to be enabled after SetEnabled(true)")
	}
}

func TestRateLimiterGlobalLimit(t *testing.T) {
	rl := NewRateLimiter(WithGlobalLimit(RateLimitConfig{RequestsPerSecond: 10, BurstSize: 3}))

	for _, method := range []string{MethodGetState, MethodGetTokens, MethodGetStatus} {
		if !rl.Allow(method) {
			t.Fatalf("%s should be allowed", method)
		}
	}
	if rl.Allow(MethodGetToken) {
		t.Fatal("fourth request should hit the global limit")
	}

	stats := rl.GlobalStats()
	if stats == nil {
		t.Fatal("expected global stats")
	}
	if stats.TotalRequests != 4 || stats.DeniedRequests != 1 {
		t.Errorf("global stats = %+v", stats)
	}
}

func TestRateLimiterUnknownMethod(t *testing.T) {
	rl := NewRateLimiter()
	for i := 0; i < 100; i++ {
		if !rl.Allow("/unknown/method") {
			t.Fatalf("request %d to unknown method should be allowed", i)
		}
	}
}

func TestRateLimiterStatsSorted(t *testing.T) {
	rl := NewRateLimiter()
	rl.Allow(MethodSetMode)
	rl.Allow(MethodSetMode)

	stats := rl.Stats()
	if len(stats) != len(DefaultRateLimits) {
		t.Fatalf("stats = %d entries, want %d", len(stats), len(DefaultRateLimits))
	}
	for i := 1; i < len(stats); i++ {
		if stats[i-1].Method > stats[i].Method {
			t.Fatalf("stats not sorted: %s before %s", stats[i-1].Method, stats[i].Method)
		}
	}
	for _, ms := range stats {
		if ms.Method == MethodSetMode && ms.TotalRequests != 2 {
			t.Errorf("SetMode total = %d, want 2", ms.TotalRequests)
		}
	}
}

func TestRateLimiterConcurrent(t *testing.T) {
	rl := NewRateLimiter(WithMethodLimits(map[string]RateLimitConfig{
		"/concurrent": {RequestsPerSecond: 1000, BurstSize: 100},
	}))

	var wg sync.WaitGroup
	allowed := make(chan bool, 200)
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			allowed <- rl.Allow("/concurrent")
		}()
	}
	wg.Wait()
	close(allowed)

	count := 0
	for ok := range allowed {
		if ok {
			count++
		}
	}
	if count < 90 || count > 110 {
		t.Errorf("expected ~100 allowed, got %d", count)
	}
}

func TestUnaryServerInterceptor(t *testing.T) {
	rl := NewRateLimiter(WithMethodLimits(map[string]RateLimitConfig{
		"/test/method": {RequestsPerSecond: 1, BurstSize: 2},
	}))
	interceptor := rl.UnaryServerInterceptor()
	info := &grpc.UnaryServerInfo{FullMethod: "/test/method"}
	handler := func(ctx context.Context, req any) (any, error) { return "ok", nil }

	for i := 0; i < 2; i++ {
		if _, err := interceptor(context.Background(), nil, info, handler); err != nil {
			t.Fatalf("request %d: %v", i+1, err)
		}
	}

	_, err := interceptor(context.Background(), nil, info, handler)
	if status.Code(err) != codes.ResourceExhausted {
		t.Fatalf("expected ResourceExhausted, got %v", err)
	}
}

type mockServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (m *mockServerStream) Context() context.Context {
	return m.ctx
}

func TestStreamServerInterceptor(t *testing.T) {
	rl := NewRateLimiter(WithMethodLimits(map[string]RateLimitConfig{
		"/test/stream": {RequestsPerSecond: 1, BurstSize: 1},
	}))
	interceptor := rl.StreamServerInterceptor()
	info := &grpc.StreamServerInfo{FullMethod: "/test/stream"}
	stream := &mockServerStream{ctx: context.Background()}
	handler := func(srv any, stream grpc.ServerStream) error { return nil }

	if err := interceptor(nil, stream, info, handler); err != nil {
		t.Fatalf("first stream: %v", err)
	}
	err := interceptor(nil, stream, info, handler)
	if status.Code(err) != codes.ResourceExhausted {
		t.Fatalf("expected ResourceExhausted, got %v", err)
	}
}

func TestDefaultRateLimitsCoverService(t *testing.T) {
	methods := []string{
		MethodGetStatus, MethodGetState, MethodGetTokens, MethodGetToken,
		MethodSetTheme, MethodSetMode, MethodToggleMode, MethodValidateContrast,
		MethodWatchState,
	}
	for _, method := range methods {
		cfg, ok := DefaultRateLimits[method]
		if !ok {
			t.Errorf("missing default rate limit for %s", method)
			continue
		}
		if cfg.RequestsPerSecond <= 0 || cfg.BurstSize <= 0 {
			t.Errorf("%s: non-positive limit %+v", method, cfg)
		}
	}
}
