package handlers

import (
	"context"
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRateLimiterCleanupEvictsIdleVisitors(t *testing.T) {
	now := time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC)
	rl := newRateLimiter(1, 1)
	rl.now = func() time.Time { return now }

	require.True(t, rl.allow("192.0.2.1"))
	require.False(t, rl.allow("192.0.2.1"))

	now = now.Add(5 * time.Minute)
	require.True(t, rl.allow("192.0.2.2"))
	require.Equal(t, 2, rl.size())

	now = now.Add(6 * time.Minute)
	require.Equal(t, 1, rl.cleanup(limiterIdleTTL))
	require.Equal(t, 1, rl.size())

	now = now.Add(limiterIdleTTL)
	require.Equal(t, 1, rl.cleanup(limiterIdleTTL))
	require.Zero(t, rl.size())
}

func TestRateLimiterRunStopsWithContext(t *testing.T) {
	rl := newRateLimiter(1, 1)
	rl.now = func() time.Time { return time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC) }
	rl.visitors["192.0.2.1"] = &visitor{lastSeen: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		rl.run(ctx, time.Millisecond, time.Minute)
		close(done)
	}()

	require.Eventually(t, func() bool { return rl.size() == 0 }, time.Second, time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup loop did not stop")
	}
}

func TestParseTrustedProxies(t *testing.T) {
	prefixes, err := ParseTrustedProxies([]string{"10.0.0.1", " 172.16.0.0/12 ", ""})
	require.NoError(t, err)
	require.Equal(t, []netip.Prefix{
		netip.MustParsePrefix("10.0.0.1/32"),
		netip.MustParsePrefix("172.16.0.0/12"),
	}, prefixes)

	_, err = ParseTrustedProxies([]string{"proxy.local"})
	require.Error(t, err)
}
