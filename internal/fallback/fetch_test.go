package fallback

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dataloaders/pkg/platform/sentinel"
)

func absentRemote(ctx context.Context, id string) (string, error) {
	return "", errors.New("connection refused")
}

func valueRemote(v string) Remote[string] {
	return func(ctx context.Context, id string) (string, error) {
		return v, nil
	}
}

func TestFetchSources(t *testing.T) {
	ctx := context.Background()
	table := NewStaticTable(map[string]string{"alice": "Static Alice"})

	t.Run("static value when remote is absent", func(t *testing.T) {
		out, err := Fetch(ctx, "alice", absentRemote, table, 0, 50*time.Millisecond)
		require.NoError(t, err)
		assert.Equal(t, "Static Alice", out.Value)
		assert.Equal(t, SourceStatic, out.Source)
	})

	t.Run("remote value when static table lacks the id", func(t *testing.T) {
		out, err := Fetch(ctx, "bob", valueRemote("Remote Bob"), table, 0, 50*time.Millisecond)
		require.NoError(t, err)
		assert.Equal(t, "Remote Bob", out.Value)
		assert.Equal(t, SourceRemote, out.Source)
	})

	t.Run("remote takes precedence over static", func(t *testing.T) {
		out, err := Fetch(ctx, "alice", valueRemote("Remote Alice"), table, 0, 50*time.Millisecond)
		require.NoError(t, err)
		assert.Equal(t, "Remote Alice", out.Value)
		assert.Equal(t, SourceRemote, out.Source)
	})

	t.Run("unknown to both sources fails with not found", func(t *testing.T) {
		_, err := Fetch(ctx, "carol", absentRemote, table, 0, 50*time.Millisecond)
		require.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("remote errors never reach the caller", func(t *testing.T) {
		boom := errors.New("upstream 503")
		remote := func(ctx context.Context, id string) (string, error) { return "", boom }
		_, err := Fetch(ctx, "carol", remote, table, 0, 50*time.Millisecond)
		require.Error(t, err)
		assert.NotErrorIs(t, err, boom)
	})

	t.Run("nil remote falls back to static", func(t *testing.T) {
		out, err := Fetch[string](ctx, "alice", nil, table, 0, 50*time.Millisecond)
		require.NoError(t, err)
		assert.Equal(t, "Static Alice", out.Value)
	})

	t.Run("panicking remote is treated as absent", func(t *testing.T) {
		remote := func(ctx context.Context, id string) (string, error) { panic("bad decoder") }
		out, err := Fetch(ctx, "alice", remote, table, 0, 50*time.Millisecond)
		require.NoError(t, err)
		assert.Equal(t, SourceStatic, out.Source)
	})
}

func TestFetchTiming(t *testing.T) {
	ctx := context.Background()
	table := NewStaticTable(map[string]string{"posva": "5.7k"})

	t.Run("instant remote still waits for the minimum delay", func(t *testing.T) {
		minDelay := 80 * time.Millisecond
		start := time.Now()
		out, err := Fetch(ctx, "posva", valueRemote("6k"), table, minDelay, time.Second)
		elapsed := time.Since(start)

		require.NoError(t, err)
		assert.Equal(t, "6k", out.Value)
		assert.GreaterOrEqual(t, elapsed, minDelay)
		assert.GreaterOrEqual(t, out.Elapsed, minDelay)
	})

	t.Run("instant failure still waits for the minimum delay", func(t *testing.T) {
		minDelay := 80 * time.Millisecond
		start := time.Now()
		_, err := Fetch(ctx, "nobody", absentRemote, table, minDelay, time.Second)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.GreaterOrEqual(t, time.Since(start), minDelay)
	})

	t.Run("slow remote is cut off at the timeout", func(t *testing.T) {
		remoteTimeout := 50 * time.Millisecond
		var sawDeadline atomic.Bool
		remote := func(ctx context.Context, id string) (string, error) {
			if _, ok := ctx.Deadline(); ok {
				sawDeadline.Store(true)
			}
			<-ctx.Done()
			return "", ctx.Err()
		}

		start := time.Now()
		out, err := Fetch(ctx, "posva", remote, table, 0, remoteTimeout)
		elapsed := time.Since(start)

		require.NoError(t, err)
		assert.Equal(t, "5.7k", out.Value)
		assert.Equal(t, SourceStatic, out.Source)
		assert.True(t, sawDeadline.Load(), "remote context should carry the timeout")
		assert.GreaterOrEqual(t, elapsed, remoteTimeout)
		assert.Less(t, elapsed, time.Second)
	})

	t.Run("remote that ignores its context cannot hold the caller", func(t *testing.T) {
		release := make(chan struct{})
		defer close(release)
		remote := func(ctx context.Context, id string) (string, error) {
			<-release
			return "too late", nil
		}

		start := time.Now()
		out, err := Fetch(ctx, "posva", remote, table, 0, 50*time.Millisecond)

		require.NoError(t, err)
		assert.Equal(t, "5.7k", out.Value)
		assert.Less(t, time.Since(start), time.Second)
	})

	t.Run("latency is bounded by the larger of delay and timeout", func(t *testing.T) {
		remote := func(ctx context.Context, id string) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		}
		start := time.Now()
		_, _ = Fetch(ctx, "posva", remote, table, 100*time.Millisecond, 40*time.Millisecond)
		elapsed := time.Since(start)

		assert.GreaterOrEqual(t, elapsed, 100*time.Millisecond)
		assert.Less(t, elapsed, 600*time.Millisecond)
	})

	t.Run("negative durations are treated as zero", func(t *testing.T) {
		out, err := Fetch(ctx, "posva", absentRemote, table, -time.Second, -time.Second)
		require.NoError(t, err)
		assert.Equal(t, "5.7k", out.Value)
	})

	t.Run("cancelled caller context still honors the delay floor", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		start := time.Now()
		out, err := Fetch(cctx, "posva", valueRemote("ignored"), table, 60*time.Millisecond, time.Second)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, time.Since(start), 60*time.Millisecond)
		assert.NotEmpty(t, out.Value)
	})
}

func TestFetchFollowerScenario(t *testing.T) {
	if testing.Short() {
		t.Skip("uses the demo's real 500ms delay")
	}
	table := NewStaticTable(map[string]string{"posva": "5.7k"})
	remote := func(ctx context.Context, id string) (string, error) {
		return "", errors.New("api.github.com: rate limited")
	}

	start := time.Now()
	out, err := Fetch(context.Background(), "posva", remote, table, 500*time.Millisecond, 2000*time.Millisecond)

	require.NoError(t, err)
	assert.Equal(t, "5.7k", out.Value)
	assert.GreaterOrEqual(t, time.Since(start), 500*time.Millisecond)
}

func TestFetchConcurrentCallsAreIndependent(t *testing.T) {
	table := NewStaticTable(map[string]string{"a": "A", "b": "B"})
	var calls atomic.Int32
	remote := func(ctx context.Context, id string) (string, error) {
		calls.Add(1)
		if id == "b" {
			return "remote B", nil
		}
		return "", errors.New("down")
	}

	type result struct {
		id  string
		out Outcome[string]
		err error
	}
	ids := []string{"a", "b", "a", "b", "z"}
	results := make(chan result, len(ids))
	for _, id := range ids {
		go func() {
			out, err := Fetch(context.Background(), id, remote, table, 20*time.Millisecond, 200*time.Millisecond)
			results <- result{id: id, out: out, err: err}
		}()
	}

	for range ids {
		r := <-results
		switch r.id {
		case "a":
			assert.Equal(t, "A", r.out.Value)
		case "b":
			assert.Equal(t, "remote B", r.out.Value)
		case "z":
			assert.ErrorIs(t, r.err, ErrNotFound)
		}
	}
	assert.Equal(t, int32(len(ids)), calls.Load(), "no request coalescing")
}

func TestReason(t *testing.T) {
	assert.Equal(t, "", Reason(nil))
	assert.Equal(t, "timeout", Reason(context.DeadlineExceeded))
	assert.Equal(t, "canceled", Reason(context.Canceled))
	assert.Equal(t, "panic", Reason(&panicError{value: "x"}))
	assert.Equal(t, "rate_limited", Reason(categorized("rate_limited")))
	assert.Equal(t, "error", Reason(errors.New("plain")))
}

type categorized string

func (c categorized) Error() string           { return string(c) }
func (c categorized) FailureCategory() string { return string(c) }
