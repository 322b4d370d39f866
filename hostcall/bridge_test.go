package hostcall

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvokeReturnsHandlerResult(t *testing.T) {
	host := NewHost()
	defer host.Close()

	double := Register(host, func(n int) (int, error) {
		return 2 * n, nil
	})

	res, err := double.Invoke(21)
	require.NoError(t, err)
	assert.Equal(t, 42, res)
}

func TestInvokePropagatesHandlerError(t *testing.T) {
	host := NewHost()
	defer host.Close()

	failing := Register(host, func(string) (string, error) {
		return "", fmt.Errorf("print failed")
	})

	_, err := failing.Invoke("hello")
	require.EqualError(t, err, "print failed")
}

// A thousand workers hammer a single bridge; the host-side counter must never
// observe two handler executions in flight at once, and every worker must get
// its response.
func TestInvokeSerializesConcurrentCallers(t *testing.T) {
	host := NewHost()
	defer host.Close()

	var (
		total    int64
		inFlight int64
	)
	counter := Register(host, func(struct{}) (int64, error) {
		if atomic.AddInt64(&inFlight, 1) != 1 {
			t.Error("two handler executions in flight")
		}
		n := atomic.AddInt64(&total, 1)
		atomic.AddInt64(&inFlight, -1)
		return n, nil
	})

	const workers = 1000
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := counter.Invoke(struct{}{})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(workers), atomic.LoadInt64(&total))
}

// With a single producer the host observes calls in issue order.
func TestInvokeKeepsSingleProducerOrder(t *testing.T) {
	host := NewHost()
	defer host.Close()

	var seen []int
	record := Register(host, func(n int) (struct{}, error) {
		seen = append(seen, n)
		return struct{}{}, nil
	})

	const calls = 100
	for i := 0; i < calls; i++ {
		_, err := record.Invoke(i)
		require.NoError(t, err)
	}

	require.Len(t, seen, calls)
	for i, n := range seen {
		require.Equal(t, i, n)
	}
}

func TestTwoBridgesShareOneExecutor(t *testing.T) {
	host := NewHost()
	defer host.Close()

	var inFlight int64
	busy := func(string) (struct{}, error) {
		if atomic.AddInt64(&inFlight, 1) != 1 {
			t.Error("handlers of sibling bridges interleaved")
		}
		atomic.AddInt64(&inFlight, -1)
		return struct{}{}, nil
	}
	first := Register(host, busy)
	second := Register(host, busy)

	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(2)
		go func() { defer wg.Done(); first.Invoke("a") }()
		go func() { defer wg.Done(); second.Invoke("b") }()
	}
	wg.Wait()
}

func TestInvokeAfterClosePanics(t *testing.T) {
	host := NewHost()
	bridge := Register(host, func(struct{}) (struct{}, error) {
		return struct{}{}, nil
	})
	host.Close()

	require.Panics(t, func() {
		bridge.Invoke(struct{}{})
	})
}

func TestCloseIsIdempotent(t *testing.T) {
	host := NewHost()
	host.Close()
	require.NotPanics(t, host.Close)
}
