package batch

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"
	"testing"
)

func TestRunPreservesOrderAndValues(t *testing.T) {
	paths := []string{"a", "b", "c", "d", "e"}
	results := Run(context.Background(), paths, 2, func(_ context.Context, path string) (string, error) {
		return "processed:" + path, nil
	})

	if len(results) != len(paths) {
		t.Fatalf("len(results) = %d, want %d", len(results), len(paths))
	}
	for i, r := range results {
		if r.Path != paths[i] {
			t.Errorf("results[%d].Path = %q, want %q", i, r.Path, paths[i])
		}
		if want := "processed:" + paths[i]; r.Value != want {
			t.Errorf("results[%d].Value = %q, want %q", i, r.Value, want)
		}
		if r.Err != nil {
			t.Errorf("results[%d].Err = %v, want nil", i, r.Err)
		}
	}
}

func TestRunPropagatesPerItemErrors(t *testing.T) {
	errBad := errors.New("bad item")
	results := Run(context.Background(), []string{"ok", "bad"}, 2, func(_ context.Context, path string) (int, error) {
		if path == "bad" {
			return 0, errBad
		}
		return 1, nil
	})
	if results[0].Err != nil {
		t.Errorf("results[0].Err = %v, want nil", results[0].Err)
	}
	if !errors.Is(results[1].Err, errBad) {
		t.Errorf("results[1].Err = %v, want %v", results[1].Err, errBad)
	}
}

func TestRunBoundsConcurrency(t *testing.T) {
	const n = 20
	paths := make([]string, n)
	for i := range paths {
		paths[i] = fmt.Sprintf("p%d", i)
	}

	var active, maxActive int64
	Run(context.Background(), paths, 3, func(_ context.Context, path string) (struct{}, error) {
		cur := atomic.AddInt64(&active, 1)
		for {
			max := atomic.LoadInt64(&maxActive)
			if cur <= max || atomic.CompareAndSwapInt64(&maxActive, max, cur) {
				break
			}
		}
		atomic.AddInt64(&active, -1)
		return struct{}{}, nil
	})

	if got := atomic.LoadInt64(&maxActive); got > 3 {
		t.Errorf("observed max concurrent workers = %d, want <= 3", got)
	}
}

func TestRunZeroPaths(t *testing.T) {
	results := Run(context.Background(), nil, 4, func(_ context.Context, path string) (int, error) {
		t.Fatal("process should never be called with no paths")
		return 0, nil
	})
	if len(results) != 0 {
		t.Errorf("len(results) = %d, want 0", len(results))
	}
}

func TestRunReportsCancelledContextForUnstartedPaths(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := Run(ctx, []string{"a", "b", "c"}, 1, func(_ context.Context, path string) (int, error) {
		return 0, nil
	})

	cancelled := 0
	for _, r := range results {
		if errors.Is(r.Err, context.Canceled) {
			cancelled++
		}
	}
	if cancelled == 0 {
		t.Error("expected at least one result reporting context.Canceled")
	}
}

func TestRunDefaultsConcurrencyWhenNonPositive(t *testing.T) {
	paths := []string{"a", "b", "c"}
	results := Run(context.Background(), paths, 0, func(_ context.Context, path string) (string, error) {
		return path, nil
	})
	var got []string
	for _, r := range results {
		got = append(got, r.Value)
	}
	sort.Strings(got)
	if len(got) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(got))
	}
}
