package parallel

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
)

func TestMapPreservesOrder(t *testing.T) {
	items := make([]int, 100)
	for i := range items {
		items[i] = i
	}

	results, err := Map(context.Background(), 8, items, func(i int) (int, error) {
		return i * 2, nil
	})
	if err != nil {
		t.Fatalf("Map failed: %v", err)
	}
	for i, r := range results {
		if r != i*2 {
			t.Fatalf("results[%d] = %d, want %d", i, r, i*2)
		}
	}
}

func TestMapEmptyInput(t *testing.T) {
	results, err := Map(context.Background(), 4, nil, func(i int) (int, error) {
		return i, nil
	})
	if err != nil || results != nil {
		t.Errorf("Map(nil) = %v, %v", results, err)
	}
}

func TestMapSingleWorkerFallback(t *testing.T) {
	results, err := Map(context.Background(), 0, []int{1, 2, 3}, func(i int) (int, error) {
		return i + 1, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 || results[2] != 4 {
		t.Errorf("results = %v", results)
	}
}

func TestMapFirstErrorWins(t *testing.T) {
	sentinel := errors.New("boom")

	var calls atomic.Int32
	items := make([]int, 1000)
	_, err := Map(context.Background(), 4, items, func(int) (int, error) {
		n := calls.Add(1)
		if n == 5 {
			return 0, sentinel
		}
		return 0, nil
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("err = %v, want sentinel", err)
	}
	// The failure cancels remaining work; far fewer than 1000 calls run.
	if got := calls.Load(); got == 1000 {
		t.Error("error did not short-circuit the remaining items")
	}
}

func TestMapRecoversPanic(t *testing.T) {
	_, err := Map(context.Background(), 2, []int{1, 2, 3}, func(i int) (int, error) {
		if i == 2 {
			panic("kaboom")
		}
		return i, nil
	})
	if err == nil || !strings.Contains(err.Error(), "worker panic") {
		t.Fatalf("err = %v, want recovered panic", err)
	}
}

func TestMapHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Map(ctx, 2, []int{1, 2, 3}, func(i int) (int, error) {
		return i, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
