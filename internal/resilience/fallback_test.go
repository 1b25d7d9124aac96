package resilience

import (
	"errors"
	"testing"
	"time"
)

func newGroup(names ...string) *FallbackGroup[string] {
	fg := NewFallbackGroup(names[0], names[0], FallbackConfig{
		CircuitBreaker: CircuitBreakerConfig{MaxFailures: 2, ResetTimeout: time.Hour},
	})
	for _, n := range names[1:] {
		fg.AddFallback(n, n)
	}
	return fg
}

func TestFallbackGroup_StopsAtFirstSuccess(t *testing.T) {
	t.Parallel()
	fg := newGroup("primary", "secondary")

	var tried []string
	err := fg.Execute(func(v string) error {
		tried = append(tried, v)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(tried) != 1 || tried[0] != "primary" {
		t.Errorf("tried = %v, want only the primary", tried)
	}
}

func TestFallbackGroup_TriesBackendsInOrder(t *testing.T) {
	t.Parallel()
	fg := newGroup("primary", "secondary", "tertiary")

	var tried []string
	err := fg.Execute(func(v string) error {
		tried = append(tried, v)
		if v != "tertiary" {
			return errBackend
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"primary", "secondary", "tertiary"}
	for i, n := range want {
		if i >= len(tried) || tried[i] != n {
			t.Fatalf("tried = %v, want %v", tried, want)
		}
	}
}

func TestFallbackGroup_AllFail(t *testing.T) {
	t.Parallel()
	fg := newGroup("primary", "secondary")

	err := fg.Execute(func(string) error { return errBackend })
	if !errors.Is(err, ErrAllFailed) {
		t.Fatalf("err = %v, want ErrAllFailed", err)
	}
}

func TestFallbackGroup_OpenBreakerIsSkipped(t *testing.T) {
	t.Parallel()
	fg := newGroup("primary", "secondary")

	// Trip the primary's breaker (MaxFailures is 2 in newGroup).
	for i := 0; i < 2; i++ {
		_ = fg.Execute(func(v string) error {
			if v == "primary" {
				return errBackend
			}
			return nil
		})
	}

	var tried []string
	if err := fg.Execute(func(v string) error {
		tried = append(tried, v)
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	if len(tried) != 1 || tried[0] != "secondary" {
		t.Errorf("tried = %v, want the open primary skipped", tried)
	}
}

func TestExecuteWithResult(t *testing.T) {
	t.Parallel()
	fg := newGroup("primary", "secondary")

	got, err := ExecuteWithResult(fg, func(v string) (string, error) {
		if v == "primary" {
			return "", errBackend
		}
		return "result from " + v, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if got != "result from secondary" {
		t.Errorf("result = %q", got)
	}

	_, err = ExecuteWithResult(fg, func(string) (string, error) {
		return "", errBackend
	})
	if !errors.Is(err, ErrAllFailed) {
		t.Fatalf("err = %v, want ErrAllFailed", err)
	}
}
