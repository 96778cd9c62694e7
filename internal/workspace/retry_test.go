package workspace

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

type flakyProvider struct {
	failures int
	err      error
	calls    int
}

func (f *flakyProvider) Get(ctx context.Context, id string) (*Context, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, f.err
	}
	return &Context{ID: id, RiskProfile: RiskLow}, nil
}

var fastPolicy = RetryPolicy{
	MaxTries:        3,
	AttemptTimeout:  time.Second,
	InitialInterval: time.Millisecond,
	MaxInterval:     2 * time.Millisecond,
}

func TestRetrying_RecoversFromTransientFailures(t *testing.T) {
	inner := &flakyProvider{failures: 2, err: fmt.Errorf("%w: connection reset", ErrUnreachable)}
	ws, err := NewRetrying(inner, fastPolicy).Get(context.Background(), "acme")
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if ws.ID != "acme" {
		t.Errorf("unexpected workspace %+v", ws)
	}
	if inner.calls != 3 {
		t.Errorf("expected 3 calls, got %d", inner.calls)
	}
}

func TestRetrying_GivesUpAfterMaxTries(t *testing.T) {
	inner := &flakyProvider{failures: 10, err: fmt.Errorf("%w: 502", ErrUnreachable)}
	_, err := NewRetrying(inner, fastPolicy).Get(context.Background(), "acme")
	if !errors.Is(err, ErrUnreachable) {
		t.Fatalf("expected ErrUnreachable, got %v", err)
	}
	if inner.calls != 3 {
		t.Errorf("expected exactly 3 attempts, got %d", inner.calls)
	}
}

func TestRetrying_PermanentErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"NotFound", fmt.Errorf("%w: acme", ErrNotFound)},
		{"Unauthorized", fmt.Errorf("%w: 401", ErrUnauthorized)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner := &flakyProvider{failures: 10, err: tt.err}
			_, err := NewRetrying(inner, fastPolicy).Get(context.Background(), "acme")
			if !errors.Is(err, tt.err) {
				t.Fatalf("expected %v, got %v", tt.err, err)
			}
			if errors.Is(err, ErrUnreachable) {
				t.Errorf("a permanent failure must not be reported as unreachable: %v", err)
			}
			if inner.calls != 1 {
				t.Errorf("%s must not be retried, got %d calls", tt.name, inner.calls)
			}
		})
	}
}

func TestRetrying_UnclassifiedErrorsBecomeUnreachable(t *testing.T) {
	inner := &flakyProvider{failures: 10, err: errors.New("boom")}
	_, err := NewRetrying(inner, fastPolicy).Get(context.Background(), "acme")
	if !errors.Is(err, ErrUnreachable) {
		t.Fatalf("expected ErrUnreachable wrapping, got %v", err)
	}
}
