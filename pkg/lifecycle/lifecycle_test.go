package lifecycle

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestManagerWaitsForServices(t *testing.T) {
	m := NewManager()
	stopped := make(chan struct{})
	if err := m.Go("sleeper", func(h *Handle) {
		_ = h.Sleep(time.Hour)
		close(stopped)
	}); err != nil {
		t.Fatalf("Go: %v", err)
	}

	m.Shutdown()
	if remaining := m.WaitWithTimeout(time.Second); len(remaining) != 0 {
		t.Fatalf("expected all services to stop, remaining: %v", remaining)
	}
	select {
	case <-stopped:
	default:
		t.Fatal("service did not observe shutdown")
	}
}

func TestManagerRejectsDuplicateNames(t *testing.T) {
	m := NewManager()
	h, err := m.NewServiceHandle("scheduler")
	if err != nil {
		t.Fatalf("NewServiceHandle: %v", err)
	}
	defer h.Close()
	if _, err := m.NewServiceHandle("scheduler"); err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
}

func TestWaitWithTimeoutReportsStragglers(t *testing.T) {
	m := NewManager()
	h, err := m.NewServiceHandle("stuck")
	if err != nil {
		t.Fatalf("NewServiceHandle: %v", err)
	}
	m.Shutdown()
	remaining := m.WaitWithTimeout(20 * time.Millisecond)
	if len(remaining) != 1 || remaining[0] != "stuck" {
		t.Fatalf("expected [stuck], got %v", remaining)
	}
	h.Close()
	h.Close()
	if remaining := m.WaitWithTimeout(time.Second); len(remaining) != 0 {
		t.Fatalf("expected no stragglers after Close, got %v", remaining)
	}
}

func TestSleepUntilPastReturnsImmediately(t *testing.T) {
	m := NewManager()
	h, _ := m.NewServiceHandle("x")
	defer h.Close()
	if err := h.SleepUntil(time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	m.Shutdown()
	if err := h.Sleep(time.Hour); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
