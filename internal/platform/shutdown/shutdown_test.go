package shutdown

import (
	"errors"
	"reflect"
	"testing"

	"github.com/SlpAus/urble-backend/pkg/lifecycle"
)

func TestShutdownStopsServicesThenRunsFinalizers(t *testing.T) {
	graceful, forceful := lifecycle.NewManager(), lifecycle.NewManager()
	c := NewCoordinator(graceful, forceful)

	var order []string
	stopped := make(chan struct{})
	if err := graceful.Go("worker", func(h *lifecycle.Handle) {
		<-h.Done()
		order = append(order, "worker")
		close(stopped)
	}); err != nil {
		t.Fatal(err)
	}

	c.OnShutdown("db", func() error {
		<-stopped
		order = append(order, "db")
		return nil
	})
	c.OnShutdown("redis", func() error {
		order = append(order, "redis")
		return errors.New("already closed")
	})

	c.Shutdown(nil)

	want := []string{"worker", "db", "redis"}
	if !reflect.DeepEqual(order, want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
}
