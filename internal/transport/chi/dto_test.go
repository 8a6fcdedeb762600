package chi

import (
	"testing"
	"time"

	domsvc "github.com/kailas-cloud/nearby/internal/domain/service"
)

func TestServiceToResponse_KeepsFractionalCreatedAt(t *testing.T) {
	created := time.Date(2025, 10, 16, 6, 30, 47, 806000000, time.UTC)
	a := domsvc.Plain(domsvc.Service{ID: "svc-1", CreatedAt: created})

	if got, want := serviceToResponse(&a).CreatedAt, "2025-10-16T06:30:47.806Z"; got != want {
		t.Errorf("createdAt: got %q, want %q", got, want)
	}
}

func TestServiceToResponse_ZeroCreatedAtOmitted(t *testing.T) {
	a := domsvc.Plain(domsvc.Service{ID: "svc-1"})
	if got := serviceToResponse(&a).CreatedAt; got != "" {
		t.Errorf("createdAt: got %q, want empty", got)
	}
}
