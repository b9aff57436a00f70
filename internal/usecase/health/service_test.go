package health

import (
	"context"
	"errors"
	"testing"
)

type mockPinger struct{ err error }

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

type mockChecker struct{ err error }

func (m *mockChecker) HealthCheck(_ context.Context) error { return m.err }

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockPinger{}, &mockChecker{})

	report := svc.Check(context.Background())
	if report.Status != Healthy {
		t.Fatalf("expected %s, got %s", Healthy, report.Status)
	}
	if report.Checks["store"] != CheckOK || report.Checks["embedding"] != CheckOK {
		t.Fatalf("unexpected checks: %+v", report.Checks)
	}
}

func TestCheck_DegradedOnEmbeddingFailure(t *testing.T) {
	svc := New(&mockPinger{}, &mockChecker{err: errors.New("provider down")})

	report := svc.Check(context.Background())
	if report.Status != Degraded {
		t.Fatalf("expected %s, got %s", Degraded, report.Status)
	}
	if report.Checks["embedding"] != CheckError {
		t.Fatalf("unexpected checks: %+v", report.Checks)
	}
}

func TestCheck_UnhealthyWhenEverythingFails(t *testing.T) {
	svc := New(&mockPinger{err: errors.New("down")}, &mockChecker{err: errors.New("down")})

	report := svc.Check(context.Background())
	if report.Status != Unhealthy {
		t.Fatalf("expected %s, got %s", Unhealthy, report.Status)
	}
}

func TestCheck_NilEmbedding(t *testing.T) {
	svc := New(&mockPinger{}, nil)

	report := svc.Check(context.Background())
	if report.Status != Healthy {
		t.Fatalf("expected %s, got %s", Healthy, report.Status)
	}
	if _, ok := report.Checks["embedding"]; ok {
		t.Fatal("expected no embedding check when checker is nil")
	}
}
