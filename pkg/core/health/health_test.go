package health

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func TestStatus_ServingStatus(t *testing.T) {
	tests := []struct {
		status Status
		want   healthpb.HealthCheckResponse_ServingStatus
	}{
		{StatusHealthy, healthpb.HealthCheckResponse_SERVING},
		{StatusDegraded, healthpb.HealthCheckResponse_SERVING},
		{StatusUnhealthy, healthpb.HealthCheckResponse_NOT_SERVING},
		{StatusUnknown, healthpb.HealthCheckResponse_UNKNOWN},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.ServingStatus(); got != tt.want {
				t.Errorf("ServingStatus() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewChecker(t *testing.T) {
	checker := NewChecker("parser", func(ctx context.Context) CheckResult {
		return CheckResult{Status: StatusHealthy, Message: "self-test passed"}
	})

	if checker.Name() != "parser" {
		t.Errorf("Name() = %v, want parser", checker.Name())
	}

	result := checker.Check(context.Background())
	if result.Status != StatusHealthy {
		t.Errorf("Status = %v, want healthy", result.Status)
	}
	if result.Message != "self-test passed" {
		t.Errorf("Message = %v, want 'self-test passed'", result.Message)
	}
}

func TestCheckFunc(t *testing.T) {
	fn := CheckFunc(func(ctx context.Context) CheckResult {
		return CheckResult{Status: StatusHealthy}
	})

	if fn.Name() != "unknown" {
		t.Errorf("Name() = %v, want unknown", fn.Name())
	}
	if result := fn.Check(context.Background()); result.Status != StatusHealthy {
		t.Errorf("Status = %v, want healthy", result.Status)
	}
}

func TestErrorCheck(t *testing.T) {
	ok := ErrorCheck("cache", StatusDegraded, func(ctx context.Context) error { return nil })
	if result := ok.Check(context.Background()); result.Status != StatusHealthy {
		t.Errorf("Status = %v, want healthy", result.Status)
	}

	failing := ErrorCheck("cache", StatusDegraded, func(ctx context.Context) error {
		return errors.New("database is locked")
	})
	result := failing.Check(context.Background())
	if result.Status != StatusDegraded {
		t.Errorf("Status = %v, want degraded", result.Status)
	}
	if result.Message != "database is locked" {
		t.Errorf("Message = %v, want probe error", result.Message)
	}
}

func TestRegistry_RegisterAndCheck(t *testing.T) {
	registry := NewRegistry("ember.v1.Parser", "0.1.0")

	registry.Register(NewChecker("parser", func(ctx context.Context) CheckResult {
		return CheckResult{Status: StatusHealthy}
	}))
	registry.Register(NewChecker("cache", func(ctx context.Context) CheckResult {
		return CheckResult{Status: StatusHealthy}
	}))

	report := registry.Check(context.Background())

	if report.Service != "ember.v1.Parser" {
		t.Errorf("Service = %v, want ember.v1.Parser", report.Service)
	}
	if report.Version != "0.1.0" {
		t.Errorf("Version = %v, want 0.1.0", report.Version)
	}
	if report.Status != StatusHealthy {
		t.Errorf("Status = %v, want healthy", report.Status)
	}
	if len(report.Checks) != 2 {
		t.Fatalf("Checks count = %v, want 2", len(report.Checks))
	}
	if report.Checks[0].Name != "cache" || report.Checks[1].Name != "parser" {
		t.Errorf("Checks not sorted by name: %v, %v", report.Checks[0].Name, report.Checks[1].Name)
	}
}

func TestRegistry_OverallStatus(t *testing.T) {
	tests := []struct {
		name     string
		statuses []Status
		want     Status
	}{
		{"empty", nil, StatusHealthy},
		{"all healthy", []Status{StatusHealthy, StatusHealthy}, StatusHealthy},
		{"degraded", []Status{StatusHealthy, StatusDegraded}, StatusDegraded},
		{"unhealthy wins", []Status{StatusDegraded, StatusUnhealthy, StatusHealthy}, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewRegistry("test-service", "1.0.0")
			for i, s := range tt.statuses {
				status := s
				registry.Register(NewChecker("check"+string(rune('A'+i)), func(ctx context.Context) CheckResult {
					return CheckResult{Status: status}
				}))
			}

			if got := registry.Check(context.Background()).Status; got != tt.want {
				t.Errorf("Status = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRegistry_ConcurrentChecks(t *testing.T) {
	registry := NewRegistry("test-service", "1.0.0")

	var counter int32
	for i := 0; i < 5; i++ {
		registry.Register(NewChecker("check"+string(rune('A'+i)), func(ctx context.Context) CheckResult {
			atomic.AddInt32(&counter, 1)
			time.Sleep(10 * time.Millisecond)
			return CheckResult{Status: StatusHealthy}
		}))
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	report := registry.Check(ctx)
	duration := time.Since(start)

	if atomic.LoadInt32(&counter) != 5 {
		t.Errorf("Counter = %v, want 5", counter)
	}
	if duration > 100*time.Millisecond {
		t.Errorf("Duration = %v, expected concurrent execution", duration)
	}
	if len(report.Checks) != 5 {
		t.Errorf("Checks count = %v, want 5", len(report.Checks))
	}
}

func TestRegistry_Publish(t *testing.T) {
	srv := grpchealth.NewServer()
	registry := NewRegistry("ember.v1.Parser", "0.1.0")
	registry.Register(NewChecker("parser", func(ctx context.Context) CheckResult {
		return CheckResult{Status: StatusUnhealthy}
	}))

	report := registry.Publish(context.Background(), srv)
	if report.Status != StatusUnhealthy {
		t.Fatalf("Status = %v, want unhealthy", report.Status)
	}

	for _, service := range []string{"", "ember.v1.Parser"} {
		resp, err := srv.Check(context.Background(), &healthpb.HealthCheckRequest{Service: service})
		if err != nil {
			t.Fatalf("Check(%q) error = %v", service, err)
		}
		if resp.Status != healthpb.HealthCheckResponse_NOT_SERVING {
			t.Errorf("Check(%q) = %v, want NOT_SERVING", service, resp.Status)
		}
	}
}

func TestReport_String(t *testing.T) {
	report := &Report{
		Service: "ember.v1.Parser",
		Status:  StatusHealthy,
		Uptime:  1 * time.Hour,
		Checks:  []CheckResult{{}, {}},
	}

	str := report.String()
	if !strings.Contains(str, "ember.v1.Parser") || !strings.Contains(str, "Checks: 2") {
		t.Errorf("String() = %v", str)
	}
}
