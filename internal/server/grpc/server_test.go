package grpc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/studiosite/internal/logging"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

func TestRun_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	srv := NewGRPCServer("127.0.0.1:0", logging.Nop{}, fakePinger{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error on graceful stop: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	t.Parallel()

	srv := NewGRPCServer("127.0.0.1:99999", logging.Nop{}, fakePinger{})
	if err := srv.Run(context.Background()); err == nil {
		t.Fatal("expected listen error for invalid port")
	}
}

func TestCheck(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		service string
		pingErr error
		want    healthpb.HealthCheckResponse_ServingStatus
	}{
		{"overall up", "", nil, healthpb.HealthCheckResponse_SERVING},
		{"named up", ServiceName, nil, healthpb.HealthCheckResponse_SERVING},
		{"db down", "", errors.New("refused"), healthpb.HealthCheckResponse_NOT_SERVING},
	}
	for _, tc := range cases {
		srv := NewGRPCServer(":0", logging.Nop{}, fakePinger{err: tc.pingErr})
		resp, err := srv.Check(context.Background(), &healthpb.HealthCheckRequest{Service: tc.service})
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if resp.GetStatus() != tc.want {
			t.Fatalf("%s: status = %v, want %v", tc.name, resp.GetStatus(), tc.want)
		}
	}
}

func TestCheck_UnknownService(t *testing.T) {
	t.Parallel()

	srv := NewGRPCServer(":0", logging.Nop{}, fakePinger{})
	_, err := srv.Check(context.Background(), &healthpb.HealthCheckRequest{Service: "other"})
	if status.Code(err) != codes.NotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
}
