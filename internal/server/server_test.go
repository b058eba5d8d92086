package server

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	mdwlog "github.com/msto63/ember/foundation/core/log"
	"github.com/msto63/ember/foundation/ember"
	"github.com/msto63/ember/foundation/ember/ast"
	"github.com/msto63/ember/foundation/ember/parser"
	"github.com/msto63/ember/pkg/core/cache"
	coreGrpc "github.com/msto63/ember/pkg/core/grpc"
)

type failingPinger struct {
	*cache.Tiered
}

func (failingPinger) Ping(ctx context.Context) error {
	return context.DeadlineExceeded
}

// startTestServer serves on an in-memory listener and returns a client
func startTestServer(t *testing.T, cfg Config) (*Client, *grpc.ClientConn) {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := New(cfg, mdwlog.NewNop())
	go srv.Serve(lis)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Stop(ctx)
	})

	conn, err := coreGrpc.Dial(coreGrpc.DefaultClientConfig("passthrough:///bufnet"), mdwlog.NewNop(),
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
	)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return NewClient(conn), conn
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.GRPC.EnableReflection = false
	cfg.HealthInterval = 0
	return cfg
}

func TestServer_Parse(t *testing.T) {
	client, _ := startTestServer(t, testConfig())
	ctx := context.Background()

	source := "x = {:: y;} (1, 2);\nfor (i = 0; i < 10; i++) if (i) f i; else call h;"
	result, err := client.Parse(ctx, "main.em", source)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	local, err := parser.Parse(source)
	if err != nil {
		t.Fatalf("local parse error = %v", err)
	}
	if !ast.Equal(result.Root, local) {
		t.Errorf("remote tree differs:\n got %s\nwant %s", ast.Sexpr(result.Root), ast.Sexpr(local))
	}
	if result.Name != "main.em" {
		t.Errorf("Name = %q, want main.em", result.Name)
	}
	if result.Hash != ember.Hash(source) {
		t.Errorf("Hash = %q, want %q", result.Hash, ember.Hash(source))
	}
	if result.TraceID == "" {
		t.Error("TraceID should be set")
	}
	if result.Cached {
		t.Error("first parse should not be cached")
	}
	if result.Tokens == 0 {
		t.Error("Tokens should be counted")
	}
}

func TestServer_ParseCached(t *testing.T) {
	cfg := testConfig()
	cfg.Cache = cache.NewTiered(cache.New(cache.Config{MaxItems: 8}), nil)
	client, _ := startTestServer(t, cfg)
	ctx := context.Background()

	first, err := client.Parse(ctx, "a.em", "a + b;")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	second, err := client.Parse(ctx, "a.em", "a + b;")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if first.Cached || !second.Cached {
		t.Errorf("Cached = %v, %v; want false, true", first.Cached, second.Cached)
	}
	if !ast.Equal(first.Root, second.Root) {
		t.Error("cached tree differs from parsed tree")
	}
}

func TestServer_Errors(t *testing.T) {
	cfg := testConfig()
	cfg.MaxInputLength = 64
	cfg.MaxDepth = 8
	client, _ := startTestServer(t, cfg)
	ctx := context.Background()

	tests := []struct {
		name     string
		source   string
		wantCode codes.Code
		wantMsg  string
	}{
		{"syntax error", "a = ;", codes.InvalidArgument, "syntax error"},
		{"lexical error", "a = #;", codes.InvalidArgument, "lexical error"},
		{"unterminated string", "'abc", codes.InvalidArgument, "unterminated string"},
		{"too large", strings.Repeat("a;", 40), codes.ResourceExhausted, "maximum length"},
		{"nested too deep", strings.Repeat("(", 20) + "a" + strings.Repeat(")", 20) + ";", codes.InvalidArgument, "nesting too deep"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.Parse(ctx, "bad.em", tt.source)
			if err == nil {
				t.Fatal("Parse() should fail")
			}
			st, _ := status.FromError(err)
			if st.Code() != tt.wantCode {
				t.Errorf("code = %v, want %v", st.Code(), tt.wantCode)
			}
			if !strings.Contains(st.Message(), tt.wantMsg) {
				t.Errorf("message = %q, want substring %q", st.Message(), tt.wantMsg)
			}
		})
	}
}

func TestServer_Tokenize(t *testing.T) {
	client, _ := startTestServer(t, testConfig())

	tokens, err := client.Tokenize(context.Background(), "t.em", "if (x)\n  y += 0x1F;")
	if err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}

	want, err := parser.Tokenize("if (x)\n  y += 0x1F;")
	if err != nil {
		t.Fatal(err)
	}
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(want))
	}
	for i := range want {
		if tokens[i] != want[i] {
			t.Errorf("token %d = %+v, want %+v", i, tokens[i], want[i])
		}
	}
}

func TestServer_RequestID(t *testing.T) {
	_, conn := startTestServer(t, testConfig())

	ctx := metadata.AppendToOutgoingContext(context.Background(), coreGrpc.RequestIDHeader, "req-42")
	var header metadata.MD
	out := new(structpb.Value)
	err := conn.Invoke(ctx, ParseMethod, wrapperspb.String("a;"), out, grpc.Header(&header))
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if got := header.Get(coreGrpc.RequestIDHeader); len(got) != 1 || got[0] != "req-42" {
		t.Errorf("request id header = %v, want [req-42]", got)
	}
}

func TestServer_Health(t *testing.T) {
	t.Run("serving", func(t *testing.T) {
		client, _ := startTestServer(t, testConfig())
		waitForStatus(t, client, healthpb.HealthCheckResponse_SERVING)
	})

	t.Run("degraded cache still serves", func(t *testing.T) {
		cfg := testConfig()
		cfg.Cache = failingPinger{cache.NewTiered(cache.New(cache.Config{MaxItems: 1}), nil)}
		srv := New(cfg, mdwlog.NewNop())

		report := srv.HealthRegistry().Check(context.Background())
		if report.Status != "degraded" {
			t.Errorf("Status = %v, want degraded", report.Status)
		}
		if len(report.Checks) != 2 {
			t.Errorf("Checks = %d, want parser and cache", len(report.Checks))
		}
	})
}

// waitForStatus polls until Serve has published health
func waitForStatus(t *testing.T, client *Client, want healthpb.HealthCheckResponse_ServingStatus) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		got, err := client.Health(context.Background())
		if err == nil && got == want {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("Health() = %v, %v; want %v", got, err, want)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestToStatusPassesStatusErrors(t *testing.T) {
	err := status.Error(codes.NotFound, "gone")
	if got := coreGrpc.ToStatus(err); status.Code(got) != codes.NotFound {
		t.Errorf("ToStatus() code = %v, want NotFound", status.Code(got))
	}
	if coreGrpc.ToStatus(nil) != nil {
		t.Error("ToStatus(nil) should be nil")
	}
	if got := coreGrpc.ToStatus(context.Canceled); status.Code(got) != codes.Canceled {
		t.Errorf("ToStatus(context.Canceled) code = %v, want Canceled", status.Code(got))
	}
}
