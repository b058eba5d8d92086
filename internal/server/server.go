package server

import (
	"context"
	"errors"
	"net"
	"time"

	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	mdwerror "github.com/msto63/ember/foundation/core/error"
	mdwlog "github.com/msto63/ember/foundation/core/log"
	"github.com/msto63/ember/foundation/ember"
	"github.com/msto63/ember/foundation/ember/ast"
	coreGrpc "github.com/msto63/ember/pkg/core/grpc"
	"github.com/msto63/ember/pkg/core/health"
	"github.com/msto63/ember/pkg/core/version"
)

// selfTestSource is parsed by the health check
const selfTestSource = "if (a) x = {:: return b; }; else while (c) x++;"

// Pinger is implemented by caches that can report their reachability
type Pinger interface {
	Ping(ctx context.Context) error
}

// Config holds server configuration
type Config struct {
	GRPC           coreGrpc.ServerConfig
	MaxInputLength int
	MaxDepth       int
	// Cache for parse results (optional). If it implements Pinger it is
	// part of the health report.
	Cache ember.Cache
	// HealthInterval controls how often health is republished; 0 disables
	// the background refresh
	HealthInterval time.Duration
}

// DefaultConfig returns default server configuration
func DefaultConfig() Config {
	return Config{
		GRPC:           coreGrpc.DefaultServerConfig(),
		HealthInterval: 30 * time.Second,
	}
}

// Server is the ember parse service
type Server struct {
	engine    *ember.Engine
	grpc      *coreGrpc.Server
	health    *health.Registry
	healthSrv *grpchealth.Server
	logger    *mdwlog.Logger
	config    Config
	startTime time.Time
	stop      chan struct{}
}

// New creates a new parse server
func New(cfg Config, logger *mdwlog.Logger) *Server {
	if logger == nil {
		logger = mdwlog.GetDefault()
	}

	engine := ember.NewEngine(ember.Options{
		Logger:         logger,
		MaxInputLength: cfg.MaxInputLength,
		MaxDepth:       cfg.MaxDepth,
		Cache:          cfg.Cache,
	})

	grpcServer := coreGrpc.NewServer(cfg.GRPC, logger)

	registry := health.NewRegistry(ServiceName, version.Service)
	registry.Register(health.ErrorCheck("parser", health.StatusUnhealthy, func(ctx context.Context) error {
		_, err := ember.NewEngine(ember.Options{Logger: mdwlog.NewNop()}).Parse(ctx, "self-test", selfTestSource)
		return err
	}))
	if pinger, ok := cfg.Cache.(Pinger); ok {
		registry.Register(health.ErrorCheck("cache", health.StatusDegraded, pinger.Ping))
	}

	healthSrv := grpchealth.NewServer()
	healthpb.RegisterHealthServer(grpcServer.GRPCServer(), healthSrv)

	s := &Server{
		engine:    engine,
		grpc:      grpcServer,
		health:    registry,
		healthSrv: healthSrv,
		logger:    logger.WithField("component", "ember-server"),
		config:    cfg,
		startTime: time.Now(),
		stop:      make(chan struct{}),
	}

	RegisterParserServer(grpcServer.GRPCServer(), s)
	return s
}

// Parse handles parse requests
func (s *Server) Parse(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Value, error) {
	name := sourceName(ctx)
	result, err := s.engine.Parse(ctx, name, req.GetValue())
	if err != nil {
		return nil, attachRequestID(ctx, err)
	}

	return structpb.NewValue(map[string]interface{}{
		"name":        result.Name,
		"hash":        result.Hash,
		"trace_id":    result.TraceID,
		"cached":      result.Cached,
		"tokens":      result.Tokens,
		"duration_ms": result.Duration.Milliseconds(),
		"tree":        ast.Encode(result.Root),
	})
}

// Tokenize handles tokenize requests
func (s *Server) Tokenize(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Value, error) {
	name := sourceName(ctx)
	tokens, err := s.engine.Tokenize(ctx, name, req.GetValue())
	if err != nil {
		return nil, attachRequestID(ctx, err)
	}

	list := make([]interface{}, len(tokens))
	for i, tok := range tokens {
		list[i] = map[string]interface{}{
			"kind":   tok.Kind.String(),
			"text":   tok.Text,
			"offset": tok.Offset,
			"line":   tok.Line,
			"column": tok.Column,
		}
	}
	return structpb.NewValue(list)
}

// Listen binds the configured address without serving yet
func (s *Server) Listen() error {
	return s.grpc.Listen()
}

// Start serves on the configured address until stopped, binding it first
// unless Listen was called
func (s *Server) Start() error {
	if s.grpc.Listener() == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}
	return s.Serve(s.grpc.Listener())
}

// Serve publishes health and serves on listener until stopped
func (s *Server) Serve(listener net.Listener) error {
	s.refreshHealth()
	s.logger.Info("Starting ember parse server", mdwlog.Fields{
		"version": version.Service,
		"address": listener.Addr().String(),
	})

	if s.config.HealthInterval > 0 {
		go s.healthLoop()
	}
	return s.grpc.Serve(listener)
}

// Stop shuts the server down, forcing it once ctx is done
func (s *Server) Stop(ctx context.Context) {
	s.logger.Info("Stopping ember parse server", mdwlog.Fields{
		"uptime": time.Since(s.startTime).Round(time.Second).String(),
	})
	select {
	case <-s.stop:
	default:
		close(s.stop)
	}
	s.healthSrv.Shutdown()
	s.grpc.StopWithTimeout(ctx)
}

// GRPCServer returns the underlying gRPC server
func (s *Server) GRPCServer() *grpc.Server {
	return s.grpc.GRPCServer()
}

// HealthRegistry returns the health check registry
func (s *Server) HealthRegistry() *health.Registry {
	return s.health
}

// Address returns the listen address
func (s *Server) Address() string {
	return s.grpc.Address()
}

func (s *Server) refreshHealth() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	report := s.health.Publish(ctx, s.healthSrv)
	if report.Status != health.StatusHealthy {
		s.logger.Warn("health degraded", mdwlog.Fields{"report": report.String()})
	}
}

func (s *Server) healthLoop() {
	ticker := time.NewTicker(s.config.HealthInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.refreshHealth()
		case <-s.stop:
			return
		}
	}
}

func sourceName(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(SourceNameHeader); len(values) > 0 && values[0] != "" {
			return values[0]
		}
	}
	return "<request>"
}

func attachRequestID(ctx context.Context, err error) error {
	var mdwErr *mdwerror.Error
	if errors.As(err, &mdwErr) {
		if id := coreGrpc.GetRequestID(ctx); id != "" {
			return mdwErr.WithRequestID(id)
		}
	}
	return err
}
