package server

import (
	"context"
	"time"

	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	mdwerror "github.com/msto63/ember/foundation/core/error"
	"github.com/msto63/ember/foundation/ember/ast"
	"github.com/msto63/ember/foundation/ember/parser"
)

// RemoteResult is a parse result received from the parse service. Trees
// decoded from the wire carry no source positions.
type RemoteResult struct {
	Name     string
	Hash     string
	TraceID  string
	Cached   bool
	Tokens   int
	Duration time.Duration
	Root     *ast.Statements
}

// Client talks to a remote parse service
type Client struct {
	conn grpc.ClientConnInterface
}

// NewClient creates a client on an existing connection
func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

// Parse sends source to the service and decodes the returned tree
func (c *Client) Parse(ctx context.Context, name, source string) (*RemoteResult, error) {
	out := new(structpb.Value)
	err := c.conn.Invoke(withSourceName(ctx, name), ParseMethod, wrapperspb.String(source), out)
	if err != nil {
		return nil, err
	}

	fields := out.GetStructValue().GetFields()
	if fields == nil {
		return nil, malformedResponse("parse response is not an object")
	}

	node, err := ast.Decode(fields["tree"].AsInterface())
	if err != nil {
		return nil, mdwerror.Wrap(err, "invalid tree in parse response").
			WithCode(mdwerror.CodeInternal).
			WithOperation("server.Client.Parse")
	}
	root, ok := node.(*ast.Statements)
	if !ok {
		return nil, malformedResponse("parse response tree is not a statement list")
	}

	return &RemoteResult{
		Name:     fields["name"].GetStringValue(),
		Hash:     fields["hash"].GetStringValue(),
		TraceID:  fields["trace_id"].GetStringValue(),
		Cached:   fields["cached"].GetBoolValue(),
		Tokens:   int(fields["tokens"].GetNumberValue()),
		Duration: time.Duration(fields["duration_ms"].GetNumberValue()) * time.Millisecond,
		Root:     root,
	}, nil
}

// Tokenize sends source to the service and returns its tokens
func (c *Client) Tokenize(ctx context.Context, name, source string) ([]parser.Token, error) {
	out := new(structpb.Value)
	err := c.conn.Invoke(withSourceName(ctx, name), TokenizeMethod, wrapperspb.String(source), out)
	if err != nil {
		return nil, err
	}

	list := out.GetListValue()
	if list == nil {
		return nil, malformedResponse("tokenize response is not a list")
	}

	tokens := make([]parser.Token, 0, len(list.GetValues()))
	for _, v := range list.GetValues() {
		f := v.GetStructValue().GetFields()
		kind, ok := parser.ParseTokenKind(f["kind"].GetStringValue())
		if !ok {
			return nil, malformedResponse("unknown token kind " + f["kind"].GetStringValue())
		}
		tokens = append(tokens, parser.Token{
			Kind:   kind,
			Text:   f["text"].GetStringValue(),
			Offset: int(f["offset"].GetNumberValue()),
			Line:   int(f["line"].GetNumberValue()),
			Column: int(f["column"].GetNumberValue()),
		})
	}
	return tokens, nil
}

// Health asks the service's health endpoint about the parse service
func (c *Client) Health(ctx context.Context) (healthpb.HealthCheckResponse_ServingStatus, error) {
	resp, err := healthpb.NewHealthClient(c.conn).Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, err
	}
	return resp.GetStatus(), nil
}

func withSourceName(ctx context.Context, name string) context.Context {
	if name == "" {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, SourceNameHeader, name)
}

func malformedResponse(msg string) error {
	return mdwerror.New(msg).
		WithCode(mdwerror.CodeInternal).
		WithOperation("server.Client")
}
