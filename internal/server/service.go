package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Service and method names of the parse service
const (
	ServiceName    = "ember.v1.Parser"
	ParseMethod    = "/ember.v1.Parser/Parse"
	TokenizeMethod = "/ember.v1.Parser/Tokenize"

	// SourceNameHeader carries the source name (file path) of a request
	SourceNameHeader = "x-ember-source"
)

// ParserServer is the server API of the parse service. Requests carry the
// source text; responses carry the encoded tree or the token list.
type ParserServer interface {
	Parse(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Value, error)
	Tokenize(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Value, error)
}

// RegisterParserServer registers the parse service on a gRPC server
func RegisterParserServer(s grpc.ServiceRegistrar, srv ParserServer) {
	s.RegisterService(&parserServiceDesc, srv)
}

var parserServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ParserServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Parse", Handler: parseHandler},
		{MethodName: "Tokenize", Handler: tokenizeHandler},
	},
	Streams: []grpc.StreamDesc{},
}

func parseHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ParserServer).Parse(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ParseMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ParserServer).Parse(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func tokenizeHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ParserServer).Tokenize(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: TokenizeMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ParserServer).Tokenize(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}
