// Package pb describes the fishstock.v1.Ledger gRPC service. Messages are
// well-known protobuf types so no generated code is needed: requests are
// Structs, records and lists travel as Values.
package pb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName = "fishstock.v1.Ledger"

	ListMethod    = "/" + ServiceName + "/List"
	MutateMethod  = "/" + ServiceName + "/Mutate"
	HealthMethod  = "/" + ServiceName + "/Health"
	SummaryMethod = "/" + ServiceName + "/Summary"
)

type LedgerServer interface {
	// List takes {collection, q, status, date} and returns the records as a list value
	List(context.Context, *structpb.Struct) (*structpb.Value, error)
	// Mutate takes {collection, action, item|tx, id} and returns the canonical record or {ok:true}
	Mutate(context.Context, *structpb.Struct) (*structpb.Value, error)
	Health(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	Summary(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

type UnimplementedLedgerServer struct{}

func (UnimplementedLedgerServer) List(context.Context, *structpb.Struct) (*structpb.Value, error) {
	return nil, status.Error(codes.Unimplemented, "method List not implemented")
}

func (UnimplementedLedgerServer) Mutate(context.Context, *structpb.Struct) (*structpb.Value, error) {
	return nil, status.Error(codes.Unimplemented, "method Mutate not implemented")
}

func (UnimplementedLedgerServer) Health(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Health not implemented")
}

func (UnimplementedLedgerServer) Summary(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Summary not implemented")
}

func RegisterLedgerServer(s grpc.ServiceRegistrar, srv LedgerServer) {
	s.RegisterService(&ledgerServiceDesc, srv)
}

func unary[Req any](
	method string,
	call func(LedgerServer, context.Context, *Req) (interface{}, error),
) func(interface{}, context.Context, func(interface{}) error, grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(LedgerServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(LedgerServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var ledgerServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LedgerServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "List",
			Handler: unary(ListMethod, func(s LedgerServer, ctx context.Context, in *structpb.Struct) (interface{}, error) {
				return s.List(ctx, in)
			}),
		},
		{
			MethodName: "Mutate",
			Handler: unary(MutateMethod, func(s LedgerServer, ctx context.Context, in *structpb.Struct) (interface{}, error) {
				return s.Mutate(ctx, in)
			}),
		},
		{
			MethodName: "Health",
			Handler: unary(HealthMethod, func(s LedgerServer, ctx context.Context, in *emptypb.Empty) (interface{}, error) {
				return s.Health(ctx, in)
			}),
		},
		{
			MethodName: "Summary",
			Handler: unary(SummaryMethod, func(s LedgerServer, ctx context.Context, in *emptypb.Empty) (interface{}, error) {
				return s.Summary(ctx, in)
			}),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "fishstock/v1/ledger.proto",
}

type LedgerClient interface {
	List(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Value, error)
	Mutate(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Value, error)
	Health(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	Summary(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type ledgerClient struct {
	cc grpc.ClientConnInterface
}

func NewLedgerClient(cc grpc.ClientConnInterface) LedgerClient {
	return &ledgerClient{cc: cc}
}

func (c *ledgerClient) List(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Value, error) {
	out := new(structpb.Value)
	if err := c.cc.Invoke(ctx, ListMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ledgerClient) Mutate(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Value, error) {
	out := new(structpb.Value)
	if err := c.cc.Invoke(ctx, MutateMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ledgerClient) Health(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, HealthMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ledgerClient) Summary(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, SummaryMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
