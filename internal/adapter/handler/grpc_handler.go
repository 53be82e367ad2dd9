package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/rl1809/fishstock/internal/adapter/handler/pb"
	"github.com/rl1809/fishstock/internal/auth"
)

type GRPCHandler struct {
	pb.UnimplementedLedgerServer
	http *HTTPHandler
}

// NewGRPCHandler serves the same services as the HTTP handler.
func NewGRPCHandler(h *HTTPHandler) *GRPCHandler {
	return &GRPCHandler{http: h}
}

func (g *GRPCHandler) collection(name string) (collection, error) {
	switch name {
	case "inventory":
		return g.http.inventory, nil
	case "transactions":
		return g.http.transactions, nil
	}
	return nil, status.Errorf(codes.InvalidArgument, "unknown collection %q", name)
}

func (g *GRPCHandler) List(ctx context.Context, req *structpb.Struct) (*structpb.Value, error) {
	fields := req.GetFields()
	c, err := g.collection(fields["collection"].GetStringValue())
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	for _, key := range []string{"q", "status", "date"} {
		if v := fields[key].GetStringValue(); v != "" {
			query.Set(key, v)
		}
	}

	records, err := c.list(ctx, query)
	if err != nil {
		return nil, g.toStatus(c.name(), err)
	}
	return toValue(records)
}

func (g *GRPCHandler) Mutate(ctx context.Context, req *structpb.Struct) (*structpb.Value, error) {
	c, err := g.collection(req.GetFields()["collection"].GetStringValue())
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(req.AsMap())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, msgInvalidBody)
	}
	var mutation MutationRequest
	if err := json.Unmarshal(raw, &mutation); err != nil {
		return nil, status.Error(codes.InvalidArgument, msgInvalidBody)
	}

	result, err := dispatch(ctx, c, mutation)
	if err != nil {
		return nil, g.toStatus(c.name(), err)
	}
	return toValue(result)
}

func (g *GRPCHandler) Health(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return toStruct(g.http.healthStatus(ctx))
}

func (g *GRPCHandler) Summary(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	summary, err := g.http.reports.Summary(ctx)
	if err != nil {
		return nil, g.toStatus("stats", err)
	}
	return toStruct(summary)
}

func (g *GRPCHandler) toStatus(name string, err error) error {
	if isBadRequest(err) {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	g.http.logger.WithFields(logrus.Fields{"collection": name, "transport": "grpc"}).WithError(err).Error("backend failure")
	return status.Error(codes.Internal, err.Error())
}

// toValue converts any JSON-encodable value into a protobuf Value.
func toValue(v interface{}) (*structpb.Value, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	var generic interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	value, err := structpb.NewValue(generic)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return value, nil
}

func toStruct(v interface{}) (*structpb.Struct, error) {
	value, err := toValue(v)
	if err != nil {
		return nil, err
	}
	s := value.GetStructValue()
	if s == nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("encode response: %T is not an object", v))
	}
	return s, nil
}

// TokenInterceptor requires a valid bearer token in the authorization
// metadata for Mutate calls.
func TokenInterceptor(verifier *auth.Verifier) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if info.FullMethod != pb.MutateMethod {
			return handler(ctx, req)
		}

		var header string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if values := md.Get("authorization"); len(values) > 0 {
				header = values[0]
			}
		}

		token, err := auth.FromHeader(header)
		if err == nil {
			_, err = verifier.Verify(token)
		}
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, err.Error())
		}
		return handler(ctx, req)
	}
}
