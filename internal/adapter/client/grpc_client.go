package client

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/rl1809/fishstock/internal/adapter/handler/pb"
	"github.com/rl1809/fishstock/internal/core/domain"
)

// GRPCClient talks to the fishstock.v1.Ledger service.
type GRPCClient struct {
	ledger pb.LedgerClient
	token  string
}

func NewGRPCClient(cc grpc.ClientConnInterface, token string) *GRPCClient {
	return &GRPCClient{ledger: pb.NewLedgerClient(cc), token: token}
}

// Dial opens a plaintext connection to addr.
func Dial(addr string) (*grpc.ClientConn, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return conn, nil
}

func (c *GRPCClient) ListInventory(ctx context.Context) ([]domain.InventoryItem, error) {
	items := []domain.InventoryItem{}
	if err := c.list(ctx, "inventory", &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *GRPCClient) AddInventory(ctx context.Context, item domain.InventoryItem) (domain.InventoryItem, error) {
	var created domain.InventoryItem
	if err := c.mutate(ctx, "inventory", mutation{Action: "add", Item: item}, &created); err != nil {
		return domain.InventoryItem{}, err
	}
	return created, nil
}

func (c *GRPCClient) UpdateInventory(ctx context.Context, item domain.InventoryItem) error {
	return c.mutate(ctx, "inventory", mutation{Action: "update", Item: item}, &okResponse{})
}

func (c *GRPCClient) DeleteInventory(ctx context.Context, id int64) error {
	return c.mutate(ctx, "inventory", mutation{Action: "delete", ID: id}, &okResponse{})
}

func (c *GRPCClient) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	txs := []domain.Transaction{}
	if err := c.list(ctx, "transactions", &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

func (c *GRPCClient) AddTransaction(ctx context.Context, tx domain.Transaction) (domain.Transaction, error) {
	var created domain.Transaction
	if err := c.mutate(ctx, "transactions", mutation{Action: "add", Tx: tx}, &created); err != nil {
		return domain.Transaction{}, err
	}
	return created, nil
}

func (c *GRPCClient) UpdateTransaction(ctx context.Context, tx domain.Transaction) error {
	return c.mutate(ctx, "transactions", mutation{Action: "update", Tx: tx}, &okResponse{})
}

func (c *GRPCClient) DeleteTransaction(ctx context.Context, id int64) error {
	return c.mutate(ctx, "transactions", mutation{Action: "delete", ID: id}, &okResponse{})
}

// Health returns the server's backend name and ping result.
func (c *GRPCClient) Health(ctx context.Context) (map[string]interface{}, error) {
	resp, err := c.ledger.Health(c.outgoing(ctx), &emptypb.Empty{})
	if err != nil {
		return nil, fromStatus(err)
	}
	return resp.AsMap(), nil
}

func (c *GRPCClient) list(ctx context.Context, collection string, out interface{}) error {
	req, err := structpb.NewStruct(map[string]interface{}{"collection": collection})
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	resp, err := c.ledger.List(c.outgoing(ctx), req)
	if err != nil {
		return fromStatus(err)
	}
	return fromValue(resp, out)
}

func (c *GRPCClient) mutate(ctx context.Context, collection string, m mutation, out interface{}) error {
	fields, err := toFields(m)
	if err != nil {
		return err
	}
	fields["collection"] = collection

	req, err := structpb.NewStruct(fields)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	resp, err := c.ledger.Mutate(c.outgoing(ctx), req)
	if err != nil {
		return fromStatus(err)
	}
	return fromValue(resp, out)
}

func (c *GRPCClient) outgoing(ctx context.Context) context.Context {
	if c.token == "" {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+c.token)
}

func toFields(v interface{}) (map[string]interface{}, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	fields := map[string]interface{}{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return fields, nil
}

// fromValue goes through encoding/json so whole-number doubles decode into
// integer fields.
func fromValue(v *structpb.Value, out interface{}) error {
	raw, err := json.Marshal(v.AsInterface())
	if err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
