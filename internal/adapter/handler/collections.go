package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"

	"github.com/rl1809/fishstock/internal/core/aggregate"
	"github.com/rl1809/fishstock/internal/core/domain"
	"github.com/rl1809/fishstock/internal/core/service"
)

const (
	ActionAdd    = "add"
	ActionUpdate = "update"
	ActionDelete = "delete"

	msgUnknownAction   = "Unknown action"
	msgInvalidBody     = "Invalid request body"
	msgBodyTooLarge    = "Request body too large"
	msgInvalidItem     = "Invalid item"
	msgInvalidTx       = "Invalid transaction"
	msgMethodForbidden = "Method not allowed"
)

// MutationRequest is the POST body shared by both collections. Inventory
// records travel in Item, transactions in Tx.
type MutationRequest struct {
	Action string          `json:"action"`
	Item   json.RawMessage `json:"item,omitempty"`
	Tx     json.RawMessage `json:"tx,omitempty"`
	ID     int64           `json:"id,omitempty"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// badRequest is a client mistake; everything else is a backend failure.
type badRequest struct {
	message string
}

func (e *badRequest) Error() string { return e.message }

func invalid(prefix string, err error) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return &badRequest{message: prefix + ": " + verr.Message}
	}
	return &badRequest{message: prefix}
}

func isBadRequest(err error) bool {
	var br *badRequest
	return errors.As(err, &br)
}

// collection adapts one service to the generic list/add/update/delete surface.
type collection interface {
	name() string
	list(ctx context.Context, query url.Values) (interface{}, error)
	payload(req MutationRequest) json.RawMessage
	add(ctx context.Context, raw json.RawMessage) (interface{}, error)
	update(ctx context.Context, raw json.RawMessage) error
	remove(ctx context.Context, id int64) error
}

func dispatch(ctx context.Context, c collection, req MutationRequest) (interface{}, error) {
	switch req.Action {
	case ActionAdd:
		return c.add(ctx, c.payload(req))
	case ActionUpdate:
		if err := c.update(ctx, c.payload(req)); err != nil {
			return nil, err
		}
		return OKResponse{OK: true}, nil
	case ActionDelete:
		if err := c.remove(ctx, req.ID); err != nil {
			return nil, err
		}
		return OKResponse{OK: true}, nil
	}
	return nil, &badRequest{message: msgUnknownAction}
}

func decodeRecord(raw json.RawMessage, dst interface{}) bool {
	if len(raw) == 0 || string(raw) == "null" {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

type inventoryCollection struct {
	svc *service.InventoryService
}

func (c inventoryCollection) name() string { return "inventory" }

func (c inventoryCollection) payload(req MutationRequest) json.RawMessage { return req.Item }

func (c inventoryCollection) list(ctx context.Context, query url.Values) (interface{}, error) {
	return c.svc.List(ctx, query.Get("q"))
}

func (c inventoryCollection) add(ctx context.Context, raw json.RawMessage) (interface{}, error) {
	var item domain.InventoryItem
	if !decodeRecord(raw, &item) {
		return nil, &badRequest{message: msgInvalidItem}
	}
	created, err := c.svc.Add(ctx, item)
	if errors.Is(err, service.ErrInvalidItem) {
		return nil, invalid(msgInvalidItem, err)
	}
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (c inventoryCollection) update(ctx context.Context, raw json.RawMessage) error {
	var item domain.InventoryItem
	if !decodeRecord(raw, &item) {
		return &badRequest{message: msgInvalidItem}
	}
	err := c.svc.Update(ctx, item)
	if errors.Is(err, service.ErrInvalidItem) {
		return invalid(msgInvalidItem, err)
	}
	return err
}

func (c inventoryCollection) remove(ctx context.Context, id int64) error {
	return c.svc.Delete(ctx, id)
}

type transactionCollection struct {
	svc *service.TransactionService
}

func (c transactionCollection) name() string { return "transactions" }

func (c transactionCollection) payload(req MutationRequest) json.RawMessage { return req.Tx }

func (c transactionCollection) list(ctx context.Context, query url.Values) (interface{}, error) {
	return c.svc.List(ctx, aggregate.TransactionFilter{
		Status: domain.Status(query.Get("status")),
		Date:   query.Get("date"),
		Item:   query.Get("q"),
	})
}

func (c transactionCollection) add(ctx context.Context, raw json.RawMessage) (interface{}, error) {
	var tx domain.Transaction
	if !decodeRecord(raw, &tx) {
		return nil, &badRequest{message: msgInvalidTx}
	}
	created, err := c.svc.Add(ctx, tx)
	if errors.Is(err, service.ErrInvalidTransaction) {
		return nil, invalid(msgInvalidTx, err)
	}
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (c transactionCollection) update(ctx context.Context, raw json.RawMessage) error {
	var tx domain.Transaction
	if !decodeRecord(raw, &tx) {
		return &badRequest{message: msgInvalidTx}
	}
	err := c.svc.Update(ctx, tx)
	if errors.Is(err, service.ErrInvalidTransaction) {
		return invalid(msgInvalidTx, err)
	}
	return err
}

func (c transactionCollection) remove(ctx context.Context, id int64) error {
	return c.svc.Delete(ctx, id)
}
