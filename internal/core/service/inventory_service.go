package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/rl1809/fishstock/internal/core/aggregate"
	"github.com/rl1809/fishstock/internal/core/domain"
	"github.com/rl1809/fishstock/internal/port"
)

type InventoryService struct {
	repo   port.InventoryRepository
	logger logrus.FieldLogger
}

func NewInventoryService(repo port.InventoryRepository, logger logrus.FieldLogger) *InventoryService {
	return &InventoryService{
		repo:   repo,
		logger: logger.WithField("collection", "inventory"),
	}
}

// List returns items whose name contains query, or every item if query is empty.
func (s *InventoryService) List(ctx context.Context, query string) ([]domain.InventoryItem, error) {
	items, err := s.repo.ListInventory(ctx)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	return aggregate.FilterInventory(items, query), nil
}

func (s *InventoryService) Add(ctx context.Context, item domain.InventoryItem) (domain.InventoryItem, error) {
	item.ID = 0
	item.Name = strings.TrimSpace(item.Name)
	if err := item.Validate(); err != nil {
		return domain.InventoryItem{}, fmt.Errorf("%w: %w", ErrInvalidItem, err)
	}

	created, err := s.repo.AddInventory(ctx, item)
	if err != nil {
		return domain.InventoryItem{}, fmt.Errorf("add inventory: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"id": created.ID, "name": created.Name, "qty": created.Qty}).Info("inventory item added")
	return created, nil
}

func (s *InventoryService) Update(ctx context.Context, item domain.InventoryItem) error {
	item.Name = strings.TrimSpace(item.Name)
	if err := item.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidItem, err)
	}

	if err := s.repo.UpdateInventory(ctx, item); err != nil {
		return fmt.Errorf("update inventory %d: %w", item.ID, err)
	}

	s.logger.WithFields(logrus.Fields{"id": item.ID, "qty": item.Qty}).Info("inventory item updated")
	return nil
}

func (s *InventoryService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeleteInventory(ctx, id); err != nil {
		return fmt.Errorf("delete inventory %d: %w", id, err)
	}

	s.logger.WithField("id", id).Info("inventory item deleted")
	return nil
}
