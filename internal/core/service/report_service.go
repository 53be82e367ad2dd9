package service

import (
	"context"
	"fmt"

	"github.com/rl1809/fishstock/internal/core/aggregate"
	"github.com/rl1809/fishstock/internal/port"
)

type ReportService struct {
	inventory    port.InventoryRepository
	transactions port.TransactionRepository
}

func NewReportService(inventory port.InventoryRepository, transactions port.TransactionRepository) *ReportService {
	return &ReportService{inventory: inventory, transactions: transactions}
}

func (s *ReportService) Summary(ctx context.Context) (aggregate.Summary, error) {
	items, err := s.inventory.ListInventory(ctx)
	if err != nil {
		return aggregate.Summary{}, fmt.Errorf("list inventory: %w", err)
	}
	txs, err := s.transactions.ListTransactions(ctx)
	if err != nil {
		return aggregate.Summary{}, fmt.Errorf("list transactions: %w", err)
	}
	return aggregate.Summarize(items, txs), nil
}
