package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rl1809/fishstock/internal/core/aggregate"
	"github.com/rl1809/fishstock/internal/core/domain"
	"github.com/rl1809/fishstock/internal/port"
)

type TransactionService struct {
	repo   port.TransactionRepository
	logger logrus.FieldLogger
	now    func() time.Time
}

func NewTransactionService(repo port.TransactionRepository, logger logrus.FieldLogger) *TransactionService {
	return &TransactionService{
		repo:   repo,
		logger: logger.WithField("collection", "transactions"),
		now:    time.Now,
	}
}

func (s *TransactionService) List(ctx context.Context, filter aggregate.TransactionFilter) ([]domain.Transaction, error) {
	txs, err := s.repo.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return aggregate.FilterTransactions(txs, filter), nil
}

// Add records a sale as given. Stock is not touched here; the client-side
// store owns deduction.
func (s *TransactionService) Add(ctx context.Context, tx domain.Transaction) (domain.Transaction, error) {
	tx.ID = 0
	tx = tx.Normalize(s.now())
	if err := tx.Validate(); err != nil {
		return domain.Transaction{}, fmt.Errorf("%w: %w", ErrInvalidTransaction, err)
	}

	created, err := s.repo.AddTransaction(ctx, tx)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("add transaction: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"id":     created.ID,
		"item":   created.Item,
		"qty":    created.Qty,
		"status": created.Status,
	}).Info("transaction added")
	return created, nil
}

// Update replaces the stored record with tx as sent. Defaults only apply on Add,
// so an empty status is rejected and a missing date stays missing.
func (s *TransactionService) Update(ctx context.Context, tx domain.Transaction) error {
	if err := tx.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTransaction, err)
	}

	if err := s.repo.UpdateTransaction(ctx, tx); err != nil {
		return fmt.Errorf("update transaction %d: %w", tx.ID, err)
	}

	s.logger.WithFields(logrus.Fields{"id": tx.ID, "status": tx.Status}).Info("transaction updated")
	return nil
}

func (s *TransactionService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}

	s.logger.WithField("id", id).Info("transaction deleted")
	return nil
}
