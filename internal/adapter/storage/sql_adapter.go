package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/rl1809/fishstock/internal/core/domain"
)

type Dialect string

const (
	DialectMySQL    Dialect = "mysql"
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS inventory (
		id BIGINT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		qty INT NOT NULL DEFAULT 0,
		buy_price BIGINT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id BIGINT PRIMARY KEY,
		item VARCHAR(255) NOT NULL,
		qty INT NOT NULL,
		price BIGINT NOT NULL,
		status VARCHAR(16) NOT NULL,
		sale_date VARCHAR(10) NOT NULL DEFAULT ''
	)`,
}

// SQLAdapter is the relational backend. Every call is a single autocommit
// statement.
type SQLAdapter struct {
	db      *sql.DB
	dialect Dialect
	ids     *IDGenerator
}

func NewSQLAdapter(db *sql.DB, dialect Dialect, ids *IDGenerator) *SQLAdapter {
	return &SQLAdapter{db: db, dialect: dialect, ids: ids}
}

// Migrate creates the tables if they are missing and seeds the id generator
// from existing rows. Safe to run repeatedly.
func (m *SQLAdapter) Migrate(ctx context.Context) error {
	if err := m.ensureSchema(ctx); err != nil {
		return err
	}

	for _, table := range []string{"inventory", "transactions"} {
		var maxID int64
		err := m.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(id), 0) FROM `+table).Scan(&maxID)
		if err != nil {
			return fmt.Errorf("seed ids from %s: %w", table, err)
		}
		m.ids.Observe(maxID)
	}
	return nil
}

// ensureSchema runs before every query so a table dropped or never created
// behind the adapter's back is recreated on the next call.
func (m *SQLAdapter) ensureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// rebind rewrites ? placeholders for dialects that number them.
func (m *SQLAdapter) rebind(query string) string {
	if m.dialect != DialectPostgres {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (m *SQLAdapter) ListInventory(ctx context.Context) ([]domain.InventoryItem, error) {
	if err := m.ensureSchema(ctx); err != nil {
		return nil, err
	}

	rows, err := m.db.QueryContext(ctx, `SELECT id, name, qty, buy_price FROM inventory ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query inventory: %w", err)
	}
	defer rows.Close()

	items := make([]domain.InventoryItem, 0)
	for rows.Next() {
		var item domain.InventoryItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Qty, &item.BuyPrice); err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (m *SQLAdapter) AddInventory(ctx context.Context, item domain.InventoryItem) (domain.InventoryItem, error) {
	if err := m.ensureSchema(ctx); err != nil {
		return domain.InventoryItem{}, err
	}

	item.ID = m.ids.Next()

	_, err := m.db.ExecContext(ctx, m.rebind(`
		INSERT INTO inventory (id, name, qty, buy_price) VALUES (?, ?, ?, ?)`),
		item.ID, item.Name, item.Qty, item.BuyPrice,
	)
	if err != nil {
		return domain.InventoryItem{}, fmt.Errorf("insert inventory: %w", err)
	}
	return item, nil
}

func (m *SQLAdapter) UpdateInventory(ctx context.Context, item domain.InventoryItem) error {
	if err := m.ensureSchema(ctx); err != nil {
		return err
	}

	_, err := m.db.ExecContext(ctx, m.rebind(`
		UPDATE inventory SET name = ?, qty = ?, buy_price = ? WHERE id = ?`),
		item.Name, item.Qty, item.BuyPrice, item.ID,
	)
	if err != nil {
		return fmt.Errorf("update inventory: %w", err)
	}
	return nil
}

func (m *SQLAdapter) DeleteInventory(ctx context.Context, id int64) error {
	if err := m.ensureSchema(ctx); err != nil {
		return err
	}

	if _, err := m.db.ExecContext(ctx, m.rebind(`DELETE FROM inventory WHERE id = ?`), id); err != nil {
		return fmt.Errorf("delete inventory: %w", err)
	}
	return nil
}

func (m *SQLAdapter) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	if err := m.ensureSchema(ctx); err != nil {
		return nil, err
	}

	rows, err := m.db.QueryContext(ctx, `
		SELECT id, item, qty, price, status, sale_date FROM transactions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	txs := make([]domain.Transaction, 0)
	for rows.Next() {
		var tx domain.Transaction
		var status string
		if err := rows.Scan(&tx.ID, &tx.Item, &tx.Qty, &tx.Price, &status, &tx.Date); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx.Status = domain.Status(status)
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

func (m *SQLAdapter) AddTransaction(ctx context.Context, tx domain.Transaction) (domain.Transaction, error) {
	if err := m.ensureSchema(ctx); err != nil {
		return domain.Transaction{}, err
	}

	tx.ID = m.ids.Next()

	_, err := m.db.ExecContext(ctx, m.rebind(`
		INSERT INTO transactions (id, item, qty, price, status, sale_date) VALUES (?, ?, ?, ?, ?, ?)`),
		tx.ID, tx.Item, tx.Qty, tx.Price, string(tx.Status), tx.Date,
	)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	return tx, nil
}

func (m *SQLAdapter) UpdateTransaction(ctx context.Context, tx domain.Transaction) error {
	if err := m.ensureSchema(ctx); err != nil {
		return err
	}

	_, err := m.db.ExecContext(ctx, m.rebind(`
		UPDATE transactions SET item = ?, qty = ?, price = ?, status = ?, sale_date = ? WHERE id = ?`),
		tx.Item, tx.Qty, tx.Price, string(tx.Status), tx.Date, tx.ID,
	)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return nil
}

func (m *SQLAdapter) DeleteTransaction(ctx context.Context, id int64) error {
	if err := m.ensureSchema(ctx); err != nil {
		return err
	}

	if _, err := m.db.ExecContext(ctx, m.rebind(`DELETE FROM transactions WHERE id = ?`), id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}

func (m *SQLAdapter) Ping(ctx context.Context) error {
	return m.db.PingContext(ctx)
}

func (m *SQLAdapter) Close() error {
	return m.db.Close()
}
