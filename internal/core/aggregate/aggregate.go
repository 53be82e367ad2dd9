// Package aggregate derives dashboard figures from the inventory and
// transaction collections. Nothing here is cached; callers recompute on
// every read.
package aggregate

import (
	"sort"
	"strings"

	"github.com/rl1809/fishstock/internal/core/domain"
)

type Stats struct {
	TotalRevenue    int64 `json:"totalRevenue"`
	TotalPaid       int64 `json:"totalPaid"`
	TotalWaiting    int64 `json:"totalWaiting"`
	TotalAssetValue int64 `json:"totalAssetValue"`
}

type ItemRevenue struct {
	Item    string `json:"item"`
	Qty     int64  `json:"qty"`
	Revenue int64  `json:"revenue"`
}

type Summary struct {
	Stats
	Items []ItemRevenue `json:"items"`
}

func Compute(inventory []domain.InventoryItem, txs []domain.Transaction) Stats {
	var s Stats
	for _, tx := range txs {
		amount := tx.Amount()
		s.TotalRevenue += amount
		switch tx.Status {
		case domain.StatusPaid:
			s.TotalPaid += amount
		case domain.StatusWaiting:
			s.TotalWaiting += amount
		}
	}
	s.TotalAssetValue = AssetValue(inventory)
	return s
}

func AssetValue(inventory []domain.InventoryItem) int64 {
	var total int64
	for _, item := range inventory {
		total += item.Value()
	}
	return total
}

// RollupByItem groups transactions by their exact item string, highest
// revenue first. Ties keep the order in which items were first seen.
func RollupByItem(txs []domain.Transaction) []ItemRevenue {
	index := make(map[string]int)
	rows := make([]ItemRevenue, 0)

	for _, tx := range txs {
		i, ok := index[tx.Item]
		if !ok {
			i = len(rows)
			index[tx.Item] = i
			rows = append(rows, ItemRevenue{Item: tx.Item})
		}
		rows[i].Qty += int64(tx.Qty)
		rows[i].Revenue += tx.Amount()
	}

	sort.SliceStable(rows, func(a, b int) bool {
		return rows[a].Revenue > rows[b].Revenue
	})
	return rows
}

func Summarize(inventory []domain.InventoryItem, txs []domain.Transaction) Summary {
	return Summary{
		Stats: Compute(inventory, txs),
		Items: RollupByItem(txs),
	}
}

// StatusAll is the sale table's "show everything" choice; it filters nothing.
const StatusAll domain.Status = "All"

// TransactionFilter fields are ignored when zero.
type TransactionFilter struct {
	Status domain.Status
	Date   string
	Item   string
}

func (f TransactionFilter) match(tx domain.Transaction) bool {
	if f.Status != "" && f.Status != StatusAll && tx.Status != f.Status {
		return false
	}
	if f.Date != "" && tx.Date != f.Date {
		return false
	}
	if f.Item != "" && !containsFold(tx.Item, f.Item) {
		return false
	}
	return true
}

func FilterTransactions(txs []domain.Transaction, f TransactionFilter) []domain.Transaction {
	out := make([]domain.Transaction, 0, len(txs))
	for _, tx := range txs {
		if f.match(tx) {
			out = append(out, tx)
		}
	}
	return out
}

func FilterInventory(items []domain.InventoryItem, query string) []domain.InventoryItem {
	out := make([]domain.InventoryItem, 0, len(items))
	for _, item := range items {
		if query == "" || containsFold(item.Name, query) {
			out = append(out, item)
		}
	}
	return out
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
