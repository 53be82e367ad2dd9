package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rl1809/fishstock/internal/core/aggregate"
	"github.com/rl1809/fishstock/internal/core/domain"
	"github.com/rl1809/fishstock/internal/core/store"
)

var errUsage = errors.New("unknown command, see -h")

func run(ctx context.Context, s *store.Store, out io.Writer, args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	switch args[0] {
	case "summary":
		printSummary(out, s)
		return nil
	case "stock":
		if len(args) < 2 {
			return errUsage
		}
		return runStock(ctx, s, out, args[1], args[2:])
	case "sale":
		if len(args) < 2 {
			return errUsage
		}
		return runSale(ctx, s, out, args[1], args[2:])
	}
	return errUsage
}

func runStock(ctx context.Context, s *store.Store, out io.Writer, cmd string, args []string) error {
	fs := flag.NewFlagSet("stock "+cmd, flag.ContinueOnError)
	id := fs.Int64("id", 0, "item id")
	name := fs.String("name", "", "item name")
	qty := fs.Int("qty", -1, "quantity on hand")
	price := fs.Int64("price", -1, "buy price per unit")
	query := fs.String("q", "", "name filter")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch cmd {
	case "list":
		printInventory(out, s.FilterInventory(*query))
		return nil

	case "add":
		item := domain.InventoryItem{Name: *name, Qty: max(*qty, 0), BuyPrice: max(*price, 0)}
		created, err := s.AddInventoryItem(ctx, item)
		if err != nil {
			return err
		}
		printInventory(out, []domain.InventoryItem{created})
		return nil

	case "update":
		item, err := findItem(s, *id)
		if err != nil {
			return err
		}
		if *name != "" {
			item.Name = *name
		}
		if *qty >= 0 {
			item.Qty = *qty
		}
		if *price >= 0 {
			item.BuyPrice = *price
		}
		if err := s.UpdateInventoryItem(ctx, item); err != nil {
			return err
		}
		printInventory(out, []domain.InventoryItem{item})
		return nil

	case "delete":
		if *id == 0 {
			return errors.New("-id is required")
		}
		return s.DeleteInventoryItem(ctx, *id)
	}
	return errUsage
}

func runSale(ctx context.Context, s *store.Store, out io.Writer, cmd string, args []string) error {
	fs := flag.NewFlagSet("sale "+cmd, flag.ContinueOnError)
	id := fs.Int64("id", 0, "transaction id")
	item := fs.String("item", "", "item sold")
	qty := fs.Int("qty", 1, "quantity sold")
	price := fs.Int64("price", 0, "price per unit")
	status := fs.String("status", "", "Paid or Waiting")
	date := fs.String("date", "", "sale date, YYYY-MM-DD")
	query := fs.String("q", "", "item filter")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch cmd {
	case "list":
		printTransactions(out, s.FilterTransactions(aggregate.TransactionFilter{
			Status: domain.Status(*status),
			Date:   *date,
			Item:   *query,
		}))
		return nil

	case "add":
		created, err := s.AddTransaction(ctx, domain.Transaction{
			Item:   *item,
			Qty:    *qty,
			Price:  *price,
			Status: domain.Status(*status),
			Date:   *date,
		})
		if created.ID != 0 {
			printTransactions(out, []domain.Transaction{created})
		}
		return err

	case "toggle":
		tx, err := s.ToggleTransactionStatus(ctx, *id)
		if err != nil {
			return err
		}
		printTransactions(out, []domain.Transaction{tx})
		return nil

	case "delete":
		if *id == 0 {
			return errors.New("-id is required")
		}
		return s.DeleteTransaction(ctx, *id)
	}
	return errUsage
}

func findItem(s *store.Store, id int64) (domain.InventoryItem, error) {
	for _, item := range s.Inventory() {
		if item.ID == id {
			return item, nil
		}
	}
	return domain.InventoryItem{}, fmt.Errorf("item %d: %w", id, domain.ErrNotFound)
}

func printInventory(out io.Writer, items []domain.InventoryItem) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tQTY\tBUY PRICE\tVALUE")
	for _, item := range items {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\n", item.ID, item.Name, item.Qty, item.BuyPrice, item.Value())
	}
	w.Flush()
}

func printTransactions(out io.Writer, txs []domain.Transaction) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tITEM\tQTY\tPRICE\tSTATUS")
	for _, tx := range txs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%s\n", tx.ID, tx.Date, tx.Item, tx.Qty, tx.Price, tx.Status)
	}
	w.Flush()
}

func printSummary(out io.Writer, s *store.Store) {
	stats := s.Stats()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Total revenue\t%d\n", stats.TotalRevenue)
	fmt.Fprintf(w, "Paid\t%d\n", stats.TotalPaid)
	fmt.Fprintf(w, "Waiting\t%d\n", stats.TotalWaiting)
	fmt.Fprintf(w, "Asset value\t%d\n", stats.TotalAssetValue)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "ITEM\tQTY\tREVENUE")
	for _, row := range s.ItemRevenue() {
		fmt.Fprintf(w, "%s\t%d\t%d\n", row.Item, row.Qty, row.Revenue)
	}
	w.Flush()
}
