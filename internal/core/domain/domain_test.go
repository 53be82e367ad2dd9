package domain

import (
	"errors"
	"testing"
	"time"
)

func TestInventoryItemValidate(t *testing.T) {
	cases := []struct {
		name  string
		item  InventoryItem
		field string
	}{
		{"valid", InventoryItem{Name: "King Jelly", Qty: 0, BuyPrice: 0}, ""},
		{"blank name", InventoryItem{Name: "  ", Qty: 1}, "name"},
		{"negative qty", InventoryItem{Name: "X", Qty: -1}, "qty"},
		{"negative price", InventoryItem{Name: "X", BuyPrice: -5}, "buyPrice"},
	}

	for _, tc := range cases {
		err := tc.item.Validate()
		if tc.field == "" {
			if err != nil {
				t.Errorf("%s: unexpected error: %v", tc.name, err)
			}
			continue
		}
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("%s: expected ValidationError, got %v", tc.name, err)
		}
		if verr.Field != tc.field {
			t.Errorf("%s: expected field %s, got %s", tc.name, tc.field, verr.Field)
		}
	}
}

func TestTransactionValidate(t *testing.T) {
	valid := Transaction{Item: "Megalodon", Qty: 1, Price: 20000, Status: StatusWaiting, Date: "2025-12-02"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := map[string]Transaction{
		"item":   {Qty: 1, Price: 1, Status: StatusPaid},
		"qty":    {Item: "X", Qty: 0, Price: 1, Status: StatusPaid},
		"price":  {Item: "X", Qty: 1, Price: 0, Status: StatusPaid},
		"status": {Item: "X", Qty: 1, Price: 1, Status: "Refunded"},
		"date":   {Item: "X", Qty: 1, Price: 1, Status: StatusPaid, Date: "12/02/2025"},
	}
	for field, tx := range bad {
		var verr *ValidationError
		if err := tx.Validate(); !errors.As(err, &verr) || verr.Field != field {
			t.Errorf("expected ValidationError on %s, got %v", field, err)
		}
	}
}

func TestTransactionNormalize(t *testing.T) {
	now := time.Date(2025, 12, 1, 15, 0, 0, 0, time.UTC)
	tx := Transaction{Item: " King Jelly ", Qty: 2, Price: 10000}.Normalize(now)

	if tx.Status != StatusPaid {
		t.Errorf("expected default status Paid, got %s", tx.Status)
	}
	if tx.Date != "2025-12-01" {
		t.Errorf("expected date 2025-12-01, got %s", tx.Date)
	}
	if tx.Item != "King Jelly" {
		t.Errorf("expected trimmed item, got %q", tx.Item)
	}

	kept := Transaction{Item: "X", Status: StatusWaiting, Date: "2025-01-01"}.Normalize(now)
	if kept.Status != StatusWaiting || kept.Date != "2025-01-01" {
		t.Errorf("expected explicit fields kept, got %+v", kept)
	}
}

func TestStatusToggle(t *testing.T) {
	if StatusPaid.Toggle() != StatusWaiting {
		t.Error("expected Paid to toggle to Waiting")
	}
	if StatusWaiting.Toggle() != StatusPaid {
		t.Error("expected Waiting to toggle to Paid")
	}
}

func TestInventoryItemMatches(t *testing.T) {
	item := InventoryItem{Name: "King Jelly"}
	if !item.Matches("king jelly") {
		t.Error("expected case-insensitive match")
	}
	if item.Matches("King") {
		t.Error("expected no partial match")
	}
}

func TestAmounts(t *testing.T) {
	if got := (Transaction{Qty: 2, Price: 10000}).Amount(); got != 20000 {
		t.Errorf("expected amount 20000, got %d", got)
	}
	if got := (InventoryItem{Qty: 50, BuyPrice: 5000}).Value(); got != 250000 {
		t.Errorf("expected value 250000, got %d", got)
	}
}
