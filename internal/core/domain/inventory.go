package domain

import "strings"

type InventoryItem struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Qty      int    `json:"qty"`
	BuyPrice int64  `json:"buyPrice"`
}

// Value is the stock's worth at purchase price.
func (i InventoryItem) Value() int64 {
	return int64(i.Qty) * i.BuyPrice
}

// Matches reports whether name refers to this item, ignoring case.
func (i InventoryItem) Matches(name string) bool {
	return strings.EqualFold(strings.TrimSpace(i.Name), strings.TrimSpace(name))
}

func (i InventoryItem) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	if i.Qty < 0 {
		return &ValidationError{Field: "qty", Message: "qty must not be negative"}
	}
	if i.BuyPrice < 0 {
		return &ValidationError{Field: "buyPrice", Message: "buyPrice must not be negative"}
	}
	return nil
}
