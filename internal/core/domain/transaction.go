package domain

import (
	"strings"
	"time"
)

// DateLayout is the calendar date format used by Transaction.Date.
const DateLayout = "2006-01-02"

type Status string

const (
	StatusPaid    Status = "Paid"
	StatusWaiting Status = "Waiting"
)

func (s Status) Valid() bool {
	return s == StatusPaid || s == StatusWaiting
}

// Toggle flips Paid and Waiting. Any other value is returned unchanged.
func (s Status) Toggle() Status {
	switch s {
	case StatusPaid:
		return StatusWaiting
	case StatusWaiting:
		return StatusPaid
	}
	return s
}

// Transaction is a recorded sale. Item is free text, not a reference to an
// inventory id, and Price is the unit price captured at sale time.
type Transaction struct {
	ID     int64  `json:"id"`
	Item   string `json:"item"`
	Qty    int    `json:"qty"`
	Price  int64  `json:"price"`
	Status Status `json:"status"`
	Date   string `json:"date"`
}

func (t Transaction) Amount() int64 {
	return int64(t.Qty) * t.Price
}

// Normalize fills the defaults a sale form starts with.
func (t Transaction) Normalize(now time.Time) Transaction {
	t.Item = strings.TrimSpace(t.Item)
	if t.Status == "" {
		t.Status = StatusPaid
	}
	if t.Date == "" {
		t.Date = now.Format(DateLayout)
	}
	return t
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.Item) == "" {
		return &ValidationError{Field: "item", Message: "item is required"}
	}
	if t.Qty < 1 {
		return &ValidationError{Field: "qty", Message: "qty must be at least 1"}
	}
	if t.Price < 1 {
		return &ValidationError{Field: "price", Message: "price must be at least 1"}
	}
	if !t.Status.Valid() {
		return &ValidationError{Field: "status", Message: "status must be Paid or Waiting"}
	}
	if t.Date != "" {
		if _, err := time.Parse(DateLayout, t.Date); err != nil {
			return &ValidationError{Field: "date", Message: "date must be YYYY-MM-DD"}
		}
	}
	return nil
}
