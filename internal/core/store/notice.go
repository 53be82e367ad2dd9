package store

import "fmt"

type NoticeKind string

const (
	// NoticeStockShortfall: a sale was recorded against an item without enough stock.
	NoticeStockShortfall NoticeKind = "stock_shortfall"
	// NoticeUnmatchedItem: a sale names no inventory item so no stock moved.
	NoticeUnmatchedItem NoticeKind = "unmatched_item"
	// NoticeSyncFailure: a Sync Boundary call failed.
	NoticeSyncFailure NoticeKind = "sync_failure"
)

type Notice struct {
	Kind      NoticeKind
	Item      string
	Requested int
	Available int
	Message   string
}

type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

type discardNotifier struct{}

func (discardNotifier) Notify(Notice) {}

func shortfallNotice(item string, requested, available int) Notice {
	return Notice{
		Kind:      NoticeStockShortfall,
		Item:      item,
		Requested: requested,
		Available: available,
		Message:   fmt.Sprintf("insufficient stock for %s: requested %d, available %d; sale recorded without deduction", item, requested, available),
	}
}

func unmatchedNotice(item string) Notice {
	return Notice{
		Kind:    NoticeUnmatchedItem,
		Item:    item,
		Message: fmt.Sprintf("%s is not in inventory; sale recorded without deduction", item),
	}
}

// SyncError wraps a failed Sync Boundary call.
type SyncError struct {
	Op  string
	Err error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync %s: %v", e.Op, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}
