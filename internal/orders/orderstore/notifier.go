package orderstore

import (
	"log/slog"
)

// Notifier surfaces user visible outcomes of store operations.
type Notifier interface {
	Success(message string)
	Failure(message string, err error)
}

// LogNotifier writes notices to a structured logger.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) Success(message string) {
	n.logger().Info(message)
}

func (n LogNotifier) Failure(message string, err error) {
	n.logger().Error(message, "error", err)
}

func (n LogNotifier) logger() *slog.Logger {
	if n.Logger == nil {
		return slog.Default()
	}
	return n.Logger
}

const (
	noticeAdded        = "Order added!"
	noticeCompleted    = "Order completed!"
	noticeRemoved      = "Order removed!"
	noticeAddFailed    = "Failed to add order."
	noticeUpdateFailed = "Failed to update status."
	noticeRemoveFailed = "Failed to remove order."
	noticeLoadFailed   = "Failed to load orders."
)
