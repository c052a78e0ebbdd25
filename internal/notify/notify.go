package notify

import (
	"context"
	"io"
	"log"

	"storefront/internal/domain"
)

// Sender dispatches best-effort order confirmations. Failures are the
// caller's to log and swallow: an order is already committed by the time a
// confirmation goes out.
type Sender interface {
	OrderConfirmation(ctx context.Context, to string, order domain.Order) error
}

// LogSender writes confirmations to the log instead of sending mail. Used
// when no SMTP server is configured.
type LogSender struct {
	logger *log.Logger
}

func NewLogSender(logger *log.Logger) *LogSender {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &LogSender{logger: logger}
}

func (s *LogSender) OrderConfirmation(_ context.Context, to string, order domain.Order) error {
	s.logger.Printf("order confirmation: to=%s number=%s total_cents=%d", to, order.Number, order.TotalCents)
	return nil
}
