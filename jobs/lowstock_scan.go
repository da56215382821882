package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hibiken/asynq"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/progarden/garden-crm/internal/inventory"
)

// ItemSource lists items sitting at or below their restock level.
type ItemSource interface {
	ListLowStock(ctx context.Context) ([]inventory.Item, error)
}

// EmailQueue enqueues outgoing mail.
type EmailQueue interface {
	EnqueueSendEmail(ctx context.Context, payload SendEmailPayload) error
}

// NewLowStockScanHandler returns the asynq handler for TaskTypeLowStockScan.
// When any items need restocking it queues a single alert email to the
// configured recipient.
func NewLowStockScanHandler(logger *slog.Logger, items ItemSource, queue EmailQueue, alertEmail string) asynq.HandlerFunc {
	printer := message.NewPrinter(language.English)
	return func(ctx context.Context, t *asynq.Task) error {
		low, err := items.ListLowStock(ctx)
		if err != nil {
			logger.Error("low stock scan", slog.Any("error", err))
			return err
		}
		if len(low) == 0 {
			logger.Info("low stock scan clean")
			return nil
		}
		if alertEmail == "" {
			logger.Warn("low stock detected but no alert recipient configured",
				slog.Int("items", len(low)))
			return nil
		}

		var b strings.Builder
		b.WriteString("The following items are at or below their restock level:\n\n")
		for _, item := range low {
			b.WriteString(printer.Sprintf("- %s: %d %s in stock (restock at %d), selling price %.2f\n",
				item.ItemName, item.QuantityInStock, unitOrDefault(item.Unit),
				item.RestockLevel, item.SellingPrice))
		}
		payload := SendEmailPayload{
			To:      alertEmail,
			Subject: fmt.Sprintf("Low stock alert: %d item(s) need restocking", len(low)),
			Body:    b.String(),
		}
		if err := queue.EnqueueSendEmail(ctx, payload); err != nil {
			return err
		}
		logger.Info("low stock alert queued", slog.Int("items", len(low)))
		return nil
	}
}

func unitOrDefault(unit string) string {
	if unit == "" {
		return "unit(s)"
	}
	return unit
}
