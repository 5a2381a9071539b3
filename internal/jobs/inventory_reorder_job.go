package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/straye-as/elevator-api/internal/domain"
	"go.uber.org/zap"
)

// InventoryReorderJobName is the scheduler name of the low-stock scan
const InventoryReorderJobName = "inventory-reorder-scan"

// DefaultInventoryScanTimeout bounds a single scan
const DefaultInventoryScanTimeout = 2 * time.Minute

// LowStockLister returns inventory items at or below their reorder level
type LowStockLister interface {
	List(ctx context.Context, lowStockOnly bool) ([]domain.InventoryItemDTO, error)
}

// InventoryReorderJob warns about every item that needs reordering
type InventoryReorderJob struct {
	inventory LowStockLister
	logger    *zap.Logger
}

func NewInventoryReorderJob(inventory LowStockLister, logger *zap.Logger) *InventoryReorderJob {
	return &InventoryReorderJob{
		inventory: inventory,
		logger:    logger,
	}
}

// Run scans inventory once and returns the number of low-stock items
func (j *InventoryReorderJob) Run(ctx context.Context) (int, error) {
	items, err := j.inventory.List(ctx, true)
	if err != nil {
		return 0, fmt.Errorf("failed to list low-stock items: %w", err)
	}

	for _, item := range items {
		j.logger.Warn("inventory item below reorder level",
			zap.Uint("item_id", item.ID),
			zap.String("item_name", item.ItemName),
			zap.Int("quantity", item.Quantity),
			zap.Int("reorder_level", item.ReorderLevel),
		)
	}
	if len(items) > 0 {
		j.logger.Info("inventory reorder scan found low-stock items", zap.Int("count", len(items)))
	}
	return len(items), nil
}

// RegisterInventoryReorderJob adds the scan to the scheduler
func RegisterInventoryReorderJob(scheduler *Scheduler, inventory LowStockLister, logger *zap.Logger, cronExpr string) error {
	job := NewInventoryReorderJob(inventory, logger)
	return scheduler.AddJob(InventoryReorderJobName, cronExpr, DefaultInventoryScanTimeout, func(ctx context.Context) error {
		_, err := job.Run(ctx)
		return err
	})
}
