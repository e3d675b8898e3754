package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/fekuna/omnipos-sales-service/internal/model"
	notifdto "github.com/fekuna/omnipos-sales-service/internal/notification/dto"
	"github.com/fekuna/omnipos-sales-service/internal/sale/dto"
	"github.com/fekuna/omnipos-sales-service/internal/setting"
)

const salesMapping = `{
  "mappings": {
    "properties": {
      "id":             {"type": "long"},
      "receipt_number": {"type": "keyword"},
      "sale_date":      {"type": "date"},
      "total_amount":   {"type": "double"},
      "payment_method": {"type": "keyword"},
      "staff_id":       {"type": "long"},
      "staff_name":     {"type": "text"},
      "customer_id":    {"type": "long"},
      "customer_name":  {"type": "text"},
      "notes":          {"type": "text"},
      "part_names":     {"type": "text"}
    }
  }
}`

type trigger struct {
	name string
	fn   func(ctx context.Context, cs *completedSale) error
}

func (uc *saleUseCase) triggers() []trigger {
	return []trigger{
		{"critical_stock", uc.notifyCriticalStock},
		{"sale_completed", uc.notifySaleCompleted},
		{"high_value", uc.notifyHighValue},
		{"milestone", uc.notifyMilestone},
		{"publish_event", uc.publishSaleCompleted},
		{"index_receipt", uc.indexReceipt},
	}
}

// runTriggers fires the post-commit side effects in order. A failing or
// panicking trigger is logged and the rest still run.
func (uc *saleUseCase) runTriggers(ctx context.Context, cs *completedSale) {
	for _, t := range uc.triggers() {
		uc.runTrigger(ctx, t, cs)
	}
}

func (uc *saleUseCase) runTrigger(ctx context.Context, t trigger, cs *completedSale) {
	defer func() {
		if r := recover(); r != nil {
			uc.Logger.Error("sale trigger panicked",
				zap.String("trigger", t.name),
				zap.Int64("sale_id", cs.Sale.ID),
				zap.Any("panic", r),
			)
		}
	}()

	if err := t.fn(ctx, cs); err != nil {
		uc.Logger.Error("sale trigger failed",
			zap.String("trigger", t.name),
			zap.Int64("sale_id", cs.Sale.ID),
			zap.Error(err),
		)
	}
}

func (uc *saleUseCase) notifyCriticalStock(ctx context.Context, cs *completedSale) error {
	critical := uc.Settings.Int(ctx, setting.CategoryInventory, setting.KeyCriticalStockLevel)

	var errs error
	for _, ls := range cs.Stock {
		if ls.Remaining > critical {
			continue
		}
		_, err := uc.Notifications.NotifyRole(ctx, model.RoleManager, notifdto.NotifyInput{
			Title:      "Critical Stock Alert",
			Message:    fmt.Sprintf("%s is critically low on stock (%d remaining)", ls.Part.Name, ls.Remaining),
			Type:       model.NotificationWarning,
			Category:   "inventory",
			ActionURL:  "/inventory",
			ActionText: "View Inventory",
		})
		errs = multierr.Append(errs, err)
	}
	return errs
}

func (uc *saleUseCase) notifySaleCompleted(ctx context.Context, cs *completedSale) error {
	_, err := uc.Notifications.Notify(ctx, cs.Staff.ID, notifdto.NotifyInput{
		Title:      "Sale Completed",
		Message:    fmt.Sprintf("%s completed for ₱%s.", cs.Sale.ReceiptNumber, cs.Sale.TotalAmount.StringFixed(2)),
		Type:       model.NotificationSuccess,
		Category:   "sales",
		ActionURL:  "/sales",
		ActionText: "View Sale",
	})
	return err
}

func (uc *saleUseCase) notifyHighValue(ctx context.Context, cs *completedSale) error {
	threshold := uc.Settings.Decimal(ctx, setting.CategorySales, setting.KeyHighValueSaleThreshold)
	if cs.Sale.TotalAmount.LessThan(threshold) {
		return nil
	}

	return uc.notifyManagement(ctx, notifdto.NotifyInput{
		Title:      "High Value Sale",
		Message:    fmt.Sprintf("High value sale of ₱%s processed by %s.", cs.Sale.TotalAmount.StringFixed(2), cs.Staff.Name),
		Type:       model.NotificationWarning,
		Category:   "sales",
		ActionURL:  "/reports",
		ActionText: "View Reports",
	})
}

func (uc *saleUseCase) notifyMilestone(ctx context.Context, cs *completedSale) error {
	interval := uc.Settings.Int(ctx, setting.CategorySales, setting.KeyMilestoneInterval)
	if interval <= 0 {
		return nil
	}

	count, err := uc.Repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("count sales: %w", err)
	}
	if count == 0 || count%interval != 0 {
		return nil
	}

	return uc.notifyManagement(ctx, notifdto.NotifyInput{
		Title:      "Sales Milestone Reached",
		Message:    fmt.Sprintf("%d total sales have been completed.", count),
		Type:       model.NotificationInfo,
		Category:   "sales",
		ActionURL:  "/reports",
		ActionText: "View Reports",
	})
}

// notifyManagement alerts managers then admins; a failure for one role does
// not skip the other.
func (uc *saleUseCase) notifyManagement(ctx context.Context, input notifdto.NotifyInput) error {
	_, errManagers := uc.Notifications.NotifyRole(ctx, model.RoleManager, input)
	_, errAdmins := uc.Notifications.NotifyRole(ctx, model.RoleAdmin, input)
	return multierr.Combine(errManagers, errAdmins)
}

func (uc *saleUseCase) publishSaleCompleted(ctx context.Context, cs *completedSale) error {
	if uc.Publisher == nil {
		return nil
	}

	items := make([]dto.SaleItemPayload, len(cs.Sale.Details))
	for i, d := range cs.Sale.Details {
		items[i] = dto.SaleItemPayload{
			PartID:   d.PartID,
			Quantity: d.Quantity,
			Price:    d.PriceAtSale.StringFixed(2),
		}
	}

	event := dto.SaleCompletedEvent{
		EventID:   uuid.NewString(),
		EventType: dto.EventSaleCompleted,
		Payload: dto.SaleCompletedPayload{
			SaleID:        cs.Sale.ID,
			ReceiptNumber: cs.Sale.ReceiptNumber,
			StaffID:       cs.Sale.StaffID,
			CustomerID:    cs.Sale.CustomerID,
			TotalAmount:   cs.Sale.TotalAmount.StringFixed(2),
			PaymentMethod: string(cs.Sale.PaymentMethod),
			Items:         items,
		},
		Timestamp: uc.now(),
	}

	value, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return uc.Publisher.Publish(ctx, cs.Sale.ReceiptNumber, value)
}

func (uc *saleUseCase) indexReceipt(ctx context.Context, cs *completedSale) error {
	if uc.Index == nil {
		return nil
	}

	uc.indexReady.Do(func() {
		if err := uc.Index.CreateIndex(ctx, salesIndex, salesMapping); err != nil {
			uc.Logger.Warn("failed to create sales index", zap.Error(err))
		}
	})

	return uc.Index.Index(ctx, salesIndex, strconv.FormatInt(cs.Sale.ID, 10), saleToDocument(cs))
}

func saleToDocument(cs *completedSale) dto.SaleDocument {
	total, _ := cs.Sale.TotalAmount.Float64()
	doc := dto.SaleDocument{
		ID:            cs.Sale.ID,
		ReceiptNumber: cs.Sale.ReceiptNumber,
		SaleDate:      cs.Sale.SaleDate,
		TotalAmount:   total,
		PaymentMethod: string(cs.Sale.PaymentMethod),
		StaffID:       cs.Sale.StaffID,
		StaffName:     cs.Staff.Name,
		CustomerID:    cs.Sale.CustomerID,
		Notes:         cs.Sale.Notes,
		PartNames:     make([]string, 0, len(cs.Sale.Details)),
	}
	if cs.Customer != nil {
		doc.CustomerName = cs.Customer.Name
	}

	seen := make(map[int64]bool)
	for _, d := range cs.Sale.Details {
		if seen[d.PartID] {
			continue
		}
		seen[d.PartID] = true
		doc.PartNames = append(doc.PartNames, cs.Parts[d.PartID].Name)
	}
	return doc
}

func documentToSale(doc dto.SaleDocument) model.Sale {
	return model.Sale{
		ID:            doc.ID,
		SaleDate:      doc.SaleDate.In(time.UTC),
		TotalAmount:   decimal.NewFromFloat(doc.TotalAmount).Round(2),
		PaymentMethod: model.PaymentMethod(doc.PaymentMethod),
		StaffID:       doc.StaffID,
		CustomerID:    doc.CustomerID,
		ReceiptNumber: doc.ReceiptNumber,
		Notes:         doc.Notes,
		Status:        model.SaleStatusCompleted,
	}
}
