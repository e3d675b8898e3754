package usecase

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fekuna/omnipos-sales-service/internal/audit"
	"github.com/fekuna/omnipos-sales-service/internal/directory"
	"github.com/fekuna/omnipos-sales-service/internal/inventory"
	invdto "github.com/fekuna/omnipos-sales-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/notification"
	"github.com/fekuna/omnipos-sales-service/internal/sale"
	"github.com/fekuna/omnipos-sales-service/internal/sale/dto"
	"github.com/fekuna/omnipos-sales-service/internal/setting"
	"github.com/fekuna/omnipos-sales-service/pkg/apperror"
	"github.com/fekuna/omnipos-sales-service/pkg/database"
	"github.com/fekuna/omnipos-sales-service/pkg/logger"
	"github.com/fekuna/omnipos-sales-service/pkg/search"
)

const salesIndex = "sales"

// EventPublisher is satisfied by *broker.KafkaProducer.
type EventPublisher interface {
	Publish(ctx context.Context, key string, value []byte) error
}

// SearchIndex is satisfied by *search.Client.
type SearchIndex interface {
	CreateIndex(ctx context.Context, name, mapping string) error
	Index(ctx context.Context, index, id string, doc interface{}) error
	Search(ctx context.Context, index string, query map[string]interface{}) (*search.SearchResponse, error)
}

// Deps lists the collaborators of the sale engine. Publisher and Index are
// optional.
type Deps struct {
	Repo          sale.Repository
	Tx            database.Transactor
	Inventory     inventory.UseCase
	Settings      setting.UseCase
	Notifications notification.UseCase
	Audit         audit.Recorder
	Directory     directory.Repository
	Publisher     EventPublisher
	Index         SearchIndex
	Logger        logger.ZapLogger
}

type saleUseCase struct {
	Deps
	now        func() time.Time
	receipt    func(time.Time) string
	indexReady sync.Once
}

func NewSaleUseCase(deps Deps) sale.UseCase {
	return &saleUseCase{
		Deps:    deps,
		now:     func() time.Time { return time.Now().UTC() },
		receipt: sale.NewReceiptNumber,
	}
}

// partStock is the stock a committed sale left for one of its parts.
type partStock struct {
	Part      model.Part
	Remaining int
}

// completedSale is what the post-commit triggers see.
type completedSale struct {
	Sale     *model.Sale
	Staff    *model.Staff
	Customer *model.Customer
	Parts    map[int64]model.Part
	Stock    []partStock
}

func (uc *saleUseCase) ProcessSale(ctx context.Context, input *dto.ProcessSaleInput) (*dto.SaleResult, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	staff, customer, parts, err := uc.resolve(ctx, input)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	s := &model.Sale{
		SaleDate:      now,
		TotalAmount:   input.Total,
		PaymentMethod: input.PaymentMethod,
		StaffID:       staff.ID,
		CustomerID:    input.CustomerID,
		ReceiptNumber: uc.receipt(now),
		Notes:         input.Notes,
		Status:        model.SaleStatusPending,
	}

	var stock []partStock
	err = uc.Tx.WithinTx(ctx, func(ctx context.Context) error {
		stock = nil
		s.Details = s.Details[:0]

		if err := uc.Repo.Create(ctx, s); err != nil {
			return err
		}

		seen := make(map[int64]int)
		for i, item := range input.Items {
			d := model.SaleDetail{
				SaleID:      s.ID,
				LineNo:      i + 1,
				PartID:      item.PartID,
				Quantity:    item.Quantity,
				PriceAtSale: item.Price,
			}
			if err := uc.Repo.AddDetail(ctx, &d); err != nil {
				return err
			}

			left, err := uc.Inventory.Decrement(ctx, &invdto.DecrementInput{
				PartID:        item.PartID,
				Quantity:      item.Quantity,
				ReferenceType: "sale",
				ReferenceID:   strconv.FormatInt(s.ID, 10),
				UserID:        &staff.ID,
			})
			if err != nil {
				return err
			}

			if idx, ok := seen[item.PartID]; ok {
				stock[idx].Remaining = left
			} else {
				seen[item.PartID] = len(stock)
				stock = append(stock, partStock{Part: parts[item.PartID], Remaining: left})
			}
			s.Details = append(s.Details, d)
		}

		return uc.Repo.MarkCompleted(ctx, s.ID)
	})
	if err != nil {
		uc.Logger.Error("sale rolled back",
			zap.String("receipt_number", s.ReceiptNumber),
			zap.Int64("staff_id", staff.ID),
			zap.Error(apperror.Cause(err)),
		)
		if apperror.KindOf(err) == apperror.KindPersistence {
			return nil, apperror.Persistence("failed to process sale", err)
		}
		return nil, err
	}
	s.Status = model.SaleStatusCompleted

	uc.Logger.Info("sale completed",
		zap.Int64("sale_id", s.ID),
		zap.String("receipt_number", s.ReceiptNumber),
		zap.String("total", s.TotalAmount.StringFixed(2)),
		zap.Int("parts", len(stock)),
	)

	// Side effects outlive the request once the sale is committed.
	postCtx := context.WithoutCancel(ctx)

	uc.runTriggers(postCtx, &completedSale{
		Sale:     s,
		Staff:    staff,
		Customer: customer,
		Parts:    parts,
		Stock:    stock,
	})

	uc.Audit.Record(postCtx, audit.Entry{
		Action:     model.AuditCreate,
		EntityType: "sales",
		EntityID:   &s.ID,
		After: map[string]interface{}{
			"total_amount":   s.TotalAmount.StringFixed(2),
			"payment_method": s.PaymentMethod,
			"customer_id":    s.CustomerID,
			"items":          input.Items,
		},
		ActorID: &staff.ID,
	})

	return &dto.SaleResult{SaleID: s.ID, ReceiptNumber: s.ReceiptNumber}, nil
}

func validate(input *dto.ProcessSaleInput) error {
	if len(input.Items) == 0 {
		return apperror.Validation("cart is empty")
	}
	for i, item := range input.Items {
		if item.PartID <= 0 {
			return apperror.Validation("item %d: part id is required", i+1)
		}
		if item.Quantity <= 0 {
			return apperror.Validation("item %d: quantity must be positive", i+1)
		}
		if item.Price.IsNegative() {
			return apperror.Validation("item %d: price cannot be negative", i+1)
		}
	}
	if input.Total.IsNegative() {
		return apperror.Validation("total cannot be negative")
	}
	if !input.PaymentMethod.Valid() {
		return apperror.Validation("unknown payment method %q", input.PaymentMethod)
	}
	if input.StaffID <= 0 {
		return apperror.Validation("staff id is required")
	}
	return nil
}

// resolve loads every referenced record before anything is written.
func (uc *saleUseCase) resolve(ctx context.Context, input *dto.ProcessSaleInput) (*model.Staff, *model.Customer, map[int64]model.Part, error) {
	staff, err := uc.Directory.GetStaff(ctx, input.StaffID)
	if err != nil {
		return nil, nil, nil, apperror.Persistence("failed to load staff", err)
	}
	if staff == nil {
		return nil, nil, nil, apperror.NotFound("staff %d not found", input.StaffID)
	}

	var customer *model.Customer
	if input.CustomerID != nil {
		customer, err = uc.Directory.GetCustomer(ctx, *input.CustomerID)
		if err != nil {
			return nil, nil, nil, apperror.Persistence("failed to load customer", err)
		}
		if customer == nil {
			return nil, nil, nil, apperror.NotFound("customer %d not found", *input.CustomerID)
		}
	}

	ids := make([]int64, 0, len(input.Items))
	for _, item := range input.Items {
		ids = append(ids, item.PartID)
	}
	parts, err := uc.Inventory.BatchGetParts(ctx, ids)
	if err != nil {
		return nil, nil, nil, err
	}
	for _, id := range ids {
		if _, ok := parts[id]; !ok {
			return nil, nil, nil, apperror.NotFound("part %d not found", id)
		}
	}

	return staff, customer, parts, nil
}

func (uc *saleUseCase) GetSale(ctx context.Context, id int64) (*model.Sale, error) {
	s, err := uc.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Persistence("failed to load sale", err)
	}
	if s == nil {
		return nil, apperror.NotFound("sale %d not found", id)
	}

	details, err := uc.Repo.ListDetails(ctx, id)
	if err != nil {
		return nil, apperror.Persistence("failed to load sale details", err)
	}
	s.Details = details
	return s, nil
}

func (uc *saleUseCase) ListSales(ctx context.Context, filters *dto.SaleFilters) ([]model.Sale, int, error) {
	if filters.Query != "" && uc.Index != nil {
		items, total, err := uc.searchSales(ctx, filters)
		if err == nil {
			return items, total, nil
		}
		uc.Logger.Error("ES search failed, falling back to DB", zap.Error(err))
	}

	items, total, err := uc.Repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, apperror.Persistence("failed to list sales", err)
	}
	return items, total, nil
}

func (uc *saleUseCase) searchSales(ctx context.Context, f *dto.SaleFilters) ([]model.Sale, int, error) {
	must := []map[string]interface{}{
		{
			"multi_match": map[string]interface{}{
				"query":  f.Query,
				"fields": []string{"receipt_number^3", "customer_name", "staff_name", "part_names", "notes"},
			},
		},
	}
	if f.StaffID != 0 {
		must = append(must, map[string]interface{}{"term": map[string]interface{}{"staff_id": f.StaffID}})
	}

	q := map[string]interface{}{
		"query": map[string]interface{}{"bool": map[string]interface{}{"must": must}},
		"sort":  []map[string]interface{}{{"sale_date": "desc"}},
	}
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		q["from"] = (page - 1) * f.PageSize
		q["size"] = f.PageSize
	}

	res, err := uc.Index.Search(ctx, salesIndex, q)
	if err != nil {
		return nil, 0, err
	}

	items := make([]model.Sale, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var doc dto.SaleDocument
		if err := json.Unmarshal(hit.Source, &doc); err != nil {
			continue
		}
		items = append(items, documentToSale(doc))
	}
	return items, res.Hits.Total.Value, nil
}
