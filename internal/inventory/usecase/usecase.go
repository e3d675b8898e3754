package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/inventory"
	"github.com/fekuna/omnipos-sales-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/pkg/apperror"
	"github.com/fekuna/omnipos-sales-service/pkg/database"
	"github.com/fekuna/omnipos-sales-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// maxStockAttempts bounds the compare-and-set retries on one part.
	maxStockAttempts = 5

	lockAttempts = 3
	lockTTL      = 5 * time.Second
	lockBackoff  = 100 * time.Millisecond
)

// Locker serialises manual stock entries across instances.
type Locker interface {
	AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, value string) error
}

type inventoryUseCase struct {
	repo   inventory.Repository
	tx     database.Transactor
	policy inventory.StockPolicy
	locker Locker
	logger logger.ZapLogger
	now    func() time.Time
}

// NewInventoryUseCase builds the stock ledger. locker may be nil, in which
// case restocks rely on the compare-and-set alone.
func NewInventoryUseCase(repo inventory.Repository, tx database.Transactor, policy inventory.StockPolicy, locker Locker, log logger.ZapLogger) inventory.UseCase {
	if policy == nil {
		policy = inventory.ClampFloor{}
	}
	return &inventoryUseCase{
		repo:   repo,
		tx:     tx,
		policy: policy,
		locker: locker,
		logger: log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (uc *inventoryUseCase) GetPart(ctx context.Context, id int64) (*model.Part, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Persistence("failed to load part", err)
	}
	if p == nil {
		return nil, apperror.NotFound("part %d not found", id)
	}
	return p, nil
}

func (uc *inventoryUseCase) BatchGetParts(ctx context.Context, ids []int64) (map[int64]model.Part, error) {
	parts, err := uc.repo.BatchGetByIDs(ctx, ids)
	if err != nil {
		return nil, apperror.Persistence("failed to load parts", err)
	}
	out := make(map[int64]model.Part, len(parts))
	for _, p := range parts {
		out[p.ID] = p
	}
	return out, nil
}

func (uc *inventoryUseCase) CreatePart(ctx context.Context, input *dto.CreatePartInput) (*model.Part, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.Validation("part name is required")
	}
	if input.Price.IsNegative() {
		return nil, apperror.Validation("price cannot be negative")
	}
	if input.StockQuantity < 0 {
		return nil, apperror.Validation("stock quantity cannot be negative")
	}

	p := &model.Part{
		Name:          name,
		Description:   input.Description,
		PartType:      input.PartType,
		Brand:         input.Brand,
		Price:         input.Price,
		StockQuantity: input.StockQuantity,
		UpdatedAt:     uc.now(),
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, apperror.Persistence("failed to create part", err)
	}
	return p, nil
}

func (uc *inventoryUseCase) ListLowStock(ctx context.Context, threshold, page, pageSize int) ([]model.Part, int, error) {
	items, count, err := uc.repo.FindAll(ctx, &dto.PartFilters{
		LowStockThreshold: &threshold,
		Page:              page,
		PageSize:          pageSize,
	})
	if err != nil {
		return nil, 0, apperror.Persistence("failed to list low stock parts", err)
	}
	return items, count, nil
}

// Decrement removes stock through the configured policy and logs a movement.
// It returns the quantity left on hand.
func (uc *inventoryUseCase) Decrement(ctx context.Context, input *dto.DecrementInput) (int, error) {
	if input.Quantity <= 0 {
		return 0, apperror.Validation("quantity must be positive")
	}

	var after int
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		m, err := uc.adjust(ctx, input.PartID, func(current int) (int, error) {
			next, err := uc.policy.Apply(current, input.Quantity)
			if errors.Is(err, inventory.ErrInsufficientStock) {
				return 0, apperror.Conflict("insufficient stock for part %d: %d on hand, %d requested",
					input.PartID, current, input.Quantity)
			}
			return next, err
		})
		if err != nil {
			return err
		}

		if shortfall := input.Quantity - (m.QuantityBefore - m.QuantityAfter); shortfall > 0 {
			uc.logger.Warn("stock clamped at zero",
				zap.Int64("part_id", input.PartID),
				zap.Int("requested", input.Quantity),
				zap.Int("shortfall", shortfall),
				zap.String("policy", uc.policy.Name()),
			)
		}

		m.MovementType = model.MovementSale
		m.ReferenceType = optional(input.ReferenceType)
		m.ReferenceID = optional(input.ReferenceID)
		m.CreatedBy = input.UserID
		if err := uc.repo.LogMovement(ctx, m); err != nil {
			return err
		}
		after = m.QuantityAfter
		return nil
	})
	if err != nil {
		return 0, apperror.OrPersistence(err, "failed to update stock")
	}
	return after, nil
}

func (uc *inventoryUseCase) IsBelowThreshold(ctx context.Context, partID int64, threshold int) (bool, error) {
	p, err := uc.GetPart(ctx, partID)
	if err != nil {
		return false, err
	}
	return p.StockQuantity <= threshold, nil
}

func (uc *inventoryUseCase) Restock(ctx context.Context, input *dto.RestockInput) (*model.Part, error) {
	if input.Quantity <= 0 {
		return nil, apperror.Validation("restock quantity must be positive")
	}

	if uc.locker != nil {
		release, err := uc.acquire(ctx, fmt.Sprintf("lock:inventory:part:%d", input.PartID))
		if err != nil {
			return nil, err
		}
		defer release()
	}

	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		m, err := uc.adjust(ctx, input.PartID, func(current int) (int, error) {
			return current + input.Quantity, nil
		})
		if err != nil {
			return err
		}

		m.MovementType = model.MovementRestock
		m.Notes = input.Notes
		m.CreatedBy = input.UserID
		if input.ReferenceID != "" {
			m.ReferenceType = optional("purchase_order")
			m.ReferenceID = optional(input.ReferenceID)
		}
		return uc.repo.LogMovement(ctx, m)
	})
	if err != nil {
		return nil, apperror.OrPersistence(err, "failed to restock part")
	}

	uc.logger.Info("part restocked",
		zap.Int64("part_id", input.PartID),
		zap.Int("quantity", input.Quantity),
	)
	return uc.GetPart(ctx, input.PartID)
}

func (uc *inventoryUseCase) ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.InventoryMovement, int, error) {
	items, count, err := uc.repo.ListMovements(ctx, filters)
	if err != nil {
		return nil, 0, apperror.Persistence("failed to list movements", err)
	}
	return items, count, nil
}

// adjust applies next to the part's stock with a compare-and-set, re-reading
// the row whenever a concurrent writer got there first. The returned movement
// has the quantities filled in and still needs to be logged.
func (uc *inventoryUseCase) adjust(ctx context.Context, partID int64, next func(current int) (int, error)) (*model.InventoryMovement, error) {
	for attempt := 1; attempt <= maxStockAttempts; attempt++ {
		p, err := uc.repo.GetByID(ctx, partID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, apperror.NotFound("part %d not found", partID)
		}

		after, err := next(p.StockQuantity)
		if err != nil {
			return nil, err
		}

		now := uc.now()
		ok, err := uc.repo.CompareAndSetStock(ctx, partID, p.StockQuantity, after, now)
		if err != nil {
			return nil, err
		}
		if ok {
			return &model.InventoryMovement{
				PartID:         partID,
				QuantityChange: after - p.StockQuantity,
				QuantityBefore: p.StockQuantity,
				QuantityAfter:  after,
				CreatedAt:      now,
			}, nil
		}

		uc.logger.Debug("stock changed concurrently, retrying",
			zap.Int64("part_id", partID), zap.Int("attempt", attempt))
	}
	return nil, apperror.Conflict("stock for part %d is changing too quickly, please retry", partID)
}

func (uc *inventoryUseCase) acquire(ctx context.Context, key string) (func(), error) {
	token := uuid.New().String()
	for i := 0; i < lockAttempts; i++ {
		ok, err := uc.locker.AcquireLock(ctx, key, token, lockTTL)
		if err != nil {
			uc.logger.Error("failed to acquire lock redis error", zap.String("key", key), zap.Error(err))
		}
		if ok {
			return func() {
				if err := uc.locker.ReleaseLock(context.WithoutCancel(ctx), key, token); err != nil {
					uc.logger.Warn("failed to release lock", zap.String("key", key), zap.Error(err))
				}
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockBackoff):
		}
	}
	return nil, apperror.Conflict("system busy, please try again later")
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
