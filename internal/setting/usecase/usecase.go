package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/setting"
	"github.com/fekuna/omnipos-sales-service/pkg/apperror"
	"github.com/fekuna/omnipos-sales-service/pkg/database"
	"github.com/fekuna/omnipos-sales-service/pkg/logger"
)

type settingUseCase struct {
	repo   setting.Repository
	tx     database.Transactor
	logger logger.ZapLogger
	now    func() time.Time
}

func NewSettingUseCase(repo setting.Repository, tx database.Transactor, log logger.ZapLogger) setting.UseCase {
	return &settingUseCase{
		repo:   repo,
		tx:     tx,
		logger: log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (uc *settingUseCase) Get(ctx context.Context, category, key string) (setting.Value, error) {
	s, err := uc.repo.Get(ctx, category, key)
	if err != nil {
		return setting.Value{}, apperror.Persistence("failed to read setting", err)
	}
	if s != nil {
		return setting.Value{Category: category, Key: key, Raw: s.SettingValue, Type: s.SettingType}, nil
	}

	d, ok := setting.LookupDefault(category, key)
	if !ok {
		return setting.Value{}, apperror.NotFound("setting %s.%s not found", category, key)
	}
	return setting.Value{Category: category, Key: key, Raw: d.Value, Type: d.Type, IsDefault: true}, nil
}

// resolve returns the stored value if it parses, else the default.
func resolve[T any](uc *settingUseCase, ctx context.Context, category, key string, parse func(setting.Value) (T, error)) T {
	var zero T
	def, hasDefault := setting.LookupDefault(category, key)
	fallback := func() T {
		if !hasDefault {
			return zero
		}
		v, err := parse(setting.Value{Raw: def.Value, Type: def.Type})
		if err != nil {
			return zero
		}
		return v
	}

	v, err := uc.Get(ctx, category, key)
	if err != nil {
		uc.logger.Warn("setting lookup failed, using default",
			zap.String("category", category), zap.String("key", key), zap.Error(err))
		return fallback()
	}

	out, err := parse(v)
	if err != nil {
		uc.logger.Warn("setting value unparsable, using default",
			zap.String("category", category), zap.String("key", key), zap.String("value", v.Raw), zap.Error(err))
		return fallback()
	}
	return out
}

func (uc *settingUseCase) Decimal(ctx context.Context, category, key string) decimal.Decimal {
	return resolve(uc, ctx, category, key, setting.Value.Decimal)
}

func (uc *settingUseCase) Int(ctx context.Context, category, key string) int {
	return resolve(uc, ctx, category, key, setting.Value.Int)
}

func (uc *settingUseCase) Bool(ctx context.Context, category, key string) bool {
	return resolve(uc, ctx, category, key, setting.Value.Bool)
}

func (uc *settingUseCase) List(ctx context.Context) ([]model.Setting, error) {
	return uc.repo.List(ctx)
}

func (uc *settingUseCase) Set(ctx context.Context, category, key, value string, updatedBy *int64) (*model.Setting, error) {
	if category == "" || key == "" {
		return nil, apperror.Validation("category and key are required")
	}

	existing, err := uc.repo.Get(ctx, category, key)
	if err != nil {
		return nil, apperror.Persistence("failed to read setting", err)
	}

	s := &model.Setting{
		Category:     category,
		SettingKey:   key,
		SettingValue: value,
		UpdatedBy:    updatedBy,
		UpdatedAt:    uc.now(),
	}
	switch {
	case existing != nil:
		s.SettingType = existing.SettingType
		s.Description = existing.Description
	default:
		if d, ok := setting.LookupDefault(category, key); ok {
			s.SettingType = d.Type
			s.Description = d.Description
		} else {
			s.SettingType = setting.InferType(value)
		}
	}

	if err := normalize(s); err != nil {
		return nil, err
	}

	if err := uc.repo.Upsert(ctx, s); err != nil {
		return nil, apperror.Persistence("failed to update setting", err)
	}
	return s, nil
}

func (uc *settingUseCase) Delete(ctx context.Context, category, key string) error {
	deleted, err := uc.repo.Delete(ctx, category, key)
	if err != nil {
		return apperror.Persistence("failed to delete setting", err)
	}
	if !deleted {
		return apperror.NotFound("setting %s.%s not found", category, key)
	}
	return nil
}

// SeedDefaults inserts every default that is not stored yet and reports how
// many were added.
func (uc *settingUseCase) SeedDefaults(ctx context.Context) (int, error) {
	added := 0
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		added = 0
		now := uc.now()
		for _, d := range setting.Defaults() {
			ok, err := uc.repo.InsertIfAbsent(ctx, &model.Setting{
				Category:     d.Category,
				SettingKey:   d.Key,
				SettingValue: d.Value,
				SettingType:  d.Type,
				Description:  d.Description,
				UpdatedAt:    now,
			})
			if err != nil {
				return err
			}
			if ok {
				added++
			}
		}
		return nil
	})
	if err != nil {
		return 0, apperror.Persistence("failed to seed settings", err)
	}
	if added > 0 {
		uc.logger.Info("seeded default settings", zap.Int("count", added))
	}
	return added, nil
}

func (uc *settingUseCase) Reset(ctx context.Context) error {
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := uc.repo.DeleteAll(ctx); err != nil {
			return err
		}
		_, err := uc.SeedDefaults(ctx)
		return err
	})
	if err != nil {
		return apperror.Persistence("failed to reset settings", err)
	}
	return nil
}

func normalize(s *model.Setting) error {
	switch s.SettingType {
	case model.SettingBoolean:
		s.SettingValue = setting.NormalizeBool(s.SettingValue)
	case model.SettingNumber:
		if _, err := decimal.NewFromString(s.SettingValue); err != nil {
			return apperror.Validation("setting %s.%s must be a number", s.Category, s.SettingKey)
		}
	}
	return nil
}

func (uc *settingUseCase) Export(ctx context.Context) (setting.Document, error) {
	items, err := uc.repo.List(ctx)
	if err != nil {
		return nil, apperror.Persistence("failed to export settings", err)
	}

	doc := make(setting.Document)
	for _, s := range items {
		if doc[s.Category] == nil {
			doc[s.Category] = make(map[string]setting.DocumentEntry)
		}
		doc[s.Category][s.SettingKey] = setting.DocumentEntry{
			Value:       s.SettingValue,
			Type:        s.SettingType,
			Description: s.Description,
		}
	}
	return doc, nil
}

func (uc *settingUseCase) Import(ctx context.Context, doc setting.Document, updatedBy *int64) (int, error) {
	now := uc.now()
	rows := make([]*model.Setting, 0)
	for category, entries := range doc {
		for key, e := range entries {
			if category == "" || key == "" {
				return 0, apperror.Validation("category and key are required")
			}
			s := &model.Setting{
				Category:     category,
				SettingKey:   key,
				SettingValue: e.Value,
				SettingType:  e.Type,
				Description:  e.Description,
				UpdatedBy:    updatedBy,
				UpdatedAt:    now,
			}
			if s.SettingType == "" {
				s.SettingType = model.SettingString
			}
			if !s.SettingType.Valid() {
				return 0, apperror.Validation("setting %s.%s has unknown type %q", category, key, e.Type)
			}
			if err := normalize(s); err != nil {
				return 0, err
			}
			rows = append(rows, s)
		}
	}

	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		for _, s := range rows {
			if err := uc.repo.Upsert(ctx, s); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, apperror.Persistence("failed to import settings", err)
	}

	uc.logger.Info("settings imported", zap.Int("count", len(rows)))
	return len(rows), nil
}
