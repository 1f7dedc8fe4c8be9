package gormrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"soncore/internal/adapter/repo/gorm/model"
	"soncore/internal/app/ports"
	"soncore/internal/domain/optimize"

	"gorm.io/gorm"
)

type CycleHistoryRepo struct {
	db *gorm.DB
}

func NewCycleHistoryRepo(db *gorm.DB) CycleHistoryRepo {
	return CycleHistoryRepo{db: db}
}

func (r CycleHistoryRepo) Append(ctx context.Context, result optimize.CycleResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal cycle result: %w", err)
	}
	m := model.CycleRecord{
		CycleID:   result.CycleID,
		Success:   result.Success,
		Degraded:  result.Degraded,
		StartedAt: result.StartedAt,
		EndedAt:   result.EndedAt,
		Payload:   payload,
	}
	return getDBFromCtx(ctx, r.db).WithContext(ctx).Create(&m).Error
}

func (r CycleHistoryRepo) ListRecent(ctx context.Context, limit int) ([]optimize.CycleResult, error) {
	db := getDBFromCtx(ctx, r.db).WithContext(ctx).Order("started_at DESC")
	if limit > 0 {
		db = db.Limit(limit)
	}
	var rows []model.CycleRecord
	if err := db.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]optimize.CycleResult, 0, len(rows))
	for _, m := range rows {
		result, err := decodeRecord(m)
		if err != nil {
			return nil, err
		}
		out = append(out, result)
	}
	return out, nil
}

func (r CycleHistoryRepo) Latest(ctx context.Context) (optimize.CycleResult, error) {
	var m model.CycleRecord
	err := getDBFromCtx(ctx, r.db).WithContext(ctx).Order("started_at DESC").First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return optimize.CycleResult{}, ports.ErrNotFound
		}
		return optimize.CycleResult{}, err
	}
	return decodeRecord(m)
}

func decodeRecord(m model.CycleRecord) (optimize.CycleResult, error) {
	var result optimize.CycleResult
	if err := json.Unmarshal(m.Payload, &result); err != nil {
		return optimize.CycleResult{}, fmt.Errorf("decode cycle %s: %w", m.CycleID, err)
	}
	return result, nil
}
