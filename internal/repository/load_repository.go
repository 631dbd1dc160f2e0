package repository

import (
	"context"

	"gorm.io/gorm"

	"support-monitor/internal/model"
)

type LoadRepository struct {
	db *gorm.DB
}

func NewLoadRepository(db *gorm.DB) *LoadRepository {
	return &LoadRepository{db: db}
}

func (r *LoadRepository) Save(ctx context.Context, record *model.LoadRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *LoadRepository) Recent(ctx context.Context, limit int) ([]model.LoadRecord, error) {
	var records []model.LoadRecord
	err := r.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
