package repository

import (
	"context"

	"github.com/fitbody/fitbody-backend/internal/models"
	"gorm.io/gorm"
)

type DiscountCodeRepository struct {
	db *gorm.DB
}

func NewDiscountCodeRepository(db *gorm.DB) *DiscountCodeRepository {
	return &DiscountCodeRepository{
		db: db,
	}
}

func (r *DiscountCodeRepository) GetByCode(ctx context.Context, code string) (*models.DiscountCode, error) {
	var discount models.DiscountCode
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&discount).Error
	if err != nil {
		return nil, err
	}
	return &discount, nil
}
