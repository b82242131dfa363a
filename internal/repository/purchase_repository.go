package repository

import (
	"context"

	"github.com/fitbody/fitbody-backend/internal/models"
	"gorm.io/gorm"
)

type PurchaseRepository struct {
	db *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) *PurchaseRepository {
	return &PurchaseRepository{
		db: db,
	}
}

// Create inserts a purchase. The unique index on stripe_session_id makes the
// insert the final arbiter against concurrent reconciliation; callers see a
// losing race as gorm.ErrDuplicatedKey.
func (r *PurchaseRepository) Create(ctx context.Context, purchase *models.Purchase) error {
	return r.db.WithContext(ctx).Create(purchase).Error
}

func (r *PurchaseRepository) GetBySessionID(ctx context.Context, sessionID string) (*models.Purchase, error) {
	var purchase models.Purchase
	err := r.db.WithContext(ctx).Where("stripe_session_id = ?", sessionID).First(&purchase).Error
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (r *PurchaseRepository) GetByEmail(ctx context.Context, email string) ([]models.Purchase, error) {
	var purchases []models.Purchase
	err := r.db.WithContext(ctx).Where("user_email = ?", email).
		Order("created_at DESC").
		Find(&purchases).Error
	return purchases, err
}

func (r *PurchaseRepository) GetAll(ctx context.Context) ([]models.Purchase, error) {
	var purchases []models.Purchase
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&purchases).Error
	return purchases, err
}
