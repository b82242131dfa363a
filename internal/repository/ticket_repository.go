package repository

import (
	"context"

	"github.com/fitbody/fitbody-backend/internal/models"
	"gorm.io/gorm"
)

type SupportTicketRepository struct {
	db *gorm.DB
}

func NewSupportTicketRepository(db *gorm.DB) *SupportTicketRepository {
	return &SupportTicketRepository{
		db: db,
	}
}

func (r *SupportTicketRepository) Create(ctx context.Context, ticket *models.SupportTicket) error {
	return r.db.WithContext(ctx).Create(ticket).Error
}

func (r *SupportTicketRepository) GetByID(ctx context.Context, id uint) (*models.SupportTicket, error) {
	var ticket models.SupportTicket
	err := r.db.WithContext(ctx).First(&ticket, id).Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *SupportTicketRepository) GetByUserID(ctx context.Context, userID uint) ([]models.SupportTicket, error) {
	var tickets []models.SupportTicket
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&tickets).Error
	return tickets, err
}

func (r *SupportTicketRepository) GetAll(ctx context.Context) ([]models.SupportTicket, error) {
	var tickets []models.SupportTicket
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&tickets).Error
	return tickets, err
}

func (r *SupportTicketRepository) Update(ctx context.Context, ticket *models.SupportTicket) error {
	return r.db.WithContext(ctx).Save(ticket).Error
}
