package repository

import (
	"context"

	"github.com/fitbody/fitbody-backend/internal/models"
	"gorm.io/gorm"
)

type TrainingPackageRepository struct {
	db *gorm.DB
}

func NewTrainingPackageRepository(db *gorm.DB) *TrainingPackageRepository {
	return &TrainingPackageRepository{
		db: db,
	}
}

func (r *TrainingPackageRepository) GetByID(ctx context.Context, id uint) (*models.TrainingPackage, error) {
	var pkg models.TrainingPackage
	err := r.db.WithContext(ctx).First(&pkg, id).Error
	if err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (r *TrainingPackageRepository) GetAllActive(ctx context.Context) ([]models.TrainingPackage, error) {
	var packages []models.TrainingPackage
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Find(&packages).Error
	return packages, err
}

func (r *TrainingPackageRepository) Create(ctx context.Context, pkg *models.TrainingPackage) error {
	return r.db.WithContext(ctx).Create(pkg).Error
}

func (r *TrainingPackageRepository) Update(ctx context.Context, pkg *models.TrainingPackage) error {
	return r.db.WithContext(ctx).Save(pkg).Error
}

func (r *TrainingPackageRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.TrainingPackage{}, id).Error
}
