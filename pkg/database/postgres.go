package database

import (
	"fmt"

	"github.com/fitbody/fitbody-backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func NewDatabase(databaseURL string) (*gorm.DB, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	// TranslateError maps driver unique-violation errors to
	// gorm.ErrDuplicatedKey, which reconciliation relies on.
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

func RunMigrations(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.TrainingPackage{},
		&models.DiscountCode{},
		&models.Purchase{},
		&models.SupportTicket{},
	)
	if err != nil {
		return err
	}

	return seedPackages(db)
}

func seedPackages(db *gorm.DB) error {
	packages := []models.TrainingPackage{
		{
			Name:            "Kickstart Shred",
			Description:     "4-week beginner fat-loss programme with full meal plan",
			Price:           2999,
			Currency:        "gbp",
			DurationWeeks:   4,
			SessionsPerWeek: 3,
			IsActive:        true,
		},
		{
			Name:            "Lean Transformation",
			Description:     "12-week body recomposition programme with weekly check-ins",
			Price:           4999,
			Currency:        "gbp",
			DurationWeeks:   12,
			SessionsPerWeek: 4,
			IsActive:        true,
		},
		{
			Name:            "Elite Conditioning",
			Description:     "16-week advanced programme with 1:1 coaching calls",
			Price:           9999,
			Currency:        "gbp",
			DurationWeeks:   16,
			SessionsPerWeek: 5,
			IsActive:        true,
		},
	}

	for _, pkg := range packages {
		var count int64
		db.Model(&models.TrainingPackage{}).Where("name = ?", pkg.Name).Count(&count)
		if count == 0 {
			if err := db.Create(&pkg).Error; err != nil {
				return fmt.Errorf("failed to seed training package: %w", err)
			}
		}
	}

	discounts := []models.DiscountCode{
		{Code: "WELCOME10", PercentOff: 10, IsActive: true},
	}

	for _, d := range discounts {
		var count int64
		db.Model(&models.DiscountCode{}).Where("code = ?", d.Code).Count(&count)
		if count == 0 {
			if err := db.Create(&d).Error; err != nil {
				return fmt.Errorf("failed to seed discount code: %w", err)
			}
		}
	}

	return nil
}
