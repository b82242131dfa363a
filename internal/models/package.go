package models

import "time"

// TrainingPackage is a purchasable coaching programme. Price is stored in
// minor currency units (pence/cents) to match what Stripe reports back.
type TrainingPackage struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	Name            string    `json:"name" gorm:"not null"`
	Description     string    `json:"description"`
	Price           int64     `json:"price" gorm:"not null"`
	Currency        string    `json:"currency" gorm:"not null;default:'gbp'"`
	DurationWeeks   int       `json:"duration_weeks" gorm:"not null"`
	SessionsPerWeek int       `json:"sessions_per_week" gorm:"not null"`
	ImageURL        string    `json:"image_url"`
	IsActive        bool      `json:"is_active" gorm:"default:true"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type CreatePackageRequest struct {
	Name            string `json:"name" validate:"required"`
	Description     string `json:"description"`
	Price           int64  `json:"price" validate:"required,gt=0"`
	Currency        string `json:"currency" validate:"required,len=3"`
	DurationWeeks   int    `json:"duration_weeks" validate:"required,gt=0"`
	SessionsPerWeek int    `json:"sessions_per_week" validate:"required,gt=0"`
}

type UpdatePackageRequest struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	Price           int64  `json:"price"`
	Currency        string `json:"currency"`
	DurationWeeks   int    `json:"duration_weeks"`
	SessionsPerWeek int    `json:"sessions_per_week"`
	IsActive        *bool  `json:"is_active"`
}
