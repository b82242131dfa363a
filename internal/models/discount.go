package models

import "time"

type DiscountCode struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	Code       string     `json:"code" gorm:"unique;not null"`
	PercentOff int        `json:"percent_off" gorm:"not null"`
	IsActive   bool       `json:"is_active" gorm:"default:true"`
	ExpiresAt  *time.Time `json:"expires_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type DiscountValidationResponse struct {
	Code       string `json:"code"`
	PercentOff int    `json:"percent_off"`
}
