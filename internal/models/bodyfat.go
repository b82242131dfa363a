package models

type BodyFatRequest struct {
	Gender string  `json:"gender" validate:"required,oneof=male female"`
	Height float64 `json:"height" validate:"required,gt=0"` // cm
	Neck   float64 `json:"neck" validate:"required,gt=0"`   // cm
	Waist  float64 `json:"waist" validate:"required,gt=0"`  // cm
	Hip    float64 `json:"hip" validate:"omitempty,gt=0"`   // cm, required for female
}

type BodyFatResult struct {
	BodyFatPercentage float64 `json:"body_fat_percentage"`
	Category          string  `json:"category"`
}
