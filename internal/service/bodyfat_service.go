package service

import (
	"errors"
	"math"

	"github.com/fitbody/fitbody-backend/internal/models"
)

var ErrHipRequired = errors.New("hip measurement is required for the female formula")

// CalculateBodyFat implements the US Navy circumference method. Measurements
// are in centimetres. Pure and stateless; nothing is persisted.
func CalculateBodyFat(req models.BodyFatRequest) (*models.BodyFatResult, error) {
	var percentage float64
	switch req.Gender {
	case "female":
		if req.Hip <= 0 {
			return nil, ErrHipRequired
		}
		percentage = 495/(1.29579-0.35004*math.Log10(req.Waist+req.Hip-req.Neck)+0.22100*math.Log10(req.Height)) - 450
	default:
		percentage = 495/(1.0324-0.19077*math.Log10(req.Waist-req.Neck)+0.15456*math.Log10(req.Height)) - 450
	}

	if math.IsNaN(percentage) || math.IsInf(percentage, 0) || percentage < 0 {
		return nil, errors.New("measurements out of range")
	}

	percentage = math.Round(percentage*10) / 10

	return &models.BodyFatResult{
		BodyFatPercentage: percentage,
		Category:          bodyFatCategory(req.Gender, percentage),
	}, nil
}

func bodyFatCategory(gender string, percentage float64) string {
	// ACE body-fat categories.
	thresholds := []struct {
		max      float64
		category string
	}{
		{5, "essential"},
		{13, "athletic"},
		{17, "fit"},
		{24, "average"},
		{math.MaxFloat64, "obese"},
	}
	if gender == "female" {
		thresholds = []struct {
			max      float64
			category string
		}{
			{13, "essential"},
			{20, "athletic"},
			{24, "fit"},
			{31, "average"},
			{math.MaxFloat64, "obese"},
		}
	}

	for _, t := range thresholds {
		if percentage <= t.max {
			return t.category
		}
	}
	return "obese"
}
