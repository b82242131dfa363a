package service

import (
	"errors"
	"math"
	"testing"

	"github.com/fitbody/fitbody-backend/internal/models"
)

func TestCalculateBodyFat(t *testing.T) {
	tests := []struct {
		name         string
		req          models.BodyFatRequest
		want         float64
		wantCategory string
	}{
		{
			name:         "male",
			req:          models.BodyFatRequest{Gender: "male", Height: 180, Neck: 38, Waist: 85},
			want:         16.1,
			wantCategory: "fit",
		},
		{
			name:         "female",
			req:          models.BodyFatRequest{Gender: "female", Height: 165, Neck: 33, Waist: 70, Hip: 95},
			want:         24.3,
			wantCategory: "average",
		},
		{
			name:         "lean male",
			req:          models.BodyFatRequest{Gender: "male", Height: 185, Neck: 40, Waist: 80},
			want:         9.5,
			wantCategory: "athletic",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculateBodyFat(tt.req)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got.BodyFatPercentage-tt.want) > 0.05 {
				t.Fatalf("percentage = %.1f, want %.1f", got.BodyFatPercentage, tt.want)
			}
			if got.Category != tt.wantCategory {
				t.Fatalf("category = %q, want %q", got.Category, tt.wantCategory)
			}
		})
	}
}

func TestCalculateBodyFat_FemaleRequiresHip(t *testing.T) {
	_, err := CalculateBodyFat(models.BodyFatRequest{Gender: "female", Height: 165, Neck: 33, Waist: 70})
	if !errors.Is(err, ErrHipRequired) {
		t.Fatalf("expected ErrHipRequired, got %v", err)
	}
}

func TestCalculateBodyFat_RejectsImpossibleMeasurements(t *testing.T) {
	// Waist smaller than neck produces a negative log argument.
	_, err := CalculateBodyFat(models.BodyFatRequest{Gender: "male", Height: 180, Neck: 45, Waist: 40})
	if err == nil {
		t.Fatalf("expected an error for impossible measurements")
	}
}
