package body_test

import (
	"math"
	"testing"

	"github.com/myrjola/fitrec/internal/body"
)

func TestCategoryForBMI(t *testing.T) {
	tests := []struct {
		bmi  float64
		want body.BMICategory
	}{
		{0, body.CategoryUnderweight},
		{18.49999, body.CategoryUnderweight},
		{18.5, body.CategoryNormal},
		{24.9999, body.CategoryNormal},
		{25, body.CategoryOverweight},
		{29.9999, body.CategoryOverweight},
		{30, body.CategoryObese},
		{55, body.CategoryObese},
	}
	for _, tt := range tests {
		if got := body.CategoryForBMI(tt.bmi); got != tt.want {
			t.Errorf("CategoryForBMI(%v) = %q, want %q", tt.bmi, got, tt.want)
		}
	}
}

func TestClassifyBMI(t *testing.T) {
	tests := []struct {
		name     string
		weightKg float64
		heightCm float64
		wantBMI  float64
		want     body.BMICategory
	}{
		{name: "normal adult", weightKg: 65, heightCm: 170, wantBMI: 22.491, want: body.CategoryNormal},
		{name: "obese", weightKg: 110, heightCm: 170, wantBMI: 38.062, want: body.CategoryObese},
		{name: "underweight", weightKg: 50, heightCm: 180, wantBMI: 15.432, want: body.CategoryUnderweight},
		{name: "overweight", weightKg: 80, heightCm: 170, wantBMI: 27.682, want: body.CategoryOverweight},
		{name: "exact lower bound of normal", weightKg: 18.5, heightCm: 100, wantBMI: 18.5, want: body.CategoryNormal},
		{name: "exact lower bound of obese", weightKg: 30, heightCm: 100, wantBMI: 30, want: body.CategoryObese},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := body.ClassifyBMI(tt.weightKg, tt.heightCm)
			if got.Category != tt.want {
				t.Errorf("Category = %q, want %q", got.Category, tt.want)
			}
			if math.Abs(got.Value-tt.wantBMI) > 0.001 {
				t.Errorf("Value = %v, want %v", got.Value, tt.wantBMI)
			}
		})
	}
}

func TestClassifyAge(t *testing.T) {
	tests := []struct {
		age  float64
		want body.AgeBracket
	}{
		{10, body.BracketYoung},
		{24.999, body.BracketYoung},
		{25, body.BracketAdult},
		{44.999, body.BracketAdult},
		{45, body.BracketSenior},
		{70, body.BracketSenior},
	}
	for _, tt := range tests {
		if got := body.ClassifyAge(tt.age); got != tt.want {
			t.Errorf("ClassifyAge(%v) = %q, want %q", tt.age, got, tt.want)
		}
	}
}

func TestDifficultyLevel(t *testing.T) {
	tests := []struct {
		name     string
		category body.BMICategory
		age      float64
		want     string
	}{
		{"obese young", body.CategoryObese, 20, "Easy"},
		{"normal elderly", body.CategoryNormal, 60, "Easy"},
		{"overweight adult", body.CategoryOverweight, 30, "Medium"},
		{"underweight senior", body.CategoryUnderweight, 45, "Medium"},
		{"normal senior", body.CategoryNormal, 50, "Medium"},
		{"normal adult", body.CategoryNormal, 30, "Medium to Hard"},
		{"underweight young", body.CategoryUnderweight, 20, "Easy to Medium"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := body.DifficultyLevel(tt.category, tt.age); got != tt.want {
				t.Errorf("DifficultyLevel(%q, %v) = %q, want %q", tt.category, tt.age, got, tt.want)
			}
		})
	}
}
