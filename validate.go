package main

import (
	"fmt"
	"strings"

	"lg/fitvision-api/internal/signup"
)

// Accepted input ranges for profile setup.
const (
	minAge, maxAge               = 15, 100
	minHeightCm, maxHeightCm     = 100.0, 250.0
	minWeightKg, maxWeightKg     = 30.0, 300.0
	minBodyFatPct, maxBodyFatPct = 3.0, 50.0
	maxStepsPerDay               = 100000
)

// validateProfile checks every field of a profile and returns all failures at
// once as a *ValidationError, or nil.
func validateProfile(p Profile) error {
	var errs []FieldError
	add := func(field, format string, args ...any) {
		errs = append(errs, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if p.Age < minAge || p.Age > maxAge {
		add("age", "must be between %d and %d", minAge, maxAge)
	}
	if p.Gender != GenderMale && p.Gender != GenderFemale {
		add("gender", "must be one of: male, female")
	}
	if p.HeightCm < minHeightCm || p.HeightCm > maxHeightCm {
		add("height_cm", "must be between %.0f and %.0f", minHeightCm, maxHeightCm)
	}
	if p.WeightKg < minWeightKg || p.WeightKg > maxWeightKg {
		add("weight_kg", "must be between %.0f and %.0f", minWeightKg, maxWeightKg)
	}
	if bf := p.BodyFatPercentage; bf != nil && (*bf < minBodyFatPct || *bf > maxBodyFatPct) {
		add("body_fat_percentage", "must be between %.0f and %.0f", minBodyFatPct, maxBodyFatPct)
	}
	if _, ok := macroRatios[p.FitnessGoal]; !ok {
		add("fitness_goal", "must be one of: fat_loss, maintenance, gain")
	}
	if _, ok := activityMultipliers[p.ActivityLevel]; !ok {
		add("activity_level", "must be one of: sedentary, light, moderate, active, very_active")
	}
	if p.StepsPerDay < 0 || p.StepsPerDay > maxStepsPerDay {
		add("steps_per_day", "must be between 0 and %d", maxStepsPerDay)
	}
	if _, ok := workoutBonuses[p.WorkoutIntensity]; !ok {
		add("workout_intensity", "must be one of: low, medium, high")
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// validateRegistration checks the signup fields and normalizes the email.
func validateRegistration(r *registerRequest) error {
	var errs []FieldError
	r.Name = strings.TrimSpace(r.Name)
	r.Email = signup.NormalizeEmail(r.Email)

	if r.Name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "is required"})
	}
	if !signup.ValidEmail(r.Email) {
		errs = append(errs, FieldError{Field: "email", Message: "must be a valid email address"})
	}
	if !signup.ValidPassword(r.Password) {
		errs = append(errs, FieldError{Field: "password", Message: fmt.Sprintf("must be at least %d characters", signup.MinPasswordLen)})
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}
