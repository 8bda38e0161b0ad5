package main

import (
	"math"
	"time"
)

// activityMultipliers maps activity levels to their TDEE multiplier.
// validateProfile checks activity levels against this table.
var activityMultipliers = map[ActivityLevel]float64{
	ActivitySedentary:  1.2,
	ActivityLight:      1.375,
	ActivityModerate:   1.55,
	ActivityActive:     1.725,
	ActivityVeryActive: 1.9,
}

// workoutBonuses maps workout intensity to flat kcal added on top of BMR×multiplier.
var workoutBonuses = map[WorkoutIntensity]float64{
	IntensityLow:    100,
	IntensityMedium: 200,
	IntensityHigh:   300,
}

const (
	kcalPerStep = 0.04
	// referenceStepWeightKg is the body weight kcalPerStep was estimated for.
	referenceStepWeightKg = 70.0
)

// computeBMR returns basal metabolic rate in kcal/day. A non-zero body-fat
// percentage selects Katch-McArdle (lean mass based); otherwise Mifflin-St Jeor
// with the sex-specific constant.
func computeBMR(weightKg, heightCm float64, age int, gender Gender, bodyFatPercentage *float64) float64 {
	if bodyFatPercentage != nil && *bodyFatPercentage != 0 {
		leanBodyMass := weightKg * (1 - *bodyFatPercentage/100)
		return 370 + 21.6*leanBodyMass
	}

	bmr := 10*weightKg + 6.25*heightCm - 5*float64(age)
	if gender == GenderMale {
		return bmr + 5
	}
	return bmr - 161
}

// stepCalories estimates kcal burned by walking. The weight factor is pinned
// to the reference weight, so it is always 1.
func stepCalories(stepsPerDay int) float64 {
	return float64(stepsPerDay) * kcalPerStep * (referenceStepWeightKg / referenceStepWeightKg)
}

// roundHalfUp rounds to the nearest integer with ties toward +Inf, so -2.5
// becomes -2 rather than math.Round's -3.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

// computeTDEE returns total daily energy expenditure, rounded to whole kcal.
// Unknown activity levels fall back to sedentary; unknown intensities add nothing.
// The step bonus only counts when includeSteps is set; the historical plans
// were generated without it.
func computeTDEE(bmr float64, level ActivityLevel, stepsPerDay int, intensity WorkoutIntensity, includeSteps bool) int {
	mult, found := activityMultipliers[level]
	if !found {
		mult = activityMultipliers[ActivitySedentary]
	}

	tdee := bmr*mult + workoutBonuses[intensity]
	if includeSteps {
		tdee += stepCalories(stepsPerDay)
	}
	return int(roundHalfUp(tdee))
}

// computeTargetCalories adjusts TDEE for the fitness goal: a 20% deficit for
// fat loss, a 10% surplus for gain.
func computeTargetCalories(tdee int, goal FitnessGoal) int {
	switch goal {
	case GoalFatLoss:
		return int(roundHalfUp(float64(tdee) * 0.8))
	case GoalGain:
		return int(roundHalfUp(float64(tdee) * 1.1))
	default:
		return tdee
	}
}

// currentMonday returns the Monday of the current week at midnight UTC.
func currentMonday(now time.Time) time.Time {
	now = now.UTC()
	weekday := int(now.Weekday()) // 0=Sun
	if weekday == 0 {
		weekday = 7 // treat Sunday as day 7 so Mon=1..Sun=7
	}
	daysBack := weekday - 1
	return now.AddDate(0, 0, -daysBack).Truncate(24 * time.Hour)
}
