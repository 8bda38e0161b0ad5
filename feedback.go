package main

import (
	"fmt"
	"math"
)

const (
	maxFeedbackItems = 3

	calorieOnTargetBand    = 0.10 // positive calorie message
	maintenanceDriftBand   = 0.15 // maintenance nudge
	approvalCalorieBand    = 0.20
	approvalProteinShare   = 0.80
	proteinCloseToleranceG = 5
)

const missingTargetsMessage = "Could not analyze meal: No meal targets found in your profile."

// mealEvaluation is the verdict plus ordered, human-readable feedback.
type mealEvaluation struct {
	Verdict  Verdict  `json:"verdict"`
	Feedback []string `json:"feedback"`
}

// evaluateMeal compares an analyzed dish against the profile's target for the
// slot. Feedback is built in a fixed order (calories, protein, goal-specific)
// and cut to the first three entries. The verdict is independent of which
// messages survive the cut.
//
// A missing target, or one with zero calories, is reported as a Rejected
// verdict with a single explanatory message rather than an error.
func evaluateMeal(meals map[MealType]Macro, mealType MealType, dishName string, estimate Macro, goal FitnessGoal) mealEvaluation {
	target, ok := meals[mealType]
	if !ok || target.Calories == 0 {
		return mealEvaluation{Verdict: VerdictRejected, Feedback: []string{missingTargetsMessage}}
	}

	caloriesDiff := estimate.Calories - target.Calories
	proteinDiff := estimate.Protein - target.Protein
	fatDiff := estimate.Fat - target.Fat
	targetCalories := float64(target.Calories)

	var feedback []string

	caloriePercentage := int(roundHalfUp(float64(estimate.Calories) / targetCalories * 100))
	switch {
	case math.Abs(float64(caloriesDiff)) <= targetCalories*calorieOnTargetBand:
		feedback = append(feedback, fmt.Sprintf("Great job! Your %s is within 10%% of your calorie target for this meal.", dishName))
	case caloriesDiff > 0:
		feedback = append(feedback, fmt.Sprintf("This %s is %d%% of your calorie target (%d calories too high).", dishName, caloriePercentage, caloriesDiff))
	default:
		feedback = append(feedback, fmt.Sprintf("This %s is only %d%% of your calorie target (%d calories below target).", dishName, caloriePercentage, -caloriesDiff))
	}

	switch {
	case proteinDiff >= 0:
		feedback = append(feedback, fmt.Sprintf("Good protein content! You're getting %dg of protein, meeting or exceeding your %dg target.", estimate.Protein, target.Protein))
	case proteinDiff >= -proteinCloseToleranceG:
		feedback = append(feedback, fmt.Sprintf("Protein is close to target. You're getting %dg of %dg target.", estimate.Protein, target.Protein))
	default:
		feedback = append(feedback, fmt.Sprintf("This meal is low in protein. Consider adding a protein source to reach your %dg target.", target.Protein))
	}

	switch goal {
	case GoalFatLoss:
		if caloriesDiff > 0 {
			feedback = append(feedback, "For fat loss: Consider reducing portion size or choosing lower-calorie alternatives.")
		}
		if fatDiff > 0 {
			feedback = append(feedback, "For fat loss: This meal is higher in fat than optimal. Try leaner protein sources.")
		}
	case GoalGain:
		if caloriesDiff < 0 {
			feedback = append(feedback, "For muscle gain: Try adding more calorie-dense foods to meet your surplus goal.")
		}
		if proteinDiff < 0 {
			feedback = append(feedback, "For muscle gain: Add more protein to support muscle growth and recovery.")
		}
	case GoalMaintenance:
		if math.Abs(float64(caloriesDiff)) > targetCalories*maintenanceDriftBand {
			feedback = append(feedback, "For maintenance: Try to keep meals closer to your calorie targets for consistent energy.")
		}
	}

	verdict := VerdictRejected
	if math.Abs(float64(caloriesDiff)) <= targetCalories*approvalCalorieBand &&
		float64(estimate.Protein) >= float64(target.Protein)*approvalProteinShare {
		verdict = VerdictApproved
	}

	if len(feedback) > maxFeedbackItems {
		feedback = feedback[:maxFeedbackItems]
	}

	return mealEvaluation{Verdict: verdict, Feedback: feedback}
}
