package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lunchTarget(target Macro) map[MealType]Macro {
	return map[MealType]Macro{MealLunch: target}
}

func TestEvaluateMeal(t *testing.T) {
	target := Macro{Calories: 500, Protein: 30, Carbs: 50, Fat: 15}

	tests := []struct {
		name     string
		estimate Macro
		goal     FitnessGoal
		verdict  Verdict
		feedback []string
	}{
		{
			name:     "on target",
			estimate: Macro{Calories: 520, Protein: 32, Carbs: 50, Fat: 15},
			goal:     GoalMaintenance,
			verdict:  VerdictApproved,
			feedback: []string{
				"Great job! Your salmon is within 10% of your calorie target for this meal.",
				"Good protein content! You're getting 32g of protein, meeting or exceeding your 30g target.",
			},
		},
		{
			name:     "over and low protein",
			estimate: Macro{Calories: 700, Protein: 10, Carbs: 80, Fat: 10},
			goal:     GoalMaintenance,
			verdict:  VerdictRejected,
			feedback: []string{
				"This salmon is 140% of your calorie target (200 calories too high).",
				"This meal is low in protein. Consider adding a protein source to reach your 30g target.",
				"For maintenance: Try to keep meals closer to your calorie targets for consistent energy.",
			},
		},
		{
			name:     "under with protein close",
			estimate: Macro{Calories: 300, Protein: 26, Carbs: 20, Fat: 10},
			goal:     GoalMaintenance,
			verdict:  VerdictRejected,
			feedback: []string{
				"This salmon is only 60% of your calorie target (200 calories below target).",
				"Protein is close to target. You're getting 26g of 30g target.",
				"For maintenance: Try to keep meals closer to your calorie targets for consistent energy.",
			},
		},
		{
			name:     "fat loss truncates to three",
			estimate: Macro{Calories: 700, Protein: 10, Carbs: 80, Fat: 30},
			goal:     GoalFatLoss,
			verdict:  VerdictRejected,
			feedback: []string{
				"This salmon is 140% of your calorie target (200 calories too high).",
				"This meal is low in protein. Consider adding a protein source to reach your 30g target.",
				"For fat loss: Consider reducing portion size or choosing lower-calorie alternatives.",
			},
		},
		{
			name:     "fat loss fat only",
			estimate: Macro{Calories: 480, Protein: 35, Carbs: 20, Fat: 25},
			goal:     GoalFatLoss,
			verdict:  VerdictApproved,
			feedback: []string{
				"Great job! Your salmon is within 10% of your calorie target for this meal.",
				"Good protein content! You're getting 35g of protein, meeting or exceeding your 30g target.",
				"For fat loss: This meal is higher in fat than optimal. Try leaner protein sources.",
			},
		},
		{
			name:     "gain short on calories and protein",
			estimate: Macro{Calories: 300, Protein: 20, Carbs: 30, Fat: 10},
			goal:     GoalGain,
			verdict:  VerdictRejected,
			feedback: []string{
				"This salmon is only 60% of your calorie target (200 calories below target).",
				"This meal is low in protein. Consider adding a protein source to reach your 30g target.",
				"For muscle gain: Try adding more calorie-dense foods to meet your surplus goal.",
			},
		},
		{
			name:     "gain protein shortfall only",
			estimate: Macro{Calories: 520, Protein: 28, Carbs: 50, Fat: 15},
			goal:     GoalGain,
			verdict:  VerdictApproved,
			feedback: []string{
				"Great job! Your salmon is within 10% of your calorie target for this meal.",
				"Protein is close to target. You're getting 28g of 30g target.",
				"For muscle gain: Add more protein to support muscle growth and recovery.",
			},
		},
		{
			name:     "twenty percent over is still approved",
			estimate: Macro{Calories: 600, Protein: 24, Carbs: 50, Fat: 15},
			goal:     GoalMaintenance,
			verdict:  VerdictApproved,
			feedback: []string{
				"This salmon is 120% of your calorie target (100 calories too high).",
				"This meal is low in protein. Consider adding a protein source to reach your 30g target.",
				"For maintenance: Try to keep meals closer to your calorie targets for consistent energy.",
			},
		},
		{
			name:     "protein under eighty percent rejects",
			estimate: Macro{Calories: 500, Protein: 23, Carbs: 50, Fat: 15},
			goal:     GoalMaintenance,
			verdict:  VerdictRejected,
			feedback: []string{
				"Great job! Your salmon is within 10% of your calorie target for this meal.",
				"This meal is low in protein. Consider adding a protein source to reach your 30g target.",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := evaluateMeal(lunchTarget(target), MealLunch, "salmon", tt.estimate, tt.goal)
			assert.Equal(t, tt.verdict, got.Verdict)
			assert.Equal(t, tt.feedback, got.Feedback)
			assert.LessOrEqual(t, len(got.Feedback), maxFeedbackItems)
		})
	}
}

func TestEvaluateMeal_MissingTargets(t *testing.T) {
	estimate := Macro{Calories: 500, Protein: 30}

	tests := []struct {
		name  string
		meals map[MealType]Macro
	}{
		{"no meals", nil},
		{"slot missing", map[MealType]Macro{MealDinner: {Calories: 600, Protein: 30}}},
		{"zero calorie target", lunchTarget(Macro{Calories: 0, Protein: 30})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := evaluateMeal(tt.meals, MealLunch, "pasta", estimate, GoalMaintenance)
			assert.Equal(t, VerdictRejected, got.Verdict)
			require.Len(t, got.Feedback, 1)
			assert.Equal(t, missingTargetsMessage, got.Feedback[0])
		})
	}
}

// The verdict must not depend on how many messages survive truncation.
func TestEvaluateMeal_VerdictIgnoresFeedbackOrder(t *testing.T) {
	target := lunchTarget(Macro{Calories: 500, Protein: 30, Fat: 15})
	estimate := Macro{Calories: 560, Protein: 40, Fat: 40}

	a := evaluateMeal(target, MealLunch, "burger", estimate, GoalFatLoss)
	b := evaluateMeal(target, MealLunch, "burger", estimate, GoalMaintenance)

	assert.Equal(t, VerdictApproved, a.Verdict)
	assert.Equal(t, a.Verdict, b.Verdict)
	assert.Len(t, a.Feedback, 3)
	assert.Len(t, b.Feedback, 2)
}
