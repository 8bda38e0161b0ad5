package main

// macroRatio holds the per-goal protein and fat settings used by computeMacros.
type macroRatio struct {
	proteinPerKg float64
	fatFraction  float64
}

var macroRatios = map[FitnessGoal]macroRatio{
	GoalFatLoss:     {proteinPerKg: 2.2, fatFraction: 0.25},
	GoalMaintenance: {proteinPerKg: 1.8, fatFraction: 0.30},
	GoalGain:        {proteinPerKg: 2.0, fatFraction: 0.25},
}

const (
	kcalPerGramProtein = 4
	kcalPerGramCarbs   = 4
	kcalPerGramFat     = 9
)

// mealWeights is the share of each daily total assigned to a slot. Sums to 1.0.
var mealWeights = map[MealType]float64{
	MealBreakfast: 0.25,
	MealLunch:     0.35,
	MealDinner:    0.30,
	MealSnack:     0.10,
}

// computeMacros splits target calories into protein, fat and carb grams.
// Protein is sized by body weight, fat by a fraction of calories, carbs take
// whatever is left. Carbs are not floored: when protein and fat together
// exceed the target the result is negative.
func computeMacros(targetCalories int, bodyWeightKg float64, goal FitnessGoal) (protein, fat, carbs int) {
	ratio, ok := macroRatios[goal]
	if !ok {
		ratio = macroRatios[GoalMaintenance]
	}

	protein = int(roundHalfUp(bodyWeightKg * ratio.proteinPerKg))
	proteinCalories := float64(protein * kcalPerGramProtein)

	fatCalories := float64(targetCalories) * ratio.fatFraction
	fat = int(roundHalfUp(fatCalories / kcalPerGramFat))

	remaining := float64(targetCalories) - proteinCalories - fatCalories
	carbs = int(roundHalfUp(remaining / kcalPerGramCarbs))
	return protein, fat, carbs
}

// createMealPlan distributes daily totals over the four slots. Every field is
// rounded on its own, so slot sums can drift a little from the daily figure.
func createMealPlan(calories, protein, carbs, fat int) MealPlan {
	slot := func(m MealType) Macro {
		w := mealWeights[m]
		return Macro{
			Calories: int(roundHalfUp(float64(calories) * w)),
			Protein:  int(roundHalfUp(float64(protein) * w)),
			Carbs:    int(roundHalfUp(float64(carbs) * w)),
			Fat:      int(roundHalfUp(float64(fat) * w)),
		}
	}

	return MealPlan{
		DailyCalories: calories,
		DailyProtein:  protein,
		DailyCarbs:    carbs,
		DailyFat:      fat,
		Breakfast:     slot(MealBreakfast),
		Lunch:         slot(MealLunch),
		Dinner:        slot(MealDinner),
		Snack:         slot(MealSnack),
	}
}

// mealPlanner turns a profile into a meal plan. It holds no state besides
// configuration, so one value is shared by all requests.
type mealPlanner struct {
	includeStepCalories bool
}

// generateMealPlan runs BMR → TDEE → target calories → macros → slots.
// Inputs are expected to have passed validateProfile.
func (p mealPlanner) generateMealPlan(profile Profile) MealPlan {
	bmr := computeBMR(profile.WeightKg, profile.HeightCm, profile.Age, profile.Gender, profile.BodyFatPercentage)
	tdee := computeTDEE(bmr, profile.ActivityLevel, profile.StepsPerDay, profile.WorkoutIntensity, p.includeStepCalories)
	target := computeTargetCalories(tdee, profile.FitnessGoal)
	protein, fat, carbs := computeMacros(target, profile.WeightKg, profile.FitnessGoal)
	return createMealPlan(target, protein, carbs, fat)
}
