package main

import (
	"time"
)

// DateOnly wraps time.Time to serialize as "YYYY-MM-DD" in JSON.
type DateOnly struct{ time.Time }

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Time.Format("2006-01-02") + `"`), nil
}

/* ─── Enums ──────────────────────────────────────────────────────────── */

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

type FitnessGoal string

const (
	GoalFatLoss     FitnessGoal = "fat_loss"
	GoalMaintenance FitnessGoal = "maintenance"
	GoalGain        FitnessGoal = "gain"
)

type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very_active"
)

type WorkoutIntensity string

const (
	IntensityLow    WorkoutIntensity = "low"
	IntensityMedium WorkoutIntensity = "medium"
	IntensityHigh   WorkoutIntensity = "high"
)

// MealType is one of the four daily meal slots.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

// mealTypes lists the slots in display order.
var mealTypes = []MealType{MealBreakfast, MealLunch, MealDinner, MealSnack}

func (m MealType) valid() bool {
	switch m {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
		return true
	}
	return false
}

type Verdict string

const (
	VerdictApproved Verdict = "Approved"
	VerdictRejected Verdict = "Rejected"
)

/* ─── Domain structs ─────────────────────────────────────────────────── */

// Macro is a {calories, protein, carbs, fat} tuple. Grams for the macros.
type Macro struct {
	Calories int `json:"calories"`
	Protein  int `json:"protein"`
	Carbs    int `json:"carbs"`
	Fat      int `json:"fat"`
}

// MealPlan is the output of the planner: daily totals plus per-slot targets.
type MealPlan struct {
	DailyCalories int   `json:"daily_calories"`
	DailyProtein  int   `json:"daily_protein"`
	DailyCarbs    int   `json:"daily_carbs"`
	DailyFat      int   `json:"daily_fat"`
	Breakfast     Macro `json:"breakfast"`
	Lunch         Macro `json:"lunch"`
	Dinner        Macro `json:"dinner"`
	Snack         Macro `json:"snack"`
}

// Meals returns the plan's slot targets keyed by meal type.
func (p MealPlan) Meals() map[MealType]Macro {
	return map[MealType]Macro{
		MealBreakfast: p.Breakfast,
		MealLunch:     p.Lunch,
		MealDinner:    p.Dinner,
		MealSnack:     p.Snack,
	}
}

// Profile is the biometric/activity profile plus the plan folded into it.
// Daily* and Meals stay nil until the planner has run once; their presence
// is the "setup complete" signal.
type Profile struct {
	Age               int              `json:"age"`
	Gender            Gender           `json:"gender"`
	HeightCm          float64          `json:"height_cm"`
	WeightKg          float64          `json:"weight_kg"`
	BodyFatPercentage *float64         `json:"body_fat_percentage,omitempty"`
	FitnessGoal       FitnessGoal      `json:"fitness_goal"`
	ActivityLevel     ActivityLevel    `json:"activity_level"`
	StepsPerDay       int              `json:"steps_per_day"`
	WorkoutIntensity  WorkoutIntensity `json:"workout_intensity"`

	DailyCalories *int               `json:"daily_calories,omitempty"`
	DailyProtein  *int               `json:"daily_protein,omitempty"`
	DailyCarbs    *int               `json:"daily_carbs,omitempty"`
	DailyFat      *int               `json:"daily_fat,omitempty"`
	Meals         map[MealType]Macro `json:"meals,omitempty"`
}

// SetupComplete reports whether the planner has populated the daily targets.
func (p *Profile) SetupComplete() bool {
	return p != nil && p.DailyCalories != nil
}

// applyPlan folds a generated plan into the profile.
func (p *Profile) applyPlan(plan MealPlan) {
	p.DailyCalories = &plan.DailyCalories
	p.DailyProtein = &plan.DailyProtein
	p.DailyCarbs = &plan.DailyCarbs
	p.DailyFat = &plan.DailyFat
	p.Meals = plan.Meals()
}

// plan rebuilds the MealPlan view from a set-up profile.
// Returns ok=false until the planner has run.
func (p *Profile) plan() (MealPlan, bool) {
	if !p.SetupComplete() || p.DailyProtein == nil || p.DailyCarbs == nil || p.DailyFat == nil {
		return MealPlan{}, false
	}
	return MealPlan{
		DailyCalories: *p.DailyCalories,
		DailyProtein:  *p.DailyProtein,
		DailyCarbs:    *p.DailyCarbs,
		DailyFat:      *p.DailyFat,
		Breakfast:     p.Meals[MealBreakfast],
		Lunch:         p.Meals[MealLunch],
		Dinner:        p.Meals[MealDinner],
		Snack:         p.Meals[MealSnack],
	}, true
}

// account maps to the accounts table. PasswordHash and AuthToken are hidden
// from JSON responses. Profile is nil until the user has saved one.
type account struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	AuthToken    string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	TrialEndsAt  time.Time `json:"trial_ends_at"`
	Subscribed   bool      `json:"subscribed"`
	Profile      *Profile  `json:"profile"`
}

// MealAnalysisRecord is one analyzed photo. Immutable once created.
type MealAnalysisRecord struct {
	ID                int       `json:"id,omitempty"`
	AccountID         int       `json:"-"`
	DishName          string    `json:"dish_name"`
	EstimatedCalories int       `json:"estimated_calories"`
	EstimatedProtein  int       `json:"estimated_protein"`
	EstimatedCarbs    int       `json:"estimated_carbs"`
	EstimatedFat      int       `json:"estimated_fat"`
	Verdict           Verdict   `json:"verdict"`
	Feedback          []string  `json:"feedback"`
	Timestamp         time.Time `json:"timestamp"`
	MealType          MealType  `json:"meal_type"`
	ImageURL          string    `json:"image_url,omitempty"`
}

/* ─── Response shapes ────────────────────────────────────────────────── */

// profileResponse is the shape of GET/PUT /api/profile.
type profileResponse struct {
	account
	SetupComplete    bool `json:"setup_complete"`
	CanAccessPremium bool `json:"can_access_premium"`
}

// dailySummary is the response shape for GET /api/meals/daily-summary.
type dailySummary struct {
	Date              string               `json:"date"`
	DailyCalories     int                  `json:"daily_calories"`
	CaloriesConsumed  int                  `json:"calories_consumed"`
	CaloriesRemaining int                  `json:"calories_remaining"`
	ProteinG          int                  `json:"protein_g"`
	CarbsG            int                  `json:"carbs_g"`
	FatG              int                  `json:"fat_g"`
	Targets           Macro                `json:"targets"`
	Meals             []MealAnalysisRecord `json:"meals"`
}

// weekDaySummary is one day's entry in the GET /api/meals/week-summary response.
// Days with no analyzed meals have HasData=false and zero totals.
type weekDaySummary struct {
	Date             DateOnly `json:"date"`
	DailyCalories    int      `json:"daily_calories"`
	CaloriesConsumed int      `json:"calories_consumed"`
	ProteinG         int      `json:"protein_g"`
	CarbsG           int      `json:"carbs_g"`
	FatG             int      `json:"fat_g"`
	Approved         int      `json:"approved"`
	Rejected         int      `json:"rejected"`
	HasData          bool     `json:"has_data"`
}

/* ─── Request bodies ─────────────────────────────────────────────────── */

// registerRequest is the request body for POST /api/register.
type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// profileRequest is the request body for PUT /api/profile. Computed targets
// are never accepted from the client; the planner produces them.
type profileRequest struct {
	Age               int              `json:"age"`
	Gender            Gender           `json:"gender"`
	HeightCm          float64          `json:"height_cm"`
	WeightKg          float64          `json:"weight_kg"`
	BodyFatPercentage *float64         `json:"body_fat_percentage"`
	FitnessGoal       FitnessGoal      `json:"fitness_goal"`
	ActivityLevel     ActivityLevel    `json:"activity_level"`
	StepsPerDay       int              `json:"steps_per_day"`
	WorkoutIntensity  WorkoutIntensity `json:"workout_intensity"`
}

func (r profileRequest) toProfile() Profile {
	return Profile{
		Age:               r.Age,
		Gender:            r.Gender,
		HeightCm:          r.HeightCm,
		WeightKg:          r.WeightKg,
		BodyFatPercentage: r.BodyFatPercentage,
		FitnessGoal:       r.FitnessGoal,
		ActivityLevel:     r.ActivityLevel,
		StepsPerDay:       r.StepsPerDay,
		WorkoutIntensity:  r.WorkoutIntensity,
	}
}
