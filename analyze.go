package main

import (
	"context"
	"fmt"
	"time"
)

// mealImage is an uploaded photo as the classifier sees it.
type mealImage struct {
	Filename    string
	ContentType string
	Data        []byte
}

// classifier turns a meal photo into a dish label. An empty label means the
// image could not be recognized.
type classifier interface {
	Classify(ctx context.Context, img mealImage) (string, error)
}

// mealAnalyzer coordinates classification, nutrition lookup and feedback for
// a single photo. It does not persist anything; callers append the returned
// record to the meal history.
type mealAnalyzer struct {
	classifier classifier
	facts      nutritionFacts
	timeout    time.Duration
	now        func() time.Time
	log        *Logger
}

func newMealAnalyzer(c classifier, facts nutritionFacts, timeout time.Duration, log *Logger) *mealAnalyzer {
	return &mealAnalyzer{
		classifier: c,
		facts:      facts,
		timeout:    timeout,
		now:        time.Now,
		log:        log.With("component", "meal_analyzer"),
	}
}

// analyze classifies the image, looks up the dish and evaluates it against the
// profile's target for mealType. Classifier failures, empty labels and timeouts
// surface as ErrClassification; labels missing from the nutrition table as
// ErrUnknownDish.
func (a *mealAnalyzer) analyze(ctx context.Context, profile Profile, mealType MealType, img mealImage) (MealAnalysisRecord, error) {
	if !mealType.valid() {
		return MealAnalysisRecord{}, &ValidationError{Errors: []FieldError{{
			Field:   "meal_type",
			Message: "must be one of: breakfast, lunch, dinner, snack",
		}}}
	}

	dishName, err := a.classify(ctx, img)
	if err != nil {
		return MealAnalysisRecord{}, err
	}

	facts, ok := a.facts.Lookup(dishName)
	if !ok {
		return MealAnalysisRecord{}, fmt.Errorf("%w: %s", ErrUnknownDish, dishName)
	}

	eval := evaluateMeal(profile.Meals, mealType, dishName, facts, profile.FitnessGoal)

	a.log.Debugw("meal analyzed",
		"dish", dishName, "meal_type", mealType, "verdict", eval.Verdict, "calories", facts.Calories)

	return MealAnalysisRecord{
		DishName:          dishName,
		EstimatedCalories: facts.Calories,
		EstimatedProtein:  facts.Protein,
		EstimatedCarbs:    facts.Carbs,
		EstimatedFat:      facts.Fat,
		Verdict:           eval.Verdict,
		Feedback:          eval.Feedback,
		Timestamp:         a.now().UTC(),
		MealType:          mealType,
	}, nil
}

func (a *mealAnalyzer) classify(ctx context.Context, img mealImage) (string, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	label, err := a.classifier.Classify(ctx, img)
	if err != nil {
		a.log.Warnw("classifier failed", "error", err, "filename", img.Filename)
		return "", fmt.Errorf("%w: %w", ErrClassification, err)
	}
	label = normalizeDish(label)
	if label == "" {
		return "", ErrClassification
	}
	return label, nil
}
