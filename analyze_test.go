package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubClassifier returns a fixed label or error.
type stubClassifier struct {
	label string
	err   error
	calls int
}

func (s *stubClassifier) Classify(ctx context.Context, _ mealImage) (string, error) {
	s.calls++
	return s.label, s.err
}

// blockingClassifier waits for the context to end.
type blockingClassifier struct{}

func (blockingClassifier) Classify(ctx context.Context, _ mealImage) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func setUpProfile() Profile {
	p := sampleProfile()
	p.applyPlan(mealPlanner{}.generateMealPlan(p))
	return p
}

func newTestAnalyzer(c classifier, timeout time.Duration) *mealAnalyzer {
	a := newMealAnalyzer(c, defaultNutritionFacts, timeout, newNopLogger())
	a.now = func() time.Time { return time.Date(2026, 10, 14, 12, 30, 0, 0, time.FixedZone("CEST", 2*3600)) }
	return a
}

func TestMealAnalyzer_Analyze(t *testing.T) {
	profile := setUpProfile()
	a := newTestAnalyzer(&stubClassifier{label: " Salmon "}, time.Second)

	rec, err := a.analyze(context.Background(), profile, MealDinner, mealImage{Data: []byte("jpeg")})
	require.NoError(t, err)

	want := evaluateMeal(profile.Meals, MealDinner, "salmon", defaultNutritionFacts["salmon"], profile.FitnessGoal)
	assert.Equal(t, "salmon", rec.DishName)
	assert.Equal(t, 350, rec.EstimatedCalories)
	assert.Equal(t, 36, rec.EstimatedProtein)
	assert.Equal(t, 0, rec.EstimatedCarbs)
	assert.Equal(t, 20, rec.EstimatedFat)
	assert.Equal(t, MealDinner, rec.MealType)
	assert.Equal(t, want.Verdict, rec.Verdict)
	assert.Equal(t, want.Feedback, rec.Feedback)
	assert.Equal(t, time.Date(2026, 10, 14, 10, 30, 0, 0, time.UTC), rec.Timestamp)
	assert.Equal(t, time.UTC, rec.Timestamp.Location())
}

func TestMealAnalyzer_NoTargets(t *testing.T) {
	a := newTestAnalyzer(&stubClassifier{label: "pizza"}, time.Second)

	rec, err := a.analyze(context.Background(), sampleProfile(), MealLunch, mealImage{Data: []byte("x")})
	require.NoError(t, err)
	assert.Equal(t, VerdictRejected, rec.Verdict)
	assert.Equal(t, []string{missingTargetsMessage}, rec.Feedback)
}

func TestMealAnalyzer_Errors(t *testing.T) {
	boom := errors.New("model offline")

	tests := []struct {
		name       string
		classifier classifier
		mealType   MealType
		wantErr    error
	}{
		{"invalid meal type", &stubClassifier{label: "pizza"}, MealType("brunch"), ErrValidation},
		{"classifier error", &stubClassifier{err: boom}, MealLunch, ErrClassification},
		{"empty label", &stubClassifier{label: "  "}, MealLunch, ErrClassification},
		{"unknown dish", &stubClassifier{label: "sushi"}, MealLunch, ErrUnknownDish},
		{"timeout", blockingClassifier{}, MealLunch, ErrClassification},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAnalyzer(tt.classifier, 20*time.Millisecond)
			_, err := a.analyze(context.Background(), setUpProfile(), tt.mealType, mealImage{Data: []byte("x")})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("wrapped cause is kept", func(t *testing.T) {
		a := newTestAnalyzer(&stubClassifier{err: boom}, time.Second)
		_, err := a.analyze(context.Background(), setUpProfile(), MealLunch, mealImage{})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("timeout keeps deadline cause", func(t *testing.T) {
		a := newTestAnalyzer(blockingClassifier{}, 10*time.Millisecond)
		_, err := a.analyze(context.Background(), setUpProfile(), MealLunch, mealImage{})
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("invalid meal type skips classifier", func(t *testing.T) {
		stub := &stubClassifier{label: "pizza"}
		a := newTestAnalyzer(stub, time.Second)
		_, _ = a.analyze(context.Background(), setUpProfile(), MealType(""), mealImage{})
		assert.Zero(t, stub.calls)
	})
}
