package main

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
)

// mealHistory is the append-only log of analyzed meals. Days are UTC
// calendar days.
type mealHistory interface {
	append(ctx context.Context, rec MealAnalysisRecord) (MealAnalysisRecord, error)
	listForDate(ctx context.Context, accountID int, date time.Time) ([]MealAnalysisRecord, error)
	totalCaloriesForDate(ctx context.Context, accountID int, date time.Time) (int, error)
	listRange(ctx context.Context, accountID int, from, to time.Time) ([]MealAnalysisRecord, error)
}

var mealColumns = []string{
	"id", "account_id", "dish_name",
	"estimated_calories", "estimated_protein", "estimated_carbs", "estimated_fat",
	"verdict", "feedback", "meal_type", "image_url", "created_at",
}

type pgMealHistory struct {
	db dbtx
}

func newPGMealHistory(db dbtx) *pgMealHistory {
	return &pgMealHistory{db: db}
}

// dayBounds returns [midnight, next midnight) in UTC for the day containing t.
func dayBounds(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

func (h *pgMealHistory) append(ctx context.Context, rec MealAnalysisRecord) (MealAnalysisRecord, error) {
	var imageURL *string
	if rec.ImageURL != "" {
		imageURL = &rec.ImageURL
	}
	feedback := rec.Feedback
	if feedback == nil {
		feedback = []string{}
	}

	query, args, err := psql.
		Insert("meal_analyses").
		Columns("account_id", "dish_name",
			"estimated_calories", "estimated_protein", "estimated_carbs", "estimated_fat",
			"verdict", "feedback", "meal_type", "image_url", "created_at").
		Values(rec.AccountID, rec.DishName,
			rec.EstimatedCalories, rec.EstimatedProtein, rec.EstimatedCarbs, rec.EstimatedFat,
			string(rec.Verdict), feedback, string(rec.MealType), imageURL, rec.Timestamp).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return MealAnalysisRecord{}, fmt.Errorf("build insert meal: %w", err)
	}

	if err := h.db.QueryRow(ctx, query, args...).Scan(&rec.ID); err != nil {
		return MealAnalysisRecord{}, mapError(err, "meal analysis for account", rec.AccountID)
	}
	rec.Feedback = feedback
	return rec, nil
}

func (h *pgMealHistory) listForDate(ctx context.Context, accountID int, date time.Time) ([]MealAnalysisRecord, error) {
	start, end := dayBounds(date)
	return h.listRange(ctx, accountID, start, end)
}

// listRange returns records with from <= created_at < to, oldest first.
func (h *pgMealHistory) listRange(ctx context.Context, accountID int, from, to time.Time) ([]MealAnalysisRecord, error) {
	query, args, err := psql.
		Select(mealColumns...).
		From("meal_analyses").
		Where(sq.Eq{"account_id": accountID}).
		Where(sq.GtOrEq{"created_at": from}).
		Where(sq.Lt{"created_at": to}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select meals: %w", err)
	}

	rows, err := h.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "meal analyses for account", accountID)
	}
	defer rows.Close()

	records := []MealAnalysisRecord{}
	for rows.Next() {
		var (
			rec      MealAnalysisRecord
			verdict  string
			mealType string
			imageURL *string
		)
		if err := rows.Scan(
			&rec.ID, &rec.AccountID, &rec.DishName,
			&rec.EstimatedCalories, &rec.EstimatedProtein, &rec.EstimatedCarbs, &rec.EstimatedFat,
			&verdict, &rec.Feedback, &mealType, &imageURL, &rec.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("scan meal analysis: %w", err)
		}
		rec.Verdict = Verdict(verdict)
		rec.MealType = MealType(mealType)
		if imageURL != nil {
			rec.ImageURL = *imageURL
		}
		rec.Timestamp = rec.Timestamp.UTC()
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "meal analyses for account", accountID)
	}
	return records, nil
}

func (h *pgMealHistory) totalCaloriesForDate(ctx context.Context, accountID int, date time.Time) (int, error) {
	start, end := dayBounds(date)
	query, args, err := psql.
		Select("COALESCE(SUM(estimated_calories), 0)").
		From("meal_analyses").
		Where(sq.Eq{"account_id": accountID}).
		Where(sq.GtOrEq{"created_at": start}).
		Where(sq.Lt{"created_at": end}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build sum calories: %w", err)
	}

	var total int
	if err := h.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, mapError(err, "calorie total for account", accountID)
	}
	return total, nil
}
