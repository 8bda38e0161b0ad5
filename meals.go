package main

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// parseDay reads a YYYY-MM-DD query parameter as a UTC day, defaulting to today.
func (h *Handler) parseDay(c *gin.Context, param string) (time.Time, bool) {
	s := c.Query(param)
	if s == "" {
		start, _ := dayBounds(h.now())
		return start, true
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid "+param+", expected YYYY-MM-DD")
		return time.Time{}, false
	}
	return t, true
}

// analyzeMeal classifies an uploaded photo, evaluates it against the caller's
// target for the meal slot and appends the result to their history.
// POST /api/meals/analyze (multipart: image, meal_type, optional image_url).
func (h *Handler) analyzeMeal(c *gin.Context) {
	acc, _ := currentAccount(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)

	fh, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			apiError(c, http.StatusRequestEntityTooLarge, "image too large")
			return
		}
		apiError(c, http.StatusBadRequest, "image is required")
		return
	}
	f, err := fh.Open()
	if err != nil {
		apiError(c, http.StatusBadRequest, "failed to read image")
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil || len(data) == 0 {
		apiError(c, http.StatusBadRequest, "failed to read image")
		return
	}

	// A profile without targets still gets analyzed; the verdict says why it
	// was rejected.
	var profile Profile
	if acc.Profile != nil {
		profile = *acc.Profile
	}

	rec, err := h.analyzer.analyze(c, profile, MealType(c.PostForm("meal_type")), mealImage{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	rec.AccountID = acc.ID
	rec.ImageURL = c.PostForm("image_url")

	saved, err := h.meals.append(c, rec)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.log.Infow("meal analyzed", "user_id", acc.ID, "dish", saved.DishName, "verdict", saved.Verdict)
	c.JSON(http.StatusCreated, saved)
}

// listMeals returns the analyzed meals for one day, oldest first.
// GET /api/meals?date=YYYY-MM-DD (defaults to today, UTC).
func (h *Handler) listMeals(c *gin.Context) {
	acc, _ := currentAccount(c)
	day, ok := h.parseDay(c, "date")
	if !ok {
		return
	}

	records, err := h.meals.listForDate(c, acc.ID, day)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// getDailySummary returns the day's meals with consumed totals against the
// daily target. Remaining calories never go below zero.
// GET /api/meals/daily-summary?date=YYYY-MM-DD (defaults to today, UTC).
func (h *Handler) getDailySummary(c *gin.Context) {
	acc, _ := currentAccount(c)
	day, ok := h.parseDay(c, "date")
	if !ok {
		return
	}

	records, err := h.meals.listForDate(c, acc.ID, day)
	if err != nil {
		h.writeError(c, err)
		return
	}
	consumed, err := h.meals.totalCaloriesForDate(c, acc.ID, day)
	if err != nil {
		h.writeError(c, err)
		return
	}

	summary := dailySummary{
		Date:             day.Format("2006-01-02"),
		CaloriesConsumed: consumed,
		Meals:            records,
	}
	for _, r := range records {
		summary.ProteinG += r.EstimatedProtein
		summary.CarbsG += r.EstimatedCarbs
		summary.FatG += r.EstimatedFat
	}
	if plan, ok := acc.Profile.plan(); ok {
		summary.DailyCalories = plan.DailyCalories
		summary.Targets = Macro{
			Calories: plan.DailyCalories,
			Protein:  plan.DailyProtein,
			Carbs:    plan.DailyCarbs,
			Fat:      plan.DailyFat,
		}
	}
	summary.CaloriesRemaining = max(0, summary.DailyCalories-consumed)

	c.JSON(http.StatusOK, summary)
}

// getWeekSummary returns per-day totals for the 7 days starting at
// week_start. Days with no analyzed meals are included with has_data=false.
// GET /api/meals/week-summary?week_start=YYYY-MM-DD (defaults to current week).
func (h *Handler) getWeekSummary(c *gin.Context) {
	acc, _ := currentAccount(c)

	var weekStart time.Time
	if s := c.Query("week_start"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			apiError(c, http.StatusBadRequest, "invalid week_start, expected YYYY-MM-DD")
			return
		}
		weekStart = t
	} else {
		weekStart = currentMonday(h.now())
	}

	records, err := h.meals.listRange(c, acc.ID, weekStart, weekStart.AddDate(0, 0, 7))
	if err != nil {
		h.writeError(c, err)
		return
	}

	var dailyCalories int
	if plan, ok := acc.Profile.plan(); ok {
		dailyCalories = plan.DailyCalories
	}

	result := make([]weekDaySummary, 7)
	index := make(map[string]int, 7)
	for i := range result {
		d := weekStart.AddDate(0, 0, i)
		result[i] = weekDaySummary{Date: DateOnly{d}, DailyCalories: dailyCalories}
		index[d.Format("2006-01-02")] = i
	}
	for _, r := range records {
		i, ok := index[r.Timestamp.UTC().Format("2006-01-02")]
		if !ok {
			continue
		}
		day := &result[i]
		day.HasData = true
		day.CaloriesConsumed += r.EstimatedCalories
		day.ProteinG += r.EstimatedProtein
		day.CarbsG += r.EstimatedCarbs
		day.FatG += r.EstimatedFat
		if r.Verdict == VerdictApproved {
			day.Approved++
		} else {
			day.Rejected++
		}
	}

	c.JSON(http.StatusOK, result)
}
