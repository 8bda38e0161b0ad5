package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) toProfileResponse(acc account) profileResponse {
	return profileResponse{
		account:          acc,
		SetupComplete:    acc.Profile.SetupComplete(),
		CanAccessPremium: canAccessPremium(acc, h.now()),
	}
}

// getProfile returns the account, its profile (with plan fields once set up)
// and the premium access flag.
// GET /api/profile.
func (h *Handler) getProfile(c *gin.Context) {
	acc, _ := currentAccount(c)
	c.JSON(http.StatusOK, h.toProfileResponse(acc))
}

// putProfile validates the biometric fields, recomputes the meal plan and
// stores both. Client-supplied targets are never accepted; the planner is the
// only writer of daily_* and meals.
// PUT /api/profile.
func (h *Handler) putProfile(c *gin.Context) {
	acc, _ := currentAccount(c)

	var body profileRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	p := body.toProfile()
	if err := validateProfile(p); err != nil {
		h.writeError(c, err)
		return
	}
	p.applyPlan(h.planner.generateMealPlan(p))

	updated, err := h.profiles.updateProfile(c, acc.ID, p)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.log.Infow("profile updated", "user_id", acc.ID, "daily_calories", *p.DailyCalories)
	c.JSON(http.StatusOK, h.toProfileResponse(updated))
}

// getMealPlan returns the stored plan. 404 until the profile is set up.
// GET /api/meal-plan.
func (h *Handler) getMealPlan(c *gin.Context) {
	acc, _ := currentAccount(c)

	plan, ok := acc.Profile.plan()
	if !ok {
		h.writeError(c, ErrMissingMealTargets)
		return
	}
	c.JSON(http.StatusOK, plan)
}
