package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Handler holds shared dependencies (stores, planner, analyzer, config) for
// all route handlers.
type Handler struct {
	profiles    profileStore
	meals       mealHistory
	credentials *credentialChecker
	planner     mealPlanner
	analyzer    *mealAnalyzer
	billing     billing // nil when Stripe is not configured

	trialPeriod    time.Duration
	maxUploadBytes int64
	corsOrigins    []string

	now      func() time.Time
	newToken func() string
	log      *Logger
}

/* ─── Responses ───────────────────────────────────────────────────────── */

// apiError returns a consistent JSON error response: {"error": "message"}.
func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// writeError maps a service error onto a status code and the apiError body.
// Validation errors also carry the per-field messages.
func (h *Handler) writeError(c *gin.Context, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": verr.Errors})
	case errors.Is(err, ErrAuth):
		apiError(c, http.StatusUnauthorized, ErrAuth.Error())
	case errors.Is(err, ErrAlreadyExists):
		apiError(c, http.StatusConflict, "email already registered")
	case errors.Is(err, ErrMissingMealTargets):
		apiError(c, http.StatusNotFound, ErrMissingMealTargets.Error())
	case errors.Is(err, ErrNotFound):
		apiError(c, http.StatusNotFound, "not found")
	case errors.Is(err, ErrClassification):
		apiError(c, http.StatusUnprocessableEntity, ErrClassification.Error())
	case errors.Is(err, ErrUnknownDish):
		apiError(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ErrPremiumRequired):
		apiError(c, http.StatusPaymentRequired, ErrPremiumRequired.Error())
	default:
		_ = c.Error(err)
		h.log.Errorw("request failed", "path", c.FullPath(), "error", err)
		apiError(c, http.StatusInternalServerError, "internal error")
	}
}

// currentAccount returns the account authMiddleware loaded for this request.
func currentAccount(c *gin.Context) (account, bool) {
	v, ok := c.Get("account")
	if !ok {
		return account{}, false
	}
	acc, ok := v.(account)
	return acc, ok
}

func newAuthToken() string {
	return uuid.NewString()
}

/* ─── Server setup ────────────────────────────────────────────────────── */

// getDBPool creates a connection pool. We use a pool (not a single conn) because
// Neon closes idle connections after ~5 minutes.
func getDBPool(ctx context.Context, cfg DatabaseConfig) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse DB URL: %w", err)
	}
	if cfg.MaxConns > 0 {
		config.MaxConns = cfg.MaxConns
	}
	// Use simple query protocol to avoid "cached plan must not change result type"
	// errors from Neon's server-side prepared statement cache after schema changes.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// registerRoutes registers all API routes on the router.
func (h *Handler) registerRoutes(router *gin.Engine) {
	// cors.New panics on an empty origin list.
	if len(h.corsOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     h.corsOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowHeaders:     []string{"Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Public routes
	router.GET("/healthz", h.healthz)
	router.POST("/api/register", h.register)
	router.POST("/api/login", h.login)
	router.POST("/webhook/stripe", h.stripeWebhook)

	// Authenticated routes
	api := router.Group("/api", h.authMiddleware())
	api.GET("/profile", h.getProfile)
	api.PUT("/profile", h.putProfile)
	api.GET("/meal-plan", h.getMealPlan)
	api.GET("/meals", h.listMeals)
	api.GET("/meals/daily-summary", h.getDailySummary)
	api.GET("/meals/week-summary", h.getWeekSummary)
	api.POST("/meals/analyze", h.premiumMiddleware(), h.analyzeMeal)
	api.POST("/subscription/checkout", h.createCheckout)
}

func (h *Handler) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
