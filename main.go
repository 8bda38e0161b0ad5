package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	log, err := newLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Errorw("server stopped", "error", err)
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(cfg *Config, log *Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := getDBPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()
	log.Infow("DB pool ready")

	h, err := newHandler(cfg, pool, log)
	if err != nil {
		return err
	}

	if cfg.Log.Format != "console" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log))
	if err := router.SetTrustedProxies(nil); err != nil {
		return fmt.Errorf("set trusted proxies: %w", err)
	}
	h.registerRoutes(router)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("listening", "addr", cfg.Server.Addr, "classifier", cfg.Classifier.Provider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	log.Infow("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newHandler wires stores, planner, analyzer and billing from config.
func newHandler(cfg *Config, db dbtx, log *Logger) (*Handler, error) {
	profiles := newPGProfileStore(db)
	credentials, err := newCredentialChecker(profiles, bcryptHasher{cost: bcrypt.DefaultCost})
	if err != nil {
		return nil, err
	}

	facts := defaultNutritionFacts
	var cls classifier
	switch cfg.Classifier.Provider {
	case "openai":
		cls = newOpenAIClassifier(cfg.Classifier.OpenAIAPIKey, cfg.Classifier.OpenAIBaseURL,
			cfg.Classifier.OpenAIModel, facts.Labels())
	default:
		cls = newRandomClassifier(facts.Labels(), cfg.Classifier.StubDelay)
	}

	var bill billing
	if cfg.Billing.StripeEnabled() {
		bill = newStripeBilling(cfg.Billing)
	} else {
		log.Warnw("stripe not configured; checkout disabled")
	}

	return &Handler{
		profiles:       profiles,
		meals:          newPGMealHistory(db),
		credentials:    credentials,
		planner:        mealPlanner{includeStepCalories: cfg.Plan.IncludeStepCalories},
		analyzer:       newMealAnalyzer(cls, facts, cfg.Classifier.Timeout, log),
		billing:        bill,
		trialPeriod:    time.Duration(cfg.Billing.TrialDays) * 24 * time.Hour,
		maxUploadBytes: cfg.Server.MaxUploadBytes,
		corsOrigins:    cfg.CORS.AllowedOrigins,
		now:            time.Now,
		newToken:       newAuthToken,
		log:            log,
	}, nil
}
