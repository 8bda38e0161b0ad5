package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/client"
	"github.com/stripe/stripe-go/v72/webhook"
)

// maxWebhookBytes caps the Stripe webhook body; Stripe's own limit is 64KB.
const maxWebhookBytes = 65536

// canAccessPremium reports whether the account may use photo analysis:
// still inside the free trial, or subscribed.
func canAccessPremium(a account, now time.Time) bool {
	return a.Subscribed || now.Before(a.TrialEndsAt)
}

// premiumMiddleware rejects accounts whose trial has ended without a
// subscription. Must run after authMiddleware.
func (h *Handler) premiumMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		acc, ok := currentAccount(c)
		if !ok {
			apiError(c, http.StatusUnauthorized, "missing or invalid authorization header")
			c.Abort()
			return
		}
		if !canAccessPremium(acc, h.now()) {
			apiError(c, http.StatusPaymentRequired, ErrPremiumRequired.Error())
			c.Abort()
			return
		}
		c.Next()
	}
}

/* ─── Stripe ─────────────────────────────────────────────────────────── */

// billing starts checkouts and authenticates webhook payloads.
type billing interface {
	createCheckout(ctx context.Context, accountID int, email string) (string, error)
	parseEvent(payload []byte, signature string) (stripe.Event, error)
}

// stripeBilling sells a monthly subscription through Stripe Checkout.
type stripeBilling struct {
	api           *client.API
	priceID       string
	webhookSecret string
	successURL    string
	cancelURL     string
}

func newStripeBilling(cfg BillingConfig) *stripeBilling {
	api := &client.API{}
	api.Init(cfg.StripeSecretKey, nil)
	return &stripeBilling{
		api:           api,
		priceID:       cfg.StripePriceID,
		webhookSecret: cfg.StripeWebhookSecret,
		successURL:    cfg.CheckoutSuccessURL,
		cancelURL:     cfg.CheckoutCancelURL,
	}
}

// createCheckout returns the hosted checkout URL. The account id rides along
// as ClientReferenceID so the webhook can find the account again.
func (s *stripeBilling) createCheckout(ctx context.Context, accountID int, email string) (string, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(s.priceID),
				Quantity: stripe.Int64(1),
			},
		},
		Mode:              stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL:        stripe.String(s.successURL),
		CancelURL:         stripe.String(s.cancelURL),
		ClientReferenceID: stripe.String(strconv.Itoa(accountID)),
		CustomerEmail:     stripe.String(email),
	}
	params.Context = ctx

	sess, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	return sess.URL, nil
}

func (s *stripeBilling) parseEvent(payload []byte, signature string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, signature, s.webhookSecret)
}

/* ─── Handlers ───────────────────────────────────────────────────────── */

// createCheckout starts a Stripe Checkout session for the caller.
// POST /api/subscription/checkout.
func (h *Handler) createCheckout(c *gin.Context) {
	if h.billing == nil {
		apiError(c, http.StatusServiceUnavailable, "billing is not configured")
		return
	}
	acc, _ := currentAccount(c)
	if acc.Subscribed {
		apiError(c, http.StatusConflict, "already subscribed")
		return
	}

	url, err := h.billing.createCheckout(c, acc.ID, acc.Email)
	if err != nil {
		h.log.Errorw("checkout failed", "user_id", acc.ID, "error", err)
		apiError(c, http.StatusBadGateway, "failed to start checkout")
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// stripeWebhook marks accounts subscribed when Stripe reports a completed
// checkout. Other event types are acknowledged and ignored.
// POST /webhook/stripe (public; authenticated by the Stripe-Signature header).
func (h *Handler) stripeWebhook(c *gin.Context) {
	if h.billing == nil {
		apiError(c, http.StatusServiceUnavailable, "billing is not configured")
		return
	}

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBytes))
	if err != nil {
		apiError(c, http.StatusBadRequest, "failed to read request body")
		return
	}
	signature := c.GetHeader("Stripe-Signature")
	if signature == "" {
		apiError(c, http.StatusBadRequest, "missing signature")
		return
	}

	event, err := h.billing.parseEvent(payload, signature)
	if err != nil {
		h.log.Warnw("webhook signature rejected", "error", err)
		apiError(c, http.StatusBadRequest, "invalid signature")
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			apiError(c, http.StatusBadRequest, "failed to parse event data")
			return
		}
		accountID, err := strconv.Atoi(sess.ClientReferenceID)
		if err != nil {
			h.log.Warnw("checkout without usable client reference", "session_id", sess.ID, "value", sess.ClientReferenceID)
			apiError(c, http.StatusBadRequest, "invalid client reference id")
			return
		}
		acc, err := h.profiles.findByID(c, accountID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				apiError(c, http.StatusNotFound, "account not found")
				return
			}
			h.log.Errorw("webhook account lookup failed", "user_id", accountID, "error", err)
			apiError(c, http.StatusInternalServerError, "failed to update subscription")
			return
		}
		// Stripe redelivers events; a repeat is acknowledged without a write.
		if acc.Subscribed {
			h.log.Infow("subscription already active", "user_id", acc.ID, "session_id", sess.ID)
			break
		}
		if err := h.profiles.markSubscribed(c, acc.ID, true); err != nil {
			if errors.Is(err, ErrNotFound) {
				apiError(c, http.StatusNotFound, "account not found")
				return
			}
			h.log.Errorw("mark subscribed failed", "user_id", acc.ID, "error", err)
			apiError(c, http.StatusInternalServerError, "failed to update subscription")
			return
		}
		h.log.Infow("subscription activated", "user_id", acc.ID, "session_id", sess.ID)
	default:
		h.log.Debugw("webhook event ignored", "type", event.Type)
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
