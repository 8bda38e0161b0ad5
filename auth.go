package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"lg/fitvision-api/internal/signup"
)

// passwordHasher hashes and checks passwords.
type passwordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type bcryptHasher struct {
	cost int
}

func (b bcryptHasher) Hash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

func (b bcryptHasher) Compare(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// credentialChecker resolves an email/password pair to an account.
type credentialChecker struct {
	store  profileStore
	hasher passwordHasher
	// dummyHash is checked when the email isn't found. Running the hasher
	// against it (instead of returning early) keeps response time constant,
	// preventing timing-based email enumeration.
	dummyHash string
}

func newCredentialChecker(store profileStore, hasher passwordHasher) (*credentialChecker, error) {
	dummy, err := hasher.Hash("dummy")
	if err != nil {
		return nil, err
	}
	return &credentialChecker{store: store, hasher: hasher, dummyHash: dummy}, nil
}

// validateCredentials returns the account for email if password matches.
// Unknown email and wrong password both come back as ErrAuth.
func (cc *credentialChecker) validateCredentials(ctx context.Context, email, password string) (account, error) {
	email = signup.NormalizeEmail(email)
	acc, lookupErr := cc.store.findByEmail(ctx, email)
	if lookupErr != nil && !errors.Is(lookupErr, ErrNotFound) {
		return account{}, lookupErr
	}

	hashToCheck := cc.dummyHash
	if lookupErr == nil {
		hashToCheck = acc.PasswordHash
	}
	compareErr := cc.hasher.Compare(hashToCheck, password)

	if lookupErr != nil || compareErr != nil {
		return account{}, ErrAuth
	}
	return acc, nil
}

/* ─── Handlers ───────────────────────────────────────────────────────── */

// register creates an account with a fresh trial and returns its auth token.
// POST /api/register (public).
func (h *Handler) register(c *gin.Context) {
	var body registerRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validateRegistration(&body); err != nil {
		h.writeError(c, err)
		return
	}

	hash, err := h.credentials.hasher.Hash(body.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	acc, err := h.profiles.createProfile(c, newAccount{
		Name:         body.Name,
		Email:        body.Email,
		PasswordHash: hash,
		AuthToken:    h.newToken(),
		TrialEndsAt:  h.now().UTC().Add(h.trialPeriod),
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.log.Infow("account registered", "user_id", acc.ID)
	c.JSON(http.StatusCreated, gin.H{"token": acc.AuthToken, "user_id": acc.ID})
}

// login verifies email/password and returns the user's auth token.
// POST /api/login (public; no auth required).
func (h *Handler) login(c *gin.Context) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	acc, err := h.credentials.validateCredentials(c, body.Email, body.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": acc.AuthToken, "user_id": acc.ID})
}

// authMiddleware validates the Bearer token and sets user_id and account on
// the context.
func (h *Handler) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			apiError(c, http.StatusUnauthorized, "missing or invalid authorization header")
			c.Abort()
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")

		acc, err := h.profiles.findByToken(c, token)
		if err != nil {
			if !errors.Is(err, ErrNotFound) {
				h.log.Errorw("token lookup failed", "error", err)
			}
			apiError(c, http.StatusUnauthorized, "invalid token")
			c.Abort()
			return
		}

		c.Set("user_id", acc.ID)
		c.Set("account", acc)
		c.Next()
	}
}
