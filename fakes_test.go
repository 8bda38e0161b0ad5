package main

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/stripe/stripe-go/v72"
)

// memProfileStore is an in-memory profileStore for handler tests.
type memProfileStore struct {
	mu       sync.Mutex
	nextID   int
	accounts map[int]account
	now      func() time.Time

	subscribeCalls int
}

func newMemProfileStore(now func() time.Time) *memProfileStore {
	return &memProfileStore{nextID: 1, accounts: map[int]account{}, now: now}
}

func (s *memProfileStore) createProfile(_ context.Context, a newAccount) (account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acc := range s.accounts {
		if acc.Email == a.Email {
			return account{}, fmt.Errorf("account %s: %w", a.Email, ErrAlreadyExists)
		}
	}
	acc := account{
		ID:           s.nextID,
		Name:         a.Name,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		AuthToken:    a.AuthToken,
		CreatedAt:    s.now().UTC(),
		TrialEndsAt:  a.TrialEndsAt,
	}
	s.accounts[acc.ID] = acc
	s.nextID++
	return acc, nil
}

func (s *memProfileStore) find(match func(account) bool) (account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acc := range s.accounts {
		if match(acc) {
			return acc, nil
		}
	}
	return account{}, ErrNotFound
}

func (s *memProfileStore) findByEmail(_ context.Context, email string) (account, error) {
	return s.find(func(a account) bool { return a.Email == email })
}

func (s *memProfileStore) findByID(_ context.Context, id int) (account, error) {
	return s.find(func(a account) bool { return a.ID == id })
}

func (s *memProfileStore) findByToken(_ context.Context, token string) (account, error) {
	return s.find(func(a account) bool { return a.AuthToken == token })
}

func (s *memProfileStore) updateProfile(_ context.Context, id int, p Profile) (account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[id]
	if !ok {
		return account{}, ErrNotFound
	}
	acc.Profile = &p
	s.accounts[id] = acc
	return acc, nil
}

func (s *memProfileStore) markSubscribed(_ context.Context, id int, subscribed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribeCalls++
	acc, ok := s.accounts[id]
	if !ok {
		return ErrNotFound
	}
	acc.Subscribed = subscribed
	s.accounts[id] = acc
	return nil
}

// memMealHistory is an in-memory mealHistory for handler tests.
type memMealHistory struct {
	mu      sync.Mutex
	records []MealAnalysisRecord
}

func (m *memMealHistory) append(_ context.Context, rec MealAnalysisRecord) (MealAnalysisRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec.ID = len(m.records) + 1
	m.records = append(m.records, rec)
	return rec, nil
}

func (m *memMealHistory) listRange(_ context.Context, accountID int, from, to time.Time) ([]MealAnalysisRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []MealAnalysisRecord{}
	for _, r := range m.records {
		if r.AccountID == accountID && !r.Timestamp.Before(from) && r.Timestamp.Before(to) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (m *memMealHistory) listForDate(ctx context.Context, accountID int, date time.Time) ([]MealAnalysisRecord, error) {
	start, end := dayBounds(date)
	return m.listRange(ctx, accountID, start, end)
}

func (m *memMealHistory) totalCaloriesForDate(ctx context.Context, accountID int, date time.Time) (int, error) {
	records, err := m.listForDate(ctx, accountID, date)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, r := range records {
		total += r.EstimatedCalories
	}
	return total, nil
}

// fakeBilling records checkout requests. Webhook tests use the real
// stripeBilling with a test secret instead.
type fakeBilling struct {
	url       string
	err       error
	checkouts []int
}

func (f *fakeBilling) createCheckout(_ context.Context, accountID int, _ string) (string, error) {
	f.checkouts = append(f.checkouts, accountID)
	return f.url, f.err
}

func (f *fakeBilling) parseEvent([]byte, string) (stripe.Event, error) {
	return stripe.Event{}, errors.New("fakeBilling does not verify webhooks")
}
