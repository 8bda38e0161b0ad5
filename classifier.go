package main

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

// randomClassifier stands in for a real model: after a fixed delay it returns
// a uniformly random label from the known dishes.
type randomClassifier struct {
	labels []string
	delay  time.Duration
	pick   func(n int) int
}

func newRandomClassifier(labels []string, delay time.Duration) *randomClassifier {
	return &randomClassifier{labels: labels, delay: delay, pick: rand.IntN}
}

func (r *randomClassifier) Classify(ctx context.Context, _ mealImage) (string, error) {
	if len(r.labels) == 0 {
		return "", errors.New("random classifier has no labels")
	}

	if r.delay > 0 {
		t := time.NewTimer(r.delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-t.C:
		}
	}

	return r.labels[r.pick(len(r.labels))], nil
}
