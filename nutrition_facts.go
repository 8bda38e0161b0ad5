package main

import (
	"sort"
	"strings"
)

// nutritionFacts resolves a dish label to its estimated macros.
type nutritionFacts interface {
	Lookup(dish string) (Macro, bool)
	Labels() []string
}

// staticNutritionFacts is a fixed per-serving table of the dishes the
// classifiers can return.
type staticNutritionFacts map[string]Macro

var defaultNutritionFacts = staticNutritionFacts{
	"salad":          {Calories: 200, Protein: 5, Carbs: 10, Fat: 15},
	"chicken breast": {Calories: 300, Protein: 40, Carbs: 0, Fat: 7},
	"steak":          {Calories: 450, Protein: 35, Carbs: 0, Fat: 30},
	"pizza":          {Calories: 700, Protein: 25, Carbs: 80, Fat: 30},
	"smoothie":       {Calories: 250, Protein: 12, Carbs: 40, Fat: 3},
	"burger":         {Calories: 650, Protein: 30, Carbs: 45, Fat: 40},
	"pasta":          {Calories: 550, Protein: 15, Carbs: 90, Fat: 10},
	"salmon":         {Calories: 350, Protein: 36, Carbs: 0, Fat: 20},
	"yogurt bowl":    {Calories: 300, Protein: 15, Carbs: 40, Fat: 8},
	"oatmeal":        {Calories: 250, Protein: 8, Carbs: 45, Fat: 5},
	"eggs and toast": {Calories: 350, Protein: 18, Carbs: 30, Fat: 15},
	"protein shake":  {Calories: 220, Protein: 30, Carbs: 10, Fat: 5},
	"rice bowl":      {Calories: 480, Protein: 15, Carbs: 70, Fat: 12},
	"stir fry":       {Calories: 400, Protein: 25, Carbs: 35, Fat: 15},
}

// Lookup matches case-insensitively and ignores surrounding whitespace.
func (t staticNutritionFacts) Lookup(dish string) (Macro, bool) {
	m, ok := t[normalizeDish(dish)]
	return m, ok
}

// Labels returns the known dish labels in sorted order.
func (t staticNutritionFacts) Labels() []string {
	labels := make([]string, 0, len(t))
	for k := range t {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	return labels
}

func normalizeDish(dish string) string {
	return strings.ToLower(strings.TrimSpace(dish))
}
