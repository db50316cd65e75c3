// Package classifier assigns spending categories to transaction descriptions
// using ordered keyword rules with a regex fallback.
package classifier

import (
	"regexp"
	"strings"

	"github.com/insightdelivered/upi-statement-analyzer/internal/models"
)

// SubCategory is a named keyword set nested under a Category.
type SubCategory struct {
	Name     string
	Keywords []string
}

// Category is a top-level keyword rule. SubCategories are tried in order
// once the category itself matches.
type Category struct {
	Name          string
	Keywords      []string
	SubCategories []SubCategory
}

// Pattern maps a regular expression to a category label.
type Pattern struct {
	Expr     *regexp.Regexp
	Category string
}

// Classifier walks its tables in declaration order; the earliest matching
// rule wins. It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	categories []Category
	patterns   []Pattern
}

// New builds a classifier from ordered rule tables.
func New(categories []Category, patterns []Pattern) *Classifier {
	return &Classifier{categories: categories, patterns: patterns}
}

// Default returns a classifier over the built-in rule tables.
func Default() *Classifier {
	return New(defaultCategories, defaultPatterns)
}

// Classify returns the category for a description. It never returns "".
func (c *Classifier) Classify(description string) string {
	details := strings.ToLower(description)

	for _, cat := range c.categories {
		if !containsAny(details, cat.Keywords) {
			continue
		}
		for _, sub := range cat.SubCategories {
			if containsAny(details, sub.Keywords) {
				return cat.Name + " - " + sub.Name
			}
		}
		return cat.Name
	}

	for _, p := range c.patterns {
		if p.Expr.MatchString(details) {
			return p.Category
		}
	}

	return models.CategoryOthers
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
