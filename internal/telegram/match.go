package telegram

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/crystalbudget/backend/internal/models"
	"github.com/ryanuber/go-glob"
)

const (
	// maxDistance is the largest edit distance at which a word still names a category
	maxDistance = 2

	// minPrefix is the shortest word that matches by prefix or edit distance
	minPrefix = 3
)

// MatchIncomeCategory finds the income category a word refers to.
//
// The word matches case-insensitively, first exactly, then as a glob pattern,
// then by the smallest edit distance of at most two. Words without wildcards
// match as a prefix. Prefix and edit distance matching need at least three
// letters. The first category in the list wins ties.
func MatchIncomeCategory(word string, categories []models.IncomeCategory) (models.IncomeCategory, bool) {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return models.IncomeCategory{}, false
	}

	for _, c := range categories {
		if strings.ToLower(c.Name) == word {
			return c, true
		}
	}

	pattern := word
	if !strings.Contains(pattern, glob.GLOB) && utf8.RuneCountInString(word) >= minPrefix {
		pattern += glob.GLOB
	}

	for _, c := range categories {
		if glob.Glob(pattern, strings.ToLower(c.Name)) {
			return c, true
		}
	}

	if utf8.RuneCountInString(word) < minPrefix {
		return models.IncomeCategory{}, false
	}

	best, bestDistance := -1, maxDistance+1
	for i, c := range categories {
		d := levenshtein.ComputeDistance(word, strings.ToLower(c.Name))
		if d < bestDistance {
			best, bestDistance = i, d
		}
	}

	if best < 0 {
		return models.IncomeCategory{}, false
	}

	return categories[best], true
}
