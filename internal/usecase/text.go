package usecase

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/petfit/backend/internal/domain"
)

// Compiled patterns for ingredient text normalization
var multiSpacePattern = regexp.MustCompile(`\s+`)

// normalizeText lowercases and collapses whitespace so substring checks are stable
func normalizeText(s string) string {
	s = strings.ToLower(s)
	s = multiSpacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// ingredientText is the lowercased ordered ingredient list followed by the raw label text.
// Every ingredient-level check (allergy text, soft avoid, harmful) scans this same text.
func ingredientText(c *domain.ProductCandidate) string {
	ordered := strings.Join(c.Parsed.IngredientsOrdered, " ")
	return normalizeText(ordered + " " + c.IngredientsText)
}

// keywordSearchText is the notes plus ordered ingredients used for health keyword fallback
func keywordSearchText(p *domain.ParsedIngredients) string {
	return normalizeText(p.Notes + " " + strings.Join(p.IngredientsOrdered, " "))
}

// containsFold reports whether text (already normalized) contains needle, ignoring case
func containsFold(text, needle string) bool {
	n := normalizeText(needle)
	if n == "" {
		return false
	}
	return strings.Contains(text, n)
}

// firstMatch returns the first needle found in text, in needle order
func firstMatch(text string, needles []string) (string, bool) {
	for _, n := range needles {
		if containsFold(text, n) {
			return n, true
		}
	}
	return "", false
}

// significantTokens splits free text on whitespace and keeps tokens longer than minRunes
func significantTokens(s string, minRunes int) []string {
	var tokens []string
	for _, tok := range strings.Fields(strings.ToLower(s)) {
		if utf8.RuneCountInString(tok) > minRunes {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// distinctFold drops case-insensitive duplicates and blanks, keeping first occurrence order
func distinctFold(list []string) []string {
	seen := make(map[string]bool, len(list))
	out := make([]string, 0, len(list))
	for _, item := range list {
		key := normalizeText(item)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}

func containsExact(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func intersects(a, b []string) bool {
	set := make(map[string]bool, len(a))
	for _, x := range a {
		set[x] = true
	}
	for _, y := range b {
		if set[y] {
			return true
		}
	}
	return false
}

// union keeps first-seen order across both lists
func union(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, x := range list {
			if x != "" && !seen[x] {
				seen[x] = true
				out = append(out, x)
			}
		}
	}
	return out
}
