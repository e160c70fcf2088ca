package usecase

import (
	"regexp"
	"strings"
)

// Package-level compiled regex patterns for performance
var (
	parentheticalRegex = regexp.MustCompile(`\([^)]*\)`)
	percentageRegex    = regexp.MustCompile(`\d+(\.\d+)?%`)
	pureNumberRegex    = regexp.MustCompile(`^\d+(\.\d+)?%?$`)
	multiSpaceRegex    = regexp.MustCompile(`\s+`)

	// Delimiters other than commas, rewritten to commas before splitting
	pipeDelimRegex    = regexp.MustCompile(`\s*\|\s*`)
	semiDelimRegex    = regexp.MustCompile(`\s*;\s*`)
	periodDelimRegex  = regexp.MustCompile(`\s*\.\s*`)
	bulletDelimRegex  = regexp.MustCompile(`\s*•\s*`)
	hyphenDelimRegex  = regexp.MustCompile(`\s+-\s+`)
	newlineDelimRegex = regexp.MustCompile(`[\r\n]+`)
)

// ingredientListPrefixes mark the start of an ingredient section; text
// before and including the prefix is dropped.
var ingredientListPrefixes = []string{
	"ingredients:",
	"ingredient list:",
	"contains:",
	"made with:",
	"made from:",
}

// nonIngredientPhrases are boilerplate fragments that precede or replace
// real ingredients on labels. A token equal to or prefixed by one of
// these is not an ingredient.
var nonIngredientPhrases = []string{
	"contains 2% or less of",
	"contains 2 percent or less of",
	"contains less than 2% of",
	"contains less than 2 percent of",
	"2% or less of",
	"2 percent or less of",
	"less than 2% of",
	"less than 2 percent of",
	"may contain",
	"contains",
	"ingredients:",
	"ingredient list:",
	"manufactured in a facility that also processes",
	"manufactured on equipment that processes",
	"made in a facility that also processes",
	"made on equipment that processes",
	"processed in a facility that also handles",
	"for color",
	"for freshness",
	"as a preservative",
	"to preserve freshness",
	"to maintain color",
	"to maintain freshness",
	"added for freshness",
	"added for color",
	"added as a preservative",
}

// nonIngredientPatterns cover the label boilerplate that slips through
// the phrase list: nutrition-facts fragments, storage and cooking
// instructions, legal and marketing text, units of measure.
var nonIngredientPatterns = []*regexp.Regexp{
	// Percentage qualifiers
	regexp.MustCompile(`(?i)contains?\s*\d+(\.\d+)?\s*%?\s*or\s*less\s*of`),
	regexp.MustCompile(`(?i)less\s*than\s*\d+(\.\d+)?\s*%?\s*of`),
	regexp.MustCompile(`(?i)\d+(\.\d+)?\s*%\s*or\s*less\s*of`),

	// Manufacturing notices
	regexp.MustCompile(`(?i)manufactured\s+in\s+a\s+facility`),
	regexp.MustCompile(`(?i)manufactured\s+on\s+equipment`),
	regexp.MustCompile(`(?i)made\s+in\s+a\s+facility`),
	regexp.MustCompile(`(?i)made\s+on\s+equipment`),
	regexp.MustCompile(`(?i)processed\s+in\s+a\s+facility`),

	// Nutrition facts fragments
	regexp.MustCompile(`(?i)nutrition\s*facts`),
	regexp.MustCompile(`(?i)serving\s*size`),
	regexp.MustCompile(`(?i)\bcalories\b`),
	regexp.MustCompile(`(?i)total\s*fat`),
	regexp.MustCompile(`(?i)saturated\s*fat`),
	regexp.MustCompile(`(?i)trans\s*fat`),
	regexp.MustCompile(`(?i)\bcholesterol\b`),
	regexp.MustCompile(`(?i)daily\s*value`),

	// Storage and handling instructions
	regexp.MustCompile(`(?i)store\s+in\s+a\s+cool`),
	regexp.MustCompile(`(?i)keep\s+refrigerated`),
	regexp.MustCompile(`(?i)best\s+before`),
	regexp.MustCompile(`(?i)use\s+by`),
	regexp.MustCompile(`(?i)\bexpiration\b`),
	regexp.MustCompile(`(?i)refrigerate\s+after`),

	// Product information
	regexp.MustCompile(`(?i)lot\s+number`),
	regexp.MustCompile(`(?i)batch\s+code`),
	regexp.MustCompile(`(?i)distributed\s+by`),
	regexp.MustCompile(`(?i)manufactured\s+by`),
	regexp.MustCompile(`(?i)product\s+of`),
	regexp.MustCompile(`(?i)packed\s+in`),

	// Marketing text
	regexp.MustCompile(`(?i)www\.`),
	regexp.MustCompile(`(?i)\.com`),
	regexp.MustCompile(`(?i)visit\s+us`),
	regexp.MustCompile(`(?i)follow\s+us`),
	regexp.MustCompile(`(?i)questions\s+or\s+comments`),
	regexp.MustCompile(`(?i)call\s+us`),
	regexp.MustCompile(`(?i)satisfaction\s+guaranteed`),

	// Legal notices
	regexp.MustCompile(`(?i)\bpatent\b`),
	regexp.MustCompile(`(?i)\btrademark\b`),
	regexp.MustCompile(`(?i)\bcopyright\b`),
	regexp.MustCompile(`(?i)all\s+rights\s+reserved`),

	// Units of measure
	regexp.MustCompile(`(?i)net\s+wt`),
	regexp.MustCompile(`(?i)net\s+weight`),
	regexp.MustCompile(`(?i)\bfl\s+oz\b`),
	regexp.MustCompile(`(?i)\bfluid\s+ounces?\b`),
	regexp.MustCompile(`(?i)\d+\s*(oz|lb|lbs|g|kg|ml|l)\b`),

	// Cooking instructions
	regexp.MustCompile(`(?i)cooking\s+instructions`),
	regexp.MustCompile(`(?i)\bmicrowave\b`),
	regexp.MustCompile(`(?i)conventional\s+oven`),
	regexp.MustCompile(`(?i)\bstovetop\b`),
	regexp.MustCompile(`(?i)\bpreheat\b`),
	regexp.MustCompile(`(?i)shake\s+well`),
	regexp.MustCompile(`(?i)stir\s+well`),
}

// ParseIngredientText turns raw label text into an ordered list of clean
// ingredient tokens. Empty input yields an empty list.
func ParseIngredientText(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	// Keep only the text after an "ingredients:"-style prefix, if present
	lower := strings.ToLower(text)
	for _, prefix := range ingredientListPrefixes {
		if idx := strings.Index(lower, prefix); idx >= 0 {
			text = text[idx+len(prefix):]
			break
		}
	}

	// Unify every delimiter to a comma before splitting
	normalized := pipeDelimRegex.ReplaceAllString(text, ", ")
	normalized = semiDelimRegex.ReplaceAllString(normalized, ", ")
	normalized = periodDelimRegex.ReplaceAllString(normalized, ", ")
	normalized = bulletDelimRegex.ReplaceAllString(normalized, ", ")
	normalized = hyphenDelimRegex.ReplaceAllString(normalized, ", ")
	normalized = newlineDelimRegex.ReplaceAllString(normalized, ", ")

	var tokens []string
	for _, raw := range strings.Split(normalized, ",") {
		token := strings.TrimSpace(raw)
		if token == "" {
			continue
		}
		if IsNonIngredient(token) {
			continue
		}
		cleaned := CleanIngredientText(token)
		if cleaned == "" {
			continue
		}
		tokens = append(tokens, cleaned)
	}

	return tokens
}

// CleanIngredientText strips parenthetical asides, annotation markers and
// inline percentage annotations from a token.
func CleanIngredientText(text string) string {
	cleaned := parentheticalRegex.ReplaceAllString(text, "")
	cleaned = strings.ReplaceAll(cleaned, "*", "")
	cleaned = percentageRegex.ReplaceAllString(cleaned, "")
	cleaned = multiSpaceRegex.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

// IsNonIngredient reports whether a token equals or is prefixed by a known
// boilerplate phrase, for any casing.
func IsNonIngredient(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	for _, phrase := range nonIngredientPhrases {
		if lower == phrase || strings.HasPrefix(lower, phrase) {
			return true
		}
	}
	return false
}

// IsLikelyIngredient applies the wider pattern-based heuristic used on the
// assembly path. It overlaps IsNonIngredient but is not identical; the two
// are deliberately kept separate.
func IsLikelyIngredient(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return false
	}

	for _, pattern := range nonIngredientPatterns {
		if pattern.MatchString(lower) {
			return false
		}
	}

	// A real ingredient name is short; long tokens are sentences or
	// instructions that survived delimiter splitting.
	if len(strings.Fields(lower)) > 10 {
		return false
	}

	if pureNumberRegex.MatchString(lower) {
		return false
	}

	return true
}
