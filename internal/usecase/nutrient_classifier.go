package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/smartaisle/backend/internal/domain"
	"github.com/smartaisle/backend/internal/infrastructure/usda"
)

// Concern/benefit thresholds for nutrient evaluation, per 100g
const (
	sugarConcernThreshold  = 10.0
	sodiumConcernThreshold = 400.0
	satFatConcernThreshold = 5.0
	fiberBenefitThreshold  = 3.0
	proteinBenefitThresh   = 5.0
)

// highlyProcessedTerms in a name or matched description force processing
// level high.
var highlyProcessedTerms = []string{
	"hydrogenated", "hydrolyzed", "isolate", "modified",
	"extract", "concentrate", "refined", "bleached",
	"enriched", "fortified", "artificial", "processed",
}

// minimallyProcessedTerms indicate whole or near-whole foods
var minimallyProcessedTerms = []string{
	"fresh", "raw", "whole", "natural", "pure", "unprocessed", "organic",
}

// problematicTerms map a substring hit to a concern, used when no remote
// data is available.
var problematicTerms = map[string]string{
	"artificial":     "contains artificial ingredients",
	"flavor":         "may contain undisclosed compounds",
	"color":          "contains food coloring",
	"dye":            "contains synthetic dyes",
	"syrup":          "may contain added sugars",
	"sugar":          "contains added sugar",
	"hydrogenated":   "contains trans fats",
	"modified":       "highly processed",
	"msg":            "contains flavor enhancer",
	"sodium nitrate": "contains preservatives linked to health concerns",
	"sodium nitrite": "contains preservatives linked to health concerns",
}

// beneficialTerms map a substring hit to a benefit
var beneficialTerms = map[string]string{
	"whole grain": "contains whole grains",
	"whole wheat": "contains whole grains",
	"fiber":       "source of dietary fiber",
	"protein":     "source of protein",
	"vitamin":     "contains vitamins",
	"mineral":     "contains minerals",
	"antioxidant": "contains antioxidants",
	"probiotic":   "contains beneficial bacteria",
	"omega-3":     "contains healthy fats",
}

// NutrientClassifier is the remote-lookup classification strategy. It
// consults the USDA nutrient database and may emit the full five-tier
// range; on any remote failure it degrades to a rule-based heuristic and
// never propagates an error.
type NutrientClassifier struct {
	client domain.NutrientClient
	quota  *QuotaState

	mu    sync.Mutex
	cache map[string]*domain.IngredientAnalysis
}

// NewNutrientClassifier creates a nutrient-based classifier. The client
// may be nil, in which case every call takes the rule-based path.
func NewNutrientClassifier(client domain.NutrientClient, quota *QuotaState) *NutrientClassifier {
	if quota == nil {
		quota = NewQuotaState()
	}
	return &NutrientClassifier{
		client: client,
		quota:  quota,
		cache:  make(map[string]*domain.IngredientAnalysis),
	}
}

// Classify analyzes one ingredient using USDA nutrient data when
// reachable, the rule-based fallback otherwise.
func (nc *NutrientClassifier) Classify(ctx context.Context, ingredientName string) *domain.IngredientAnalysis {
	name := strings.ToLower(strings.TrimSpace(ingredientName))

	nc.mu.Lock()
	if cached, ok := nc.cache[name]; ok {
		nc.mu.Unlock()
		return cached
	}
	nc.mu.Unlock()

	isOrganic := strings.Contains(name, "organic")
	cleanName := strings.TrimSpace(strings.ReplaceAll(name, "organic", ""))

	analysis := nc.analyze(ctx, ingredientName, name, cleanName, isOrganic)

	nc.mu.Lock()
	nc.cache[name] = analysis
	nc.mu.Unlock()

	return analysis
}

// ClearCache drops all cached analyses
func (nc *NutrientClassifier) ClearCache() {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	nc.cache = make(map[string]*domain.IngredientAnalysis)
}

func (nc *NutrientClassifier) analyze(ctx context.Context, originalName, name, cleanName string, isOrganic bool) *domain.IngredientAnalysis {
	// Known ultra-processed ingredients skip the lookup entirely.
	if highlyProcessedRegexp.MatchString(name) {
		return nc.finish(originalName, name, domain.QualityPoor, domain.ProcessingHigh, isOrganic, nil, nil, nil, 0)
	}

	if nc.client == nil || nc.quota.Exceeded() {
		return nc.fallback(originalName, name, isOrganic)
	}

	foods, err := nc.client.SearchFoods(ctx, cleanName, 3)
	if err != nil {
		if errors.Is(err, domain.ErrQuotaExceeded) {
			log.Printf("[USDA] Quota exceeded, disabling nutrient lookups for this process")
			nc.quota.Trip()
		} else {
			log.Printf("[USDA] Search failed for %q, using rule-based fallback: %v", name, err)
		}
		return nc.fallback(originalName, name, isOrganic)
	}
	if len(foods) == 0 {
		return nc.fallback(originalName, name, isOrganic)
	}

	best := foods[0]

	// Detail lookup enriches the profile but its failure is not fatal.
	var detail *domain.USDAFood
	if best.FdcID != 0 {
		if d, err := nc.client.GetFoodDetails(ctx, best.FdcID); err == nil {
			detail = d
		} else {
			log.Printf("[USDA] Detail lookup failed for %d: %v", best.FdcID, err)
		}
	}

	profile := usda.ExtractNutrientProfile(&best, detail)
	level := determineProcessingLevel(name, best.Description)
	quality, concerns, benefits := evaluateNutritionalQuality(profile, level, isOrganic)

	return nc.finish(originalName, name, quality, level, isOrganic, profile, concerns, benefits, best.FdcID)
}

// fallback is the lighter rule-based heuristic used when the remote
// database is unavailable or has no match: count problematic and
// beneficial term hits instead of consulting tiered keyword tables.
func (nc *NutrientClassifier) fallback(originalName, name string, isOrganic bool) *domain.IngredientAnalysis {
	var concerns, benefits []string

	for term, concern := range problematicTerms {
		if strings.Contains(name, term) {
			concerns = append(concerns, concern)
		}
	}
	for term, benefit := range beneficialTerms {
		if strings.Contains(name, term) {
			benefits = append(benefits, benefit)
		}
	}

	quality := domain.QualityNeutral
	switch {
	case len(concerns) > 2:
		quality = domain.QualityPoor
	case len(concerns) > 0:
		quality = domain.QualityNeutral
	case len(benefits) > 1:
		quality = domain.QualityGood
	case len(benefits) > 0:
		quality = domain.QualityNeutral
	}

	// Organic boost, one step up
	if isOrganic {
		switch quality {
		case domain.QualityNeutral:
			quality = domain.QualityGood
		case domain.QualityGood:
			quality = domain.QualityVeryGood
		case domain.QualityPoor:
			quality = domain.QualityNeutral
		}
	}

	level := domain.ProcessingModerate
	if len(concerns) > 1 {
		level = domain.ProcessingHigh
	} else if isOrganic {
		level = domain.ProcessingMinimal
	}

	return nc.finish(originalName, name, quality, level, isOrganic, nil, concerns, benefits, 0)
}

// finish assembles the analysis with criteria results and description
func (nc *NutrientClassifier) finish(originalName, name string, quality domain.Quality, level domain.ProcessingLevel, isOrganic bool, profile *domain.NutrientProfile, concerns, benefits []string, fdcID int) *domain.IngredientAnalysis {
	results := evaluateCriteria(name, isOrganic)
	failed, passed := partitionCriteria(results)

	return &domain.IngredientAnalysis{
		Name:            originalName,
		Quality:         quality,
		Description:     nutrientDescription(quality, level, isOrganic, concerns, benefits),
		ProcessingLevel: level,
		CriteriaResults: results,
		FailedCriteria:  failed,
		PassedCriteria:  passed,
		Organic:         isOrganic,
		Concerns:        concerns,
		Benefits:        benefits,
		Nutrients:       profile,
		FdcID:           fdcID,
	}
}

// determineProcessingLevel estimates processing from textual cues in the
// ingredient name and the matched record's description.
func determineProcessingLevel(name, description string) domain.ProcessingLevel {
	desc := strings.ToLower(description)

	for _, term := range highlyProcessedTerms {
		if strings.Contains(name, term) || strings.Contains(desc, term) {
			return domain.ProcessingHigh
		}
	}

	for _, term := range minimallyProcessedTerms {
		if strings.Contains(name, term) || strings.Contains(desc, term) {
			return domain.ProcessingMinimal
		}
	}

	return domain.ProcessingModerate
}

// evaluateNutritionalQuality combines concern count, benefit count and
// processing level into one of five tiers.
func evaluateNutritionalQuality(profile *domain.NutrientProfile, level domain.ProcessingLevel, isOrganic bool) (domain.Quality, []string, []string) {
	var concerns, benefits []string

	if profile.Sugar > sugarConcernThreshold {
		concerns = append(concerns, "high sugar content")
	}
	if profile.Sodium > sodiumConcernThreshold {
		concerns = append(concerns, "high sodium content")
	}
	if profile.SaturatedFat > satFatConcernThreshold {
		concerns = append(concerns, "high saturated fat")
	}
	if profile.TransFat > 0 {
		concerns = append(concerns, "contains trans fats")
	}
	if len(profile.Additives) > 0 {
		concerns = append(concerns, fmt.Sprintf("contains additives: %s", strings.Join(profile.Additives, ", ")))
	}

	if profile.Fiber > fiberBenefitThreshold {
		benefits = append(benefits, "good source of fiber")
	}
	if profile.Protein > proteinBenefitThresh {
		benefits = append(benefits, "good source of protein")
	}
	if len(profile.Vitamins) > 0 {
		benefits = append(benefits, "contains essential vitamins")
	}
	if len(profile.Minerals) > 0 {
		benefits = append(benefits, "contains essential minerals")
	}

	var quality domain.Quality
	switch {
	case level == domain.ProcessingHigh && len(concerns) > 2:
		quality = domain.QualityVeryPoor
	case level == domain.ProcessingHigh || len(concerns) > 1:
		quality = domain.QualityPoor
	case level == domain.ProcessingMinimal && len(benefits) > 1:
		if isOrganic {
			quality = domain.QualityVeryGood
		} else {
			quality = domain.QualityGood
		}
	case len(benefits) > 0:
		quality = domain.QualityGood
	default:
		quality = domain.QualityNeutral
	}

	// Organic nudges the tier up one step, but cannot lift poor past
	// neutral and only reaches very good on the minimal-processing path.
	if isOrganic {
		switch quality {
		case domain.QualityNeutral:
			quality = domain.QualityGood
		case domain.QualityPoor:
			quality = domain.QualityNeutral
		}
	}

	return quality, concerns, benefits
}

// nutrientDescription composes the analysis description from tier,
// processing level, organic status and the top concerns and benefits.
func nutrientDescription(quality domain.Quality, level domain.ProcessingLevel, isOrganic bool, concerns, benefits []string) string {
	description := baseDescriptions[quality]

	if level == domain.ProcessingMinimal {
		description += " Minimally processed."
	} else if level == domain.ProcessingHigh {
		description += " Highly processed."
	}

	if isOrganic {
		description += organicNote
	}

	if len(benefits) > 0 {
		description += fmt.Sprintf(" Benefits: %s.", strings.Join(firstN(benefits, 2), "; "))
	}
	if len(concerns) > 0 {
		description += fmt.Sprintf(" Concerns: %s.", strings.Join(firstN(concerns, 2), "; "))
	}

	return description
}

func firstN(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
