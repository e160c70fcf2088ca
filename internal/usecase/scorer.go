package usecase

import (
	"strings"

	"github.com/smartaisle/backend/internal/domain"
)

// WeightTable maps each quality tier to a [0,1] weight used when
// averaging ingredient quality into a product score.
type WeightTable map[domain.Quality]float64

// DefaultWeights treats unclassified ingredients with mild optimism.
var DefaultWeights = WeightTable{
	domain.QualityVeryGood: 1.0,
	domain.QualityGood:     1.0,
	domain.QualityNeutral:  0.5,
	domain.QualityUnknown:  0.3,
	domain.QualityPoor:     0.0,
	domain.QualityVeryPoor: 0.0,
}

// StrictWeights counts unclassified ingredients against the product.
var StrictWeights = WeightTable{
	domain.QualityVeryGood: 1.0,
	domain.QualityGood:     1.0,
	domain.QualityNeutral:  0.5,
	domain.QualityUnknown:  0.0,
	domain.QualityPoor:     0.0,
	domain.QualityVeryPoor: 0.0,
}

// Scorer computes product health scores from classified ingredients and,
// when present, label-level signals like Nutri-Score and NOVA group.
type Scorer struct {
	weights WeightTable
}

func NewScorer(weights WeightTable) *Scorer {
	if weights == nil {
		weights = DefaultWeights
	}
	return &Scorer{weights: weights}
}

// ScoreIngredients computes the 0-100 health score for a set of
// classified ingredients. An empty set scores 0: a product whose
// ingredients could not be determined earns no benefit of the doubt.
func (s *Scorer) ScoreIngredients(analyses []domain.IngredientAnalysis) int {
	if len(analyses) == 0 {
		return 0
	}

	total := 0.0
	poorCount := 0
	for _, a := range analyses {
		total += s.weights[a.Quality]
		if a.Quality == domain.QualityPoor || a.Quality == domain.QualityVeryPoor {
			poorCount++
		}
	}
	average := total / float64(len(analyses))

	score := 100
	switch {
	case average < 0.2:
		score -= 50
	case average < 0.4:
		score -= 30
	case average < 0.6:
		score -= 15
	case average < 0.8:
		score -= 5
	}

	score -= poorCount * 10

	return clampScore(score)
}

// ScoreProduct blends the ingredient score with label-level signals.
// Products with no usable signals fall back to the ingredient score
// alone, and products with no classified ingredients are scored from
// their signals alone rather than dragging in a zero ingredient score.
func (s *Scorer) ScoreProduct(raw *domain.RawProduct, analyses []domain.IngredientAnalysis) int {
	ingredientScore := s.ScoreIngredients(analyses)
	if raw == nil {
		return ingredientScore
	}

	signalScore, hasSignals := s.ScoreSignals(raw)
	if !hasSignals {
		return ingredientScore
	}
	if len(analyses) == 0 {
		return signalScore
	}

	return clampScore((ingredientScore + signalScore) / 2)
}

// ScoreSignals scores a product from its Nutri-Score grade and NOVA
// group alone, without ingredient analysis. The second return reports
// whether any signal was present.
func (s *Scorer) ScoreSignals(raw *domain.RawProduct) (int, bool) {
	score := 50
	hasSignals := false

	switch strings.ToLower(raw.NutriscoreGrade) {
	case "a":
		score += 30
		hasSignals = true
	case "b":
		score += 20
		hasSignals = true
	case "c":
		score += 10
		hasSignals = true
	case "d":
		score -= 10
		hasSignals = true
	case "e":
		score -= 20
		hasSignals = true
	}

	switch raw.NovaGroup {
	case 1:
		score += 10
		hasSignals = true
	case 2:
		score += 5
		hasSignals = true
	case 3:
		score -= 5
		hasSignals = true
	case 4:
		score -= 10
		hasSignals = true
	}

	return clampScore(score), hasSignals
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
