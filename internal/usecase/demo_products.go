package usecase

import (
	"strings"

	"github.com/smartaisle/backend/internal/domain"
)

// demoIngredient builds a fully-analyzed ingredient for the curated demo
// catalog. Descriptions come from the curated fallback table so demo
// responses look like real analyzed products.
func demoIngredient(name string, quality domain.Quality) domain.Ingredient {
	normalized := strings.ToLower(name)
	analysis := buildAnalysis(name, normalized, quality, strings.Contains(normalized, "organic"))
	analysis.Quality = quality
	analysis.Description = findFallbackDescription(normalized, quality)
	return domain.Ingredient{
		Name:        name,
		Quality:     quality,
		Description: analysis.Description,
		Analysis:    analysis,
	}
}

func demoProduct(id, name, brand, image string, score int, allergens []domain.Allergen, ingredients ...domain.Ingredient) *domain.Product {
	return &domain.Product{
		ID:          id,
		Name:        name,
		Brand:       brand,
		Image:       image,
		HealthScore: score,
		Ingredients: ingredients,
		Allergens:   allergens,
		ProductType: "food",
	}
}

// demoProducts are hand-curated records served without any upstream
// calls, used for demos and offline development.
var demoProducts = map[string]*domain.Product{
	"747599409943": demoProduct(
		"747599409943",
		"Ghirardelli Milk Chocolate Caramel Squares",
		"Ghirardelli",
		"https://images.openfoodfacts.org/images/products/747599409943/front_en.jpg",
		25,
		[]domain.Allergen{
			{Name: "Milk", Severity: "high"},
			{Name: "Soybeans", Severity: "high"},
		},
		demoIngredient("Sugar", domain.QualityPoor),
		demoIngredient("Corn Syrup", domain.QualityPoor),
		demoIngredient("Milk Chocolate", domain.QualityNeutral),
		demoIngredient("Cream", domain.QualityNeutral),
		demoIngredient("Butter", domain.QualityNeutral),
		demoIngredient("Soy Lecithin", domain.QualityPoor),
		demoIngredient("Natural Flavor", domain.QualityPoor),
	),
	"0855140002175": demoProduct(
		"0855140002175",
		"Native Forest Organic Coconut Milk",
		"Native Forest",
		"https://images.openfoodfacts.org/images/products/0855140002175/front_en.jpg",
		85,
		[]domain.Allergen{
			{Name: "Tree Nuts", Severity: "medium"},
		},
		demoIngredient("Organic Coconut", domain.QualityGood),
		demoIngredient("Water", domain.QualityGood),
		demoIngredient("Organic Guar Gum", domain.QualityNeutral),
	),
}

// demoSearchTerms maps query substrings to curated result sets.
var demoSearchTerms = map[string][]string{
	"granola": {"747599409943"},
	"cookie":  {"747599409943"},
	"coconut": {"0855140002175"},
	"spinach": {"0855140002175"},
}

// demoSearchResults returns curated results when the query matches a
// demo term. The boolean reports whether the shortcut applied.
func demoSearchResults(query string) ([]domain.Product, bool) {
	q := strings.ToLower(query)
	for term, ids := range demoSearchTerms {
		if strings.Contains(q, term) {
			results := make([]domain.Product, 0, len(ids))
			for _, id := range ids {
				if p, ok := demoProducts[id]; ok {
					results = append(results, *p.Clone())
				}
			}
			return results, true
		}
	}
	return nil, false
}
