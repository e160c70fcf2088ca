package domain

// Quality is the closed set of health tiers an ingredient can be assigned.
// The keyword classifier only emits Good/Neutral/Poor/Unknown; the
// nutrient-based classifier may additionally emit the extreme tiers.
type Quality string

const (
	QualityVeryGood Quality = "very good"
	QualityGood     Quality = "good"
	QualityNeutral  Quality = "neutral"
	QualityPoor     Quality = "poor"
	QualityVeryPoor Quality = "very poor"
	QualityUnknown  Quality = "unknown"
)

// ProcessingLevel estimates how industrially altered an ingredient is.
type ProcessingLevel string

const (
	ProcessingMinimal  ProcessingLevel = "minimal"
	ProcessingModerate ProcessingLevel = "moderate"
	ProcessingHigh     ProcessingLevel = "high"
)

// CriterionNames is the fixed set of per-ingredient checks. Every
// IngredientAnalysis carries a result for each of these, no more, no less.
var CriterionNames = []string{
	"organic",
	"seed_oils",
	"refined_sugars",
	"preservatives",
	"gmo",
	"artificial_flavors",
	"pesticides",
	"food_colorings",
	"ultra_processed",
	"toxins",
	"fragrances",
}

// Criterion is static reference data describing one health check.
type Criterion struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	Weight      int    `json:"weight"`
}

// HealthCriteria describes each named criterion. Defined once at startup.
var HealthCriteria = []Criterion{
	{Name: "organic", Description: "Organic certification indicates absence of synthetic pesticides and fertilizers", Severity: "high", Weight: 10},
	{Name: "seed_oils", Description: "Contains seed oils which may promote inflammation", Severity: "high", Weight: 10},
	{Name: "refined_sugars", Description: "Contains refined sugars which can impact blood sugar levels", Severity: "high", Weight: 10},
	{Name: "preservatives", Description: "Contains preservatives that may have health implications", Severity: "high", Weight: 10},
	{Name: "gmo", Description: "May be genetically modified", Severity: "high", Weight: 10},
	{Name: "artificial_flavors", Description: "Contains artificial or 'natural' flavors", Severity: "high", Weight: 10},
	{Name: "pesticides", Description: "May contain pesticide residues", Severity: "high", Weight: 10},
	{Name: "food_colorings", Description: "Contains artificial food colorings", Severity: "high", Weight: 10},
	{Name: "ultra_processed", Description: "Is highly processed", Severity: "high", Weight: 10},
	{Name: "toxins", Description: "May contain potentially harmful compounds", Severity: "high", Weight: 10},
	{Name: "fragrances", Description: "Contains added fragrances", Severity: "high", Weight: 10},
}

// IngredientAnalysis is the full classification result for one ingredient.
// FailedCriteria and PassedCriteria always partition CriterionNames.
type IngredientAnalysis struct {
	Name            string           `json:"name"`
	Quality         Quality          `json:"quality"`
	Description     string           `json:"description"`
	ProcessingLevel ProcessingLevel  `json:"processingLevel"`
	CriteriaResults map[string]bool  `json:"criteriaResults"`
	FailedCriteria  []string         `json:"failedCriteria"`
	PassedCriteria  []string         `json:"passedCriteria"`
	Organic         bool             `json:"organic,omitempty"`
	Concerns        []string         `json:"concerns,omitempty"`
	Benefits        []string         `json:"benefits,omitempty"`
	Nutrients       *NutrientProfile `json:"nutrients,omitempty"`
	FdcID           int              `json:"fdcId,omitempty"`
}

// Ingredient is one classified, described entry in a product's list.
type Ingredient struct {
	Name        string              `json:"name"`
	Quality     Quality             `json:"quality"`
	Description string              `json:"description"`
	Analysis    *IngredientAnalysis `json:"analysis,omitempty"`
}

// Allergen is derived directly from upstream allergen tags.
type Allergen struct {
	Name     string `json:"name"`
	Severity string `json:"severity"` // "high", "medium" or "low"
}

// LoadingState tracks which parts of a product are still being populated.
type LoadingState struct {
	Ingredients bool `json:"ingredients"`
}

// Product is the assembled entity served to UI consumers. Once written to
// the product cache a Product value is treated as an immutable snapshot;
// assembly stages replace the cached value rather than mutating it.
type Product struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Brand       string       `json:"brand"`
	Image       string       `json:"image"`
	HealthScore int          `json:"healthScore"`
	Ingredients []Ingredient `json:"ingredients"`
	Allergens   []Allergen   `json:"allergens"`
	Price       float64      `json:"price"`
	Store       string       `json:"store"`
	ProductType string       `json:"productType"`
	Loading     LoadingState `json:"loading"`
}

// Clone returns a deep copy so assembly stages can build a new snapshot
// without touching the value already visible to readers.
func (p *Product) Clone() *Product {
	out := *p
	out.Ingredients = make([]Ingredient, len(p.Ingredients))
	copy(out.Ingredients, p.Ingredients)
	out.Allergens = make([]Allergen, len(p.Allergens))
	copy(out.Allergens, p.Allergens)
	return &out
}
