package usecase

import (
	"regexp"
	"strings"
	"sync"

	"github.com/smartaisle/backend/internal/domain"
)

// Keyword tables for the rule-based classifier, tested best tier first.
// The first table containing a substring of the normalized name wins.
var veryGoodKeywords = []string{
	// Organic qualifiers
	"certified organic",

	// Quality animal products
	"grass-fed", "grass fed",
	"pasture-raised", "pasture raised",
	"wild-caught", "wild caught",
	"free-range", "free range",

	// Quality oils
	"extra virgin olive oil",
	"single-origin oil",

	// Minimally processed sweeteners
	"raw honey",
	"maple syrup",
	"coconut sugar",
	"date sugar",
	"monk fruit",
}

var goodKeywords = []string{
	"olive oil", "avocado oil", "coconut oil",
	"quinoa", "oats", "rice", "wheat",
	"corn", "beans", "lentils", "nuts", "seeds",
	"vegetables", "fruits",
	"eggs", "milk", "yogurt", "cheese",
	"beef", "chicken", "fish", "turkey", "lamb", "pork",
	"tofu", "tempeh", "seitan",
	"whole grain", "whole wheat",
}

var neutralKeywords = []string{
	// Spices and herbs
	"salt", "pepper", "cinnamon", "turmeric", "ginger", "garlic", "onion",
	"basil", "oregano", "thyme", "rosemary", "parsley", "cilantro",
	"cumin", "paprika", "cayenne", "nutmeg", "cloves", "cardamom",
	"coriander", "dill", "mint", "sage", "bay leaf",
	"vanilla", "cacao", "cocoa", "spices", "herbs",

	// Baking ingredients
	"baking soda", "baking powder", "cream of tartar", "yeast",
	"sea salt", "himalayan salt", "celtic salt",
	"vinegar", "apple cider vinegar", "lemon juice", "lime juice",
}

var poorKeywords = []string{
	// Refined sugars
	"cane sugar", "brown sugar", "white sugar", "powdered sugar",
	"confectioners sugar", "turbinado sugar", "raw sugar", "sugar",
	"corn syrup", "glucose", "fructose", "dextrose", "maltose", "sucrose",

	// Refined flours
	"white flour", "enriched flour", "bleached flour", "all-purpose flour",
	"wheat flour", "unbleached flour", "flour",

	// Seed oils
	"vegetable oil", "canola oil", "soybean oil", "corn oil",
	"sunflower oil", "safflower oil", "cottonseed oil", "grapeseed oil",
	"rice bran oil", "palm kernel oil",

	// Additives
	"natural flavor", "natural flavors", "natural flavoring", "natural flavorings",
}

var veryPoorKeywords = []string{
	// Artificial sweeteners
	"high fructose corn syrup", "corn syrup solids",
	"aspartame", "sucralose", "saccharin", "acesulfame", "neotame", "advantame",

	// Artificial flavors and colors
	"artificial flavor", "artificial flavors", "artificial flavoring",
	"artificial color", "artificial colors",
	"red 40", "yellow 5", "yellow 6", "blue 1", "blue 2", "green 3",
	"red dye", "yellow dye", "blue dye", "caramel color", "color added",

	// Preservatives
	"bha", "bht", "tbhq",
	"sodium nitrite", "sodium nitrate", "sodium benzoate",
	"potassium sorbate", "calcium propionate", "sodium erythorbate",
	"propyl gallate", "propylene glycol", "sodium phosphate",
	"calcium disodium edta", "propylparaben",

	// Ultra-processed ingredients
	"hydrogenated", "partially hydrogenated", "interesterified",
	"modified food starch", "modified corn starch",
	"textured vegetable protein", "isolated soy protein",
	"soy protein isolate", "whey protein isolate",
	"hydrolyzed", "maltodextrin", "dextrin",

	// GMO indicators
	"gmo", "genetically modified", "genetically engineered",

	// Toxins
	"aluminum", "brominated", "potassium bromate",
	"titanium dioxide", "silicon dioxide", "carrageenan",
	"monosodium glutamate", "msg",

	// Fragrances
	"fragrance", "parfum", "perfume", "aroma", "scent",
}

// Hazard detectors for the criteria map, evaluated independently of the
// tier tables.
var (
	seedOilRegex          = regexp.MustCompile(`\b(vegetable|canola|soybean|corn|sunflower|safflower|cottonseed|grapeseed|rice bran|palm kernel)\s+oil\b`)
	refinedSugarRegex     = regexp.MustCompile(`\b(sugar|syrup|glucose|fructose|dextrose|maltose|sucrose|maltodextrin)\b`)
	flavorRegex           = regexp.MustCompile(`(artificial|natural)\s+flavor|flavoring`)
	coloringRegex         = regexp.MustCompile(`\b(color|colour|dye)\b|red\s*40|yellow\s*[56]|blue\s*[12]|green\s*3`)
	preservativeRegex     = regexp.MustCompile(`\b(bha|bht|tbhq|nitrite|nitrate|benzoate|sorbate|propionate|erythorbate|gallate|paraben)\b`)
	ultraProcessedRegex   = regexp.MustCompile(`hydrogenated|hydrolyzed|isolate|interesterified|modified`)
	gmoRegex              = regexp.MustCompile(`\bgmo\b|genetically`)
	toxinRegex            = regexp.MustCompile(`aluminum|titanium|bromate|brominated|carrageenan|\bmsg\b|monosodium glutamate`)
	fragranceRegex        = regexp.MustCompile(`fragrance|parfum|perfume|\baroma\b|\bscent\b`)
	highlyProcessedRegexp = regexp.MustCompile(`hydrogenated|high fructose corn syrup|artificial flavor|artificial color|\bmsg\b|sodium nitrate|sodium nitrite|\bbha\b|\bbht\b|\btbhq\b|propyl gallate|potassium bromate|brominated|interesterified`)
)

// baseDescriptions are the classifier's own per-tier descriptions; the
// description resolver may replace them with richer text.
var baseDescriptions = map[domain.Quality]string{
	domain.QualityVeryGood: "Highly nutritious ingredient with significant health benefits.",
	domain.QualityGood:     "Nutritious ingredient with beneficial properties.",
	domain.QualityNeutral:  "Generally harmless ingredient without significant health benefits or concerns.",
	domain.QualityPoor:     "Ingredient with some nutritional or processing concerns.",
	domain.QualityVeryPoor: "Highly processed ingredient with significant health concerns.",
	domain.QualityUnknown:  "Ingredient with insufficient information to confidently categorize.",
}

const organicNote = " Organic certification indicates absence of synthetic pesticides and fertilizers."

// Classifier is the synchronous keyword/regex classification strategy.
// Results are cached per normalized name for the process lifetime.
type Classifier struct {
	mu    sync.Mutex
	cache map[string]*domain.IngredientAnalysis
}

// NewClassifier creates a new rule-based classifier
func NewClassifier() *Classifier {
	return &Classifier{
		cache: make(map[string]*domain.IngredientAnalysis),
	}
}

// Classify assigns a quality tier and criteria results to an ingredient
// name. It never fails and never makes remote calls.
func (c *Classifier) Classify(ingredientName string) *domain.IngredientAnalysis {
	name := strings.ToLower(strings.TrimSpace(ingredientName))

	c.mu.Lock()
	if cached, ok := c.cache[name]; ok {
		c.mu.Unlock()
		return cached
	}
	c.mu.Unlock()

	isOrganic := strings.Contains(name, "organic")
	quality := classifyByKeywords(name, isOrganic)

	analysis := buildAnalysis(ingredientName, name, quality, isOrganic)

	c.mu.Lock()
	c.cache[name] = analysis
	c.mu.Unlock()

	return analysis
}

// ClearCache drops all cached analyses
func (c *Classifier) ClearCache() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]*domain.IngredientAnalysis)
}

// classifyByKeywords walks the tier tables best-first; the first table
// containing a substring of the name wins. Names matching nothing default
// to poor. The strategy caps its output at good, so the extreme tables
// fold into their neighbors.
func classifyByKeywords(name string, isOrganic bool) domain.Quality {
	quality := domain.QualityPoor

	switch {
	case matchesAny(name, veryGoodKeywords):
		quality = domain.QualityGood
	case matchesAny(name, veryPoorKeywords):
		// Checked before the positive tables so that e.g. "artificial
		// flavor" is not rescued by a broader keyword.
		quality = domain.QualityPoor
	case matchesAny(name, goodKeywords):
		quality = domain.QualityGood
	case matchesAny(name, neutralKeywords):
		quality = domain.QualityNeutral
	case matchesAny(name, poorKeywords):
		quality = domain.QualityPoor
	}

	// Organic lifts the tier by one step, capped at good.
	if isOrganic {
		switch quality {
		case domain.QualityPoor:
			quality = domain.QualityNeutral
		case domain.QualityNeutral:
			quality = domain.QualityGood
		}
	}

	return quality
}

func matchesAny(name string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(name, keyword) {
			return true
		}
	}
	return false
}

// buildAnalysis evaluates the eleven criteria and assembles the result.
// The criteria checks run regardless of which table decided the tier.
func buildAnalysis(originalName, name string, quality domain.Quality, isOrganic bool) *domain.IngredientAnalysis {
	results := evaluateCriteria(name, isOrganic)
	failed, passed := partitionCriteria(results)

	description := baseDescriptions[quality]
	if isOrganic {
		description += organicNote
	}

	level := domain.ProcessingModerate
	if quality == domain.QualityGood && isOrganic {
		level = domain.ProcessingMinimal
	} else if quality == domain.QualityPoor || !results["ultra_processed"] {
		level = domain.ProcessingHigh
	}

	return &domain.IngredientAnalysis{
		Name:            originalName,
		Quality:         quality,
		Description:     description,
		ProcessingLevel: level,
		CriteriaResults: results,
		FailedCriteria:  failed,
		PassedCriteria:  passed,
		Organic:         isOrganic,
	}
}

// evaluateCriteria runs the hazard detectors over a normalized name and
// returns a result for every named criterion.
func evaluateCriteria(name string, isOrganic bool) map[string]bool {
	return map[string]bool{
		"organic":            isOrganic,
		"seed_oils":          !seedOilRegex.MatchString(name),
		"refined_sugars":     !refinedSugarRegex.MatchString(name),
		"preservatives":      !preservativeRegex.MatchString(name),
		"gmo":                isOrganic && !gmoRegex.MatchString(name),
		"artificial_flavors": !flavorRegex.MatchString(name),
		"pesticides":         isOrganic,
		"food_colorings":     !coloringRegex.MatchString(name),
		"ultra_processed":    !ultraProcessedRegex.MatchString(name),
		"toxins":             !toxinRegex.MatchString(name),
		"fragrances":         !fragranceRegex.MatchString(name),
	}
}

// partitionCriteria splits the results map into failed and passed lists
// in the canonical criterion order.
func partitionCriteria(results map[string]bool) (failed, passed []string) {
	failed = []string{}
	passed = []string{}
	for _, name := range domain.CriterionNames {
		if results[name] {
			passed = append(passed, name)
		} else {
			failed = append(failed, name)
		}
	}
	return failed, passed
}
