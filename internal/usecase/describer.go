package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/smartaisle/backend/internal/domain"
)

const maxGenerationRetries = 2

// fallbackDescriptions are curated, hand-written descriptions for common
// ingredients, keyed by normalized name and a 3-way quality bucket.
var fallbackDescriptions = map[string]map[string]string{
	// Good ingredients
	"organic rolled oats": {
		"good": "Whole grain rich in beta-glucan fiber, which may help lower cholesterol and improve heart health. Contains important nutrients like manganese, phosphorus, and B vitamins.",
	},
	"organic quinoa": {
		"good": "Complete protein containing all nine essential amino acids. Rich in fiber, magnesium, B vitamins, iron, potassium, calcium, and beneficial antioxidants.",
	},
	"organic spinach": {
		"good": "Nutrient-dense leafy green high in vitamins A, C, K, folate, and minerals. Contains antioxidants that may reduce inflammation and support eye health.",
	},
	"extra virgin olive oil": {
		"good": "Rich in monounsaturated fats and antioxidants. Associated with reduced inflammation and lower risk of heart disease when used as part of a balanced diet.",
	},
	"avocado oil": {
		"good": "High in oleic acid, a heart-healthy monounsaturated fatty acid. Contains vitamin E and has a high smoke point, making it suitable for cooking.",
	},
	"apples": {
		"good": "Rich in dietary fiber, particularly pectin, which supports digestive health. Contains antioxidants like quercetin that may reduce inflammation and support heart health.",
	},

	// Moderate ingredients
	"cane sugar": {
		"moderate": "Less processed than refined white sugar, retaining some minerals, but still contributes to added sugar intake. Should be consumed in moderation.",
	},
	"honey": {
		"moderate": "Contains trace enzymes, antioxidants, and nutrients not found in refined sugar, but still impacts blood sugar levels and should be used sparingly.",
	},
	"sunflower oil": {
		"moderate": "High in vitamin E and unsaturated fats, but also contains omega-6 fatty acids which, when consumed in excess, may contribute to inflammation. Best used in moderation.",
	},
	"whole wheat flour": {
		"moderate": "Contains more fiber and nutrients than refined white flour, but still impacts blood sugar and may contain gluten, which some individuals need to avoid.",
	},

	// Poor ingredients
	"high fructose corn syrup": {
		"poor": "Highly processed sweetener linked to increased risk of obesity, type 2 diabetes, and metabolic syndrome when consumed regularly. Contains no essential nutrients.",
	},
	"hydrogenated oil": {
		"poor": "Contains trans fats, which raise LDL (bad) cholesterol, lower HDL (good) cholesterol, and increase risk of heart disease, stroke, and type 2 diabetes.",
	},
	"artificial flavor": {
		"poor": "Synthetic chemicals designed to mimic natural flavors. While FDA-regulated, some may cause adverse reactions in sensitive individuals.",
	},
	"natural flavor": {
		"poor": "A broad term that can include numerous compounds. While FDA-regulated, specific ingredients aren't required to be disclosed and may include additives of concern.",
	},
	"monosodium glutamate": {
		"poor": "Flavor enhancer that may cause adverse reactions in sensitive individuals, including headaches and flushing. Commonly used in processed foods.",
	},
	"red 40": {
		"poor": "Synthetic food dye linked to hyperactivity in some children. Derived from petroleum and provides no nutritional value.",
	},
	"sodium nitrite": {
		"poor": "Preservative used in processed meats that may form potentially carcinogenic compounds called nitrosamines when exposed to high heat.",
	},
	"wheat flour": {
		"poor": "Conventional wheat flour is often treated with pesticides during cultivation and undergoes processing that removes beneficial nutrients.",
	},
	"unbleached flour": {
		"poor": "While not chemically bleached, conventional unbleached flour still comes from wheat that may be treated with pesticides. It undergoes processing that removes the nutrient-rich bran and germ portions of the grain.",
	},
	"flour": {
		"poor": "Conventional flour is typically treated with pesticides during cultivation and may undergo bleaching and chemical processing. The refining process removes many nutrients found in whole grains.",
	},
}

// genericFallbacks is the last resort: one sentence per quality tier
var genericFallbacks = map[domain.Quality]string{
	domain.QualityVeryGood: "Highly nutritious natural ingredient with significant health benefits.",
	domain.QualityGood:     "Nutritious natural ingredient with beneficial properties.",
	domain.QualityNeutral:  "Generally harmless ingredient to be consumed in moderation.",
	domain.QualityPoor:     "Ingredient that may have nutritional concerns or processing issues.",
	domain.QualityVeryPoor: "Highly processed ingredient with significant health concerns.",
	domain.QualityUnknown:  "Ingredient with insufficient information to make a confident assessment.",
}

// Describer resolves a human-readable description per (ingredient,
// quality): cached text first, then generated text, then curated
// fallback, then a generic per-tier sentence. Every path writes its
// result into the cache.
type Describer struct {
	generator domain.DescriptionGenerator
	quota     *QuotaState
	sleep     func(time.Duration)

	mu    sync.Mutex
	cache map[string]string
}

// NewDescriber creates a description resolver. The generator may be nil,
// in which case resolution goes straight to the fallback tiers.
func NewDescriber(generator domain.DescriptionGenerator, quota *QuotaState) *Describer {
	if quota == nil {
		quota = NewQuotaState()
	}
	return &Describer{
		generator: generator,
		quota:     quota,
		sleep:     time.Sleep,
		cache:     make(map[string]string),
	}
}

// Resolve returns the description for an ingredient at a quality tier.
// It never fails; generation errors degrade to fallback text.
func (d *Describer) Resolve(ctx context.Context, ingredientName string, quality domain.Quality) string {
	name := strings.ToLower(strings.TrimSpace(ingredientName))
	key := name + "|" + string(quality)

	d.mu.Lock()
	if cached, ok := d.cache[key]; ok {
		d.mu.Unlock()
		return cached
	}
	d.mu.Unlock()

	description := d.resolve(ctx, name, quality)

	// Fallback results are cached too: a transient generation failure
	// pins the fallback text for this entry until the cache is cleared.
	d.mu.Lock()
	d.cache[key] = description
	d.mu.Unlock()

	return description
}

// ClearCache drops all cached descriptions
func (d *Describer) ClearCache() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cache = make(map[string]string)
}

func (d *Describer) resolve(ctx context.Context, name string, quality domain.Quality) string {
	if d.generator == nil || d.quota.Exceeded() {
		return findFallbackDescription(name, quality)
	}

	for attempt := 0; attempt <= maxGenerationRetries; attempt++ {
		if attempt > 0 {
			d.sleep(time.Duration(attempt) * time.Second)
		}

		text, err := d.generator.GenerateDescription(ctx, name, quality)
		if err == nil && text != "" {
			return text
		}

		if errors.Is(err, domain.ErrQuotaExceeded) {
			log.Printf("[AI] Quota exceeded, switching to fallback descriptions for all ingredients")
			d.quota.Trip()
			break
		}

		log.Printf("[AI] Generation failed for %q (attempt %d): %v", name, attempt+1, err)
	}

	return findFallbackDescription(name, quality)
}

// findFallbackDescription returns the curated description for a
// normalized name, matching exactly first and by substring second, then
// the generic per-tier sentence.
func findFallbackDescription(name string, quality domain.Quality) string {
	bucket := fallbackBucket(quality)

	if descriptions, ok := fallbackDescriptions[name]; ok {
		if text, ok := descriptions[bucket]; ok {
			return text
		}
	}

	for key, descriptions := range fallbackDescriptions {
		if strings.Contains(name, key) {
			if text, ok := descriptions[bucket]; ok {
				return text
			}
		}
	}

	return genericFallbacks[quality]
}

// fallbackBucket maps the quality tiers onto the curated table's 3-way
// buckets; neutral maps to moderate, unknown has no curated entries and
// falls through to the poor bucket like the other negative tiers.
func fallbackBucket(quality domain.Quality) string {
	switch quality {
	case domain.QualityGood, domain.QualityVeryGood:
		return "good"
	case domain.QualityNeutral:
		return "moderate"
	default:
		return "poor"
	}
}
