package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/smartaisle/backend/internal/domain"
)

const (
	productKeyPrefix = "product:"
	searchKeyPrefix  = "search:"

	searchResultLimit = 20
)

// naturalFlavorDescription is pinned text for the "natural flavors"
// label term, which is an umbrella for undisclosed additives and is
// always treated as poor regardless of what a classifier would say.
const naturalFlavorDescription = "A broad term that can include numerous compounds. While FDA-regulated, specific ingredients aren't required to be disclosed and may include additives of concern."

// highSeverityAllergens are the allergens flagged "high" when parsed
// from upstream tags; everything else defaults to "medium".
var highSeverityAllergens = map[string]bool{
	"peanuts":   true,
	"nuts":      true,
	"milk":      true,
	"eggs":      true,
	"fish":      true,
	"shellfish": true,
	"soybeans":  true,
	"gluten":    true,
}

// AnalysisOptions tunes the assembly pipeline.
type AnalysisOptions struct {
	MaxIngredients  int
	BatchSize       int
	BatchDelay      time.Duration
	DemoProducts    bool
	CacheTTL        time.Duration
	BarcodePattern  *regexp.Regexp
	SearchPageLimit int
}

// IngredientClassifier is the classification strategy the assembly
// layer drives. Both the keyword classifier and the nutrient-backed
// classifier satisfy it.
type IngredientClassifier interface {
	Classify(ctx context.Context, ingredientName string) *domain.IngredientAnalysis
	ClearCache()
}

// keywordAdapter lifts the context-free keyword classifier into the
// IngredientClassifier shape.
type keywordAdapter struct{ c *Classifier }

func (a keywordAdapter) Classify(_ context.Context, name string) *domain.IngredientAnalysis {
	return a.c.Classify(name)
}

func (a keywordAdapter) ClearCache() { a.c.ClearCache() }

// ProductService assembles full product views: upstream lookup,
// ingredient parsing, classification, description resolution and health
// scoring. Lookups return a skeleton immediately and finish ingredient
// analysis in the background, replacing cached snapshots as stages
// complete.
type ProductService struct {
	source     domain.ProductSource
	cache      domain.CacheRepository
	classifier IngredientClassifier
	describer  *Describer
	scorer     *Scorer
	quota      *QuotaState
	opts       AnalysisOptions
}

// NewProductService wires the assembly pipeline. classifier picks the
// strategy: pass the nutrient classifier when remote lookups are
// enabled, otherwise wrap the keyword classifier with WrapKeywordClassifier.
func NewProductService(
	source domain.ProductSource,
	cache domain.CacheRepository,
	classifier IngredientClassifier,
	describer *Describer,
	scorer *Scorer,
	quota *QuotaState,
	opts AnalysisOptions,
) *ProductService {
	if opts.MaxIngredients <= 0 {
		opts.MaxIngredients = 30
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 5
	}
	if opts.SearchPageLimit <= 0 {
		opts.SearchPageLimit = searchResultLimit
	}
	return &ProductService{
		source:     source,
		cache:      cache,
		classifier: classifier,
		describer:  describer,
		scorer:     scorer,
		quota:      quota,
		opts:       opts,
	}
}

// WrapKeywordClassifier adapts the keyword classifier to the strategy
// interface used by the assembly layer.
func WrapKeywordClassifier(c *Classifier) IngredientClassifier {
	return keywordAdapter{c: c}
}

// GetProduct looks a product up by barcode. The returned product may
// still be loading; its cached snapshot is replaced as ingredient
// analysis completes in the background. Missing and failed lookups are
// returned as placeholder products; ErrInvalidBarcode is the only error
// surfaced to callers.
func (s *ProductService) GetProduct(ctx context.Context, barcode string) (*domain.Product, error) {
	barcode = strings.TrimSpace(barcode)
	if s.opts.BarcodePattern != nil && !s.opts.BarcodePattern.MatchString(barcode) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidBarcode, barcode)
	}

	if cached, err := s.cache.Get(ctx, productKeyPrefix+barcode); err == nil {
		if product, ok := cached.(*domain.Product); ok {
			log.Printf("[PRODUCT] Cache hit for barcode %s", barcode)
			return product, nil
		}
	}

	if s.opts.DemoProducts {
		if demo, ok := demoProducts[barcode]; ok {
			product := demo.Clone()
			s.storeProduct(ctx, product)
			return product, nil
		}
	}

	raw, err := s.source.FetchProduct(ctx, barcode)
	if err != nil {
		// Lookups degrade to placeholder products; invalid format is the
		// only error callers ever see.
		if errors.Is(err, domain.ErrProductNotFound) {
			log.Printf("[PRODUCT] No upstream record for %s", barcode)
			product := notFoundProduct(barcode)
			s.storeProduct(ctx, product)
			return product, nil
		}
		// Not cached, so a retry goes back upstream.
		log.Printf("[PRODUCT] Upstream failure for %s: %v", barcode, err)
		return errorProduct(barcode), nil
	}

	product := s.buildSkeleton(barcode, raw)

	// A record with no ingredient information finishes right here; there
	// is nothing for the background pipeline to do.
	names := s.ingredientNames(raw)
	if len(names) == 0 {
		log.Printf("[PRODUCT] No ingredient data for %s, stored placeholder", barcode)
		product.Ingredients = []domain.Ingredient{placeholderIngredient()}
		product.Loading.Ingredients = false
		s.storeProduct(ctx, product)
		return product, nil
	}

	s.storeProduct(ctx, product)

	// Detach from the request context: analysis outlives the HTTP call.
	go s.completeProduct(context.Background(), product.Clone(), raw, names)

	return product, nil
}

// GetCachedProduct returns the current snapshot for a barcode without
// touching upstream. ErrCacheMiss when nothing is cached.
func (s *ProductService) GetCachedProduct(ctx context.Context, barcode string) (*domain.Product, error) {
	cached, err := s.cache.Get(ctx, productKeyPrefix+barcode)
	if err != nil {
		return nil, domain.ErrCacheMiss
	}
	product, ok := cached.(*domain.Product)
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	return product, nil
}

// SearchProducts searches the upstream database by name. Results carry
// signal-based scores only; a result whose full product is already
// cached reuses that product's score instead.
func (s *ProductService) SearchProducts(ctx context.Context, query string) ([]domain.Product, error) {
	query = strings.TrimSpace(query)

	if cached, err := s.cache.Get(ctx, searchKeyPrefix+strings.ToLower(query)); err == nil {
		if results, ok := cached.([]domain.Product); ok {
			log.Printf("[SEARCH] Cache hit for query %q", query)
			return results, nil
		}
	}

	if s.opts.DemoProducts {
		if results, ok := demoSearchResults(query); ok {
			return results, nil
		}
	}

	raws, err := s.source.SearchProducts(ctx, query, s.opts.SearchPageLimit)
	if err != nil {
		return nil, err
	}

	results := make([]domain.Product, 0, len(raws))
	for i := range raws {
		raw := &raws[i]
		if raw.Code == "" || raw.ProductName == "" {
			continue
		}

		score, _ := s.scorer.ScoreSignals(raw)
		if full, err := s.GetCachedProduct(ctx, raw.Code); err == nil && !full.Loading.Ingredients {
			score = full.HealthScore
		}

		results = append(results, domain.Product{
			ID:          raw.Code,
			Name:        raw.ProductName,
			Brand:       firstBrand(raw.Brands),
			Image:       productImage(raw),
			HealthScore: score,
			Allergens:   parseAllergens(raw),
			ProductType: raw.ProductType,
		})
	}

	if err := s.cache.Set(ctx, searchKeyPrefix+strings.ToLower(query), results, s.opts.CacheTTL); err != nil {
		log.Printf("[SEARCH] Failed to cache results for %q: %v", query, err)
	}

	return results, nil
}

// ClearAllCaches drops every cache layer and re-arms the generative
// quota so a fresh billing period starts clean.
func (s *ProductService) ClearAllCaches() {
	s.cache.Clear()
	s.classifier.ClearCache()
	s.describer.ClearCache()
	s.quota.Reset()
	log.Printf("[CACHE] All caches cleared")
}

// buildSkeleton assembles the immediately-available parts of a product.
// The health score stays at zero until ingredient analysis finishes;
// label signals alone never score a full product.
func (s *ProductService) buildSkeleton(barcode string, raw *domain.RawProduct) *domain.Product {
	name := raw.ProductName
	if name == "" {
		name = "Unknown Product"
	}

	return &domain.Product{
		ID:          barcode,
		Name:        name,
		Brand:       firstBrand(raw.Brands),
		Image:       productImage(raw),
		HealthScore: 0,
		Ingredients: []domain.Ingredient{},
		Allergens:   parseAllergens(raw),
		ProductType: raw.ProductType,
		Loading:     domain.LoadingState{Ingredients: true},
	}
}

// completeProduct runs the ingredient pipeline and publishes a new
// snapshot after each batch. It owns its product copy; readers only
// ever see values that have been fully built.
func (s *ProductService) completeProduct(ctx context.Context, product *domain.Product, raw *domain.RawProduct, names []string) {
	analyses := make([]domain.IngredientAnalysis, 0, len(names))
	ingredients := make([]domain.Ingredient, 0, len(names))

	for start := 0; start < len(names); start += s.opts.BatchSize {
		if start > 0 && s.opts.BatchDelay > 0 {
			time.Sleep(s.opts.BatchDelay)
		}

		end := start + s.opts.BatchSize
		if end > len(names) {
			end = len(names)
		}

		for _, name := range names[start:end] {
			ingredient, analysis := s.analyzeIngredient(ctx, name)
			analyses = append(analyses, *analysis)
			ingredients = append(ingredients, ingredient)
		}

		snapshot := product.Clone()
		snapshot.Ingredients = ingredients
		snapshot.HealthScore = s.scorer.ScoreProduct(raw, analyses)
		snapshot.Loading.Ingredients = end < len(names)
		s.storeProduct(ctx, snapshot)
	}

	log.Printf("[PRODUCT] Analyzed %d ingredients for %s", len(names), product.ID)
}

// analyzeIngredient classifies one ingredient and resolves its
// description. Names matching the natural-flavor label term bypass
// classification and are pinned to poor.
func (s *ProductService) analyzeIngredient(ctx context.Context, name string) (domain.Ingredient, *domain.IngredientAnalysis) {
	// Classifiers cache and share their results, so work on a copy.
	analysis := copyAnalysis(s.classifier.Classify(ctx, name))

	var description string
	if strings.Contains(strings.ToLower(name), "natural flavor") {
		analysis.Quality = domain.QualityPoor
		analysis.FailedCriteria = appendUnique(analysis.FailedCriteria, "artificial_flavors")
		analysis.PassedCriteria = removeString(analysis.PassedCriteria, "artificial_flavors")
		analysis.CriteriaResults["artificial_flavors"] = false
		description = naturalFlavorDescription
	} else {
		description = s.describer.Resolve(ctx, name, analysis.Quality)
	}
	analysis.Description = description

	return domain.Ingredient{
		Name:        name,
		Quality:     analysis.Quality,
		Description: description,
		Analysis:    analysis,
	}, analysis
}

// ingredientNames extracts and cleans the final ingredient list from
// whichever upstream field has data, capped at the configured maximum.
func (s *ProductService) ingredientNames(raw *domain.RawProduct) []string {
	var names []string

	if len(raw.Ingredients) > 0 {
		for _, ing := range raw.Ingredients {
			text := CleanIngredientText(ing.Text)
			if text != "" && !IsNonIngredient(text) {
				names = append(names, text)
			}
		}
	} else if text := ingredientText(raw); text != "" {
		names = ParseIngredientText(text)
	}

	filtered := names[:0]
	for _, name := range names {
		if IsLikelyIngredient(name) {
			filtered = append(filtered, name)
		}
	}

	if len(filtered) > s.opts.MaxIngredients {
		filtered = filtered[:s.opts.MaxIngredients]
	}
	return filtered
}

func (s *ProductService) storeProduct(ctx context.Context, product *domain.Product) {
	if err := s.cache.Set(ctx, productKeyPrefix+product.ID, product, s.opts.CacheTTL); err != nil {
		log.Printf("[PRODUCT] Failed to cache %s: %v", product.ID, err)
	}
}

// ingredientText picks the first populated free-text ingredient field.
func ingredientText(raw *domain.RawProduct) string {
	for _, text := range []string{
		raw.IngredientsText,
		raw.IngredientsTextWithAllergens,
		raw.IngredientsTextEn,
		raw.IngredientsTextFr,
	} {
		if strings.TrimSpace(text) != "" {
			return text
		}
	}
	return ""
}

// errorProduct is returned when the upstream lookup failed outright.
// Analysis is marked complete so clients stop polling.
// notFoundProduct stands in when the upstream has no record for a
// barcode. It is cached like any other product so repeat lookups skip
// the upstream round trip.
func notFoundProduct(barcode string) *domain.Product {
	return &domain.Product{
		ID:          barcode,
		Name:        "Product Not Found",
		HealthScore: 0,
		Ingredients: []domain.Ingredient{placeholderIngredient()},
		Allergens:   []domain.Allergen{},
	}
}

func errorProduct(barcode string) *domain.Product {
	return &domain.Product{
		ID:          barcode,
		Name:        "Error Loading Product",
		Ingredients: []domain.Ingredient{placeholderIngredient()},
		Allergens:   []domain.Allergen{},
	}
}

// placeholderIngredient stands in when a product record carries no
// ingredient information at all.
func placeholderIngredient() domain.Ingredient {
	results := make(map[string]bool, len(domain.CriterionNames))
	passed := make([]string, 0, len(domain.CriterionNames))
	for _, name := range domain.CriterionNames {
		results[name] = true
		passed = append(passed, name)
	}
	analysis := &domain.IngredientAnalysis{
		Name:            "Ingredients",
		Quality:         domain.QualityUnknown,
		Description:     genericFallbacks[domain.QualityUnknown],
		ProcessingLevel: domain.ProcessingModerate,
		CriteriaResults: results,
		FailedCriteria:  []string{},
		PassedCriteria:  passed,
	}
	return domain.Ingredient{
		Name:        "Ingredients",
		Quality:     domain.QualityUnknown,
		Description: analysis.Description,
		Analysis:    analysis,
	}
}

func firstBrand(brands string) string {
	if idx := strings.Index(brands, ","); idx >= 0 {
		return strings.TrimSpace(brands[:idx])
	}
	return strings.TrimSpace(brands)
}

func productImage(raw *domain.RawProduct) string {
	if raw.ImageURL != "" {
		return raw.ImageURL
	}
	return raw.ImageFrontURL
}

// parseAllergens converts upstream allergen tags ("en:milk") into
// named entries, falling back to the free-text allergens field.
func parseAllergens(raw *domain.RawProduct) []domain.Allergen {
	seen := make(map[string]bool)
	var allergens []domain.Allergen

	add := func(name string) {
		name = strings.TrimSpace(name)
		if idx := strings.Index(name, ":"); idx >= 0 {
			name = name[idx+1:]
		}
		name = strings.ReplaceAll(name, "-", " ")
		if name == "" || seen[name] {
			return
		}
		seen[name] = true

		severity := "medium"
		if highSeverityAllergens[name] {
			severity = "high"
		}
		allergens = append(allergens, domain.Allergen{Name: titleCase(name), Severity: severity})
	}

	for _, tag := range raw.AllergensTags {
		add(tag)
	}
	if len(allergens) == 0 && raw.Allergens != "" {
		for _, part := range strings.Split(raw.Allergens, ",") {
			add(strings.ToLower(part))
		}
	}

	return allergens
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

// copyAnalysis deep-copies a classification result so per-product
// adjustments never reach back into a classifier's cache.
func copyAnalysis(a *domain.IngredientAnalysis) *domain.IngredientAnalysis {
	out := *a
	out.CriteriaResults = make(map[string]bool, len(a.CriteriaResults))
	for k, v := range a.CriteriaResults {
		out.CriteriaResults[k] = v
	}
	out.FailedCriteria = append([]string(nil), a.FailedCriteria...)
	out.PassedCriteria = append([]string(nil), a.PassedCriteria...)
	out.Concerns = append([]string(nil), a.Concerns...)
	out.Benefits = append([]string(nil), a.Benefits...)
	return &out
}

func appendUnique(list []string, value string) []string {
	for _, v := range list {
		if v == value {
			return list
		}
	}
	return append(list, value)
}

func removeString(list []string, value string) []string {
	out := list[:0]
	for _, v := range list {
		if v != value {
			out = append(out, v)
		}
	}
	return out
}
