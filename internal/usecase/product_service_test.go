package usecase

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/smartaisle/backend/internal/domain"
)

// fakeCache is a minimal CacheRepository for service tests.
type fakeCache struct {
	mu    sync.Mutex
	items map[string]interface{}
}

func newFakeCache() *fakeCache {
	return &fakeCache{items: make(map[string]interface{})}
}

func (c *fakeCache) Get(_ context.Context, key string) (interface{}, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.items[key]; ok {
		return v, nil
	}
	return nil, domain.ErrCacheMiss
}

func (c *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
	return nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	return nil
}

func (c *fakeCache) Exists(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[key]
	return ok, nil
}

func (c *fakeCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]interface{})
}

// fakeSource serves scripted upstream records.
type fakeSource struct {
	products map[string]*domain.RawProduct
	results  []domain.RawProduct
	err      error
}

func (s *fakeSource) FetchProduct(_ context.Context, barcode string) (*domain.RawProduct, error) {
	if s.err != nil {
		return nil, s.err
	}
	if raw, ok := s.products[barcode]; ok {
		return raw, nil
	}
	return nil, domain.ErrProductNotFound
}

func (s *fakeSource) SearchProducts(_ context.Context, _ string, _ int) ([]domain.RawProduct, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.results, nil
}

func newTestService(source domain.ProductSource, demo bool) *ProductService {
	quota := NewQuotaState()
	return NewProductService(
		source,
		newFakeCache(),
		WrapKeywordClassifier(NewClassifier()),
		NewDescriber(nil, quota),
		NewScorer(nil),
		quota,
		AnalysisOptions{
			MaxIngredients: 30,
			BatchSize:      5,
			BatchDelay:     0,
			DemoProducts:   demo,
			CacheTTL:       time.Minute,
			BarcodePattern: regexp.MustCompile(`^\d{7,14}$|^[A-Z0-9]{8,14}$`),
		},
	)
}

// waitForAnalysis polls the cached snapshot until background analysis
// finishes.
func waitForAnalysis(t *testing.T, svc *ProductService, barcode string) *domain.Product {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		product, err := svc.GetCachedProduct(context.Background(), barcode)
		if err == nil && !product.Loading.Ingredients {
			return product
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("analysis for %s did not finish in time", barcode)
	return nil
}

func TestGetProductInvalidBarcode(t *testing.T) {
	svc := newTestService(&fakeSource{}, false)

	for _, barcode := range []string{"", "123", "abc-def", "12345678901234567890"} {
		_, err := svc.GetProduct(context.Background(), barcode)
		if !errors.Is(err, domain.ErrInvalidBarcode) {
			t.Errorf("GetProduct(%q) error = %v, want ErrInvalidBarcode", barcode, err)
		}
	}
}

func TestGetProductNotFoundPlaceholder(t *testing.T) {
	svc := newTestService(&fakeSource{}, false)

	product, err := svc.GetProduct(context.Background(), "9999999999999")
	if err != nil {
		t.Fatalf("GetProduct() error = %v, want placeholder", err)
	}
	if product.Name != "Product Not Found" {
		t.Errorf("Name = %q, want %q", product.Name, "Product Not Found")
	}
	if product.HealthScore != 0 {
		t.Errorf("HealthScore = %d, want 0", product.HealthScore)
	}
	if len(product.Ingredients) != 1 || product.Ingredients[0].Quality != domain.QualityUnknown {
		t.Errorf("Ingredients = %+v, want a single unknown placeholder", product.Ingredients)
	}
	if product.Loading.Ingredients {
		t.Error("placeholder should not report pending analysis")
	}

	// The placeholder is cached so repeat lookups skip the upstream.
	if cached, err := svc.GetCachedProduct(context.Background(), "9999999999999"); err != nil || cached.Name != "Product Not Found" {
		t.Errorf("GetCachedProduct() = %v, %v, want cached placeholder", cached, err)
	}
}

func TestGetProductUpstreamFailureDegrades(t *testing.T) {
	svc := newTestService(&fakeSource{err: errors.New("upstream 503")}, false)

	product, err := svc.GetProduct(context.Background(), "3017620422003")
	if err != nil {
		t.Fatalf("GetProduct() error = %v, want degraded placeholder", err)
	}
	if product.Name != "Error Loading Product" {
		t.Errorf("Name = %q, want error placeholder", product.Name)
	}
	if product.Loading.Ingredients {
		t.Error("error placeholder must not be marked loading")
	}

	// Placeholders are not cached; a retry goes back upstream.
	if _, err := svc.GetCachedProduct(context.Background(), "3017620422003"); !errors.Is(err, domain.ErrCacheMiss) {
		t.Errorf("error placeholder should not be cached, got %v", err)
	}
}

func TestGetProductProgressiveLoading(t *testing.T) {
	source := &fakeSource{products: map[string]*domain.RawProduct{
		"3017620422003": {
			Code:            "3017620422003",
			ProductName:     "Hazelnut Spread",
			Brands:          "Ferrero, Nutella",
			ImageURL:        "https://example.com/img.jpg",
			IngredientsText: "Sugar, Palm Oil, Hazelnuts, Cocoa, Skim Milk",
			NutriscoreGrade: "e",
			NovaGroup:       4,
			AllergensTags:   []string{"en:milk", "en:nuts"},
		},
	}}
	svc := newTestService(source, false)

	product, err := svc.GetProduct(context.Background(), "3017620422003")
	if err != nil {
		t.Fatalf("GetProduct() error = %v", err)
	}

	// The immediate response is a skeleton. It scores zero until the
	// ingredient analysis finishes, even with label signals present.
	if !product.Loading.Ingredients {
		t.Error("initial response should be marked loading")
	}
	if product.HealthScore != 0 {
		t.Errorf("skeleton HealthScore = %d, want 0 before analysis", product.HealthScore)
	}
	if product.Name != "Hazelnut Spread" {
		t.Errorf("Name = %q", product.Name)
	}
	if product.Brand != "Ferrero" {
		t.Errorf("Brand = %q, want first listed brand", product.Brand)
	}
	if len(product.Allergens) != 2 {
		t.Errorf("got %d allergens, want 2", len(product.Allergens))
	}
	if product.Allergens[0].Severity != "high" {
		t.Errorf("milk allergen severity = %q, want high", product.Allergens[0].Severity)
	}

	done := waitForAnalysis(t, svc, "3017620422003")
	if len(done.Ingredients) != 5 {
		t.Fatalf("got %d ingredients, want 5", len(done.Ingredients))
	}
	if done.Ingredients[0].Name != "Sugar" {
		t.Errorf("first ingredient = %q, want Sugar", done.Ingredients[0].Name)
	}
	if done.Ingredients[0].Quality != domain.QualityPoor {
		t.Errorf("sugar quality = %q, want poor", done.Ingredients[0].Quality)
	}
	if done.HealthScore < 0 || done.HealthScore > 100 {
		t.Errorf("HealthScore = %d, out of range", done.HealthScore)
	}

	// The original skeleton snapshot must not have been mutated.
	if len(product.Ingredients) != 0 {
		t.Error("skeleton snapshot was mutated by background analysis")
	}
}

func TestGetProductPlaceholderWithoutIngredients(t *testing.T) {
	source := &fakeSource{products: map[string]*domain.RawProduct{
		"1234567890123": {Code: "1234567890123", ProductName: "Mystery Item"},
	}}
	svc := newTestService(source, false)

	// No ingredient data means no background analysis: the first
	// response already carries the placeholder and is done loading.
	done, err := svc.GetProduct(context.Background(), "1234567890123")
	if err != nil {
		t.Fatalf("GetProduct() error = %v", err)
	}
	if done.Loading.Ingredients {
		t.Error("product without ingredient data should not report pending analysis")
	}
	if done.HealthScore != 0 {
		t.Errorf("HealthScore = %d, want 0", done.HealthScore)
	}
	if len(done.Ingredients) != 1 {
		t.Fatalf("got %d ingredients, want 1 placeholder", len(done.Ingredients))
	}
	placeholder := done.Ingredients[0]
	if placeholder.Name != "Ingredients" {
		t.Errorf("placeholder name = %q", placeholder.Name)
	}
	if placeholder.Quality != domain.QualityUnknown {
		t.Errorf("placeholder quality = %q, want unknown", placeholder.Quality)
	}
}

func TestGetProductNaturalFlavorOverride(t *testing.T) {
	source := &fakeSource{products: map[string]*domain.RawProduct{
		"8712345678901": {
			Code:            "8712345678901",
			ProductName:     "Sparkling Drink",
			IngredientsText: "Carbonated Water, Natural Flavors",
		},
	}}
	svc := newTestService(source, false)

	if _, err := svc.GetProduct(context.Background(), "8712345678901"); err != nil {
		t.Fatalf("GetProduct() error = %v", err)
	}

	done := waitForAnalysis(t, svc, "8712345678901")
	var flavor *domain.Ingredient
	for i := range done.Ingredients {
		if done.Ingredients[i].Name == "Natural Flavors" {
			flavor = &done.Ingredients[i]
		}
	}
	if flavor == nil {
		t.Fatal("natural flavors entry missing")
	}
	if flavor.Quality != domain.QualityPoor {
		t.Errorf("natural flavors quality = %q, want poor", flavor.Quality)
	}
	if flavor.Description != naturalFlavorDescription {
		t.Errorf("natural flavors must carry the pinned description, got %q", flavor.Description)
	}
	if flavor.Analysis.CriteriaResults["artificial_flavors"] {
		t.Error("artificial_flavors criterion should fail")
	}
}

func TestGetProductDemoCatalog(t *testing.T) {
	// The fake source would 404; demo barcodes are served without it.
	svc := newTestService(&fakeSource{}, true)

	product, err := svc.GetProduct(context.Background(), "747599409943")
	if err != nil {
		t.Fatalf("GetProduct() error = %v", err)
	}
	if product.Name != "Ghirardelli Milk Chocolate Caramel Squares" {
		t.Errorf("Name = %q", product.Name)
	}
	if product.Loading.Ingredients {
		t.Error("demo products arrive fully analyzed")
	}
	if len(product.Ingredients) == 0 {
		t.Error("demo product should carry curated ingredients")
	}

	// Demo catalog is ignored when the flag is off.
	off := newTestService(&fakeSource{}, false)
	fallback, err := off.GetProduct(context.Background(), "747599409943")
	if err != nil || fallback.Name != "Product Not Found" {
		t.Errorf("demo lookup with flag off = %v, %v, want not-found placeholder", fallback, err)
	}
}

func TestGetProductCacheHit(t *testing.T) {
	source := &fakeSource{products: map[string]*domain.RawProduct{
		"4011200296908": {Code: "4011200296908", ProductName: "Bananas", IngredientsText: "Bananas"},
	}}
	svc := newTestService(source, false)
	ctx := context.Background()

	if _, err := svc.GetProduct(ctx, "4011200296908"); err != nil {
		t.Fatalf("GetProduct() error = %v", err)
	}
	waitForAnalysis(t, svc, "4011200296908")

	// Later lookups serve the finished snapshot, not a new skeleton.
	again, err := svc.GetProduct(ctx, "4011200296908")
	if err != nil {
		t.Fatalf("GetProduct() error = %v", err)
	}
	if again.Loading.Ingredients {
		t.Error("cached lookup should return the completed snapshot")
	}
}

func TestSearchProducts(t *testing.T) {
	source := &fakeSource{results: []domain.RawProduct{
		{Code: "111111111", ProductName: "Oat Cereal", NutriscoreGrade: "a", NovaGroup: 1},
		{Code: "222222222", ProductName: "Candy Bar", NutriscoreGrade: "e", NovaGroup: 4},
		{ProductName: "No Barcode"},
	}}
	svc := newTestService(source, false)

	results, err := svc.SearchProducts(context.Background(), "cereal")
	if err != nil {
		t.Fatalf("SearchProducts() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2 (entries without a code are dropped)", len(results))
	}
	if results[0].HealthScore <= results[1].HealthScore {
		t.Errorf("signal scores: %d vs %d, grade-a product should score higher",
			results[0].HealthScore, results[1].HealthScore)
	}
}

func TestSearchProductsDemoShortcut(t *testing.T) {
	svc := newTestService(&fakeSource{err: errors.New("must not be called")}, true)

	results, err := svc.SearchProducts(context.Background(), "chocolate granola")
	if err != nil {
		t.Fatalf("SearchProducts() error = %v", err)
	}
	if len(results) == 0 {
		t.Fatal("demo search should return curated results")
	}
	if results[0].ID != "747599409943" {
		t.Errorf("unexpected demo result %q", results[0].ID)
	}
}

func TestClearAllCaches(t *testing.T) {
	source := &fakeSource{products: map[string]*domain.RawProduct{
		"5000159484695": {Code: "5000159484695", ProductName: "Bar", IngredientsText: "Sugar"},
	}}
	svc := newTestService(source, false)
	ctx := context.Background()

	if _, err := svc.GetProduct(ctx, "5000159484695"); err != nil {
		t.Fatalf("GetProduct() error = %v", err)
	}
	waitForAnalysis(t, svc, "5000159484695")
	svc.quota.Trip()

	svc.ClearAllCaches()

	if _, err := svc.GetCachedProduct(ctx, "5000159484695"); !errors.Is(err, domain.ErrCacheMiss) {
		t.Errorf("product cache should be empty after clear, got %v", err)
	}
	if svc.quota.Exceeded() {
		t.Error("quota flag should be re-armed after clear")
	}
}
