package domain

// NutrientProfile holds the nutrient values the analyzer evaluates,
// normalized to per-100g amounts as reported by USDA FoodData Central.
type NutrientProfile struct {
	Calories     float64            `json:"calories,omitempty"`
	Protein      float64            `json:"protein,omitempty"`
	Fat          float64            `json:"fat,omitempty"`
	SaturatedFat float64            `json:"saturatedFat,omitempty"`
	TransFat     float64            `json:"transFat,omitempty"`
	Carbs        float64            `json:"carbs,omitempty"`
	Sugar        float64            `json:"sugar,omitempty"`
	Fiber        float64            `json:"fiber,omitempty"`
	Sodium       float64            `json:"sodium,omitempty"`
	Vitamins     map[string]float64 `json:"vitamins,omitempty"`
	Minerals     map[string]float64 `json:"minerals,omitempty"`
	Additives    []string           `json:"additives,omitempty"`
}

// USDAFood represents a food item from the USDA FoodData Central API.
type USDAFood struct {
	FdcID       int            `json:"fdcId"`
	Description string         `json:"description"`
	DataType    string         `json:"dataType"`
	Nutrients   []USDANutrient `json:"foodNutrients"`
}

// USDANutrient represents a single nutrient from USDA data. Detail
// responses nest the id under "nutrient" and the value under "amount";
// search responses flatten both. Both shapes are captured here.
type USDANutrient struct {
	NutrientID int     `json:"nutrientId,omitempty"`
	Name       string  `json:"nutrientName,omitempty"`
	UnitName   string  `json:"unitName,omitempty"`
	Value      float64 `json:"value,omitempty"`
	Amount     float64 `json:"amount,omitempty"`
	Nutrient   *struct {
		ID     int    `json:"id"`
		Number string `json:"number"`
		Name   string `json:"name"`
	} `json:"nutrient,omitempty"`
}

// ID returns the nutrient number regardless of response shape.
func (n USDANutrient) ID() int {
	if n.NutrientID != 0 {
		return n.NutrientID
	}
	if n.Nutrient != nil {
		return n.Nutrient.ID
	}
	return 0
}

// Quantity returns the nutrient value regardless of response shape.
func (n USDANutrient) Quantity() float64 {
	if n.Value != 0 {
		return n.Value
	}
	return n.Amount
}

// USDASearchResponse represents the response from the USDA search API.
type USDASearchResponse struct {
	Foods       []USDAFood `json:"foods"`
	TotalHits   int        `json:"totalHits"`
	CurrentPage int        `json:"currentPage"`
	TotalPages  int        `json:"totalPages"`
}
