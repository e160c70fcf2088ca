package domain

// RawProduct is the raw, possibly sparse record returned by the Open Food
// Facts API for one product. Ingredient text may appear in any of several
// fields; the assembly layer picks the first non-empty one.
type RawProduct struct {
	Code                         string          `json:"code"`
	ProductName                  string          `json:"product_name"`
	Brands                       string          `json:"brands"`
	ImageURL                     string          `json:"image_url"`
	ImageFrontURL                string          `json:"image_front_url"`
	IngredientsText              string          `json:"ingredients_text"`
	IngredientsTextEn            string          `json:"ingredients_text_en"`
	IngredientsTextFr            string          `json:"ingredients_text_fr"`
	IngredientsTextWithAllergens string          `json:"ingredients_text_with_allergens"`
	Ingredients                  []RawIngredient `json:"ingredients"`
	Allergens                    string          `json:"allergens"`
	AllergensTags                []string        `json:"allergens_tags"`
	NutriscoreGrade              string          `json:"nutriscore_grade"`
	NovaGroup                    int             `json:"nova_group"`
	ProductType                  string          `json:"product_type"`
}

// RawIngredient is one entry of the structured ingredient list, when the
// upstream record has one.
type RawIngredient struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}
