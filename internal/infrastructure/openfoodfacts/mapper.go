package openfoodfacts

import (
	"math"
	"strconv"
	"strings"

	"github.com/shelfscore/backend/internal/domain"
)

// saltToSodiumRatio converts between salt and sodium grams when only one
// of the two is reported.
const saltToSodiumRatio = 2.5

// rawProduct is the subset of an Open Food Facts product record the
// scoring pipeline consumes. Nutriments is a loosely typed map because
// OFF mixes numbers and numeric strings in it.
type rawProduct struct {
	ProductName     string         `json:"product_name"`
	ProductNameEn   string         `json:"product_name_en"`
	GenericName     string         `json:"generic_name"`
	Brands          string         `json:"brands"`
	ImageFrontURL   string         `json:"image_front_url"`
	Nutriments      map[string]any `json:"nutriments"`
	NovaGroup       any            `json:"nova_group"` // number or string
	AdditivesTags   []string       `json:"additives_tags"`
	NutriscoreGrade string         `json:"nutriscore_grade"`
}

// name returns the best available product name using the fallback order
// product_name → product_name_en → generic_name.
func (p *rawProduct) name() string {
	if p.ProductName != "" {
		return p.ProductName
	}
	if p.ProductNameEn != "" {
		return p.ProductNameEn
	}
	return p.GenericName
}

// MapToProduct converts a raw Open Food Facts record into the domain
// model. This is the defaulting boundary: every nutrition field the
// source omits is 0 here, so the scoring engine never sees missing
// values.
func MapToProduct(barcode string, raw *rawProduct) *domain.Product {
	return &domain.Product{
		Barcode:         barcode,
		Name:            raw.name(),
		Brands:          raw.Brands,
		ImageURL:        raw.ImageFrontURL,
		Nutrition:       extractNutrition(raw.Nutriments),
		NovaGroup:       parseNovaGroup(raw.NovaGroup),
		Additives:       normalizeAdditives(raw.AdditivesTags),
		NutriScoreGrade: strings.ToLower(raw.NutriscoreGrade),
		Source:          "OpenFoodFacts",
	}
}

// extractNutrition pulls the per-100g values the engine scores. Energy
// falls back from kcal to kJ, salt and sodium are derived from each other
// when only one is present, and anything missing or negative becomes 0.
func extractNutrition(nutriments map[string]any) domain.NutritionFacts {
	facts := domain.NutritionFacts{
		Fat:           nutrimentValue(nutriments, "fat_100g"),
		SaturatedFat:  nutrimentValue(nutriments, "saturated-fat_100g"),
		Carbohydrates: nutrimentValue(nutriments, "carbohydrates_100g"),
		Sugars:        nutrimentValue(nutriments, "sugars_100g"),
		Fiber:         nutrimentValue(nutriments, "fiber_100g"),
		Proteins:      nutrimentValue(nutriments, "proteins_100g"),
	}

	if v, ok := extractFloat(nutriments, "energy-kcal_100g"); ok {
		facts.Calories = clampNonNegative(v)
	} else if v, ok := extractFloat(nutriments, "energy-kj_100g"); ok {
		facts.Calories = clampNonNegative(v / 4.184)
	}

	salt, hasSalt := extractFloat(nutriments, "salt_100g")
	sodium, hasSodium := extractFloat(nutriments, "sodium_100g")
	switch {
	case hasSalt && hasSodium:
		facts.Salt = clampNonNegative(salt)
		facts.Sodium = clampNonNegative(sodium)
	case hasSalt:
		facts.Salt = clampNonNegative(salt)
		facts.Sodium = facts.Salt / saltToSodiumRatio
	case hasSodium:
		facts.Sodium = clampNonNegative(sodium)
		facts.Salt = facts.Sodium * saltToSodiumRatio
	}

	return facts
}

// nutrimentValue extracts a single nutriment, defaulting to 0 when the
// key is absent, unparseable or negative.
func nutrimentValue(nutriments map[string]any, key string) float64 {
	v, ok := extractFloat(nutriments, key)
	if !ok {
		return 0
	}
	return clampNonNegative(v)
}

// extractFloat coerces a nutriments map value to float64.
func extractFloat(m map[string]any, key string) (float64, bool) {
	v, ok := m[key]
	if !ok {
		return 0, false
	}
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, false
		}
		return x, true
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(x), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

func clampNonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// parseNovaGroup coerces the nova_group field (number or string) into
// 1..4, or NovaUnknown when absent or out of range.
func parseNovaGroup(v any) int {
	group := 0
	switch x := v.(type) {
	case float64:
		group = int(x)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(x)); err == nil {
			group = n
		}
	}
	if group < 1 || group > 4 {
		return domain.NovaUnknown
	}
	return group
}

// normalizeAdditives humanizes raw additive tags like "en:e330" or
// "en:modified-starch" into "E330" / "Modified starch". The scoring
// engine only counts them, but the breakdown shows them to users.
func normalizeAdditives(tags []string) []string {
	additives := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		// Strip the locale prefix ("en:", "fr:", ...)
		if idx := strings.Index(tag, ":"); idx >= 0 {
			tag = tag[idx+1:]
		}
		if tag == "" {
			continue
		}
		additives = append(additives, humanizeAdditive(tag))
	}
	return additives
}

func humanizeAdditive(tag string) string {
	// E-number codes: "e330" -> "E330", "e322i" -> "E322i"
	if len(tag) >= 2 && (tag[0] == 'e' || tag[0] == 'E') && tag[1] >= '0' && tag[1] <= '9' {
		return "E" + tag[1:]
	}
	words := strings.ReplaceAll(tag, "-", " ")
	return strings.ToUpper(words[:1]) + words[1:]
}
