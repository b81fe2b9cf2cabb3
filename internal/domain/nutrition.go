package domain

import "time"

// NutritionFacts holds the per-100g nutrition values used by the scoring
// engine. All fields are grams except Calories (kcal). Missing upstream
// values are defaulted to 0 at the ingestion boundary, so a scored
// NutritionFacts never carries "unknown" fields.
type NutritionFacts struct {
	Calories      float64 `json:"calories"`
	Fat           float64 `json:"fat"`
	SaturatedFat  float64 `json:"saturatedFat"`
	Carbohydrates float64 `json:"carbohydrates"`
	Sugars        float64 `json:"sugars"`
	Fiber         float64 `json:"fiber"`
	Proteins      float64 `json:"proteins"`
	Salt          float64 `json:"salt"`
	Sodium        float64 `json:"sodium"`
}

// NovaUnknown marks an absent or unparseable NOVA processing-level
// classification. Valid groups are 1..4.
const NovaUnknown = 0

// Product represents a scanned grocery product with the scoring inputs
// extracted from Open Food Facts. Only the inputs are cached; the score
// is recomputed on every read so it always reflects the current
// coefficient set.
type Product struct {
	Barcode         string         `json:"barcode"`
	Name            string         `json:"name"`
	Brands          string         `json:"brands,omitempty"`
	ImageURL        string         `json:"imageUrl,omitempty"`
	Nutrition       NutritionFacts `json:"nutrition"`
	NovaGroup       int            `json:"novaGroup"` // 1..4, NovaUnknown when absent
	Additives       []string       `json:"additives"`
	NutriScoreGrade string         `json:"nutriScoreGrade,omitempty"` // upstream grade "a".."e"
	Source          string         `json:"source"`                    // "OpenFoodFacts" or "Cache"
	CachedAt        time.Time      `json:"cachedAt,omitempty"`
}

// ScoreFactor is a single named contribution to a health score.
type ScoreFactor struct {
	Name   string `json:"name"`
	Impact int    `json:"impact"` // >0 in Positives, <0 in Negatives
	Detail string `json:"detail"`
}

// HealthScore is the result of scoring a product: an integer score in
// [0,100], a letter grade derived from it, and the itemized breakdown.
type HealthScore struct {
	Score     int           `json:"score"`
	Grade     string        `json:"grade"` // "A".."E"
	Positives []ScoreFactor `json:"positives"`
	Negatives []ScoreFactor `json:"negatives"`
}

// ScoredProduct pairs a product with its freshly computed health score.
type ScoredProduct struct {
	Product     *Product     `json:"product"`
	HealthScore *HealthScore `json:"healthScore"`
}
