package usecase

// Per-nutrient threshold ladders. A nutrient earns one point for every
// threshold its per-100g value strictly exceeds; the ladder saturates at
// its length.
var (
	// Energy thresholds in kcal/100g, 80 kcal steps (max 10 points)
	energyThresholds = []float64{80, 160, 240, 320, 400, 480, 560, 640, 720, 800}

	// Saturated fat thresholds in g/100g, 1 g steps (max 10 points)
	saturatedFatThresholds = []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	// Fiber thresholds in g/100g (max 7 points)
	fiberThresholds = []float64{0.9, 1.9, 2.8, 3.7, 4.7, 5.6, 6.6}

	// Protein thresholds in g/100g (max 7 points)
	proteinThresholds = []float64{1.6, 3.2, 4.8, 6.4, 8.0, 9.6, 11.2}
)

// Linear-floor rules for sugars and salt.
const (
	sugarPointsMax = 15  // points = floor(grams), capped
	saltPointsMax  = 20  // points = floor(grams / saltStepGrams), capped
	saltStepGrams  = 0.2 // one salt point per 0.2 g/100g
)

// NovaModifiers maps a NOVA processing-level classification to a signed
// score adjustment. Unknown covers absent or unparseable classifications
// and is penalized alongside group 4's unknown-risk case.
type NovaModifiers struct {
	Group1  int // unprocessed
	Group2  int // processed culinary ingredient
	Group3  int // processed food
	Group4  int // ultra-processed
	Unknown int
}

// AdditiveModifiers maps the additive-count tier to a signed score
// adjustment. Tiers are 0, 1-2, 3-5 and 6+.
type AdditiveModifiers struct {
	None        int
	OneToTwo    int
	ThreeToFive int
	SixPlus     int
}

// GradeBreakpoints holds the inclusive lower bound of each letter grade.
// Scores below D map to E.
type GradeBreakpoints struct {
	A int
	B int
	C int
	D int
}

// CoefficientSet bundles every tunable of the scoring algorithm so a
// variant can be swapped without touching the aggregation logic.
type CoefficientSet struct {
	Name string

	// Scale maps the raw nutrient point range onto 0-100 before the
	// processing and additive modifiers are applied.
	Scale float64

	Nova      NovaModifiers
	Additives AdditiveModifiers

	// ExternalGradeBoost enables the flat bonus for an upstream
	// Nutri-Score grade ("a" +3, "b" +2, "c" +1).
	ExternalGradeBoost bool

	Breakpoints GradeBreakpoints
}

// StrictCoefficients is the revised weighting: stronger processing and
// additive penalties and no dependency on the upstream Nutri-Score grade,
// which itself derives from the same nutrients. This is the default.
func StrictCoefficients() CoefficientSet {
	return CoefficientSet{
		Name:  "strict",
		Scale: 1.5,
		Nova: NovaModifiers{
			Group1:  8,
			Group2:  3,
			Group3:  -3,
			Group4:  -15,
			Unknown: -5,
		},
		Additives: AdditiveModifiers{
			None:        3,
			OneToTwo:    -2,
			ThreeToFive: -6,
			SixPlus:     -12,
		},
		ExternalGradeBoost: false,
		Breakpoints:        GradeBreakpoints{A: 80, B: 65, C: 45, D: 22},
	}
}

// Moderate2023Coefficients is the older Nutri-Score-2023-adapted
// weighting: softer modifiers plus a flat boost for products the upstream
// source already graded a, b or c.
func Moderate2023Coefficients() CoefficientSet {
	return CoefficientSet{
		Name:  "moderate2023",
		Scale: 1.39,
		Nova: NovaModifiers{
			Group1:  5,
			Group2:  2,
			Group3:  0,
			Group4:  -5,
			Unknown: -2,
		},
		Additives: AdditiveModifiers{
			None:        2,
			OneToTwo:    0,
			ThreeToFive: -2,
			SixPlus:     -4,
		},
		ExternalGradeBoost: true,
		Breakpoints:        GradeBreakpoints{A: 80, B: 60, C: 40, D: 20},
	}
}

// CoefficientSetByName resolves a configured variant name. Unknown names
// fall back to the strict set.
func CoefficientSetByName(name string) CoefficientSet {
	switch name {
	case "moderate2023":
		return Moderate2023Coefficients()
	default:
		return StrictCoefficients()
	}
}
