package usecase

import (
	"fmt"
	"math"
	"strings"

	"github.com/shelfscore/backend/internal/domain"
)

// ScoringService computes deterministic health scores from per-100g
// nutrition facts, a NOVA processing-level classification, an additive
// list and (in the moderate2023 variant) an upstream Nutri-Score grade.
// It holds no mutable state and is safe for concurrent use.
type ScoringService struct {
	coeffs CoefficientSet
}

// NewScoringService creates a scoring service using the given coefficient
// set.
func NewScoringService(coeffs CoefficientSet) *ScoringService {
	return &ScoringService{coeffs: coeffs}
}

// Coefficients returns the coefficient set the service scores with.
func (s *ScoringService) Coefficients() CoefficientSet {
	return s.coeffs
}

// Score computes the health score for a product. novaGroup is 1..4 or
// domain.NovaUnknown; externalGrade is the upstream grade "a".."e" or
// empty. Negative nutrition values are clamped to 0 rather than rejected:
// bad upstream data scores as missing data, it never fails.
func (s *ScoringService) Score(facts domain.NutritionFacts, novaGroup int, additives []string, externalGrade string) *domain.HealthScore {
	var positives, negatives []domain.ScoreFactor

	calories := nonNegative(facts.Calories)
	sugars := nonNegative(facts.Sugars)
	saturatedFat := nonNegative(facts.SaturatedFat)
	salt := nonNegative(facts.Salt)
	fiber := nonNegative(facts.Fiber)
	proteins := nonNegative(facts.Proteins)

	// Negative contributors
	energyPoints := countExceeded(calories, energyThresholds)
	if energyPoints > 0 {
		negatives = append(negatives, domain.ScoreFactor{
			Name:   "Calories",
			Impact: -energyPoints,
			Detail: fmt.Sprintf("%.0f kcal/100g", calories),
		})
	}

	sugarPoints := linearFloorPoints(sugars, 1, sugarPointsMax)
	if sugarPoints > 0 {
		negatives = append(negatives, domain.ScoreFactor{
			Name:   "Sugars",
			Impact: -sugarPoints,
			Detail: fmt.Sprintf("%.1fg/100g", sugars),
		})
	}

	saturatedFatPoints := countExceeded(saturatedFat, saturatedFatThresholds)
	if saturatedFatPoints > 0 {
		negatives = append(negatives, domain.ScoreFactor{
			Name:   "Saturated Fat",
			Impact: -saturatedFatPoints,
			Detail: fmt.Sprintf("%.1fg/100g", saturatedFat),
		})
	}

	saltPoints := linearFloorPoints(salt, saltStepGrams, saltPointsMax)
	if saltPoints > 0 {
		negatives = append(negatives, domain.ScoreFactor{
			Name:   "Salt",
			Impact: -saltPoints,
			Detail: fmt.Sprintf("%.2fg/100g", salt),
		})
	}

	// Positive contributors
	fiberPoints := countExceeded(fiber, fiberThresholds)
	if fiberPoints > 0 {
		positives = append(positives, domain.ScoreFactor{
			Name:   "Fiber",
			Impact: fiberPoints,
			Detail: fmt.Sprintf("%.1fg/100g", fiber),
		})
	}

	proteinPoints := countExceeded(proteins, proteinThresholds)
	if proteinPoints > 0 {
		positives = append(positives, domain.ScoreFactor{
			Name:   "Protein",
			Impact: proteinPoints,
			Detail: fmt.Sprintf("%.1fg/100g", proteins),
		})
	}

	// Modifiers applied after scaling
	novaModifier := s.novaModifier(novaGroup)
	if novaModifier > 0 {
		positives = append(positives, domain.ScoreFactor{
			Name:   "Minimal Processing",
			Impact: novaModifier,
			Detail: fmt.Sprintf("NOVA group %d", novaGroup),
		})
	} else if novaModifier < 0 {
		negatives = append(negatives, domain.ScoreFactor{
			Name:   novaFactorName(novaGroup),
			Impact: novaModifier,
			Detail: novaFactorDetail(novaGroup),
		})
	}

	additiveModifier := s.additiveModifier(len(additives))
	if additiveModifier > 0 {
		positives = append(positives, domain.ScoreFactor{
			Name:   "No Additives",
			Impact: additiveModifier,
			Detail: "0 additives",
		})
	} else if additiveModifier < 0 {
		negatives = append(negatives, domain.ScoreFactor{
			Name:   "Additives",
			Impact: additiveModifier,
			Detail: fmt.Sprintf("%d additive(s)", len(additives)),
		})
	}

	gradeBoost := 0
	if s.coeffs.ExternalGradeBoost {
		gradeBoost = externalGradeBoost(externalGrade)
		if gradeBoost > 0 {
			positives = append(positives, domain.ScoreFactor{
				Name:   "Nutri-Score Grade",
				Impact: gradeBoost,
				Detail: fmt.Sprintf("Grade %s", strings.ToUpper(externalGrade)),
			})
		}
	}

	totalNegative := energyPoints + sugarPoints + saturatedFatPoints + saltPoints
	totalPositive := fiberPoints + proteinPoints

	rawScore := float64(totalNegative - totalPositive)
	baseScore := 100 - rawScore*s.coeffs.Scale
	adjustedScore := baseScore + float64(novaModifier+additiveModifier+gradeBoost)

	finalScore := clampScore(int(math.Round(adjustedScore)))

	return &domain.HealthScore{
		Score:     finalScore,
		Grade:     s.gradeFromScore(finalScore),
		Positives: positives,
		Negatives: negatives,
	}
}

// countExceeded counts how many ascending thresholds the value strictly
// exceeds. The ladder is monotone, so the scan stops at the first
// threshold not exceeded; the count saturates at len(thresholds).
func countExceeded(value float64, thresholds []float64) int {
	points := 0
	for _, threshold := range thresholds {
		if value <= threshold {
			break
		}
		points++
	}
	return points
}

// linearFloorPoints computes floor(value/step) capped at max.
func linearFloorPoints(value, step float64, max int) int {
	points := int(math.Floor(value / step))
	if points > max {
		return max
	}
	if points < 0 {
		return 0
	}
	return points
}

func (s *ScoringService) novaModifier(novaGroup int) int {
	switch novaGroup {
	case 1:
		return s.coeffs.Nova.Group1
	case 2:
		return s.coeffs.Nova.Group2
	case 3:
		return s.coeffs.Nova.Group3
	case 4:
		return s.coeffs.Nova.Group4
	default:
		return s.coeffs.Nova.Unknown
	}
}

func novaFactorName(novaGroup int) string {
	switch novaGroup {
	case 3:
		return "Processed Food"
	case 4:
		return "Ultra-Processed"
	default:
		return "Unknown Processing"
	}
}

func novaFactorDetail(novaGroup int) string {
	if novaGroup >= 1 && novaGroup <= 4 {
		return fmt.Sprintf("NOVA group %d", novaGroup)
	}
	return "NOVA group unknown"
}

func (s *ScoringService) additiveModifier(count int) int {
	switch {
	case count == 0:
		return s.coeffs.Additives.None
	case count <= 2:
		return s.coeffs.Additives.OneToTwo
	case count <= 5:
		return s.coeffs.Additives.ThreeToFive
	default:
		return s.coeffs.Additives.SixPlus
	}
}

// externalGradeBoost awards a flat bonus for upstream grades a, b and c.
func externalGradeBoost(grade string) int {
	switch strings.ToLower(strings.TrimSpace(grade)) {
	case "a":
		return 3
	case "b":
		return 2
	case "c":
		return 1
	default:
		return 0
	}
}

func (s *ScoringService) gradeFromScore(score int) string {
	bp := s.coeffs.Breakpoints
	switch {
	case score >= bp.A:
		return "A"
	case score >= bp.B:
		return "B"
	case score >= bp.C:
		return "C"
	case score >= bp.D:
		return "D"
	default:
		return "E"
	}
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func nonNegative(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}
