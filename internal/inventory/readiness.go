// Package inventory scores migration readiness and assembles the component
// inventory report.
package inventory

import (
	"fmt"

	"github.com/uplift-tools/uplift/domain"
)

// structuralBlockerLimit is the structural complexity above which a unit is
// blocked outright
const structuralBlockerLimit = 15

// incompatiblePatterns are usage patterns with no direct equivalent on the
// migration target
var incompatiblePatterns = []string{
	domain.PatternRenderProp,
	domain.PatternChildrenAsFunction,
	domain.PatternHigherOrderUsage,
	domain.PatternContextProvider,
}

// Scorer computes per-component readiness
type Scorer struct {
	threshold int
}

// NewScorer creates a scorer with the given ready threshold
func NewScorer(threshold int) *Scorer {
	return &Scorer{threshold: threshold}
}

// Score assesses one component from its definition, parse result, and
// analyzed dependencies
func (s *Scorer) Score(def *domain.ComponentDefinition, parse *domain.ParseResult, deps []*domain.DependencyDetail) *domain.ComponentReadiness {
	criteria := buildCriteria(def, parse, deps)
	score := criteria.WeightedScore()

	r := &domain.ComponentReadiness{
		ComponentID:   def.ID,
		ComponentName: def.Name,
		Criteria:      criteria,
		OverallScore:  score,
		Level:         domain.ClassifyReadiness(score, s.threshold),
		Blockers:      findBlockers(def, parse),
		Prerequisites: findPrerequisites(def, deps),
	}
	r.Effort, r.Risk = estimateTiers(def, parse, deps, r.Blockers)
	return r
}

func buildCriteria(def *domain.ComponentDefinition, parse *domain.ParseResult, deps []*domain.DependencyDetail) domain.ReadinessCriteria {
	return domain.ReadinessCriteria{
		CodeQuality:            scoreCodeQuality(def, parse),
		Documentation:          scoreDocumentation(def, parse),
		TestCoverage:           def.Metadata.TestCoverage,
		DependencyComplexity:   scoreDependencies(deps),
		PropClarity:            scorePropClarity(def),
		LogicSeparation:        scoreLogicSeparation(def),
		PatternCompliance:      scorePatternCompliance(def),
		MigrationCompatibility: CompatibilityScore(def, deps),
	}
}

func scoreCodeQuality(def *domain.ComponentDefinition, parse *domain.ParseResult) int {
	if parse != nil && !parse.Success {
		return 0
	}
	switch def.Complexity {
	case domain.ComplexitySimple:
		return 90
	case domain.ComplexityModerate:
		return 70
	case domain.ComplexityComplex:
		return 45
	default:
		return 20
	}
}

func scoreDocumentation(def *domain.ComponentDefinition, parse *domain.ParseResult) int {
	if def.Metadata.HasDocumentation {
		return 100
	}
	if parse != nil && parse.Documentation != "" {
		return 80
	}
	return 20
}

func scoreDependencies(deps []*domain.DependencyDetail) int {
	score := 100
	for _, d := range deps {
		switch d.Risk {
		case domain.ExtractionRiskCritical:
			score -= 30
		case domain.ExtractionRiskHigh:
			score -= 15
		case domain.ExtractionRiskMedium:
			score -= 8
		default:
			score -= 3
		}
	}
	return clamp(score)
}

func scorePropClarity(def *domain.ComponentDefinition) int {
	if len(def.Props) == 0 {
		if def.Kind == domain.KindHook {
			return 80
		}
		return 40
	}
	typed := 0
	for _, p := range def.Props {
		if p.Type != "" {
			typed++
		}
	}
	return 50 + 50*typed/len(def.Props)
}

func scoreLogicSeparation(def *domain.ComponentDefinition) int {
	score := 100
	for _, l := range def.BusinessLogic {
		score -= 10 + l.Complexity*2
	}
	return clamp(score)
}

func scorePatternCompliance(def *domain.ComponentDefinition) int {
	score := 100
	for _, p := range incompatiblePatterns {
		if def.HasPattern(p) {
			score -= 20
		}
	}
	return clamp(score)
}

// CompatibilityScore rates how directly a unit maps onto the migration
// target: complexity and incompatible patterns and external surface each
// subtract from a perfect score.
func CompatibilityScore(def *domain.ComponentDefinition, deps []*domain.DependencyDetail) int {
	score := 100
	switch def.Complexity {
	case domain.ComplexityCritical:
		score -= 30
	case domain.ComplexityComplex:
		score -= 20
	case domain.ComplexityModerate:
		score -= 10
	}
	for _, p := range incompatiblePatterns {
		if def.HasPattern(p) {
			score -= 15
		}
	}
	for _, d := range deps {
		if d.TargetKind == domain.DependencyExternal {
			score -= 5
		}
	}
	return clamp(score)
}

// findBlockers lists conditions that prevent migrating the unit as-is
func findBlockers(def *domain.ComponentDefinition, parse *domain.ParseResult) []string {
	var blockers []string
	if parse != nil && !parse.Success {
		blockers = append(blockers, fmt.Sprintf("source failed to parse: %s", parse.Error))
	}
	if def.Complexity == domain.ComplexityCritical {
		blockers = append(blockers, "critical complexity")
	}
	if parse != nil && parse.Success && parse.StructuralComplexity > structuralBlockerLimit {
		blockers = append(blockers, fmt.Sprintf("structural complexity %d exceeds limit %d",
			parse.StructuralComplexity, structuralBlockerLimit))
	}
	if len(def.Props) == 0 && def.HasPattern(domain.PatternPresentational) {
		blockers = append(blockers, "presentational component declares no props")
	}
	if !def.Metadata.HasDocumentation && (parse == nil || parse.Documentation == "") {
		blockers = append(blockers, "missing documentation")
	}
	return blockers
}

// findPrerequisites suggests work items that raise the score before migration
func findPrerequisites(def *domain.ComponentDefinition, deps []*domain.DependencyDetail) []string {
	var prereqs []string
	if def.Metadata.TestCoverage == 0 {
		prereqs = append(prereqs, "add test coverage before migrating")
	}
	for _, d := range deps {
		if d.Level == domain.LevelCircular {
			prereqs = append(prereqs, fmt.Sprintf("break circular dependency on %s", d.TargetID))
		}
	}
	if len(def.BusinessLogic) > 2 {
		prereqs = append(prereqs, "extract embedded business logic into hooks")
	}
	if def.Kind == domain.KindClass {
		prereqs = append(prereqs, "convert class component to a function component")
	}
	return prereqs
}

// estimateTiers accumulates effort and risk points and maps them onto the
// ordinal tiers with fixed cut points
func estimateTiers(def *domain.ComponentDefinition, parse *domain.ParseResult, deps []*domain.DependencyDetail, blockers []string) (domain.EffortTier, domain.RiskTier) {
	effort := 0
	risk := 0

	switch def.Complexity {
	case domain.ComplexityModerate:
		effort += 2
		risk++
	case domain.ComplexityComplex:
		effort += 4
		risk += 3
	case domain.ComplexityCritical:
		effort += 7
		risk += 6
	}

	effort += len(def.BusinessLogic)
	if def.Kind == domain.KindClass {
		effort += 2
	}
	for _, d := range deps {
		switch d.Risk {
		case domain.ExtractionRiskCritical:
			risk += 4
		case domain.ExtractionRiskHigh:
			risk += 2
		case domain.ExtractionRiskMedium:
			risk++
		}
	}
	if parse != nil && !parse.Success {
		risk += 6
	}
	risk += len(blockers)

	return effortTier(effort), riskTier(risk)
}

func effortTier(points int) domain.EffortTier {
	switch {
	case points <= 2:
		return domain.EffortLow
	case points <= 5:
		return domain.EffortMedium
	case points <= 8:
		return domain.EffortHigh
	default:
		return domain.EffortVeryHigh
	}
}

func riskTier(points int) domain.RiskTier {
	switch {
	case points <= 2:
		return domain.RiskLow
	case points <= 5:
		return domain.RiskMedium
	case points <= 8:
		return domain.RiskHigh
	default:
		return domain.RiskCritical
	}
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
