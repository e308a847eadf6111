// Package validate judges whether a transformation preserved the source
// component's observable surface.
package validate

import (
	"fmt"
	"math"
	"strings"

	"github.com/uplift-tools/uplift/domain"
)

// productionThreshold is the minimum overall score considered production ready
const productionThreshold = 70

// Overall score weights
const (
	weightLogic      = 0.45
	weightTypes      = 0.30
	weightDivergence = 0.25
)

// Validator compares a transformation against its source definition
type Validator struct{}

// NewValidator creates an equivalency validator
func NewValidator() *Validator {
	return &Validator{}
}

// Validate produces the equivalency report for one transformation.
// Equivalent holds only when no difference carries error severity.
func (v *Validator) Validate(def *domain.ComponentDefinition, result *domain.TransformationResult) *domain.EquivalencyReport {
	report := &domain.EquivalencyReport{}

	if result == nil || !result.Success {
		report.Differences = append(report.Differences, domain.EquivalencyDifference{
			Severity: domain.DifferenceError,
			Aspect:   "transformation",
			Detail:   "no generated output to compare",
		})
		return finalize(report)
	}

	v.checkProps(def, result, report)
	v.checkLogic(def, result, report)
	v.checkPatterns(def, result, report)
	v.checkExports(def, result, report)

	report.LogicPreservation = logicPreservation(def, result)
	report.TypeSafety = typeSafety(def, result)
	return finalize(report)
}

// checkProps verifies every declared prop survived into the generated types
func (v *Validator) checkProps(def *domain.ComponentDefinition, result *domain.TransformationResult, report *domain.EquivalencyReport) {
	for _, p := range def.Props {
		if !strings.Contains(result.TypeDeclarations, p.Name) {
			severity := domain.DifferenceWarning
			if p.Required {
				severity = domain.DifferenceError
			}
			report.Differences = append(report.Differences, domain.EquivalencyDifference{
				Severity: severity,
				Aspect:   "props",
				Detail:   fmt.Sprintf("prop %q missing from generated type declarations", p.Name),
			})
		} else if p.Type == "" {
			report.Differences = append(report.Differences, domain.EquivalencyDifference{
				Severity: domain.DifferenceInfo,
				Aspect:   "props",
				Detail:   fmt.Sprintf("prop %q had no declared type; generated as unknown", p.Name),
			})
		}
	}
}

// checkLogic verifies every business-logic block has a corresponding hook
func (v *Validator) checkLogic(def *domain.ComponentDefinition, result *domain.TransformationResult, report *domain.EquivalencyReport) {
	extracted := make(map[string]bool, len(result.Hooks))
	for _, h := range result.Hooks {
		extracted[h.Origin] = true
	}
	for _, logic := range def.BusinessLogic {
		if !extracted[logic.Name] {
			report.Differences = append(report.Differences, domain.EquivalencyDifference{
				Severity: domain.DifferenceError,
				Aspect:   "business-logic",
				Detail:   fmt.Sprintf("logic block %q was not extracted", logic.Name),
			})
		}
	}
}

// checkPatterns flags source patterns the generated output cannot reproduce
// mechanically
func (v *Validator) checkPatterns(def *domain.ComponentDefinition, result *domain.TransformationResult, report *domain.EquivalencyReport) {
	manual := map[string]string{
		domain.PatternRenderProp:         "render-prop surface requires manual porting",
		domain.PatternChildrenAsFunction: "children-as-function surface requires manual porting",
		domain.PatternContextProvider:    "context provider wiring requires manual porting",
	}
	for tag, detail := range manual {
		if def.HasPattern(tag) {
			report.Differences = append(report.Differences, domain.EquivalencyDifference{
				Severity: domain.DifferenceWarning,
				Aspect:   "patterns",
				Detail:   detail,
			})
		}
	}
	if def.HasPattern(domain.PatternStateful) || def.HasPattern(domain.PatternEffectful) {
		report.Differences = append(report.Differences, domain.EquivalencyDifference{
			Severity: domain.DifferenceWarning,
			Aspect:   "state",
			Detail:   "state and effect bodies are scaffolded, not ported",
		})
	}
}

func (v *Validator) checkExports(def *domain.ComponentDefinition, result *domain.TransformationResult, report *domain.EquivalencyReport) {
	for _, e := range result.Exports {
		if e == def.Name {
			return
		}
	}
	report.Differences = append(report.Differences, domain.EquivalencyDifference{
		Severity: domain.DifferenceError,
		Aspect:   "exports",
		Detail:   fmt.Sprintf("component %q is not exported by the generated module", def.Name),
	})
}

// logicPreservation is the fraction of business-logic blocks carried over
func logicPreservation(def *domain.ComponentDefinition, result *domain.TransformationResult) int {
	if len(def.BusinessLogic) == 0 {
		return 100
	}
	extracted := make(map[string]bool, len(result.Hooks))
	for _, h := range result.Hooks {
		extracted[h.Origin] = true
	}
	kept := 0
	for _, logic := range def.BusinessLogic {
		if extracted[logic.Name] {
			kept++
		}
	}
	return 100 * kept / len(def.BusinessLogic)
}

// typeSafety is the fraction of props with a concrete generated type
func typeSafety(def *domain.ComponentDefinition, result *domain.TransformationResult) int {
	if len(def.Props) == 0 {
		if result.TypeDeclarations == "" {
			return 100
		}
		return 90
	}
	typed := 0
	for _, p := range def.Props {
		if p.Type != "" && strings.Contains(result.TypeDeclarations, p.Name) {
			typed++
		}
	}
	return 100 * typed / len(def.Props)
}

// finalize computes the overall score and the derived flags
func finalize(report *domain.EquivalencyReport) *domain.EquivalencyReport {
	divergence := 100
	hasError := false
	for _, d := range report.Differences {
		switch d.Severity {
		case domain.DifferenceError:
			divergence -= 30
			hasError = true
		case domain.DifferenceWarning:
			divergence -= 10
		case domain.DifferenceInfo:
			divergence -= 2
		}
	}
	if divergence < 0 {
		divergence = 0
	}

	score := float64(report.LogicPreservation)*weightLogic +
		float64(report.TypeSafety)*weightTypes +
		float64(divergence)*weightDivergence
	report.OverallScore = int(math.Round(score))
	report.Equivalent = !hasError
	report.ProductionReady = report.OverallScore >= productionThreshold
	return report
}
