package inventory

import (
	"sort"
	"time"

	"github.com/uplift-tools/uplift/domain"
)

// Builder assembles the complete inventory report from scored components
type Builder struct {
	scorer           *Scorer
	maxUnitsPerPhase int
	version          string
}

// NewBuilder creates an inventory builder
func NewBuilder(threshold, maxUnitsPerPhase int, version string) *Builder {
	if maxUnitsPerPhase <= 0 {
		maxUnitsPerPhase = 5
	}
	return &Builder{
		scorer:           NewScorer(threshold),
		maxUnitsPerPhase: maxUnitsPerPhase,
		version:          version,
	}
}

// Build scores every component and assembles the inventory. Sections
// partition the components by level; the roadmap buckets them by descending
// score.
func (b *Builder) Build(root string, components []*domain.ComponentDefinition, parses map[string]*domain.ParseResult, analysis *domain.DependencyAnalysisResult) *domain.ComponentInventory {
	assessments := make([]*domain.ComponentReadiness, 0, len(components))
	for _, def := range components {
		var deps []*domain.DependencyDetail
		if analysis != nil {
			deps = analysis.DependenciesOf(def.ID)
		}
		assessments = append(assessments, b.scorer.Score(def, parses[def.ID], deps))
	}

	inv := &domain.ComponentInventory{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Version:     b.version,
		Root:        root,
		Summary:     summarize(assessments),
		Sections:    buildSections(assessments),
		Roadmap:     b.buildRoadmap(assessments),
	}
	if analysis != nil {
		inv.Externals = analysis.Externals
		if analysis.Graph != nil {
			inv.Cycles = analysis.Graph.Cycles
		}
		inv.Warnings = analysis.Warnings
	}
	return inv
}

func summarize(assessments []*domain.ComponentReadiness) domain.InventorySummary {
	summary := domain.InventorySummary{
		TotalComponents: len(assessments),
		Distribution:    make(map[string]int),
	}
	total := 0
	for _, a := range assessments {
		total += a.OverallScore
		summary.Distribution[string(a.Level)]++
		if len(a.Blockers) > 0 {
			summary.BlockedCount++
		}
	}
	if len(assessments) > 0 {
		summary.AverageScore = float64(total) / float64(len(assessments))
	}
	return summary
}

var sectionOrder = []struct {
	level domain.ReadinessLevel
	title string
}{
	{domain.ReadinessReady, "Ready for Migration"},
	{domain.ReadinessNeedsWork, "Needs Work"},
	{domain.ReadinessComplex, "Complex"},
	{domain.ReadinessHighRisk, "High Risk"},
}

// buildSections partitions assessments by level. Every assessment lands in
// exactly one section; empty sections are kept so reports have a stable shape.
func buildSections(assessments []*domain.ComponentReadiness) []domain.InventorySection {
	byLevel := make(map[domain.ReadinessLevel][]*domain.ComponentReadiness)
	for _, a := range assessments {
		byLevel[a.Level] = append(byLevel[a.Level], a)
	}
	sections := make([]domain.InventorySection, 0, len(sectionOrder))
	for _, s := range sectionOrder {
		members := byLevel[s.level]
		sort.Slice(members, func(i, j int) bool {
			if members[i].OverallScore != members[j].OverallScore {
				return members[i].OverallScore > members[j].OverallScore
			}
			return members[i].ComponentID < members[j].ComponentID
		})
		sections = append(sections, domain.InventorySection{
			Level:      s.level,
			Title:      s.title,
			Components: members,
		})
	}
	return sections
}

var phaseNames = []string{"Foundation", "Core", "Advanced"}

// buildRoadmap orders all assessments by descending score and fills bounded
// phases. Each phase depends on the one before it. Overflow past the named
// phases extends the last name.
func (b *Builder) buildRoadmap(assessments []*domain.ComponentReadiness) domain.MigrationRoadmap {
	ordered := append([]*domain.ComponentReadiness{}, assessments...)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].OverallScore != ordered[j].OverallScore {
			return ordered[i].OverallScore > ordered[j].OverallScore
		}
		return ordered[i].ComponentID < ordered[j].ComponentID
	})

	var roadmap domain.MigrationRoadmap
	for i := 0; i < len(ordered); i += b.maxUnitsPerPhase {
		end := i + b.maxUnitsPerPhase
		if end > len(ordered) {
			end = len(ordered)
		}
		number := len(roadmap.Phases) + 1
		name := phaseNames[len(phaseNames)-1]
		if number <= len(phaseNames) {
			name = phaseNames[number-1]
		}
		ids := make([]string, 0, end-i)
		for _, a := range ordered[i:end] {
			ids = append(ids, a.ComponentID)
		}
		roadmap.Phases = append(roadmap.Phases, domain.RoadmapPhase{
			Number:       number,
			Name:         name,
			ComponentIDs: ids,
			DependsOn:    number - 1,
		})
	}
	return roadmap
}
