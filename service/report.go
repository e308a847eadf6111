package service

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/uplift-tools/uplift/domain"
)

// ReportFormatterImpl renders pipeline results as text, JSON, or Markdown
type ReportFormatterImpl struct{}

// NewReportFormatter creates a new report formatter
func NewReportFormatter() *ReportFormatterImpl {
	return &ReportFormatterImpl{}
}

// WriteJSON writes data as indented JSON to the writer
func WriteJSON(writer io.Writer, data interface{}) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// WriteResult renders the pipeline result for the request. When OutputDir is
// set, the JSON inventory and Markdown summary are also written there.
func (f *ReportFormatterImpl) WriteResult(result *domain.PipelineResult, req domain.InventoryRequest) error {
	writer := req.OutputWriter
	if writer == nil {
		writer = os.Stdout
	}
	if err := f.Write(result, req.OutputFormat, writer); err != nil {
		return err
	}
	if req.OutputDir == "" || result.Inventory == nil {
		return nil
	}
	return f.writeReportFiles(result, req.OutputDir)
}

// Write renders the result in one format to one writer
func (f *ReportFormatterImpl) Write(result *domain.PipelineResult, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatJSON:
		return WriteJSON(writer, result)
	case domain.OutputFormatMarkdown:
		_, err := io.WriteString(writer, f.FormatMarkdown(result.Inventory))
		return err
	case domain.OutputFormatText, "":
		return f.writeText(result, writer)
	default:
		return domain.NewValidationError(fmt.Sprintf("unsupported output format: %s", format), nil)
	}
}

func (f *ReportFormatterImpl) writeReportFiles(result *domain.PipelineResult, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return domain.NewFileSystemError(fmt.Sprintf("cannot create report directory %s", dir), err)
	}

	jsonPath := filepath.Join(dir, "inventory.json")
	jf, err := os.Create(jsonPath)
	if err != nil {
		return domain.NewFileSystemError(fmt.Sprintf("cannot write %s", jsonPath), err)
	}
	defer jf.Close()
	if err := WriteJSON(jf, result.Inventory); err != nil {
		return domain.NewGenerationError("rendering JSON inventory failed", err)
	}

	mdPath := filepath.Join(dir, "inventory.md")
	if err := os.WriteFile(mdPath, []byte(f.FormatMarkdown(result.Inventory)), 0o644); err != nil {
		return domain.NewFileSystemError(fmt.Sprintf("cannot write %s", mdPath), err)
	}
	return nil
}

// writeText renders the terminal summary
func (f *ReportFormatterImpl) writeText(result *domain.PipelineResult, writer io.Writer) error {
	inv := result.Inventory
	if inv == nil {
		fmt.Fprintf(writer, "Pipeline finished in phase %s\n", result.FinalPhase)
		if result.Discovery != nil {
			fmt.Fprintf(writer, "Components discovered: %d\n", len(result.Discovery.Components))
		}
		return nil
	}

	fmt.Fprintf(writer, "Component Inventory (%s)\n", inv.Root)
	fmt.Fprintf(writer, "Generated: %s  Version: %s\n\n", inv.GeneratedAt, inv.Version)
	fmt.Fprintf(writer, "Components: %d  Average score: %.1f  Blocked: %d\n\n",
		inv.Summary.TotalComponents, inv.Summary.AverageScore, inv.Summary.BlockedCount)

	for _, section := range inv.Sections {
		if len(section.Components) == 0 {
			continue
		}
		fmt.Fprintf(writer, "%s (%d)\n", section.Title, len(section.Components))
		for _, c := range section.Components {
			fmt.Fprintf(writer, "  %3d  %-30s effort=%s risk=%s\n",
				c.OverallScore, c.ComponentName, c.Effort, c.Risk)
			for _, b := range c.Blockers {
				fmt.Fprintf(writer, "         blocked: %s\n", b)
			}
		}
		fmt.Fprintln(writer)
	}

	if len(inv.Cycles) > 0 {
		fmt.Fprintf(writer, "Circular dependencies (%d):\n", len(inv.Cycles))
		for _, cycle := range inv.Cycles {
			fmt.Fprintf(writer, "  %s\n", cycle.Description)
		}
		fmt.Fprintln(writer)
	}

	if len(inv.Roadmap.Phases) > 0 {
		fmt.Fprintln(writer, "Migration roadmap:")
		for _, phase := range inv.Roadmap.Phases {
			fmt.Fprintf(writer, "  Phase %d (%s): %d components\n",
				phase.Number, phase.Name, len(phase.ComponentIDs))
		}
	}
	return nil
}

// FormatMarkdown renders the inventory as a Markdown report
func (f *ReportFormatterImpl) FormatMarkdown(inv *domain.ComponentInventory) string {
	if inv == nil {
		return ""
	}
	var b strings.Builder

	b.WriteString("# Component Migration Inventory\n\n")
	fmt.Fprintf(&b, "Generated %s by uplift %s for `%s`.\n\n", inv.GeneratedAt, inv.Version, inv.Root)

	b.WriteString("## Executive Summary\n\n")
	fmt.Fprintf(&b, "- Components assessed: **%d**\n", inv.Summary.TotalComponents)
	fmt.Fprintf(&b, "- Average readiness score: **%.1f**\n", inv.Summary.AverageScore)
	fmt.Fprintf(&b, "- Components with blockers: **%d**\n\n", inv.Summary.BlockedCount)

	b.WriteString("## Readiness Distribution\n\n")
	b.WriteString("| Level | Count |\n|---|---|\n")
	for _, section := range inv.Sections {
		fmt.Fprintf(&b, "| %s | %d |\n", section.Title, len(section.Components))
	}
	b.WriteString("\n")

	for _, section := range inv.Sections {
		if len(section.Components) == 0 {
			continue
		}
		fmt.Fprintf(&b, "## %s\n\n", section.Title)
		b.WriteString("| Component | Score | Effort | Risk | Blockers |\n|---|---|---|---|---|\n")
		for _, c := range section.Components {
			fmt.Fprintf(&b, "| %s | %d | %s | %s | %s |\n",
				c.ComponentName, c.OverallScore, c.Effort, c.Risk, strings.Join(c.Blockers, "; "))
		}
		b.WriteString("\n")
	}

	if len(inv.Roadmap.Phases) > 0 {
		b.WriteString("## Migration Roadmap\n\n")
		for _, phase := range inv.Roadmap.Phases {
			fmt.Fprintf(&b, "### Phase %d: %s\n\n", phase.Number, phase.Name)
			if phase.DependsOn > 0 {
				fmt.Fprintf(&b, "Depends on phase %d.\n\n", phase.DependsOn)
			}
			for _, id := range phase.ComponentIDs {
				fmt.Fprintf(&b, "- `%s`\n", id)
			}
			b.WriteString("\n")
		}
	}

	if len(inv.Externals) > 0 {
		b.WriteString("## External Packages\n\n")
		b.WriteString("| Package | Class | Usages | Disposition |\n|---|---|---|---|\n")
		for _, ext := range inv.Externals {
			fmt.Fprintf(&b, "| %s | %s | %d | %s |\n", ext.Name, ext.Class, ext.UsageCount, ext.Disposition)
		}
		b.WriteString("\n")
	}

	if len(inv.Warnings) > 0 {
		b.WriteString("## Warnings\n\n")
		for _, w := range inv.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}
	return b.String()
}
