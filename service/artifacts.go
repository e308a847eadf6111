package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/uplift-tools/uplift/domain"
)

// ArtifactWriter writes generated migration output to disk. In dry-run mode
// every write is skipped and only the would-be paths are reported.
type ArtifactWriter struct {
	outputDir string
	dryRun    bool
	skipTests bool
}

// NewArtifactWriter creates a writer rooted at the output directory
func NewArtifactWriter(outputDir string, dryRun, skipTests bool) *ArtifactWriter {
	return &ArtifactWriter{
		outputDir: outputDir,
		dryRun:    dryRun,
		skipTests: skipTests,
	}
}

// DryRun reports whether writes are suppressed
func (w *ArtifactWriter) DryRun() bool { return w.dryRun }

// WriteComponent persists one transformation result: the component source,
// its hooks, its type declarations, a provenance README, and optionally a
// test scaffold. Returns the component directory and the written paths.
func (w *ArtifactWriter) WriteComponent(result *domain.TransformationResult) (string, []string, error) {
	def := result.Component
	dir := filepath.Join(w.outputDir, def.Name)
	var written []string

	write := func(rel, content string) error {
		path := filepath.Join(dir, rel)
		written = append(written, path)
		if w.dryRun {
			return nil
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return domain.NewFileSystemError(fmt.Sprintf("cannot create %s", filepath.Dir(path)), err).
				WithComponent(def.ID)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return domain.NewFileSystemError(fmt.Sprintf("cannot write %s", path), err).
				WithComponent(def.ID)
		}
		return nil
	}

	var source strings.Builder
	for _, imp := range result.Imports {
		source.WriteString(imp)
		source.WriteString("\n")
	}
	source.WriteString("\n")
	if result.TypeDeclarations != "" {
		source.WriteString(result.TypeDeclarations)
		source.WriteString("\n")
	}
	source.WriteString(result.Body)

	if err := write(def.Name+".tsx", source.String()); err != nil {
		return dir, written, err
	}
	for _, hook := range result.Hooks {
		if err := write(filepath.Join("hooks", hook.Name+".ts"), hook.Body); err != nil {
			return dir, written, err
		}
	}
	if err := write("README.md", w.provenance(result)); err != nil {
		return dir, written, err
	}
	if !w.skipTests {
		if err := write(def.Name+".test.tsx", w.testScaffold(def)); err != nil {
			return dir, written, err
		}
	}
	return dir, written, nil
}

// provenance renders the per-component README recording where the output
// came from and what still needs manual work
func (w *ArtifactWriter) provenance(result *domain.TransformationResult) string {
	def := result.Component
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", def.Name)
	fmt.Fprintf(&b, "Migrated from `%s` (lines %d-%d).\n\n",
		def.FilePath, def.Location.StartLine, def.Location.EndLine)
	fmt.Fprintf(&b, "- Compatibility score: %d\n", result.CompatibilityScore)
	fmt.Fprintf(&b, "- Effort: %s\n", result.Effort)
	if len(result.Hooks) > 0 {
		b.WriteString("\nExtracted hooks:\n\n")
		for _, h := range result.Hooks {
			fmt.Fprintf(&b, "- `%s` (from `%s`)\n", h.Name, h.Origin)
		}
	}
	if len(result.Warnings) > 0 {
		b.WriteString("\nManual follow-ups:\n\n")
		for _, warning := range result.Warnings {
			fmt.Fprintf(&b, "- %s\n", warning)
		}
	}
	return b.String()
}

func (w *ArtifactWriter) testScaffold(def *domain.ComponentDefinition) string {
	var b strings.Builder
	fmt.Fprintf(&b, "import { render } from \"@testing-library/react\";\n")
	fmt.Fprintf(&b, "import { %s } from \"./%s\";\n\n", def.Name, def.Name)
	fmt.Fprintf(&b, "describe(%q, () => {\n", def.Name)
	fmt.Fprintf(&b, "  it(\"renders\", () => {\n")
	props := make([]string, 0, len(def.Props))
	for _, p := range def.Props {
		if p.Required {
			props = append(props, fmt.Sprintf("%s={undefined as never}", p.Name))
		}
	}
	if len(props) > 0 {
		fmt.Fprintf(&b, "    render(<%s %s />);\n", def.Name, strings.Join(props, " "))
	} else {
		fmt.Fprintf(&b, "    render(<%s />);\n", def.Name)
	}
	fmt.Fprintf(&b, "  });\n")
	fmt.Fprintf(&b, "});\n")
	return b.String()
}
