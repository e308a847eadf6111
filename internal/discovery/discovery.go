// Package discovery enumerates UI component source units under a root
// directory and extracts a structural definition for each.
package discovery

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/uplift-tools/uplift/domain"
	"github.com/uplift-tools/uplift/internal/parser"
)

// componentExtensions are the file types scanned for components
var componentExtensions = map[string]bool{
	".js":  true,
	".jsx": true,
	".ts":  true,
	".tsx": true,
}

// Engine discovers components under a root directory
type Engine struct {
	req domain.DiscoveryRequest
}

// NewEngine creates a discovery engine for one request
func NewEngine(req domain.DiscoveryRequest) *Engine {
	return &Engine{req: req}
}

// Discover walks the root and extracts a ComponentDefinition per unit.
// An unreadable root is fatal; per-file failures are recorded and the file
// is excluded from downstream phases.
func (e *Engine) Discover(ctx context.Context) (*domain.DiscoveryResult, error) {
	info, err := os.Stat(e.req.Root)
	if err != nil {
		return nil, domain.NewFileSystemError(fmt.Sprintf("cannot read root %s", e.req.Root), err).
			WithOperation("discover")
	}
	if !info.IsDir() {
		return nil, domain.NewFileSystemError(fmt.Sprintf("root %s is not a directory", e.req.Root), nil).
			WithOperation("discover")
	}

	matcher := e.buildIgnoreMatcher()
	result := &domain.DiscoveryResult{
		Sources: make(map[string][]byte),
	}

	var files []string
	walkErr := filepath.WalkDir(e.req.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", path, err))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		rel, relErr := filepath.Rel(e.req.Root, path)
		if relErr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel != "." && (matcher.MatchesPath(rel+"/") || isAlwaysSkippedDir(d.Name())) {
				return filepath.SkipDir
			}
			return nil
		}
		if !componentExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		if isTestFile(rel) || matcher.MatchesPath(rel) {
			return nil
		}
		if !e.included(rel) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if walkErr != nil {
		return nil, domain.NewFileSystemError("walking root failed", walkErr).WithOperation("discover")
	}

	sort.Strings(files)

	for _, path := range files {
		select {
		case <-ctx.Done():
			return nil, domain.NewRuntimeError("discovery cancelled", ctx.Err())
		default:
		}
		e.discoverFile(ctx, path, result)
	}

	return result, nil
}

// discoverFile reads and extracts components from one source file
func (e *Engine) discoverFile(ctx context.Context, path string, result *domain.DiscoveryResult) {
	rel, err := filepath.Rel(e.req.Root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)

	source, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("%s: read failed: %v", rel, err))
		return
	}
	if len(strings.TrimSpace(string(source))) == 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("%s: empty file", rel))
		return
	}

	ast, err := parser.ParseForFile(ctx, rel, source)
	if err != nil {
		// The file still enters the pipeline so the readiness engine can
		// flag the parse failure; extraction falls back to a name guess.
		def := fallbackDefinition(rel, source)
		if def != nil {
			result.Components = append(result.Components, def)
			result.Sources[def.ID] = source
		}
		result.Warnings = append(result.Warnings, fmt.Sprintf("%s: parse failed: %v", rel, err))
		return
	}

	defs := extractComponents(rel, source, ast)
	if len(defs) == 0 {
		if !e.req.SkipUnclassified {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: no component found", rel))
		}
		return
	}
	for _, def := range defs {
		def.Metadata.TestCoverage = estimateTestCoverage(e.req.Root, rel)
		result.Components = append(result.Components, def)
		result.Sources[def.ID] = source
	}
}

// buildIgnoreMatcher combines configured exclude patterns with the root's
// .gitignore when enabled
func (e *Engine) buildIgnoreMatcher() *ignore.GitIgnore {
	lines := append([]string{}, e.req.ExcludePatterns...)
	if e.req.UseGitIgnore {
		gitignorePath := filepath.Join(e.req.Root, ".gitignore")
		if content, err := os.ReadFile(gitignorePath); err == nil {
			lines = append(lines, strings.Split(string(content), "\n")...)
		}
	}
	return ignore.CompileIgnoreLines(lines...)
}

// included applies include patterns; an empty list includes everything
func (e *Engine) included(rel string) bool {
	if len(e.req.IncludePatterns) == 0 {
		return true
	}
	base := filepath.Base(rel)
	for _, pattern := range e.req.IncludePatterns {
		if ok, _ := filepath.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
	}
	return false
}

func isAlwaysSkippedDir(name string) bool {
	switch name {
	case "node_modules", ".git", "dist", "build", "coverage":
		return true
	}
	return false
}

func isTestFile(rel string) bool {
	base := strings.ToLower(filepath.Base(rel))
	return strings.Contains(base, ".test.") || strings.Contains(base, ".spec.") ||
		strings.Contains(rel, "__tests__/")
}

// estimateTestCoverage is a sibling-file heuristic: a matching .test or
// .spec file counts as covered
func estimateTestCoverage(root, rel string) int {
	ext := filepath.Ext(rel)
	stem := strings.TrimSuffix(rel, ext)
	candidates := []string{
		stem + ".test" + ext,
		stem + ".spec" + ext,
		filepath.Join(filepath.Dir(rel), "__tests__", filepath.Base(rel)),
	}
	for _, c := range candidates {
		if _, err := os.Stat(filepath.Join(root, c)); err == nil {
			return 80
		}
	}
	return 0
}

// fallbackDefinition builds a minimal definition for an unparseable file so
// downstream phases can report on it
func fallbackDefinition(rel string, source []byte) *domain.ComponentDefinition {
	name := componentNameFromPath(rel)
	if name == "" {
		return nil
	}
	return &domain.ComponentDefinition{
		ID:         rel + "#" + name,
		Name:       name,
		FilePath:   rel,
		Kind:       domain.KindFunctional,
		Complexity: domain.ComplexityModerate,
		Metadata: domain.ComponentMetadata{
			BundleSize: int64(len(source)),
		},
	}
}

// componentNameFromPath guesses a component name from the file name
func componentNameFromPath(rel string) string {
	base := strings.TrimSuffix(filepath.Base(rel), filepath.Ext(rel))
	if base == "index" {
		base = filepath.Base(filepath.Dir(rel))
	}
	if base == "" || base == "." {
		return ""
	}
	if !isUpper(base[0]) && !strings.HasPrefix(base, "use") {
		return ""
	}
	return base
}

func isUpper(b byte) bool { return b >= 'A' && b <= 'Z' }
