package harness

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/converge/internal/document"
	"github.com/roach88/converge/internal/pipeline"
	"github.com/roach88/converge/internal/rule"
)

// RunWithGolden executes a scenario and compares its output against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario, rules []rule.Rule) *Result {
	t.Helper()

	result, err := Run(scenario, rules)
	if err != nil {
		t.Fatalf("run scenario %s: %v", scenario.Name, err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, []byte(result.Output))

	return result
}

// GoldenPath returns the golden file for a scenario file:
// <dir>/golden/<base name without extension>.golden.
func GoldenPath(scenarioFile string) string {
	dir := filepath.Dir(scenarioFile)
	base := filepath.Base(scenarioFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, "golden", name+".golden")
}

// CompareGolden compares output with the golden file at path. A missing
// golden file is reported as ok=true with exists=false. On mismatch, diff
// holds a unified diff from the golden text to output.
func CompareGolden(path, output string) (ok, exists bool, diff string, err error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return true, false, "", nil
	}
	if err != nil {
		return false, false, "", fmt.Errorf("failed to read golden file: %w", err)
	}
	if string(data) == output {
		return true, true, "", nil
	}
	diff, err = pipeline.UnifiedDiff(filepath.Base(path), string(data), output)
	if err != nil {
		return false, true, "", err
	}
	return false, true, diff, nil
}

// UpdateGolden writes output as the golden file at path.
func UpdateGolden(path, output string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}
	if err := document.WriteAtomic(path, []byte(output), 0o644); err != nil {
		return fmt.Errorf("failed to write golden file: %w", err)
	}
	return nil
}
