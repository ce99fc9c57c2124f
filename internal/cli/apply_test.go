package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/converge/internal/document"
	"github.com/roach88/converge/internal/pipeline"
	"github.com/roach88/converge/internal/rule"
	"github.com/roach88/converge/internal/store"
)

func TestApplyMissingArgs(t *testing.T) {
	_, _, err := execute(NewApplyCommand(&RootOptions{Format: "text"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestApplyConvergesFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "route.ts", unconverged)

	out, _, err := execute(NewApplyCommand(&RootOptions{Format: "text"}), path)
	require.NoError(t, err)

	assert.Equal(t, "Normalized keep-bg in "+path+"\n", out)
	assert.Equal(t, converged, readFile(t, path))
}

func TestApplySecondRunIsNoOp(t *testing.T) {
	path := writeFile(t, t.TempDir(), "route.ts", unconverged)

	_, _, err := execute(NewApplyCommand(&RootOptions{Format: "text"}), path)
	require.NoError(t, err)

	out, _, err := execute(NewApplyCommand(&RootOptions{Format: "text"}), path)
	require.NoError(t, err)
	assert.Equal(t, "No changes needed for "+path+"\n", out)
	assert.Equal(t, converged, readFile(t, path))
}

func TestApplyDryRunLeavesFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "route.ts", unconverged)

	out, _, err := execute(NewApplyCommand(&RootOptions{Format: "text"}), "--dry-run", path)
	require.NoError(t, err)

	assert.Contains(t, out, "Normalized keep-bg in "+path+"\n")
	assert.Contains(t, out, "--- a/"+path)
	assert.Contains(t, out, "+++ b/"+path)
	assert.Contains(t, out, "-"+unconverged)
	assert.Contains(t, out, "+"+converged)
	assert.Equal(t, unconverged, readFile(t, path))
}

func TestApplyDryRunOnConvergedFileHasNoDiff(t *testing.T) {
	path := writeFile(t, t.TempDir(), "route.ts", converged)

	out, _, err := execute(NewApplyCommand(&RootOptions{Format: "text"}), "--dry-run", path)
	require.NoError(t, err)
	assert.Equal(t, "No changes needed for "+path+"\n", out)
}

func TestApplyFileNotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.ts")

	out, _, err := execute(NewApplyCommand(&RootOptions{Format: "text"}), path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E002]")
	assert.True(t, document.IsNotFound(err))
}

func TestApplyWriteFailureLeavesFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "route.ts", unconverged)
	opts := &ApplyOptions{RootOptions: &RootOptions{Format: "text"}}
	opts.WriteFile = func(string, []byte, fs.FileMode) error {
		return errors.New("disk full")
	}

	out, _, err := execute(newApplyCommand(opts), path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E004]")
	assert.True(t, document.IsWriteError(err))
	assert.Equal(t, unconverged, readFile(t, path))
}

func TestApplyJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "route.ts", unconverged)

	out, _, err := execute(NewApplyCommand(&RootOptions{Format: "json"}), path)
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Path    string          `json:"path"`
			Verdict string          `json:"verdict"`
			Message string          `json:"message"`
			Written bool            `json:"written"`
			Steps   []pipeline.Step `json:"steps"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, path, resp.Data.Path)
	assert.Equal(t, "changed", resp.Data.Verdict)
	assert.Equal(t, "Normalized keep-bg in "+path, resp.Data.Message)
	assert.True(t, resp.Data.Written)
	require.NotEmpty(t, resp.Data.Steps)
	assert.Equal(t, "keep-bg", resp.Data.Steps[0].Rule)
	assert.Equal(t, rule.StatusApplied, resp.Data.Steps[0].Status)
}

func TestApplyJournalRecordsRun(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "route.ts", unconverged)
	journal := filepath.Join(dir, "converge.db")

	opts := &ApplyOptions{
		RootOptions: &RootOptions{Format: "json"},
		RunIDs:      store.NewFixedGenerator("run-1"),
	}
	out, _, err := execute(newApplyCommand(opts), path, "--journal", journal)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "run-1", resp.RunID)

	st, err := store.Open(journal)
	require.NoError(t, err)
	defer st.Close()

	run, err := st.ReadRun(t.Context(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, path, run.Path)
	assert.Equal(t, "generate-route", run.RuleSet)
	assert.Equal(t, store.VerdictChanged, run.Verdict)
	assert.True(t, run.Written)
	assert.Equal(t, []string{"keep-bg"}, run.ChangedRules)
	assert.NotEqual(t, run.BeforeDigest, run.AfterDigest)
	require.NotEmpty(t, run.Outcomes)
	assert.Equal(t, "keep-bg", run.Outcomes[0].Rule)
	assert.Equal(t, "applied", run.Outcomes[0].Status)
}

func TestApplyErrorStructuralIsFailure(t *testing.T) {
	formatter := &OutputFormatter{Format: "text", Writer: io.Discard}
	cause := fmt.Errorf("converge a.ts: %w", &rule.StructuralRuleError{Rule: "keep-bg", Message: "bad"})

	err := applyError(formatter, "a.ts", cause)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.True(t, rule.IsStructural(err))
}
