package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithGolden(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/lone_semicolon.yaml")
	require.NoError(t, err)

	result := RunWithGolden(t, s, defaultRules(t))
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestGoldenPath(t *testing.T) {
	assert.Equal(t,
		filepath.Join("scenarios", "golden", "partial_route.golden"),
		GoldenPath(filepath.Join("scenarios", "partial_route.yaml")))
}

func TestCompareAndUpdateGolden(t *testing.T) {
	path := filepath.Join(t.TempDir(), "golden", "case.golden")

	ok, exists, diff, err := CompareGolden(path, "a\n")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, exists)
	assert.Empty(t, diff)

	require.NoError(t, UpdateGolden(path, "a\n"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\n", string(data))

	ok, exists, _, err = CompareGolden(path, "a\n")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, exists)

	ok, exists, diff, err = CompareGolden(path, "b\n")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, exists)
	assert.Contains(t, diff, "-a\n")
	assert.Contains(t, diff, "+b\n")
}
