package pipeline

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport(t *testing.T) {
	assert.Equal(t, Unchanged, Report("a\n", "a\n"))
	assert.Equal(t, Changed, Report("a\n", "b\n"))
	assert.Equal(t, Changed, Report("a\n", "a"))
}

func TestStatusLine(t *testing.T) {
	tests := []struct {
		name    string
		verdict Verdict
		rules   []string
		want    string
	}{
		{"unchanged", Unchanged, nil, "No changes needed for app/route.ts"},
		{"unchanged ignores rules", Unchanged, []string{"keep-bg"}, "No changes needed for app/route.ts"},
		{"one rule", Changed, []string{"keep-bg"}, "Normalized keep-bg in app/route.ts"},
		{"many rules", Changed, []string{"keep-bg", "has-guidance"}, "Normalized keep-bg, has-guidance in app/route.ts"},
		{"no names", Changed, nil, "Normalized app/route.ts"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusLine(tt.verdict, "app/route.ts", tt.rules))
		})
	}
}

func TestVerdictJSON(t *testing.T) {
	data, err := json.Marshal(map[string]Verdict{"v": Changed})
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":"changed"}`, string(data))
	assert.Equal(t, "Verdict(7)", Verdict(7).String())
}

func TestUnifiedDiff(t *testing.T) {
	original := "a\nconst keepBg = Boolean(keepBackground);\nb\n"
	final := "a\nconst keepBg = templateId ? true : Boolean(keepBackground);\nb\n"

	diff, err := UnifiedDiff("route.ts", original, final)
	require.NoError(t, err)

	assert.Contains(t, diff, "--- a/route.ts\n")
	assert.Contains(t, diff, "+++ b/route.ts\n")
	assert.Contains(t, diff, "-const keepBg = Boolean(keepBackground);\n")
	assert.Contains(t, diff, "+const keepBg = templateId ? true : Boolean(keepBackground);\n")
	assert.Contains(t, diff, " a\n")
}

func TestUnifiedDiffEqualTextsIsEmpty(t *testing.T) {
	diff, err := UnifiedDiff("route.ts", "same\n", "same\n")
	require.NoError(t, err)
	assert.Empty(t, diff)
}
