package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/converge/internal/ir"
)

const loneSemicolon = `(?m)^[ \t]*;[ \t\r]*$`

func TestPurgeLoneSemicolon(t *testing.T) {
	r := mustPurge(t, "lone-semicolon", loneSemicolon)
	assert.Equal(t, ir.KindPurge, r.Kind())

	in := "    const a = 1;\n;\n    const b = 2;\n"
	out := applyTwice(t, r, in)
	assert.True(t, out.Changed)
	assert.Equal(t, "    const a = 1;\n    const b = 2;\n", out.Text)
}

func TestPurgeRunsToExhaustion(t *testing.T) {
	r := mustPurge(t, "lone-semicolon", loneSemicolon)
	in := "a();\n  ;\nb();\n\t;\n;\nc();\n"

	out := applyTwice(t, r, in)
	assert.Equal(t, 3, out.Count)
	assert.Equal(t, "a();\nb();\nc();\n", out.Text)
}

func TestPurgeCRLFLines(t *testing.T) {
	r := mustPurge(t, "lone-semicolon", loneSemicolon)
	in := "    let dbg: any = {};\r\n;\r\n  ;  \r\n    const b = 2;\r\n"

	out := applyTwice(t, r, in)
	assert.Equal(t, 2, out.Count)
	assert.Equal(t, "    let dbg: any = {};\r\n    const b = 2;\r\n", out.Text)
}

func TestPurgeLastLineWithoutNewline(t *testing.T) {
	r := mustPurge(t, "lone-semicolon", loneSemicolon)
	out := applyTwice(t, r, "a();\n;")
	assert.Equal(t, "a();", out.Text)

	out = applyTwice(t, r, ";")
	assert.Equal(t, "", out.Text)
}

func TestPurgeSpanInsideLine(t *testing.T) {
	r := mustPurge(t, "garbage", `/\* stray \*/`)
	out := applyTwice(t, r, "call(); /* stray */\n")
	assert.Equal(t, "call(); \n", out.Text)
}

func TestPurgeMatchIncludingNewline(t *testing.T) {
	r := mustPurge(t, "stray", `(?m)^[ \t]*templateId \? true : Boolean\(keepBackground\);\n`)
	in := keepBgCanonical + "\n templateId ? true : Boolean(keepBackground);\nnext();\n"

	out := applyTwice(t, r, in)
	assert.Equal(t, keepBgCanonical+"\nnext();\n", out.Text)
}

func TestPurgeKeepFirst(t *testing.T) {
	r := mustPurge(t, "dedupe", `(?m)^[ \t]*const hasGuidance\b[^\n]*$`, KeepFirst())
	line := "const hasGuidance = Boolean(inlineDataUrl || (!templateMode && productImageUrl));"
	in := line + "\nx();\n" + line + "\n" + line + "\n"

	out := applyTwice(t, r, in)
	assert.Equal(t, 2, out.Count)
	assert.Equal(t, line+"\nx();\n", out.Text)

	again, err := r.Apply(out.Text)
	require.NoError(t, err)
	assert.Equal(t, StatusSatisfied, again.Status)
}

func TestPurgeNoMatch(t *testing.T) {
	out, err := mustPurge(t, "lone-semicolon", loneSemicolon).Apply("a();\n")
	require.NoError(t, err)
	assert.Equal(t, StatusNoMatch, out.Status)
	assert.False(t, out.Changed)
}

func TestNewPurgeStructuralErrors(t *testing.T) {
	_, err := NewPurge("r", `(`)
	assert.True(t, IsStructural(err))

	_, err = NewPurge("r", `(?m)^\s*$`)
	assert.True(t, IsStructural(err))

	_, err = NewPurge(" ", `;`)
	assert.True(t, IsStructural(err))
}
