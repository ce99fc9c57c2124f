package rule

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// applyTwice applies r to text, then to the result, and requires the
// second application to be a no-op.
func applyTwice(t *testing.T, r Rule, text string) Outcome {
	t.Helper()

	first, err := r.Apply(text)
	require.NoError(t, err)

	second, err := r.Apply(first.Text)
	require.NoError(t, err)
	require.False(t, second.Changed, "rule %q is not idempotent; second pass produced:\n%s", r.Name(), second.Text)
	require.Equal(t, first.Text, second.Text)

	return first
}

func mustNormalize(t *testing.T, name, match, canonical string, opts ...NormalizeOption) *Normalize {
	t.Helper()
	r, err := NewNormalize(name, match, canonical, opts...)
	require.NoError(t, err)
	return r
}

func mustPurge(t *testing.T, name, match string, opts ...PurgeOption) *Purge {
	t.Helper()
	r, err := NewPurge(name, match, opts...)
	require.NoError(t, err)
	return r
}

func mustInsert(t *testing.T, name, anchorExpr, block string, opts ...InsertOption) *Insert {
	t.Helper()
	r, err := NewInsert(name, anchorExpr, block, opts...)
	require.NoError(t, err)
	return r
}
