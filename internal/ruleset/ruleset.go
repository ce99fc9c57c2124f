// Package ruleset holds the compiled-in rule sets.
//
// Rule sets are CUE documents embedded at build time and compiled on first
// use. They are not user-supplied.
package ruleset

import (
	_ "embed"
	"sync"

	"github.com/roach88/converge/internal/compiler"
)

//go:embed generate_route.cue
var generateRouteSource []byte

var generateRoute = sync.OnceValues(func() (*compiler.RuleSet, error) {
	return compiler.Load("generate_route.cue", generateRouteSource)
})

// GenerateRoute returns the rules that converge the image generation route
// handler on its template-aware form.
func GenerateRoute() (*compiler.RuleSet, error) {
	return generateRoute()
}

// Default returns the rule set applied by the CLI.
func Default() (*compiler.RuleSet, error) {
	return GenerateRoute()
}
