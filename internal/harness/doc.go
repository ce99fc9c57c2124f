// Package harness runs text scenarios through a rule set.
//
// A scenario names an input text, optionally the exact text it must
// converge to, and assertions over the run. Every scenario is also checked
// for idempotence: a second run over the output must change nothing.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: stray_keep_bg
//	description: "A dangling keepBg right-hand side is removed"
//	input: |
//	    const keepBg = Boolean(keepBackground);
//	    templateId ? true : Boolean(keepBackground);
//	expected: |
//	    const keepBg = templateId ? true : Boolean(keepBackground);
//	assertions:
//	  - type: verdict
//	    verdict: changed
//	  - type: rules_changed
//	    rules: [keep-bg, stray-keep-bg]
//	  - type: count
//	    text: "const keepBg"
//	    count: 1
//
// input_file may replace input; it is resolved relative to the scenario
// file.
//
// # Assertion Types
//
//   - verdict: the run's verdict is "changed" or "unchanged"
//   - rules_changed: exactly these rules edited the text, in order
//   - rule_status: a rule ended with the given status
//   - contains / not_contains: the output contains (or lacks) text
//   - count: text occurs exactly count times in the output
//
// # Golden Files
//
// When a scenario has no expected text, its output can be pinned in a
// golden file next to it: golden/<scenario-file-name>.golden.
package harness
