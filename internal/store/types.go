package store

// Verdict values stored in runs.verdict.
const (
	VerdictChanged   = "changed"
	VerdictUnchanged = "unchanged"
)

// Run is one recorded converge run.
type Run struct {
	ID            string   `json:"id"`
	Seq           int64    `json:"seq"`
	Path          string   `json:"path"`
	RuleSet       string   `json:"ruleset"`
	RuleSetDigest string   `json:"ruleset_digest"`
	EngineVersion string   `json:"engine_version"`
	IRVersion     string   `json:"ir_version"`
	BeforeDigest  string   `json:"before_digest"`
	AfterDigest   string   `json:"after_digest"`
	Verdict       string   `json:"verdict"`
	Written       bool     `json:"written"`
	DryRun        bool     `json:"dry_run"`
	ChangedRules  []string `json:"changed_rules"`

	// Outcomes is populated by ReadRun only.
	Outcomes []RuleOutcome `json:"outcomes,omitempty"`
}

// RuleOutcome is one rule's result within a run.
type RuleOutcome struct {
	Position int    `json:"position"`
	Rule     string `json:"rule"`
	Kind     string `json:"kind"`
	Status   string `json:"status"`
	Changed  bool   `json:"changed"`
	Count    int    `json:"count"`
	Note     string `json:"note,omitempty"`
}

// RuleStat aggregates how often a rule reached a status.
type RuleStat struct {
	Rule   string `json:"rule"`
	Status string `json:"status"`
	Runs   int64  `json:"runs"`
}
