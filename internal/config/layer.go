// Package config implements the TOML config cascade described in
// SPEC_FULL.md §4.2: environment overrides, the local `.prototools`,
// every ancestor directory walking up to (and including) the
// user-home config, and the global store config, merged with
// scalar-first-writer-wins / map-deep-merge / vector-append semantics.
//
// Grounded on the teacher's internal/domain/config package for the
// layer/loader/merger split and the precedence-ordered merge idiom
// (see Merger.Merge's doc comment there: "Scalars: last-wins. Maps:
// deep merge. Lists: set union"); the teacher merges lowest-to-highest
// precedence and lets later writes win, so here the cascade is walked
// highest-precedence-first and the merge keeps only the FIRST writer
// per scalar, matching SPEC_FULL.md §4.2's explicit "first writer wins"
// rule (the inverse of the teacher's dotfile cascade, which has no
// such "environment beats everything" tier).
package config

// ToolConfig is a tool's own sub-table: aliases, env vars, env-file
// references, and opaque plugin-specific settings.
type ToolConfig struct {
	Aliases  map[string]string `toml:"aliases,omitempty"`
	Env      map[string]string `toml:"env,omitempty"`
	EnvFiles []string          `toml:"env-files,omitempty"`
	Plugin   map[string]any    `toml:"-"`
}

// Settings is the `[settings]` table.
type Settings struct {
	AutoClean      *bool  `toml:"auto-clean,omitempty"`
	AutoInstall    *bool  `toml:"auto-install,omitempty"`
	DetectStrategy string `toml:"detect-strategy,omitempty"`
	PinLatest      string `toml:"pin-latest,omitempty"`
	HTTPProxy      string `toml:"http-proxy,omitempty"`
	CertPath       string `toml:"cert-path,omitempty"`
}

// Detect strategy values, per SPEC_FULL.md §4.2.
const (
	DetectFirstAvailable   = "first-available"
	DetectPreferPrototools = "prefer-prototools"
	DetectOnlyPrototools   = "only-prototools"
)

// Layer is one config source in the cascade: a parsed `.prototools`
// file, the synthetic environment-override layer, or the global store
// config.
type Layer struct {
	// Source identifies where this layer came from, for error messages
	// and provenance (e.g. a file path, or "environment").
	Source string

	// Tools maps tool id to its requested unresolved version spec
	// string (top-level scalar keys in `.prototools`, e.g. `node = "^20"`).
	Tools map[string]string

	// ToolConfigs maps tool id to its `[tools.<id>]` sub-table.
	ToolConfigs map[string]ToolConfig

	// Plugins maps plugin/tool id to its locator string.
	Plugins map[string]string

	Settings Settings
}

// NewLayer constructs an empty, initialized Layer.
func NewLayer(source string) Layer {
	return Layer{
		Source:      source,
		Tools:       make(map[string]string),
		ToolConfigs: make(map[string]ToolConfig),
		Plugins:     make(map[string]string),
	}
}
