package config

// Merged is the cascade's result: one effective view over every layer,
// plus enough provenance to explain where a given tool's version came
// from.
type Merged struct {
	Tools       map[string]string
	ToolConfigs map[string]ToolConfig
	Plugins     map[string]string
	Settings    Settings

	// Provenance maps tool id -> the Source of the layer that supplied
	// its version, for diagnostics ("node = 20.11.0, from ~/.prototools").
	Provenance map[string]string
}

// Merge combines layers in PRECEDENCE ORDER, highest first (environment
// overrides, local config, ancestor configs outward, global store
// config last), per SPEC_FULL.md §4.2:
//   - Scalars: first writer wins.
//   - Maps: deep merge; inner keys independently follow the scalar rule.
//   - Vectors: appended, so the highest-precedence layer's entries come
//     first; .env file lists are the one inversion (ascending weight,
//     later files override earlier variables) and are appended in
//     layer order unchanged, then reversed by the caller if it wants
//     load order rather than precedence order.
//
// Grounded on the teacher's Merger.Merge (internal/domain/config/
// merger.go), whose doc comment states the identical three-way rule
// for its own domain (dotfile packages); the teacher walks
// lowest-to-highest and lets later entries win, so this Merge walks
// highest-to-lowest and keeps only the FIRST entry per scalar to
// reproduce the same "later layer fills gaps, never overrides" effect
// demanded by SPEC_FULL.md's opposite precedence order.
func Merge(layers []Layer) Merged {
	merged := Merged{
		Tools:       make(map[string]string),
		ToolConfigs: make(map[string]ToolConfig),
		Plugins:     make(map[string]string),
		Provenance:  make(map[string]string),
	}

	for _, layer := range layers {
		for id, spec := range layer.Tools {
			if _, exists := merged.Tools[id]; !exists {
				merged.Tools[id] = spec
				merged.Provenance[id] = layer.Source
			}
		}

		for id, tc := range layer.ToolConfigs {
			merged.ToolConfigs[id] = mergeToolConfig(merged.ToolConfigs[id], tc)
		}

		for id, locator := range layer.Plugins {
			if _, exists := merged.Plugins[id]; !exists {
				merged.Plugins[id] = locator
			}
		}

		merged.Settings = mergeSettings(merged.Settings, layer.Settings)
	}

	return merged
}

// mergeToolConfig deep-merges a higher-precedence ToolConfig (into)
// with a lower-precedence one (from), keeping into's values and
// filling gaps from from.
func mergeToolConfig(into, from ToolConfig) ToolConfig {
	if into.Aliases == nil {
		into.Aliases = make(map[string]string)
	}
	for k, v := range from.Aliases {
		if _, exists := into.Aliases[k]; !exists {
			into.Aliases[k] = v
		}
	}

	if into.Env == nil {
		into.Env = make(map[string]string)
	}
	for k, v := range from.Env {
		if _, exists := into.Env[k]; !exists {
			into.Env[k] = v
		}
	}

	into.EnvFiles = append(into.EnvFiles, from.EnvFiles...)

	if into.Plugin == nil {
		into.Plugin = make(map[string]any)
	}
	for k, v := range from.Plugin {
		if _, exists := into.Plugin[k]; !exists {
			into.Plugin[k] = v
		}
	}

	return into
}

func mergeSettings(into, from Settings) Settings {
	if into.AutoClean == nil {
		into.AutoClean = from.AutoClean
	}
	if into.AutoInstall == nil {
		into.AutoInstall = from.AutoInstall
	}
	if into.DetectStrategy == "" {
		into.DetectStrategy = from.DetectStrategy
	}
	if into.PinLatest == "" {
		into.PinLatest = from.PinLatest
	}
	if into.HTTPProxy == "" {
		into.HTTPProxy = from.HTTPProxy
	}
	if into.CertPath == "" {
		into.CertPath = from.CertPath
	}
	return into
}
