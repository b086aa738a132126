package config

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

// reservedTables are the top-level keys with fixed structure; every
// other top-level scalar is a tool version assignment.
var reservedTables = map[string]bool{
	"tools":    true,
	"plugins":  true,
	"settings": true,
}

// ParseLayer decodes a `.prototools` document's bytes into a Layer.
// Grounded on the teacher's ParseLayer/ParseManifest (layer.go), which
// also decodes into an intermediate map before building the typed
// struct, so per-tool sub-tables and unknown plugin keys can share a
// single document shape.
func ParseLayer(data []byte, source string) (Layer, error) {
	raw := make(map[string]any)
	if err := toml.Unmarshal(data, &raw); err != nil {
		return Layer{}, fmt.Errorf("parsing %s: %w", source, err)
	}

	layer := NewLayer(source)

	for key, value := range raw {
		if reservedTables[key] {
			continue
		}
		spec, ok := value.(string)
		if !ok {
			return Layer{}, fmt.Errorf("parsing %s: %q must be a version string", source, key)
		}
		layer.Tools[key] = spec
	}

	if toolsTable, ok := raw["tools"].(map[string]any); ok {
		for id, v := range toolsTable {
			sub, ok := v.(map[string]any)
			if !ok {
				return Layer{}, fmt.Errorf("parsing %s: [tools.%s] must be a table", source, id)
			}
			layer.ToolConfigs[id] = parseToolConfig(sub)
		}
	}

	if pluginsTable, ok := raw["plugins"].(map[string]any); ok {
		for id, v := range pluginsTable {
			locator, ok := v.(string)
			if !ok {
				return Layer{}, fmt.Errorf("parsing %s: plugins.%s must be a locator string", source, id)
			}
			layer.Plugins[id] = locator
		}
	}

	if settingsTable, ok := raw["settings"].(map[string]any); ok {
		layer.Settings = parseSettings(settingsTable)
	}

	return layer, nil
}

func parseToolConfig(sub map[string]any) ToolConfig {
	tc := ToolConfig{Plugin: make(map[string]any)}

	if aliases, ok := sub["aliases"].(map[string]any); ok {
		tc.Aliases = make(map[string]string, len(aliases))
		for k, v := range aliases {
			if s, ok := v.(string); ok {
				tc.Aliases[k] = s
			}
		}
	}
	if env, ok := sub["env"].(map[string]any); ok {
		tc.Env = make(map[string]string, len(env))
		for k, v := range env {
			if s, ok := v.(string); ok {
				tc.Env[k] = s
			}
		}
	}
	if envFiles, ok := sub["env-files"].([]any); ok {
		for _, v := range envFiles {
			if s, ok := v.(string); ok {
				tc.EnvFiles = append(tc.EnvFiles, s)
			}
		}
	}

	for k, v := range sub {
		switch k {
		case "aliases", "env", "env-files":
		default:
			tc.Plugin[k] = v
		}
	}

	return tc
}

func parseSettings(sub map[string]any) Settings {
	var s Settings
	if v, ok := sub["auto-clean"].(bool); ok {
		s.AutoClean = &v
	}
	if v, ok := sub["auto-install"].(bool); ok {
		s.AutoInstall = &v
	}
	if v, ok := sub["detect-strategy"].(string); ok {
		s.DetectStrategy = v
	}
	if v, ok := sub["pin-latest"].(string); ok {
		s.PinLatest = v
	}
	if v, ok := sub["http-proxy"].(string); ok {
		s.HTTPProxy = v
	}
	if v, ok := sub["cert-path"].(string); ok {
		s.CertPath = v
	}
	return s
}
