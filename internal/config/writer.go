package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// loadRaw reads path's existing document into an untyped map, treating
// a missing file as an empty document — the same convention every
// other package in this module uses for its own config file.
func loadRaw(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return make(map[string]any), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	raw := make(map[string]any)
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return raw, nil
}

func saveRaw(path string, raw map[string]any) error {
	data, err := toml.Marshal(raw)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	return os.Rename(tmp, path)
}

func subtable(raw map[string]any, key string) map[string]any {
	if existing, ok := raw[key].(map[string]any); ok {
		return existing
	}
	table := make(map[string]any)
	raw[key] = table
	return table
}

// SetTool pins toolID's top-level version assignment in the
// `.prototools` file at path, creating the file if it doesn't exist.
// Grounded on original_source/crates/cli/src/commands/pin.rs, which
// performs the identical read-mutate-write over the project config
// rather than a narrower single-key patch, to preserve every other key
// already present in the document.
func SetTool(path, toolID, spec string) error {
	raw, err := loadRaw(path)
	if err != nil {
		return err
	}
	raw[toolID] = spec
	return saveRaw(path, raw)
}

// UnsetTool removes toolID's top-level version assignment, if present.
func UnsetTool(path, toolID string) error {
	raw, err := loadRaw(path)
	if err != nil {
		return err
	}
	delete(raw, toolID)
	return saveRaw(path, raw)
}

// SetAlias records alias -> spec under [tools.<toolID>.aliases].
func SetAlias(path, toolID, alias, spec string) error {
	raw, err := loadRaw(path)
	if err != nil {
		return err
	}
	tools := subtable(raw, "tools")
	tool := subtable(tools, toolID)
	aliases := subtable(tool, "aliases")
	aliases[alias] = spec
	return saveRaw(path, raw)
}

// SetPlugin records toolID's locator under [plugins], creating the
// file if it doesn't exist.
func SetPlugin(path, toolID, locator string) error {
	raw, err := loadRaw(path)
	if err != nil {
		return err
	}
	plugins := subtable(raw, "plugins")
	plugins[toolID] = locator
	return saveRaw(path, raw)
}

// UnsetPlugin removes toolID's entry from [plugins], if present.
func UnsetPlugin(path, toolID string) error {
	raw, err := loadRaw(path)
	if err != nil {
		return err
	}
	if plugins, ok := raw["plugins"].(map[string]any); ok {
		delete(plugins, toolID)
	}
	return saveRaw(path, raw)
}

// ListPlugins returns every [plugins] entry recorded at path, empty if
// the file or table doesn't exist.
func ListPlugins(path string) (map[string]string, error) {
	raw, err := loadRaw(path)
	if err != nil {
		return nil, err
	}
	result := make(map[string]string)
	plugins, ok := raw["plugins"].(map[string]any)
	if !ok {
		return result, nil
	}
	for id, v := range plugins {
		if s, ok := v.(string); ok {
			result[id] = s
		}
	}
	return result, nil
}

// UnsetAlias removes alias from [tools.<toolID>.aliases], if present.
func UnsetAlias(path, toolID, alias string) error {
	raw, err := loadRaw(path)
	if err != nil {
		return err
	}
	tools, ok := raw["tools"].(map[string]any)
	if !ok {
		return nil
	}
	tool, ok := tools[toolID].(map[string]any)
	if !ok {
		return nil
	}
	aliases, ok := tool["aliases"].(map[string]any)
	if !ok {
		return nil
	}
	delete(aliases, alias)
	return saveRaw(path, raw)
}
