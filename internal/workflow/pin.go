package workflow

import (
	"path/filepath"

	"github.com/moonrepo/protohost/internal/config"
)

// configPath returns the `.prototools` path pin/alias operations target:
// the local cascade file at e.Cwd. Global pins (spec.md's `--global`
// flag) target the store's config instead; callers pass global=true
// when they want global scope.
func (e *Environment) configPath(global bool) string {
	if global {
		return filepath.Join(e.Store.Dir, config.FileName)
	}
	return filepath.Join(e.Cwd, config.FileName)
}

// Pin records toolID's version spec in `.prototools`, local by default
// or in the store's global config when global is true.
func (e *Environment) Pin(toolID, spec string, global bool) error {
	return config.SetTool(e.configPath(global), toolID, spec)
}

// Unpin removes toolID's version assignment from `.prototools`.
func (e *Environment) Unpin(toolID string, global bool) error {
	return config.UnsetTool(e.configPath(global), toolID)
}

// Alias records a user-defined alias for toolID in `.prototools`.
func (e *Environment) Alias(toolID, alias, spec string, global bool) error {
	return config.SetAlias(e.configPath(global), toolID, alias, spec)
}

// Unalias removes a user-defined alias for toolID from `.prototools`.
func (e *Environment) Unalias(toolID, alias string, global bool) error {
	return config.UnsetAlias(e.configPath(global), toolID, alias)
}

// PluginAdd records toolID's plugin locator in `.prototools`.
func (e *Environment) PluginAdd(toolID, locator string, global bool) error {
	return config.SetPlugin(e.configPath(global), toolID, locator)
}

// PluginRemove removes toolID's plugin locator from `.prototools`.
func (e *Environment) PluginRemove(toolID string, global bool) error {
	return config.UnsetPlugin(e.configPath(global), toolID)
}

// PluginList returns every plugin locator recorded at the given scope.
func (e *Environment) PluginList(global bool) (map[string]string, error) {
	return config.ListPlugins(e.configPath(global))
}
