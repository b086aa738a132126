package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// FileName is the config file's name at every cascade level.
const FileName = ".prototools"

// Loader reads `.prototools` files and assembles the cascade.
type Loader struct {
	fileName string
}

// NewLoader constructs a Loader. Grounded on the teacher's
// config.NewLoader (internal/domain/config/loader.go), generalized
// from a fixed manifest+layers-directory shape to a directory-walking
// cascade, since tool version config has no separate manifest file.
func NewLoader() *Loader {
	return &Loader{fileName: FileName}
}

// loadFile reads and parses a single `.prototools`, if present.
// A missing file is not an error: it yields no layer.
func (l *Loader) loadFile(path string) (Layer, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Layer{}, false, nil
		}
		return Layer{}, false, err
	}
	layer, err := ParseLayer(data, path)
	if err != nil {
		return Layer{}, false, err
	}
	return layer, true, nil
}

// Cascade assembles every layer in SPEC_FULL.md §4.2's precedence
// order: environment overrides, local config at cwd, every ancestor
// directory up to (and including) homeDir, then the global store
// config at storeDir.
func (l *Loader) Cascade(cwd, homeDir, storeDir string) ([]Layer, error) {
	var layers []Layer

	layers = append(layers, EnvironmentLayer(os.Environ()))

	dir := cwd
	seenHome := false
	for {
		layer, ok, err := l.loadFile(filepath.Join(dir, l.fileName))
		if err != nil {
			return nil, err
		}
		if ok {
			layers = append(layers, layer)
		}

		if dir == homeDir {
			seenHome = true
			break
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	if !seenHome {
		layer, ok, err := l.loadFile(filepath.Join(homeDir, l.fileName))
		if err != nil {
			return nil, err
		}
		if ok {
			layers = append(layers, layer)
		}
	}

	globalLayer, ok, err := l.loadFile(filepath.Join(storeDir, l.fileName))
	if err != nil {
		return nil, err
	}
	if ok {
		layers = append(layers, globalLayer)
	}

	return layers, nil
}

// Load assembles the cascade and merges it into one effective view.
func (l *Loader) Load(cwd, homeDir, storeDir string) (Merged, error) {
	layers, err := l.Cascade(cwd, homeDir, storeDir)
	if err != nil {
		return Merged{}, err
	}
	return Merge(layers), nil
}

// EnvironmentLayer synthesizes the highest-precedence cascade layer
// from process environment variables: `PROTO_<ID>_VERSION` per-tool
// overrides and the `PROTO_AUTO_INSTALL`/`PROTO_AUTO_CLEAN` settings
// fallbacks named in SPEC_FULL.md §6.
func EnvironmentLayer(environ []string) Layer {
	layer := NewLayer("environment")

	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		switch {
		case key == "PROTO_AUTO_INSTALL":
			if b, err := strconv.ParseBool(value); err == nil {
				layer.Settings.AutoInstall = &b
			}
		case key == "PROTO_AUTO_CLEAN":
			if b, err := strconv.ParseBool(value); err == nil {
				layer.Settings.AutoClean = &b
			}
		case strings.HasPrefix(key, "PROTO_") && strings.HasSuffix(key, "_VERSION"):
			id := strings.ToLower(strings.TrimSuffix(strings.TrimPrefix(key, "PROTO_"), "_VERSION"))
			if id != "" {
				layer.Tools[id] = value
			}
		}
	}

	return layer
}
