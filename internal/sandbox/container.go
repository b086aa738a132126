package sandbox

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/moonrepo/protohost/internal/protoid"
)

// cacheableExports are pure metadata calls the container memoizes by
// function name and input hash for the process lifetime, per
// spec.md §4.4: "The container caches pure metadata calls (version
// manifest listing, tool metadata) by function name and input hash."
var cacheableExports = map[string]bool{
	"register_tool":        true,
	"detect_version_files": true,
	"load_versions":        true,
}

// Container hosts one tool id's plugin: a compiled wazero module,
// lazily instantiated, dispatched through spec.md §4.4's typed
// JSON-over-memory convention: serialize the input struct, write it
// into guest memory via the guest's own "alloc" export, invoke the
// named export with (ptr, len), and read back the (ptr, len) pair
// packed into the export's single uint64 result to deserialize the
// output.
//
// Grounded on the teacher's WazeroSandbox.Execute, generalized from a
// single fire-and-forget "main"/"run" entrypoint to the named,
// round-tripping export contract spec.md §4.4 requires.
type Container struct {
	id     protoid.ID
	config Config
	rt     *Runtime

	mu       sync.Mutex
	compiled wazero.CompiledModule
	instance api.Module

	envMu sync.Mutex

	cacheMu sync.Mutex
	cache   map[string][]byte
}

// NewContainer compiles plugin's module against rt, ready for Call.
func NewContainer(ctx context.Context, rt *Runtime, plugin Plugin, config Config) (*Container, error) {
	if !rt.IsAvailable() {
		return nil, ErrSandboxUnavailable
	}

	compiled, err := rt.runtime.CompileModule(ctx, plugin.Module)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPluginInvalid, err)
	}

	return &Container{
		id:       plugin.ID,
		config:   config,
		rt:       rt,
		compiled: compiled,
		cache:    make(map[string][]byte),
	}, nil
}

// Close releases the container's compiled module and live instance.
func (c *Container) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.instance != nil {
		_ = c.instance.Close(ctx)
		c.instance = nil
	}
	return c.compiled.Close(ctx)
}

func (c *Container) ensureInstance(ctx context.Context) (api.Module, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.instance != nil {
		return c.instance, nil
	}

	modConfig := wazero.NewModuleConfig().
		WithName(string(c.id)).
		WithStartFunctions("_start", "_initialize")

	instance, err := c.rt.runtime.InstantiateModule(ctx, c.compiled, modConfig)
	if err != nil {
		return nil, fmt.Errorf("instantiating plugin %s: %w", c.id, err)
	}
	c.instance = instance
	return instance, nil
}

// HasExport reports whether the guest module exports fn, used to check
// optional exports (resolve_version, unpack_archive, native_install,
// the hooks) before calling them.
func (c *Container) HasExport(ctx context.Context, fn string) (bool, error) {
	instance, err := c.ensureInstance(ctx)
	if err != nil {
		return false, err
	}
	return instance.ExportedFunction(fn) != nil, nil
}

func exportCacheKey(export string, input []byte) string {
	sum := sha256.Sum256(append([]byte(export+":"), input...))
	return hex.EncodeToString(sum[:])
}

// Call invokes export with input marshaled to JSON, unmarshaling the
// guest's JSON response into output (output may be nil when the
// export has no return payload, e.g. unpack_archive). Returns
// ErrExportNotFound, wrapped, when the guest does not export fn;
// callers treat every export but register_tool as optional.
func (c *Container) Call(ctx context.Context, export string, input, output any) error {
	ctx, cancel := context.WithTimeout(ctx, c.config.timeout())
	defer cancel()

	inputJSON, err := json.Marshal(input)
	if err != nil {
		return fmt.Errorf("marshaling input for %s: %w", export, err)
	}

	cacheable := cacheableExports[export]
	var key string
	if cacheable {
		key = exportCacheKey(export, inputJSON)
		c.cacheMu.Lock()
		cached, ok := c.cache[key]
		c.cacheMu.Unlock()
		if ok {
			if output == nil || cached == nil {
				return nil
			}
			return json.Unmarshal(cached, output)
		}
	}

	outputJSON, err := c.rt.call(ctx, c, export, inputJSON)
	if err != nil {
		return err
	}

	if cacheable {
		c.cacheMu.Lock()
		c.cache[key] = outputJSON
		c.cacheMu.Unlock()
	}

	if output == nil || outputJSON == nil {
		return nil
	}
	return json.Unmarshal(outputJSON, output)
}

// call performs the guest invocation: registers the shared host module
// on first use, serializes access to the Runtime for the call's
// duration (so exactly one container's host functions are "active"),
// and runs the alloc/write/call/read protocol.
func (r *Runtime) call(ctx context.Context, c *Container, export string, inputJSON []byte) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrSandboxUnavailable
	}
	if err := r.ensureHostModuleLocked(ctx); err != nil {
		return nil, fmt.Errorf("registering host functions: %w", err)
	}
	r.active = c
	defer func() { r.active = nil }()

	instance, err := c.ensureInstance(ctx)
	if err != nil {
		return nil, err
	}

	fn := instance.ExportedFunction(export)
	if fn == nil {
		return nil, fmt.Errorf("%w: %s", ErrExportNotFound, export)
	}

	alloc := instance.ExportedFunction("alloc")
	if alloc == nil {
		return nil, fmt.Errorf("plugin %s does not export alloc", c.id)
	}

	inPtr, err := writeGuestMemory(ctx, instance, alloc, inputJSON)
	if err != nil {
		return nil, fmt.Errorf("writing input for %s: %w", export, err)
	}

	results, err := fn.Call(ctx, uint64(inPtr), uint64(len(inputJSON)))
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: export %s", ErrSandboxTimeout, export)
		}
		return nil, fmt.Errorf("calling export %s: %w", export, err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	packed := results[0]
	outPtr := uint32(packed >> 32)
	outLen := uint32(packed)
	if outLen == 0 {
		return nil, nil
	}

	data, ok := instance.Memory().Read(outPtr, outLen)
	if !ok {
		return nil, fmt.Errorf("reading output for %s: out of bounds", export)
	}
	out := make([]byte, len(data))
	copy(out, data)

	if free := instance.ExportedFunction("free"); free != nil {
		_, _ = free.Call(ctx, uint64(outPtr), uint64(outLen))
	}

	return out, nil
}

func writeGuestMemory(ctx context.Context, instance api.Module, alloc api.Function, data []byte) (uint32, error) {
	results, err := alloc.Call(ctx, uint64(len(data)))
	if err != nil {
		return 0, err
	}
	ptr := uint32(results[0])
	if len(data) > 0 && !instance.Memory().Write(ptr, data) {
		return 0, fmt.Errorf("writing %d bytes at offset %d: out of bounds", len(data), ptr)
	}
	return ptr, nil
}
