package sandbox

import (
	"context"
	"fmt"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
)

// Runtime owns the process-wide wazero.Runtime, its WASI instantiation,
// and the single "proto" host module shared by every tool id's
// Container. Grounded on the teacher's
// internal/domain/sandbox.WazeroRuntime, which instantiates one
// wazero.Runtime plus WASI per process and hands out per-plugin
// sandboxes from it.
type Runtime struct {
	runtime wazero.Runtime

	mu             sync.Mutex
	closed         bool
	hostRegistered bool
	// active is the Container whose services the currently in-flight
	// host function call should use. Guest calls are serialized by mu
	// for the call's duration, so exactly one container is ever active.
	// This generalizes the teacher's WazeroSandbox, whose registered
	// host functions captured a single sandbox's services for the
	// runtime's entire lifetime; here every container's calls share
	// one registration, with "active" swapped in per call.
	active *Container
}

// NewRuntime constructs the shared wazero runtime and instantiates WASI.
func NewRuntime(ctx context.Context) (*Runtime, error) {
	cfg := wazero.NewRuntimeConfig().WithCloseOnContextDone(true)
	rt := wazero.NewRuntimeWithConfig(ctx, cfg)

	if _, err := wasi_snapshot_preview1.Instantiate(ctx, rt); err != nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("instantiating WASI: %w", err)
	}
	return &Runtime{runtime: rt}, nil
}

// IsAvailable reports whether the runtime can still accept containers.
func (r *Runtime) IsAvailable() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return !r.closed
}

// Close releases the runtime and every module compiled against it.
func (r *Runtime) Close(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	return r.runtime.Close(ctx)
}
