package workflow

import (
	"context"

	"github.com/moonrepo/protohost/internal/protoerr"
	"github.com/moonrepo/protohost/internal/protoid"
	"github.com/moonrepo/protohost/internal/sandbox"
)

// ListRemote calls id's plugin load_versions export directly and
// returns every version it advertises, for the `list-remote`
// subcommand — a read-only query that doesn't go through the
// lifecycle state machine at all.
func (e *Environment) ListRemote(ctx context.Context, id protoid.ID, plugins map[string]string) (sandbox.LoadVersionsOutput, error) {
	locator, err := pluginLocator(plugins, id)
	if err != nil {
		return sandbox.LoadVersionsOutput{}, err
	}

	container, err := e.loadContainer(ctx, id, locator, nil)
	if err != nil {
		return sandbox.LoadVersionsOutput{}, err
	}
	defer container.Close(ctx)

	var out sandbox.LoadVersionsOutput
	if err := container.Call(ctx, "load_versions", sandbox.LoadVersionsInput{}, &out); err != nil {
		return sandbox.LoadVersionsOutput{}, protoerr.WrapPluginCall(string(id), "load_versions", err)
	}
	return out, nil
}
