package lifecycle

import (
	"context"
	"fmt"

	"github.com/moonrepo/protohost/internal/protoerr"
	"github.com/moonrepo/protohost/internal/sandbox"
)

// Load registers t's plugin (t.Container must already be compiled and
// ready to instantiate, per §4.3/§4.4) and enforces the plugin's
// declared minimum runtime version. Idempotent: a tool already past
// Loaded is left untouched.
func Load(ctx context.Context, t *Tool, host sandbox.RegisterHost) error {
	if t.State().atLeast(Loaded) {
		return nil
	}

	var out sandbox.RegisterToolOutput
	input := sandbox.RegisterToolInput{ID: t.ID, Host: host}
	if err := t.Container.Call(ctx, "register_tool", input, &out); err != nil {
		return protoerr.WrapPluginCall(t.ID, "register_tool", err)
	}

	if err := sandbox.CheckRuntimeVersion(out.MinimumRuntimeVersion); err != nil {
		return protoerr.New(protoerr.Plugin, protoerr.CodeIncompatibleRuntime,
			fmt.Sprintf("plugin %s requires a newer runtime", t.ID)).WithUnderlying(err)
	}

	t.Register = out
	t.advance(eventLoad)
	return nil
}
