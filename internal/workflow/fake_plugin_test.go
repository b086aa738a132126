package workflow_test

import (
	"context"
	"encoding/json"
	"fmt"
)

// fakePlugin implements lifecycle.PluginCaller for workflow tests,
// mirroring internal/lifecycle's own test double so the full
// Load->Resolve->Download->Verify->Unpack->Locate->Link pipeline can
// run end to end without a compiled WASM module.
type fakePlugin struct {
	responses map[string]any
	exports   map[string]bool
}

func newFakePlugin() *fakePlugin {
	return &fakePlugin{responses: make(map[string]any), exports: make(map[string]bool)}
}

func (f *fakePlugin) withExport(name string, response any) *fakePlugin {
	f.exports[name] = true
	f.responses[name] = response
	return f
}

func (f *fakePlugin) Call(ctx context.Context, export string, input, output any) error {
	resp, ok := f.responses[export]
	if !ok {
		return fmt.Errorf("fakePlugin: no response registered for %s", export)
	}
	if output == nil {
		return nil
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, output)
}

func (f *fakePlugin) HasExport(ctx context.Context, fn string) (bool, error) {
	return f.exports[fn], nil
}
