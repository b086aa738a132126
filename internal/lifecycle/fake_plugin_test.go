package lifecycle_test

import (
	"context"
	"encoding/json"
	"fmt"
)

// fakePlugin implements lifecycle.PluginCaller for tests, dispatching
// by export name to caller-registered JSON responses instead of
// executing real WASM.
type fakePlugin struct {
	exports   map[string]bool
	responses map[string]any
	calls     []string
	errs      map[string]error
}

func newFakePlugin() *fakePlugin {
	return &fakePlugin{
		exports:   make(map[string]bool),
		responses: make(map[string]any),
		errs:      make(map[string]error),
	}
}

func (f *fakePlugin) withExport(name string, response any) *fakePlugin {
	f.exports[name] = true
	f.responses[name] = response
	return f
}

func (f *fakePlugin) withError(name string, err error) *fakePlugin {
	f.exports[name] = true
	f.errs[name] = err
	return f
}

func (f *fakePlugin) Call(ctx context.Context, export string, input, output any) error {
	f.calls = append(f.calls, export)
	if err, ok := f.errs[export]; ok {
		return err
	}
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
