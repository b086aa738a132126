package lifecycle

import (
	"context"
	"os"
	"path/filepath"

	"github.com/moonrepo/protohost/internal/protoerr"
	"github.com/moonrepo/protohost/internal/sandbox"
)

// Locate calls locate_executables and records the absolute primary and
// secondary executable paths, per spec.md §4.6's Locate transition.
// Errors CodeMissingExecutable when a declared path doesn't exist.
func Locate(ctx context.Context, t *Tool) error {
	if t.State().atLeast(Located) {
		return nil
	}
	if !t.State().atLeast(Installed) {
		return protoerr.New(protoerr.Install, protoerr.CodeMissingExecutable,
			"cannot locate executables before the tool is unpacked")
	}

	var out sandbox.LocateExecutablesOutput
	input := sandbox.LocateExecutablesInput{InstallDir: t.InstallDir}
	if err := t.Container.Call(ctx, "locate_executables", input, &out); err != nil {
		return protoerr.WrapPluginCall(t.ID, "locate_executables", err)
	}

	if out.Primary != "" {
		abs, err := resolveExecutablePath(t.InstallDir, out.Primary)
		if err != nil {
			return err
		}
		t.Primary = abs
	}
	if out.Secondary != "" {
		abs, err := resolveExecutablePath(t.InstallDir, out.Secondary)
		if err != nil {
			return err
		}
		t.Secondary = abs
	}

	t.GlobalsLookupDirs = out.GlobalsLookupDirs
	t.GlobalsPrefix = out.GlobalsPrefix
	t.advance(eventLocate)
	return nil
}

func resolveExecutablePath(installDir, relative string) (string, error) {
	abs := filepath.Join(installDir, relative)
	if _, err := os.Stat(abs); err != nil {
		return "", protoerr.New(protoerr.Install, protoerr.CodeMissingExecutable,
			"declared executable does not exist: "+relative).WithContext(installDir).WithUnderlying(err)
	}
	return abs, nil
}
