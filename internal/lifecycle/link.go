package lifecycle

import (
	"os"
	"path/filepath"

	"github.com/moonrepo/protohost/internal/protoerr"
	"github.com/moonrepo/protohost/internal/shim"
)

// ShimBinaryName is the single native launcher binary installed once
// per host, per spec.md §4.7: "The shim itself is written once per
// host (a small native binary, not per tool)." Every bin-directory
// entry and shim-name symlink ultimately points at this one binary;
// cmd/proto-shim's own argv[0] tells it which tool to launch.
const ShimBinaryName = "proto-shim"

// Link registers t's executables in the shim registry and, when
// isDefault is true, places a symbolic bin-directory entry pointing at
// the shared shim binary, per spec.md §4.6's Link transition. shimsDir
// and binDir are internal/store.Store's ShimsDir/BinDir.
func Link(t *Tool, shimsDir, binDir string, isDefault bool) error {
	if t.State().atLeast(Linked) {
		return nil
	}
	if !t.State().atLeast(Located) {
		return protoerr.New(protoerr.Install, protoerr.CodeMissingExecutable,
			"cannot link before executables are located")
	}

	entries := map[string]shim.Entry{
		t.ID: {},
	}
	if _, err := shim.Update(shimsDir, entries); err != nil {
		return protoerr.New(protoerr.IO, protoerr.CodeFilesystem, "updating shim registry").
			WithContext(t.ID).WithUnderlying(err)
	}

	if isDefault {
		if err := linkBinEntry(shimsDir, binDir, t.ID); err != nil {
			return err
		}
	}

	t.advance(eventLink)
	return nil
}

// linkBinEntry makes binDir/name a symlink to the shared shim binary
// under shimsDir, replacing any existing entry.
func linkBinEntry(shimsDir, binDir, name string) error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return protoerr.New(protoerr.IO, protoerr.CodeFilesystem, "creating bin directory").
			WithContext(binDir).WithUnderlying(err)
	}

	target := filepath.Join(shimsDir, ShimBinaryName)
	link := filepath.Join(binDir, name)

	_ = os.Remove(link)
	if err := os.Symlink(target, link); err != nil {
		return protoerr.New(protoerr.IO, protoerr.CodeFilesystem, "linking "+link+" to "+target).
			WithUnderlying(err)
	}
	return nil
}
