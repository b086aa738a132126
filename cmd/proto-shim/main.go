// Package main is the single native shim binary every generated bin
// entry and shim-registry entry ultimately points at, per spec.md
// §4.7: "The shim itself is written once per host (a small native
// binary, not per tool)." It never starts the WASM plugin runtime —
// argv[0] names the shim to resolve, internal/shim and
// internal/workflow's ExecShim do a minimal Config -> Inventory ->
// exec dispatch, and the child's exit code (or this process's own 1 on
// a resolution error, printed without a partial exec) becomes ours.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/moonrepo/protohost/internal/config"
	"github.com/moonrepo/protohost/internal/httpclient"
	"github.com/moonrepo/protohost/internal/protoerr"
	"github.com/moonrepo/protohost/internal/shim"
	"github.com/moonrepo/protohost/internal/store"
	"github.com/moonrepo/protohost/internal/workflow"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx := context.Background()

	name := shim.ProgramName(os.Args[0])

	st, err := store.Detect()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	home, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	env := &workflow.Environment{
		Store:   st,
		HTTP:    httpclient.NewFromEnv(),
		Loader:  config.NewLoader(),
		Cwd:     cwd,
		HomeDir: home,
	}

	code, err := env.ExecShim(ctx, name, os.Args[1:], nil)
	if err != nil {
		if perr, ok := protoerr.Of(err); ok {
			fmt.Fprintln(os.Stderr, perr.Format())
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		return 1
	}
	return code
}
