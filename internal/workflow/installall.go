package workflow

import (
	"context"

	"github.com/moonrepo/protohost/internal/config"
	"github.com/moonrepo/protohost/internal/protoid"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentInstalls bounds how many tools InstallAll installs at
// once.
const maxConcurrentInstalls = 4

// InstallAll installs every tool named in merged's Tools map
// concurrently, each against its own plugin container, per spec.md's
// install-all operation. A failure on one tool does not cancel the
// others; every result (or error) is returned indexed by tool id.
func (e *Environment) InstallAll(ctx context.Context, merged config.Merged) (map[string]*InstallResult, map[string]error) {
	results := make(map[string]*InstallResult, len(merged.Tools))
	errs := make(map[string]error, len(merged.Tools))

	type outcome struct {
		id     string
		result *InstallResult
		err    error
	}
	outcomes := make(chan outcome, len(merged.Tools))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentInstalls)

	for toolID, spec := range merged.Tools {
		toolID, spec := toolID, spec
		g.Go(func() error {
			id, err := protoid.New(toolID)
			if err != nil {
				outcomes <- outcome{id: toolID, err: err}
				return nil
			}
			tc := merged.ToolConfigs[toolID]
			result, err := e.Install(gctx, id, spec, merged.Plugins, tc.Aliases, tc.Env, true)
			outcomes <- outcome{id: toolID, result: result, err: err}
			return nil
		})
	}

	_ = g.Wait()
	close(outcomes)

	for o := range outcomes {
		if o.err != nil {
			errs[o.id] = o.err
			continue
		}
		results[o.id] = o.result
	}

	return results, errs
}
