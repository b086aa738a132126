package lifecycle

import (
	"context"

	"github.com/moonrepo/protohost/internal/protoerr"
	"github.com/moonrepo/protohost/internal/sandbox"
	"github.com/moonrepo/protohost/internal/version"
)

// Resolve determines the concrete version t should install for
// requested, per spec.md §4.6's Resolve transition. userAliases are
// the user-defined aliases recorded in the tool's manifest/config,
// which win over the plugin's own aliases on conflict. offline skips
// the load_versions network round trip entirely when requested is
// already exact (a pinned version or alias needs no candidate search);
// a non-exact requirement while offline is fatal.
func Resolve(ctx context.Context, t *Tool, requested version.UnresolvedSpec, userAliases map[string]string, offline bool) error {
	if t.State().atLeast(Resolved) {
		return nil
	}
	if !t.State().atLeast(Loaded) {
		return protoerr.New(protoerr.Version, protoerr.CodeVersionResolveFailure,
			"cannot resolve a version before the tool is loaded")
	}

	t.Requested = requested

	if offline && !requested.IsExact() {
		return protoerr.New(protoerr.Version, protoerr.CodeInternetRequired,
			"resolving "+requested.String()+" requires network access").
			WithContext(t.ID)
	}

	if offline && requested.IsExact() {
		t.Resolved = requested.Spec
		t.advance(eventResolve)
		return nil
	}

	var loaded sandbox.LoadVersionsOutput
	if err := t.Container.Call(ctx, "load_versions", sandbox.LoadVersionsInput{Initial: requested.String()}, &loaded); err != nil {
		return protoerr.WrapPluginCall(t.ID, "load_versions", err)
	}

	aliases := make(map[string]string, len(loaded.Aliases)+len(userAliases))
	for name, target := range loaded.Aliases {
		aliases[name] = target
	}
	for name, target := range userAliases {
		aliases[name] = target
	}

	candidates := make([]version.Spec, 0, len(loaded.Versions))
	for _, raw := range loaded.Versions {
		spec, err := version.Parse(raw)
		if err != nil {
			return protoerr.New(protoerr.Version, protoerr.CodeInvalidVersionSpec,
				"plugin "+t.ID+" returned an unparsable version: "+raw).WithUnderlying(err)
		}
		candidates = append(candidates, spec)
	}

	aliasLookup := func(alias string) (version.Spec, bool) {
		target, ok := aliases[alias]
		if !ok {
			return version.Spec{}, false
		}
		spec, err := version.Parse(target)
		if err != nil {
			return version.Spec{}, false
		}
		return spec, true
	}

	resolved, err := version.PickBest(requested, candidates, aliasLookup)
	if err != nil {
		return protoerr.New(protoerr.Version, protoerr.CodeVersionResolveFailure,
			"no available candidate satisfies "+requested.String()+" for "+t.ID).
			WithUnderlying(err)
	}

	if hasOverride, err := t.Container.HasExport(ctx, "resolve_version"); err != nil {
		return protoerr.WrapPluginCall(t.ID, "resolve_version", err)
	} else if hasOverride {
		var override sandbox.ResolveVersionOutput
		if err := t.Container.Call(ctx, "resolve_version", sandbox.ResolveVersionInput{Initial: requested.String()}, &override); err != nil {
			return protoerr.WrapPluginCall(t.ID, "resolve_version", err)
		}
		if override.Version != "" {
			overridden, err := version.Parse(override.Version)
			if err != nil {
				return protoerr.New(protoerr.Version, protoerr.CodeInvalidVersionSpec,
					"plugin "+t.ID+" resolve_version returned an unparsable version: "+override.Version).
					WithUnderlying(err)
			}
			resolved = overridden
		}
	}

	t.Resolved = resolved
	t.advance(eventResolve)
	return nil
}
