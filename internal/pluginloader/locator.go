// Package pluginloader resolves a PluginLocator (file, URL, GitHub, or
// OCI reference) to an on-disk WASM blob, caching by a stable hash of
// the locator with a 24-hour freshness window for mutable references,
// per SPEC_FULL.md §4.3.
package pluginloader

import (
	"fmt"
	"strings"
)

// Kind is the locator's source protocol.
type Kind string

const (
	KindFile   Kind = "file"
	KindURL    Kind = "url"
	KindGitHub Kind = "github"
	KindOCI    Kind = "oci"
)

// Locator identifies where to obtain a plugin's WASM blob.
type Locator struct {
	Kind Kind

	// Path is the filesystem path, for KindFile.
	Path string

	// URL is the HTTPS download URL, for KindURL.
	URL string

	// Owner/Repo/Tag/AssetPattern describe a GitHub release, for KindGitHub.
	Owner        string
	Repo         string
	Tag          string // empty means "latest non-prerelease"
	AssetPattern string

	// Registry/Namespace/Name/Ref describe an OCI reference, for KindOCI.
	Registry  string
	Namespace string
	Name      string
	Ref       string // tag or digest; empty means "latest"

	// raw is the original locator string, used as the cache key basis.
	raw string
}

// String returns the locator's canonical textual form (its cache-key basis).
func (l Locator) String() string { return l.raw }

// IsMutable reports whether this locator names a reference whose
// target can change over time (no explicit tag, or an alias tag like
// "latest"), which governs the 24-hour cache freshness window.
func (l Locator) IsMutable() bool {
	switch l.Kind {
	case KindGitHub:
		return l.Tag == "" || l.Tag == "latest"
	case KindOCI:
		return l.Ref == "" || l.Ref == "latest"
	case KindURL:
		return false
	case KindFile:
		return false
	default:
		return false
	}
}

// ParseLocator parses a locator string in one of the forms:
//
//	file:/abs/path/to/plugin.wasm
//	https://example.com/plugin.wasm   (or any .tar.gz/.zip archive URL)
//	github:owner/repo[@tag][#asset-pattern]
//	oci://registry/namespace/name[:tag]
//
// Grounded on SPEC_FULL.md §4.3's enumerated locator forms and on the
// example `"github:owner/repo@v1.0.0"` from §6's sample `.prototools`.
func ParseLocator(s string) (Locator, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Locator{}, fmt.Errorf("%w: empty locator", ErrInvalidLocator)
	}

	switch {
	case strings.HasPrefix(trimmed, "file:"):
		path := strings.TrimPrefix(trimmed, "file:")
		if path == "" {
			return Locator{}, fmt.Errorf("%w: file locator missing a path", ErrInvalidLocator)
		}
		return Locator{Kind: KindFile, Path: path, raw: trimmed}, nil

	case strings.HasPrefix(trimmed, "https://"), strings.HasPrefix(trimmed, "http://"):
		if strings.HasPrefix(trimmed, "http://") {
			return Locator{}, fmt.Errorf("%w: url locator must be https", ErrInvalidLocator)
		}
		return Locator{Kind: KindURL, URL: trimmed, raw: trimmed}, nil

	case strings.HasPrefix(trimmed, "github:"):
		return parseGitHubLocator(trimmed)

	case strings.HasPrefix(trimmed, "oci://"):
		return parseOCILocator(trimmed)

	default:
		return Locator{}, fmt.Errorf("%w: %q", ErrInvalidLocator, trimmed)
	}
}

func parseGitHubLocator(s string) (Locator, error) {
	body := strings.TrimPrefix(s, "github:")

	assetPattern := ""
	if idx := strings.Index(body, "#"); idx >= 0 {
		assetPattern = body[idx+1:]
		body = body[:idx]
	}

	tag := ""
	if idx := strings.Index(body, "@"); idx >= 0 {
		tag = body[idx+1:]
		body = body[:idx]
	}

	parts := strings.SplitN(body, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Locator{}, fmt.Errorf("%w: github locator must be owner/repo, got %q", ErrInvalidLocator, s)
	}

	return Locator{
		Kind:         KindGitHub,
		Owner:        parts[0],
		Repo:         parts[1],
		Tag:          tag,
		AssetPattern: assetPattern,
		raw:          s,
	}, nil
}

func parseOCILocator(s string) (Locator, error) {
	body := strings.TrimPrefix(s, "oci://")

	ref := ""
	if idx := strings.LastIndex(body, ":"); idx >= 0 {
		ref = body[idx+1:]
		body = body[:idx]
	}

	segments := strings.Split(body, "/")
	if len(segments) < 2 {
		return Locator{}, fmt.Errorf("%w: oci locator must be registry/namespace/name, got %q", ErrInvalidLocator, s)
	}

	registry := segments[0]
	name := segments[len(segments)-1]
	namespace := strings.Join(segments[1:len(segments)-1], "/")

	return Locator{
		Kind:      KindOCI,
		Registry:  registry,
		Namespace: namespace,
		Name:      name,
		Ref:       ref,
		raw:       s,
	}, nil
}
