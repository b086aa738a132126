package pluginloader

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/moonrepo/protohost/internal/archive"
	"github.com/moonrepo/protohost/internal/httpclient"
)

// freshnessWindow is how long a cached mutable reference is trusted
// before the loader re-resolves it, per SPEC_FULL.md §4.3.
const freshnessWindow = 24 * time.Hour

// Loader resolves locators to on-disk `.wasm` paths, caching results
// under pluginsDir by a stable hash of the locator string.
type Loader struct {
	pluginsDir string
	tempDir    string
	http       *httpclient.Client
}

// New constructs a Loader. pluginsDir and tempDir are the store's
// `plugins/` and `temp/` directories (internal/store.Store).
func New(pluginsDir, tempDir string, client *httpclient.Client) *Loader {
	return &Loader{pluginsDir: pluginsDir, tempDir: tempDir, http: client}
}

// CacheKey hashes a locator's canonical string, per §4.3's "caches by
// a stable hash of the locator."
func CacheKey(loc Locator) string {
	sum := sha256.Sum256([]byte(loc.String()))
	return hex.EncodeToString(sum[:])
}

func (l *Loader) cachedPath(loc Locator) string {
	return filepath.Join(l.pluginsDir, CacheKey(loc)+".wasm")
}

// Resolve returns the on-disk path to loc's WASM module, fetching and
// caching it if necessary. Pinned references are reused indefinitely;
// mutable references are re-checked once the freshness window lapses.
func (l *Loader) Resolve(ctx context.Context, loc Locator) (string, error) {
	cached := l.cachedPath(loc)

	if info, err := os.Stat(cached); err == nil {
		if !loc.IsMutable() || time.Since(info.ModTime()) < freshnessWindow {
			return cached, nil
		}
	}

	if err := os.MkdirAll(l.pluginsDir, 0o755); err != nil {
		return "", fmt.Errorf("creating plugins directory: %w", err)
	}

	switch loc.Kind {
	case KindFile:
		return l.resolveFile(loc)
	case KindURL:
		return l.resolveURL(ctx, loc, cached)
	case KindGitHub:
		return l.resolveGitHub(ctx, loc, cached)
	case KindOCI:
		return l.resolveOCI(loc, cached)
	default:
		return "", fmt.Errorf("%w: unknown locator kind %q", ErrInvalidLocator, loc.Kind)
	}
}

func (l *Loader) resolveFile(loc Locator) (string, error) {
	if _, err := os.Stat(loc.Path); err != nil {
		return "", fmt.Errorf("%w: %s", ErrSourceFileMissing, loc.Path)
	}
	return loc.Path, nil
}

func (l *Loader) resolveURL(ctx context.Context, loc Locator, cached string) (string, error) {
	if !archive.IsArchive(loc.URL) && filepath.Ext(loc.URL) != ".wasm" {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedExtension, loc.URL)
	}

	downloadPath := filepath.Join(l.tempDir, CacheKey(loc)+filepath.Ext(loc.URL))
	if err := os.MkdirAll(l.tempDir, 0o755); err != nil {
		return "", fmt.Errorf("creating temp directory: %w", err)
	}
	if err := l.http.DownloadResumable(ctx, loc.URL, downloadPath); err != nil {
		return "", fmt.Errorf("downloading plugin from %s: %w", loc.URL, err)
	}

	return l.materializeWasm(downloadPath, cached)
}

func (l *Loader) resolveGitHub(ctx context.Context, loc Locator, cached string) (string, error) {
	releases, err := fetchReleases(ctx, l.http, loc.Owner, loc.Repo)
	if err != nil {
		return "", err
	}
	release, err := selectRelease(releases, loc.Tag)
	if err != nil {
		return "", err
	}
	asset, err := selectAsset(release, loc.AssetPattern)
	if err != nil {
		return "", err
	}

	downloadPath := filepath.Join(l.tempDir, CacheKey(loc)+filepath.Ext(asset.Name))
	if err := os.MkdirAll(l.tempDir, 0o755); err != nil {
		return "", fmt.Errorf("creating temp directory: %w", err)
	}
	if err := l.http.DownloadResumable(ctx, asset.BrowserDownloadURL, downloadPath); err != nil {
		return "", fmt.Errorf("downloading asset %s: %w", asset.Name, err)
	}

	return l.materializeWasm(downloadPath, cached)
}

func (l *Loader) resolveOCI(loc Locator, cached string) (string, error) {
	if err := fetchOCIWasm(loc, cached); err != nil {
		return "", err
	}
	return cached, nil
}

// materializeWasm turns a downloaded artifact (raw .wasm or an
// archive containing exactly one) into the cache entry at cached.
func (l *Loader) materializeWasm(downloadPath, cached string) (string, error) {
	if !archive.IsArchive(downloadPath) {
		if err := os.Rename(downloadPath, cached); err != nil {
			return "", fmt.Errorf("caching %s: %w", cached, err)
		}
		return cached, nil
	}

	extractDir := downloadPath + ".extracted"
	if err := archive.Extract(downloadPath, extractDir); err != nil {
		return "", fmt.Errorf("extracting plugin archive: %w", err)
	}
	defer os.RemoveAll(extractDir)
	defer os.Remove(downloadPath)

	wasmPath, err := archive.FindSingleWasm(extractDir)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(wasmPath)
	if err != nil {
		return "", fmt.Errorf("reading extracted wasm %s: %w", wasmPath, err)
	}
	if err := os.WriteFile(cached, data, 0o644); err != nil {
		return "", fmt.Errorf("caching %s: %w", cached, err)
	}
	return cached, nil
}
