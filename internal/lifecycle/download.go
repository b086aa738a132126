package lifecycle

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/moonrepo/protohost/internal/httpclient"
	"github.com/moonrepo/protohost/internal/protoerr"
	"github.com/moonrepo/protohost/internal/sandbox"
)

// Download fetches t's artifact into installDir/tempDir, preferring a
// native_install export when the plugin provides one, per spec.md
// §4.6's Download transition. env is the scoped environment passed to
// whichever export handles the install.
func Download(ctx context.Context, t *Tool, installDir, tempDir string, env map[string]string, client *httpclient.Client) error {
	if t.State().atLeast(Downloaded) {
		return nil
	}
	if !t.State().atLeast(Resolved) {
		return protoerr.New(protoerr.Install, protoerr.CodeDownloadFailure,
			"cannot download before a version is resolved")
	}

	t.InstallDir = installDir
	if err := os.MkdirAll(installDir, 0o755); err != nil {
		return protoerr.New(protoerr.IO, protoerr.CodeFilesystem, "creating install directory").
			WithContext(installDir).WithUnderlying(err)
	}

	hasNative, err := t.Container.HasExport(ctx, "native_install")
	if err != nil {
		return protoerr.WrapPluginCall(t.ID, "native_install", err)
	}

	if hasNative {
		var out sandbox.NativeInstallOutput
		input := sandbox.NativeInstallInput{InstallDir: installDir, Env: env}
		if err := t.Container.Call(ctx, "native_install", input, &out); err != nil {
			return protoerr.WrapPluginCall(t.ID, "native_install", err)
		}
		if out.Error != "" {
			return protoerr.New(protoerr.Install, protoerr.CodeDownloadFailure, out.Error).WithContext(t.ID)
		}
		if !out.Installed && !out.SkipInstall {
			return protoerr.New(protoerr.Install, protoerr.CodeDownloadFailure,
				"native_install reported neither installed nor skip_install").WithContext(t.ID)
		}

		t.NativeInstall = true
		t.advance(eventDownload)
		return nil
	}

	var prebuilt sandbox.DownloadPrebuiltOutput
	input := sandbox.DownloadPrebuiltInput{InstallDir: installDir, Env: env}
	if err := t.Container.Call(ctx, "download_prebuilt", input, &prebuilt); err != nil {
		return protoerr.WrapPluginCall(t.ID, "download_prebuilt", err)
	}
	if prebuilt.DownloadURL == "" {
		return protoerr.New(protoerr.Install, protoerr.CodeDownloadFailure,
			"download_prebuilt returned no download_url").WithContext(t.ID)
	}

	name := prebuilt.DownloadName
	if name == "" {
		name = filepath.Base(prebuilt.DownloadURL)
	}
	downloadPath := filepath.Join(tempDir, name)

	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return protoerr.New(protoerr.IO, protoerr.CodeFilesystem, "creating temp directory").
			WithContext(tempDir).WithUnderlying(err)
	}

	fetchErr := downloadWithRetry(ctx, func(ctx context.Context) error {
		return client.DownloadResumable(ctx, prebuilt.DownloadURL, downloadPath)
	})
	if fetchErr != nil {
		removePartial(downloadPath)
		return protoerr.New(protoerr.Install, protoerr.CodeDownloadFailure,
			fmt.Sprintf("downloading %s", prebuilt.DownloadURL)).WithContext(t.ID).WithUnderlying(fetchErr)
	}

	t.DownloadURL = prebuilt.DownloadURL
	t.DownloadFile = downloadPath
	t.ArchivePrefix = prebuilt.ArchivePrefix
	t.PublicKey = prebuilt.ChecksumPublicKey

	if prebuilt.ChecksumURL != "" {
		checksumName := filepath.Base(prebuilt.ChecksumURL)
		checksumPath := filepath.Join(tempDir, checksumName)

		checksumErr := downloadWithRetry(ctx, func(ctx context.Context) error {
			return client.DownloadResumable(ctx, prebuilt.ChecksumURL, checksumPath)
		})
		if checksumErr != nil {
			removePartial(checksumPath)
			removePartial(downloadPath)
			return protoerr.New(protoerr.Install, protoerr.CodeDownloadFailure,
				fmt.Sprintf("downloading checksum manifest %s", prebuilt.ChecksumURL)).
				WithContext(t.ID).WithUnderlying(checksumErr)
		}
		t.ChecksumFile = checksumPath
		t.ChecksumURL = prebuilt.ChecksumURL
	}

	t.advance(eventDownload)
	return nil
}

// removePartial discards a possibly-incomplete download and its
// ".part" sibling, per spec.md §4.6's cancellation guarantee ("partial
// downloads and partial unpacks are removed").
func removePartial(path string) {
	_ = os.Remove(path)
	_ = os.Remove(path + ".part")
}
