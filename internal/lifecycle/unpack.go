package lifecycle

import (
	"context"
	"os"
	"path/filepath"

	"github.com/moonrepo/protohost/internal/archive"
	"github.com/moonrepo/protohost/internal/protoerr"
	"github.com/moonrepo/protohost/internal/sandbox"
)

// Unpack extracts t's downloaded artifact into its install directory,
// per spec.md §4.6's Unpack transition. A native install has already
// placed its own files and is a no-op here.
func Unpack(ctx context.Context, t *Tool) error {
	if t.State().atLeast(Installed) {
		return nil
	}
	if !t.State().atLeast(Verified) {
		return protoerr.New(protoerr.Install, protoerr.CodeUnpackFailure,
			"cannot unpack before verification completes")
	}
	if t.NativeInstall {
		t.advance(eventUnpack)
		return nil
	}

	hasExport, err := t.Container.HasExport(ctx, "unpack_archive")
	if err != nil {
		return protoerr.WrapPluginCall(t.ID, "unpack_archive", err)
	}

	if hasExport {
		input := sandbox.UnpackArchiveInput{InputFile: t.DownloadFile, OutputDir: t.InstallDir}
		if err := t.Container.Call(ctx, "unpack_archive", input, nil); err != nil {
			os.RemoveAll(t.InstallDir)
			return protoerr.WrapPluginCall(t.ID, "unpack_archive", err)
		}
		t.advance(eventUnpack)
		return nil
	}

	if !archive.IsArchive(t.DownloadFile) {
		if err := installSingleFile(t); err != nil {
			return err
		}
		t.advance(eventUnpack)
		return nil
	}

	if t.ArchivePrefix == "" {
		if err := archive.Extract(t.DownloadFile, t.InstallDir); err != nil {
			os.RemoveAll(t.InstallDir)
			return protoerr.New(protoerr.Install, protoerr.CodeUnpackFailure,
				"extracting archive").WithContext(t.ID).WithUnderlying(err)
		}
		t.advance(eventUnpack)
		return nil
	}

	// archive_prefix names a subdirectory inside the archive to treat
	// as the install root: extract to a scratch directory, then move
	// that subtree's contents up into InstallDir.
	scratch := t.InstallDir + ".extract-scratch"
	os.RemoveAll(scratch)
	if err := archive.Extract(t.DownloadFile, scratch); err != nil {
		os.RemoveAll(scratch)
		return protoerr.New(protoerr.Install, protoerr.CodeUnpackFailure,
			"extracting archive").WithContext(t.ID).WithUnderlying(err)
	}
	defer os.RemoveAll(scratch)

	prefixed := filepath.Join(scratch, t.ArchivePrefix)
	if err := moveTree(prefixed, t.InstallDir); err != nil {
		os.RemoveAll(t.InstallDir)
		return protoerr.New(protoerr.Install, protoerr.CodeUnpackFailure,
			"applying archive_prefix "+t.ArchivePrefix).WithContext(t.ID).WithUnderlying(err)
	}

	t.advance(eventUnpack)
	return nil
}

// installSingleFile moves a non-archive download into the install
// directory under its own base name, marked executable, per spec.md
// §4.6: "Non-archive downloads are moved into the install directory
// under a canonical name and marked executable."
func installSingleFile(t *Tool) error {
	dest := filepath.Join(t.InstallDir, filepath.Base(t.DownloadFile))
	if err := os.Rename(t.DownloadFile, dest); err != nil {
		return protoerr.New(protoerr.Install, protoerr.CodeUnpackFailure,
			"installing "+t.DownloadFile).WithContext(t.ID).WithUnderlying(err)
	}
	if err := os.Chmod(dest, 0o755); err != nil {
		return protoerr.New(protoerr.Install, protoerr.CodeUnpackFailure,
			"marking "+dest+" executable").WithContext(t.ID).WithUnderlying(err)
	}
	return nil
}

// moveTree renames every entry directly under src into dst, creating
// dst if necessary.
func moveTree(src, dst string) error {
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return err
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		from := filepath.Join(src, entry.Name())
		to := filepath.Join(dst, entry.Name())
		if err := os.Rename(from, to); err != nil {
			return err
		}
	}
	return nil
}
