package lifecycle

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/moonrepo/protohost/internal/checksum"
	"github.com/moonrepo/protohost/internal/lockfile"
	"github.com/moonrepo/protohost/internal/protoerr"
	"github.com/moonrepo/protohost/internal/sandbox"
)

// Verify checks t's downloaded artifact against its checksum manifest
// (or the plugin's own verify_checksum export), and against the
// lockfile's recorded checksum when one exists, per spec.md §4.6's
// Verify transition. Native installs skip verification entirely: the
// plugin owns that artifact's integrity.
func Verify(ctx context.Context, t *Tool, lf *lockfile.Lockfile) error {
	if t.State().atLeast(Verified) {
		return nil
	}
	if !t.State().atLeast(Downloaded) {
		return protoerr.New(protoerr.Install, protoerr.CodeChecksumMismatch,
			"cannot verify before a download completes")
	}
	if t.NativeInstall {
		t.advance(eventVerify)
		return nil
	}

	hasExport, err := t.Container.HasExport(ctx, "verify_checksum")
	if err != nil {
		return protoerr.WrapPluginCall(t.ID, "verify_checksum", err)
	}

	var actualHash string
	algorithm := checksum.SHA256

	if hasExport {
		var out sandbox.VerifyChecksumOutput
		input := sandbox.VerifyChecksumInput{
			DownloadFile: t.DownloadFile,
			ChecksumFile: t.ChecksumFile,
			Checksum:     recordedChecksum(lf, t),
		}
		if err := t.Container.Call(ctx, "verify_checksum", input, &out); err != nil {
			return protoerr.WrapPluginCall(t.ID, "verify_checksum", err)
		}
		if !out.Verified {
			return protoerr.New(protoerr.Install, protoerr.CodeChecksumMismatch,
				"plugin rejected the downloaded artifact's checksum").WithContext(t.ID)
		}
	} else if t.ChecksumFile != "" {
		if err := verifyDefault(t, &algorithm, &actualHash); err != nil {
			return err
		}
	}

	if actualHash == "" && t.ChecksumFile != "" {
		if a, ok := checksum.AlgorithmFromExtension(t.ChecksumFile); ok {
			algorithm = a
		}
		if hash, err := checksum.Calculate(t.DownloadFile, algorithm); err == nil {
			actualHash = hash
		}
	}

	if actualHash != "" {
		expected := lockfile.NewChecksum(string(algorithm), actualHash)
		t.Checksum = string(expected)
		if rec, ok := lf.Find(t.ID, t.Resolved.String()); ok && rec.Checksum != "" {
			if !strings.EqualFold(string(expected), rec.Checksum) {
				return protoerr.New(protoerr.Install, protoerr.CodeChecksumMismatch,
					"downloaded artifact does not match the checksum recorded in the lockfile").
					WithContext(t.ID)
			}
		}
	}

	t.advance(eventVerify)
	return nil
}

func verifyDefault(t *Tool, algorithm *checksum.Algorithm, actualHash *string) error {
	lower := strings.ToLower(t.ChecksumFile)
	switch {
	case strings.HasSuffix(lower, ".minisig"), strings.HasSuffix(lower, ".minisign"):
		if err := checksum.VerifyMinisign(t.DownloadFile, t.ChecksumFile, t.PublicKey); err != nil {
			return protoerr.New(protoerr.Install, protoerr.CodeChecksumMismatch,
				"minisign signature verification failed").WithContext(t.ID).WithUnderlying(err)
		}
		return nil
	default:
		a, ok := checksum.AlgorithmFromExtension(t.ChecksumFile)
		if !ok {
			a = checksum.SHA256
		}
		*algorithm = a
		downloadName := ""
		if t.DownloadFile != "" {
			downloadName = filepath.Base(t.DownloadFile)
		}
		if err := checksum.VerifyManifest(t.DownloadFile, t.ChecksumFile, downloadName, a); err != nil {
			return protoerr.New(protoerr.Install, protoerr.CodeChecksumMismatch,
				"downloaded artifact failed checksum verification").WithContext(t.ID).WithUnderlying(err)
		}
		hash, err := checksum.Calculate(t.DownloadFile, a)
		if err == nil {
			*actualHash = hash
		}
		return nil
	}
}

func recordedChecksum(lf *lockfile.Lockfile, t *Tool) string {
	rec, ok := lf.Find(t.ID, t.Resolved.String())
	if !ok {
		return ""
	}
	return rec.Checksum
}
