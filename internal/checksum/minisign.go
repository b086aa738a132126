package checksum

import (
	"fmt"
	"os"

	"github.com/jedisct1/go-minisign"
)

// VerifyMinisign verifies downloadFile's signature (stored in
// sigFile, minisign's ".minisig"/".minisign" format) against
// publicKeyBase64. Grounded on
// original_source/crates/core/src/checksum/minisign.rs's
// `verify_checksum`, which performs the identical three-step
// decode-key / decode-signature / verify sequence against the
// `minisign_verify` Rust crate.
func VerifyMinisign(downloadFile, sigFile, publicKeyBase64 string) error {
	pk, err := minisign.NewPublicKey(publicKeyBase64)
	if err != nil {
		return fmt.Errorf("decoding minisign public key: %w", err)
	}

	sigBytes, err := os.ReadFile(sigFile)
	if err != nil {
		return fmt.Errorf("reading signature file %s: %w", sigFile, err)
	}
	sig, err := minisign.DecodeSignature(string(sigBytes))
	if err != nil {
		return fmt.Errorf("decoding minisign signature: %w", err)
	}

	data, err := os.ReadFile(downloadFile)
	if err != nil {
		return fmt.Errorf("reading artifact %s: %w", downloadFile, err)
	}

	valid, err := pk.Verify(data, sig)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	if !valid {
		return ErrInvalidSignature
	}
	return nil
}
