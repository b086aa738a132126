package checksum

import "errors"

// ErrMismatch is returned when a computed hash does not match the
// checksum manifest's recorded value. Maps to protoerr.CodeChecksumMismatch.
var ErrMismatch = errors.New("checksum mismatch")

// ErrInvalidSignature is returned when a minisign signature fails to
// verify against the artifact and public key.
var ErrInvalidSignature = errors.New("minisign signature invalid")
