package archive

import "errors"

// ErrNoWasmFound is returned by FindSingleWasm when an extracted
// archive contains zero or more than one `.wasm` file.
var ErrNoWasmFound = errors.New("no single .wasm module found in archive")
