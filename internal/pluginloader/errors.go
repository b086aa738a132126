package pluginloader

import "errors"

var (
	// ErrInvalidLocator maps to protoerr.CodeLocatorInvalid.
	ErrInvalidLocator = errors.New("invalid plugin locator")
	// ErrSourceFileMissing maps to protoerr.CodeSourceFileMissing.
	ErrSourceFileMissing = errors.New("plugin source file does not exist")
	// ErrGitHubNoAsset maps to protoerr.CodeGitHubNoAsset.
	ErrGitHubNoAsset = errors.New("no release asset matches this host platform")
	// ErrUnsupportedExtension is returned when a downloaded URL's file
	// extension is not a recognized WASM or archive format.
	ErrUnsupportedExtension = errors.New("unrecognized file extension for plugin download")
	// ErrNoWasmLayer is returned when an OCI image has no layer tagged
	// with the WASM media type.
	ErrNoWasmLayer = errors.New("no layer with wasm media type in image")
)
