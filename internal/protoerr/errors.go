// Package protoerr provides the tagged, user-facing error type used
// throughout the module. Every error carries a machine-readable Kind
// and Code, a one-line human Message, optional Context/Suggestion, and
// an optional wrapped Underlying error.
//
// Adapted from the teacher's internal/domain/config.UserError /
// ErrorList (felixgeelhaar-preflight), generalized from its
// config-specific error codes to spec.md §7's five-kind taxonomy
// (Configuration, Version, Plugin, Install, IO).
package protoerr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind is the top-level error taxonomy from spec.md §7.
type Kind string

const (
	Configuration Kind = "configuration"
	Version       Kind = "version"
	Plugin        Kind = "plugin"
	Install       Kind = "install"
	IO            Kind = "io"
)

// Well-known codes within each Kind.
const (
	CodeConfigNotFound   = "CONFIG_NOT_FOUND"
	CodeConfigParse      = "CONFIG_PARSE"
	CodeUnknownPluginID  = "UNKNOWN_PLUGIN_ID"
	CodeReservedPluginID = "RESERVED_PLUGIN_ID"
	CodeLockfileExists   = "LOCKFILE_ALREADY_EXISTS"
	CodeEnvFileMissing   = "ENV_FILE_MISSING"
	CodeDependentShims   = "DEPENDENT_SHIMS"

	CodeInvalidVersionSpec    = "INVALID_VERSION_SPEC"
	CodeUnresolvedRequirement = "UNRESOLVED_REQUIREMENT"
	CodeInternetRequired      = "REQUIRED_INTERNET_CONNECTION_FOR_VERSION"
	CodeVersionDetectFailure  = "FAILED_VERSION_DETECT"
	CodeCalendarFormatInvalid = "INVALID_CALENDAR_FORMAT"
	CodeVersionResolveFailure = "FAILED_VERSION_RESOLVE"

	CodeLocatorInvalid        = "INVALID_LOCATOR"
	CodeSourceFileMissing     = "MISSING_SOURCE_FILE"
	CodeGitHubNoAsset         = "GITHUB_NO_ASSET"
	CodeNoWasmInArchive       = "NO_WASM_FOUND"
	CodeIncompatibleRuntime   = "INCOMPATIBLE_RUNTIME"
	CodeFunctionCallFailure   = "PLUGIN_FUNCTION_CALL_FAILURE"
	CodeInvalidPluginJSON     = "INVALID_PLUGIN_JSON"
	CodeMissingCommand        = "MISSING_COMMAND"
	CodeUnsupportedHostTriple = "UNSUPPORTED_HOST_TRIPLE"

	CodeDownloadFailure   = "DOWNLOAD_FAILURE"
	CodeChecksumMismatch  = "MISMATCHED_CHECKSUM"
	CodeUnpackFailure     = "UNPACK_FAILURE"
	CodeMissingExecutable = "MISSING_TOOL_EXECUTABLE"
	CodeLockfileMismatch  = "LOCKFILE_MISMATCH"

	CodeFilesystem = "IO_FILESYSTEM"
	CodeSerde      = "IO_SERDE"
	CodeArchive    = "IO_ARCHIVE"
)

// Error is the tagged, user-facing error type.
type Error struct {
	Kind       Kind
	Code       string
	Message    string
	Context    string
	Suggestion string
	Underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Context != "" {
		fmt.Fprintf(&b, " (at %s)", e.Context)
	}
	return b.String()
}

// Unwrap supports errors.Is/As over the wrapped cause.
func (e *Error) Unwrap() error {
	return e.Underlying
}

// Is compares errors by Kind and Code so sentinel-style matching works
// with errors.Is against a template Error (Context/Message/Underlying
// need not match).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

// Format returns a fully detailed rendering, including suggestion.
func (e *Error) Format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s/%s] %s", e.Kind, e.Code, e.Message)
	if e.Context != "" {
		fmt.Fprintf(&b, "\n  Location: %s", e.Context)
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&b, "\n  Suggestion: %s", e.Suggestion)
	}
	return b.String()
}

// New constructs an Error with no context, suggestion, or underlying cause.
func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// WithContext returns a copy of e with Context set.
func (e *Error) WithContext(ctx string) *Error {
	cp := *e
	cp.Context = ctx
	return &cp
}

// WithSuggestion returns a copy of e with Suggestion set.
func (e *Error) WithSuggestion(s string) *Error {
	cp := *e
	cp.Suggestion = s
	return &cp
}

// WithUnderlying returns a copy of e wrapping err.
func (e *Error) WithUnderlying(err error) *Error {
	cp := *e
	cp.Underlying = err
	return &cp
}

// Of extracts the *Error from err's chain, if present.
func Of(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// WrapPluginCall wraps err with the plugin id and function name it
// occurred in, per spec.md §7's propagation policy ("errors inside a
// plugin call are wrapped with the plugin id and the function name;
// inner diagnostics are preserved").
func WrapPluginCall(pluginID, function string, err error) *Error {
	return &Error{
		Kind:       Plugin,
		Code:       CodeFunctionCallFailure,
		Message:    fmt.Sprintf("plugin %q export %q failed", pluginID, function),
		Underlying: err,
	}
}
