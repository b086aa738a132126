package sandbox

// Typed input/output structs for the plugin export contract of
// spec.md §4.4's table. internal/lifecycle calls Container.Call with
// these; only register_tool is mandatory, every other export is
// optional and a missing one surfaces as ErrExportNotFound.

// RegisterToolInput is register_tool's input.
type RegisterToolInput struct {
	ID   string       `json:"id"`
	Host RegisterHost `json:"host"`
}

// RegisterHost describes the host running the plugin.
type RegisterHost struct {
	Arch string `json:"arch"`
	OS   string `json:"os"`
	Libc string `json:"libc,omitempty"`
	Home string `json:"home"`
}

// RegisterToolOutput is register_tool's output.
type RegisterToolOutput struct {
	Name                  string `json:"name"`
	Type                  string `json:"type"`
	DefaultVersion        string `json:"default_version,omitempty"`
	Inventory             string `json:"inventory,omitempty"`
	MinimumRuntimeVersion int    `json:"minimum_runtime_version,omitempty"`
}

// DetectVersionFilesOutput is detect_version_files' output.
type DetectVersionFilesOutput struct {
	Files  []string `json:"files"`
	Ignore []string `json:"ignore"`
}

// ParseVersionFileInput is parse_version_file's input.
type ParseVersionFileInput struct {
	File    string `json:"file"`
	Content string `json:"content"`
}

// ParseVersionFileOutput is parse_version_file's output.
type ParseVersionFileOutput struct {
	Version string `json:"version,omitempty"`
}

// LoadVersionsInput is load_versions' input.
type LoadVersionsInput struct {
	Initial string `json:"initial"`
}

// LoadVersionsOutput is load_versions' output.
type LoadVersionsOutput struct {
	Latest   string            `json:"latest,omitempty"`
	Aliases  map[string]string `json:"aliases"`
	Versions []string          `json:"versions"`
	Canary   string            `json:"canary,omitempty"`
}

// ResolveVersionInput is resolve_version's input.
type ResolveVersionInput struct {
	Initial string `json:"initial"`
}

// ResolveVersionOutput is resolve_version's output.
type ResolveVersionOutput struct {
	Version   string `json:"version,omitempty"`
	Candidate string `json:"candidate,omitempty"`
}

// DownloadPrebuiltInput is download_prebuilt's input.
type DownloadPrebuiltInput struct {
	InstallDir string            `json:"install_dir"`
	Env        map[string]string `json:"env"`
}

// DownloadPrebuiltOutput is download_prebuilt's output.
type DownloadPrebuiltOutput struct {
	DownloadURL       string `json:"download_url"`
	DownloadName      string `json:"download_name,omitempty"`
	ChecksumURL       string `json:"checksum_url,omitempty"`
	ChecksumPublicKey string `json:"checksum_public_key,omitempty"`
	ArchivePrefix     string `json:"archive_prefix,omitempty"`
}

// NativeInstallInput is native_install's and native_uninstall's input.
type NativeInstallInput struct {
	InstallDir string            `json:"install_dir"`
	Env        map[string]string `json:"env"`
}

// NativeInstallOutput is native_install's and native_uninstall's output.
type NativeInstallOutput struct {
	Installed   bool   `json:"installed"`
	SkipInstall bool   `json:"skip_install,omitempty"`
	Error       string `json:"error,omitempty"`
}

// VerifyChecksumInput is verify_checksum's input.
type VerifyChecksumInput struct {
	DownloadFile string `json:"download_file"`
	ChecksumFile string `json:"checksum_file"`
	Checksum     string `json:"checksum"`
}

// VerifyChecksumOutput is verify_checksum's output.
type VerifyChecksumOutput struct {
	Verified bool `json:"verified"`
}

// UnpackArchiveInput is unpack_archive's input; it has no output.
type UnpackArchiveInput struct {
	InputFile string `json:"input_file"`
	OutputDir string `json:"output_dir"`
}

// LocateExecutablesInput is locate_executables' input.
type LocateExecutablesInput struct {
	InstallDir string `json:"install_dir"`
}

// LocateExecutablesOutput is locate_executables' output.
type LocateExecutablesOutput struct {
	Primary           string   `json:"primary,omitempty"`
	Secondary         string   `json:"secondary,omitempty"`
	GlobalsLookupDirs []string `json:"globals_lookup_dirs"`
	GlobalsPrefix     string   `json:"globals_prefix,omitempty"`
}

// HookInput is the shared shape of pre_install/post_install/pre_run's
// hook context input.
type HookInput struct {
	Env map[string]string `json:"env"`
}

// HookOutput is the shared shape of pre_install/post_install/pre_run's
// optional env mutation output.
type HookOutput struct {
	Env map[string]string `json:"env,omitempty"`
}
