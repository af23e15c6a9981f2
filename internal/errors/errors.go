package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// ManifestNotFound indicates the Cargo.toml could not be read
	ManifestNotFound ErrorCode = "MANIFEST_NOT_FOUND"
	// ManifestInvalid indicates the Cargo.toml could not be decoded or lacks required keys
	ManifestInvalid ErrorCode = "MANIFEST_INVALID"
	// DocBuildFailed indicates cargo rustdoc exited unsuccessfully
	DocBuildFailed ErrorCode = "DOC_BUILD_FAILED"
	// ArtifactNotFound indicates the rustdoc JSON artifact could not be located
	ArtifactNotFound ErrorCode = "ARTIFACT_NOT_FOUND"
	// ArtifactInvalid indicates the rustdoc JSON artifact is malformed
	ArtifactInvalid ErrorCode = "ARTIFACT_INVALID"
	// DataIntegrity indicates an ID in the analysis result has no entry in the graph
	DataIntegrity ErrorCode = "DATA_INTEGRITY"
	// ConfigInvalid indicates a configuration value was rejected
	ConfigInvalid ErrorCode = "CONFIG_INVALID"
	// HistoryUnavailable indicates the run history store could not be used
	HistoryUnavailable ErrorCode = "HISTORY_UNAVAILABLE"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// FixActionType represents the type of fix action
type FixActionType string

const (
	// RunCommand suggests running a command
	RunCommand FixActionType = "run-command"
	// EditFile suggests editing a file
	EditFile FixActionType = "edit-file"
	// InstallTool suggests installing a tool
	InstallTool FixActionType = "install-tool"
)

// FixAction represents a suggested fix for an error
type FixAction struct {
	Type        FixActionType `json:"type"`
	Command     string        `json:"command,omitempty"`
	Path        string        `json:"path,omitempty"`
	Description string        `json:"description,omitempty"`
	Tool        string        `json:"tool,omitempty"`
}

// Error is a coded error carrying suggested fixes.
type Error struct {
	Code           ErrorCode   `json:"code"`
	Message        string      `json:"message"`
	Details        interface{} `json:"details,omitempty"`
	SuggestedFixes []FixAction `json:"suggestedFixes,omitempty"`
	cause          error
}

// New creates an Error. When fixes is nil the default fixes for code are attached.
func New(code ErrorCode, message string, cause error, fixes []FixAction) *Error {
	if fixes == nil {
		fixes = GetSuggestedFixes(code)
	}
	return &Error{
		Code:           code,
		Message:        message,
		cause:          cause,
		SuggestedFixes: fixes,
	}
}

// Newf creates an Error with a formatted message and the default fixes for code.
func Newf(code ErrorCode, cause error, format string, args ...interface{}) *Error {
	return New(code, fmt.Sprintf(format, args...), cause, nil)
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *Error) WithDetails(details interface{}) *Error {
	e.Details = details
	return e
}

// Code returns the code of the first *Error in err's chain, or "" if there is none.
func Code(err error) ErrorCode {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return ""
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	return Code(err) == code
}

// Fixes returns the suggested fixes of the first *Error in err's chain.
func Fixes(err error) []FixAction {
	var e *Error
	if stderrors.As(err, &e) {
		return e.SuggestedFixes
	}
	return nil
}

// Is and As forward to the standard library so callers need a single import.
func Is(err, target error) bool { return stderrors.Is(err, target) }

func As(err error, target interface{}) bool { return stderrors.As(err, target) }

// ErrorActions maps error codes to suggested fix actions
var ErrorActions = map[ErrorCode][]FixAction{
	ManifestNotFound: {
		{
			Type:        RunCommand,
			Command:     "pubcrates --manifest-path path/to/Cargo.toml",
			Description: "Point at the crate manifest explicitly",
		},
	},
	DocBuildFailed: {
		{
			Type:        InstallTool,
			Tool:        "rustup",
			Command:     "rustup toolchain install nightly",
			Description: "rustdoc JSON output requires a nightly toolchain",
		},
	},
	ArtifactNotFound: {
		{
			Type:        RunCommand,
			Command:     "pubcrates --doc-json target/doc/<crate>.json",
			Description: "Pass the rustdoc JSON artifact directly",
		},
	},
	ArtifactInvalid: {
		{
			Type:        RunCommand,
			Command:     "cargo +nightly rustdoc -- -Z unstable-options --output-format json",
			Description: "Regenerate the rustdoc JSON artifact",
		},
	},
	HistoryUnavailable: {
		{
			Type:        RunCommand,
			Command:     "pubcrates --record",
			Description: "Record a run in the history database",
		},
	},
	ConfigInvalid: {
		{
			Type:        EditFile,
			Path:        ".pubcrates/config.json",
			Description: "Fix the rejected configuration value",
		},
	},
}

// GetSuggestedFixes returns suggested fixes for an error code
func GetSuggestedFixes(code ErrorCode) []FixAction {
	if fixes, ok := ErrorActions[code]; ok {
		return fixes
	}
	return nil
}
