package errcodes

import (
	"fmt"
	"strings"
)

// Kind groups errors by how the operator is expected to react to them.
type Kind int

const (
	// KindInput covers missing files, missing arguments, malformed manifests and
	// absent credentials.
	KindInput Kind = iota + 1
	// KindMatch covers expected catalog records that could not be found or
	// updates that produced no change.
	KindMatch
	// KindRemote covers failures reported by the remote storage service.
	KindRemote
)

type Error struct {
	Kind    Kind
	Message string
	Code    string
}

func (err *Error) Error() string {
	return err.Message
}

func (err *Error) As(target interface{}) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	te.Kind = err.Kind
	te.Message = err.Message
	te.Code = err.Code
	return true
}

func (err *Error) Is(target error) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	return te.Kind == err.Kind &&
		te.Message == err.Message &&
		te.Code == err.Code
}

// MissingFile returns an input error for a required file that couldn't be read.
func MissingFile(path string) error {
	return &Error{
		KindInput,
		fmt.Sprintf("Required file %q not found.", path),
		"missing_file",
	}
}

// MissingArgument returns an input error for a required flag or argument.
func MissingArgument(name string) error {
	return &Error{
		KindInput,
		fmt.Sprintf("Missing required argument %q.", name),
		"missing_argument",
	}
}

func MalformedManifest(path, reason string) error {
	return &Error{
		KindInput,
		fmt.Sprintf("Manifest %q is malformed: %s", path, reason),
		"malformed_manifest",
	}
}

func ValidationError(msg string) error {
	return &Error{
		KindInput,
		msg,
		"validation_error",
	}
}

func InvalidConfig(msg string) error {
	return &Error{
		KindInput,
		"Invalid config: " + msg,
		"invalid_config",
	}
}

// NoManifests is returned by batch modes that need at least one confirmed
// upload manifest.
func NoManifests(dir string) error {
	return &Error{
		KindInput,
		fmt.Sprintf("No uploaded manifests found in %s", dir),
		"no_manifests",
	}
}

func MissingCredentials(names ...string) error {
	return &Error{
		KindInput,
		"Missing storage credentials: " + strings.Join(names, " / "),
		"missing_credentials",
	}
}

// NotMatched returns a matching error for a subject with no catalog record.
func NotMatched(subject string) error {
	return &Error{
		KindMatch,
		fmt.Sprintf("Model block not found for name: %s", subject),
		"not_matched",
	}
}

// NoChange returns a matching error for an update that left the record
// textually unchanged.
func NoChange(subject string) error {
	return &Error{
		KindMatch,
		fmt.Sprintf("No changes applied for model: %s", subject),
		"no_change",
	}
}

// Remote returns an error for a non-recoverable storage service response.
func Remote(op string, status int, msg string) error {
	return &Error{
		KindRemote,
		fmt.Sprintf("Storage %s failed (HTTP %d): %s", op, status, msg),
		"remote_error",
	}
}
