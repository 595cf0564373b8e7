package errcodes

import (
	"context"

	"github.com/iancoleman/strcase"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

const (
	ExitOK       = 0
	ExitInternal = 1
	ExitInput    = 2
	ExitMatch    = 3
	ExitRemote   = 4
)

var kindNames = map[Kind]string{
	KindInput:  "InputError",
	KindMatch:  "MatchingError",
	KindRemote: "RemoteError",
}

// ExitCode maps an error to the process exit code. Errors that aren't custom
// errors are treated as internal failures.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var e *Error
	if !errors.As(err, &e) {
		return ExitInternal
	}

	switch e.Kind {
	case KindInput:
		return ExitInput
	case KindMatch:
		return ExitMatch
	case KindRemote:
		return ExitRemote
	default:
		return ExitInternal
	}
}

// KindName returns the snake_case category for an error, e.g. "input_error".
func KindName(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if name, ok := kindNames[e.Kind]; ok {
			return strcase.ToSnake(name)
		}
	}
	return "internal_error"
}

// Handle logs a fatal run error and returns the exit code the process should
// terminate with.
func Handle(ctx context.Context, err error) int {
	if err == nil {
		return ExitOK
	}

	log := logger.FromContext(ctx)

	code := "internal_error"
	var e *Error
	if errors.As(err, &e) {
		code = e.Code
	}

	log.Err(err).Error("run failed", logger.Data{
		"category": KindName(err),
		"code":     code,
	})

	return ExitCode(err)
}
